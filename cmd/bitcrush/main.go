// Command bitcrush degrades a PCM WAV file by reducing its effective
// bit depth and sample resolution, blends the result with the
// original, and renormalizes.
//
//	bitcrush process input.wav output.wav -p gameboy
//	bitcrush process input.wav output.wav -b 4 -s 8 -m 1.0
//
// Stage markers are printed to stdout one per line so a wrapping
// process can track progress; diagnostics and errors go to stderr.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cwbudde/algo-bitcrush/pipeline"
	"github.com/cwbudde/algo-bitcrush/preset"
	"github.com/cwbudde/algo-bitcrush/progress"
)

func main() {
	inv, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n%s", err, usageText)
		os.Exit(1)
	}

	params, err := preset.Resolve(inv.presetName, inv.custom)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(inv.verbose)
	defer log.Sync()

	p := pipeline.New(
		pipeline.WithReporter(progress.NewWriterReporter(os.Stdout)),
		pipeline.WithLogger(log),
	)
	job := pipeline.Job{
		InputPath:  inv.inputPath,
		OutputPath: inv.outputPath,
		Params:     params,
	}
	if err := p.Run(job); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a stderr console logger: debug level with -v,
// otherwise errors only. Stdout stays reserved for progress markers.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
