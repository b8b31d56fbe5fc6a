package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-bitcrush/crush"
)

// invocation is the parsed command line before preset resolution.
type invocation struct {
	inputPath  string
	outputPath string
	presetName string
	custom     *crush.Params
	verbose    bool
}

const usageText = `Usage: bitcrush process <input.wav> [output.wav] [options]

Applies a bitcrusher effect to a PCM WAV file (8- or 16-bit, mono or
stereo). Output bit depth matches the input. When the output path is
omitted it defaults to <input>_crushed.wav next to the input.

Options:
  -p <name>   preset: gameboy, nes, sega, snes, c64, atari, mild,
              heavy, extreme (or custom to use -b/-s/-m)
  -b <n>      bit depth, 1..16 (required without a preset)
  -s <n>      sample rate reduction, 1..32 (required without a preset)
  -m <x>      wet/dry mix, 0.0..1.0 (required without a preset)
  -v          verbose diagnostics on stderr
`

// parseArgs parses os.Args[1:]. The err text is user-facing; flag
// errors are printed to errOut by the flag package itself.
func parseArgs(args []string, errOut io.Writer) (*invocation, error) {
	if len(args) < 1 || args[0] != "process" {
		return nil, fmt.Errorf("expected the process command")
	}
	rest := args[1:]
	if len(rest) < 1 || strings.HasPrefix(rest[0], "-") {
		return nil, fmt.Errorf("missing input path")
	}

	inv := &invocation{inputPath: rest[0]}
	rest = rest[1:]
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		inv.outputPath = rest[0]
		rest = rest[1:]
	} else {
		inv.outputPath = defaultOutputPath(inv.inputPath)
	}

	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(errOut)
	presetName := fs.String("p", "", "preset name")
	bitDepth := fs.Int("b", 0, "bit depth (1..16)")
	reduction := fs.Int("s", 0, "sample rate reduction (1..32)")
	mix := fs.Float64("m", -1, "wet/dry mix (0..1)")
	verbose := fs.Bool("v", false, "verbose diagnostics")
	if err := fs.Parse(rest); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	inv.presetName = *presetName
	inv.verbose = *verbose

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if inv.presetName != "" && inv.presetName != "custom" {
		// Preset is authoritative; explicit overrides are ignored.
		return inv, nil
	}
	for _, name := range []string{"b", "s", "m"} {
		if !set[name] {
			return nil, &crush.ValidationError{
				Field: "-" + name,
				Value: "(missing)",
				Range: "required when no preset is given",
			}
		}
	}
	inv.custom = &crush.Params{
		BitDepth:            *bitDepth,
		SampleRateReduction: *reduction,
		Mix:                 *mix,
	}
	return inv, nil
}

// defaultOutputPath mirrors the front end's auto-generated name:
// /dir/name.wav -> /dir/name_crushed.wav.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(input, ext)
	return stem + "_crushed" + ext
}
