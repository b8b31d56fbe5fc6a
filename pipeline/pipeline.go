// Package pipeline runs the full bitcrush transformation for one file:
// decode, crush, normalize, encode, with progress events at each stage.
package pipeline

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-bitcrush/crush"
	"github.com/cwbudde/algo-bitcrush/progress"
	"github.com/cwbudde/algo-bitcrush/wavio"
)

// Job describes a single transformation. Params must already be
// resolved and valid (see the preset package).
type Job struct {
	InputPath  string
	OutputPath string
	Params     crush.Params
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithReporter sets the progress sink. Defaults to a no-op.
func WithReporter(r progress.Reporter) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.reporter = r
		}
	}
}

// WithLogger sets the diagnostics logger. Defaults to a nop logger so
// library use stays silent.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// Pipeline is a reusable runner. It holds no per-job state, so one
// Pipeline may run distinct Jobs concurrently.
type Pipeline struct {
	reporter progress.Reporter
	log      *zap.Logger
}

// New creates a pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		reporter: progress.NopReporter{},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the job. The first failing stage reports a progress
// error event and returns; later stages do not run and no output file
// is produced on failure.
func (p *Pipeline) Run(job Job) error {
	start := time.Now()

	crusher, err := crush.NewCrusher(job.Params)
	if err != nil {
		return p.fail(err)
	}

	p.reporter.Report(progress.Event{Stage: progress.StageReading})
	buf, err := wavio.ReadFile(job.InputPath)
	if err != nil {
		return p.fail(err)
	}

	p.reporter.Report(progress.Event{
		Stage: progress.StageAnalyzing,
		Message: fmt.Sprintf("%d Hz, %d channel(s), %d-bit",
			buf.SampleRate, buf.NumChannels(), buf.BitDepth),
	})
	p.log.Debug("decoded input",
		zap.String("path", job.InputPath),
		zap.Int("sample_rate", buf.SampleRate),
		zap.Int("channels", buf.NumChannels()),
		zap.Int("bit_depth", buf.BitDepth),
		zap.Int("frames", buf.Frames()),
		zap.Float64("peak", crush.Peak(buf.Channels)),
		zap.Float64("rms", rms(buf.Channels)),
	)

	p.reporter.Report(progress.Event{Stage: progress.StageApplying})
	crusher.ProcessInPlace(buf.Channels)

	p.reporter.Report(progress.Event{Stage: progress.StageNormalizing})
	peak := crush.Normalize(buf.Channels)
	p.log.Debug("normalized", zap.Float64("pre_peak", peak))

	if err := wavio.WriteFile(job.OutputPath, buf); err != nil {
		return p.fail(err)
	}

	p.reporter.Report(progress.Event{
		Stage:   progress.StageDone,
		Message: job.OutputPath,
	})
	p.log.Debug("done",
		zap.String("path", job.OutputPath),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (p *Pipeline) fail(err error) error {
	p.reporter.Report(progress.Event{
		Stage:   progress.StageError,
		Message: err.Error(),
	})
	p.log.Error("processing failed", zap.Error(err))
	return err
}

func rms(channels [][]float64) float64 {
	var sum float64
	var n int
	for _, ch := range channels {
		for _, s := range ch {
			sum += s * s
		}
		n += len(ch)
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}
