// Package progress defines the stage markers the processing pipeline
// emits and the sinks that consume them.
//
// The caller maps marker lines to a progress bar, so the line texts in
// WriterReporter are a contract: each stage produces exactly one line
// on its own, in pipeline order.
package progress

import (
	"fmt"
	"io"
)

// Stage tags a point in the processing pipeline.
type Stage string

const (
	StageReading     Stage = "reading"
	StageAnalyzing   Stage = "analyzing"
	StageApplying    Stage = "applying"
	StageNormalizing Stage = "normalizing"
	StageDone        Stage = "done"
	StageError       Stage = "error"
)

// Event is a single progress update. Message carries stage-specific
// detail (stream facts, the output path, or the error text).
type Event struct {
	Stage   Stage
	Message string
}

// Reporter consumes progress events. Implementations must be safe to
// call from a single pipeline goroutine; they are never called
// concurrently for one run.
type Reporter interface {
	Report(ev Event)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Report(Event) {}

// WriterReporter renders events as the line-oriented stdout protocol,
// one marker line per event.
type WriterReporter struct {
	w io.Writer
}

// NewWriterReporter returns a reporter that writes marker lines to w.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

func (r *WriterReporter) Report(ev Event) {
	switch ev.Stage {
	case StageReading:
		fmt.Fprintln(r.w, "Reading input file...")
	case StageAnalyzing:
		fmt.Fprintf(r.w, "Loaded: %s\n", ev.Message)
	case StageApplying:
		fmt.Fprintln(r.w, "Applying bitcrusher effect...")
	case StageNormalizing:
		fmt.Fprintln(r.w, "Normalizing output...")
	case StageDone:
		fmt.Fprintf(r.w, "Output saved to: %s\n", ev.Message)
	case StageError:
		fmt.Fprintf(r.w, "Error: %s\n", ev.Message)
	}
}
