package pipeline

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/cwbudde/algo-bitcrush/crush"
	"github.com/cwbudde/algo-bitcrush/preset"
	"github.com/cwbudde/algo-bitcrush/progress"
	"github.com/cwbudde/algo-bitcrush/wavio"
)

// recordingReporter captures the stage sequence of a run.
type recordingReporter struct {
	events []progress.Event
}

func (r *recordingReporter) Report(ev progress.Event) {
	r.events = append(r.events, ev)
}

func (r *recordingReporter) stages() []progress.Stage {
	out := make([]progress.Stage, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Stage
	}
	return out
}

func writeSineWAV(t *testing.T, path string, sampleRate, bitDepth, frames int) {
	t.Helper()
	ch := make([]float64, frames)
	for i := range ch {
		ch[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
	}
	buf := &wavio.Buffer{
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Channels:   [][]float64{ch},
	}
	if err := wavio.WriteFile(path, buf); err != nil {
		t.Fatalf("writing test input: %v", err)
	}
}

// writeFloatWAV writes a 32-bit IEEE-float WAV header, which the codec
// must reject.
func writeFloatWAV(t *testing.T, path string) {
	t.Helper()
	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+64))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(3)) // IEEE float
	binary.Write(&b, binary.LittleEndian, uint16(1))
	binary.Write(&b, binary.LittleEndian, uint32(44100))
	binary.Write(&b, binary.LittleEndian, uint32(44100*4))
	binary.Write(&b, binary.LittleEndian, uint16(4))
	binary.Write(&b, binary.LittleEndian, uint16(32))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(64))
	b.Write(make([]byte, 64))
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunCrushedSine(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")
	writeSineWAV(t, in, 44100, 16, 44100)

	rep := &recordingReporter{}
	p := New(WithReporter(rep), WithLogger(zaptest.NewLogger(t)))
	job := Job{
		InputPath:  in,
		OutputPath: out,
		Params:     crush.Params{BitDepth: 4, SampleRateReduction: 8, Mix: 1},
	}
	if err := p.Run(job); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := wavio.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if got.Frames() != 44100 || got.SampleRate != 44100 || got.BitDepth != 16 {
		t.Fatalf("output is %d frames %d Hz %d-bit, want 44100/44100/16",
			got.Frames(), got.SampleRate, got.BitDepth)
	}

	// 4-bit quantization allows at most 2^4 amplitude steps; the sine
	// only spans half the grid, so 16 is a generous ceiling even after
	// normalization rescales the levels.
	levels := map[float64]bool{}
	for _, s := range got.Channels[0] {
		levels[s] = true
	}
	if len(levels) > 16 {
		t.Fatalf("output has %d distinct levels, want at most 16", len(levels))
	}

	// Every aligned group of 8 samples must be constant.
	ch := got.Channels[0]
	for start := 0; start < len(ch); start += 8 {
		end := start + 8
		if end > len(ch) {
			end = len(ch)
		}
		for i := start; i < end; i++ {
			if ch[i] != ch[start] {
				t.Fatalf("block at %d not constant: sample %d = %g, head = %g",
					start, i, ch[i], ch[start])
			}
		}
	}
}

func TestRunPresetIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	writeSineWAV(t, in, 44100, 16, 44100)

	params, err := preset.Resolve("gameboy", nil)
	if err != nil {
		t.Fatalf("Resolve(gameboy) error = %v", err)
	}

	p := New()
	outA := filepath.Join(dir, "a.wav")
	outB := filepath.Join(dir, "b.wav")
	for _, out := range []string{outA, outB} {
		if err := p.Run(Job{InputPath: in, OutputPath: out, Params: params}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	}

	a, err := os.ReadFile(outA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(outB)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("repeated preset runs produced different output files")
	}
}

func TestRunPreservesEightBitDepth(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.WAV")
	out := filepath.Join(dir, "out.wav")
	writeSineWAV(t, in, 22050, 8, 2048)

	p := New()
	job := Job{
		InputPath:  in,
		OutputPath: out,
		Params:     crush.Params{BitDepth: 6, SampleRateReduction: 4, Mix: 1},
	}
	if err := p.Run(job); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := wavio.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if got.BitDepth != 8 {
		t.Fatalf("output bit depth = %d, want 8", got.BitDepth)
	}
}

func TestRunRejectsFloatInputWithoutOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "float.wav")
	out := filepath.Join(dir, "out.wav")
	writeFloatWAV(t, in)

	rep := &recordingReporter{}
	p := New(WithReporter(rep))
	job := Job{
		InputPath:  in,
		OutputPath: out,
		Params:     crush.Params{BitDepth: 4, SampleRateReduction: 8, Mix: 1},
	}
	err := p.Run(job)
	if !errors.Is(err, wavio.ErrUnsupportedFormat) {
		t.Fatalf("Run(float input) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("output exists after failed run: %v", statErr)
	}

	stages := rep.stages()
	if last := stages[len(stages)-1]; last != progress.StageError {
		t.Fatalf("last stage = %s, want error", last)
	}
	for _, s := range stages {
		if s == progress.StageApplying || s == progress.StageDone {
			t.Fatalf("stage %s reported after a failed decode", s)
		}
	}
}

func TestRunStageOrder(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	writeSineWAV(t, in, 8000, 16, 800)

	rep := &recordingReporter{}
	p := New(WithReporter(rep))
	job := Job{
		InputPath:  in,
		OutputPath: filepath.Join(dir, "out.wav"),
		Params:     crush.Params{BitDepth: 8, SampleRateReduction: 2, Mix: 0.5},
	}
	if err := p.Run(job); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []progress.Stage{
		progress.StageReading,
		progress.StageAnalyzing,
		progress.StageApplying,
		progress.StageNormalizing,
		progress.StageDone,
	}
	got := rep.stages()
	if len(got) != len(want) {
		t.Fatalf("got stages %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stage %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRunInvalidParamsFailBeforeIO(t *testing.T) {
	rep := &recordingReporter{}
	p := New(WithReporter(rep))
	job := Job{
		InputPath:  "does-not-matter.wav",
		OutputPath: "ignored.wav",
		Params:     crush.Params{BitDepth: 0, SampleRateReduction: 8, Mix: 1},
	}
	err := p.Run(job)
	var verr *crush.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Run(invalid params) error = %v, want *ValidationError", err)
	}
	for _, s := range rep.stages() {
		if s == progress.StageReading {
			t.Fatal("reading stage reported before parameter validation")
		}
	}
}
