package wavio

import (
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/wav"
)

// WriteFile encodes buf as a PCM WAV file at buf.BitDepth.
//
// The file is written to a temporary path in the destination directory
// and renamed over path once the encoder has been closed, so a failed
// write never leaves a truncated destination behind.
func WriteFile(path string, buf *Buffer) error {
	if buf.BitDepth != 8 && buf.BitDepth != 16 {
		return &FormatError{
			Field:  "bit depth",
			Detail: fmt.Sprintf("cannot encode %d-bit samples", buf.BitDepth),
		}
	}
	numChans := buf.NumChannels()
	if numChans < 1 || numChans > 2 {
		return &FormatError{
			Field:  "channels",
			Detail: fmt.Sprintf("cannot encode %d channels", numChans),
		}
	}

	tmp := path + ".tmp"
	if err := encodeTo(tmp, buf); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}

func encodeTo(path string, buf *Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	numChans := buf.NumChannels()
	frames := buf.Frames()

	data := make([]int, frames*numChans)
	for i := 0; i < frames; i++ {
		for c := 0; c < numChans; c++ {
			data[i*numChans+c] = encodeSample(buf.Channels[c][i], buf.BitDepth)
		}
	}

	// The encoder's buffer-based Write re-derives PCM integers from
	// normalized floats, so hand it the already-encoded samples one
	// frame at a time instead to keep encodeSample authoritative.
	enc := wav.NewEncoder(f, buf.SampleRate, buf.BitDepth, numChans, formatPCM)
	for i := 0; i < frames; i++ {
		var frame any
		if buf.BitDepth == 8 {
			s := make([]uint8, numChans)
			for c := 0; c < numChans; c++ {
				s[c] = uint8(data[i*numChans+c])
			}
			frame = s
		} else {
			s := make([]int16, numChans)
			for c := 0; c < numChans; c++ {
				s[c] = int16(data[i*numChans+c])
			}
			frame = s
		}
		if err := enc.WriteFrame(frame); err != nil {
			enc.Close()
			f.Close()
			return fmt.Errorf("encode output: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// encodeSample is the inverse of the decode mapping, clamped to the
// representable integer range to absorb residual float error upstream.
func encodeSample(s float64, bitDepth int) int {
	if bitDepth == 8 {
		return int(core.Clamp(math.Round(s*128)+128, 0, 255))
	}
	return int(core.Clamp(math.Round(s*32768), -32768, 32767))
}
