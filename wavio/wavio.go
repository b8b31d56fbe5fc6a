// Package wavio reads and writes linear PCM RIFF/WAVE files as
// normalized per-channel float buffers.
//
// Only uncompressed PCM at 8-bit (unsigned) or 16-bit (signed,
// little-endian) with one or two channels is supported; anything else
// is rejected with a *FormatError. Decoded samples are mapped into
// [-1, 1] and written back at the source bit depth.
package wavio

import (
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/wav"
)

// Buffer holds decoded audio as one float64 sequence per channel.
// All channels have equal length; samples are in [-1, 1] after decode.
type Buffer struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.Channels) }

// ReadFile decodes a WAV file into a Buffer.
//
// A missing or unreadable file returns the wrapped os error, so
// errors.Is(err, os.ErrNotExist) works. A file that is not a valid
// RIFF/WAVE container, not linear PCM, not 8- or 16-bit, or not
// mono/stereo returns a *FormatError naming the offending field.
func ReadFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, &FormatError{Field: "container", Detail: "not a valid RIFF/WAVE file"}
	}

	if dec.WavAudioFormat != formatPCM {
		return nil, &FormatError{
			Field:  "audio format",
			Detail: fmt.Sprintf("format tag %d is not linear PCM", dec.WavAudioFormat),
		}
	}
	bitDepth := int(dec.BitDepth)
	if bitDepth != 8 && bitDepth != 16 {
		return nil, &FormatError{
			Field:  "bit depth",
			Detail: fmt.Sprintf("%d-bit samples (only 8-bit and 16-bit PCM supported)", bitDepth),
		}
	}
	numChans := int(dec.NumChans)
	if numChans < 1 || numChans > 2 {
		return nil, &FormatError{
			Field:  "channels",
			Detail: fmt.Sprintf("%d channels (only mono and stereo supported)", numChans),
		}
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, &FormatError{Field: "data chunk", Detail: err.Error()}
	}
	if pcm == nil || pcm.Format == nil {
		return nil, &FormatError{Field: "data chunk", Detail: "empty PCM buffer"}
	}

	frames := len(pcm.Data) / numChans
	buf := &Buffer{
		SampleRate: int(dec.SampleRate),
		BitDepth:   bitDepth,
		Channels:   make([][]float64, numChans),
	}
	for c := range buf.Channels {
		buf.Channels[c] = make([]float64, frames)
	}

	// De-interleave and normalize. 8-bit PCM is unsigned with a 128
	// midpoint; 16-bit is signed. The decoder hands back float32
	// samples normalized with its own conventions ((s-127.5)/127.5 and
	// s/32768), so first invert that — exact for 8- and 16-bit — to
	// recover the raw PCM integers this package's mapping is defined on.
	for i := 0; i < frames; i++ {
		for c := 0; c < numChans; c++ {
			f := float64(pcm.Data[i*numChans+c])
			if bitDepth == 8 {
				v := int(math.Round(f*127.5 + 127.5))
				buf.Channels[c][i] = float64(v-128) / 128.0
			} else {
				v := int(math.Round(f * 32768.0))
				buf.Channels[c][i] = float64(v) / 32768.0
			}
		}
	}
	return buf, nil
}

const formatPCM = 1
