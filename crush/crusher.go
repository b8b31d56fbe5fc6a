package crush

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

// Crusher applies amplitude quantization, sample-and-hold decimation,
// and a wet/dry blend to float sample buffers in [-1, 1].
//
// Quantization snaps each sample to the nearest of 2^BitDepth evenly
// spaced levels across [-1, 1]. Decimation partitions each channel into
// consecutive blocks of SampleRateReduction samples, aligned to the
// buffer start, and replaces every sample in a block with the block's
// first quantized sample. The container sample rate and frame count are
// unchanged; the aliasing is the point.
//
// A Crusher is stateless between calls and safe for concurrent use on
// distinct buffers.
type Crusher struct {
	params Params

	// quantLevels is 2^(BitDepth-1), the scale of the quantization grid.
	quantLevels float64
}

// NewCrusher validates p and returns a crusher for those settings.
func NewCrusher(p Params) (*Crusher, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Crusher{
		params:      p,
		quantLevels: math.Exp2(float64(p.BitDepth - 1)),
	}, nil
}

// Params returns the settings the crusher was built with.
func (c *Crusher) Params() Params { return c.params }

// quantize snaps a sample to the nearest quantization level and clamps
// the result to [-1, 1].
func (c *Crusher) quantize(sample float64) float64 {
	return core.Clamp(math.Round(sample*c.quantLevels)/c.quantLevels, -1, 1)
}

// ProcessChannel crushes one channel in place.
func (c *Crusher) ProcessChannel(ch []float64) {
	r := c.params.SampleRateReduction
	mix := c.params.Mix

	var hold float64
	for i, dry := range ch {
		if i%r == 0 {
			hold = c.quantize(dry)
		}
		// dry + (wet-dry)*mix keeps mix=0 bit-exact to the input and
		// mix=1 bit-exact to the wet signal.
		ch[i] = dry + (hold-dry)*mix
	}
}

// ProcessInPlace crushes every channel in place. Channels are
// processed independently with block boundaries aligned to index 0,
// so stereo channels stay sample-index-aligned.
func (c *Crusher) ProcessInPlace(channels [][]float64) {
	for _, ch := range channels {
		c.ProcessChannel(ch)
	}
}
