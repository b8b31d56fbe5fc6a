package crush

import "fmt"

// Parameter ranges. BitDepth is capped at 16 because source material is
// at most 16-bit PCM; crushing beyond the source depth is a no-op.
const (
	MinBitDepth            = 1
	MaxBitDepth            = 16
	MinSampleRateReduction = 1
	MaxSampleRateReduction = 32
	MinMix                 = 0.0
	MaxMix                 = 1.0
)

// Params holds the canonical bitcrusher settings. A Params value is
// treated as immutable once validated; it is always passed by value.
type Params struct {
	// BitDepth is the target amplitude resolution in bits, [1, 16].
	// 16 is effectively transparent at float precision.
	BitDepth int

	// SampleRateReduction is the sample-and-hold block length, [1, 32].
	// 1 means no decimation.
	SampleRateReduction int

	// Mix is the wet-signal fraction in [0, 1].
	Mix float64
}

// ValidationError reports a parameter outside its declared range.
type ValidationError struct {
	Field string
	Value interface{}
	Range string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v (valid range %s)", e.Field, e.Value, e.Range)
}

// Validate checks every field against its declared range. It returns a
// *ValidationError naming the first offending field, or nil.
func (p Params) Validate() error {
	if p.BitDepth < MinBitDepth || p.BitDepth > MaxBitDepth {
		return &ValidationError{
			Field: "bit depth",
			Value: p.BitDepth,
			Range: fmt.Sprintf("%d..%d", MinBitDepth, MaxBitDepth),
		}
	}
	if p.SampleRateReduction < MinSampleRateReduction || p.SampleRateReduction > MaxSampleRateReduction {
		return &ValidationError{
			Field: "sample rate reduction",
			Value: p.SampleRateReduction,
			Range: fmt.Sprintf("%d..%d", MinSampleRateReduction, MaxSampleRateReduction),
		}
	}
	if p.Mix < MinMix || p.Mix > MaxMix || p.Mix != p.Mix {
		return &ValidationError{
			Field: "mix",
			Value: p.Mix,
			Range: fmt.Sprintf("%.1f..%.1f", MinMix, MaxMix),
		}
	}
	return nil
}
