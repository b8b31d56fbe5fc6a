package crush

import "math"

// Peak returns the maximum absolute sample magnitude across all
// channels. An empty buffer has peak 0.
func Peak(channels [][]float64) float64 {
	var peak float64
	for _, ch := range channels {
		for _, s := range ch {
			if a := math.Abs(s); a > peak {
				peak = a
			}
		}
	}
	return peak
}

// Normalize rescales all channels so the peak magnitude is exactly 1.
// A silent buffer (peak 0) is left unchanged. Returns the peak found
// before scaling.
func Normalize(channels [][]float64) float64 {
	peak := Peak(channels)
	if peak == 0 {
		return 0
	}
	gain := 1 / peak
	for _, ch := range channels {
		for i := range ch {
			ch[i] *= gain
		}
	}
	return peak
}
