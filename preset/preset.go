// Package preset resolves named bitcrusher presets and custom
// parameter overrides into validated crush.Params.
package preset

import (
	"github.com/cwbudde/algo-bitcrush/crush"
)

// Custom is the reserved preset name that selects explicit parameter
// overrides instead of a table entry.
const Custom = "custom"

// TableVersion identifies the tuning revision of the preset table.
// Bump it whenever an entry changes so output produced with older
// tables can be told apart.
const TableVersion = 1

// Table maps each concrete preset name to its fixed parameters. The
// console entries are tuned from the hardware they evoke rather than
// measured: Game Boy and C64 expose 4-bit volume steps, the NES 2A03
// mixes 4-bit channels with a crude DAC, the Genesis plays 8-bit DAC
// samples at roughly half the CD rate, the SNES SPC700 is 16-bit but
// band-limited to 32 kHz, and the Atari TIA is 4-bit and badly
// undersampled. mild/heavy/extreme are plain intensity steps.
var Table = map[string]crush.Params{
	"gameboy": {BitDepth: 4, SampleRateReduction: 8, Mix: 1.0},
	"nes":     {BitDepth: 5, SampleRateReduction: 6, Mix: 1.0},
	"sega":    {BitDepth: 8, SampleRateReduction: 2, Mix: 1.0},
	"snes":    {BitDepth: 12, SampleRateReduction: 2, Mix: 1.0},
	"c64":     {BitDepth: 4, SampleRateReduction: 4, Mix: 1.0},
	"atari":   {BitDepth: 3, SampleRateReduction: 12, Mix: 1.0},
	"mild":    {BitDepth: 10, SampleRateReduction: 2, Mix: 0.5},
	"heavy":   {BitDepth: 5, SampleRateReduction: 8, Mix: 0.9},
	"extreme": {BitDepth: 2, SampleRateReduction: 20, Mix: 1.0},
}

// Names returns every selectable preset identifier in UI order,
// Custom first.
func Names() []string {
	return []string{
		Custom,
		"gameboy", "nes", "sega", "snes", "c64", "atari",
		"mild", "heavy", "extreme",
	}
}

// Resolve turns a preset selection into canonical parameters.
//
// A non-empty name other than Custom is authoritative: the table entry
// is returned and custom is ignored entirely. An empty name or Custom
// requires custom to be non-nil; its values are validated against the
// declared ranges. The returned Params are always valid.
func Resolve(name string, custom *crush.Params) (crush.Params, error) {
	if name != "" && name != Custom {
		p, ok := Table[name]
		if !ok {
			return crush.Params{}, &crush.ValidationError{
				Field: "preset",
				Value: name,
				Range: "one of custom, gameboy, nes, sega, snes, c64, atari, mild, heavy, extreme",
			}
		}
		return p, nil
	}

	if custom == nil {
		return crush.Params{}, &crush.ValidationError{
			Field: "parameters",
			Value: "(none)",
			Range: "bit depth, sample rate reduction, and mix are all required without a preset",
		}
	}
	if err := custom.Validate(); err != nil {
		return crush.Params{}, err
	}
	return *custom, nil
}
