// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

// The conversion table below reproduces, bit-for-bit, the standard Sass
// unit table. Units not listed here have no known conversions and are
// retained symbolically: arithmetic between incompatible or unknown
// units is an error, but a number can still carry such a unit
// unmolested.
//
// Each entry maps a unit name to the factors that convert a value in
// that unit into each unit of its dimension (1in is 96px, so the "in"
// entry holds "px": 96).
var unitConversions = map[string]map[string]float64{
	// Length, canonical unit: px.
	"in": {"in": 1, "cm": 2.54, "pc": 6, "mm": 25.4, "q": 101.6, "pt": 72, "px": 96},
	"cm": {"in": 1.0 / 2.54, "cm": 1, "pc": 6.0 / 2.54, "mm": 10, "q": 40, "pt": 72.0 / 2.54, "px": 96.0 / 2.54},
	"pc": {"in": 1.0 / 6, "cm": 2.54 / 6, "pc": 1, "mm": 25.4 / 6, "q": 101.6 / 6, "pt": 12, "px": 16},
	"mm": {"in": 1.0 / 25.4, "cm": 0.1, "pc": 6.0 / 25.4, "mm": 1, "q": 4, "pt": 72.0 / 25.4, "px": 96.0 / 25.4},
	"q": {"in": 1.0 / 101.6, "cm": 0.025, "pc": 6.0 / 101.6, "mm": 0.25, "q": 1, "pt": 72.0 / 101.6, "px": 96.0 / 101.6},
	"pt": {"in": 1.0 / 72, "cm": 2.54 / 72, "pc": 1.0 / 12, "mm": 25.4 / 72, "q": 101.6 / 72, "pt": 1, "px": 96.0 / 72},
	"px": {"in": 1.0 / 96, "cm": 2.54 / 96, "pc": 1.0 / 16, "mm": 25.4 / 96, "q": 101.6 / 96, "pt": 72.0 / 96, "px": 1},

	// Angle, canonical unit: deg.
	"deg": {"deg": 1, "grad": 1.0 / 0.9, "rad": 3.141592653589793 / 180, "turn": 1.0 / 360},
	"grad": {"deg": 0.9, "grad": 1, "rad": (3.141592653589793 / 180) * 0.9, "turn": 0.9 / 360},
	"rad": {"deg": 180 / 3.141592653589793, "grad": (180 / 3.141592653589793) / 0.9, "rad": 1, "turn": (180 / 3.141592653589793) / 360},
	"turn": {"deg": 360, "grad": 360 / 0.9, "rad": 2 * 3.141592653589793, "turn": 1},

	// Time, canonical unit: s.
	"s": {"s": 1, "ms": 1000},
	"ms": {"s": 0.001, "ms": 1},

	// Frequency, canonical unit: Hz.
	"Hz": {"Hz": 1, "kHz": 0.001},
	"kHz": {"Hz": 1000, "kHz": 1},

	// Resolution, canonical unit: dpi.
	"dpi": {"dpi": 1, "dpcm": 1 / 2.54, "dppx": 1.0 / 96},
	"dpcm": {"dpi": 2.54, "dpcm": 1, "dppx": 2.54 / 96},
	"dppx": {"dpi": 96, "dpcm": 96.0 / 2.54, "dppx": 1},
}

// convertFactor returns the multiplier to convert a value measured in
// `from` units into `to` units, and whether such a conversion is known.
func convertFactor(from, to string) (float64, bool) {
	if from == to {
		return 1, true
	}
	table, ok := unitConversions[from]
	if !ok {
		return 0, false
	}
	factor, ok := table[to]
	return factor, ok
}

// unitConvertible reports whether a single unit can be converted into
// another, used for the numerator/denominator compatibility test.
func unitConvertible(from, to string) bool {
	_, ok := convertFactor(from, to)
	return ok
}

// canonicalDimensionUnit maps each known unit to the canonical unit of
// its dimension (one fixed unit per dimension of unitConversions
// above), used only to build a hash/equality key for numbers so that
// "(1px * 1) == 1px" holds as a map key even when two equal numbers
// were constructed with differently-ordered unit vectors.
var canonicalDimensionUnit = map[string]string{
	"in": "px", "cm": "px", "pc": "px", "mm": "px", "q": "px", "pt": "px", "px": "px",
	"deg": "deg", "grad": "deg", "rad": "deg", "turn": "deg",
	"s": "s", "ms": "s",
	"Hz": "Hz", "kHz": "Hz",
	"dpi": "dpi", "dpcm": "dpi", "dppx": "dpi",
}
