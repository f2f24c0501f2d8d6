// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// integerTolerance is the tolerance used for detecting whether a Number
// is "an integer": within 1e-11 of the nearest integer.
const integerTolerance = 1e-11

// Number is an arbitrary-precision rational, approximated by floating
// point, carrying a unit vector of numerator and denominator units.
// The magnitude is stored as a cty.Value of cty.Number type so that
// arithmetic goes through go-cty's *big.Float machinery rather than a
// bespoke bignum implementation.
type Number struct {
	val cty.Value // always of type cty.Number
	numerator []string
	denominator []string
	asSlash bool // set by the deprecated slash-division operator path
}

func (Number) isValue() {}
func (Number) Kind() Kind { return KindNumber }

// NewNumber constructs a unitless number.
func NewNumber(f float64) Number {
	return Number{val: cty.NumberFloatVal(f)}
}

// NewNumberWithUnits constructs a number with the given numerator and
// denominator unit multisets. Either may be nil.
func NewNumberWithUnits(f float64, numerator, denominator []string) Number {
	return Number{val: cty.NumberFloatVal(f), numerator: cloneUnits(numerator), denominator: cloneUnits(denominator)}
}

// NewNumberFromBigFloat constructs a number from an already-parsed
// arbitrary-precision value, used when a parser hands us a literal too
// precise to round-trip through float64.
func NewNumberFromBigFloat(f *big.Float, numerator, denominator []string) Number {
	return Number{val: cty.NumberVal(f), numerator: cloneUnits(numerator), denominator: cloneUnits(denominator)}
}

func cloneUnits(units []string) []string {
	if len(units) == 0 {
		return nil
	}
	out := make([]string, len(units))
	copy(out, units)
	return out
}

// Float64 returns the number's value approximated as a float64.
func (n Number) Float64() float64 {
	f, _ := n.val.AsBigFloat().Float64()
	return f
}

// BigFloat returns the number's exact stored magnitude.
func (n Number) BigFloat() *big.Float {
	return n.val.AsBigFloat()
}

// Numerator and Denominator expose the unit vector.
func (n Number) Numerator() []string { return cloneUnits(n.numerator) }
func (n Number) Denominator() []string { return cloneUnits(n.denominator) }

// HasUnits reports whether the number carries any unit at all.
func (n Number) HasUnits() bool {
	return len(n.numerator) > 0 || len(n.denominator) > 0
}

// Unitless reports the common case of a dimensionless number.
func (n Number) Unitless() bool { return !n.HasUnits() }

// IsInt reports whether the number is within integerTolerance of an
// integer.
func (n Number) IsInt() bool {
	f := n.Float64()
	return math.Abs(f-math.Round(f)) < integerTolerance
}

// AsSlash reports whether this number is the result of the deprecated
// slash-division operator, which callers may want to render as "a/b"
// rather than the computed value under certain legacy compatibility
// modes.
func (n Number) AsSlash() bool { return n.asSlash }

// WithAsSlash returns a copy of n flagged as a slash-division result.
func (n Number) WithAsSlash() Number {
	n.asSlash = true
	return n
}

// unitString renders the unit vector the way Sass does: a single
// numerator unit with no denominator prints bare ("px"); anything more
// complex prints as "num1*num2/den1*den2".
func (n Number) unitString() string {
	if len(n.numerator) == 0 && len(n.denominator) == 0 {
		return ""
	}
	if len(n.numerator) == 1 && len(n.denominator) == 0 {
		return n.numerator[0]
	}
	num := strings.Join(n.numerator, "*")
	if len(n.denominator) == 0 {
		return num
	}
	den := strings.Join(n.denominator, "*")
	if num == "" {
		return "/" + den
	}
	return num + "/" + den
}

func (n Number) String() string {
	return formatNumber(n.val) + n.unitString()
}

// formatNumber renders a cty.Number the way CSS wants numbers rendered:
// no trailing ".0", no unnecessary leading zero tricks beyond Go's %v.
// numLit wraps a bare float64 for use with formatNumber when there's no
// full Number value at hand (e.g. formatting one channel of a color).
func numLit(f float64) cty.Value {
	return cty.NumberFloatVal(f)
}

func formatNumber(v cty.Value) string {
	bf := v.AsBigFloat()
	if bf.IsInt() {
		i, _ := bf.Int(nil)
		return i.String()
	}
	return strings.TrimRight(strings.TrimRight(bf.Text('f', -1), "0"), ".")
}

// sameUnitVector reports whether every unit in a can be converted into
// some unit in b using the standard unit conversion table, which is
// what it means for two numbers to be "compatible": one's units can be
// converted to the other's.
func sameUnitVector(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ua := range a {
		found := false
		for i, ub := range b {
			if used[i] {
				continue
			}
			if unitConvertible(ua, ub) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Compatible reports whether a and b have the same numerator/denominator
// unit shape, so that == and comparisons can proceed after conversion.
func (a Number) Compatible(b Number) bool {
	return sameUnitVector(a.numerator, b.numerator) && sameUnitVector(a.denominator, b.denominator)
}

// convertValueTo converts n's magnitude into the given target unit
// vectors, which must be Compatible with n's own, returning the
// converted float64 magnitude.
func (n Number) convertValueTo(targetNum, targetDen []string) (float64, bool) {
	bf, ok := n.convertValueToBig(targetNum, targetDen)
	if !ok {
		return 0, false
	}
	f, _ := bf.Float64()
	return f, true
}

// convertValueToBig is convertValueTo but keeps the converted magnitude
// as a *big.Float throughout, so a caller doing further arithmetic on it
// (combine, Mul, Div) never rounds through float64 on the way.
func (n Number) convertValueToBig(targetNum, targetDen []string) (*big.Float, bool) {
	bf := n.BigFloat()
	bf, ok := convertVectorBig(bf, n.numerator, targetNum, false)
	if !ok {
		return nil, false
	}
	bf, ok = convertVectorBig(bf, n.denominator, targetDen, true)
	if !ok {
		return nil, false
	}
	return bf, true
}

// convertVectorBig applies, in order, the conversion factor from each
// unit in "from" to the corresponding (by position after a greedy
// compatible match) unit in "to". invert is true for denominator units,
// since a larger denominator unit divides the value rather than
// multiplying it. The conversion factors themselves are ordinary
// float64 constants (internal/sassvalue/units.go's table), but the
// value being converted keeps its full *big.Float precision throughout.
func convertVectorBig(value *big.Float, from, to []string, invert bool) (*big.Float, bool) {
	if len(from) != len(to) {
		return nil, false
	}
	usedTo := make([]bool, len(to))
	for _, uf := range from {
		matched := false
		for i, ut := range to {
			if usedTo[i] {
				continue
			}
			factor, ok := convertFactor(uf, ut)
			if !ok {
				continue
			}
			usedTo[i] = true
			matched = true
			bigFactor := big.NewFloat(factor)
			if invert {
				value = new(big.Float).Quo(value, bigFactor)
			} else {
				value = new(big.Float).Mul(value, bigFactor)
			}
			break
		}
		if !matched {
			return nil, false
		}
	}
	return value, true
}

// Add implements the operator table's number+number row: unit-compatible
// add, result in the left operand's units.
func Add(a, b Number) (Number, error) {
	return combine(a, b, func(z, x, y *big.Float) *big.Float { return z.Add(x, y) })
}

// Sub implements number-number.
func Sub(a, b Number) (Number, error) {
	return combine(a, b, func(z, x, y *big.Float) *big.Float { return z.Sub(x, y) })
}

// Mod implements number%number, carrying the left operand's unit.
func Mod(a, b Number) (Number, error) {
	return combine(a, b, func(z, x, y *big.Float) *big.Float {
		if y.Sign() == 0 {
			return z.SetFloat64(math.NaN())
		}
		return z.Set(bigFloatMod(x, y))
	})
}

// bigFloatMod computes Sass's flavor of modulo (the remainder of
// truncated division, adjusted into the divisor's sign when it
// disagrees with the truncated remainder) without rounding its operands
// through float64 first.
func bigFloatMod(x, y *big.Float) *big.Float {
	q := new(big.Float).Quo(x, y)
	qi, _ := q.Int(nil) // truncates toward zero, matching math.Mod
	r := new(big.Float).Sub(x, new(big.Float).Mul(new(big.Float).SetInt(qi), y))
	if r.Sign() != 0 && (r.Sign() < 0) != (y.Sign() < 0) {
		r.Add(r, y)
	}
	return r
}

// combine runs op (one of the four-argument big.Float accumulator forms
// above) on a and b's magnitudes after converting b into a's units,
// keeping the whole computation in *big.Float so the go-cty-backed
// arbitrary-precision magnitude a literal carried in is never rounded
// through float64 on the way to the result.
func combine(a, b Number, op func(z, x, y *big.Float) *big.Float) (Number, error) {
	if !a.Compatible(b) {
		return Number{}, fmt.Errorf("%s and %s are incompatible units", a.unitString(), b.unitString())
	}
	bv, ok := b.convertValueToBig(a.numerator, a.denominator)
	if !ok {
		return Number{}, fmt.Errorf("%s and %s are incompatible units", a.unitString(), b.unitString())
	}
	result := op(new(big.Float), a.BigFloat(), bv)
	return NewNumberFromBigFloat(result, a.numerator, a.denominator), nil
}

// Mul implements number*number: unit multiplication with cancellation.
func Mul(a, b Number) (Number, error) {
	num := append(append([]string{}, a.numerator...), b.numerator...)
	den := append(append([]string{}, a.denominator...), b.denominator...)
	value := new(big.Float).Mul(a.BigFloat(), b.BigFloat())
	num, den, value = cancelUnits(num, den, value)
	return NewNumberFromBigFloat(value, num, den), nil
}

// Div implements number/number (the non-deprecated arithmetic path; the
// deprecated slash-division string-rendering path lives in operators.go).
func Div(a, b Number) (Number, error) {
	num := append(append([]string{}, a.numerator...), b.denominator...)
	den := append(append([]string{}, a.denominator...), b.numerator...)
	value := new(big.Float).Quo(a.BigFloat(), b.BigFloat())
	num, den, value = cancelUnits(num, den, value)
	return NewNumberFromBigFloat(value, num, den), nil
}

// Neg implements unary minus on a number.
func Neg(a Number) Number {
	return NewNumberFromBigFloat(new(big.Float).Neg(a.BigFloat()), a.numerator, a.denominator)
}

// cancelUnits repeatedly removes one numerator and one denominator unit
// that convert into each other, applying the resulting conversion
// factor to value, until no more pairs cancel.
func cancelUnits(num, den []string, value *big.Float) ([]string, []string, *big.Float) {
	num = append([]string{}, num...)
	den = append([]string{}, den...)
	for i := 0; i < len(num); i++ {
		cancelled := false
		for j := 0; j < len(den); j++ {
			factor, ok := convertFactor(den[j], num[i])
			if !ok {
				continue
			}
			value = new(big.Float).Mul(value, big.NewFloat(factor))
			num = append(num[:i], num[i+1:]...)
			den = append(den[:j], den[j+1:]...)
			i--
			cancelled = true
			break
		}
		if cancelled {
			continue
		}
	}
	sort.Strings(num)
	sort.Strings(den)
	return num, den, value
}

// NumberEqual implements number == number: convert to a canonical unit
// set then compare.
func NumberEqual(a, b Number) bool {
	if !a.Compatible(b) {
		return false
	}
	bv, ok := b.convertValueTo(a.numerator, a.denominator)
	if !ok {
		return false
	}
	return math.Abs(a.Float64()-bv) < integerTolerance
}

// NumberCompare implements <, <=, >, >= for compatible numbers. The
// second return value is false if the numbers are not comparable.
func NumberCompare(a, b Number) (int, bool) {
	if !a.Compatible(b) {
		return 0, false
	}
	bv, ok := b.convertValueTo(a.numerator, a.denominator)
	if !ok {
		return 0, false
	}
	av := a.Float64()
	switch {
	case av < bv:
		return -1, true
	case av > bv:
		return 1, true
	default:
		return 0, true
	}
}
