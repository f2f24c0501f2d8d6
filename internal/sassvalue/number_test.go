// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

import "testing"

func TestNumberAddCommutative(t *testing.T) {
	cases := []struct {
		name string
		a, b Number
	}{
		{"unitless", NewNumber(1), NewNumber(2)},
		{"same units", NewNumberWithUnits(1, []string{"px"}, nil), NewNumberWithUnits(2, []string{"px"}, nil)},
		{"compatible units", NewNumberWithUnits(1, []string{"in"}, nil), NewNumberWithUnits(2, []string{"px"}, nil)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ab, err := Add(c.a, c.b)
			if err != nil {
				t.Fatalf("a+b: %v", err)
			}
			ba, err := Add(c.b, c.a)
			if err != nil {
				t.Fatalf("b+a: %v", err)
			}
			if !NumberEqual(ab, ba) {
				t.Fatalf("a+b=%s != b+a=%s", ab, ba)
			}
		})
	}
}

func TestNumberAddSubRoundTrip(t *testing.T) {
	a := NewNumberWithUnits(3, []string{"px"}, nil)
	b := NewNumberWithUnits(5, []string{"px"}, nil)

	sum, err := Add(a, b)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	back, err := Sub(sum, b)
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	if !NumberEqual(a, back) {
		t.Fatalf("(a+b)-b = %s, want %s", back, a)
	}
}

func TestNumberIntegerTolerance(t *testing.T) {
	n := NewNumber(1.0 + 1e-12)
	if !n.IsInt() {
		t.Fatalf("expected %s to be treated as an integer within tolerance", n)
	}
	n2 := NewNumber(1.0 + 1e-9)
	if n2.IsInt() {
		t.Fatalf("expected %s to be outside the integer tolerance", n2)
	}
}

func TestNumberUnitCancellation(t *testing.T) {
	// px * px / px should cancel down to a single px, not px*px/px symbolically.
	a := NewNumberWithUnits(4, []string{"px"}, nil)
	b := NewNumberWithUnits(2, []string{"px"}, nil)
	prod, err := Mul(a, b)
	if err != nil {
		t.Fatalf("mul: %v", err)
	}
	quot, err := Div(prod, b)
	if err != nil {
		t.Fatalf("div: %v", err)
	}
	if len(quot.Numerator()) != 1 || quot.Numerator()[0] != "px" || len(quot.Denominator()) != 0 {
		t.Fatalf("expected cancellation back to plain px, got num=%v den=%v", quot.Numerator(), quot.Denominator())
	}
}

func TestNumberCompatibleUnits(t *testing.T) {
	in := NewNumberWithUnits(1, []string{"in"}, nil)
	px := NewNumberWithUnits(96, []string{"px"}, nil)
	if !in.Compatible(px) {
		t.Fatalf("in and px should be compatible")
	}
	deg := NewNumberWithUnits(1, []string{"deg"}, nil)
	if in.Compatible(deg) {
		t.Fatalf("in and deg should not be compatible")
	}
}

func TestNumberEqualAfterConversion(t *testing.T) {
	in := NewNumberWithUnits(1, []string{"in"}, nil)
	px := NewNumberWithUnits(96, []string{"px"}, nil)
	if !NumberEqual(in, px) {
		t.Fatalf("1in should equal 96px")
	}
}

func TestModCarriesLeftUnit(t *testing.T) {
	a := NewNumberWithUnits(10, []string{"px"}, nil)
	b := NewNumber(3)
	m, err := Mod(a, b)
	if err != nil {
		t.Fatalf("mod: %v", err)
	}
	if len(m.Numerator()) != 1 || m.Numerator()[0] != "px" {
		t.Fatalf("expected result to carry px unit, got %v", m.Numerator())
	}
}

// TestUnitConversionMagnitudes exercises actual converted magnitudes
// (not just Compatible()) across every dimension the table covers, to
// catch a from/to mixup like the one that once inverted the angle and
// time rows.
func TestUnitConversionMagnitudes(t *testing.T) {
	cases := []struct {
		name string
		a, b Number
	}{
		{"1turn == 360deg", NewNumberWithUnits(1, []string{"turn"}, nil), NewNumberWithUnits(360, []string{"deg"}, nil)},
		{"1rad == 1/(2pi) turn", NewNumberWithUnits(1, []string{"rad"}, nil), NewNumberWithUnits(1.0/(2*3.141592653589793), []string{"turn"}, nil)},
		{"400grad == 360deg", NewNumberWithUnits(400, []string{"grad"}, nil), NewNumberWithUnits(360, []string{"deg"}, nil)},
		{"1s == 1000ms", NewNumberWithUnits(1, []string{"s"}, nil), NewNumberWithUnits(1000, []string{"ms"}, nil)},
		{"1000ms == 1s", NewNumberWithUnits(1000, []string{"ms"}, nil), NewNumberWithUnits(1, []string{"s"}, nil)},
		{"1kHz == 1000Hz", NewNumberWithUnits(1, []string{"kHz"}, nil), NewNumberWithUnits(1000, []string{"Hz"}, nil)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !NumberEqual(c.a, c.b) {
				t.Fatalf("%s: %s != %s", c.name, c.a, c.b)
			}
		})
	}
}

// TestUnitConversionArithmeticMixesDimension exercises the table through
// the Add path (convertValueToBig -> combine), not just NumberEqual, since
// that's where real arithmetic on mixed units actually consults it.
func TestUnitConversionArithmeticMixesDimension(t *testing.T) {
	sum, err := Add(NewNumberWithUnits(1, []string{"turn"}, nil), NewNumberWithUnits(1, []string{"deg"}, nil))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	want := NewNumberWithUnits(1+1.0/360, []string{"turn"}, nil)
	if !NumberEqual(sum, want) {
		t.Fatalf("1turn + 1deg = %s, want %s", sum, want)
	}
	alsoWant := NewNumberWithUnits(361, []string{"deg"}, nil)
	if !NumberEqual(sum, alsoWant) {
		t.Fatalf("1turn + 1deg = %s, want %s", sum, alsoWant)
	}

	sum, err = Add(NewNumberWithUnits(1, []string{"s"}, nil), NewNumberWithUnits(500, []string{"ms"}, nil))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	want = NewNumberWithUnits(1.5, []string{"s"}, nil)
	if !NumberEqual(sum, want) {
		t.Fatalf("1s + 500ms = %s, want %s", sum, want)
	}
}
