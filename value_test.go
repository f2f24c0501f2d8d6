// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassgo

import "testing"

func TestNumberValueRoundTripsThroughAssertNumber(t *testing.T) {
	n, err := AssertNumber(NumberValue(3.5), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Float64() != 3.5 {
		t.Fatalf("got %v", n.Float64())
	}
}

func TestAssertNumberRejectsNonNumber(t *testing.T) {
	if _, err := AssertNumber(QuotedString("x"), "arg"); err == nil {
		t.Fatalf("expected an error for a non-number argument")
	}
}

func TestQuotedAndUnquotedStringDistinguishQuoting(t *testing.T) {
	q, err := AssertString(QuotedString("hi"), "s")
	if err != nil || !q.Quoted {
		t.Fatalf("got %+v, err=%v", q, err)
	}
	u, err := AssertString(UnquotedString("hi"), "s")
	if err != nil || u.Quoted {
		t.Fatalf("got %+v, err=%v", u, err)
	}
}

func TestColorRGBRoundTripsThroughAssertColor(t *testing.T) {
	c, err := AssertColor(ColorRGB(255, 0, 0, 1), "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, g, b, a := c.RGBA()
	if r != 255 || g != 0 || b != 0 || a != 1 {
		t.Fatalf("got r=%v g=%v b=%v a=%v", r, g, b, a)
	}
}

func TestBoolValueAndIsTruthy(t *testing.T) {
	if !IsTruthy(BoolValue(true)) {
		t.Fatalf("expected BoolValue(true) to be truthy")
	}
	if IsTruthy(BoolValue(false)) {
		t.Fatalf("expected BoolValue(false) to be falsy")
	}
}

func TestNullValueIsFalsy(t *testing.T) {
	if IsTruthy(NullValue()) {
		t.Fatalf("expected NullValue() to be falsy, matching Sass's null semantics")
	}
}

func TestAsListWrapsScalarAsSingleElementList(t *testing.T) {
	l := AsList(NumberValue(1))
	if len(l.Elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(l.Elements))
	}
}

func TestValueEqualComparesByValueNotIdentity(t *testing.T) {
	if !ValueEqual(NumberValue(1), NumberValue(1)) {
		t.Fatalf("expected two separately constructed equal numbers to compare equal")
	}
	if ValueEqual(NumberValue(1), NumberValue(2)) {
		t.Fatalf("expected distinct numbers to compare unequal")
	}
}
