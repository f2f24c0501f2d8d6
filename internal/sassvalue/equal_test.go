// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

import "testing"

func TestEmptyListEqualsEmptyMap(t *testing.T) {
	list := EmptyList(SeparatorUndecided)
	m := NewMap(nil)

	if !Equal(list, m) {
		t.Fatalf("empty list should equal empty map")
	}
	if !Equal(m, list) {
		t.Fatalf("empty map should equal empty list")
	}
	if HashKey(list) != HashKey(m) {
		t.Fatalf("empty list and empty map should hash the same: %q != %q", HashKey(list), HashKey(m))
	}
}

func TestEmptyListEqualsEmptyMapAsLength(t *testing.T) {
	if Length(EmptyList(SeparatorUndecided)) != Length(NewMap(nil)) {
		t.Fatalf("Length should agree for the empty list and the empty map")
	}
}

func TestMapKeyEqualityUsesValueEquality(t *testing.T) {
	var m Map
	m.Set(NewNumberWithUnits(1, []string{"px"}, nil), NewQuoted("a"))

	// (1px * 1) should hash to the same key as 1px.
	one := NewNumber(1)
	product, err := Mul(NewNumberWithUnits(1, []string{"px"}, nil), one)
	if err != nil {
		t.Fatalf("mul: %v", err)
	}

	got, ok := m.Get(product)
	if !ok {
		t.Fatalf("expected (1px*1) to find the key stored as 1px")
	}
	if s, ok := got.(SassString); !ok || s.Text != "a" {
		t.Fatalf("unexpected value: %#v", got)
	}
}

func TestNumberEqualityAcrossUnits(t *testing.T) {
	a := NewNumberWithUnits(1000, []string{"ms"}, nil)
	b := NewNumberWithUnits(1, []string{"s"}, nil)
	if !Equal(a, b) {
		t.Fatalf("1000ms should equal 1s")
	}
}

func TestListEqualityRespectsSeparatorAndBrackets(t *testing.T) {
	a := List{Elements: []Value{NewNumber(1), NewNumber(2)}, Separator: SeparatorComma}
	b := List{Elements: []Value{NewNumber(1), NewNumber(2)}, Separator: SeparatorSpace}
	if Equal(a, b) {
		t.Fatalf("lists with different separators should not be equal")
	}

	c := List{Elements: []Value{NewNumber(1), NewNumber(2)}, Separator: SeparatorComma, Brackets: true}
	if Equal(a, c) {
		t.Fatalf("lists differing only in brackets should not be equal")
	}
}

func TestBooleanAndNullFalsiness(t *testing.T) {
	if IsTruthy(Null) {
		t.Fatalf("null should be falsy")
	}
	if IsTruthy(Boolean(false)) {
		t.Fatalf("false should be falsy")
	}
	if !IsTruthy(Boolean(true)) {
		t.Fatalf("true should be truthy")
	}
	if !IsTruthy(NewNumber(0)) {
		t.Fatalf("only false and null are falsy — 0 is truthy")
	}
}
