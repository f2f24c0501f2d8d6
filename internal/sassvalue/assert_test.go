// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

import "testing"

func TestAssertNumberErrorNamesArgument(t *testing.T) {
	_, err := AssertNumber(NewQuoted("x"), "offset")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got := err.Error(); got != `$offset: "x" is not a number` {
		t.Fatalf("got %q", got)
	}
}

func TestAssertNumberErrorWithoutArgName(t *testing.T) {
	_, err := AssertNumber(NewQuoted("x"), "")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got := err.Error(); got != `"x" is not a number` {
		t.Fatalf("got %q, want no $name prefix", got)
	}
}

func TestAssertMapTreatsEmptyListAsEmptyMap(t *testing.T) {
	m, err := AssertMap(EmptyList(SeparatorUndecided), "m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected an empty map")
	}
}

func TestAssertMapRejectsNonEmptyList(t *testing.T) {
	l := List{Elements: []Value{NewNumber(1)}, Separator: SeparatorSpace}
	if _, err := AssertMap(l, "m"); err == nil {
		t.Fatalf("expected an error for a non-empty list asserted as a map")
	}
}

func TestAssertListWrapsSingleValues(t *testing.T) {
	l := AssertList(NewNumber(5))
	if len(l.Elements) != 1 || !Equal(l.Elements[0], NewNumber(5)) {
		t.Fatalf("got %#v", l)
	}
}

func TestAssertIntRejectsFractional(t *testing.T) {
	if _, err := AssertInt(NewNumber(1.5), "n"); err == nil {
		t.Fatalf("expected error for a fractional number asserted as an int")
	}
	i, err := AssertInt(NewNumber(3), "n")
	if err != nil || i != 3 {
		t.Fatalf("got %d, err=%v", i, err)
	}
}
