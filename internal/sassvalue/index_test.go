// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

import "testing"

func TestSassIndexToListIndex(t *testing.T) {
	const length = 5

	cases := []struct {
		name    string
		index   float64
		want    int
		wantErr bool
	}{
		{"first", 1, 0, false},
		{"last", 5, 4, false},
		{"zero is invalid", 0, 0, true},
		{"negative one is last", -1, 4, false},
		{"negative length is first", -5, 0, false},
		{"positive overflow", 6, 0, true},
		{"negative overflow", -6, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, _, err := SassIndexToListIndex(NewNumber(c.index), length, "index")
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error for index %v", c.index)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Fatalf("index %v: got %d, want %d", c.index, got, c.want)
			}
		})
	}
}

func TestSassIndexToListIndexNonInteger(t *testing.T) {
	if _, _, err := SassIndexToListIndex(NewNumber(1.5), 5, "index"); err == nil {
		t.Fatalf("expected error for a non-integer index")
	}
}

func TestSassIndexToListIndexUnitsWarn(t *testing.T) {
	_, warning, err := SassIndexToListIndex(NewNumberWithUnits(1, []string{"px"}, nil), 5, "index")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warning == nil {
		t.Fatalf("expected a deprecation warning for a unit-bearing index")
	}
}

func TestSassIndexToListIndexNotANumber(t *testing.T) {
	if _, _, err := SassIndexToListIndex(NewQuoted("nope"), 5, "index"); err == nil {
		t.Fatalf("expected error for a non-number index")
	}
}

// nthWraparound mirrors the spec's nth(L, i) == nth(L, i - len(L) - 1)
// testable property using sass-index semantics directly.
func TestNthWraparound(t *testing.T) {
	length := 4
	for i := 1; i <= length; i++ {
		a, _, err := SassIndexToListIndex(NewNumber(float64(i)), length, "")
		if err != nil {
			t.Fatalf("index %d: %v", i, err)
		}
		b, _, err := SassIndexToListIndex(NewNumber(float64(i-length-1)), length, "")
		if err != nil {
			t.Fatalf("wrapped index %d: %v", i-length-1, err)
		}
		if a != b {
			t.Fatalf("nth(%d) = %d, nth(%d) = %d, want equal", i, a, i-length-1, b)
		}
	}
}
