package collections_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sassgo/sassgo/internal/collections"
)

type hasTestCase struct {
	name             string
	set              collections.Set[string]
	testValueResults map[string]bool
}

func TestSet_has(t *testing.T) {
	testCases := []hasTestCase{
		{
			name: "string",
			set: collections.Set[string]{
				"a": {},
				"b": {},
				"c": {},
			},
			testValueResults: map[string]bool{
				"a": true,
				"b": true,
				"c": true,
				"d": false,
				"e": false,
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			for value, has := range testCase.testValueResults {
				t.Run(value, func(t *testing.T) {
					if has {
						if !testCase.set.Has(value) {
							t.Fatalf("Set does not have expected value of %s", value)
						}
					} else {
						if testCase.set.Has(value) {
							t.Fatalf("Set has unexpected value of %s", value)
						}
					}
				})
			}
		})
	}
}

func TestSet_string(t *testing.T) {
	testSet := collections.Set[string]{
		"a": {},
		"b": {},
		"c": {},
	}

	if str := testSet.String(); !strings.Contains(str, "a, b, c") {
		t.Fatalf("Incorrect string concatenation: %s", str)
	}
}

// TestOrderedSet_loadOrder mirrors how the Module Loader uses
// OrderedSet[string]: canonical identifiers are added as each `@use`
// reference is first resolved, including ones reached more than once
// through different import chains, and Slice must report them in
// first-observed order with duplicates collapsed.
func TestOrderedSet_loadOrder(t *testing.T) {
	s := collections.NewOrderedSet[string]()

	loads := []string{
		"file:///project/_base.scss",
		"file:///project/_colors.scss",
		"file:///project/_base.scss", // re-imported from a second module
		"package:bootstrap/scss/_grid.scss",
	}
	wantNew := []bool{true, true, false, true}

	for i, url := range loads {
		if got := s.Add(url); got != wantNew[i] {
			t.Fatalf("Add(%q) = %v; want %v", url, got, wantNew[i])
		}
	}

	want := []string{
		"file:///project/_base.scss",
		"file:///project/_colors.scss",
		"package:bootstrap/scss/_grid.scss",
	}
	if diff := cmp.Diff(want, s.Slice()); diff != "" {
		t.Fatalf("Slice() order mismatch (-want +got):\n%s", diff)
	}
	if got, want := s.Len(), len(want); got != want {
		t.Fatalf("Len() = %d; want %d", got, want)
	}
}

func TestOrderedSet_has(t *testing.T) {
	s := collections.NewOrderedSet[string]()
	s.Add("file:///project/_base.scss")

	if !s.Has("file:///project/_base.scss") {
		t.Fatal("Has returned false for a member that was added")
	}
	if s.Has("file:///project/_missing.scss") {
		t.Fatal("Has returned true for a value that was never added")
	}
}

func TestOrderedSet_empty(t *testing.T) {
	s := collections.NewOrderedSet[string]()

	if got := s.Len(); got != 0 {
		t.Fatalf("Len() = %d; want 0", got)
	}
	if diff := cmp.Diff([]string(nil), s.Slice()); diff != "" {
		t.Fatalf("Slice() mismatch on empty set (-want +got):\n%s", diff)
	}
}
