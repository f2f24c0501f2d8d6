// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassgo

import "testing"

func TestOptionsCharsetEnabledDefaultsTrue(t *testing.T) {
	if !(Options{}).charsetEnabled() {
		t.Fatalf("expected the zero-value Options to enable the charset prefix")
	}
}

func TestOptionsCharsetEnabledHonorsExplicitFalse(t *testing.T) {
	f := false
	if (Options{Charset: &f}).charsetEnabled() {
		t.Fatalf("expected an explicit false Charset to disable the prefix")
	}
}

func TestOptionsCharsetEnabledHonorsExplicitTrue(t *testing.T) {
	tr := true
	if !(Options{Charset: &tr}).charsetEnabled() {
		t.Fatalf("expected an explicit true Charset to enable the prefix")
	}
}

func TestOptionsFSDefaultsToOsFsWhenNil(t *testing.T) {
	fs := (Options{}).fs()
	if fs == nil {
		t.Fatalf("expected a non-nil default filesystem")
	}
}

func TestOptionsSilenceSetBuildsLookupFromSlice(t *testing.T) {
	set := (Options{SilenceDeprecations: []string{"slash-div", "import"}}).silenceSet()
	if !set["slash-div"] || !set["import"] {
		t.Fatalf("got %v", set)
	}
	if set["unrelated"] {
		t.Fatalf("expected an id not in the list to be absent, not false")
	}
}

func TestOptionsSilenceSetEmptyForZeroValue(t *testing.T) {
	set := (Options{}).silenceSet()
	if len(set) != 0 {
		t.Fatalf("got %v, want an empty set", set)
	}
}
