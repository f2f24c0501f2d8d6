// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package module

import (
	"testing"

	"github.com/sassgo/sassgo/internal/sassvalue"
)

func TestNamespaceDefaultVariableOnlyAssignsOnce(t *testing.T) {
	ns := NewNamespace()
	ns.SetVariable("x", sassvalue.NewNumber(1), true)
	ns.SetVariable("x", sassvalue.NewNumber(2), true)

	v, ok := ns.Variable("x")
	if !ok {
		t.Fatalf("expected x to exist")
	}
	if n := v.(sassvalue.Number); n.Float64() != 1 {
		t.Fatalf("a second !default assignment should not overwrite the first, got %v", n.Float64())
	}
}

func TestNamespaceNonDefaultOverwrites(t *testing.T) {
	ns := NewNamespace()
	ns.SetVariable("x", sassvalue.NewNumber(1), true)
	ns.SetVariable("x", sassvalue.NewNumber(2), false)

	v, _ := ns.Variable("x")
	if n := v.(sassvalue.Number); n.Float64() != 2 {
		t.Fatalf("a non-default assignment should overwrite, got %v", n.Float64())
	}
}

func TestNamespaceVariableMixinFunctionDontCollide(t *testing.T) {
	ns := NewNamespace()
	ns.SetVariable("foo", sassvalue.NewNumber(1), false)
	ns.SetMixin("foo", nil)
	ns.SetFunction("foo", nil)

	if _, ok := ns.Variable("foo"); !ok {
		t.Fatalf("expected variable foo")
	}
	if _, ok := ns.Mixin("foo"); !ok {
		t.Fatalf("expected mixin foo")
	}
	if _, ok := ns.Function("foo"); !ok {
		t.Fatalf("expected function foo")
	}
}

func TestNamespaceMergeWithPrefix(t *testing.T) {
	src := NewNamespace()
	src.SetVariable("color", sassvalue.NewQuoted("red"), false)

	dst := NewNamespace()
	dst.Merge(src, "theme.", nil, nil)

	if _, ok := dst.Variable("color"); ok {
		t.Fatalf("unprefixed name should not exist in the merged namespace")
	}
	v, ok := dst.Variable("theme.color")
	if !ok {
		t.Fatalf("expected theme.color to exist after merge")
	}
	if s := v.(sassvalue.SassString); s.Text != "red" {
		t.Fatalf("got %q", s.Text)
	}
}

func TestNamespaceMergeShowFilter(t *testing.T) {
	src := NewNamespace()
	src.SetVariable("a", sassvalue.NewNumber(1), false)
	src.SetVariable("b", sassvalue.NewNumber(2), false)

	dst := NewNamespace()
	dst.Merge(src, "", map[string]bool{"a": true}, nil)

	if _, ok := dst.Variable("a"); !ok {
		t.Fatalf("expected a to be shown")
	}
	if _, ok := dst.Variable("b"); ok {
		t.Fatalf("expected b to be hidden by the show filter")
	}
}

func TestNamespaceMergeHideFilter(t *testing.T) {
	src := NewNamespace()
	src.SetVariable("a", sassvalue.NewNumber(1), false)
	src.SetVariable("b", sassvalue.NewNumber(2), false)

	dst := NewNamespace()
	dst.Merge(src, "", nil, map[string]bool{"b": true})

	if _, ok := dst.Variable("a"); !ok {
		t.Fatalf("expected a to survive the hide filter")
	}
	if _, ok := dst.Variable("b"); ok {
		t.Fatalf("expected b to be hidden")
	}
}

func TestConfigurationUnconsumedNames(t *testing.T) {
	cfg := NewConfiguration(map[string]ConfiguredValue{
		"used":   {Value: sassvalue.NewNumber(1)},
		"unused": {Value: sassvalue.NewNumber(2)},
	})
	if _, ok := cfg.Take("used"); !ok {
		t.Fatalf("expected to take 'used'")
	}
	unconsumed := cfg.Unconsumed()
	if len(unconsumed) != 1 || unconsumed[0] != "unused" {
		t.Fatalf("got %v, want [\"unused\"]", unconsumed)
	}
}

func TestConfigurationNilIsHarmless(t *testing.T) {
	var cfg *Configuration
	if _, ok := cfg.Take("x"); ok {
		t.Fatalf("a nil configuration should never have anything to take")
	}
	if got := cfg.Unconsumed(); got != nil {
		t.Fatalf("a nil configuration should report no unconsumed names, got %v", got)
	}
}
