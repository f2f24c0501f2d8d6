// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package evalctx

import (
	"testing"

	"github.com/sassgo/sassgo/internal/sassvalue"
)

func TestScopeGetWalksToParent(t *testing.T) {
	parent := NewScope(nil)
	parent.Declare("x", sassvalue.NewNumber(1))
	child := NewScope(parent)

	v, ok := child.Get("x")
	if !ok {
		t.Fatalf("expected child to see parent's declaration")
	}
	if n, _ := v.(sassvalue.Number); n.Float64() != 1 {
		t.Fatalf("got %v", v)
	}
}

func TestScopeDeclareShadowsParent(t *testing.T) {
	parent := NewScope(nil)
	parent.Declare("x", sassvalue.NewNumber(1))
	child := NewScope(parent)
	child.Declare("x", sassvalue.NewNumber(2))

	v, _ := child.Get("x")
	if n, _ := v.(sassvalue.Number); n.Float64() != 2 {
		t.Fatalf("expected shadowed value 2, got %v", v)
	}
	pv, _ := parent.Get("x")
	if n, _ := pv.(sassvalue.Number); n.Float64() != 1 {
		t.Fatalf("expected parent's own binding untouched, got %v", pv)
	}
}

func TestScopeAssignWritesThroughToDeclaringAncestor(t *testing.T) {
	parent := NewScope(nil)
	parent.Declare("x", sassvalue.NewNumber(1))
	child := NewScope(parent)
	child.Assign("x", sassvalue.NewNumber(9))

	pv, _ := parent.Get("x")
	if n, _ := pv.(sassvalue.Number); n.Float64() != 9 {
		t.Fatalf("expected Assign to write through to the declaring ancestor, got %v", pv)
	}
	if _, ok := child.variables["x"]; ok {
		t.Fatalf("Assign should not create a new binding in the child when an ancestor already declares the name")
	}
}

func TestScopeAssignDeclaresLocallyWhenNoAncestorHasIt(t *testing.T) {
	s := NewScope(nil)
	s.Assign("y", sassvalue.NewNumber(5))

	v, ok := s.Get("y")
	if !ok {
		t.Fatalf("expected Assign to declare a new binding when none exists")
	}
	if n, _ := v.(sassvalue.Number); n.Float64() != 5 {
		t.Fatalf("got %v", v)
	}
}

func TestScopeMixinAndFunctionAreIndependentNamespaces(t *testing.T) {
	s := NewScope(nil)
	mixin := &userCallable{name: "m"}
	fn := &userCallable{name: "f", isFunction: true}
	s.DeclareMixin("same-name", mixin)
	s.DeclareFunction("same-name", fn)

	gotMixin, ok := s.GetMixin("same-name")
	if !ok || gotMixin != sassvalue.Callable(mixin) {
		t.Fatalf("expected to find the declared mixin")
	}
	gotFn, ok := s.GetFunction("same-name")
	if !ok || gotFn != sassvalue.Callable(fn) {
		t.Fatalf("expected to find the declared function, independent of the mixin of the same name")
	}
}

func TestScopeContentWalksToParent(t *testing.T) {
	parent := NewScope(nil)
	cb := &contentBlock{}
	parent.SetContent(cb)
	child := NewScope(parent)

	got, ok := child.Content()
	if !ok || got != cb {
		t.Fatalf("expected child to inherit parent's content block")
	}
}

func TestScopeContentNoneFound(t *testing.T) {
	s := NewScope(nil)
	if _, ok := s.Content(); ok {
		t.Fatalf("expected no content block when none was ever set")
	}
}
