// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package evalctx is the Evaluator Context: it walks a
// parsed stylesheet, maintains the lexical scope stack and the owning
// module's namespace, dispatches `@use`/`@forward`/`@import`/
// `meta.load-css` to the Module Loader, and produces the module's CSS
// tree.
//
// The scope stack is grounded on a familiar lang.Scope /
// lang.EvalContext pair: a Scope here plays the same role as a
// Terraform EvalContext's variable/function namespace layered per block,
// generalized from HCL's single flat evaluation namespace to Sass's
// nested lexical scoping (module scope, then one layer per @if/@each/
// @for/@function/@mixin body).
package evalctx

import "github.com/sassgo/sassgo/internal/sassvalue"

// Scope is one level of lexical variable/mixin/function visibility.
// Scopes chain to a parent; lookups walk outward until a binding is
// found or the chain is exhausted, at which point the caller falls
// back to the owning Module's namespace.
type Scope struct {
	parent *Scope
	variables map[string]sassvalue.Value
	mixins map[string]sassvalue.Callable
	functions map[string]sassvalue.Callable
	// content is the content block passed to the @include that pushed
	// this scope, if any, visible to @content anywhere under it until a
	// nested mixin invocation pushes its own (unset) scope over it.
	content *contentBlock
}

// NewScope creates a scope nested under parent (nil for the module's
// top-level local scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

// Get looks up name in this scope or any ancestor.
func (s *Scope) Get(name string) (sassvalue.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.variables != nil {
			if v, ok := cur.variables[name]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// Declare binds name in this exact scope, shadowing any outer binding.
func (s *Scope) Declare(name string, v sassvalue.Value) {
	if s.variables == nil {
		s.variables = map[string]sassvalue.Value{}
	}
	s.variables[name] = v
}

// AssignIfExists writes v to the nearest scope (starting from s) that
// already declares name, reporting whether one was found. It never
// creates a new binding; a caller that also needs to consult a module's
// Namespace before falling back to declaring a fresh local variable
// (the ordinary, non-!global assignment rule for names a Scope never
// saw) uses this instead of Assign.
func (s *Scope) AssignIfExists(name string, v sassvalue.Value) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.variables != nil {
			if _, ok := cur.variables[name]; ok {
				cur.variables[name] = v
				return true
			}
		}
	}
	return false
}

// Assign writes to the nearest scope (starting from s) that already
// declares name, or declares it in s if no scope does.
func (s *Scope) Assign(name string, v sassvalue.Value) {
	if s.AssignIfExists(name, v) {
		return
	}
	s.Declare(name, v)
}

func (s *Scope) GetMixin(name string) (sassvalue.Callable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.mixins != nil {
			if m, ok := cur.mixins[name]; ok {
				return m, true
			}
		}
	}
	return nil, false
}

func (s *Scope) DeclareMixin(name string, m sassvalue.Callable) {
	if s.mixins == nil {
		s.mixins = map[string]sassvalue.Callable{}
	}
	s.mixins[name] = m
}

func (s *Scope) GetFunction(name string) (sassvalue.Callable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.functions != nil {
			if f, ok := cur.functions[name]; ok {
				return f, true
			}
		}
	}
	return nil, false
}

func (s *Scope) DeclareFunction(name string, f sassvalue.Callable) {
	if s.functions == nil {
		s.functions = map[string]sassvalue.Callable{}
	}
	s.functions[name] = f
}

// SetContent attaches the content block a mixin invocation was given to
// this scope, so @content anywhere within the mixin's body can find it.
func (s *Scope) SetContent(c *contentBlock) { s.content = c }

// Content walks the scope chain for the nearest content block, the way
// Get walks it for variables.
func (s *Scope) Content() (*contentBlock, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.content != nil {
			return cur.content, true
		}
	}
	return nil, false
}
