// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package module implements the Module Loader & Graph:
// the cache of canonicalized identifier to evaluated Module, the
// InProgress/Complete/Failed state machine, and the load protocol that
// gives the rest of the compiler at-most-once evaluation semantics.
//
// It is grounded on a resource-instance graph: a Loader owns a keyed
// slot map the same way a graph walker owns per-vertex state, with the
// Loader's mutex over that map and each slot's done channel giving the cross-goroutine
// memoization a graph walker gets for free from single-threaded
// evaluation.
package module

import (
	"sync"

	"github.com/sassgo/sassgo/internal/addrs"
	"github.com/sassgo/sassgo/internal/collections"
	"github.com/sassgo/sassgo/internal/sassvalue"
)

// MemberKind distinguishes the three kinds of named member a Namespace
// holds.
type MemberKind int

const (
	MemberVariable MemberKind = iota
	MemberMixin
	MemberFunction
)

// VariableSlot is a module-scope variable binding. Default tracks
// whether the binding came from a !default declaration.
type VariableSlot struct {
	Value sassvalue.Value
	Default bool
}

// Namespace is a Module's member table: three independent
// namespaces (variables, mixins, functions) so a name like "foo" can
// simultaneously be a variable and a mixin without collision, matching
// real Sass semantics.
//
// Namespace is safe for concurrent reads once its owning Module reaches
// the Complete state; the mutex only matters while the module is still
// InProgress and being written to by its own evaluator.
type Namespace struct {
	mu sync.RWMutex
	variables map[string]*VariableSlot
	mixins map[string]sassvalue.Callable
	functions map[string]sassvalue.Callable
	// order records every member name in first-declaration order across
	// all three kinds, for forwarding's `show`/`hide` list application
	// and for deterministic debug dumps.
	order []string
}

func NewNamespace() *Namespace {
	return &Namespace{
		variables: map[string]*VariableSlot{},
		mixins: map[string]sassvalue.Callable{},
		functions: map[string]sassvalue.Callable{},
	}
}

func (n *Namespace) noteOrder(name string) {
	for _, existing := range n.order {
		if existing == name {
			return
		}
	}
	n.order = append(n.order, name)
}

// SetVariable declares or reassigns a module-scope variable.
// Reassignment of a `!default` variable to a new value clears the
// Default flag going forward (subsequent configuration attempts against
// it, if any, are evaluated before this call ever happens, at @use
// time).
func (n *Namespace) SetVariable(name string, value sassvalue.Value, isDefault bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if existing, ok := n.variables[name]; ok && isDefault {
		_ = existing
		return // `!default` only assigns if unset.
	}
	n.variables[name] = &VariableSlot{Value: value, Default: isDefault}
	n.noteOrder(name)
}

// Variable looks up a module-scope variable.
func (n *Namespace) Variable(name string) (sassvalue.Value, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	slot, ok := n.variables[name]
	if !ok {
		return nil, false
	}
	return slot.Value, true
}

// VariableIsDefault reports whether name exists and was declared with
// `!default` and never overwritten by a non-default assignment, which
// @use... with (...) configuration needs to validate that a configured
// name is actually configurable.
func (n *Namespace) VariableIsDefault(name string) (isDefault, exists bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	slot, ok := n.variables[name]
	if !ok {
		return false, false
	}
	return slot.Default, true
}

func (n *Namespace) SetMixin(name string, impl sassvalue.Callable) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mixins[name] = impl
	n.noteOrder(name)
}

func (n *Namespace) Mixin(name string) (sassvalue.Callable, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	m, ok := n.mixins[name]
	return m, ok
}

func (n *Namespace) SetFunction(name string, impl sassvalue.Callable) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.functions[name] = impl
	n.noteOrder(name)
}

func (n *Namespace) Function(name string) (sassvalue.Callable, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	f, ok := n.functions[name]
	return f, ok
}

// Merge copies every member of other into n under the given prefix,
// applying an optional show/hide filter. The evaluator calls it for
// `@use ... as *` and `@import` (empty prefix, no filters) and for
// `@forward ... as prefix-* show/hide ...`.
func (n *Namespace) Merge(other *Namespace, prefix string, show, hide map[string]bool) {
	other.mu.RLock()
	defer other.mu.RUnlock()

	include := func(name string) bool {
		if show != nil {
			return show[name]
		}
		if hide != nil {
			return !hide[name]
		}
		return true
	}

	for name, v := range other.variables {
		if !include(name) {
			continue
		}
		n.mu.Lock()
		n.variables[prefix+name] = v
		n.noteOrder(prefix + name)
		n.mu.Unlock()
	}
	for name, m := range other.mixins {
		if !include(name) {
			continue
		}
		n.mu.Lock()
		n.mixins[prefix+name] = m
		n.noteOrder(prefix + name)
		n.mu.Unlock()
	}
	for name, f := range other.functions {
		if !include(name) {
			continue
		}
		n.mu.Lock()
		n.functions[prefix+name] = f
		n.noteOrder(prefix + name)
		n.mu.Unlock()
	}
}

// Configuration is the `with (...)` clause data: a mapping
// from variable name to the value it should be bound to before the
// target module's `!default` declarations run, plus the source position
// for error messages about unconsumed configuration.
type Configuration struct {
	Values map[string]ConfiguredValue
	// consumed tracks which names were actually applied to a !default
	// declaration, so the caller can report "$name was not used" for
	// names that don't match any !default in the configured module.
	consumed map[string]bool
	mu sync.Mutex
}

type ConfiguredValue struct {
	Value sassvalue.Value
	Position addrs.SourceIdentifier // the @use call's own module, for error framing
}

func NewConfiguration(values map[string]ConfiguredValue) *Configuration {
	return &Configuration{Values: values, consumed: map[string]bool{}}
}

// Take returns the configured value for name, if any, and marks it
// consumed. A module's evaluator calls this exactly once per `!default`
// declaration it evaluates, consuming the loaded module's configuration
// exactly once per name.
func (c *Configuration) Take(name string) (sassvalue.Value, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.Values[name]
	if !ok {
		return nil, false
	}
	c.consumed[name] = true
	return v.Value, true
}

// Unconsumed returns the configured names that were never applied to any
// `!default` declaration. Configuring a name that is not declared
// !default in the target module is an error.
func (c *Configuration) Unconsumed() []string {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for name := range c.Values {
		if !c.consumed[name] {
			out = append(out, name)
		}
	}
	return out
}

// Module is the Module record: `{canonical identifier,
// namespace, css tree, extensions, transitive loaded identifiers}`.
// Immutable once its Loader slot reaches Complete.
type Module struct {
	Identifier addrs.SourceIdentifier
	Namespace *Namespace
	CSS *Stylesheet
	// Extensions records every @extend relationship this module
	// declared: extended selector text -> set of extending selector
	// texts. Full specificity-aware selector rewriting is out of scope
	// here; this module only carries the declarations far enough for a
	// minimal textual extend pass to consume.
	Extensions map[string][]string
	// TransitiveLoaded is every canonical identifier this module's own
	// evaluation caused to load (directly or through a module it used,
	// forwarded, or imported), in first-observed order.
	TransitiveLoaded *collections.OrderedSet[string]
}

func newModule(id addrs.SourceIdentifier) *Module {
	return &Module{
		Identifier: id,
		Namespace: NewNamespace(),
		CSS: NewStylesheet(),
		Extensions: map[string][]string{},
		TransitiveLoaded: collections.NewOrderedSet[string](),
	}
}
