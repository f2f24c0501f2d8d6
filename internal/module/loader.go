// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package module

import (
	"fmt"
	"sync"

	"github.com/sassgo/sassgo/internal/addrs"
	"github.com/sassgo/sassgo/internal/collections"
	"github.com/sassgo/sassgo/internal/diag"
	"github.com/sassgo/sassgo/internal/resolve"
)

// ImportKind distinguishes `@use`/`@forward` from legacy `@import` at
// the Load call site, since the two have different cycle semantics: a
// cycle through `@use`/`@forward` is an error, while a cycle through
// `@import` resolves to the partially-evaluated module view (equivalent
// to pasting text).
type ImportKind int

const (
	KindUseOrForward ImportKind = iota
	KindLegacyImport
)

type slotState int

const (
	stateInProgress slotState = iota
	stateComplete
	stateFailed
)

// slot is one entry of the Loader's canonical-identifier-keyed map
// (InProgress / Complete / Failed(Error)). building is populated before
// evaluation starts and
// mutated in place by the Evaluator; it becomes the Complete value
// in-place, so a legacy @import cycle can read it mid-evaluation without
// the Loader needing a separate "partial module" representation.
type slot struct {
	state slotState
	building *Module
	err diag.Diagnostics
	done chan struct{}
}

// Evaluator is implemented by the Evaluator Context (internal/evalctx).
// Kept as an interface here, rather than a direct import, because the
// Evaluator Context itself needs to call back into the Loader for every
// nested @use/@forward/@import/meta.load-css it encounters; a direct
// import in either direction would be a cycle.
type Evaluator interface {
	// EvaluateModule parses and evaluates src into mod in place,
	// consuming cfg's configuration as it processes !default
	// declarations. chain is the list of canonical identifiers
	// currently being evaluated on this synchronous call stack,
	// innermost last, which the Evaluator must extend by mod's own
	// identifier before recursing into any nested load. baseImporter is
	// the importer that produced mod's own canonical identifier, which
	// mod's nested @use/@forward/@import references must try first.
	EvaluateModule(mod *Module, src *resolve.Source, cfg *Configuration, loader *Loader, baseImporter resolve.Importer, chain []string) diag.Diagnostics
}

// Loader owns the canonical-identifier -> ModuleSlot map for a single
// compilation. It is safe for concurrent use: the async entry point may
// call Load from multiple goroutines for the same compilation, and the
// slot map's mutex is the mutual-exclusion point for that case, while
// reentrant (same-chain) calls are detected separately via the chain
// parameter and never block.
type Loader struct {
	Resolver resolve.Chain
	Evaluator Evaluator
	LoadedUrls *collections.OrderedSet[string]

	mu sync.Mutex
	slots map[string]*slot
}

func NewLoader(resolver resolve.Chain, evaluator Evaluator) *Loader {
	return &Loader{
		Resolver: resolver,
		Evaluator: evaluator,
		LoadedUrls: collections.NewOrderedSet[string](),
		slots: map[string]*slot{},
	}
}

// Load implements load protocol for one reference. base
// and baseImporter identify the referring stylesheet and the importer
// that produced it (nil for the entrypoint). chain is the caller's own
// in-progress evaluation chain, used only for cycle detection; it is not
// the same thing as "this slot has a Coalescing waiter", which is
// handled by blocking on the slot's done channel instead.
func (l *Loader) Load(ref string, base addrs.SourceIdentifier, baseImporter resolve.Importer, cfg *Configuration, kind ImportKind, chain []string) (*Module, diag.Diagnostics) {
	canonical, src, importer, diags := l.Resolver.Resolve(ref, base, baseImporter)
	if diags.HasErrors() {
		return nil, diags
	}
	return l.loadCanonical(canonical, src, importer, cfg, kind, chain)
}

// LoadEntrypoint installs the compilation's entry source directly,
// bypassing reference resolution, and records it in loadedUrls. entryImporter
// is the importer that should be treated as the entrypoint's own
// relative resolver for its own nested loads (nil for a bare in-memory
// entrypoint with no associated importer).
func (l *Loader) LoadEntrypoint(id addrs.SourceIdentifier, src *resolve.Source, entryImporter resolve.Importer) (*Module, diag.Diagnostics) {
	return l.loadCanonical(id, src, entryImporter, nil, KindUseOrForward, nil)
}

func (l *Loader) loadCanonical(canonical addrs.SourceIdentifier, src *resolve.Source, importer resolve.Importer, cfg *Configuration, kind ImportKind, chain []string) (*Module, diag.Diagnostics) {
	key := canonical.String()

	l.mu.Lock()
	existing, ok := l.slots[key]
	if !ok {
		s := &slot{state: stateInProgress, building: newModule(canonical), done: make(chan struct{})}
		l.slots[key] = s
		l.mu.Unlock()
		l.LoadedUrls.Add(key)
		return l.evaluate(s, src, cfg, importer, append(append([]string{}, chain...), key))
	}
	l.mu.Unlock()

	if containsString(chain, key) {
		return l.resolveCycle(existing, canonical, kind)
	}

	<-existing.done
	switch existing.state {
	case stateFailed:
		return nil, existing.err
	default:
		if cfg != nil {
			return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
				fmt.Sprintf("%s was already loaded, so it can't be configured using \"with\"", canonical), "", nil)}
		}
		return existing.building, nil
	}
}

// Get returns the completed Module for a canonical identifier string
// previously produced by Load/LoadEntrypoint, if its evaluation has
// finished successfully. The Public Compilation Surface uses this to
// assemble the final CSS output: TransitiveLoaded on the entrypoint
// Module names every canonical identifier whose own top-level CSS still
// needs to be concatenated into the result, and this is
// how the root package turns one of those identifiers back into the
// Module it belongs to.
func (l *Loader) Get(id string) (*Module, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[id]
	if !ok || s.state != stateComplete {
		return nil, false
	}
	return s.building, true
}

func (l *Loader) evaluate(s *slot, src *resolve.Source, cfg *Configuration, importer resolve.Importer, chain []string) (*Module, diag.Diagnostics) {
	diags := l.Evaluator.EvaluateModule(s.building, src, cfg, l, importer, chain)

	l.mu.Lock()
	if diags.HasErrors() {
		s.state = stateFailed
		s.err = diags
	} else {
		s.state = stateComplete
	}
	close(s.done)
	l.mu.Unlock()

	if diags.HasErrors() {
		return nil, diags
	}
	if cfg != nil {
		if unused := cfg.Unconsumed(); len(unused) > 0 {
			return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
				fmt.Sprintf("$%s was not declared with !default in the @used module", unused[0]), "", nil)}
		}
	}
	return s.building, diags
}

// resolveCycle implements the reentrant-load branch: a request for a
// canonical identifier that is already on this call stack's own
// evaluation chain is a cycle, not a race. @use/@forward cycles are
// errors; legacy @import cycles resolve to the partially-evaluated
// module view.
func (l *Loader) resolveCycle(s *slot, canonical addrs.SourceIdentifier, kind ImportKind) (*Module, diag.Diagnostics) {
	if kind == KindLegacyImport {
		return s.building, nil
	}
	return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindCycle,
		fmt.Sprintf("Module loop: %s", canonical), "", nil)}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
