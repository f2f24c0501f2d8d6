// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package module

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sassgo/sassgo/internal/addrs"
	"github.com/sassgo/sassgo/internal/diag"
	"github.com/sassgo/sassgo/internal/resolve"
)

// countingEvaluator counts how many times EvaluateModule actually runs
// per canonical identifier and optionally blocks until release is
// closed, letting a test force two Load calls to race against the same
// slot.
type countingEvaluator struct {
	mu sync.Mutex
	calls map[string]int
	release chan struct{}
	started chan struct{}
}

func newCountingEvaluator() *countingEvaluator {
	return &countingEvaluator{calls: map[string]int{}}
}

func (e *countingEvaluator) EvaluateModule(mod *Module, src *resolve.Source, cfg *Configuration, loader *Loader, baseImporter resolve.Importer, chain []string) diag.Diagnostics {
	e.mu.Lock()
	e.calls[mod.Identifier.String()]++
	e.mu.Unlock()

	if e.started != nil {
		close(e.started)
	}
	if e.release != nil {
		<-e.release
	}

	mod.Namespace.SetVariable("loaded", nil, false)
	return nil
}

func (e *countingEvaluator) callCount(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[id]
}

type stubResolveImporter struct {
	body string
}

func (s *stubResolveImporter) NonCanonicalScheme() string { return "" }

func (s *stubResolveImporter) Canonicalize(ref string, _ addrs.SourceIdentifier) (addrs.SourceIdentifier, bool, error) {
	return addrs.MemorySource{Scheme: "mem", Opaque: ref}, true, nil
}

func (s *stubResolveImporter) Load(id addrs.SourceIdentifier) (*resolve.Source, bool, error) {
	return &resolve.Source{Identifier: id, Contents: s.body, Syntax: resolve.SyntaxSCSS}, true, nil
}

func TestLoaderEvaluatesEachCanonicalIdentifierAtMostOnce(t *testing.T) {
	evaluator := newCountingEvaluator()
	loader := NewLoader(resolve.Chain{Importers: []resolve.Importer{&stubResolveImporter{body: "a {b: c}"}}}, evaluator)

	const n = 8
	var wg sync.WaitGroup
	var successes atomic.Int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, diags := loader.Load("other", nil, nil, nil, KindUseOrForward, nil)
			if !diags.HasErrors() {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := successes.Load(); got != n {
		t.Fatalf("expected all %d concurrent loads to succeed, got %d", n, got)
	}
	if got := evaluator.callCount("mem:other"); got != 1 {
		t.Fatalf("expected exactly one evaluation of the canonical identifier, got %d", got)
	}
}

func TestLoaderCoalescesDuringInProgressEvaluation(t *testing.T) {
	evaluator := newCountingEvaluator()
	evaluator.started = make(chan struct{})
	evaluator.release = make(chan struct{})
	loader := NewLoader(resolve.Chain{Importers: []resolve.Importer{&stubResolveImporter{body: "a {b: c}"}}}, evaluator)

	done := make(chan struct{})
	go func() {
		loader.Load("other", nil, nil, nil, KindUseOrForward, nil)
		close(done)
	}()
	<-evaluator.started // first load has installed InProgress and is blocked mid-evaluation

	second := make(chan struct{})
	go func() {
		loader.Load("other", nil, nil, nil, KindUseOrForward, nil)
		close(second)
	}()

	select {
	case <-second:
		t.Fatalf("the second load should block on the in-progress slot, not return early")
	default:
	}

	close(evaluator.release)
	<-done
	<-second

	if got := evaluator.callCount("mem:other"); got != 1 {
		t.Fatalf("expected exactly one evaluation despite the race, got %d", got)
	}
}

func TestLoaderUseForwardCycleIsAnError(t *testing.T) {
	evaluator := newCountingEvaluator()
	loader := NewLoader(resolve.Chain{Importers: []resolve.Importer{&stubResolveImporter{body: ""}}}, evaluator)

	// Install the slot as "in progress" the way a real nested load would
	// have before the same identifier reappears on its own chain.
	id := addrs.MemorySource{Scheme: "mem", Opaque: "other"}
	loader.mu.Lock()
	loader.slots[id.String()] = &slot{state: stateInProgress, building: newModule(id), done: make(chan struct{})}
	loader.mu.Unlock()

	chain := []string{"mem:other"}
	_, diags := loader.Load("other", nil, nil, nil, KindUseOrForward, chain)
	if !diags.HasErrors() {
		t.Fatalf("expected a cycle error for a @use/@forward cycle")
	}
}

func TestLoaderLegacyImportCycleResolvesToPartialModule(t *testing.T) {
	evaluator := newCountingEvaluator()
	loader := NewLoader(resolve.Chain{Importers: []resolve.Importer{&stubResolveImporter{body: ""}}}, evaluator)

	// Install the slot as "in progress" the way a real nested load would,
	// by starting (and blocking inside) an evaluation, then ask for the
	// same identifier again from within that same chain.
	id := addrs.MemorySource{Scheme: "mem", Opaque: "other"}
	key := id.String()
	loader.mu.Lock()
	loader.slots[key] = &slot{state: stateInProgress, building: newModule(id), done: make(chan struct{})}
	loader.mu.Unlock()

	mod, diags := loader.Load("other", nil, nil, nil, KindLegacyImport, []string{key})
	if diags.HasErrors() {
		t.Fatalf("a legacy @import cycle should not be an error, got %v", diags)
	}
	if mod == nil || mod.Identifier.String() != key {
		t.Fatalf("expected the partially-evaluated module back, got %v", mod)
	}
}

func TestLoaderConfiguringAlreadyEvaluatedModuleIsAnError(t *testing.T) {
	evaluator := newCountingEvaluator()
	loader := NewLoader(resolve.Chain{Importers: []resolve.Importer{&stubResolveImporter{body: "a {b: c}"}}}, evaluator)

	if _, diags := loader.Load("other", nil, nil, nil, KindUseOrForward, nil); diags.HasErrors() {
		t.Fatalf("unexpected error on first load: %v", diags)
	}

	cfg := NewConfiguration(map[string]ConfiguredValue{"x": {}})
	_, diags := loader.Load("other", nil, nil, cfg, KindUseOrForward, nil)
	if !diags.HasErrors() {
		t.Fatalf("expected an error configuring an already-evaluated module")
	}
}

func TestLoaderRecordsLoadedUrls(t *testing.T) {
	evaluator := newCountingEvaluator()
	loader := NewLoader(resolve.Chain{Importers: []resolve.Importer{&stubResolveImporter{body: "a {b: c}"}}}, evaluator)

	loader.Load("other", nil, nil, nil, KindUseOrForward, nil)
	loader.Load("other", nil, nil, nil, KindUseOrForward, nil)

	urls := loader.LoadedUrls.Slice()
	if len(urls) != 1 || urls[0] != "mem:other" {
		t.Fatalf("got %v, want a single deduplicated entry", urls)
	}
}
