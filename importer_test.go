// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassgo

import (
	"errors"
	"testing"

	"github.com/sassgo/sassgo/internal/addrs"
)

type stubUserImporter struct {
	canonID       *Identifier
	canonErr      error
	loadResult    *ImporterResult
	loadErr       error
	lastRef       string
	lastFrom      *Identifier
	lastLoadID    *Identifier
	nonCanonical  string
}

func (s *stubUserImporter) Canonicalize(ref string, from *Identifier) (*Identifier, error) {
	s.lastRef = ref
	s.lastFrom = from
	return s.canonID, s.canonErr
}

func (s *stubUserImporter) Load(id *Identifier) (*ImporterResult, error) {
	s.lastLoadID = id
	return s.loadResult, s.loadErr
}

func TestImporterAdapterCanonicalizeDeclinesOnNilIdentifier(t *testing.T) {
	stub := &stubUserImporter{}
	adapter := &importerAdapter{user: stub}

	id, ok, err := adapter.Canonicalize("other", nil)
	if err != nil || ok || id != nil {
		t.Fatalf("expected a plain decline when the user importer returns a nil Identifier, got id=%v ok=%v err=%v", id, ok, err)
	}
}

func TestImporterAdapterCanonicalizePropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	stub := &stubUserImporter{canonErr: wantErr}
	adapter := &importerAdapter{user: stub}

	_, ok, err := adapter.Canonicalize("other", nil)
	if ok || !errors.Is(err, wantErr) {
		t.Fatalf("got ok=%v err=%v, want the user importer's error propagated", ok, err)
	}
}

func TestImporterAdapterCanonicalizeUnwrapsResult(t *testing.T) {
	want := NewIdentifier("custom", "thing", "")
	stub := &stubUserImporter{canonID: want}
	adapter := &importerAdapter{user: stub}

	id, ok, err := adapter.Canonicalize("thing", nil)
	if err != nil || !ok {
		t.Fatalf("err=%v ok=%v", err, ok)
	}
	if !addrs.Equal(id, want.inner) {
		t.Fatalf("got %v, want %v", id, want.inner)
	}
}

func TestImporterAdapterCanonicalizeWrapsBaseIdentifier(t *testing.T) {
	stub := &stubUserImporter{}
	adapter := &importerAdapter{user: stub}
	base := addrs.MemorySource{Scheme: "custom", Opaque: "entry"}

	adapter.Canonicalize("other", base)
	if stub.lastFrom == nil || !addrs.Equal(stub.lastFrom.inner, base) {
		t.Fatalf("expected the adapter to wrap the addrs base as an Identifier, got %v", stub.lastFrom)
	}
}

func TestImporterAdapterLoadDeclinesOnNilResult(t *testing.T) {
	stub := &stubUserImporter{}
	adapter := &importerAdapter{user: stub}

	src, ok, err := adapter.Load(addrs.MemorySource{Scheme: "custom", Opaque: "x"})
	if err != nil || ok || src != nil {
		t.Fatalf("expected a plain decline when Load returns a nil result, got src=%v ok=%v err=%v", src, ok, err)
	}
}

func TestImporterAdapterLoadUnwrapsResult(t *testing.T) {
	stub := &stubUserImporter{loadResult: &ImporterResult{Contents: "a {b: c}", Syntax: SyntaxSCSS}}
	adapter := &importerAdapter{user: stub}
	identifier := addrs.MemorySource{Scheme: "custom", Opaque: "x"}

	src, ok, err := adapter.Load(identifier)
	if err != nil || !ok {
		t.Fatalf("err=%v ok=%v", err, ok)
	}
	if src.Contents != "a {b: c}" {
		t.Fatalf("got %q", src.Contents)
	}
	if !addrs.Equal(src.Identifier, identifier) {
		t.Fatalf("expected the loaded Source's Identifier to be the canonical id passed in, got %v", src.Identifier)
	}
}

func TestImporterAdapterNonCanonicalSchemeDefaultsEmpty(t *testing.T) {
	stub := &stubUserImporter{}
	adapter := &importerAdapter{user: stub}
	if adapter.NonCanonicalScheme() != "" {
		t.Fatalf("expected an empty NonCanonicalScheme for an importer that doesn't implement the optional interface")
	}
}

type nonCanonicalStubImporter struct {
	stubUserImporter
	scheme string
}

func (n *nonCanonicalStubImporter) NonCanonicalScheme() string { return n.scheme }

func TestImporterAdapterNonCanonicalSchemeForwardsOptionalInterface(t *testing.T) {
	stub := &nonCanonicalStubImporter{scheme: "data"}
	adapter := &importerAdapter{user: stub}
	if adapter.NonCanonicalScheme() != "data" {
		t.Fatalf("got %q, want %q", adapter.NonCanonicalScheme(), "data")
	}
}
