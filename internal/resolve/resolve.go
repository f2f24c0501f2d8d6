// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package resolve implements the Import Resolver: a
// prioritized chain of Importers that turns a reference string written
// in `@use`/`@forward`/`@import`/`meta.load-css` into a canonical
// addrs.SourceIdentifier plus the fetched contents at that identifier.
//
// The chain shape mirrors a module source installer that tries a
// registry/package resolver, then a set of configured
// sources, in declaration order, first-match-wins (internal/getmodules,
// internal/registry).
package resolve

import (
	"fmt"

	"github.com/sassgo/sassgo/internal/addrs"
	"github.com/sassgo/sassgo/internal/diag"
)

// Syntax is the surface syntax a Source is written in.
type Syntax int

const (
	SyntaxSCSS Syntax = iota
	SyntaxIndented
	SyntaxCSS
)

func (s Syntax) String() string {
	switch s {
	case SyntaxIndented:
		return "indented"
	case SyntaxCSS:
		return "css"
	default:
		return "scss"
	}
}

// Source is the Stylesheet Source data model entry:
// immutable once produced, discarded by the Loader after parsing.
type Source struct {
	Identifier addrs.SourceIdentifier
	Contents string
	Syntax Syntax
	SourceMapURL string
}

// Importer is the contract that user code (and every built-in resolver
// in this package) must implement: canonicalize a reference, then load
// the canonical identifier's contents.
//
// A nil, false return from Canonicalize means "not mine, try the next
// importer in the chain".
type Importer interface {
	Canonicalize(ref string, base addrs.SourceIdentifier) (addrs.SourceIdentifier, bool, error)
	Load(id addrs.SourceIdentifier) (*Source, bool, error)

	// NonCanonicalScheme, if non-empty, declares a URL scheme that this
	// importer never treats as already-canonical: references using that
	// scheme are always redirected through Canonicalize even when they
	// look like a fully-qualified identifier already.
	NonCanonicalScheme() string
}

// Chain is the Resolver's ordered set of importers, plus the load-path
// and package-URL resolvers calls out as their own tiers.
type Chain struct {
	// Importers are user-supplied resolvers, consulted in declaration
	// order.
	Importers []Importer
	// LoadPaths are base directories, each wrapped as a FilesystemImporter.
	LoadPaths []Importer
	// Package is the Package-URL resolver, triggered only by the
	// `package:` scheme. Nil if not configured.
	Package Importer
}

// ordered returns every importer this chain will try, tiers 2 through 4
// concatenated in order: user importers, then load paths,
// then the package resolver.
func (c Chain) ordered() []Importer {
	out := make([]Importer, 0, len(c.Importers)+len(c.LoadPaths)+1)
	out = append(out, c.Importers...)
	out = append(out, c.LoadPaths...)
	if c.Package != nil {
		out = append(out, c.Package)
	}
	return out
}

// Resolve implements full precedence algorithm for one
// reference, given the base identifier and the importer that produced
// it (relBase may be nil for the entrypoint, which has no relative
// resolver).
func (c Chain) Resolve(ref string, base addrs.SourceIdentifier, relBase Importer) (addrs.SourceIdentifier, *Source, Importer, diag.Diagnostics) {
	candidates := c.candidateOrder(ref, relBase)

	for _, imp := range candidates {
		canon, ok, err := imp.Canonicalize(ref, base)
		if err != nil {
			return nil, nil, nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindResolver,
				fmt.Sprintf("Error canonicalizing %q", ref), err.Error(), nil)}
		}
		if !ok {
			continue
		}
		src, ok, err := imp.Load(canon)
		if err != nil {
			return nil, nil, nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindResolver,
				fmt.Sprintf("Error loading %s", canon), err.Error(), nil)}
		}
		if !ok {
			return nil, nil, nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindResolver,
				fmt.Sprintf("Can't find stylesheet to import: %s", canon), "", nil)}
		}
		return canon, src, imp, nil
	}
	return nil, nil, nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindResolver,
		fmt.Sprintf("Can't find stylesheet to import: %q", ref), "", nil)}
}

// candidateOrder applies precedence rules: a non-absolute
// reference tries the relative resolver first and only consults the full
// chain if that resolver declines; an absolute (scheme-qualified)
// reference consults the chain from the top, without any relative
// preference, even if relBase would also canonicalize it.
func (c Chain) candidateOrder(ref string, relBase Importer) []Importer {
	rest := c.ordered()
	if isAbsoluteReference(ref) {
		return rest
	}
	if relBase == nil {
		return rest
	}
	out := make([]Importer, 0, len(rest)+1)
	out = append(out, relBase)
	out = append(out, rest...)
	return out
}

// isAbsoluteReference reports whether ref carries an explicit URL scheme
// ("package:foo", "https://...") as opposed to a relative path
// ("foo", "./foo", "../foo").
func isAbsoluteReference(ref string) bool {
	for i, r := range ref {
		switch {
		case r == ':':
			return i > 0
		case r == '/' || r == '.':
			return false
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '+' || r == '-':
			continue
		default:
			return false
		}
	}
	return false
}
