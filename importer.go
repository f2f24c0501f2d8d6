// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassgo

import (
	"github.com/sassgo/sassgo/internal/addrs"
	"github.com/sassgo/sassgo/internal/resolve"
)

// ImporterResult is what a custom Importer's Load returns for a
// canonical identifier it recognizes.
type ImporterResult struct {
	Contents string
	Syntax Syntax
	SourceMapURL string
}

// Importer is the user-extensible half of the Import Resolver.
// Options.Importers and Options.Importer take values of this interface;
// the resolvers that LoadPaths and PackageConfig build are internal
// types with their own contract. User code only ever needs to implement
// this interface.
//
// A nil Identifier and nil error from Canonicalize means "not mine, try
// the next importer in the chain".
type Importer interface {
	Canonicalize(ref string, from *Identifier) (*Identifier, error)
	Load(id *Identifier) (*ImporterResult, error)
}

// NonCanonicalImporter is an optional extension of Importer: an importer
// implementing it declares a URL scheme it never treats as
// already-canonical, so references using that scheme are always routed
// through Canonicalize even when they already look fully qualified.
type NonCanonicalImporter interface {
	Importer
	NonCanonicalScheme() string
}

// importerAdapter wires a user-supplied Importer into the internal
// resolve.Chain, translating between the public Identifier wrapper and
// the addrs.SourceIdentifier the resolver package keys its cache by.
type importerAdapter struct {
	user Importer
}

func (a *importerAdapter) Canonicalize(ref string, base addrs.SourceIdentifier) (addrs.SourceIdentifier, bool, error) {
	var from *Identifier
	if base != nil {
		from = &Identifier{inner: base}
	}
	id, err := a.user.Canonicalize(ref, from)
	if err != nil {
		return nil, false, err
	}
	if id == nil {
		return nil, false, nil
	}
	return id.inner, true, nil
}

func (a *importerAdapter) Load(id addrs.SourceIdentifier) (*resolve.Source, bool, error) {
	res, err := a.user.Load(&Identifier{inner: id})
	if err != nil {
		return nil, false, err
	}
	if res == nil {
		return nil, false, nil
	}
	return &resolve.Source{
		Identifier: id,
		Contents: res.Contents,
		Syntax: resolve.Syntax(res.Syntax),
		SourceMapURL: res.SourceMapURL,
	}, true, nil
}

func (a *importerAdapter) NonCanonicalScheme() string {
	if nc, ok := a.user.(NonCanonicalImporter); ok {
		return nc.NonCanonicalScheme()
	}
	return ""
}
