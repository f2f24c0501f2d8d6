// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassgo

import "github.com/sassgo/sassgo/internal/addrs"

// Identifier is an opaque canonical Source Identifier: the
// value an Importer's Canonicalize produces, and the form Result's
// LoadedURLs are reported in. Two Identifiers from the same compilation
// compare equal with Equal iff they name the same canonical source.
type Identifier struct {
	inner addrs.SourceIdentifier
}

func (id *Identifier) String() string {
	if id == nil || id.inner == nil {
		return ""
	}
	return id.inner.String()
}

// Equal reports whether a and b name the same canonical source.
func Equal(a, b *Identifier) bool {
	if a == nil || b == nil {
		return a == b
	}
	return addrs.Equal(a.inner, b.inner)
}

// NewIdentifier builds a canonical identifier for a scheme a custom
// Importer owns, the same shape the built-in resolvers fall back to for
// anything that isn't a plain filesystem or package path
// (addrs.MemorySource). fragment may be empty.
func NewIdentifier(scheme, opaque, fragment string) *Identifier {
	return &Identifier{inner: addrs.MemorySource{Scheme: scheme, Opaque: opaque, Fragment: fragment}}
}
