// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package addrs holds the canonical Source Identifier types that the
// Resolver produces and the Module Loader
// keys its cache by.
//
// The shape follows a familiar ModuleSource family
// (ModuleSourceLocal / ModuleSourceRegistry / ModuleSourceRemote, joined
// by ResolveRelativeModuleSource): a closed interface with one
// implementation per reference-string shape, plus a free function that
// resolves a possibly-relative reference against a base identifier.
package addrs

import "fmt"

// SourceIdentifier is a canonicalized Source Identifier.
// Two identifiers compare equal iff their canonicalized forms are
// byte-equal, which for every implementation in this package means
// ordinary Go struct equality (each variant's exported fields are plain
// comparable strings).
type SourceIdentifier interface {
	fmt.Stringer

	// isSourceIdentifier is unexported so that SourceIdentifier is a
	// closed interface: the only implementations are the ones declared
	// in this package.
	isSourceIdentifier()
}

// LocalSource is a reference resolved relative to the filesystem (or
// virtual filesystem) directory of its base identifier: "./foo",
// "../bar/baz". It is never produced for the entrypoint of a
// compilation; it only appears as an intermediate reference string,
// never as a canonical identifier on its own (canonicalization always
// resolves a LocalSource against a non-local base first).
type LocalSource string

func (LocalSource) isSourceIdentifier() {}
func (s LocalSource) String() string { return string(s) }

// FileSource is a canonical filesystem path, produced by the filesystem
// importer.
type FileSource struct {
	// Path is an absolute, cleaned filesystem path.
	Path string
}

func (FileSource) isSourceIdentifier() {}
func (s FileSource) String() string { return "file://" + s.Path }

// MemorySource is the canonical identifier for an in-memory string
// entrypoint, or for a reference handed
// to a user-supplied importer whose scheme isn't file/package.
type MemorySource struct {
	// Scheme is the URL scheme as written, e.g. "data", "custom", or
	// the scheme an importer's NonCanonicalScheme redirected away from.
	Scheme string
	// Opaque is everything after "scheme:", unparsed.
	Opaque string
	// Fragment is the optional "#fragment" suffix, parsed separately so
	// that two identifiers differing only by fragment still compare
	// unequal if their fragments differ.
	Fragment string
}

func (MemorySource) isSourceIdentifier() {}
func (s MemorySource) String() string {
	str := s.Scheme + ":" + s.Opaque
	if s.Fragment != "" {
		str += "#" + s.Fragment
	}
	return str
}

// PackageSource is the canonical identifier produced by the
// Package-URL resolver: a package name plus the
// subpath requested within it, before being rewritten to the
// package's underlying FileSource or MemorySource base. It is kept
// distinct so that loadedUrls can report the
// `package:` form the user actually wrote rather than the resolved
// filesystem path underneath it, matching how real Sass tooling
// reports package-relative loads back to the caller.
type PackageSource struct {
	Package string
	Subpath string
}

func (PackageSource) isSourceIdentifier() {}
func (s PackageSource) String() string {
	str := "package:" + s.Package
	if s.Subpath != "" {
		str += "/" + s.Subpath
	}
	return str
}

// RemotePackageSource is the canonical identifier for a file served out
// of a fetched remote package: the package's original URL plus the
// subpath within its fetched tree.
type RemotePackageSource struct {
	PackageURL string
	Subpath string
}

func (RemotePackageSource) isSourceIdentifier() {}
func (s RemotePackageSource) String() string {
	str := s.PackageURL
	if s.Subpath != "" {
		str += "//" + s.Subpath
	}
	return str
}

// Equal reports whether two identifiers are the same canonical source,
// applying the "byte-equal canonicalized form" equality rule.
func Equal(a, b SourceIdentifier) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}
