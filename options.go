// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassgo

import (
	"github.com/spf13/afero"

	"github.com/sassgo/sassgo/internal/diag"
	"github.com/sassgo/sassgo/internal/module"
	"github.com/sassgo/sassgo/internal/resolve"
)

// Syntax is the surface syntax a stylesheet is written in.
type Syntax = resolve.Syntax

const (
	SyntaxSCSS = resolve.SyntaxSCSS
	SyntaxIndented = resolve.SyntaxIndented
	SyntaxCSS = resolve.SyntaxCSS
)

// Style selects the compiled CSS's serialization mode.
type Style = module.Style

const (
	StyleExpanded = module.StyleExpanded
	StyleCompressed = module.StyleCompressed
)

// Diagnostic is a single error or deprecation warning raised during
// compilation. Options.Logger receives one of these per
// warning as it's raised.
type Diagnostic = diag.Diagnostic

// Options is the closed set of knobs every Public Compilation Surface
// entry point accepts. The zero value is a usable
// configuration: no extra importers, no load paths, expanded output
// with the default charset policy, and no user functions.
type Options struct {
	// Importers are user-supplied resolvers consulted before LoadPaths
	// and PackageConfig, in declaration order.
	Importers []Importer
	// LoadPaths are base directories searched, each as its own
	// filesystem resolver, after Importers decline a reference.
	LoadPaths []string
	// PackageConfig maps a `package:` name to the local directory its
	// files are resolved relative to.
	PackageConfig map[string]string
	// RemotePackages enables the `http:`/`https:`/`git:` package
	// importer. RemoteCacheDir, if empty, defaults to os.TempDir's
	// "sassgo-pkg" subdirectory.
	RemotePackages bool
	RemoteCacheDir string
	// RemoteSharedCacheDir, if set, is a long-lived directory that
	// fetched remote packages are kept in across compilations, keyed by
	// package URL. Each compilation still gets its own private copy
	// under RemoteCacheDir, recreated from the shared copy (or fetched
	// into the shared copy first, if this is the first compilation to
	// need that URL) so that concurrent compilations never observe a
	// partially-fetched or another compilation's in-progress mutation
	// of the same package.
	RemoteSharedCacheDir string

	// Importer, together with URL, is CompileString's own relative
	// resolver: the importer nested references inside the string
	// entrypoint should try first.
	Importer Importer
	// URL is the canonical identifier CompileString's entrypoint is
	// considered loaded at. Nil is replaced with a synthesized
	// "string:..." identifier.
	URL *Identifier

	// Syntax is the entrypoint's surface syntax for CompileString; its
	// zero value is SyntaxSCSS. Compile does not read this field: it
	// always infers the syntax from the path's extension.
	Syntax Syntax
	// Style selects expanded (default) or compressed output.
	Style Style
	// Charset controls the `@charset`/BOM policy. Nil means the default
	// of true; a non-nil false suppresses the expanded `@charset`
	// directive (the compressed BOM still appears when the output
	// contains non-ASCII).
	Charset *bool
	// SilenceDeprecations lists deprecation IDs (e.g. "slash-div")
	// whose warnings should be recorded but not forwarded to Logger.
	SilenceDeprecations []string

	// Functions registers additional SassScript callables, consulted
	// for an unqualified call before the built-in modules.
	Functions map[string]Function
	// Logger receives every warning-severity Diagnostic as it's raised.
	Logger func(Diagnostic)

	// FS is the filesystem LoadPaths and the entrypoint path (for
	// Compile) are resolved against. Nil defaults to afero.NewOsFs.
	FS afero.Fs
}

func (o Options) charsetEnabled() bool {
	return o.Charset == nil || *o.Charset
}

func (o Options) fs() afero.Fs {
	if o.FS != nil {
		return o.FS
	}
	return afero.NewOsFs()
}

func (o Options) silenceSet() map[string]bool {
	out := make(map[string]bool, len(o.SilenceDeprecations))
	for _, id := range o.SilenceDeprecations {
		out[id] = true
	}
	return out
}
