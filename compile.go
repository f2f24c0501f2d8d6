// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package sassgo is the Public Compilation Surface: four
// synchronous entry points, their Async counterparts, and the Options,
// Importer, and Result types a caller builds a compilation out of.
//
// Everything below this package is internal: the Source Identifier
// types (internal/addrs), the Import Resolver (internal/resolve), the
// Module Loader & Graph (internal/module), the SassScript value algebra
// (internal/sassvalue), and the Evaluator Context (internal/evalctx).
// This file is where those pieces are wired together into one
// compilation and where the final CSS tree is assembled from every
// module a compilation touched.
package sassgo

import (
	"context"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sassgo/sassgo/internal/addrs"
	"github.com/sassgo/sassgo/internal/evalctx"
	"github.com/sassgo/sassgo/internal/module"
	"github.com/sassgo/sassgo/internal/resolve"
	"github.com/sassgo/sassgo/internal/sassvalue"
	"github.com/sassgo/sassgo/internal/tracing"
)

// loadedURL adapts one of Result.LoadedURLs' plain canonical-identifier
// strings to fmt.Stringer so that the set can be passed through
// tracing.StringSliceCapped without that helper taking a dependency on
// this package's own Result type.
type loadedURL string

func (u loadedURL) String() string { return string(u) }

// loadedURLSeq lets a []string of canonical identifiers be iterated as
// the iter.Seq of fmt.Stringer values tracing.StringSliceCapped expects.
func loadedURLSeq(urls []string) iter.Seq[loadedURL] {
	return func(yield func(loadedURL) bool) {
		for _, u := range urls {
			if !yield(loadedURL(u)) {
				return
			}
		}
	}
}

// maxTracedLoadedURLs bounds how many canonical identifiers
// recordLoadedURLs will attach to a span before summarizing the rest,
// so a compile with a deep @use graph doesn't bloat exported traces.
const maxTracedLoadedURLs = 64

// recordLoadedURLs attaches the compilation's loaded-URL set to span as
// an attribute, skipping the work entirely when span isn't recording
// (tracing.StringSliceCapped already shortcuts on that; this also skips
// building the attribute).
func recordLoadedURLs(span tracing.Span, urls []string) {
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(attribute.StringSlice(tracing.LoadedURLsAttributeName, tracing.StringSliceCapped(span, loadedURLSeq(urls), maxTracedLoadedURLs)))
}

// Compile reads and compiles the stylesheet at path, inferring its
// syntax from the file extension.
func Compile(sourcePath string, opts Options) (string, error) {
	res, err := CompileToResult(sourcePath, opts)
	if err != nil {
		return "", err
	}
	return res.CSS, nil
}

// CompileToResult is Compile plus the set of canonical identifiers the
// compilation loaded.
func CompileToResult(sourcePath string, opts Options) (Result, error) {
	_, span := tracing.Tracer().Start(context.Background(), "sassgo.CompileToResult",
		tracing.SpanAttributes(attribute.String(tracing.SourceIdentifierAttributeName, sourcePath)))
	defer span.End()

	fs := opts.fs()
	cleanPath := path.Clean(filepath.ToSlash(sourcePath))

	contents, err := afero.ReadFile(fs, cleanPath)
	if err != nil {
		tracing.SetSpanError(span, err)
		return Result{}, err
	}

	loader := module.NewLoader(opts.buildChain(), newEvaluatorContext(opts))
	id := addrs.FileSource{Path: cleanPath}
	src := &resolve.Source{
		Identifier: id,
		Contents: string(contents),
		Syntax: inferSyntax(cleanPath),
	}
	entryImporter := resolve.NewFilesystemImporter(fs, path.Dir(cleanPath))

	mod, diags := loader.LoadEntrypoint(id, src, entryImporter)
	if diags.HasErrors() {
		tracing.SetSpanError(span, diags)
		return Result{}, diags.Err()
	}
	result := finish(mod, loader, opts)
	recordLoadedURLs(span, result.LoadedURLs)
	return result, nil
}

// CompileString compiles source directly, with no filesystem entrypoint.
// Options.URL gives the entrypoint a canonical identity for diagnostics
// and Result.LoadedURLs; it defaults to a synthetic "string:stdin"
// identifier, mirroring how Sass tooling labels string input with no
// url.
func CompileString(source string, opts Options) (string, error) {
	res, err := CompileStringToResult(source, opts)
	if err != nil {
		return "", err
	}
	return res.CSS, nil
}

// CompileStringToResult is CompileString plus the loaded-URLs set.
func CompileStringToResult(source string, opts Options) (Result, error) {
	_, span := tracing.Tracer().Start(context.Background(), "sassgo.CompileStringToResult")
	defer span.End()

	id := opts.URL
	if id == nil {
		id = NewIdentifier("string", "stdin", "")
	}

	var entryImporter resolve.Importer
	if opts.Importer != nil {
		entryImporter = &importerAdapter{user: opts.Importer}
	}

	loader := module.NewLoader(opts.buildChain(), newEvaluatorContext(opts))
	src := &resolve.Source{Identifier: id.inner, Contents: source, Syntax: opts.Syntax}

	mod, diags := loader.LoadEntrypoint(id.inner, src, entryImporter)
	if diags.HasErrors() {
		tracing.SetSpanError(span, diags)
		return Result{}, diags.Err()
	}
	result := finish(mod, loader, opts)
	recordLoadedURLs(span, result.LoadedURLs)
	return result, nil
}

func inferSyntax(p string) Syntax {
	switch {
	case strings.HasSuffix(p, ".sass"):
		return SyntaxIndented
	case strings.HasSuffix(p, ".css"):
		return SyntaxCSS
	default:
		return SyntaxSCSS
	}
}

// buildChain assembles the resolve.Chain this compilation's Loader uses
// from Options, tier by tier: user Importers first (the
// remote-package importer rides along at the back of that tier, since
// it only ever fires for a `http:`/`https:`/`git:` reference regardless
// of declaration order), then LoadPaths, then PackageConfig.
func (o Options) buildChain() resolve.Chain {
	fs := o.fs()
	var chain resolve.Chain

	for _, imp := range o.Importers {
		chain.Importers = append(chain.Importers, &importerAdapter{user: imp})
	}
	if o.RemotePackages {
		dir := o.RemoteCacheDir
		if dir == "" {
			dir = filepath.Join(os.TempDir(), "sassgo-pkg")
		}
		imp := resolve.NewRemotePackageImporter(dir)
		imp.SharedCacheDir = o.RemoteSharedCacheDir
		chain.Importers = append(chain.Importers, imp)
	}
	for _, dir := range o.LoadPaths {
		chain.LoadPaths = append(chain.LoadPaths, resolve.NewFilesystemImporter(fs, dir))
	}
	if len(o.PackageConfig) > 0 {
		chain.Package = &resolve.PackageImporter{FS: fs, Packages: o.PackageConfig}
	}
	return chain
}

// newEvaluatorContext builds the Evaluator Context a Loader evaluates
// every module of this compilation with, wiring Options.Functions in as
// invokable callables rather than merely-nameable ones.
func newEvaluatorContext(o Options) *evalctx.Context {
	ctx := evalctx.NewContext()
	ctx.Silence = o.silenceSet()
	ctx.Logger = o.Logger
	if len(o.Functions) > 0 {
		ctx.UserFunctions = make(map[string]sassvalue.Callable, len(o.Functions))
		for name, fn := range o.Functions {
			ctx.UserFunctions[name] = evalctx.NewFunction(name, fn)
		}
	}
	return ctx
}

// finish assembles the final CSS tree and renders it: every module
// mod's own evaluation reached through @use/@forward contributes its
// own top-level CSS exactly once, in first-observed order, ahead of
// mod's own items (which already carry anything spliced in through
// @import or meta.load-css). @extend relationships collected across
// every one of those modules are then applied to the assembled tree
// before rendering.
func finish(mod *module.Module, loader *module.Loader, opts Options) Result {
	var items []module.Item
	extensions := map[string][]string{}

	for _, id := range mod.TransitiveLoaded.Slice() {
		dep, ok := loader.Get(id)
		if !ok {
			continue
		}
		items = append(items, dep.CSS.Items...)
		mergeExtensions(extensions, dep.Extensions)
	}
	items = append(items, mod.CSS.Items...)
	mergeExtensions(extensions, mod.Extensions)

	items = applyExtends(items, extensions)
	sheet := &module.Stylesheet{Items: items}

	body := sheet.Render(opts.Style, "")
	css := sheet.Render(opts.Style, charsetPrefixFor(body, opts.Style, opts.charsetEnabled()))

	return Result{CSS: css, LoadedURLs: loader.LoadedUrls.Slice()}
}

func mergeExtensions(dst, src map[string][]string) {
	for selector, extenders := range src {
		dst[selector] = append(dst[selector], extenders...)
	}
}

// charsetPrefixFor implements the charset policy: a
// non-ASCII body gets a `@charset "UTF-8";` directive in expanded
// output (unless charsetEnabled is false) or a UTF-8 BOM in compressed
// output (regardless of charsetEnabled — the BOM is the only signal a
// single-line compressed stylesheet has room for).
func charsetPrefixFor(body string, style module.Style, charsetEnabled bool) string {
	hasNonASCII := false
	for _, r := range body {
		if r > 127 {
			hasNonASCII = true
			break
		}
	}
	if !hasNonASCII {
		return ""
	}
	if style == module.StyleCompressed {
		return "\uFEFF"
	}
	if !charsetEnabled {
		return ""
	}
	return "@charset \"UTF-8\";\n"
}
