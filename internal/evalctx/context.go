// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package evalctx

import (
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sassgo/sassgo/internal/diag"
	"github.com/sassgo/sassgo/internal/module"
	"github.com/sassgo/sassgo/internal/parse"
	"github.com/sassgo/sassgo/internal/resolve"
	"github.com/sassgo/sassgo/internal/sassvalue"
)

// Context is the compile-wide state shared by every module the Module
// Loader evaluates for one compilation: the registered builtin and
// user-supplied functions, the deprecation logger hook, and the
// accumulated warning diagnostics. One Context implements
// module.Evaluator and is handed to module.NewLoader for the whole
// compilation.
type Context struct {
	// UserFunctions are additional callables supplied through the
	// Public Compilation Surface's Options.Functions, consulted for an
	// unqualified call before the built-in modules.
	UserFunctions map[string]sassvalue.Callable

	// Logger receives every warning-severity diagnostic as it is raised.
	// May be nil.
	Logger func(diag.Diagnostic)

	// Silence holds deprecation IDs the caller asked to suppress.
	// "slash-div" is the only ID this evaluator currently raises.
	Silence map[string]bool

	mu sync.Mutex
	diags diag.Diagnostics
}

// NewContext builds an empty Context ready to evaluate a compilation.
func NewContext() *Context {
	return &Context{Silence: map[string]bool{}}
}

// Diagnostics returns every diagnostic accumulated across every module
// this Context has evaluated so far, in raised order.
func (c *Context) Diagnostics() diag.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(diag.Diagnostics, len(c.diags))
	copy(out, c.diags)
	return out
}

func (c *Context) record(d diag.Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// warn raises a deprecation warning unless id is in the silence set,
// both recording it and forwarding it to Logger.
func (c *Context) warn(id string, d diag.Diagnostic) {
	if c.Silence[id] {
		return
	}
	c.record(d)
	if c.Logger != nil {
		c.Logger(d)
	}
}

// EvaluateModule implements module.Evaluator: it parses src and walks
// the resulting stylesheet, populating mod's Namespace, CSS tree, and
// Extensions in place.
func (c *Context) EvaluateModule(mod *module.Module, src *resolve.Source, cfg *module.Configuration, loader *module.Loader, baseImporter resolve.Importer, chain []string) diag.Diagnostics {
	stylesheet, err := parse.Parse(mod.Identifier.String(), src.Contents, parse.Syntax(src.Syntax))
	if err != nil {
		return diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindParse, err.Error(), "", nil)}
	}

	ev := &moduleEvaluator{
		ctx: c,
		mod: mod,
		loader: loader,
		baseImporter: baseImporter,
		chain: chain,
		cfg: cfg,
		scope: NewScope(nil),
		namespaces: map[string]*module.Namespace{},
	}

	ev.prefetchUses(stylesheet.Statements)
	items, diags := ev.evalBlock(stylesheet.Statements, "")
	mod.CSS.Append(items...)
	return diags
}

// moduleEvaluator carries the mutable state of evaluating one module's
// stylesheet: its own Namespace/CSS (via mod), the @use-alias table, and
// the local lexical scope chain, which is pushed one level deeper by
// every @if/@else, @each, @for, @while iteration and by every
// @mixin/@function invocation (see control.go), so a body's variable,
// mixin, and function declarations stay visible only within it.
type moduleEvaluator struct {
	ctx *Context
	mod *module.Module
	loader *module.Loader
	baseImporter resolve.Importer
	chain []string
	cfg *module.Configuration
	scope *Scope
	// namespaces maps an @use alias (or a `sass:` module's short name)
	// to the Namespace its members are read from for `alias.member`
	// references.
	namespaces map[string]*module.Namespace
	// prefetched holds the outcome of resolving a leading run of
	// with-free @use targets concurrently, keyed by their unresolved
	// reference string. evalUse consults it before making its own
	// synchronous Loader.Load call. Nil when prefetchUses found nothing
	// eligible to fan out.
	prefetched map[string]*prefetchedUse
}

// prefetchedUse is one entry resolved ahead of sequential evaluation by
// prefetchUses.
type prefetchedUse struct {
	module *module.Module
	diags  diag.Diagnostics
}

// prefetchUses resolves a leading run of plain @use statements (no
// `sass:` built-in, no `with` configuration) concurrently through an
// errgroup.Group before evalBlock walks stmts in order, so the
// resolver I/O behind each target's Importer.Canonicalize/Load can
// overlap instead of blocking one @use at a time. A `with` clause or a
// `sass:` target is left for evalUse to handle synchronously, since
// the former needs the surrounding scope's variables to evaluate and
// the latter never touches the loader at all. The Loader's mutex over
// its slot map, and the per-slot done channel a second caller waits on,
// still give two of these goroutines that happen to name the same
// canonical module one shared evaluation, so fanning out here is safe
// even when targets overlap.
func (e *moduleEvaluator) prefetchUses(stmts []parse.Statement) {
	var refs []string
	seen := map[string]bool{}
	for _, stmt := range stmts {
		u, ok := stmt.(parse.UseRule)
		if !ok {
			break
		}
		if strings.HasPrefix(u.Ref, "sass:") || len(u.With) > 0 {
			break
		}
		if !seen[u.Ref] {
			seen[u.Ref] = true
			refs = append(refs, u.Ref)
		}
	}
	if len(refs) < 2 {
		return
	}

	prefetched := make(map[string]*prefetchedUse, len(refs))
	var mu sync.Mutex
	var g errgroup.Group
	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			loaded, diags := e.loader.Load(ref, e.mod.Identifier, e.baseImporter, nil, module.KindUseOrForward, e.chain)
			mu.Lock()
			prefetched[ref] = &prefetchedUse{module: loaded, diags: diags}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	e.prefetched = prefetched
}

func combineSelector(parent, child string) string {
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if strings.Contains(child, "&") {
		return strings.ReplaceAll(child, "&", parent)
	}
	return parent + " " + child
}

func (e *moduleEvaluator) recordExtend(selector, header string) {
	target := strings.TrimSuffix(strings.TrimSpace(header), "!optional")
	target = strings.TrimSpace(target)
	target = strings.Trim(target, "\"'")
	e.mod.Extensions[target] = append(e.mod.Extensions[target], selector)
}

func (e *moduleEvaluator) lookupVariable(name string) (sassvalue.Value, bool) {
	if v, ok := e.scope.Get(name); ok {
		return v, true
	}
	return e.mod.Namespace.Variable(name)
}

func (e *moduleEvaluator) lookupNamespacedVariable(ns, name string) (sassvalue.Value, bool) {
	target, ok := e.namespaces[ns]
	if !ok {
		return nil, false
	}
	return target.Variable(name)
}

func (e *moduleEvaluator) lookupFunction(ns, name string) (sassvalue.Callable, bool) {
	if ns != "" {
		target, ok := e.namespaces[ns]
		if !ok {
			return nil, false
		}
		return target.Function(name)
	}
	if f, ok := e.scope.GetFunction(name); ok {
		return f, true
	}
	if f, ok := e.mod.Namespace.Function(name); ok {
		return f, true
	}
	if e.ctx.UserFunctions != nil {
		if f, ok := e.ctx.UserFunctions[name]; ok {
			return f, true
		}
	}
	return globalFunctions[strings.ToLower(name)], globalFunctions[strings.ToLower(name)] != nil
}
