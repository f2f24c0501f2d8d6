// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package evalctx

import (
	"fmt"
	"strings"

	"github.com/sassgo/sassgo/internal/diag"
	"github.com/sassgo/sassgo/internal/module"
	"github.com/sassgo/sassgo/internal/parse"
	"github.com/sassgo/sassgo/internal/sassvalue"
)

// evalBlock evaluates a sequence of statements that are not themselves
// the body of a style rule (the top level of a stylesheet, or the body
// of a non-extend at-rule such as @media), returning the CSS items they
// produce in source order. parentSelector is the enclosing rule's
// selector, if any, so a nested at-rule inside a style rule still knows
// what selector to hand its own nested style rules. Declarations are
// rejected here (emitDecl is nil) since bare properties are only valid
// directly inside a style rule.
func (e *moduleEvaluator) evalBlock(stmts []parse.Statement, parentSelector string) ([]module.Item, diag.Diagnostics) {
	var items []module.Item
	sink := blockSink{
		emitItem: func(it module.Item) { items = append(items, it) },
		selector: parentSelector,
	}
	_, diags := e.evalInto(stmts, sink)
	return items, diags
}

// evalStyleRule evaluates a selector block, flattening Sass nesting into
// CSS's own flat rule list: the rule's own declarations become one
// module.Rule, and every nested style rule (including one spliced in
// transparently by @if/@each/@for/@while/@include) becomes a sibling
// module.Rule with its selector combined against the parent's.
func (e *moduleEvaluator) evalStyleRule(rule parse.StyleRule, parentSelector string) ([]module.Item, diag.Diagnostics) {
	selector := combineSelector(parentSelector, rule.Selector)

	var decls []module.Declaration
	var siblings []module.Item
	sink := blockSink{
		emitItem: func(it module.Item) { siblings = append(siblings, it) },
		emitDecl: func(d module.Declaration) { decls = append(decls, d) },
		selector: selector,
	}
	_, diags := e.evalInto(rule.Body, sink)
	if diags.HasErrors() {
		return nil, diags
	}

	out := make([]module.Item, 0, 1+len(siblings))
	out = append(out, module.Rule{Selector: selector, Declarations: decls})
	out = append(out, siblings...)
	return out, diags
}

func (e *moduleEvaluator) evalAtRule(rule parse.AtRule, parentSelector string) ([]module.Item, diag.Diagnostics) {
	header := "@" + rule.Name
	if rule.Header != "" {
		header += " " + rule.Header
	}
	body, diags := e.evalBlock(rule.Body, parentSelector)
	if diags.HasErrors() {
		return nil, diags
	}
	return []module.Item{module.AtRule{Header: header, Body: body}}, diags
}

// evalVariableDecl implements variable assignment rules:
// `!default` only binds if the name is unset (preferring an inherited
// `with (...)` configuration value over the literal default expression);
// `!global` writes through to module scope but only when the name
// already exists there, matching Sass's rule that !global may not be
// used to declare a brand new variable from nested scope; without
// !global, assignment goes to the nearest scope that already declares
// the name (or the module namespace, at true top level).
func (e *moduleEvaluator) evalVariableDecl(d parse.VariableDecl) diag.Diagnostics {
	if d.Default {
		if _, exists := e.lookupVariable(d.Name); exists {
			return nil
		}
		if e.cfg != nil {
			if v, ok := e.cfg.Take(d.Name); ok {
				e.mod.Namespace.SetVariable(d.Name, v, true)
				return nil
			}
		}
	}

	val, diags := e.evalExpr(d.Value)
	if diags.HasErrors() {
		return diags
	}
	if d.Global {
		if _, exists := e.mod.Namespace.Variable(d.Name); !exists {
			return diags.Append(diag.New(diag.ErrorLevel, diag.KindRuntime,
				fmt.Sprintf("Undefined variable: $%s (!global may only reassign a variable that already exists at module scope)", d.Name), "", &d.Pos))
		}
		e.mod.Namespace.SetVariable(d.Name, val, false)
		return diags
	}
	// A binding already visible in the local scope chain (a mixin's own
	// variable, a control-flow loop variable shadowing an outer one,
	// etc.) is reassigned in place, matching lexical scoping. Failing
	// that, a name that already exists at module scope is reassigned
	// there even from deep inside an @if/@each/@for/@while body, since
	// those constructs don't introduce a new variable scope of their
	// own in Sass. Only a name unseen by either becomes a fresh binding,
	// local to the current scope (or module-scoped, at true top level).
	if e.scope.AssignIfExists(d.Name, val) {
		return diags
	}
	if e.scope.parent == nil {
		e.mod.Namespace.SetVariable(d.Name, val, d.Default)
		return diags
	}
	if _, exists := e.mod.Namespace.Variable(d.Name); exists {
		e.mod.Namespace.SetVariable(d.Name, val, false)
		return diags
	}
	e.scope.Declare(d.Name, val)
	return diags
}

// checkSlashDeprecation raises slash-division deprecation
// warning when a declaration's value is a number produced by the `/`
// operator's legacy division path.
func (e *moduleEvaluator) checkSlashDeprecation(v sassvalue.Value, pos diag.SourceRange) {
	n, ok := v.(sassvalue.Number)
	if !ok || !n.AsSlash() {
		return
	}
	e.ctx.warn("slash-div", diag.New(diag.WarningLevel, diag.KindNone,
		"Using / for division is deprecated. Use math.div instead.", "", &pos))
}

func deriveNamespaceAlias(ref string) string {
	ref = strings.TrimPrefix(ref, "sass:")
	ref = strings.TrimSuffix(ref, "/")
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		ref = ref[i+1:]
	}
	ref = strings.TrimPrefix(ref, "_")
	for _, ext := range []string{".scss", ".sass", ".css"} {
		ref = strings.TrimSuffix(ref, ext)
	}
	return ref
}

func (e *moduleEvaluator) evalWithClause(args []parse.ConfigArg) (*module.Configuration, diag.Diagnostics) {
	if len(args) == 0 {
		return nil, nil
	}
	values := make(map[string]module.ConfiguredValue, len(args))
	var diags diag.Diagnostics
	for _, arg := range args {
		val, d := e.evalExpr(arg.Value)
		diags = diags.Append(d)
		if diags.HasErrors() {
			return nil, diags
		}
		values[arg.Name] = module.ConfiguredValue{Value: val, Position: e.mod.Identifier}
	}
	return module.NewConfiguration(values), diags
}

// evalUse implements `@use`: load the target module
// exactly once compilation-wide, bind its namespace under an alias
// (deriving one from the reference's basename if `as` is omitted), and
// fold its transitively-loaded identifiers into this module's own set.
func (e *moduleEvaluator) evalUse(u parse.UseRule) diag.Diagnostics {
	if strings.HasPrefix(u.Ref, "sass:") {
		ns, ok := builtinModules[strings.TrimPrefix(u.Ref, "sass:")]
		if !ok {
			return diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindResolver,
				"Can't find stylesheet to import: "+u.Ref, "", &u.Pos)}
		}
		alias := u.As
		if alias == "" {
			alias = deriveNamespaceAlias(u.Ref)
		}
		if alias == "*" {
			e.mod.Namespace.Merge(ns, "", nil, nil)
		} else {
			e.namespaces[alias] = ns
		}
		return nil
	}

	cfg, diags := e.evalWithClause(u.With)
	if diags.HasErrors() {
		return diags
	}

	var loaded *module.Module
	if cfg == nil {
		if pre, ok := e.prefetched[u.Ref]; ok {
			delete(e.prefetched, u.Ref)
			loaded, diags = pre.module, diags.Append(pre.diags)
		}
	}
	if loaded == nil {
		var loadDiags diag.Diagnostics
		loaded, loadDiags = e.loader.Load(u.Ref, e.mod.Identifier, e.baseImporter, cfg, module.KindUseOrForward, e.chain)
		diags = diags.Append(loadDiags)
	}
	if diags.HasErrors() {
		return diags
	}

	e.recordTransitive(loaded)

	alias := u.As
	if alias == "" {
		alias = deriveNamespaceAlias(u.Ref)
	}
	if alias == "*" {
		e.mod.Namespace.Merge(loaded.Namespace, "", nil, nil)
	} else {
		e.namespaces[alias] = loaded.Namespace
	}
	return diags
}

// evalForward implements `@forward`: like @use, but the
// loaded module's members are merged directly into this module's own
// Namespace (optionally prefixed and filtered by show/hide) so that
// whoever later @uses *this* module sees them too.
func (e *moduleEvaluator) evalForward(f parse.ForwardRule) diag.Diagnostics {
	var show, hide map[string]bool
	if len(f.Show) > 0 {
		show = map[string]bool{}
		for _, n := range f.Show {
			show[n] = true
		}
	}
	if len(f.Hide) > 0 {
		hide = map[string]bool{}
		for _, n := range f.Hide {
			hide[n] = true
		}
	}

	if strings.HasPrefix(f.Ref, "sass:") {
		ns, ok := builtinModules[strings.TrimPrefix(f.Ref, "sass:")]
		if !ok {
			return diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindResolver,
				"Can't find stylesheet to import: "+f.Ref, "", &f.Pos)}
		}
		e.mod.Namespace.Merge(ns, f.Prefix, show, hide)
		return nil
	}

	loaded, diags := e.loader.Load(f.Ref, e.mod.Identifier, e.baseImporter, nil, module.KindUseOrForward, e.chain)
	if diags.HasErrors() {
		return diags
	}
	e.recordTransitive(loaded)
	e.mod.Namespace.Merge(loaded.Namespace, f.Prefix, show, hide)
	return diags
}

// evalImport implements legacy `@import`: the loaded
// module's members become globally visible in this module (no
// namespace prefix) and its CSS is inlined at the import site, matching
// the "equivalent to pasting text" semantics @import has, as distinct
// from @use.
func (e *moduleEvaluator) evalImport(imp parse.ImportRule) ([]module.Item, diag.Diagnostics) {
	var items []module.Item
	var diags diag.Diagnostics
	for _, ref := range imp.Refs {
		loaded, loadDiags := e.loader.Load(ref, e.mod.Identifier, e.baseImporter, nil, module.KindLegacyImport, e.chain)
		diags = diags.Append(loadDiags)
		if diags.HasErrors() {
			return items, diags
		}
		e.recordTransitiveClosure(loaded)
		e.mod.Namespace.Merge(loaded.Namespace, "", nil, nil)
		items = append(items, loaded.CSS.Items...)
	}
	return items, diags
}

// evalLoadCSS implements `@include meta.load-css(...)`: it loads a
// module under @use's at-most-once/cycle rules but, like @import,
// inlines the loaded CSS at the call site rather than registering a
// namespace.
func (e *moduleEvaluator) evalLoadCSS(call parse.LoadCSSCall) ([]module.Item, diag.Diagnostics) {
	refVal, diags := e.evalExpr(call.Ref)
	if diags.HasErrors() {
		return nil, diags
	}
	refStr, ok := refVal.(sassvalue.SassString)
	if !ok {
		return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
			"meta.load-css's first argument must be a string", "", &call.Pos)}
	}

	var cfg *module.Configuration
	if call.With != nil {
		withVal, d := e.evalExpr(call.With)
		diags = diags.Append(d)
		if diags.HasErrors() {
			return nil, diags
		}
		m, err := sassvalue.AssertMap(withVal, "with")
		if err != nil {
			return nil, diags.Append(diag.New(diag.ErrorLevel, diag.KindRuntime, err.Error(), "", &call.Pos))
		}
		values := map[string]module.ConfiguredValue{}
		m.Each(func(k, v sassvalue.Value) {
			if ks, ok := k.(sassvalue.SassString); ok {
				values[ks.Text] = module.ConfiguredValue{Value: v, Position: e.mod.Identifier}
			}
		})
		cfg = module.NewConfiguration(values)
	}

	loaded, loadDiags := e.loader.Load(refStr.Text, e.mod.Identifier, e.baseImporter, cfg, module.KindUseOrForward, e.chain)
	diags = diags.Append(loadDiags)
	if diags.HasErrors() {
		return nil, diags
	}
	e.recordTransitiveClosure(loaded)
	return loaded.CSS.Items, diags
}

// recordTransitiveClosure propagates loaded's own transitive set into
// e.mod's without adding loaded's own identifier. @import and
// meta.load-css splice loaded.CSS.Items directly into e.mod's own CSS
// stream, so loaded's own top-level CSS needs no further assembly step;
// anything loaded transitively reached it only via @use/@forward,
// though, and that CSS was never spliced anywhere, so it still needs to
// surface in e.mod's own TransitiveLoaded for the Public Compilation
// Surface to assemble later.
func (e *moduleEvaluator) recordTransitiveClosure(loaded *module.Module) {
	for _, id := range loaded.TransitiveLoaded.Slice() {
		e.mod.TransitiveLoaded.Add(id)
	}
}

func (e *moduleEvaluator) recordTransitive(loaded *module.Module) {
	e.mod.TransitiveLoaded.Add(loaded.Identifier.String())
	for _, id := range loaded.TransitiveLoaded.Slice() {
		e.mod.TransitiveLoaded.Add(id)
	}
}
