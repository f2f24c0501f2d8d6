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

// flowResult carries a @function body's @return value up through nested
// @if/@each/@for/@while bodies, the same way diag.Diagnostics short-
// circuits evalInto partway through a block.
type flowResult struct {
	returned bool
	value sassvalue.Value
}

// contentBlock is the `{ ... }` passed to an @include, captured with the
// scope active at the call site so @content evaluates it with the
// caller's variables visible rather than the invoked mixin's.
type contentBlock struct {
	stmts []parse.Statement
	scope *Scope
	caller *moduleEvaluator
}

// userCallable is a Sass-defined @mixin or @function body, closing over
// the evaluator and scope it was declared in so a later call sees the
// variables/functions visible at its declaration site rather than the
// call site's.
type userCallable struct {
	name string
	params []parse.Param
	body []parse.Statement
	declEvaluator *moduleEvaluator
	declScope *Scope
	isFunction bool
}

func (u *userCallable) CallableName() string { return u.name }

// blockSink is where evalInto deposits the output of a statement list:
// CSS items always go to emitItem, declarations go to emitDecl when
// evaluating inside a style rule's own body (nil outside one, which
// evalInto turns into a "properties only allowed within rules" error
// matching the prior direct-declaration check). selector is the
// enclosing rule's combined selector, used for @extend and for naming
// any nested style rule evalInto encounters.
type blockSink struct {
	emitItem func(module.Item)
	emitDecl func(module.Declaration)
	selector string
}

func discardSink(selector string) blockSink {
	return blockSink{emitItem: func(module.Item) {}, selector: selector}
}

// evalInto walks stmts, dispatching each one to the statement-specific
// eval method and routing its output through sink. Control-flow
// constructs (@if/@each/@for/@while/@include/@content) are transparent:
// they recurse back into evalInto with the very same sink, so their
// declarations and nested rules land exactly where they would have if
// the construct around them were stripped away, matching how Sass
// itself treats these as compile-time text substitution rather than a
// new level of CSS nesting.
func (e *moduleEvaluator) evalInto(stmts []parse.Statement, sink blockSink) (flowResult, diag.Diagnostics) {
	var diags diag.Diagnostics
	for _, stmt := range stmts {
		var fr flowResult
		var d diag.Diagnostics

		switch s := stmt.(type) {
		case parse.UseRule:
			d = e.evalUse(s)
		case parse.ForwardRule:
			d = e.evalForward(s)
		case parse.ImportRule:
			var more []module.Item
			more, d = e.evalImport(s)
			for _, it := range more {
				sink.emitItem(it)
			}
		case parse.LoadCSSCall:
			var more []module.Item
			more, d = e.evalLoadCSS(s)
			for _, it := range more {
				sink.emitItem(it)
			}
		case parse.VariableDecl:
			d = e.evalVariableDecl(s)
		case parse.StyleRule:
			var more []module.Item
			more, d = e.evalStyleRule(s, sink.selector)
			for _, it := range more {
				sink.emitItem(it)
			}
		case parse.MixinDecl:
			d = e.evalMixinDecl(s)
		case parse.FunctionDecl:
			d = e.evalFunctionDecl(s)
		case parse.IncludeCall:
			fr, d = e.evalInclude(s, sink)
		case parse.ContentStmt:
			fr, d = e.evalContent(sink)
		case parse.ReturnStmt:
			var val sassvalue.Value
			val, d = e.evalExpr(s.Value)
			if !d.HasErrors() {
				fr = flowResult{returned: true, value: val}
			}
		case parse.IfRule:
			fr, d = e.evalIf(s, sink)
		case parse.EachRule:
			fr, d = e.evalEach(s, sink)
		case parse.ForRule:
			fr, d = e.evalFor(s, sink)
		case parse.WhileRule:
			fr, d = e.evalWhile(s, sink)
		case parse.AtRule:
			if strings.EqualFold(s.Name, "extend") {
				if sink.emitDecl == nil {
					d = diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
						"@extend may only be used within style rules", "", &s.Pos)}
				} else {
					e.recordExtend(sink.selector, s.Header)
				}
			} else {
				var more []module.Item
				more, d = e.evalAtRule(s, sink.selector)
				for _, it := range more {
					sink.emitItem(it)
				}
			}
		case parse.Comment:
			sink.emitItem(module.Raw(s.Text))
		case parse.Declaration:
			var val sassvalue.Value
			val, d = e.evalExpr(s.Value)
			if !d.HasErrors() {
				if sink.emitDecl == nil {
					d = diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
						"Properties are only allowed within rules", "", &s.Pos)}
				} else {
					e.checkSlashDeprecation(val, s.Pos)
					sink.emitDecl(module.Declaration{Property: s.Property, Value: sassvalue.ToCSSString(val)})
				}
			}
		}

		diags = diags.Append(d)
		if diags.HasErrors() {
			return flowResult{}, diags
		}
		if fr.returned {
			return fr, diags
		}
	}
	return flowResult{}, diags
}

func (e *moduleEvaluator) evalMixinDecl(d parse.MixinDecl) diag.Diagnostics {
	uc := &userCallable{name: d.Name, params: d.Params, body: d.Body, declEvaluator: e, declScope: e.scope}
	if e.scope.parent == nil {
		e.mod.Namespace.SetMixin(d.Name, uc)
	} else {
		e.scope.DeclareMixin(d.Name, uc)
	}
	return nil
}

func (e *moduleEvaluator) evalFunctionDecl(d parse.FunctionDecl) diag.Diagnostics {
	uc := &userCallable{name: d.Name, params: d.Params, body: d.Body, declEvaluator: e, declScope: e.scope, isFunction: true}
	if e.scope.parent == nil {
		e.mod.Namespace.SetFunction(d.Name, uc)
	} else {
		e.scope.DeclareFunction(d.Name, uc)
	}
	return nil
}

func (e *moduleEvaluator) lookupMixin(ns, name string) (sassvalue.Callable, bool) {
	if ns != "" {
		target, ok := e.namespaces[ns]
		if !ok {
			return nil, false
		}
		return target.Mixin(name)
	}
	if m, ok := e.scope.GetMixin(name); ok {
		return m, true
	}
	return e.mod.Namespace.Mixin(name)
}

func qualifiedName(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}

// bindParams binds positional and keyword arguments against params into
// scope: defaults are evaluated lazily, in scope itself, so a later
// parameter's default may reference an earlier one; a trailing rest
// parameter collects whatever positional/keyword arguments are left.
func (e *moduleEvaluator) bindParams(uc *userCallable, positional []sassvalue.Value, keywords map[string]sassvalue.Value, scope *Scope, pos diag.SourceRange) diag.Diagnostics {
	defEv := *uc.declEvaluator
	defEv.scope = scope

	idx := 0
	for _, p := range uc.params {
		if p.Rest {
			var rest []sassvalue.Value
			if idx < len(positional) {
				rest = append(rest, positional[idx:]...)
				idx = len(positional)
			}
			var kw sassvalue.Map
			for k, v := range keywords {
				kw.Set(sassvalue.NewQuoted(k), v)
			}
			scope.Declare(p.Name, sassvalue.NewArgumentList(rest, kw))
			continue
		}
		if idx < len(positional) {
			scope.Declare(p.Name, positional[idx])
			idx++
			continue
		}
		if v, ok := keywords[p.Name]; ok {
			scope.Declare(p.Name, v)
			continue
		}
		if p.Default != nil {
			val, diags := defEv.evalExpr(p.Default)
			if diags.HasErrors() {
				return diags
			}
			scope.Declare(p.Name, val)
			continue
		}
		return diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
			fmt.Sprintf("Missing argument $%s", p.Name), "", &pos)}
	}
	return nil
}

func (e *moduleEvaluator) evalInclude(call parse.IncludeCall, sink blockSink) (flowResult, diag.Diagnostics) {
	callable, ok := e.lookupMixin(call.Namespace, call.Name)
	if !ok {
		return flowResult{}, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
			fmt.Sprintf("Undefined mixin: %s", qualifiedName(call.Namespace, call.Name)), "", &call.Pos)}
	}
	uc, ok := callable.(*userCallable)
	if !ok {
		return flowResult{}, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
			fmt.Sprintf("%s is not a mixin this evaluator can invoke", callable.CallableName()), "", &call.Pos)}
	}

	positional, keywords, diags := e.evalArgs(call.Args)
	if diags.HasErrors() {
		return flowResult{}, diags
	}

	callScope := NewScope(uc.declScope)
	diags = diags.Append(e.bindParams(uc, positional, keywords, callScope, call.Pos))
	if diags.HasErrors() {
		return flowResult{}, diags
	}
	if call.Content != nil {
		callScope.SetContent(&contentBlock{stmts: call.Content, scope: e.scope, caller: e})
	}

	callEv := *uc.declEvaluator
	callEv.scope = callScope
	fr, d := callEv.evalInto(uc.body, sink)
	return fr, diags.Append(d)
}

func (e *moduleEvaluator) evalContent(sink blockSink) (flowResult, diag.Diagnostics) {
	cb, ok := e.scope.Content()
	if !ok {
		return flowResult{}, nil
	}
	callEv := *cb.caller
	callEv.scope = cb.scope
	return callEv.evalInto(cb.stmts, sink)
}

// invokeUserFunction binds args into a fresh scope under the function's
// declaration scope, evaluates its body discarding any CSS it might
// (unusually) produce, and requires a @return to have been reached.
func (e *moduleEvaluator) invokeUserFunction(uc *userCallable, positional []sassvalue.Value, keywords map[string]sassvalue.Value, pos diag.SourceRange) (sassvalue.Value, diag.Diagnostics) {
	scope := NewScope(uc.declScope)
	if diags := e.bindParams(uc, positional, keywords, scope, pos); diags.HasErrors() {
		return nil, diags
	}

	callEv := *uc.declEvaluator
	callEv.scope = scope
	fr, diags := callEv.evalInto(uc.body, discardSink(""))
	if diags.HasErrors() {
		return nil, diags
	}
	if !fr.returned {
		return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
			fmt.Sprintf("Function %s finished without @return", uc.name), "", &pos)}
	}
	return fr.value, diags
}

func (e *moduleEvaluator) evalIf(rule parse.IfRule, sink blockSink) (flowResult, diag.Diagnostics) {
	for _, branch := range rule.Branches {
		cond, diags := e.evalExpr(branch.Cond)
		if diags.HasErrors() {
			return flowResult{}, diags
		}
		if sassvalue.IsTruthy(cond) {
			childEv := *e
			childEv.scope = NewScope(e.scope)
			return childEv.evalInto(branch.Body, sink)
		}
	}
	if rule.Else != nil {
		childEv := *e
		childEv.scope = NewScope(e.scope)
		return childEv.evalInto(rule.Else, sink)
	}
	return flowResult{}, nil
}

func bindEachVars(scope *Scope, vars []string, elem sassvalue.Value) {
	if len(vars) <= 1 {
		if len(vars) == 1 {
			scope.Declare(vars[0], elem)
		}
		return
	}
	parts := sassvalue.AsList(elem).Elements
	for i, name := range vars {
		if i < len(parts) {
			scope.Declare(name, parts[i])
		} else {
			scope.Declare(name, sassvalue.Null)
		}
	}
}

func (e *moduleEvaluator) evalEach(rule parse.EachRule, sink blockSink) (flowResult, diag.Diagnostics) {
	listVal, diags := e.evalExpr(rule.List)
	if diags.HasErrors() {
		return flowResult{}, diags
	}
	for _, elem := range sassvalue.AsList(listVal).Elements {
		childEv := *e
		childEv.scope = NewScope(e.scope)
		bindEachVars(childEv.scope, rule.Vars, elem)
		fr, d := childEv.evalInto(rule.Body, sink)
		diags = diags.Append(d)
		if diags.HasErrors() {
			return flowResult{}, diags
		}
		if fr.returned {
			return fr, diags
		}
	}
	return flowResult{}, diags
}

func (e *moduleEvaluator) evalFor(rule parse.ForRule, sink blockSink) (flowResult, diag.Diagnostics) {
	fromVal, diags := e.evalExpr(rule.From)
	if diags.HasErrors() {
		return flowResult{}, diags
	}
	toVal, d := e.evalExpr(rule.To)
	diags = diags.Append(d)
	if diags.HasErrors() {
		return flowResult{}, diags
	}
	fromNum, ok := fromVal.(sassvalue.Number)
	if !ok {
		return flowResult{}, diags.Append(diag.New(diag.ErrorLevel, diag.KindRuntime,
			"@for's \"from\" value must be a number", "", &rule.Pos))
	}
	toNum, ok := toVal.(sassvalue.Number)
	if !ok {
		return flowResult{}, diags.Append(diag.New(diag.ErrorLevel, diag.KindRuntime,
			"@for's \"to\" value must be a number", "", &rule.Pos))
	}

	from, to := int(fromNum.Float64()), int(toNum.Float64())
	step := 1
	if to < from {
		step = -1
	}
	if !rule.Inclusive {
		to -= step
	}

	for i := from; (step > 0 && i <= to) || (step < 0 && i >= to); i += step {
		childEv := *e
		childEv.scope = NewScope(e.scope)
		childEv.scope.Declare(rule.Var, sassvalue.NewNumber(float64(i)))
		fr, dd := childEv.evalInto(rule.Body, sink)
		diags = diags.Append(dd)
		if diags.HasErrors() {
			return flowResult{}, diags
		}
		if fr.returned {
			return fr, diags
		}
	}
	return flowResult{}, diags
}

func (e *moduleEvaluator) evalWhile(rule parse.WhileRule, sink blockSink) (flowResult, diag.Diagnostics) {
	var diags diag.Diagnostics
	for {
		cond, d := e.evalExpr(rule.Cond)
		diags = diags.Append(d)
		if diags.HasErrors() {
			return flowResult{}, diags
		}
		if !sassvalue.IsTruthy(cond) {
			return flowResult{}, diags
		}
		childEv := *e
		childEv.scope = NewScope(e.scope)
		fr, dd := childEv.evalInto(rule.Body, sink)
		diags = diags.Append(dd)
		if diags.HasErrors() {
			return flowResult{}, diags
		}
		if fr.returned {
			return fr, diags
		}
	}
}
