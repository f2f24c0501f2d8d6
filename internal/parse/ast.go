// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package parse is the lexer/parser front-end: a compact, single-pass
// recursive-descent parser for the SCSS surface syntax — selectors,
// declarations, `$variable` assignment, `@use`/`@forward`/`@import`,
// the control-flow and callable at-rules (`@if`/`@else`/`@each`/`@for`/
// `@while`/`@mixin`/`@function`/`@include`/`@content`/`@return`), and
// the SassScript expression grammar — rather than the full Sass grammar
// (the indented syntax is not implemented).
package parse

import "github.com/sassgo/sassgo/internal/diag"

// Syntax mirrors resolve.Syntax without importing it, to avoid the
// parser depending on the resolver.
type Syntax int

const (
	SyntaxSCSS Syntax = iota
	SyntaxIndented
	SyntaxCSS
)

// Stylesheet is the root of a parsed source.
type Stylesheet struct {
	Statements []Statement
}

// Statement is any top-level or nested construct.
type Statement interface {
	isStatement()
}

// UseRule is `@use "ref" [as name|*] [with (...)];`.
type UseRule struct {
	Ref string
	As string // "" means derive from basename; "*" means no namespace
	With []ConfigArg
	Pos diag.SourceRange
}

func (UseRule) isStatement() {}

// ForwardRule is `@forward "ref" [as prefix-*] [show...|hide...];`.
type ForwardRule struct {
	Ref string
	Prefix string
	Show []string
	Hide []string
	Pos diag.SourceRange
}

func (ForwardRule) isStatement() {}

// ImportRule is legacy `@import "ref1", "ref2"...;`.
type ImportRule struct {
	Refs []string
	Pos diag.SourceRange
}

func (ImportRule) isStatement() {}

// VariableDecl is `$name: expr [!default] [!global];`.
type VariableDecl struct {
	Name string
	Value Expr
	Default bool
	Global bool
	Pos diag.SourceRange
}

func (VariableDecl) isStatement() {}

// Declaration is `property: expr;` inside a rule body.
type Declaration struct {
	Property string
	Value Expr
	Pos diag.SourceRange
}

func (Declaration) isStatement() {}

// StyleRule is `selector {...body... }`.
type StyleRule struct {
	Selector string
	Body []Statement
	Pos diag.SourceRange
}

func (StyleRule) isStatement() {}

// AtRule is any other `@name header {...body... }` or `@name header;`,
// carried through with its header text unevaluated except for `#{}`
// interpolation, which this minimal front end does not support (noted
// as a limitation; plain-text headers like `@media screen` work fine).
type AtRule struct {
	Name string
	Header string
	Body []Statement
	Pos diag.SourceRange
}

func (AtRule) isStatement() {}

// Comment is a `/*... */` comment preserved in output, or a `//` line
// comment which is always stripped before reaching the tree.
type Comment struct {
	Text string
	Pos diag.SourceRange
}

func (Comment) isStatement() {}

// LoadCSSCall is `@include meta.load-css(ref [, $with: (...)]);`, handled
// as its own statement rather than a generic mixin include since the
// Loader integration it triggers is core-subsystem
// behavior, not a library mixin.
type LoadCSSCall struct {
	Ref Expr
	With Expr // optional map expression; nil if omitted
	Pos diag.SourceRange
}

func (LoadCSSCall) isStatement() {}

// ConfigArg is one `$name: expr` pair inside a `with (...)` clause.
type ConfigArg struct {
	Name string
	Value Expr
}

// Param is one parameter of a `@mixin`/`@function` declaration: a name,
// an optional default expression (evaluated lazily, at call time, in
// the scope of the other already-bound parameters), and whether it
// collects any remaining positional/keyword arguments as a rest
// parameter.
type Param struct {
	Name string
	Default Expr // nil if this parameter has no default
	Rest bool
}

// MixinDecl is `@mixin name($params...) { body }`.
type MixinDecl struct {
	Name string
	Params []Param
	Body []Statement
	Pos diag.SourceRange
}

func (MixinDecl) isStatement() {}

// FunctionDecl is `@function name($params...) { body }`. A well-formed
// function body reaches a ReturnStmt on every path; the evaluator
// raises an error for one that doesn't.
type FunctionDecl struct {
	Name string
	Params []Param
	Body []Statement
	Pos diag.SourceRange
}

func (FunctionDecl) isStatement() {}

// IncludeCall is `@include [namespace.]name([args]) [{ content }]`, the
// general mixin invocation (as distinct from the `meta.load-css`
// special case carried by LoadCSSCall).
type IncludeCall struct {
	Namespace string
	Name string
	Args []Arg
	Content []Statement // nil if no content block was given
	Pos diag.SourceRange
}

func (IncludeCall) isStatement() {}

// ContentStmt is `@content;`, which splices in the content block (if
// any) passed to whichever @include invoked the mixin it appears in.
type ContentStmt struct {
	Pos diag.SourceRange
}

func (ContentStmt) isStatement() {}

// ReturnStmt is `@return expr;`, valid only inside a @function body.
type ReturnStmt struct {
	Value Expr
	Pos diag.SourceRange
}

func (ReturnStmt) isStatement() {}

// IfBranch is one `@if`/`@else if` condition/body pair.
type IfBranch struct {
	Cond Expr
	Body []Statement
}

// IfRule is `@if cond {} @else if cond {} ... @else {}`, assembled by
// the scanner from what is lexically a run of separate `@if`/`@else`
// blocks.
type IfRule struct {
	Branches []IfBranch
	Else []Statement // nil if there was no trailing @else
	Pos diag.SourceRange
}

func (IfRule) isStatement() {}

// EachRule is `@each $v1, $v2, ... in list { body }`.
type EachRule struct {
	Vars []string
	List Expr
	Body []Statement
	Pos diag.SourceRange
}

func (EachRule) isStatement() {}

// ForRule is `@for $var from start (to|through) end { body }`.
// Inclusive is true for `through`, false for the exclusive `to`.
type ForRule struct {
	Var string
	From Expr
	To Expr
	Inclusive bool
	Body []Statement
	Pos diag.SourceRange
}

func (ForRule) isStatement() {}

// WhileRule is `@while cond { body }`.
type WhileRule struct {
	Cond Expr
	Body []Statement
	Pos diag.SourceRange
}

func (WhileRule) isStatement() {}

// Expr is any SassScript expression node.
type Expr interface {
	isExpr()
	Range() diag.SourceRange
}

type base struct{ Pos diag.SourceRange }

func (b base) Range() diag.SourceRange { return b.Pos }

type NumberLit struct {
	base
	Value float64
	Unit string
	// Text is the literal's original decimal text as written in the
	// source, used to build an arbitrary-precision Number rather than
	// rounding through Value's float64 first. Empty for literals
	// synthesized outside the parser (e.g. by @for's loop variable).
	Text string
}

func (NumberLit) isExpr() {}

type StringLit struct {
	base
	Text string
	Quoted bool
}

func (StringLit) isExpr() {}

type ColorLit struct {
	base
	Hex string
}

func (ColorLit) isExpr() {}

type BoolLit struct {
	base
	Value bool
}

func (BoolLit) isExpr() {}

type NullLit struct{ base }

func (NullLit) isExpr() {}

type VariableRef struct {
	base
	Name string
}

func (VariableRef) isExpr() {}

// MemberRef is `namespace.name`, e.g. `math.pi` or `colors.$brand` —
// used for both namespaced function calls and namespaced variables.
type MemberRef struct {
	base
	Namespace string
	Name string
	IsVar bool
}

func (MemberRef) isExpr() {}

type ListExpr struct {
	base
	Elements []Expr
	Comma bool // true: comma-separated; false: space-separated
	Bracket bool
}

func (ListExpr) isExpr() {}

type MapEntry struct {
	Key Expr
	Value Expr
}

type MapExpr struct {
	base
	Entries []MapEntry
}

func (MapExpr) isExpr() {}

type BinaryExpr struct {
	base
	Op string
	Left Expr
	Right Expr
}

func (BinaryExpr) isExpr() {}

type UnaryExpr struct {
	base
	Op string
	Operand Expr
}

func (UnaryExpr) isExpr() {}

type CallExpr struct {
	base
	Name string
	Namespace string
	Args []Arg
}

func (CallExpr) isExpr() {}

type Arg struct {
	Name string // "" for positional
	Value Expr
	Rest bool // true for a trailing `...` spread
}

// Interpolation is `#{expr}` inside a string/selector/property context.
// This minimal front end treats it as an opaque passthrough marker: it
// is recognized by the lexer but evaluates to the literal text, which is
// a known limitation of this front end's scope.
type Interpolation struct {
	base
	Inner Expr
}

func (Interpolation) isExpr() {}
