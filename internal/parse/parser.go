// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package parse

import (
	"fmt"
	"strings"

	"github.com/sassgo/sassgo/internal/diag"
)

// Parse parses src (already known to be SCSS surface syntax; the
// indented syntax is not implemented by this minimal front end) into
// a Stylesheet.
func Parse(filename, src string, syntax Syntax) (*Stylesheet, error) {
	if syntax == SyntaxIndented {
		return nil, fmt.Errorf("the indented syntax is not supported by this front end")
	}
	b := &blockScanner{src: src, file: filename}
	stmts, err := b.parseStatements(0, len(src))
	if err != nil {
		return nil, err
	}
	return &Stylesheet{Statements: stmts}, nil
}

type blockScanner struct {
	src  string
	file string
}

// parseStatements splits src[start:end] into top-level statements at
// unnested ';' and '{'...'}' boundaries, tracking paren/bracket/string
// nesting and comments so that none of those confuse the split.
func (b *blockScanner) parseStatements(start, end int) ([]Statement, error) {
	var stmts []Statement
	i := start
	headStart := start
	depth := 0

	flushHead := func(headEnd int, terminator byte, bodyStmts []Statement) error {
		head := strings.TrimSpace(b.src[headStart:headEnd])
		if head == "" && terminator != '{' {
			return nil
		}
		if strings.HasPrefix(head, "@else") {
			if len(stmts) == 0 {
				return fmt.Errorf("@else without a preceding @if")
			}
			prevIf, ok := stmts[len(stmts)-1].(IfRule)
			if !ok {
				return fmt.Errorf("@else without a preceding @if")
			}
			branch, elseBody, err := parseElseBranch(head, bodyStmts)
			if err != nil {
				return err
			}
			if branch != nil {
				prevIf.Branches = append(prevIf.Branches, *branch)
			} else {
				prevIf.Else = elseBody
			}
			stmts[len(stmts)-1] = prevIf
			return nil
		}
		stmt, err := b.classify(head, headStart, terminator, bodyStmts)
		if err != nil {
			return err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		return nil
	}

	for i < end {
		c := b.src[i]
		switch {
		case c == '/' && i+1 < end && b.src[i+1] == '/':
			j := i
			for j < end && b.src[j] != '\n' {
				j++
			}
			b.src = b.src[:i] + strings.Repeat(" ", j-i) + b.src[j:]
			i = j
		case c == '/' && i+1 < end && b.src[i+1] == '*':
			j := strings.Index(b.src[i:end], "*/")
			if j < 0 {
				return nil, fmt.Errorf("unterminated comment")
			}
			commentEnd := i + j + 2
			if depth == 0 && strings.TrimSpace(b.src[headStart:i]) == "" {
				stmts = append(stmts, Comment{Text: b.src[i:commentEnd], Pos: b.posRange(i)})
				headStart = commentEnd
			}
			i = commentEnd
		case c == '"' || c == '\'':
			j := i + 1
			for j < end && b.src[j] != c {
				if b.src[j] == '\\' {
					j++
				}
				j++
			}
			i = j + 1
		case c == '(' || c == '[':
			depth++
			i++
		case c == ')' || c == ']':
			depth--
			i++
		case c == '{' && depth == 0:
			bodyEnd := b.matchBrace(i, end)
			if bodyEnd < 0 {
				return nil, fmt.Errorf("unterminated block starting at byte %d", i)
			}
			body, err := b.parseStatements(i+1, bodyEnd)
			if err != nil {
				return nil, err
			}
			if err := flushHead(i, '{', body); err != nil {
				return nil, err
			}
			i = bodyEnd + 1
			headStart = i
		case c == ';' && depth == 0:
			if err := flushHead(i, ';', nil); err != nil {
				return nil, err
			}
			i++
			headStart = i
		default:
			i++
		}
	}
	if strings.TrimSpace(b.src[headStart:end]) != "" {
		if err := flushHead(end, 0, nil); err != nil {
			return nil, err
		}
	}
	return stmts, nil
}

func (b *blockScanner) matchBrace(open, end int) int {
	depth := 0
	for i := open; i < end; i++ {
		switch b.src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		case '"', '\'':
			quote := b.src[i]
			i++
			for i < end && b.src[i] != quote {
				if b.src[i] == '\\' {
					i++
				}
				i++
			}
		}
	}
	return -1
}

func (b *blockScanner) posRange(offset int) diag.SourceRange {
	return diag.SourceRange{Filename: b.file, Start: diag.SourcePos{Byte: offset}, End: diag.SourcePos{Byte: offset}}
}

func (b *blockScanner) classify(head string, offset int, terminator byte, body []Statement) (Statement, error) {
	pos := b.posRange(offset)
	switch {
	case strings.HasPrefix(head, "@use"):
		return b.parseUse(head, pos)
	case strings.HasPrefix(head, "@forward"):
		return b.parseForward(head, pos)
	case strings.HasPrefix(head, "@import"):
		return b.parseImport(head, pos)
	case strings.HasPrefix(head, "@include") && strings.Contains(head, "meta.load-css"):
		return b.parseLoadCSS(head, pos)
	case strings.HasPrefix(head, "@mixin"):
		return b.parseMixin(head, pos, body)
	case strings.HasPrefix(head, "@function"):
		return b.parseFunction(head, pos, body)
	case strings.HasPrefix(head, "@include"):
		return b.parseInclude(head, pos, body)
	case strings.HasPrefix(head, "@content"):
		return ContentStmt{Pos: pos}, nil
	case strings.HasPrefix(head, "@return"):
		return b.parseReturn(head, pos)
	case strings.HasPrefix(head, "@if"):
		return b.parseIf(head, pos, body)
	case strings.HasPrefix(head, "@each"):
		return b.parseEach(head, pos, body)
	case strings.HasPrefix(head, "@for"):
		return b.parseFor(head, pos, body)
	case strings.HasPrefix(head, "@while"):
		return b.parseWhile(head, pos, body)
	case strings.HasPrefix(head, "@"):
		name, rest := splitFirstWord(head[1:])
		return AtRule{Name: name, Header: strings.TrimSpace(rest), Body: body, Pos: pos}, nil
	case terminator == '{':
		return StyleRule{Selector: head, Body: body, Pos: pos}, nil
	case strings.HasPrefix(head, "$"):
		return b.parseVariableDecl(head, pos)
	default:
		return b.parseDeclaration(head, pos)
	}
}

func splitFirstWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t\n(")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

func quotedLiteral(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	return s, false
}

func (b *blockScanner) parseUse(head string, pos diag.SourceRange) (Statement, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(head, "@use"))
	refText, rest := takeString(rest)
	rule := UseRule{Ref: refText, Pos: pos}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "as") {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "as"))
		name, remainder := splitFirstWord(rest)
		rule.As = name
		rest = remainder
	}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "with") {
		withBody := strings.TrimSpace(strings.TrimPrefix(rest, "with"))
		args, err := parseWithClause(withBody)
		if err != nil {
			return nil, err
		}
		rule.With = args
	}
	return rule, nil
}

func takeString(s string) (value, rest string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	quote := s[0]
	if quote != '"' && quote != '\'' {
		name, r := splitFirstWord(s)
		return name, r
	}
	for i := 1; i < len(s); i++ {
		if s[i] == quote {
			return s[1:i], s[i+1:]
		}
	}
	return s[1:], ""
}

func parseWithClause(s string) ([]ConfigArg, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	var args []ConfigArg
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, valueText, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid with() entry %q", part)
		}
		name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "$"))
		val, err := ParseExpr("", strings.TrimSpace(valueText))
		if err != nil {
			return nil, err
		}
		args = append(args, ConfigArg{Name: name, Value: val})
	}
	return args, nil
}

// splitTopLevel splits s on sep, ignoring occurrences nested inside
// parens/brackets/quotes.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '"', '\'':
			quote := s[i]
			i++
			for i < len(s) && s[i] != quote {
				if s[i] == '\\' {
					i++
				}
				i++
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

func (b *blockScanner) parseForward(head string, pos diag.SourceRange) (Statement, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(head, "@forward"))
	refText, rest := takeString(rest)
	rule := ForwardRule{Ref: refText, Pos: pos}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "as") {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "as"))
		name, remainder := splitFirstWord(rest)
		rule.Prefix = strings.TrimSuffix(name, "*")
		rest = remainder
	}
	rest = strings.TrimSpace(rest)
	switch {
	case strings.HasPrefix(rest, "show"):
		rule.Show = splitIdentList(strings.TrimPrefix(rest, "show"))
	case strings.HasPrefix(rest, "hide"):
		rule.Hide = splitIdentList(strings.TrimPrefix(rest, "hide"))
	}
	return rule, nil
}

func splitIdentList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "$"))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (b *blockScanner) parseImport(head string, pos diag.SourceRange) (Statement, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(head, "@import"))
	var refs []string
	for _, part := range splitTopLevel(rest, ',') {
		text, _ := quotedLiteral(part)
		text = strings.TrimSpace(text)
		if text != "" {
			refs = append(refs, text)
		}
	}
	return ImportRule{Refs: refs, Pos: pos}, nil
}

func (b *blockScanner) parseLoadCSS(head string, pos diag.SourceRange) (Statement, error) {
	start := strings.Index(head, "(")
	end := strings.LastIndex(head, ")")
	if start < 0 || end < 0 || end < start {
		return nil, fmt.Errorf("malformed meta.load-css call: %q", head)
	}
	inner := head[start+1 : end]
	parts := splitTopLevel(inner, ',')
	refExpr, err := ParseExpr(b.file, strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	call := LoadCSSCall{Ref: refExpr, Pos: pos}
	if len(parts) > 1 {
		_, valueText, ok := strings.Cut(parts[1], ":")
		if ok {
			withExpr, err := ParseExpr(b.file, strings.TrimSpace(valueText))
			if err != nil {
				return nil, err
			}
			call.With = withExpr
		}
	}
	return call, nil
}

func (b *blockScanner) parseVariableDecl(head string, pos diag.SourceRange) (Statement, error) {
	name, valueText, ok := strings.Cut(head, ":")
	if !ok {
		return nil, fmt.Errorf("malformed variable declaration %q", head)
	}
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "$"))
	valueText = strings.TrimSpace(valueText)
	decl := VariableDecl{Name: name, Pos: pos}
	for {
		if strings.HasSuffix(valueText, "!default") {
			decl.Default = true
			valueText = strings.TrimSpace(strings.TrimSuffix(valueText, "!default"))
			continue
		}
		if strings.HasSuffix(valueText, "!global") {
			decl.Global = true
			valueText = strings.TrimSpace(strings.TrimSuffix(valueText, "!global"))
			continue
		}
		break
	}
	val, err := ParseExpr(b.file, valueText)
	if err != nil {
		return nil, fmt.Errorf("parsing value of $%s: %w", name, err)
	}
	decl.Value = val
	return decl, nil
}

func (b *blockScanner) parseDeclaration(head string, pos diag.SourceRange) (Statement, error) {
	prop, valueText, ok := strings.Cut(head, ":")
	if !ok {
		return nil, fmt.Errorf("expected declaration or selector, got %q", head)
	}
	val, err := ParseExpr(b.file, strings.TrimSpace(valueText))
	if err != nil {
		return nil, fmt.Errorf("parsing value of %s: %w", strings.TrimSpace(prop), err)
	}
	return Declaration{Property: strings.TrimSpace(prop), Value: val, Pos: pos}, nil
}

// splitTopLevelOnce splits s at the first unnested occurrence of sep,
// the same nesting rules as splitTopLevel but stopping after one split
// so a default expression containing further colons (e.g. a map
// literal) survives intact.
func splitTopLevelOnce(s string, sep byte) (before, after string, found bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '"', '\'':
			quote := s[i]
			i++
			for i < len(s) && s[i] != quote {
				if s[i] == '\\' {
					i++
				}
				i++
			}
		case sep:
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// splitOnKeyword splits s at the first unnested, word-bounded occurrence
// of kw (e.g. "in", "from", "through"), the way @each/@for headers
// separate their clauses.
func splitOnKeyword(s, kw string) (before, after string, found bool) {
	depth := 0
	for i := 0; i+len(kw) <= len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '"', '\'':
			quote := s[i]
			i++
			for i < len(s) && s[i] != quote {
				if s[i] == '\\' {
					i++
				}
				i++
			}
			continue
		}
		if depth == 0 && s[i:i+len(kw)] == kw {
			before := i == 0 || s[i-1] == ' ' || s[i-1] == '\t'
			afterIdx := i + len(kw)
			after := afterIdx == len(s) || s[afterIdx] == ' ' || s[afterIdx] == '\t'
			if before && after {
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[afterIdx:]), true
			}
		}
	}
	return s, "", false
}

// parseParamList parses the comma-separated contents of a @mixin/
// @function parameter list (without the surrounding parens): each entry
// is `$name`, `$name: default`, or a trailing `$name...` rest parameter.
func parseParamList(s string) ([]Param, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var params []Param
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasSuffix(part, "...") {
			name := strings.TrimPrefix(strings.TrimSpace(strings.TrimSuffix(part, "...")), "$")
			params = append(params, Param{Name: name, Rest: true})
			continue
		}
		nameText, defText, hasDefault := splitTopLevelOnce(part, ':')
		p := Param{Name: strings.TrimPrefix(strings.TrimSpace(nameText), "$")}
		if hasDefault {
			defExpr, err := ParseExpr("", strings.TrimSpace(defText))
			if err != nil {
				return nil, fmt.Errorf("parsing default for $%s: %w", p.Name, err)
			}
			p.Default = defExpr
		}
		params = append(params, p)
	}
	return params, nil
}

func parenContents(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	return strings.TrimSuffix(s, ")")
}

func (b *blockScanner) parseMixin(head string, pos diag.SourceRange, body []Statement) (Statement, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(head, "@mixin"))
	name, rest := splitFirstWord(rest)
	var params []Param
	if strings.HasPrefix(strings.TrimSpace(rest), "(") {
		var err error
		params, err = parseParamList(parenContents(rest))
		if err != nil {
			return nil, fmt.Errorf("parsing @mixin %s: %w", name, err)
		}
	}
	return MixinDecl{Name: name, Params: params, Body: body, Pos: pos}, nil
}

func (b *blockScanner) parseFunction(head string, pos diag.SourceRange, body []Statement) (Statement, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(head, "@function"))
	name, rest := splitFirstWord(rest)
	var params []Param
	if strings.HasPrefix(strings.TrimSpace(rest), "(") {
		var err error
		params, err = parseParamList(parenContents(rest))
		if err != nil {
			return nil, fmt.Errorf("parsing @function %s: %w", name, err)
		}
	}
	return FunctionDecl{Name: name, Params: params, Body: body, Pos: pos}, nil
}

func splitNamespacedName(s string) (namespace, name string) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

func (b *blockScanner) parseInclude(head string, pos diag.SourceRange, body []Statement) (Statement, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(head, "@include"))
	var namespace, name string
	var args []Arg
	if strings.ContainsRune(rest, '(') {
		callExpr, err := ParseExpr(b.file, rest)
		if err != nil {
			return nil, fmt.Errorf("parsing @include %s: %w", rest, err)
		}
		ce, ok := callExpr.(CallExpr)
		if !ok {
			return nil, fmt.Errorf("malformed @include %q", rest)
		}
		namespace, name, args = ce.Namespace, ce.Name, ce.Args
	} else {
		namespace, name = splitNamespacedName(rest)
	}
	return IncludeCall{Namespace: namespace, Name: name, Args: args, Content: body, Pos: pos}, nil
}

func (b *blockScanner) parseReturn(head string, pos diag.SourceRange) (Statement, error) {
	exprText := strings.TrimSpace(strings.TrimPrefix(head, "@return"))
	val, err := ParseExpr(b.file, exprText)
	if err != nil {
		return nil, fmt.Errorf("parsing @return: %w", err)
	}
	return ReturnStmt{Value: val, Pos: pos}, nil
}

func (b *blockScanner) parseIf(head string, pos diag.SourceRange, body []Statement) (Statement, error) {
	condText := strings.TrimSpace(strings.TrimPrefix(head, "@if"))
	cond, err := ParseExpr(b.file, condText)
	if err != nil {
		return nil, fmt.Errorf("parsing @if condition: %w", err)
	}
	return IfRule{Branches: []IfBranch{{Cond: cond, Body: body}}, Pos: pos}, nil
}

// parseElseBranch parses an `@else` or `@else if cond` head into either
// a further IfBranch (for `@else if`) or a plain trailing else body.
func parseElseBranch(head string, body []Statement) (*IfBranch, []Statement, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(head, "@else"))
	if strings.HasPrefix(rest, "if") {
		condText := strings.TrimSpace(strings.TrimPrefix(rest, "if"))
		cond, err := ParseExpr("", condText)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing @else if condition: %w", err)
		}
		return &IfBranch{Cond: cond, Body: body}, nil, nil
	}
	return nil, body, nil
}

func (b *blockScanner) parseEach(head string, pos diag.SourceRange, body []Statement) (Statement, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(head, "@each"))
	varsText, listText, ok := splitOnKeyword(rest, "in")
	if !ok {
		return nil, fmt.Errorf("malformed @each: missing \"in\"")
	}
	var vars []string
	for _, v := range strings.Split(varsText, ",") {
		v = strings.TrimPrefix(strings.TrimSpace(v), "$")
		if v != "" {
			vars = append(vars, v)
		}
	}
	listExpr, err := ParseExpr(b.file, listText)
	if err != nil {
		return nil, fmt.Errorf("parsing @each list: %w", err)
	}
	return EachRule{Vars: vars, List: listExpr, Body: body, Pos: pos}, nil
}

func (b *blockScanner) parseFor(head string, pos diag.SourceRange, body []Statement) (Statement, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(head, "@for"))
	varText, afterFrom, ok := splitOnKeyword(rest, "from")
	if !ok {
		return nil, fmt.Errorf("malformed @for: missing \"from\"")
	}
	varName := strings.TrimPrefix(strings.TrimSpace(varText), "$")

	fromText, toText, inclusive := splitOnKeyword(afterFrom, "through")
	if !inclusive {
		var ok2 bool
		fromText, toText, ok2 = splitOnKeyword(afterFrom, "to")
		if !ok2 {
			return nil, fmt.Errorf("malformed @for: missing \"to\"/\"through\"")
		}
	}
	fromExpr, err := ParseExpr(b.file, fromText)
	if err != nil {
		return nil, fmt.Errorf("parsing @for start: %w", err)
	}
	toExpr, err := ParseExpr(b.file, toText)
	if err != nil {
		return nil, fmt.Errorf("parsing @for end: %w", err)
	}
	return ForRule{Var: varName, From: fromExpr, To: toExpr, Inclusive: inclusive, Body: body, Pos: pos}, nil
}

func (b *blockScanner) parseWhile(head string, pos diag.SourceRange, body []Statement) (Statement, error) {
	condText := strings.TrimSpace(strings.TrimPrefix(head, "@while"))
	cond, err := ParseExpr(b.file, condText)
	if err != nil {
		return nil, fmt.Errorf("parsing @while condition: %w", err)
	}
	return WhileRule{Cond: cond, Body: body, Pos: pos}, nil
}
