// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package evalctx

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/sassgo/sassgo/internal/diag"
	"github.com/sassgo/sassgo/internal/parse"
	"github.com/sassgo/sassgo/internal/sassvalue"
)

// numberLitPrecision is the bit precision used to parse a numeric
// literal's original text into a *big.Float, well beyond float64's ~53
// bits so that a long decimal literal (e.g. a high-precision pi
// override) keeps its written digits through arithmetic instead of
// rounding to the nearest float64 at parse time.
const numberLitPrecision = 200

// numberLitValue builds a Number from a parsed numeric literal,
// preferring its original decimal text (arbitrary-precision) over its
// pre-rounded float64 Value, which exists only for literals synthesized
// outside the parser.
func numberLitValue(v parse.NumberLit, numerator []string) sassvalue.Value {
	if v.Text != "" {
		if bf, _, err := big.ParseFloat(v.Text, 10, numberLitPrecision, big.ToNearestEven); err == nil {
			return sassvalue.NewNumberFromBigFloat(bf, numerator, nil)
		}
	}
	return sassvalue.NewNumberWithUnits(v.Value, numerator, nil)
}

// evalExpr evaluates a parsed SassScript expression against the current
// module/scope state, dispatching arithmetic and comparison operators
// through internal/sassvalue's operator table.
func (e *moduleEvaluator) evalExpr(expr parse.Expr) (sassvalue.Value, diag.Diagnostics) {
	switch v := expr.(type) {
	case parse.NumberLit:
		if v.Unit == "" {
			return numberLitValue(v, nil), nil
		}
		return numberLitValue(v, []string{v.Unit}), nil

	case parse.StringLit:
		if v.Quoted {
			return sassvalue.NewQuoted(v.Text), nil
		}
		return sassvalue.NewUnquoted(v.Text), nil

	case parse.ColorLit:
		c, err := parseHexColor(v.Hex)
		if err != nil {
			return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime, err.Error(), "", &v.Pos)}
		}
		return c, nil

	case parse.BoolLit:
		return sassvalue.BoolOf(v.Value), nil

	case parse.NullLit:
		return sassvalue.Null, nil

	case parse.VariableRef:
		val, ok := e.lookupVariable(v.Name)
		if !ok {
			return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
				fmt.Sprintf("Undefined variable: $%s", v.Name), "", &v.Pos)}
		}
		return val, nil

	case parse.MemberRef:
		if v.IsVar {
			val, ok := e.lookupNamespacedVariable(v.Namespace, v.Name)
			if !ok {
				return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
					fmt.Sprintf("Undefined variable: %s.$%s", v.Namespace, v.Name), "", &v.Pos)}
			}
			return val, nil
		}
		return e.callFunction(v.Namespace, v.Name, nil, v.Pos)

	case parse.ListExpr:
		return e.evalList(v)

	case parse.MapExpr:
		return e.evalMap(v)

	case parse.BinaryExpr:
		return e.evalBinary(v)

	case parse.UnaryExpr:
		return e.evalUnary(v)

	case parse.CallExpr:
		return e.evalCall(v)

	default:
		return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
			fmt.Sprintf("unsupported expression %T", expr), "", nil)}
	}
}

func (e *moduleEvaluator) evalList(v parse.ListExpr) (sassvalue.Value, diag.Diagnostics) {
	elems := make([]sassvalue.Value, 0, len(v.Elements))
	for _, el := range v.Elements {
		val, diags := e.evalExpr(el)
		if diags.HasErrors() {
			return nil, diags
		}
		elems = append(elems, val)
	}
	sep := sassvalue.SeparatorSpace
	if v.Comma {
		sep = sassvalue.SeparatorComma
	}
	if len(elems) == 0 && !v.Bracket {
		sep = sassvalue.SeparatorUndecided
	}
	return sassvalue.List{Elements: elems, Separator: sep, Brackets: v.Bracket}, nil
}

func (e *moduleEvaluator) evalMap(v parse.MapExpr) (sassvalue.Value, diag.Diagnostics) {
	pairs := make([][2]sassvalue.Value, 0, len(v.Entries))
	for _, entry := range v.Entries {
		k, diags := e.evalExpr(entry.Key)
		if diags.HasErrors() {
			return nil, diags
		}
		val, diags := e.evalExpr(entry.Value)
		if diags.HasErrors() {
			return nil, diags
		}
		pairs = append(pairs, [2]sassvalue.Value{k, val})
	}
	return sassvalue.NewMap(pairs), nil
}

func (e *moduleEvaluator) evalUnary(v parse.UnaryExpr) (sassvalue.Value, diag.Diagnostics) {
	operand, diags := e.evalExpr(v.Operand)
	if diags.HasErrors() {
		return nil, diags
	}
	switch v.Op {
	case "not":
		return sassvalue.Not(operand), nil
	case "+":
		return sassvalue.UnaryPlus(operand), nil
	case "-":
		return sassvalue.UnaryMinus(operand), nil
	case "/":
		return sassvalue.UnarySlash(operand), nil
	default:
		return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
			fmt.Sprintf("unknown unary operator %q", v.Op), "", &v.Pos)}
	}
}

func (e *moduleEvaluator) evalBinary(v parse.BinaryExpr) (sassvalue.Value, diag.Diagnostics) {
	// `and`/`or` short-circuit on truthiness, so the right side is only
	// evaluated when it can affect the result.
	if v.Op == "and" || v.Op == "or" {
		left, diags := e.evalExpr(v.Left)
		if diags.HasErrors() {
			return nil, diags
		}
		truthy := sassvalue.IsTruthy(left)
		if (v.Op == "and" && !truthy) || (v.Op == "or" && truthy) {
			return left, nil
		}
		return e.evalExpr(v.Right)
	}

	left, diags := e.evalExpr(v.Left)
	if diags.HasErrors() {
		return nil, diags
	}
	right, diags := e.evalExpr(v.Right)
	if diags.HasErrors() {
		return nil, diags
	}

	raise := func(err error) diag.Diagnostics {
		return diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime, err.Error(), "", &v.Pos)}
	}

	switch v.Op {
	case "+":
		val, err := sassvalue.BinaryAdd(left, right)
		if err != nil {
			return nil, raise(err)
		}
		return val, nil
	case "-":
		val, err := sassvalue.BinarySub(left, right)
		if err != nil {
			return nil, raise(err)
		}
		return val, nil
	case "*":
		val, err := sassvalue.BinaryMul(left, right)
		if err != nil {
			return nil, raise(err)
		}
		return val, nil
	case "/":
		val, deprecated, err := sassvalue.BinaryDiv(left, right)
		if err != nil {
			return nil, raise(err)
		}
		if deprecated {
			e.checkSlashDeprecation(val, v.Pos)
		}
		return val, nil
	case "%":
		val, err := sassvalue.BinaryMod(left, right)
		if err != nil {
			return nil, raise(err)
		}
		return val, nil
	case "==":
		return sassvalue.BoolOf(sassvalue.Equal(left, right)), nil
	case "!=":
		return sassvalue.BoolOf(!sassvalue.Equal(left, right)), nil
	case "<", "<=", ">", ">=":
		ok, err := sassvalue.Compare(left, right, v.Op)
		if err != nil {
			return nil, raise(err)
		}
		return sassvalue.BoolOf(ok), nil
	default:
		return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
			fmt.Sprintf("unknown binary operator %q", v.Op), "", &v.Pos)}
	}
}

// calcFunctions are rendered as a symbolic Calculation rather than
// invoked as ordinary functions.
var calcFunctions = map[string]bool{"calc": true, "min": true, "max": true, "clamp": true}

func (e *moduleEvaluator) evalCall(v parse.CallExpr) (sassvalue.Value, diag.Diagnostics) {
	lowerName := strings.ToLower(v.Name)
	if v.Namespace == "" && calcFunctions[lowerName] {
		args := make([]sassvalue.Value, 0, len(v.Args))
		for _, a := range v.Args {
			val, diags := e.evalExpr(a.Value)
			if diags.HasErrors() {
				return nil, diags
			}
			args = append(args, val)
		}
		return sassvalue.Calculation{Name: lowerName, Args: args}, nil
	}
	return e.callFunction(v.Namespace, v.Name, v.Args, v.Range())
}

// callFunction resolves and invokes name (optionally namespace.name)
// against positional/keyword/rest arguments, falling back to rendering
// an unrecognized call as a literal CSS function call (so `calc(...)`,
// `url(...)`, `var(...)` and the rest of plain CSS's function grammar
// survive a Sass compile unmodified).
func (e *moduleEvaluator) callFunction(namespace, name string, rawArgs []parse.Arg, pos diag.SourceRange) (sassvalue.Value, diag.Diagnostics) {
	positional, keywords, diags := e.evalArgs(rawArgs)
	if diags.HasErrors() {
		return nil, diags
	}

	callable, ok := e.lookupFunction(namespace, name)
	if !ok {
		return passthroughCall(namespace, name, positional, keywords), nil
	}
	switch fn := callable.(type) {
	case *builtin:
		val, err := fn.call(positional, keywords)
		if err != nil {
			return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime, err.Error(), "", &pos)}
		}
		return val, nil
	case *userCallable:
		if !fn.isFunction {
			return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
				fmt.Sprintf("%s is a mixin, not a function", fn.name), "", &pos)}
		}
		return e.invokeUserFunction(fn, positional, keywords, pos)
	default:
		return nil, diag.Diagnostics{diag.New(diag.ErrorLevel, diag.KindRuntime,
			fmt.Sprintf("%s is not callable from this evaluator", callable.CallableName()), "", &pos)}
	}
}

func (e *moduleEvaluator) evalArgs(rawArgs []parse.Arg) ([]sassvalue.Value, map[string]sassvalue.Value, diag.Diagnostics) {
	var positional []sassvalue.Value
	var keywords map[string]sassvalue.Value
	for _, a := range rawArgs {
		val, diags := e.evalExpr(a.Value)
		if diags.HasErrors() {
			return nil, nil, diags
		}
		switch {
		case a.Rest:
			if al, ok := val.(sassvalue.ArgumentList); ok {
				positional = append(positional, al.List.Elements...)
				al.Keywords.Each(func(k, v sassvalue.Value) {
					if keywords == nil {
						keywords = map[string]sassvalue.Value{}
					}
					if ks, ok := k.(sassvalue.SassString); ok {
						keywords[ks.Text] = v
					}
				})
				continue
			}
			positional = append(positional, sassvalue.AsList(val).Elements...)
		case a.Name != "":
			if keywords == nil {
				keywords = map[string]sassvalue.Value{}
			}
			keywords[a.Name] = val
		default:
			positional = append(positional, val)
		}
	}
	return positional, keywords, nil
}

func passthroughCall(namespace, name string, positional []sassvalue.Value, keywords map[string]sassvalue.Value) sassvalue.Value {
	var b strings.Builder
	if namespace != "" {
		b.WriteString(namespace)
		b.WriteByte('.')
	}
	b.WriteString(name)
	b.WriteByte('(')
	parts := make([]string, 0, len(positional)+len(keywords))
	for _, p := range positional {
		parts = append(parts, sassvalue.ToCSSString(p))
	}
	for k, v := range keywords {
		parts = append(parts, "$"+k+": "+sassvalue.ToCSSString(v))
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteByte(')')
	return sassvalue.NewUnquoted(b.String())
}

// parseHexColor parses the lexer's bare hex digits (3, 4, 6, or 8 of
// them, no leading '#') into an RGB Color.
func parseHexColor(hex string) (sassvalue.Color, error) {
	expand := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return b.String()
	}
	switch len(hex) {
	case 3:
		hex = expand(hex) + "ff"
	case 4:
		hex = expand(hex)
	case 6:
		hex = hex + "ff"
	case 8:
		// already full length
	default:
		return sassvalue.Color{}, fmt.Errorf("#%s is not a valid color", hex)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return sassvalue.Color{}, fmt.Errorf("#%s is not a valid color", hex)
	}
	r := float64((n >> 24) & 0xff)
	g := float64((n >> 16) & 0xff)
	b := float64((n >> 8) & 0xff)
	a := float64(n&0xff) / 255
	return sassvalue.NewRGB(r, g, b, a), nil
}
