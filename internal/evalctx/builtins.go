// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package evalctx's builtin module namespaces are grounded on the
// teacher's lang/funcs package: one small Go function per Sass builtin,
// registered into a lookup table keyed by name, rather than a class
// hierarchy of callable objects.
package evalctx

import (
	"fmt"
	"math"
	"strings"

	"github.com/sassgo/sassgo/internal/module"
	"github.com/sassgo/sassgo/internal/sassvalue"
)

// builtin implements sassvalue.Callable so it can be stored in a
// module.Namespace's function table, and additionally exposes the Go
// function the evaluator actually invokes. User-defined @mixin/
// @function bodies are a distinct Callable, userCallable (control.go),
// dispatched on separately in callFunction/evalInclude.
type builtin struct {
	name string
	fn func(args []sassvalue.Value, kwargs map[string]sassvalue.Value) (sassvalue.Value, error)
}

func (b *builtin) CallableName() string { return b.name }

// NewFunction wraps a Go function as a sassvalue.Callable invokable from
// SassScript, the same shape every builtin in this file uses. The
// Public Compilation Surface uses this to register Options.Functions
// so user-supplied functions are actually callable rather
// than merely nameable.
func NewFunction(name string, fn func(args []sassvalue.Value, kwargs map[string]sassvalue.Value) (sassvalue.Value, error)) sassvalue.Callable {
	return &builtin{name: name, fn: fn}
}

func (b *builtin) call(args []sassvalue.Value, kwargs map[string]sassvalue.Value) (sassvalue.Value, error) {
	return b.fn(args, kwargs)
}

func arg(args []sassvalue.Value, kwargs map[string]sassvalue.Value, pos int, name string) (sassvalue.Value, bool) {
	if v, ok := kwargs[name]; ok {
		return v, true
	}
	if pos < len(args) {
		return args[pos], true
	}
	return nil, false
}

func requireArg(args []sassvalue.Value, kwargs map[string]sassvalue.Value, pos int, name string) (sassvalue.Value, error) {
	v, ok := arg(args, kwargs, pos, name)
	if !ok {
		return nil, fmt.Errorf("Missing argument $%s", name)
	}
	return v, nil
}

func numberArg(args []sassvalue.Value, kwargs map[string]sassvalue.Value, pos int, name string) (sassvalue.Number, error) {
	v, err := requireArg(args, kwargs, pos, name)
	if err != nil {
		return sassvalue.Number{}, err
	}
	return sassvalue.AssertNumber(v, name)
}

func buildModule(fns map[string]func(args []sassvalue.Value, kwargs map[string]sassvalue.Value) (sassvalue.Value, error)) *module.Namespace {
	ns := module.NewNamespace()
	for name, fn := range fns {
		ns.SetFunction(name, &builtin{name: name, fn: fn})
	}
	return ns
}

// builtinModules maps a `sass:` module's short name to its populated
// Namespace.
var builtinModules map[string]*module.Namespace

// globalFunctions are callable without any `@use "sass:...";`, matching
// the handful of CSS/Sass functions that have always been globally
// available.
var globalFunctions map[string]*builtin

func init() {
	mathNS := buildModule(mathFunctions)
	mathNS.SetVariable("pi", sassvalue.NewNumber(3.14159265358979323846), false)
	mathNS.SetVariable("e", sassvalue.NewNumber(2.71828182845904523536), false)

	builtinModules = map[string]*module.Namespace{
		"math": mathNS,
		"color": buildModule(colorFunctions),
		"list": buildModule(listFunctions),
		"map": buildModule(mapFunctions),
		"string": buildModule(stringFunctions),
		"meta": buildModule(metaFunctions),
		"selector": buildModule(selectorFunctions),
	}

	globalFunctions = map[string]*builtin{}
	for name, fn := range globalAliasFunctions {
		globalFunctions[name] = &builtin{name: name, fn: fn}
	}
}

var mathFunctions = map[string]func([]sassvalue.Value, map[string]sassvalue.Value) (sassvalue.Value, error){
	"abs": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		n, err := numberArg(args, kw, 0, "number")
		if err != nil {
			return nil, err
		}
		f := n.Float64()
		if f < 0 {
			f = -f
		}
		return sassvalue.NewNumberWithUnits(f, n.Numerator(), n.Denominator()), nil
	},
	"ceil": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		n, err := numberArg(args, kw, 0, "number")
		if err != nil {
			return nil, err
		}
		return sassvalue.NewNumberWithUnits(math.Ceil(n.Float64()), n.Numerator(), n.Denominator()), nil
	},
	"floor": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		n, err := numberArg(args, kw, 0, "number")
		if err != nil {
			return nil, err
		}
		return sassvalue.NewNumberWithUnits(math.Floor(n.Float64()), n.Numerator(), n.Denominator()), nil
	},
	"round": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		n, err := numberArg(args, kw, 0, "number")
		if err != nil {
			return nil, err
		}
		return sassvalue.NewNumberWithUnits(math.Round(n.Float64()), n.Numerator(), n.Denominator()), nil
	},
	"sqrt": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		n, err := numberArg(args, kw, 0, "number")
		if err != nil {
			return nil, err
		}
		if n.HasUnits() {
			return nil, fmt.Errorf("$number: %s is not unitless", n.String())
		}
		return sassvalue.NewNumber(math.Sqrt(n.Float64())), nil
	},
	"pow": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		base, err := numberArg(args, kw, 0, "base")
		if err != nil {
			return nil, err
		}
		exp, err := numberArg(args, kw, 1, "exponent")
		if err != nil {
			return nil, err
		}
		return sassvalue.NewNumber(math.Pow(base.Float64(), exp.Float64())), nil
	},
	"div": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		a, err := numberArg(args, kw, 0, "number1")
		if err != nil {
			return nil, err
		}
		b, err := numberArg(args, kw, 1, "number2")
		if err != nil {
			return nil, err
		}
		return sassvalue.Div(a, b)
	},
	"percentage": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		n, err := numberArg(args, kw, 0, "number")
		if err != nil {
			return nil, err
		}
		if n.HasUnits() {
			return nil, fmt.Errorf("$number: %s is not unitless", n.String())
		}
		return sassvalue.NewNumberWithUnits(n.Float64()*100, []string{"%"}, nil), nil
	},
	"min": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		return reduceNumbers(args, func(a, b sassvalue.Number) bool {
			cmp, ok := sassvalue.NumberCompare(a, b)
			return ok && cmp < 0
		})
	},
	"max": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		return reduceNumbers(args, func(a, b sassvalue.Number) bool {
			cmp, ok := sassvalue.NumberCompare(a, b)
			return ok && cmp > 0
		})
	},
}

func reduceNumbers(args []sassvalue.Value, better func(a, b sassvalue.Number) bool) (sassvalue.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one argument is required")
	}
	best, err := sassvalue.AssertNumber(args[0], "")
	if err != nil {
		return nil, err
	}
	for _, v := range args[1:] {
		n, err := sassvalue.AssertNumber(v, "")
		if err != nil {
			return nil, err
		}
		if better(n, best) {
			best = n
		}
	}
	return best, nil
}

var colorFunctions = map[string]func([]sassvalue.Value, map[string]sassvalue.Value) (sassvalue.Value, error){
	"red": channelFunc(func(c sassvalue.Color) float64 { r, _, _, _ := c.RGBA(); return r }),
	"green": channelFunc(func(c sassvalue.Color) float64 { _, g, _, _ := c.RGBA(); return g }),
	"blue": channelFunc(func(c sassvalue.Color) float64 { _, _, b, _ := c.RGBA(); return b }),
	"alpha": channelFunc(func(c sassvalue.Color) float64 { _, _, _, a := c.RGBA(); return a * 100 }),
	"hue": channelFunc(func(c sassvalue.Color) float64 { h, _, _, _ := c.HSLA(); return h }),
	"mix": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v1, err := requireArg(args, kw, 0, "color1")
		if err != nil {
			return nil, err
		}
		v2, err := requireArg(args, kw, 1, "color2")
		if err != nil {
			return nil, err
		}
		c1, err := sassvalue.AssertColor(v1, "color1")
		if err != nil {
			return nil, err
		}
		c2, err := sassvalue.AssertColor(v2, "color2")
		if err != nil {
			return nil, err
		}
		weight := 50.0
		if wv, ok := arg(args, kw, 2, "weight"); ok {
			n, err := sassvalue.AssertNumber(wv, "weight")
			if err != nil {
				return nil, err
			}
			weight = n.Float64()
		}
		w := weight / 100
		r1, g1, b1, a1 := c1.RGBA()
		r2, g2, b2, a2 := c2.RGBA()
		return sassvalue.NewRGB(
			r1*w+r2*(1-w),
			g1*w+g2*(1-w),
			b1*w+b2*(1-w),
			a1*w+a2*(1-w),
		), nil
	},
}

func channelFunc(extract func(sassvalue.Color) float64) func([]sassvalue.Value, map[string]sassvalue.Value) (sassvalue.Value, error) {
	return func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v, err := requireArg(args, kw, 0, "color")
		if err != nil {
			return nil, err
		}
		c, err := sassvalue.AssertColor(v, "color")
		if err != nil {
			return nil, err
		}
		return sassvalue.NewNumber(extract(c)), nil
	}
}

var listFunctions = map[string]func([]sassvalue.Value, map[string]sassvalue.Value) (sassvalue.Value, error){
	"length": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v, err := requireArg(args, kw, 0, "list")
		if err != nil {
			return nil, err
		}
		return sassvalue.NewNumber(float64(sassvalue.Length(v))), nil
	},
	"nth": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		lv, err := requireArg(args, kw, 0, "list")
		if err != nil {
			return nil, err
		}
		iv, err := requireArg(args, kw, 1, "n")
		if err != nil {
			return nil, err
		}
		l := sassvalue.AsList(lv)
		idx, _, err := sassvalue.SassIndexToListIndex(iv, len(l.Elements), "n")
		if err != nil {
			return nil, err
		}
		return l.Elements[idx], nil
	},
	"append": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		lv, err := requireArg(args, kw, 0, "list")
		if err != nil {
			return nil, err
		}
		val, err := requireArg(args, kw, 1, "val")
		if err != nil {
			return nil, err
		}
		l := sassvalue.AsList(lv)
		sep := l.Separator
		if sv, ok := arg(args, kw, 2, "separator"); ok {
			ss, err := sassvalue.AssertString(sv, "separator")
			if err != nil {
				return nil, err
			}
			switch ss.Text {
			case "comma":
				sep = sassvalue.SeparatorComma
			case "space":
				sep = sassvalue.SeparatorSpace
			}
		}
		elems := append(append([]sassvalue.Value{}, l.Elements...), val)
		return sassvalue.List{Elements: elems, Separator: sep, Brackets: l.Brackets}, nil
	},
	"join": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v1, err := requireArg(args, kw, 0, "list1")
		if err != nil {
			return nil, err
		}
		v2, err := requireArg(args, kw, 1, "list2")
		if err != nil {
			return nil, err
		}
		l1, l2 := sassvalue.AsList(v1), sassvalue.AsList(v2)
		sep := l1.Separator
		if sep == sassvalue.SeparatorUndecided {
			sep = l2.Separator
		}
		elems := append(append([]sassvalue.Value{}, l1.Elements...), l2.Elements...)
		return sassvalue.List{Elements: elems, Separator: sep}, nil
	},
	"index": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		lv, err := requireArg(args, kw, 0, "list")
		if err != nil {
			return nil, err
		}
		val, err := requireArg(args, kw, 1, "value")
		if err != nil {
			return nil, err
		}
		l := sassvalue.AsList(lv)
		for i, e := range l.Elements {
			if sassvalue.Equal(e, val) {
				return sassvalue.NewNumber(float64(i + 1)), nil
			}
		}
		return sassvalue.Null, nil
	},
	"separator": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		lv, err := requireArg(args, kw, 0, "list")
		if err != nil {
			return nil, err
		}
		l := sassvalue.AsList(lv)
		if l.Separator == sassvalue.SeparatorComma {
			return sassvalue.NewUnquoted("comma"), nil
		}
		return sassvalue.NewUnquoted("space"), nil
	},
	"is-bracketed": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		lv, err := requireArg(args, kw, 0, "list")
		if err != nil {
			return nil, err
		}
		return sassvalue.BoolOf(sassvalue.AsList(lv).Brackets), nil
	},
}

var mapFunctions = map[string]func([]sassvalue.Value, map[string]sassvalue.Value) (sassvalue.Value, error){
	"get": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		mv, err := requireArg(args, kw, 0, "map")
		if err != nil {
			return nil, err
		}
		m, err := sassvalue.AssertMap(mv, "map")
		if err != nil {
			return nil, err
		}
		kv, err := requireArg(args, kw, 1, "key")
		if err != nil {
			return nil, err
		}
		if v, ok := m.Get(kv); ok {
			return v, nil
		}
		return sassvalue.Null, nil
	},
	"has-key": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		mv, err := requireArg(args, kw, 0, "map")
		if err != nil {
			return nil, err
		}
		m, err := sassvalue.AssertMap(mv, "map")
		if err != nil {
			return nil, err
		}
		kv, err := requireArg(args, kw, 1, "key")
		if err != nil {
			return nil, err
		}
		_, ok := m.Get(kv)
		return sassvalue.BoolOf(ok), nil
	},
	"keys": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		mv, err := requireArg(args, kw, 0, "map")
		if err != nil {
			return nil, err
		}
		m, err := sassvalue.AssertMap(mv, "map")
		if err != nil {
			return nil, err
		}
		return sassvalue.List{Elements: m.Keys(), Separator: sassvalue.SeparatorComma}, nil
	},
	"values": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		mv, err := requireArg(args, kw, 0, "map")
		if err != nil {
			return nil, err
		}
		m, err := sassvalue.AssertMap(mv, "map")
		if err != nil {
			return nil, err
		}
		return sassvalue.List{Elements: m.Values(), Separator: sassvalue.SeparatorComma}, nil
	},
	"merge": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v1, err := requireArg(args, kw, 0, "map1")
		if err != nil {
			return nil, err
		}
		v2, err := requireArg(args, kw, 1, "map2")
		if err != nil {
			return nil, err
		}
		m1, err := sassvalue.AssertMap(v1, "map1")
		if err != nil {
			return nil, err
		}
		m2, err := sassvalue.AssertMap(v2, "map2")
		if err != nil {
			return nil, err
		}
		out := sassvalue.Map{}
		m1.Each(func(k, v sassvalue.Value) { out.Set(k, v) })
		m2.Each(func(k, v sassvalue.Value) { out.Set(k, v) })
		return out, nil
	},
	"remove": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		mv, err := requireArg(args, kw, 0, "map")
		if err != nil {
			return nil, err
		}
		m, err := sassvalue.AssertMap(mv, "map")
		if err != nil {
			return nil, err
		}
		remove := map[string]bool{}
		if len(args) > 1 {
			for _, v := range args[1:] {
				remove[sassvalue.HashKey(v)] = true
			}
		}
		out := sassvalue.Map{}
		m.Each(func(k, v sassvalue.Value) {
			if !remove[sassvalue.HashKey(k)] {
				out.Set(k, v)
			}
		})
		return out, nil
	},
}

var stringFunctions = map[string]func([]sassvalue.Value, map[string]sassvalue.Value) (sassvalue.Value, error){
	"length": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v, err := requireArg(args, kw, 0, "string")
		if err != nil {
			return nil, err
		}
		s, err := sassvalue.AssertString(v, "string")
		if err != nil {
			return nil, err
		}
		return sassvalue.NewNumber(float64(len([]rune(s.Text)))), nil
	},
	"to-upper-case": stringTransform(strings.ToUpper),
	"to-lower-case": stringTransform(strings.ToLower),
	"quote": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v, err := requireArg(args, kw, 0, "string")
		if err != nil {
			return nil, err
		}
		s, err := sassvalue.AssertString(v, "string")
		if err != nil {
			return nil, err
		}
		return sassvalue.NewQuoted(s.Text), nil
	},
	"unquote": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v, err := requireArg(args, kw, 0, "string")
		if err != nil {
			return nil, err
		}
		s, err := sassvalue.AssertString(v, "string")
		if err != nil {
			return nil, err
		}
		return sassvalue.NewUnquoted(s.Text), nil
	},
}

func stringTransform(f func(string) string) func([]sassvalue.Value, map[string]sassvalue.Value) (sassvalue.Value, error) {
	return func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v, err := requireArg(args, kw, 0, "string")
		if err != nil {
			return nil, err
		}
		s, err := sassvalue.AssertString(v, "string")
		if err != nil {
			return nil, err
		}
		return sassvalue.SassString{Text: f(s.Text), Quoted: s.Quoted}, nil
	}
}

var metaFunctions = map[string]func([]sassvalue.Value, map[string]sassvalue.Value) (sassvalue.Value, error){
	"type-of": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v, err := requireArg(args, kw, 0, "value")
		if err != nil {
			return nil, err
		}
		return sassvalue.NewUnquoted(v.Kind().String()), nil
	},
	"inspect": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v, err := requireArg(args, kw, 0, "value")
		if err != nil {
			return nil, err
		}
		return sassvalue.NewUnquoted(sassvalue.ToInspectString(v)), nil
	},
}

var selectorFunctions = map[string]func([]sassvalue.Value, map[string]sassvalue.Value) (sassvalue.Value, error){
	"nest": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("selector.nest requires at least one argument")
		}
		parts := make([]string, 0, len(args))
		for _, v := range args {
			s, err := sassvalue.ToSelectorString(v)
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
		}
		combined := parts[0]
		for _, p := range parts[1:] {
			combined = combined + " " + p
		}
		return sassvalue.NewUnquoted(combined), nil
	},
	"append": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("selector.append requires at least one argument")
		}
		parts := make([]string, 0, len(args))
		for _, v := range args {
			s, err := sassvalue.ToSelectorString(v)
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
		}
		return sassvalue.NewUnquoted(strings.Join(parts, "")), nil
	},
}

// globalAliasFunctions are callable without a namespace qualifier:
// legacy global aliases and the raw color constructors/rgba/
// hsl/hsla family every real Sass implementation keeps global for
// CSS compatibility).
var globalAliasFunctions = map[string]func([]sassvalue.Value, map[string]sassvalue.Value) (sassvalue.Value, error){
	"rgb": rgbFunc,
	"rgba": rgbFunc,
	"hsl": hslFunc,
	"hsla": hslFunc,
	"not": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		v, err := requireArg(args, kw, 0, "value")
		if err != nil {
			return nil, err
		}
		return sassvalue.Not(v), nil
	},
	"if": func(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
		cond, err := requireArg(args, kw, 0, "condition")
		if err != nil {
			return nil, err
		}
		ifTrue, err := requireArg(args, kw, 1, "if-true")
		if err != nil {
			return nil, err
		}
		ifFalse, err := requireArg(args, kw, 2, "if-false")
		if err != nil {
			return nil, err
		}
		if sassvalue.IsTruthy(cond) {
			return ifTrue, nil
		}
		return ifFalse, nil
	},
}

func rgbFunc(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
	r, err := numberArg(args, kw, 0, "red")
	if err != nil {
		return nil, err
	}
	g, err := numberArg(args, kw, 1, "green")
	if err != nil {
		return nil, err
	}
	b, err := numberArg(args, kw, 2, "blue")
	if err != nil {
		return nil, err
	}
	a := 1.0
	if av, ok := arg(args, kw, 3, "alpha"); ok {
		an, err := sassvalue.AssertNumber(av, "alpha")
		if err != nil {
			return nil, err
		}
		a = an.Float64()
		if an.HasUnits() {
			a = an.Float64() / 100
		}
	}
	return sassvalue.NewRGB(r.Float64(), g.Float64(), b.Float64(), a), nil
}

func hslFunc(args []sassvalue.Value, kw map[string]sassvalue.Value) (sassvalue.Value, error) {
	h, err := numberArg(args, kw, 0, "hue")
	if err != nil {
		return nil, err
	}
	s, err := numberArg(args, kw, 1, "saturation")
	if err != nil {
		return nil, err
	}
	l, err := numberArg(args, kw, 2, "lightness")
	if err != nil {
		return nil, err
	}
	a := 1.0
	if av, ok := arg(args, kw, 3, "alpha"); ok {
		an, err := sassvalue.AssertNumber(av, "alpha")
		if err != nil {
			return nil, err
		}
		a = an.Float64()
	}
	return sassvalue.NewHSL(h.Float64(), s.Float64(), l.Float64(), a), nil
}

