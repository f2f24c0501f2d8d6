// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

import "strings"

// ToCSSString renders v the way it would appear in CSS output: unquoted strings lose their quotes, null renders as "" inside
// a list context handled by the caller, and lists/maps expand their
// elements recursively.
func ToCSSString(v Value) string {
	switch vv := v.(type) {
	case nullValue:
		return ""
	case Boolean:
		return vv.String()
	case Number:
		return vv.String()
	case SassString:
		if vv.Quoted {
			return quoteCSS(vv.Text)
		}
		return vv.Text
	case Color:
		return colorToCSS(vv)
	case List:
		return listToCSS(vv)
	case Map:
		return listToCSS(mapAsList(vv))
	case Calculation:
		return vv.String()
	case *FunctionRef:
		return vv.String()
	case *MixinRef:
		return vv.String()
	case ArgumentList:
		return ToCSSString(vv.List)
	default:
		return ""
	}
}

func listToCSS(l List) string {
	parts := make([]string, 0, len(l.Elements))
	for _, e := range l.Elements {
		if _, ok := e.(nullValue); ok {
			continue
		}
		parts = append(parts, ToCSSString(e))
	}
	sep := l.Separator.separatorString()
	body := strings.Join(parts, sep)
	if l.Brackets {
		return "[" + body + "]"
	}
	return body
}

// colorToCSS serializes in the form that preserves precision: colors that
// came from a hex/keyword/RGB literal round-trip through #rrggbb, or
// #rrggbbaa when alpha is below 1; colors constructed in HSL/HWB space
// render using that function notation so no precision is lost
// converting back to RGB.
func colorToCSS(c Color) string {
	switch c.space {
	case spaceHSL:
		h, s, l, a := c.HSLA()
		if a >= 1 {
			return formatFunc("hsl", formatDeg(h), formatPct(s), formatPct(l))
		}
		return formatFunc("hsl", formatDeg(h), formatPct(s), formatPct(l), "/", formatAlpha(a))
	case spaceHWB:
		h, w, bl, a := c.HWBA()
		if a >= 1 {
			return formatFunc("hwb", formatDeg(h), formatPct(w), formatPct(bl))
		}
		return formatFunc("hwb", formatDeg(h), formatPct(w), formatPct(bl), "/", formatAlpha(a))
	default:
		r, g, b, a := c.RGBA()
		return hexString(r, g, b, a)
	}
}

func formatFunc(name string, args...string) string {
	return name + "(" + strings.Join(args, " ") + ")"
}

func formatDeg(v float64) string { return formatNumber(numLit(v)) + "deg" }
func formatPct(v float64) string { return formatNumber(numLit(v)) + "%" }
func formatAlpha(v float64) string {
	return formatNumber(numLit(v))
}

// ToInspectString renders v the way Sass's `meta.inspect`/debug output
// does: quoted strings keep their quotes, null prints as "null", maps
// print as "(k: v, k2: v2)".
func ToInspectString(v Value) string {
	switch vv := v.(type) {
	case nullValue:
		return "null"
	case SassString:
		if vv.Quoted {
			return quoteCSS(vv.Text)
		}
		return vv.Text
	case List:
		return inspectList(vv)
	case Map:
		return inspectMap(vv)
	default:
		return ToCSSString(v)
	}
}

func inspectList(l List) string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = ToInspectString(e)
	}
	sep := l.Separator.separatorString()
	body := strings.Join(parts, sep)
	if l.Brackets {
		return "[" + body + "]"
	}
	if len(l.Elements) == 1 && l.Separator != SeparatorComma {
		return "(" + body + ",)"
	}
	return "(" + body + ")"
}

func inspectMap(m Map) string {
	if m.Len() == 0 {
		return ""
	}
	var parts []string
	m.Each(func(k, v Value) {
		parts = append(parts, ToInspectString(k)+": "+ToInspectString(v))
	})
	return "(" + strings.Join(parts, ", ") + ")"
}
