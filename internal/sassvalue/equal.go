// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

import (
	"fmt"
	"sort"
	"strings"
)

// Equal implements structural equality per variant, including the "empty list and empty map
// are the same value" rule and number equality after unit
// conversion.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}

	// The empty list and empty map compare equal to one another, so
	// normalize both to the empty-list shape before the type switch.
	a = normalizeEmptyMap(a)
	b = normalizeEmptyMap(b)

	switch av := a.(type) {
	case nullValue:
		_, ok := b.(nullValue)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && NumberEqual(av, bv)
	case SassString:
		bv, ok := b.(SassString)
		return ok && av.Text == bv.Text
	case Color:
		bv, ok := b.(Color)
		return ok && colorsEqual(av, bv)
	case List:
		bv, ok := b.(List)
		if !ok || av.Separator != bv.Separator || av.Brackets != bv.Brackets || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av.entries) != len(bv.entries) {
			return false
		}
		for _, k := range av.order {
			bval, found := bv.Get(av.entries[k].key)
			if !found || !Equal(av.entries[k].value, bval) {
				return false
			}
		}
		return true
	case Calculation:
		bv, ok := b.(Calculation)
		return ok && av.String() == bv.String()
	case *FunctionRef:
		bv, ok := b.(*FunctionRef)
		return ok && av.Name == bv.Name
	case *MixinRef:
		bv, ok := b.(*MixinRef)
		return ok && av.Name == bv.Name
	case ArgumentList:
		bv, ok := b.(ArgumentList)
		return ok && Equal(av.List, bv.List)
	default:
		return false
	}
}

func normalizeEmptyMap(v Value) Value {
	if m, ok := v.(Map); ok && len(m.entries) == 0 {
		return EmptyList(SeparatorUndecided)
	}
	return v
}

// HashKey returns a canonical string key for v, suitable for use as a Go
// map key implementing Sass's "value equality" map keys. Two values that
// Equal reports equal always produce the same HashKey, and vice versa.
func HashKey(v Value) string {
	v = normalizeEmptyMap(v)
	switch vv := v.(type) {
	case nullValue:
		return "null"
	case Boolean:
		return fmt.Sprintf("bool:%v", bool(vv))
	case Number:
		return "num:" + numberHashKey(vv)
	case SassString:
		return "str:" + vv.Text
	case Color:
		r, g, b, a := vv.RGBA()
		return fmt.Sprintf("color:%.6f,%.6f,%.6f,%.6f", r, g, b, a)
	case List:
		parts := make([]string, len(vv.Elements))
		for i, e := range vv.Elements {
			parts[i] = HashKey(e)
		}
		return fmt.Sprintf("list:%d:%v:%s", vv.Separator, vv.Brackets, strings.Join(parts, "\x1f"))
	case Map:
		keys := make([]string, 0, len(vv.entries))
		pairs := make(map[string]string, len(vv.entries))
		for _, k := range vv.order {
			kk := HashKey(vv.entries[k].key)
			pairs[kk] = HashKey(vv.entries[k].value)
			keys = append(keys, kk)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + pairs[k]
		}
		return "map:" + strings.Join(parts, "\x1f")
	case Calculation:
		return "calc:" + vv.String()
	case *FunctionRef:
		return "func:" + vv.Name
	case *MixinRef:
		return "mixin:" + vv.Name
	case ArgumentList:
		return "arglist:" + HashKey(vv.List)
	default:
		return fmt.Sprintf("?:%v", v)
	}
}

// numberHashKey reduces a number's units to their per-dimension
// canonical unit before hashing, so numbers that are Equal (after unit
// conversion) always collide.
func numberHashKey(n Number) string {
	canonNum := make([]string, len(n.numerator))
	value := n.Float64()
	for i, u := range n.numerator {
		canon, ok := canonicalDimensionUnit[u]
		if !ok {
			canon = u
		} else if factor, ok := convertFactor(u, canon); ok {
			value *= factor
		}
		canonNum[i] = canon
	}
	canonDen := make([]string, len(n.denominator))
	for i, u := range n.denominator {
		canon, ok := canonicalDimensionUnit[u]
		if !ok {
			canon = u
		} else if factor, ok := convertFactor(u, canon); ok {
			value /= factor
		}
		canonDen[i] = canon
	}
	sort.Strings(canonNum)
	sort.Strings(canonDen)
	rounded := float64(int64(value/integerTolerance+0.5)) * integerTolerance
	return fmt.Sprintf("%v|%s|%s", rounded, strings.Join(canonNum, ","), strings.Join(canonDen, ","))
}
