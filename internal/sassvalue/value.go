// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package sassvalue is the SassScript value algebra: the
// closed set of value variants, their operators, and their CSS/inspect
// serializers.
//
// Value is a small sealed interface, one implementation struct per
// variant, and dispatch lives in free functions (Add, Equal,
// ToCSSString...) that type-switch on the concrete variant rather than
// virtual methods scattered across types. Numbers reuse
// github.com/zclconf/go-cty's arbitrary-precision *big.Float arithmetic
// instead of a hand-rolled bignum.
package sassvalue

import "fmt"

// Kind tags a Value's variant, letting callers avoid a type switch when
// they only need to distinguish "what kind of thing is this" (error
// messages, assertions).
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindColor
	KindString
	KindList
	KindMap
	KindCalculation
	KindFunction
	KindMixin
	KindArgumentList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "bool"
	case KindNumber:
		return "number"
	case KindColor:
		return "color"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindCalculation:
		return "calculation"
	case KindFunction:
		return "function"
	case KindMixin:
		return "mixin"
	case KindArgumentList:
		return "arglist"
	default:
		return "unknown"
	}
}

// Value is the sealed interface implemented by every SassScript value
// variant. Every value is immutable once constructed.
type Value interface {
	fmt.Stringer

	Kind() Kind

	// isValue seals the interface to this package's variants.
	isValue()
}

// Null is the single inhabitant of the Null variant. It is falsy.
type nullValue struct{}

func (nullValue) Kind() Kind { return KindNull }
func (nullValue) String() string { return "null" }
func (nullValue) isValue() {}

// Null is the one and only null value.
var Null Value = nullValue{}

// Boolean wraps a bool. Only Boolean(false) and Null are falsy.
type Boolean bool

func (Boolean) isValue() {}
func (Boolean) Kind() Kind { return KindBoolean }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// True and False are the two Boolean singletons, for readability at call
// sites.
var (
	True Value = Boolean(true)
	False Value = Boolean(false)
)

// IsTruthy implements Sass's truthiness rule: everything is truthy
// except Null and Boolean(false).
func IsTruthy(v Value) bool {
	switch vv := v.(type) {
	case nullValue:
		return false
	case Boolean:
		return bool(vv)
	default:
		return true
	}
}

// BoolOf converts a Go bool to the corresponding Boolean singleton.
func BoolOf(b bool) Value {
	if b {
		return True
	}
	return False
}
