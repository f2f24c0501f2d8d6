// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassgo

import "github.com/sassgo/sassgo/internal/sassvalue"

// Value is a SassScript value: the closed set of
// variants this package's constructors build and its Assert* helpers
// inspect. It is a type alias rather than a new type, so a Function's
// argument values remain usable through it without any boundary
// conversion, and its own exported methods (Number.Float64, and so on)
// stay reachable.
type Value = sassvalue.Value

// Number, SassString, Color, List, and Map are the compound variants a
// Function is most likely to need to construct or inspect directly
// rather than through a plain constructor or Assert* call.
type (
	Number = sassvalue.Number
	SassString = sassvalue.SassString
	Color = sassvalue.Color
	List = sassvalue.List
	Map = sassvalue.Map
)

// Function is the shape Options.Functions registers: a SassScript
// callable implemented in Go.
type Function = func(args []Value, kwargs map[string]Value) (Value, error)

func NullValue() Value { return sassvalue.Null }
func BoolValue(b bool) Value { return sassvalue.BoolOf(b) }
func NumberValue(f float64) Value { return sassvalue.NewNumber(f) }
func QuotedString(s string) Value { return sassvalue.NewQuoted(s) }
func UnquotedString(s string) Value { return sassvalue.NewUnquoted(s) }
func ColorRGB(r, g, b, a float64) Value { return sassvalue.NewRGB(r, g, b, a) }

// AssertNumber, AssertString, AssertColor, AssertBoolean, and AssertMap
// report an argument-position error
// when v isn't the expected variant, the same check a builtin function
// makes before using one of its arguments.
func AssertNumber(v Value, name string) (Number, error) { return sassvalue.AssertNumber(v, name) }
func AssertString(v Value, name string) (SassString, error) { return sassvalue.AssertString(v, name) }
func AssertColor(v Value, name string) (Color, error) { return sassvalue.AssertColor(v, name) }
func AssertBoolean(v Value, name string) (bool, error) { return sassvalue.AssertBoolean(v, name) }
func AssertMap(v Value, name string) (Map, error) { return sassvalue.AssertMap(v, name) }

func AsList(v Value) List { return sassvalue.AsList(v) }
func IsTruthy(v Value) bool { return sassvalue.IsTruthy(v) }
func ValueEqual(a, b Value) bool { return sassvalue.Equal(a, b) }
