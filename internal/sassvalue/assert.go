// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

import "fmt"

// AssertionError is the runtime error raised by the typed accessors
// below. It carries the optional argument
// name so the evaluator can attach it to a diag.Diagnostic with the
// right "$name:..." prefix without re-parsing the message text.
type AssertionError struct {
	ArgName string
	Message string
}

func (e *AssertionError) Error() string {
	if e.ArgName == "" {
		return e.Message
	}
	return fmt.Sprintf("$%s: %s", e.ArgName, e.Message)
}

func argError(name, message string) error {
	return &AssertionError{ArgName: name, Message: message}
}

// AssertNumber returns v as a Number, or an error naming the expected
// kind.
func AssertNumber(v Value, name string) (Number, error) {
	if n, ok := v.(Number); ok {
		return n, nil
	}
	return Number{}, argError(name, fmt.Sprintf("%s is not a number", ToInspectString(v)))
}

// AssertString returns v as a SassString. Unwrapping a Calculation or
// special-number unquoted string is the caller's job, not this
// assertion's: AssertString is deliberately strict.
func AssertString(v Value, name string) (SassString, error) {
	if s, ok := v.(SassString); ok {
		return s, nil
	}
	return SassString{}, argError(name, fmt.Sprintf("%s is not a string", ToInspectString(v)))
}

// AssertColor returns v as a Color.
func AssertColor(v Value, name string) (Color, error) {
	if c, ok := v.(Color); ok {
		return c, nil
	}
	return Color{}, argError(name, fmt.Sprintf("%s is not a color", ToInspectString(v)))
}

// AssertBoolean returns v as a Boolean.
func AssertBoolean(v Value, name string) (bool, error) {
	if b, ok := v.(Boolean); ok {
		return bool(b), nil
	}
	return false, argError(name, fmt.Sprintf("%s is not a bool", ToInspectString(v)))
}

// AssertList returns v coerced to a List via AsList, so this never fails.
func AssertList(v Value) List {
	return AsList(v)
}

// AssertMap returns v as a Map, treating the empty list as the empty
// map.
func AssertMap(v Value, name string) (Map, error) {
	if m, ok := v.(Map); ok {
		return m, nil
	}
	if l, ok := v.(List); ok && len(l.Elements) == 0 {
		return Map{}, nil
	}
	return Map{}, argError(name, fmt.Sprintf("%s is not a map", ToInspectString(v)))
}

// AssertCalculation returns v as a Calculation.
func AssertCalculation(v Value, name string) (Calculation, error) {
	if c, ok := v.(Calculation); ok {
		return c, nil
	}
	return Calculation{}, argError(name, fmt.Sprintf("%s is not a calculation", ToInspectString(v)))
}

// AssertFunction returns v as a FunctionRef.
func AssertFunction(v Value, name string) (*FunctionRef, error) {
	if f, ok := v.(*FunctionRef); ok {
		return f, nil
	}
	return nil, argError(name, fmt.Sprintf("%s is not a function reference", ToInspectString(v)))
}

// AssertInt returns a Number asserted to be an integer, as the
// "assert it is integer" step that list-index coercion and many
// builtin functions (nth-like APIs) require.
func AssertInt(v Value, name string) (int, error) {
	n, err := AssertNumber(v, name)
	if err != nil {
		return 0, err
	}
	if !n.IsInt() {
		return 0, argError(name, fmt.Sprintf("%s is not an integer", ToInspectString(v)))
	}
	return int(n.Float64()), nil
}
