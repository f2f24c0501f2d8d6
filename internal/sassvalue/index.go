// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

import (
	"fmt"

	"github.com/sassgo/sassgo/internal/diag"
)

// SassIndexToListIndex implements sassIndexToListIndex:
// a 1-based, possibly-negative Sass index is validated and converted to
// a 0-based Go slice index into a sequence of the given length.
//
// name, if non-empty, is the argument name used only in error messages.
// A non-nil warning diagnostic is returned alongside a successful
// conversion when the index carried units, per the "if it has units,
// emit a deprecation warning" rule; it is the caller's responsibility to
// route that through the logger.
func SassIndexToListIndex(index Value, length int, name string) (int, diag.Diagnostic, error) {
	n, ok := index.(Number)
	if !ok {
		return 0, nil, argError(name, fmt.Sprintf("%s is not a number", ToInspectString(index)))
	}

	var warning diag.Diagnostic
	if n.HasUnits() {
		warning = diag.New(diag.WarningLevel, diag.KindNone,
			fmt.Sprintf("$%s: Passing a number with a unit as an index is deprecated.", orDefault(name, "index")),
			"", nil)
	}

	if !n.IsInt() {
		return 0, warning, argError(name, fmt.Sprintf("%s is not an integer", ToInspectString(index)))
	}

	i := int(n.Float64())
	if i == 0 {
		return 0, warning, argError(name, "List index may not be 0")
	}
	if i < 0 {
		if -i > length {
			return 0, warning, argError(name, fmt.Sprintf("Invalid index %d for a list with %d elements", i, length))
		}
		return length + i, warning, nil
	}
	if i > length {
		return 0, warning, argError(name, fmt.Sprintf("Invalid index %d for a list with %d elements", i, length))
	}
	return i - 1, warning, nil
}

func orDefault(name, def string) string {
	if name == "" {
		return def
	}
	return name
}
