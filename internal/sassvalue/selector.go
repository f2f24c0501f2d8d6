// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassvalue

import (
	"fmt"
	"strings"
)

// ToSelectorString implements selector coercion used by
// selector functions (selector.nest, selector.append, etc.) and by
// @extend's right-hand side: a bare string is the selector verbatim; a
// comma-separated List of (strings or space-separated Lists of strings)
// renders as a comma-separated complex selector list; a space-separated
// List of strings renders as a single compound/complex selector. Any
// other shape is an error.
func ToSelectorString(v Value) (string, error) {
	switch vv := v.(type) {
	case SassString:
		return vv.Text, nil
	case List:
		return selectorListString(vv)
	default:
		return "", fmt.Errorf("%s is not a valid selector: it must be a string,\n"+
			"a list of strings, or a list of lists of strings", ToInspectString(v))
	}
}

func selectorListString(l List) (string, error) {
	if len(l.Elements) == 0 {
		return "", nil
	}
	switch l.Separator {
	case SeparatorComma:
		parts := make([]string, len(l.Elements))
		for i, e := range l.Elements {
			s, err := selectorComponentString(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ", "), nil
	default:
		parts := make([]string, len(l.Elements))
		for i, e := range l.Elements {
			s, ok := e.(SassString)
			if !ok {
				return "", fmt.Errorf("%s is not a valid selector: complex selector components must be strings", ToInspectString(e))
			}
			parts[i] = s.Text
		}
		return strings.Join(parts, " "), nil
	}
}

// selectorComponentString renders one comma-list element: either a bare
// string (a whole complex selector) or a space-separated list of strings.
func selectorComponentString(v Value) (string, error) {
	switch vv := v.(type) {
	case SassString:
		return vv.Text, nil
	case List:
		if vv.Separator == SeparatorComma {
			return "", fmt.Errorf("%s is not a valid selector: nested comma lists aren't allowed", ToInspectString(vv))
		}
		parts := make([]string, len(vv.Elements))
		for i, e := range vv.Elements {
			s, ok := e.(SassString)
			if !ok {
				return "", fmt.Errorf("%s is not a valid selector: complex selector components must be strings", ToInspectString(e))
			}
			parts[i] = s.Text
		}
		return strings.Join(parts, " "), nil
	default:
		return "", fmt.Errorf("%s is not a valid selector: it must be a string,\n"+
			"a list of strings, or a list of lists of strings", ToInspectString(v))
	}
}
