// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package sassgo

import (
	"strings"

	"github.com/sassgo/sassgo/internal/module"
)

// applyExtends implements a minimal textual rendition of `@extend`: for
// every rule whose selector list contains a component some other rule
// declared `@extend`ed, that component's own extending selectors are
// unioned into the rule it targets. It does not implement full
// specificity/compound-selector unification; it only ever compares whole,
// trimmed selector-list components for an exact textual match.
func applyExtends(items []module.Item, extensions map[string][]string) []module.Item {
	if len(extensions) == 0 {
		return items
	}
	out := make([]module.Item, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case module.Rule:
			out[i] = module.Rule{Selector: extendSelector(v.Selector, extensions), Declarations: v.Declarations}
		case module.AtRule:
			out[i] = module.AtRule{Header: v.Header, Body: applyExtends(v.Body, extensions)}
		default:
			out[i] = item
		}
	}
	return out
}

func extendSelector(selector string, extensions map[string][]string) string {
	seen := map[string]bool{}
	var result []string
	add := func(part string) {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			return
		}
		seen[part] = true
		result = append(result, part)
	}

	for _, part := range strings.Split(selector, ",") {
		add(part)
		if extra, ok := extensions[strings.TrimSpace(part)]; ok {
			for _, e := range extra {
				add(e)
			}
		}
	}
	return strings.Join(result, ", ")
}
