// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package diag

import "fmt"

// Consolidate collapses runs of same-summary diagnostics of the given
// severity once they reach threshold occurrences, so that a stylesheet
// that triggers the same deprecation warning thousands of
// times across a large @each loop doesn't flood the logger hook.
func (d Diagnostics) Consolidate(threshold int, level SeverityLevel) Diagnostics {
	if len(d) == 0 {
		return nil
	}

	out := make(Diagnostics, 0, len(d))
	counts := make(map[string]int)
	groups := make(map[string]*consolidatedGroup)

	for _, item := range d {
		if item.Severity().SeverityLevel != level || item.Source().Subject == nil {
			out = out.Append(item)
			continue
		}

		summary := item.Description().Summary
		if g, ok := groups[summary]; ok {
			g.items = append(g.items, item)
			continue
		}

		counts[summary]++
		if counts[summary] == threshold {
			g := &consolidatedGroup{items: []Diagnostic{item}}
			groups[summary] = g
			out = out.Append(g)
			continue
		}
		out = out.Append(item)
	}

	return out
}

type consolidatedGroup struct {
	items []Diagnostic
}

func (g *consolidatedGroup) Severity() Severity { return g.items[0].Severity() }
func (g *consolidatedGroup) Kind() Kind { return g.items[0].Kind() }
func (g *consolidatedGroup) Source() Source { return g.items[0].Source() }
func (g *consolidatedGroup) Frames() []Frame { return g.items[0].Frames() }

func (g *consolidatedGroup) Description() Description {
	desc := g.items[0].Description()
	extra := len(g.items) - 1
	if extra <= 0 {
		return desc
	}
	var msg string
	if extra == 1 {
		msg = fmt.Sprintf("(and one more similar %s elsewhere)", g.Severity().SeverityLevel)
	} else {
		msg = fmt.Sprintf("(and %d more similar %ss elsewhere)", extra, g.Severity().SeverityLevel)
	}
	if desc.Detail != "" {
		desc.Detail = desc.Detail + "\n\n" + msg
	} else {
		desc.Detail = msg
	}
	return desc
}
