// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package diag

import (
	"fmt"
	"strings"
)

// Diagnostics is an ordered collection of Diagnostic, the single carrier
// used throughout sassgo for both user-visible errors and deprecation
// warnings. Zero value is usable.
type Diagnostics []Diagnostic

// Append adds zero or more diagnostics, accepting the same convenience
// shapes a familiar tfdiags.Diagnostics.Append accepts: another
// Diagnostics, a single Diagnostic, a plain error, or nil (a no-op).
func (d Diagnostics) Append(items...any) Diagnostics {
	for _, item := range items {
		if item == nil {
			continue
		}
		switch v := item.(type) {
		case Diagnostics:
			d = append(d, v...)
		case Diagnostic:
			d = append(d, v)
		case error:
			d = append(d, simpleDiagnostic{
				severity: NewSeverity(ErrorLevel),
				desc: Description{Summary: v.Error()},
			})
		default:
			panic(fmt.Sprintf("diag.Diagnostics.Append: unsupported type %T", item))
		}
	}
	return d
}

// HasErrors reports whether any contained diagnostic is error severity.
func (d Diagnostics) HasErrors() bool {
	for _, item := range d {
		if item.Severity().SeverityLevel == ErrorLevel {
			return true
		}
	}
	return false
}

// Warnings returns only the warning-severity diagnostics, the set that
// says must be dispatched through the logger hook.
func (d Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, item := range d {
		if item.Severity().SeverityLevel == WarningLevel {
			out = append(out, item)
		}
	}
	return out
}

// Err collapses the error-severity diagnostics into a single Go error, or
// nil if there are none. This is the boundary where the internal
// Diagnostics carrier becomes an ordinary error for callers that don't
// care about the richer structure.
func (d Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}
	return diagnosticsAsError{d}
}

type diagnosticsAsError struct {
	diags Diagnostics
}

func (e diagnosticsAsError) Error() string {
	var b strings.Builder
	first := true
	for _, item := range e.diags {
		if item.Severity().SeverityLevel != ErrorLevel {
			continue
		}
		if !first {
			b.WriteString("; ")
		}
		first = false
		b.WriteString(formatOne(item))
	}
	return b.String()
}

func formatOne(d Diagnostic) string {
	desc := d.Description()
	src := d.Source()
	var b strings.Builder
	b.WriteString(d.Kind().String())
	b.WriteString(": ")
	b.WriteString(desc.Summary)
	if src.Subject != nil {
		b.WriteString(" (")
		b.WriteString(src.Subject.StartString())
		b.WriteString(")")
	}
	if desc.Detail != "" {
		b.WriteString(": ")
		b.WriteString(desc.Detail)
	}
	for _, f := range d.Frames() {
		b.WriteString("\n from ")
		b.WriteString(f.Name)
		if f.Subject != nil {
			b.WriteString(" (")
			b.WriteString(f.Subject.StartString())
			b.WriteString(")")
		}
	}
	return b.String()
}

// Format renders the full caret-highlighted, stack-traced presentation
// used for user-visible output: the message, the source excerpt, and
// the Sass stack from innermost to outermost frame.
func Format(d Diagnostic, sourceExcerpt string) string {
	var b strings.Builder
	desc := d.Description()
	b.WriteString(fmt.Sprintf("%s: %s\n", d.Severity().SeverityLevel, desc.Summary))
	if src := d.Source().Subject; src != nil {
		b.WriteString(fmt.Sprintf(" ┌─ %s\n", src.StartString()))
		if sourceExcerpt != "" {
			line := excerptLine(sourceExcerpt, src.Start.Line)
			b.WriteString(fmt.Sprintf(" │ %s\n", line))
			b.WriteString(fmt.Sprintf(" │ %s^\n", strings.Repeat(" ", max0(src.Start.Column-1))))
		}
	}
	if desc.Detail != "" {
		b.WriteString(desc.Detail)
		b.WriteString("\n")
	}
	for _, f := range d.Frames() {
		loc := ""
		if f.Subject != nil {
			loc = f.Subject.StartString()
		}
		b.WriteString(fmt.Sprintf(" %s %s\n", loc, f.Name))
	}
	return b.String()
}

func excerptLine(source string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

type simpleDiagnostic struct {
	severity Severity
	kind Kind
	desc Description
	source Source
	frames []Frame
}

func (s simpleDiagnostic) Severity() Severity { return s.severity }
func (s simpleDiagnostic) Description() Description { return s.desc }
func (s simpleDiagnostic) Source() Source { return s.source }
func (s simpleDiagnostic) Kind() Kind { return s.kind }
func (s simpleDiagnostic) Frames() []Frame { return s.frames }

// New builds a Diagnostic of the given kind and severity. subject may be
// nil when no source span is applicable (e.g. a resolver failure before
// any span exists).
func New(severity SeverityLevel, kind Kind, summary, detail string, subject *SourceRange) Diagnostic {
	return simpleDiagnostic{
		severity: NewSeverity(severity),
		kind: kind,
		desc: Description{Summary: summary, Detail: detail},
		source: Source{Subject: subject},
	}
}

// WithFrames returns a copy of d with the given call stack attached,
// innermost frame first.
func WithFrames(d Diagnostic, frames []Frame) Diagnostic {
	sd, ok := d.(simpleDiagnostic)
	if !ok {
		sd = simpleDiagnostic{
			severity: d.Severity(),
			kind: d.Kind(),
			desc: d.Description(),
			source: d.Source(),
		}
	}
	sd.frames = frames
	return sd
}

// Errorf is a convenience constructor for an error diagnostic of the given kind,
// mirroring the ergonomics of fmt.Errorf for the common case of raising
// an assertion failure from the value algebra.
func Errorf(kind Kind, format string, args...any) Diagnostic {
	return New(ErrorLevel, kind, fmt.Sprintf(format, args...), "", nil)
}
