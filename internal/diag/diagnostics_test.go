// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestDiagnosticsAppendAcceptsMixedShapes(t *testing.T) {
	var d Diagnostics
	d = d.Append(nil)
	d = d.Append(New(ErrorLevel, KindRuntime, "a", "", nil))
	d = d.Append(Diagnostics{New(WarningLevel, KindNone, "b", "", nil)})
	d = d.Append(errors.New("c"))

	if len(d) != 3 {
		t.Fatalf("got %d diagnostics, want 3", len(d))
	}
	if d[2].Description().Summary != "c" {
		t.Fatalf("expected the plain error to be wrapped with its message as the summary, got %q", d[2].Description().Summary)
	}
}

func TestDiagnosticsAppendUnsupportedTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for an unsupported Append argument type")
		}
	}()
	var d Diagnostics
	d.Append(42)
}

func TestDiagnosticsHasErrorsIgnoresWarnings(t *testing.T) {
	d := Diagnostics{New(WarningLevel, KindNone, "w", "", nil)}
	if d.HasErrors() {
		t.Fatalf("expected a warning-only set to report HasErrors() == false")
	}
	d = d.Append(New(ErrorLevel, KindRuntime, "e", "", nil))
	if !d.HasErrors() {
		t.Fatalf("expected HasErrors() == true once an error diagnostic is present")
	}
}

func TestDiagnosticsWarningsFiltersToWarningSeverity(t *testing.T) {
	d := Diagnostics{
		New(ErrorLevel, KindRuntime, "e", "", nil),
		New(WarningLevel, KindNone, "w1", "", nil),
		New(WarningLevel, KindNone, "w2", "", nil),
	}
	w := d.Warnings()
	if len(w) != 2 || w[0].Description().Summary != "w1" || w[1].Description().Summary != "w2" {
		t.Fatalf("got %v", w)
	}
}

func TestDiagnosticsErrNilWhenNoErrors(t *testing.T) {
	d := Diagnostics{New(WarningLevel, KindNone, "w", "", nil)}
	if err := d.Err(); err != nil {
		t.Fatalf("expected nil error for a warning-only set, got %v", err)
	}
}

func TestDiagnosticsErrCollapsesMultipleErrors(t *testing.T) {
	d := Diagnostics{
		New(ErrorLevel, KindRuntime, "first", "", nil),
		New(WarningLevel, KindNone, "ignored", "", nil),
		New(ErrorLevel, KindParse, "second", "", nil),
	}
	err := d.Err()
	if err == nil {
		t.Fatalf("expected a non-nil error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "first") || !strings.Contains(msg, "second") {
		t.Fatalf("expected both error summaries in the collapsed message, got %q", msg)
	}
	if strings.Contains(msg, "ignored") {
		t.Fatalf("expected the warning to be excluded from the collapsed message, got %q", msg)
	}
}

func TestSeverityPedanticModeEscalatesWarnings(t *testing.T) {
	PedanticMode = true
	defer func() { PedanticMode = false }()

	s := NewSeverity(WarningLevel)
	if s.SeverityLevel != ErrorLevel {
		t.Fatalf("expected PedanticMode to escalate a warning to an error, got %v", s.SeverityLevel)
	}
}

func TestKindStringNamesEachKind(t *testing.T) {
	cases := map[Kind]string{
		KindParse:    "parse error",
		KindRuntime:  "runtime error",
		KindResolver: "resolver error",
		KindCycle:    "cycle error",
		KindNone:     "error",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestSourceRangeEqualHandlesNils(t *testing.T) {
	a := &SourceRange{Filename: "x.scss", Start: SourcePos{Line: 1, Column: 1}}
	b := &SourceRange{Filename: "x.scss", Start: SourcePos{Line: 1, Column: 1}}
	if !a.Equal(b) {
		t.Fatalf("expected structurally-equal ranges to compare equal")
	}
	var nilRange *SourceRange
	if nilRange.Equal(a) {
		t.Fatalf("expected a nil receiver to be unequal to a non-nil range")
	}
	if !nilRange.Equal(nil) {
		t.Fatalf("expected two nil ranges to compare equal")
	}
}

func TestConsolidateCollapsesRunsPastThreshold(t *testing.T) {
	var d Diagnostics
	subject := &SourceRange{Filename: "x.scss"}
	for i := 0; i < 5; i++ {
		d = append(d, New(WarningLevel, KindNone, "repeated warning", "", subject))
	}

	out := d.Consolidate(3, WarningLevel)
	if len(out) != 3 {
		t.Fatalf("got %d entries, want 2 individual + 1 consolidated group = 3", len(out))
	}
	last := out[len(out)-1]
	if !strings.Contains(last.Description().Detail, "more similar") {
		t.Fatalf("expected the consolidated entry's detail to note the extra occurrences, got %q", last.Description().Detail)
	}
}

func TestConsolidateLeavesDiagnosticsWithoutSubjectAlone(t *testing.T) {
	d := Diagnostics{
		New(WarningLevel, KindNone, "no subject", "", nil),
		New(WarningLevel, KindNone, "no subject", "", nil),
		New(WarningLevel, KindNone, "no subject", "", nil),
	}
	out := d.Consolidate(2, WarningLevel)
	if len(out) != 3 {
		t.Fatalf("expected diagnostics with no Source().Subject to pass through unconsolidated, got %d", len(out))
	}
}

func TestConsolidateIgnoresOtherSeverities(t *testing.T) {
	subject := &SourceRange{Filename: "x.scss"}
	d := Diagnostics{
		New(ErrorLevel, KindRuntime, "same", "", subject),
		New(ErrorLevel, KindRuntime, "same", "", subject),
		New(ErrorLevel, KindRuntime, "same", "", subject),
	}
	out := d.Consolidate(2, WarningLevel)
	if len(out) != 3 {
		t.Fatalf("expected error-severity diagnostics to be untouched by a warning-level consolidate, got %d", len(out))
	}
}
