// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package diag

import "fmt"

// SourceRange identifies a span of a stylesheet source, used to caret-
// highlight the excerpt in user-visible error output.
type SourceRange struct {
	Filename string
	Start, End SourcePos
}

func (r *SourceRange) Equal(other *SourceRange) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Filename == other.Filename && r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

type SourcePos struct {
	Line, Column, Byte int
}

func (p SourcePos) Equal(other SourcePos) bool {
	return p.Line == other.Line && p.Column == other.Column && p.Byte == other.Byte
}

// StartString returns "filename:line,column", used in the caret-highlighted
// excerpt that the Public Compilation Surface attaches to a failed
// compilation.
func (r SourceRange) StartString() string {
	return fmt.Sprintf("%s:%d,%d", r.Filename, r.Start.Line, r.Start.Column)
}
