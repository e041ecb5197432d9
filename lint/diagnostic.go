// Copyright © 2024 The pystyle authors

package lint

import (
	"fmt"
)

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// Code is the code of the check that found this problem.
	Code string `json:"code"`

	// Check is the name of the check that found this problem.
	Check string `json:"check"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`
}

// Position identifies a location in source code.  Col and EndCol are
// 1-based rune columns bounding the offending text and are zero when the
// whole line is at fault.
type Position struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Col    int    `json:"col,omitempty"`
	EndCol int    `json:"end_col,omitempty"`
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in report format:
// <file>: Line <n>: <code> <message>
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: Line %d: %s %s", d.Pos.File, d.Pos.Line, d.Code, d.Message)
}

// key orders and identifies diagnostics within a line.
func (d Diagnostic) key() string {
	return d.Code + " " + d.Message
}
