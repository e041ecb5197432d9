// Copyright © 2024 The pystyle authors

package repl

import (
	"context"
	"strings"

	"github.com/luthersystems/pystyle/lint"
	"github.com/luthersystems/pystyle/parser/rdparser"
)

// SourceName identifies the session buffer in reports.
const SourceName = "<stdin>"

// Session accumulates the source typed at the prompt.  Lines are held back
// until they form a complete entry, so a block is never checked half typed.
type Session struct {
	linter  *lint.Linter
	lines   []string
	pending []string
}

// NewSession returns an empty session checked with l.  A nil l runs every
// check.
func NewSession(l *lint.Linter) *Session {
	if l == nil {
		l = &lint.Linter{}
	}
	return &Session{linter: l}
}

// Add appends a line to the entry being typed and reports whether the entry
// is now complete and part of the buffer.
func (s *Session) Add(line string) bool {
	s.pending = append(s.pending, strings.TrimSuffix(line, "\n"))
	if rdparser.Incomplete(joinLines(s.pending)) {
		return false
	}
	s.lines = append(s.lines, s.pending...)
	s.pending = nil
	return true
}

// Pending reports whether an entry is partially typed.
func (s *Session) Pending() bool {
	return len(s.pending) > 0
}

// Discard drops the partially typed entry.
func (s *Session) Discard() {
	s.pending = nil
}

// Reset empties the buffer.
func (s *Session) Reset() {
	s.lines = nil
	s.pending = nil
}

// Lines returns the lines of the complete entries.
func (s *Session) Lines() []string {
	return s.lines
}

// Source returns the buffer as a source file.
func (s *Session) Source() []byte {
	return joinLines(s.lines)
}

// Check lints the buffer.
func (s *Session) Check(ctx context.Context) (*lint.Result, error) {
	return s.linter.LintFile(ctx, SourceName, s.Source())
}

func joinLines(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}
