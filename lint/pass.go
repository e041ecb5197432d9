// Copyright © 2024 The pystyle authors

package lint

// Pass provides context to the rules run over one file.
type Pass struct {
	// File is the identifier diagnostics are reported under.
	File string

	// Lines are the physical lines of the file.
	Lines []SourceLine

	enabled   map[string]bool // nil enables every check
	collector *Collector
}

func newPass(file string, lines []SourceLine, enabled map[string]bool) *Pass {
	return &Pass{
		File:      file,
		Lines:     lines,
		enabled:   enabled,
		collector: NewCollector(),
	}
}

// Report records a diagnostic for check c on line.  col and endCol bound the
// offending text and may be zero.  args fill the check's message template.
func (p *Pass) Report(c *Check, line, col, endCol int, args ...any) {
	if p.enabled != nil && !p.enabled[c.Code] {
		return
	}
	p.collector.Record(line, Diagnostic{
		Pos:      Position{File: p.File, Col: col, EndCol: endCol},
		Code:     c.Code,
		Check:    c.Name,
		Message:  c.Message(args...),
		Severity: c.Severity,
	})
}
