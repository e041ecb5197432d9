// Copyright © 2024 The pystyle authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/pystyle/lint"
)

// textDocumentHover handles the textDocument/hover request.  Hovering over
// the text a diagnostic points at shows the documentation of its check.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	l := s.currentLinter()

	doc.mu.Lock()
	res, err := doc.lint(l)
	line := int(params.Position.Line)
	text := doc.line(line)
	doc.mu.Unlock()
	if err != nil {
		return nil, nil
	}

	col := runeColumn(text, params.Position.Character) + 1
	diags := diagnosticsAt(res, line+1, col)
	if len(diags) == 0 {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: buildHoverContent(diags),
		},
	}, nil
}

// diagnosticsAt returns the diagnostics of res on a 1-based line whose
// columns include col.  Diagnostics without columns cover the whole line.
func diagnosticsAt(res *lint.Result, line, col int) []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, ld := range res.Lines {
		if ld.Line != line {
			continue
		}
		for _, d := range ld.Diagnostics {
			if d.Pos.Col == 0 || (col >= d.Pos.Col && col <= max(d.Pos.EndCol, d.Pos.Col)) {
				out = append(out, d)
			}
		}
	}
	return out
}

// buildHoverContent builds Markdown hover text for diagnostics.
func buildHoverContent(diags []lint.Diagnostic) string {
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&sb, "**%s** `%s`: %s", d.Code, d.Check, d.Message)
		if c, ok := lint.LookupCheck(d.Code); ok && c.Doc != "" {
			fmt.Fprintf(&sb, "\n\n%s", c.Doc)
		}
	}
	return sb.String()
}
