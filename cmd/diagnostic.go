// Copyright © 2024 The pystyle authors

package cmd

import (
	"io"
	"os"

	"github.com/luthersystems/pystyle/diagnostic"
	"github.com/luthersystems/pystyle/lint"
)

// stdinName identifies source read from standard input in reports.
const stdinName = "<stdin>"

func newRenderer(mode diagnostic.ColorMode, stdin []byte) *diagnostic.Renderer {
	return &diagnostic.Renderer{
		Color: mode,
		SourceReader: func(file string) ([]byte, error) {
			if file == stdinName && stdin != nil {
				return stdin, nil
			}
			return os.ReadFile(file) //nolint:gosec // renders files the user asked to check
		},
	}
}

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
func lintDiagToDiagnostic(ld lint.Diagnostic, noqa bool) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: severity(ld.Severity),
		Code:     ld.Code,
		Message:  ld.Message,
	}
	if ld.Pos.Line > 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File:   ld.Pos.File,
			Line:   ld.Pos.Line,
			Col:    ld.Pos.Col,
			EndCol: ld.Pos.EndCol,
		})
	}
	if ld.Check != "" {
		d.Notes = append(d.Notes, "see: pystyle doc "+ld.Check)
	}
	if noqa {
		d.Notes = append(d.Notes, "to suppress: add \"# noqa: "+ld.Code+"\" as a comment on this line")
	}
	return d
}

func severity(s lint.Severity) diagnostic.Severity {
	switch s {
	case lint.SeverityError:
		return diagnostic.SeverityError
	case lint.SeverityInfo:
		return diagnostic.SeverityInfo
	default:
		return diagnostic.SeverityWarning
	}
}

// renderPretty renders every diagnostic in results as an annotated snippet.
func renderPretty(w io.Writer, r *diagnostic.Renderer, results []*lint.Result, noqa bool) error {
	var ds []diagnostic.Diagnostic
	for _, res := range results {
		for _, ld := range res.Diagnostics() {
			ds = append(ds, lintDiagToDiagnostic(ld, noqa))
		}
	}
	return r.RenderAll(w, ds)
}
