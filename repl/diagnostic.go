// Copyright © 2024 The pystyle authors

package repl

import (
	"fmt"
	"io"

	"github.com/luthersystems/pystyle/diagnostic"
	"github.com/luthersystems/pystyle/lint"
)

// renderResult writes the diagnostics of res as annotated snippets of src,
// followed by a count.
func renderResult(w io.Writer, color diagnostic.ColorMode, res *lint.Result, src []byte) error {
	r := &diagnostic.Renderer{
		Color: color,
		SourceReader: func(string) ([]byte, error) {
			return src, nil
		},
	}
	diags := res.Diagnostics()
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, d := range diags {
		ds = append(ds, lintDiagToDiag(d))
	}
	if err := r.RenderAll(w, ds); err != nil {
		return err
	}
	if res.Skip != nil {
		if _, err := fmt.Fprintf(w, "note: syntactic checks skipped: %v\n", res.Skip); err != nil {
			return err
		}
	}
	switch len(diags) {
	case 0:
		_, err := fmt.Fprintln(w, "no problems found")
		return err
	case 1:
		_, err := fmt.Fprintln(w, "1 problem")
		return err
	default:
		_, err := fmt.Fprintf(w, "%d problems\n", len(diags))
		return err
	}
}

// lintDiagToDiag converts a lint diagnostic for display.  Source lines come
// from the session buffer.
func lintDiagToDiag(ld lint.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Code:     ld.Code,
		Message:  ld.Message,
	}
	switch ld.Severity {
	case lint.SeverityError:
		d.Severity = diagnostic.SeverityError
	case lint.SeverityInfo:
		d.Severity = diagnostic.SeverityInfo
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
	return d
}
