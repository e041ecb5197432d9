// Copyright © 2024 The pystyle authors

package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// FormatText writes one line per diagnostic:
//
//	<file>: Line <n>: <code> <message>
//
// Files without diagnostics produce no output.
func FormatText(w io.Writer, results []*Result) error {
	for _, res := range results {
		for _, d := range res.Diagnostics() {
			if _, err := fmt.Fprintln(w, d.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatJSON writes all diagnostics as a JSON array.
func FormatJSON(w io.Writer, results []*Result) error {
	diags := []Diagnostic{}
	for _, res := range results {
		diags = append(diags, res.Diagnostics()...)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// FormatSummary writes the number of diagnostics per check followed by a
// total.
func FormatSummary(w io.Writer, results []*Result) error {
	counts := make(map[string]int)
	total, files := 0, 0
	for _, res := range results {
		if !res.Empty() {
			files++
		}
		for _, d := range res.Diagnostics() {
			counts[d.Code]++
			total++
		}
	}
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		name := code
		if c, ok := LookupCheck(code); ok {
			name = c.Name
		}
		if _, err := fmt.Fprintf(w, "%5d  %s %s\n", counts[code], code, name); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d %s in %d of %d %s\n",
		total, plural(total, "diagnostic"), files, len(results), plural(len(results), "file"))
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
