// Copyright © 2024 The pystyle authors

// Package pystyletest provides helpers for testing pystyle and the tools
// built on it.
package pystyletest

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/pystyle/lint"
)

var update = flag.Bool("update", false, "rewrite golden files with the current output")

// Runner lints source files and compares the text report against golden
// files.
type Runner struct {
	// Linter is used to lint each file.  When Linter is nil a default
	// lint.Linter is used.
	Linter *lint.Linter
}

func (r *Runner) linter() *lint.Linter {
	if r.Linter != nil {
		return r.Linter
	}
	return &lint.Linter{}
}

// RunGolden runs a subtest for every .py file in dir.  The report for
// dir/name.py must equal the contents of dir/name.golden.  Diagnostics are
// reported under the file's base name.  With -update the golden files are
// rewritten instead.
func (r *Runner) RunGolden(t *testing.T, dir string) {
	files, err := filepath.Glob(filepath.Join(dir, "*.py"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no source files in %s", dir)
	sort.Strings(files)
	for _, path := range files {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			r.runFile(t, path)
		})
	}
}

func (r *Runner) runFile(t *testing.T, path string) {
	src, err := os.ReadFile(path) //#nosec G304
	require.NoError(t, err)
	res, err := r.linter().LintFile(context.Background(), filepath.Base(path), src)
	require.NoError(t, err)
	AssertFinalized(t, res.Lines)

	var buf bytes.Buffer
	require.NoError(t, lint.FormatText(&buf, []*lint.Result{res}))

	golden := strings.TrimSuffix(path, ".py") + ".golden"
	if *update {
		require.NoError(t, os.WriteFile(golden, buf.Bytes(), 0o600))
		return
	}
	want, err := os.ReadFile(golden) //#nosec G304
	require.NoError(t, err)
	assert.Equal(t, string(want), buf.String())
}

// AssertFinalized checks the ordering properties of a finalized report:
//
//	Lines are strictly ascending and each holds at least one diagnostic.
//
//	Each diagnostic is attached to the line that holds it.
//
//	Within a line, diagnostics are sorted by code and message and no two
//	are equal.
func AssertFinalized(t testing.TB, lines []lint.LineDiagnostics) bool {
	t.Helper()
	ok := true
	for i, line := range lines {
		if i > 0 && line.Line <= lines[i-1].Line {
			ok = assert.Fail(t, "lines out of order", "line %d follows line %d", line.Line, lines[i-1].Line)
		}
		if len(line.Diagnostics) == 0 {
			ok = assert.Fail(t, "empty line entry", "line %d has no diagnostics", line.Line)
		}
		for j, d := range line.Diagnostics {
			if d.Pos.Line != line.Line {
				ok = assert.Fail(t, "misattached diagnostic", "%v held by line %d", d, line.Line)
			}
			if j == 0 {
				continue
			}
			prev := line.Diagnostics[j-1]
			if prev.Code+" "+prev.Message >= d.Code+" "+d.Message {
				ok = assert.Fail(t, "diagnostics out of order", "%q before %q on line %d", prev.Message, d.Message, line.Line)
			}
		}
	}
	return ok
}
