// Copyright © 2024 The pystyle authors

package repl

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/pystyle/diagnostic"
	"github.com/luthersystems/pystyle/lint"
)

func runReplWithString(t *testing.T, input string, opts ...Option) (string, error) {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	errc := make(chan error, 1)
	go func() {
		opts = append([]Option{
			WithStdin(inR),
			WithStderr(outW),
			WithHistoryFile(""),
			WithColor(diagnostic.ColorNever),
		}, opts...)
		errc <- Run(context.Background(), opts...)
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String(), <-errc
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".pystyle_history")

	// File does not exist yet.
	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".pystyle_history")

	// Create the file with overly permissive mode.
	err := os.WriteFile(histFile, []byte("x = 1"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	// Verify contents are preserved.
	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "x = 1", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	// Should not panic or error with empty path.
	ensureHistoryFilePermissions("")
}

func TestRun(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "final check on EOF",
			input:    "x = 1;\n",
			expected: []string{"warning[S003]: Unnecessary semicolon", "<stdin>:1:6", "1 problem"},
		},
		{
			name:     "clean buffer",
			input:    "x = 1\n:check\n",
			expected: []string{"no problems found"},
		},
		{
			name:     "block entry",
			input:    "def Bad():\n    pass\n\n",
			expected: []string{"warning[S009]: Function name 'Bad' should use snake_case"},
		},
		{
			name:     "list",
			input:    "x = 1\ny = 2\n:list\n",
			expected: []string{"   1  x = 1\n", "   2  y = 2\n"},
		},
		{
			name:     "reset",
			input:    "x = 1;\n:reset\n",
			expected: []string{"buffer cleared", "no problems found"},
		},
		{
			name:     "help",
			input:    ":help\n",
			expected: []string{":check", ":reset", ":list", ":quit"},
		},
		{
			name:     "unknown command",
			input:    ":bogus\n",
			expected: []string{"unknown command :bogus (try :help)"},
		},
		{
			name:     "syntax error",
			input:    "x = (1,\n]\n",
			expected: []string{"note: syntactic checks skipped"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runReplWithString(t, tc.input)
			require.NoError(t, err)
			for _, want := range tc.expected {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestRunQuit(t *testing.T) {
	got, err := runReplWithString(t, "x = 1;\n:quit\ny = 2;\n")
	require.NoError(t, err)
	assert.Contains(t, got, "1 problem")
	assert.NotContains(t, got, "2 problems")
}

func TestRunLinter(t *testing.T) {
	l := &lint.Linter{Checks: []*lint.Check{lint.CheckTodo}}
	got, err := runReplWithString(t, "x = 1;  # todo\n", WithLinter(l))
	require.NoError(t, err)
	assert.Contains(t, got, "S005")
	assert.NotContains(t, got, "S003")
}
