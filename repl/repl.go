// Copyright © 2024 The pystyle authors

// Package repl implements an interactive style checker.  Source typed at
// the prompt is collected in a buffer that can be checked at any time.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"

	"github.com/luthersystems/pystyle/diagnostic"
	"github.com/luthersystems/pystyle/lint"
)

const (
	// Prompt is shown when a new entry may begin.
	Prompt = "pystyle> "
	// ContinuePrompt is shown while an entry is incomplete.
	ContinuePrompt = "... "
)

type config struct {
	stdin   io.ReadCloser
	stderr  io.Writer
	linter  *lint.Linter
	history string
	color   diagnostic.ColorMode
}

func newConfig(opts ...Option) *config {
	c := &config{
		stderr:  os.Stderr,
		history: historyPath(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the REPL.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output of the REPL.  Prompts and
// diagnostics are both written to it.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithLinter sets the linter used to check the buffer.
func WithLinter(l *lint.Linter) Option {
	return func(c *config) {
		c.linter = l
	}
}

// WithHistoryFile sets the file command history is kept in.  An empty path
// disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// WithColor sets the color mode of rendered diagnostics.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// Run reads source lines until EOF or :quit and then checks the buffer a
// final time.
func Run(ctx context.Context, opts ...Option) error {
	cfg := newConfig(opts...)
	ensureHistoryFilePermissions(cfg.history)

	rlCfg := &readline.Config{
		Stdout:            cfg.stderr,
		Stderr:            cfg.stderr,
		Prompt:            Prompt,
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      commandCompleter{},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	r := &runner{
		session: NewSession(cfg.linter),
		out:     cfg.stderr,
		color:   cfg.color,
	}
	for {
		prompt := Prompt
		if r.session.Pending() {
			prompt = ContinuePrompt
		}
		rl.SetPrompt(prompt)
		line, err := rl.ReadSlice()
		if errors.Is(err, readline.ErrInterrupt) {
			r.session.Discard()
			continue
		}
		if err != nil {
			break
		}
		if r.handle(ctx, string(line)) {
			return nil
		}
	}
	return r.check(ctx)
}

type runner struct {
	session *Session
	out     io.Writer
	color   diagnostic.ColorMode
}

// handle processes one input line and reports whether the session is over.
func (r *runner) handle(ctx context.Context, line string) bool {
	if !r.session.Pending() {
		if cmd := strings.TrimSpace(line); strings.HasPrefix(cmd, ":") {
			return r.command(ctx, cmd)
		}
	}
	r.session.Add(line)
	return false
}

func (r *runner) command(ctx context.Context, cmd string) bool {
	switch cmd {
	case ":check":
		r.report(r.check(ctx))
	case ":reset":
		r.session.Reset()
		r.printf("buffer cleared\n")
	case ":list":
		for i, line := range r.session.Lines() {
			r.printf("%4d  %s\n", i+1, line)
		}
	case ":help":
		for _, name := range commandNames() {
			r.printf("  %-8s %s\n", name, commands[name])
		}
	case ":quit":
		r.report(r.check(ctx))
		return true
	default:
		r.printf("unknown command %s (try :help)\n", cmd)
	}
	return false
}

// check lints the buffer and renders the result.
func (r *runner) check(ctx context.Context) error {
	res, err := r.session.Check(ctx)
	if err != nil {
		return err
	}
	return renderResult(r.out, r.color, res, r.session.Source())
}

func (r *runner) report(err error) {
	if err != nil {
		r.printf("error: %v\n", err)
	}
}

func (r *runner) printf(format string, v ...any) {
	fmt.Fprintf(r.out, format, v...) //nolint:errcheck // best-effort REPL output
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pystyle_history")
}

// ensureHistoryFilePermissions creates the history file readable only by
// its owner, or restricts an existing one.  Failures leave history to
// readline.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600) //nolint:gosec // path is the user's history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0o600)
}
