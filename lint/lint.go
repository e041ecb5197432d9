// Copyright © 2024 The pystyle authors

// Package lint checks python source files against a fixed set of style
// rules.
//
// Every file is scanned twice.  The lexical pass runs a list of line rules
// over each physical line and then counts runs of blank lines across the
// file.  The syntactic pass parses the file and inspects function
// definitions and assignment targets.  Both passes report into one
// Collector, which orders and de-duplicates the findings per line.  A file
// that does not parse still gets the lexical pass.
package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/luthersystems/pystyle/parser"
)

// TracerName names the tracer Linter uses when none is configured.
const TracerName = "github.com/luthersystems/pystyle/lint"

// ErrInvalidUTF8 is returned for source that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in source")

// Result holds the findings for one file.
type Result struct {
	// File is the identifier the file was reported under.
	File string

	// Lines are the lines with diagnostics, in ascending order.
	Lines []LineDiagnostics

	// Skip is set when the file could not be parsed and the syntactic
	// rules did not run.
	Skip error
}

// Diagnostics returns every diagnostic in report order.
func (r *Result) Diagnostics() []Diagnostic {
	var diags []Diagnostic
	for _, line := range r.Lines {
		diags = append(diags, line.Diagnostics...)
	}
	return diags
}

// Empty reports whether the file has no diagnostics.
func (r *Result) Empty() bool {
	return len(r.Lines) == 0
}

// Linter runs the built-in checks over source files.
type Linter struct {
	// Checks limits the reported diagnostics to these checks.  All checks
	// are reported when Checks is nil.
	Checks []*Check

	// Noqa enables suppression through "# noqa" comments.
	Noqa bool

	// Tracer records spans for each file.  The global provider is used
	// when Tracer is nil.
	Tracer trace.Tracer
}

func (l *Linter) tracer() trace.Tracer {
	if l.Tracer != nil {
		return l.Tracer
	}
	return otel.GetTracerProvider().Tracer(TracerName)
}

func (l *Linter) enabled() map[string]bool {
	if l.Checks == nil {
		return nil
	}
	enabled := make(map[string]bool, len(l.Checks))
	for _, c := range l.Checks {
		enabled[c.Code] = true
	}
	return enabled
}

// AnalyzeFile reads the file at path and lints it.  Read errors are returned
// unwrapped; they already name the path.
func (l *Linter) AnalyzeFile(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path) //nolint:gosec // reads user-specified source files
	if err != nil {
		return nil, err
	}
	res, err := l.LintFile(ctx, path, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// LintFile lints src, reporting diagnostics under filename.  The only error
// is ErrInvalidUTF8; source that fails to parse is not an error.
func (l *Linter) LintFile(ctx context.Context, filename string, src []byte) (*Result, error) {
	if !utf8.Valid(src) {
		return nil, ErrInvalidUTF8
	}
	tracer := l.tracer()
	ctx, span := tracer.Start(ctx, "pystyle.lint", trace.WithAttributes(semconv.CodeFilepath(filename)))
	defer span.End()

	lines := SplitLines(src)
	pass := newPass(filename, lines, l.enabled())

	_, lexical := tracer.Start(ctx, "lexical")
	for _, line := range lines {
		for _, rule := range lexicalRules {
			rule(line, lines, pass)
		}
	}
	lexical.End()

	_, blank := tracer.Start(ctx, "blank-run")
	checkBlankLines(lines, pass)
	blank.End()

	_, syntactic := tracer.Start(ctx, "syntactic")
	parsed := parser.Parse(filename, src)
	if parsed.Parsed() {
		checkSyntax(parsed.Module, pass)
	} else {
		syntactic.SetAttributes(attribute.String("pystyle.skip", parsed.Skip.Error()))
	}
	syntactic.End()

	if l.Noqa {
		applyNoqa(pass.collector, lines)
	}
	res := &Result{
		File:  filename,
		Lines: pass.collector.Finalize(),
		Skip:  parsed.Skip,
	}
	span.SetAttributes(
		attribute.Int("pystyle.lines", len(lines)),
		attribute.Int("pystyle.diagnostics", len(res.Diagnostics())),
		attribute.Bool("pystyle.skipped", !parsed.Parsed()),
	)
	return res, nil
}
