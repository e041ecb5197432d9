// Copyright © 2024 The pystyle authors

// Package parser is the entry point for turning python source into a syntax
// tree.  Callers that only need to know whether a tree is available, and why
// not when it is missing, should use Parse rather than the rdparser package.
package parser

import (
	"bytes"

	"github.com/luthersystems/pystyle/parser/ast"
	"github.com/luthersystems/pystyle/parser/rdparser"
	"github.com/luthersystems/pystyle/parser/token"
)

var bom = []byte("\ufeff")

// Result holds either a parsed module or the reason no module is available.
type Result struct {
	Module *ast.Module
	// Skip describes why the source could not be parsed.  It is a
	// *token.LocationError for syntax errors.
	Skip error
}

// Parsed reports whether r holds a module.
func (r Result) Parsed() bool {
	return r.Module != nil
}

// Parse parses python source.  Carriage return line endings are accepted and a
// leading byte order mark is ignored.
func Parse(filename string, src []byte) Result {
	src = Normalize(src)
	p := rdparser.New(token.NewScanner(filename, src))
	mod, err := p.ParseModule()
	if err != nil {
		return Result{Skip: err}
	}
	return Result{Module: mod}
}

// Normalize strips a leading byte order mark and converts \r\n and \r line
// endings to \n.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bom)
	if bytes.IndexByte(src, '\r') < 0 {
		return src
	}
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(src, []byte("\r"), []byte("\n"))
}
