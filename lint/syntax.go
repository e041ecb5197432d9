// Copyright © 2024 The pystyle authors

package lint

import (
	"github.com/luthersystems/pystyle/astutil"
	"github.com/luthersystems/pystyle/parser/ast"
)

// checkSyntax runs the rules that need a syntax tree.
func checkSyntax(mod *ast.Module, p *Pass) {
	for _, fn := range astutil.FunctionDefs(mod) {
		if fn.Async {
			continue
		}
		for _, arg := range astutil.PositionalParams(fn) {
			p.visitSyntax(arg, fn)
		}
		for _, d := range astutil.MutableDefaults(fn) {
			p.visitSyntax(d, fn)
		}
	}
	for _, name := range astutil.AssignedNames(mod) {
		p.visitSyntax(name, nil)
	}
}

// visitSyntax checks a parameter, an assigned name or a mutable default.
// Parameter and default findings are attached to the line of def, the
// definition they belong to.
func (p *Pass) visitSyntax(node ast.Node, def *ast.FunctionDef) {
	switch n := node.(type) {
	case *ast.Arg:
		if !IsSnakeCase(n.Name) {
			col, end := span(n, n.Name)
			if ast.Line(n) != ast.Line(def) {
				col, end = 0, 0
			}
			p.Report(CheckArgumentName, ast.Line(def), col, end, n.Name)
		}
	case *ast.Name:
		if !IsSnakeCase(n.ID) {
			col, end := span(n, n.ID)
			p.Report(CheckVariableName, ast.Line(n), col, end, n.ID)
		}
	case *ast.List, *ast.Dict, *ast.Set:
		col := 0
		if ast.Line(n) == ast.Line(def) {
			col = n.Pos().Col
		}
		p.Report(CheckMutableDefault, ast.Line(def), col, col)
	}
}

// span returns the columns covered by text starting at n.
func span(n ast.Node, text string) (int, int) {
	if n.Pos() == nil {
		return 0, 0
	}
	col := n.Pos().Col
	return col, col + len([]rune(text)) - 1
}
