// Copyright © 2024 The pystyle authors

// Package astutil provides shared syntax tree walking utilities.
//
// These helpers are used by both the lint and lsp packages for traversing
// parsed python modules.
package astutil

import "github.com/luthersystems/pystyle/parser/ast"

// Walk calls fn for every node in the tree, depth-first.
// parent is nil for the module itself.
func Walk(mod *ast.Module, fn func(node ast.Node, parent ast.Node, depth int)) {
	if mod == nil {
		return
	}
	var stack []ast.Node
	ast.Inspect(mod, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return false
		}
		var parent ast.Node
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}
		fn(n, parent, len(stack))
		stack = append(stack, n)
		return true
	})
}

// FunctionDefs returns every function definition in the module, including
// methods, nested functions and async definitions, in source order.
func FunctionDefs(mod *ast.Module) []*ast.FunctionDef {
	var defs []*ast.FunctionDef
	Walk(mod, func(node ast.Node, _ ast.Node, _ int) {
		if fn, ok := node.(*ast.FunctionDef); ok {
			defs = append(defs, fn)
		}
	})
	return defs
}

// AssignedNames returns every name node bound in a store context.  This
// covers the targets of all assignment forms, loop and comprehension
// variables, with-statement targets, walrus targets and type aliases.  Names
// bound by imports, function and class definitions, exception handlers and
// match patterns are not name nodes and are not returned.
func AssignedNames(mod *ast.Module) []*ast.Name {
	var names []*ast.Name
	Walk(mod, func(node ast.Node, _ ast.Node, _ int) {
		if name, ok := node.(*ast.Name); ok && name.Ctx == ast.Store {
			names = append(names, name)
		}
	})
	return names
}

// PositionalParams returns the ordinary positional parameters of fn.
// Positional-only, variadic and keyword-only parameters are excluded.
func PositionalParams(fn *ast.FunctionDef) []*ast.Arg {
	if fn.Args == nil {
		return nil
	}
	return fn.Args.Args
}

// MutableDefaults returns the default values of fn's positional parameters
// that are list, dict or set displays.  Comprehensions and calls such as
// list() are not included.
func MutableDefaults(fn *ast.FunctionDef) []ast.Expr {
	if fn.Args == nil {
		return nil
	}
	var defaults []ast.Expr
	for _, d := range fn.Args.Defaults {
		switch d.(type) {
		case *ast.List, *ast.Dict, *ast.Set:
			defaults = append(defaults, d)
		}
	}
	return defaults
}

// Definition is a function or class definition along with the extent of its
// body.
type Definition struct {
	Node    ast.Stmt
	Name    string
	Class   bool
	Depth   int // nesting among definitions, zero at module level
	Line    int
	EndLine int
}

// Definitions returns the function and class definitions of mod in source
// order.
func Definitions(mod *ast.Module) []Definition {
	var defs []Definition
	var visit func(body []ast.Stmt, depth int)
	visit = func(body []ast.Stmt, depth int) {
		for _, stmt := range body {
			ast.Inspect(stmt, func(n ast.Node) bool {
				switch n := n.(type) {
				case *ast.FunctionDef:
					defs = append(defs, Definition{
						Node:    n,
						Name:    n.Name,
						Depth:   depth,
						Line:    ast.Line(n),
						EndLine: EndLine(n),
					})
					visit(n.Body, depth+1)
					return false
				case *ast.ClassDef:
					defs = append(defs, Definition{
						Node:    n,
						Name:    n.Name,
						Class:   true,
						Depth:   depth,
						Line:    ast.Line(n),
						EndLine: EndLine(n),
					})
					visit(n.Body, depth+1)
					return false
				}
				return true
			})
		}
	}
	if mod != nil {
		visit(mod.Body, 0)
	}
	return defs
}

// EndLine returns the last line on which any node beneath n begins.
func EndLine(n ast.Node) int {
	end := 0
	ast.Inspect(n, func(n ast.Node) bool {
		if line := ast.Line(n); line > end {
			end = line
		}
		return true
	})
	return end
}
