// Copyright © 2024 The pystyle authors

package lsp

import (
	"strings"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/pystyle/astutil"
	"github.com/luthersystems/pystyle/parser/ast"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol
// request.  Classes and functions are returned as a tree following their
// nesting.  A document that does not parse has no symbols.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	if doc.module == nil {
		return nil, nil
	}
	return documentSymbols(doc, astutil.Definitions(doc.module)), nil
}

// documentSymbols nests defs, which are in source order, by depth.
func documentSymbols(doc *Document, defs []astutil.Definition) []protocol.DocumentSymbol {
	type frame struct {
		sym   protocol.DocumentSymbol
		class bool
		depth int
	}
	var (
		roots []protocol.DocumentSymbol
		stack []*frame
	)
	pop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			roots = append(roots, top.sym)
			return
		}
		parent := stack[len(stack)-1]
		parent.sym.Children = append(parent.sym.Children, top.sym)
	}
	for _, def := range defs {
		for len(stack) > 0 && stack[len(stack)-1].depth >= def.Depth {
			pop()
		}
		inClass := len(stack) > 0 && stack[len(stack)-1].class
		stack = append(stack, &frame{
			sym:   definitionSymbol(doc, def, inClass),
			class: def.Class,
			depth: def.Depth,
		})
	}
	for len(stack) > 0 {
		pop()
	}
	return roots
}

func definitionSymbol(doc *Document, def astutil.Definition, inClass bool) protocol.DocumentSymbol {
	kind := protocol.SymbolKindFunction
	switch {
	case def.Class:
		kind = protocol.SymbolKindClass
	case inClass:
		kind = protocol.SymbolKindMethod
	}
	startLine := def.Line - 1
	endLine := max(def.EndLine, def.Line) - 1
	r := protocol.Range{
		Start: protocol.Position{Line: safeUint(startLine)},
		End:   lineEnd(endLine, doc.line(endLine)),
	}
	return protocol.DocumentSymbol{
		Name:           def.Name,
		Detail:         definitionDetail(def),
		Kind:           kind,
		Range:          r,
		SelectionRange: nameRange(startLine, doc.line(startLine), def.Name),
	}
}

// nameRange locates name after the def or class keyword on a 0-based line.
// The whole line is returned when it cannot be found.
func nameRange(line int, text, name string) protocol.Range {
	off := -1
	for _, kw := range []string{"def", "class"} {
		if i := strings.Index(text, kw); i >= 0 {
			if j := strings.Index(text[i+len(kw):], name); j >= 0 {
				off = i + len(kw) + j
				break
			}
		}
	}
	if off < 0 {
		return columnRange(line+1, text, 0, 0)
	}
	col := utf8.RuneCountInString(text[:off]) + 1
	return columnRange(line+1, text, col, col+utf8.RuneCountInString(name)-1)
}

// definitionDetail renders the positional parameters of a function.
func definitionDetail(def astutil.Definition) *string {
	fn, ok := def.Node.(*ast.FunctionDef)
	if !ok {
		return nil
	}
	var names []string
	for _, a := range astutil.PositionalParams(fn) {
		names = append(names, a.Name)
	}
	detail := "(" + strings.Join(names, ", ") + ")"
	if fn.Async {
		detail = "async " + detail
	}
	return &detail
}
