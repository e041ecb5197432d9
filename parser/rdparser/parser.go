// Copyright © 2024 The pystyle authors

// Package rdparser implements a recursive-descent parser for python source.
//
// Parse errors abort the parse immediately.  Only the first error is reported,
// which is all a style checker needs to know in order to skip its syntactic
// checks.
package rdparser

import (
	"github.com/luthersystems/pystyle/parser/ast"
	"github.com/luthersystems/pystyle/parser/token"
)

var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true, "elif": true,
	"else": true, "except": true, "finally": true, "for": true, "from": true,
	"global": true, "if": true, "import": true, "in": true, "is": true,
	"lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true, "with": true,
	"yield": true,
}

// IsKeyword reports whether name is a reserved word that cannot be used as an
// identifier.  Soft keywords (match, case, type, _) are not reserved.
func IsKeyword(name string) bool {
	return keywords[name]
}

// bailout is the panic value used to unwind the parser on the first error.
type bailout struct{}

// Parser is a python parser.
type Parser struct {
	src *TokenSource
	err *token.LocationError
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// ParseModule parses an entire source file.  The returned error, if any, is a
// *token.LocationError describing the first syntax error in the file.
func (p *Parser) ParseModule() (mod *ast.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			mod, err = nil, p.err
		}
	}()
	mod = &ast.Module{Loc: ast.Loc{Source: p.src.Peek().Source}}
	for p.peek().Type != token.EOF {
		mod.Body = append(mod.Body, p.parseStatement()...)
	}
	return mod, nil
}

// try runs fn and reports whether it completed without a syntax error.  On
// failure the token stream is rewound to where it was before fn ran.
func (p *Parser) try(fn func()) (ok bool) {
	mark := p.src.Mark()
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.src.Reset(mark)
			p.err = nil
			ok = false
		}
	}()
	fn()
	return true
}

func (p *Parser) peek() *token.Token {
	tok := p.src.Peek()
	if tok.Type == token.ERROR {
		p.errorAt(tok.Source, "%s", tok.Text)
	}
	return tok
}

func (p *Parser) peekN(n int) *token.Token {
	return p.src.PeekN(n)
}

func (p *Parser) next() *token.Token {
	p.peek()
	p.src.Scan()
	return p.src.Token
}

// peekIs reports whether the next token is the operator or name text.
func (p *Parser) peekIs(text string) bool {
	return p.peek().Is(text)
}

func (p *Parser) peekType(typ token.Type) bool {
	return p.peek().Type == typ
}

func (p *Parser) accept(text string) bool {
	if p.peekIs(text) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(text string) *token.Token {
	if !p.peekIs(text) {
		p.unexpected("expected '%s'", text)
	}
	return p.next()
}

func (p *Parser) expectType(typ token.Type) *token.Token {
	if !p.peekType(typ) {
		switch typ {
		case token.INDENT:
			p.unexpected("expected an indented block")
		case token.NEWLINE:
			p.unexpected("invalid syntax")
		}
		p.unexpected("expected %v", typ)
	}
	return p.next()
}

// expectName scans an identifier.  Reserved words are rejected.
func (p *Parser) expectName() *token.Token {
	tok := p.peek()
	if tok.Type != token.NAME || keywords[tok.Text] {
		p.unexpected("invalid syntax")
	}
	return p.next()
}

// atStatementEnd reports whether the next token ends a simple statement.
func (p *Parser) atStatementEnd() bool {
	return p.peekType(token.NEWLINE) || p.peekIs(";")
}

// startsExpression reports whether the next token can begin an expression.
func (p *Parser) startsExpression() bool {
	tok := p.peek()
	switch tok.Type {
	case token.NUMBER, token.STRING:
		return true
	case token.NAME:
		switch tok.Text {
		case "not", "lambda", "await", "None", "True", "False":
			return true
		}
		return !keywords[tok.Text]
	case token.OP:
		switch tok.Text {
		case "(", "[", "{", "-", "+", "~", "*", "...":
			return true
		}
	}
	return false
}

// unexpected reports a syntax error at the next token.
func (p *Parser) unexpected(format string, v ...interface{}) {
	tok := p.src.Peek()
	switch tok.Type {
	case token.ERROR:
		p.errorAt(tok.Source, "%s", tok.Text)
	case token.EOF:
		p.errorAt(tok.Source, "unexpected EOF while parsing")
	case token.INDENT:
		p.errorAt(tok.Source, "unexpected indent")
	}
	p.errorAt(tok.Source, format, v...)
}

func (p *Parser) errorAt(loc *token.Location, format string, v ...interface{}) {
	p.err = token.Errorf(loc, format, v...)
	panic(bailout{})
}
