// Copyright © 2024 The pystyle authors

package rdparser

import (
	"github.com/luthersystems/pystyle/parser/ast"
	"github.com/luthersystems/pystyle/parser/token"
)

// parsePatterns parses the pattern of a case clause.  An unparenthesized comma
// separated list of patterns is a sequence pattern.
func (p *Parser) parsePatterns() ast.Pattern {
	start := p.peek()
	first := p.parseMaybeStarPattern()
	if !p.peekIs(",") {
		if _, ok := first.(*ast.MatchStar); ok {
			p.errorAt(first.Pos(), "can't use starred name here")
		}
		return first
	}
	seq := &ast.MatchSequence{Loc: loc(start), Patterns: []ast.Pattern{first}}
	for p.accept(",") {
		if p.peekIs(":") || p.peekIs("if") {
			break
		}
		seq.Patterns = append(seq.Patterns, p.parseMaybeStarPattern())
	}
	return seq
}

func (p *Parser) parseMaybeStarPattern() ast.Pattern {
	star := p.peek()
	if !p.accept("*") {
		return p.parseAsPattern()
	}
	name := p.expectName()
	pat := &ast.MatchStar{Loc: loc(star)}
	if name.Text != "_" {
		pat.Name = name.Text
	}
	return pat
}

func (p *Parser) parseAsPattern() ast.Pattern {
	pat := p.parseOrPattern()
	if !p.accept("as") {
		return pat
	}
	name := p.expectName()
	if name.Text == "_" {
		p.errorAt(name.Source, "cannot use '_' as a target")
	}
	return &ast.MatchAs{Loc: ast.Loc{Source: pat.Pos()}, Pattern: pat, Name: name.Text}
}

func (p *Parser) parseOrPattern() ast.Pattern {
	first := p.parseClosedPattern()
	if !p.peekIs("|") {
		return first
	}
	or := &ast.MatchOr{Loc: ast.Loc{Source: first.Pos()}, Patterns: []ast.Pattern{first}}
	for p.accept("|") {
		or.Patterns = append(or.Patterns, p.parseClosedPattern())
	}
	return or
}

func (p *Parser) parseClosedPattern() ast.Pattern {
	tok := p.peek()
	switch {
	case tok.Type == token.NUMBER || tok.Type == token.STRING || tok.Is("-"):
		return &ast.MatchValue{Loc: loc(tok), Value: p.parseLiteralValue()}
	case tok.Is("None") || tok.Is("True") || tok.Is("False"):
		p.next()
		return &ast.MatchSingleton{Loc: loc(tok), Value: tok.Text}
	case tok.Is("("):
		return p.parseGroupPattern()
	case tok.Is("["):
		p.next()
		seq := &ast.MatchSequence{Loc: loc(tok)}
		seq.Patterns = p.parsePatternList("]")
		return seq
	case tok.Is("{"):
		return p.parseMappingPattern()
	case tok.Type == token.NAME && !keywords[tok.Text]:
		if !p.peekN(1).Is(".") && !p.peekN(1).Is("(") {
			p.next()
			if tok.Text == "_" {
				return &ast.MatchAs{Loc: loc(tok)}
			}
			return &ast.MatchAs{Loc: loc(tok), Name: tok.Text}
		}
		name := p.parseDottedValue()
		if p.peekIs("(") {
			return p.parseClassPattern(name)
		}
		return &ast.MatchValue{Loc: loc(tok), Value: name}
	}
	p.unexpected("invalid syntax")
	return nil
}

// parseLiteralValue parses the literals allowed in patterns: strings, signed
// numbers, and complex numbers written as a sum or difference.
func (p *Parser) parseLiteralValue() ast.Expr {
	if p.peekType(token.STRING) {
		return p.parseStrings()
	}
	start := p.peek()
	var value ast.Expr
	neg := p.accept("-")
	num := p.expectType(token.NUMBER)
	value = &ast.Constant{Loc: loc(num), Kind: token.NUMBER, Text: num.Text}
	if neg {
		value = &ast.UnaryOp{Loc: loc(start), Op: "-", Operand: value}
	}
	if op := p.peek(); p.accept("+") || p.accept("-") {
		imag := p.expectType(token.NUMBER)
		value = &ast.BinOp{
			Loc:   loc(start),
			Left:  value,
			Op:    op.Text,
			Right: &ast.Constant{Loc: loc(imag), Kind: token.NUMBER, Text: imag.Text},
		}
	}
	return value
}

// parseDottedValue parses a name optionally followed by attribute accesses.
func (p *Parser) parseDottedValue() ast.Expr {
	tok := p.expectName()
	var e ast.Expr = &ast.Name{Loc: loc(tok), ID: tok.Text}
	for p.accept(".") {
		attr := p.expectName()
		e = &ast.Attribute{Loc: loc(tok), Value: e, Attr: attr.Text}
	}
	return e
}

func (p *Parser) parseGroupPattern() ast.Pattern {
	open := p.expect("(")
	if p.accept(")") {
		return &ast.MatchSequence{Loc: loc(open)}
	}
	first := p.parseMaybeStarPattern()
	if p.accept(")") {
		if _, ok := first.(*ast.MatchStar); ok {
			return &ast.MatchSequence{Loc: loc(open), Patterns: []ast.Pattern{first}}
		}
		return first
	}
	p.expect(",")
	seq := &ast.MatchSequence{Loc: loc(open), Patterns: []ast.Pattern{first}}
	seq.Patterns = append(seq.Patterns, p.parsePatternList(")")...)
	return seq
}

// parsePatternList parses comma separated patterns through closing.
func (p *Parser) parsePatternList(closing string) []ast.Pattern {
	var pats []ast.Pattern
	for !p.peekIs(closing) {
		pats = append(pats, p.parseMaybeStarPattern())
		if !p.accept(",") {
			break
		}
	}
	p.expect(closing)
	return pats
}

func (p *Parser) parseMappingPattern() ast.Pattern {
	open := p.expect("{")
	m := &ast.MatchMapping{Loc: loc(open)}
	for !p.peekIs("}") {
		if p.accept("**") {
			m.Rest = p.expectName().Text
			p.accept(",")
			break
		}
		var key ast.Expr
		tok := p.peek()
		switch {
		case tok.Is("None") || tok.Is("True") || tok.Is("False"):
			p.next()
			key = &ast.Constant{Loc: loc(tok), Kind: token.NAME, Text: tok.Text}
		case tok.Type == token.NAME:
			key = p.parseDottedValue()
			if _, ok := key.(*ast.Attribute); !ok {
				p.errorAt(tok.Source, "mapping pattern keys may only match literals and attribute lookups")
			}
		default:
			key = p.parseLiteralValue()
		}
		p.expect(":")
		m.Keys = append(m.Keys, key)
		m.Patterns = append(m.Patterns, p.parseAsPattern())
		if !p.accept(",") {
			break
		}
	}
	p.expect("}")
	return m
}

func (p *Parser) parseClassPattern(cls ast.Expr) ast.Pattern {
	p.expect("(")
	c := &ast.MatchClass{Loc: ast.Loc{Source: cls.Pos()}, Cls: cls}
	for !p.peekIs(")") {
		tok := p.peek()
		if tok.Type == token.NAME && p.peekN(1).Is("=") {
			p.next()
			p.next()
			c.KwdAttrs = append(c.KwdAttrs, tok.Text)
			c.KwdPatterns = append(c.KwdPatterns, p.parseAsPattern())
		} else {
			if len(c.KwdAttrs) > 0 {
				p.errorAt(tok.Source, "positional patterns follow keyword patterns")
			}
			c.Patterns = append(c.Patterns, p.parseAsPattern())
		}
		if !p.accept(",") {
			break
		}
	}
	p.expect(")")
	return c
}
