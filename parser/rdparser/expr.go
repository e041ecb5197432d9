// Copyright © 2024 The pystyle authors

package rdparser

import (
	"strings"

	"github.com/luthersystems/pystyle/parser/ast"
	"github.com/luthersystems/pystyle/parser/token"
)

// binaryLevels lists binary operators from lowest to highest precedence.
var binaryLevels = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "//", "%", "@"},
}

var comparisonOps = map[string]bool{
	"<": true, ">": true, "==": true, ">=": true, "<=": true, "!=": true,
}

// parseStarExpressions parses a comma separated expression list, producing a
// tuple when a comma is present.
func (p *Parser) parseStarExpressions() ast.Expr {
	first := p.parseStarExpression()
	if !p.peekIs(",") {
		return first
	}
	elts := []ast.Expr{first}
	for p.accept(",") {
		if !p.startsExpression() {
			break
		}
		elts = append(elts, p.parseStarExpression())
	}
	return &ast.Tuple{Loc: ast.Loc{Source: first.Pos()}, Elts: elts}
}

func (p *Parser) parseStarExpression() ast.Expr {
	if star := p.peek(); p.accept("*") {
		return &ast.Starred{Loc: loc(star), Value: p.parseBitwiseOr()}
	}
	return p.parseExpression()
}

func (p *Parser) parseStarNamedExpression() ast.Expr {
	if star := p.peek(); p.accept("*") {
		return &ast.Starred{Loc: loc(star), Value: p.parseBitwiseOr()}
	}
	return p.parseNamedExpression()
}

// parseNamedExpression parses an expression that may be an assignment
// expression, name := value.
func (p *Parser) parseNamedExpression() ast.Expr {
	tok := p.peek()
	if tok.Type == token.NAME && !keywords[tok.Text] && p.peekN(1).Is(":=") {
		p.next()
		p.next()
		target := &ast.Name{Loc: loc(tok), ID: tok.Text, Ctx: ast.Store}
		return &ast.NamedExpr{Loc: loc(tok), Target: target, Value: p.parseExpression()}
	}
	return p.parseExpression()
}

func (p *Parser) parseExpression() ast.Expr {
	if p.peekIs("lambda") {
		return p.parseLambda()
	}
	e := p.parseDisjunction()
	if !p.accept("if") {
		return e
	}
	ifexp := &ast.IfExp{Loc: ast.Loc{Source: e.Pos()}, Body: e}
	ifexp.Test = p.parseDisjunction()
	p.expect("else")
	ifexp.Orelse = p.parseExpression()
	return ifexp
}

func (p *Parser) parseLambda() ast.Expr {
	kw := p.expect("lambda")
	lambda := &ast.Lambda{Loc: loc(kw)}
	lambda.Args = p.parseParameters(":", false)
	p.expect(":")
	lambda.Body = p.parseExpression()
	return lambda
}

func (p *Parser) parseDisjunction() ast.Expr {
	return p.parseBoolOp("or", p.parseConjunction)
}

func (p *Parser) parseConjunction() ast.Expr {
	return p.parseBoolOp("and", p.parseInversion)
}

func (p *Parser) parseBoolOp(op string, operand func() ast.Expr) ast.Expr {
	first := operand()
	if !p.peekIs(op) {
		return first
	}
	values := []ast.Expr{first}
	for p.accept(op) {
		values = append(values, operand())
	}
	return &ast.BoolOp{Loc: ast.Loc{Source: first.Pos()}, Op: op, Values: values}
}

func (p *Parser) parseInversion() ast.Expr {
	if not := p.peek(); p.accept("not") {
		return &ast.UnaryOp{Loc: loc(not), Op: "not", Operand: p.parseInversion()}
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseBitwiseOr()
	var cmp *ast.Compare
	for {
		op := p.comparisonOp()
		if op == "" {
			break
		}
		if cmp == nil {
			cmp = &ast.Compare{Loc: ast.Loc{Source: left.Pos()}, Left: left}
		}
		cmp.Ops = append(cmp.Ops, op)
		cmp.Comparators = append(cmp.Comparators, p.parseBitwiseOr())
	}
	if cmp == nil {
		return left
	}
	return cmp
}

// comparisonOp scans a comparison operator and returns its text, or the empty
// string if the next token does not begin one.
func (p *Parser) comparisonOp() string {
	tok := p.peek()
	switch {
	case tok.Type == token.OP && comparisonOps[tok.Text]:
		p.next()
		return tok.Text
	case tok.Is("in"):
		p.next()
		return "in"
	case tok.Is("not") && p.peekN(1).Is("in"):
		p.next()
		p.next()
		return "not in"
	case tok.Is("is"):
		p.next()
		if p.accept("not") {
			return "is not"
		}
		return "is"
	}
	return ""
}

func (p *Parser) parseBitwiseOr() ast.Expr {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(level int) ast.Expr {
	if level == len(binaryLevels) {
		return p.parseFactor()
	}
	left := p.parseBinary(level + 1)
	for {
		tok := p.peek()
		if tok.Type != token.OP || !containsString(binaryLevels[level], tok.Text) {
			return left
		}
		p.next()
		right := p.parseBinary(level + 1)
		left = &ast.BinOp{Loc: ast.Loc{Source: left.Pos()}, Left: left, Op: tok.Text, Right: right}
	}
}

func (p *Parser) parseFactor() ast.Expr {
	tok := p.peek()
	if tok.Is("+") || tok.Is("-") || tok.Is("~") {
		p.next()
		return &ast.UnaryOp{Loc: loc(tok), Op: tok.Text, Operand: p.parseFactor()}
	}
	return p.parsePower()
}

func (p *Parser) parsePower() ast.Expr {
	var base ast.Expr
	if await := p.peek(); p.accept("await") {
		base = &ast.Await{Loc: loc(await), Value: p.parsePrimary()}
	} else {
		base = p.parsePrimary()
	}
	if !p.accept("**") {
		return base
	}
	return &ast.BinOp{Loc: ast.Loc{Source: base.Pos()}, Left: base, Op: "**", Right: p.parseFactor()}
}

func (p *Parser) parsePrimary() ast.Expr {
	e := p.parseAtom()
	for {
		switch {
		case p.accept("."):
			name := p.expectName()
			e = &ast.Attribute{Loc: ast.Loc{Source: e.Pos()}, Value: e, Attr: name.Text}
		case p.accept("("):
			call := &ast.Call{Loc: ast.Loc{Source: e.Pos()}, Func: e}
			call.Args, call.Keywords = p.parseCallArguments()
			p.expect(")")
			e = call
		case p.accept("["):
			sub := &ast.Subscript{Loc: ast.Loc{Source: e.Pos()}, Value: e}
			sub.Slice = p.parseSlices()
			p.expect("]")
			e = sub
		default:
			return e
		}
	}
}

// parseCallArguments parses call or class arguments up to, but not including,
// the closing parenthesis.
func (p *Parser) parseCallArguments() ([]ast.Expr, []*ast.Keyword) {
	var args []ast.Expr
	var keywords []*ast.Keyword
	for !p.peekIs(")") {
		tok := p.peek()
		switch {
		case p.accept("*"):
			args = append(args, &ast.Starred{Loc: loc(tok), Value: p.parseExpression()})
		case p.accept("**"):
			keywords = append(keywords, &ast.Keyword{Loc: loc(tok), Value: p.parseExpression()})
		case tok.Type == token.NAME && !IsKeyword(tok.Text) && p.peekN(1).Is("="):
			p.next()
			p.next()
			keywords = append(keywords, &ast.Keyword{Loc: loc(tok), Arg: tok.Text, Value: p.parseExpression()})
		default:
			arg := p.parseNamedExpression()
			if p.peekIs("for") || p.peekIs("async") {
				arg = &ast.GeneratorExp{Loc: ast.Loc{Source: arg.Pos()}, Elt: arg, Generators: p.parseComprehensions()}
				if len(args) > 0 || len(keywords) > 0 || !p.peekIs(")") {
					p.errorAt(arg.Pos(), "Generator expression must be parenthesized")
				}
			}
			if len(keywords) > 0 {
				p.errorAt(arg.Pos(), "positional argument follows keyword argument")
			}
			args = append(args, arg)
		}
		if !p.accept(",") {
			break
		}
	}
	return args, keywords
}

func (p *Parser) parseSlices() ast.Expr {
	first := p.parseSlice()
	if !p.peekIs(",") {
		return first
	}
	elts := []ast.Expr{first}
	for p.accept(",") {
		if p.peekIs("]") {
			break
		}
		elts = append(elts, p.parseSlice())
	}
	return &ast.Tuple{Loc: ast.Loc{Source: first.Pos()}, Elts: elts}
}

func (p *Parser) parseSlice() ast.Expr {
	start := p.peek()
	if !p.peekIs(":") {
		lower := p.parseStarNamedExpression()
		if !p.peekIs(":") {
			return lower
		}
		return p.parseSliceTail(start, lower)
	}
	return p.parseSliceTail(start, nil)
}

func (p *Parser) parseSliceTail(start *token.Token, lower ast.Expr) ast.Expr {
	p.expect(":")
	s := &ast.Slice{Loc: loc(start), Lower: lower}
	if !p.peekIs(":") && !p.peekIs(",") && !p.peekIs("]") {
		s.Upper = p.parseExpression()
	}
	if p.accept(":") && !p.peekIs(",") && !p.peekIs("]") {
		s.Step = p.parseExpression()
	}
	return s
}

func (p *Parser) parseAtom() ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case token.NUMBER:
		p.next()
		return &ast.Constant{Loc: loc(tok), Kind: token.NUMBER, Text: tok.Text}
	case token.STRING:
		return p.parseStrings()
	case token.NAME:
		switch tok.Text {
		case "None", "True", "False":
			p.next()
			return &ast.Constant{Loc: loc(tok), Kind: token.NAME, Text: tok.Text}
		}
		if keywords[tok.Text] {
			p.unexpected("invalid syntax")
		}
		p.next()
		return &ast.Name{Loc: loc(tok), ID: tok.Text}
	case token.OP:
		switch tok.Text {
		case "(":
			return p.parseGroup()
		case "[":
			return p.parseListDisplay()
		case "{":
			return p.parseDictOrSet()
		case "...":
			p.next()
			return &ast.Constant{Loc: loc(tok), Kind: token.NAME, Text: "..."}
		}
	}
	p.unexpected("invalid syntax")
	return nil
}

// parseStrings joins implicitly concatenated string literals.
func (p *Parser) parseStrings() ast.Expr {
	first := p.peek()
	var parts []string
	var sawBytes, sawText bool
	for p.peekType(token.STRING) {
		tok := p.next()
		if isBytesLiteral(tok.Text) {
			sawBytes = true
		} else {
			sawText = true
		}
		if sawBytes && sawText {
			p.errorAt(tok.Source, "cannot mix bytes and nonbytes literals")
		}
		parts = append(parts, tok.Text)
	}
	return &ast.Constant{Loc: loc(first), Kind: token.STRING, Text: strings.Join(parts, " ")}
}

func isBytesLiteral(text string) bool {
	prefix := strings.ToLower(text[:strings.IndexAny(text, `'"`)])
	return strings.Contains(prefix, "b")
}

func (p *Parser) parseGroup() ast.Expr {
	open := p.expect("(")
	if p.accept(")") {
		return &ast.Tuple{Loc: loc(open)}
	}
	if p.peekIs("yield") {
		e := p.parseYield()
		p.expect(")")
		return e
	}
	first := p.parseStarNamedExpression()
	if p.peekIs("for") || p.peekIs("async") {
		gen := &ast.GeneratorExp{Loc: loc(open), Elt: first, Generators: p.parseComprehensions()}
		p.expect(")")
		return gen
	}
	if !p.peekIs(",") {
		p.expect(")")
		if _, ok := first.(*ast.Starred); ok {
			p.errorAt(first.Pos(), "cannot use starred expression here")
		}
		return first
	}
	tuple := &ast.Tuple{Loc: loc(open), Elts: []ast.Expr{first}}
	for p.accept(",") {
		if p.peekIs(")") {
			break
		}
		tuple.Elts = append(tuple.Elts, p.parseStarNamedExpression())
	}
	p.expect(")")
	return tuple
}

func (p *Parser) parseListDisplay() ast.Expr {
	open := p.expect("[")
	list := &ast.List{Loc: loc(open)}
	if p.accept("]") {
		return list
	}
	first := p.parseStarNamedExpression()
	if p.peekIs("for") || p.peekIs("async") {
		comp := &ast.ListComp{Loc: loc(open), Elt: first, Generators: p.parseComprehensions()}
		p.expect("]")
		return comp
	}
	list.Elts = p.parseDisplayTail(first, "]")
	return list
}

func (p *Parser) parseDictOrSet() ast.Expr {
	open := p.expect("{")
	if p.accept("}") {
		return &ast.Dict{Loc: loc(open)}
	}
	if p.accept("**") {
		dict := &ast.Dict{Loc: loc(open)}
		dict.Keys = append(dict.Keys, nil)
		dict.Values = append(dict.Values, p.parseBitwiseOr())
		return p.parseDictTail(dict)
	}
	first := p.parseStarNamedExpression()
	if p.accept(":") {
		value := p.parseExpression()
		if p.peekIs("for") || p.peekIs("async") {
			comp := &ast.DictComp{Loc: loc(open), Key: first, Value: value, Generators: p.parseComprehensions()}
			p.expect("}")
			return comp
		}
		dict := &ast.Dict{Loc: loc(open), Keys: []ast.Expr{first}, Values: []ast.Expr{value}}
		return p.parseDictTail(dict)
	}
	if p.peekIs("for") || p.peekIs("async") {
		comp := &ast.SetComp{Loc: loc(open), Elt: first, Generators: p.parseComprehensions()}
		p.expect("}")
		return comp
	}
	return &ast.Set{Loc: loc(open), Elts: p.parseDisplayTail(first, "}")}
}

// parseDisplayTail parses the elements of a list or set display following the
// first, through the closing bracket.
func (p *Parser) parseDisplayTail(first ast.Expr, closing string) []ast.Expr {
	elts := []ast.Expr{first}
	for p.accept(",") {
		if p.peekIs(closing) {
			break
		}
		elts = append(elts, p.parseStarNamedExpression())
	}
	p.expect(closing)
	return elts
}

func (p *Parser) parseDictTail(dict *ast.Dict) ast.Expr {
	for p.accept(",") {
		if p.peekIs("}") {
			break
		}
		if p.accept("**") {
			dict.Keys = append(dict.Keys, nil)
			dict.Values = append(dict.Values, p.parseBitwiseOr())
			continue
		}
		dict.Keys = append(dict.Keys, p.parseExpression())
		p.expect(":")
		dict.Values = append(dict.Values, p.parseExpression())
	}
	p.expect("}")
	return dict
}

func (p *Parser) parseComprehensions() []*ast.Comprehension {
	var gens []*ast.Comprehension
	for p.peekIs("for") || (p.peekIs("async") && p.peekN(1).Is("for")) {
		gen := &ast.Comprehension{Async: p.accept("async")}
		p.expect("for")
		gen.Target = p.parseTargetList()
		p.expect("in")
		gen.Iter = p.parseDisjunction()
		for p.accept("if") {
			gen.Ifs = append(gen.Ifs, p.parseDisjunction())
		}
		gens = append(gens, gen)
	}
	if len(gens) == 0 {
		p.unexpected("invalid syntax")
	}
	return gens
}

// parseTargetList parses the target of a for loop or comprehension clause,
// stopping before the in keyword.
func (p *Parser) parseTargetList() ast.Expr {
	first := p.parseStarTarget()
	target := first
	if p.peekIs(",") {
		tuple := &ast.Tuple{Loc: ast.Loc{Source: first.Pos()}, Elts: []ast.Expr{first}}
		for p.accept(",") {
			if p.peekIs("in") {
				break
			}
			tuple.Elts = append(tuple.Elts, p.parseStarTarget())
		}
		target = tuple
	}
	p.setContext(target, ast.Store)
	return target
}

func (p *Parser) parseStarTarget() ast.Expr {
	if star := p.peek(); p.accept("*") {
		return &ast.Starred{Loc: loc(star), Value: p.parseBitwiseOr()}
	}
	return p.parseBitwiseOr()
}

func (p *Parser) parseYield() ast.Expr {
	kw := p.expect("yield")
	if p.accept("from") {
		return &ast.YieldFrom{Loc: loc(kw), Value: p.parseExpression()}
	}
	y := &ast.Yield{Loc: loc(kw)}
	if p.startsExpression() {
		y.Value = p.parseStarExpressions()
	}
	return y
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
