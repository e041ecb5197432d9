// Copyright © 2024 The pystyle authors

package rdparser

import (
	"strings"

	"github.com/luthersystems/pystyle/parser/ast"
	"github.com/luthersystems/pystyle/parser/token"
)

var augAssignOps = map[string]bool{
	"+=": true, "-=": true, "*=": true, "/=": true, "//=": true, "%=": true,
	"@=": true, "&=": true, "|=": true, "^=": true, ">>=": true, "<<=": true,
	"**=": true,
}

func loc(tok *token.Token) ast.Loc {
	return ast.Loc{Source: tok.Source}
}

func (p *Parser) parseStatement() []ast.Stmt {
	tok := p.peek()
	if tok.Is("@") {
		return []ast.Stmt{p.parseDecorated()}
	}
	if tok.Type == token.NAME {
		switch tok.Text {
		case "def":
			return []ast.Stmt{p.parseFunctionDef(nil, nil)}
		case "class":
			return []ast.Stmt{p.parseClassDef(nil)}
		case "if":
			return []ast.Stmt{p.parseIf()}
		case "while":
			return []ast.Stmt{p.parseWhile()}
		case "for":
			return []ast.Stmt{p.parseFor(nil)}
		case "with":
			return []ast.Stmt{p.parseWith(nil)}
		case "try":
			return []ast.Stmt{p.parseTry()}
		case "async":
			return []ast.Stmt{p.parseAsync(nil)}
		case "match":
			var stmt ast.Stmt
			if p.try(func() { stmt = p.parseMatch() }) {
				return []ast.Stmt{stmt}
			}
		}
	}
	return p.parseSimpleStatements()
}

// parseBlock parses the suite following a compound statement header's colon.
func (p *Parser) parseBlock() []ast.Stmt {
	if !p.peekType(token.NEWLINE) {
		return p.parseSimpleStatements()
	}
	p.next()
	p.expectType(token.INDENT)
	var body []ast.Stmt
	for !p.src.AcceptType(token.DEDENT) {
		body = append(body, p.parseStatement()...)
	}
	return body
}

func (p *Parser) parseDecorated() ast.Stmt {
	var decorators []ast.Expr
	for p.accept("@") {
		decorators = append(decorators, p.parseNamedExpression())
		p.expectType(token.NEWLINE)
	}
	switch {
	case p.peekIs("def"):
		return p.parseFunctionDef(decorators, nil)
	case p.peekIs("class"):
		return p.parseClassDef(decorators)
	case p.peekIs("async"):
		return p.parseAsync(decorators)
	}
	p.unexpected("invalid syntax")
	return nil
}

func (p *Parser) parseAsync(decorators []ast.Expr) ast.Stmt {
	async := p.expect("async")
	switch {
	case p.peekIs("def"):
		return p.parseFunctionDef(decorators, async)
	case decorators != nil:
	case p.peekIs("for"):
		return p.parseFor(async)
	case p.peekIs("with"):
		return p.parseWith(async)
	}
	p.unexpected("invalid syntax")
	return nil
}

func (p *Parser) parseFunctionDef(decorators []ast.Expr, async *token.Token) ast.Stmt {
	def := p.expect("def")
	fn := &ast.FunctionDef{
		Loc:        loc(def),
		Decorators: decorators,
	}
	if async != nil {
		fn.Loc = loc(async)
		fn.Async = true
	}
	fn.Name = p.expectName().Text
	fn.TypeParams = p.parseTypeParams()
	p.expect("(")
	fn.Args = p.parseParameters(")", true)
	p.expect(")")
	if p.accept("->") {
		fn.Returns = p.parseExpression()
	}
	p.expect(":")
	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseClassDef(decorators []ast.Expr) ast.Stmt {
	class := p.expect("class")
	c := &ast.ClassDef{
		Loc:        loc(class),
		Decorators: decorators,
	}
	c.Name = p.expectName().Text
	c.TypeParams = p.parseTypeParams()
	if p.accept("(") {
		c.Bases, c.Keywords = p.parseCallArguments()
		p.expect(")")
	}
	p.expect(":")
	c.Body = p.parseBlock()
	return c
}

// parseParameters parses a def or lambda parameter list up to, but not
// including, the closing token.
func (p *Parser) parseParameters(closing string, annotated bool) *ast.Arguments {
	args := &ast.Arguments{}
	var star, sawDefault bool
	for !p.peekIs(closing) {
		if args.Kwarg != nil {
			p.unexpected("arguments cannot follow var-keyword argument")
		}
		switch {
		case p.peekIs("/"):
			if star || len(args.PosOnly) > 0 {
				p.unexpected("/ must be ahead of *")
			}
			if len(args.Args) == 0 {
				p.unexpected("at least one argument must precede /")
			}
			p.next()
			args.PosOnly, args.Args = args.Args, nil
		case p.accept("**"):
			args.Kwarg = p.parseParam(annotated)
			if p.peekIs("=") {
				p.unexpected("var-keyword argument cannot have default value")
			}
		case p.peekIs("*"):
			if star {
				p.unexpected("* argument may appear only once")
			}
			p.next()
			star = true
			if !p.peekIs(",") && !p.peekIs(closing) {
				args.Vararg = p.parseParam(annotated)
				if p.peekIs("=") {
					p.unexpected("var-positional argument cannot have default value")
				}
			}
		default:
			arg := p.parseParam(annotated)
			var def ast.Expr
			if p.accept("=") {
				def = p.parseExpression()
			}
			if star {
				args.KwOnly = append(args.KwOnly, arg)
				args.KwDefaults = append(args.KwDefaults, def)
				break
			}
			if def != nil {
				sawDefault = true
				args.Defaults = append(args.Defaults, def)
			} else if sawDefault {
				p.errorAt(arg.Source, "parameter without a default follows parameter with a default")
			}
			args.Args = append(args.Args, arg)
		}
		if !p.accept(",") {
			break
		}
	}
	if star && args.Vararg == nil && len(args.KwOnly) == 0 {
		p.unexpected("named arguments must follow bare *")
	}
	return args
}

func (p *Parser) parseParam(annotated bool) *ast.Arg {
	name := p.expectName()
	arg := &ast.Arg{Loc: loc(name), Name: name.Text}
	if annotated && p.accept(":") {
		if p.peekIs("*") {
			star := p.next()
			arg.Annotation = &ast.Starred{Loc: loc(star), Value: p.parseExpression()}
		} else {
			arg.Annotation = p.parseExpression()
		}
	}
	return arg
}

// parseTypeParams parses an optional PEP 695 type parameter list.
func (p *Parser) parseTypeParams() []*ast.TypeParam {
	open := p.peek()
	if !p.accept("[") {
		return nil
	}
	var params []*ast.TypeParam
	for !p.peekIs("]") {
		tp := &ast.TypeParam{Loc: loc(p.peek())}
		switch {
		case p.accept("*"):
			tp.Kind = "*"
		case p.accept("**"):
			tp.Kind = "**"
		}
		tp.Name = p.expectName().Text
		if tp.Kind == "" && p.accept(":") {
			tp.Bound = p.parseExpression()
		}
		if p.accept("=") {
			tp.Default = p.parseExpression()
		}
		params = append(params, tp)
		if !p.accept(",") {
			break
		}
	}
	p.expect("]")
	if len(params) == 0 {
		p.errorAt(open.Source, "type parameter list cannot be empty")
	}
	return params
}

func (p *Parser) parseIf() ast.Stmt {
	kw := p.next() // if or elif
	stmt := &ast.If{Loc: loc(kw)}
	stmt.Test = p.parseNamedExpression()
	p.expect(":")
	stmt.Body = p.parseBlock()
	switch {
	case p.peekIs("elif"):
		stmt.Orelse = []ast.Stmt{p.parseIf()}
	case p.accept("else"):
		p.expect(":")
		stmt.Orelse = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	kw := p.expect("while")
	stmt := &ast.While{Loc: loc(kw)}
	stmt.Test = p.parseNamedExpression()
	p.expect(":")
	stmt.Body = p.parseBlock()
	if p.accept("else") {
		p.expect(":")
		stmt.Orelse = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseFor(async *token.Token) ast.Stmt {
	kw := p.expect("for")
	stmt := &ast.For{Loc: loc(kw)}
	if async != nil {
		stmt.Loc = loc(async)
		stmt.Async = true
	}
	stmt.Target = p.parseTargetList()
	p.expect("in")
	stmt.Iter = p.parseStarExpressions()
	p.expect(":")
	stmt.Body = p.parseBlock()
	if p.accept("else") {
		p.expect(":")
		stmt.Orelse = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseWith(async *token.Token) ast.Stmt {
	kw := p.expect("with")
	stmt := &ast.With{Loc: loc(kw)}
	if async != nil {
		stmt.Loc = loc(async)
		stmt.Async = true
	}
	if p.peekIs("(") {
		p.try(func() {
			p.next()
			items := p.parseWithItems(")")
			p.expect(")")
			if !p.peekIs(":") {
				p.unexpected("expected ':'")
			}
			stmt.Items = items
		})
	}
	if stmt.Items == nil {
		stmt.Items = p.parseWithItems(":")
	}
	p.expect(":")
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseWithItems(closing string) []*ast.WithItem {
	var items []*ast.WithItem
	for {
		item := &ast.WithItem{Context: p.parseExpression()}
		if p.accept("as") {
			item.Vars = p.parseStarTarget()
			p.setContext(item.Vars, ast.Store)
		}
		items = append(items, item)
		if !p.accept(",") {
			break
		}
		if closing == ")" && p.peekIs(")") {
			break
		}
	}
	return items
}

func (p *Parser) parseTry() ast.Stmt {
	kw := p.expect("try")
	stmt := &ast.Try{Loc: loc(kw)}
	p.expect(":")
	stmt.Body = p.parseBlock()
	var sawBare bool
	for p.peekIs("except") {
		except := p.next()
		if sawBare {
			p.errorAt(except.Source, "default 'except:' must be last")
		}
		star := p.accept("*")
		if len(stmt.Handlers) > 0 && star != stmt.Star {
			p.errorAt(except.Source, "cannot have both 'except' and 'except*' on the same 'try'")
		}
		stmt.Star = star
		h := &ast.ExceptHandler{Loc: loc(except)}
		if !p.peekIs(":") {
			h.Type = p.parseExpression()
			if p.accept("as") {
				h.Name = p.expectName().Text
			}
		} else if star {
			p.unexpected("expected one or more exception types")
		} else {
			sawBare = true
		}
		p.expect(":")
		h.Body = p.parseBlock()
		stmt.Handlers = append(stmt.Handlers, h)
	}
	if len(stmt.Handlers) > 0 && p.accept("else") {
		p.expect(":")
		stmt.Orelse = p.parseBlock()
	}
	if p.accept("finally") {
		p.expect(":")
		stmt.Finalbody = p.parseBlock()
	}
	if len(stmt.Handlers) == 0 && stmt.Finalbody == nil {
		p.errorAt(p.peek().Source, "expected 'except' or 'finally' block")
	}
	return stmt
}

// parseMatch parses a match statement.  Because match is a soft keyword the
// caller treats failure as a signal to parse an ordinary statement instead.
func (p *Parser) parseMatch() ast.Stmt {
	kw := p.expect("match")
	stmt := &ast.Match{Loc: loc(kw)}
	subject := p.parseStarNamedExpression()
	if p.peekIs(",") {
		elts := []ast.Expr{subject}
		for p.accept(",") {
			if p.peekIs(":") {
				break
			}
			elts = append(elts, p.parseStarNamedExpression())
		}
		subject = &ast.Tuple{Loc: ast.Loc{Source: subject.Pos()}, Elts: elts}
	}
	stmt.Subject = subject
	p.expect(":")
	p.expectType(token.NEWLINE)
	p.expectType(token.INDENT)
	for !p.src.AcceptType(token.DEDENT) {
		stmt.Cases = append(stmt.Cases, p.parseCase())
	}
	return stmt
}

func (p *Parser) parseCase() *ast.MatchCase {
	if !p.peekIs("case") {
		p.unexpected("expected 'case'")
	}
	p.next()
	c := &ast.MatchCase{Pattern: p.parsePatterns()}
	if p.accept("if") {
		c.Guard = p.parseNamedExpression()
	}
	p.expect(":")
	c.Body = p.parseBlock()
	return c
}

func (p *Parser) parseSimpleStatements() []ast.Stmt {
	var stmts []ast.Stmt
	for {
		stmts = append(stmts, p.parseSimpleStatement())
		if !p.accept(";") || p.peekType(token.NEWLINE) {
			break
		}
	}
	p.expectType(token.NEWLINE)
	return stmts
}

func (p *Parser) parseSimpleStatement() ast.Stmt {
	tok := p.peek()
	if tok.Type != token.NAME {
		return p.parseExpressionStatement()
	}
	switch tok.Text {
	case "pass":
		return &ast.Pass{Loc: loc(p.next())}
	case "break":
		return &ast.Break{Loc: loc(p.next())}
	case "continue":
		return &ast.Continue{Loc: loc(p.next())}
	case "return":
		stmt := &ast.Return{Loc: loc(p.next())}
		if !p.atStatementEnd() {
			stmt.Value = p.parseStarExpressions()
		}
		return stmt
	case "raise":
		stmt := &ast.Raise{Loc: loc(p.next())}
		if !p.atStatementEnd() {
			stmt.Exc = p.parseExpression()
			if p.accept("from") {
				stmt.Cause = p.parseExpression()
			}
		}
		return stmt
	case "global":
		return &ast.Global{Loc: loc(p.next()), Names: p.parseNameList()}
	case "nonlocal":
		return &ast.Nonlocal{Loc: loc(p.next()), Names: p.parseNameList()}
	case "del":
		return p.parseDelete()
	case "assert":
		stmt := &ast.Assert{Loc: loc(p.next())}
		stmt.Test = p.parseExpression()
		if p.accept(",") {
			stmt.Msg = p.parseExpression()
		}
		return stmt
	case "import":
		return p.parseImport()
	case "from":
		return p.parseImportFrom()
	case "type":
		if p.peekN(1).Type == token.NAME && (p.peekN(2).Is("=") || p.peekN(2).Is("[")) {
			return p.parseTypeAlias()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseNameList() []string {
	var names []string
	for {
		names = append(names, p.expectName().Text)
		if !p.accept(",") {
			return names
		}
	}
}

func (p *Parser) parseDelete() ast.Stmt {
	stmt := &ast.Delete{Loc: loc(p.expect("del"))}
	for {
		target := p.parseBitwiseOr()
		p.setContext(target, ast.Del)
		stmt.Targets = append(stmt.Targets, target)
		if !p.accept(",") || p.atStatementEnd() {
			return stmt
		}
	}
}

func (p *Parser) parseDottedName() string {
	parts := []string{p.expectName().Text}
	for p.accept(".") {
		parts = append(parts, p.expectName().Text)
	}
	return strings.Join(parts, ".")
}

func (p *Parser) parseImport() ast.Stmt {
	stmt := &ast.Import{Loc: loc(p.expect("import"))}
	for {
		alias := &ast.Alias{Loc: loc(p.peek())}
		alias.Name = p.parseDottedName()
		if p.accept("as") {
			alias.AsName = p.expectName().Text
		}
		stmt.Names = append(stmt.Names, alias)
		if !p.accept(",") {
			return stmt
		}
	}
}

func (p *Parser) parseImportFrom() ast.Stmt {
	stmt := &ast.ImportFrom{Loc: loc(p.expect("from"))}
	for {
		if p.accept(".") {
			stmt.Level++
		} else if p.accept("...") {
			stmt.Level += 3
		} else {
			break
		}
	}
	if !p.peekIs("import") || stmt.Level == 0 {
		stmt.Module = p.parseDottedName()
	}
	p.expect("import")
	if star := p.peek(); p.accept("*") {
		stmt.Names = []*ast.Alias{{Loc: loc(star), Name: "*"}}
		return stmt
	}
	paren := p.accept("(")
	for {
		alias := &ast.Alias{Loc: loc(p.peek())}
		alias.Name = p.expectName().Text
		if p.accept("as") {
			alias.AsName = p.expectName().Text
		}
		stmt.Names = append(stmt.Names, alias)
		if !p.accept(",") {
			break
		}
		if !paren && p.atStatementEnd() {
			p.unexpected("trailing comma not allowed without surrounding parentheses")
		}
		if paren && p.peekIs(")") {
			break
		}
	}
	if paren {
		p.expect(")")
	}
	return stmt
}

func (p *Parser) parseTypeAlias() ast.Stmt {
	stmt := &ast.TypeAlias{Loc: loc(p.expect("type"))}
	name := p.expectName()
	stmt.Name = &ast.Name{Loc: loc(name), ID: name.Text, Ctx: ast.Store}
	stmt.TypeParams = p.parseTypeParams()
	p.expect("=")
	stmt.Value = p.parseExpression()
	return stmt
}

// parseExpressionStatement parses expression statements and the assignment
// forms, which all begin with an expression.
func (p *Parser) parseExpressionStatement() ast.Stmt {
	start := p.peek()
	var first ast.Expr
	if p.peekIs("yield") {
		first = p.parseYield()
	} else {
		first = p.parseStarExpressions()
	}
	tok := p.peek()
	switch {
	case tok.Is("="):
		exprs := []ast.Expr{first}
		for p.accept("=") {
			exprs = append(exprs, p.parseAssignedValue())
		}
		targets := exprs[:len(exprs)-1]
		for _, target := range targets {
			p.setContext(target, ast.Store)
		}
		return &ast.Assign{Loc: loc(start), Targets: targets, Value: exprs[len(exprs)-1]}
	case tok.Type == token.OP && augAssignOps[tok.Text]:
		switch first.(type) {
		case *ast.Name, *ast.Attribute, *ast.Subscript:
		default:
			p.errorAt(first.Pos(), "'%s' is an illegal expression for augmented assignment", describe(first))
		}
		p.setContext(first, ast.Store)
		op := p.next()
		return &ast.AugAssign{Loc: loc(start), Target: first, Op: op.Text, Value: p.parseAssignedValue()}
	case tok.Is(":"):
		switch first.(type) {
		case *ast.Name, *ast.Attribute, *ast.Subscript:
		case *ast.Tuple:
			p.errorAt(first.Pos(), "only single target (not tuple) can be annotated")
		default:
			p.errorAt(first.Pos(), "illegal target for annotation")
		}
		p.setContext(first, ast.Store)
		p.next()
		stmt := &ast.AnnAssign{Loc: loc(start), Target: first, Annotation: p.parseExpression()}
		if p.accept("=") {
			stmt.Value = p.parseAssignedValue()
		}
		return stmt
	}
	return &ast.ExprStmt{Loc: loc(start), Value: first}
}

func (p *Parser) parseAssignedValue() ast.Expr {
	if p.peekIs("yield") {
		return p.parseYield()
	}
	return p.parseStarExpressions()
}

// setContext marks target as an assignment or deletion target, rejecting
// expressions that cannot be bound.
func (p *Parser) setContext(target ast.Expr, ctx ast.ExprContext) {
	switch e := target.(type) {
	case *ast.Name:
		e.Ctx = ctx
	case *ast.Attribute:
		e.Ctx = ctx
	case *ast.Subscript:
		e.Ctx = ctx
	case *ast.Starred:
		if ctx == ast.Del {
			p.errorAt(e.Pos(), "cannot delete starred")
		}
		e.Ctx = ctx
		p.setContext(e.Value, ctx)
	case *ast.Tuple:
		e.Ctx = ctx
		for _, elt := range e.Elts {
			p.setContext(elt, ctx)
		}
	case *ast.List:
		e.Ctx = ctx
		for _, elt := range e.Elts {
			p.setContext(elt, ctx)
		}
	default:
		verb := "assign to"
		if ctx == ast.Del {
			verb = "delete"
		}
		p.errorAt(target.Pos(), "cannot %s %s", verb, describe(target))
	}
}

func describe(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Call:
		return "function call"
	case *ast.Constant:
		if e.Kind == token.NAME {
			return e.Text
		}
		return "literal"
	case *ast.Compare:
		return "comparison"
	case *ast.Lambda:
		return "lambda"
	case *ast.IfExp:
		return "conditional expression"
	case *ast.NamedExpr:
		return "named expression"
	case *ast.GeneratorExp:
		return "generator expression"
	case *ast.ListComp:
		return "list comprehension"
	case *ast.SetComp:
		return "set comprehension"
	case *ast.DictComp:
		return "dict comprehension"
	case *ast.Dict:
		return "dict literal"
	case *ast.Set:
		return "set display"
	case *ast.Await:
		return "await expression"
	case *ast.Yield, *ast.YieldFrom:
		return "yield expression"
	case *ast.Tuple:
		return "tuple"
	case *ast.List:
		return "list"
	case *ast.Starred:
		return "starred"
	}
	return "expression"
}
