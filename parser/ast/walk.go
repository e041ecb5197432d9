// Copyright © 2024 The pystyle authors

package ast

// Inspect traverses the tree rooted at node in depth-first order.  It calls
// f(n) for each node n.  If f returns true, Inspect visits the children of n
// and then calls f(nil).  Function arguments, keywords, aliases, exception
// handlers and type parameters are visited as nodes in their own right.
func Inspect(node Node, f func(Node) bool) {
	v := inspector(f)
	v.node(node)
}

type inspector func(Node) bool

func (f inspector) node(n Node) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Module:
		f.stmts(n.Body)
	case *FunctionDef:
		f.exprs(n.Decorators)
		f.typeParams(n.TypeParams)
		f.arguments(n.Args)
		f.expr(n.Returns)
		f.stmts(n.Body)
	case *ClassDef:
		f.exprs(n.Decorators)
		f.typeParams(n.TypeParams)
		f.exprs(n.Bases)
		f.keywords(n.Keywords)
		f.stmts(n.Body)
	case *Return:
		f.expr(n.Value)
	case *Delete:
		f.exprs(n.Targets)
	case *Assign:
		f.exprs(n.Targets)
		f.expr(n.Value)
	case *AugAssign:
		f.expr(n.Target)
		f.expr(n.Value)
	case *AnnAssign:
		f.expr(n.Target)
		f.expr(n.Annotation)
		f.expr(n.Value)
	case *TypeAlias:
		f.node(n.Name)
		f.typeParams(n.TypeParams)
		f.expr(n.Value)
	case *For:
		f.expr(n.Target)
		f.expr(n.Iter)
		f.stmts(n.Body)
		f.stmts(n.Orelse)
	case *While:
		f.expr(n.Test)
		f.stmts(n.Body)
		f.stmts(n.Orelse)
	case *If:
		f.expr(n.Test)
		f.stmts(n.Body)
		f.stmts(n.Orelse)
	case *With:
		for _, item := range n.Items {
			f.expr(item.Context)
			f.expr(item.Vars)
		}
		f.stmts(n.Body)
	case *Match:
		f.expr(n.Subject)
		for _, c := range n.Cases {
			f.pattern(c.Pattern)
			f.expr(c.Guard)
			f.stmts(c.Body)
		}
	case *Raise:
		f.expr(n.Exc)
		f.expr(n.Cause)
	case *Try:
		f.stmts(n.Body)
		for _, h := range n.Handlers {
			f.node(h)
		}
		f.stmts(n.Orelse)
		f.stmts(n.Finalbody)
	case *ExceptHandler:
		f.expr(n.Type)
		f.stmts(n.Body)
	case *Assert:
		f.expr(n.Test)
		f.expr(n.Msg)
	case *Import:
		for _, a := range n.Names {
			f.node(a)
		}
	case *ImportFrom:
		for _, a := range n.Names {
			f.node(a)
		}
	case *ExprStmt:
		f.expr(n.Value)
	case *Arg:
		f.expr(n.Annotation)
	case *Keyword:
		f.expr(n.Value)
	case *TypeParam:
		f.expr(n.Bound)
		f.expr(n.Default)

	case *BoolOp:
		f.exprs(n.Values)
	case *NamedExpr:
		f.node(n.Target)
		f.expr(n.Value)
	case *BinOp:
		f.expr(n.Left)
		f.expr(n.Right)
	case *UnaryOp:
		f.expr(n.Operand)
	case *Lambda:
		f.arguments(n.Args)
		f.expr(n.Body)
	case *IfExp:
		f.expr(n.Test)
		f.expr(n.Body)
		f.expr(n.Orelse)
	case *Dict:
		f.exprs(n.Keys)
		f.exprs(n.Values)
	case *Set:
		f.exprs(n.Elts)
	case *ListComp:
		f.expr(n.Elt)
		f.comprehensions(n.Generators)
	case *SetComp:
		f.expr(n.Elt)
		f.comprehensions(n.Generators)
	case *DictComp:
		f.expr(n.Key)
		f.expr(n.Value)
		f.comprehensions(n.Generators)
	case *GeneratorExp:
		f.expr(n.Elt)
		f.comprehensions(n.Generators)
	case *Await:
		f.expr(n.Value)
	case *Yield:
		f.expr(n.Value)
	case *YieldFrom:
		f.expr(n.Value)
	case *Compare:
		f.expr(n.Left)
		f.exprs(n.Comparators)
	case *Call:
		f.expr(n.Func)
		f.exprs(n.Args)
		f.keywords(n.Keywords)
	case *Attribute:
		f.expr(n.Value)
	case *Subscript:
		f.expr(n.Value)
		f.expr(n.Slice)
	case *Starred:
		f.expr(n.Value)
	case *List:
		f.exprs(n.Elts)
	case *Tuple:
		f.exprs(n.Elts)
	case *Slice:
		f.expr(n.Lower)
		f.expr(n.Upper)
		f.expr(n.Step)

	case *MatchValue:
		f.expr(n.Value)
	case *MatchSequence:
		f.patterns(n.Patterns)
	case *MatchMapping:
		f.exprs(n.Keys)
		f.patterns(n.Patterns)
	case *MatchClass:
		f.expr(n.Cls)
		f.patterns(n.Patterns)
		f.patterns(n.KwdPatterns)
	case *MatchAs:
		f.pattern(n.Pattern)
	case *MatchOr:
		f.patterns(n.Patterns)
	}
	f(nil)
}

func (f inspector) stmts(list []Stmt) {
	for _, s := range list {
		f.node(s)
	}
}

// expr visits e unless it is absent.  Optional fields hold nil interfaces.
func (f inspector) expr(e Expr) {
	if e != nil {
		f.node(e)
	}
}

func (f inspector) exprs(list []Expr) {
	for _, e := range list {
		f.expr(e)
	}
}

func (f inspector) pattern(p Pattern) {
	if p != nil {
		f.node(p)
	}
}

func (f inspector) patterns(list []Pattern) {
	for _, p := range list {
		f.pattern(p)
	}
}

func (f inspector) keywords(list []*Keyword) {
	for _, k := range list {
		f.node(k)
	}
}

func (f inspector) typeParams(list []*TypeParam) {
	for _, tp := range list {
		f.node(tp)
	}
}

func (f inspector) arguments(args *Arguments) {
	if args == nil {
		return
	}
	for _, group := range [][]*Arg{args.PosOnly, args.Args} {
		for _, a := range group {
			f.node(a)
		}
	}
	if args.Vararg != nil {
		f.node(args.Vararg)
	}
	for _, a := range args.KwOnly {
		f.node(a)
	}
	if args.Kwarg != nil {
		f.node(args.Kwarg)
	}
	f.exprs(args.Defaults)
	f.exprs(args.KwDefaults)
}

func (f inspector) comprehensions(gens []*Comprehension) {
	for _, g := range gens {
		f.expr(g.Target)
		f.expr(g.Iter)
		f.exprs(g.Ifs)
	}
}
