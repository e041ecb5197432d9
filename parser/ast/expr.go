// Copyright © 2024 The pystyle authors

package ast

import "github.com/luthersystems/pystyle/parser/token"

// BoolOp is a chain of and/or operations over Values.
type BoolOp struct {
	Loc
	Op     string
	Values []Expr
}

// NamedExpr is an assignment expression, target := value.
type NamedExpr struct {
	Loc
	Target *Name
	Value  Expr
}

type BinOp struct {
	Loc
	Left  Expr
	Op    string
	Right Expr
}

type UnaryOp struct {
	Loc
	Op      string
	Operand Expr
}

type Lambda struct {
	Loc
	Args *Arguments
	Body Expr
}

type IfExp struct {
	Loc
	Test   Expr
	Body   Expr
	Orelse Expr
}

// Dict is a dict display.  A nil key marks a **mapping unpacked into the dict.
type Dict struct {
	Loc
	Keys   []Expr
	Values []Expr
}

type Set struct {
	Loc
	Elts []Expr
}

type ListComp struct {
	Loc
	Elt        Expr
	Generators []*Comprehension
}

type SetComp struct {
	Loc
	Elt        Expr
	Generators []*Comprehension
}

type DictComp struct {
	Loc
	Key        Expr
	Value      Expr
	Generators []*Comprehension
}

type GeneratorExp struct {
	Loc
	Elt        Expr
	Generators []*Comprehension
}

type Await struct {
	Loc
	Value Expr
}

type Yield struct {
	Loc
	Value Expr
}

type YieldFrom struct {
	Loc
	Value Expr
}

// Compare is a comparison chain such as a < b <= c.
type Compare struct {
	Loc
	Left        Expr
	Ops         []string
	Comparators []Expr
}

type Call struct {
	Loc
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
}

// Constant is a literal.  Kind is token.NUMBER or token.STRING for literal
// tokens and token.NAME for None, True, False and the ellipsis.  Implicitly
// concatenated strings are a single Constant whose Text joins the pieces with
// a space.
type Constant struct {
	Loc
	Kind token.Type
	Text string
}

type Attribute struct {
	Loc
	Value Expr
	Attr  string
	Ctx   ExprContext
}

type Subscript struct {
	Loc
	Value Expr
	Slice Expr
	Ctx   ExprContext
}

type Starred struct {
	Loc
	Value Expr
	Ctx   ExprContext
}

type Name struct {
	Loc
	ID  string
	Ctx ExprContext
}

type List struct {
	Loc
	Elts []Expr
	Ctx  ExprContext
}

type Tuple struct {
	Loc
	Elts []Expr
	Ctx  ExprContext
}

// Slice is the lower:upper:step form inside a subscript.
type Slice struct {
	Loc
	Lower Expr
	Upper Expr
	Step  Expr
}

func (*BoolOp) exprNode()       {}
func (*NamedExpr) exprNode()    {}
func (*BinOp) exprNode()        {}
func (*UnaryOp) exprNode()      {}
func (*Lambda) exprNode()       {}
func (*IfExp) exprNode()        {}
func (*Dict) exprNode()         {}
func (*Set) exprNode()          {}
func (*ListComp) exprNode()     {}
func (*SetComp) exprNode()      {}
func (*DictComp) exprNode()     {}
func (*GeneratorExp) exprNode() {}
func (*Await) exprNode()        {}
func (*Yield) exprNode()        {}
func (*YieldFrom) exprNode()    {}
func (*Compare) exprNode()      {}
func (*Call) exprNode()         {}
func (*Constant) exprNode()     {}
func (*Attribute) exprNode()    {}
func (*Subscript) exprNode()    {}
func (*Starred) exprNode()      {}
func (*Name) exprNode()         {}
func (*List) exprNode()         {}
func (*Tuple) exprNode()        {}
func (*Slice) exprNode()        {}

// MatchValue matches by equality with a literal or dotted name.
type MatchValue struct {
	Loc
	Value Expr
}

// MatchSingleton matches None, True or False by identity.
type MatchSingleton struct {
	Loc
	Value string
}

type MatchSequence struct {
	Loc
	Patterns []Pattern
}

// MatchMapping matches mapping keys.  Rest names the **rest capture, if any.
type MatchMapping struct {
	Loc
	Keys     []Expr
	Patterns []Pattern
	Rest     string
}

type MatchClass struct {
	Loc
	Cls         Expr
	Patterns    []Pattern
	KwdAttrs    []string
	KwdPatterns []Pattern
}

// MatchStar is *name inside a sequence pattern.  Name is empty for *_.
type MatchStar struct {
	Loc
	Name string
}

// MatchAs is a capture pattern (Pattern is nil), a wildcard (both fields
// empty) or pattern as name.
type MatchAs struct {
	Loc
	Pattern Pattern
	Name    string
}

type MatchOr struct {
	Loc
	Patterns []Pattern
}

func (*MatchValue) patternNode()     {}
func (*MatchSingleton) patternNode() {}
func (*MatchSequence) patternNode()  {}
func (*MatchMapping) patternNode()   {}
func (*MatchClass) patternNode()     {}
func (*MatchStar) patternNode()      {}
func (*MatchAs) patternNode()        {}
func (*MatchOr) patternNode()        {}
