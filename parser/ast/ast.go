// Copyright © 2024 The pystyle authors

// Package ast declares the types used to represent python syntax trees.  The
// node set mirrors the python grammar closely enough for style analysis:
// statements, expressions, and match patterns.  Every node records the
// location of its first token.
package ast

import "github.com/luthersystems/pystyle/parser/token"

// Node is implemented by all syntax tree nodes.
type Node interface {
	Pos() *token.Location
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Pattern is implemented by the patterns of a match statement case.
type Pattern interface {
	Node
	patternNode()
}

// Loc is embedded in every node and records where the node begins.
type Loc struct {
	Source *token.Location
}

func (l Loc) Pos() *token.Location {
	return l.Source
}

// Line returns the line of n, or zero when n carries no location.
func Line(n Node) int {
	if n == nil || n.Pos() == nil {
		return 0
	}
	return n.Pos().Line
}

// ExprContext distinguishes targets of an assignment or deletion from values
// that are only read.
type ExprContext uint

const (
	Load ExprContext = iota
	Store
	Del
)

func (ctx ExprContext) String() string {
	switch ctx {
	case Store:
		return "store"
	case Del:
		return "del"
	default:
		return "load"
	}
}

// Module is the root of a parsed file.
type Module struct {
	Loc
	Body []Stmt
}

// Arguments describes the parameter list of a function or lambda.
// Defaults align with the tail of PosOnly followed by Args.  KwDefaults
// aligns with KwOnly and holds nil for parameters without a default.
type Arguments struct {
	PosOnly    []*Arg
	Args       []*Arg
	Vararg     *Arg
	KwOnly     []*Arg
	KwDefaults []Expr
	Kwarg      *Arg
	Defaults   []Expr
}

type Arg struct {
	Loc
	Name       string
	Annotation Expr
}

// Keyword is a keyword argument in a call or class definition.  Arg is empty
// for a **mapping argument.
type Keyword struct {
	Loc
	Arg   string
	Value Expr
}

type Alias struct {
	Loc
	Name   string
	AsName string
}

type WithItem struct {
	Context Expr
	Vars    Expr
}

type ExceptHandler struct {
	Loc
	Type Expr
	Name string
	Body []Stmt
}

type Comprehension struct {
	Target Expr
	Iter   Expr
	Ifs    []Expr
	Async  bool
}

type MatchCase struct {
	Pattern Pattern
	Guard   Expr
	Body    []Stmt
}

// TypeParam is a parameter of a generic function, class, or type alias.  Kind
// is one of "", "*" and "**".
type TypeParam struct {
	Loc
	Name    string
	Kind    string
	Bound   Expr
	Default Expr
}

// FunctionDef is a def or async def statement.  Its location is that of the
// def keyword (or async keyword) rather than the first decorator.
type FunctionDef struct {
	Loc
	Name       string
	Async      bool
	Decorators []Expr
	TypeParams []*TypeParam
	Args       *Arguments
	Returns    Expr
	Body       []Stmt
}

// ClassDef is a class statement located at the class keyword.
type ClassDef struct {
	Loc
	Name       string
	Decorators []Expr
	TypeParams []*TypeParam
	Bases      []Expr
	Keywords   []*Keyword
	Body       []Stmt
}

type Return struct {
	Loc
	Value Expr
}

type Delete struct {
	Loc
	Targets []Expr
}

// Assign is a (possibly chained) assignment a = b = value.
type Assign struct {
	Loc
	Targets []Expr
	Value   Expr
}

type AugAssign struct {
	Loc
	Target Expr
	Op     string
	Value  Expr
}

type AnnAssign struct {
	Loc
	Target     Expr
	Annotation Expr
	Value      Expr
}

type TypeAlias struct {
	Loc
	Name       *Name
	TypeParams []*TypeParam
	Value      Expr
}

type For struct {
	Loc
	Async  bool
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
}

type While struct {
	Loc
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

type If struct {
	Loc
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

type With struct {
	Loc
	Async bool
	Items []*WithItem
	Body  []Stmt
}

type Match struct {
	Loc
	Subject Expr
	Cases   []*MatchCase
}

type Raise struct {
	Loc
	Exc   Expr
	Cause Expr
}

// Try is a try statement.  Star is set for except* handlers.
type Try struct {
	Loc
	Body      []Stmt
	Handlers  []*ExceptHandler
	Orelse    []Stmt
	Finalbody []Stmt
	Star      bool
}

type Assert struct {
	Loc
	Test Expr
	Msg  Expr
}

type Import struct {
	Loc
	Names []*Alias
}

type ImportFrom struct {
	Loc
	Module string
	Names  []*Alias
	Level  int
}

type Global struct {
	Loc
	Names []string
}

type Nonlocal struct {
	Loc
	Names []string
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Loc
	Value Expr
}

type Pass struct{ Loc }

type Break struct{ Loc }

type Continue struct{ Loc }

func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
func (*Return) stmtNode()      {}
func (*Delete) stmtNode()      {}
func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*AnnAssign) stmtNode()   {}
func (*TypeAlias) stmtNode()   {}
func (*For) stmtNode()         {}
func (*While) stmtNode()       {}
func (*If) stmtNode()          {}
func (*With) stmtNode()        {}
func (*Match) stmtNode()       {}
func (*Raise) stmtNode()       {}
func (*Try) stmtNode()         {}
func (*Assert) stmtNode()      {}
func (*Import) stmtNode()      {}
func (*ImportFrom) stmtNode()  {}
func (*Global) stmtNode()      {}
func (*Nonlocal) stmtNode()    {}
func (*ExprStmt) stmtNode()    {}
func (*Pass) stmtNode()        {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
