// Package parsetree is the raw parse-tree representation handed to the
// core by the (out-of-scope, spec.md §1) parser: "a ParseAstArena whose
// nodes are addressable by integer local-pointers" (spec.md §6). The
// parser itself is not part of this module; this package only fixes the
// shape the reifier (internal/reify) consumes, mirroring the teacher's own
// convention of keeping the wire/input shape in its own small package
// (internal/lexer's token.go) separate from the working AST.
package parsetree

import "github.com/sunholo/ailang/internal/ast"

// Node is any raw parse-tree node; unlike internal/ast, nodes here carry no
// Symbol, no Scope, and no NecroType — those are filled in by later phases.
type Node interface {
	Pos() ast.Pos
	End() ast.Pos
}

type base struct {
	Loc, Endp ast.Pos
}

func (b base) Pos() ast.Pos { return b.Loc }
func (b base) End() ast.Pos { return b.Endp }

// Module is the parser's top-level output: a flat sequence of raw
// declarations (spec.md §6 "Parse-tree input").
type Module struct {
	base
	Decls []Decl
}

type Decl interface {
	Node
	declNode()
}

type SimpleAssignment struct {
	base
	Name        string
	Initializer Expr
	Rhs         *Rhs
}

func (*SimpleAssignment) declNode() {}

type ApatsAssignment struct {
	base
	Name  string
	Apats []Pattern
	Rhs   *Rhs
}

func (*ApatsAssignment) declNode() {}

type PatAssignment struct {
	base
	Pat Pattern
	Rhs *Rhs
}

func (*PatAssignment) declNode() {}

type Rhs struct {
	base
	Expr  Expr
	Where []Decl
}

type TypeSignature struct {
	base
	Names   []string
	Context []TypeClassContext
	Ty      Type
}

func (*TypeSignature) declNode() {}

type TypeClassContext struct {
	ClassName string
	VarNames  []string
}

type DataDeclaration struct {
	base
	ConName      string
	VarNames     []string
	Constructors []Constructor
}

func (*DataDeclaration) declNode() {}

type Constructor struct {
	ConName string
	Args    []Type
}

type TypeClassDeclaration struct {
	base
	ClassName string
	VarName   string
	Context   []TypeClassContext
	Methods   []*TypeSignature
	Defaults  []Decl
}

func (*TypeClassDeclaration) declNode() {}

type TypeClassInstance struct {
	base
	ClassName string
	ForType   Type
	Context   []TypeClassContext
	Methods   []Decl
}

func (*TypeClassInstance) declNode() {}

// Expr is any raw expression node.
type Expr interface {
	Node
	exprNode()
}

type Let struct {
	base
	Decls []Decl
	Body  Expr
}

func (*Let) exprNode() {}

type Lambda struct {
	base
	Apats []Pattern
	Body  Expr
}

func (*Lambda) exprNode() {}

type App struct {
	base
	Func Expr
	Arg  Expr
}

func (*App) exprNode() {}

type Var struct {
	base
	Name string
}

func (*Var) exprNode() {}

// LitKind tags what kind of raw token payload a Constant carries (spec.md
// §6 token payload union {float, int, uint, char, interned-symbol}).
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	CharLit
	StringLit
	BoolLit
	UnitLit
)

type Constant struct {
	base
	Kind  LitKind
	Int   int64
	Float float64
	Char  rune
	Str   string
	Bool  bool
}

func (*Constant) exprNode() {}

type IfThenElse struct {
	base
	Cond, Then, Else Expr
}

func (*IfThenElse) exprNode() {}

type Case struct {
	base
	Scrutinee Expr
	Alts      []CaseAlt
}

func (*Case) exprNode() {}

type CaseAlt struct {
	Pat  Pattern
	Body Expr
}

type Tuple struct {
	base
	Elems []Expr
}

func (*Tuple) exprNode() {}

type ExpressionList struct {
	base
	Elems []Expr
}

func (*ExpressionList) exprNode() {}

type ExpressionArray struct {
	base
	Elems []Expr
}

func (*ExpressionArray) exprNode() {}

type BinOp struct {
	base
	Op          string
	Left, Right Expr
}

func (*BinOp) exprNode() {}

type BinOpSym struct {
	base
	Op string
}

func (*BinOpSym) exprNode() {}

type OpLeftSection struct {
	base
	Left Expr
	Op   string
}

func (*OpLeftSection) exprNode() {}

type OpRightSection struct {
	base
	Op    string
	Right Expr
}

func (*OpRightSection) exprNode() {}

type ArithmeticSequence struct {
	base
	From, Then, To Expr
}

func (*ArithmeticSequence) exprNode() {}

type Do struct {
	base
	Stmts []DoStmt
}

func (*Do) exprNode() {}

type DoStmt interface {
	Node
	doStmtNode()
}

type BindAssignment struct {
	base
	Name string
	Expr Expr
}

func (*BindAssignment) doStmtNode() {}

type PatBindAssignment struct {
	base
	Pat  Pattern
	Expr Expr
}

func (*PatBindAssignment) doStmtNode() {}

type ExprStmt struct {
	base
	Expr Expr
}

func (*ExprStmt) doStmtNode() {}

type ForLoop struct {
	base
	IndexPat Pattern
	ValuePat Pattern
	RangeSeq Expr
	Body     Expr
}

func (*ForLoop) exprNode() {}

type WhileLoop struct {
	base
	Pred Expr
	Body Expr
}

func (*WhileLoop) exprNode() {}

type SeqExpression struct {
	base
	Elems []Expr
}

func (*SeqExpression) exprNode() {}

// Pattern is any raw pattern node.
type Pattern interface {
	Node
	patternNode()
}

type VarPattern struct {
	base
	Name string
}

func (*VarPattern) patternNode() {}

type Wildcard struct{ base }

func (*Wildcard) patternNode() {}

type ConstantPattern struct {
	base
	Value *Constant
}

func (*ConstantPattern) patternNode() {}

type ConstructorPattern struct {
	base
	ConName string
	Args    []Pattern
}

func (*ConstructorPattern) patternNode() {}

type TuplePattern struct {
	base
	Elems []Pattern
}

func (*TuplePattern) patternNode() {}

// Type is any raw surface-type node.
type Type interface {
	Node
	typeNode()
}

type ConId struct {
	base
	Name string
}

func (*ConId) typeNode() {}

type TypeVarRef struct {
	base
	Name string
}

func (*TypeVarRef) typeNode() {}

type TypeApp struct {
	base
	Func Type
	Arg  Type
}

func (*TypeApp) typeNode() {}

type FunctionType struct {
	base
	From Type
	To   Type
}

func (*FunctionType) typeNode() {}

type TypeAttribute struct {
	base
	Attr string
	Of   Type
}

func (*TypeAttribute) typeNode() {}
