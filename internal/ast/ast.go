// Package ast is the typed-AST produced by the reifier (spec.md §4.A) and
// carried, annotated in place, through scope building, renaming, dependency
// analysis, and inference.
//
// Grounded on the teacher's github.com/sunholo/ailang/internal/ast package:
// the Node/Expr/Pattern/Type interface split, the Pos/Span position model,
// and the String()-per-node debug rendering convention are kept; the node
// set itself is replaced with the ~40 variants spec.md §3 names for Necro's
// Haskell-like surface (algebraic data, type classes, sections, sequence
// expressions, for/while loops) in place of AILANG's record/effect surface.
package ast

import (
	"fmt"
	"strings"

	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

// Pos is a source location; Necro never sees multi-file spans across a
// single compilation, so File is carried for diagnostics only.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Node is implemented by every AST variant (spec.md §3: "Every node carries
// source_loc, end_loc, scope, and (after inference) necro_type").
type Node interface {
	String() string
	SourceLoc() Pos
	EndLoc() Pos
	// NecroType returns the node's inferred type, nil before §4.E.
	NecroType() *types.Type
	SetNecroType(*types.Type)
}

// base is embedded by every node to provide the common Node fields without
// repeating them forty times; this mirrors the teacher's CoreNode pattern
// later reused in internal/core.
type base struct {
	Loc    Pos
	End    Pos
	Scope  *Scope // filled in by internal/scope, nil before phase B
	Type   *types.Type
}

func (b *base) SourceLoc() Pos            { return b.Loc }
func (b *base) EndLoc() Pos               { return b.End }
func (b *base) NecroType() *types.Type    { return b.Type }
func (b *base) SetNecroType(t *types.Type) { b.Type = t }
func (b *base) SetScope(s *Scope)         { b.Scope = s }
func (b *base) GetScope() *Scope          { return b.Scope }

// Scope is a thin forward declaration; internal/scope owns the real
// implementation and assigns *Scope values onto nodes, avoiding an import
// cycle between ast and scope.
type Scope struct {
	Parent  *Scope
	Names   map[string]symbol.ID
}

func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, Names: make(map[string]symbol.ID)}
}

func (s *Scope) Define(name string, id symbol.ID) { s.Names[name] = id }

func (s *Scope) Resolve(name string) (symbol.ID, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if id, ok := sc.Names[name]; ok {
			return id, true
		}
	}
	return 0, false
}

// ---------------------------------------------------------------------
// Top-level structure
// ---------------------------------------------------------------------

// TopDecl is the root node of a reified module: a sequence of declarations.
type TopDecl struct {
	base
	Decls []Decl
}

func (n *TopDecl) String() string {
	parts := make([]string, len(n.Decls))
	for i, d := range n.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}

// Decl is any top-level declaration form.
type Decl interface {
	Node
	declNode()
}

// DeclarationGroupList is the phase-D output: an ordered sequence of SCC
// groups (spec.md §3 "Declaration groups").
type DeclarationGroupList struct {
	base
	Groups []*DeclarationGroup
}

func (n *DeclarationGroupList) String() string {
	parts := make([]string, len(n.Groups))
	for i, g := range n.Groups {
		parts[i] = g.String()
	}
	return strings.Join(parts, "\n---\n")
}

// DeclarationGroup is a single strongly-connected component. Members share
// a DeclarationsInfo record (spec.md §9) referenced by index.
type DeclarationGroup struct {
	base
	Members   []Decl
	InfoIndex int
}

func (n *DeclarationGroup) String() string {
	parts := make([]string, len(n.Members))
	for i, m := range n.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, "\n")
}

func (n *DeclarationGroup) IsRecursiveGroup() bool { return len(n.Members) > 1 }

// ---------------------------------------------------------------------
// DECL forms
// ---------------------------------------------------------------------

// SimpleAssignment: `name = rhs` or, with an initializer, `name ~ init = rhs`.
type SimpleAssignment struct {
	base
	Symbol      symbol.ID
	Name        string
	Initializer Expr // non-nil for `~ init = rhs` recursive-value form
	Rhs         *Rhs
}

func (n *SimpleAssignment) declNode() {}
func (n *SimpleAssignment) String() string {
	if n.Initializer != nil {
		return fmt.Sprintf("%s ~ %s = %s", n.Name, n.Initializer, n.Rhs)
	}
	return fmt.Sprintf("%s = %s", n.Name, n.Rhs)
}

// ApatsAssignment: `name apat1 apat2 ... = rhs` (function-clause form).
type ApatsAssignment struct {
	base
	Symbol symbol.ID
	Name   string
	Apats  []Pattern
	Rhs    *Rhs
}

func (n *ApatsAssignment) declNode() {}
func (n *ApatsAssignment) String() string {
	parts := make([]string, len(n.Apats))
	for i, p := range n.Apats {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s %s = %s", n.Name, strings.Join(parts, " "), n.Rhs)
}

// PatAssignment: a pattern on the LHS, e.g. `(a, b) = pair`.
type PatAssignment struct {
	base
	Pat Pattern
	Rhs *Rhs
}

func (n *PatAssignment) declNode() {}
func (n *PatAssignment) String() string { return fmt.Sprintf("%s = %s", n.Pat, n.Rhs) }

// Rhs is a right-hand side, optionally with a `where` clause.
type Rhs struct {
	base
	Expr  Expr
	Where []Decl
}

func (n *Rhs) String() string {
	if len(n.Where) == 0 {
		return n.Expr.String()
	}
	wheres := make([]string, len(n.Where))
	for i, w := range n.Where {
		wheres[i] = w.String()
	}
	return fmt.Sprintf("%s where %s", n.Expr, strings.Join(wheres, "; "))
}

// TypeSignature: `name :: ty` possibly under a class context.
type TypeSignature struct {
	base
	Names   []string
	Context []*TypeClassContext
	Ty      Type
}

func (n *TypeSignature) declNode() {}
func (n *TypeSignature) String() string {
	return fmt.Sprintf("%s :: %s", strings.Join(n.Names, ", "), n.Ty)
}

// TypeClassContext: a single `Class a` constraint appearing before `=>`.
type TypeClassContext struct {
	base
	ClassName string
	VarNames  []string
}

func (n *TypeClassContext) String() string {
	return fmt.Sprintf("%s %s", n.ClassName, strings.Join(n.VarNames, " "))
}

// DataDeclaration: `data T a1 .. an = C1 t.. | C2 t.. | ...`.
type DataDeclaration struct {
	base
	Symbol       symbol.ID
	SimpleType   *SimpleType
	Constructors []*Constructor
}

func (n *DataDeclaration) declNode() {}
func (n *DataDeclaration) String() string {
	parts := make([]string, len(n.Constructors))
	for i, c := range n.Constructors {
		parts[i] = c.String()
	}
	return fmt.Sprintf("data %s = %s", n.SimpleType, strings.Join(parts, " | "))
}

// SimpleType: the LHS of a data declaration, `T a1 .. an`.
type SimpleType struct {
	base
	ConName  string
	VarNames []string
}

func (n *SimpleType) String() string {
	if len(n.VarNames) == 0 {
		return n.ConName
	}
	return n.ConName + " " + strings.Join(n.VarNames, " ")
}

// Constructor: one alternative of a data declaration.
type Constructor struct {
	base
	Symbol  symbol.ID
	ConName string
	Args    []Type
}

func (n *Constructor) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	if len(parts) == 0 {
		return n.ConName
	}
	return n.ConName + " " + strings.Join(parts, " ")
}

// TypeClassDeclaration: `class Ctx => ClassName a where method :: ty ...`.
type TypeClassDeclaration struct {
	base
	Symbol    symbol.ID
	ClassName string
	VarName   string
	Context   []*TypeClassContext
	Methods   []*TypeSignature
	Defaults  []Decl
}

func (n *TypeClassDeclaration) declNode() {}
func (n *TypeClassDeclaration) String() string {
	return fmt.Sprintf("class %s %s where ...", n.ClassName, n.VarName)
}

// TypeClassInstance: `instance Ctx => ClassName T where method = ...`.
type TypeClassInstance struct {
	base
	ClassName string
	ForType   Type
	Context   []*TypeClassContext
	Methods   []Decl
}

func (n *TypeClassInstance) declNode() {}
func (n *TypeClassInstance) String() string {
	return fmt.Sprintf("instance %s %s where ...", n.ClassName, n.ForType)
}

// Key returns the "Class@Con" lookup key spec.md §4.D uses for forced
// super-class-instance dependency edges.
func (n *TypeClassInstance) Key() string {
	return n.ClassName + "@" + headConName(n.ForType)
}

func headConName(t Type) string {
	switch t := t.(type) {
	case *TypeCon:
		return t.Name
	case *TypeApp:
		return headConName(t.Func)
	default:
		return t.String()
	}
}

// ---------------------------------------------------------------------
// EXPR forms
// ---------------------------------------------------------------------

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Let: `let <DeclarationGroupList> in body`.
type Let struct {
	base
	Groups *DeclarationGroupList
	Body   Expr
}

func (n *Let) exprNode() {}
func (n *Let) String() string { return fmt.Sprintf("let %s in %s", n.Groups, n.Body) }

// Lambda: `\apat1 apat2 -> body`.
type Lambda struct {
	base
	Apats []Pattern
	Body  Expr
}

func (n *Lambda) exprNode() {}
func (n *Lambda) String() string {
	parts := make([]string, len(n.Apats))
	for i, p := range n.Apats {
		parts[i] = p.String()
	}
	return fmt.Sprintf("\\%s -> %s", strings.Join(parts, " "), n.Body)
}

// App: function application, left-associated pairwise (App is always
// binary; curried application is nested Apps, matching the source's
// `uncurry_app` / curried-view convention for TYPE_APP described in
// spec.md §3).
type App struct {
	base
	Func Expr
	Arg  Expr
}

func (n *App) exprNode() {}
func (n *App) String() string { return fmt.Sprintf("(%s %s)", n.Func, n.Arg) }

// Var: a variable occurrence. InstSubs records the use-site instantiation
// substitutions recorded during inference (spec.md §4.F); empty until then.
type Var struct {
	base
	Symbol   symbol.ID
	Name     string
	InstSubs []InstSub
}

func (n *Var) exprNode() {}
func (n *Var) String() string { return n.Name }

// InstSub is one (var_to_replace, new_name) pair of a monomorphization
// substitution (spec.md §4.F).
type InstSub struct {
	VarToReplace string
	NewName      string
	NewType      *types.Type
}

// Constant: a literal, numeric literals being tagged for later
// fromInt/fromRational desugaring at reification time (spec.md §4.A).
type Constant struct {
	base
	Kind  ConstKind
	Int   int64
	Float float64
	Char  rune
	Str   string
	Bool  bool
}

type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstChar
	ConstString
	ConstBool
	ConstUnit
)

func (n *Constant) exprNode() {}
func (n *Constant) String() string {
	switch n.Kind {
	case ConstInt:
		return fmt.Sprintf("%d", n.Int)
	case ConstFloat:
		return fmt.Sprintf("%g", n.Float)
	case ConstChar:
		return fmt.Sprintf("%q", n.Char)
	case ConstString:
		return fmt.Sprintf("%q", n.Str)
	case ConstBool:
		return fmt.Sprintf("%t", n.Bool)
	default:
		return "()"
	}
}

// IfThenElse: `if c then t else e`.
type IfThenElse struct {
	base
	Cond, Then, Else Expr
}

func (n *IfThenElse) exprNode() {}
func (n *IfThenElse) String() string {
	return fmt.Sprintf("if %s then %s else %s", n.Cond, n.Then, n.Else)
}

// Case: `case scrutinee of alt1; alt2; ...`.
type Case struct {
	base
	Scrutinee Expr
	Alts      []*CaseAlt
}

func (n *Case) exprNode() {}
func (n *Case) String() string {
	parts := make([]string, len(n.Alts))
	for i, a := range n.Alts {
		parts[i] = a.String()
	}
	return fmt.Sprintf("case %s of %s", n.Scrutinee, strings.Join(parts, "; "))
}

// CaseAlt is one alternative of a Case.
type CaseAlt struct {
	base
	Pat  Pattern
	Body Expr
}

func (n *CaseAlt) String() string { return fmt.Sprintf("%s -> %s", n.Pat, n.Body) }

// Tuple: `(e1, e2, ..., en)`.
type Tuple struct {
	base
	Elems []Expr
}

func (n *Tuple) exprNode() {}
func (n *Tuple) String() string {
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ExpressionList: `[e1, e2, ..., en]` (cons-list literal).
type ExpressionList struct {
	base
	Elems []Expr
}

func (n *ExpressionList) exprNode() {}
func (n *ExpressionList) String() string {
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ExpressionArray: literal `Array n a` array syntax `{e1, e2, ..., en}`.
type ExpressionArray struct {
	base
	Elems []Expr
}

func (n *ExpressionArray) exprNode() {}
func (n *ExpressionArray) String() string {
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// PatExpression wraps a pattern used in an expression position (as-pattern
// binders reaching into do-notation / list comprehension contexts).
type PatExpression struct {
	base
	Pat Pattern
}

func (n *PatExpression) exprNode() {}
func (n *PatExpression) String() string { return n.Pat.String() }

// ListNode is the desugared cons-spine a front-end ExpressionList lowers to
// on its way toward Core; kept distinct from ExpressionList so the reifier
// can defer the decision of whether a literal list needs spine-splitting.
type ListNode struct {
	base
	Head Expr
	Tail Expr // nil for the final Nil
}

func (n *ListNode) exprNode() {}
func (n *ListNode) String() string {
	if n.Tail == nil {
		return fmt.Sprintf("%s : []", n.Head)
	}
	return fmt.Sprintf("%s : %s", n.Head, n.Tail)
}

// BinOp: `l op r` for a resolved binary operator symbol.
type BinOp struct {
	base
	Op       string
	OpSymbol symbol.ID
	Left     Expr
	Right    Expr
}

func (n *BinOp) exprNode() {}
func (n *BinOp) String() string { return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right) }

// BinOpSym: a bare operator reference used as a first-class value, e.g. in
// `foldr (+) 0`.
type BinOpSym struct {
	base
	Op       string
	OpSymbol symbol.ID
}

func (n *BinOpSym) exprNode() {}
func (n *BinOpSym) String() string { return "(" + n.Op + ")" }

// OpLeftSection: `(e op)`, i.e. \y -> e op y.
type OpLeftSection struct {
	base
	Left Expr
	Op   string
}

func (n *OpLeftSection) exprNode() {}
func (n *OpLeftSection) String() string { return fmt.Sprintf("(%s %s)", n.Left, n.Op) }

// OpRightSection: `(op e)`, i.e. \x -> x op e.
type OpRightSection struct {
	base
	Op    string
	Right Expr
}

func (n *OpRightSection) exprNode() {}
func (n *OpRightSection) String() string { return fmt.Sprintf("(%s %s)", n.Op, n.Right) }

// ArithmeticSequence: `[from, then .. to]` style range literal.
type ArithmeticSequence struct {
	base
	From Expr
	Then Expr // optional step
	To   Expr // optional bound
}

func (n *ArithmeticSequence) exprNode() {}
func (n *ArithmeticSequence) String() string {
	switch {
	case n.To != nil && n.Then != nil:
		return fmt.Sprintf("[%s, %s .. %s]", n.From, n.Then, n.To)
	case n.To != nil:
		return fmt.Sprintf("[%s .. %s]", n.From, n.To)
	default:
		return fmt.Sprintf("[%s ..]", n.From)
	}
}

// Do: a do-notation block desugared later into >>= chains during core
// translation (spec.md §4.G treats do-notation via the Monad class).
type Do struct {
	base
	Stmts []DoStmt
}

func (n *Do) exprNode() {}
func (n *Do) String() string {
	parts := make([]string, len(n.Stmts))
	for i, s := range n.Stmts {
		parts[i] = s.String()
	}
	return "do { " + strings.Join(parts, "; ") + " }"
}

// DoStmt is one statement of a do-block: a bind, a pattern-bind, or a bare
// expression (the final statement).
type DoStmt interface {
	Node
	doStmtNode()
}

// BindAssignment: `name <- expr`.
type BindAssignment struct {
	base
	Symbol symbol.ID
	Name   string
	Expr   Expr
}

func (n *BindAssignment) doStmtNode() {}
func (n *BindAssignment) String() string { return fmt.Sprintf("%s <- %s", n.Name, n.Expr) }

// PatBindAssignment: `pat <- expr`.
type PatBindAssignment struct {
	base
	Pat  Pattern
	Expr Expr
}

func (n *PatBindAssignment) doStmtNode() {}
func (n *PatBindAssignment) String() string { return fmt.Sprintf("%s <- %s", n.Pat, n.Expr) }

// ExprStmt wraps a plain expression statement inside a do-block.
type ExprStmt struct {
	base
	Expr Expr
}

func (n *ExprStmt) doStmtNode() {}
func (n *ExprStmt) String() string { return n.Expr.String() }

// ForLoop: `for ipat in range { body }`.
type ForLoop struct {
	base
	IndexPat Pattern
	ValuePat Pattern
	RangeSeq Expr
	Body     Expr
}

func (n *ForLoop) exprNode() {}
func (n *ForLoop) String() string {
	return fmt.Sprintf("for %s in %s { %s }", n.ValuePat, n.RangeSeq, n.Body)
}

// WhileLoop: `while pred { body }`.
type WhileLoop struct {
	base
	Pred Expr
	Body Expr
}

func (n *WhileLoop) exprNode() {}
func (n *WhileLoop) String() string { return fmt.Sprintf("while %s { %s }", n.Pred, n.Body) }

// SeqExpression: a sequence-expression literal, `{| e1, e2, e3 |}` style,
// desugared during core translation into a `tick`-driven accumulator
// wrapped in the `Seq` constructor (spec.md §4.G).
type SeqExpression struct {
	base
	Elems []Expr
}

func (n *SeqExpression) exprNode() {}
func (n *SeqExpression) String() string {
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = e.String()
	}
	return "{| " + strings.Join(parts, ", ") + " |}"
}

// ---------------------------------------------------------------------
// PATTERN forms
// ---------------------------------------------------------------------

// Pattern is any pattern node (LHS of a case alt, a lambda apat, etc.)
type Pattern interface {
	Node
	patternNode()
}

// VarPattern binds a fresh name.
type VarPattern struct {
	base
	Symbol symbol.ID
	Name   string
}

func (n *VarPattern) patternNode() {}
func (n *VarPattern) String() string { return n.Name }

// Wildcard: `_`.
type Wildcard struct{ base }

func (n *Wildcard) patternNode() {}
func (n *Wildcard) String() string { return "_" }

// ConstantPattern matches a literal.
type ConstantPattern struct {
	base
	Value *Constant
}

func (n *ConstantPattern) patternNode() {}
func (n *ConstantPattern) String() string { return n.Value.String() }

// ConstructorPattern: `Con p1 p2 ...`.
type ConstructorPattern struct {
	base
	Symbol  symbol.ID
	ConName string
	Args    []Pattern
}

func (n *ConstructorPattern) patternNode() {}
func (n *ConstructorPattern) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	if len(parts) == 0 {
		return n.ConName
	}
	return n.ConName + " " + strings.Join(parts, " ")
}

// TuplePattern: `(p1, p2, ..., pn)`.
type TuplePattern struct {
	base
	Elems []Pattern
}

func (n *TuplePattern) patternNode() {}
func (n *TuplePattern) String() string {
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Apats is a flat list of patterns used by ApatsAssignment / Lambda; kept
// as a distinct node to match spec.md's APATS variant used when the
// pattern list itself needs a source span (e.g. an empty parameter list).
type Apats struct {
	base
	Pats []Pattern
}

func (n *Apats) String() string {
	parts := make([]string, len(n.Pats))
	for i, p := range n.Pats {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// ---------------------------------------------------------------------
// TYPE forms (surface syntax, distinct from internal/types.Type which is
// the inference-engine representation built from these by the reifier)
// ---------------------------------------------------------------------

// Type is any surface type node.
type Type interface {
	Node
	typeNode()
}

// ConId: a bare constructor identifier, e.g. `Int`, `Array`.
type ConId struct {
	base
	Name string
}

func (n *ConId) typeNode() {}
func (n *ConId) String() string { return n.Name }

// TypeVarRef: a lowercase type variable occurrence in a signature.
type TypeVarRef struct {
	base
	Name string
}

func (n *TypeVarRef) typeNode() {}
func (n *TypeVarRef) String() string { return n.Name }

// TypeCon: a named type constructor applied to a list of argument types,
// already uncurried (spec.md §3: "TYPE_APP forms are curried views,
// uncurried before kind checking by uncurry_app").
type TypeCon struct {
	base
	Name string
	Args []Type
}

func (n *TypeCon) typeNode() {}
func (n *TypeCon) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Name + " " + strings.Join(parts, " ")
}

// TypeApp: a curried type application `f x`, normalized to TypeCon by
// uncurry_app before kind checking.
type TypeApp struct {
	base
	Func Type
	Arg  Type
}

func (n *TypeApp) typeNode() {}
func (n *TypeApp) String() string { return fmt.Sprintf("(%s %s)", n.Func, n.Arg) }

// FunctionType: `a -> b`.
type FunctionType struct {
	base
	From Type
	To   Type
}

func (n *FunctionType) typeNode() {}
func (n *FunctionType) String() string { return fmt.Sprintf("(%s -> %s)", n.From, n.To) }

// TypeAttribute attaches a uniqueness attribute (`Shared`/`Unique`) to a
// type, spec.md §4.E "Uniqueness inference": never inferred, always
// explicit on a signature.
type TypeAttribute struct {
	base
	Attr string // "Shared" or "Unique"
	Of   Type
}

func (n *TypeAttribute) typeNode() {}
func (n *TypeAttribute) String() string { return fmt.Sprintf("%s %s", n.Attr, n.Of) }

// UncurryTypeApp flattens a left-nested TypeApp chain into a TypeCon,
// matching the source's `uncurry_app` helper referenced in spec.md §3.
func UncurryTypeApp(t Type) Type {
	var args []Type
	cur := t
	for {
		app, ok := cur.(*TypeApp)
		if !ok {
			break
		}
		args = append([]Type{app.Arg}, args...)
		cur = app.Func
	}
	if con, ok := cur.(*ConId); ok {
		if len(args) == 0 {
			return con
		}
		return &TypeCon{base: con.base, Name: con.Name, Args: args}
	}
	return t
}
