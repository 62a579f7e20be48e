// Package core implements the Core IR (spec.md §3 "Core IR") and the
// AST→Core lowering of phase G (spec.md §4.G).
//
// Grounded on the teacher's github.com/sunholo/ailang/internal/core
// package: the CoreNode/CoreExpr embedding convention and the ANF-styled
// node set are kept; the variant list itself is replaced with spec.md's
// VAR/LIT/APP/LAM/LET/BIND/BIND_REC/CASE/CASE_ALT/DATA_DECL/DATA_CON/LOOP
// in place of AILANG's Record/Match/Intrinsic/DictRef surface, since Necro
// has no row-polymorphic records or dictionary-passing type classes (it
// monomorphizes instead, see internal/mono).
package core

import (
	"fmt"
	"strings"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

// CoreNode is embedded by every Core IR node (spec.md §3: "Every Core node
// has a necro_type").
type CoreNode struct {
	NodeID   uint64
	CoreSpan ast.Pos
	OrigSpan ast.Pos
	Type     types.Type
}

// CoreExpr is the base interface for every Core node.
type CoreExpr interface {
	ID() uint64
	Span() ast.Pos
	OriginalSpan() ast.Pos
	NecroType() types.Type
	String() string
	coreExpr()
}

func (n *CoreNode) ID() uint64            { return n.NodeID }
func (n *CoreNode) Span() ast.Pos         { return n.CoreSpan }
func (n *CoreNode) OriginalSpan() ast.Pos { return n.OrigSpan }
func (n *CoreNode) NecroType() types.Type { return n.Type }

var nodeIDCounter uint64

// NextNodeID allocates a fresh, monotonically increasing Core node id.
func NextNodeID() uint64 {
	nodeIDCounter++
	return nodeIDCounter
}

// Var is a variable reference.
type Var struct {
	CoreNode
	Symbol symbol.ID
	Name   string
}

func (v *Var) coreExpr()      {}
func (v *Var) String() string { return v.Name }

// LitKind tags a Lit's payload (spec.md §3: CONSTANT literals).
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	CharLit
	StringLit
	BoolLit
	UnitLit
)

// Lit is a literal value.
type Lit struct {
	CoreNode
	Kind  LitKind
	Value interface{}
}

func (l *Lit) coreExpr()      {}
func (l *Lit) String() string { return fmt.Sprintf("%v", l.Value) }

// Lam is a (possibly multi-parameter, uncurried-for-readability) lambda.
type Lam struct {
	CoreNode
	Params []symbol.ID
	Names  []string
	Body   CoreExpr
}

func (l *Lam) coreExpr() {}
func (l *Lam) String() string {
	return fmt.Sprintf("(\\%s -> %s)", strings.Join(l.Names, " "), l.Body)
}

// App is function application; in ANF args are atomic, but this Core IR
// (matching spec.md §3, not a strict-ANF IR) allows arbitrary CoreExpr
// arguments — atomicity is only enforced as a defunctionalization-stage
// invariant, not a representation constraint.
type App struct {
	CoreNode
	Func CoreExpr
	Arg  CoreExpr
}

func (a *App) coreExpr()      {}
func (a *App) String() string { return fmt.Sprintf("(%s %s)", a.Func, a.Arg) }

// Let is a non-recursive single binding with a body expression (spec.md
// §3: "LET (non-recursive single binding with a body expression)").
type Let struct {
	CoreNode
	Symbol symbol.ID
	Name   string
	Value  CoreExpr
	Body   CoreExpr
}

func (l *Let) coreExpr() {}
func (l *Let) String() string {
	return fmt.Sprintf("let %s = %s in %s", l.Name, l.Value, l.Body)
}

// Bind is a top-level or declaration-group binding, optionally carrying an
// initializer (the `~ init = rhs` recursive-value form, spec.md §4.E) and
// an IsRecursive flag realizing BIND_REC (spec.md's open question,
// resolved in DESIGN.md: "BIND + is_recursive flag", matching the source).
type Bind struct {
	CoreNode
	Symbol      symbol.ID
	Name        string
	Initializer CoreExpr // nil unless this is a `~ init = rhs` binding
	Value       CoreExpr
	IsRecursive bool
	StateType   symbol.StateType // set by internal/stateanalysis (phase K)
}

func (b *Bind) coreExpr() {}
func (b *Bind) String() string {
	if b.Initializer != nil {
		return fmt.Sprintf("bind %s ~ %s = %s", b.Name, b.Initializer, b.Value)
	}
	return fmt.Sprintf("bind %s = %s", b.Name, b.Value)
}

// CorePattern is a Core-level pattern used by Case (simplified relative to
// ast.Pattern: constructor patterns are flat, nested patterns have already
// been linearized into nested Case nodes by phase G).
type CorePattern interface {
	String() string
	corePattern()
}

type PVar struct {
	Symbol symbol.ID
	Name   string
}

func (p *PVar) corePattern()  {}
func (p *PVar) String() string { return p.Name }

type PWildcard struct{}

func (p *PWildcard) corePattern()  {}
func (p *PWildcard) String() string { return "_" }

type PLit struct {
	Kind  LitKind
	Value interface{}
}

func (p *PLit) corePattern()  {}
func (p *PLit) String() string { return fmt.Sprintf("%v", p.Value) }

// PCon matches a saturated data constructor, binding each field to a
// fresh name (Core patterns are always "flat": one constructor, N var
// binders, matching the ANF-adjacent shape the defunctionalizer later
// expects when it unpacks EnvN values with exactly this pattern kind).
type PCon struct {
	ConName string
	Fields  []string
	Symbols []symbol.ID
}

func (p *PCon) corePattern() {}
func (p *PCon) String() string {
	return fmt.Sprintf("%s %s", p.ConName, strings.Join(p.Fields, " "))
}

// CaseAlt is one alternative of a Case.
type CaseAlt struct {
	Pattern CorePattern
	Body    CoreExpr
}

// Case is pattern-match dispatch (spec.md §3 CASE/CASE_ALT).
type Case struct {
	CoreNode
	Scrutinee  CoreExpr
	Alts       []CaseAlt
	Exhaustive bool // set true by passes that build every alternative themselves (if/then/else, deep-copy, defunc dispatch); no pass checks other Cases for coverage
}

func (c *Case) coreExpr() {}
func (c *Case) String() string {
	parts := make([]string, len(c.Alts))
	for i, a := range c.Alts {
		parts[i] = fmt.Sprintf("%s -> %s", a.Pattern, a.Body)
	}
	return fmt.Sprintf("case %s of { %s }", c.Scrutinee, strings.Join(parts, "; "))
}

// DataCon is one constructor of a DataDecl.
type DataCon struct {
	Symbol symbol.ID
	Name   string
	Fields []types.Type
	Tag    int // 0-based alternative index, in declaration order
}

func (d *DataCon) String() string { return d.Name }

// DataDecl is a data-type declaration surviving into Core (polymorphic
// data declarations are kept per spec.md §4.G; polymorphic *values* are
// dropped).
type DataDecl struct {
	CoreNode
	Symbol       symbol.ID
	Name         string
	TypeParams   []string
	Constructors []*DataCon
}

func (d *DataDecl) coreExpr() {}
func (d *DataDecl) String() string {
	parts := make([]string, len(d.Constructors))
	for i, c := range d.Constructors {
		parts[i] = c.String()
	}
	return fmt.Sprintf("data %s = %s", d.Name, strings.Join(parts, " | "))
}

// LoopKind distinguishes a FOR range-loop from a WHILE predicate-loop.
type LoopKind int

const (
	ForLoop LoopKind = iota
	WhileLoop
)

// Loop realizes both FOR_LOOP and WHILE_LOOP as one node (spec.md §3:
// "LOOP (either FOR with a range-init + max-loops or WHILE with a
// predicate)").
type Loop struct {
	CoreNode
	Kind LoopKind

	// FOR fields
	IndexSymbol symbol.ID
	IndexName   string
	ValueSymbol symbol.ID
	ValueName   string
	RangeInit   CoreExpr
	MaxLoops    CoreExpr

	// WHILE fields
	Predicate CoreExpr

	Body CoreExpr
}

func (l *Loop) coreExpr() {}
func (l *Loop) String() string {
	if l.Kind == ForLoop {
		return fmt.Sprintf("for %s in %s (max %s) { %s }", l.ValueName, l.RangeInit, l.MaxLoops, l.Body)
	}
	return fmt.Sprintf("while %s { %s }", l.Predicate, l.Body)
}

// Program is the root of a CoreAstArena: a chain of LET nodes terminating
// in nil, each binding either a DataDecl or a Bind (spec.md §6 "Core
// output").
type Program struct {
	Binds []CoreExpr // each element is *DataDecl or *Bind, in dependency order
}

func (p *Program) String() string {
	parts := make([]string, len(p.Binds))
	for i, b := range p.Binds {
		parts[i] = b.String()
	}
	return strings.Join(parts, "\n")
}
