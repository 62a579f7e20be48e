package core

import (
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

// Translator lowers a monomorphic, fully-typed AST (phase F output) into
// Core IR (spec.md §4.G). Grounded on the teacher's general "one function
// per AST case" translation style seen across internal/elaborate/
// expressions.go, generalized to Necro's node set.
type Translator struct {
	Module *symbol.Module
}

func NewTranslator(mod *symbol.Module) *Translator { return &Translator{Module: mod} }

func span(n ast.Node) (ast.Pos, ast.Pos) { return n.SourceLoc(), n.EndLoc() }

func necroTypeOf(n ast.Node) types.Type {
	if t := n.NecroType(); t != nil {
		return *t
	}
	return nil
}

// TranslateDecl lowers one top-level declaration form into a Bind or
// DataDecl (spec.md §4.G):
//   - SIMPLE_ASSIGNMENT → BIND with optional initializer
//   - APATS_ASSIGNMENT  → BIND whose RHS is a chain of LAM; non-variable
//     apats become a fresh variable plus a nested CASE
//   - DATA_DECLARATION  → DATA_DECL (kept; see spec.md "polymorphic data
//     declarations are kept")
//
// Type signatures, class declarations and instances are dropped here
// (TranslateDecl returns nil for them). Value bindings are lowered
// whether or not their scheme is polymorphic; no polymorphic value is
// dropped.
func (tr *Translator) TranslateDecl(d ast.Decl) CoreExpr {
	switch d := d.(type) {
	case *ast.SimpleAssignment:
		loc, end := span(d)
		var init CoreExpr
		if d.Initializer != nil {
			init = tr.TranslateExpr(d.Initializer)
		}
		return &Bind{
			CoreNode:    CoreNode{NodeID: NextNodeID(), CoreSpan: loc, OrigSpan: end, Type: necroTypeOf(d)},
			Symbol:      d.Symbol,
			Name:        d.Name,
			Initializer: init,
			Value:       tr.TranslateExpr(d.Rhs.Expr),
			IsRecursive: d.Initializer != nil,
		}

	case *ast.ApatsAssignment:
		loc, end := span(d)
		body := tr.TranslateExpr(d.Rhs.Expr)
		lam := tr.buildLambdaChain(d.Apats, body)
		return &Bind{
			CoreNode: CoreNode{NodeID: NextNodeID(), CoreSpan: loc, OrigSpan: end, Type: necroTypeOf(d)},
			Symbol:   d.Symbol,
			Name:     d.Name,
			Value:    lam,
		}

	case *ast.PatAssignment:
		// PAT_ASSIGNMENT → CASE on the RHS with a single alternative
		// (spec.md §4.G), here wrapped back into a synthetic Bind so it
		// can sit in a DeclarationGroup like any other declaration.
		loc, end := span(d)
		rhs := tr.TranslateExpr(d.Rhs.Expr)
		pat, binders := tr.TranslatePattern(d.Pat)
		body := buildTupleOfBinders(binders)
		caseExpr := &Case{
			CoreNode:  CoreNode{NodeID: NextNodeID(), CoreSpan: loc, OrigSpan: end},
			Scrutinee: rhs,
			Alts:      []CaseAlt{{Pattern: pat, Body: body}},
		}
		return &Bind{
			CoreNode: CoreNode{NodeID: NextNodeID(), CoreSpan: loc, OrigSpan: end},
			Name:     "_patBind",
			Value:    caseExpr,
		}

	case *ast.DataDeclaration:
		loc, end := span(d)
		cons := make([]*DataCon, len(d.Constructors))
		for i, c := range d.Constructors {
			cons[i] = &DataCon{Symbol: c.Symbol, Name: c.ConName, Tag: i}
		}
		return &DataDecl{
			CoreNode:     CoreNode{NodeID: NextNodeID(), CoreSpan: loc, OrigSpan: end},
			Symbol:       d.Symbol,
			Name:         d.SimpleType.ConName,
			TypeParams:   append([]string{}, d.SimpleType.VarNames...),
			Constructors: cons,
		}

	default:
		// TYPE_SIGNATURE / TYPE_CLASS_DECLARATION / TYPE_CLASS_INSTANCE:
		// dropped at this phase per spec.md §4.G.
		return nil
	}
}

// buildTupleOfBinders assembles the synthetic body of a PAT_ASSIGNMENT's
// CASE: a single binder is returned bare, several are packed into the
// matching tuple constructor.
func buildTupleOfBinders(binders []string) CoreExpr {
	if len(binders) == 1 {
		return &Var{Name: binders[0]}
	}
	var result CoreExpr = &Var{Name: tupleConName(len(binders))}
	for _, b := range binders {
		result = &App{Func: result, Arg: &Var{Name: b}}
	}
	return result
}

// buildLambdaChain lowers non-variable apats (patterns) to a fresh
// variable plus a nested CASE on that variable, as spec.md §4.G directs:
// "Non-variable apats (patterns) are lowered to a fresh variable plus a
// nested CASE on that variable."
func (tr *Translator) buildLambdaChain(apats []ast.Pattern, body CoreExpr) CoreExpr {
	params := make([]symbol.ID, len(apats))
	names := make([]string, len(apats))
	wrapped := body
	for i := len(apats) - 1; i >= 0; i-- {
		p := apats[i]
		if vp, ok := p.(*ast.VarPattern); ok {
			params[i] = vp.Symbol
			names[i] = vp.Name
			continue
		}
		fresh := freshName("apat")
		names[i] = fresh
		corePat, _ := tr.TranslatePattern(p)
		wrapped = &Case{
			Scrutinee: &Var{Name: fresh},
			Alts:      []CaseAlt{{Pattern: corePat, Body: wrapped}},
		}
	}
	return &Lam{Params: params, Names: names, Body: wrapped}
}

var freshCounter int

func freshName(prefix string) string {
	freshCounter++
	return prefix + "$" + itoa(freshCounter)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// TranslateExpr lowers one expression node (spec.md §4.G).
func (tr *Translator) TranslateExpr(e ast.Expr) CoreExpr {
	switch e := e.(type) {
	case *ast.Var:
		return &Var{CoreNode: coreNodeOf(e), Symbol: e.Symbol, Name: e.Name}

	case *ast.Constant:
		return tr.translateConstant(e)

	case *ast.App:
		return &App{CoreNode: coreNodeOf(e), Func: tr.TranslateExpr(e.Func), Arg: tr.TranslateExpr(e.Arg)}

	case *ast.Lambda:
		return tr.buildLambdaChain(e.Apats, tr.TranslateExpr(e.Body))

	case *ast.Let:
		return tr.translateLet(e)

	case *ast.IfThenElse:
		// IF_THEN_ELSE → CASE on a Bool with two alternatives (spec.md §4.G).
		return &Case{
			CoreNode: coreNodeOf(e),
			Scrutinee: tr.TranslateExpr(e.Cond),
			Alts: []CaseAlt{
				{Pattern: &PCon{ConName: "True"}, Body: tr.TranslateExpr(e.Then)},
				{Pattern: &PCon{ConName: "False"}, Body: tr.TranslateExpr(e.Else)},
			},
			Exhaustive: true,
		}

	case *ast.Case:
		alts := make([]CaseAlt, len(e.Alts))
		for i, a := range e.Alts {
			pat, _ := tr.TranslatePattern(a.Pat)
			alts[i] = CaseAlt{Pattern: pat, Body: tr.TranslateExpr(a.Body)}
		}
		return &Case{CoreNode: coreNodeOf(e), Scrutinee: tr.TranslateExpr(e.Scrutinee), Alts: alts}

	case *ast.Tuple:
		return tr.translateTuple(e)

	case *ast.OpLeftSection:
		// (e op) → \y -> e op y  (eta-expanded lambda, spec.md §4.G).
		y := freshName("y")
		op := &Var{Name: e.Op}
		body := &App{Func: &App{Func: op, Arg: tr.TranslateExpr(e.Left)}, Arg: &Var{Name: y}}
		return &Lam{Names: []string{y}, Body: body}

	case *ast.OpRightSection:
		// (op e) → \x -> x op e
		x := freshName("x")
		op := &Var{Name: e.Op}
		body := &App{Func: &App{Func: op, Arg: &Var{Name: x}}, Arg: tr.TranslateExpr(e.Right)}
		return &Lam{Names: []string{x}, Body: body}

	case *ast.BinOp:
		op := &Var{Symbol: e.OpSymbol, Name: e.Op}
		return &App{Func: &App{Func: op, Arg: tr.TranslateExpr(e.Left)}, Arg: tr.TranslateExpr(e.Right)}

	case *ast.BinOpSym:
		return &Var{Symbol: e.OpSymbol, Name: e.Op}

	case *ast.ForLoop:
		return &Loop{
			CoreNode:    coreNodeOf(e),
			Kind:        ForLoop,
			RangeInit:   tr.TranslateExpr(e.RangeSeq),
			Body:        tr.TranslateExpr(e.Body),
			ValueName:   patternName(e.ValuePat),
		}

	case *ast.WhileLoop:
		return &Loop{
			CoreNode:  coreNodeOf(e),
			Kind:      WhileLoop,
			Predicate: tr.TranslateExpr(e.Pred),
			Body:      tr.TranslateExpr(e.Body),
		}

	case *ast.SeqExpression:
		return tr.translateSeqExpression(e)

	case *ast.Do:
		return tr.translateDo(e)

	case *ast.ExpressionList:
		return tr.translateList(e.Elems)

	default:
		return &Lit{Kind: UnitLit, Value: nil}
	}
}

func patternName(p ast.Pattern) string {
	if vp, ok := p.(*ast.VarPattern); ok {
		return vp.Name
	}
	return freshName("loopvar")
}

func coreNodeOf(n ast.Node) CoreNode {
	loc, end := span(n)
	return CoreNode{NodeID: NextNodeID(), CoreSpan: loc, OrigSpan: end, Type: necroTypeOf(n)}
}

func (tr *Translator) translateConstant(c *ast.Constant) CoreExpr {
	switch c.Kind {
	case ast.ConstInt:
		// Reification already rewrote literals to fromInt/fromRational
		// invocations (spec.md §4.A); by the time Core translation sees a
		// bare Constant it is the ground Int/Float payload of that call.
		return &Lit{CoreNode: coreNodeOf(c), Kind: IntLit, Value: c.Int}
	case ast.ConstFloat:
		return &Lit{CoreNode: coreNodeOf(c), Kind: FloatLit, Value: c.Float}
	case ast.ConstChar:
		return &Lit{CoreNode: coreNodeOf(c), Kind: CharLit, Value: c.Char}
	case ast.ConstString:
		return &Lit{CoreNode: coreNodeOf(c), Kind: StringLit, Value: c.Str}
	case ast.ConstBool:
		return &Lit{CoreNode: coreNodeOf(c), Kind: BoolLit, Value: c.Bool}
	default:
		return &Lit{CoreNode: coreNodeOf(c), Kind: UnitLit, Value: nil}
	}
}

func (tr *Translator) translateLet(e *ast.Let) CoreExpr {
	body := tr.TranslateExpr(e.Body)
	// Declaration groups yield a chain of LET nodes in topological order
	// (spec.md §4.G).
	for i := len(e.Groups.Groups) - 1; i >= 0; i-- {
		group := e.Groups.Groups[i]
		for j := len(group.Members) - 1; j >= 0; j-- {
			bound := tr.TranslateDecl(group.Members[j])
			if bind, ok := bound.(*Bind); ok {
				body = &Let{Symbol: bind.Symbol, Name: bind.Name, Value: bind.Value, Body: body}
			}
		}
	}
	return body
}

func (tr *Translator) translateTuple(e *ast.Tuple) CoreExpr {
	// TUPLE → fully-applied tuple data-constructor (spec.md §4.G).
	conName := tupleConName(len(e.Elems))
	var result CoreExpr = &Var{Name: conName}
	for _, el := range e.Elems {
		result = &App{Func: result, Arg: tr.TranslateExpr(el)}
	}
	return result
}

func tupleConName(arity int) string {
	switch arity {
	case 2:
		return "(,)"
	case 3:
		return "(,,)"
	default:
		return "Tuple" + itoa(arity)
	}
}

func (tr *Translator) translateList(elems []ast.Expr) CoreExpr {
	var result CoreExpr = &Var{Name: "Nil"}
	for i := len(elems) - 1; i >= 0; i-- {
		result = &App{Func: &App{Func: &Var{Name: "Cons"}, Arg: tr.TranslateExpr(elems[i])}, Arg: result}
	}
	return result
}

// translateSeqExpression desugars a sequence-expression literal into a LET
// binding an accumulator of type (Index, SeqValue a) fed to the `tick`
// runtime primitive, wrapped in the Seq constructor (spec.md §4.G).
func (tr *Translator) translateSeqExpression(e *ast.SeqExpression) CoreExpr {
	accName := freshName("seqAcc")
	// The sequence literals become the alternatives of the inner CASE
	// keyed on the current index.
	alts := make([]CaseAlt, len(e.Elems))
	for i, el := range e.Elems {
		alts[i] = CaseAlt{Pattern: &PLit{Kind: IntLit, Value: int64(i)}, Body: tr.TranslateExpr(el)}
	}
	tick := &App{Func: &Var{Name: "tick"}, Arg: &Var{Name: accName}}
	body := &Case{Scrutinee: tick, Alts: alts}
	letAcc := &Let{Name: accName, Value: &App{Func: &Var{Name: "initSeqAcc"}, Arg: &Lit{Kind: IntLit, Value: int64(len(e.Elems))}}, Body: body}
	return &App{Func: &Var{Name: "Seq"}, Arg: letAcc}
}

// translateDo desugars a do-block into an explicit >>=/>> chain through
// the Monad class (spec.md §4.G references do-notation via the Monad
// class); the final statement must be a bare expression.
func (tr *Translator) translateDo(e *ast.Do) CoreExpr {
	if len(e.Stmts) == 0 {
		return &Lit{Kind: UnitLit}
	}
	return tr.translateDoStmts(e.Stmts)
}

func (tr *Translator) translateDoStmts(stmts []ast.DoStmt) CoreExpr {
	head := stmts[0]
	rest := stmts[1:]
	switch s := head.(type) {
	case *ast.BindAssignment:
		if len(rest) == 0 {
			return tr.TranslateExpr(s.Expr)
		}
		k := &Lam{Names: []string{s.Name}, Body: tr.translateDoStmts(rest)}
		return &App{Func: &App{Func: &Var{Name: ">>="}, Arg: tr.TranslateExpr(s.Expr)}, Arg: k}
	case *ast.PatBindAssignment:
		if len(rest) == 0 {
			return tr.TranslateExpr(s.Expr)
		}
		fresh := freshName("doBind")
		pat, _ := tr.TranslatePattern(s.Pat)
		inner := &Case{Scrutinee: &Var{Name: fresh}, Alts: []CaseAlt{{Pattern: pat, Body: tr.translateDoStmts(rest)}}}
		k := &Lam{Names: []string{fresh}, Body: inner}
		return &App{Func: &App{Func: &Var{Name: ">>="}, Arg: tr.TranslateExpr(s.Expr)}, Arg: k}
	case *ast.ExprStmt:
		if len(rest) == 0 {
			return tr.TranslateExpr(s.Expr)
		}
		return &App{Func: &App{Func: &Var{Name: ">>"}, Arg: tr.TranslateExpr(s.Expr)}, Arg: tr.translateDoStmts(rest)}
	default:
		return &Lit{Kind: UnitLit}
	}
}

// TranslatePattern lowers an ast.Pattern into a CorePattern, returning the
// set of binder names introduced (used by PAT_ASSIGNMENT's synthetic
// body).
func (tr *Translator) TranslatePattern(p ast.Pattern) (CorePattern, []string) {
	switch p := p.(type) {
	case *ast.VarPattern:
		return &PVar{Symbol: p.Symbol, Name: p.Name}, []string{p.Name}
	case *ast.Wildcard:
		return &PWildcard{}, nil
	case *ast.ConstantPattern:
		lit := tr.translateConstant(p.Value).(*Lit)
		return &PLit{Kind: lit.Kind, Value: lit.Value}, nil
	case *ast.ConstructorPattern:
		fields := make([]string, len(p.Args))
		syms := make([]symbol.ID, len(p.Args))
		var binders []string
		for i, a := range p.Args {
			if vp, ok := a.(*ast.VarPattern); ok {
				fields[i] = vp.Name
				syms[i] = vp.Symbol
				binders = append(binders, vp.Name)
			} else {
				fields[i] = freshName("field")
			}
		}
		return &PCon{ConName: p.ConName, Fields: fields, Symbols: syms}, binders
	case *ast.TuplePattern:
		fields := make([]string, len(p.Elems))
		var binders []string
		for i, el := range p.Elems {
			if vp, ok := el.(*ast.VarPattern); ok {
				fields[i] = vp.Name
				binders = append(binders, vp.Name)
			} else {
				fields[i] = freshName("field")
			}
		}
		return &PCon{ConName: tupleConName(len(p.Elems)), Fields: fields}, binders
	default:
		return &PWildcard{}, nil
	}
}
