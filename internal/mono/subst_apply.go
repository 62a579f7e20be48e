package mono

import (
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/types"
)

// substTypesInDecl walks every node of a freshly cloned declaration and
// rewrites its NecroType (set by phase E, spec.md §4.E: "every AST node
// receives a concrete ... type") through subs, completing spec.md §4.F
// step 3: "replacing every type occurrence via type_replace_with_subs".
//
// Grounded on _examples/vovakirdan-surge/internal/mono/subst_apply.go's
// Subst.ApplyFunc tree walk, adapted to this AST's node shapes; nodes
// without an assigned NecroType (pre-phase-E, or untyped syntax like a
// DoStmt) are skipped rather than erroring, since monomorphization only
// ever runs on an already-inferred AST.
func substTypesInDecl(d ast.Decl, subs map[string]types.Type) {
	substNode(d, subs)
	switch d := d.(type) {
	case *ast.SimpleAssignment:
		substNode(d.Initializer, subs)
		substRhs(d.Rhs, subs)
	case *ast.ApatsAssignment:
		for _, p := range d.Apats {
			substPattern(p, subs)
		}
		substRhs(d.Rhs, subs)
	case *ast.PatAssignment:
		substPattern(d.Pat, subs)
		substRhs(d.Rhs, subs)
	}
}

func substNode(n ast.Node, subs map[string]types.Type) {
	if n == nil {
		return
	}
	if t := n.NecroType(); t != nil && *t != nil {
		newT := substType(*t, subs)
		n.SetNecroType(&newT)
	}
}

func substRhs(rhs *ast.Rhs, subs map[string]types.Type) {
	if rhs == nil {
		return
	}
	for _, w := range rhs.Where {
		substTypesInDecl(w, subs)
	}
	substExpr(rhs.Expr, subs)
}

func substExpr(e ast.Expr, subs map[string]types.Type) {
	if e == nil {
		return
	}
	substNode(e, subs)
	switch e := e.(type) {
	case *ast.Let:
		for _, group := range e.Groups.Groups {
			for _, m := range group.Members {
				substTypesInDecl(m, subs)
			}
		}
		substExpr(e.Body, subs)
	case *ast.Lambda:
		for _, p := range e.Apats {
			substPattern(p, subs)
		}
		substExpr(e.Body, subs)
	case *ast.App:
		substExpr(e.Func, subs)
		substExpr(e.Arg, subs)
	case *ast.IfThenElse:
		substExpr(e.Cond, subs)
		substExpr(e.Then, subs)
		substExpr(e.Else, subs)
	case *ast.Case:
		substExpr(e.Scrutinee, subs)
		for _, alt := range e.Alts {
			substPattern(alt.Pat, subs)
			substExpr(alt.Body, subs)
		}
	case *ast.Tuple:
		substExprs(e.Elems, subs)
	case *ast.ExpressionList:
		substExprs(e.Elems, subs)
	case *ast.ExpressionArray:
		substExprs(e.Elems, subs)
	case *ast.ListNode:
		substExpr(e.Head, subs)
		substExpr(e.Tail, subs)
	case *ast.BinOp:
		substExpr(e.Left, subs)
		substExpr(e.Right, subs)
	case *ast.OpLeftSection:
		substExpr(e.Left, subs)
	case *ast.OpRightSection:
		substExpr(e.Right, subs)
	case *ast.ArithmeticSequence:
		substExpr(e.From, subs)
		substExpr(e.Then, subs)
		substExpr(e.To, subs)
	case *ast.Do:
		for _, s := range e.Stmts {
			substDoStmt(s, subs)
		}
	case *ast.ForLoop:
		substPattern(e.IndexPat, subs)
		substPattern(e.ValuePat, subs)
		substExpr(e.RangeSeq, subs)
		substExpr(e.Body, subs)
	case *ast.WhileLoop:
		substExpr(e.Pred, subs)
		substExpr(e.Body, subs)
	case *ast.SeqExpression:
		substExprs(e.Elems, subs)
	}
}

func substExprs(elems []ast.Expr, subs map[string]types.Type) {
	for _, e := range elems {
		substExpr(e, subs)
	}
}

func substDoStmt(s ast.DoStmt, subs map[string]types.Type) {
	switch s := s.(type) {
	case *ast.BindAssignment:
		substExpr(s.Expr, subs)
	case *ast.PatBindAssignment:
		substPattern(s.Pat, subs)
		substExpr(s.Expr, subs)
	case *ast.ExprStmt:
		substExpr(s.Expr, subs)
	}
}

func substPattern(p ast.Pattern, subs map[string]types.Type) {
	if p == nil {
		return
	}
	substNode(p, subs)
	switch p := p.(type) {
	case *ast.ConstructorPattern:
		for _, a := range p.Args {
			substPattern(a, subs)
		}
	case *ast.TuplePattern:
		for _, el := range p.Elems {
			substPattern(el, subs)
		}
	}
}
