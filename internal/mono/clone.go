package mono

import "github.com/sunholo/ailang/internal/ast"

// cloneDecl deep-copies a declaration so a specialization can be rewritten
// independently of the polymorphic original (spec.md §4.F step 2: "Deep-
// copy the declaration's AST into the same declaration group under the new
// name; renumber internal scopes").
//
// Grounded on _examples/vovakirdan-surge/internal/mono/clone.go's manual
// per-node-kind recursive clone (cloneFunc/cloneBlock/cloneStmt/cloneExpr),
// adapted from surge's HIR statement/expression split to this AST's
// Decl/Expr/Pattern/Type node set.
func cloneDecl(d ast.Decl) ast.Decl {
	switch d := d.(type) {
	case *ast.SimpleAssignment:
		out := *d
		out.Initializer = cloneExpr(d.Initializer)
		out.Rhs = cloneRhs(d.Rhs)
		return &out
	case *ast.ApatsAssignment:
		out := *d
		out.Apats = clonePatterns(d.Apats)
		out.Rhs = cloneRhs(d.Rhs)
		return &out
	case *ast.PatAssignment:
		out := *d
		out.Pat = clonePattern(d.Pat)
		out.Rhs = cloneRhs(d.Rhs)
		return &out
	default:
		// Data/class/instance/signature declarations are never themselves
		// the target of a use-site specialization (spec.md §4.F only
		// specializes polymorphic *values* and type-class methods); they
		// pass through uncloned.
		return d
	}
}

func cloneRhs(rhs *ast.Rhs) *ast.Rhs {
	if rhs == nil {
		return nil
	}
	out := &ast.Rhs{Expr: cloneExpr(rhs.Expr)}
	if len(rhs.Where) > 0 {
		out.Where = make([]ast.Decl, len(rhs.Where))
		for i, w := range rhs.Where {
			out.Where[i] = cloneDecl(w)
		}
	}
	return out
}

func cloneExpr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *ast.Var:
		out := *e
		if len(e.InstSubs) > 0 {
			out.InstSubs = append([]ast.InstSub(nil), e.InstSubs...)
		}
		return &out

	case *ast.Constant:
		out := *e
		return &out

	case *ast.Let:
		out := *e
		out.Groups = cloneGroupList(e.Groups)
		out.Body = cloneExpr(e.Body)
		return &out

	case *ast.Lambda:
		out := *e
		out.Apats = clonePatterns(e.Apats)
		out.Body = cloneExpr(e.Body)
		return &out

	case *ast.App:
		out := *e
		out.Func = cloneExpr(e.Func)
		out.Arg = cloneExpr(e.Arg)
		return &out

	case *ast.IfThenElse:
		out := *e
		out.Cond = cloneExpr(e.Cond)
		out.Then = cloneExpr(e.Then)
		out.Else = cloneExpr(e.Else)
		return &out

	case *ast.Case:
		out := *e
		out.Scrutinee = cloneExpr(e.Scrutinee)
		out.Alts = make([]*ast.CaseAlt, len(e.Alts))
		for i, alt := range e.Alts {
			out.Alts[i] = &ast.CaseAlt{Pat: clonePattern(alt.Pat), Body: cloneExpr(alt.Body)}
		}
		return &out

	case *ast.Tuple:
		out := *e
		out.Elems = cloneExprs(e.Elems)
		return &out

	case *ast.ExpressionList:
		out := *e
		out.Elems = cloneExprs(e.Elems)
		return &out

	case *ast.ExpressionArray:
		out := *e
		out.Elems = cloneExprs(e.Elems)
		return &out

	case *ast.PatExpression:
		out := *e
		out.Pat = clonePattern(e.Pat)
		return &out

	case *ast.ListNode:
		out := *e
		out.Head = cloneExpr(e.Head)
		out.Tail = cloneExpr(e.Tail)
		return &out

	case *ast.BinOp:
		out := *e
		out.Left = cloneExpr(e.Left)
		out.Right = cloneExpr(e.Right)
		return &out

	case *ast.BinOpSym:
		out := *e
		return &out

	case *ast.OpLeftSection:
		out := *e
		out.Left = cloneExpr(e.Left)
		return &out

	case *ast.OpRightSection:
		out := *e
		out.Right = cloneExpr(e.Right)
		return &out

	case *ast.ArithmeticSequence:
		out := *e
		out.From = cloneExpr(e.From)
		out.Then = cloneExpr(e.Then)
		out.To = cloneExpr(e.To)
		return &out

	case *ast.Do:
		out := *e
		out.Stmts = make([]ast.DoStmt, len(e.Stmts))
		for i, s := range e.Stmts {
			out.Stmts[i] = cloneDoStmt(s)
		}
		return &out

	case *ast.ForLoop:
		out := *e
		out.IndexPat = clonePattern(e.IndexPat)
		out.ValuePat = clonePattern(e.ValuePat)
		out.RangeSeq = cloneExpr(e.RangeSeq)
		out.Body = cloneExpr(e.Body)
		return &out

	case *ast.WhileLoop:
		out := *e
		out.Pred = cloneExpr(e.Pred)
		out.Body = cloneExpr(e.Body)
		return &out

	case *ast.SeqExpression:
		out := *e
		out.Elems = cloneExprs(e.Elems)
		return &out

	default:
		return e
	}
}

func cloneExprs(elems []ast.Expr) []ast.Expr {
	if len(elems) == 0 {
		return nil
	}
	out := make([]ast.Expr, len(elems))
	for i, e := range elems {
		out[i] = cloneExpr(e)
	}
	return out
}

func cloneDoStmt(s ast.DoStmt) ast.DoStmt {
	switch s := s.(type) {
	case *ast.BindAssignment:
		out := *s
		out.Expr = cloneExpr(s.Expr)
		return &out
	case *ast.PatBindAssignment:
		out := *s
		out.Pat = clonePattern(s.Pat)
		out.Expr = cloneExpr(s.Expr)
		return &out
	case *ast.ExprStmt:
		out := *s
		out.Expr = cloneExpr(s.Expr)
		return &out
	default:
		return s
	}
}

func cloneGroupList(l *ast.DeclarationGroupList) *ast.DeclarationGroupList {
	if l == nil {
		return nil
	}
	out := &ast.DeclarationGroupList{Groups: make([]*ast.DeclarationGroup, len(l.Groups))}
	for i, g := range l.Groups {
		ng := &ast.DeclarationGroup{InfoIndex: g.InfoIndex, Members: make([]ast.Decl, len(g.Members))}
		for j, m := range g.Members {
			ng.Members[j] = cloneDecl(m)
		}
		out.Groups[i] = ng
	}
	return out
}

func clonePattern(p ast.Pattern) ast.Pattern {
	if p == nil {
		return nil
	}
	switch p := p.(type) {
	case *ast.VarPattern:
		out := *p
		return &out
	case *ast.Wildcard:
		out := *p
		return &out
	case *ast.ConstantPattern:
		out := *p
		return &out
	case *ast.ConstructorPattern:
		out := *p
		out.Args = clonePatterns(p.Args)
		return &out
	case *ast.TuplePattern:
		out := *p
		out.Elems = clonePatterns(p.Elems)
		return &out
	default:
		return p
	}
}

func clonePatterns(pats []ast.Pattern) []ast.Pattern {
	if len(pats) == 0 {
		return nil
	}
	out := make([]ast.Pattern, len(pats))
	for i, p := range pats {
		out[i] = clonePattern(p)
	}
	return out
}
