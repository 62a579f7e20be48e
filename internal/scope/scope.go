// Package scope implements phase B of the pipeline (spec.md §4.B): it
// builds a tree of scopes mirroring the AST, binds the top-level scope
// from both the base module and the user module, and attaches inner
// scopes to every node that introduces pattern or let binders.
//
// Grounded on the teacher's internal/module/resolver.go, whose parent-
// chained lookup table is generalized here from module-level import
// resolution to lexical-scope resolution.
package scope

import (
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/symbol"
)

// Builder walks a reified TOP_DECL and attaches an *ast.Scope to every
// node that needs one, returning the top-level scope.
type Builder struct {
	Module *symbol.Module
}

func New(mod *symbol.Module) *Builder { return &Builder{Module: mod} }

// Build constructs the top-level scope — seeded with every declaration of
// the base module and then the user module (spec.md §4.B: "Top-level
// scope includes all declarations from the base module and the user
// module") — and recurses into every declaration, binding inner scopes as
// it goes.
func (b *Builder) Build(top *ast.TopDecl, base *symbol.Module) *ast.Scope {
	root := ast.NewScope(nil)
	if base != nil {
		for _, sym := range base.All() {
			root.Define(sym.SourceName, sym.ID)
		}
	}
	for _, sym := range b.Module.All() {
		root.Define(sym.SourceName, sym.ID)
	}
	for _, d := range top.Decls {
		b.bindDecl(d, root)
	}
	return root
}

func setScope(n ast.Node, s *ast.Scope) {
	if setter, ok := n.(interface{ SetScope(*ast.Scope) }); ok {
		setter.SetScope(s)
	}
}

func (b *Builder) bindDecl(d ast.Decl, parent *ast.Scope) {
	setScope(d, parent)
	switch d := d.(type) {
	case *ast.SimpleAssignment:
		inner := parent
		if d.Initializer != nil {
			b.bindExpr(d.Initializer, parent)
		}
		b.bindRhs(d.Rhs, inner)

	case *ast.ApatsAssignment:
		inner := ast.NewScope(parent)
		for _, p := range d.Apats {
			b.bindPattern(p, inner)
		}
		b.bindRhs(d.Rhs, inner)

	case *ast.PatAssignment:
		inner := ast.NewScope(parent)
		b.bindPattern(d.Pat, inner)
		b.bindRhs(d.Rhs, inner)

	case *ast.TypeSignature:
		// No binders of its own; carries the enclosing scope only.

	case *ast.DataDeclaration:
		// Constructors are already in the top-level scope (declared during
		// reification); nothing further to bind here.

	case *ast.TypeClassDeclaration:
		// d.VarName is a type variable, not a term binder; defaults still
		// get their own scope since they may recurse into other methods.
		inner := ast.NewScope(parent)
		for _, m := range d.Methods {
			setScope(m, inner)
		}
		for _, def := range d.Defaults {
			b.bindDecl(def, inner)
		}

	case *ast.TypeClassInstance:
		for _, m := range d.Methods {
			b.bindDecl(m, parent)
		}
	}
}

func (b *Builder) bindRhs(rhs *ast.Rhs, parent *ast.Scope) {
	if rhs == nil {
		return
	}
	inner := parent
	if len(rhs.Where) > 0 {
		inner = ast.NewScope(parent)
		for _, w := range rhs.Where {
			b.bindDecl(w, inner)
		}
	}
	setScope(rhs, inner)
	b.bindExpr(rhs.Expr, inner)
}

func (b *Builder) bindExpr(e ast.Expr, parent *ast.Scope) {
	if e == nil {
		return
	}
	setScope(e, parent)
	switch e := e.(type) {
	case *ast.Let:
		inner := ast.NewScope(parent)
		for _, group := range e.Groups.Groups {
			for _, member := range group.Members {
				b.bindDecl(member, inner)
			}
		}
		setScope(e.Groups, inner)
		b.bindExpr(e.Body, inner)

	case *ast.Lambda:
		inner := ast.NewScope(parent)
		for _, p := range e.Apats {
			b.bindPattern(p, inner)
		}
		b.bindExpr(e.Body, inner)

	case *ast.App:
		b.bindExpr(e.Func, parent)
		b.bindExpr(e.Arg, parent)

	case *ast.IfThenElse:
		b.bindExpr(e.Cond, parent)
		b.bindExpr(e.Then, parent)
		b.bindExpr(e.Else, parent)

	case *ast.Case:
		b.bindExpr(e.Scrutinee, parent)
		for _, alt := range e.Alts {
			inner := ast.NewScope(parent)
			b.bindPattern(alt.Pat, inner)
			setScope(alt, inner)
			b.bindExpr(alt.Body, inner)
		}

	case *ast.Tuple:
		for _, el := range e.Elems {
			b.bindExpr(el, parent)
		}

	case *ast.ExpressionList:
		for _, el := range e.Elems {
			b.bindExpr(el, parent)
		}

	case *ast.ExpressionArray:
		for _, el := range e.Elems {
			b.bindExpr(el, parent)
		}

	case *ast.BinOp:
		b.bindExpr(e.Left, parent)
		b.bindExpr(e.Right, parent)

	case *ast.OpLeftSection:
		b.bindExpr(e.Left, parent)

	case *ast.OpRightSection:
		b.bindExpr(e.Right, parent)

	case *ast.ArithmeticSequence:
		b.bindExpr(e.From, parent)
		b.bindExpr(e.Then, parent)
		b.bindExpr(e.To, parent)

	case *ast.Do:
		b.bindDoStmts(e.Stmts, parent)

	case *ast.ForLoop:
		inner := ast.NewScope(parent)
		b.bindPattern(e.IndexPat, inner)
		b.bindPattern(e.ValuePat, inner)
		b.bindExpr(e.RangeSeq, parent)
		b.bindExpr(e.Body, inner)

	case *ast.WhileLoop:
		b.bindExpr(e.Pred, parent)
		b.bindExpr(e.Body, parent)

	case *ast.SeqExpression:
		for _, el := range e.Elems {
			b.bindExpr(el, parent)
		}
	}
}

// bindDoStmts threads one scope through a do-block so each `name <- expr`
// binder is visible to every statement after it (spec.md §4.B: inner
// scopes bind pattern/let binders, and do-notation binders are no
// different).
func (b *Builder) bindDoStmts(stmts []ast.DoStmt, parent *ast.Scope) {
	cur := parent
	for _, s := range stmts {
		setScope(s, cur)
		switch s := s.(type) {
		case *ast.BindAssignment:
			b.bindExpr(s.Expr, cur)
			cur = ast.NewScope(cur)
			cur.Define(s.Name, s.Symbol)
		case *ast.PatBindAssignment:
			b.bindExpr(s.Expr, cur)
			cur = ast.NewScope(cur)
			b.bindPattern(s.Pat, cur)
		case *ast.ExprStmt:
			b.bindExpr(s.Expr, cur)
		}
	}
}

func (b *Builder) bindPattern(p ast.Pattern, scope *ast.Scope) {
	if p == nil {
		return
	}
	setScope(p, scope)
	switch p := p.(type) {
	case *ast.VarPattern:
		scope.Define(p.Name, p.Symbol)
	case *ast.ConstructorPattern:
		for _, a := range p.Args {
			b.bindPattern(a, scope)
		}
	case *ast.TuplePattern:
		for _, el := range p.Elems {
			b.bindPattern(el, scope)
		}
	}
}
