// Package rename implements the renamer half of phase C (spec.md §4.C):
// resolving each VAR occurrence to the lexically closest binding,
// reporting not_in_scope when none exists.
//
// Grounded on internal/link/resolver.go's name-resolution-against-an-
// environment shape, adapted from cross-module value lookup to
// lexical-scope lookup against the *ast.Scope tree internal/scope builds.
package rename

import (
	"fmt"

	"github.com/sunholo/ailang/internal/ast"
	nerrors "github.com/sunholo/ailang/internal/errors"
)

// Renamer walks an already-scoped AST and resolves every Var.Symbol.
type Renamer struct {
	errs []*nerrors.CompileError
}

func New() *Renamer { return &Renamer{} }

// Errors returns every not_in_scope error collected during the walk.
func (r *Renamer) Errors() []*nerrors.CompileError { return r.errs }

// Rename resolves every Var occurrence reachable from top.
func (r *Renamer) Rename(top *ast.TopDecl) {
	for _, d := range top.Decls {
		r.decl(d)
	}
}

func (r *Renamer) notInScope(v *ast.Var) {
	err := nerrors.New(nerrors.NotInScope, v.SourceLoc(), v.EndLoc(),
		fmt.Sprintf("%s is not in scope", v.Name))
	r.errs = append(r.errs, err)
}

func (r *Renamer) decl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.SimpleAssignment:
		if d.Initializer != nil {
			r.expr(d.Initializer)
		}
		r.rhs(d.Rhs)
	case *ast.ApatsAssignment:
		r.rhs(d.Rhs)
	case *ast.PatAssignment:
		r.rhs(d.Rhs)
	case *ast.TypeClassDeclaration:
		for _, def := range d.Defaults {
			r.decl(def)
		}
	case *ast.TypeClassInstance:
		for _, m := range d.Methods {
			r.decl(m)
		}
	}
}

func (r *Renamer) rhs(rhs *ast.Rhs) {
	if rhs == nil {
		return
	}
	for _, w := range rhs.Where {
		r.decl(w)
	}
	r.expr(rhs.Expr)
}

func (r *Renamer) resolveVar(v *ast.Var) {
	scope := v.GetScope()
	if scope == nil {
		r.notInScope(v)
		return
	}
	id, ok := scope.Resolve(v.Name)
	if !ok {
		r.notInScope(v)
		return
	}
	v.Symbol = id
}

func (r *Renamer) expr(e ast.Expr) {
	if e == nil {
		return
	}
	switch e := e.(type) {
	case *ast.Var:
		r.resolveVar(e)
	case *ast.Let:
		for _, group := range e.Groups.Groups {
			for _, m := range group.Members {
				r.decl(m)
			}
		}
		r.expr(e.Body)
	case *ast.Lambda:
		r.expr(e.Body)
	case *ast.App:
		r.expr(e.Func)
		r.expr(e.Arg)
	case *ast.IfThenElse:
		r.expr(e.Cond)
		r.expr(e.Then)
		r.expr(e.Else)
	case *ast.Case:
		r.expr(e.Scrutinee)
		for _, alt := range e.Alts {
			r.expr(alt.Body)
		}
	case *ast.Tuple:
		for _, el := range e.Elems {
			r.expr(el)
		}
	case *ast.ExpressionList:
		for _, el := range e.Elems {
			r.expr(el)
		}
	case *ast.ExpressionArray:
		for _, el := range e.Elems {
			r.expr(el)
		}
	case *ast.BinOp:
		r.expr(e.Left)
		r.expr(e.Right)
	case *ast.OpLeftSection:
		r.expr(e.Left)
	case *ast.OpRightSection:
		r.expr(e.Right)
	case *ast.ArithmeticSequence:
		r.expr(e.From)
		r.expr(e.Then)
		r.expr(e.To)
	case *ast.Do:
		for _, s := range e.Stmts {
			r.doStmt(s)
		}
	case *ast.ForLoop:
		r.expr(e.RangeSeq)
		r.expr(e.Body)
	case *ast.WhileLoop:
		r.expr(e.Pred)
		r.expr(e.Body)
	case *ast.SeqExpression:
		for _, el := range e.Elems {
			r.expr(el)
		}
	}
}

func (r *Renamer) doStmt(s ast.DoStmt) {
	switch s := s.(type) {
	case *ast.BindAssignment:
		r.expr(s.Expr)
	case *ast.PatBindAssignment:
		r.expr(s.Expr)
	case *ast.ExprStmt:
		r.expr(s.Expr)
	}
}
