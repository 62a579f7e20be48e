// Package aliasanalysis implements the alias-analysis half of phase C
// (spec.md §4.C): computing, for each VAR occurrence, the set of
// AstSymbols that might name the same storage, feeding the ownership
// checker embedded in phase E.
//
// Grounded line-for-line in control flow (not translated verbatim) on
// original_source/source/type/alias_analysis.c's necro_alias_analysis_go:
// the same per-node-kind recursion and the same singleton/merge rules,
// reproduced as a Go tree walk over internal/ast instead of a tagged-union
// switch over NecroAst.
package aliasanalysis

import (
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/symbol"
)

// IsCopyType reports whether the type named typeName never needs alias
// tracking (spec.md §4.C: "copy-typed values produce no alias set").
// Necro's primitive scalars are copy types; everything else may alias.
func IsCopyType(typeName string) bool {
	switch typeName {
	case "Int", "Float", "Char", "Bool", "Unit":
		return true
	default:
		return false
	}
}

// Analyzer threads the owning symbol.Module through the walk so it can
// mutate AstSymbol.AliasSet in place.
type Analyzer struct {
	Module *symbol.Module
}

func New(mod *symbol.Module) *Analyzer { return &Analyzer{Module: mod} }

// Analyze walks every top-level declaration (spec.md §4.C).
func (a *Analyzer) Analyze(top *ast.TopDecl) {
	for _, d := range top.Decls {
		a.decl(d)
	}
}

func (a *Analyzer) sym(id symbol.ID) *symbol.AstSymbol {
	if int(id) >= len(a.Module.All()) {
		return nil
	}
	return a.Module.Get(id)
}

func (a *Analyzer) typeNameOf(sym *symbol.AstSymbol) string {
	if sym == nil {
		return ""
	}
	if name, ok := sym.Type.(interface{ TypeName() string }); ok {
		return name.TypeName()
	}
	return ""
}

func (a *Analyzer) decl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.SimpleAssignment:
		// Initializers are static-time and never alias (original_source
		// comment: "Initializers are static time, should never alias").
		sym := a.sym(d.Symbol)
		if sym != nil && IsCopyType(a.typeNameOf(sym)) {
			return
		}
		rhsSet := a.rhs(d.Rhs)
		if sym != nil {
			sym.AliasSet = symbol.Merge(toSet(rhsSet), toSet(sym.AliasSet))
		}

	case *ast.ApatsAssignment:
		a.rhs(d.Rhs)

	case *ast.PatAssignment:
		a.rhs(d.Rhs)

	case *ast.TypeClassInstance:
		for _, m := range d.Methods {
			a.decl(m)
		}

	case *ast.TypeClassDeclaration:
		for _, def := range d.Defaults {
			a.decl(def)
		}
	}
}

func toSet(s *symbol.AliasSet) *symbol.AliasSet {
	if s == nil {
		return &symbol.AliasSet{}
	}
	return s
}

func (a *Analyzer) rhs(rhs *ast.Rhs) *symbol.AliasSet {
	if rhs == nil {
		return nil
	}
	for _, w := range rhs.Where {
		a.decl(w)
	}
	return a.expr(rhs.Expr)
}

// expr mirrors necro_alias_analysis_go's expression cases; nodes with no
// storage identity (constants, wildcards, conids) produce a nil set.
func (a *Analyzer) expr(e ast.Expr) *symbol.AliasSet {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *ast.Var:
		sym := a.sym(e.Symbol)
		if sym == nil {
			return nil
		}
		if IsCopyType(a.typeNameOf(sym)) {
			return nil
		}
		set := symbol.NewSingletonAlias(e.Symbol)
		sym.AliasSet = symbol.Merge(set, toSet(sym.AliasSet))
		return set

	case *ast.Constant:
		return nil

	case *ast.Let:
		for _, group := range e.Groups.Groups {
			for _, m := range group.Members {
				a.decl(m)
			}
		}
		return a.expr(e.Body)

	case *ast.Lambda:
		// Non-top-level lambdas with functional types may not perform
		// in-place updates (original_source rule 5); alias tracking still
		// flows through the body for any captured uniques.
		return a.expr(e.Body)

	case *ast.App:
		set1 := a.expr(e.Func)
		set2 := a.expr(e.Arg)
		return symbol.Merge(toSet(set1), toSet(set2))

	case *ast.IfThenElse:
		a.expr(e.Cond)
		set1 := a.expr(e.Then)
		set2 := a.expr(e.Else)
		return symbol.Merge(toSet(set1), toSet(set2))

	case *ast.Case:
		exprSet := a.expr(e.Scrutinee)
		var altSets []*symbol.AliasSet
		for _, alt := range e.Alts {
			altSets = append(altSets, a.expr(alt.Body))
		}
		merged := toSet(exprSet)
		for _, s := range altSets {
			merged = symbol.Merge(merged, toSet(s))
		}
		return merged

	case *ast.Tuple:
		return a.mergeAll(e.Elems)

	case *ast.ExpressionList:
		return a.mergeAll(e.Elems)

	case *ast.ExpressionArray:
		return a.mergeAll(e.Elems)

	case *ast.BinOp:
		set1 := a.expr(e.Left)
		set2 := a.expr(e.Right)
		return symbol.Merge(toSet(set1), toSet(set2))

	case *ast.OpLeftSection:
		return a.expr(e.Left)

	case *ast.OpRightSection:
		return a.expr(e.Right)

	case *ast.ArithmeticSequence:
		set1 := a.expr(e.From)
		set2 := a.expr(e.Then)
		set3 := a.expr(e.To)
		return symbol.Merge(symbol.Merge(toSet(set1), toSet(set2)), toSet(set3))

	case *ast.Do:
		var last *symbol.AliasSet
		for _, s := range e.Stmts {
			last = a.doStmt(s)
		}
		return last

	case *ast.ForLoop:
		a.expr(e.RangeSeq)
		return a.expr(e.Body)

	case *ast.WhileLoop:
		a.expr(e.Pred)
		return a.expr(e.Body)

	case *ast.SeqExpression:
		return a.mergeAll(e.Elems)

	default:
		return nil
	}
}

func (a *Analyzer) mergeAll(elems []ast.Expr) *symbol.AliasSet {
	var merged *symbol.AliasSet
	for _, el := range elems {
		s := a.expr(el)
		if merged == nil {
			merged = toSet(s)
			continue
		}
		merged = symbol.Merge(merged, toSet(s))
	}
	return merged
}

func (a *Analyzer) doStmt(s ast.DoStmt) *symbol.AliasSet {
	switch s := s.(type) {
	case *ast.BindAssignment:
		return a.expr(s.Expr)
	case *ast.PatBindAssignment:
		return a.expr(s.Expr)
	case *ast.ExprStmt:
		return a.expr(s.Expr)
	default:
		return nil
	}
}
