// Package reify implements phase A of the pipeline (spec.md §4.A): it
// walks a raw internal/parsetree tree into internal/ast's typed-AST,
// allocating an AstSymbol for every declaration-form binding and
// desugaring integer/float literals into fromInt/fromRational calls.
//
// Grounded on internal/elaborate/file.go's per-declaration walk (the
// teacher elaborates a whole already-parsed AILANG program the same way:
// one function per declaration shape, recursing into sub-expressions),
// generalized here from "elaborate a program" to "reify a parse tree".
package reify

import (
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/parsetree"
	"github.com/sunholo/ailang/internal/symbol"
)

// Reifier holds the symbol arena declarations are allocated into. Per
// spec.md §4.A, errors never occur at this phase; it is a pure tree
// rewrite, so every method here returns a bare value.
type Reifier struct {
	Module *symbol.Module
}

func New(mod *symbol.Module) *Reifier { return &Reifier{Module: mod} }

// Reify lowers a whole parse-tree module into a TOP_DECL (spec.md §4.A).
func (r *Reifier) Reify(pm *parsetree.Module) *ast.TopDecl {
	decls := make([]ast.Decl, len(pm.Decls))
	for i, d := range pm.Decls {
		decls[i] = r.reifyDecl(d)
	}
	return &ast.TopDecl{Decls: decls}
}

// declareSymbol allocates a fresh AstSymbol for a declaration-form binding
// (spec.md §4.A: "Create an AstSymbol for every declaration-form binding
// ... using the module name as the module component").
func (r *Reifier) declareSymbol(name string) symbol.ID {
	return r.Module.Declare(name)
}

func (r *Reifier) reifyDecl(d parsetree.Decl) ast.Decl {
	switch d := d.(type) {
	case *parsetree.SimpleAssignment:
		id := r.declareSymbol(d.Name)
		var init ast.Expr
		if d.Initializer != nil {
			init = r.reifyExpr(d.Initializer)
		}
		return &ast.SimpleAssignment{
			Symbol:      id,
			Name:        d.Name,
			Initializer: init,
			Rhs:         r.reifyRhs(d.Rhs),
		}

	case *parsetree.ApatsAssignment:
		id := r.declareSymbol(d.Name)
		apats := make([]ast.Pattern, len(d.Apats))
		for i, p := range d.Apats {
			apats[i] = r.reifyPattern(p)
		}
		return &ast.ApatsAssignment{
			Symbol: id,
			Name:   d.Name,
			Apats:  apats,
			Rhs:    r.reifyRhs(d.Rhs),
		}

	case *parsetree.PatAssignment:
		return &ast.PatAssignment{
			Pat: r.reifyPattern(d.Pat),
			Rhs: r.reifyRhs(d.Rhs),
		}

	case *parsetree.TypeSignature:
		ctx := make([]*ast.TypeClassContext, len(d.Context))
		for i, c := range d.Context {
			ctx[i] = &ast.TypeClassContext{ClassName: c.ClassName, VarNames: append([]string{}, c.VarNames...)}
		}
		return &ast.TypeSignature{
			Names:   append([]string{}, d.Names...),
			Context: ctx,
			Ty:      r.reifyType(d.Ty),
		}

	case *parsetree.DataDeclaration:
		id := r.declareSymbol(d.ConName)
		cons := make([]*ast.Constructor, len(d.Constructors))
		for i, c := range d.Constructors {
			args := make([]ast.Type, len(c.Args))
			for j, a := range c.Args {
				args[j] = r.reifyType(a)
			}
			conID := r.declareSymbol(c.ConName)
			r.Module.Get(conID).IsConstructor = true
			r.Module.Get(conID).IsEnum = len(args) == 0
			r.Module.Get(conID).IsWrapper = len(d.Constructors) == 1 && len(args) == 1
			r.Module.Get(conID).Arity = len(args)
			cons[i] = &ast.Constructor{Symbol: conID, ConName: c.ConName, Args: args}
		}
		return &ast.DataDeclaration{
			Symbol:       id,
			SimpleType:   &ast.SimpleType{ConName: d.ConName, VarNames: append([]string{}, d.VarNames...)},
			Constructors: cons,
		}

	case *parsetree.TypeClassDeclaration:
		id := r.declareSymbol(d.ClassName)
		ctx := make([]*ast.TypeClassContext, len(d.Context))
		for i, c := range d.Context {
			ctx[i] = &ast.TypeClassContext{ClassName: c.ClassName, VarNames: append([]string{}, c.VarNames...)}
		}
		methods := make([]*ast.TypeSignature, len(d.Methods))
		for i, m := range d.Methods {
			for _, name := range m.Names {
				methodID := r.declareSymbol(name)
				r.Module.Get(methodID).MethodTypeClass = d.ClassName
			}
			methods[i] = r.reifyDecl(m).(*ast.TypeSignature)
		}
		defaults := make([]ast.Decl, len(d.Defaults))
		for i, def := range d.Defaults {
			defaults[i] = r.reifyDecl(def)
		}
		return &ast.TypeClassDeclaration{
			Symbol:    id,
			ClassName: d.ClassName,
			VarName:   d.VarName,
			Context:   ctx,
			Methods:   methods,
			Defaults:  defaults,
		}

	case *parsetree.TypeClassInstance:
		methods := make([]ast.Decl, len(d.Methods))
		for i, m := range d.Methods {
			methods[i] = r.reifyDecl(m)
		}
		ctx := make([]*ast.TypeClassContext, len(d.Context))
		for i, c := range d.Context {
			ctx[i] = &ast.TypeClassContext{ClassName: c.ClassName, VarNames: append([]string{}, c.VarNames...)}
		}
		return &ast.TypeClassInstance{
			ClassName: d.ClassName,
			ForType:   r.reifyType(d.ForType),
			Context:   ctx,
			Methods:   methods,
		}

	default:
		// Unreachable for a well-formed parse tree; reification is total
		// over the declaration grammar the parser emits.
		return nil
	}
}

func (r *Reifier) reifyRhs(rhs *parsetree.Rhs) *ast.Rhs {
	if rhs == nil {
		return nil
	}
	where := make([]ast.Decl, len(rhs.Where))
	for i, w := range rhs.Where {
		where[i] = r.reifyDecl(w)
	}
	return &ast.Rhs{Expr: r.reifyExpr(rhs.Expr), Where: where}
}

// reifyExpr lowers one raw expression, desugaring integer and
// floating-point literals into fromInt/fromRational invocations per
// spec.md §4.A.
func (r *Reifier) reifyExpr(e parsetree.Expr) ast.Expr {
	switch e := e.(type) {
	case *parsetree.Var:
		// Created but not resolved (spec.md §4.A): Symbol stays the zero
		// ID until internal/rename binds it to its declaration.
		return &ast.Var{Name: e.Name}

	case *parsetree.Constant:
		return r.reifyConstant(e)

	case *parsetree.App:
		return &ast.App{Func: r.reifyExpr(e.Func), Arg: r.reifyExpr(e.Arg)}

	case *parsetree.Lambda:
		apats := make([]ast.Pattern, len(e.Apats))
		for i, p := range e.Apats {
			apats[i] = r.reifyPattern(p)
		}
		return &ast.Lambda{Apats: apats, Body: r.reifyExpr(e.Body)}

	case *parsetree.Let:
		decls := make([]ast.Decl, len(e.Decls))
		for i, d := range e.Decls {
			decls[i] = r.reifyDecl(d)
		}
		// Dependency analysis (phase D) replaces this single flat group
		// with the real SCC ordering; reification seeds one group holding
		// every let-bound declaration so phase D always has a starting
		// DeclarationGroupList to rewrite.
		group := &ast.DeclarationGroup{Members: decls, InfoIndex: -1}
		return &ast.Let{Groups: &ast.DeclarationGroupList{Groups: []*ast.DeclarationGroup{group}}, Body: r.reifyExpr(e.Body)}

	case *parsetree.IfThenElse:
		return &ast.IfThenElse{Cond: r.reifyExpr(e.Cond), Then: r.reifyExpr(e.Then), Else: r.reifyExpr(e.Else)}

	case *parsetree.Case:
		alts := make([]*ast.CaseAlt, len(e.Alts))
		for i, a := range e.Alts {
			alts[i] = &ast.CaseAlt{Pat: r.reifyPattern(a.Pat), Body: r.reifyExpr(a.Body)}
		}
		return &ast.Case{Scrutinee: r.reifyExpr(e.Scrutinee), Alts: alts}

	case *parsetree.Tuple:
		elems := make([]ast.Expr, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = r.reifyExpr(el)
		}
		return &ast.Tuple{Elems: elems}

	case *parsetree.ExpressionList:
		elems := make([]ast.Expr, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = r.reifyExpr(el)
		}
		return &ast.ExpressionList{Elems: elems}

	case *parsetree.ExpressionArray:
		elems := make([]ast.Expr, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = r.reifyExpr(el)
		}
		return &ast.ExpressionArray{Elems: elems}

	case *parsetree.BinOp:
		return &ast.BinOp{Op: e.Op, Left: r.reifyExpr(e.Left), Right: r.reifyExpr(e.Right)}

	case *parsetree.BinOpSym:
		return &ast.BinOpSym{Op: e.Op}

	case *parsetree.OpLeftSection:
		return &ast.OpLeftSection{Left: r.reifyExpr(e.Left), Op: e.Op}

	case *parsetree.OpRightSection:
		return &ast.OpRightSection{Op: e.Op, Right: r.reifyExpr(e.Right)}

	case *parsetree.ArithmeticSequence:
		seq := &ast.ArithmeticSequence{From: r.reifyExpr(e.From)}
		if e.Then != nil {
			seq.Then = r.reifyExpr(e.Then)
		}
		if e.To != nil {
			seq.To = r.reifyExpr(e.To)
		}
		return seq

	case *parsetree.Do:
		stmts := make([]ast.DoStmt, len(e.Stmts))
		for i, s := range e.Stmts {
			stmts[i] = r.reifyDoStmt(s)
		}
		return &ast.Do{Stmts: stmts}

	case *parsetree.ForLoop:
		return &ast.ForLoop{
			IndexPat: r.reifyPattern(e.IndexPat),
			ValuePat: r.reifyPattern(e.ValuePat),
			RangeSeq: r.reifyExpr(e.RangeSeq),
			Body:     r.reifyExpr(e.Body),
		}

	case *parsetree.WhileLoop:
		return &ast.WhileLoop{Pred: r.reifyExpr(e.Pred), Body: r.reifyExpr(e.Body)}

	case *parsetree.SeqExpression:
		elems := make([]ast.Expr, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = r.reifyExpr(el)
		}
		return &ast.SeqExpression{Elems: elems}

	default:
		return &ast.Constant{Kind: ast.ConstUnit}
	}
}

func (r *Reifier) reifyDoStmt(s parsetree.DoStmt) ast.DoStmt {
	switch s := s.(type) {
	case *parsetree.BindAssignment:
		id := r.declareSymbol(s.Name)
		return &ast.BindAssignment{Symbol: id, Name: s.Name, Expr: r.reifyExpr(s.Expr)}
	case *parsetree.PatBindAssignment:
		return &ast.PatBindAssignment{Pat: r.reifyPattern(s.Pat), Expr: r.reifyExpr(s.Expr)}
	case *parsetree.ExprStmt:
		return &ast.ExprStmt{Expr: r.reifyExpr(s.Expr)}
	default:
		return &ast.ExprStmt{Expr: &ast.Constant{Kind: ast.ConstUnit}}
	}
}

// reifyConstant desugars integer and floating-point literals into
// fromInt/fromRational invocations (spec.md §4.A), leaving char, string,
// bool and unit literals untouched — Necro has no overloaded-literal
// mechanism for those.
func (r *Reifier) reifyConstant(c *parsetree.Constant) ast.Expr {
	switch c.Kind {
	case parsetree.IntLit:
		lit := &ast.Constant{Kind: ast.ConstInt, Int: c.Int}
		return &ast.App{Func: &ast.Var{Name: "fromInt"}, Arg: lit}
	case parsetree.FloatLit:
		lit := &ast.Constant{Kind: ast.ConstFloat, Float: c.Float}
		return &ast.App{Func: &ast.Var{Name: "fromRational"}, Arg: lit}
	case parsetree.CharLit:
		return &ast.Constant{Kind: ast.ConstChar, Char: c.Char}
	case parsetree.StringLit:
		return &ast.Constant{Kind: ast.ConstString, Str: c.Str}
	case parsetree.BoolLit:
		return &ast.Constant{Kind: ast.ConstBool, Bool: c.Bool}
	default:
		return &ast.Constant{Kind: ast.ConstUnit}
	}
}

func (r *Reifier) reifyPattern(p parsetree.Pattern) ast.Pattern {
	switch p := p.(type) {
	case *parsetree.VarPattern:
		id := r.declareSymbol(p.Name)
		return &ast.VarPattern{Symbol: id, Name: p.Name}
	case *parsetree.Wildcard:
		return &ast.Wildcard{}
	case *parsetree.ConstantPattern:
		lit, ok := r.reifyConstant(p.Value).(*ast.Constant)
		if !ok {
			// fromInt/fromRational-wrapped literals cannot occur inside a
			// pattern; unwrap back to the bare literal pattern uses.
			lit = &ast.Constant{Kind: ast.ConstInt, Int: p.Value.Int}
			if p.Value.Kind == parsetree.FloatLit {
				lit = &ast.Constant{Kind: ast.ConstFloat, Float: p.Value.Float}
			}
		}
		return &ast.ConstantPattern{Value: lit}
	case *parsetree.ConstructorPattern:
		args := make([]ast.Pattern, len(p.Args))
		for i, a := range p.Args {
			args[i] = r.reifyPattern(a)
		}
		return &ast.ConstructorPattern{ConName: p.ConName, Args: args}
	case *parsetree.TuplePattern:
		elems := make([]ast.Pattern, len(p.Elems))
		for i, el := range p.Elems {
			elems[i] = r.reifyPattern(el)
		}
		return &ast.TuplePattern{Elems: elems}
	default:
		return &ast.Wildcard{}
	}
}

func (r *Reifier) reifyType(t parsetree.Type) ast.Type {
	switch t := t.(type) {
	case *parsetree.ConId:
		return &ast.ConId{Name: t.Name}
	case *parsetree.TypeVarRef:
		return &ast.TypeVarRef{Name: t.Name}
	case *parsetree.TypeApp:
		return ast.UncurryTypeApp(&ast.TypeApp{Func: r.reifyType(t.Func), Arg: r.reifyType(t.Arg)})
	case *parsetree.FunctionType:
		return &ast.FunctionType{From: r.reifyType(t.From), To: r.reifyType(t.To)}
	case *parsetree.TypeAttribute:
		return &ast.TypeAttribute{Attr: t.Attr, Of: r.reifyType(t.Of)}
	default:
		return &ast.ConId{Name: "Unit"}
	}
}
