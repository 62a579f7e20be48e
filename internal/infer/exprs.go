package infer

import (
	"fmt"

	"github.com/sunholo/ailang/internal/ast"
	nerrors "github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/types"
)

// inferExpr infers e's type under e, unifying sub-expressions against
// their expected shapes and recording any polymorphic ast.Var occurrence in
// c.pending for internal/mono to resolve once the group settles.
func (c *Checker) inferExpr(e ast.Expr, env *env) types.Type {
	var t types.Type
	switch e := e.(type) {
	case *ast.Var:
		t = c.inferVar(e, env)

	case *ast.Constant:
		t = c.inferConstant(e)

	case *ast.App:
		funT := c.inferExpr(e.Func, env)
		argT := c.inferExpr(e.Arg, env)
		result := c.fresh()
		c.unify(e, funT, &types.Fun{From: argT, To: result})
		t = result

	case *ast.Lambda:
		fenv := env.child()
		paramTypes := make([]types.Type, len(e.Apats))
		for i, p := range e.Apats {
			paramTypes[i] = c.inferPattern(p, c.fresh(), fenv)
		}
		bodyT := c.inferExpr(e.Body, fenv)
		result := bodyT
		for i := len(paramTypes) - 1; i >= 0; i-- {
			result = &types.Fun{From: paramTypes[i], To: result}
		}
		t = result

	case *ast.Let:
		lenv := env.child()
		for _, g := range e.Groups.Groups {
			c.group(g, lenv)
		}
		for _, g := range e.Groups.Groups {
			for _, d := range g.Members {
				if sym, ok := declSymbolOf(d); ok {
					if scheme, ok := c.Module.Get(sym).Type.(*types.Scheme); ok {
						lenv.bind(sym, scheme)
					}
				}
			}
		}
		t = c.inferExpr(e.Body, lenv)

	case *ast.IfThenElse:
		condT := c.inferExpr(e.Cond, env)
		c.unify(e.Cond, condT, types.TBool)
		thenT := c.inferExpr(e.Then, env)
		elseT := c.inferExpr(e.Else, env)
		c.unify(e, thenT, elseT)
		t = thenT

	case *ast.Case:
		scrutT := c.inferExpr(e.Scrutinee, env)
		result := c.fresh()
		for _, alt := range e.Alts {
			aenv := env.child()
			c.inferPattern(alt.Pat, scrutT, aenv)
			bodyT := c.inferExpr(alt.Body, aenv)
			c.unify(alt, bodyT, result)
		}
		t = result

	case *ast.Tuple:
		elemTypes := make([]types.Type, len(e.Elems))
		for i, el := range e.Elems {
			elemTypes[i] = c.inferExpr(el, env)
		}
		t = types.TTuple(elemTypes...)

	case *ast.ExpressionList:
		elemT := c.fresh()
		for _, el := range e.Elems {
			et := c.inferExpr(el, env)
			c.unify(el, et, elemT)
		}
		t = &types.Con{Name: "List", Args: []types.Type{elemT}}

	case *ast.ExpressionArray:
		elemT := c.fresh()
		for _, el := range e.Elems {
			et := c.inferExpr(el, env)
			c.unify(el, et, elemT)
		}
		t = types.TArray(&types.Nat{Value: len(e.Elems)}, elemT)

	case *ast.ListNode:
		elemT := c.fresh()
		headT := c.inferExpr(e.Head, env)
		c.unify(e.Head, headT, elemT)
		listT := &types.Con{Name: "List", Args: []types.Type{elemT}}
		if e.Tail != nil {
			tailT := c.inferExpr(e.Tail, env)
			c.unify(e.Tail, tailT, listT)
		}
		t = listT

	case *ast.PatExpression:
		// As-pattern binders in expression position (do/comprehension
		// contexts) only need their shape, never a fresh binding here —
		// the enclosing statement binds the names.
		t = c.inferPattern(e.Pat, c.fresh(), env)

	case *ast.BinOp:
		t = c.inferOperator(e, e.Op, []ast.Expr{e.Left, e.Right}, env)

	case *ast.BinOpSym:
		t = c.inferOperator(e, e.Op, nil, env)

	case *ast.OpLeftSection:
		// \y -> e.Left op y
		leftT := c.inferExpr(e.Left, env)
		opT := c.lookupOperator(e, e.Op)
		argT := c.fresh()
		result := c.fresh()
		c.unify(e, opT, &types.Fun{From: leftT, To: &types.Fun{From: argT, To: result}})
		t = &types.Fun{From: argT, To: result}

	case *ast.OpRightSection:
		// \x -> x op e.Right
		rightT := c.inferExpr(e.Right, env)
		opT := c.lookupOperator(e, e.Op)
		argT := c.fresh()
		result := c.fresh()
		c.unify(e, opT, &types.Fun{From: argT, To: &types.Fun{From: rightT, To: result}})
		t = &types.Fun{From: argT, To: result}

	case *ast.ArithmeticSequence:
		elemT := c.inferExpr(e.From, env)
		if e.Then != nil {
			thenT := c.inferExpr(e.Then, env)
			c.unify(e.Then, thenT, elemT)
		}
		if e.To != nil {
			toT := c.inferExpr(e.To, env)
			c.unify(e.To, toT, elemT)
		}
		t = &types.Con{Name: "List", Args: []types.Type{elemT}}

	case *ast.Do:
		t = c.inferDo(e, env)

	case *ast.ForLoop:
		t = c.inferForLoop(e, env)

	case *ast.WhileLoop:
		t = c.inferWhileLoop(e, env)

	case *ast.SeqExpression:
		elemT := c.fresh()
		for _, el := range e.Elems {
			et := c.inferExpr(el, env)
			c.unify(el, et, elemT)
		}
		t = types.TSeq(elemT)

	default:
		c.report(nerrors.MismatchedType, e.SourceLoc(), e.EndLoc(),
			fmt.Sprintf("unrecognized expression node %T", e))
		t = c.fresh()
	}
	setNodeType(e, t)
	return t
}

func (c *Checker) inferVar(v *ast.Var, env *env) types.Type {
	if scheme, ok := env.lookup(v.Symbol); ok {
		return c.instantiateVar(v, scheme)
	}
	sym := c.Module.Get(v.Symbol)
	scheme, ok := sym.Type.(*types.Scheme)
	if !ok {
		c.report(nerrors.NotInScope, v.SourceLoc(), v.EndLoc(),
			fmt.Sprintf("%s has no inferred type yet (forward reference outside its own group?)", v.Name))
		return c.fresh()
	}
	return c.instantiateVar(v, scheme)
}

// instantiateVar freshens scheme and, if it actually quantified anything,
// records the instantiation in c.pending so finalizePending can stamp
// ast.Var.InstSubs once the enclosing group's unification settles
// (spec.md §4.E feeding §4.F).
func (c *Checker) instantiateVar(v *ast.Var, scheme *types.Scheme) types.Type {
	body, names, freshVars := c.instantiate(scheme)
	if len(names) > 0 {
		c.pending = append(c.pending, pendingVarInst{v: v, names: names, freshVars: freshVars})
	}
	return body
}

func (c *Checker) inferConstant(k *ast.Constant) types.Type {
	switch k.Kind {
	case ast.ConstInt:
		v := c.fresh()
		v.Context = append(v.Context, "Num")
		return v
	case ast.ConstFloat:
		v := c.fresh()
		v.Context = append(v.Context, "Fractional")
		return v
	case ast.ConstChar:
		return types.TChar
	case ast.ConstString:
		return &types.Con{Name: "List", Args: []types.Type{types.TChar}}
	case ast.ConstBool:
		return types.TBool
	default:
		return types.TUnit
	}
}

// inferOperator type-checks a resolved binary-operator occurrence. Neither
// BinOp nor BinOpSym carries an InstSubs field (unlike ast.Var), so operator
// polymorphism is instantiated and unified here but deliberately not
// recorded anywhere: resolving which instance method a class operator picks
// is left to a later elaboration pass over dictionaries, not phase E.
func (c *Checker) inferOperator(n ast.Node, op string, args []ast.Expr, env *env) types.Type {
	opT := c.lookupOperator(n, op)
	if len(args) == 0 {
		return opT
	}
	result := opT
	for _, a := range args {
		argT := c.inferExpr(a, env)
		ret := c.fresh()
		c.unify(a, result, &types.Fun{From: argT, To: ret})
		result = ret
	}
	return result
}

func (c *Checker) lookupOperator(n ast.Node, op string) types.Type {
	id, ok := c.Module.Lookup(op)
	if !ok {
		c.report(nerrors.NotInScope, n.SourceLoc(), n.EndLoc(),
			fmt.Sprintf("operator %s not in scope", op))
		return c.fresh()
	}
	scheme, ok := c.Module.Get(id).Type.(*types.Scheme)
	if !ok {
		c.report(nerrors.NotInScope, n.SourceLoc(), n.EndLoc(),
			fmt.Sprintf("operator %s has no inferred type yet", op))
		return c.fresh()
	}
	body, _, _ := c.instantiate(scheme)
	return body
}

// inferPattern infers p's shape against scrutineeTy, binding every name it
// introduces into env as a monotype (never generalized mid-pattern: a
// pattern variable's scope never outlives the single clause it binds).
func (c *Checker) inferPattern(p ast.Pattern, scrutineeTy types.Type, env *env) types.Type {
	switch p := p.(type) {
	case *ast.VarPattern:
		env.bindMono(p.Symbol, scrutineeTy)
		setNodeType(p, scrutineeTy)
		return scrutineeTy

	case *ast.Wildcard:
		setNodeType(p, scrutineeTy)
		return scrutineeTy

	case *ast.ConstantPattern:
		ct := c.inferConstant(p.Value)
		c.unify(p, ct, scrutineeTy)
		setNodeType(p, scrutineeTy)
		return scrutineeTy

	case *ast.ConstructorPattern:
		sym := c.Module.Get(p.Symbol)
		scheme, ok := sym.Type.(*types.Scheme)
		if !ok {
			c.report(nerrors.NotInScope, p.SourceLoc(), p.EndLoc(),
				fmt.Sprintf("constructor %s has no inferred type yet", p.ConName))
			setNodeType(p, scrutineeTy)
			return scrutineeTy
		}
		body, _, _ := c.instantiate(scheme)
		fieldTypes := make([]types.Type, 0, len(p.Args))
		result := body
		for range p.Args {
			fn, ok := types.Prune(result).(*types.Fun)
			if !ok {
				c.report(nerrors.MismatchedType, p.SourceLoc(), p.EndLoc(),
					fmt.Sprintf("constructor %s applied to too many patterns", p.ConName))
				break
			}
			fieldTypes = append(fieldTypes, fn.From)
			result = fn.To
		}
		c.unify(p, result, scrutineeTy)
		for i, a := range p.Args {
			if i < len(fieldTypes) {
				c.inferPattern(a, fieldTypes[i], env)
			} else {
				c.inferPattern(a, c.fresh(), env)
			}
		}
		setNodeType(p, scrutineeTy)
		return scrutineeTy

	case *ast.TuplePattern:
		elemTypes := make([]types.Type, len(p.Elems))
		for i := range elemTypes {
			elemTypes[i] = c.fresh()
		}
		c.unify(p, types.TTuple(elemTypes...), scrutineeTy)
		for i, el := range p.Elems {
			c.inferPattern(el, elemTypes[i], env)
		}
		setNodeType(p, scrutineeTy)
		return scrutineeTy

	default:
		c.report(nerrors.MismatchedType, p.SourceLoc(), p.EndLoc(),
			fmt.Sprintf("unrecognized pattern node %T", p))
		setNodeType(p, scrutineeTy)
		return scrutineeTy
	}
}
