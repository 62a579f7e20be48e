package infer

import (
	"fmt"

	"github.com/sunholo/ailang/internal/ast"
	nerrors "github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

func (c *Checker) constraintsOf(v *types.Var) []string { return v.Context }

// group type-checks one phase-D SCC (spec.md §4.E): data/class/instance
// members are elaborated directly (they introduce no letrec placeholders
// of their own), term declarations share one fresh placeholder per symbol
// before any right-hand side is inferred so mutually recursive members can
// reference each other's still-unsolved types, and the whole group is
// generalized together once every member has been checked.
func (c *Checker) group(g *ast.DeclarationGroup, parent *env) {
	var terms []ast.Decl
	for _, d := range g.Members {
		switch d := d.(type) {
		case *ast.DataDeclaration:
			c.dataDecl(d)
		case *ast.TypeClassDeclaration:
			c.classDecl(d, parent)
		case *ast.TypeClassInstance:
			c.instanceDecl(d, parent)
		default:
			terms = append(terms, d)
		}
	}
	if len(terms) == 0 {
		return
	}

	boundary := c.scope
	c.scope++
	genv := parent.child()

	placeholders := make(map[symbol.ID]*types.Var)
	var patDecls []*ast.PatAssignment
	for _, d := range terms {
		switch d := d.(type) {
		case *ast.SimpleAssignment:
			v := c.fresh()
			placeholders[d.Symbol] = v
			genv.bindMono(d.Symbol, v)
		case *ast.ApatsAssignment:
			v := c.fresh()
			placeholders[d.Symbol] = v
			genv.bindMono(d.Symbol, v)
		case *ast.PatAssignment:
			patDecls = append(patDecls, d)
		}
	}

	for _, d := range terms {
		switch d := d.(type) {
		case *ast.SimpleAssignment:
			c.simpleAssignment(d, genv, placeholders[d.Symbol])
		case *ast.ApatsAssignment:
			c.apatsAssignment(d, genv, placeholders[d.Symbol])
		}
	}
	// Pattern-LHS bindings (`(a, b) = pair`) can't share a single letrec
	// placeholder since they introduce more than one symbol; depanalysis
	// keys a PatAssignment as one opaque graph node (declKey's "pat:%p"
	// case), so in practice these only appear in non-self-recursive
	// groups and are safe to check after the placeholder-bearing members.
	for _, d := range patDecls {
		c.patAssignment(d, genv)
	}

	for sym, v := range placeholders {
		scheme := types.Generalize(types.Prune(v), boundary, c.constraintsOf)
		c.Module.Get(sym).Type = scheme
	}
	c.scope = boundary
	c.finalizePending()
}

func (c *Checker) simpleAssignment(d *ast.SimpleAssignment, e *env, placeholder *types.Var) {
	if d.Initializer != nil {
		initT := c.inferExpr(d.Initializer, e)
		c.unify(d, initT, placeholder)
	}
	rhsT := c.inferRhs(d.Rhs, e)
	c.unify(d, rhsT, placeholder)
	setNodeType(d, types.Prune(placeholder))
}

func (c *Checker) apatsAssignment(d *ast.ApatsAssignment, e *env, placeholder *types.Var) {
	c.Module.Get(d.Symbol).Arity = len(d.Apats)

	fenv := e.child()
	paramTypes := make([]types.Type, len(d.Apats))
	for i, p := range d.Apats {
		paramTypes[i] = c.inferPattern(p, c.fresh(), fenv)
	}
	rhsT := c.inferRhs(d.Rhs, fenv)

	funcT := rhsT
	for i := len(paramTypes) - 1; i >= 0; i-- {
		funcT = &types.Fun{From: paramTypes[i], To: funcT}
	}
	c.unify(d, funcT, placeholder)
	setNodeType(d, types.Prune(placeholder))
}

func (c *Checker) patAssignment(d *ast.PatAssignment, e *env) {
	rhsT := c.inferRhs(d.Rhs, e)
	patT := c.inferPattern(d.Pat, rhsT, e)
	c.unify(d, patT, rhsT)

	for _, sym := range patternSymbols(d.Pat) {
		if v, ok := e.lookup(sym); ok {
			gen := types.Generalize(types.Prune(v.Body), c.scope-1, c.constraintsOf)
			c.Module.Get(sym).Type = gen
		}
	}
	setNodeType(d, patT)
}

func patternSymbols(p ast.Pattern) []symbol.ID {
	switch p := p.(type) {
	case *ast.VarPattern:
		return []symbol.ID{p.Symbol}
	case *ast.TuplePattern:
		var out []symbol.ID
		for _, el := range p.Elems {
			out = append(out, patternSymbols(el)...)
		}
		return out
	case *ast.ConstructorPattern:
		var out []symbol.ID
		for _, a := range p.Args {
			out = append(out, patternSymbols(a)...)
		}
		return out
	default:
		return nil
	}
}

func (c *Checker) inferRhs(rhs *ast.Rhs, e *env) types.Type {
	wenv := e
	if len(rhs.Where) > 0 {
		wenv = e.child()
		c.group(&ast.DeclarationGroup{Members: rhs.Where, InfoIndex: -1}, wenv)
		// group() only generalizes and stores AstSymbol.Type; local where-
		// bound names also need a direct env binding so inferExpr below
		// can find them without re-walking the module symbol table.
		for _, w := range rhs.Where {
			if sym, ok := declSymbolOf(w); ok {
				if scheme, ok := c.Module.Get(sym).Type.(*types.Scheme); ok {
					wenv.bind(sym, scheme)
				}
			}
		}
	}
	return c.inferExpr(rhs.Expr, wenv)
}

func declSymbolOf(d ast.Decl) (symbol.ID, bool) {
	switch d := d.(type) {
	case *ast.SimpleAssignment:
		return d.Symbol, true
	case *ast.ApatsAssignment:
		return d.Symbol, true
	case *ast.DataDeclaration:
		return d.Symbol, true
	case *ast.TypeClassDeclaration:
		return d.Symbol, true
	default:
		return 0, false
	}
}

// dataDecl elaborates every constructor of d into a Scheme
// `forall a1..an. field1 -> field2 -> ... -> T a1 .. an` (spec.md §4.E),
// generalizing uniformly over the type's own parameters (declareDataKinds
// has already registered T's kind, so cross-references among mutually
// recursive data declarations resolve regardless of which one is checked
// first within the group).
func (c *Checker) dataDecl(d *ast.DataDeclaration) {
	tv := tyVarEnv{}
	vars := make([]types.Type, len(d.SimpleType.VarNames))
	rigids := make([]*types.Var, len(d.SimpleType.VarNames))
	for i, name := range d.SimpleType.VarNames {
		v := c.rigidVar(tv, name)
		vars[i] = v
		rigids[i] = v
	}
	resultT := &types.Con{Name: d.SimpleType.ConName, Args: vars}

	for _, con := range d.Constructors {
		fieldTypes := make([]types.Type, len(con.Args))
		for i, a := range con.Args {
			fieldTypes[i] = c.elaborateType(a, tv)
		}
		body := types.Type(resultT)
		for i := len(fieldTypes) - 1; i >= 0; i-- {
			body = &types.Fun{From: fieldTypes[i], To: body}
		}
		c.Module.Get(con.Symbol).Type = &types.Scheme{Vars: rigids, Body: body}
	}
	setNodeType(d, resultT)
}

// classDecl registers the class in the shared InstanceTable and gives every
// method a Scheme quantified first over the class's own type variable (by
// convention the first element of Vars, relied on by instanceDecl when
// specializing a method to a concrete instance head) and then over any
// further polymorphism the method's own signature introduces.
func (c *Checker) classDecl(d *ast.TypeClassDeclaration, parent *env) {
	tv := tyVarEnv{}
	c.rigidVar(tv, d.VarName) // seeds tv so method signatures share the class variable

	var supers []string
	for _, ctx := range d.Context {
		supers = append(supers, ctx.ClassName)
	}

	decl := &types.ClassDecl{
		Name:       d.ClassName,
		TypeParam:  d.VarName,
		Supers:     supers,
		MethodSigs: make(map[string]*types.Scheme),
	}

	for _, m := range d.Methods {
		for _, name := range m.Names {
			sig := c.elaborateSignature(m, tv)
			decl.MethodSigs[name] = sig

			id, ok := c.Module.Lookup(name)
			if !ok {
				id = c.Module.Declare(name)
			}
			sym := c.Module.Get(id)
			sym.Type = sig
			sym.MethodTypeClass = d.ClassName
			sym.HasSignature = true
		}
	}
	c.Instances.DeclareClass(decl)

	for _, def := range d.Defaults {
		c.group(&ast.DeclarationGroup{Members: []ast.Decl{def}, InfoIndex: -1}, parent)
	}
}

// instanceDecl elaborates `instance Ctx => ClassName ForType where ...`:
// every method body is checked against the class's declared signature with
// the class variable substituted for ForType, and the resulting Instance is
// registered for both constraint resolution (here) and method
// specialization (internal/mono, spec.md §4.F).
func (c *Checker) instanceDecl(d *ast.TypeClassInstance, parent *env) {
	tv := tyVarEnv{}
	forType := c.elaborateType(d.ForType, tv)
	headName := conHeadName(forType)

	inst := &types.Instance{
		ClassName: d.ClassName,
		ForHead:   headName,
		ForType:   forType,
		Methods:   make(map[string]*types.Scheme),
	}
	for _, ctx := range d.Context {
		for _, name := range ctx.VarNames {
			if v, ok := tv[name]; ok {
				inst.Context = append(inst.Context, types.Constraint{Class: ctx.ClassName, Type: v})
			}
		}
	}

	classDecl, hasClass := c.Instances.Classes[d.ClassName]

	for _, m := range d.Methods {
		name, sym, sig := c.memberSignature(m, classDecl)

		genv := parent.child()
		var expected types.Type
		if sig != nil && hasClass {
			m := map[string]types.Type{classDecl.TypeParam: forType}
			expected = substituteType(sig.Body, m)
		}

		c.group(&ast.DeclarationGroup{Members: []ast.Decl{m}, InfoIndex: -1}, genv)
		if expected != nil && sym != 0 {
			if got, ok := c.Module.Get(sym).Type.(*types.Scheme); ok {
				c.unify(m, got.Body, expected)
			}
		}
		if sym != 0 {
			if got, ok := c.Module.Get(sym).Type.(*types.Scheme); ok {
				inst.Methods[name] = got
			}
		}
	}

	if err := c.Instances.AddInstance(inst); err != nil {
		c.report(nerrors.DuplicateDeclaration, d.SourceLoc(), d.EndLoc(), err.Error())
	}
}

// memberSignature recovers (name, declared symbol, declared scheme) for one
// instance method body so instanceDecl can look up its class signature.
func (c *Checker) memberSignature(m ast.Decl, classDecl *types.ClassDecl) (string, symbol.ID, *types.Scheme) {
	var name string
	var sym symbol.ID
	switch m := m.(type) {
	case *ast.SimpleAssignment:
		name, sym = m.Name, m.Symbol
	case *ast.ApatsAssignment:
		name, sym = m.Name, m.Symbol
	default:
		return "", 0, nil
	}
	if classDecl == nil {
		return name, sym, nil
	}
	return name, sym, classDecl.MethodSigs[name]
}

func conHeadName(t types.Type) string {
	switch t := t.(type) {
	case *types.Con:
		return t.Name
	default:
		return fmt.Sprintf("%s", t)
	}
}
