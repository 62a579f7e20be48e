package infer

import (
	"fmt"

	"github.com/sunholo/ailang/internal/ast"
	nerrors "github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/types"
)

// declareDataKinds pre-registers every DataDeclaration's type-constructor
// kind (spec.md §4.E: "type constructors look up their declared kind-arity")
// in one pass over the whole list before any group is checked, so two data
// types in different (or even the same) SCC can reference each other's
// constructors regardless of declaration order — mirroring how
// internal/depanalysis's own pass 2 (visitDataDecls) must see every data
// declaration's constructors before computing edges.
func (c *Checker) declareDataKinds(list *ast.DeclarationGroupList) {
	for _, g := range list.Groups {
		for _, d := range g.Members {
			dd, ok := d.(*ast.DataDeclaration)
			if !ok {
				continue
			}
			paramKinds := make([]types.Kind, len(dd.SimpleType.VarNames))
			for i := range paramKinds {
				paramKinds[i] = types.KindType
			}
			c.Kinds.Declare(dd.SimpleType.ConName, paramKinds)
		}
	}
}

// tyVarEnv maps a signature or data-declaration's lowercase type variable
// names to the rigid *types.Var introduced for them (spec.md §4.E: type
// variables bound by a signature are rigid, never bound by unification).
type tyVarEnv map[string]*types.Var

func (c *Checker) rigidVar(env tyVarEnv, name string) *types.Var {
	if v, ok := env[name]; ok {
		return v
	}
	v := types.NewRigidVar(name, c.scope)
	env[name] = v
	return v
}

// elaborateType translates a surface ast.Type into the internal
// types.Type representation, checking every TYPE_CON application's arity
// against its declared kind (spec.md §3 invariant: "Every TYPE_CON has an
// argument count exactly matching the declared kind-arity").
func (c *Checker) elaborateType(t ast.Type, tv tyVarEnv) types.Type {
	switch t := t.(type) {
	case *ast.TypeVarRef:
		return c.rigidVar(tv, t.Name)

	case *ast.ConId:
		return c.elaborateCon(t, t.Name, nil, tv)

	case *ast.TypeCon:
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.elaborateType(a, tv)
		}
		return c.elaborateCon(t, t.Name, args, tv)

	case *ast.TypeApp:
		return c.elaborateType(ast.UncurryTypeApp(t), tv)

	case *ast.FunctionType:
		return &types.Fun{From: c.elaborateType(t.From, tv), To: c.elaborateType(t.To, tv)}

	case *ast.TypeAttribute:
		base := c.elaborateType(t.Of, tv)
		attr := types.Shared
		if t.Attr == "Unique" {
			attr = types.Unique
		}
		if err := types.SetOwnership(base, attr); err != nil {
			c.report(nerrors.UniquenessViolation, t.SourceLoc(), t.EndLoc(), err.Error())
		}
		return base

	default:
		c.report(nerrors.KindMismatch, t.SourceLoc(), t.EndLoc(),
			fmt.Sprintf("unrecognized surface type node %T", t))
		return c.fresh()
	}
}

func (c *Checker) elaborateCon(n ast.Node, name string, args []types.Type, tv tyVarEnv) types.Type {
	kind, ok := c.Kinds.Lookup(name)
	if !ok {
		c.report(nerrors.KindMismatch, n.SourceLoc(), n.EndLoc(),
			fmt.Sprintf("%s has no declared kind", name))
		return &types.Con{Name: name, Args: args}
	}
	if got := types.Arity(kind); got != len(args) {
		c.report(nerrors.KindMismatchedArity, n.SourceLoc(), n.EndLoc(),
			fmt.Sprintf("%s expects %d argument(s), got %d", name, got, len(args)))
	}
	return &types.Con{Name: name, Args: args}
}

// elaborateSignature builds the Scheme a TypeSignature or class method
// declares: every rigid var introduced while elaborating Ty is quantified,
// with the declared TypeClassContext entries reattached as constraints. A
// caller that needs a variable pre-seeded (a class method sharing its
// class's own type parameter) passes a non-empty tv; any other caller
// passes an empty one.
func (c *Checker) elaborateSignature(ts *ast.TypeSignature, tv tyVarEnv) *types.Scheme {
	body := c.elaborateType(ts.Ty, tv)
	vars := make([]*types.Var, 0, len(tv))
	for _, v := range tv {
		vars = append(vars, v)
	}
	var constraints []types.Constraint
	for _, ctx := range ts.Context {
		for _, name := range ctx.VarNames {
			if v, ok := tv[name]; ok {
				constraints = append(constraints, types.Constraint{Class: ctx.ClassName, Type: v})
			}
		}
	}
	return &types.Scheme{Vars: vars, Constraints: constraints, Body: body}
}
