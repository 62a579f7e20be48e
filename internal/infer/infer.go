// Package infer implements phase E (spec.md §4.E): kind inference
// interleaved with type inference over the dependency-ordered
// DeclarationGroupList phase D (internal/depanalysis) produces, populating
// every ast.Var's InstSubs so phase F (internal/mono) can monomorphize.
//
// This cannot live in internal/types itself: internal/ast's base struct
// already carries a *types.Type field (ast imports types for the NecroType
// annotation spec.md §3 requires on every node), so a types-package
// inferencer walking *ast.* nodes would close an import cycle. The
// teacher's own internal/types/typechecker.go gets away with
// `package types; import ".../internal/ast"` only because the teacher's
// ast package never imports types back — that shortcut isn't available
// here, so this driver lives in its own package and imports both, the same
// layout internal/mono (phase F) already uses successfully.
//
// Grounded on the teacher's internal/types/typechecker.go: the
// TypeChecker{errors}/CheckProgram/checkDecl walking shape and the
// threaded-environment style are kept; CheckProgram's single flat program
// walk is generalized to walk phase D's per-SCC DeclarationGroupList so
// that a recursive group's members can share fresh placeholder types
// before any of their right-hand sides are checked (classic letrec
// generalization), and checkDecl's switch is extended to Necro's full decl
// set (data declarations, type classes, instances) absent from AILANG's
// surface.
package infer

import (
	"fmt"

	"github.com/sunholo/ailang/internal/ast"
	nerrors "github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

// Checker threads the owning symbol.Module, the shared kind and instance
// tables, and the lexical-scope depth counter through the whole pass.
type Checker struct {
	Module    *symbol.Module
	Kinds     *types.KindTable
	Instances *types.InstanceTable

	unifier *types.Unifier
	scope   int
	errs    []*nerrors.CompileError
	pending []pendingVarInst
}

// pendingVarInst records one polymorphic ast.Var occurrence's instantiation
// so it can be finalized into concrete InstSubs once the enclosing group's
// unification has settled (spec.md §4.E: "instantiation substitutions are
// only ground after the defining group is fully checked").
type pendingVarInst struct {
	v         *ast.Var
	names     []string
	freshVars []*types.Var
}

// New creates a checker sharing kinds and instances with the rest of the
// compilation unit (both are seeded with NecroBase's declarations before
// the user module's phase E runs).
func New(mod *symbol.Module, kinds *types.KindTable, instances *types.InstanceTable) *Checker {
	return &Checker{
		Module:    mod,
		Kinds:     kinds,
		Instances: instances,
		unifier:   types.NewUnifier(),
	}
}

// Errors returns every mismatched_type / occurs_check / rigid_type_variable
// / kind_mismatch / kind_mismatched_arity / ambiguous_type_variable error
// collected during Run. No missing_instance error is reported: Run does
// not resolve class methods against the instance table.
func (c *Checker) Errors() []*nerrors.CompileError { return c.errs }

// Run type- and kind-checks every group of list in dependency order,
// generalizing each group's members before moving to the next so later
// groups see already-generalized schemes rather than raw monotypes
// (spec.md §4.E "Generalization happens once per declaration group, not
// once per declaration").
func (c *Checker) Run(list *ast.DeclarationGroupList) *ast.DeclarationGroupList {
	c.declareDataKinds(list)

	root := newEnv(nil)
	for _, g := range list.Groups {
		c.group(g, root)
	}
	return list
}

func (c *Checker) report(kind nerrors.Kind, loc, end ast.Pos, msg string) {
	c.errs = append(c.errs, nerrors.New(kind, loc, end, msg))
}

// unify wraps c.unifier.Unify, translating a *types.UnifyError into the
// matching nerrors.CompileError (the two Kind enumerations share their
// string literals by construction, see internal/errors's doc comment).
func (c *Checker) unify(n ast.Node, t1, t2 types.Type) bool {
	if err := c.unifier.Unify(t1, t2); err != nil {
		if ue, ok := err.(*types.UnifyError); ok {
			ce := nerrors.New(nerrors.Kind(ue.Kind), n.SourceLoc(), n.EndLoc(), ue.Error()).
				WithTypes(ue.T1.String(), ue.T2.String())
			c.errs = append(c.errs, ce)
		} else {
			c.report(nerrors.MismatchedType, n.SourceLoc(), n.EndLoc(), err.Error())
		}
		return false
	}
	return true
}

func (c *Checker) fresh() *types.Var { return types.NewVar(c.scope) }

func setNodeType(n ast.Node, t types.Type) {
	n.SetNecroType(&t)
}

// finalizePending turns every ast.Var instantiation recorded while checking
// the group just finished into a concrete InstSubs list, pruning each fresh
// variable to whatever it was unified to (spec.md §4.E step feeding §4.F).
// A var that stayed unbound is still ambiguous; AmbiguityDefault resolves
// it rather than leaving a dangling type variable in Core.
func (c *Checker) finalizePending() {
	for _, p := range c.pending {
		subs := make([]ast.InstSub, len(p.freshVars))
		for i, fv := range p.freshVars {
			resolved := c.defaultAmbiguous(fv)
			subs[i] = ast.InstSub{VarToReplace: p.names[i], NewName: resolved.String(), NewType: &resolved}
		}
		p.v.InstSubs = subs
	}
	c.pending = nil
}

// defaultAmbiguous prunes v and, if it is still a bare unbound flex var,
// applies spec.md §4.E's Num/Fractional/Eq-Ord defaulting before handing
// the result to monomorphization; a var defaulting rule can't resolve is
// reported as ambiguous_type_variable.
func (c *Checker) defaultAmbiguous(v *types.Var) types.Type {
	t := types.Prune(v)
	root, ok := t.(*types.Var)
	if !ok {
		return t
	}
	if resolved, ok := types.AmbiguityDefault(root, root.Context); ok {
		c.unifier.Unify(root, resolved)
		return resolved
	}
	c.report(nerrors.AmbiguousTypeVariable, ast.Pos{}, ast.Pos{},
		fmt.Sprintf("%s is ambiguous: no Num/Fractional/Eq/Ord defaulting rule applies", root.Name))
	return root
}
