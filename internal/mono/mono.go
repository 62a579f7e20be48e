// Package mono implements phase F (spec.md §4.F): monomorphization driven
// by the use-site instantiation substitutions phase E recorded on every
// VAR occurrence (`InstSubs`).
//
// Grounded on _examples/vovakirdan-surge/internal/mono/monomorphize.go's
// monoBuilder.ensureFunc: a memoizing, depth-and-cycle-guarded recursive
// instantiation driver keyed by (original symbol, normalized type args),
// adapted from surge's HIR-function cloning to this package's
// Decl-cloning (cloneDecl, clone.go) and Scheme-substitution
// (substType/substScheme, subst_type.go).
package mono

import (
	"fmt"

	"github.com/sunholo/ailang/internal/ast"
	nerrors "github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

// MonoKey identifies one specialization: an original declaration's symbol
// plus the mangled tag of its ground type arguments.
type MonoKey struct {
	Sym     symbol.ID
	ArgsKey string
}

// Monomorphizer threads the owning symbol.Module and the phase-D
// declaration-group list through the specialization driver.
type Monomorphizer struct {
	Module   *symbol.Module
	MaxDepth int

	list        *ast.DeclarationGroupList
	byID        map[symbol.ID]ast.Decl
	specialized map[MonoKey]symbol.ID
	errs        []*nerrors.CompileError
}

func New(mod *symbol.Module) *Monomorphizer {
	return &Monomorphizer{Module: mod, MaxDepth: 64, specialized: make(map[MonoKey]symbol.ID)}
}

// Errors returns every ambiguous_type_variable / non_recursive_initialized_value
// / non_concrete_initialized_value error collected during Run.
func (m *Monomorphizer) Errors() []*nerrors.CompileError { return m.errs }

// Run rewrites every fully-ground use-site instantiation reachable from
// list into a specialized declaration, appended to list as a fresh
// singleton group, and overwrites the use site's VAR to point at it.
func (m *Monomorphizer) Run(list *ast.DeclarationGroupList) *ast.DeclarationGroupList {
	m.list = list
	m.byID = make(map[symbol.ID]ast.Decl)
	for _, g := range list.Groups {
		for _, d := range g.Members {
			if id, ok := declSymbol(d); ok {
				m.byID[id] = d
			}
		}
	}

	m.checkInitializers(list)

	// New groups appended by ensureSpecialization are picked up by this
	// same loop as len(list.Groups) grows, so nested instantiations
	// (a specialized function calling another generic function) are
	// resolved without a separate fixed-point driver.
	for i := 0; i < len(m.list.Groups); i++ {
		for _, d := range m.list.Groups[i].Members {
			m.visitDecl(d, nil)
		}
	}
	return m.list
}

func declSymbol(d ast.Decl) (symbol.ID, bool) {
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

// checkInitializers implements spec.md §4.F's recursive-value and
// non-concrete-initializer checks, both stated as "errors surfaced here".
func (m *Monomorphizer) checkInitializers(list *ast.DeclarationGroupList) {
	for _, g := range list.Groups {
		for _, d := range g.Members {
			sa, ok := d.(*ast.SimpleAssignment)
			if !ok || sa.Initializer == nil {
				continue
			}
			sym := m.Module.Get(sa.Symbol)
			if !sym.IsRecursive {
				m.errs = append(m.errs, nerrors.New(nerrors.NonRecursiveInitializedValue,
					sa.SourceLoc(), sa.EndLoc(),
					fmt.Sprintf("%s carries an initializer but is not recursive in its own right-hand side", sa.Name)))
				continue
			}
			if scheme, ok := sym.Type.(*types.Scheme); ok && scheme != nil {
				if _, isFun := types.Prune(scheme.Body).(*types.Fun); isFun {
					m.errs = append(m.errs, nerrors.New(nerrors.NonConcreteInitializedValue,
						sa.SourceLoc(), sa.EndLoc(),
						fmt.Sprintf("%s's initializer has a higher-order (functional) type", sa.Name)))
				}
			}
		}
	}
}

func (m *Monomorphizer) visitDecl(d ast.Decl, stack []MonoKey) {
	switch d := d.(type) {
	case *ast.SimpleAssignment:
		if d.Initializer != nil {
			m.visitExpr(d.Initializer, stack)
		}
		m.visitRhs(d.Rhs, stack)
	case *ast.ApatsAssignment:
		m.visitRhs(d.Rhs, stack)
	case *ast.PatAssignment:
		m.visitRhs(d.Rhs, stack)
	case *ast.TypeClassInstance:
		for _, mem := range d.Methods {
			m.visitDecl(mem, stack)
		}
	case *ast.TypeClassDeclaration:
		for _, def := range d.Defaults {
			m.visitDecl(def, stack)
		}
	}
}

func (m *Monomorphizer) visitRhs(rhs *ast.Rhs, stack []MonoKey) {
	if rhs == nil {
		return
	}
	for _, w := range rhs.Where {
		m.visitDecl(w, stack)
	}
	m.visitExpr(rhs.Expr, stack)
}

// visitExpr walks every expression form that can carry a VAR occurrence,
// resolving any use-site instantiation in place.
func (m *Monomorphizer) visitExpr(e ast.Expr, stack []MonoKey) {
	if e == nil {
		return
	}
	switch e := e.(type) {
	case *ast.Var:
		m.resolveVarInstantiation(e, stack)
	case *ast.Let:
		for _, group := range e.Groups.Groups {
			for _, mem := range group.Members {
				m.visitDecl(mem, stack)
			}
		}
		m.visitExpr(e.Body, stack)
	case *ast.Lambda:
		m.visitExpr(e.Body, stack)
	case *ast.App:
		m.visitExpr(e.Func, stack)
		m.visitExpr(e.Arg, stack)
	case *ast.IfThenElse:
		m.visitExpr(e.Cond, stack)
		m.visitExpr(e.Then, stack)
		m.visitExpr(e.Else, stack)
	case *ast.Case:
		m.visitExpr(e.Scrutinee, stack)
		for _, alt := range e.Alts {
			m.visitExpr(alt.Body, stack)
		}
	case *ast.Tuple:
		for _, el := range e.Elems {
			m.visitExpr(el, stack)
		}
	case *ast.ExpressionList:
		for _, el := range e.Elems {
			m.visitExpr(el, stack)
		}
	case *ast.ExpressionArray:
		for _, el := range e.Elems {
			m.visitExpr(el, stack)
		}
	case *ast.BinOp:
		m.visitExpr(e.Left, stack)
		m.visitExpr(e.Right, stack)
	case *ast.OpLeftSection:
		m.visitExpr(e.Left, stack)
	case *ast.OpRightSection:
		m.visitExpr(e.Right, stack)
	case *ast.ArithmeticSequence:
		m.visitExpr(e.From, stack)
		m.visitExpr(e.Then, stack)
		m.visitExpr(e.To, stack)
	case *ast.Do:
		for _, s := range e.Stmts {
			m.visitDoStmt(s, stack)
		}
	case *ast.ForLoop:
		m.visitExpr(e.RangeSeq, stack)
		m.visitExpr(e.Body, stack)
	case *ast.WhileLoop:
		m.visitExpr(e.Pred, stack)
		m.visitExpr(e.Body, stack)
	case *ast.SeqExpression:
		for _, el := range e.Elems {
			m.visitExpr(el, stack)
		}
	}
}

func (m *Monomorphizer) visitDoStmt(s ast.DoStmt, stack []MonoKey) {
	switch s := s.(type) {
	case *ast.BindAssignment:
		m.visitExpr(s.Expr, stack)
	case *ast.PatBindAssignment:
		m.visitExpr(s.Expr, stack)
	case *ast.ExprStmt:
		m.visitExpr(s.Expr, stack)
	}
}

func (m *Monomorphizer) resolveVarInstantiation(v *ast.Var, stack []MonoKey) {
	if len(v.InstSubs) == 0 {
		return
	}
	newID, ok := m.ensureSpecialization(v.Symbol, v.InstSubs, stack)
	if !ok {
		return
	}
	v.Symbol = newID
	v.Name = m.Module.Get(newID).UniqueName
	v.InstSubs = nil
}

// ensureSpecialization implements spec.md §4.F's four numbered steps for
// one use-site substitution list, memoizing on MonoKey the way
// monoBuilder.ensureFunc memoizes on its own MonoKey.
func (m *Monomorphizer) ensureSpecialization(origID symbol.ID, subs []ast.InstSub, stack []MonoKey) (symbol.ID, bool) {
	tags := make([]string, len(subs))
	nameMap := make(map[string]types.Type, len(subs))
	for i, s := range subs {
		if s.NewType == nil {
			m.errs = append(m.errs, nerrors.New(nerrors.AmbiguousTypeVariable, ast.Pos{}, ast.Pos{},
				fmt.Sprintf("%s: substitution for %s does not fully ground its type variables",
					m.Module.Get(origID).SourceName, s.VarToReplace)))
			return origID, false
		}
		tags[i] = (*s.NewType).String()
		nameMap[s.VarToReplace] = *s.NewType
	}

	mangled := symbol.Mangle(m.Module.Get(origID).SourceName, tags)
	key := MonoKey{Sym: origID, ArgsKey: mangled}
	if existing, ok := m.specialized[key]; ok {
		return existing, true
	}

	if len(stack) >= m.MaxDepth {
		m.errs = append(m.errs, nerrors.New(nerrors.AmbiguousTypeVariable, ast.Pos{}, ast.Pos{},
			fmt.Sprintf("monomorphization depth exceeded specializing %s", mangled)))
		return origID, false
	}
	for _, k := range stack {
		if k == key {
			m.errs = append(m.errs, nerrors.New(nerrors.AmbiguousTypeVariable, ast.Pos{}, ast.Pos{},
				fmt.Sprintf("monomorphization cycle detected specializing %s", mangled)))
			return origID, false
		}
	}

	newID := m.Module.Clone(origID, mangled)
	m.specialized[key] = newID
	newSym := m.Module.Get(newID)
	if scheme, ok := m.Module.Get(origID).Type.(*types.Scheme); ok {
		newSym.Type = substScheme(scheme, nameMap)
	}

	origDecl, hasBody := m.byID[origID]
	if !hasBody {
		// A base-module primitive or data constructor: no AST body to
		// clone, the fresh symbol alone is the specialization.
		return newID, true
	}

	newDecl := cloneDecl(origDecl)
	setDeclSymbol(newDecl, newID, mangled)
	m.byID[newID] = newDecl
	substTypesInDecl(newDecl, nameMap)

	m.list.Groups = append(m.list.Groups, &ast.DeclarationGroup{
		Members:   []ast.Decl{newDecl},
		InfoIndex: len(m.list.Groups),
	})

	m.visitDecl(newDecl, append(stack, key))
	return newID, true
}

func setDeclSymbol(d ast.Decl, id symbol.ID, name string) {
	switch d := d.(type) {
	case *ast.SimpleAssignment:
		d.Symbol, d.Name = id, name
	case *ast.ApatsAssignment:
		d.Symbol, d.Name = id, name
	}
}
