package stateanalysis

import (
	"fmt"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

// maybeDeepCopy is necro_core_ast_maybe_deep_copy: wraps e in a call to
// e's type's synthesized deep-copy function, unless that type turns out to
// need no copying (a type variable, a primitive, or an enum), in which case
// e is returned unchanged.
func (s *StateAnalysis) maybeDeepCopy(e core.CoreExpr) core.CoreExpr {
	t := typeOf(e)
	if t == nil {
		return e
	}
	return s.maybeDeepCopyTyped(e, t)
}

func (s *StateAnalysis) maybeDeepCopyTyped(e core.CoreExpr, t types.Type) core.CoreExpr {
	con, ok := t.(*types.Con)
	if !ok {
		// A bare type variable here means the declared field/value is
		// polymorphic; by the time state analysis runs every value binding
		// has been monomorphized (internal/mono), so this is only reached
		// for genuinely ownership-irrelevant positions (e.g. a phantom type
		// parameter) and is safe to leave untouched.
		return e
	}
	if con.Name == "Array" {
		return s.deepCopyArray(e, con)
	}
	decl, ok := s.dataDecls[con.Name]
	if !ok {
		// Primitive (Int, Float, Char, Bool, Unit, Audio, World, ...) or a
		// type this module never declares a DataDecl for: identity copy.
		return e
	}
	fn := s.deepCopyFn(decl)
	if fn == 0 {
		return e
	}
	fnSym := s.Module.Get(fn)
	return &core.App{
		CoreNode: core.CoreNode{NodeID: core.NextNodeID(), Type: t},
		Func:     &core.Var{CoreNode: core.CoreNode{NodeID: core.NextNodeID()}, Symbol: fn, Name: fnSym.SourceName},
		Arg:      e,
	}
}

// deepCopyArray is necro_core_ast_create_deep_copy_array. The original
// leaves this unfinished ("TODO: Finish!", its FOR-loop-over-indices body
// is commented out wholesale) and falls back to returning the array
// unchanged; this port keeps that exact fallback rather than inventing a
// FOR-loop shape the source never committed to.
func (s *StateAnalysis) deepCopyArray(e core.CoreExpr, con *types.Con) core.CoreExpr {
	_ = con
	return e
}

// deepCopyFn is necro_core_ast_create_deep_copy, memoized the way the
// original's NecroCoreAstSymbolTable memoizes deep_copy_fn per type. The
// function symbol is recorded in the memo table BEFORE its body is built,
// not after: a directly self-referential field (a recursive data type)
// would otherwise send necro_state_analysis-style construction into
// unbounded recursion, since the field's own deep copy call would retrigger
// deepCopyFn for the same decl and find no memoized answer yet. Recording
// the symbol first lets a self-reference resolve to a call to the very
// function being built, matching how any other recursive binding resolves
// itself.
func (s *StateAnalysis) deepCopyFn(decl *core.DataDecl) symbol.ID {
	if fn, ok := s.deepCopyFns[decl.Symbol]; ok {
		return fn
	}

	isEnum := true
	for _, con := range decl.Constructors {
		if len(con.Fields) != 0 {
			isEnum = false
			break
		}
	}
	if isEnum {
		s.deepCopyFns[decl.Symbol] = 0
		return 0
	}

	name := "deepCopy$" + decl.Name
	fnSym := s.Module.Declare(name)
	s.deepCopyFns[decl.Symbol] = fnSym

	argSym := s.Module.Declare("x")
	scrut := &core.Var{Symbol: argSym, Name: "x"}

	alts := make([]core.CaseAlt, 0, len(decl.Constructors))
	for _, con := range decl.Constructors {
		fieldSyms := make([]symbol.ID, len(con.Fields))
		fieldNames := make([]string, len(con.Fields))
		for i := range con.Fields {
			fieldSyms[i] = s.Module.Declare(fmt.Sprintf("p%d", i))
			fieldNames[i] = fmt.Sprintf("p%d", i)
		}
		pat := &core.PCon{ConName: con.Name, Fields: fieldNames, Symbols: fieldSyms}

		var body core.CoreExpr = &core.Var{Symbol: con.Symbol, Name: con.Name}
		for i, ft := range con.Fields {
			fieldVar := core.CoreExpr(&core.Var{
				CoreNode: core.CoreNode{Type: ft},
				Symbol:   fieldSyms[i], Name: fieldNames[i],
			})
			body = &core.App{Func: body, Arg: s.maybeDeepCopyTyped(fieldVar, types.Prune(ft))}
		}
		alts = append(alts, core.CaseAlt{Pattern: pat, Body: body})
	}

	caseExpr := &core.Case{Scrutinee: scrut, Alts: alts, Exhaustive: true}
	lam := &core.Lam{Params: []symbol.ID{argSym}, Names: []string{"x"}, Body: caseExpr}
	bind := &core.Bind{Symbol: fnSym, Name: name, Value: lam}
	s.Module.Get(fnSym).StateType = symbol.StatePointwise

	s.newBinds = append(s.newBinds, bind)
	return fnSym
}
