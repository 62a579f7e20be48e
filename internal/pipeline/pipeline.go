// Package pipeline wires phases A through K (spec.md §2) into a single
// compilation driver: reify → scope → rename+alias → depanalysis → infer
// → monomorphize → core-translate → presimplify → lambda-lift →
// defunctionalize → state-analysis, stopping early when CompileInfo's
// CompilationPhase says so.
//
// Grounded on the teacher's internal/pipeline.Pipeline: a single struct
// threading a *symbol.Module (there, the AILANG module + env) through an
// ordered sequence of phase calls, accumulating errors rather than
// aborting on the first one, and returning a result value the driver
// renders. The phase sequence itself is Necro's, not AILANG's — the
// teacher's CompileUnit/eval/link/runtime stages have no analogue here,
// since Necro stops at a Core IR rather than evaluating or linking it.
package pipeline

import (
	"fmt"

	"github.com/sunholo/ailang/internal/aliasanalysis"
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/basemodule"
	"github.com/sunholo/ailang/internal/config"
	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/defunc"
	"github.com/sunholo/ailang/internal/depanalysis"
	nerrors "github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/infer"
	"github.com/sunholo/ailang/internal/lambdalift"
	"github.com/sunholo/ailang/internal/mono"
	"github.com/sunholo/ailang/internal/parsetree"
	"github.com/sunholo/ailang/internal/presimplify"
	"github.com/sunholo/ailang/internal/reify"
	"github.com/sunholo/ailang/internal/rename"
	"github.com/sunholo/ailang/internal/scope"
	"github.com/sunholo/ailang/internal/stateanalysis"
	"github.com/sunholo/ailang/internal/symbol"
)

// Result carries every artifact a caller might want to inspect after a
// (possibly early-stopped, possibly failed) compilation: the final
// reached phase, the user module's symbol arena, the declaration groups
// phase D/E/F operated on, the Core program once phase G has run, and any
// errors phases A–K collected along the way.
type Result struct {
	Base   *basemodule.NecroBase
	Module *symbol.Module

	Scope *ast.Scope
	Decls *ast.DeclarationGroupList
	Core  *core.Program

	ReachedPhase config.Phase
	Errors       []*nerrors.CompileError
}

// Compile runs pm (a freshly parsed module) through every phase
// CompileInfo's CompilationPhase allows, against a fresh NecroBase.
// Compilation never panics on a CompileError — every phase reports
// through Result.Errors, per spec.md §7 ("errors are values, never
// exceptions") — and Compile returns early with what it has when phase
// C, E or F reports a blocking error.
func Compile(pm *parsetree.Module, userModName string, info *config.CompileInfo) *Result {
	if info == nil {
		info = config.Default()
	}
	info.StampTrace()

	base := basemodule.Build()
	// NewUserModule pre-seeds mod's arena with every NecroBase AstSymbol at
	// base's own IDs, so a symbol.ID phase C's rename resolves against the
	// merged base+user ast.Scope (see internal/scope.Builder.Build below)
	// is valid to Get/Lookup on mod regardless of which module declared it —
	// no separate module tag or parent-chased lookup needed.
	mod := symbol.NewUserModule(userModName, base.Module)
	res := &Result{Base: base, Module: mod}

	// Phase A — reify.
	top := reify.New(mod).Reify(pm)
	res.ReachedPhase = config.PhaseReify
	if !info.Reaches(config.PhaseScope) {
		return res
	}

	// Phase B — scope.
	res.Scope = scope.New(mod).Build(top, base.Module)
	res.ReachedPhase = config.PhaseScope
	if !info.Reaches(config.PhaseRename) {
		return res
	}

	// Phase C — rename + alias analysis.
	renamer := rename.New()
	renamer.Rename(top)
	res.Errors = append(res.Errors, renamer.Errors()...)
	aliasanalysis.New(mod).Analyze(top)
	res.ReachedPhase = config.PhaseRename
	if hasBlocking(res.Errors) || !info.Reaches(config.PhaseDepAnalysis) {
		return res
	}

	// Phase D — dependency analysis.
	res.Decls = depanalysis.New(mod).Build(top)
	res.ReachedPhase = config.PhaseDepAnalysis
	if !info.Reaches(config.PhaseInfer) {
		return res
	}

	// Phase E — kind & type inference.
	checker := infer.New(mod, base.Kinds, base.Instances)
	res.Decls = checker.Run(res.Decls)
	res.Errors = append(res.Errors, checker.Errors()...)
	res.ReachedPhase = config.PhaseInfer
	if hasBlocking(res.Errors) || !info.Reaches(config.PhaseMonomorphize) {
		return res
	}

	// Phase F — monomorphization.
	monomorphizer := mono.New(mod)
	res.Decls = monomorphizer.Run(res.Decls)
	res.Errors = append(res.Errors, monomorphizer.Errors()...)
	res.ReachedPhase = config.PhaseMonomorphize
	if hasBlocking(res.Errors) || !info.Reaches(config.PhaseCoreTranslate) {
		return res
	}

	// Phase G — Core translation.
	res.Core = translateProgram(mod, res.Decls)
	res.ReachedPhase = config.PhaseCoreTranslate
	if !info.Reaches(config.PhasePresimplify) {
		return res
	}

	// Phase H — presimplification (opt_level gated: spec.md §1's
	// Non-goals exclude any optimizer beyond this, but the rewrite pass
	// itself is still skippable via opt_level=none, matching
	// config.OptNone's doc comment).
	if info.OptLevel == config.OptBasic {
		simplifier := presimplify.New(res.Core)
		res.Core = simplifier.Run(res.Core)
	}
	res.ReachedPhase = config.PhasePresimplify
	if !info.Reaches(config.PhaseLambdaLift) {
		return res
	}

	// Phase I — lambda lifting.
	res.Core = lambdalift.New(mod).Run(res.Core)
	res.ReachedPhase = config.PhaseLambdaLift
	if !info.Reaches(config.PhaseDefunc) {
		return res
	}

	// Phase J — defunctionalization.
	res.Core = defunc.New(mod).Run(res.Core)
	res.ReachedPhase = config.PhaseDefunc
	if !info.Reaches(config.PhaseStateAnalysis) {
		return res
	}

	// Phase K — state analysis + deep-copy synthesis.
	res.Core = stateanalysis.New(mod).Run(res.Core)
	res.ReachedPhase = config.PhaseStateAnalysis

	return res
}

// hasBlocking reports whether errs contains anything other than a
// warning-class kind; Necro's error table (spec.md §7) has no warning
// kinds today, so this is equivalent to len(errs) > 0, but is written as
// its own predicate so a future warning-class error doesn't silently
// start aborting the pipeline.
func hasBlocking(errs []*nerrors.CompileError) bool {
	return len(errs) > 0
}

// translateProgram flattens phase D/E/F's DeclarationGroupList back into
// Core's flat dependency-ordered bind list — internal/core.Translator
// only knows how to lower one declaration at a time (TranslateDecl), so
// the pipeline is what walks the groups in order and concatenates.
func translateProgram(mod *symbol.Module, list *ast.DeclarationGroupList) *core.Program {
	tr := core.NewTranslator(mod)
	prog := &core.Program{}
	for _, group := range list.Groups {
		for _, d := range group.Members {
			prog.Binds = append(prog.Binds, tr.TranslateDecl(d))
		}
	}
	return prog
}

// Summary renders a one-line human-readable outcome, used by cmd/necro's
// `check` subcommand when it doesn't need the full diagnostic listing.
func (r *Result) Summary() string {
	if len(r.Errors) > 0 {
		return fmt.Sprintf("reached phase %s with %d error(s)", r.ReachedPhase, len(r.Errors))
	}
	return fmt.Sprintf("ok: reached phase %s, %d Core binding(s)", r.ReachedPhase, coreLen(r.Core))
}

func coreLen(p *core.Program) int {
	if p == nil {
		return 0
	}
	return len(p.Binds)
}
