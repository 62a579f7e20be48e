package pipeline

import (
	"testing"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/config"
	"github.com/sunholo/ailang/internal/parsetree"
)

// identity = \x -> x   pushed through the full pipeline: phases A-K all
// run, Core gets exactly one binding, and no phase reports an error.
func TestCompileRunsIdentityThroughEveryPhase(t *testing.T) {
	pm := &parsetree.Module{
		Decls: []parsetree.Decl{
			&parsetree.ApatsAssignment{
				Name:  "identity",
				Apats: []parsetree.Pattern{&parsetree.VarPattern{Name: "x"}},
				Rhs:   &parsetree.Rhs{Expr: &parsetree.Var{Name: "x"}},
			},
		},
	}

	res := Compile(pm, "main", config.Default())

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.ReachedPhase != config.PhaseStateAnalysis {
		t.Fatalf("expected to reach phase K, got %s", res.ReachedPhase)
	}
	if res.Core == nil || len(res.Core.Binds) != 1 {
		t.Fatalf("expected exactly one Core binding, got %v", res.Core)
	}
}

// A CompileInfo whose CompilationPhase is E stops before monomorphization;
// Result.Core must stay nil since phase G never ran.
func TestCompileStopsAtConfiguredPhase(t *testing.T) {
	pm := &parsetree.Module{
		Decls: []parsetree.Decl{
			&parsetree.SimpleAssignment{Name: "answer", Rhs: &parsetree.Rhs{Expr: &parsetree.Constant{Kind: parsetree.IntLit, Int: 42}}},
		},
	}
	info := config.Default()
	info.CompilationPhase = config.PhaseInfer

	res := Compile(pm, "main", info)

	if res.ReachedPhase != config.PhaseInfer {
		t.Fatalf("expected to stop at phase E, got %s", res.ReachedPhase)
	}
	if res.Core != nil {
		t.Fatalf("expected Core to stay nil when stopped before phase G, got %v", res.Core)
	}
}

// A VAR occurrence with no binding anywhere in scope is reported by
// rename as not_in_scope, and the pipeline stops there rather than
// pushing an unresolved AST into dependency analysis.
func TestCompileStopsAtRenameOnUnboundVar(t *testing.T) {
	pm := &parsetree.Module{
		Decls: []parsetree.Decl{
			&parsetree.SimpleAssignment{Name: "broken", Rhs: &parsetree.Rhs{Expr: &parsetree.Var{Name: "nowhere"}}},
		},
	}

	res := Compile(pm, "main", config.Default())

	if len(res.Errors) == 0 {
		t.Fatalf("expected a not_in_scope error")
	}
	if res.ReachedPhase != config.PhaseRename {
		t.Fatalf("expected the pipeline to stop at phase C, got %s", res.ReachedPhase)
	}
	var scope *ast.Scope = res.Scope
	if scope == nil {
		t.Fatalf("expected phase B's scope to still be populated")
	}
}
