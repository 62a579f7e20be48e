package infer

import (
	"github.com/sunholo/ailang/internal/symbol"
	"github.com/sunholo/ailang/internal/types"
)

// env is a lexical chain of symbol-keyed scheme bindings, grounded on the
// teacher's internal/types.TypeEnv (parent-chain, immutable Extend), keyed
// here by the already-resolved symbol.ID rather than a source name since
// renaming (phase C) has settled every occurrence's binding by the time
// phase E runs.
type env struct {
	parent *env
	vars   map[symbol.ID]*types.Scheme
}

func newEnv(parent *env) *env {
	return &env{parent: parent, vars: make(map[symbol.ID]*types.Scheme)}
}

func (e *env) bind(id symbol.ID, s *types.Scheme) { e.vars[id] = s }

func (e *env) bindMono(id symbol.ID, t types.Type) { e.bind(id, types.Monotype(t)) }

func (e *env) lookup(id symbol.ID) (*types.Scheme, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if s, ok := cur.vars[id]; ok {
			return s, true
		}
	}
	return nil, false
}

// child opens a fresh nested scope, mirroring TypeEnv.Extend's
// "new environment per binding group" shape.
func (e *env) child() *env { return newEnv(e) }
