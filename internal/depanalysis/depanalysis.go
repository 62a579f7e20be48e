// Package depanalysis implements phase D (spec.md §4.D): Tarjan's
// strongly-connected-component algorithm executed over top-level
// declarations, in five passes per declaration level, producing a
// topologically ordered ast.DeclarationGroupList.
//
// Grounded on internal/elaborate/scc.go's CallGraph/SCCs (the Tarjan
// implementation is kept near-verbatim in control flow, generalized from
// string call-graph nodes built from *ast.Identifier references to
// node keys built from resolved symbol.ID occurrences), and on
// original_source/source/ast/d_analyzer.c for the five-pass ordering:
// attach-info, data declarations, class+instance declarations, type
// signatures, term declarations. The original's pass ordering is
// load-bearing (type signatures must be visited before term declarations
// reference them) so the five passes stay distinct methods rather than
// being collapsed into one generic walk.
package depanalysis

import (
	"fmt"
	"sort"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/symbol"
)

// Analyzer threads the owning symbol.Module through the five passes and
// the Tarjan walk. The superclass chain needed for forced instance edges
// is gathered syntactically in pass 3 (visitClassInstanceDecls) rather than
// through the full internal/types.InstanceTable, since that table is only
// populated during phase E (kind & type inference), which runs after this
// phase.
type Analyzer struct {
	Module *symbol.Module

	byKey     map[string]ast.Decl
	keyOfSym  map[symbol.ID]string
	edges     map[string][]string
	nodeOrder []string
	classSups map[string][]string // class name -> declared supers, gathered in pass 3
}

func New(mod *symbol.Module) *Analyzer {
	return &Analyzer{
		Module:    mod,
		byKey:     make(map[string]ast.Decl),
		keyOfSym:  make(map[symbol.ID]string),
		edges:     make(map[string][]string),
		classSups: make(map[string][]string),
	}
}

func symKey(id symbol.ID) string { return fmt.Sprintf("sym:%d", id) }

// Build runs the five passes over top.Decls and returns the resulting
// DeclarationGroupList in topological (dependency-first) order.
func (a *Analyzer) Build(top *ast.TopDecl) *ast.DeclarationGroupList {
	a.attachInfo(top.Decls)
	a.visitDataDecls(top.Decls)
	a.visitClassInstanceDecls(top.Decls)
	a.visitTypeSignatures(top.Decls)
	a.visitTermDecls(top.Decls)

	sccs := a.tarjanSCCs()

	list := &ast.DeclarationGroupList{}
	for i, scc := range sccs {
		group := &ast.DeclarationGroup{InfoIndex: i}
		for _, key := range scc {
			d, ok := a.byKey[key]
			if !ok {
				continue
			}
			group.Members = append(group.Members, d)
		}
		if group.IsRecursiveGroup() || a.hasSelfEdge(scc) {
			a.markRecursive(group.Members)
		}
		list.Groups = append(list.Groups, group)
	}
	return list
}

// attachInfo (pass 1) registers every declaration under its node key before
// any edges are computed, mirroring d_analyzer.c's per-declaration info
// record attached ahead of the four content passes.
func (a *Analyzer) attachInfo(decls []ast.Decl) {
	for _, d := range decls {
		key, ok := a.declKey(d)
		if !ok {
			continue
		}
		a.byKey[key] = d
		if _, exists := a.edges[key]; !exists {
			a.edges[key] = nil
			a.nodeOrder = append(a.nodeOrder, key)
		}
	}
}

func (a *Analyzer) declKey(d ast.Decl) (string, bool) {
	switch d := d.(type) {
	case *ast.SimpleAssignment:
		a.keyOfSym[d.Symbol] = symKey(d.Symbol)
		return symKey(d.Symbol), true
	case *ast.ApatsAssignment:
		a.keyOfSym[d.Symbol] = symKey(d.Symbol)
		return symKey(d.Symbol), true
	case *ast.DataDeclaration:
		a.keyOfSym[d.Symbol] = symKey(d.Symbol)
		return symKey(d.Symbol), true
	case *ast.TypeClassDeclaration:
		a.keyOfSym[d.Symbol] = symKey(d.Symbol)
		return symKey(d.Symbol), true
	case *ast.TypeClassInstance:
		return d.Key(), true
	case *ast.PatAssignment:
		return fmt.Sprintf("pat:%p", d), true
	default:
		// TypeSignature carries no binding of its own; it attaches to an
		// already-declared symbol and is handled in visitTypeSignatures.
		return "", false
	}
}

// visitDataDecls is pass 2: DATA_DECLARATION nodes depend on the
// constructors and field types of other data declarations they mention.
func (a *Analyzer) visitDataDecls(decls []ast.Decl) {
	for _, d := range decls {
		dd, ok := d.(*ast.DataDeclaration)
		if !ok {
			continue
		}
		key := symKey(dd.Symbol)
		for _, c := range dd.Constructors {
			for _, ty := range c.Args {
				a.addTypeRefs(key, ty)
			}
		}
	}
}

// visitClassInstanceDecls is pass 3: class declarations register their
// superclass chain first (so instances processed in the same pass can look
// up forced dependencies), then instance declarations gain an edge to
// every superclass instance for the same head type, per spec.md §4.D:
// "Instance declarations carry a forced dependency on every super-class
// instance that must be in scope".
func (a *Analyzer) visitClassInstanceDecls(decls []ast.Decl) {
	for _, d := range decls {
		cd, ok := d.(*ast.TypeClassDeclaration)
		if !ok {
			continue
		}
		var supers []string
		for _, ctx := range cd.Context {
			supers = append(supers, ctx.ClassName)
		}
		a.classSups[cd.ClassName] = supers
		for _, def := range cd.Defaults {
			a.visitMemberDecl(symKey(cd.Symbol), def)
		}
	}

	for _, d := range decls {
		inst, ok := d.(*ast.TypeClassInstance)
		if !ok {
			continue
		}
		key := inst.Key()
		for _, super := range a.superChain(inst.ClassName) {
			if super == inst.ClassName {
				continue
			}
			a.edges[key] = append(a.edges[key], super+"@"+headName(inst.ForType))
		}
		for _, m := range inst.Methods {
			a.visitMemberDecl(key, m)
		}
	}
}

func (a *Analyzer) superChain(class string) []string {
	var chain []string
	seen := map[string]bool{}
	var walk func(string)
	walk = func(c string) {
		if seen[c] {
			return
		}
		seen[c] = true
		chain = append(chain, c)
		for _, s := range a.classSups[c] {
			walk(s)
		}
	}
	walk(class)
	return chain
}

func headName(t ast.Type) string {
	switch t := t.(type) {
	case *ast.TypeCon:
		return t.Name
	case *ast.ConId:
		return t.Name
	case *ast.TypeApp:
		return headName(t.Func)
	default:
		return t.String()
	}
}

// visitTypeSignatures is pass 4: a signature attaches HasSignature to the
// symbols it names but introduces no new graph edges of its own.
func (a *Analyzer) visitTypeSignatures(decls []ast.Decl) {
	for _, d := range decls {
		ts, ok := d.(*ast.TypeSignature)
		if !ok {
			continue
		}
		for _, name := range ts.Names {
			if id, ok := a.Module.Lookup(name); ok {
				a.Module.Get(id).HasSignature = true
			}
		}
	}
}

// visitTermDecls is pass 5: every VAR occurrence inside a term declaration's
// RHS that resolves to another top-level symbol becomes a graph edge.
func (a *Analyzer) visitTermDecls(decls []ast.Decl) {
	for _, d := range decls {
		switch d := d.(type) {
		case *ast.SimpleAssignment:
			key := symKey(d.Symbol)
			if d.Initializer != nil {
				a.visitExprRefs(key, d.Initializer)
			}
			a.visitRhsRefs(key, d.Rhs)
		case *ast.ApatsAssignment:
			a.visitRhsRefs(symKey(d.Symbol), d.Rhs)
		case *ast.PatAssignment:
			key, _ := a.declKey(d)
			a.visitRhsRefs(key, d.Rhs)
		}
	}
}

func (a *Analyzer) visitMemberDecl(ownerKey string, d ast.Decl) {
	switch d := d.(type) {
	case *ast.SimpleAssignment:
		a.visitRhsRefs(ownerKey, d.Rhs)
	case *ast.ApatsAssignment:
		a.visitRhsRefs(ownerKey, d.Rhs)
	case *ast.PatAssignment:
		a.visitRhsRefs(ownerKey, d.Rhs)
	}
}

func (a *Analyzer) visitRhsRefs(key string, rhs *ast.Rhs) {
	if rhs == nil {
		return
	}
	for _, w := range rhs.Where {
		a.visitMemberDecl(key, w)
	}
	a.visitExprRefs(key, rhs.Expr)
}

func (a *Analyzer) addEdge(from string, to symbol.ID) {
	toKey, ok := a.keyOfSym[to]
	if !ok {
		return // not a top-level declaration (local binder, base-module primitive, ...)
	}
	a.edges[from] = append(a.edges[from], toKey)
}

func (a *Analyzer) addTypeRefs(from string, t ast.Type) {
	switch t := t.(type) {
	case *ast.ConId:
		if id, ok := a.Module.Lookup(t.Name); ok {
			a.addEdge(from, id)
		}
	case *ast.TypeCon:
		if id, ok := a.Module.Lookup(t.Name); ok {
			a.addEdge(from, id)
		}
		for _, arg := range t.Args {
			a.addTypeRefs(from, arg)
		}
	case *ast.TypeApp:
		a.addTypeRefs(from, t.Func)
		a.addTypeRefs(from, t.Arg)
	case *ast.FunctionType:
		a.addTypeRefs(from, t.From)
		a.addTypeRefs(from, t.To)
	case *ast.TypeAttribute:
		a.addTypeRefs(from, t.Of)
	}
}

// visitExprRefs mirrors internal/rename's walk, collecting edges instead of
// resolving names (renaming has already run by this phase).
func (a *Analyzer) visitExprRefs(key string, e ast.Expr) {
	if e == nil {
		return
	}
	switch e := e.(type) {
	case *ast.Var:
		if e.Symbol != 0 {
			a.addEdge(key, e.Symbol)
		}
	case *ast.Let:
		for _, group := range e.Groups.Groups {
			for _, m := range group.Members {
				a.visitMemberDecl(key, m)
			}
		}
		a.visitExprRefs(key, e.Body)
	case *ast.Lambda:
		a.visitExprRefs(key, e.Body)
	case *ast.App:
		a.visitExprRefs(key, e.Func)
		a.visitExprRefs(key, e.Arg)
	case *ast.IfThenElse:
		a.visitExprRefs(key, e.Cond)
		a.visitExprRefs(key, e.Then)
		a.visitExprRefs(key, e.Else)
	case *ast.Case:
		a.visitExprRefs(key, e.Scrutinee)
		for _, alt := range e.Alts {
			a.visitExprRefs(key, alt.Body)
		}
	case *ast.Tuple:
		for _, el := range e.Elems {
			a.visitExprRefs(key, el)
		}
	case *ast.ExpressionList:
		for _, el := range e.Elems {
			a.visitExprRefs(key, el)
		}
	case *ast.ExpressionArray:
		for _, el := range e.Elems {
			a.visitExprRefs(key, el)
		}
	case *ast.BinOp:
		if e.OpSymbol != 0 {
			a.addEdge(key, e.OpSymbol)
		}
		a.visitExprRefs(key, e.Left)
		a.visitExprRefs(key, e.Right)
	case *ast.BinOpSym:
		if e.OpSymbol != 0 {
			a.addEdge(key, e.OpSymbol)
		}
	case *ast.OpLeftSection:
		a.visitExprRefs(key, e.Left)
	case *ast.OpRightSection:
		a.visitExprRefs(key, e.Right)
	case *ast.ArithmeticSequence:
		a.visitExprRefs(key, e.From)
		a.visitExprRefs(key, e.Then)
		a.visitExprRefs(key, e.To)
	case *ast.Do:
		for _, s := range e.Stmts {
			a.visitDoStmtRefs(key, s)
		}
	case *ast.ForLoop:
		a.visitExprRefs(key, e.RangeSeq)
		a.visitExprRefs(key, e.Body)
	case *ast.WhileLoop:
		a.visitExprRefs(key, e.Pred)
		a.visitExprRefs(key, e.Body)
	case *ast.SeqExpression:
		for _, el := range e.Elems {
			a.visitExprRefs(key, el)
		}
	}
}

func (a *Analyzer) visitDoStmtRefs(key string, s ast.DoStmt) {
	switch s := s.(type) {
	case *ast.BindAssignment:
		a.visitExprRefs(key, s.Expr)
	case *ast.PatBindAssignment:
		a.visitExprRefs(key, s.Expr)
	case *ast.ExprStmt:
		a.visitExprRefs(key, s.Expr)
	}
}

// tarjanSCCs is internal/elaborate/scc.go's CallGraph.SCCs, generalized
// from string call-graph nodes to the string node keys this package builds.
func (a *Analyzer) tarjanSCCs() [][]string {
	index := 0
	var stack []string
	indices := make(map[string]int)
	lowlinks := make(map[string]int)
	onStack := make(map[string]bool)
	var sccs [][]string

	var strongconnect func(string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlinks[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		targets := append([]string(nil), a.edges[v]...)
		sort.Strings(targets)
		for _, w := range targets {
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				if lowlinks[w] < lowlinks[v] {
					lowlinks[v] = lowlinks[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlinks[v] {
					lowlinks[v] = indices[w]
				}
			}
		}

		if lowlinks[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range a.nodeOrder {
		if _, ok := indices[node]; !ok {
			strongconnect(node)
		}
	}
	return sccs
}

func (a *Analyzer) hasSelfEdge(scc []string) bool {
	if len(scc) != 1 {
		return false
	}
	node := scc[0]
	for _, to := range a.edges[node] {
		if to == node {
			return true
		}
	}
	return false
}

// markRecursive sets is_recursive = true on every SIMPLE_ASSIGNMENT /
// APATS_ASSIGNMENT / DATA_DECLARATION in a group that observed a back-edge
// (spec.md §4.D).
func (a *Analyzer) markRecursive(members []ast.Decl) {
	for _, d := range members {
		var id symbol.ID
		switch d := d.(type) {
		case *ast.SimpleAssignment:
			id = d.Symbol
		case *ast.ApatsAssignment:
			id = d.Symbol
		case *ast.DataDeclaration:
			id = d.Symbol
		default:
			continue
		}
		a.Module.Get(id).IsRecursive = true
	}
}
