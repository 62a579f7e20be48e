// Package types implements Necro's type terms, kinds, and the ownership
// (uniqueness) attribute (spec.md §3 "Types"), plus the Hindley-Milner
// engine built on top of them (unification.go, inference.go).
//
// Grounded on the teacher's github.com/sunholo/ailang/internal/types
// package: the Type interface (String/Equals/Substitute), the TVar/TCon/
// TFunc/TList/TTuple/TApp split, and the TypeScheme/Instantiate machinery
// are kept; var binding is generalized from a map-substitution scheme to
// union-find over *TVar pointers (spec.md §3: "TYPE_VAR uses union-find:
// each var has a bound field; find chases the chain"), and a parallel Kind
// and Ownership field is threaded onto every Type as spec.md requires.
package types

import (
	"fmt"
	"strings"
)

// Kind classifies a type one level up (spec.md §4.E "Kinds"). Kinds are
// themselves represented as Type values drawn from a small closed set so
// that kind unification reuses the same unifier as type unification.
type Kind = Type

var (
	KindType       = &Con{Name: "Type"}
	KindNat        = &Con{Name: "Nat"}
	KindSym        = &Con{Name: "Sym"}
	KindAttribute  = &Con{Name: "Attribute"}
	KindUniqueness = &Con{Name: "Uniqueness"}
)

// KindArrow builds the kind `from -> to`, e.g. `Nat -> Type -> Type` for
// `Array n a`.
func KindArrow(from, to Kind) Kind { return &Fun{From: from, To: to} }

// Ownership base constructors (spec.md §3 "Ownership"): a kind-Uniqueness
// value attached to every Type's Ownership field.
var (
	Shared = &Con{Name: "Shared"}
	Unique = &Con{Name: "Unique"}
)

// Type is the tagged sum of type terms (spec.md §3). Every concrete
// variant also satisfies TypeMeta for the Kind/Ownership attributes
// spec.md requires on every type term.
type Type interface {
	String() string
	Equals(Type) bool
	// Meta returns the shared metadata block (kind, ownership) for this
	// node. A VAR node's union-find link is its own Bound field, not Meta.
	Meta() *Meta
}

// Meta carries the per-node kind and ownership attribute spec.md §3
// requires on "every type term". Union-find state is kept on Var.Bound,
// not here.
type Meta struct {
	KindOf      Kind
	Ownership   Type // drawn from kind Uniqueness; nil means unconstrained/Shared by default
}

func newMeta() *Meta { return &Meta{KindOf: KindType} }

// Var is a TYPE_VAR: flex or rigid, carrying a lexical scope depth ("order")
// and a residual class-context list, plus the union-find `bound` chain.
type Var struct {
	M        Meta
	Name     string
	IsRigid  bool // rigid vars come from a user-written signature; never bound by unify
	Scope    int  // lexical nesting depth at creation, used by generalization
	Order    int  // unique creation order, used for deterministic defaulting
	Context  []string // residual class names constraining this var (e.g. "Num")
	Bound    Type     // union-find parent; nil if this is a representative
}

func (v *Var) Meta() *Meta { return &v.M }
func (v *Var) String() string {
	if b := Find(v); b != v {
		return b.String()
	}
	return v.Name
}
func (v *Var) Equals(other Type) bool {
	rv := Find(v)
	ro := Prune(other)
	if o, ok := ro.(*Var); ok {
		return rv == o
	}
	return false
}

// Find chases a Var's union-find bound chain to its representative,
// path-compressing as it goes (spec.md §9: "Path-compressing find is safe
// because the data is single-threaded").
func Find(v *Var) *Var {
	if v.Bound == nil {
		return v
	}
	if next, ok := v.Bound.(*Var); ok {
		root := Find(next)
		v.Bound = root
		return root
	}
	return v
}

// Prune follows a possibly-bound Var down to a non-Var type, or returns a
// Var's representative if it is still unbound.
func Prune(t Type) Type {
	v, ok := t.(*Var)
	if !ok {
		return t
	}
	root := Find(v)
	if root.Bound != nil {
		return Prune(root.Bound)
	}
	return root
}

var varCounter int

// NewVar creates a fresh flex type variable at the given lexical scope.
func NewVar(scope int) *Var {
	varCounter++
	return &Var{M: *newMeta(), Name: fmt.Sprintf("t%d", varCounter), Scope: scope, Order: varCounter}
}

// NewRigidVar creates a rigid variable introduced by a user signature.
func NewRigidVar(name string, scope int) *Var {
	varCounter++
	return &Var{M: *newMeta(), Name: name, IsRigid: true, Scope: scope, Order: varCounter}
}

// Con is a named, zero-or-more-argument type constructor (spec.md §3
// "CON (named type constructor applied to a list of argument types)").
// Unlike the teacher's flat TCon, Con always carries its Args so
// spec.md's invariant ("Every TYPE_CON has an argument count exactly
// matching the declared kind-arity") is representable directly.
type Con struct {
	M    Meta
	Name string
	Args []Type
}

func (c *Con) Meta() *Meta { return &c.M }
func (c *Con) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + " " + strings.Join(parts, " ")
}
func (c *Con) Equals(other Type) bool {
	o, ok := Prune(other).(*Con)
	if !ok || o.Name != c.Name || len(o.Args) != len(c.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equals(o.Args[i]) {
			return false
		}
	}
	return true
}

// App is a curried type application view (uncurried into Con.Args before
// kind-checking by UncurryApp, spec.md §3).
type App struct {
	M    Meta
	Func Type
	Arg  Type
}

func (a *App) Meta() *Meta { return &a.M }
func (a *App) String() string { return fmt.Sprintf("(%s %s)", a.Func, a.Arg) }
func (a *App) Equals(other Type) bool {
	o, ok := Prune(other).(*App)
	return ok && a.Func.Equals(o.Func) && a.Arg.Equals(o.Arg)
}

// UncurryApp flattens a left-nested App chain into a Con, the type-level
// analogue of ast.UncurryTypeApp.
func UncurryApp(t Type) Type {
	var args []Type
	cur := t
	for {
		app, ok := cur.(*App)
		if !ok {
			break
		}
		args = append([]Type{app.Arg}, args...)
		cur = app.Func
	}
	if con, ok := cur.(*Con); ok && len(args) > 0 {
		merged := make([]Type, 0, len(con.Args)+len(args))
		merged = append(merged, con.Args...)
		merged = append(merged, args...)
		return &Con{M: con.M, Name: con.Name, Args: merged}
	}
	return t
}

// Fun is a function type `from -> to`.
type Fun struct {
	M        Meta
	From, To Type
}

func (f *Fun) Meta() *Meta { return &f.M }
func (f *Fun) String() string { return fmt.Sprintf("(%s -> %s)", f.From, f.To) }
func (f *Fun) Equals(other Type) bool {
	o, ok := Prune(other).(*Fun)
	return ok && f.From.Equals(o.From) && f.To.Equals(o.To)
}

// List is the internal list-spine used for argument vectors (spec.md §3
// "LIST"), distinct from the surface `[a]` which is represented as
// Con{Name:"List", Args:[a]}.
type List struct {
	M     Meta
	Elems []Type
}

func (l *List) Meta() *Meta { return &l.M }
func (l *List) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *List) Equals(other Type) bool {
	o, ok := Prune(other).(*List)
	if !ok || len(o.Elems) != len(l.Elems) {
		return false
	}
	for i := range l.Elems {
		if !l.Elems[i].Equals(o.Elems[i]) {
			return false
		}
	}
	return true
}

// For is a universally quantified binder produced by generalization
// (spec.md §4.E). Context holds the residual class constraints reattached
// to the bound variable at instantiation time.
type For struct {
	M       Meta
	Var     *Var
	Context []Constraint
	Body    Type
}

func (f *For) Meta() *Meta { return &f.M }
func (f *For) String() string {
	ctx := ""
	if len(f.Context) > 0 {
		parts := make([]string, len(f.Context))
		for i, c := range f.Context {
			parts[i] = c.String()
		}
		ctx = strings.Join(parts, ", ") + " => "
	}
	return fmt.Sprintf("forall %s. %s%s", f.Var.Name, ctx, f.Body)
}
func (f *For) Equals(other Type) bool {
	o, ok := Prune(other).(*For)
	return ok && f.Var.Name == o.Var.Name && f.Body.Equals(o.Body)
}

// Nat is a type-level natural number literal, e.g. the `n` in `Array n a`.
type Nat struct {
	M     Meta
	Value int
}

func (n *Nat) Meta() *Meta { return &n.M }
func (n *Nat) String() string { return fmt.Sprintf("%d", n.Value) }
func (n *Nat) Equals(other Type) bool {
	o, ok := Prune(other).(*Nat)
	return ok && o.Value == n.Value
}

// Sym is a type-level symbol literal.
type Sym struct {
	M     Meta
	Value string
}

func (s *Sym) Meta() *Meta { return &s.M }
func (s *Sym) String() string { return fmt.Sprintf("%q", s.Value) }
func (s *Sym) Equals(other Type) bool {
	o, ok := Prune(other).(*Sym)
	return ok && o.Value == s.Value
}

// Constraint is a type-class constraint attached to a quantified variable.
type Constraint struct {
	Class string
	Type  Type
}

func (c Constraint) String() string { return fmt.Sprintf("%s %s", c.Class, c.Type) }

// Scheme is a fully generalized principal type: a list of quantified
// variables (each possibly constrained) closing over a monotype. This is
// the representation AstSymbol.Type (symbol.AstSymbol.Type) holds.
type Scheme struct {
	Vars        []*Var
	Constraints []Constraint
	Body        Type
}

func (s *Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Body.String()
	}
	names := make([]string, len(s.Vars))
	for i, v := range s.Vars {
		names[i] = v.Name
	}
	ctx := ""
	if len(s.Constraints) > 0 {
		parts := make([]string, len(s.Constraints))
		for i, c := range s.Constraints {
			parts[i] = c.String()
		}
		ctx = strings.Join(parts, ", ") + " => "
	}
	return fmt.Sprintf("forall %s. %s%s", strings.Join(names, " "), ctx, s.Body)
}

// IsPolymorphic reports whether the scheme quantifies over at least one
// variable — used by spec.md §8 invariant 2 ("no polymorphic value
// survives §4.F other than constructor functions").
func (s *Scheme) IsPolymorphic() bool { return len(s.Vars) > 0 }

// Monotype wraps a bare Type with no quantifiers, for call sites that want
// to build a trivial Scheme.
func Monotype(t Type) *Scheme { return &Scheme{Body: t} }

// Common predefined base types (spec.md §6 NecroBase primitives).
var (
	TInt     = &Con{Name: "Int"}
	TFloat   = &Con{Name: "Float"}
	TChar    = &Con{Name: "Char"}
	TBool    = &Con{Name: "Bool"}
	TUnit    = &Con{Name: "Unit"}
	TAudio   = &Con{Name: "Audio"}
	TWorld   = &Con{Name: "World"}
)

// TTuple builds the N-ary tuple constructor type `(,)_N t1 .. tN`
// (spec.md §6 "tuple constructors up to arity 10").
func TTuple(elems ...Type) Type {
	name := fmt.Sprintf("Tuple%d", len(elems))
	return &Con{Name: name, Args: elems}
}

// TArray builds `Array n a`.
func TArray(n Type, a Type) Type {
	return &Con{Name: "Array", Args: []Type{n, a}}
}

// TPtr builds `Ptr a`.
func TPtr(a Type) Type { return &Con{Name: "Ptr", Args: []Type{a}} }

// TMaybe builds `Maybe a`.
func TMaybe(a Type) Type { return &Con{Name: "Maybe", Args: []Type{a}} }

// TEvent builds `Event a`.
func TEvent(a Type) Type { return &Con{Name: "Event", Args: []Type{a}} }

// TPattern builds the `Pattern a` sequencing type discussed in spec.md §9
// open questions (this spec follows the committed `Pattern` data type).
func TPattern(a Type) Type { return &Con{Name: "Pattern", Args: []Type{a}} }

// TSeq builds the `Seq a` wrapper produced by SEQ_EXPRESSION desugaring
// (spec.md §4.G).
func TSeq(a Type) Type { return &Con{Name: "Seq", Args: []Type{a}} }
