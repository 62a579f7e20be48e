package types

import "fmt"

// KindTable records the declared kind-arity of every type constructor in
// scope (spec.md §4.E "type constructors look up their declared kind-arity").
// Grounded on the teacher's internal/types registry-of-specs pattern
// (internal/builtins/spec.go's frozen specRegistry), generalized from
// builtin function specs to type-constructor kind signatures.
type KindTable struct {
	kinds map[string]Kind
}

func NewKindTable() *KindTable {
	t := &KindTable{kinds: make(map[string]Kind)}
	// NecroBase primitive kinds (spec.md §6).
	for _, name := range []string{"Int", "Float", "Char", "Bool", "Unit", "Audio", "World"} {
		t.kinds[name] = KindType
	}
	t.kinds["Ptr"] = KindArrow(KindType, KindType)
	t.kinds["Maybe"] = KindArrow(KindType, KindType)
	t.kinds["Event"] = KindArrow(KindType, KindType)
	t.kinds["Pattern"] = KindArrow(KindType, KindType)
	t.kinds["Seq"] = KindArrow(KindType, KindType)
	t.kinds["List"] = KindArrow(KindType, KindType)
	// `Array n a` has kind `Nat -> Type -> Type` (spec.md §4.E example).
	t.kinds["Array"] = KindArrow(KindNat, KindArrow(KindType, KindType))
	for i := 2; i <= 10; i++ {
		name := fmt.Sprintf("Tuple%d", i)
		k := Kind(KindType)
		for j := 0; j < i; j++ {
			k = KindArrow(KindType, k)
		}
		// Tuple_N's kind arrow is built outer-in above but the result type
		// of applying N args must be Type; the arrow is read left-to-right
		// as N `Type ->` hops terminating in Type, with N computed below.
		t.kinds[name] = buildTupleKind(i)
	}
	return t
}

func buildTupleKind(arity int) Kind {
	k := Kind(KindType)
	for i := 0; i < arity; i++ {
		k = KindArrow(KindType, k)
	}
	return k
}

// Lookup returns the declared kind of a type constructor, or (nil, false)
// if it is unknown — the caller (kind inference) then reports
// `kind_mismatch`.
func (t *KindTable) Lookup(name string) (Kind, bool) {
	k, ok := t.kinds[name]
	return k, ok
}

// Declare records the kind of a user data declaration's type constructor,
// built left-to-right from its type parameters (spec.md §4.E: functions
// and applications propagate `*` to both sides; kinds default to Type at
// generalization, so a plain `data T a b = ...` gets kind `Type -> Type ->
// Type` unless a kind-inference pass narrows a parameter to Nat/Sym).
func (t *KindTable) Declare(name string, paramKinds []Kind) {
	k := Kind(KindType)
	for i := len(paramKinds) - 1; i >= 0; i-- {
		k = KindArrow(paramKinds[i], k)
	}
	t.kinds[name] = k
}

// Arity reports how many arguments a type constructor's kind expects,
// which spec.md §3 requires every CON's Args slice to match exactly.
func Arity(k Kind) int {
	n := 0
	for {
		f, ok := Prune(k).(*Fun)
		if !ok {
			return n
		}
		n++
		k = f.To
	}
}

// ApplyKind drives the kind a TYPE_CON application produces after
// consuming one argument, used by kind inference as it walks an
// uncurried Con's Args left to right.
func ApplyKind(fn Kind, u *Unifier) (argKind, resultKind Kind, err error) {
	f, ok := Prune(fn).(*Fun)
	if !ok {
		return nil, nil, fmt.Errorf("kind_mismatched_arity: %s is not a kind arrow", fn)
	}
	return f.From, f.To, nil
}

// DefaultKind resolves an unbound kind variable (one that unification
// never pinned down) to Type, per spec.md §4.E: "kinds default to Type at
// generalization".
func DefaultKind(k Kind) Kind {
	k = Prune(k)
	if _, ok := k.(*Var); ok {
		return KindType
	}
	return k
}

// OwnershipOf returns a type's ownership attribute, defaulting to Shared
// (spec.md §3 "Ownership": two base constructors Shared and Unique).
func OwnershipOf(t Type) Type {
	if m := t.Meta(); m != nil && m.Ownership != nil {
		return m.Ownership
	}
	return Shared
}

// SetOwnership attaches an ownership attribute to t, rejecting nested
// uniqueness markers per spec.md §4.E restriction ("Attribute propagation
// forbids nesting (no 'unique unique a')").
func SetOwnership(t Type, attr Type) error {
	m := t.Meta()
	if m.Ownership != nil && !m.Ownership.Equals(Shared) && !attr.Equals(Shared) {
		return fmt.Errorf("uniqueness_violation: cannot nest a uniqueness attribute on %s", t)
	}
	m.Ownership = attr
	return nil
}

// IsUnique reports whether t's ownership attribute is Unique.
func IsUnique(t Type) bool { return OwnershipOf(t).Equals(Unique) }
