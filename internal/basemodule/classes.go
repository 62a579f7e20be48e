package basemodule

import "github.com/sunholo/ailang/internal/types"

// registerClasses declares spec.md §6's ten standard type classes into
// the shared InstanceTable, each with its method signatures quantified
// over the class's own type parameter — mirrors internal/types.ClassDecl's
// doc comment ("Deep-inheritance classes modeled as ordered class-context
// lists"): Ord declares Eq as a superclass, Applicative declares Functor,
// Monad declares Applicative, exactly the chain internal/depanalysis'
// visitClassInstanceDecls walks to build forced super-instance edges.
func registerClasses(t *types.InstanceTable) {
	a := rigid("a")

	t.DeclareClass(&types.ClassDecl{
		Name: "Eq", TypeParam: "a",
		MethodSigs: map[string]*types.Scheme{
			"==": {Vars: []*types.Var{a}, Body: fn2(a, a, types.TBool)},
			"/=": {Vars: []*types.Var{a}, Body: fn2(a, a, types.TBool)},
		},
	})
	t.DeclareClass(&types.ClassDecl{
		Name: "Ord", TypeParam: "a", Supers: []string{"Eq"},
		MethodSigs: map[string]*types.Scheme{
			"<":  {Vars: []*types.Var{a}, Body: fn2(a, a, types.TBool)},
			">":  {Vars: []*types.Var{a}, Body: fn2(a, a, types.TBool)},
			"<=": {Vars: []*types.Var{a}, Body: fn2(a, a, types.TBool)},
			">=": {Vars: []*types.Var{a}, Body: fn2(a, a, types.TBool)},
		},
	})
	t.DeclareClass(&types.ClassDecl{
		Name: "Num", TypeParam: "a",
		MethodSigs: map[string]*types.Scheme{
			"+":      {Vars: []*types.Var{a}, Body: fn2(a, a, a)},
			"-":      {Vars: []*types.Var{a}, Body: fn2(a, a, a)},
			"*":      {Vars: []*types.Var{a}, Body: fn2(a, a, a)},
			"negate": {Vars: []*types.Var{a}, Body: fn(a, a)},
		},
	})
	t.DeclareClass(&types.ClassDecl{
		Name: "Fractional", TypeParam: "a", Supers: []string{"Num"},
		MethodSigs: map[string]*types.Scheme{
			"/": {Vars: []*types.Var{a}, Body: fn2(a, a, a)},
		},
	})
	t.DeclareClass(&types.ClassDecl{
		Name: "Semigroup", TypeParam: "a",
		MethodSigs: map[string]*types.Scheme{
			"<>": {Vars: []*types.Var{a}, Body: fn2(a, a, a)},
		},
	})
	t.DeclareClass(&types.ClassDecl{
		Name: "Monoid", TypeParam: "a", Supers: []string{"Semigroup"},
		MethodSigs: map[string]*types.Scheme{
			"mempty": {Body: a},
		},
	})
	t.DeclareClass(&types.ClassDecl{
		Name: "Default", TypeParam: "a",
		MethodSigs: map[string]*types.Scheme{
			"def": {Body: a},
		},
	})

	// The three higher-kinded classes are declared over a unary type
	// constructor `f`, represented the same way spec.md §4.E's worked
	// Array example represents a higher-kinded parameter: a rigid type
	// variable standing for the constructor itself, applied via types.App
	// rather than types.Con (Con's Name is a concrete head, App's Func can
	// be any Type including another Var).
	f := rigid("f")
	fa := &types.App{Func: f, Arg: a}
	b := rigid("b")
	fb := &types.App{Func: f, Arg: b}
	t.DeclareClass(&types.ClassDecl{
		Name: "Functor", TypeParam: "f",
		MethodSigs: map[string]*types.Scheme{
			"fmap": {Vars: []*types.Var{f, a, b}, Body: fn2(fn(a, b), fa, fb)},
		},
	})
	t.DeclareClass(&types.ClassDecl{
		Name: "Applicative", TypeParam: "f", Supers: []string{"Functor"},
		MethodSigs: map[string]*types.Scheme{
			"pure": {Vars: []*types.Var{f, a}, Body: fn(a, fa)},
			"<*>":  {Vars: []*types.Var{f, a, b}, Body: fn2(&types.App{Func: f, Arg: fn(a, b)}, fa, fb)},
		},
	})
	t.DeclareClass(&types.ClassDecl{
		Name: "Monad", TypeParam: "f", Supers: []string{"Applicative"},
		MethodSigs: map[string]*types.Scheme{
			">>=": {Vars: []*types.Var{f, a, b}, Body: fn2(fa, fn(a, fb), fb)},
		},
	})
}

// registerInstances populates InstanceTable.Instances for every (class,
// concrete head) pair NecroBase's primitives support, keyed "Class@Con"
// (internal/types.Instance.Key) — the lookups internal/infer's constraint
// resolution and internal/mono's method specialization both consult.
func registerInstances(t *types.InstanceTable) {
	numeric := []string{"Int", "Float"}
	ordered := []string{"Int", "Float", "Char", "Bool"}

	for _, head := range numeric {
		_ = t.AddInstance(&types.Instance{ClassName: "Num", ForHead: head})
	}
	_ = t.AddInstance(&types.Instance{ClassName: "Fractional", ForHead: "Float"})

	for _, head := range ordered {
		_ = t.AddInstance(&types.Instance{ClassName: "Eq", ForHead: head})
		_ = t.AddInstance(&types.Instance{ClassName: "Ord", ForHead: head})
	}
	// Eq/Ord extend pointwise over List/Maybe/Array given an Eq/Ord element
	// — represented here as base-constructor instances with a deferred
	// element constraint the same way `instance Eq a => Eq (List a)` is
	// specified (spec.md §4.D); internal/infer resolves the element's own
	// instance when it descends into a List/Maybe comparison.
	aVar := rigid("a")
	eqElem := []types.Constraint{{Class: "Eq", Type: aVar}}
	for _, head := range []string{"List", "Maybe"} {
		_ = t.AddInstance(&types.Instance{ClassName: "Eq", ForHead: head, Context: eqElem})
	}

	_ = t.AddInstance(&types.Instance{ClassName: "Default", ForHead: "Int"})
	_ = t.AddInstance(&types.Instance{ClassName: "Default", ForHead: "Float"})
	_ = t.AddInstance(&types.Instance{ClassName: "Default", ForHead: "Bool"})
	_ = t.AddInstance(&types.Instance{ClassName: "Default", ForHead: "Unit"})

	_ = t.AddInstance(&types.Instance{ClassName: "Semigroup", ForHead: "List"})
	_ = t.AddInstance(&types.Instance{ClassName: "Monoid", ForHead: "List"})
	_ = t.AddInstance(&types.Instance{ClassName: "Semigroup", ForHead: "Pattern"})

	// Functor/Applicative/Monad over List and Maybe; Monad additionally over
	// Pattern, the sequencing data type spec.md §9's open question commits
	// to (see basemodule.go's doc comment and DESIGN.md's Open Question
	// decision 3).
	for _, head := range []string{"List", "Maybe"} {
		_ = t.AddInstance(&types.Instance{ClassName: "Functor", ForHead: head})
		_ = t.AddInstance(&types.Instance{ClassName: "Applicative", ForHead: head})
		_ = t.AddInstance(&types.Instance{ClassName: "Monad", ForHead: head})
	}
	_ = t.AddInstance(&types.Instance{ClassName: "Functor", ForHead: "Pattern"})
	_ = t.AddInstance(&types.Instance{ClassName: "Applicative", ForHead: "Pattern"})
	_ = t.AddInstance(&types.Instance{ClassName: "Monad", ForHead: "Pattern"})
}
