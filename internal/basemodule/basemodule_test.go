package basemodule

import "testing"

func TestBuildDeclaresPrimitiveConstructors(t *testing.T) {
	base := Build()

	for _, name := range []string{"True", "False", "Nil", "Just", "Nothing"} {
		id, ok := base.Module.Lookup(name)
		if !ok {
			t.Fatalf("expected NecroBase to declare %q", name)
		}
		sym := base.Module.Get(id)
		if sym.Type == nil {
			t.Fatalf("%q has no inferred scheme", name)
		}
	}
}

func TestBuildDeclaresOperatorsAsClassMethods(t *testing.T) {
	base := Build()

	for _, op := range []string{"+", "-", "*", "==", "<"} {
		if _, ok := base.Module.Lookup(op); !ok {
			t.Fatalf("expected NecroBase to declare operator %q", op)
		}
	}
}

func TestBuildRegistersStandardClassesAndSuperclasses(t *testing.T) {
	base := Build()

	ord, ok := base.Instances.Classes["Ord"]
	if !ok {
		t.Fatalf("expected Ord to be declared")
	}
	found := false
	for _, s := range ord.Supers {
		if s == "Eq" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Ord to declare Eq as a superclass, got %+v", ord.Supers)
	}

	monad, ok := base.Instances.Classes["Monad"]
	if !ok {
		t.Fatalf("expected Monad to be declared")
	}
	found = false
	for _, s := range monad.Supers {
		if s == "Applicative" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Monad to declare Applicative as a superclass, got %+v", monad.Supers)
	}
}

func TestBuildIsIndependentAcrossCalls(t *testing.T) {
	a := Build()
	b := Build()
	if a.Module == b.Module {
		t.Fatalf("expected independent arenas across Build calls")
	}
	idA, _ := a.Module.Lookup("True")
	idB, _ := b.Module.Lookup("True")
	if idA != idB {
		t.Fatalf("expected the same declaration order to produce the same ID across independent Build calls, got %v vs %v", idA, idB)
	}
}
