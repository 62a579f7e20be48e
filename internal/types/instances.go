package types

import "fmt"

// ClassDecl records a declared type class: its method signatures and an
// optional superclass (spec.md §9 "Deep-inheritance classes" modeled as
// ordered class-context lists).
type ClassDecl struct {
	Name       string
	TypeParam  string
	Supers     []string // ordered superclass names, expanded during resolution
	MethodSigs map[string]*Scheme
}

// Instance records one type-class instance: `instance C => ClassName T`.
// Grounded on the teacher's internal/types.Instance, extended with the
// Context field spec.md §4.D needs to compute forced super-instance
// dependency edges.
type Instance struct {
	ClassName string
	ForHead   string // the head type-constructor name, e.g. "Maybe" for `instance Functor Maybe`
	ForType   Type
	Context   []Constraint // instance context, e.g. `instance Eq a => Eq (List a)`
	Methods   map[string]*Scheme
}

// Key is the "Class@Con" lookup key spec.md §4.D specifies for forced
// super-class-instance dependencies.
func (i *Instance) Key() string { return i.ClassName + "@" + i.ForHead }

// InstanceTable is the global (base + user module) registry of classes and
// instances, consulted by both inference (constraint resolution) and
// monomorphization (method specialization, spec.md §4.F).
type InstanceTable struct {
	Classes   map[string]*ClassDecl
	Instances map[string]*Instance // keyed by Key()
}

func NewInstanceTable() *InstanceTable {
	return &InstanceTable{
		Classes:   make(map[string]*ClassDecl),
		Instances: make(map[string]*Instance),
	}
}

func (t *InstanceTable) DeclareClass(c *ClassDecl) { t.Classes[c.Name] = c }

// AddInstance registers inst, erroring if its (class, head) pair is
// already bound — Necro's single-base-module setup admits at most one
// instance per (class, concrete head).
func (t *InstanceTable) AddInstance(inst *Instance) error {
	key := inst.Key()
	if _, exists := t.Instances[key]; exists {
		return fmt.Errorf("duplicate_declaration: instance %s already declared", key)
	}
	t.Instances[key] = inst
	return nil
}

// Resolve looks up the instance implementing class for the concrete
// head type constructor name headName by its exact "class@head" key.
// Superclasses are neither searched nor expanded here; SuperChain lists
// them separately.
func (t *InstanceTable) Resolve(class, headName string) (*Instance, error) {
	key := class + "@" + headName
	inst, ok := t.Instances[key]
	if !ok {
		return nil, fmt.Errorf("missing_instance: no instance %s for %s", class, headName)
	}
	return inst, nil
}

// SuperChain returns class and every transitive superclass, root-to-leaf,
// used to build the forced DFS dependency edges of spec.md §4.D:
// "Instance declarations carry a forced dependency on every super-class
// instance that must be in scope".
func (t *InstanceTable) SuperChain(class string) []string {
	var chain []string
	seen := map[string]bool{}
	var walk func(string)
	walk = func(c string) {
		if seen[c] {
			return
		}
		seen[c] = true
		chain = append(chain, c)
		decl, ok := t.Classes[c]
		if !ok {
			return
		}
		for _, s := range decl.Supers {
			walk(s)
		}
	}
	walk(class)
	return chain
}

// ForcedDependencyKeys returns the "Class@Con" keys spec.md §4.D requires
// an instance declaration to force into the DFS: the instance's own key
// plus one key per transitive superclass applied to the same head.
func (t *InstanceTable) ForcedDependencyKeys(inst *Instance) []string {
	var keys []string
	for _, class := range t.SuperChain(inst.ClassName) {
		if class == inst.ClassName {
			continue
		}
		keys = append(keys, class+"@"+inst.ForHead)
	}
	return keys
}

// MethodSignature looks up a class method's declared (unspecialized)
// signature, used both by inference (to type a bare method reference) and
// monomorphization (to know the arity being specialized).
func (t *InstanceTable) MethodSignature(class, method string) (*Scheme, bool) {
	decl, ok := t.Classes[class]
	if !ok {
		return nil, false
	}
	sig, ok := decl.MethodSigs[method]
	return sig, ok
}
