package object

import (
	"slices"
	"sort"
	"sync"
)

// Registry owns a set of classes by name and hands out instances.
// It's thread-safe for concurrent access.
//
// Hierarchy changes (Define, SetParents, Discard) are serialized by the
// registry lock. Attribute resolution never takes it: readers only load
// each class's linearization snapshot and take per-class table locks.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
	ids     IDGenerator
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIDGenerator sets the generator used for instance IDs.
//
// Default: UUIDv7Generator.
// Use a fixed or sequential generator for deterministic tests.
func WithIDGenerator(g IDGenerator) RegistryOption {
	return func(r *Registry) {
		r.ids = g
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		classes: make(map[string]*Class),
		ids:     UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Define creates and registers a class with the given ordered parents.
//
// The linearization is computed before the class is published; if it
// cannot be computed the class is not created and a HierarchyError is
// returned (AMBIGUOUS_HIERARCHY, DUPLICATE_BASE, ...).
func (r *Registry) Define(name string, parents ...*Class) (*Class, error) {
	if name == "" {
		return nil, &HierarchyError{Code: ErrCodeInvalidName, Message: "class name must not be empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[name]; exists {
		return nil, &HierarchyError{
			Code:    ErrCodeDuplicateClass,
			Class:   name,
			Message: "class already defined",
		}
	}
	if err := r.checkParents(name, parents); err != nil {
		return nil, err
	}

	c := newClass(r, name, parents)
	mro, err := linearize(c, parents, (*Class).MRO)
	if err != nil {
		return nil, err
	}
	c.storeMRO(mro)
	r.classes[name] = c
	return c, nil
}

// MustDefine is like Define but panics on error.
// Use only in tests or when the hierarchy is known to be valid.
func (r *Registry) MustDefine(name string, parents ...*Class) *Class {
	c, err := r.Define(name, parents...)
	if err != nil {
		panic(err)
	}
	return c
}

// checkParents verifies every parent is non-nil and owned by r.
// Caller must hold r.mu.
func (r *Registry) checkParents(name string, parents []*Class) error {
	for _, p := range parents {
		if p == nil {
			return &HierarchyError{Code: ErrCodeUnknownClass, Class: name, Message: "nil parent class"}
		}
		if p.reg != r || r.classes[p.name] != p {
			return &HierarchyError{
				Code:    ErrCodeForeignClass,
				Class:   name,
				Message: "parent is not registered in this registry",
				Details: []string{p.name},
			}
		}
	}
	return nil
}

// setParents reassigns c's parents, relinearizing c and all of its
// registered descendants. Nothing is committed unless every affected
// class linearizes.
func (r *Registry) setParents(c *Class, parents []*Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkParents(c.name, parents); err != nil {
		return err
	}
	for _, p := range parents {
		if p == c || p.IsSubclassOf(c) {
			return &HierarchyError{
				Code:    ErrCodeInheritanceCycle,
				Class:   c.name,
				Message: "class cannot inherit from itself",
				Details: []string{p.name},
			}
		}
	}

	affected := map[*Class]bool{c: true}
	for _, k := range r.classes {
		if k != c && k.IsSubclassOf(c) {
			affected[k] = true
		}
	}

	pending := make(map[*Class][]*Class, len(affected))
	mroOf := func(k *Class) []*Class {
		if m, ok := pending[k]; ok {
			return m
		}
		return k.MRO()
	}

	var resolve func(k *Class) error
	resolve = func(k *Class) error {
		if _, done := pending[k]; done || !affected[k] {
			return nil
		}
		ps := k.Parents()
		if k == c {
			ps = parents
		}
		for _, p := range ps {
			if err := resolve(p); err != nil {
				return err
			}
		}
		m, err := linearize(k, ps, mroOf)
		if err != nil {
			return err
		}
		pending[k] = m
		return nil
	}

	// Deterministic evaluation order so the reported error is stable.
	order := make([]*Class, 0, len(affected))
	for k := range affected {
		order = append(order, k)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].name < order[j].name })
	for _, k := range order {
		if err := resolve(k); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.parents = slices.Clone(parents)
	c.mu.Unlock()
	for k, m := range pending {
		k.storeMRO(m)
	}
	return nil
}

// Lookup finds a class by name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// Classes returns all registered classes, sorted by name.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].name < result[j].name })
	return result
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// Discard removes a class from the registry. Existing instances keep
// their reference. A class that registered classes still inherit from
// cannot be discarded.
func (r *Registry) Discard(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.classes[name]
	if !ok {
		return &HierarchyError{Code: ErrCodeUnknownClass, Class: name, Message: "class not defined"}
	}

	var subs []string
	for _, k := range r.classes {
		if k != c && k.IsSubclassOf(c) {
			subs = append(subs, k.name)
		}
	}
	if len(subs) > 0 {
		sort.Strings(subs)
		return &HierarchyError{
			Code:    ErrCodeHasSubclasses,
			Class:   name,
			Message: "class still has registered subclasses",
			Details: subs,
		}
	}

	delete(r.classes, name)
	return nil
}

// NewInstance creates an instance of c with an empty attribute table.
func (r *Registry) NewInstance(c *Class) *Instance {
	return newInstance(r.ids.Generate(), c)
}
