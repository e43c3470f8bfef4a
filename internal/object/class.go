package object

import (
	"slices"
	"sort"
	"sync"
	"sync/atomic"
)

// Class is a named type node: its own attribute table, an ordered list of
// direct parents, optional hooks, and a cached linearization.
//
// Classes are created through Registry.Define, which owns them. Instances
// hold a non-owning reference.
//
// Thread-safety: the attribute table, parents and hooks are guarded by a
// per-class RWMutex. The linearization is an immutable snapshot swapped
// atomically by the registry whenever this class's or an ancestor's parent
// list changes.
type Class struct {
	name string
	reg  *Registry

	mu      sync.RWMutex
	parents []*Class
	attrs   map[string]any
	hooks   Hooks

	mro atomic.Pointer[[]*Class]
}

func newClass(reg *Registry, name string, parents []*Class) *Class {
	return &Class{
		name:    name,
		reg:     reg,
		parents: slices.Clone(parents),
		attrs:   make(map[string]any),
	}
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// String implements the Stringer interface.
func (c *Class) String() string {
	return c.name
}

// Registry returns the registry that owns this class.
func (c *Class) Registry() *Registry {
	return c.reg
}

// Parents returns a copy of the direct parents in declaration order.
func (c *Class) Parents() []*Class {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.parents)
}

// MRO returns the class's linearization, starting with the class itself.
// The returned slice is a shared snapshot and must not be modified.
func (c *Class) MRO() []*Class {
	if p := c.mro.Load(); p != nil {
		return *p
	}
	return []*Class{c}
}

func (c *Class) storeMRO(mro []*Class) {
	c.mro.Store(&mro)
}

// SetParents replaces the direct parents. The new hierarchy is linearized
// for this class and every registered descendant before anything is
// committed; on failure the hierarchy is left untouched.
func (c *Class) SetParents(parents ...*Class) error {
	return c.reg.setParents(c, parents)
}

// IsSubclassOf reports whether other appears in c's linearization
// (a class is a subclass of itself).
func (c *Class) IsSubclassOf(other *Class) bool {
	return slices.Contains(c.MRO(), other)
}

// Attr returns the value stored in this class's own table.
// It does not walk the linearization and never invokes descriptors.
func (c *Class) Attr(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.attrs[name]
	return v, ok
}

// HasAttr reports whether this class's own table contains name.
func (c *Class) HasAttr(name string) bool {
	_, ok := c.Attr(name)
	return ok
}

// SetAttr stores value in this class's own table, creating or replacing
// the entry.
func (c *Class) SetAttr(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs[name] = value
}

// DeleteAttr removes name from this class's own table.
// Returns a NOT_FOUND error if the entry does not exist.
func (c *Class) DeleteAttr(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.attrs[name]; !ok {
		return NotFound(c.name, name)
	}
	delete(c.attrs, name)
	return nil
}

// AttrNames returns the names in this class's own table, sorted.
func (c *Class) AttrNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.attrs))
	for k := range c.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Hooks returns the class's hook slots.
func (c *Class) Hooks() Hooks {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hooks
}

// SetHooks replaces the class's hook slots.
func (c *Class) SetHooks(h Hooks) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = h
}

// Lookup walks the linearization and returns the first own-table entry
// for name together with the class that owns it.
func (c *Class) Lookup(name string) (value any, owner *Class, ok bool) {
	for _, k := range c.MRO() {
		if v, found := k.Attr(name); found {
			return v, k, true
		}
	}
	return nil, nil, false
}

// DirClass returns every attribute name visible on c through its
// linearization, sorted.
func DirClass(c *Class) []string {
	seen := make(map[string]bool)
	for _, k := range c.MRO() {
		for _, name := range k.AttrNames() {
			seen[name] = true
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
