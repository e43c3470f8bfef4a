package object

import (
	"fmt"
	"sort"
	"sync"
)

// Instance is a runtime object: one class reference plus a private
// attribute table.
//
// Extra is the explicit escape hatch for hosts that need dynamically named
// attributes. The standard resolution algorithm never consults it; install
// ExtraAttributes as a class's Missing hook to serve names from it.
type Instance struct {
	id    string
	class *Class

	mu        sync.RWMutex
	attrs     map[string]any
	extra     map[string]any
	overrides Overrides

	interceptors InterceptorChain
}

func newInstance(id string, c *Class) *Instance {
	return &Instance{
		id:    id,
		class: c,
		attrs: make(map[string]any),
		extra: make(map[string]any),
	}
}

// ID returns the instance identity.
func (i *Instance) ID() string {
	return i.id
}

// Class returns the instance's class.
func (i *Instance) Class() *Class {
	return i.class
}

// String implements the Stringer interface.
func (i *Instance) String() string {
	return fmt.Sprintf("<%s instance %s>", i.class.Name(), i.id)
}

// Attr returns the value stored in the instance's own table.
func (i *Instance) Attr(name string) (any, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	v, ok := i.attrs[name]
	return v, ok
}

// SetAttr stores value in the instance's own table, bypassing descriptors
// and hooks.
func (i *Instance) SetAttr(name string, value any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.attrs[name] = value
}

// DeleteAttr removes name from the instance's own table.
// Returns false if it was not present.
func (i *Instance) DeleteAttr(name string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.attrs[name]; !ok {
		return false
	}
	delete(i.attrs, name)
	return true
}

// AttrNames returns the names in the instance's own table, sorted.
func (i *Instance) AttrNames() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	names := make([]string, 0, len(i.attrs))
	for k := range i.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Extra returns an entry of the extra-attributes table.
func (i *Instance) Extra(name string) (any, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	v, ok := i.extra[name]
	return v, ok
}

// SetExtra stores an entry in the extra-attributes table.
func (i *Instance) SetExtra(name string, value any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.extra[name] = value
}

// DeleteExtra removes an entry from the extra-attributes table.
func (i *Instance) DeleteExtra(name string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.extra[name]; !ok {
		return false
	}
	delete(i.extra, name)
	return true
}

// Overrides returns the per-instance full-override hooks.
func (i *Instance) Overrides() Overrides {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.overrides
}

// SetOverrides replaces the per-instance full-override hooks. Set slots
// take priority over the class hierarchy's hooks.
func (i *Instance) SetOverrides(o Overrides) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.overrides = o
}

// Interceptors returns the instance-scope interceptor chain.
func (i *Instance) Interceptors() *InterceptorChain {
	return &i.interceptors
}

// Dir returns every attribute name visible on the instance: its own table
// plus everything reachable through the class linearization, sorted.
func Dir(i *Instance) []string {
	seen := make(map[string]bool)
	for _, name := range i.AttrNames() {
		seen[name] = true
	}
	for _, name := range DirClass(i.class) {
		seen[name] = true
	}
	return sortedKeys(seen)
}
