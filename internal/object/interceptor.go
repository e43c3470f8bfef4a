package object

import (
	"slices"
	"sync/atomic"
)

// ReadNext continues a read past the current interceptor.
type ReadNext func() (any, error)

// WriteNext continues a write past the current interceptor.
type WriteNext func(value any) error

// DeleteNext continues a delete past the current interceptor.
type DeleteNext func() error

// Interceptor is an external proxy installed on an instance or for the
// whole process. It sees an operation before any class hook and may answer
// it directly or delegate with next.
type Interceptor interface {
	InterceptRead(a Access, next ReadNext) (any, error)
	InterceptWrite(a Access, value any, next WriteNext) error
	InterceptDelete(a Access, next DeleteNext) error
}

// InterceptorFuncs adapts optional functions to Interceptor. Nil slots
// delegate straight to next.
type InterceptorFuncs struct {
	Read   func(a Access, next ReadNext) (any, error)
	Write  func(a Access, value any, next WriteNext) error
	Delete func(a Access, next DeleteNext) error
}

// InterceptRead implements Interceptor.
func (f InterceptorFuncs) InterceptRead(a Access, next ReadNext) (any, error) {
	if f.Read == nil {
		return next()
	}
	return f.Read(a, next)
}

// InterceptWrite implements Interceptor.
func (f InterceptorFuncs) InterceptWrite(a Access, value any, next WriteNext) error {
	if f.Write == nil {
		return next(value)
	}
	return f.Write(a, value, next)
}

// InterceptDelete implements Interceptor.
func (f InterceptorFuncs) InterceptDelete(a Access, next DeleteNext) error {
	if f.Delete == nil {
		return next()
	}
	return f.Delete(a, next)
}

// InterceptorID identifies an installed interceptor for removal.
type InterceptorID string

type chainEntry struct {
	id          InterceptorID
	interceptor Interceptor
}

// InterceptorChain is an ordered, copy-on-write list of interceptors.
// Readers take an immutable snapshot; Add and Remove swap in a new list.
//
// The zero value is an empty chain ready to use.
type InterceptorChain struct {
	entries atomic.Pointer[[]chainEntry]
}

// Add appends an interceptor under id.
func (c *InterceptorChain) Add(id InterceptorID, i Interceptor) {
	for {
		old := c.entries.Load()
		var next []chainEntry
		if old != nil {
			next = slices.Clone(*old)
		}
		next = append(next, chainEntry{id: id, interceptor: i})
		if c.entries.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Remove deletes the interceptor installed under id.
// Returns false if no such interceptor is installed.
func (c *InterceptorChain) Remove(id InterceptorID) bool {
	for {
		old := c.entries.Load()
		if old == nil {
			return false
		}
		idx := slices.IndexFunc(*old, func(e chainEntry) bool { return e.id == id })
		if idx < 0 {
			return false
		}
		next := slices.Delete(slices.Clone(*old), idx, idx+1)
		if c.entries.CompareAndSwap(old, &next) {
			return true
		}
	}
}

// Snapshot returns the installed interceptors in install order.
func (c *InterceptorChain) Snapshot() []Interceptor {
	p := c.entries.Load()
	if p == nil {
		return nil
	}
	out := make([]Interceptor, len(*p))
	for i, e := range *p {
		out[i] = e.interceptor
	}
	return out
}

// Len returns the number of installed interceptors.
func (c *InterceptorChain) Len() int {
	p := c.entries.Load()
	if p == nil {
		return 0
	}
	return len(*p)
}
