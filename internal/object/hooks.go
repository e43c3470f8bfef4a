package object

// Access is the view of an in-flight attribute operation handed to hooks
// and interceptors. It is implemented by the engine's resolver.
type Access interface {
	// Instance is the object being accessed; nil for class-level reads.
	Instance() *Instance

	// Class is the instance's class, or the class read directly.
	Class() *Class

	// Name is the attribute being resolved.
	Name() string

	// Default runs the standard read algorithm for Name (data descriptor,
	// instance table, class table, missing hook), skipping interceptors
	// and full-override hooks.
	Default() (any, error)

	// DefaultFor is Default for another name on the same object.
	DefaultFor(name string) (any, error)

	// DefaultWrite runs the standard write algorithm for Name.
	DefaultWrite(value any) error

	// DefaultDelete runs the standard delete algorithm for Name.
	DefaultDelete() error

	// Read re-enters full resolution (interceptors and hooks included)
	// one level deeper.
	Read(inst *Instance, name string) (any, error)

	// ReadClass re-enters class-level resolution one level deeper.
	ReadClass(c *Class, name string) (any, error)

	// Write re-enters full write resolution one level deeper.
	Write(inst *Instance, name string, value any) error

	// Delete re-enters full delete resolution one level deeper.
	Delete(inst *Instance, name string) error
}

// GetAttributeFunc takes full responsibility for a read.
type GetAttributeFunc func(a Access) (any, error)

// SetAttributeFunc takes full responsibility for a write.
type SetAttributeFunc func(a Access, value any) error

// DeleteAttributeFunc takes full responsibility for a delete.
type DeleteAttributeFunc func(a Access) error

// MissingFunc is the fallback invoked only after every other read step
// failed to produce a value.
type MissingFunc func(a Access) (any, error)

// Overrides are the full-override hook slots. A nil slot is absent.
type Overrides struct {
	GetAttribute    GetAttributeFunc
	SetAttribute    SetAttributeFunc
	DeleteAttribute DeleteAttributeFunc
}

// Hooks are the optional capability slots of a class. Missing fires on
// read misses only; writes and deletes never consult it.
type Hooks struct {
	Overrides
	Missing MissingFunc
}

// FindGetAttribute returns the first GetAttribute hook along mro.
func FindGetAttribute(mro []*Class) GetAttributeFunc {
	for _, c := range mro {
		if h := c.Hooks().GetAttribute; h != nil {
			return h
		}
	}
	return nil
}

// FindSetAttribute returns the first SetAttribute hook along mro.
func FindSetAttribute(mro []*Class) SetAttributeFunc {
	for _, c := range mro {
		if h := c.Hooks().SetAttribute; h != nil {
			return h
		}
	}
	return nil
}

// FindDeleteAttribute returns the first DeleteAttribute hook along mro.
func FindDeleteAttribute(mro []*Class) DeleteAttributeFunc {
	for _, c := range mro {
		if h := c.Hooks().DeleteAttribute; h != nil {
			return h
		}
	}
	return nil
}

// FindMissing returns the first Missing hook along mro.
func FindMissing(mro []*Class) MissingFunc {
	for _, c := range mro {
		if h := c.Hooks().Missing; h != nil {
			return h
		}
	}
	return nil
}

// MissingValue returns a Missing hook answering every unknown name with v.
func MissingValue(v any) MissingFunc {
	return func(Access) (any, error) {
		return v, nil
	}
}

// ExtraAttributes is a Missing hook serving names from the instance's
// extra-attributes table. Class-level reads and absent names stay
// NOT_FOUND.
func ExtraAttributes(a Access) (any, error) {
	inst := a.Instance()
	if inst != nil {
		if v, ok := inst.Extra(a.Name()); ok {
			return v, nil
		}
	}
	return nil, NotFound(a.Class().Name(), a.Name())
}

// FrozenSetAttribute is a SetAttribute hook that rejects every write.
func FrozenSetAttribute(a Access, _ any) error {
	return Frozen(a.Class().Name(), a.Name())
}

// FrozenDeleteAttribute is a DeleteAttribute hook that rejects every delete.
func FrozenDeleteAttribute(a Access) error {
	return Frozen(a.Class().Name(), a.Name())
}
