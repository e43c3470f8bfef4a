package object

import "fmt"

// Binder is the read capability of a descriptor. inst is nil for
// class-level reads; owner is the class whose table holds the descriptor.
type Binder interface {
	Bind(inst *Instance, owner *Class) (any, error)
}

// Assigner is the write capability of a descriptor. Only invoked for
// instance-level writes.
type Assigner interface {
	Assign(inst *Instance, value any) error
}

// Unbinder is the delete capability of a descriptor. Only invoked for
// instance-level deletes.
type Unbinder interface {
	Unbind(inst *Instance) error
}

// DescriptorKind is the tagged capability variant of a stored value.
type DescriptorKind uint8

const (
	// KindNone marks a plain value.
	KindNone DescriptorKind = iota
	// KindReadOnly is a non-data descriptor: bind only.
	KindReadOnly
	// KindReadWrite is a data descriptor with bind and assign.
	KindReadWrite
	// KindReadDeletable is a data descriptor with bind and unbind.
	KindReadDeletable
	// KindFull is a data descriptor with bind, assign and unbind.
	KindFull
)

// String implements the Stringer interface.
func (k DescriptorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindReadOnly:
		return "read_only"
	case KindReadWrite:
		return "read_write"
	case KindReadDeletable:
		return "read_deletable"
	case KindFull:
		return "full"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsDescriptor reports whether the value customizes its own reads.
func (k DescriptorKind) IsDescriptor() bool {
	return k != KindNone
}

// IsData reports whether the descriptor takes priority over instance
// storage (it can assign and/or unbind).
func (k DescriptorKind) IsData() bool {
	return k == KindReadWrite || k == KindReadDeletable || k == KindFull
}

// CanAssign reports whether instance-level writes can go through.
func (k DescriptorKind) CanAssign() bool {
	return k == KindReadWrite || k == KindFull
}

// CanUnbind reports whether instance-level deletes can go through.
func (k DescriptorKind) CanUnbind() bool {
	return k == KindReadDeletable || k == KindFull
}

// Kinded lets a value report its descriptor kind explicitly instead of
// having it inferred from the interfaces it implements.
type Kinded interface {
	Kind() DescriptorKind
}

// KindOf classifies a stored value. A value without Bind is a plain value
// even if it implements Assign or Unbind.
func KindOf(v any) DescriptorKind {
	if k, ok := v.(Kinded); ok {
		return k.Kind()
	}
	if _, ok := v.(Binder); !ok {
		return KindNone
	}
	_, assign := v.(Assigner)
	_, unbind := v.(Unbinder)
	switch {
	case assign && unbind:
		return KindFull
	case assign:
		return KindReadWrite
	case unbind:
		return KindReadDeletable
	default:
		return KindReadOnly
	}
}

// Descriptor is a descriptor assembled from optional function slots. Its
// kind follows from which slots are set; a Descriptor with no BindFunc is
// a plain value.
type Descriptor struct {
	BindFunc   func(inst *Instance, owner *Class) (any, error)
	AssignFunc func(inst *Instance, value any) error
	UnbindFunc func(inst *Instance) error
}

// Kind implements Kinded.
func (d *Descriptor) Kind() DescriptorKind {
	if d.BindFunc == nil {
		return KindNone
	}
	switch {
	case d.AssignFunc != nil && d.UnbindFunc != nil:
		return KindFull
	case d.AssignFunc != nil:
		return KindReadWrite
	case d.UnbindFunc != nil:
		return KindReadDeletable
	default:
		return KindReadOnly
	}
}

// Bind implements Binder.
func (d *Descriptor) Bind(inst *Instance, owner *Class) (any, error) {
	if d.BindFunc == nil {
		return d, nil
	}
	return d.BindFunc(inst, owner)
}

// Assign implements Assigner.
func (d *Descriptor) Assign(inst *Instance, value any) error {
	if d.AssignFunc == nil {
		return ReadOnly(className(inst), "")
	}
	return d.AssignFunc(inst, value)
}

// Unbind implements Unbinder.
func (d *Descriptor) Unbind(inst *Instance) error {
	if d.UnbindFunc == nil {
		return NotDeletable(className(inst), "")
	}
	return d.UnbindFunc(inst)
}

// Property is a managed attribute: a data descriptor whose value lives in
// the instance table under Backing. It is always a full data descriptor so
// that it intercepts writes and deletes even when it refuses them.
type Property struct {
	// Name is the public attribute name, used in errors.
	Name string

	// Backing is the instance-table entry holding the value.
	Backing string

	// ReadOnly refuses instance-level writes with READ_ONLY.
	ReadOnly bool

	// Undeletable refuses instance-level deletes with NOT_DELETABLE.
	Undeletable bool
}

// Kind implements Kinded.
func (p *Property) Kind() DescriptorKind {
	return KindFull
}

// Bind returns the backing value, or the property itself for class-level
// reads.
func (p *Property) Bind(inst *Instance, owner *Class) (any, error) {
	if inst == nil {
		return p, nil
	}
	v, ok := inst.Attr(p.Backing)
	if !ok {
		return nil, NotFound(owner.Name(), p.Name)
	}
	return v, nil
}

// Assign stores value under the backing name.
func (p *Property) Assign(inst *Instance, value any) error {
	if p.ReadOnly {
		return ReadOnly(inst.Class().Name(), p.Name)
	}
	inst.SetAttr(p.Backing, value)
	return nil
}

// Unbind removes the backing entry.
func (p *Property) Unbind(inst *Instance) error {
	if p.Undeletable {
		return NotDeletable(inst.Class().Name(), p.Name)
	}
	if !inst.DeleteAttr(p.Backing) {
		return NotFound(inst.Class().Name(), p.Name)
	}
	return nil
}

// MethodFunc is the body of a Method.
type MethodFunc func(self *Instance, args ...any) (any, error)

// Method is a non-data descriptor: reading it through an instance yields
// a BoundMethod, reading it through the class yields the Method itself.
// An instance-table entry of the same name shadows it.
type Method struct {
	Name string
	Func MethodFunc
}

// Bind implements Binder.
func (m *Method) Bind(inst *Instance, owner *Class) (any, error) {
	if inst == nil {
		return m, nil
	}
	return &BoundMethod{Method: m, Owner: owner, Receiver: inst}, nil
}

// BoundMethod is a Method bound to a receiver.
type BoundMethod struct {
	Method   *Method
	Owner    *Class
	Receiver *Instance
}

// Call invokes the method body with the bound receiver.
func (b *BoundMethod) Call(args ...any) (any, error) {
	if b.Method.Func == nil {
		return nil, nil
	}
	return b.Method.Func(b.Receiver, args...)
}

// String implements the Stringer interface.
func (b *BoundMethod) String() string {
	return fmt.Sprintf("<bound method %s.%s of %s>", b.Owner.Name(), b.Method.Name, b.Receiver)
}

// Constant is a non-data descriptor that yields Value for instance and
// class reads alike.
type Constant struct {
	Value any
}

// Bind implements Binder.
func (c *Constant) Bind(*Instance, *Class) (any, error) {
	return c.Value, nil
}

func className(inst *Instance) string {
	if inst == nil {
		return ""
	}
	return inst.Class().Name()
}
