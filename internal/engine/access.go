package engine

import "github.com/wardi/bar-foo/internal/object"

// call is one in-flight attribute operation. It implements object.Access
// for the hooks and interceptors it runs.
type call struct {
	r     *Resolver
	inst  *object.Instance
	class *object.Class
	name  string
	depth int

	// step and owner record which resolution step answered.
	step  Step
	owner *object.Class

	// reachedCore is set once every interceptor delegated.
	reachedCore bool
}

func (r *Resolver) newCall(depth int, inst *object.Instance, class *object.Class, name string) *call {
	return &call{r: r, inst: inst, class: class, name: name, depth: depth}
}

// sibling is a call for another name on the same object, one level deeper.
// Default* re-enter the algorithm from step 3, which can reach the missing
// hook again, so they count against the depth limit like any nested read.
func (c *call) sibling(name string) *call {
	return c.r.newCall(c.depth+1, c.inst, c.class, name)
}

func (c *call) mark(step Step, owner *object.Class) {
	c.step = step
	c.owner = owner
}

func (c *call) Instance() *object.Instance { return c.inst }

func (c *call) Class() *object.Class { return c.class }

func (c *call) Name() string { return c.name }

func (c *call) Default() (any, error) {
	return c.DefaultFor(c.name)
}

func (c *call) DefaultFor(name string) (any, error) {
	s := c.sibling(name)
	if err := c.r.checkDepth(s); err != nil {
		return nil, err
	}
	return c.r.defaultRead(s)
}

func (c *call) DefaultWrite(value any) error {
	if c.inst == nil {
		return object.ReadOnly(c.class.Name(), c.name)
	}
	s := c.sibling(c.name)
	if err := c.r.checkDepth(s); err != nil {
		return err
	}
	return c.r.defaultWrite(s, value)
}

func (c *call) DefaultDelete() error {
	if c.inst == nil {
		return object.NotDeletable(c.class.Name(), c.name)
	}
	s := c.sibling(c.name)
	if err := c.r.checkDepth(s); err != nil {
		return err
	}
	return c.r.defaultDelete(s)
}

func (c *call) Read(inst *object.Instance, name string) (any, error) {
	nested := c.r.read(c.depth+1, inst, name)
	return nested.value, nested.err
}

func (c *call) ReadClass(class *object.Class, name string) (any, error) {
	nested := c.r.readClass(c.depth+1, class, name)
	return nested.value, nested.err
}

func (c *call) Write(inst *object.Instance, name string, value any) error {
	return c.r.write(c.depth+1, inst, name, value).err
}

func (c *call) Delete(inst *object.Instance, name string) error {
	return c.r.delete(c.depth+1, inst, name).err
}
