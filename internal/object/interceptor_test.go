package object

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterceptorChain_ZeroValue(t *testing.T) {
	var c InterceptorChain
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Snapshot())
	assert.False(t, c.Remove("nope"))
}

func TestInterceptorChain_AddRemove(t *testing.T) {
	var c InterceptorChain
	first := InterceptorFuncs{}
	second := InterceptorFuncs{Read: func(Access, ReadNext) (any, error) { return 2, nil }}

	c.Add("a", first)
	c.Add("b", second)
	assert.Equal(t, 2, c.Len())

	snap := c.Snapshot()
	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))

	assert.Len(t, snap, 2, "earlier snapshot is unaffected")
	assert.Len(t, c.Snapshot(), 1)
}

func TestInterceptorChain_ConcurrentAdd(t *testing.T) {
	var c InterceptorChain
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Add(InterceptorID(rune('A'+i)), InterceptorFuncs{})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}

func TestInterceptorFuncs_NilSlotsDelegate(t *testing.T) {
	var f InterceptorFuncs

	v, err := f.InterceptRead(nil, func() (any, error) { return "next", nil })
	assert.NoError(t, err)
	assert.Equal(t, "next", v)

	var written any
	err = f.InterceptWrite(nil, 7, func(v any) error { written = v; return nil })
	assert.NoError(t, err)
	assert.Equal(t, 7, written)

	called := false
	err = f.InterceptDelete(nil, func() error { called = true; return nil })
	assert.NoError(t, err)
	assert.True(t, called)
}
