package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_StartsAtZero(t *testing.T) {
	seq := NewSequence()
	assert.Equal(t, int64(0), seq.Current())
	assert.Equal(t, int64(1), seq.Next())
	assert.Equal(t, int64(2), seq.Next())
	assert.Equal(t, int64(2), seq.Current())
}

func TestSequence_Reset(t *testing.T) {
	seq := NewSequence()
	seq.Next()
	seq.Next()

	seq.Reset()
	assert.Equal(t, int64(0), seq.Current())
	assert.Equal(t, int64(1), seq.Next())
}

func TestSequence_ConcurrentNextIsUnique(t *testing.T) {
	seq := NewSequence()
	const workers, per = 8, 100

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				v := seq.Next()
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*per)
	assert.Equal(t, int64(workers*per), seq.Current())
}
