package arena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocStability(t *testing.T) {
	a := New[int](4)
	p1, err := a.Alloc()
	require.NoError(t, err)
	*p1 = 42
	p2, err := a.Alloc()
	require.NoError(t, err)
	*p2 = 7
	assert.Equal(t, 42, *p1, "earlier allocation must remain stable after a later Alloc")
}

func TestAllocOutOfMemory(t *testing.T) {
	a := New[int](2)
	_, err := a.Alloc()
	require.NoError(t, err)
	_, err = a.Alloc()
	require.NoError(t, err)
	_, err = a.Alloc()
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestAllocSliceOutOfMemory(t *testing.T) {
	a := New[float32](10)
	_, err := a.AllocSlice(8)
	require.NoError(t, err)
	_, err = a.AllocSlice(4)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestReset(t *testing.T) {
	a := New[int](4)
	_, _ = a.Alloc()
	_, _ = a.Alloc()
	assert.Equal(t, 2, a.Len())
	a.Reset()
	assert.Equal(t, 0, a.Len())
	_, err := a.Alloc()
	assert.NoError(t, err)
}

func TestConcurrentAlloc(t *testing.T) {
	a := New[int](1000)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := a.Alloc()
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, a.Len())
}
