package minikanren

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshIDs(t *testing.T) {
	a, b := Fresh[int](), Fresh[string]()
	assert.Less(t, a.ID(), b.ID())
	assert.Equal(t, fmt.Sprintf("_%d", a.ID()), a.String())
	assert.LessOrEqual(t, b.ID(), lastVarID())
}

func TestFreshIDsConcurrent(t *testing.T) {
	const workers, each = 8, 500
	ids := make(chan VarID, workers*each)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range each {
				ids <- Fresh[int]().ID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[VarID]bool, workers*each)
	for id := range ids {
		require.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*each)
}

func TestValue(t *testing.T) {
	t.Run("bound", func(t *testing.T) {
		v := Bound(42)
		assert.True(t, v.IsBound())
		got, ok := v.Get()
		assert.True(t, ok)
		assert.Equal(t, 42, got)
		_, isVar := v.Var()
		assert.False(t, isVar)
		assert.Equal(t, "42", v.String())
	})

	t.Run("unbound", func(t *testing.T) {
		x := Fresh[string]()
		v := Of(x)
		assert.False(t, v.IsBound())
		got, ok := v.Get()
		assert.False(t, ok)
		assert.Empty(t, got)
		vx, isVar := v.Var()
		assert.True(t, isVar)
		assert.Equal(t, x, vx)
		assert.Equal(t, x.String(), v.String())
	})

	t.Run("equal", func(t *testing.T) {
		x := Unbound[int]()
		assert.True(t, Bound(1).Equal(Bound(1)))
		assert.False(t, Bound(1).Equal(Bound(2)))
		assert.True(t, x.Equal(x))
		assert.False(t, x.Equal(Unbound[int]()))
		assert.False(t, x.Equal(Bound(1)))
		assert.True(t, Bound([]int{1, 2}).Equal(Bound([]int{1, 2})))
	})

	t.Run("erase and restore", func(t *testing.T) {
		v := Bound("payload")
		back, ok := restore[string](v.erase())
		require.True(t, ok)
		assert.True(t, back.Equal(v))

		_, ok = restore[int](v.erase())
		assert.False(t, ok)

		x := Unbound[int]()
		back2, ok := restore[int](x.erase())
		require.True(t, ok)
		assert.True(t, back2.Equal(x))
	})
}
