package minikanren

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items[T any](lists []LList[T]) [][]T {
	out := make([][]T, len(lists))
	for i, l := range lists {
		out[i] = l.Items()
		if out[i] == nil {
			out[i] = []T{}
		}
	}
	return out
}

func TestAppendo(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		got, err := Run(0, func(q Value[LList[int]]) Goal {
			return Appendo(ListOf(1, 2), ListOf(3), q)
		})
		require.NoError(t, err)
		assert.Equal(t, [][]int{{1, 2, 3}}, items(got))
	})

	t.Run("every split", func(t *testing.T) {
		got, err := Run2(0, func(front, back Value[LList[int]]) Goal {
			return Appendo(front, back, ListOf(1, 2, 3))
		})
		require.NoError(t, err)
		require.Len(t, got, 4)
		for i, r := range got {
			assert.Len(t, r.First.Items(), i)
			assert.Len(t, r.Second.Items(), 3-i)
			assert.Equal(t, []int{1, 2, 3}, append(r.First.Items(), r.Second.Items()...))
		}
	})

	t.Run("missing prefix", func(t *testing.T) {
		got, err := Run(0, func(q Value[LList[string]]) Goal {
			return Appendo(q, ListOf("c"), ListOf("a", "b", "c"))
		})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a", "b"}}, items(got))
	})

	t.Run("unknown lengths are enumerated lazily", func(t *testing.T) {
		got, err := Run(3, func(q Value[LList[int]]) Goal {
			return With1(func(back Value[LList[int]]) Goal {
				return Appendo(q, back, Unbound[LList[int]]())
			})
		})
		assert.ErrorIs(t, err, ErrUnbound, "the second prefix has an unbound head")
		assert.Equal(t, [][]int{{}}, items(got))
	})
}

func TestMembero(t *testing.T) {
	got, err := Run(0, func(q Value[string]) Goal {
		return Membero(q, ListOf("a", "b", "c"))
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	assert.Equal(t, 2, count(Membero(Bound(1), ListOf(1, 2, 1))))
	assert.Zero(t, count(Membero(Bound(4), ListOf(1, 2, 3))))
}

func TestRembero(t *testing.T) {
	got, err := Run(0, func(q Value[LList[int]]) Goal {
		return Rembero(Bound(2), ListOf(1, 2, 3, 2), q)
	})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 3, 2}}, items(got))

	removed, err := Run(0, func(q Value[int]) Goal {
		return Rembero(q, ListOf(1, 2, 3), ListOf(1, 3))
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, removed)
}

func TestReverso(t *testing.T) {
	got, err := Run(0, func(q Value[LList[int]]) Goal {
		return Reverso(ListOf(1, 2, 3), q)
	})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{3, 2, 1}}, items(got))

	back, err := Run(1, func(q Value[LList[int]]) Goal {
		return Reverso(q, ListOf(1, 2, 3))
	})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{3, 2, 1}}, items(back))

	assert.Equal(t, 1, count(SameLengtho(ListOf(1, 2), ListOf("a", "b"))))
	assert.Zero(t, count(SameLengtho(ListOf(1, 2), ListOf("a"))))
}

func TestLengtho(t *testing.T) {
	n, err := Run(0, func(q Value[int]) Goal {
		return Lengtho(ListOf("a", "b", "c"), q)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, n)

	shapes, err := Run(0, func(q Value[LList[int]]) Goal {
		return All(
			Lengtho(q, Bound(2)),
			Unify(q, Cons(Bound(7), Cons(Bound(8), Unbound[LList[int]]()))),
		)
	})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{7, 8}}, items(shapes))
}
