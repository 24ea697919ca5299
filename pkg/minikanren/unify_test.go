package minikanren

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustReify[T any](t *testing.T, s State, v Value[T]) T {
	t.Helper()
	got, err := Reify(s, v)
	require.NoError(t, err)
	return got
}

func TestUnifyValues(t *testing.T) {
	t.Run("reflexive", func(t *testing.T) {
		x := Unbound[int]()
		for _, v := range []Value[int]{x, Bound(7)} {
			s, ok := UnifyValues(NewState(), v, v)
			assert.True(t, ok)
			assert.Zero(t, s.bindings.Len())
		}
	})

	t.Run("binds either side", func(t *testing.T) {
		x := Unbound[int]()
		s1, ok := UnifyValues(NewState(), x, Bound(5))
		require.True(t, ok)
		s2, ok := UnifyValues(NewState(), Bound(5), x)
		require.True(t, ok)
		assert.Equal(t, 5, mustReify(t, s1, x))
		assert.Equal(t, 5, mustReify(t, s2, x))
	})

	t.Run("payload mismatch", func(t *testing.T) {
		_, ok := UnifyValues(NewState(), Bound("a"), Bound("b"))
		assert.False(t, ok)
	})

	t.Run("variable chains", func(t *testing.T) {
		x, y := Unbound[int](), Unbound[int]()
		s, ok := UnifyValues(NewState(), x, y)
		require.True(t, ok)
		s, ok = UnifyValues(s, y, Bound(3))
		require.True(t, ok)
		assert.Equal(t, 3, mustReify(t, s, x))

		_, ok = UnifyValues(s, x, Bound(4))
		assert.False(t, ok)
		_, ok = UnifyValues(s, x, Bound(3))
		assert.True(t, ok)
	})

	t.Run("self binding does not loop", func(t *testing.T) {
		x := Unbound[int]()
		v, _ := x.Var()
		s, ok := NewState().bind(v.ID(), x.erase())
		require.True(t, ok)
		assert.False(t, Resolve(s, x).IsBound())
	})
}

func TestUnifyCompound(t *testing.T) {
	t.Run("tuples", func(t *testing.T) {
		x, y := Unbound[int](), Unbound[string]()
		s, ok := UnifyValues(NewState(), Tup2(x, Bound("a")), Tup2(Bound(1), y))
		require.True(t, ok)
		assert.Equal(t, 1, mustReify(t, s, x))
		assert.Equal(t, "a", mustReify(t, s, y))

		_, ok = UnifyValues(NewState(), Tup2(Bound(1), Bound("a")), Tup2(Bound(1), Bound("b")))
		assert.False(t, ok)

		z := Unbound[bool]()
		s, ok = UnifyValues(NewState(), Tup3(Bound(1), Bound("b"), z), Tup3(Bound(1), Bound("b"), Bound(true)))
		require.True(t, ok)
		assert.True(t, mustReify(t, s, z))
	})

	t.Run("slices", func(t *testing.T) {
		x, y := Unbound[int](), Unbound[int]()
		s, ok := UnifyValues(NewState(), SliceOf(x, Bound(2)), SliceOf(Bound(1), y))
		require.True(t, ok)
		got := mustReify(t, s, SliceOf(x, y))
		assert.Equal(t, []int{1, 2}, got.Items())

		_, ok = UnifyValues(NewState(), SliceOf(Bound(1)), SliceOf(Bound(1), Bound(2)))
		assert.False(t, ok)
	})

	t.Run("slice mismatch stops at first element", func(t *testing.T) {
		later := Unbound[int]()
		s, ok := UnifyValues(NewState(), SliceOf(Bound(1), later), SliceOf(Bound(2), Bound(9)))
		assert.False(t, ok)
		assert.False(t, Resolve(s, later).IsBound())
	})

	t.Run("lists", func(t *testing.T) {
		tail := Unbound[LList[int]]()
		s, ok := UnifyValues(NewState(), ListOf(1, 2, 3), Cons(Bound(1), tail))
		require.True(t, ok)
		assert.Equal(t, []int{2, 3}, mustReify(t, s, tail).Items())

		_, ok = UnifyValues(NewState(), Nil[int](), Cons(Bound(1), tail))
		assert.False(t, ok)
		_, ok = UnifyValues(NewState(), ListOf(1, 2), ListOf(1, 2, 3))
		assert.False(t, ok)
	})

	t.Run("dicts with resolved keys", func(t *testing.T) {
		x, y := Unbound[int](), Unbound[int]()
		left := DictOf(Entry(Bound("a"), x), Entry(Bound("b"), Bound(2)))
		right := DictOf(Entry(Bound("b"), y), Entry(Bound("a"), Bound(1)))
		s, ok := UnifyValues(NewState(), left, right)
		require.True(t, ok)
		assert.Zero(t, s.Forks())
		assert.Equal(t, 1, mustReify(t, s, x))
		assert.Equal(t, 2, mustReify(t, s, y))

		m := DictToMap(mustReify(t, s, left))
		assert.Equal(t, map[string]int{"a": 1, "b": 2}, m)
	})

	t.Run("dict with unbound key forks", func(t *testing.T) {
		k, v := Unbound[string](), Unbound[int]()
		left := DictOf(Entry(k, Bound(1)), Entry(Bound("b"), v))
		right := DictOf(Entry(Bound("a"), Bound(1)), Entry(Bound("b"), Bound(2)))
		s, ok := UnifyValues(NewState(), left, right)
		require.True(t, ok)
		assert.Equal(t, 1, s.Forks())
		assert.Equal(t, 2, mustReify(t, s, v))

		var keys []string
		for st := range s.Solutions() {
			keys = append(keys, mustReify(t, st, k))
		}
		assert.Equal(t, []string{"a"}, keys)
	})

	t.Run("dict size mismatch", func(t *testing.T) {
		_, ok := UnifyValues(NewState(),
			DictOf(Entry(Bound("a"), Bound(1))),
			DictOf[string, int]())
		assert.False(t, ok)
	})
}

func TestUnifySymmetry(t *testing.T) {
	pairs := []struct {
		name string
		a, b Value[Tuple2[int, string]]
	}{
		{"all bound", Tup2(Bound(1), Bound("a")), Tup2(Bound(1), Bound("a"))},
		{"mixed", Tup2(Unbound[int](), Bound("a")), Tup2(Bound(1), Unbound[string]())},
		{"mismatch", Tup2(Bound(1), Bound("a")), Tup2(Bound(2), Unbound[string]())},
	}
	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			s1, ok1 := UnifyValues(NewState(), tc.a, tc.b)
			s2, ok2 := UnifyValues(NewState(), tc.b, tc.a)
			require.Equal(t, ok1, ok2)
			if !ok1 {
				return
			}
			r1, err1 := Reify(s1, tc.a)
			r2, err2 := Reify(s2, tc.a)
			require.NoError(t, err1)
			require.NoError(t, err2)
			x1, y1 := r1.Values()
			x2, y2 := r2.Values()
			assert.Equal(t, x1, x2)
			assert.Equal(t, y1, y2)
		})
	}
}

func TestUnifyInterfaceFields(t *testing.T) {
	type box struct{ X any }
	type pair [2]any

	t.Run("struct holding a slice", func(t *testing.T) {
		_, ok := UnifyValues(NewState(), Bound(box{X: []int{1, 2}}), Bound(box{X: []int{1, 2}}))
		assert.True(t, ok)
		_, ok = UnifyValues(NewState(), Bound(box{X: []int{1, 2}}), Bound(box{X: []int{2, 1}}))
		assert.False(t, ok)
	})

	t.Run("array holding a map", func(t *testing.T) {
		a := pair{map[string]int{"a": 1}, 2}
		b := pair{map[string]int{"a": 1}, 2}
		_, ok := UnifyValues(NewState(), Bound(a), Bound(b))
		assert.True(t, ok)
	})

	t.Run("plain structs", func(t *testing.T) {
		type point struct{ X, Y int }
		assert.True(t, safeComparable(reflect.TypeFor[point]()))
		assert.False(t, safeComparable(reflect.TypeFor[box]()))
		assert.False(t, safeComparable(reflect.TypeFor[struct{ P [1]box }]()))
		_, ok := UnifyValues(NewState(), Bound(point{1, 2}), Bound(point{1, 3}))
		assert.False(t, ok)
	})
}
