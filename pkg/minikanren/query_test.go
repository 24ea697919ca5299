package minikanren

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nat relates n to every natural number, in increasing order.
func nat(n Value[int]) Goal {
	return Any(
		Unify(n, Bound(0)),
		With1(func(m Value[int]) Goal {
			return All(
				Lazy(func() Goal { return nat(m) }),
				Map1(m, n, func(m int) int { return m + 1 }, nil),
			)
		}),
	)
}

func TestRun(t *testing.T) {
	t.Run("limit on an infinite goal", func(t *testing.T) {
		got, err := Run(5, nat)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	})

	t.Run("unbound query variable", func(t *testing.T) {
		got, err := Run(0, func(q Value[int]) Goal {
			return Any(Unify(q, Bound(1)), Succeed)
		})
		assert.ErrorIs(t, err, ErrUnbound)
		assert.Equal(t, []int{1}, got)
	})

	t.Run("run star", func(t *testing.T) {
		got, err := RunStar(func(q Value[string]) Goal {
			return Any(Unify(q, Bound("a")), Unify(q, Bound("b")), Unify(q, Bound("c")))
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("two variables", func(t *testing.T) {
		got, err := Run2(0, func(a Value[int], b Value[string]) Goal {
			return All(
				Any(Unify(a, Bound(1)), Unify(a, Bound(2))),
				Unify(b, Bound("x")),
			)
		})
		require.NoError(t, err)
		assert.Equal(t, []Result2[int, string]{{First: 1, Second: "x"}, {First: 2, Second: "x"}}, got)
	})
}

func TestRunWithContext(t *testing.T) {
	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		got, err := RunWithContext(ctx, 0, nat)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, got)
	})

	t.Run("deadline stops an infinite run", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		got, err := RunWithContext(ctx, 0, nat)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotEmpty(t, got)
		for i, v := range got {
			require.Equal(t, i, v)
		}
	})
}

func TestQuery(t *testing.T) {
	x := Unbound[int]()
	var values []int
	var errs int
	for v, err := range Query(Any(Unify(x, Bound(1)), Succeed, Unify(x, Bound(3))), x) {
		if err != nil {
			errs++
			continue
		}
		values = append(values, v)
	}
	assert.Equal(t, []int{1, 3}, values)
	assert.Equal(t, 1, errs)

	for v := range Query(nat(x), x) {
		if v == 3 {
			break
		}
	}
}
