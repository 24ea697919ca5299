package minikanren

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countFrom binds v to start, start+1, ... without end.
func countFrom(v Value[int], start int, expansions *int) Goal {
	gen := ForkFunc(func(s State) iter.Seq[State] {
		*expansions++
		return func(yield func(State) bool) {
			for i := start; ; i++ {
				next, ok := UnifyValues(s, v, Bound(i))
				if ok && !yield(next) {
					return
				}
			}
		}
	})
	return func(s State) (State, bool) {
		return s.Fork(gen)
	}
}

func TestForksAreLazy(t *testing.T) {
	x := Unbound[int]()
	expansions := 0
	s, ok := countFrom(x, 10, &expansions)(NewState())
	require.True(t, ok)
	assert.Zero(t, expansions, "applying a goal must not expand its fork")
	assert.Equal(t, 1, s.Forks())
	assert.False(t, s.Terminal())

	var got []int
	for st := range s.Solutions() {
		got = append(got, mustReify(t, st, x))
		if len(got) == 4 {
			break
		}
	}
	assert.Equal(t, []int{10, 11, 12, 13}, got)
	assert.Equal(t, 1, expansions)
}

func TestForkOrder(t *testing.T) {
	x, y := Unbound[int](), Unbound[string]()
	goal := All(
		Any(Unify(x, Bound(1)), Unify(x, Bound(2))),
		Any(Unify(y, Bound("a")), Unify(y, Bound("b"))),
	)
	s, ok := goal(NewState())
	require.True(t, ok)
	assert.Equal(t, 2, s.Forks())

	var got []string
	for st := range s.Solutions() {
		got = append(got, mustReify(t, st, Tup2(x, y)).String())
	}
	assert.Equal(t, []string{"(1, a)", "(1, b)", "(2, a)", "(2, b)"}, got)
}

func TestSolutionsRequireDischargedConstraints(t *testing.T) {
	x := Unbound[int]()
	s, ok := Assert(x, func(int) bool { return true })(NewState())
	require.True(t, ok)

	states, solutions := 0, 0
	for range s.States() {
		states++
	}
	for range s.Solutions() {
		solutions++
	}
	assert.Equal(t, 1, states)
	assert.Zero(t, solutions)
}

func TestForkFailureInsideBranch(t *testing.T) {
	x := Unbound[int]()
	goal := All(
		Any(Unify(x, Bound(1)), Unify(x, Bound(2)), Unify(x, Bound(3))),
		Assert(x, func(v int) bool { return v%2 == 1 }),
	)
	got, err := Run(0, func(q Value[int]) Goal {
		return All(goal, Unify(q, x))
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, got)
}
