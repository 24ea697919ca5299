package minikanren

import (
	"context"
	"iter"
)

// Solve applies goal to an empty state and lazily enumerates its solutions:
// terminal states whose constraints have all been discharged.
func Solve(goal Goal) iter.Seq[State] {
	return SolveFrom(NewState(), goal)
}

// SolveFrom is Solve starting from s instead of the empty state. Settings
// attached to s, such as WithReifyMaxDepth, apply to the whole search.
func SolveFrom(s State, goal Goal) iter.Seq[State] {
	return func(yield func(State) bool) {
		s, ok := goal(s)
		if !ok {
			return
		}
		for st := range s.Solutions() {
			if !yield(st) {
				return
			}
		}
	}
}

// QueryWith enumerates the solutions of goal and reads each one with read.
// A read error does not stop the enumeration; it is reported alongside that
// solution.
func QueryWith[R any](goal Goal, read func(State) (R, error)) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		for st := range Solve(goal) {
			if !yield(read(st)) {
				return
			}
		}
	}
}

// Query enumerates the reified payload of v in every solution of goal.
// Solutions in which v is not fully bound report an error matching
// ErrUnbound.
func Query[T any](goal Goal, v Value[T]) iter.Seq2[T, error] {
	return QueryWith(goal, func(s State) (T, error) {
		return Reify(s, v)
	})
}

// Run executes a goal and returns up to n values of its query variable.
// If n <= 0 all solutions are returned. The first solution that leaves the
// query variable not fully bound stops the run with an error matching
// ErrUnbound, returning the values gathered so far.
//
// Example:
//
//	values, err := Run(5, func(q Value[int]) Goal {
//	    return Any(Unify(q, Bound(1)), Unify(q, Bound(2)))
//	})
//	// values: [1 2]
func Run[T any](n int, goalFunc func(q Value[T]) Goal) ([]T, error) {
	return RunWithContext(context.Background(), n, goalFunc)
}

// RunWithContext is Run with cancellation. The context is checked before
// each solution is pulled; on cancellation the values gathered so far are
// returned with the context's error.
func RunWithContext[T any](ctx context.Context, n int, goalFunc func(q Value[T]) Goal) ([]T, error) {
	q := Unbound[T]()
	return collect(ctx, n, Query(goalFunc(q), q))
}

// RunStar executes a goal and returns every value of its query variable.
// WARNING: This can run forever if the goal has infinite solutions.
// Use RunWithContext with a timeout for safer execution.
func RunStar[T any](goalFunc func(q Value[T]) Goal) ([]T, error) {
	return Run(0, goalFunc)
}

// Result2 holds the values of two query variables in one solution.
type Result2[A, B any] struct {
	First  A
	Second B
}

// Result3 holds the values of three query variables in one solution.
type Result3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Run2 is Run over two query variables.
func Run2[A, B any](n int, goalFunc func(a Value[A], b Value[B]) Goal) ([]Result2[A, B], error) {
	a, b := Unbound[A](), Unbound[B]()
	q := Tup2(a, b)
	return collect(context.Background(), n, QueryWith(goalFunc(a, b), func(s State) (Result2[A, B], error) {
		t, err := Reify(s, q)
		if err != nil {
			return Result2[A, B]{}, err
		}
		x, y := t.Values()
		return Result2[A, B]{First: x, Second: y}, nil
	}))
}

// Run3 is Run over three query variables.
func Run3[A, B, C any](n int, goalFunc func(a Value[A], b Value[B], c Value[C]) Goal) ([]Result3[A, B, C], error) {
	a, b, c := Unbound[A](), Unbound[B](), Unbound[C]()
	q := Tup3(a, b, c)
	return collect(context.Background(), n, QueryWith(goalFunc(a, b, c), func(s State) (Result3[A, B, C], error) {
		t, err := Reify(s, q)
		if err != nil {
			return Result3[A, B, C]{}, err
		}
		x, y, z := t.Values()
		return Result3[A, B, C]{First: x, Second: y, Third: z}, nil
	}))
}

func collect[R any](ctx context.Context, n int, results iter.Seq2[R, error]) ([]R, error) {
	out := []R{}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	for r, err := range results {
		if err != nil {
			return out, err
		}
		out = append(out, r)
		if n > 0 && len(out) >= n {
			break
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
	}
	return out, nil
}
