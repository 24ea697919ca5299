package minikanren

import (
	"iter"
)

// Goal is a unit of relational logic. Applying a goal to a state yields the
// successor state, or false when the goal certainly fails. Goals hold no
// state of their own and may be applied any number of times.
//
// Disjunctions do not branch when applied; they queue a Fork on the state and
// the branches are explored when the state is enumerated.
type Goal func(s State) (State, bool)

// Apply applies g to s.
func (g Goal) Apply(s State) (State, bool) {
	return g(s)
}

// Succeed is a goal that always succeeds with the state unchanged.
var Succeed Goal = func(s State) (State, bool) {
	return s, true
}

// Fail is a goal that always fails.
var Fail Goal = func(s State) (State, bool) {
	return s, false
}

// Unify creates a goal that makes a and b equal, binding variables as
// needed.
//
// Example:
//
//	x := Unbound[int]()
//	goal := Unify(x, Bound(1)) // binds x to 1
func Unify[T any](a, b Value[T]) Goal {
	return func(s State) (State, bool) {
		return UnifyValues(s, a, b)
	}
}

// Eq is an alias for Unify, following miniKanren naming conventions.
func Eq[T any](a, b Value[T]) Goal {
	return Unify(a, b)
}

// Both creates a goal that requires a and then b to succeed.
func Both(a, b Goal) Goal {
	return All(a, b)
}

// All creates a conjunction. Goals are applied left to right, each to the
// state produced by the previous one, stopping at the first failure.
//
// Example:
//
//	All(Unify(x, Bound(1)), Unify(y, Bound(2)), Unify(z, Bound(3)))
func All(goals ...Goal) Goal {
	switch len(goals) {
	case 0:
		return Succeed
	case 1:
		return goals[0]
	}
	return func(s State) (State, bool) {
		for _, g := range goals {
			var ok bool
			if s, ok = g(s); !ok {
				return s, false
			}
		}
		return s, true
	}
}

// Either creates a goal that succeeds if a or b succeeds.
func Either(a, b Goal) Goal {
	return Any(a, b)
}

// Any creates a disjunction. Applying it queues a single fork; when the state
// is enumerated each branch is applied to the state as it stood when the
// fork was reached, and the results appear in declaration order. A branch
// that fails immediately contributes nothing.
//
// Example:
//
//	Any(Unify(x, Bound(1)), Unify(x, Bound(2))) // x = 1, then x = 2
func Any(goals ...Goal) Goal {
	switch len(goals) {
	case 0:
		return Fail
	case 1:
		return goals[0]
	}
	branches := ForkFunc(func(s State) iter.Seq[State] {
		return func(yield func(State) bool) {
			for _, g := range goals {
				next, ok := g(s)
				if ok && !yield(next) {
					return
				}
			}
		}
	})
	return func(s State) (State, bool) {
		return s.Fork(branches)
	}
}

// Conde is an alias for Any, following miniKanren naming conventions.
func Conde(goals ...Goal) Goal {
	return Any(goals...)
}

// Lazy defers building a goal until it is applied. Recursive relations must
// wrap their recursive step in Lazy so that each unfolding constructs its own
// fresh variables, and so that constructing the relation does not recurse
// forever.
func Lazy(build func() Goal) Goal {
	return func(s State) (State, bool) {
		return build()(s)
	}
}

// With1 introduces a fresh variable each time the goal is applied.
//
// Example:
//
//	With1(func(tail Value[LList[int]]) Goal {
//	    return Unify(list, Cons(Bound(1), tail))
//	})
func With1[A any](f func(a Value[A]) Goal) Goal {
	return Lazy(func() Goal {
		return f(Unbound[A]())
	})
}

// With2 introduces two fresh variables each time the goal is applied.
func With2[A, B any](f func(a Value[A], b Value[B]) Goal) Goal {
	return Lazy(func() Goal {
		return f(Unbound[A](), Unbound[B]())
	})
}

// With3 introduces three fresh variables each time the goal is applied.
func With3[A, B, C any](f func(a Value[A], b Value[B], c Value[C]) Goal) Goal {
	return Lazy(func() Goal {
		return f(Unbound[A](), Unbound[B](), Unbound[C]())
	})
}
