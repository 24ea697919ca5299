package minikanren

import (
	"errors"
	"slices"
)

// inputs reads constraint inputs out of a state. A read that hits an unbound
// variable records it as something to wait on; any other read error makes
// the constraint undecidable, which counts as a violation.
type inputs struct {
	r      *Reifier
	wait   []VarID
	broken bool
}

func newInputs(s State) *inputs {
	return &inputs{r: NewReifier(s, s.reifyMaxDepth())}
}

func read[T any](in *inputs, v Value[T]) (T, bool) {
	t, err := ReifyValue(in.r, v)
	if err == nil {
		return t, true
	}
	var unbound *UnboundError
	if errors.As(err, &unbound) {
		in.wait = append(in.wait, unbound.ID)
	} else {
		in.broken = true
	}
	return t, false
}

// blocked reports the outcome for a constraint whose inputs are incomplete.
func (in *inputs) blocked() Outcome {
	if in.broken || len(in.wait) == 0 {
		return Violated()
	}
	ids := slices.Clone(in.wait)
	slices.Sort(ids)
	return Pending(slices.Compact(ids)...)
}

func decide(s State, ok bool) Outcome {
	if !ok {
		return Violated()
	}
	return Satisfied(s)
}

// Assert creates a goal that succeeds when pred holds for the resolved
// payload of v. If v is not yet fully bound the check waits until it is.
//
// Example:
//
//	Assert(x, func(x int) bool { return x > 0 })
func Assert[T any](v Value[T], pred func(T) bool) Goal {
	return Constrain(ConstraintFunc(func(s State) Outcome {
		in := newInputs(s)
		t, ok := read(in, v)
		if !ok {
			return in.blocked()
		}
		return decide(s, pred(t))
	}))
}

// Assert2 is Assert over two values.
func Assert2[A, B any](a Value[A], b Value[B], pred func(A, B) bool) Goal {
	return Constrain(ConstraintFunc(func(s State) Outcome {
		in := newInputs(s)
		x, okA := read(in, a)
		y, okB := read(in, b)
		if !okA || !okB {
			return in.blocked()
		}
		return decide(s, pred(x, y))
	}))
}

// Map1 relates a and b through a pair of functions. Once a is resolved, b is
// unified with forward(a); once b is resolved and backward is not nil, a is
// unified with backward(b).
//
// Example:
//
//	Map1(x, y, func(x int) int { return x + 1 }, func(y int) int { return y - 1 })
func Map1[A, B any](a Value[A], b Value[B], forward func(A) B, backward func(B) A) Goal {
	return Constrain(ConstraintFunc(func(s State) Outcome {
		in := newInputs(s)
		if x, ok := read(in, a); ok {
			return decide(UnifyValues(s, b, Bound(forward(x))))
		}
		if backward != nil {
			if y, ok := read(in, b); ok {
				return decide(UnifyValues(s, a, Bound(backward(y))))
			}
		}
		return in.blocked()
	}))
}

// Map2 relates three values: as soon as any two of a, b and c are resolved
// the third is derived by the matching function. A nil function disables
// that direction.
//
//   - ab: derives c from a and b
//   - ac: derives b from a and c
//   - bc: derives a from b and c
//
// Example:
//
//	plus := Map2(x, y, z,
//	    func(x, y int) int { return x + y },
//	    func(x, z int) int { return z - x },
//	    func(y, z int) int { return z - y },
//	)
func Map2[A, B, C any](a Value[A], b Value[B], c Value[C], ab func(A, B) C, ac func(A, C) B, bc func(B, C) A) Goal {
	return Constrain(ConstraintFunc(func(s State) Outcome {
		in := newInputs(s)
		x, okA := read(in, a)
		y, okB := read(in, b)
		z, okC := read(in, c)
		switch {
		case okA && okB && ab != nil:
			return decide(UnifyValues(s, c, Bound(ab(x, y))))
		case okA && okC && ac != nil:
			return decide(UnifyValues(s, b, Bound(ac(x, z))))
		case okB && okC && bc != nil:
			return decide(UnifyValues(s, a, Bound(bc(y, z))))
		}
		return in.blocked()
	}))
}

// Project creates a goal that waits for v to be fully bound and then applies
// the goal built from its payload.
//
// Example:
//
//	Project(x, func(x int) Goal { return Unify(y, Bound(x*2)) })
func Project[T any](v Value[T], f func(T) Goal) Goal {
	return Constrain(ConstraintFunc(func(s State) Outcome {
		in := newInputs(s)
		t, ok := read(in, v)
		if !ok {
			return in.blocked()
		}
		return decide(f(t)(s))
	}))
}

// Project2 is Project over two values.
func Project2[A, B any](a Value[A], b Value[B], f func(A, B) Goal) Goal {
	return Constrain(ConstraintFunc(func(s State) Outcome {
		in := newInputs(s)
		x, okA := read(in, a)
		y, okB := read(in, b)
		if !okA || !okB {
			return in.blocked()
		}
		return decide(f(x, y)(s))
	}))
}
