package minikanren

import (
	"fmt"
	"slices"
)

// ConstraintResult represents the outcome of attempting a constraint.
// Constraints can be satisfied (decided, search continues), violated
// (decided, the state fails) or pending (waiting for more variable bindings).
type ConstraintResult int

const (
	// ConstraintSatisfied indicates the constraint was decided in favour of
	// the state, possibly after extending it.
	ConstraintSatisfied ConstraintResult = iota

	// ConstraintViolated indicates the constraint can never hold for this
	// state or any state derived from it.
	ConstraintViolated

	// ConstraintPending indicates the constraint cannot be decided until one
	// of the listed variables is bound.
	ConstraintPending
)

// String returns a human-readable representation of the constraint result.
func (cr ConstraintResult) String() string {
	switch cr {
	case ConstraintSatisfied:
		return "satisfied"
	case ConstraintViolated:
		return "violated"
	case ConstraintPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Outcome is what a Constraint reports from an attempt.
type Outcome struct {
	result ConstraintResult
	state  State
	waitOn []VarID
}

// Satisfied reports a decided constraint whose successor state is next.
func Satisfied(next State) Outcome {
	return Outcome{result: ConstraintSatisfied, state: next}
}

// Violated reports a decided constraint that fails the state.
func Violated() Outcome {
	return Outcome{result: ConstraintViolated}
}

// Pending reports an undecided constraint that must be attempted again once
// any of ids is bound. Pending with no ids can never be retried and is
// treated as a violation.
func Pending(ids ...VarID) Outcome {
	return Outcome{result: ConstraintPending, waitOn: ids}
}

// Result returns the kind of outcome.
func (o Outcome) Result() ConstraintResult {
	return o.result
}

// WaitingOn returns the variables a pending outcome waits for.
func (o Outcome) WaitingOn() []VarID {
	return slices.Clone(o.waitOn)
}

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	if o.result == ConstraintPending {
		return fmt.Sprintf("pending%v", o.waitOn)
	}
	return o.result.String()
}

// Constraint is a check or derivation deferred until enough of its inputs
// are resolved. Attempt is called when the constraint is first posted and
// again every time one of the variables it waits on is bound, each time
// against the current state. It must not retain the state between calls.
type Constraint interface {
	Attempt(s State) Outcome
}

// ConstraintFunc adapts a function to the Constraint interface.
type ConstraintFunc func(s State) Outcome

// Attempt calls f(s).
func (f ConstraintFunc) Attempt(s State) Outcome {
	return f(s)
}

// Constrain creates a goal that posts c.
func Constrain(c Constraint) Goal {
	return func(s State) (State, bool) {
		return s.Constrain(c)
	}
}
