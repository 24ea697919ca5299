package minikanren

import (
	"log/slog"
	"slices"
)

// Not creates a goal that succeeds when goal cannot succeed.
//
// This is negation as failure and only an approximation of logical negation.
// When Not is called, goal is probed against an empty state; if it has no
// solution at all the negation holds everywhere and Not returns Succeed.
// Otherwise the negation becomes a constraint that re-runs goal against the
// current state each time it is attempted:
//   - no solution: the negation is satisfied;
//   - a solution that needs no binding of, and posts no new constraint on,
//     any variable that existed before the run: goal is entailed and the
//     negation is violated;
//   - otherwise: the negation waits on the variables that solution would
//     have to bind.
//
// Solutions are examined in search order and the first one that needs an
// outer binding decides: the negation waits on it even if a later solution
// would already entail goal. Such a negation is still rejected, once those
// variables are bound or when the search ends with it pending, and goals
// with infinitely many solutions are not searched past that point.
//
// Variables introduced by goal itself (for example through With1 or Lazy)
// never keep the negation pending. Probing runs goal's search eagerly, so a
// goal with infinitely many answers and no solution found by depth-first
// search will not return.
//
// Example:
//
//	All(Not(Unify(x, Bound(1))), Any(Unify(x, Bound(1)), Unify(x, Bound(2)))) // x = 2
func Not(goal Goal) Goal {
	if !hasState(goal, NewState()) {
		return Succeed
	}
	return Constrain(negation{goal: goal})
}

type negation struct {
	goal Goal
}

func (n negation) Attempt(s State) Outcome {
	base := s.withoutForks()
	mark := lastVarID()
	next, ok := n.goal(base)
	if !ok {
		return Satisfied(s)
	}

	for sol := range next.States() {
		wait := outerChanges(base, sol, mark)
		if len(wait) > 0 {
			if s.tracing() {
				s.trace("negation pending", slog.Any("wait_on", wait))
			}
			return Pending(wait...)
		}
		if len(sol.watches.filedSince(base.watches)) > 0 {
			// Constraints left only on variables local to the run: this
			// solution can never be completed.
			continue
		}
		return Violated()
	}
	return Satisfied(s)
}

// outerChanges returns the variables created no later than mark that sol
// binds, or newly constrains, relative to base.
func outerChanges(base, sol State, mark VarID) []VarID {
	var ids []VarID
	for _, id := range sol.boundSince(base) {
		if id <= mark {
			ids = append(ids, id)
		}
	}
	for _, id := range sol.watches.filedSince(base.watches) {
		if id <= mark {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// hasState reports whether goal applied to s reaches at least one terminal
// state.
func hasState(goal Goal, s State) bool {
	next, ok := goal(s)
	if !ok {
		return false
	}
	for range next.States() {
		return true
	}
	return false
}
