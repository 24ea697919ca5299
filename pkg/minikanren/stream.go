package minikanren

import (
	"iter"
	"log/slog"
)

// Fork is a deferred choice point. Expand produces the alternative successor
// states of s, in order; it is only called while the state is being
// enumerated, and only as far as the consumer keeps pulling.
type Fork interface {
	Expand(s State) iter.Seq[State]
}

// ForkFunc adapts a function to the Fork interface.
type ForkFunc func(s State) iter.Seq[State]

// Expand calls f(s).
func (f ForkFunc) Expand(s State) iter.Seq[State] {
	return f(s)
}

// States lazily enumerates the terminal states reachable from s. The front
// fork is popped and expanded against the state without it, and every
// resulting state is enumerated in turn until no forks remain. Forks are
// expanded in the order they were queued; branches of a fork in the order
// the fork yields them. Terminal states may still carry pending constraints;
// see Solutions.
//
// Breaking out of the range loop abandons the remaining search.
func (s State) States() iter.Seq[State] {
	return func(yield func(State) bool) {
		expand(s, yield)
	}
}

// Solutions is States restricted to states whose constraints have all been
// discharged. A terminal state that still has constraints waiting on unbound
// variables is not a solution: nothing is left that could bind them.
func (s State) Solutions() iter.Seq[State] {
	return func(yield func(State) bool) {
		for st := range s.States() {
			if st.watches.len() > 0 {
				if st.tracing() {
					st.trace("dropped state with pending constraints", slog.Int("pending", st.watches.len()))
				}
				continue
			}
			solutionsYielded.Inc()
			if !yield(st) {
				return
			}
		}
	}
}

func expand(s State, yield func(State) bool) bool {
	f, rest, ok := s.forks.Pop()
	if !ok {
		return yield(s)
	}
	forksExpanded.Inc()
	if s.tracing() {
		s.trace("fork expanded", slog.Int("queued", rest.Len()))
	}
	s.forks = rest
	for next := range f.Expand(s) {
		if !expand(next, yield) {
			return false
		}
	}
	return true
}
