package minikanren

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gitrdm/lazykanren/internal/persist"
)

// State is an immutable snapshot of a search branch: variable bindings,
// constraints waiting on unbound variables, and forks not yet expanded.
// Every operation returns a new State that shares unmodified structure with
// its receiver, so copying a State is O(1) and any number of branches may
// extend the same ancestor independently.
//
// The zero State is empty and ready to use; NewState returns it.
type State struct {
	bindings persist.Map[anyValue]
	watches  watchIndex
	forks    persist.Queue[Fork]
	opts     *searchOptions
}

// searchOptions are settings a search carries from its start state into
// every state derived from it.
type searchOptions struct {
	reifyMaxDepth int
	traceLog      *slog.Logger
}

func (s State) withOptions(f func(*searchOptions)) State {
	var o searchOptions
	if s.opts != nil {
		o = *s.opts
	}
	f(&o)
	s.opts = &o
	return s
}

// WithReifyMaxDepth returns s with the nesting limit used when values are
// read from s and from every state derived from it: by Reify and by the
// inputs of Assert, Map and Project. n <= 0 selects DefaultReifyMaxDepth.
func (s State) WithReifyMaxDepth(n int) State {
	return s.withOptions(func(o *searchOptions) { o.reifyMaxDepth = n })
}

func (s State) reifyMaxDepth() int {
	if s.opts == nil || s.opts.reifyMaxDepth <= 0 {
		return DefaultReifyMaxDepth
	}
	return s.opts.reifyMaxDepth
}

// withTraceLogger returns s with search tracing for it and its descendants
// sent to l.
func (s State) withTraceLogger(l *slog.Logger) State {
	return s.withOptions(func(o *searchOptions) { o.traceLog = l })
}

// NewState returns an empty state.
func NewState() State {
	return State{}
}

// Resolve follows v through the bindings of s until it reaches a bound
// payload or a variable with no binding. A variable bound to itself ends the
// walk rather than looping.
func Resolve[T any](s State, v Value[T]) Value[T] {
	v, _ = resolveChecked(s, v)
	return v
}

// IsBound reports whether id has a binding in s, to a payload or to another
// variable.
func (s State) IsBound(id VarID) bool {
	return s.bindings.Has(uint64(id))
}

// Constrain attempts c against s. A decided constraint either yields its
// successor state or fails; an undecided one is filed under the variables it
// waits on and s succeeds unchanged apart from the filing.
func (s State) Constrain(c Constraint) (State, bool) {
	out := c.Attempt(s)
	switch out.result {
	case ConstraintSatisfied:
		return out.state, true
	case ConstraintPending:
		if len(out.waitOn) == 0 {
			return s, false
		}
		constraintsFiled.Inc()
		if s.tracing() {
			s.trace("constraint filed", slog.Any("wait_on", out.waitOn))
		}
		s.watches = s.watches.file(c, out.waitOn)
		return s, true
	default:
		return s, false
	}
}

// Fork queues f for expansion by States. It never fails and performs no work
// until the state is enumerated.
func (s State) Fork(f Fork) (State, bool) {
	s.forks = s.forks.Push(f)
	return s, true
}

// Pending returns the number of constraints still waiting on variables.
func (s State) Pending() int {
	return s.watches.len()
}

// Forks returns the number of forks not yet expanded.
func (s State) Forks() int {
	return s.forks.Len()
}

// Terminal reports whether s has no forks left to expand.
func (s State) Terminal() bool {
	return s.forks.Empty()
}

// Discharged reports whether s is terminal and has no pending constraints.
// Only discharged states are reported as solutions.
func (s State) Discharged() bool {
	return s.forks.Empty() && s.watches.len() == 0
}

// bind records id -> val and retries, in filing order, every constraint that
// was waiting on id. The caller guarantees id is currently unbound.
func (s State) bind(id VarID, val anyValue) (State, bool) {
	s.bindings = s.bindings.Set(uint64(id), val)
	if s.tracing() {
		s.trace("variable bound", slog.Uint64("var", uint64(id)), slog.String("value", val.String()))
	}

	waiting, watches := s.watches.take(id)
	s.watches = watches
	for _, c := range waiting {
		constraintRetries.Inc()
		var ok bool
		if s, ok = s.Constrain(c); !ok {
			s.trace("constraint violated on retry", slog.Uint64("var", uint64(id)))
			return s, false
		}
	}
	return s, true
}

func (s State) withoutForks() State {
	s.forks = persist.Queue[Fork]{}
	return s
}

// boundSince returns the ids bound in s but not in base.
func (s State) boundSince(base State) []VarID {
	var ids []VarID
	for k := range s.bindings.All() {
		if !base.bindings.Has(k) {
			ids = append(ids, VarID(k))
		}
	}
	return ids
}

// String returns a human-readable representation of the state for debugging.
func (s State) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, k := range s.bindings.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		a, _ := s.bindings.Get(k)
		fmt.Fprintf(&b, "_%d=%s", k, a)
	}
	fmt.Fprintf(&b, "} pending=%d forks=%d", s.watches.len(), s.forks.Len())
	if ids := s.watches.watched(); len(ids) > 0 {
		b.WriteString(" waiting_on=[")
		for i, id := range ids {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "_%d", id)
		}
		b.WriteString("]")
	}
	return b.String()
}
