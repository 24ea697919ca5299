// Package minikanren provides an embeddable relational programming engine in
// the miniKanren tradition: unification over typed logic variables, deferred
// constraints that wait for their inputs, and a lazy backtracking search that
// enumerates every consistent set of bindings.
//
// The engine is built from a small number of pieces:
//   - Var and Value: typed logic variables and the values that may hold them
//   - State: an immutable snapshot of bindings, pending constraints and
//     queued forks, shared structurally between search branches
//   - Goal: a function from State to an optional successor State
//   - Fork: a deferred choice point expanded lazily by State.States
//   - Constraint: a check or derivation retried whenever a watched variable
//     is bound
//
// Goals are composed with All/Either/Not and friends and evaluated with Run,
// Query or Solve. Search is single-threaded and pull driven: each step of
// the returned iterator performs just enough work to produce the next result,
// and stopping the iteration abandons the rest of the search.
//
// There is no occurs check. A variable unified with a structure containing
// itself is accepted; reification reports ErrDepthExceeded instead of
// looping forever on such values.
package minikanren

import (
	"fmt"
	"sync/atomic"
)

// VarID identifies a logic variable. IDs come from a single process-wide
// counter: they increase monotonically for the life of the process, are never
// reused and carry no meaning outside it.
type VarID uint64

var varCounter atomic.Uint64

func nextVarID() VarID {
	return VarID(varCounter.Add(1))
}

// lastVarID returns the most recently issued id. Every variable created after
// the call has a larger id.
func lastVarID() VarID {
	return VarID(varCounter.Load())
}

// Var is a logic variable whose bindings are values of type T.
// Vars compare equal only to themselves and carry no payload.
type Var[T any] struct {
	id VarID
}

// Fresh creates a new logic variable.
//
// Example:
//
//	x := Fresh[int]()
//	goal := Unify(Of(x), Bound(1))
func Fresh[T any]() Var[T] {
	return Var[T]{id: nextVarID()}
}

// ID returns the variable's identity.
func (v Var[T]) ID() VarID {
	return v.id
}

// String returns a human-readable representation of the variable.
func (v Var[T]) String() string {
	return fmt.Sprintf("_%d", v.id)
}

// Value is either an unbound logic variable or a bound payload of type T.
// Values are immutable. A bound value holds its payload behind a shared
// pointer so copying a Value into many branches is O(1).
type Value[T any] struct {
	v   Var[T]
	ref *T
}

// Bound wraps a payload as a bound value.
func Bound[T any](t T) Value[T] {
	return Value[T]{ref: &t}
}

// Unbound creates a value holding a fresh variable.
func Unbound[T any]() Value[T] {
	return Value[T]{v: Fresh[T]()}
}

// Of returns the value standing for v.
func Of[T any](v Var[T]) Value[T] {
	return Value[T]{v: v}
}

// IsBound reports whether the value holds a payload.
func (val Value[T]) IsBound() bool {
	return val.ref != nil
}

// Get returns the payload of a bound value.
func (val Value[T]) Get() (T, bool) {
	if val.ref == nil {
		var zero T
		return zero, false
	}
	return *val.ref, true
}

// Var returns the variable of an unbound value.
func (val Value[T]) Var() (Var[T], bool) {
	return val.v, val.ref == nil
}

// Equal compares two values without consulting any state: unbound values are
// equal when they hold the same variable, bound values when their payloads
// are equal.
func (val Value[T]) Equal(other Value[T]) bool {
	switch {
	case val.ref == nil && other.ref == nil:
		return val.v == other.v
	case val.ref != nil && other.ref != nil:
		return val.ref == other.ref || payloadEqual(*val.ref, *other.ref)
	default:
		return false
	}
}

// String renders the payload, or the variable name when unbound.
func (val Value[T]) String() string {
	if val.ref == nil {
		return val.v.String()
	}
	return fmt.Sprintf("%v", *val.ref)
}

func (val Value[T]) erase() anyValue {
	if val.ref == nil {
		return anyValue{id: val.v.id}
	}
	return anyValue{payload: val.ref}
}

// anyValue is the type-erased form of a Value kept in the binding store. A
// bound anyValue holds the *T of the Value it came from. The binding store
// only ever associates a Var[T] id with values erased from Value[T], so
// restoring the type is trusted to succeed.
type anyValue struct {
	id      VarID
	payload any
}

func (a anyValue) bound() bool {
	return a.payload != nil
}

func (a anyValue) String() string {
	if a.payload == nil {
		return fmt.Sprintf("_%d", a.id)
	}
	return fmt.Sprintf("%v", derefAny(a.payload))
}

// restore converts an erased value back into a Value[T]. ok is false only if
// the binding store was misused across types.
func restore[T any](a anyValue) (Value[T], bool) {
	if a.payload == nil {
		return Value[T]{v: Var[T]{id: a.id}}, true
	}
	ref, ok := a.payload.(*T)
	if !ok {
		return Value[T]{}, false
	}
	return Value[T]{ref: ref}, true
}
