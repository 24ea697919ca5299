package minikanren

import (
	"reflect"
	"sync"
)

// Unifier is implemented by payload types that unify structurally rather than
// by plain equality. UnifyWith is only called with two resolved payloads; it
// returns the successor state, or false when the payloads cannot be made
// equal. Implementations unify nested values with UnifyValues so that nested
// bindings and constraint retries go through the state.
type Unifier[T any] interface {
	UnifyWith(s State, other T) (State, bool)
}

// unifyPayloads dispatches unification of two resolved payloads.
func unifyPayloads[T any](s State, a, b T) (State, bool) {
	if u, ok := any(a).(Unifier[T]); ok {
		return u.UnifyWith(s, b)
	}
	return s, payloadEqual(a, b)
}

// payloadEqual compares payloads that carry no Unifier. Types whose
// comparison cannot reach an interface value use ==; everything else falls
// back to reflect.DeepEqual, since == panics when an interface holds a
// non-comparable dynamic value.
func payloadEqual[T any](a, b T) bool {
	if safeComparable(reflect.TypeFor[T]()) {
		return any(a) == any(b)
	}
	return reflect.DeepEqual(a, b)
}

// safeComparableTypes caches safeComparable by reflect.Type.
var safeComparableTypes sync.Map

// safeComparable reports whether == on values of t can never panic: t is
// comparable and no struct field or array element of it is an interface.
func safeComparable(t reflect.Type) bool {
	if v, ok := safeComparableTypes.Load(t); ok {
		return v.(bool)
	}
	ok := t.Comparable()
	switch t.Kind() {
	case reflect.Interface:
		ok = false
	case reflect.Array:
		ok = ok && safeComparable(t.Elem())
	case reflect.Struct:
		for i := 0; ok && i < t.NumField(); i++ {
			ok = safeComparable(t.Field(i).Type)
		}
	}
	safeComparableTypes.Store(t, ok)
	return ok
}

func derefAny(p any) any {
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return p
}

// UnifyValues makes a and b equal in s. Both sides are resolved first; two
// bound payloads are handed to the payload's Unifier (or compared), a
// variable is bound to the other side otherwise. Binding a variable retries
// every constraint waiting on it, and any failure among them fails the unify.
func UnifyValues[T any](s State, a, b Value[T]) (State, bool) {
	a = Resolve(s, a)
	b = Resolve(s, b)

	switch {
	case a.ref != nil && b.ref != nil:
		if a.ref == b.ref {
			return s, true
		}
		next, ok := unifyPayloads(s, *a.ref, *b.ref)
		if !ok {
			unifyFailures.Inc()
		}
		return next, ok
	case a.ref == nil && b.ref == nil && a.v == b.v:
		return s, true
	case a.ref == nil:
		return s.bind(a.v.id, b.erase())
	default:
		return s.bind(b.v.id, a.erase())
	}
}
