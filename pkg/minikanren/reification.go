package minikanren

import (
	"errors"
	"fmt"
)

// DefaultReifyMaxDepth bounds how deeply Reify nests into compound values.
// The elements of an LList are one level, however long the list is.
const DefaultReifyMaxDepth = 1 << 16

var (
	// ErrUnbound is matched by errors reporting a value that is not fully
	// bound. The concrete error is an *UnboundError.
	ErrUnbound = errors.New("minikanren: value is not fully bound")

	// ErrDepthExceeded reports a value nested deeper than the reifier allows,
	// or a cyclic value: without an occurs check a variable can be bound to
	// a structure that contains itself.
	ErrDepthExceeded = errors.New("minikanren: reification depth exceeded")

	// ErrTypeMismatch reports a binding holding a payload of a different type
	// than the variable it is bound to. It only arises from misuse of the
	// type-erased binding store.
	ErrTypeMismatch = errors.New("minikanren: binding holds a payload of another type")
)

// UnboundError reports the variable that stopped a reification.
type UnboundError struct {
	ID VarID
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("minikanren: variable _%d is unbound", e.ID)
}

// Is matches ErrUnbound.
func (e *UnboundError) Is(target error) bool {
	return target == ErrUnbound
}

// Reifiable is implemented by compound payloads that contain nested values.
// ReifyWith returns a copy whose nested values are all bound, reifying each
// of them with ReifyValue.
type Reifiable[T any] interface {
	ReifyWith(r *Reifier) (T, error)
}

// Reifier reads fully resolved payloads out of a state.
type Reifier struct {
	state    State
	depth    int
	maxDepth int
	// onPath holds the variables whose payloads are being reified by an
	// enclosing call. Meeting one of them again means the value is cyclic.
	onPath map[VarID]bool
}

// NewReifier creates a reifier over s. maxDepth <= 0 selects
// DefaultReifyMaxDepth.
func NewReifier(s State, maxDepth int) *Reifier {
	if maxDepth <= 0 {
		maxDepth = DefaultReifyMaxDepth
	}
	return &Reifier{state: s, maxDepth: maxDepth}
}

// State returns the state the reifier reads from.
func (r *Reifier) State() State {
	return r.state
}

// ReifyValue resolves v and, for compound payloads, every value nested in it.
func ReifyValue[T any](r *Reifier, v Value[T]) (T, error) {
	var zero T
	if r.depth >= r.maxDepth {
		return zero, ErrDepthExceeded
	}
	r.depth++
	defer func() { r.depth-- }()

	t, leave, err := enter(r, v)
	if err != nil {
		return zero, err
	}
	defer leave()
	if rf, ok := any(t).(Reifiable[T]); ok {
		return rf.ReifyWith(r)
	}
	return t, nil
}

// enter resolves v to its payload and marks the variables it passed through
// as being on the current path until leave is called.
func enter[T any](r *Reifier, v Value[T]) (t T, leave func(), err error) {
	var trail []VarID
	for v.ref == nil {
		id := v.v.id
		if r.onPath[id] {
			return t, nil, fmt.Errorf("variable _%d contains itself: %w", id, ErrDepthExceeded)
		}
		a, ok := r.state.bindings.Get(uint64(id))
		if !ok || (!a.bound() && a.id == id) {
			return t, nil, &UnboundError{ID: id}
		}
		next, ok := restore[T](a)
		if !ok {
			return t, nil, fmt.Errorf("variable _%d: %w", id, ErrTypeMismatch)
		}
		trail = append(trail, id)
		v = next
	}
	if len(trail) == 0 {
		return *v.ref, func() {}, nil
	}
	if r.onPath == nil {
		r.onPath = make(map[VarID]bool)
	}
	for _, id := range trail {
		r.onPath[id] = true
	}
	return *v.ref, func() {
		for _, id := range trail {
			delete(r.onPath, id)
		}
	}, nil
}

// Reify returns the fully resolved payload of v in s, nesting at most as
// deep as the state's reification limit (see State.WithReifyMaxDepth).
func Reify[T any](s State, v Value[T]) (T, error) {
	return ReifyValue(NewReifier(s, s.reifyMaxDepth()), v)
}

// resolveChecked is Resolve that reports type misuse instead of stopping.
func resolveChecked[T any](s State, v Value[T]) (Value[T], error) {
	for v.ref == nil {
		a, ok := s.bindings.Get(uint64(v.v.id))
		if !ok || (!a.bound() && a.id == v.v.id) {
			return v, nil
		}
		next, ok := restore[T](a)
		if !ok {
			return v, fmt.Errorf("variable _%d: %w", v.v.id, ErrTypeMismatch)
		}
		v = next
	}
	return v, nil
}
