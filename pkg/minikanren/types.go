package minikanren

import (
	"fmt"
	"iter"
	"strings"
)

// Tuple2 is a fixed-size pair of values. Tuples unify element-wise, left to
// right, stopping at the first mismatch.
type Tuple2[A, B any] struct {
	First  Value[A]
	Second Value[B]
}

// Tup2 builds a bound tuple value.
func Tup2[A, B any](a Value[A], b Value[B]) Value[Tuple2[A, B]] {
	return Bound(Tuple2[A, B]{First: a, Second: b})
}

// UnifyWith implements Unifier.
func (t Tuple2[A, B]) UnifyWith(s State, o Tuple2[A, B]) (State, bool) {
	s, ok := UnifyValues(s, t.First, o.First)
	if !ok {
		return s, false
	}
	return UnifyValues(s, t.Second, o.Second)
}

// ReifyWith implements Reifiable.
func (t Tuple2[A, B]) ReifyWith(r *Reifier) (Tuple2[A, B], error) {
	a, err := ReifyValue(r, t.First)
	if err != nil {
		return t, err
	}
	b, err := ReifyValue(r, t.Second)
	if err != nil {
		return t, err
	}
	return Tuple2[A, B]{First: Bound(a), Second: Bound(b)}, nil
}

// Values returns the payloads of a reified tuple. Unbound elements yield
// zero values.
func (t Tuple2[A, B]) Values() (A, B) {
	a, _ := t.First.Get()
	b, _ := t.Second.Get()
	return a, b
}

func (t Tuple2[A, B]) String() string {
	return fmt.Sprintf("(%s, %s)", t.First, t.Second)
}

// Tuple3 is a fixed-size triple of values.
type Tuple3[A, B, C any] struct {
	First  Value[A]
	Second Value[B]
	Third  Value[C]
}

// Tup3 builds a bound tuple value.
func Tup3[A, B, C any](a Value[A], b Value[B], c Value[C]) Value[Tuple3[A, B, C]] {
	return Bound(Tuple3[A, B, C]{First: a, Second: b, Third: c})
}

// UnifyWith implements Unifier.
func (t Tuple3[A, B, C]) UnifyWith(s State, o Tuple3[A, B, C]) (State, bool) {
	s, ok := UnifyValues(s, t.First, o.First)
	if !ok {
		return s, false
	}
	if s, ok = UnifyValues(s, t.Second, o.Second); !ok {
		return s, false
	}
	return UnifyValues(s, t.Third, o.Third)
}

// ReifyWith implements Reifiable.
func (t Tuple3[A, B, C]) ReifyWith(r *Reifier) (Tuple3[A, B, C], error) {
	a, err := ReifyValue(r, t.First)
	if err != nil {
		return t, err
	}
	b, err := ReifyValue(r, t.Second)
	if err != nil {
		return t, err
	}
	c, err := ReifyValue(r, t.Third)
	if err != nil {
		return t, err
	}
	return Tuple3[A, B, C]{First: Bound(a), Second: Bound(b), Third: Bound(c)}, nil
}

// Values returns the payloads of a reified tuple.
func (t Tuple3[A, B, C]) Values() (A, B, C) {
	a, _ := t.First.Get()
	b, _ := t.Second.Get()
	c, _ := t.Third.Get()
	return a, b, c
}

func (t Tuple3[A, B, C]) String() string {
	return fmt.Sprintf("(%s, %s, %s)", t.First, t.Second, t.Third)
}

// Slice is a fixed-length sequence of values. Slices unify when their
// lengths match and every element unifies, left to right.
type Slice[T any] []Value[T]

// SliceOf builds a bound slice value.
func SliceOf[T any](items ...Value[T]) Value[Slice[T]] {
	return Bound(Slice[T](items))
}

// UnifyWith implements Unifier.
func (sl Slice[T]) UnifyWith(s State, o Slice[T]) (State, bool) {
	if len(sl) != len(o) {
		return s, false
	}
	for i := range sl {
		var ok bool
		if s, ok = UnifyValues(s, sl[i], o[i]); !ok {
			return s, false
		}
	}
	return s, true
}

// ReifyWith implements Reifiable.
func (sl Slice[T]) ReifyWith(r *Reifier) (Slice[T], error) {
	out := make(Slice[T], len(sl))
	for i, v := range sl {
		t, err := ReifyValue(r, v)
		if err != nil {
			return sl, err
		}
		out[i] = Bound(t)
	}
	return out, nil
}

// Items returns the payloads of a reified slice.
func (sl Slice[T]) Items() []T {
	out := make([]T, len(sl))
	for i, v := range sl {
		out[i], _ = v.Get()
	}
	return out
}

// LList is a cons list whose heads and tails may be unbound, so relations
// can describe lists of unknown length. The zero value is the empty list.
type LList[T any] struct {
	cell *consCell[T]
}

type consCell[T any] struct {
	head Value[T]
	tail Value[LList[T]]
}

// Nil returns the empty list.
func Nil[T any]() Value[LList[T]] {
	return Bound(LList[T]{})
}

// Cons returns the list with head in front of tail.
func Cons[T any](head Value[T], tail Value[LList[T]]) Value[LList[T]] {
	return Bound(LList[T]{cell: &consCell[T]{head: head, tail: tail}})
}

// ListOf builds a proper list of bound items.
func ListOf[T any](items ...T) Value[LList[T]] {
	list := Nil[T]()
	for i := len(items) - 1; i >= 0; i-- {
		list = Cons(Bound(items[i]), list)
	}
	return list
}

// Empty reports whether l is the empty list.
func (l LList[T]) Empty() bool {
	return l.cell == nil
}

// Head returns the first element of a non-empty list.
func (l LList[T]) Head() (Value[T], bool) {
	if l.cell == nil {
		return Value[T]{}, false
	}
	return l.cell.head, true
}

// Tail returns the rest of a non-empty list.
func (l LList[T]) Tail() (Value[LList[T]], bool) {
	if l.cell == nil {
		return Value[LList[T]]{}, false
	}
	return l.cell.tail, true
}

// UnifyWith implements Unifier.
func (l LList[T]) UnifyWith(s State, o LList[T]) (State, bool) {
	switch {
	case l.cell == nil || o.cell == nil:
		return s, l.cell == nil && o.cell == nil
	case l.cell == o.cell:
		return s, true
	}
	s, ok := UnifyValues(s, l.cell.head, o.cell.head)
	if !ok {
		return s, false
	}
	return UnifyValues(s, l.cell.tail, o.cell.tail)
}

// ReifyWith implements Reifiable. The cells are walked in a loop, so a
// list's length does not count against the reifier's depth limit.
func (l LList[T]) ReifyWith(r *Reifier) (LList[T], error) {
	var (
		heads  []T
		leaves []func()
	)
	defer func() {
		for _, leave := range leaves {
			leave()
		}
	}()
	for c := l.cell; c != nil; {
		head, err := ReifyValue(r, c.head)
		if err != nil {
			return l, err
		}
		heads = append(heads, head)
		next, leave, err := enter(r, c.tail)
		if err != nil {
			return l, err
		}
		leaves = append(leaves, leave)
		c = next.cell
	}
	out := LList[T]{}
	for i := len(heads) - 1; i >= 0; i-- {
		out = LList[T]{cell: &consCell[T]{head: Bound(heads[i]), tail: Bound(out)}}
	}
	return out, nil
}

// All iterates over the bound heads of a reified list, stopping at the first
// unbound head or tail.
func (l LList[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for c := l.cell; c != nil; {
			h, ok := c.head.Get()
			if !ok || !yield(h) {
				return
			}
			t, ok := c.tail.Get()
			if !ok {
				return
			}
			c = t.cell
		}
	}
}

// Items returns the elements of a reified list.
func (l LList[T]) Items() []T {
	var out []T
	for t := range l.All() {
		out = append(out, t)
	}
	return out
}

func (l LList[T]) String() string {
	var b strings.Builder
	b.WriteString("(")
	for c, first := l.cell, true; c != nil; first = false {
		if !first {
			b.WriteString(" ")
		}
		b.WriteString(c.head.String())
		t, ok := c.tail.Get()
		if !ok {
			fmt.Fprintf(&b, " . %s", c.tail)
			break
		}
		c = t.cell
	}
	b.WriteString(")")
	return b.String()
}

// DictEntry is one key/value pair of a Dict.
type DictEntry[K, V any] struct {
	Key Value[K]
	Val Value[V]
}

// Dict is an associative collection whose keys and values may be unbound.
// Two dicts unify when they have the same number of entries and every left
// entry can be matched with a right entry. A left key that resolves to a key
// present on the right unifies the two values directly. Any other left entry
// could match any right entry, so a fork is queued that tries each right
// entry in order; a wrong guess fails later in its own branch.
type Dict[K, V any] []DictEntry[K, V]

// Entry builds a dict entry.
func Entry[K, V any](k Value[K], v Value[V]) DictEntry[K, V] {
	return DictEntry[K, V]{Key: k, Val: v}
}

// DictOf builds a bound dict value.
func DictOf[K, V any](entries ...DictEntry[K, V]) Value[Dict[K, V]] {
	return Bound(Dict[K, V](entries))
}

// UnifyWith implements Unifier.
func (d Dict[K, V]) UnifyWith(s State, o Dict[K, V]) (State, bool) {
	if len(d) != len(o) {
		return s, false
	}
	for _, left := range d {
		if right, found := o.lookup(s, left.Key); found {
			var ok bool
			if s, ok = UnifyValues(s, left.Val, right.Val); !ok {
				return s, false
			}
			continue
		}
		s, _ = s.Fork(dictEntryFork[K, V]{left: left, right: o})
	}
	return s, true
}

// lookup finds the right entry whose resolved key equals the resolved key k.
func (d Dict[K, V]) lookup(s State, k Value[K]) (DictEntry[K, V], bool) {
	key, ok := Resolve(s, k).Get()
	if !ok {
		return DictEntry[K, V]{}, false
	}
	for _, e := range d {
		if rk, ok := Resolve(s, e.Key).Get(); ok && payloadEqual(key, rk) {
			return e, true
		}
	}
	return DictEntry[K, V]{}, false
}

// ReifyWith implements Reifiable.
func (d Dict[K, V]) ReifyWith(r *Reifier) (Dict[K, V], error) {
	out := make(Dict[K, V], len(d))
	for i, e := range d {
		k, err := ReifyValue(r, e.Key)
		if err != nil {
			return d, err
		}
		v, err := ReifyValue(r, e.Val)
		if err != nil {
			return d, err
		}
		out[i] = DictEntry[K, V]{Key: Bound(k), Val: Bound(v)}
	}
	return out, nil
}

// DictToMap converts a reified dict to a Go map.
func DictToMap[K comparable, V any](d Dict[K, V]) map[K]V {
	m := make(map[K]V, len(d))
	for _, e := range d {
		k, _ := e.Key.Get()
		m[k], _ = e.Val.Get()
	}
	return m
}

// dictEntryFork tries one left entry against each right entry in turn.
type dictEntryFork[K, V any] struct {
	left  DictEntry[K, V]
	right Dict[K, V]
}

func (f dictEntryFork[K, V]) Expand(s State) iter.Seq[State] {
	return func(yield func(State) bool) {
		for _, e := range f.right {
			next, ok := UnifyValues(s, f.left.Key, e.Key)
			if !ok {
				continue
			}
			if next, ok = UnifyValues(next, f.left.Val, e.Val); ok && !yield(next) {
				return
			}
		}
	}
}
