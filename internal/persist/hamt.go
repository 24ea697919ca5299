// Package persist provides the immutable, structurally shared collections
// that back the search state: a hash array mapped trie keyed by uint64 and a
// FIFO queue. Every update returns a new version and leaves all earlier
// versions intact, so any number of search branches may hold and extend the
// same ancestor concurrently without copying or locking.
package persist

import (
	"encoding/binary"
	"iter"
	"math/bits"
	"slices"

	"github.com/cespare/xxhash/v2"
)

const (
	bitsPerLevel = 5
	levelMask    = 1<<bitsPerLevel - 1
	hashBits     = 64
)

// Map is a persistent map from uint64 keys to values of type V.
// The zero value is an empty map ready to use.
type Map[V any] struct {
	root *node[V]
	size int
}

// node is one level of the trie. Once the 64 hash bits are exhausted the
// node stops branching and keeps colliding keys in leaves.
type node[V any] struct {
	bitmap uint32
	slots  []slot[V]
	leaves []*leaf[V]
}

// slot holds exactly one of leaf or child.
type slot[V any] struct {
	leaf  *leaf[V]
	child *node[V]
}

type leaf[V any] struct {
	key  uint64
	hash uint64
	val  V
}

func hashKey(key uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], key)
	return xxhash.Sum64(b[:])
}

// Len returns the number of entries.
func (m Map[V]) Len() int {
	return m.size
}

// Get returns the value stored under key.
func (m Map[V]) Get(key uint64) (V, bool) {
	var zero V
	n := m.root
	if n == nil {
		return zero, false
	}
	h := hashKey(key)
	for shift := uint(0); ; shift += bitsPerLevel {
		if shift >= hashBits {
			for _, l := range n.leaves {
				if l.key == key {
					return l.val, true
				}
			}
			return zero, false
		}
		bit := uint32(1) << ((h >> shift) & levelMask)
		if n.bitmap&bit == 0 {
			return zero, false
		}
		s := n.slots[bits.OnesCount32(n.bitmap&(bit-1))]
		if s.leaf != nil {
			if s.leaf.key == key {
				return s.leaf.val, true
			}
			return zero, false
		}
		n = s.child
	}
}

// Has reports whether key is present.
func (m Map[V]) Has(key uint64) bool {
	_, ok := m.Get(key)
	return ok
}

// Set returns a map with key bound to val. The receiver is unchanged.
func (m Map[V]) Set(key uint64, val V) Map[V] {
	root := m.root
	if root == nil {
		root = &node[V]{}
	}
	root, added := root.set(&leaf[V]{key: key, hash: hashKey(key), val: val}, 0)
	size := m.size
	if added {
		size++
	}
	return Map[V]{root: root, size: size}
}

// Delete returns a map without key. The receiver is unchanged.
func (m Map[V]) Delete(key uint64) Map[V] {
	if m.root == nil {
		return m
	}
	root, removed := m.root.del(key, hashKey(key), 0)
	if !removed {
		return m
	}
	if root.empty() {
		return Map[V]{}
	}
	return Map[V]{root: root, size: m.size - 1}
}

// All iterates over every entry in trie order, which is stable for a given
// set of keys but otherwise unspecified. Use Keys for a sorted view.
func (m Map[V]) All() iter.Seq2[uint64, V] {
	return func(yield func(uint64, V) bool) {
		if m.root != nil {
			m.root.each(yield)
		}
	}
}

// Keys returns all keys in ascending order.
func (m Map[V]) Keys() []uint64 {
	keys := make([]uint64, 0, m.size)
	for k := range m.All() {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (n *node[V]) empty() bool {
	return n.bitmap == 0 && len(n.leaves) == 0
}

func (n *node[V]) set(l *leaf[V], shift uint) (*node[V], bool) {
	if shift >= hashBits {
		for i, e := range n.leaves {
			if e.key == l.key {
				leaves := slices.Clone(n.leaves)
				leaves[i] = l
				return &node[V]{leaves: leaves}, false
			}
		}
		leaves := make([]*leaf[V], len(n.leaves), len(n.leaves)+1)
		copy(leaves, n.leaves)
		return &node[V]{leaves: append(leaves, l)}, true
	}

	bit := uint32(1) << ((l.hash >> shift) & levelMask)
	pos := bits.OnesCount32(n.bitmap & (bit - 1))
	if n.bitmap&bit == 0 {
		return &node[V]{bitmap: n.bitmap | bit, slots: slices.Insert(slices.Clone(n.slots), pos, slot[V]{leaf: l})}, true
	}

	var (
		cur   = n.slots[pos]
		next  slot[V]
		added bool
	)
	switch {
	case cur.leaf != nil && cur.leaf.key == l.key:
		next = slot[V]{leaf: l}
	case cur.leaf != nil:
		child, _ := (&node[V]{}).set(cur.leaf, shift+bitsPerLevel)
		child, _ = child.set(l, shift+bitsPerLevel)
		next, added = slot[V]{child: child}, true
	default:
		var child *node[V]
		child, added = cur.child.set(l, shift+bitsPerLevel)
		next = slot[V]{child: child}
	}
	slots := slices.Clone(n.slots)
	slots[pos] = next
	return &node[V]{bitmap: n.bitmap, slots: slots}, added
}

func (n *node[V]) del(key, hash uint64, shift uint) (*node[V], bool) {
	if shift >= hashBits {
		i := slices.IndexFunc(n.leaves, func(l *leaf[V]) bool { return l.key == key })
		if i < 0 {
			return n, false
		}
		return &node[V]{leaves: slices.Delete(slices.Clone(n.leaves), i, i+1)}, true
	}

	bit := uint32(1) << ((hash >> shift) & levelMask)
	if n.bitmap&bit == 0 {
		return n, false
	}
	pos := bits.OnesCount32(n.bitmap & (bit - 1))
	cur := n.slots[pos]
	if cur.leaf != nil {
		if cur.leaf.key != key {
			return n, false
		}
		return n.without(pos, bit), true
	}

	child, removed := cur.child.del(key, hash, shift+bitsPerLevel)
	if !removed {
		return n, false
	}
	if child.empty() {
		return n.without(pos, bit), true
	}
	slots := slices.Clone(n.slots)
	if l := child.sole(); l != nil {
		slots[pos] = slot[V]{leaf: l}
	} else {
		slots[pos] = slot[V]{child: child}
	}
	return &node[V]{bitmap: n.bitmap, slots: slots}, true
}

func (n *node[V]) without(pos int, bit uint32) *node[V] {
	return &node[V]{bitmap: n.bitmap &^ bit, slots: slices.Delete(slices.Clone(n.slots), pos, pos+1)}
}

// sole returns the only leaf of a node that holds a single entry and no
// children, so deletions can collapse a path back into its parent.
func (n *node[V]) sole() *leaf[V] {
	if len(n.leaves) == 1 && n.bitmap == 0 {
		return n.leaves[0]
	}
	if len(n.slots) == 1 && n.slots[0].leaf != nil {
		return n.slots[0].leaf
	}
	return nil
}

func (n *node[V]) each(yield func(uint64, V) bool) bool {
	for _, l := range n.leaves {
		if !yield(l.key, l.val) {
			return false
		}
	}
	for _, s := range n.slots {
		if s.leaf != nil {
			if !yield(s.leaf.key, s.leaf.val) {
				return false
			}
			continue
		}
		if !s.child.each(yield) {
			return false
		}
	}
	return true
}
