package minikanren

import (
	"slices"
	"sync/atomic"

	"github.com/gitrdm/lazykanren/internal/persist"
)

// watchCounter orders filings. Constraints waiting on the same variable are
// retried in the order they were filed.
var watchCounter atomic.Uint64

type watchEntry struct {
	c    Constraint
	keys []VarID
}

// watchIndex is the persistent registry of pending constraints. A filing is
// reachable from every variable it waits on; taking it through any one of
// them removes it from all of them.
type watchIndex struct {
	byVar   persist.Map[persist.Map[struct{}]]
	entries persist.Map[watchEntry]
}

func (w watchIndex) len() int {
	return w.entries.Len()
}

func (w watchIndex) file(c Constraint, ids []VarID) watchIndex {
	wid := watchCounter.Add(1)
	keys := slices.Clone(ids)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	w.entries = w.entries.Set(wid, watchEntry{c: c, keys: keys})
	for _, k := range keys {
		set, _ := w.byVar.Get(uint64(k))
		w.byVar = w.byVar.Set(uint64(k), set.Set(wid, struct{}{}))
	}
	return w
}

// take removes and returns every constraint waiting on id, in filing order.
func (w watchIndex) take(id VarID) ([]Constraint, watchIndex) {
	set, ok := w.byVar.Get(uint64(id))
	if !ok {
		return nil, w
	}
	w.byVar = w.byVar.Delete(uint64(id))

	wids := set.Keys()
	out := make([]Constraint, 0, len(wids))
	for _, wid := range wids {
		e, ok := w.entries.Get(wid)
		if !ok {
			continue
		}
		out = append(out, e.c)
		w.entries = w.entries.Delete(wid)
		for _, k := range e.keys {
			if k == id {
				continue
			}
			others, _ := w.byVar.Get(uint64(k))
			others = others.Delete(wid)
			if others.Len() == 0 {
				w.byVar = w.byVar.Delete(uint64(k))
			} else {
				w.byVar = w.byVar.Set(uint64(k), others)
			}
		}
	}
	return out, w
}

// watched returns the ids that have constraints waiting on them, ascending.
func (w watchIndex) watched() []VarID {
	keys := w.byVar.Keys()
	ids := make([]VarID, len(keys))
	for i, k := range keys {
		ids[i] = VarID(k)
	}
	return ids
}

// filedSince returns the variables watched by filings present in w but not
// in base.
func (w watchIndex) filedSince(base watchIndex) []VarID {
	var ids []VarID
	for wid, e := range w.entries.All() {
		if !base.entries.Has(wid) {
			ids = append(ids, e.keys...)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
