// Package ordering holds the drag-and-drop state behind sequencing and matching
// exercises: a fixed item collection split into an unplaced Pool and an ordered
// Placement.
//
// Every mutating method reports whether it took effect. A false result is the
// normal outcome of a stale or duplicate UI event (an id dropped after its source
// element was already moved) and callers are expected to ignore it.
//
// An Engine is owned by a single exercise instance and is not safe for concurrent use.
package ordering

import "encoding/json"

// Item is an orderable record. Identity is ID; Payload is opaque to the engine.
type Item struct {
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Option func(*Engine)

// WithInitialPlacement places the given ids, in that order, at construction.
// Unknown and repeated ids are skipped.
func WithInitialPlacement(ids []string) Option {
	return func(e *Engine) { e.initial = append([]string(nil), ids...) }
}

// WithOnOrderChange registers the callback that receives the placed id list after
// every effective mutation.
func WithOnOrderChange(fn func(ids []string)) Option {
	return func(e *Engine) { e.onChange = fn }
}

type Engine struct {
	items    []Item
	pool     []Item
	placed   []Item
	initial  []string
	disabled bool
	onChange func(ids []string)
}

// New builds an engine over items. Items repeating an earlier id are dropped so the
// partition stays well defined.
func New(items []Item, opts ...Option) *Engine {
	e := &Engine{}
	for _, o := range opts {
		o(e)
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		e.items = append(e.items, it)
	}
	e.split(e.initial)
	return e
}

func (e *Engine) split(placedIDs []string) {
	byID := make(map[string]Item, len(e.items))
	for _, it := range e.items {
		byID[it.ID] = it
	}
	e.placed = make([]Item, 0, len(e.items))
	taken := make(map[string]struct{}, len(placedIDs))
	for _, id := range placedIDs {
		it, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := taken[id]; dup {
			continue
		}
		taken[id] = struct{}{}
		e.placed = append(e.placed, it)
	}
	e.pool = make([]Item, 0, len(e.items))
	for _, it := range e.items {
		if _, ok := taken[it.ID]; !ok {
			e.pool = append(e.pool, it)
		}
	}
}

// MoveToPlacement moves an item from the Pool into the Placement at index (clamped;
// negative appends). An id that is already placed is reordered instead, never
// duplicated.
func (e *Engine) MoveToPlacement(id string, index int) bool {
	if e.disabled {
		return false
	}
	if indexOf(e.placed, id) >= 0 {
		return e.ReorderWithinPlacement(id, index)
	}
	i := indexOf(e.pool, id)
	if i < 0 {
		return false
	}
	it := e.pool[i]
	e.pool = removeAt(e.pool, i)
	e.placed = insertAt(e.placed, clamp(index, len(e.placed)), it)
	e.emit()
	return true
}

// AppendToPlacement is MoveToPlacement at the end of the Placement.
func (e *Engine) AppendToPlacement(id string) bool {
	return e.MoveToPlacement(id, -1)
}

// MoveToPool takes an item out of the Placement and appends it to the Pool.
func (e *Engine) MoveToPool(id string) bool {
	if e.disabled {
		return false
	}
	i := indexOf(e.placed, id)
	if i < 0 {
		return false
	}
	it := e.placed[i]
	e.placed = removeAt(e.placed, i)
	e.pool = append(e.pool, it)
	e.emit()
	return true
}

// RemoveFromPlacement is an alias for MoveToPool.
func (e *Engine) RemoveFromPlacement(id string) bool {
	return e.MoveToPool(id)
}

// ReorderWithinPlacement is an array move: the item is removed first and index is
// read against the shortened list, so index means "before what is now at index".
// Moving an item onto its own position has no effect.
func (e *Engine) ReorderWithinPlacement(id string, index int) bool {
	if e.disabled {
		return false
	}
	i := indexOf(e.placed, id)
	if i < 0 {
		return false
	}
	it := e.placed[i]
	rest := removeAt(e.placed, i)
	j := clamp(index, len(rest))
	e.placed = insertAt(rest, j, it)
	if j == i {
		return false
	}
	e.emit()
	return true
}

// Reset returns every item to the Pool in original order and empties the Placement.
func (e *Engine) Reset() bool {
	if e.disabled {
		return false
	}
	e.split(nil)
	e.emit()
	return true
}

// SetDisabled freezes (or thaws) the engine. A disabled engine is read-only.
func (e *Engine) SetDisabled(v bool) { e.disabled = v }

func (e *Engine) Disabled() bool { return e.disabled }

// Complete reports whether every item has been placed.
func (e *Engine) Complete() bool { return len(e.pool) == 0 }

func (e *Engine) Len() int { return len(e.items) }

func (e *Engine) Pool() []Item      { return append([]Item(nil), e.pool...) }
func (e *Engine) Placement() []Item { return append([]Item(nil), e.placed...) }
func (e *Engine) Items() []Item     { return append([]Item(nil), e.items...) }

func (e *Engine) PlacementIDs() []string { return ids(e.placed) }
func (e *Engine) PoolIDs() []string      { return ids(e.pool) }

func (e *Engine) emit() {
	if e.onChange != nil {
		e.onChange(ids(e.placed))
	}
}

// helpers

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func clamp(index, n int) int {
	if index < 0 || index > n {
		return n
	}
	return index
}

func removeAt(items []Item, i int) []Item {
	out := make([]Item, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func insertAt(items []Item, i int, it Item) []Item {
	out := make([]Item, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, it)
	return append(out, items[i:]...)
}
