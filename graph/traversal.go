package graph

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Traversal implements a breadth-first work-list traversal over a universe
// of canonical string keys (typically the structhash of a frozen item set).
// Consumers Intern() a key to either register a brand-new node (appended to
// the work list) or retrieve the id of a node seen before; Execute() then
// visits every node exactly once, in id order, and may itself Intern()
// further nodes that get appended to (and processed by) the same run.
//
// Per entry the ledger keeps the earliest predecessor id and a "breadcrumb"
// symbol: the grammar/alphabet symbol whose shift/goto first caused this
// entry to be created. Chasing predecessors back to a root yields the
// shortest symbol path to any node, used for diagnostics.
type Traversal struct {
	ledger     *linkedhashmap.Map // canonical key -> id, insertion order preserved
	keys       []string
	payload    []interface{}
	pred       []int
	breadcrumb []string
	queue      []int
}

// NewTraversal creates an empty traversal ledger.
func NewTraversal() *Traversal {
	return &Traversal{ledger: linkedhashmap.New()}
}

// Intern registers key if it has not been seen before, associating payload,
// the id of the discovering predecessor (-1 for a root) and the breadcrumb
// symbol. It returns the (possibly pre-existing) id and whether this call
// created a new entry.
func (t *Traversal) Intern(key string, payload interface{}, pred int, breadcrumb string) (id int, fresh bool) {
	if v, ok := t.ledger.Get(key); ok {
		return v.(int), false
	}
	id = len(t.keys)
	t.ledger.Put(key, id)
	t.keys = append(t.keys, key)
	t.payload = append(t.payload, payload)
	t.pred = append(t.pred, pred)
	t.breadcrumb = append(t.breadcrumb, breadcrumb)
	t.queue = append(t.queue, id)
	return id, true
}

// Lookup returns the id for an already-interned key.
func (t *Traversal) Lookup(key string) (id int, ok bool) {
	v, ok := t.ledger.Get(key)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// Execute iterates the work list in id order, calling visit exactly once
// per entry. visit may Intern further keys; those are appended to the
// work list and will be visited later in this same call.
func (t *Traversal) Execute(visit func(id int, key string, payload interface{})) {
	for i := 0; i < len(t.queue); i++ {
		id := t.queue[i]
		visit(id, t.keys[id], t.payload[id])
	}
}

// Len returns the number of interned nodes.
func (t *Traversal) Len() int { return len(t.keys) }

// Key returns the canonical key for id.
func (t *Traversal) Key(id int) string { return t.keys[id] }

// Payload returns the payload associated with id.
func (t *Traversal) Payload(id int) interface{} { return t.payload[id] }

// SetPayload replaces the payload for an already-interned id (used when the
// caller needs to patch up a node after creating it, e.g. to record
// whether it is an accepting state).
func (t *Traversal) SetPayload(id int, payload interface{}) { t.payload[id] = payload }

// Predecessor returns the id of the earliest predecessor of id, or -1 for
// a root node.
func (t *Traversal) Predecessor(id int) int { return t.pred[id] }

// Breadcrumb returns the symbol whose shift/goto first created id.
func (t *Traversal) Breadcrumb(id int) string { return t.breadcrumb[id] }

// BreadcrumbPath returns the shortest symbol path from a root to id, by
// walking predecessor links backwards.
func (t *Traversal) BreadcrumbPath(id int) []string {
	var path []string
	for id >= 0 && t.pred[id] != -1 {
		path = append([]string{t.breadcrumb[id]}, path...)
		id = t.pred[id]
	}
	return path
}
