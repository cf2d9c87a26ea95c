package bptree

// EventKind classifies a structural transition of a tree.
type EventKind int

const (
	// EventSplit: an overflowing node has been divided into two siblings.
	EventSplit EventKind = iota
	// EventNewRoot: a split reached the root and a new root has been created above it.
	EventNewRoot
	// EventMerge: an underflowing node and a sibling have been merged into one node.
	EventMerge
	// EventRedistribute: one entry has moved across a sibling boundary.
	EventRedistribute
	// EventCollapse: the root was left with a single child, which became the new root.
	EventCollapse
	// EventNotFound: a search or delete did not find its key.
	EventNotFound
)

var eventKindNames = [...]string{"split", "new-root", "merge", "redistribute", "collapse", "not-found"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Op is the tree operation during which an event occurred.
type Op int

const (
	OpSearch Op = iota
	OpInsert
	OpDelete
)

func (op Op) String() string {
	switch op {
	case OpSearch:
		return "search"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Event describes a structural transition.
//
// Before and After hold the keys of the affected nodes, one slice per node,
// left to right. For a split, Before holds the overflowing node and After the
// two halves; for a merge it is the other way round. Key is the key of the
// operation in progress.
type Event[K any] struct {
	Kind   EventKind
	Op     Op
	Key    K
	Leaf   bool // affected nodes are leaves
	Before [][]K
	After  [][]K
}

// Observer receives structural events from a tree. Observe is called
// synchronously from within the mutating operation and must not call back
// into the tree.
type Observer[K any] interface {
	Observe(Event[K])
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc[K any] func(Event[K])

// Observe calls f(e).
func (f ObserverFunc[K]) Observe(e Event[K]) {
	f(e)
}

func (t *Tree[K, V]) observing() bool {
	return t.cfg.Observer != nil
}

// snapshot copies the keys of nodes for an event record. It must only be
// called if the tree is observed.
func (t *Tree[K, V]) snapshot(ids ...nodeID) [][]K {
	groups := make([][]K, 0, len(ids))
	for _, id := range ids {
		n := t.node(id)
		groups = append(groups, append([]K(nil), n.keys...))
	}
	return groups
}

// notify reports an event of the mutation in progress.
func (t *Tree[K, V]) notify(kind EventKind, leaf bool, before, after [][]K) {
	t.emit(t.op, t.opKey, kind, leaf, before, after)
}

// emit reports an event for operation op on key. It does not touch tree state
// and is safe to call from read-only operations.
func (t *Tree[K, V]) emit(op Op, key K, kind EventKind, leaf bool, before, after [][]K) {
	tracer().Debugf("bptree: %s %s key=%v", op, kind, key)
	if !t.observing() {
		return
	}
	t.cfg.Observer.Observe(Event[K]{
		Kind:   kind,
		Op:     op,
		Key:    key,
		Leaf:   leaf,
		Before: before,
		After:  after,
	})
}
