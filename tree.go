package bptree

import (
	"cmp"
	"sort"
)

// Tree is a sparse B+ tree mapping keys of type K to values of type V.
//
// Each key is stored at most once; inserting a present key replaces its value.
// The zero Tree is not usable, create trees with New or NewWithOrder.
type Tree[K cmp.Ordered, V any] struct {
	cfg     Config[K]
	minKeys int
	maxKeys int
	nodes   arena[K, V]
	root    nodeID
	head    nodeID // leftmost leaf holding entries, noNode for an empty tree
	size    int
	op      Op // mutation in progress, for event records
	opKey   K
}

// New creates an empty tree with validated configuration. The tree starts out
// as a single empty leaf.
func New[K cmp.Ordered, V any](cfg Config[K]) (*Tree[K, V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	t := &Tree[K, V]{
		cfg:     cfg,
		minKeys: cfg.minKeys(),
		maxKeys: cfg.maxKeys(),
		head:    noNode,
	}
	t.root = t.nodes.alloc(true, t.maxKeys)
	return t, nil
}

// NewWithOrder creates an empty tree with a given branching factor and no observer.
func NewWithOrder[K cmp.Ordered, V any](order int) (*Tree[K, V], error) {
	return New[K, V](Config[K]{Order: order})
}

// Config returns a copy of the effective tree configuration.
func (t *Tree[K, V]) Config() Config[K] {
	return t.cfg
}

// Order returns the branching factor.
func (t *Tree[K, V]) Order() int { return t.cfg.Order }

// MinKeys returns the minimum number of keys of a non-root node.
func (t *Tree[K, V]) MinKeys() int { return t.minKeys }

// MaxKeys returns the maximum number of keys of a node.
func (t *Tree[K, V]) MaxKeys() int { return t.maxKeys }

// Len returns the number of entries in the tree.
func (t *Tree[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// IsEmpty reports whether the tree has no entries.
func (t *Tree[K, V]) IsEmpty() bool {
	return t.Len() == 0
}

// Height returns the number of levels, where 1 means the root is a leaf.
func (t *Tree[K, V]) Height() int {
	h := 1
	for n := t.node(t.root); !n.leaf; n = t.node(n.children[0]) {
		h++
	}
	return h
}

func (t *Tree[K, V]) node(id nodeID) *node[K, V] {
	return t.nodes.get(id)
}

// --- Search ----------------------------------------------------------------

// route selects the child of internal node n which covers key, i.e., the
// child i with keys[i-1] <= key < keys[i].
func (t *Tree[K, V]) route(n *node[K, V], key K) int {
	return sort.Search(len(n.keys), func(i int) bool {
		return cmp.Less(key, n.keys[i])
	})
}

// findLeaf descends from the root to the unique leaf which could contain key.
func (t *Tree[K, V]) findLeaf(key K) nodeID {
	id := t.root
	for n := t.node(id); !n.leaf; n = t.node(id) {
		id = n.children[t.route(n, key)]
	}
	return id
}

// Search returns the value stored for key. The second return value reports
// whether key is present.
func (t *Tree[K, V]) Search(key K) (V, bool) {
	leaf := t.node(t.findLeaf(key))
	if i, found := searchKeys(leaf.keys, key); found {
		return leaf.values[i], true
	}
	t.emit(OpSearch, key, EventNotFound, true, nil, nil)
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	leaf := t.node(t.findLeaf(key))
	_, found := searchKeys(leaf.keys, key)
	return found
}

// searchKeys finds the position of key in sorted keys, or the position where
// key would be inserted.
func searchKeys[K cmp.Ordered](keys []K, key K) (int, bool) {
	i := sort.Search(len(keys), func(i int) bool {
		return cmp.Compare(keys[i], key) >= 0
	})
	return i, i < len(keys) && cmp.Compare(keys[i], key) == 0
}

// RangeSearch returns the values of all entries with lo <= key <= hi, in
// ascending key order. The scan follows the leaf chain and therefore crosses
// subtree boundaries freely. If lo > hi the result is empty.
func (t *Tree[K, V]) RangeSearch(lo, hi K) []V {
	var values []V
	t.AscendRange(lo, hi, func(_ K, v V) bool {
		values = append(values, v)
		return true
	})
	return values
}

// --- Mutation ----------------------------------------------------------------

// Insert stores value for key. If key is already present, its value is
// replaced and the tree shape does not change.
func (t *Tree[K, V]) Insert(key K, value V) {
	t.op, t.opKey = OpInsert, key
	if newRoot := t.insert(t.root, key, value); newRoot != noNode {
		t.root = newRoot
	}
	t.refreshHead()
}

// Delete removes key from the tree and reports whether it was present.
// Deleting an absent key is a no-op.
func (t *Tree[K, V]) Delete(key K) bool {
	t.op, t.opKey = OpDelete, key
	newRoot, found := t.delete(t.root, key)
	if newRoot != noNode {
		t.root = newRoot
	}
	t.refreshHead()
	return found
}

// refreshHead recomputes the cached head of the leaf chain by following the
// leftmost child pointers from the root.
func (t *Tree[K, V]) refreshHead() {
	t.head = t.leftmostLeaf(t.root)
}

// leftmostLeaf returns the leftmost leaf below id if it holds entries, noNode
// otherwise.
func (t *Tree[K, V]) leftmostLeaf(id nodeID) nodeID {
	n := t.node(id)
	if !n.leaf {
		return t.leftmostLeaf(n.children[0])
	}
	if n.count() == 0 {
		return noNode
	}
	return id
}
