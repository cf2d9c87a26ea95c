package bptree

import (
	"cmp"
	"fmt"
)

// Check validates structural tree invariants:
//
//   - keys of every node are strictly ascending,
//   - every non-root node holds between MinKeys and MaxKeys keys,
//   - internal nodes have one child more than keys and every child links back
//     to its parent,
//   - keys below separator keys[i] are < keys[i], keys right of it are >= keys[i],
//   - all leaves are at the same depth,
//   - the leaf chain is acyclic, doubly consistent and strictly ascending, and
//     visits exactly the leaves of the tree in order,
//   - the cached head is the leftmost non-empty leaf and Len is accurate,
//   - the arena holds no released-but-referenced or leaked nodes.
//
// Check is intended for tests and debugging; it visits every node.
func (t *Tree[K, V]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrCorruptTree)
	}
	if !t.valid(t.root) {
		return fmt.Errorf("%w: root %d is not a live node", ErrCorruptTree, t.root)
	}
	if p := t.node(t.root).parent; p != noNode {
		return fmt.Errorf("%w: root has parent %d", ErrCorruptTree, p)
	}
	st := checkState{leafDepth: -1}
	if err := t.checkNode(t.root, keyBounds[K]{}, 0, &st); err != nil {
		return err
	}
	if st.nodes != t.nodes.live {
		return fmt.Errorf("%w: %d reachable nodes, arena holds %d", ErrCorruptTree, st.nodes, t.nodes.live)
	}
	if st.entries != t.size {
		return fmt.Errorf("%w: size mismatch (%d != %d)", ErrCorruptTree, st.entries, t.size)
	}
	if err := t.checkChain(st.leaves); err != nil {
		return err
	}
	wantHead := noNode
	if st.entries > 0 {
		wantHead = st.leaves[0]
	}
	if t.head != wantHead {
		return fmt.Errorf("%w: head is %d, leftmost leaf is %d", ErrCorruptTree, t.head, wantHead)
	}
	return nil
}

type checkState struct {
	leaves    []nodeID
	leafDepth int
	nodes     int
	entries   int
}

// keyBounds is the half-open key interval [lo, hi) a subtree must respect.
type keyBounds[K cmp.Ordered] struct {
	lo, hi       K
	hasLo, hasHi bool
}

func (b keyBounds[K]) contains(k K) bool {
	if b.hasLo && cmp.Less(k, b.lo) {
		return false
	}
	if b.hasHi && !cmp.Less(k, b.hi) {
		return false
	}
	return true
}

func (t *Tree[K, V]) valid(id nodeID) bool {
	return id >= 0 && int(id) < len(t.nodes.nodes) && t.nodes.nodes[id] != nil
}

func (t *Tree[K, V]) checkNode(id nodeID, b keyBounds[K], depth int, st *checkState) error {
	n := t.node(id)
	st.nodes++
	isRoot := id == t.root
	if n.count() > t.maxKeys {
		return fmt.Errorf("%w: node %d holds %d keys, max is %d", ErrCorruptTree, id, n.count(), t.maxKeys)
	}
	if !isRoot && n.count() < t.minKeys {
		return fmt.Errorf("%w: node %d holds %d keys, min is %d", ErrCorruptTree, id, n.count(), t.minKeys)
	}
	for i, k := range n.keys {
		if i > 0 && !cmp.Less(n.keys[i-1], k) {
			return fmt.Errorf("%w: keys of node %d not strictly ascending at %d", ErrCorruptTree, id, i)
		}
		if !b.contains(k) {
			return fmt.Errorf("%w: key %v of node %d outside separator range", ErrCorruptTree, k, id)
		}
	}
	if n.leaf {
		if len(n.values) != n.count() {
			return fmt.Errorf("%w: leaf %d has %d keys but %d values", ErrCorruptTree, id, n.count(), len(n.values))
		}
		if st.leafDepth < 0 {
			st.leafDepth = depth
		} else if st.leafDepth != depth {
			return fmt.Errorf("%w: leaf %d at depth %d, expected %d", ErrCorruptTree, id, depth, st.leafDepth)
		}
		st.leaves = append(st.leaves, id)
		st.entries += n.count()
		return nil
	}
	if n.count() == 0 {
		return fmt.Errorf("%w: internal node %d has no keys", ErrCorruptTree, id)
	}
	if len(n.children) != n.count()+1 {
		return fmt.Errorf("%w: internal node %d has %d keys but %d children",
			ErrCorruptTree, id, n.count(), len(n.children))
	}
	for i, child := range n.children {
		if !t.valid(child) {
			return fmt.Errorf("%w: child %d of node %d is not a live node", ErrCorruptTree, child, id)
		}
		if p := t.node(child).parent; p != id {
			return fmt.Errorf("%w: child %d of node %d links to parent %d", ErrCorruptTree, child, id, p)
		}
		cb := b
		if i > 0 {
			cb.lo, cb.hasLo = n.keys[i-1], true
		}
		if i < n.count() {
			cb.hi, cb.hasHi = n.keys[i], true
		}
		if err := t.checkNode(child, cb, depth+1, st); err != nil {
			return err
		}
	}
	return nil
}

// checkChain verifies that the sibling links connect leaves exactly in tree order.
func (t *Tree[K, V]) checkChain(leaves []nodeID) error {
	for i, id := range leaves {
		n := t.node(id)
		wantLeft, wantRight := noNode, noNode
		if i > 0 {
			wantLeft = leaves[i-1]
		}
		if i+1 < len(leaves) {
			wantRight = leaves[i+1]
		}
		if n.left != wantLeft || n.right != wantRight {
			return fmt.Errorf("%w: leaf %d linked to (%d, %d), expected (%d, %d)",
				ErrCorruptTree, id, n.left, n.right, wantLeft, wantRight)
		}
		if wantRight != noNode {
			r := t.node(wantRight)
			if n.count() > 0 && r.count() > 0 && !cmp.Less(n.keys[n.count()-1], r.keys[0]) {
				return fmt.Errorf("%w: leaf chain not ascending between %d and %d", ErrCorruptTree, id, wantRight)
			}
		}
	}
	return nil
}
