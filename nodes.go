package bptree

import "cmp"

// nodeID addresses a node within the arena of a tree.
type nodeID int32

// noNode is the null link.
const noNode nodeID = -1

// node is either a leaf or an internal node.
//
// Internal nodes use keys and children, with len(children) == len(keys)+1 and
// keys[i] separating children[i] and children[i+1]. Leaves use keys and values
// in parallel and take part in the leaf chain through left and right.
//
// Slices are allocated once with room for one transient overflow entry and are
// never grown beyond that capacity.
type node[K cmp.Ordered, V any] struct {
	leaf     bool
	parent   nodeID
	keys     []K
	children []nodeID // internal nodes only
	values   []V      // leaves only
	left     nodeID   // leaves only
	right    nodeID   // leaves only
}

func (n *node[K, V]) count() int {
	return len(n.keys)
}

// arena owns all nodes of a tree. Freed slots are recycled.
type arena[K cmp.Ordered, V any] struct {
	nodes []*node[K, V]
	free  []nodeID
	live  int
}

// alloc creates a node with storage for maxKeys+1 keys.
func (a *arena[K, V]) alloc(leaf bool, maxKeys int) nodeID {
	n := &node[K, V]{
		leaf:   leaf,
		parent: noNode,
		left:   noNode,
		right:  noNode,
		keys:   make([]K, 0, maxKeys+1),
	}
	if leaf {
		n.values = make([]V, 0, maxKeys+1)
	} else {
		n.children = make([]nodeID, 0, maxKeys+2)
	}
	a.live++
	if k := len(a.free); k > 0 {
		id := a.free[k-1]
		a.free = a.free[:k-1]
		a.nodes[id] = n
		return id
	}
	a.nodes = append(a.nodes, n)
	return nodeID(len(a.nodes) - 1)
}

func (a *arena[K, V]) get(id nodeID) *node[K, V] {
	assert(id >= 0 && int(id) < len(a.nodes), "arena access out of range")
	n := a.nodes[id]
	assert(n != nil, "arena access to released node")
	return n
}

// release drops a node which has been fully absorbed by a sibling.
func (a *arena[K, V]) release(id nodeID) {
	assert(a.nodes[id] != nil, "double release of arena node")
	a.nodes[id] = nil
	a.free = append(a.free, id)
	a.live--
}

// insertAt inserts value into s at idx, shifting the tail right. s must have
// spare capacity.
func insertAt[T any](s []T, idx int, value T) []T {
	assert(idx >= 0 && idx <= len(s), "insertAt index out of range")
	assert(len(s) < cap(s), "insertAt exceeds node capacity")
	s = s[:len(s)+1]
	copy(s[idx+1:], s[idx:])
	s[idx] = value
	return s
}

// removeAt removes the element at idx, shifting the tail left.
func removeAt[T any](s []T, idx int) []T {
	assert(idx >= 0 && idx < len(s), "removeAt index out of range")
	copy(s[idx:], s[idx+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1]
}

// truncate shortens s to n elements and zeroes the cut-off tail.
func truncate[T any](s []T, n int) []T {
	assert(n >= 0 && n <= len(s), "truncate length out of range")
	clear(s[n:])
	return s[:n]
}
