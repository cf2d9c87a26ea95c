package bptree

import (
	"cmp"
	"iter"
)

// Ascend walks all entries in ascending key order along the leaf chain.
//
// Iteration stops early if fn returns false.
func (t *Tree[K, V]) Ascend(fn func(key K, value V) bool) {
	if t == nil || fn == nil {
		return
	}
	t.walkChain(t.head, 0, nil, fn)
}

// AscendRange walks all entries with lo <= key <= hi in ascending key order.
// It descends once to the leaf covering lo and follows the leaf chain from
// there. Iteration stops early if fn returns false.
func (t *Tree[K, V]) AscendRange(lo, hi K, fn func(key K, value V) bool) {
	if t == nil || fn == nil || cmp.Less(hi, lo) {
		return
	}
	id := t.findLeaf(lo)
	i, _ := searchKeys(t.node(id).keys, lo)
	t.walkChain(id, i, &hi, fn)
}

// walkChain calls fn for entries starting at position i of leaf id, moving
// right along the chain until an entry exceeds hi (if hi is set).
func (t *Tree[K, V]) walkChain(id nodeID, i int, hi *K, fn func(K, V) bool) {
	for id != noNode {
		n := t.node(id)
		for ; i < n.count(); i++ {
			if hi != nil && cmp.Less(*hi, n.keys[i]) {
				return
			}
			if !fn(n.keys[i], n.values[i]) {
				return
			}
		}
		id, i = n.right, 0
	}
}

// All returns an iterator over all entries in ascending key order.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t.Ascend(yield)
	}
}

// Keys returns an iterator over all keys in ascending order.
func (t *Tree[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		t.Ascend(func(k K, _ V) bool {
			return yield(k)
		})
	}
}

// Min returns the smallest key and its value. The third return value is false
// for an empty tree.
func (t *Tree[K, V]) Min() (K, V, bool) {
	if t.head == noNode {
		var k K
		var v V
		return k, v, false
	}
	n := t.node(t.head)
	return n.keys[0], n.values[0], true
}

// Max returns the largest key and its value. The third return value is false
// for an empty tree.
func (t *Tree[K, V]) Max() (K, V, bool) {
	n := t.node(t.root)
	for !n.leaf {
		n = t.node(n.children[len(n.children)-1])
	}
	if n.count() == 0 {
		var k K
		var v V
		return k, v, false
	}
	last := n.count() - 1
	return n.keys[last], n.values[last], true
}

// NodeInfo describes a node for read-only inspection of the tree shape.
type NodeInfo[K any] struct {
	Depth int  // 0 for the root
	Leaf  bool // leaf or internal node
	Keys  []K  // keys of the node; must not be modified
}

// Walk visits all nodes level by level, left to right within a level.
//
// Walk stops early if fn returns false.
func (t *Tree[K, V]) Walk(fn func(NodeInfo[K]) bool) {
	if t == nil || fn == nil {
		return
	}
	level := []nodeID{t.root}
	for depth := 0; len(level) > 0; depth++ {
		var next []nodeID
		for _, id := range level {
			n := t.node(id)
			if !fn(NodeInfo[K]{Depth: depth, Leaf: n.leaf, Keys: n.keys}) {
				return
			}
			next = append(next, n.children...)
		}
		level = next
	}
}
