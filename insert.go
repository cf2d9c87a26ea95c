package bptree

// insert descends to the leaf covering key and inserts there. It returns the
// new root if a split propagated up to the root, noNode otherwise.
func (t *Tree[K, V]) insert(id nodeID, key K, value V) nodeID {
	n := t.node(id)
	if !n.leaf {
		return t.insert(n.children[t.route(n, key)], key, value)
	}
	return t.insertIntoLeaf(id, key, value)
}

func (t *Tree[K, V]) insertIntoLeaf(id nodeID, key K, value V) nodeID {
	n := t.node(id)
	i, found := searchKeys(n.keys, key)
	if found {
		n.values[i] = value
		return noNode
	}
	n.keys = insertAt(n.keys, i, key)
	n.values = insertAt(n.values, i, value)
	t.size++
	if n.count() <= t.maxKeys {
		return noNode
	}
	return t.splitLeaf(id)
}

// splitLeaf divides an overflowing leaf. The upper half moves to a new right
// sibling, which is spliced into the leaf chain directly after the old leaf.
// The first key of the new sibling becomes the separator in the parent.
func (t *Tree[K, V]) splitLeaf(id nodeID) nodeID {
	var before [][]K
	if t.observing() {
		before = t.snapshot(id)
	}
	rid := t.nodes.alloc(true, t.maxKeys)
	n, r := t.node(id), t.node(rid)
	mid := n.count() / 2
	r.keys = append(r.keys, n.keys[mid:]...)
	r.values = append(r.values, n.values[mid:]...)
	n.keys = truncate(n.keys, mid)
	n.values = truncate(n.values, mid)
	// leaf chain: n <-> r <-> old n.right
	r.left, r.right = id, n.right
	if n.right != noNode {
		t.node(n.right).left = rid
	}
	n.right = rid
	if t.observing() {
		t.notify(EventSplit, true, before, t.snapshot(id, rid))
	} else {
		t.notify(EventSplit, true, nil, nil)
	}
	return t.attachSibling(id, rid, r.keys[0])
}

// splitInternal divides an overflowing internal node. The left node keeps
// minKeys keys, the key following them moves up as separator and the rest
// moves to a new right sibling, together with its children.
func (t *Tree[K, V]) splitInternal(id nodeID) nodeID {
	var before [][]K
	if t.observing() {
		before = t.snapshot(id)
	}
	rid := t.nodes.alloc(false, t.maxKeys)
	n, r := t.node(id), t.node(rid)
	m := t.minKeys
	up := n.keys[m]
	r.keys = append(r.keys, n.keys[m+1:]...)
	r.children = append(r.children, n.children[m+1:]...)
	for _, child := range r.children {
		t.node(child).parent = rid
	}
	n.keys = truncate(n.keys, m)
	n.children = truncate(n.children, m+1)
	if t.observing() {
		t.notify(EventSplit, false, before, t.snapshot(id, rid))
	} else {
		t.notify(EventSplit, false, nil, nil)
	}
	return t.attachSibling(id, rid, up)
}

// attachSibling links the new right sibling rid of node id into the parent of
// id, separated by sep. If id is the root, a new root is created first.
func (t *Tree[K, V]) attachSibling(id, rid nodeID, sep K) nodeID {
	n := t.node(id)
	if n.parent == noNode {
		pid := t.nodes.alloc(false, t.maxKeys)
		n.parent = pid
		t.node(rid).parent = pid
		newRoot := t.insertNode(pid, id, rid, sep)
		if t.observing() {
			t.notify(EventNewRoot, false, nil, t.snapshot(pid))
		} else {
			t.notify(EventNewRoot, false, nil, nil)
		}
		return newRoot
	}
	t.node(rid).parent = n.parent
	return t.insertNode(n.parent, id, rid, sep)
}

// insertNode absorbs a split of child a into internal node pid: b is the new
// right sibling of a, separated from it by sep. An empty pid is initialized
// with a and b as its only children. If pid overflows, it is split in turn.
//
// insertNode returns the new root if one has been created, noNode otherwise.
func (t *Tree[K, V]) insertNode(pid, a, b nodeID, sep K) nodeID {
	p := t.node(pid)
	if len(p.children) == 0 {
		p.keys = append(p.keys, sep)
		p.children = append(p.children, a, b)
		return pid
	}
	i := t.childIndex(p, a)
	p.keys = insertAt(p.keys, i, sep)
	p.children = insertAt(p.children, i+1, b)
	if p.count() <= t.maxKeys {
		return noNode
	}
	return t.splitInternal(pid)
}

// childIndex returns the slot of child in internal node p.
func (t *Tree[K, V]) childIndex(p *node[K, V], child nodeID) int {
	for i, c := range p.children {
		if c == child {
			return i
		}
	}
	panic("bptree: child not linked to its parent")
}
