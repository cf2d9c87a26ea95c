package bptree

// delete descends to the leaf covering key and removes key there. It returns
// the new root if the root has been replaced, noNode otherwise, and whether
// key was present.
func (t *Tree[K, V]) delete(id nodeID, key K) (nodeID, bool) {
	n := t.node(id)
	if !n.leaf {
		return t.delete(n.children[t.route(n, key)], key)
	}
	return t.deleteFromLeaf(id, key)
}

func (t *Tree[K, V]) deleteFromLeaf(id nodeID, key K) (nodeID, bool) {
	n := t.node(id)
	i, found := searchKeys(n.keys, key)
	if !found {
		tracer().Debugf("bptree: key %v not found for delete", key)
		t.notify(EventNotFound, true, nil, nil)
		return noNode, false
	}
	n.keys = removeAt(n.keys, i)
	n.values = removeAt(n.values, i)
	t.size--
	if n.parent == noNode || n.count() >= t.minKeys {
		return noNode, true
	}
	return t.rebalanceLeaf(id), true
}

// rebalanceLeaf fixes an underflowing leaf using a sibling under the same
// parent. The right sibling is preferred; the left one is used only for the
// last child of a parent. If the sibling cannot spare an entry without
// underflowing itself, the two leaves are merged.
func (t *Tree[K, V]) rebalanceLeaf(id nodeID) nodeID {
	n := t.node(id)
	p := t.node(n.parent)
	c := t.childIndex(p, id)
	if c+1 < len(p.children) {
		rid := p.children[c+1]
		if t.node(rid).count()-1 < t.minKeys {
			return t.mergeLeaves(id, rid)
		}
		t.borrowFromRightLeaf(id, rid, c)
		return noNode
	}
	assert(c > 0, "underflowing leaf has no sibling")
	lid := p.children[c-1]
	if t.node(lid).count()-1 < t.minKeys {
		return t.mergeLeaves(lid, id)
	}
	t.borrowFromLeftLeaf(lid, id, c-1)
	return noNode
}

// mergeLeaves moves all entries of leaf rid into its left sibling lid, unlinks
// rid from the leaf chain and removes the separator between them from the
// parent.
func (t *Tree[K, V]) mergeLeaves(lid, rid nodeID) nodeID {
	var before [][]K
	if t.observing() {
		before = t.snapshot(lid, rid)
	}
	l, r := t.node(lid), t.node(rid)
	pid := l.parent
	p := t.node(pid)
	sep := p.keys[t.childIndex(p, lid)]
	l.keys = append(l.keys, r.keys...)
	l.values = append(l.values, r.values...)
	l.right = r.right
	if r.right != noNode {
		t.node(r.right).left = lid
	}
	t.nodes.release(rid)
	if t.observing() {
		t.notify(EventMerge, true, before, t.snapshot(lid))
	} else {
		t.notify(EventMerge, true, nil, nil)
	}
	return t.deleteNode(pid, sep)
}

// borrowFromRightLeaf moves the first entry of leaf rid to the end of its left
// sibling lid and updates separator s of the parent.
func (t *Tree[K, V]) borrowFromRightLeaf(lid, rid nodeID, s int) {
	var before [][]K
	if t.observing() {
		before = t.snapshot(lid, rid)
	}
	l, r := t.node(lid), t.node(rid)
	l.keys = append(l.keys, r.keys[0])
	l.values = append(l.values, r.values[0])
	r.keys = removeAt(r.keys, 0)
	r.values = removeAt(r.values, 0)
	t.replaceSeparator(l.parent, s, r.keys[0])
	t.notifyRedistribute(true, before, lid, rid)
}

// borrowFromLeftLeaf moves the last entry of leaf lid to the front of its right
// sibling rid and updates separator s of the parent.
func (t *Tree[K, V]) borrowFromLeftLeaf(lid, rid nodeID, s int) {
	var before [][]K
	if t.observing() {
		before = t.snapshot(lid, rid)
	}
	l, r := t.node(lid), t.node(rid)
	last := l.count() - 1
	r.keys = insertAt(r.keys, 0, l.keys[last])
	r.values = insertAt(r.values, 0, l.values[last])
	l.keys = truncate(l.keys, last)
	l.values = truncate(l.values, last)
	t.replaceSeparator(r.parent, s, r.keys[0])
	t.notifyRedistribute(true, before, lid, rid)
}

func (t *Tree[K, V]) notifyRedistribute(leaf bool, before [][]K, lid, rid nodeID) {
	if t.observing() {
		t.notify(EventRedistribute, leaf, before, t.snapshot(lid, rid))
	} else {
		t.notify(EventRedistribute, leaf, nil, nil)
	}
}

// replaceSeparator overwrites separator s of internal node pid in place. No
// node is added or removed, so no further propagation is necessary.
func (t *Tree[K, V]) replaceSeparator(pid nodeID, s int, key K) {
	p := t.node(pid)
	p.keys[s] = key
}

// deleteNode removes separator key, together with the child to its right,
// from internal node pid. The separator is located by equality, or by its
// expected sorted position if absent. An underflowing node is rebalanced
// against a sibling, possibly cascading up to the root. A root without any
// separator left collapses onto its only child.
//
// deleteNode returns the new root if the root has been replaced, noNode otherwise.
func (t *Tree[K, V]) deleteNode(pid nodeID, key K) nodeID {
	p := t.node(pid)
	i, found := searchKeys(p.keys, key)
	if !found {
		i = min(i, p.count()-1)
	}
	p.keys = removeAt(p.keys, i)
	p.children = removeAt(p.children, i+1)
	if p.parent == noNode {
		if p.count() == 0 {
			return t.collapseRoot(pid)
		}
		return noNode
	}
	if p.count() >= t.minKeys {
		return noNode
	}
	return t.rebalanceInternal(pid)
}

func (t *Tree[K, V]) collapseRoot(pid nodeID) nodeID {
	p := t.node(pid)
	child := p.children[0]
	t.node(child).parent = noNode
	t.nodes.release(pid)
	if t.observing() {
		t.notify(EventCollapse, false, [][]K{{}}, t.snapshot(child))
	} else {
		t.notify(EventCollapse, false, nil, nil)
	}
	return child
}

// rebalanceInternal fixes an underflowing internal node, mirroring
// rebalanceLeaf: borrow a child through the grandparent separator, or merge
// the two siblings, pulling the separator down.
func (t *Tree[K, V]) rebalanceInternal(id nodeID) nodeID {
	n := t.node(id)
	g := t.node(n.parent)
	c := t.childIndex(g, id)
	if c+1 < len(g.children) {
		rid := g.children[c+1]
		if t.node(rid).count()-1 < t.minKeys {
			return t.mergeInternal(id, rid)
		}
		t.rotateLeft(id, rid, c)
		return noNode
	}
	assert(c > 0, "underflowing internal node has no sibling")
	lid := g.children[c-1]
	if t.node(lid).count()-1 < t.minKeys {
		return t.mergeInternal(lid, id)
	}
	t.rotateRight(lid, id, c-1)
	return noNode
}

// mergeInternal merges internal node rid into its left sibling lid. The
// separator between them moves down from the parent into the merged node.
func (t *Tree[K, V]) mergeInternal(lid, rid nodeID) nodeID {
	var before [][]K
	if t.observing() {
		before = t.snapshot(lid, rid)
	}
	l, r := t.node(lid), t.node(rid)
	gid := l.parent
	g := t.node(gid)
	sep := g.keys[t.childIndex(g, lid)]
	l.keys = append(l.keys, sep)
	l.keys = append(l.keys, r.keys...)
	for _, child := range r.children {
		t.node(child).parent = lid
	}
	l.children = append(l.children, r.children...)
	t.nodes.release(rid)
	if t.observing() {
		t.notify(EventMerge, false, before, t.snapshot(lid))
	} else {
		t.notify(EventMerge, false, nil, nil)
	}
	return t.deleteNode(gid, sep)
}

// rotateLeft moves separator s of the parent down to the end of lid, the
// first child of rid over to lid, and the first key of rid up as new
// separator s.
func (t *Tree[K, V]) rotateLeft(lid, rid nodeID, s int) {
	var before [][]K
	if t.observing() {
		before = t.snapshot(lid, rid)
	}
	l, r := t.node(lid), t.node(rid)
	g := t.node(l.parent)
	moved := r.children[0]
	l.keys = append(l.keys, g.keys[s])
	l.children = append(l.children, moved)
	t.node(moved).parent = lid
	t.replaceSeparator(l.parent, s, r.keys[0])
	r.keys = removeAt(r.keys, 0)
	r.children = removeAt(r.children, 0)
	t.notifyRedistribute(false, before, lid, rid)
}

// rotateRight is the mirror image of rotateLeft.
func (t *Tree[K, V]) rotateRight(lid, rid nodeID, s int) {
	var before [][]K
	if t.observing() {
		before = t.snapshot(lid, rid)
	}
	l, r := t.node(lid), t.node(rid)
	g := t.node(r.parent)
	last := l.count() - 1
	moved := l.children[last+1]
	r.keys = insertAt(r.keys, 0, g.keys[s])
	r.children = insertAt(r.children, 0, moved)
	t.node(moved).parent = rid
	t.replaceSeparator(r.parent, s, l.keys[last])
	l.keys = truncate(l.keys, last)
	l.children = truncate(l.children, last+1)
	t.notifyRedistribute(false, before, lid, rid)
}
