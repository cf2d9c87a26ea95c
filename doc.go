/*
Package bptree implements a sparse B+ tree index for ordered keys.

A B+ tree is a balanced multiway search tree. Internal nodes hold separator
keys only and route a search to exactly one child; all payload lives in the
leaves. Leaves are linked to their left and right siblings, so that the leaf
chain, read left to right, enumerates every entry in ascending key order.
This makes range scans cheap: descend once, then walk the chain.

Nodes are kept in an arena owned by the tree and address each other by index.
Parent, child and sibling links are plain indices, never owning pointers.

Tree shape is controlled by the order (branching factor) of a tree:

	maxKeys = order
	minKeys = ceil((order+1)/2) - 1

Every node except the root holds between minKeys and maxKeys keys. Inserting
into a full node splits it and pushes a separator to the parent, possibly
creating a new root. Deleting from a node at minimum occupancy borrows an entry
from a sibling or merges with it, possibly collapsing the root.

Structural transitions (split, merge, redistribution, root changes, misses)
may be watched with an Observer. The tree is fully functional without one.

A Tree is not safe for concurrent use. Clients which share a tree between
goroutines must serialize access themselves.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package bptree

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// tracer writes to trace with key 'bptree'
func tracer() tracing.Trace {
	return tracing.Select("bptree")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
