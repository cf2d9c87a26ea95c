package bptree

import (
	"errors"
	"slices"
	"strconv"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func makeTree(t *testing.T, order int) *Tree[int, string] {
	t.Helper()
	tree, err := NewWithOrder[int, string](order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tree
}

func mustCheck(t *testing.T, tree *Tree[int, string]) {
	t.Helper()
	if err := tree.Check(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

// chainKeys collects the keys of all leaves by walking the leaf chain from
// the cached head.
func chainKeys[V any](tree *Tree[int, V]) [][]int {
	var out [][]int
	for id := tree.head; id != noNode; id = tree.node(id).right {
		out = append(out, slices.Clone(tree.node(id).keys))
	}
	return out
}

func insertKeys(tree *Tree[int, string], keys ...int) {
	for _, k := range keys {
		tree.Insert(k, valueOf(k))
	}
}

func valueOf(k int) string {
	return "v" + strconv.Itoa(k)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	for _, order := range []int{-1, 1, 2} {
		_, err := NewWithOrder[int, string](order)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("order %d: expected ErrInvalidConfig, got %v", order, err)
		}
	}
}

func TestNewDefaultsOrder(t *testing.T) {
	tree, err := New[int, string](Config[int]{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Order() != DefaultOrder || tree.MinKeys() != 1 || tree.MaxKeys() != 3 {
		t.Fatalf("unexpected shape order=%d min=%d max=%d", tree.Order(), tree.MinKeys(), tree.MaxKeys())
	}
	if !tree.IsEmpty() || tree.Height() != 1 {
		t.Fatalf("expected a single empty leaf, len=%d height=%d", tree.Len(), tree.Height())
	}
	mustCheck(t, tree)
}

func TestMinKeysFollowsOrder(t *testing.T) {
	want := map[int]int{3: 1, 4: 2, 5: 2, 6: 3, 7: 3, 24: 12, 25: 12}
	for order, minKeys := range want {
		tree := makeTree(t, order)
		if tree.MinKeys() != minKeys || tree.MaxKeys() != order {
			t.Errorf("order %d: got min=%d max=%d, want min=%d max=%d",
				order, tree.MinKeys(), tree.MaxKeys(), minKeys, order)
		}
	}
}

func TestSplitRedistributeMergeCollapse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bptree")
	defer teardown()

	tree := makeTree(t, 3)
	insertKeys(tree, 10, 20, 30)
	if tree.Height() != 1 {
		t.Fatalf("expected leaf root before overflow, height=%d", tree.Height())
	}
	insertKeys(tree, 40)
	mustCheck(t, tree)
	if tree.Height() != 2 {
		t.Fatalf("expected new internal root after split, height=%d", tree.Height())
	}
	if got := tree.node(tree.root).keys; !slices.Equal(got, []int{30}) {
		t.Fatalf("expected separator [30], got %v", got)
	}
	if got := chainKeys(tree); !slices.EqualFunc(got, [][]int{{10, 20}, {30, 40}}, slices.Equal) {
		t.Fatalf("unexpected leaves after split: %v", got)
	}

	tree.Delete(10) // left leaf at minKeys, no rebalance
	mustCheck(t, tree)
	if got := chainKeys(tree); !slices.EqualFunc(got, [][]int{{20}, {30, 40}}, slices.Equal) {
		t.Fatalf("unexpected leaves after delete(10): %v", got)
	}

	tree.Delete(20) // right sibling can spare one entry
	mustCheck(t, tree)
	if got := chainKeys(tree); !slices.EqualFunc(got, [][]int{{30}, {40}}, slices.Equal) {
		t.Fatalf("unexpected leaves after delete(20): %v", got)
	}
	if got := tree.node(tree.root).keys; !slices.Equal(got, []int{40}) {
		t.Fatalf("expected separator [40] after redistribution, got %v", got)
	}

	tree.Delete(30) // merge; root is left with one child and collapses
	mustCheck(t, tree)
	if tree.Height() != 1 {
		t.Fatalf("expected root collapse to a leaf, height=%d", tree.Height())
	}
	if got := chainKeys(tree); !slices.EqualFunc(got, [][]int{{40}}, slices.Equal) {
		t.Fatalf("unexpected leaves after delete(30): %v", got)
	}
	if v, ok := tree.Search(40); !ok || v != "v40" {
		t.Fatalf("expected to find 40 after collapse, got %q, %v", v, ok)
	}

	tree.Delete(40)
	mustCheck(t, tree)
	if !tree.IsEmpty() || tree.head != noNode {
		t.Fatalf("expected empty tree, len=%d", tree.Len())
	}
}

// TestLeafSplitSizes pins the leaf split policy: the left leaf keeps half of
// the overflowing entries, rounded down, which for odd orders is one more than
// minKeys.
func TestLeafSplitSizes(t *testing.T) {
	for _, tc := range []struct {
		order, left, right int
	}{
		{3, 2, 2},
		{4, 2, 3},
		{13, 7, 7},
		{24, 12, 13},
	} {
		tree := makeTree(t, tc.order)
		for k := 1; k <= tc.order+1; k++ {
			tree.Insert(k, valueOf(k))
		}
		mustCheck(t, tree)
		leaves := chainKeys(tree)
		if len(leaves) != 2 || len(leaves[0]) != tc.left || len(leaves[1]) != tc.right {
			t.Errorf("order %d: split into %v, want %d/%d", tc.order, leaves, tc.left, tc.right)
		}
		if tc.left < tree.MinKeys() || tc.right > tree.MaxKeys() {
			t.Errorf("order %d: split %d/%d leaves bounds [%d,%d]", tc.order, tc.left, tc.right, tree.MinKeys(), tree.MaxKeys())
		}
		if root := tree.node(tree.root); !slices.Equal(root.keys, []int{tc.left + 1}) {
			t.Errorf("order %d: unexpected separator %v", tc.order, root.keys)
		}
	}
}

func TestRightmostLeafBorrowsFromLeft(t *testing.T) {
	tree := makeTree(t, 3)
	insertKeys(tree, 10, 20, 30, 40)
	tree.Delete(40)
	tree.Delete(30)
	mustCheck(t, tree)
	if got := chainKeys(tree); !slices.EqualFunc(got, [][]int{{10}, {20}}, slices.Equal) {
		t.Fatalf("unexpected leaves: %v", got)
	}
	if got := tree.node(tree.root).keys; !slices.Equal(got, []int{20}) {
		t.Fatalf("expected separator [20], got %v", got)
	}
}

func TestRightmostLeafMergesIntoLeft(t *testing.T) {
	tree := makeTree(t, 3)
	insertKeys(tree, 10, 20, 30, 40)
	tree.Delete(10)
	tree.Delete(40)
	tree.Delete(30)
	mustCheck(t, tree)
	if tree.Height() != 1 || tree.Len() != 1 {
		t.Fatalf("expected a single leaf holding 20, height=%d len=%d", tree.Height(), tree.Len())
	}
	if _, ok := tree.Search(20); !ok {
		t.Fatalf("expected 20 to survive the merge")
	}
}

func TestInsertSearchRoundTrip(t *testing.T) {
	for _, order := range []int{3, 4, 5, 8, 24} {
		tree := makeTree(t, order)
		for k := 0; k < 500; k++ {
			tree.Insert((k*7919)%500, valueOf((k*7919)%500))
		}
		mustCheck(t, tree)
		if tree.Len() != 500 {
			t.Fatalf("order %d: expected 500 entries, have %d", order, tree.Len())
		}
		for k := 0; k < 500; k++ {
			v, ok := tree.Search(k)
			if !ok || v != valueOf(k) {
				t.Fatalf("order %d: search(%d) = %q, %v", order, k, v, ok)
			}
		}
		if _, ok := tree.Search(500); ok {
			t.Fatalf("order %d: found absent key", order)
		}
	}
}

func TestInsertExistingKeyOverwrites(t *testing.T) {
	tree := makeTree(t, 3)
	insertKeys(tree, 1, 2, 3, 4, 5)
	tree.Insert(3, "three")
	mustCheck(t, tree)
	if tree.Len() != 5 {
		t.Fatalf("expected overwrite to keep 5 entries, have %d", tree.Len())
	}
	if v, _ := tree.Search(3); v != "three" {
		t.Fatalf("expected overwritten value, got %q", v)
	}
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	tree := makeTree(t, 4)
	insertKeys(tree, 1, 2, 3, 4, 5, 6, 7)
	if tree.Delete(42) {
		t.Fatalf("delete of absent key reported success")
	}
	mustCheck(t, tree)
	if tree.Len() != 7 {
		t.Fatalf("expected 7 entries, have %d", tree.Len())
	}
	empty := makeTree(t, 3)
	if empty.Delete(1) {
		t.Fatalf("delete on empty tree reported success")
	}
	mustCheck(t, empty)
}

func TestDeleteRoundTrip(t *testing.T) {
	tree := makeTree(t, 3)
	for k := 0; k < 100; k++ {
		tree.Insert(k, valueOf(k))
	}
	for k := 0; k < 100; k += 2 {
		if !tree.Delete(k) {
			t.Fatalf("delete(%d) did not find key", k)
		}
		mustCheck(t, tree)
		if _, ok := tree.Search(k); ok {
			t.Fatalf("key %d still present after delete", k)
		}
	}
	if tree.Len() != 50 {
		t.Fatalf("expected 50 entries, have %d", tree.Len())
	}
}

func TestDeleteAllInBothDirections(t *testing.T) {
	for _, order := range []int{3, 4, 5, 6} {
		up := makeTree(t, order)
		down := makeTree(t, order)
		for k := 0; k < 200; k++ {
			up.Insert(k, valueOf(k))
			down.Insert(k, valueOf(k))
		}
		for k := 0; k < 200; k++ {
			up.Delete(k)
			down.Delete(199 - k)
			mustCheck(t, up)
			mustCheck(t, down)
		}
		if !up.IsEmpty() || !down.IsEmpty() {
			t.Fatalf("order %d: expected empty trees", order)
		}
		if up.Height() != 1 || down.Height() != 1 {
			t.Fatalf("order %d: expected trees to shrink to a leaf", order)
		}
		if up.nodes.live != 1 || down.nodes.live != 1 {
			t.Fatalf("order %d: expected single live node, have %d and %d", order, up.nodes.live, down.nodes.live)
		}
	}
}

func TestRangeSearchCrossesSubtrees(t *testing.T) {
	tree := makeTree(t, 3)
	for k := 0; k < 100; k++ {
		tree.Insert(k*10, valueOf(k*10))
	}
	if tree.Height() < 3 {
		t.Fatalf("expected a tree of height >= 3, have %d", tree.Height())
	}
	got := tree.RangeSearch(95, 405)
	var want []string
	for k := 100; k <= 400; k += 10 {
		want = append(want, valueOf(k))
	}
	if !slices.Equal(got, want) {
		t.Fatalf("range [95,405]: got %v, want %v", got, want)
	}
	if got := tree.RangeSearch(100, 100); !slices.Equal(got, []string{"v100"}) {
		t.Fatalf("single-key range: got %v", got)
	}
	if got := tree.RangeSearch(101, 109); len(got) != 0 {
		t.Fatalf("empty gap range: got %v", got)
	}
	if got := tree.RangeSearch(500, 100); len(got) != 0 {
		t.Fatalf("inverted range: got %v", got)
	}
	if got := tree.RangeSearch(-100, 5000); len(got) != 100 {
		t.Fatalf("covering range: got %d values", len(got))
	}
}

func TestAscendStopsEarly(t *testing.T) {
	tree := makeTree(t, 4)
	for k := 0; k < 50; k++ {
		tree.Insert(k, valueOf(k))
	}
	var seen []int
	tree.Ascend(func(k int, _ string) bool {
		seen = append(seen, k)
		return k < 9
	})
	if !slices.Equal(seen, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Fatalf("unexpected prefix: %v", seen)
	}
	var keys []int
	for k := range tree.Keys() {
		keys = append(keys, k)
	}
	if len(keys) != 50 || !slices.IsSorted(keys) {
		t.Fatalf("Keys() yielded %d keys, sorted=%v", len(keys), slices.IsSorted(keys))
	}
	n := 0
	for k, v := range tree.All() {
		if v != valueOf(k) {
			t.Fatalf("All() yielded %d=%q", k, v)
		}
		n++
	}
	if n != 50 {
		t.Fatalf("All() yielded %d entries", n)
	}
}

func TestMinMax(t *testing.T) {
	tree := makeTree(t, 3)
	if _, _, ok := tree.Min(); ok {
		t.Fatalf("Min on empty tree reported an entry")
	}
	if _, _, ok := tree.Max(); ok {
		t.Fatalf("Max on empty tree reported an entry")
	}
	insertKeys(tree, 50, 10, 90, 30, 70, 20)
	if k, v, ok := tree.Min(); !ok || k != 10 || v != "v10" {
		t.Fatalf("Min = %d, %q, %v", k, v, ok)
	}
	if k, v, ok := tree.Max(); !ok || k != 90 || v != "v90" {
		t.Fatalf("Max = %d, %q, %v", k, v, ok)
	}
}

func TestWalkVisitsLevels(t *testing.T) {
	tree := makeTree(t, 3)
	insertKeys(tree, 10, 20, 30, 40)
	var infos []NodeInfo[int]
	tree.Walk(func(info NodeInfo[int]) bool {
		infos = append(infos, info)
		return true
	})
	if len(infos) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(infos))
	}
	if infos[0].Depth != 0 || infos[0].Leaf || !slices.Equal(infos[0].Keys, []int{30}) {
		t.Fatalf("unexpected root info %+v", infos[0])
	}
	if infos[2].Depth != 1 || !infos[2].Leaf || !slices.Equal(infos[2].Keys, []int{30, 40}) {
		t.Fatalf("unexpected leaf info %+v", infos[2])
	}
}

func TestStringKeys(t *testing.T) {
	tree, err := NewWithOrder[string, int](4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	words := []string{"pear", "apple", "fig", "kiwi", "banana", "cherry", "date", "grape", "lemon"}
	for i, w := range words {
		tree.Insert(w, i)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
	got := tree.RangeSearch("b", "g")
	// banana, cherry, date, fig
	if !slices.Equal(got, []int{4, 5, 6, 2}) {
		t.Fatalf("unexpected range result %v", got)
	}
}
