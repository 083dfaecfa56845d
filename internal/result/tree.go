package result

import (
	"sort"
	"strings"
)

// treeNode is one arena slot. Edge labels hold runs of path segments,
// so chains of single-child directories collapse into one node.
type treeNode[V any] struct {
	key      []string
	children []int
	value    *V
}

// Tree is a path-compressed result tree over slash-separated paths.
// Nodes live in a flat arena and refer to children by index; values
// stay stable across later inserts.
type Tree[V any] struct {
	nodes []treeNode[V]
	alloc func() V
}

// NewTree builds an empty tree. alloc creates the zero value for a
// path on first insert.
func NewTree[V any](alloc func() V) *Tree[V] {
	return &Tree[V]{
		nodes: []treeNode[V]{{}},
		alloc: alloc,
	}
}

// Insert returns the value slot for the given path, creating it if
// needed. The returned pointer stays valid for the tree's lifetime.
func (t *Tree[V]) Insert(parts []string) *V {
	cur := 0
	for len(parts) > 0 {
		next := -1
		for _, ci := range t.nodes[cur].children {
			if t.nodes[ci].key[0] == parts[0] {
				next = ci
				break
			}
		}
		if next < 0 {
			// No child shares the first segment; hang the whole
			// remaining path off one new node.
			ni := t.newNode(append([]string(nil), parts...))
			t.nodes[cur].children = append(t.nodes[cur].children, ni)
			cur = ni
			break
		}

		key := t.nodes[next].key
		common := 0
		for common < len(key) && common < len(parts) && key[common] == parts[common] {
			common++
		}
		if common < len(key) {
			// Split the edge: a new node keeps the shared prefix and
			// adopts the old node, which keeps the remainder.
			mid := t.newNode(append([]string(nil), key[:common]...))
			t.nodes[next].key = key[common:]
			t.nodes[mid].children = []int{next}
			for i, ci := range t.nodes[cur].children {
				if ci == next {
					t.nodes[cur].children[i] = mid
					break
				}
			}
			next = mid
		}
		cur = next
		parts = parts[common:]
	}

	if t.nodes[cur].value == nil {
		v := t.alloc()
		t.nodes[cur].value = &v
	}
	return t.nodes[cur].value
}

func (t *Tree[V]) newNode(key []string) int {
	t.nodes = append(t.nodes, treeNode[V]{key: key})
	return len(t.nodes) - 1
}

// sortedChildren orders a node's children by edge label so traversal
// output is deterministic regardless of insert order. Siblings never
// share a first segment, so comparing it is enough.
func (t *Tree[V]) sortedChildren(idx int) []int {
	children := append([]int(nil), t.nodes[idx].children...)
	sort.Slice(children, func(i, j int) bool {
		return t.nodes[children[i]].key[0] < t.nodes[children[j]].key[0]
	})
	return children
}

// Walk visits every node holding a value in depth-first path order,
// passing the full slash-joined path.
func (t *Tree[V]) Walk(fn func(path string, value *V)) {
	t.walk(0, nil, fn)
}

func (t *Tree[V]) walk(idx int, prefix []string, fn func(string, *V)) {
	n := t.nodes[idx]
	path := append(prefix, n.key...)
	if n.value != nil {
		fn(strings.Join(path, "/"), n.value)
	}
	for _, ci := range t.sortedChildren(idx) {
		t.walk(ci, path, fn)
	}
}

// ToMap renders the tree as nested maps keyed by edge labels, with
// value nodes marshaled by fn. A node carrying both a value and
// children keeps the value under its joined key.
func (t *Tree[V]) ToMap(fn func(*V) any) map[string]any {
	return t.toMap(0, fn)
}

func (t *Tree[V]) toMap(idx int, fn func(*V) any) map[string]any {
	out := make(map[string]any)
	for _, ci := range t.sortedChildren(idx) {
		c := t.nodes[ci]
		key := strings.Join(c.key, "/")
		if c.value != nil {
			out[key] = fn(c.value)
			continue
		}
		out[key] = t.toMap(ci, fn)
	}
	return out
}
