package compare

import "sort"

// Op classifies one key in the diff of two key sets.
type Op int

const (
	// OpEqual means the key exists on both sides.
	OpEqual Op = iota
	// OpAdd means the key only exists on the right (localized) side.
	OpAdd
	// OpDelete means the key only exists on the left (reference) side.
	OpDelete
)

// Change is one key with its diff classification.
type Change struct {
	Op  Op
	Key string
}

// AddRemove diffs two key sets. Changes come out in sorted key order,
// so runs over the same inputs are deterministic.
type AddRemove struct {
	left  map[string]bool
	right map[string]bool
}

func (ar *AddRemove) SetLeft(keys []string) {
	ar.left = keySet(keys)
}

func (ar *AddRemove) SetRight(keys []string) {
	ar.right = keySet(keys)
}

func (ar *AddRemove) Changes() []Change {
	union := make([]string, 0, len(ar.left)+len(ar.right))
	for k := range ar.left {
		union = append(union, k)
	}
	for k := range ar.right {
		if !ar.left[k] {
			union = append(union, k)
		}
	}
	sort.Strings(union)

	changes := make([]Change, 0, len(union))
	for _, k := range union {
		switch {
		case ar.left[k] && ar.right[k]:
			changes = append(changes, Change{OpEqual, k})
		case ar.left[k]:
			changes = append(changes, Change{OpDelete, k})
		default:
			changes = append(changes, Change{OpAdd, k})
		}
	}
	return changes
}

func keySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
