package compare

import (
	"reflect"
	"testing"
)

func TestAddRemoveChanges(t *testing.T) {
	ar := &AddRemove{}
	ar.SetLeft([]string{"a", "b", "d"})
	ar.SetRight([]string{"b", "c", "d"})

	got := ar.Changes()
	want := []Change{
		{OpDelete, "a"},
		{OpEqual, "b"},
		{OpAdd, "c"},
		{OpEqual, "d"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("changes: %+v", got)
	}
}

func TestAddRemoveCoversEveryKey(t *testing.T) {
	ar := &AddRemove{}
	left := []string{"x", "y"}
	right := []string{"y", "z"}
	ar.SetLeft(left)
	ar.SetRight(right)

	seen := map[string]bool{}
	for _, ch := range ar.Changes() {
		seen[ch.Key] = true
	}
	for _, k := range append(left, right...) {
		if !seen[k] {
			t.Fatalf("key %q not covered", k)
		}
	}
}

func TestAddRemoveEmptySides(t *testing.T) {
	ar := &AddRemove{}
	ar.SetLeft(nil)
	ar.SetRight([]string{"a"})
	got := ar.Changes()
	if len(got) != 1 || got[0].Op != OpAdd {
		t.Fatalf("changes: %+v", got)
	}
}
