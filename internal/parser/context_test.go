package parser

import "testing"

func TestContextLines(t *testing.T) {
	ctx := NewContext("ab\ncd\nef")
	cases := []struct {
		offset int
		want   Pos
	}{
		{0, Pos{1, 1}},
		{1, Pos{1, 2}},
		{2, Pos{1, 3}},
		{3, Pos{2, 1}},
		{5, Pos{2, 3}},
		{6, Pos{3, 1}},
		{8, Pos{3, 3}},
	}
	for _, c := range cases {
		got := ctx.Lines(c.offset)[0]
		if got != c.want {
			t.Errorf("offset %d: got %+v, want %+v", c.offset, got, c.want)
		}
	}
}

func TestContextLinesBatch(t *testing.T) {
	ctx := NewContext("one\ntwo\n")
	got := ctx.Lines(0, 4)
	if got[0] != (Pos{1, 1}) || got[1] != (Pos{2, 1}) {
		t.Fatalf("unexpected positions %+v", got)
	}
}

func TestContextSlice(t *testing.T) {
	ctx := NewContext("hello world")
	if s := ctx.Slice(Span{6, 11}); s != "world" {
		t.Fatalf("slice: got %q", s)
	}
	if ctx.Len() != 11 {
		t.Fatalf("len: got %d", ctx.Len())
	}
	if (Span{6, 11}).Len() != 5 {
		t.Fatalf("span len")
	}
}
