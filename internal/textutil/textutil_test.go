package textutil

import "testing"

func TestCountWords(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"two words", 2},
		{"line<br/>break", 2},
		{"line<br />break", 2},
		{"<em>emphasis</em> here", 2},
		{"  padded   out  ", 2},
	}
	for _, c := range cases {
		if got := CountWords(c.in); got != c.want {
			t.Errorf("CountWords(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestHash(t *testing.T) {
	a, b := Hash("one"), Hash("two")
	if len(a) != 64 {
		t.Fatalf("hash length: got %d", len(a))
	}
	if a == b {
		t.Fatal("distinct inputs must hash differently")
	}
	if a != Hash("one") {
		t.Fatal("hash must be stable")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("a longer string", 8); got != "a longer..." {
		t.Fatalf("got %q", got)
	}
}
