package parser

import (
	"strings"
	"testing"
)

func TestINISimple(t *testing.T) {
	content := "[Strings]\nTitleText=Some Title\n"
	res := parseString(t, "a.ini", content)
	if res.Header != "[Strings]\n" {
		t.Fatalf("header: got %q", res.Header)
	}
	if len(res.Nodes) != 1 {
		t.Fatalf("got %d nodes: %v", len(res.Nodes), res.Keys())
	}
	if v := entityVal(t, res, "TitleText"); v != "Some Title" {
		t.Fatalf("TitleText: got %q", v)
	}
	roundTrip(t, res, content)
}

func TestINIHeaderComments(t *testing.T) {
	content := "; top comment\n\n[Strings]\nTitleText=Some Title\n"
	res := parseString(t, "a.ini", content)
	if !strings.Contains(res.Header, "top comment") || !strings.Contains(res.Header, "[Strings]") {
		t.Fatalf("header: got %q", res.Header)
	}
	if v := entityVal(t, res, "TitleText"); v != "Some Title" {
		t.Fatalf("TitleText: got %q", v)
	}
	roundTrip(t, res, content)
}

func TestINIEntityComment(t *testing.T) {
	content := "[Strings]\n; describes the title\nTitleText=Some Title\n"
	res := parseString(t, "a.ini", content)
	ent := res.Nodes[0].(*Entity)
	if !strings.Contains(ent.PreComment(), "describes the title") {
		t.Fatalf("pre comment: got %q", ent.PreComment())
	}
	roundTrip(t, res, content)
}

func TestINIFooter(t *testing.T) {
	content := "[Strings]\na=1\n; trailing note\n"
	res := parseString(t, "a.ini", content)
	if len(res.Nodes) != 1 {
		t.Fatalf("got %d nodes: %v", len(res.Nodes), res.Keys())
	}
	if !strings.Contains(res.Footer, "trailing note") {
		t.Fatalf("footer: got %q", res.Footer)
	}
	roundTrip(t, res, content)
}

func TestINIMultipleEntities(t *testing.T) {
	content := "[Strings]\na=1\nb=2\nc=3\n"
	res := parseString(t, "a.ini", content)
	if len(res.Nodes) != 3 {
		t.Fatalf("got %d nodes: %v", len(res.Nodes), res.Keys())
	}
	if v := entityVal(t, res, "b"); v != "2" {
		t.Fatalf("b: got %q", v)
	}
	roundTrip(t, res, content)
}
