package parser

import (
	"strings"
	"testing"
)

func parseString(t *testing.T, path, content string) *Resource {
	t.Helper()
	p, err := NewRegistry("").ForPath(path)
	if err != nil {
		t.Fatalf("ForPath(%s): %v", path, err)
	}
	res, err := p.Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return res
}

func entityVal(t *testing.T, res *Resource, key string) string {
	t.Helper()
	node, ok := res.Node(key)
	if !ok {
		t.Fatalf("no node %q, have %v", key, res.Keys())
	}
	return node.Val()
}

func roundTrip(t *testing.T, res *Resource, content string) {
	t.Helper()
	var b strings.Builder
	b.WriteString(res.Header)
	for _, n := range res.Nodes {
		b.WriteString(n.All())
	}
	b.WriteString(res.Footer)
	if b.String() != content {
		t.Fatalf("round trip mismatch:\ngot  %q\nwant %q", b.String(), content)
	}
}

func TestDTDSimple(t *testing.T) {
	content := "<!ENTITY foo \"Foo\">\n<!ENTITY bar \"Bar\">\n"
	res := parseString(t, "a.dtd", content)
	if len(res.Nodes) != 2 {
		t.Fatalf("got %d nodes", len(res.Nodes))
	}
	if v := entityVal(t, res, "foo"); v != "Foo" {
		t.Fatalf("foo: got %q", v)
	}
	if v := entityVal(t, res, "bar"); v != "Bar" {
		t.Fatalf("bar: got %q", v)
	}
	roundTrip(t, res, content)
}

func TestDTDQuoteVariants(t *testing.T) {
	res := parseString(t, "a.dtd", "<!ENTITY a 'A'>\n<!ENTITY b \"B\">\n")
	if v := entityVal(t, res, "a"); v != "A" {
		t.Fatalf("single quotes: got %q", v)
	}
	if v := entityVal(t, res, "b"); v != "B" {
		t.Fatalf("double quotes: got %q", v)
	}
}

func TestDTDLicenseHeader(t *testing.T) {
	content := `<!-- This Source Code Form is subject to the terms of the Mozilla Public
   - License, v. 2.0. If a copy of the MPL was not distributed with this
   - file, You can obtain one at http://mozilla.org/MPL/2.0/. -->
<!ENTITY foo "Foo">
`
	res := parseString(t, "a.dtd", content)
	if !strings.Contains(res.Header, "MPL") {
		t.Fatalf("license block not in header: %q", res.Header)
	}
	if len(res.Nodes) != 1 || res.Nodes[0].Key() != "foo" {
		t.Fatalf("unexpected nodes %v", res.Keys())
	}
	roundTrip(t, res, content)
}

func TestDTDCommentStaysWithEntity(t *testing.T) {
	content := "<!-- describe foo -->\n<!ENTITY foo \"Foo\">\n"
	res := parseString(t, "a.dtd", content)
	if res.Header != "" {
		t.Fatalf("plain comment became header: %q", res.Header)
	}
	ent, ok := res.Nodes[0].(*Entity)
	if !ok {
		t.Fatalf("expected entity, got %T", res.Nodes[0])
	}
	if !strings.Contains(ent.PreComment(), "describe foo") {
		t.Fatalf("pre comment: got %q", ent.PreComment())
	}
}

func TestDTDJunkRecovery(t *testing.T) {
	content := "<!ENTITY foo \"Foo\">\ngarbage\n<!ENTITY bar \"Bar\">\n"
	res := parseString(t, "a.dtd", content)
	if len(res.Nodes) != 3 {
		t.Fatalf("got %d nodes: %v", len(res.Nodes), res.Keys())
	}
	junk, ok := res.Nodes[1].(*Junk)
	if !ok {
		t.Fatalf("middle node is %T", res.Nodes[1])
	}
	if junk.All() != "garbage" {
		t.Fatalf("junk content: got %q", junk.All())
	}
	if !strings.HasPrefix(junk.Key(), "_junk_") {
		t.Fatalf("junk key: got %q", junk.Key())
	}
	if v := entityVal(t, res, "bar"); v != "Bar" {
		t.Fatalf("bar after junk: got %q", v)
	}
	roundTrip(t, res, content)
}

func TestDTDParameterEntity(t *testing.T) {
	content := "<!ENTITY % fooDTD SYSTEM \"chrome://brand.dtd\">\n  %fooDTD;\n"
	res := parseString(t, "a.dtd", content)
	if len(res.Nodes) != 1 {
		t.Fatalf("got %d nodes: %v", len(res.Nodes), res.Keys())
	}
	// Parameter entity values keep their quotes.
	if v := entityVal(t, res, "fooDTD"); v != "\"chrome://brand.dtd\"" {
		t.Fatalf("fooDTD: got %q", v)
	}
	roundTrip(t, res, content)
}

func TestDTDDuplicateKeyBecomesJunk(t *testing.T) {
	content := "<!ENTITY foo \"first\">\n<!ENTITY foo \"second\">\n"
	res := parseString(t, "a.dtd", content)
	if len(res.Nodes) != 2 {
		t.Fatalf("got %d nodes", len(res.Nodes))
	}
	if v := entityVal(t, res, "foo"); v != "first" {
		t.Fatalf("first occurrence should win, got %q", v)
	}
	if _, ok := res.Nodes[1].(*Junk); !ok {
		t.Fatalf("second occurrence is %T, want junk", res.Nodes[1])
	}
}

func TestDTDTrailingJunk(t *testing.T) {
	content := "<!ENTITY foo \"Foo\">\nno entity here"
	res := parseString(t, "a.dtd", content)
	if len(res.Nodes) != 2 {
		t.Fatalf("got %d nodes: %v", len(res.Nodes), res.Keys())
	}
	if _, ok := res.Nodes[1].(*Junk); !ok {
		t.Fatalf("trailing content is %T, want junk", res.Nodes[1])
	}
	roundTrip(t, res, content)
}
