package parser

import (
	"strings"
	"testing"
)

func TestPropertiesSimple(t *testing.T) {
	content := "foo=bar\nbaz = qux\ncolon: value\n"
	res := parseString(t, "a.properties", content)
	if len(res.Nodes) != 3 {
		t.Fatalf("got %d nodes: %v", len(res.Nodes), res.Keys())
	}
	if v := entityVal(t, res, "foo"); v != "bar" {
		t.Fatalf("foo: got %q", v)
	}
	if v := entityVal(t, res, "baz"); v != "qux" {
		t.Fatalf("baz: got %q", v)
	}
	if v := entityVal(t, res, "colon"); v != "value" {
		t.Fatalf("colon: got %q", v)
	}
	roundTrip(t, res, content)
}

func TestPropertiesContinuation(t *testing.T) {
	content := "one_line = This is one line\n" +
		"two_line = This is the first \\\nof two lines\n" +
		"one_line_trailing = This line ends in \\\\\n" +
		"and has junk\n" +
		"last_line = this is the last line\n"
	res := parseString(t, "a.properties", content)

	if v := entityVal(t, res, "two_line"); v != "This is the first of two lines" {
		t.Fatalf("two_line: got %q", v)
	}
	// An even run of trailing backslashes is an escaped backslash, not
	// a continuation.
	if v := entityVal(t, res, "one_line_trailing"); v != "This line ends in \\" {
		t.Fatalf("one_line_trailing: got %q", v)
	}
	var junks []*Junk
	for _, n := range res.Nodes {
		if j, ok := n.(*Junk); ok {
			junks = append(junks, j)
		}
	}
	if len(junks) != 1 || junks[0].All() != "and has junk\n" {
		t.Fatalf("junk: got %+v", junks)
	}
	if v := entityVal(t, res, "last_line"); v != "this is the last line" {
		t.Fatalf("last_line: got %q", v)
	}
	roundTrip(t, res, content)
}

func TestPropertiesUnicodeEscapes(t *testing.T) {
	res := parseString(t, "a.properties", "a = \\u0041 and \\u41\nb = tab\\there\nc = back\\\\slash\n")
	if v := entityVal(t, res, "a"); v != "A and A" {
		t.Fatalf("unicode: got %q", v)
	}
	if v := entityVal(t, res, "b"); v != "tab\there" {
		t.Fatalf("tab escape: got %q", v)
	}
	if v := entityVal(t, res, "c"); v != "back\\slash" {
		t.Fatalf("backslash escape: got %q", v)
	}
}

func TestPropertiesUnknownEscapeKept(t *testing.T) {
	res := parseString(t, "a.properties", "a = \\q\n")
	if v := entityVal(t, res, "a"); v != "q" {
		t.Fatalf("unknown escape: got %q", v)
	}
}

func TestPropertiesTrailingWhitespaceStripped(t *testing.T) {
	res := parseString(t, "a.properties", "foo = bar  \t\n")
	if v := entityVal(t, res, "foo"); v != "bar" {
		t.Fatalf("got %q", v)
	}
}

func TestPropertiesLicenseHeader(t *testing.T) {
	content := "# This Source Code Form is subject to the terms of the Mozilla Public\n" +
		"# License, v. 2.0. If a copy of the MPL was not distributed with this\n" +
		"# file, You can obtain one at http://mozilla.org/MPL/2.0/.\n" +
		"\nfoo=bar\n"
	res := parseString(t, "a.properties", content)
	if !strings.Contains(res.Header, "MPL") {
		t.Fatalf("license not in header: %q", res.Header)
	}
	roundTrip(t, res, content)
}

func TestPropertiesPlainCommentNotHeader(t *testing.T) {
	content := "# describes foo\nfoo=bar\n"
	res := parseString(t, "a.properties", content)
	if res.Header != "" {
		t.Fatalf("plain comment became header: %q", res.Header)
	}
	ent := res.Nodes[0].(*Entity)
	if !strings.Contains(ent.PreComment(), "describes foo") {
		t.Fatalf("pre comment: got %q", ent.PreComment())
	}
	roundTrip(t, res, content)
}

func TestPropertiesValuePosition(t *testing.T) {
	res := parseString(t, "a.properties", "first=x\nsecond = value\n")
	ent := res.Nodes[1].(*Entity)
	if pos := ent.ValuePosition(0); pos != (Pos{2, 10}) {
		t.Fatalf("value start: got %+v", pos)
	}
	if pos := ent.ValuePosition(3); pos != (Pos{2, 13}) {
		t.Fatalf("value offset: got %+v", pos)
	}
}

func TestPropertiesEmptyValue(t *testing.T) {
	res := parseString(t, "a.properties", "empty=\nnext=x\n")
	if v := entityVal(t, res, "empty"); v != "" {
		t.Fatalf("empty value: got %q", v)
	}
	if v := entityVal(t, res, "next"); v != "x" {
		t.Fatalf("next: got %q", v)
	}
}
