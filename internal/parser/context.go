package parser

import (
	"sort"
	"strings"
)

// Span is a half-open [Start, End) byte range into a Context's buffer.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Pos is a 1-based line and column position.
type Pos struct {
	Line int
	Col  int
}

// Context owns the decoded text of one file and answers position
// queries for byte offsets. It is immutable after construction; the
// newline index is built lazily on the first query.
type Context struct {
	contents string
	lineEnds []int // offset just past each newline
}

// NewContext wraps an already-decoded text buffer.
func NewContext(contents string) *Context {
	return &Context{contents: contents}
}

// Contents returns the full decoded buffer.
func (c *Context) Contents() string { return c.contents }

// Len returns the buffer length in bytes.
func (c *Context) Len() int { return len(c.contents) }

// Slice returns the text covered by the given span.
func (c *Context) Slice(s Span) string { return c.contents[s.Start:s.End] }

// Lines maps byte offsets to 1-based (line, column) positions via a
// binary search over the cached newline offsets. Offsets past the last
// newline map onto the final line.
func (c *Context) Lines(offsets ...int) []Pos {
	if c.lineEnds == nil {
		c.lineEnds = []int{}
		for i := 0; i < len(c.contents); {
			nl := strings.IndexByte(c.contents[i:], '\n')
			if nl < 0 {
				break
			}
			c.lineEnds = append(c.lineEnds, i+nl+1)
			i += nl + 1
		}
	}

	positions := make([]Pos, len(offsets))
	for i, off := range offsets {
		line := sort.SearchInts(c.lineEnds, off+1)
		lineStart := 0
		if line > 0 {
			lineStart = c.lineEnds[line-1]
		}
		positions[i] = Pos{Line: 1 + line, Col: 1 + off - lineStart}
	}
	return positions
}
