package parser

import (
	"fmt"
	"sync/atomic"
)

// Node is one tokenized unit of a resource: a localizable Entity or an
// unparsable Junk block. Concatenating header, node spans in order and
// footer reproduces the input buffer exactly.
type Node interface {
	// Key is the identity used for diffing. Junk keys are synthetic.
	Key() string
	// Span is the full byte range of the node.
	Span() Span
	// All is the verbatim source text of the node.
	All() string
	// Val is the logical value: decoded for entities, raw for junk.
	Val() string
	// Position maps an offset into the node to a 1-based line/column.
	// A negative offset maps to the end of the node.
	Position(offset int) Pos
}

// Entity is one localizable key/value record. All fields are spans into
// the owning Context; the decoded value is computed on access, never
// stored, since most entities are only compared for equality.
type Entity struct {
	ctx  *Context
	post func(string) string

	span           Span
	preWSSpan      Span
	preCommentSpan Span
	defSpan        Span
	keySpan        Span
	valSpan        Span
	postSpan       Span
}

func (e *Entity) Key() string        { return e.ctx.Slice(e.keySpan) }
func (e *Entity) Span() Span         { return e.span }
func (e *Entity) All() string        { return e.ctx.Slice(e.span) }
func (e *Entity) PreWS() string      { return e.ctx.Slice(e.preWSSpan) }
func (e *Entity) PreComment() string { return e.ctx.Slice(e.preCommentSpan) }
func (e *Entity) Definition() string { return e.ctx.Slice(e.defSpan) }
func (e *Entity) RawVal() string     { return e.ctx.Slice(e.valSpan) }
func (e *Entity) Post() string       { return e.ctx.Slice(e.postSpan) }

// Val returns the raw value passed through the grammar's escape
// decoding.
func (e *Entity) Val() string {
	if e.post == nil {
		return e.RawVal()
	}
	return e.post(e.RawVal())
}

// Position maps an offset into the entity to a source position.
func (e *Entity) Position(offset int) Pos {
	pos := e.span.End
	if offset >= 0 {
		pos = e.span.Start + offset
	}
	return e.ctx.Lines(pos)[0]
}

// ValuePosition maps an offset into the raw value to a source position.
func (e *Entity) ValuePosition(offset int) Pos {
	pos := e.valSpan.End
	if offset >= 0 {
		pos = e.valSpan.Start + offset
	}
	return e.ctx.Lines(pos)[0]
}

// Junk is a block of input that matched no entity pattern. It is kept
// verbatim so every byte of the file stays accounted for, and carries a
// synthetic key that is unique within one Registry's lifetime.
type Junk struct {
	ctx  *Context
	span Span
	key  string
}

func newJunk(ctx *Context, span Span, id int64) *Junk {
	return &Junk{
		ctx:  ctx,
		span: span,
		key:  fmt.Sprintf("_junk_%d_%d-%d", id, span.Start, span.End),
	}
}

func (j *Junk) Key() string { return j.key }
func (j *Junk) Span() Span  { return j.span }
func (j *Junk) All() string { return j.ctx.Slice(j.span) }
func (j *Junk) Val() string { return j.All() }

func (j *Junk) Position(offset int) Pos {
	pos := j.span.End
	if offset >= 0 {
		pos = j.span.Start + offset
	}
	return j.ctx.Lines(pos)[0]
}

// junkCounter hands out junk ids for one parser registry. Keeping it on
// the registry instead of a package global keeps ids unique within a
// run without process-wide state.
type junkCounter struct {
	n atomic.Int64
}

func (c *junkCounter) next() int64 { return c.n.Add(1) }
