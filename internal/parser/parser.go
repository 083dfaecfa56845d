package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

var (
	// ErrNoParser reports that a path's extension maps to no grammar.
	ErrNoParser = errors.New("no parser registered for path")
	// ErrDecode reports that file bytes cannot be decoded in the
	// declared encoding.
	ErrDecode = errors.New("cannot decode contents")
)

// Parser tokenizes one file format into a Resource.
type Parser interface {
	// Parse decodes raw file bytes and tokenizes them. The returned
	// resource covers every input byte: header + nodes + footer.
	Parse(raw []byte) (*Resource, error)
	// CanMerge reports whether append-based merging is safe for this
	// format.
	CanMerge() bool
	// Encoding is the declared charset of files in this format.
	Encoding() string
}

// Resource is the parse result for one file.
type Resource struct {
	Header string
	Footer string
	Nodes  []Node
	// Index maps each node key to its position in Nodes. Keys are
	// unique: a repeated entity key degrades the later occurrence to
	// Junk.
	Index map[string]int
	Ctx   *Context
}

// Node returns the node with the given key.
func (r *Resource) Node(key string) (Node, bool) {
	i, ok := r.Index[key]
	if !ok {
		return nil, false
	}
	return r.Nodes[i], true
}

// Keys returns all node keys in sorted order.
func (r *Resource) Keys() []string {
	keys := make([]string, 0, len(r.Index))
	for k := range r.Index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// grammar is the per-format tokenization hook set driven by parse.
type grammar interface {
	// header returns the end offset of the header matched at offset 0.
	header(ctx *Context) int
	// next produces the node starting at offset, or (nil, offset) when
	// the entity loop should stop.
	next(ctx *Context, offset int) (Node, int)
	// footerAt anchors the footer pattern at offset.
	footerAt(ctx *Context, offset int) (end int, ok bool)
	// footerNonEmptyAt reports a footer match of non-zero length.
	footerNonEmptyAt(ctx *Context, offset int) bool
}

// parse runs the shared tokenization loop: header once, anchored entity
// matches with junk recovery, footer, then any remainder as trailing
// junk.
func parse(g grammar, ctx *Context, junk *junkCounter) *Resource {
	contents := ctx.Contents()
	offset := g.header(ctx)
	header := contents[:offset]

	var nodes []Node
	for {
		node, next := g.next(ctx, offset)
		if node == nil {
			break
		}
		nodes = append(nodes, node)
		offset = next
	}

	footer := ""
	if end, ok := g.footerAt(ctx, offset); ok {
		footer = contents[offset:end]
		offset = end
	}
	if offset < len(contents) {
		nodes = append(nodes, newJunk(ctx, Span{offset, len(contents)}, junk.next()))
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.Key()]; dup {
			// Repeated key: keep the first entity, degrade this one.
			nodes[i] = newJunk(ctx, n.Span(), junk.next())
		}
		index[nodes[i].Key()] = i
	}

	return &Resource{
		Header: header,
		Footer: footer,
		Nodes:  nodes,
		Index:  index,
		Ctx:    ctx,
	}
}

// matchAt anchors re at offset and returns absolute submatch indexes,
// or nil when re does not match exactly there.
func matchAt(re *regexp.Regexp, s string, offset int) []int {
	loc := re.FindStringSubmatchIndex(s[offset:])
	if loc == nil || loc[0] != 0 {
		return nil
	}
	return absLoc(loc, offset)
}

// searchFrom finds the leftmost match of re at or after offset and
// returns absolute submatch indexes.
func searchFrom(re *regexp.Regexp, s string, offset int) []int {
	loc := re.FindStringSubmatchIndex(s[offset:])
	if loc == nil {
		return nil
	}
	return absLoc(loc, offset)
}

func absLoc(loc []int, offset int) []int {
	for i, v := range loc {
		if v >= 0 {
			loc[i] = v + offset
		}
	}
	return loc
}

// base implements the generic pattern-driven grammar. Format variants
// embed it and override the hooks they need.
type base struct {
	reKey    *regexp.Regexp
	reHeader *regexp.Regexp
	reFooter *regexp.Regexp
	post     func(string) string
	canMerge bool
	encoding string
	junk     *junkCounter
	// build constructs an Entity from an anchored key match; formats
	// that massage sub-spans (e.g. quote trimming) override it.
	build func(*Context, []int) *Entity
}

func (b *base) CanMerge() bool   { return b.canMerge }
func (b *base) Encoding() string { return b.encoding }

func (b *base) decode(raw []byte) (*Context, error) {
	contents, err := decode(raw, b.encoding)
	if err != nil {
		return nil, err
	}
	return NewContext(contents), nil
}

func (b *base) header(ctx *Context) int {
	if loc := matchAt(b.reHeader, ctx.Contents(), 0); loc != nil {
		return loc[1]
	}
	return 0
}

func (b *base) footerAt(ctx *Context, offset int) (int, bool) {
	if loc := matchAt(b.reFooter, ctx.Contents(), offset); loc != nil {
		return loc[1], true
	}
	return offset, false
}

func (b *base) footerNonEmptyAt(ctx *Context, offset int) bool {
	end, ok := b.footerAt(ctx, offset)
	return ok && end > offset
}

func (b *base) next(ctx *Context, offset int) (Node, int) {
	contents := ctx.Contents()
	if loc := matchAt(b.reKey, contents, offset); loc != nil {
		if b.build != nil {
			return b.build(ctx, loc), loc[1]
		}
		return b.entityFromGroups(ctx, loc), loc[1]
	}
	// A non-empty footer match means the remainder is footer, not junk.
	if b.footerNonEmptyAt(ctx, offset) {
		return nil, offset
	}
	if loc := searchFrom(b.reKey, contents, offset); loc != nil {
		return newJunk(ctx, Span{offset, loc[0]}, b.junk.next()), loc[0]
	}
	return nil, offset
}

// entityFromGroups builds an Entity from the conventional submatch
// layout: 1 pre-whitespace, 2 pre-comment, 3 definition, 4 key,
// 5 value, 6 post.
func (b *base) entityFromGroups(ctx *Context, loc []int) *Entity {
	return &Entity{
		ctx:            ctx,
		post:           b.post,
		span:           groupSpan(loc, 0),
		preWSSpan:      groupSpan(loc, 1),
		preCommentSpan: groupSpan(loc, 2),
		defSpan:        groupSpan(loc, 3),
		keySpan:        groupSpan(loc, 4),
		valSpan:        groupSpan(loc, 5),
		postSpan:       groupSpan(loc, 6),
	}
}

// groupSpan reads submatch group i, mapping an unmatched group to an
// empty span at the match end.
func groupSpan(loc []int, i int) Span {
	if loc[2*i] < 0 {
		return Span{loc[1], loc[1]}
	}
	return Span{loc[2*i], loc[2*i+1]}
}

// Registry is the closed extension table over the supported grammars.
// One registry per run; its junk counter keeps junk keys unique within
// that run's result tree.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry builds the extension table. The encoding applies to every
// grammar and defaults to UTF-8 when empty.
func NewRegistry(encoding string) *Registry {
	if encoding == "" {
		encoding = "utf-8"
	}
	junk := &junkCounter{}
	return &Registry{
		parsers: map[string]Parser{
			".dtd":        newDTDParser(encoding, junk),
			".properties": newPropertiesParser(encoding, junk),
			".ini":        newINIParser(encoding, junk),
			".inc":        newDefinesParser(encoding, junk),
		},
	}
}

// ForPath selects the grammar for a file path by extension.
func (r *Registry) ForPath(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoParser, path)
	}
	return p, nil
}

// Extensions returns the set of file extensions the registry handles.
func (r *Registry) Extensions() map[string]bool {
	exts := make(map[string]bool, len(r.parsers))
	for ext := range r.parsers {
		exts[ext] = true
	}
	return exts
}

// decode converts raw file bytes to a string in the named charset.
func decode(raw []byte, name string) (string, error) {
	if isUTF8(name) {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("%w: invalid UTF-8", ErrDecode)
		}
		return string(raw), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("%w: unknown encoding %q", ErrDecode, name)
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return string(out), nil
}

// Encode converts a decoded string back to bytes in the named charset.
// Used when writing merge output for non-UTF-8 formats.
func Encode(s, name string) ([]byte, error) {
	if isUTF8(name) {
		return []byte(s), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrDecode, name)
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", name, err)
	}
	return out, nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
