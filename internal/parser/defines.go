package parser

import "strings"

// definesParser tokenizes C-preprocessor-style define files:
// runs of non-define lines form the header and footer, and each
// localizable unit is a "#define NAME value" line with its preceding
// comments. Merging is disabled: an "#unfilter" directive must stay
// structurally last, which append-based merging cannot guarantee.
//
// RE2 has no negative lookahead for the "# but not #define" line
// class, so this grammar scans lines by hand instead of compiling
// patterns.
type definesParser struct {
	junkc    *junkCounter
	encoding string
}

func newDefinesParser(encoding string, junk *junkCounter) *definesParser {
	return &definesParser{junkc: junk, encoding: encoding}
}

func (p *definesParser) CanMerge() bool   { return false }
func (p *definesParser) Encoding() string { return p.encoding }

func (p *definesParser) Parse(raw []byte) (*Resource, error) {
	contents, err := decode(raw, p.encoding)
	if err != nil {
		return nil, err
	}
	return parse(p, NewContext(contents), p.junkc), nil
}

// header consumes leading whitespace and non-define comment lines.
func (p *definesParser) header(ctx *Context) int {
	s := ctx.Contents()
	i := wsLen(s, 0)
	for i < len(s) && isNonDefineComment(s[i:]) {
		e := lineEnd(s, i)
		i = wsLen(s, e)
	}
	return i
}

// footerAt consumes whitespace and non-define comment lines from
// offset, ending at the furthest line boundary reached.
func (p *definesParser) footerAt(ctx *Context, offset int) (int, bool) {
	s := ctx.Contents()
	best := -1
	i := offset
	j := wsLen(s, i)
	if v := lastLineBoundary(s, i, j); v >= 0 {
		best = v
	}
	i = j
	for i < len(s) && isNonDefineComment(s[i:]) {
		e := lineEnd(s, i)
		i = wsLen(s, e)
		if v := lastLineBoundary(s, e, i); v >= 0 {
			best = v
		}
	}
	if best < 0 {
		return offset, false
	}
	return best, true
}

func (p *definesParser) footerNonEmptyAt(ctx *Context, offset int) bool {
	end, ok := p.footerAt(ctx, offset)
	return ok && end > offset
}

func (p *definesParser) next(ctx *Context, offset int) (Node, int) {
	s := ctx.Contents()
	if e, end := p.matchDefineAt(ctx, offset); e != nil {
		return e, end
	}
	if p.footerNonEmptyAt(ctx, offset) {
		return nil, offset
	}
	// Junk recovery: candidate matches start at line boundaries.
	for i := offset; ; {
		nl := strings.IndexByte(s[i:], '\n')
		if nl < 0 {
			return nil, offset
		}
		i += nl + 1
		if e, _ := p.matchDefineAt(ctx, i); e != nil {
			return newJunk(ctx, Span{offset, i}, p.junkc.next()), i
		}
	}
}

// matchDefineAt matches, anchored at a line start:
// whitespace, non-define comment lines, then
// "#define<ht>NAME<ht>value" with trailing whitespace split off into
// the post span.
func (p *definesParser) matchDefineAt(ctx *Context, offset int) (*Entity, int) {
	s := ctx.Contents()
	if offset >= len(s) || !isLineStart(s, offset) {
		return nil, offset
	}
	preEnd := wsLen(s, offset)
	i := preEnd
	for i < len(s) && isLineStart(s, i) && isNonDefineComment(s[i:]) {
		e := lineEnd(s, i)
		i = wsLen(s, e)
	}
	defStart := i
	if !strings.HasPrefix(s[i:], "#define") {
		return nil, offset
	}
	i += len("#define")
	n := hspaceLen(s[i:])
	if n == 0 {
		return nil, offset
	}
	i += n
	keyStart := i
	n = wordLen(s[i:])
	if n == 0 {
		return nil, offset
	}
	keyEnd := i + n
	i = keyEnd
	n = hspaceLen(s[i:])
	if n == 0 {
		return nil, offset
	}
	valStart := i + n
	e := lineEnd(s, valStart)
	valEnd := e
	for valEnd > valStart && (s[valEnd-1] == ' ' || s[valEnd-1] == '\t') {
		valEnd--
	}
	postEnd := e
	if postEnd < len(s) {
		postEnd++ // the newline belongs to the entity
	}
	ent := &Entity{
		ctx:            ctx,
		span:           Span{offset, postEnd},
		preWSSpan:      Span{offset, preEnd},
		preCommentSpan: Span{preEnd, defStart},
		defSpan:        Span{defStart, valEnd},
		keySpan:        Span{keyStart, keyEnd},
		valSpan:        Span{valStart, valEnd},
		postSpan:       Span{valEnd, postEnd},
	}
	return ent, postEnd
}

// isNonDefineComment reports a line starting with '#' that is not a
// define directive ("#define" followed by whitespace).
func isNonDefineComment(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	if strings.HasPrefix(s, "#define") {
		if len(s) == len("#define") {
			return true // bare "#define" at EOF is no directive
		}
		return !isSpaceByte(s[len("#define")])
	}
	return true
}

func isLineStart(s string, i int) bool {
	return i == 0 || s[i-1] == '\n'
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// wsLen returns the index after the whitespace run starting at i.
func wsLen(s string, i int) int {
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	return i
}

// lineEnd returns the index of the newline ending the line at i, or
// len(s).
func lineEnd(s string, i int) int {
	if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
		return i + nl
	}
	return len(s)
}

func hspaceLen(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

func wordLen(s string) int {
	n := 0
	for n < len(s) {
		c := s[n]
		if c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			n++
			continue
		}
		break
	}
	return n
}

// lastLineBoundary finds the largest p in [lo, hi] that sits at a line
// end (a newline byte or end of input), or -1.
func lastLineBoundary(s string, lo, hi int) int {
	for p := hi; p >= lo; p-- {
		if p == len(s) || s[p] == '\n' {
			return p
		}
	}
	return -1
}
