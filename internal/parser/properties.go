package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	propKey = regexp.MustCompile(
		`(?m)^(\s*)((?:[#!].*?\n\s*)*)([^#!\s\n][^=:\n]*?)\s*[:=][ \t]*`)
	propHeader = regexp.MustCompile(`^\s*(?:[#!].*\s*)+`)
	propFooter = regexp.MustCompile(`\s*(?:[#!].*\s*)*$`)
	// Escape decoding, separate from line continuation: \uXXXX with
	// 1-4 hex digits, backslash-newline-whitespace (logical line
	// join), or a single escaped character.
	propEscape = regexp.MustCompile(`\\(?:(u[0-9a-fA-F]{1,4})|(\n\s*)|(.))`)
)

// propertiesParser tokenizes key/value property files. Values are
// parsed line by line: a trailing odd run of backslashes continues the
// value on the next line.
type propertiesParser struct {
	base
}

func newPropertiesParser(encoding string, junk *junkCounter) *propertiesParser {
	return &propertiesParser{
		base: base{
			reKey:    propKey,
			reHeader: propHeader,
			reFooter: propFooter,
			post:     propertiesUnescape,
			canMerge: true,
			encoding: encoding,
			junk:     junk,
		},
	}
}

func (p *propertiesParser) Parse(raw []byte) (*Resource, error) {
	ctx, err := p.decode(raw)
	if err != nil {
		return nil, err
	}
	return parse(p, ctx, p.junk), nil
}

// header keeps an initial comment run only when it is a license block;
// anything else stays attached to the first entity.
func (p *propertiesParser) header(ctx *Context) int {
	if loc := matchAt(p.reHeader, ctx.Contents(), 0); loc != nil {
		h := ctx.Contents()[:loc[1]]
		if strings.Contains(h, "http://mozilla.org/MPL/2.0/") ||
			strings.Contains(h, "LICENSE BLOCK") {
			return loc[1]
		}
	}
	return 0
}

func (p *propertiesParser) next(ctx *Context, offset int) (Node, int) {
	contents := ctx.Contents()
	loc := matchAt(p.reKey, contents, offset)
	if loc == nil {
		if sl := searchFrom(p.reKey, contents, offset); sl != nil {
			return newJunk(ctx, Span{offset, sl[0]}, p.junk.next()), sl[0]
		}
		return nil, offset
	}

	keyEnd := loc[1]
	offset = keyEnd
	endval := len(contents)
	for {
		nl := strings.IndexByte(contents[offset:], '\n')
		if nl < 0 {
			endval = len(contents)
			offset = len(contents)
			break
		}
		nl += offset
		endval = nl
		run := trailingBackslashes(contents[offset:nl])
		offset = nl + 1
		// An even number of trailing backslashes is an escaped
		// backslash, not an escaped newline.
		if run%2 == 0 {
			break
		}
	}
	for endval > keyEnd && (contents[endval-1] == ' ' || contents[endval-1] == '\t') {
		endval--
	}

	e := &Entity{
		ctx:            ctx,
		post:           p.post,
		span:           Span{loc[0], offset},
		preWSSpan:      groupSpan(loc, 1),
		preCommentSpan: groupSpan(loc, 2),
		defSpan:        Span{loc[6], offset},
		keySpan:        groupSpan(loc, 3),
		valSpan:        Span{keyEnd, endval},
		postSpan:       Span{offset, offset},
	}
	return e, offset
}

func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n
}

var propKnownEscapes = map[string]string{
	"n": "\n", "r": "\r", "t": "\t", `\`: `\`,
}

func propertiesUnescape(val string) string {
	locs := propEscape.FindAllStringSubmatchIndex(val, -1)
	if locs == nil {
		return val
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(val[last:loc[0]])
		switch {
		case loc[2] >= 0: // \uXXXX
			n, err := strconv.ParseUint(val[loc[2]+1:loc[3]], 16, 32)
			if err == nil {
				b.WriteRune(rune(n))
			}
		case loc[4] >= 0: // escaped newline joins lines
		default:
			c := val[loc[6]:loc[7]]
			if known, ok := propKnownEscapes[c]; ok {
				c = known
			}
			b.WriteString(c)
		}
		last = loc[1]
	}
	b.WriteString(val[last:])
	return b.String()
}
