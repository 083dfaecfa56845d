package parser

import "regexp"

// Character classes from the XML 1.1 Name productions, minus the dash
// for comment bodies.
const (
	dtdCharMinusDash = `\x{09}\x{0A}\x{0D}\x{20}-\x{2C}\x{2E}-\x{D7FF}\x{E000}-\x{FFFD}`
	xmlComment       = `<!--(?:-?[` + dtdCharMinusDash + `])*?-->`
	dtdNameStart     = `:A-Z_a-z\x{C0}-\x{D6}\x{D8}-\x{F6}\x{F8}-\x{2FF}` +
		`\x{370}-\x{37D}\x{37F}-\x{1FFF}\x{200C}-\x{200D}\x{2070}-\x{218F}` +
		`\x{2C00}-\x{2FEF}\x{3001}-\x{D7FF}\x{F900}-\x{FDCF}\x{FDF0}-\x{FFFD}`
	dtdNameChar = dtdNameStart + `\-.0-9\x{B7}\x{300}-\x{36F}\x{203F}-\x{2040}`
	dtdName     = `[` + dtdNameStart + `][` + dtdNameChar + `]*`
)

var (
	dtdKey = regexp.MustCompile(
		`(?:(\s*)((?:` + xmlComment + `\s*)*)` +
			`(<!ENTITY\s+(` + dtdName + `)\s+("[^"]*"|'[^']*'?)\s*>)` +
			`([ \t]*(?:` + xmlComment + `\s*)*\n?)?)`)
	// License blocks at the top of a file are header, not comments of
	// the first entity. A BOM is tolerated.
	dtdHeader = regexp.MustCompile(
		`(?s)^\x{FEFF}?(\s*<!--.*(http://mozilla\.org/MPL/2\.0/|LICENSE BLOCK)([^-]+-)*[^-]+-->)?`)
	dtdFooter = regexp.MustCompile(`\s*(<!--([^-]+-)*[^-]+-->\s*)*$`)
	// Parameter-entity declaration with its immediate reference:
	// <!ENTITY % name SYSTEM "url"> %name;
	dtdPE = regexp.MustCompile(
		`(?:(\s*)((?:` + xmlComment + `\s*)*)` +
			`(<!ENTITY\s+%\s+(` + dtdName + `)\s+SYSTEM\s+("[^"]*"|'[^']*')\s*>\s*%` + dtdName + `;)` +
			`([ \t]*(?:` + xmlComment + `\s*)*\n?)?)`)
)

// dtdParser tokenizes DTD-like markup-entity files.
type dtdParser struct {
	base
	rePE *regexp.Regexp
}

func newDTDParser(encoding string, junk *junkCounter) *dtdParser {
	p := &dtdParser{
		base: base{
			reKey:    dtdKey,
			reHeader: dtdHeader,
			reFooter: dtdFooter,
			canMerge: true,
			encoding: encoding,
			junk:     junk,
		},
		rePE: dtdPE,
	}
	p.base.build = p.buildEntity
	return p
}

func (p *dtdParser) Parse(raw []byte) (*Resource, error) {
	ctx, err := p.decode(raw)
	if err != nil {
		return nil, err
	}
	return parse(p, ctx, p.junk), nil
}

// next falls back to the parameter-entity form when the generic
// pattern produced junk or nothing at this offset.
func (p *dtdParser) next(ctx *Context, offset int) (Node, int) {
	node, inner := p.base.next(ctx, offset)
	if node == nil || isJunk(node) {
		if loc := matchAt(p.rePE, ctx.Contents(), offset); loc != nil {
			// The PE value span keeps its quotes.
			return p.entityFromGroups(ctx, loc), loc[1]
		}
	}
	return node, inner
}

// buildEntity trims the surrounding quotes off the value span.
func (p *dtdParser) buildEntity(ctx *Context, loc []int) *Entity {
	e := p.entityFromGroups(ctx, loc)
	e.valSpan = Span{e.valSpan.Start + 1, e.valSpan.End - 1}
	return e
}

func isJunk(n Node) bool {
	_, ok := n.(*Junk)
	return ok
}
