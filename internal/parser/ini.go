package parser

import "regexp"

var (
	// The first bracketed section line is a mandatory header; initial
	// comments and blank lines belong to it.
	iniHeader = regexp.MustCompile(`(?m)^((?:\s*|[;#].*)\n)*\[.+?\]\n`)
	iniKey    = regexp.MustCompile(`(\s*)((?:[;#].*\n\s*)*)((.+?)=(.*))(\n?)`)
	iniFooter = regexp.MustCompile(`\s*(?:[;#].*\s*)*$`)
)

// iniParser tokenizes ini-style files of the form
//
//	# initial comment
//	[section]
//	#comment
//	key=value
type iniParser struct {
	base
}

func newINIParser(encoding string, junk *junkCounter) *iniParser {
	return &iniParser{
		base: base{
			reKey:    iniKey,
			reHeader: iniHeader,
			reFooter: iniFooter,
			canMerge: true,
			encoding: encoding,
			junk:     junk,
		},
	}
}

func (p *iniParser) Parse(raw []byte) (*Resource, error) {
	ctx, err := p.decode(raw)
	if err != nil {
		return nil, err
	}
	return parse(p, ctx, p.junk), nil
}
