// Package checks runs content checks on localized entities: charset
// decoding artifacts, printf-style formatter agreement with the
// reference, and Android string escaping rules.
package checks

import (
	"path/filepath"
	"strings"

	"locale-qa/internal/parser"
	"locale-qa/internal/paths"
)

// Problem is one finding for a localized entity. The position is
// either a byte offset into the raw value, or a line/column pair
// within the value when LineCol is set.
type Problem struct {
	Severity string // "error" or "warning"
	Offset   int
	Line     int
	Col      int
	LineCol  bool
	Message  string
	Category string
}

// Checker inspects a localized entity against its reference.
type Checker interface {
	Check(ref, l10n *parser.Entity) []Problem
}

// GetChecker picks the checker for a file. extra enables opt-in check
// sets ("android" turns on apostrophe escaping rules). Returns nil for
// files with no applicable checks.
func GetChecker(file paths.File, extra []string) Checker {
	switch strings.ToLower(filepath.Ext(file.Path)) {
	case ".properties":
		c := &propertiesChecker{}
		for _, name := range extra {
			if name == "android" {
				c.android = true
			}
		}
		return c
	case ".dtd", ".ini", ".inc":
		return encodingChecker{}
	}
	return nil
}

// encodingChecker flags U+FFFD replacement characters that a lossy
// charset decode left in the localized value.
type encodingChecker struct{}

func (encodingChecker) Check(ref, l10n *parser.Entity) []Problem {
	return checkEncoding(l10n)
}

func checkEncoding(l10n *parser.Entity) []Problem {
	var problems []Problem
	raw := l10n.RawVal()
	for i, r := range raw {
		if r == '�' {
			problems = append(problems, Problem{
				Severity: "warning",
				Offset:   i,
				Message:  "� in: " + l10n.Key(),
				Category: "encodings",
			})
		}
	}
	return problems
}

// propertiesChecker covers .properties values: encoding artifacts,
// printf formatter agreement, and optionally Android escaping rules.
type propertiesChecker struct {
	android bool
}

func (c *propertiesChecker) Check(ref, l10n *parser.Entity) []Problem {
	problems := checkEncoding(l10n)
	if c.android {
		problems = append(problems, checkApostrophes(l10n.Val())...)
	}
	params, count, refProblems := getParams(ref.Val())
	for _, p := range refProblems {
		// Internal inconsistencies of the reference are not the
		// translator's fault.
		p.Severity = "warning"
		problems = append(problems, p)
	}
	if len(params) > 0 {
		problems = append(problems, checkParams(params, count, l10n.Val())...)
	}
	return problems
}
