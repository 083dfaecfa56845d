package checks

import (
	"regexp"
	"strings"
)

var (
	doubleQuotes = regexp.MustCompile(`""`)
	// silencer blanks escapes and paired quotes before the apostrophe
	// scan, keeping byte offsets aligned.
	silencer = regexp.MustCompile(`\\.|""`)
)

// checkApostrophes applies Android's quoting rules: paired straight
// quotes are always an error, and outside a fully quoted string every
// apostrophe must be backslash-escaped.
//
// https://developer.android.com/guide/topics/resources/string-resource#escaping_quotes
func checkApostrophes(value string) []Problem {
	var problems []Problem
	for _, m := range doubleQuotes.FindAllStringIndex(value, -1) {
		problems = append(problems, Problem{
			Severity: "error",
			Offset:   m[0],
			Message:  "Double straight quotes not allowed",
			Category: "android",
		})
	}
	value = silencer.ReplaceAllString(value, "  ")

	quoted := strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)
	if !quoted {
		for i := 0; i < len(value); i++ {
			if value[i] == '\'' {
				problems = append(problems, Problem{
					Severity: "error",
					Offset:   i,
					Message:  "Apostrophe must be escaped",
					Category: "android",
				})
			}
		}
	}
	return problems
}
