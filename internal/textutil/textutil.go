package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	brTag   = regexp.MustCompile(`<br\s*/?>`)
	sgmlTag = regexp.MustCompile(`</?\w+.*?>`)
)

// CountWords approximates the natural-language word count of a value
// for weighted completion metrics. Line-break tags become newlines and
// other inline markup is stripped before splitting on whitespace.
func CountWords(value string) int {
	value = brTag.ReplaceAllString(value, "\n")
	value = sgmlTag.ReplaceAllString(value, "")
	return len(strings.Fields(value))
}

// Hash computes a SHA-256 hex hash of a string for stable row ids.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to maxLen, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
