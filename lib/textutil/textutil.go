package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize lowercases text and collapses all whitespace runs into a
// single space, so phrase checks behave the same no matter how the
// markup was indented.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = strings.Trim(text, " \n\t")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return text
}

// ContainsAny reports whether text contains at least one of the given
// phrases. Phrases are expected to already be lowercase.
func ContainsAny(text string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
