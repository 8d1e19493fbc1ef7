package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var ordinalPrefixRegex = regexp.MustCompile(`^\d+[.)]\s*`)

// CleanSubject collapses whitespace runs to single spaces, trims, and
// strips leading ordinal-list prefixes like "3. " or "2) " that the
// portal prepends to subject names in some schedule layouts.
func CleanSubject(raw string) string {
	s := whitespaceRegex.ReplaceAllString(raw, " ")
	s = strings.TrimSpace(s)
	for {
		stripped := ordinalPrefixRegex.ReplaceAllString(s, "")
		if stripped == s {
			return s
		}
		s = stripped
	}
}
