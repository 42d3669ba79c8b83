// Package slug derives URL-safe lookup keys from post titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	// Separators include the information separators \x1c-\x1f and NEL.
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s\v\p{Z}\x1c-\x1f\x{85}-]`)
	spaceRuns  = regexp.MustCompile(`[\s\v\p{Z}\x1c-\x1f\x{85}]+`)
)

// Make lower-cases title, removes everything except letters, digits,
// underscores, whitespace and hyphens, turns each whitespace run into a
// single hyphen and trims hyphens from both ends.
//
// Make(Make(s)) == Make(s). Different titles may produce the same slug.
func Make(title string) string {
	s := strings.ToLower(title)
	s = disallowed.ReplaceAllString(s, "")
	s = spaceRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
