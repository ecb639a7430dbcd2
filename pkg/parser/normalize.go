package parser

import (
	"regexp"
	"strings"
)

var (
	boldMarker    = regexp.MustCompile(`\*{1,3}`)
	headerMarker  = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	backtickFence = regexp.MustCompile("`{1,3}")
)

// StripMarkdown removes the formatting markers the generation service
// emits despite being told not to: emphasis asterisks, heading hashes,
// and backtick fences. Section labels and text content are untouched.
func StripMarkdown(raw string) string {
	s := boldMarker.ReplaceAllString(raw, "")
	s = headerMarker.ReplaceAllString(s, "")
	s = backtickFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
