package artifact

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("^```[a-zA-Z0-9]*\n?")
	trailingFence = regexp.MustCompile("\n?```$")
)

// Normalize strips at most one leading code-fence line (with or without
// a language tag) and at most one trailing fence line, then trims
// surrounding whitespace. Fences embedded in the middle of the body are
// left alone, and normalizing already-clean content is a no-op.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
