// Package normalize converts raw message bodies (HTML or plain text)
// into clean, whitespace-normalized text and extracts outbound links.
package normalize

import (
	"regexp"
	"strings"
)

var (
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
	spaceRuns     = regexp.MustCompile(` {2,}`)
)

// Plain normalizes whitespace in already-plain text: runs of three or
// more newlines collapse to a single blank line, runs of two or more
// spaces collapse to one, and leading/trailing whitespace is trimmed.
// The transformation is idempotent. Empty input yields "".
func Plain(text string) string {
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
