// Package htmlsanitize strips unsafe HTML from creator-supplied contest
// content (descriptions and task instructions) before it is stored. The
// client renders these fields as HTML, so script injection is removed at
// the write path rather than trusting every consumer to escape.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with unsafe tags and attributes removed. Formatting
// markup common in rich-text editors (paragraphs, emphasis, lists, links)
// is preserved.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
