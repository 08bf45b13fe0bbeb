// Package normalize canonicalizes user-supplied identity fields before they
// become document keys. Emails are the lookup key for users and the
// correlation key between contests and participations, so every write and
// query path must fold them the same way.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses inner runs of whitespace.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold returns the case-insensitive sortable form of a display string.
func Fold(s string) string {
	return text.Fold(s)
}
