// Package inputval validates request payload fields before any store
// access. Operations validate their payloads with a Checker and abort with
// a validation failure listing every bad field, so malformed input never
// reaches a collection.
package inputval

import (
	"net/mail"
	"strings"
	"time"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
)

// IsValidEmail reports whether addr parses as a bare RFC 5322 address
// (no display name).
func IsValidEmail(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return false
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return false
	}
	// Reject display-name forms like "User <user@example.com>".
	return parsed.Address == addr
}

// Checker accumulates field problems for one operation's payload.
type Checker struct {
	problems []string
}

// Require records a problem when value is empty or whitespace.
func (c *Checker) Require(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.problems = append(c.problems, field+" is required")
	}
}

// Email records a problem when value is not a valid address.
func (c *Checker) Email(field, value string) {
	if !IsValidEmail(value) {
		c.problems = append(c.problems, field+" must be a valid email address")
	}
}

// NonNegative records a problem for negative amounts.
func (c *Checker) NonNegative(field string, value int64) {
	if value < 0 {
		c.problems = append(c.problems, field+" must not be negative")
	}
}

// Future records a problem when t is zero or in the past.
func (c *Checker) Future(field string, t time.Time) {
	if t.IsZero() {
		c.problems = append(c.problems, field+" is required")
		return
	}
	if t.Before(time.Now()) {
		c.problems = append(c.problems, field+" must be in the future")
	}
}

// OneOf records a problem when value is not in allowed.
func (c *Checker) OneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.problems = append(c.problems, field+" must be one of: "+strings.Join(allowed, ", "))
}

// Err returns a validation error listing every recorded problem, or nil
// when the payload is clean.
func (c *Checker) Err() error {
	if len(c.problems) == 0 {
		return nil
	}
	return apperr.New(apperr.Validation, strings.Join(c.problems, "; "))
}
