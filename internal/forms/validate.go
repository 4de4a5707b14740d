package forms

import (
	"net/mail"
	"regexp"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a lowercase dash-separated slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ValidEmail reports whether s parses as a bare email address.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
