package ticket

import "errors"

var (
	// ErrNotFound indicates the ticket doesn't exist.
	ErrNotFound = errors.New("ticket not found")
	// ErrVersionNotFound indicates the requested history version doesn't exist.
	ErrVersionNotFound = errors.New("ticket version not found")
)
