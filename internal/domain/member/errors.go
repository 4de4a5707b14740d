package member

import "errors"

var (
	// ErrNotFound indicates the member doesn't exist.
	ErrNotFound = errors.New("member not found")
	// ErrVersionNotFound indicates the requested history version doesn't exist.
	ErrVersionNotFound = errors.New("member version not found")
)
