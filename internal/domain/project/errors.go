package project

import "errors"

var (
	// ErrNotFound indicates the project doesn't exist.
	ErrNotFound = errors.New("project not found")
	// ErrVersionNotFound indicates the requested history version doesn't exist.
	ErrVersionNotFound = errors.New("project version not found")
)
