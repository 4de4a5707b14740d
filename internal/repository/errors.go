package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrVersionNotFound is returned when a requested history version
	// doesn't exist for the entity
	ErrVersionNotFound = errors.New("version not found")

	// ErrDuplicateSlug is returned when an insert or update would violate
	// the slug uniqueness constraint for the entity type
	ErrDuplicateSlug = errors.New("duplicate slug")

	// ErrDuplicateEmail is returned when a member insert or update would
	// violate the email uniqueness constraint
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
