package project

import "github.com/pulseboard/pulseboard/internal/pagination"

// Sort selects the primary list ordering. Cursors are only comparable
// within one (sort, direction) configuration.
type Sort string

const (
	// SortCreatedAt orders newest first.
	SortCreatedAt Sort = "createdAt"
	// SortTitle orders alphabetically.
	SortTitle Sort = "title"
)

// ListOptions filter and paginate the project list. The service passes the
// caller's options through to the repository with the paginator's
// over-fetched cursor/direction/limit substituted in.
type ListOptions struct {
	Cursor         string
	Direction      pagination.Direction
	Limit          int
	Search         string
	Sort           Sort
	IncludeDeleted bool
}
