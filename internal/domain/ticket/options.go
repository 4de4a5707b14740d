package ticket

import "github.com/pulseboard/pulseboard/internal/pagination"

// Sort selects the primary list ordering.
type Sort string

const (
	// SortCreatedAt orders newest first.
	SortCreatedAt Sort = "createdAt"
	// SortTitle orders alphabetically.
	SortTitle Sort = "title"
)

// ListOptions filter and paginate the ticket list.
type ListOptions struct {
	Cursor         string
	Direction      pagination.Direction
	Limit          int
	Search         string
	Sort           Sort
	ProjectID      *int64
	IncludeDeleted bool
}
