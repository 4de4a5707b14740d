package member

import "github.com/pulseboard/pulseboard/internal/pagination"

// Sort selects the primary list ordering.
type Sort string

const (
	// SortCreatedAt orders newest first.
	SortCreatedAt Sort = "createdAt"
	// SortName orders alphabetically by display name.
	SortName Sort = "name"
)

// ListOptions filter and paginate the member list.
type ListOptions struct {
	Cursor         string
	Direction      pagination.Direction
	Limit          int
	Search         string
	Sort           Sort
	IncludeDeleted bool
}
