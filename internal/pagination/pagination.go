// Package pagination implements forward/backward cursor pagination over an
// ordered data source. The paginator itself never touches storage: callers
// supply a fetcher closure that retrieves one over-fetched page under the
// caller's own filter and sort conditions.
package pagination

import "context"

// Direction selects which way the page walks relative to the cursor.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// DefaultLimit is the page size used when the caller doesn't specify one.
const DefaultLimit = 20

// Params are the caller-facing pagination inputs.
type Params struct {
	Cursor    string
	Direction Direction
	Limit     int
}

// FetchRequest is what the paginator hands to the fetcher. Limit is always
// one more than the requested page size so the paginator can detect whether
// another page exists without a count query.
type FetchRequest struct {
	Cursor    string
	Direction Direction
	Limit     int
}

// Fetcher retrieves one over-fetched page of items for the given request.
type Fetcher[T any] func(ctx context.Context, req FetchRequest) ([]T, error)

// PageInfo describes the position of a page within the overall result set.
type PageInfo struct {
	HasNext     bool   `json:"hasNext"`
	HasPrevious bool   `json:"hasPrevious"`
	NextCursor  string `json:"nextCursor,omitempty"`
	PrevCursor  string `json:"prevCursor,omitempty"`
}

// Page is one page of items in canonical forward order plus its PageInfo.
type Page[T any] struct {
	Items    []T      `json:"items"`
	PageInfo PageInfo `json:"pageInfo"`
}

// Paginate fetches one page of at most params.Limit items. Backward pages
// are reversed before being returned so items are always presented in the
// same canonical forward order regardless of fetch direction.
//
// For backward fetches, HasNext is a heuristic: it is true when a cursor
// was supplied or when exactly limit+1 rows came back, which can report
// true even when no further forward page exists. This matches the behavior
// callers already depend on and is kept as-is. Similarly, an empty page can
// report HasNext/HasPrevious true when a cursor was supplied.
func Paginate[T any](ctx context.Context, params Params, fetch Fetcher[T], cursorOf func(T) string) (Page[T], error) {
	limit := params.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	direction := params.Direction
	if direction != DirectionBackward {
		direction = DirectionForward
	}

	records, err := fetch(ctx, FetchRequest{
		Cursor:    params.Cursor,
		Direction: direction,
		Limit:     limit + 1,
	})
	if err != nil {
		return Page[T]{}, err
	}

	hasMore := len(records) > limit
	trimmed := records
	if hasMore {
		trimmed = records[:limit]
	}

	items := trimmed
	if direction == DirectionBackward {
		items = make([]T, len(trimmed))
		for i, item := range trimmed {
			items[len(trimmed)-1-i] = item
		}
	}

	info := PageInfo{
		NextCursor: params.Cursor,
		PrevCursor: params.Cursor,
	}
	if direction == DirectionForward {
		info.HasNext = hasMore
		info.HasPrevious = params.Cursor != ""
	} else {
		info.HasNext = params.Cursor != "" || len(records) == limit+1
		info.HasPrevious = hasMore
	}
	if len(items) > 0 {
		info.NextCursor = cursorOf(items[len(items)-1])
		info.PrevCursor = cursorOf(items[0])
	}

	return Page[T]{Items: items, PageInfo: info}, nil
}
