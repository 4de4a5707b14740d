package ticket

import (
	"context"
	"time"
)

// Repository provides persistence for tickets and their history. The
// mutation methods snapshot the pre-mutation row into history inside the
// same transaction as the write.
type Repository interface {
	Create(ctx context.Context, tkt *Ticket) error
	Get(ctx context.Context, id int64) (*Ticket, error)
	List(ctx context.Context, opts ListOptions) ([]Ticket, error)
	Update(ctx context.Context, id int64, fields Fields, now time.Time) (*Ticket, error)
	SoftDelete(ctx context.Context, id int64, now time.Time) (*Ticket, error)
	Restore(ctx context.Context, id, versionNumber int64, now time.Time) (*Ticket, error)

	Versions(ctx context.Context, entityID int64) ([]Version, error)
	Version(ctx context.Context, entityID, versionNumber int64) (*Version, error)
	VersionCount(ctx context.Context, entityID int64) (int64, error)
}
