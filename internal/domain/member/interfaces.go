package member

import (
	"context"
	"time"
)

// Repository provides persistence for members and their history. The
// mutation methods snapshot the pre-mutation row into history inside the
// same transaction as the write.
type Repository interface {
	Create(ctx context.Context, mem *Member) error
	Get(ctx context.Context, id int64) (*Member, error)
	List(ctx context.Context, opts ListOptions) ([]Member, error)
	Options(ctx context.Context) ([]Option, error)
	Update(ctx context.Context, id int64, fields Fields, now time.Time) (*Member, error)
	SoftDelete(ctx context.Context, id int64, now time.Time) (*Member, error)
	Restore(ctx context.Context, id, versionNumber int64, now time.Time) (*Member, error)

	Versions(ctx context.Context, entityID int64) ([]Version, error)
	Version(ctx context.Context, entityID, versionNumber int64) (*Version, error)
	VersionCount(ctx context.Context, entityID int64) (int64, error)
}
