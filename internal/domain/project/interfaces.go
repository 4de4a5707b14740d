package project

import (
	"context"
	"time"
)

// Repository provides persistence for projects and their history.
//
// Update, SoftDelete, and Restore each snapshot the pre-mutation row into
// history inside the same transaction as the mutation itself, so a failed
// transaction commits neither the snapshot nor the write.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context, opts ListOptions) ([]Project, error)
	Options(ctx context.Context) ([]Option, error)
	Update(ctx context.Context, id int64, fields Fields, now time.Time) (*Project, error)
	SoftDelete(ctx context.Context, id int64, now time.Time) (*Project, error)
	Restore(ctx context.Context, id, versionNumber int64, now time.Time) (*Project, error)

	Versions(ctx context.Context, entityID int64) ([]Version, error)
	Version(ctx context.Context, entityID, versionNumber int64) (*Version, error)
	VersionCount(ctx context.Context, entityID int64) (int64, error)
}
