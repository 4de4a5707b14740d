package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pulseboard/pulseboard/internal/cache"
	"github.com/pulseboard/pulseboard/internal/forms"
	"github.com/pulseboard/pulseboard/internal/pagination"
	"github.com/pulseboard/pulseboard/internal/repository"
	"github.com/pulseboard/pulseboard/internal/version"
)

// entity keys the cache tags for tickets.
const entity = "tickets"

// Service handles ticket operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new ticket service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create validates input and inserts a new ticket. The second return value
// lists the cache tags the boundary should invalidate on success.
func (s *Service) Create(ctx context.Context, in Input) (forms.Result[*Ticket], []string) {
	if errs := ValidateInput(in); errs.Any() {
		return forms.Fail[*Ticket](errs), nil
	}

	now := time.Now().UTC()
	tkt := &Ticket{
		Fields:    in.fields(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, tkt); err != nil {
		return forms.Fail[*Ticket](s.mutationErrors("create", err)), nil
	}

	return forms.OK(tkt), []string{cache.ListTag(entity)}
}

// Update validates input, snapshots the current row into history, and
// overwrites the ticket's domain fields.
func (s *Service) Update(ctx context.Context, id int64, in Input) (forms.Result[*Ticket], []string) {
	if errs := ValidateInput(in); errs.Any() {
		return forms.Fail[*Ticket](errs), nil
	}

	tkt, err := s.repo.Update(ctx, id, in.fields(), time.Now().UTC())
	if err != nil {
		return forms.Fail[*Ticket](s.mutationErrors("update", err)), nil
	}

	return forms.OK(tkt), s.mutationTags(id)
}

// Delete soft-deletes the ticket after snapshotting its pre-delete state.
func (s *Service) Delete(ctx context.Context, id int64) (forms.Result[*Ticket], []string) {
	tkt, err := s.repo.SoftDelete(ctx, id, time.Now().UTC())
	if err != nil {
		return forms.Fail[*Ticket](s.mutationErrors("delete", err)), nil
	}

	return forms.OK(tkt), s.mutationTags(id)
}

// RestoreVersion rewinds the ticket to a history snapshot, snapshotting
// the pre-restore state first. Restoring implicitly un-deletes.
func (s *Service) RestoreVersion(ctx context.Context, id, versionNumber int64) (forms.Result[*Ticket], []string) {
	tkt, err := s.repo.Restore(ctx, id, versionNumber, time.Now().UTC())
	if err != nil {
		return forms.Fail[*Ticket](s.mutationErrors("restore", err)), nil
	}

	return forms.OK(tkt), s.mutationTags(id)
}

// Get fetches a ticket by ID, soft-deleted or not.
func (s *Service) Get(ctx context.Context, id int64) (*Ticket, error) {
	tkt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	return tkt, nil
}

// List returns one cursor-paginated page of tickets.
func (s *Service) List(ctx context.Context, opts ListOptions) (pagination.Page[Ticket], error) {
	fetch := func(ctx context.Context, req pagination.FetchRequest) ([]Ticket, error) {
		fetchOpts := opts
		fetchOpts.Cursor = req.Cursor
		fetchOpts.Direction = req.Direction
		fetchOpts.Limit = req.Limit
		return s.repo.List(ctx, fetchOpts)
	}
	cursorOf := func(t Ticket) string {
		if opts.Sort == SortTitle {
			return pagination.EncodeText(t.Title, t.ID)
		}
		return pagination.EncodeTime(t.CreatedAt, t.ID)
	}

	params := pagination.Params{Cursor: opts.Cursor, Direction: opts.Direction, Limit: opts.Limit}
	return pagination.Paginate(ctx, params, fetch, cursorOf)
}

// Versions returns the ticket's full history, newest version first.
func (s *Service) Versions(ctx context.Context, id int64) ([]Version, error) {
	return s.repo.Versions(ctx, id)
}

// Version returns one history snapshot.
func (s *Service) Version(ctx context.Context, id, versionNumber int64) (*Version, error) {
	v, err := s.repo.Version(ctx, id, versionNumber)
	if err != nil {
		if errors.Is(err, repository.ErrVersionNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("getting ticket version: %w", err)
	}
	return v, nil
}

// VersionCount returns the highest version number, zero when no history
// exists.
func (s *Service) VersionCount(ctx context.Context, id int64) (int64, error) {
	return s.repo.VersionCount(ctx, id)
}

// CompareVersions diffs two history snapshots field by field. It returns
// nil without error when either version doesn't exist.
func (s *Service) CompareVersions(ctx context.Context, id, fromVersion, toVersion int64) (*version.Diff, error) {
	from, err := s.repo.Version(ctx, id, fromVersion)
	if err != nil {
		if errors.Is(err, repository.ErrVersionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting from version: %w", err)
	}
	to, err := s.repo.Version(ctx, id, toVersion)
	if err != nil {
		if errors.Is(err, repository.ErrVersionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting to version: %w", err)
	}

	return &version.Diff{
		Changes:     version.Compare(from.Diffable(), to.Diffable()),
		FromVersion: fromVersion,
		ToVersion:   toVersion,
	}, nil
}

func (s *Service) mutationTags(id int64) []string {
	return []string{
		cache.ListTag(entity),
		cache.DetailTag(entity, id),
		cache.VersionTag(entity, id),
	}
}

func (s *Service) mutationErrors(op string, err error) forms.Errors {
	switch {
	case errors.Is(err, repository.ErrDuplicateSlug):
		return forms.Field("slug", "slug is already in use")
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return forms.Field("projectId", "project does not exist")
	case errors.Is(err, repository.ErrNotFound):
		return forms.Form("ticket not found")
	case errors.Is(err, repository.ErrVersionNotFound):
		return forms.Form("version not found")
	}
	if s.logger != nil {
		s.logger.Error("ticket mutation failed", "op", op, "error", err)
	}
	return forms.Form("failed to " + op + " ticket")
}
