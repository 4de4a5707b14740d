package member

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

// entity keys the cache tags for members.
const entity = "members"

// Service handles member operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new member service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create validates input and inserts a new member. The second return value
// lists the cache tags the boundary should invalidate on success.
func (s *Service) Create(ctx context.Context, in Input) (forms.Result[*Member], []string) {
	if errs := ValidateInput(in); errs.Any() {
		return forms.Fail[*Member](errs), nil
	}

	now := time.Now().UTC()
	mem := &Member{
		Fields:    in.fields(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, mem); err != nil {
		return forms.Fail[*Member](s.mutationErrors("create", err)), nil
	}

	return forms.OK(mem), []string{cache.ListTag(entity)}
}

// Update validates input, snapshots the current row into history, and
// overwrites the member's domain fields.
func (s *Service) Update(ctx context.Context, id int64, in Input) (forms.Result[*Member], []string) {
	if errs := ValidateInput(in); errs.Any() {
		return forms.Fail[*Member](errs), nil
	}

	mem, err := s.repo.Update(ctx, id, in.fields(), time.Now().UTC())
	if err != nil {
		return forms.Fail[*Member](s.mutationErrors("update", err)), nil
	}

	return forms.OK(mem), s.mutationTags(id)
}

// Delete soft-deletes the member after snapshotting its pre-delete state.
func (s *Service) Delete(ctx context.Context, id int64) (forms.Result[*Member], []string) {
	mem, err := s.repo.SoftDelete(ctx, id, time.Now().UTC())
	if err != nil {
		return forms.Fail[*Member](s.mutationErrors("delete", err)), nil
	}

	return forms.OK(mem), s.mutationTags(id)
}

// RestoreVersion rewinds the member to a history snapshot, snapshotting
// the pre-restore state first. Restoring implicitly un-deletes.
func (s *Service) RestoreVersion(ctx context.Context, id, versionNumber int64) (forms.Result[*Member], []string) {
	mem, err := s.repo.Restore(ctx, id, versionNumber, time.Now().UTC())
	if err != nil {
		return forms.Fail[*Member](s.mutationErrors("restore", err)), nil
	}

	return forms.OK(mem), s.mutationTags(id)
}

// Get fetches a member by ID, soft-deleted or not.
func (s *Service) Get(ctx context.Context, id int64) (*Member, error) {
	mem, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting member: %w", err)
	}
	return mem, nil
}

// List returns one cursor-paginated page of members.
func (s *Service) List(ctx context.Context, opts ListOptions) (pagination.Page[Member], error) {
	fetch := func(ctx context.Context, req pagination.FetchRequest) ([]Member, error) {
		fetchOpts := opts
		fetchOpts.Cursor = req.Cursor
		fetchOpts.Direction = req.Direction
		fetchOpts.Limit = req.Limit
		return s.repo.List(ctx, fetchOpts)
	}
	cursorOf := func(m Member) string {
		if opts.Sort == SortName {
			return pagination.EncodeText(m.Name, m.ID)
		}
		return pagination.EncodeTime(m.CreatedAt, m.ID)
	}

	params := pagination.Params{Cursor: opts.Cursor, Direction: opts.Direction, Limit: opts.Limit}
	return pagination.Paginate(ctx, params, fetch, cursorOf)
}

// Options returns the id/name pairs for select inputs.
func (s *Service) Options(ctx context.Context) ([]Option, error) {
	return s.repo.Options(ctx)
}

// Versions returns the member's full history, newest version first.
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
		return nil, fmt.Errorf("getting member version: %w", err)
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
	case errors.Is(err, repository.ErrDuplicateEmail):
		return forms.Field("email", "email is already in use")
	case errors.Is(err, repository.ErrNotFound):
		return forms.Form("member not found")
	case errors.Is(err, repository.ErrVersionNotFound):
		return forms.Form("version not found")
	}
	if s.logger != nil {
		s.logger.Error("member mutation failed", "op", op, "error", err)
	}
	return forms.Form("failed to " + op + " member")
}
