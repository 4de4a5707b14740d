package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/domain/project"
	"github.com/pulseboard/pulseboard/internal/pagination"
	"github.com/pulseboard/pulseboard/internal/repository"
)

func newProject(slug, title string, createdAt time.Time) *project.Project {
	desc := "desc for " + slug
	owner := "Owner " + slug
	return &project.Project{
		Fields: project.Fields{
			Slug:        slug,
			Title:       title,
			Description: &desc,
			Status:      project.StatusActive,
			Owner:       &owner,
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("alpha", "Alpha", time.Now().UTC())
	err := repo.Create(ctx, proj)
	require.NoError(t, err)
	require.Positive(t, proj.ID)

	retrieved, err := repo.Get(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, proj.Slug, retrieved.Slug)
	require.Equal(t, proj.Title, retrieved.Title)
	require.Equal(t, *proj.Description, *retrieved.Description)
	require.Nil(t, retrieved.DeletedAt)

	_, err = repo.Get(ctx, 9999)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_DuplicateSlug(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newProject("alpha", "Alpha", now)))

	err := repo.Create(ctx, newProject("alpha", "Alpha Again", now))
	require.ErrorIs(t, err, repository.ErrDuplicateSlug)
}

func TestProjectRepository_SlugReservedAfterSoftDelete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	proj := newProject("alpha", "Alpha", now)
	require.NoError(t, repo.Create(ctx, proj))

	_, err := repo.SoftDelete(ctx, proj.ID, now.Add(time.Second))
	require.NoError(t, err)

	// The slug stays taken even though the row is soft-deleted.
	err = repo.Create(ctx, newProject("alpha", "Alpha Reborn", now))
	require.ErrorIs(t, err, repository.ErrDuplicateSlug)
}

func TestProjectRepository_UpdateSnapshotsHistory(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	proj := newProject("alpha", "Title v0", base)
	require.NoError(t, repo.Create(ctx, proj))

	count, err := repo.VersionCount(ctx, proj.ID)
	require.NoError(t, err)
	require.Zero(t, count, "creation writes no history")

	const updates = 3
	for i := 1; i <= updates; i++ {
		fields := proj.Fields
		fields.Title = fmt.Sprintf("Title v%d", i)
		_, err := repo.Update(ctx, proj.ID, fields, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	count, err = repo.VersionCount(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, int64(updates), count)

	// Newest first, contiguous numbering, each snapshot is the pre-update
	// state.
	versions, err := repo.Versions(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, versions, updates)
	for i, v := range versions {
		require.Equal(t, int64(updates-i), v.VersionNumber)
		require.Equal(t, fmt.Sprintf("Title v%d", updates-i-1), v.Title)
		require.Equal(t, proj.ID, v.EntityID)
	}

	v1, err := repo.Version(ctx, proj.ID, 1)
	require.NoError(t, err)
	require.Equal(t, "Title v0", v1.Title)

	_, err = repo.Version(ctx, proj.ID, int64(updates)+1)
	require.ErrorIs(t, err, repository.ErrVersionNotFound)
}

func TestProjectRepository_UpdateMissingProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	_, err := repo.Update(ctx, 42, project.Fields{Slug: "x", Title: "X", Status: project.StatusActive}, time.Now().UTC())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_RestoreRewindsAndUndeletes(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	proj := newProject("alpha", "Original", base)
	require.NoError(t, repo.Create(ctx, proj))

	fields := proj.Fields
	fields.Title = "Changed"
	fields.Status = project.StatusPaused
	_, err := repo.Update(ctx, proj.ID, fields, base.Add(time.Second))
	require.NoError(t, err)

	_, err = repo.SoftDelete(ctx, proj.ID, base.Add(2*time.Second))
	require.NoError(t, err)

	// Version 1 holds the original state.
	restored, err := repo.Restore(ctx, proj.ID, 1, base.Add(3*time.Second))
	require.NoError(t, err)
	require.Equal(t, "Original", restored.Title)
	require.Equal(t, project.StatusActive, restored.Status)
	require.Nil(t, restored.DeletedAt, "restoring un-deletes")

	retrieved, err := repo.Get(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, "Original", retrieved.Title)
	require.Nil(t, retrieved.DeletedAt)

	// The pre-restore state got its own snapshot: update, delete, restore.
	count, err := repo.VersionCount(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	preRestore, err := repo.Version(ctx, proj.ID, 3)
	require.NoError(t, err)
	require.Equal(t, "Changed", preRestore.Title)
}

func TestProjectRepository_RestoreMissingVersion(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("alpha", "Alpha", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, proj))

	_, err := repo.Restore(ctx, proj.ID, 7, time.Now().UTC())
	require.ErrorIs(t, err, repository.ErrVersionNotFound)

	// A failed restore leaves no stray snapshot behind.
	count, err := repo.VersionCount(ctx, proj.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestProjectRepository_ListFiltersDeleted(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	alive := newProject("alive", "Alive", base)
	doomed := newProject("doomed", "Doomed", base.Add(time.Second))
	require.NoError(t, repo.Create(ctx, alive))
	require.NoError(t, repo.Create(ctx, doomed))

	_, err := repo.SoftDelete(ctx, doomed.ID, base.Add(2*time.Second))
	require.NoError(t, err)

	rows, err := repo.List(ctx, project.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "alive", rows[0].Slug)

	rows, err = repo.List(ctx, project.ListOptions{Limit: 10, IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestProjectRepository_ListSearch(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newProject("atlas", "Atlas Redesign", base)))
	require.NoError(t, repo.Create(ctx, newProject("beacon", "Beacon Launch", base.Add(time.Second))))

	rows, err := repo.List(ctx, project.ListOptions{Limit: 10, Search: "REDESIGN"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "atlas", rows[0].Slug)
}

func TestProjectRepository_ListCursorForward(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	var projects []*project.Project
	for i := 0; i < 5; i++ {
		proj := newProject(fmt.Sprintf("proj-%d", i), fmt.Sprintf("Project %d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.Create(ctx, proj))
		projects = append(projects, proj)
	}

	// Newest first: proj-4 down to proj-0.
	rows, err := repo.List(ctx, project.ListOptions{Limit: 3})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "proj-4", rows[0].Slug)

	cursor := pagination.EncodeTime(rows[1].CreatedAt, rows[1].ID)
	rows, err = repo.List(ctx, project.ListOptions{Limit: 3, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "proj-2", rows[0].Slug)
	require.Equal(t, "proj-0", rows[2].Slug)
}

func TestProjectRepository_ListTitleSort(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newProject("cherry", "Cherry", base)))
	require.NoError(t, repo.Create(ctx, newProject("apple", "Apple", base.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, newProject("banana", "Banana", base.Add(2*time.Second))))

	rows, err := repo.List(ctx, project.ListOptions{Limit: 10, Sort: project.SortTitle})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Apple", rows[0].Title)
	require.Equal(t, "Banana", rows[1].Title)
	require.Equal(t, "Cherry", rows[2].Title)

	// Resume after Apple.
	cursor := pagination.EncodeText(rows[0].Title, rows[0].ID)
	rows, err = repo.List(ctx, project.ListOptions{Limit: 10, Sort: project.SortTitle, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Banana", rows[0].Title)
}

func TestProjectRepository_Options(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newProject("zeta", "Zeta", base)))
	require.NoError(t, repo.Create(ctx, newProject("alpha", "Alpha", base.Add(time.Second))))
	gone := newProject("gone", "Gone", base.Add(2*time.Second))
	require.NoError(t, repo.Create(ctx, gone))
	_, err := repo.SoftDelete(ctx, gone.ID, base.Add(3*time.Second))
	require.NoError(t, err)

	options, err := repo.Options(ctx)
	require.NoError(t, err)
	require.Len(t, options, 2)
	require.Equal(t, "Alpha", options[0].Title)
	require.Equal(t, "Zeta", options[1].Title)
}
