package project_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/domain/project"
	"github.com/pulseboard/pulseboard/internal/repository"
	"github.com/pulseboard/pulseboard/internal/repository/mocks"
)

func validInput() project.Input {
	return project.Input{
		Slug:   "atlas-redesign",
		Title:  "Atlas Redesign",
		Status: "active",
		Owner:  "Ada Adler",
	}
}

func TestProjectService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	svc := project.NewService(repo, nil)

	result, tags := svc.Create(ctx, project.Input{Slug: "X!", Title: "a", Status: "bogus"})
	require.False(t, result.Success)
	require.Contains(t, result.Errors, "slug")
	require.Contains(t, result.Errors, "title")
	require.Contains(t, result.Errors, "status")
	require.Contains(t, result.Errors, "owner")
	require.Empty(t, tags)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*project.Project).ID = 7
	}).Return(nil)

	svc := project.NewService(repo, nil)
	result, tags := svc.Create(ctx, validInput())
	require.True(t, result.Success)
	require.Equal(t, int64(7), result.Data.ID)
	require.Equal(t, "atlas-redesign", result.Data.Slug)
	require.Equal(t, []string{"projects:list"}, tags)
}

func TestProjectService_CreateDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateSlug)

	svc := project.NewService(repo, nil)
	result, tags := svc.Create(ctx, validInput())
	require.False(t, result.Success)
	require.Contains(t, result.Errors, "slug")
	require.Empty(t, tags)
}

func TestProjectService_UpdateNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Update", ctx, int64(5), mock.Anything, mock.Anything).
		Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil)
	result, tags := svc.Update(ctx, 5, validInput())
	require.False(t, result.Success)
	require.Contains(t, result.Errors, "_form")
	require.Empty(t, tags)
}

func TestProjectService_UpdateTags(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Update", ctx, int64(5), mock.Anything, mock.Anything).
		Return(&project.Project{ID: 5}, nil)

	svc := project.NewService(repo, nil)
	result, tags := svc.Update(ctx, 5, validInput())
	require.True(t, result.Success)
	require.Equal(t, []string{"projects:list", "projects:detail:5", "projects:version:5"}, tags)
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	repo := &mocks.ProjectRepository{}
	repo.On("SoftDelete", ctx, int64(5), mock.Anything).
		Return(&project.Project{ID: 5, DeletedAt: &now}, nil)

	svc := project.NewService(repo, nil)
	result, tags := svc.Delete(ctx, 5)
	require.True(t, result.Success)
	require.NotNil(t, result.Data.DeletedAt)
	require.Len(t, tags, 3)
}

func TestProjectService_RestoreVersionNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Restore", ctx, int64(5), int64(9), mock.Anything).
		Return((*project.Project)(nil), repository.ErrVersionNotFound)

	svc := project.NewService(repo, nil)
	result, tags := svc.RestoreVersion(ctx, 5, 9)
	require.False(t, result.Success)
	require.Equal(t, "version not found", result.Errors["_form"])
	require.Empty(t, tags)
}

func TestProjectService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, int64(5)).Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil)
	_, err := svc.Get(ctx, 5)
	require.ErrorIs(t, err, project.ErrNotFound)
}

func TestProjectService_ListOverfetch(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	rows := []project.Project{
		{ID: 3, CreatedAt: now.Add(2 * time.Second)},
		{ID: 2, CreatedAt: now.Add(time.Second)},
		{ID: 1, CreatedAt: now},
	}

	repo := &mocks.ProjectRepository{}
	repo.On("List", ctx, mock.MatchedBy(func(opts project.ListOptions) bool {
		// The paginator over-fetches one extra row.
		return opts.Limit == 3
	})).Return(rows, nil)

	svc := project.NewService(repo, nil)
	page, err := svc.List(ctx, project.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.True(t, page.PageInfo.HasNext)
	require.False(t, page.PageInfo.HasPrevious)
	require.NotEmpty(t, page.PageInfo.NextCursor)
}

func TestProjectService_ListError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("List", ctx, mock.Anything).Return(([]project.Project)(nil), errors.New("boom"))

	svc := project.NewService(repo, nil)
	_, err := svc.List(ctx, project.ListOptions{})
	require.Error(t, err)
}

func TestProjectService_CompareVersions(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Version", ctx, int64(5), int64(1)).Return(&project.Version{
		VersionNumber: 1,
		Fields:        project.Fields{Slug: "atlas", Title: "Old", Status: project.StatusPlanned},
	}, nil)
	repo.On("Version", ctx, int64(5), int64(2)).Return(&project.Version{
		VersionNumber: 2,
		Fields:        project.Fields{Slug: "atlas", Title: "New", Status: project.StatusActive},
	}, nil)

	svc := project.NewService(repo, nil)
	diff, err := svc.CompareVersions(ctx, 5, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, diff)
	require.Equal(t, int64(1), diff.FromVersion)
	require.Equal(t, int64(2), diff.ToVersion)
	require.Len(t, diff.Changes, 2)
	require.Equal(t, "title", diff.Changes[0].Field)
	require.Equal(t, "status", diff.Changes[1].Field)
}

func TestProjectService_CompareVersionsMissing(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Version", ctx, int64(5), int64(1)).
		Return((*project.Version)(nil), repository.ErrVersionNotFound)

	svc := project.NewService(repo, nil)
	diff, err := svc.CompareVersions(ctx, 5, 1, 2)
	require.NoError(t, err)
	require.Nil(t, diff)
}
