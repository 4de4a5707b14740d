package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/domain/member"
	"github.com/pulseboard/pulseboard/internal/repository"
)

func newMember(slug, name, email string, createdAt time.Time) *member.Member {
	role := "Engineer"
	return &member.Member{
		Fields: member.Fields{
			Slug:   slug,
			Name:   name,
			Email:  email,
			Status: member.StatusActive,
			Role:   &role,
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemberRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	mem := newMember("ada", "Ada Adler", "ada@example.com", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, mem))
	require.Positive(t, mem.ID)

	retrieved, err := repo.Get(ctx, mem.ID)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", retrieved.Email)
	require.Nil(t, retrieved.Bio)
}

func TestMemberRepository_UniqueConstraints(t *testing.T) {
	db := NewTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newMember("ada", "Ada Adler", "ada@example.com", now)))

	err := repo.Create(ctx, newMember("ada", "Ada Two", "ada2@example.com", now))
	require.ErrorIs(t, err, repository.ErrDuplicateSlug)

	err = repo.Create(ctx, newMember("ada-two", "Ada Two", "ada@example.com", now))
	require.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestMemberRepository_EmailReservedAfterSoftDelete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	mem := newMember("ada", "Ada Adler", "ada@example.com", now)
	require.NoError(t, repo.Create(ctx, mem))

	_, err := repo.SoftDelete(ctx, mem.ID, now.Add(time.Second))
	require.NoError(t, err)

	err = repo.Create(ctx, newMember("ada-two", "Ada Two", "ada@example.com", now))
	require.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestMemberRepository_NameSort(t *testing.T) {
	db := NewTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newMember("cara", "Cara", "cara@example.com", base)))
	require.NoError(t, repo.Create(ctx, newMember("abe", "Abe", "abe@example.com", base.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, newMember("ben", "Ben", "ben@example.com", base.Add(2*time.Second))))

	rows, err := repo.List(ctx, member.ListOptions{Limit: 10, Sort: member.SortName})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Abe", rows[0].Name)
	require.Equal(t, "Ben", rows[1].Name)
	require.Equal(t, "Cara", rows[2].Name)
}

func TestMemberRepository_UpdateHistory(t *testing.T) {
	db := NewTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	mem := newMember("ada", "Ada Adler", "ada@example.com", base)
	require.NoError(t, repo.Create(ctx, mem))

	fields := mem.Fields
	fields.Status = member.StatusSabbatical
	_, err := repo.Update(ctx, mem.ID, fields, base.Add(time.Second))
	require.NoError(t, err)

	v, err := repo.Version(ctx, mem.ID, 1)
	require.NoError(t, err)
	require.Equal(t, member.StatusActive, v.Status)

	count, err := repo.VersionCount(ctx, mem.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
