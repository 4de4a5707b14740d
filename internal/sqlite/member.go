package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pulseboard/pulseboard/internal/domain/member"
	"github.com/pulseboard/pulseboard/internal/pagination"
	"github.com/pulseboard/pulseboard/internal/repository"
)

// MemberRepository implements member.Repository for SQLite
type MemberRepository struct {
	db *DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = "id, slug, name, email, status, bio, role, deleted_at, created_at, updated_at"

func mapMemberConstraint(err error) error {
	if uniqueViolationOn(err, "members.slug") {
		return repository.ErrDuplicateSlug
	}
	if uniqueViolationOn(err, "members.email") {
		return repository.ErrDuplicateEmail
	}
	return nil
}

// Create inserts a new member and fills in its assigned id.
func (r *MemberRepository) Create(ctx context.Context, mem *member.Member) error {
	query := `
		INSERT INTO members (slug, name, email, status, bio, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		mem.Slug,
		mem.Name,
		mem.Email,
		mem.Status,
		mem.Bio,
		mem.Role,
		mem.CreatedAt,
		mem.UpdatedAt,
	)
	if err != nil {
		if mapped := mapMemberConstraint(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get member id: %w", err)
	}
	mem.ID = id

	return nil
}

// Get retrieves a member by ID, soft-deleted or not.
func (r *MemberRepository) Get(ctx context.Context, id int64) (*member.Member, error) {
	return getMember(ctx, r.db, id)
}

func getMember(ctx context.Context, q executor, id int64) (*member.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = ?`

	var mem member.Member
	err := q.QueryRowContext(ctx, query, id).Scan(
		&mem.ID,
		&mem.Slug,
		&mem.Name,
		&mem.Email,
		&mem.Status,
		&mem.Bio,
		&mem.Role,
		&mem.DeletedAt,
		&mem.CreatedAt,
		&mem.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return &mem, nil
}

// List returns one over-fetched page of members matching the options.
func (r *MemberRepository) List(ctx context.Context, opts member.ListOptions) ([]member.Member, error) {
	limit := opts.Limit
	if limit < 1 {
		limit = pagination.DefaultLimit
	}

	b := &condBuilder{}
	if !opts.IncludeDeleted {
		b.add("deleted_at IS NULL")
	}
	searchCondition(b, opts.Search, "name", "email", "slug")

	cfg := cursorConfig{
		Cursor:     opts.Cursor,
		Direction:  opts.Direction,
		SortByText: opts.Sort == member.SortName,
		DateColumn: "created_at",
		TextColumn: "name",
		IDColumn:   "id",
	}
	cursorCondition(b, cfg)

	query := `SELECT ` + memberColumns + ` FROM members` + b.clause() +
		` ORDER BY ` + orderClause(cfg) + ` LIMIT ?`
	args := append(b.args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var membersList []member.Member
	for rows.Next() {
		var mem member.Member
		err := rows.Scan(
			&mem.ID,
			&mem.Slug,
			&mem.Name,
			&mem.Email,
			&mem.Status,
			&mem.Bio,
			&mem.Role,
			&mem.DeletedAt,
			&mem.CreatedAt,
			&mem.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		membersList = append(membersList, mem)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return membersList, nil
}

// Options returns id/name pairs for non-deleted members, alphabetical.
func (r *MemberRepository) Options(ctx context.Context) ([]member.Option, error) {
	query := `SELECT id, name FROM members WHERE deleted_at IS NULL ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list member options: %w", err)
	}
	defer rows.Close()

	var options []member.Option
	for rows.Next() {
		var opt member.Option
		if err := rows.Scan(&opt.ID, &opt.Name); err != nil {
			return nil, fmt.Errorf("failed to scan member option: %w", err)
		}
		options = append(options, opt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member options: %w", err)
	}

	return options, nil
}

// Update snapshots the current row into history and overwrites the domain
// fields, all in one transaction.
func (r *MemberRepository) Update(ctx context.Context, id int64, fields member.Fields, now time.Time) (*member.Member, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getMember(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := insertMemberVersion(ctx, tx, id, current.Fields, current.CreatedAt, now); err != nil {
		return nil, err
	}

	query := `
		UPDATE members
		SET slug = ?, name = ?, email = ?, status = ?, bio = ?, role = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		fields.Slug,
		fields.Name,
		fields.Email,
		fields.Status,
		fields.Bio,
		fields.Role,
		now,
		id,
	)
	if err != nil {
		if mapped := mapMemberConstraint(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	updated := *current
	updated.Fields = fields
	updated.UpdatedAt = now
	return &updated, nil
}

// SoftDelete snapshots the pre-delete state and sets the deletion
// timestamp. Slug and email stay reserved.
func (r *MemberRepository) SoftDelete(ctx context.Context, id int64, now time.Time) (*member.Member, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getMember(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := insertMemberVersion(ctx, tx, id, current.Fields, current.CreatedAt, now); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE members SET deleted_at = ? WHERE id = ?`, now, id); err != nil {
		return nil, fmt.Errorf("failed to delete member: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	deleted := *current
	deleted.DeletedAt = &now
	return &deleted, nil
}

// Restore rewinds the member to a history snapshot after snapshotting the
// current state, then clears the deletion timestamp. One transaction.
func (r *MemberRepository) Restore(ctx context.Context, id, versionNumber int64, now time.Time) (*member.Member, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	v, err := getMemberVersion(ctx, tx, id, versionNumber)
	if err != nil {
		return nil, err
	}

	current, err := getMember(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := insertMemberVersion(ctx, tx, id, current.Fields, current.CreatedAt, now); err != nil {
		return nil, err
	}

	query := `
		UPDATE members
		SET slug = ?, name = ?, email = ?, status = ?, bio = ?, role = ?, updated_at = ?, deleted_at = NULL
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		v.Slug,
		v.Name,
		v.Email,
		v.Status,
		v.Bio,
		v.Role,
		now,
		id,
	)
	if err != nil {
		if mapped := mapMemberConstraint(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to restore member: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	restored := *current
	restored.Fields = v.Fields
	restored.UpdatedAt = now
	restored.DeletedAt = nil
	return &restored, nil
}

// insertMemberVersion appends one history snapshot with the next
// contiguous version number, retrying the computation once if a
// concurrent writer takes the number first.
func insertMemberVersion(ctx context.Context, q executor, entityID int64, fields member.Fields, createdAt, changedAt time.Time) error {
	insert := `
		INSERT INTO members_history (entity_id, version_number, changed_at, slug, name, email, status, bio, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for attempt := 0; ; attempt++ {
		var next int64
		err := q.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(version_number), 0) + 1 FROM members_history WHERE entity_id = ?`,
			entityID).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to compute version number: %w", err)
		}

		_, err = q.ExecContext(ctx, insert,
			entityID,
			next,
			changedAt,
			fields.Slug,
			fields.Name,
			fields.Email,
			fields.Status,
			fields.Bio,
			fields.Role,
			createdAt,
		)
		if err == nil {
			return nil
		}
		if attempt == 0 && uniqueViolationOn(err, "members_history") {
			continue
		}
		return fmt.Errorf("failed to insert member version: %w", err)
	}
}

// Versions returns all history snapshots for the member, newest first.
func (r *MemberRepository) Versions(ctx context.Context, entityID int64) ([]member.Version, error) {
	query := `
		SELECT id, entity_id, version_number, changed_at, slug, name, email, status, bio, role, created_at
		FROM members_history
		WHERE entity_id = ?
		ORDER BY version_number DESC
	`

	rows, err := r.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list member versions: %w", err)
	}
	defer rows.Close()

	var versions []member.Version
	for rows.Next() {
		var v member.Version
		err := rows.Scan(
			&v.ID,
			&v.EntityID,
			&v.VersionNumber,
			&v.ChangedAt,
			&v.Slug,
			&v.Name,
			&v.Email,
			&v.Status,
			&v.Bio,
			&v.Role,
			&v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member version: %w", err)
		}
		versions = append(versions, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member versions: %w", err)
	}

	return versions, nil
}

// Version retrieves one history snapshot.
func (r *MemberRepository) Version(ctx context.Context, entityID, versionNumber int64) (*member.Version, error) {
	return getMemberVersion(ctx, r.db, entityID, versionNumber)
}

func getMemberVersion(ctx context.Context, q executor, entityID, versionNumber int64) (*member.Version, error) {
	query := `
		SELECT id, entity_id, version_number, changed_at, slug, name, email, status, bio, role, created_at
		FROM members_history
		WHERE entity_id = ? AND version_number = ?
	`

	var v member.Version
	err := q.QueryRowContext(ctx, query, entityID, versionNumber).Scan(
		&v.ID,
		&v.EntityID,
		&v.VersionNumber,
		&v.ChangedAt,
		&v.Slug,
		&v.Name,
		&v.Email,
		&v.Status,
		&v.Bio,
		&v.Role,
		&v.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member version: %w", err)
	}

	return &v, nil
}

// VersionCount returns the highest version number for the member, zero
// when no history exists.
func (r *MemberRepository) VersionCount(ctx context.Context, entityID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_number), 0) FROM members_history WHERE entity_id = ?`,
		entityID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count member versions: %w", err)
	}
	return count, nil
}
