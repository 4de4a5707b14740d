package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pulseboard/pulseboard/internal/domain/project"
	"github.com/pulseboard/pulseboard/internal/pagination"
	"github.com/pulseboard/pulseboard/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = "id, slug, title, description, status, owner, deleted_at, created_at, updated_at"

// Create inserts a new project and fills in its assigned id.
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (slug, title, description, status, owner, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Slug,
		proj.Title,
		proj.Description,
		proj.Status,
		proj.Owner,
		proj.CreatedAt,
		proj.UpdatedAt,
	)
	if err != nil {
		if uniqueViolationOn(err, "projects.slug") {
			return repository.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get project id: %w", err)
	}
	proj.ID = id

	return nil
}

// Get retrieves a project by ID, soft-deleted or not.
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	return getProject(ctx, r.db, id)
}

func getProject(ctx context.Context, q executor, id int64) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	var proj project.Project
	err := q.QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.Slug,
		&proj.Title,
		&proj.Description,
		&proj.Status,
		&proj.Owner,
		&proj.DeletedAt,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &proj, nil
}

// List returns one over-fetched page of projects matching the options.
func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	limit := opts.Limit
	if limit < 1 {
		limit = pagination.DefaultLimit
	}

	b := &condBuilder{}
	if !opts.IncludeDeleted {
		b.add("deleted_at IS NULL")
	}
	searchCondition(b, opts.Search, "title", "slug", "owner")

	cfg := cursorConfig{
		Cursor:     opts.Cursor,
		Direction:  opts.Direction,
		SortByText: opts.Sort == project.SortTitle,
		DateColumn: "created_at",
		TextColumn: "title",
		IDColumn:   "id",
	}
	cursorCondition(b, cfg)

	query := `SELECT ` + projectColumns + ` FROM projects` + b.clause() +
		` ORDER BY ` + orderClause(cfg) + ` LIMIT ?`
	args := append(b.args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		var proj project.Project
		err := rows.Scan(
			&proj.ID,
			&proj.Slug,
			&proj.Title,
			&proj.Description,
			&proj.Status,
			&proj.Owner,
			&proj.DeletedAt,
			&proj.CreatedAt,
			&proj.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, proj)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// Options returns id/title pairs for non-deleted projects, alphabetical.
func (r *ProjectRepository) Options(ctx context.Context) ([]project.Option, error) {
	query := `SELECT id, title FROM projects WHERE deleted_at IS NULL ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list project options: %w", err)
	}
	defer rows.Close()

	var options []project.Option
	for rows.Next() {
		var opt project.Option
		if err := rows.Scan(&opt.ID, &opt.Title); err != nil {
			return nil, fmt.Errorf("failed to scan project option: %w", err)
		}
		options = append(options, opt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project options: %w", err)
	}

	return options, nil
}

// Update snapshots the current row into history and overwrites the domain
// fields, all in one transaction.
func (r *ProjectRepository) Update(ctx context.Context, id int64, fields project.Fields, now time.Time) (*project.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getProject(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := insertProjectVersion(ctx, tx, id, current.Fields, current.CreatedAt, now); err != nil {
		return nil, err
	}

	query := `
		UPDATE projects
		SET slug = ?, title = ?, description = ?, status = ?, owner = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		fields.Slug,
		fields.Title,
		fields.Description,
		fields.Status,
		fields.Owner,
		now,
		id,
	)
	if err != nil {
		if uniqueViolationOn(err, "projects.slug") {
			return nil, repository.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
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
// timestamp. The slug stays reserved.
func (r *ProjectRepository) SoftDelete(ctx context.Context, id int64, now time.Time) (*project.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getProject(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := insertProjectVersion(ctx, tx, id, current.Fields, current.CreatedAt, now); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE projects SET deleted_at = ? WHERE id = ?`, now, id); err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	deleted := *current
	deleted.DeletedAt = &now
	return &deleted, nil
}

// Restore rewinds the project to a history snapshot: the current state is
// snapshotted first so it is never lost, then the live row's domain fields
// are overwritten, updated_at refreshed, and deleted_at cleared. All three
// steps share one transaction.
func (r *ProjectRepository) Restore(ctx context.Context, id, versionNumber int64, now time.Time) (*project.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	v, err := getProjectVersion(ctx, tx, id, versionNumber)
	if err != nil {
		return nil, err
	}

	current, err := getProject(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := insertProjectVersion(ctx, tx, id, current.Fields, current.CreatedAt, now); err != nil {
		return nil, err
	}

	query := `
		UPDATE projects
		SET slug = ?, title = ?, description = ?, status = ?, owner = ?, updated_at = ?, deleted_at = NULL
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		v.Slug,
		v.Title,
		v.Description,
		v.Status,
		v.Owner,
		now,
		id,
	)
	if err != nil {
		if uniqueViolationOn(err, "projects.slug") {
			return nil, repository.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to restore project: %w", err)
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

// insertProjectVersion appends one history snapshot with the next
// contiguous version number. A concurrent writer can take the same number
// between the read and the insert; the UNIQUE (entity_id, version_number)
// constraint catches that and the computation is retried once.
func insertProjectVersion(ctx context.Context, q executor, entityID int64, fields project.Fields, createdAt, changedAt time.Time) error {
	insert := `
		INSERT INTO projects_history (entity_id, version_number, changed_at, slug, title, description, status, owner, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for attempt := 0; ; attempt++ {
		var next int64
		err := q.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(version_number), 0) + 1 FROM projects_history WHERE entity_id = ?`,
			entityID).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to compute version number: %w", err)
		}

		_, err = q.ExecContext(ctx, insert,
			entityID,
			next,
			changedAt,
			fields.Slug,
			fields.Title,
			fields.Description,
			fields.Status,
			fields.Owner,
			createdAt,
		)
		if err == nil {
			return nil
		}
		if attempt == 0 && uniqueViolationOn(err, "projects_history") {
			continue
		}
		return fmt.Errorf("failed to insert project version: %w", err)
	}
}

// Versions returns all history snapshots for the project, newest first.
func (r *ProjectRepository) Versions(ctx context.Context, entityID int64) ([]project.Version, error) {
	query := `
		SELECT id, entity_id, version_number, changed_at, slug, title, description, status, owner, created_at
		FROM projects_history
		WHERE entity_id = ?
		ORDER BY version_number DESC
	`

	rows, err := r.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project versions: %w", err)
	}
	defer rows.Close()

	var versions []project.Version
	for rows.Next() {
		var v project.Version
		err := rows.Scan(
			&v.ID,
			&v.EntityID,
			&v.VersionNumber,
			&v.ChangedAt,
			&v.Slug,
			&v.Title,
			&v.Description,
			&v.Status,
			&v.Owner,
			&v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project version: %w", err)
		}
		versions = append(versions, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project versions: %w", err)
	}

	return versions, nil
}

// Version retrieves one history snapshot.
func (r *ProjectRepository) Version(ctx context.Context, entityID, versionNumber int64) (*project.Version, error) {
	return getProjectVersion(ctx, r.db, entityID, versionNumber)
}

func getProjectVersion(ctx context.Context, q executor, entityID, versionNumber int64) (*project.Version, error) {
	query := `
		SELECT id, entity_id, version_number, changed_at, slug, title, description, status, owner, created_at
		FROM projects_history
		WHERE entity_id = ? AND version_number = ?
	`

	var v project.Version
	err := q.QueryRowContext(ctx, query, entityID, versionNumber).Scan(
		&v.ID,
		&v.EntityID,
		&v.VersionNumber,
		&v.ChangedAt,
		&v.Slug,
		&v.Title,
		&v.Description,
		&v.Status,
		&v.Owner,
		&v.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project version: %w", err)
	}

	return &v, nil
}

// VersionCount returns the highest version number for the project, zero
// when no history exists.
func (r *ProjectRepository) VersionCount(ctx context.Context, entityID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_number), 0) FROM projects_history WHERE entity_id = ?`,
		entityID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count project versions: %w", err)
	}
	return count, nil
}
