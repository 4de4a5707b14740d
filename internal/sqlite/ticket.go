package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pulseboard/pulseboard/internal/domain/ticket"
	"github.com/pulseboard/pulseboard/internal/pagination"
	"github.com/pulseboard/pulseboard/internal/repository"
)

// TicketRepository implements ticket.Repository for SQLite
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = "id, slug, title, summary, status, project_id, assignee, deleted_at, created_at, updated_at"

// Create inserts a new ticket and fills in its assigned id.
func (r *TicketRepository) Create(ctx context.Context, tkt *ticket.Ticket) error {
	query := `
		INSERT INTO tickets (slug, title, summary, status, project_id, assignee, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		tkt.Slug,
		tkt.Title,
		tkt.Summary,
		tkt.Status,
		tkt.ProjectID,
		tkt.Assignee,
		tkt.CreatedAt,
		tkt.UpdatedAt,
	)
	if err != nil {
		if uniqueViolationOn(err, "tickets.slug") {
			return repository.ErrDuplicateSlug
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get ticket id: %w", err)
	}
	tkt.ID = id

	return nil
}

// Get retrieves a ticket by ID, soft-deleted or not.
func (r *TicketRepository) Get(ctx context.Context, id int64) (*ticket.Ticket, error) {
	return getTicket(ctx, r.db, id)
}

func getTicket(ctx context.Context, q executor, id int64) (*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`

	var tkt ticket.Ticket
	err := q.QueryRowContext(ctx, query, id).Scan(
		&tkt.ID,
		&tkt.Slug,
		&tkt.Title,
		&tkt.Summary,
		&tkt.Status,
		&tkt.ProjectID,
		&tkt.Assignee,
		&tkt.DeletedAt,
		&tkt.CreatedAt,
		&tkt.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return &tkt, nil
}

// List returns one over-fetched page of tickets matching the options.
func (r *TicketRepository) List(ctx context.Context, opts ticket.ListOptions) ([]ticket.Ticket, error) {
	limit := opts.Limit
	if limit < 1 {
		limit = pagination.DefaultLimit
	}

	b := &condBuilder{}
	if !opts.IncludeDeleted {
		b.add("deleted_at IS NULL")
	}
	searchCondition(b, opts.Search, "title", "slug", "assignee")
	if opts.ProjectID != nil {
		b.add("project_id = ?", *opts.ProjectID)
	}

	cfg := cursorConfig{
		Cursor:     opts.Cursor,
		Direction:  opts.Direction,
		SortByText: opts.Sort == ticket.SortTitle,
		DateColumn: "created_at",
		TextColumn: "title",
		IDColumn:   "id",
	}
	cursorCondition(b, cfg)

	query := `SELECT ` + ticketColumns + ` FROM tickets` + b.clause() +
		` ORDER BY ` + orderClause(cfg) + ` LIMIT ?`
	args := append(b.args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []ticket.Ticket
	for rows.Next() {
		var tkt ticket.Ticket
		err := rows.Scan(
			&tkt.ID,
			&tkt.Slug,
			&tkt.Title,
			&tkt.Summary,
			&tkt.Status,
			&tkt.ProjectID,
			&tkt.Assignee,
			&tkt.DeletedAt,
			&tkt.CreatedAt,
			&tkt.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, tkt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket rows: %w", err)
	}

	return tickets, nil
}

// Update snapshots the current row into history and overwrites the domain
// fields, all in one transaction.
func (r *TicketRepository) Update(ctx context.Context, id int64, fields ticket.Fields, now time.Time) (*ticket.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getTicket(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := insertTicketVersion(ctx, tx, id, current.Fields, current.CreatedAt, now); err != nil {
		return nil, err
	}

	query := `
		UPDATE tickets
		SET slug = ?, title = ?, summary = ?, status = ?, project_id = ?, assignee = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		fields.Slug,
		fields.Title,
		fields.Summary,
		fields.Status,
		fields.ProjectID,
		fields.Assignee,
		now,
		id,
	)
	if err != nil {
		if uniqueViolationOn(err, "tickets.slug") {
			return nil, repository.ErrDuplicateSlug
		}
		if isForeignKeyViolation(err) {
			return nil, repository.ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to update ticket: %w", err)
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
// timestamp.
func (r *TicketRepository) SoftDelete(ctx context.Context, id int64, now time.Time) (*ticket.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getTicket(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := insertTicketVersion(ctx, tx, id, current.Fields, current.CreatedAt, now); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE tickets SET deleted_at = ? WHERE id = ?`, now, id); err != nil {
		return nil, fmt.Errorf("failed to delete ticket: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	deleted := *current
	deleted.DeletedAt = &now
	return &deleted, nil
}

// Restore rewinds the ticket to a history snapshot after snapshotting the
// current state, then clears the deletion timestamp. One transaction.
func (r *TicketRepository) Restore(ctx context.Context, id, versionNumber int64, now time.Time) (*ticket.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	v, err := getTicketVersion(ctx, tx, id, versionNumber)
	if err != nil {
		return nil, err
	}

	current, err := getTicket(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := insertTicketVersion(ctx, tx, id, current.Fields, current.CreatedAt, now); err != nil {
		return nil, err
	}

	query := `
		UPDATE tickets
		SET slug = ?, title = ?, summary = ?, status = ?, project_id = ?, assignee = ?, updated_at = ?, deleted_at = NULL
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		v.Slug,
		v.Title,
		v.Summary,
		v.Status,
		v.ProjectID,
		v.Assignee,
		now,
		id,
	)
	if err != nil {
		if uniqueViolationOn(err, "tickets.slug") {
			return nil, repository.ErrDuplicateSlug
		}
		if isForeignKeyViolation(err) {
			return nil, repository.ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to restore ticket: %w", err)
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

// insertTicketVersion appends one history snapshot with the next
// contiguous version number, retrying the computation once if a
// concurrent writer takes the number first.
func insertTicketVersion(ctx context.Context, q executor, entityID int64, fields ticket.Fields, createdAt, changedAt time.Time) error {
	insert := `
		INSERT INTO tickets_history (entity_id, version_number, changed_at, slug, title, summary, status, project_id, assignee, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for attempt := 0; ; attempt++ {
		var next int64
		err := q.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(version_number), 0) + 1 FROM tickets_history WHERE entity_id = ?`,
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
			fields.Summary,
			fields.Status,
			fields.ProjectID,
			fields.Assignee,
			createdAt,
		)
		if err == nil {
			return nil
		}
		if attempt == 0 && uniqueViolationOn(err, "tickets_history") {
			continue
		}
		return fmt.Errorf("failed to insert ticket version: %w", err)
	}
}

// Versions returns all history snapshots for the ticket, newest first.
func (r *TicketRepository) Versions(ctx context.Context, entityID int64) ([]ticket.Version, error) {
	query := `
		SELECT id, entity_id, version_number, changed_at, slug, title, summary, status, project_id, assignee, created_at
		FROM tickets_history
		WHERE entity_id = ?
		ORDER BY version_number DESC
	`

	rows, err := r.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket versions: %w", err)
	}
	defer rows.Close()

	var versions []ticket.Version
	for rows.Next() {
		var v ticket.Version
		err := rows.Scan(
			&v.ID,
			&v.EntityID,
			&v.VersionNumber,
			&v.ChangedAt,
			&v.Slug,
			&v.Title,
			&v.Summary,
			&v.Status,
			&v.ProjectID,
			&v.Assignee,
			&v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket version: %w", err)
		}
		versions = append(versions, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket versions: %w", err)
	}

	return versions, nil
}

// Version retrieves one history snapshot.
func (r *TicketRepository) Version(ctx context.Context, entityID, versionNumber int64) (*ticket.Version, error) {
	return getTicketVersion(ctx, r.db, entityID, versionNumber)
}

func getTicketVersion(ctx context.Context, q executor, entityID, versionNumber int64) (*ticket.Version, error) {
	query := `
		SELECT id, entity_id, version_number, changed_at, slug, title, summary, status, project_id, assignee, created_at
		FROM tickets_history
		WHERE entity_id = ? AND version_number = ?
	`

	var v ticket.Version
	err := q.QueryRowContext(ctx, query, entityID, versionNumber).Scan(
		&v.ID,
		&v.EntityID,
		&v.VersionNumber,
		&v.ChangedAt,
		&v.Slug,
		&v.Title,
		&v.Summary,
		&v.Status,
		&v.ProjectID,
		&v.Assignee,
		&v.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket version: %w", err)
	}

	return &v, nil
}

// VersionCount returns the highest version number for the ticket, zero
// when no history exists.
func (r *TicketRepository) VersionCount(ctx context.Context, entityID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_number), 0) FROM tickets_history WHERE entity_id = ?`,
		entityID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ticket versions: %w", err)
	}
	return count, nil
}
