// Package postgres provides the PostgreSQL implementation of the job
// title repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobdesk/jobdesk/internal/domain"
	"github.com/jobdesk/jobdesk/internal/jobs"
)

// Repository implements jobs.Repository using PostgreSQL. The owner
// filter is part of every WHERE clause rather than applied after the
// fact, so other users' rows never leave the database.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const titleColumns = `
	jt.id, jt.title, jt.user_id, jt.portal_id, jt.job_description_id,
	jt.created_at, jt.updated_at,
	p.id, p.name, p.description, p.created_at, p.updated_at,
	jd.id, jd.role, jd.description_text, jd.pub_date, jd.created_at, jd.updated_at
`

const titleJoins = `
	FROM job_titles jt
	JOIN portals p ON p.id = jt.portal_id
	JOIN job_descriptions jd ON jd.id = jt.job_description_id
`

// Create inserts a new job title. Reference integrity is checked by the
// service before this runs; the foreign keys are the backstop.
func (r *Repository) Create(ctx context.Context, title *domain.JobTitle) error {
	query := `
		INSERT INTO job_titles (title, user_id, portal_id, job_description_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		title.Title,
		title.UserID,
		title.PortalID,
		title.JobDescriptionID,
	).Scan(&title.ID, &title.CreatedAt, &title.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create job title: %w", err)
	}
	return nil
}

// GetByID retrieves one of userID's job titles with its portal and job
// description joined in. Rows owned by anyone else are invisible.
func (r *Repository) GetByID(ctx context.Context, userID, id int64) (*domain.JobTitle, error) {
	query := `SELECT ` + titleColumns + titleJoins + `
		WHERE jt.id = $1 AND jt.user_id = $2
	`
	title, err := scanTitle(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jobs.ErrTitleNotFound
		}
		return nil, fmt.Errorf("get job title: %w", err)
	}
	return title, nil
}

// ListByUser retrieves userID's job titles, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]domain.JobTitle, error) {
	query := `SELECT ` + titleColumns + titleJoins + `
		WHERE jt.user_id = $1
		ORDER BY jt.id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list job titles: %w", err)
	}
	defer rows.Close()

	titles := make([]domain.JobTitle, 0)
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job title: %w", err)
		}
		titles = append(titles, *title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job titles: %w", err)
	}
	return titles, nil
}

// Update replaces mutable fields of a job title, still scoped to its
// owner. user_id is deliberately not in the SET list.
func (r *Repository) Update(ctx context.Context, title *domain.JobTitle) error {
	query := `
		UPDATE job_titles
		SET title = $3, portal_id = $4, job_description_id = $5, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		title.ID,
		title.UserID,
		title.Title,
		title.PortalID,
		title.JobDescriptionID,
	).Scan(&title.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jobs.ErrTitleNotFound
		}
		return fmt.Errorf("update job title: %w", err)
	}
	return nil
}

// Delete removes one of userID's job titles.
func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM job_titles WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete job title: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return jobs.ErrTitleNotFound
	}
	return nil
}

func scanTitle(row pgx.Row) (*domain.JobTitle, error) {
	var (
		title  domain.JobTitle
		portal domain.Portal
		desc   domain.JobDescription
	)
	err := row.Scan(
		&title.ID,
		&title.Title,
		&title.UserID,
		&title.PortalID,
		&title.JobDescriptionID,
		&title.CreatedAt,
		&title.UpdatedAt,
		&portal.ID,
		&portal.Name,
		&portal.Description,
		&portal.CreatedAt,
		&portal.UpdatedAt,
		&desc.ID,
		&desc.Role,
		&desc.DescriptionText,
		&desc.PubDate,
		&desc.CreatedAt,
		&desc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	title.Portal = &portal
	title.JobDescription = &desc
	return &title, nil
}
