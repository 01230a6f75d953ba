// Package postgres provides the PostgreSQL implementation of the catalog
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobdesk/jobdesk/internal/catalog"
	"github.com/jobdesk/jobdesk/internal/domain"
)

const foreignKeyViolation = "23503"

// Repository implements catalog.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreatePortal inserts a new portal.
func (r *Repository) CreatePortal(ctx context.Context, portal *domain.Portal) error {
	query := `
		INSERT INTO portals (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		portal.Name,
		portal.Description,
	).Scan(&portal.ID, &portal.CreatedAt, &portal.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create portal: %w", err)
	}
	return nil
}

// GetPortal retrieves a portal by id.
func (r *Repository) GetPortal(ctx context.Context, id int64) (*domain.Portal, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM portals
		WHERE id = $1
	`
	var portal domain.Portal
	err := r.db.QueryRow(ctx, query, id).Scan(
		&portal.ID,
		&portal.Name,
		&portal.Description,
		&portal.CreatedAt,
		&portal.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrPortalNotFound
		}
		return nil, fmt.Errorf("get portal: %w", err)
	}
	return &portal, nil
}

// ListPortals retrieves all portals ordered by id.
func (r *Repository) ListPortals(ctx context.Context) ([]domain.Portal, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM portals
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list portals: %w", err)
	}
	defer rows.Close()

	portals := make([]domain.Portal, 0)
	for rows.Next() {
		var portal domain.Portal
		if err := rows.Scan(
			&portal.ID,
			&portal.Name,
			&portal.Description,
			&portal.CreatedAt,
			&portal.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan portal: %w", err)
		}
		portals = append(portals, portal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate portals: %w", err)
	}
	return portals, nil
}

// UpdatePortal replaces a portal's mutable fields.
func (r *Repository) UpdatePortal(ctx context.Context, portal *domain.Portal) error {
	query := `
		UPDATE portals
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		portal.ID,
		portal.Name,
		portal.Description,
	).Scan(&portal.CreatedAt, &portal.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrPortalNotFound
		}
		return fmt.Errorf("update portal: %w", err)
	}
	return nil
}

// DeletePortal removes a portal. Rows still referenced by job titles are
// protected by the RESTRICT foreign key; that violation maps to
// catalog.ErrPortalInUse.
func (r *Repository) DeletePortal(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM portals WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return catalog.ErrPortalInUse
		}
		return fmt.Errorf("delete portal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrPortalNotFound
	}
	return nil
}

// CreateDescription inserts a new job description.
func (r *Repository) CreateDescription(ctx context.Context, desc *domain.JobDescription) error {
	query := `
		INSERT INTO job_descriptions (role, description_text, pub_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		desc.Role,
		desc.DescriptionText,
		desc.PubDate,
	).Scan(&desc.ID, &desc.CreatedAt, &desc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create job description: %w", err)
	}
	return nil
}

// GetDescription retrieves a job description by id.
func (r *Repository) GetDescription(ctx context.Context, id int64) (*domain.JobDescription, error) {
	query := `
		SELECT id, role, description_text, pub_date, created_at, updated_at
		FROM job_descriptions
		WHERE id = $1
	`
	var desc domain.JobDescription
	err := r.db.QueryRow(ctx, query, id).Scan(
		&desc.ID,
		&desc.Role,
		&desc.DescriptionText,
		&desc.PubDate,
		&desc.CreatedAt,
		&desc.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrDescriptionNotFound
		}
		return nil, fmt.Errorf("get job description: %w", err)
	}
	return &desc, nil
}

// ListDescriptions retrieves all job descriptions ordered by id.
func (r *Repository) ListDescriptions(ctx context.Context) ([]domain.JobDescription, error) {
	query := `
		SELECT id, role, description_text, pub_date, created_at, updated_at
		FROM job_descriptions
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list job descriptions: %w", err)
	}
	defer rows.Close()

	descs := make([]domain.JobDescription, 0)
	for rows.Next() {
		var desc domain.JobDescription
		if err := rows.Scan(
			&desc.ID,
			&desc.Role,
			&desc.DescriptionText,
			&desc.PubDate,
			&desc.CreatedAt,
			&desc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job description: %w", err)
		}
		descs = append(descs, desc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job descriptions: %w", err)
	}
	return descs, nil
}

// UpdateDescription replaces a description's mutable fields.
func (r *Repository) UpdateDescription(ctx context.Context, desc *domain.JobDescription) error {
	query := `
		UPDATE job_descriptions
		SET role = $2, description_text = $3, pub_date = $4, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		desc.ID,
		desc.Role,
		desc.DescriptionText,
		desc.PubDate,
	).Scan(&desc.CreatedAt, &desc.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrDescriptionNotFound
		}
		return fmt.Errorf("update job description: %w", err)
	}
	return nil
}

// DeleteDescription removes a job description unless referenced.
func (r *Repository) DeleteDescription(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM job_descriptions WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return catalog.ErrDescriptionInUse
		}
		return fmt.Errorf("delete job description: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrDescriptionNotFound
	}
	return nil
}
