// Package catalog provides the portal registry and job description
// catalog: shared CRUD entities visible to every authenticated user.
package catalog

import (
	"context"
	"time"

	"github.com/jobdesk/jobdesk/internal/domain"
)

// Service implements catalog business logic.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreatePortal registers a new job-posting source.
func (s *Service) CreatePortal(ctx context.Context, portal *domain.Portal) error {
	return s.repo.CreatePortal(ctx, portal)
}

// GetPortal returns a portal by id.
func (s *Service) GetPortal(ctx context.Context, id int64) (*domain.Portal, error) {
	return s.repo.GetPortal(ctx, id)
}

// ListPortals returns the full portal catalog.
func (s *Service) ListPortals(ctx context.Context) ([]domain.Portal, error) {
	return s.repo.ListPortals(ctx)
}

// UpdatePortal replaces a portal's mutable fields.
func (s *Service) UpdatePortal(ctx context.Context, portal *domain.Portal) error {
	return s.repo.UpdatePortal(ctx, portal)
}

// DeletePortal removes a portal. Portals referenced by job titles cannot
// be deleted; the repository reports that as ErrPortalInUse.
func (s *Service) DeletePortal(ctx context.Context, id int64) error {
	return s.repo.DeletePortal(ctx, id)
}

// CreateDescriptionInput holds data for creating a job description.
type CreateDescriptionInput struct {
	Role            string
	DescriptionText string
	PubDate         *time.Time
}

// CreateDescription adds a job description to the catalog. A missing
// publication date defaults to now.
func (s *Service) CreateDescription(ctx context.Context, input CreateDescriptionInput) (*domain.JobDescription, error) {
	pubDate := time.Now()
	if input.PubDate != nil {
		pubDate = *input.PubDate
	}

	desc := &domain.JobDescription{
		Role:            input.Role,
		DescriptionText: input.DescriptionText,
		PubDate:         pubDate,
	}
	if err := s.repo.CreateDescription(ctx, desc); err != nil {
		return nil, err
	}
	return desc, nil
}

// GetDescription returns a job description by id.
func (s *Service) GetDescription(ctx context.Context, id int64) (*domain.JobDescription, error) {
	return s.repo.GetDescription(ctx, id)
}

// ListDescriptions returns the full description catalog.
func (s *Service) ListDescriptions(ctx context.Context) ([]domain.JobDescription, error) {
	return s.repo.ListDescriptions(ctx)
}

// UpdateDescription replaces a description's mutable fields.
func (s *Service) UpdateDescription(ctx context.Context, desc *domain.JobDescription) error {
	return s.repo.UpdateDescription(ctx, desc)
}

// DeleteDescription removes a job description unless job titles still
// reference it.
func (s *Service) DeleteDescription(ctx context.Context, id int64) error {
	return s.repo.DeleteDescription(ctx, id)
}
