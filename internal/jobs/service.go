// Package jobs implements the per-user job title resource. Ownership is a
// hard filter on every operation: no user can observe another's titles,
// not even their existence.
package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobdesk/jobdesk/internal/catalog"
	"github.com/jobdesk/jobdesk/internal/domain"
)

// PortalResolver checks portal references. Implemented by catalog.Service.
type PortalResolver interface {
	GetPortal(ctx context.Context, id int64) (*domain.Portal, error)
}

// DescriptionResolver checks job description references. Implemented by
// catalog.Service.
type DescriptionResolver interface {
	GetDescription(ctx context.Context, id int64) (*domain.JobDescription, error)
}

// Service implements job title business logic.
type Service struct {
	repo         Repository
	portals      PortalResolver
	descriptions DescriptionResolver
}

// NewService creates a new job title service.
func NewService(repo Repository, portals PortalResolver, descriptions DescriptionResolver) *Service {
	return &Service{
		repo:         repo,
		portals:      portals,
		descriptions: descriptions,
	}
}

// CreateInput holds data for creating a job title. UserID is taken from
// the authenticated actor, never from the payload.
type CreateInput struct {
	Title            string
	PortalID         int64
	JobDescriptionID int64
}

// Create validates both references and inserts a job title owned by
// userID. Unresolved references fail with ErrPortalNotFound or
// ErrDescriptionNotFound before anything is written.
func (s *Service) Create(ctx context.Context, userID int64, input CreateInput) (*domain.JobTitle, error) {
	portal, desc, err := s.resolveRefs(ctx, input.PortalID, input.JobDescriptionID)
	if err != nil {
		return nil, err
	}

	title := &domain.JobTitle{
		Title:            input.Title,
		UserID:           userID,
		PortalID:         input.PortalID,
		JobDescriptionID: input.JobDescriptionID,
	}
	if err := s.repo.Create(ctx, title); err != nil {
		return nil, fmt.Errorf("create job title: %w", err)
	}

	title.Portal = portal
	title.JobDescription = desc
	return title, nil
}

// List returns the actor's job titles, most recently created first.
func (s *Service) List(ctx context.Context, userID int64) ([]domain.JobTitle, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one of the actor's job titles. Ids belonging to other users
// yield ErrTitleNotFound.
func (s *Service) Get(ctx context.Context, userID, id int64) (*domain.JobTitle, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// Update replaces the mutable fields of one of the actor's job titles.
// The owner never changes.
func (s *Service) Update(ctx context.Context, userID, id int64, input CreateInput) (*domain.JobTitle, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	portal, desc, err := s.resolveRefs(ctx, input.PortalID, input.JobDescriptionID)
	if err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.PortalID = input.PortalID
	existing.JobDescriptionID = input.JobDescriptionID

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update job title: %w", err)
	}

	existing.Portal = portal
	existing.JobDescription = desc
	return existing, nil
}

// Delete removes one of the actor's job titles.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) resolveRefs(ctx context.Context, portalID, descID int64) (*domain.Portal, *domain.JobDescription, error) {
	portal, err := s.portals.GetPortal(ctx, portalID)
	if err != nil {
		if errors.Is(err, catalog.ErrPortalNotFound) {
			return nil, nil, ErrPortalNotFound
		}
		return nil, nil, fmt.Errorf("resolve portal: %w", err)
	}

	desc, err := s.descriptions.GetDescription(ctx, descID)
	if err != nil {
		if errors.Is(err, catalog.ErrDescriptionNotFound) {
			return nil, nil, ErrDescriptionNotFound
		}
		return nil, nil, fmt.Errorf("resolve job description: %w", err)
	}

	return portal, desc, nil
}
