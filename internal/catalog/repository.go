package catalog

import (
	"context"

	"github.com/jobdesk/jobdesk/internal/domain"
)

// Repository defines the interface for portal and job description storage.
type Repository interface {
	CreatePortal(ctx context.Context, portal *domain.Portal) error
	GetPortal(ctx context.Context, id int64) (*domain.Portal, error)
	ListPortals(ctx context.Context) ([]domain.Portal, error)
	UpdatePortal(ctx context.Context, portal *domain.Portal) error
	DeletePortal(ctx context.Context, id int64) error

	CreateDescription(ctx context.Context, desc *domain.JobDescription) error
	GetDescription(ctx context.Context, id int64) (*domain.JobDescription, error)
	ListDescriptions(ctx context.Context) ([]domain.JobDescription, error)
	UpdateDescription(ctx context.Context, desc *domain.JobDescription) error
	DeleteDescription(ctx context.Context, id int64) error
}
