package jobs

import (
	"context"

	"github.com/jobdesk/jobdesk/internal/domain"
)

// Repository defines the interface for job title storage. Every read and
// write is scoped to an owning user; there is no unscoped access path.
type Repository interface {
	Create(ctx context.Context, title *domain.JobTitle) error
	GetByID(ctx context.Context, userID, id int64) (*domain.JobTitle, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.JobTitle, error)
	Update(ctx context.Context, title *domain.JobTitle) error
	Delete(ctx context.Context, userID, id int64) error
}
