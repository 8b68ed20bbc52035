package ports

import (
	"context"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

// ApplicationRepository persists applications. The (job, applicant) pair is
// unique in the store; Create returns domain.ErrAlreadyApplied on a duplicate.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) (*domain.Application, error)
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	// ListByJob returns the applications of a job, newest first.
	ListByJob(ctx context.Context, jobID string) ([]*domain.Application, error)
	// ListByApplicant returns the applicant's applications, optionally
	// restricted to jobIDs, newest first.
	ListByApplicant(ctx context.Context, applicantID string, jobIDs []string) ([]*domain.Application, error)
	ListRecentByEmployer(ctx context.Context, employerID string, limit int) ([]*domain.Application, error)
	CountByJob(ctx context.Context, jobID string) (int64, error)
	CountByStatus(ctx context.Context, jobID string) (map[domain.ApplicationStatus]int64, error)
	// Review applies r only when the application belongs to employerID.
	Review(ctx context.Context, id, employerID string, r domain.ApplicationReview) (*domain.Application, error)
}

// IdempotencyStore remembers which resource a client-supplied key produced.
type IdempotencyStore interface {
	// Reserve claims key; it returns false when the key was already claimed.
	Reserve(ctx context.Context, key string) (bool, error)
	// Resolve returns the resource id stored for key, or "" while the first
	// request is still in flight.
	Resolve(ctx context.Context, key string) (string, error)
	Complete(ctx context.Context, key, resourceID string) error
	Release(ctx context.Context, key string) error
}
