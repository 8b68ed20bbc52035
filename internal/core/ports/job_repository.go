package ports

import (
	"context"
	"time"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

// JobFilter carries the optional criteria for listing jobs. Zero values mean
// "no filter".
type JobFilter struct {
	EmployerID string
	Status     domain.JobStatus
	Type       domain.JobType
	Experience domain.ExperienceLevel
	Search     string // case-insensitive substring of title, company or location
}

// JobRepository defines persistence operations for job postings.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Job, error)
	// List returns matching jobs, newest first.
	List(ctx context.Context, filter JobFilter) ([]*domain.Job, error)
	// Update applies u to the job only when it is owned by employerID.
	Update(ctx context.Context, id, employerID string, u domain.JobUpdate) (*domain.Job, error)
	Delete(ctx context.Context, id, employerID string) error
	// RecordView atomically increments views and, when viewerID has not
	// viewed the job before, uniqueViews plus a view history entry. first
	// reports whether this was the viewer's first view.
	RecordView(ctx context.Context, id, viewerID string, at time.Time) (job *domain.Job, first bool, err error)
}
