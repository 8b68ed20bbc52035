package ports

import (
	"context"
	"time"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

// EmployerSummary is the employer projection embedded in job responses.
type EmployerSummary struct {
	ID   string
	Name string
}

// JobListItem is a job annotated for the caller. Applied/ApplicationStatus
// are only set when the caller is authenticated.
type JobListItem struct {
	Job               *domain.Job
	Employer          *EmployerSummary
	Annotated         bool
	IsApplied         bool
	ApplicationStatus domain.ApplicationStatus
}

type JobStats struct {
	Views        int64
	UniqueViews  int64
	Applications int64
}

type JobDetail struct {
	Job      *domain.Job
	Employer *EmployerSummary
	Stats    JobStats
}

type CreateJobResult struct {
	Job *domain.Job
	// Replayed is true when the idempotency key matched an earlier request.
	Replayed bool
}

type JobAnalytics struct {
	JobID                string
	Title                string
	Company              string
	Status               domain.JobStatus
	CreatedAt            time.Time
	Views                int64
	UniqueViews          int64
	Applications         int64
	ApplicationsByStatus map[domain.ApplicationStatus]int64
	ConversionRate       float64
	AverageResponseTime  string
}

// JobService defines use-case operations for job postings.
type JobService interface {
	Create(ctx context.Context, principal domain.Principal, draft domain.JobDraft, idempotencyKey string) (*CreateJobResult, error)
	List(ctx context.Context, filter JobFilter, viewer *domain.Principal) ([]JobListItem, error)
	ListByEmployer(ctx context.Context, employerID string, status domain.JobStatus) ([]*domain.Job, error)
	ListOwn(ctx context.Context, principal domain.Principal, filter JobFilter) ([]*domain.Job, error)
	Get(ctx context.Context, id string, viewer *domain.Principal) (*JobDetail, error)
	RecordView(ctx context.Context, id string, principal domain.Principal) (*JobStats, error)
	Update(ctx context.Context, id string, principal domain.Principal, update domain.JobUpdate) (*domain.Job, error)
	Delete(ctx context.Context, id string, principal domain.Principal) error
	SetStatus(ctx context.Context, id string, principal domain.Principal, status string) (*domain.Job, error)
	Stats(ctx context.Context, id string, principal domain.Principal) (*JobStats, error)
	Analytics(ctx context.Context, id string, principal domain.Principal) (*JobAnalytics, error)
}
