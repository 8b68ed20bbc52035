package ports

import (
	"context"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

type ApplicantSummary struct {
	ID       string
	Name     string
	Email    string
	Location string
	Headline string
	Skills   []string
}

type JobSummary struct {
	ID       string
	Title    string
	Company  string
	Location string
	Status   domain.JobStatus
}

// ApplicationView is an application joined with whichever side the caller
// needs: the applicant for employers, the job for applicants, or both.
type ApplicationView struct {
	Application *domain.Application
	Applicant   *ApplicantSummary
	Job         *JobSummary
}

type ApplicationService interface {
	Apply(ctx context.Context, principal domain.Principal, jobID, coverLetter string) (*domain.Application, error)
	ListForJob(ctx context.Context, jobID string, principal domain.Principal) ([]ApplicationView, error)
	RecentForEmployer(ctx context.Context, principal domain.Principal) ([]ApplicationView, error)
	ListMine(ctx context.Context, principal domain.Principal) ([]ApplicationView, error)
	Review(ctx context.Context, id string, principal domain.Principal, review domain.ApplicationReview) (*domain.Application, error)
}
