package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hireboard/jobboard-api/internal/pkg/metrics"
	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
)

const recentApplicationsLimit = 4

// Placeholders used when a joined applicant or job no longer exists.
const (
	unknownApplicantName = "Anonymous"
	unknownApplicantMail = "No email provided"
	unknownJobTitle      = "Unknown Position"
	unknownJobCompany    = "Unknown Company"
)

type ApplicationService struct {
	apps     ports.ApplicationRepository
	jobs     ports.JobRepository
	profiles ports.ProfileRepository
	logger   zerolog.Logger
}

func NewApplicationService(apps ports.ApplicationRepository, jobs ports.JobRepository, profiles ports.ProfileRepository, logger zerolog.Logger) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, profiles: profiles, logger: logger}
}

// Apply submits the caller's application to jobID. Duplicates are rejected by
// the store's (job, applicant) unique index.
func (s *ApplicationService) Apply(ctx context.Context, p domain.Principal, jobID, coverLetter string) (*domain.Application, error) {
	if !p.IsJobseeker() {
		return nil, domain.ErrForbidden
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}

	app, err := s.apps.Create(ctx, domain.NewApplication(job, p.ID, coverLetter, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyApplied) {
			metrics.ApplicationsSubmittedTotal.WithLabelValues("duplicate").Inc()
			return nil, err
		}
		metrics.ApplicationsSubmittedTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("apply: %w", err)
	}

	metrics.ApplicationsSubmittedTotal.WithLabelValues("created").Inc()
	s.logger.Info().
		Str("application_id", app.ID).
		Str("job_id", app.JobID).
		Str("applicant_id", app.ApplicantID).
		Bool("cover_letter", app.CoverLetter != "").
		Msg("application submitted")

	return app, nil
}

// ListForJob returns the applications of a job owned by the caller, newest
// first, each with the applicant's public profile fields.
func (s *ApplicationService) ListForJob(ctx context.Context, jobID string, p domain.Principal) ([]ports.ApplicationView, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if !job.OwnedBy(p.ID) {
		return nil, domain.ErrForbidden
	}

	apps, err := s.apps.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	applicants, err := s.applicantSummaries(ctx, apps)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	views := make([]ports.ApplicationView, len(apps))
	for i, a := range apps {
		views[i] = ports.ApplicationView{Application: a, Applicant: applicants(a.ApplicantID)}
	}
	return views, nil
}

// RecentForEmployer returns the latest applications across all of the
// caller's jobs.
func (s *ApplicationService) RecentForEmployer(ctx context.Context, p domain.Principal) ([]ports.ApplicationView, error) {
	if !p.IsEmployer() {
		return nil, domain.ErrForbidden
	}

	apps, err := s.apps.ListRecentByEmployer(ctx, p.ID, recentApplicationsLimit)
	if err != nil {
		return nil, fmt.Errorf("recent applications: %w", err)
	}

	applicants, err := s.applicantSummaries(ctx, apps)
	if err != nil {
		return nil, fmt.Errorf("recent applications: %w", err)
	}
	jobs, err := s.jobSummaries(ctx, apps)
	if err != nil {
		return nil, fmt.Errorf("recent applications: %w", err)
	}

	views := make([]ports.ApplicationView, len(apps))
	for i, a := range apps {
		views[i] = ports.ApplicationView{
			Application: a,
			Applicant:   applicants(a.ApplicantID),
			Job:         jobs(a.JobID),
		}
	}
	return views, nil
}

// ListMine returns the caller's own applications with a summary of each job.
func (s *ApplicationService) ListMine(ctx context.Context, p domain.Principal) ([]ports.ApplicationView, error) {
	apps, err := s.apps.ListByApplicant(ctx, p.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("list my applications: %w", err)
	}

	jobs, err := s.jobSummaries(ctx, apps)
	if err != nil {
		return nil, fmt.Errorf("list my applications: %w", err)
	}

	views := make([]ports.ApplicationView, len(apps))
	for i, a := range apps {
		views[i] = ports.ApplicationView{Application: a, Job: jobs(a.JobID)}
	}
	return views, nil
}

// Review lets the owning employer change an application's status or notes.
func (s *ApplicationService) Review(ctx context.Context, id string, p domain.Principal, r domain.ApplicationReview) (*domain.Application, error) {
	if r.Status != nil && !r.Status.Valid() {
		return nil, fmt.Errorf("%w: status must be one of: pending reviewed accepted rejected", domain.ErrValidation)
	}

	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("review application: %w", err)
	}
	if app.EmployerID != p.ID {
		return nil, domain.ErrForbidden
	}
	if r.IsEmpty() {
		return app, nil
	}

	updated, err := s.apps.Review(ctx, id, p.ID, r)
	if err != nil {
		return nil, fmt.Errorf("review application: %w", err)
	}

	metrics.ApplicationsReviewedTotal.WithLabelValues(string(updated.Status)).Inc()
	s.logger.Info().Str("application_id", id).Str("status", string(updated.Status)).Msg("application reviewed")
	return updated, nil
}

// applicantSummaries loads the profiles behind apps and returns a lookup that
// falls back to placeholders for missing applicants.
func (s *ApplicationService) applicantSummaries(ctx context.Context, apps []*domain.Application) (func(string) *ports.ApplicantSummary, error) {
	ids := uniqueIDs(apps, func(a *domain.Application) string { return a.ApplicantID })

	byUser := make(map[string]*domain.Profile, len(ids))
	if len(ids) > 0 {
		profiles, err := s.profiles.FindByUserIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load applicants: %w", err)
		}
		for _, pr := range profiles {
			byUser[pr.UserID] = pr
		}
	}

	return func(userID string) *ports.ApplicantSummary {
		sum := &ports.ApplicantSummary{
			ID:     userID,
			Name:   unknownApplicantName,
			Email:  unknownApplicantMail,
			Skills: []string{},
		}
		pr, ok := byUser[userID]
		if !ok {
			return sum
		}
		if strings.TrimSpace(pr.Name) != "" {
			sum.Name = pr.Name
		}
		if strings.TrimSpace(pr.Email) != "" {
			sum.Email = pr.Email
		}
		sum.Location = pr.Location
		sum.Headline = pr.Headline
		if pr.Skills != nil {
			sum.Skills = pr.Skills
		}
		return sum
	}, nil
}

// jobSummaries is the job-side counterpart of applicantSummaries.
func (s *ApplicationService) jobSummaries(ctx context.Context, apps []*domain.Application) (func(string) *ports.JobSummary, error) {
	ids := uniqueIDs(apps, func(a *domain.Application) string { return a.JobID })

	byID := make(map[string]*domain.Job, len(ids))
	if len(ids) > 0 {
		jobs, err := s.jobs.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load jobs: %w", err)
		}
		for _, j := range jobs {
			byID[j.ID] = j
		}
	}

	return func(jobID string) *ports.JobSummary {
		j, ok := byID[jobID]
		if !ok {
			return &ports.JobSummary{ID: jobID, Title: unknownJobTitle, Company: unknownJobCompany}
		}
		return &ports.JobSummary{
			ID:       j.ID,
			Title:    j.Title,
			Company:  j.Company,
			Location: j.Location,
			Status:   j.Status,
		}
	}, nil
}

func uniqueIDs(apps []*domain.Application, key func(*domain.Application) string) []string {
	seen := make(map[string]struct{}, len(apps))
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		id := key(a)
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
