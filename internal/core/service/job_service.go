package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hireboard/jobboard-api/internal/pkg/metrics"
	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
)

// averageResponseTime is reported until applications record a response time.
const averageResponseTime = "N/A"

type JobService struct {
	jobs        ports.JobRepository
	apps        ports.ApplicationRepository
	users       ports.UserRepository
	idempotency ports.IdempotencyStore // nil disables Idempotency-Key handling
	logger      zerolog.Logger
}

func NewJobService(
	jobs ports.JobRepository,
	apps ports.ApplicationRepository,
	users ports.UserRepository,
	idempotency ports.IdempotencyStore,
	logger zerolog.Logger,
) *JobService {
	return &JobService{jobs: jobs, apps: apps, users: users, idempotency: idempotency, logger: logger}
}

// Create persists a new posting owned by the calling employer. When an
// idempotency key is supplied and already resolved, the earlier job is
// returned with Replayed set instead of inserting a duplicate.
func (s *JobService) Create(ctx context.Context, p domain.Principal, draft domain.JobDraft, idempotencyKey string) (*ports.CreateJobResult, error) {
	if !p.IsEmployer() {
		return nil, domain.ErrForbidden
	}

	job, err := domain.NewJob(p.ID, draft, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	key := ""
	if idempotencyKey != "" && s.idempotency != nil {
		key = p.ID + ":" + idempotencyKey
		replay, reserved, err := s.reserve(ctx, key)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			return replay, nil
		}
		if !reserved {
			key = ""
		}
	}

	created, err := s.jobs.Create(ctx, job)
	if err != nil {
		if key != "" {
			if relErr := s.idempotency.Release(ctx, key); relErr != nil {
				s.logger.Warn().Err(relErr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, fmt.Errorf("create job: %w", err)
	}

	if key != "" {
		if err := s.idempotency.Complete(ctx, key, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to record idempotency key")
		}
	}

	metrics.JobsCreatedTotal.WithLabelValues(string(created.Type)).Inc()
	s.logger.Info().Str("job_id", created.ID).Str("employer_id", p.ID).Msg("job created")

	return &ports.CreateJobResult{Job: created}, nil
}

// reserve claims key. It returns the earlier result for a completed key, or
// reserved=false when the store is unreachable and creation should proceed
// without idempotency.
func (s *JobService) reserve(ctx context.Context, key string) (*ports.CreateJobResult, bool, error) {
	ok, err := s.idempotency.Reserve(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("idempotency store unavailable, creating without key")
		return nil, false, nil
	}
	if ok {
		return nil, true, nil
	}

	jobID, err := s.idempotency.Resolve(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("idempotency store unavailable, creating without key")
		return nil, false, nil
	}
	if jobID == "" {
		return nil, false, domain.ErrIdempotencyKeyInUse
	}

	existing, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, false, fmt.Errorf("create job: replay: %w", err)
	}

	metrics.IdempotentReplaysTotal.Inc()
	s.logger.Info().Str("idempotency_key", key).Str("job_id", jobID).Msg("idempotent replay")
	return &ports.CreateJobResult{Job: existing, Replayed: true}, false, nil
}

// List returns active jobs matching filter, newest first. A non-nil viewer
// gets each job annotated with their own application status.
func (s *JobService) List(ctx context.Context, filter ports.JobFilter, viewer *domain.Principal) ([]ports.JobListItem, error) {
	filter.Status = domain.JobStatusActive
	filter.EmployerID = ""

	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	employers, err := s.employerSummaries(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	items := make([]ports.JobListItem, len(jobs))
	for i, j := range jobs {
		items[i] = ports.JobListItem{Job: j, Employer: employers[j.EmployerID]}
	}
	if viewer == nil || len(jobs) == 0 {
		return items, nil
	}

	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	apps, err := s.apps.ListByApplicant(ctx, viewer.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("list jobs: applications: %w", err)
	}
	statusByJob := make(map[string]domain.ApplicationStatus, len(apps))
	for _, a := range apps {
		statusByJob[a.JobID] = a.Status
	}

	for i := range items {
		items[i].Annotated = true
		if st, ok := statusByJob[items[i].Job.ID]; ok {
			items[i].IsApplied = true
			items[i].ApplicationStatus = st
		}
	}
	return items, nil
}

// ListByEmployer returns the postings of one employer whatever their status,
// narrowed to status when it is set.
func (s *JobService) ListByEmployer(ctx context.Context, employerID string, status domain.JobStatus) ([]*domain.Job, error) {
	jobs, err := s.jobs.List(ctx, ports.JobFilter{EmployerID: employerID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("list employer jobs: %w", err)
	}
	return jobs, nil
}

// ListOwn returns every posting of the calling employer matching filter.
func (s *JobService) ListOwn(ctx context.Context, p domain.Principal, filter ports.JobFilter) ([]*domain.Job, error) {
	if !p.IsEmployer() {
		return nil, domain.ErrForbidden
	}
	filter.EmployerID = p.ID

	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list own jobs: %w", err)
	}
	return jobs, nil
}

// Get returns a job with live stats. An authenticated viewer's visit is
// recorded first so the stats include it.
func (s *JobService) Get(ctx context.Context, id string, viewer *domain.Principal) (*ports.JobDetail, error) {
	var (
		job *domain.Job
		err error
	)
	if viewer != nil {
		job, err = s.recordView(ctx, id, viewer.ID)
	} else {
		job, err = s.jobs.FindByID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	count, err := s.apps.CountByJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("get job: count applications: %w", err)
	}

	employers, err := s.employerSummaries(ctx, []*domain.Job{job})
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	return &ports.JobDetail{
		Job:      job,
		Employer: employers[job.EmployerID],
		Stats: ports.JobStats{
			Views:        job.Views,
			UniqueViews:  job.UniqueViews,
			Applications: count,
		},
	}, nil
}

func (s *JobService) RecordView(ctx context.Context, id string, p domain.Principal) (*ports.JobStats, error) {
	job, err := s.recordView(ctx, id, p.ID)
	if err != nil {
		return nil, fmt.Errorf("record view: %w", err)
	}
	return &ports.JobStats{Views: job.Views, UniqueViews: job.UniqueViews}, nil
}

func (s *JobService) recordView(ctx context.Context, id, viewerID string) (*domain.Job, error) {
	job, first, err := s.jobs.RecordView(ctx, id, viewerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	metrics.JobViewsTotal.WithLabelValues(strconv.FormatBool(first)).Inc()
	return job, nil
}

func (s *JobService) Update(ctx context.Context, id string, p domain.Principal, u domain.JobUpdate) (*domain.Job, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, id, p); err != nil {
		return nil, err
	}
	if u.IsEmpty() {
		return s.jobs.FindByID(ctx, id)
	}

	job, err := s.jobs.Update(ctx, id, p.ID, u)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Delete removes the posting. Its applications are kept.
func (s *JobService) Delete(ctx context.Context, id string, p domain.Principal) error {
	if _, err := s.owned(ctx, id, p); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, id, p.ID); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	s.logger.Info().Str("job_id", id).Str("employer_id", p.ID).Msg("job deleted")
	return nil
}

// SetStatus validates status before touching the store.
func (s *JobService) SetStatus(ctx context.Context, id string, p domain.Principal, status string) (*domain.Job, error) {
	st, err := domain.ParseJobStatus(status)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, id, p, domain.JobUpdate{Status: &st})
}

func (s *JobService) Stats(ctx context.Context, id string, p domain.Principal) (*ports.JobStats, error) {
	job, err := s.owned(ctx, id, p)
	if err != nil {
		return nil, err
	}
	count, err := s.apps.CountByJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	return &ports.JobStats{Views: job.Views, UniqueViews: job.UniqueViews, Applications: count}, nil
}

// Analytics aggregates live application documents for one posting.
func (s *JobService) Analytics(ctx context.Context, id string, p domain.Principal) (*ports.JobAnalytics, error) {
	job, err := s.owned(ctx, id, p)
	if err != nil {
		return nil, err
	}

	counts, err := s.apps.CountByStatus(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("job analytics: %w", err)
	}

	byStatus := make(map[domain.ApplicationStatus]int64, len(domain.ApplicationStatuses))
	var total int64
	for _, st := range domain.ApplicationStatuses {
		byStatus[st] = counts[st]
		total += counts[st]
	}

	var rate float64
	if job.Views > 0 {
		rate = float64(total) / float64(job.Views) * 100
	}

	return &ports.JobAnalytics{
		JobID:                job.ID,
		Title:                job.Title,
		Company:              job.Company,
		Status:               job.Status,
		CreatedAt:            job.CreatedAt,
		Views:                job.Views,
		UniqueViews:          job.UniqueViews,
		Applications:         total,
		ApplicationsByStatus: byStatus,
		ConversionRate:       rate,
		AverageResponseTime:  averageResponseTime,
	}, nil
}

// owned loads the job and checks that p is its employer.
func (s *JobService) owned(ctx context.Context, id string, p domain.Principal) (*domain.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if !job.OwnedBy(p.ID) {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

func (s *JobService) employerSummaries(ctx context.Context, jobs []*domain.Job) (map[string]*ports.EmployerSummary, error) {
	seen := make(map[string]struct{}, len(jobs))
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if _, ok := seen[j.EmployerID]; ok {
			continue
		}
		seen[j.EmployerID] = struct{}{}
		ids = append(ids, j.EmployerID)
	}

	out := make(map[string]*ports.EmployerSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return out, nil
		}
		return nil, fmt.Errorf("load employers: %w", err)
	}
	for _, u := range users {
		out[u.ID] = &ports.EmployerSummary{ID: u.ID, Name: u.Name}
	}
	return out, nil
}
