package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
)

type storedJob struct {
	job *domain.Job
	seq uint64
}

type JobRepository struct {
	mu   sync.RWMutex
	jobs map[string]storedJob
	seq  uint64
}

func NewJobRepository() *JobRepository {
	return &JobRepository{jobs: make(map[string]storedJob)}
}

func cloneJob(j *domain.Job) *domain.Job {
	clone := *j
	clone.ViewHistory = append([]domain.ViewRecord{}, j.ViewHistory...)
	return &clone
}

func (r *JobRepository) Create(_ context.Context, job *domain.Job) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneJob(job)
	clone.ID = newID()
	r.seq++
	r.jobs[clone.ID] = storedJob{job: clone, seq: r.seq}
	return cloneJob(clone), nil
}

func (r *JobRepository) FindByID(_ context.Context, id string) (*domain.Job, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(s.job), nil
}

func (r *JobRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.Job, error) {
	if err := checkIDs(ids); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Job, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.jobs[id]; ok {
			out = append(out, cloneJob(s.job))
		}
	}
	return out, nil
}

// List mirrors the Mongo query: exact matches on the set filter fields and a
// case-insensitive substring search over title, company and location.
// View history is omitted as in the Mongo projection.
func (r *JobRepository) List(_ context.Context, f ports.JobFilter) ([]*domain.Job, error) {
	if f.EmployerID != "" {
		if err := checkID(f.EmployerID); err != nil {
			return nil, err
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]storedJob, 0, len(r.jobs))
	for _, s := range r.jobs {
		j := s.job
		if f.EmployerID != "" && j.EmployerID != f.EmployerID {
			continue
		}
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.Type != "" && j.Type != f.Type {
			continue
		}
		if f.Experience != "" && j.Experience != f.Experience {
			continue
		}
		if f.Search != "" && !containsFold(j.Title, f.Search) &&
			!containsFold(j.Company, f.Search) && !containsFold(j.Location, f.Search) {
			continue
		}
		matched = append(matched, s)
	}

	newestFirst(matched,
		func(s storedJob) int64 { return s.job.CreatedAt.UnixNano() },
		func(s storedJob) uint64 { return s.seq },
	)

	out := make([]*domain.Job, len(matched))
	for i, s := range matched {
		clone := cloneJob(s.job)
		clone.ViewHistory = nil
		out[i] = clone
	}
	return out, nil
}

func (r *JobRepository) Update(_ context.Context, id, employerID string, u domain.JobUpdate) (*domain.Job, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.jobs[id]
	if !ok || s.job.EmployerID != employerID {
		return nil, domain.ErrJobNotFound
	}
	s.job.Apply(u, time.Now().UTC())
	return cloneJob(s.job), nil
}

func (r *JobRepository) Delete(_ context.Context, id, employerID string) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.jobs[id]
	if !ok || s.job.EmployerID != employerID {
		return domain.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

// RecordView performs the check and the increments under one lock, matching
// the single-document conditional update of the Mongo adapter.
func (r *JobRepository) RecordView(_ context.Context, id, viewerID string, at time.Time) (*domain.Job, bool, error) {
	if err := checkID(id); err != nil {
		return nil, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.jobs[id]
	if !ok {
		return nil, false, domain.ErrJobNotFound
	}

	j := s.job
	j.Views++
	first := !j.HasViewer(viewerID)
	if first {
		j.UniqueViews++
		j.ViewHistory = append(j.ViewHistory, domain.ViewRecord{UserID: viewerID, ViewedAt: at})
	}
	return cloneJob(j), first, nil
}
