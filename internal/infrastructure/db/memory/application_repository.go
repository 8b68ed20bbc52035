package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

type storedApplication struct {
	app *domain.Application
	seq uint64
}

type ApplicationRepository struct {
	mu   sync.RWMutex
	apps map[string]storedApplication
	// pairs enforces one application per (job, applicant).
	pairs map[[2]string]string
	seq   uint64
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{
		apps:  make(map[string]storedApplication),
		pairs: make(map[[2]string]string),
	}
}

func (r *ApplicationRepository) Create(_ context.Context, app *domain.Application) (*domain.Application, error) {
	if err := checkIDs([]string{app.JobID, app.ApplicantID}); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	pair := [2]string{app.JobID, app.ApplicantID}
	if _, exists := r.pairs[pair]; exists {
		return nil, domain.ErrAlreadyApplied
	}

	clone := *app
	clone.ID = newID()
	r.seq++
	r.apps[clone.ID] = storedApplication{app: &clone, seq: r.seq}
	r.pairs[pair] = clone.ID

	out := clone
	return &out, nil
}

func (r *ApplicationRepository) FindByID(_ context.Context, id string) (*domain.Application, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	clone := *s.app
	return &clone, nil
}

// filter returns matching applications newest first. Callers hold the lock.
func (r *ApplicationRepository) filter(keep func(*domain.Application) bool) []*domain.Application {
	matched := make([]storedApplication, 0)
	for _, s := range r.apps {
		if keep(s.app) {
			matched = append(matched, s)
		}
	}
	newestFirst(matched,
		func(s storedApplication) int64 { return s.app.CreatedAt.UnixNano() },
		func(s storedApplication) uint64 { return s.seq },
	)

	out := make([]*domain.Application, len(matched))
	for i, s := range matched {
		clone := *s.app
		out[i] = &clone
	}
	return out
}

func (r *ApplicationRepository) ListByJob(_ context.Context, jobID string) ([]*domain.Application, error) {
	if err := checkID(jobID); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(a *domain.Application) bool { return a.JobID == jobID }), nil
}

func (r *ApplicationRepository) ListByApplicant(_ context.Context, applicantID string, jobIDs []string) ([]*domain.Application, error) {
	if err := checkIDs(append([]string{applicantID}, jobIDs...)); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var only map[string]struct{}
	if jobIDs != nil {
		only = make(map[string]struct{}, len(jobIDs))
		for _, id := range jobIDs {
			only[id] = struct{}{}
		}
	}

	return r.filter(func(a *domain.Application) bool {
		if a.ApplicantID != applicantID {
			return false
		}
		if only == nil {
			return true
		}
		_, ok := only[a.JobID]
		return ok
	}), nil
}

func (r *ApplicationRepository) ListRecentByEmployer(_ context.Context, employerID string, limit int) ([]*domain.Application, error) {
	if err := checkID(employerID); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.filter(func(a *domain.Application) bool { return a.EmployerID == employerID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ApplicationRepository) CountByJob(_ context.Context, jobID string) (int64, error) {
	if err := checkID(jobID); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, s := range r.apps {
		if s.app.JobID == jobID {
			n++
		}
	}
	return n, nil
}

func (r *ApplicationRepository) CountByStatus(_ context.Context, jobID string) (map[domain.ApplicationStatus]int64, error) {
	if err := checkID(jobID); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.ApplicationStatus]int64)
	for _, s := range r.apps {
		if s.app.JobID == jobID {
			counts[s.app.Status]++
		}
	}
	return counts, nil
}

func (r *ApplicationRepository) Review(_ context.Context, id, employerID string, rv domain.ApplicationReview) (*domain.Application, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.apps[id]
	if !ok || s.app.EmployerID != employerID {
		return nil, domain.ErrApplicationNotFound
	}
	if rv.Status != nil {
		s.app.Status = *rv.Status
	}
	if rv.Notes != nil {
		s.app.Notes = *rv.Notes
	}
	s.app.UpdatedAt = time.Now().UTC()

	clone := *s.app
	return &clone, nil
}
