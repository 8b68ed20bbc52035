package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

type ProfileRepository struct {
	mu     sync.RWMutex
	byUser map[string]*domain.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{byUser: make(map[string]*domain.Profile)}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	clone := *p
	clone.Skills = append([]string(nil), p.Skills...)
	clone.Experience = append([]domain.Experience(nil), p.Experience...)
	clone.Education = append([]domain.Education(nil), p.Education...)
	return &clone
}

func (r *ProfileRepository) Create(_ context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if err := checkID(profile.UserID); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUser[profile.UserID]; exists {
		return nil, domain.ErrProfileExists
	}
	clone := cloneProfile(profile)
	clone.ID = newID()
	r.byUser[clone.UserID] = clone
	return cloneProfile(clone), nil
}

func (r *ProfileRepository) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (r *ProfileRepository) FindByUserIDs(_ context.Context, userIDs []string) ([]*domain.Profile, error) {
	if err := checkIDs(userIDs); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		if p, ok := r.byUser[id]; ok {
			out = append(out, cloneProfile(p))
		}
	}
	return out, nil
}

func (r *ProfileRepository) Update(_ context.Context, userID string, u domain.ProfileUpdate) (*domain.Profile, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.Apply(u, time.Now().UTC())
	return cloneProfile(p), nil
}
