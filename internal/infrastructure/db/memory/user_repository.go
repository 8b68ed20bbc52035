package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return nil, domain.ErrEmailTaken
	}

	clone := *user
	clone.ID = newID()
	clone.Email = email
	r.byID[clone.ID] = &clone
	r.byEmail[email] = clone.ID

	out := clone
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	if err := checkIDs(ids); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *UserRepository) UpdateName(_ context.Context, id, name string) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Name = name
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}
