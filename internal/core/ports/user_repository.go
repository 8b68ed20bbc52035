package ports

import (
	"context"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

// UserRepository persists identity records. Email uniqueness is enforced by
// the store; Create returns domain.ErrEmailTaken on a duplicate.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	UpdateName(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// ProfileRepository persists the public profile projection, one per user.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error)
	// Update atomically applies the non-empty fields of u and returns the
	// resulting document.
	Update(ctx context.Context, userID string, u domain.ProfileUpdate) (*domain.Profile, error)
}
