package ports

import (
	"context"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// AuthResult is returned by both register and login.
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

type ProfileService interface {
	GetOwn(ctx context.Context, principal domain.Principal) (*domain.Profile, error)
	UpdateOwn(ctx context.Context, principal domain.Principal, update domain.ProfileUpdate) (*domain.Profile, error)
}
