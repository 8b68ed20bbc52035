package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hireboard/jobboard-api/internal/pkg/metrics"
	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	tokens   TokenIssuer
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, profiles ports.ProfileRepository, tokens TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, profiles: profiles, tokens: tokens, log: log}
}

// Register creates the user and its profile and returns a fresh token.
// A duplicate email is rejected by the store's unique index.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if in.Password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := domain.NewUser(in.Email, string(hash), in.Name, in.Role, now)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return nil, err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			return nil, err
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	if _, err := s.profiles.Create(ctx, domain.NewProfile(created, now)); err != nil {
		// Drop the user so the email can be registered again.
		if delErr := s.users.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("user_id", created.ID).Msg("user created without profile")
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: create profile: %w", err)
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()

	return &ports.AuthResult{User: created, Token: token}, nil
}

// Login verifies the credentials. Unknown email and wrong password produce
// the same error so callers cannot probe for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return &ports.AuthResult{User: user, Token: token}, nil
}
