package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
)

type ProfileService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

func NewProfileService(users ports.UserRepository, profiles ports.ProfileRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, profiles: profiles, log: log}
}

func (s *ProfileService) GetOwn(ctx context.Context, p domain.Principal) (*domain.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// UpdateOwn applies a partial update to the caller's profile. A new name is
// mirrored on the user record so both projections agree.
func (s *ProfileService) UpdateOwn(ctx context.Context, p domain.Principal, u domain.ProfileUpdate) (*domain.Profile, error) {
	u.Name = strings.TrimSpace(u.Name)
	if u.IsEmpty() {
		return s.GetOwn(ctx, p)
	}

	profile, err := s.profiles.Update(ctx, p.ID, u)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if u.Name != "" {
		if err := s.users.UpdateName(ctx, p.ID, u.Name); err != nil {
			return nil, fmt.Errorf("update profile: sync user name: %w", err)
		}
	}

	s.log.Debug().Str("user_id", p.ID).Msg("profile updated")
	return profile, nil
}
