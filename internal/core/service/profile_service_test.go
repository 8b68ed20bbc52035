package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
	"github.com/hireboard/jobboard-api/internal/infrastructure/db/memory"
)

func TestProfileService_UpdateOwn_Partial(t *testing.T) {
	users := memory.NewUserRepository()
	profiles := memory.NewProfileRepository()
	auth := NewAuthService(users, profiles, &stubIssuer{}, zerolog.Nop())
	svc := NewProfileService(users, profiles, zerolog.Nop())

	res, err := auth.Register(context.Background(), ports.RegisterInput{
		Email: "dana@example.com", Password: "pw", Name: "Dana", Role: domain.RoleJobseeker,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	p := domain.Principal{ID: res.User.ID, Role: res.User.Role}

	if _, err := svc.UpdateOwn(context.Background(), p, domain.ProfileUpdate{Headline: "Gopher", Skills: []string{"go"}}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	updated, err := svc.UpdateOwn(context.Background(), p, domain.ProfileUpdate{Name: "Dana S.", Location: "Lisbon"})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if updated.Headline != "Gopher" || len(updated.Skills) != 1 {
		t.Fatalf("omitted fields must be kept: %+v", updated)
	}
	if updated.Name != "Dana S." || updated.Location != "Lisbon" {
		t.Fatalf("new fields not applied: %+v", updated)
	}
	if updated.Email != "dana@example.com" || updated.Role != domain.RoleJobseeker {
		t.Fatalf("email and role must not change: %+v", updated)
	}

	user, _ := users.FindByID(context.Background(), p.ID)
	if user.Name != "Dana S." {
		t.Fatalf("user name not synced, got %q", user.Name)
	}

	own, err := svc.GetOwn(context.Background(), p)
	if err != nil || own.Name != "Dana S." {
		t.Fatalf("GetOwn: %+v, %v", own, err)
	}
}
