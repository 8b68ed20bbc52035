package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("secret", 0)
	user := &domain.User{ID: "665f1c2e9b1d4a0012345678", Role: domain.RoleEmployer}

	raw, err := m.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	p, err := m.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.ID != user.ID || p.Role != domain.RoleEmployer {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestManager_ExpiresAfterSevenDays(t *testing.T) {
	m := NewManager("secret", 0)
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issuedAt }

	raw, err := m.Issue(&domain.User{ID: "u1", Role: domain.RoleJobseeker})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m.now = func() time.Time { return issuedAt.Add(DefaultTTL - time.Minute) }
	if _, err := m.Parse(raw); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	m.now = func() time.Time { return issuedAt.Add(DefaultTTL + time.Minute) }
	if _, err := m.Parse(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestManager_RejectsForeignTokens(t *testing.T) {
	m := NewManager("secret", time.Hour)

	other, _ := NewManager("other-secret", time.Hour).Issue(&domain.User{ID: "u1", Role: domain.RoleJobseeker})
	if _, err := m.Parse(other); err != ErrInvalidToken {
		t.Fatalf("expected wrong-secret token to fail, got %v", err)
	}

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": domain.RoleJobseeker,
	}).SignedString([]byte("secret"))
	if _, err := m.Parse(noExp); err != ErrInvalidToken {
		t.Fatalf("expected token without exp to fail, got %v", err)
	}

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if _, err := m.Parse(badRole); err != ErrInvalidToken {
		t.Fatalf("expected unknown role to fail, got %v", err)
	}

	if _, err := m.Parse("not-a-token"); err != ErrInvalidToken {
		t.Fatalf("expected garbage to fail, got %v", err)
	}
}
