package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	RoleJobseeker = "jobseeker"
	RoleEmployer  = "employer"
)

// ValidRole reports whether r is one of the roles a user can register with.
func ValidRole(r string) bool {
	return r == RoleJobseeker || r == RoleEmployer
}

// User is the identity record. Role is fixed at registration.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormalizeEmail lower-cases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser validates the registration fields and returns an unsaved User.
func NewUser(email, passwordHash, name, role string, now time.Time) (*User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, fmt.Errorf("%w: email must be a valid address", ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: role must be one of: %s %s", ErrValidation, RoleJobseeker, RoleEmployer)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	ID   string
	Role string
}

func (p Principal) IsEmployer() bool  { return p.Role == RoleEmployer }
func (p Principal) IsJobseeker() bool { return p.Role == RoleJobseeker }
