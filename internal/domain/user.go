package domain

import (
	"net/mail"
	"strings"
	"time"

	apperrors "github.com/helpdeskpro/helpdesk/pkg/util"
)

// Role distinguishes end-users from support staff.
type Role string

const (
	RoleClient Role = "client"
	RoleAgent  Role = "agent"
)

// ParseRole validates a role value.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleClient, RoleAgent:
		return Role(value), nil
	}
	return "", apperrors.NewValidationError("invalid role", map[string]any{"role": value})
}

// User is the domain model for anyone who can authenticate.
// Role is fixed at registration; there is no promotion flow.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the populated form embedded in ticket/comment reads.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Summary projects the user into its embeddable shape.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Actor is the authenticated identity attached to every request.
type Actor struct {
	ID   string
	Role Role
}

// IsAgent reports whether the actor holds the agent role.
func (a Actor) IsAgent() bool {
	return a.Role == RoleAgent
}

// IsClient reports whether the actor holds the client role.
func (a Actor) IsClient() bool {
	return a.Role == RoleClient
}

// NewUser validates and builds a user. The password hash must already be
// computed; plaintext never reaches the domain layer.
func NewUser(name, email, passwordHash string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", map[string]any{"field": "name"})
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, apperrors.NewValidationError("password hash is required", map[string]any{"field": "password"})
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}, nil
}

// ValidateEmail checks address syntax. Uniqueness is enforced at the
// repository layer.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperrors.NewValidationError("invalid email address", map[string]any{"field": "email"})
	}
	return nil
}
