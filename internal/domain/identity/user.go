package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nokib-web/expensetracker/internal/domain/shared"
)

// User is the account aggregate. Authentication state (password hash) lives
// here; everything else in the system hangs off the user ID.
type User struct {
	shared.BaseEntity
	Email        string
	Name         string
	PasswordHash string
}

// NewUser creates a new user with a normalized email
func NewUser(email, name, passwordHash string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid email address")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Name is required")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Password hash is required")
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}, nil
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
}
