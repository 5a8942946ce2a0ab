package repository

import (
	"context"

	"github.com/brainiacs/portal/internal/model"
)

// UserStore persists users.  Implementations normalize emails with
// model.NormalizeEmail on every write and lookup and enforce email
// uniqueness themselves.
type UserStore interface {
	// Create inserts u.  It returns ErrEmailExists when the email is taken.
	Create(ctx context.Context, u *model.User) error
	// GetByEmail fetches a user by normalized email.
	GetByEmail(ctx context.Context, email string) (model.User, error)
	// GetByID fetches a user by id.
	GetByID(ctx context.Context, id string) (model.User, error)
	// EmailExists is a non-authoritative pre-check used for early errors.
	EmailExists(ctx context.Context, email string) (bool, error)
	// UpdateProfile replaces the profile of the user with the given id whose
	// role matches the profile's role, and returns the updated user.
	UpdateProfile(ctx context.Context, id string, p model.Profile) (model.User, error)
	// CountByRole returns the number of users per role.
	CountByRole(ctx context.Context) (map[model.Role]int64, error)
}
