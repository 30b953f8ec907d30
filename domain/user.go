package domain

import (
	"context"
	"time"
)

// User represents an account in the system. Accounts are provisioned by an
// external identity collaborator; this service only reads them to verify
// the caller and to decorate likers lists.
type User struct {
	ID        string    // Opaque UUID-shaped identifier
	Username  string    // Unique handle
	Email     string    // Unique email address
	CreatedAt time.Time // Account creation timestamp
}

// UserRepository defines the contract for user data access.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id string) (User, error)

	// GetByIDs retrieves users for the given IDs in a single query.
	// Missing IDs are silently skipped.
	GetByIDs(ctx context.Context, ids []string) ([]User, error)

	// Exists reports whether a user with the given ID exists.
	Exists(ctx context.Context, id string) (bool, error)
}
