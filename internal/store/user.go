package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user, hashing its plaintext password.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update saves the user. A non-empty Password is hashed and replaces
	// HashedPassword.
	Update(ctx context.Context, user *domain.User) error

	// MarkVerified flags the account as verified. Verifying twice is not an error.
	MarkVerified(ctx context.Context, id uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteUnverifiedBefore removes accounts that were never verified and
	// were created before cutoff. It returns how many were removed.
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
