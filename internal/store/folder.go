package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/domain"
)

// FolderStore defines the interface for folder data persistence.
type FolderStore interface {
	Create(ctx context.Context, folder *domain.Folder) error

	// GetByID returns ErrFolderNotFound if the folder does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error)

	// ListByUser returns the user's folders, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Folder, error)

	// Rename updates name and updated_at.
	Rename(ctx context.Context, folder *domain.Folder) error

	// Delete removes the folder and, through the foreign key, its lists.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) FolderStore
}
