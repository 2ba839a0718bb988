package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/domain"
)

// ListStore defines the interface for flashcard list persistence.
type ListStore interface {
	Create(ctx context.Context, list *domain.List) error

	// GetByID returns ErrListNotFound if the list does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error)

	// ListByFolder returns the lists in a folder, oldest first.
	ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*domain.List, error)

	// Update saves name and content.
	Update(ctx context.Context, list *domain.List) error

	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) ListStore
}
