package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/platform/logger"
	"github.com/phrazzld/flashlists/internal/store"
)

// PostgresFolderStore implements store.FolderStore on PostgreSQL.
type PostgresFolderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFolderStore creates a folder store.
func NewPostgresFolderStore(db store.DBTX, logger *slog.Logger) *PostgresFolderStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresFolderStore{
		db:     db,
		logger: logger.With(slog.String("component", "folder_store")),
	}
}

var _ store.FolderStore = (*PostgresFolderStore)(nil)

// WithTx implements store.FolderStore.WithTx.
func (s *PostgresFolderStore) WithTx(tx *sql.Tx) store.FolderStore {
	return &PostgresFolderStore{db: tx, logger: s.logger}
}

// Create implements store.FolderStore.Create.
func (s *PostgresFolderStore) Create(ctx context.Context, folder *domain.Folder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := folder.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO folders (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, folder.ID, folder.UserID, folder.Name, folder.CreatedAt, folder.UpdatedAt)
	if err != nil {
		log.Error("failed to create folder", slog.Any("error", err), slog.String("folder_id", folder.ID.String()))
		return store.NewStoreError("folder", "create", "insert failed", MapError(err))
	}

	log.Debug("folder created", slog.String("folder_id", folder.ID.String()))
	return nil
}

// GetByID implements store.FolderStore.GetByID.
func (s *PostgresFolderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var f domain.Folder
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM folders
		WHERE id = $1
	`, id).Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFolderNotFound
		}
		log.Error("failed to get folder", slog.Any("error", err), slog.String("folder_id", id.String()))
		return nil, store.NewStoreError("folder", "get", "query failed", MapError(err))
	}
	return &f, nil
}

// ListByUser implements store.FolderStore.ListByUser.
func (s *PostgresFolderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Folder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM folders
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		log.Error("failed to list folders", slog.Any("error", err), slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("folder", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	folders := []*domain.Folder{}
	for rows.Next() {
		var f domain.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, store.NewStoreError("folder", "list", "scan failed", MapError(err))
		}
		folders = append(folders, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("folder", "list", "iteration failed", MapError(err))
	}
	return folders, nil
}

// Rename implements store.FolderStore.Rename.
func (s *PostgresFolderStore) Rename(ctx context.Context, folder *domain.Folder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := folder.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE folders SET name = $1, updated_at = $2 WHERE id = $3`,
		folder.Name, folder.UpdatedAt, folder.ID)
	if err != nil {
		log.Error("failed to rename folder", slog.Any("error", err), slog.String("folder_id", folder.ID.String()))
		return store.NewStoreError("folder", "rename", "update failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrFolderNotFound)
}

// Delete implements store.FolderStore.Delete.
func (s *PostgresFolderStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete folder", slog.Any("error", err), slog.String("folder_id", id.String()))
		return store.NewStoreError("folder", "delete", "delete failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrFolderNotFound)
}
