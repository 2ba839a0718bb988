package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/platform/logger"
	"github.com/phrazzld/flashlists/internal/store"
)

// PostgresListStore implements store.ListStore on PostgreSQL. The card sides
// are stored as two TEXT[] columns of equal cardinality.
type PostgresListStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresListStore creates a list store.
func NewPostgresListStore(db store.DBTX, logger *slog.Logger) *PostgresListStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresListStore{
		db:     db,
		logger: logger.With(slog.String("component", "list_store")),
	}
}

var _ store.ListStore = (*PostgresListStore)(nil)

// WithTx implements store.ListStore.WithTx.
func (s *PostgresListStore) WithTx(tx *sql.Tx) store.ListStore {
	return &PostgresListStore{db: tx, logger: s.logger}
}

const listColumns = `id, folder_id, user_id, name, front, back, created_at, updated_at`

// Create implements store.ListStore.Create.
func (s *PostgresListStore) Create(ctx context.Context, list *domain.List) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := list.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lists (`+listColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		list.ID,
		list.FolderID,
		list.UserID,
		list.Name,
		list.Front,
		list.Back,
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create list", slog.Any("error", err), slog.String("list_id", list.ID.String()))
		return store.NewStoreError("list", "create", "insert failed", MapError(err))
	}

	log.Debug("list created",
		slog.String("list_id", list.ID.String()),
		slog.Int("cards", len(list.Front)))
	return nil
}

// GetByID implements store.ListStore.GetByID.
func (s *PostgresListStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, `SELECT `+listColumns+` FROM lists WHERE id = $1`, id)
	list, err := s.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrListNotFound
		}
		log.Error("failed to get list", slog.Any("error", err), slog.String("list_id", id.String()))
		return nil, store.NewStoreError("list", "get", "query failed", MapError(err))
	}
	return list, nil
}

// ListByFolder implements store.ListStore.ListByFolder.
func (s *PostgresListStore) ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*domain.List, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+listColumns+`
		FROM lists
		WHERE folder_id = $1
		ORDER BY created_at, id
	`, folderID)
	if err != nil {
		log.Error("failed to list lists", slog.Any("error", err), slog.String("folder_id", folderID.String()))
		return nil, store.NewStoreError("list", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	lists := []*domain.List{}
	for rows.Next() {
		list, err := s.scan(rows)
		if err != nil {
			return nil, store.NewStoreError("list", "list", "scan failed", MapError(err))
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("list", "list", "iteration failed", MapError(err))
	}
	return lists, nil
}

// Update implements store.ListStore.Update.
func (s *PostgresListStore) Update(ctx context.Context, list *domain.List) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := list.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE lists
		SET name = $1, front = $2, back = $3, updated_at = $4
		WHERE id = $5
	`, list.Name, list.Front, list.Back, list.UpdatedAt, list.ID)
	if err != nil {
		log.Error("failed to update list", slog.Any("error", err), slog.String("list_id", list.ID.String()))
		return store.NewStoreError("list", "update", "update failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrListNotFound)
}

// Delete implements store.ListStore.Delete.
func (s *PostgresListStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete list", slog.Any("error", err), slog.String("list_id", id.String()))
		return store.NewStoreError("list", "delete", "delete failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrListNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scan decodes one list row. pgtype.Map caches scan plans without locking,
// so each call gets its own.
func (s *PostgresListStore) scan(row rowScanner) (*domain.List, error) {
	types := pgtype.NewMap()
	var l domain.List
	err := row.Scan(
		&l.ID,
		&l.FolderID,
		&l.UserID,
		&l.Name,
		types.SQLScanner(&l.Front),
		types.SQLScanner(&l.Back),
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if l.Front == nil {
		l.Front = []string{}
	}
	if l.Back == nil {
		l.Back = []string{}
	}
	return &l, nil
}
