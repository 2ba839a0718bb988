package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/events"
	"github.com/phrazzld/flashlists/internal/platform/logger"
	"github.com/phrazzld/flashlists/internal/store"
)

// FolderService manages the folders of a user.
type FolderService interface {
	Create(ctx context.Context, userID uuid.UUID, name string) (*domain.Folder, error)
	// List returns the user's folders, oldest first.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Folder, error)
	Rename(ctx context.Context, userID, folderID uuid.UUID, name string) (*domain.Folder, error)
	// Delete removes the folder together with its lists.
	Delete(ctx context.Context, userID, folderID uuid.UUID) error
}

type folderService struct {
	folders store.FolderStore
	tx      store.Transactor
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ FolderService = (*folderService)(nil)

// NewFolderService creates a FolderService.
func NewFolderService(
	folders store.FolderStore,
	tx store.Transactor,
	emitter events.EventEmitter,
	log *slog.Logger,
) (FolderService, error) {
	if folders == nil || tx == nil || emitter == nil {
		return nil, errors.New("folder service: missing dependency")
	}
	if log == nil {
		log = slog.Default()
	}
	return &folderService{
		folders: folders,
		tx:      tx,
		emitter: emitter,
		logger:  log.With(slog.String("component", "folder_service")),
	}, nil
}

// Create implements FolderService.
func (s *folderService) Create(ctx context.Context, userID uuid.UUID, name string) (*domain.Folder, error) {
	folder, err := domain.NewFolder(userID, name)
	if err != nil {
		return nil, err
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	emit(ctx, s.emitter, s.logger, events.NewListsUpdatedEvent(userID, folder.ID, uuid.Nil, events.ReasonFolderCreated))
	return folder, nil
}

// List implements FolderService.
func (s *folderService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Folder, error) {
	folders, err := s.folders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// Rename implements FolderService.
func (s *folderService) Rename(ctx context.Context, userID, folderID uuid.UUID, name string) (*domain.Folder, error) {
	var folder *domain.Folder
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		folders := s.folders.WithTx(tx)

		var err error
		folder, err = ownedFolder(ctx, folders, userID, folderID)
		if err != nil {
			return err
		}
		if err := folder.Rename(name); err != nil {
			return err
		}
		if err := folders.Rename(ctx, folder); err != nil {
			return fmt.Errorf("failed to rename folder: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	emit(ctx, s.emitter, s.logger, events.NewListsUpdatedEvent(userID, folderID, uuid.Nil, events.ReasonFolderRenamed))
	return folder, nil
}

// Delete implements FolderService.
func (s *folderService) Delete(ctx context.Context, userID, folderID uuid.UUID) error {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		folders := s.folders.WithTx(tx)
		if _, err := ownedFolder(ctx, folders, userID, folderID); err != nil {
			return err
		}
		if err := folders.Delete(ctx, folderID); err != nil {
			return fmt.Errorf("failed to delete folder: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("folder deleted",
		slog.String("folder_id", folderID.String()),
		slog.String("user_id", userID.String()))
	emit(ctx, s.emitter, s.logger, events.NewListsUpdatedEvent(userID, folderID, uuid.Nil, events.ReasonFolderDeleted))
	return nil
}

// ownedFolder loads a folder and checks that userID owns it.
func ownedFolder(ctx context.Context, folders store.FolderStore, userID, folderID uuid.UUID) (*domain.Folder, error) {
	folder, err := folders.GetByID(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load folder: %w", err)
	}
	if folder.UserID != userID {
		return nil, ErrNotOwned
	}
	return folder, nil
}

// emit publishes a change notification. Delivery problems are logged only;
// the change itself already succeeded.
func emit(ctx context.Context, emitter events.EventEmitter, fallback *slog.Logger, event *events.ListsUpdatedEvent) {
	if err := emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, fallback).Warn("failed to emit lists:updated",
			slog.Any("error", err),
			slog.String("reason", event.Reason))
	}
}
