package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/events"
	"github.com/phrazzld/flashlists/internal/generation"
	"github.com/phrazzld/flashlists/internal/platform/logger"
	"github.com/phrazzld/flashlists/internal/store"
)

// ListService manages the flashcard lists inside a user's folders.
type ListService interface {
	CreateInFolder(ctx context.Context, userID, folderID uuid.UUID, name string, front, back []string) (*domain.List, error)
	Get(ctx context.Context, userID, listID uuid.UUID) (*domain.List, error)
	ListInFolder(ctx context.Context, userID, folderID uuid.UUID) ([]*domain.List, error)
	// Update renames the list and, when in.Front and in.Back are both
	// non-nil, replaces its content.
	Update(ctx context.Context, userID, listID uuid.UUID, in UpdateListInput) (*domain.List, error)
	Rename(ctx context.Context, userID, listID uuid.UUID, name string) (*domain.List, error)
	Delete(ctx context.Context, userID, listID uuid.UUID) error
	// SaveFromText stores raw editor blocks as a list. A nil ListID creates a
	// new list in FolderID; otherwise the existing list is overwritten.
	SaveFromText(ctx context.Context, userID uuid.UUID, in SaveTextInput) (*SaveTextResult, error)
	Export(ctx context.Context, userID, listID uuid.UUID) (domain.ListExport, error)
	Import(ctx context.Context, userID, folderID uuid.UUID, data domain.ListExport) (*domain.List, error)
}

// UpdateListInput carries a list update. Nil sides leave the content alone;
// giving only one side is a validation error.
type UpdateListInput struct {
	Name  string
	Front []string
	Back  []string
}

// SaveTextInput carries raw editor text to persist.
type SaveTextInput struct {
	FolderID  uuid.UUID
	ListID    uuid.UUID
	Name      string
	FrontText string
	BackText  string
}

// SaveTextResult is the stored list and a diagnostic when lines were dropped
// because the sides had different lengths.
type SaveTextResult struct {
	List       *domain.List
	Diagnostic generation.Diagnostic
}

type listService struct {
	lists   store.ListStore
	folders store.FolderStore
	tx      store.Transactor
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ ListService = (*listService)(nil)

// NewListService creates a ListService.
func NewListService(
	lists store.ListStore,
	folders store.FolderStore,
	tx store.Transactor,
	emitter events.EventEmitter,
	log *slog.Logger,
) (ListService, error) {
	if lists == nil || folders == nil || tx == nil || emitter == nil {
		return nil, errors.New("list service: missing dependency")
	}
	if log == nil {
		log = slog.Default()
	}
	return &listService{
		lists:   lists,
		folders: folders,
		tx:      tx,
		emitter: emitter,
		logger:  log.With(slog.String("component", "list_service")),
	}, nil
}

// CreateInFolder implements ListService.
func (s *listService) CreateInFolder(
	ctx context.Context,
	userID, folderID uuid.UUID,
	name string,
	front, back []string,
) (*domain.List, error) {
	list, err := s.create(ctx, userID, folderID, name, normalizeAll(front), normalizeAll(back))
	if err != nil {
		return nil, err
	}
	emit(ctx, s.emitter, s.logger, events.NewListsUpdatedEvent(userID, folderID, list.ID, events.ReasonListCreated))
	return list, nil
}

func (s *listService) create(
	ctx context.Context,
	userID, folderID uuid.UUID,
	name string,
	front, back []string,
) (*domain.List, error) {
	if _, err := ownedFolder(ctx, s.folders, userID, folderID); err != nil {
		return nil, err
	}

	list, err := domain.NewList(userID, folderID, name, front, back)
	if err != nil {
		return nil, err
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("list created",
		slog.String("list_id", list.ID.String()),
		slog.Int("cards", len(list.Front)))
	return list, nil
}

// Get implements ListService.
func (s *listService) Get(ctx context.Context, userID, listID uuid.UUID) (*domain.List, error) {
	return ownedList(ctx, s.lists, userID, listID)
}

// ListInFolder implements ListService.
func (s *listService) ListInFolder(ctx context.Context, userID, folderID uuid.UUID) ([]*domain.List, error) {
	if _, err := ownedFolder(ctx, s.folders, userID, folderID); err != nil {
		return nil, err
	}
	lists, err := s.lists.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

// Update implements ListService.
func (s *listService) Update(
	ctx context.Context,
	userID, listID uuid.UUID,
	in UpdateListInput,
) (*domain.List, error) {
	if (in.Front == nil) != (in.Back == nil) {
		return nil, domain.NewValidationError("content", "front and back must be given together", domain.ErrMissingSide)
	}

	list, err := s.modify(ctx, userID, listID, func(list *domain.List) error {
		if in.Front != nil {
			if err := list.SetContent(normalizeAll(in.Front), normalizeAll(in.Back)); err != nil {
				return err
			}
		}
		return list.Rename(in.Name)
	})
	if err != nil {
		return nil, err
	}
	emit(ctx, s.emitter, s.logger, events.NewListsUpdatedEvent(userID, list.FolderID, list.ID, events.ReasonListUpdated))
	return list, nil
}

// Rename implements ListService.
func (s *listService) Rename(ctx context.Context, userID, listID uuid.UUID, name string) (*domain.List, error) {
	return s.Update(ctx, userID, listID, UpdateListInput{Name: name})
}

// Delete implements ListService.
func (s *listService) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	var folderID uuid.UUID
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)
		list, err := ownedList(ctx, lists, userID, listID)
		if err != nil {
			return err
		}
		folderID = list.FolderID
		if err := lists.Delete(ctx, listID); err != nil {
			return fmt.Errorf("failed to delete list: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	emit(ctx, s.emitter, s.logger, events.NewListsUpdatedEvent(userID, folderID, listID, events.ReasonListDeleted))
	return nil
}

// SaveFromText implements ListService.
func (s *listService) SaveFromText(ctx context.Context, userID uuid.UUID, in SaveTextInput) (*SaveTextResult, error) {
	front, back, diag := generation.PersistablePairs(in.FrontText, in.BackText)

	if in.ListID == uuid.Nil {
		list, err := s.CreateInFolder(ctx, userID, in.FolderID, in.Name, front, back)
		if err != nil {
			return nil, err
		}
		return &SaveTextResult{List: list, Diagnostic: diag}, nil
	}

	list, err := s.Update(ctx, userID, in.ListID, UpdateListInput{Name: in.Name, Front: front, Back: back})
	if err != nil {
		return nil, err
	}
	return &SaveTextResult{List: list, Diagnostic: diag}, nil
}

// Export implements ListService.
func (s *listService) Export(ctx context.Context, userID, listID uuid.UUID) (domain.ListExport, error) {
	list, err := ownedList(ctx, s.lists, userID, listID)
	if err != nil {
		return domain.ListExport{}, err
	}
	return list.Export(), nil
}

// Import implements ListService.
func (s *listService) Import(
	ctx context.Context,
	userID, folderID uuid.UUID,
	data domain.ListExport,
) (*domain.List, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	list, err := s.create(ctx, userID, folderID, data.Name, trimAll(data.Front), trimAll(data.Back))
	if err != nil {
		return nil, err
	}
	emit(ctx, s.emitter, s.logger, events.NewListsUpdatedEvent(userID, folderID, list.ID, events.ReasonListImported))
	return list, nil
}

// modify runs a read-modify-write of an owned list in one transaction.
func (s *listService) modify(
	ctx context.Context,
	userID, listID uuid.UUID,
	change func(list *domain.List) error,
) (*domain.List, error) {
	var list *domain.List
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)

		var err error
		list, err = ownedList(ctx, lists, userID, listID)
		if err != nil {
			return err
		}
		if err := change(list); err != nil {
			return err
		}
		if err := lists.Update(ctx, list); err != nil {
			return fmt.Errorf("failed to update list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ownedList loads a list and checks that userID owns it.
func ownedList(ctx context.Context, lists store.ListStore, userID, listID uuid.UUID) (*domain.List, error) {
	list, err := lists.GetByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}
	if list.UserID != userID {
		return nil, ErrNotOwned
	}
	return list, nil
}

// trimAll trims surrounding whitespace only. Exported lists are already
// clean, and content such as "1999. was a year" must survive a round trip.
func trimAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimSpace(line)
	}
	return out
}

// normalizeAll strips numbering from content submitted as arrays so that
// stored lines never carry "N. " prefixes.
func normalizeAll(lines []string) []string {
	if lines == nil {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = generation.Normalize(line)
	}
	return out
}
