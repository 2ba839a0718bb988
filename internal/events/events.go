package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TypeListsUpdated is the wire name of ListsUpdatedEvent.
const TypeListsUpdated = "lists:updated"

// Reasons attached to ListsUpdatedEvent.
const (
	ReasonFolderCreated = "folder_created"
	ReasonFolderRenamed = "folder_renamed"
	ReasonFolderDeleted = "folder_deleted"
	ReasonListCreated   = "list_created"
	ReasonListUpdated   = "list_updated"
	ReasonListDeleted   = "list_deleted"
	ReasonListImported  = "list_imported"
)

// ListsUpdatedEvent signals that the folders or lists of UserID changed.
type ListsUpdatedEvent struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FolderID  uuid.UUID `json:"folder_id"`
	ListID    uuid.UUID `json:"list_id,omitempty"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// NewListsUpdatedEvent creates an event for a change inside folderID.
// listID is uuid.Nil for folder level changes.
func NewListsUpdatedEvent(userID, folderID, listID uuid.UUID, reason string) *ListsUpdatedEvent {
	return &ListsUpdatedEvent{
		ID:        uuid.New(),
		UserID:    userID,
		FolderID:  folderID,
		ListID:    listID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *ListsUpdatedEvent) error
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ListsUpdatedEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *ListsUpdatedEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *ListsUpdatedEvent) error {
	return f(ctx, event)
}

// NoopEmitter drops every event.
type NoopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NoopEmitter) EmitEvent(context.Context, *ListsUpdatedEvent) error { return nil }
