package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Folder validation errors
var (
	ErrEmptyFolderID     = errors.New("folder ID cannot be empty")
	ErrEmptyFolderName   = errors.New("folder name cannot be empty")
	ErrFolderNameTooLong = errors.New("folder name must be at most 200 characters long")
)

const maxNameLength = 200

// Folder groups a user's lists.
type Folder struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFolder creates a folder owned by userID.
func NewFolder(userID uuid.UUID, name string) (*Folder, error) {
	now := time.Now().UTC()
	folder := &Folder{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := folder.Validate(); err != nil {
		return nil, err
	}
	return folder, nil
}

// Rename changes the folder name and bumps UpdatedAt.
func (f *Folder) Rename(name string) error {
	renamed := *f
	renamed.Name = strings.TrimSpace(name)
	if err := renamed.Validate(); err != nil {
		return err
	}
	f.Name = renamed.Name
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// Validate checks if the Folder has valid data.
func (f *Folder) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFolderID
	}
	if f.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if f.Name == "" {
		return ErrEmptyFolderName
	}
	if utf8.RuneCountInString(f.Name) > maxNameLength {
		return ErrFolderNameTooLong
	}
	return nil
}
