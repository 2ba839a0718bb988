package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// List validation errors
var (
	ErrEmptyListID     = errors.New("list ID cannot be empty")
	ErrListNameTooLong = errors.New("list name must be at most 200 characters long")
	ErrListSidesDiffer = errors.New("list front and back must have the same length")
	ErrMissingSide     = errors.New("front and back are required")
	ErrEmptyExportName = errors.New("export name cannot be empty")
	ErrBlankCardSide   = errors.New("card sides cannot be blank")
)

// DefaultListName is used when a list is saved without a name.
const DefaultListName = "Untitled"

// List is a named flashcard list stored inside a folder. Front[i] and Back[i]
// form the i-th card; both slices always have the same length.
type List struct {
	ID        uuid.UUID `json:"id"`
	FolderID  uuid.UUID `json:"folder_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Front     []string  `json:"front"`
	Back      []string  `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListCard is one front/back pair of a stored list.
type ListCard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// NewList creates a list in folderID. Content is truncated to the shorter side.
func NewList(userID, folderID uuid.UUID, name string, front, back []string) (*List, error) {
	now := time.Now().UTC()
	list := &List{
		ID:        uuid.New(),
		FolderID:  folderID,
		UserID:    userID,
		Name:      listName(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	list.Front, list.Back = pairUp(front, back)

	if err := list.Validate(); err != nil {
		return nil, err
	}
	return list, nil
}

// SetContent replaces the cards of the list, truncating to the shorter side.
// The list is left unchanged when a kept entry is blank.
func (l *List) SetContent(front, back []string) error {
	front, back = pairUp(front, back)
	if err := checkSides(front, back); err != nil {
		return err
	}
	l.Front, l.Back = front, back
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// Rename changes the list name. A blank name becomes DefaultListName.
func (l *List) Rename(name string) error {
	name = listName(name)
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrListNameTooLong
	}
	l.Name = name
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// Cards pairs the stored sides.
func (l *List) Cards() []ListCard {
	cards := make([]ListCard, len(l.Front))
	for i := range l.Front {
		cards[i] = ListCard{Front: l.Front[i], Back: l.Back[i]}
	}
	return cards
}

// Validate checks if the List has valid data.
func (l *List) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyListID
	}
	if l.FolderID == uuid.Nil {
		return ErrEmptyFolderID
	}
	if l.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if utf8.RuneCountInString(l.Name) > maxNameLength {
		return ErrListNameTooLong
	}
	if len(l.Front) != len(l.Back) {
		return ErrListSidesDiffer
	}
	return checkSides(l.Front, l.Back)
}

// Export returns the portable JSON shape of the list.
func (l *List) Export() ListExport {
	return ListExport{
		Name:  l.Name,
		Front: append([]string{}, l.Front...),
		Back:  append([]string{}, l.Back...),
	}
}

// ListExport is the file format used to export and import a single list.
type ListExport struct {
	Name  string   `json:"name"`
	Front []string `json:"front"`
	Back  []string `json:"back"`
}

// Validate requires a name and both sides to be present.
func (e ListExport) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyExportName
	}
	if e.Front == nil || e.Back == nil {
		return ErrMissingSide
	}
	return nil
}

func listName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultListName
	}
	return name
}

// checkSides rejects blank entries. Stored sides hold content lines only.
func checkSides(front, back []string) error {
	if err := checkSide("front", front); err != nil {
		return err
	}
	return checkSide("back", back)
}

func checkSide(field string, side []string) error {
	for i, entry := range side {
		if strings.TrimSpace(entry) == "" {
			return NewValidationError(field, fmt.Sprintf("entry %d is blank", i+1), ErrBlankCardSide)
		}
	}
	return nil
}

func pairUp(front, back []string) ([]string, []string) {
	n := min(len(front), len(back))
	f := make([]string, n)
	b := make([]string, n)
	copy(f, front[:n])
	copy(b, back[:n])
	return f, b
}
