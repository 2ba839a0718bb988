package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/generation"
)

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the payload of POST /auth/forgot.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the payload of POST /auth/reset/{token}.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MeResponse describes the authenticated account.
type MeResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// FolderRequest is the payload for creating or renaming a folder.
type FolderRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// FolderResponse is the JSON form of a folder.
type FolderResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListRequest creates or updates a list. Front and Back are optional; a
// create without them makes an empty list, an update without them only
// renames.
type ListRequest struct {
	Name  string   `json:"name"  validate:"max=200"`
	Front []string `json:"front"`
	Back  []string `json:"back"`
}

// SaveTextRequest stores raw editor blocks as a list.
type SaveTextRequest struct {
	Name      string `json:"name"       validate:"max=200"`
	FrontText string `json:"front_text"`
	BackText  string `json:"back_text"`
}

// ListResponse is the JSON form of a list.
type ListResponse struct {
	ID        uuid.UUID `json:"id"`
	FolderID  uuid.UUID `json:"folder_id"`
	Name      string    `json:"name"`
	Front     []string  `json:"front"`
	Back      []string  `json:"back"`
	CardCount int       `json:"card_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveTextResponse is the stored list plus the diagnostic for dropped lines.
type SaveTextResponse struct {
	List       ListResponse           `json:"list"`
	Diagnostic *generation.Diagnostic `json:"diagnostic,omitempty"`
}

// PreviewRequest is the payload of POST /api/editor/preview.
type PreviewRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	Align bool   `json:"align"`
}

// RemoveCardRequest is the payload of POST /api/editor/remove.
type RemoveCardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	Index int    `json:"index"`
	Align bool   `json:"align"`
}

// RenumberRequest is the payload of POST /api/editor/renumber.
type RenumberRequest struct {
	Text string `json:"text"`
}

// RenumberResponse carries a renumbered block.
type RenumberResponse struct {
	Text string `json:"text"`
}

// CardsResponse is a generation result.
type CardsResponse struct {
	Cards      []generation.Card      `json:"cards"`
	Diagnostic *generation.Diagnostic `json:"diagnostic,omitempty"`
}

// EditorResponse is the content of both editor boxes and their cards.
type EditorResponse struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	FolderID *uuid.UUID `json:"folder_id,omitempty"`
	Name     string     `json:"name,omitempty"`
	Front    string     `json:"front"`
	Back     string     `json:"back"`
	CardsResponse
}

func folderToResponse(f *domain.Folder) FolderResponse {
	return FolderResponse{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt}
}

func listToResponse(l *domain.List) ListResponse {
	return ListResponse{
		ID:        l.ID,
		FolderID:  l.FolderID,
		Name:      l.Name,
		Front:     nonNil(l.Front),
		Back:      nonNil(l.Back),
		CardCount: len(l.Front),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func cardsToResponse(res generation.Result) CardsResponse {
	out := CardsResponse{Cards: res.Cards}
	if out.Cards == nil {
		out.Cards = []generation.Card{}
	}
	out.Diagnostic = diagnosticOrNil(res.Diagnostic)
	return out
}

func diagnosticOrNil(d generation.Diagnostic) *generation.Diagnostic {
	if d.IsZero() {
		return nil
	}
	return &d
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}
