package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashlists/internal/api/shared"
	"github.com/phrazzld/flashlists/internal/service"
)

// EditorHandler serves the stateless editor endpoints under /api/editor.
type EditorHandler struct {
	editor service.EditorService
	logger *slog.Logger
}

// NewEditorHandler creates an EditorHandler.
func NewEditorHandler(editor service.EditorService, log *slog.Logger) *EditorHandler {
	if log == nil {
		log = slog.Default()
	}
	return &EditorHandler{
		editor: editor,
		logger: log.With(slog.String("component", "editor_handler")),
	}
}

// Preview handles POST /api/editor/preview.
func (h *EditorHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}
	res := h.editor.Preview(r.Context(), req.Front, req.Back, req.Align)
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(res))
}

// RemoveCard handles POST /api/editor/remove. The response holds both
// blocks renumbered and the regenerated cards; an index with no card is a 400.
func (h *EditorHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	var req RemoveCardRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}

	state, err := h.editor.RemoveCard(r.Context(), req.Front, req.Back, req.Index, req.Align)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to remove card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, EditorResponse{
		Front:         state.Front,
		Back:          state.Back,
		CardsResponse: cardsToResponse(state.Result),
	})
}

// Renumber handles POST /api/editor/renumber.
func (h *EditorHandler) Renumber(w http.ResponseWriter, r *http.Request) {
	var req RenumberRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, RenumberResponse{Text: h.editor.Renumber(r.Context(), req.Text)})
}
