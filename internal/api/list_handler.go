package api

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/api/shared"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/platform/logger"
	"github.com/phrazzld/flashlists/internal/service"
)

// ListHandler serves the list endpoints under /api/folders/{id}/lists and
// /api/lists.
type ListHandler struct {
	lists  service.ListService
	editor service.EditorService
	logger *slog.Logger
}

// NewListHandler creates a ListHandler.
func NewListHandler(lists service.ListService, editor service.EditorService, log *slog.Logger) *ListHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ListHandler{
		lists:  lists,
		editor: editor,
		logger: log.With(slog.String("component", "list_handler")),
	}
}

// ListInFolder handles GET /api/folders/{id}/lists.
func (h *ListHandler) ListInFolder(w http.ResponseWriter, r *http.Request) {
	userID, folderID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	lists, err := h.lists.ListInFolder(r.Context(), userID, folderID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list lists")
		return
	}

	out := make([]ListResponse, len(lists))
	for i, l := range lists {
		out[i] = listToResponse(l)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Create handles POST /api/folders/{id}/lists.
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, folderID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req ListRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}

	list, err := h.lists.CreateInFolder(r.Context(), userID, folderID, req.Name, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create list")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, listToResponse(list))
}

// Import handles POST /api/folders/{id}/lists/import with an exported list
// file as the body.
func (h *ListHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, folderID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var data domain.ListExport
	if !decodeOrRespond(w, r, &data) {
		return
	}

	list, err := h.lists.Import(r.Context(), userID, folderID, data)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import list")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("list imported",
		slog.String("list_id", list.ID.String()),
		slog.Int("cards", len(list.Front)))
	shared.RespondWithJSON(w, r, http.StatusCreated, listToResponse(list))
}

// CreateFromText handles POST /api/folders/{id}/lists/save-text.
func (h *ListHandler) CreateFromText(w http.ResponseWriter, r *http.Request) {
	userID, folderID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	h.saveText(w, r, userID, service.SaveTextInput{FolderID: folderID}, http.StatusCreated)
}

// SaveText handles POST /api/lists/{id}/save-text.
func (h *ListHandler) SaveText(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	h.saveText(w, r, userID, service.SaveTextInput{ListID: listID}, http.StatusOK)
}

func (h *ListHandler) saveText(
	w http.ResponseWriter,
	r *http.Request,
	userID uuid.UUID,
	in service.SaveTextInput,
	status int,
) {
	var req SaveTextRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}
	in.Name, in.FrontText, in.BackText = req.Name, req.FrontText, req.BackText

	result, err := h.lists.SaveFromText(r.Context(), userID, in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save list")
		return
	}
	shared.RespondWithJSON(w, r, status, SaveTextResponse{
		List:       listToResponse(result.List),
		Diagnostic: diagnosticOrNil(result.Diagnostic),
	})
}

// Get handles GET /api/lists/{id}.
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	list, err := h.lists.Get(r.Context(), userID, listID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load list")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, listToResponse(list))
}

// Update handles PUT /api/lists/{id}. A body with only a name renames the
// list; a body with name, front and back also replaces its cards.
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req ListRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}

	list, err := h.lists.Update(r.Context(), userID, listID, service.UpdateListInput{
		Name:  req.Name,
		Front: req.Front,
		Back:  req.Back,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update list")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, listToResponse(list))
}

// Delete handles DELETE /api/lists/{id}.
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.lists.Delete(r.Context(), userID, listID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/lists/{id}/export. The list is sent as a JSON
// file download named after the list.
func (h *ListHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	data, err := h.lists.Export(r.Context(), userID, listID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export list")
		return
	}

	w.Header().Set("Content-Disposition", exportDisposition(data.Name))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to write export", "error", err)
	}
}

// Editor handles GET /api/lists/{id}/editor: the stored list as numbered
// raw blocks together with its cards.
func (h *ListHandler) Editor(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	opened, err := h.editor.OpenList(r.Context(), userID, listID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to open list")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, EditorResponse{
		ID:            &opened.ID,
		FolderID:      &opened.FolderID,
		Name:          opened.Name,
		Front:         opened.Front,
		Back:          opened.Back,
		CardsResponse: cardsToResponse(opened.Result),
	})
}

// exportDisposition builds an attachment header for "<name>.json". Path
// separators are replaced so the name is a plain file name.
func exportDisposition(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = domain.DefaultListName
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": name + ".json"})
}
