package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashlists/internal/api/shared"
	"github.com/phrazzld/flashlists/internal/platform/logger"
	"github.com/phrazzld/flashlists/internal/service"
)

// FolderHandler serves /api/folders.
type FolderHandler struct {
	folders service.FolderService
	logger  *slog.Logger
}

// NewFolderHandler creates a FolderHandler.
func NewFolderHandler(folders service.FolderService, log *slog.Logger) *FolderHandler {
	if log == nil {
		log = slog.Default()
	}
	return &FolderHandler{
		folders: folders,
		logger:  log.With(slog.String("component", "folder_handler")),
	}
}

// List handles GET /api/folders.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	folders, err := h.folders.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list folders")
		return
	}

	out := make([]FolderResponse, len(folders))
	for i, f := range folders {
		out[i] = folderToResponse(f)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Create handles POST /api/folders.
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	var req FolderRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}

	folder, err := h.folders.Create(r.Context(), userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create folder")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("folder created",
		slog.String("folder_id", folder.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, folderToResponse(folder))
}

// Rename handles PUT /api/folders/{id}.
func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, folderID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req FolderRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}

	folder, err := h.folders.Rename(r.Context(), userID, folderID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to rename folder")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, folderToResponse(folder))
}

// Delete handles DELETE /api/folders/{id}.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, folderID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.folders.Delete(r.Context(), userID, folderID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete folder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
