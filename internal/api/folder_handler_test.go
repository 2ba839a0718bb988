package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/api/shared"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/service"
	"github.com/phrazzld/flashlists/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderHandler(t *testing.T) {
	userID := uuid.New()
	folderID := uuid.New()
	now := time.Now().UTC()

	folders := &mockFolderService{
		ListFn: func(_ context.Context, id uuid.UUID) ([]*domain.Folder, error) {
			assert.Equal(t, userID, id)
			return []*domain.Folder{{ID: folderID, UserID: id, Name: "Spanish", CreatedAt: now, UpdatedAt: now}}, nil
		},
		CreateFn: func(_ context.Context, id uuid.UUID, name string) (*domain.Folder, error) {
			return domain.NewFolder(id, name)
		},
		RenameFn: func(_ context.Context, uid, fid uuid.UUID, name string) (*domain.Folder, error) {
			if fid != folderID {
				return nil, fmt.Errorf("failed to load folder: %w", store.ErrFolderNotFound)
			}
			return &domain.Folder{ID: fid, UserID: uid, Name: name}, nil
		},
		DeleteFn: func(_ context.Context, _, fid uuid.UUID) error {
			if fid != folderID {
				return service.ErrNotOwned
			}
			return nil
		},
	}
	h := testRouter(t, userID, nil, folders, nil)

	t.Run("list", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/folders", nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decodeBody[[]FolderResponse](t, w)
		require.Len(t, got, 1)
		assert.Equal(t, "Spanish", got[0].Name)
		assert.NotContains(t, w.Body.String(), userID.String(), "owner is implicit")
	})

	t.Run("create", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/folders", FolderRequest{Name: "French"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "French", decodeBody[FolderResponse](t, w).Name)
	})

	t.Run("create without name", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/folders", FolderRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid Name: required field", decodeBody[shared.ErrorResponse](t, w).Error)
	})

	t.Run("rename", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPut, "/api/folders/"+folderID.String(), FolderRequest{Name: "Español"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Español", decodeBody[FolderResponse](t, w).Name)
	})

	t.Run("rename unknown", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPut, "/api/folders/"+uuid.NewString(), FolderRequest{Name: "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Folder not found", decodeBody[shared.ErrorResponse](t, w).Error)
	})

	t.Run("bad id", func(t *testing.T) {
		w := doJSON(t, h, http.MethodDelete, "/api/folders/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "id: has invalid format", decodeBody[shared.ErrorResponse](t, w).Error)
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(t, h, http.MethodDelete, "/api/folders/"+folderID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("delete foreign", func(t *testing.T) {
		w := doJSON(t, h, http.MethodDelete, "/api/folders/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
