package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/api/shared"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/service"
	"github.com/stretchr/testify/require"
)

type mockUserService struct {
	RegisterFn       func(ctx context.Context, username, email, password string) (*domain.User, error)
	VerifyFn         func(ctx context.Context, token string) error
	LoginFn          func(ctx context.Context, email, password string) (*service.LoginResult, error)
	MeFn             func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	ForgotPasswordFn func(ctx context.Context, email string) error
	ResetPasswordFn  func(ctx context.Context, token, newPassword string) error
}

func (m *mockUserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	return m.RegisterFn(ctx, username, email, password)
}

func (m *mockUserService) Verify(ctx context.Context, token string) error {
	return m.VerifyFn(ctx, token)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return m.LoginFn(ctx, email, password)
}

func (m *mockUserService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.MeFn(ctx, userID)
}

func (m *mockUserService) ForgotPassword(ctx context.Context, email string) error {
	return m.ForgotPasswordFn(ctx, email)
}

func (m *mockUserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.ResetPasswordFn(ctx, token, newPassword)
}

type mockFolderService struct {
	CreateFn func(ctx context.Context, userID uuid.UUID, name string) (*domain.Folder, error)
	ListFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.Folder, error)
	RenameFn func(ctx context.Context, userID, folderID uuid.UUID, name string) (*domain.Folder, error)
	DeleteFn func(ctx context.Context, userID, folderID uuid.UUID) error
}

func (m *mockFolderService) Create(ctx context.Context, userID uuid.UUID, name string) (*domain.Folder, error) {
	return m.CreateFn(ctx, userID, name)
}

func (m *mockFolderService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Folder, error) {
	return m.ListFn(ctx, userID)
}

func (m *mockFolderService) Rename(ctx context.Context, userID, folderID uuid.UUID, name string) (*domain.Folder, error) {
	return m.RenameFn(ctx, userID, folderID, name)
}

func (m *mockFolderService) Delete(ctx context.Context, userID, folderID uuid.UUID) error {
	return m.DeleteFn(ctx, userID, folderID)
}

type mockListService struct {
	CreateInFolderFn func(ctx context.Context, userID, folderID uuid.UUID, name string, front, back []string) (*domain.List, error)
	GetFn            func(ctx context.Context, userID, listID uuid.UUID) (*domain.List, error)
	ListInFolderFn   func(ctx context.Context, userID, folderID uuid.UUID) ([]*domain.List, error)
	UpdateFn         func(ctx context.Context, userID, listID uuid.UUID, in service.UpdateListInput) (*domain.List, error)
	DeleteFn         func(ctx context.Context, userID, listID uuid.UUID) error
	SaveFromTextFn   func(ctx context.Context, userID uuid.UUID, in service.SaveTextInput) (*service.SaveTextResult, error)
	ExportFn         func(ctx context.Context, userID, listID uuid.UUID) (domain.ListExport, error)
	ImportFn         func(ctx context.Context, userID, folderID uuid.UUID, data domain.ListExport) (*domain.List, error)
}

func (m *mockListService) CreateInFolder(
	ctx context.Context,
	userID, folderID uuid.UUID,
	name string,
	front, back []string,
) (*domain.List, error) {
	return m.CreateInFolderFn(ctx, userID, folderID, name, front, back)
}

func (m *mockListService) Get(ctx context.Context, userID, listID uuid.UUID) (*domain.List, error) {
	return m.GetFn(ctx, userID, listID)
}

func (m *mockListService) ListInFolder(ctx context.Context, userID, folderID uuid.UUID) ([]*domain.List, error) {
	return m.ListInFolderFn(ctx, userID, folderID)
}

func (m *mockListService) Update(
	ctx context.Context,
	userID, listID uuid.UUID,
	in service.UpdateListInput,
) (*domain.List, error) {
	return m.UpdateFn(ctx, userID, listID, in)
}

func (m *mockListService) Rename(ctx context.Context, userID, listID uuid.UUID, name string) (*domain.List, error) {
	return m.Update(ctx, userID, listID, service.UpdateListInput{Name: name})
}

func (m *mockListService) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	return m.DeleteFn(ctx, userID, listID)
}

func (m *mockListService) SaveFromText(
	ctx context.Context,
	userID uuid.UUID,
	in service.SaveTextInput,
) (*service.SaveTextResult, error) {
	return m.SaveFromTextFn(ctx, userID, in)
}

func (m *mockListService) Export(ctx context.Context, userID, listID uuid.UUID) (domain.ListExport, error) {
	return m.ExportFn(ctx, userID, listID)
}

func (m *mockListService) Import(
	ctx context.Context,
	userID, folderID uuid.UUID,
	data domain.ListExport,
) (*domain.List, error) {
	return m.ImportFn(ctx, userID, folderID, data)
}

// asUser injects userID as the authenticated user, standing in for the
// auth middleware.
func asUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), userID)))
		})
	}
}

// testRouter mounts the handlers on the production paths.
func testRouter(
	t *testing.T,
	userID uuid.UUID,
	users service.UserService,
	folders service.FolderService,
	lists service.ListService,
) http.Handler {
	t.Helper()
	if lists == nil {
		lists = &mockListService{}
	}
	editor, err := service.NewEditorService(lists, nil, nil)
	require.NoError(t, err)

	authH := NewAuthHandler(users, nil)
	folderH := NewFolderHandler(folders, nil)
	listH := NewListHandler(lists, editor, nil)
	editorH := NewEditorHandler(editor, nil)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Get("/verify/{token}", authH.Verify)
		r.Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.Post("/forgot", authH.ForgotPassword)
		r.Post("/reset/{token}", authH.ResetPassword)
		r.With(asUser(userID)).Get("/me", authH.Me)
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(asUser(userID))
		r.Get("/folders", folderH.List)
		r.Post("/folders", folderH.Create)
		r.Put("/folders/{id}", folderH.Rename)
		r.Delete("/folders/{id}", folderH.Delete)
		r.Get("/folders/{id}/lists", listH.ListInFolder)
		r.Post("/folders/{id}/lists", listH.Create)
		r.Post("/folders/{id}/lists/import", listH.Import)
		r.Post("/folders/{id}/lists/save-text", listH.CreateFromText)
		r.Get("/lists/{id}", listH.Get)
		r.Put("/lists/{id}", listH.Update)
		r.Delete("/lists/{id}", listH.Delete)
		r.Get("/lists/{id}/export", listH.Export)
		r.Get("/lists/{id}/editor", listH.Editor)
		r.Post("/lists/{id}/save-text", listH.SaveText)
		r.Post("/editor/preview", editorH.Preview)
		r.Post("/editor/remove", editorH.RemoveCard)
		r.Post("/editor/renumber", editorH.Renumber)
	})
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
