package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/flashlists/internal/api"
	"github.com/phrazzld/flashlists/internal/api/middleware"
	"github.com/phrazzld/flashlists/internal/api/shared"
)

// routerDeps are the handlers and middleware mounted by newRouter.
type routerDeps struct {
	logger  *slog.Logger
	auth    *api.AuthHandler
	folders *api.FolderHandler
	lists   *api.ListHandler
	editor  *api.EditorHandler
	authMW  *middleware.AuthMiddleware
	limiter *middleware.RateLimiter
	live    http.Handler
	metrics http.Handler
	// health reports whether the database is reachable.
	health func(ctx context.Context) error
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.TraceMiddleware(d.logger))

	r.Get("/health", healthHandler(d.health))
	r.Handle("/metrics", d.metrics)
	r.Handle("/ws", d.live)

	r.Route("/auth", func(r chi.Router) {
		r.Use(d.limiter.Middleware)

		r.Post("/register", d.auth.Register)
		r.Get("/verify/{token}", d.auth.Verify)
		r.Post("/login", d.auth.Login)
		r.Post("/logout", d.auth.Logout)
		r.Post("/forgot", d.auth.ForgotPassword)
		r.Post("/reset/{token}", d.auth.ResetPassword)
		r.With(d.authMW.Authenticate).Get("/me", d.auth.Me)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(d.authMW.Authenticate)

		r.Get("/folders", d.folders.List)
		r.Post("/folders", d.folders.Create)
		r.Put("/folders/{id}", d.folders.Rename)
		r.Delete("/folders/{id}", d.folders.Delete)

		r.Get("/folders/{id}/lists", d.lists.ListInFolder)
		r.Post("/folders/{id}/lists", d.lists.Create)
		r.Post("/folders/{id}/lists/import", d.lists.Import)
		r.Post("/folders/{id}/lists/save-text", d.lists.CreateFromText)

		r.Get("/lists/{id}", d.lists.Get)
		r.Put("/lists/{id}", d.lists.Update)
		r.Delete("/lists/{id}", d.lists.Delete)
		r.Get("/lists/{id}/export", d.lists.Export)
		r.Get("/lists/{id}/editor", d.lists.Editor)
		r.Post("/lists/{id}/save-text", d.lists.SaveText)

		r.Post("/editor/preview", d.editor.Preview)
		r.Post("/editor/remove", d.editor.RemoveCard)
		r.Post("/editor/renumber", d.editor.Renumber)
	})

	return r
}

type healthResponse struct {
	Status string `json:"status"`
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
				return
			}
		}
		shared.RespondWithJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
	}
}
