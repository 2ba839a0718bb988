package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/flashlists/internal/api/shared"
	"github.com/phrazzld/flashlists/internal/platform/logger"
	"github.com/phrazzld/flashlists/internal/redact"
	"github.com/phrazzld/flashlists/internal/service"
	"github.com/phrazzld/flashlists/internal/service/auth"
)

// AuthHandler serves the account endpoints under /auth.
type AuthHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users service.UserService, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		users:  users,
		logger: log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user registered",
		slog.String("user_id", user.ID.String()))
	shared.RespondWithMessage(w, r, http.StatusCreated,
		"Registration complete. Check your email to verify your account.")
}

// Verify handles GET /auth/verify/{token}.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Verify(r.Context(), chi.URLParam(r, "token")); err != nil {
		h.respondLinkError(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Email verified. You can now log in.")
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("login rejected",
			slog.String("email", redact.Email(req.Email)))
		HandleAPIError(w, r, err, "Failed to authenticate user", shared.WithElevatedLogLevel())
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Message:   "Logged in",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// Logout handles POST /auth/logout. Tokens are stateless; the client drops
// its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithMessage(w, r, http.StatusOK, "Logged out")
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.users.Me(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MeResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// ForgotPassword handles POST /auth/forgot.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}

	if err := h.users.ForgotPassword(r.Context(), req.Email); err != nil {
		HandleAPIError(w, r, err, "Failed to start password reset")
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Password reset email sent")
}

// ResetPassword handles POST /auth/reset/{token}.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}

	if err := h.users.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
		h.respondLinkError(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Password updated. You can now log in.")
}

// respondLinkError answers a bad emailed link with 400 rather than 401; the
// caller is not authenticating, the link is just unusable.
func (h *AuthHandler) respondLinkError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Link expired", err)
	case MapErrorToStatusCode(err) == http.StatusUnauthorized:
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid link", err)
	default:
		HandleAPIError(w, r, err, "Failed to process link")
	}
}
