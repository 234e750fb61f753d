package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/timvest/intake-server-go/internal/audit"
	apperrors "github.com/timvest/intake-server-go/internal/errors"
	"github.com/timvest/intake-server-go/internal/middleware"
	"github.com/timvest/intake-server-go/internal/service"
)

type AuthHandler struct {
	authService    *service.AuthService
	authMiddleware func(http.Handler) http.Handler
}

func NewAuthHandler(authService *service.AuthService, authMiddleware func(http.Handler) http.Handler) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		authMiddleware: authMiddleware,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.With(h.authMiddleware).Get("/me", h.Me)

	return r
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeInvalidCredentials {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginFailure})
		} else {
			log.Error().Err(err).Msg("admin login error")
		}
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginSuccess, AdminID: result.User.ID})
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		writeError(w, apperrors.MissingToken())
		return
	}
	writeJSON(w, http.StatusOK, principal)
}
