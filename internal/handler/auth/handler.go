package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	"github.com/zhouzirui/tradewise/backend/internal/model/user"
	authService "github.com/zhouzirui/tradewise/backend/internal/service/auth"
	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

// Handler exposes the auth facade of the calling device.
type Handler struct {
	registry *authService.Registry
	limiter  *middleware.DeviceLimiter
}

// New creates the auth handler. limiter guards login and signup.
func New(registry *authService.Registry, limiter *middleware.DeviceLimiter) *Handler {
	if limiter == nil {
		limiter = middleware.NewDeviceLimiter(0)
	}
	return &Handler{registry: registry, limiter: limiter}
}

// RegisterRoutes mounts the /auth routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/session", h.handleSession)
		r.With(h.limiter.Middleware).Post("/login", h.handleLogin)
		r.With(h.limiter.Middleware).Post("/signup", h.handleSignup)
		r.Post("/logout", h.handleLogout)
		r.Patch("/user", h.handleUpdateUser)
		r.Delete("/user", h.handleDeleteUser)
	})
}

// SessionResponse is the auth state of a device.
type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Loading       bool       `json:"loading"`
	User          *user.User `json:"user,omitempty"`
}

func (h *Handler) facade(w http.ResponseWriter, r *http.Request) (*authService.Facade, bool) {
	f, err := h.registry.Facade(r.Context(), middleware.DeviceID(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return f, true
}

func sessionOf(f *authService.Facade) SessionResponse {
	resp := SessionResponse{Loading: f.IsLoading()}
	if u, ok := f.Current(); ok {
		resp.Authenticated = true
		resp.User = &u
	}
	return resp
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	f, ok := h.facade(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, sessionOf(f))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form user.LoginForm
	if err := utils.DecodeJSON(r, &form); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, ok := h.facade(w, r)
	if !ok {
		return
	}
	if _, err := f.Login(r.Context(), form.Email, form.Password); err != nil {
		respondAuthError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, sessionOf(f))
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var form user.SignupForm
	if err := utils.DecodeJSON(r, &form); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, ok := h.facade(w, r)
	if !ok {
		return
	}
	if _, err := f.Signup(r.Context(), form); err != nil {
		respondAuthError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, sessionOf(f))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	f, ok := h.facade(w, r)
	if !ok {
		return
	}
	// the facade is anonymous either way; a slot error is only logged
	if err := f.Logout(r.Context()); err != nil {
		slog.Warn("logout left a stale slot", "device", middleware.DeviceID(r.Context()), "error", err)
	}
	utils.RespondJSON(w, http.StatusOK, sessionOf(f))
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch user.Patch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Empty() {
		utils.RespondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	f, ok := h.facade(w, r)
	if !ok {
		return
	}
	if _, err := f.UpdateUser(r.Context(), patch); err != nil {
		respondAuthError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, sessionOf(f))
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	f, ok := h.facade(w, r)
	if !ok {
		return
	}
	if err := f.DeleteAccount(r.Context()); err != nil && errors.Is(err, authService.ErrNotAuthenticated) {
		respondAuthError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *user.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondFieldErrors(w, http.StatusUnprocessableEntity, "validation failed", verr.Fields)
	case errors.Is(err, authService.ErrNotAuthenticated):
		utils.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, authService.ErrAuthPending), errors.Is(err, authService.ErrSuperseded):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case utils.IsCanceled(err):
		slog.Info("auth request abandoned", "path", r.URL.Path, "error", err)
		utils.RespondError(w, utils.StatusClientClosedRequest, "request cancelled")
	default:
		slog.Error("auth request failed", "path", r.URL.Path, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
