// Package httpapi is the HTTP transport of the user-management service:
// routing, the bearer-token guard, JSON codecs and error-to-status mapping.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/usermanagement/internal/common"
	"github.com/dmitrijs2005/usermanagement/internal/logging"
	"github.com/dmitrijs2005/usermanagement/internal/server/identity"
	"github.com/dmitrijs2005/usermanagement/internal/server/metrics"
	"github.com/dmitrijs2005/usermanagement/internal/server/services"
)

const welcomeText = "Welcome to the user-management service!"

type Handler struct {
	auth    *services.AuthService
	metrics *metrics.Metrics
	logger  logging.Logger
}

func NewHandler(auth *services.AuthService, m *metrics.Metrics, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{auth: auth, metrics: m, logger: logger.With("module", "http_api")}
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(welcomeText))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	h.logger.Info(ctx, "Registration request", "username", req.Username)

	a, err := h.auth.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			writeMessage(w, http.StatusBadRequest, validationMessage(err))
			return
		}
		h.logger.Error(ctx, "registration failed", "error", err)
		writeFault(w, "Error registering new user.", err)
		return
	}

	h.logger.Info(ctx, "Registered", "user_id", a.ID)
	writeMessage(w, http.StatusCreated, "User registered successfully")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			writeMessage(w, http.StatusBadRequest, "Email and password are required.")
		case errors.Is(err, common.ErrorNotFound):
			h.metrics.LoginAttempt(metrics.LoginUnknownEmail)
			writeMessage(w, http.StatusNotFound, "User not found.")
		case errors.Is(err, common.ErrInvalidCredentials):
			h.metrics.LoginAttempt(metrics.LoginBadPassword)
			writeMessage(w, http.StatusBadRequest, "Invalid credentials.")
		default:
			h.metrics.LoginAttempt(metrics.LoginError)
			h.logger.Error(ctx, "login failed", "error", err)
			writeFault(w, "Error logging in.", err)
		}
		return
	}

	h.metrics.LoginAttempt(metrics.LoginSuccess)
	writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful!", Token: token})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	a, err := h.auth.Profile(ctx, id)
	if err != nil {
		h.lookupFailed(w, r, "Error retrieving user.", err)
		return
	}

	writeJSON(w, http.StatusOK, newProfileResponse(a))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	a, err := h.auth.UpdateProfile(ctx, id, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			writeMessage(w, http.StatusBadRequest, validationMessage(err))
			return
		}
		h.lookupFailed(w, r, "Error updating user.", err)
		return
	}

	h.logger.Info(ctx, "user updated", "user_id", a.ID)
	writeJSON(w, http.StatusOK, newUpdateResponse(a))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	if err := h.auth.DeleteAccount(ctx, id); err != nil {
		h.lookupFailed(w, r, "Error deleting user.", err)
		return
	}

	writeMessage(w, http.StatusOK, "User deleted successfully.")
}

func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	targetID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || targetID <= 0 {
		writeMessage(w, http.StatusBadRequest, "Invalid user id.")
		return
	}

	a, roles, err := h.auth.ViewProfile(ctx, id, targetID)
	if err != nil {
		if errors.Is(err, common.ErrAccessDenied) {
			h.metrics.AuthRejected(metrics.RejectAccessDenied)
			writeMessage(w, http.StatusUnauthorized, "Access denied.")
			return
		}
		h.lookupFailed(w, r, "Error retrieving user.", err)
		return
	}

	writeJSON(w, http.StatusOK, profileWithRolesResponse{profileResponse: newProfileResponse(a), Roles: roles})
}

// identity returns the caller attached by RequireAuth. A handler mounted
// without the guard answers 401 instead of acting for nobody.
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied. No token provided.")
	}
	return id, ok
}

func (h *Handler) lookupFailed(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		writeMessage(w, http.StatusNotFound, "User not found.")
		return
	}
	h.logger.Error(r.Context(), msg, "error", err)
	writeFault(w, msg, err)
}

func validationMessage(err error) string {
	if errors.Is(err, common.ErrPasswordTooLong) {
		return "Password must be at most 72 bytes."
	}
	return "Username, email and password are required."
}
