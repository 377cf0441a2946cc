package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/user/taskman-go/apperror"
)

// Handlers exposes the authentication endpoints over HTTP.
type Handlers struct {
	service *AuthService
	logger  *zap.Logger
}

// NewHandlers creates the auth handlers.
func NewHandlers(service *AuthService, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// HandleRegister creates a new account and opens its first session.
// POST /users
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(h.logger, w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(h.logger, w, r, err)
			return
		}

		WriteJSON(w, http.StatusCreated, resp)
	}
}

// HandleLogin verifies credentials and opens a session.
// POST /users/login
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(h.logger, w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(h.logger, w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleLogout revokes the session token that authenticated this request.
// POST /users/logout
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, token, ok := sessionFromRequest(r)
		if !ok {
			WriteError(h.logger, w, r, apperror.NewAuthError(authFailedMsg, nil))
			return
		}

		if err := h.service.Logout(r.Context(), user.ID, token); err != nil {
			WriteError(h.logger, w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, nil)
	}
}

// HandleLogoutAll revokes every open session of the authenticated user.
// POST /users/logoutAll
func (h *Handlers) HandleLogoutAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := sessionFromRequest(r)
		if !ok {
			WriteError(h.logger, w, r, apperror.NewAuthError(authFailedMsg, nil))
			return
		}

		if err := h.service.LogoutAll(r.Context(), user.ID); err != nil {
			WriteError(h.logger, w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, nil)
	}
}

func sessionFromRequest(r *http.Request) (*User, string, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return nil, "", false
	}
	token, ok := TokenFromContext(r.Context())
	if !ok {
		return nil, "", false
	}
	return user, token, true
}

// WriteJSON writes data as a JSON response with the given status. A nil
// data value produces an empty body rather than "null".
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError converts err into the uniform error payload. Server-side
// failures are logged here, at the boundary, with their wrapped cause;
// the client sees only the sanitized message.
func WriteError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(appErr),
		)
	}

	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
