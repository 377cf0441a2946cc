package users

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/taskman-go/apperror"
	"github.com/user/taskman-go/auth"
	"github.com/user/taskman-go/fieldset"
)

// updatableFields is the whitelist of fields a profile update may name.
var updatableFields = []string{"name", "email", "password", "age"}

// maxAvatarSize caps avatar uploads at 1 MiB.
const maxAvatarSize = 1 << 20

// UserHandlers exposes the profile endpoints over HTTP.
type UserHandlers struct {
	service *UserService
	logger  *zap.Logger
}

// NewUserHandlers creates the profile handlers.
func NewUserHandlers(service *UserService, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{service: service, logger: logger}
}

// HandleGetProfile returns the authenticated user's own profile.
// GET /users/me
func (h *UserHandlers) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			auth.WriteError(h.logger, w, r, apperror.NewAuthError("please authenticate", nil))
			return
		}
		auth.WriteJSON(w, http.StatusOK, user)
	}
}

// HandleUpdateProfile applies a whitelisted partial update to the
// authenticated user's profile. The raw body is validated against the
// whitelist before any decoding or mutation.
// PATCH /users/me
func (h *UserHandlers) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			auth.WriteError(h.logger, w, r, apperror.NewAuthError("please authenticate", nil))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			auth.WriteError(h.logger, w, r, apperror.NewBadRequestError("failed to read request body", err))
			return
		}
		defer r.Body.Close()

		if err := fieldset.Allowed(body, updatableFields...); err != nil {
			auth.WriteError(h.logger, w, r, apperror.NewValidationError("invalid updates: "+err.Error(), nil))
			return
		}

		var req UpdateProfileRequest
		if err := json.Unmarshal(body, &req); err != nil {
			auth.WriteError(h.logger, w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}

		updated, err := h.service.UpdateProfile(r.Context(), user.ID, req)
		if err != nil {
			auth.WriteError(h.logger, w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, updated)
	}
}

// HandleDeleteAccount deletes the authenticated user's account and
// returns the removed profile. Tasks and sessions are cascaded away.
// DELETE /users/me
func (h *UserHandlers) HandleDeleteAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			auth.WriteError(h.logger, w, r, apperror.NewAuthError("please authenticate", nil))
			return
		}

		deleted, err := h.service.DeleteAccount(r.Context(), user.ID)
		if err != nil {
			auth.WriteError(h.logger, w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, deleted)
	}
}

// HandleSetAvatar accepts a multipart upload (field "avatar", at most
// 1 MiB) and stores it as the user's avatar.
// POST /users/me/avatar
func (h *UserHandlers) HandleSetAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			auth.WriteError(h.logger, w, r, apperror.NewAuthError("please authenticate", nil))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
		file, header, err := r.FormFile("avatar")
		if err != nil {
			auth.WriteError(h.logger, w, r, apperror.NewBadRequestError("avatar file is required", err))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			auth.WriteError(h.logger, w, r, apperror.NewBadRequestError("failed to read avatar upload", err))
			return
		}

		if err := h.service.SetAvatar(r.Context(), user.ID, header.Filename, data); err != nil {
			auth.WriteError(h.logger, w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, nil)
	}
}

// HandleRemoveAvatar clears the authenticated user's avatar.
// DELETE /users/me/avatar
func (h *UserHandlers) HandleRemoveAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			auth.WriteError(h.logger, w, r, apperror.NewAuthError("please authenticate", nil))
			return
		}

		if err := h.service.RemoveAvatar(r.Context(), user.ID); err != nil {
			auth.WriteError(h.logger, w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, nil)
	}
}

// HandleGetAvatar serves any user's avatar as PNG. Public route.
// GET /users/{id}/avatar
func (h *UserHandlers) HandleGetAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			auth.WriteError(h.logger, w, r, apperror.NewNotFoundError("avatar not found", nil))
			return
		}

		data, err := h.service.AvatarByUserID(r.Context(), id)
		if err != nil {
			auth.WriteError(h.logger, w, r, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
