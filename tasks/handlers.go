package tasks

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

// updatableFields is the whitelist of fields a task update may name.
var updatableFields = []string{"description", "completed"}

// Handlers exposes the task endpoints over HTTP. All routes sit behind the
// auth guard; the authenticated user is taken from the request context.
type Handlers struct {
	service *TaskService
	logger  *zap.Logger
}

// NewHandlers creates the task handlers.
func NewHandlers(service *TaskService, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// RegisterRoutes mounts the task routes on router.
func (h *Handlers) RegisterRoutes(router chi.Router) {
	router.Post("/", h.createTask)
	router.Get("/", h.listTasks)
	router.Get("/{id}", h.getTask)
	router.Patch("/{id}", h.updateTask)
	router.Delete("/{id}", h.deleteTask)
}

// createTask handles POST /tasks.
func (h *Handlers) createTask(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(h.logger, w, r, apperror.NewAuthError("please authenticate", nil))
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(h.logger, w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	task, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		auth.WriteError(h.logger, w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusCreated, task)
}

// listTasks handles GET /tasks with optional completed, sortBy, limit and
// skip query parameters.
func (h *Handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(h.logger, w, r, apperror.NewAuthError("please authenticate", nil))
		return
	}

	params, err := parseListParams(r)
	if err != nil {
		auth.WriteError(h.logger, w, r, err)
		return
	}

	result, err := h.service.List(r.Context(), user, params)
	if err != nil {
		auth.WriteError(h.logger, w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, result)
}

// getTask handles GET /tasks/{id}.
func (h *Handlers) getTask(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(h.logger, w, r, apperror.NewAuthError("please authenticate", nil))
		return
	}

	id, err := taskID(r)
	if err != nil {
		auth.WriteError(h.logger, w, r, err)
		return
	}

	task, err := h.service.Get(r.Context(), user, id)
	if err != nil {
		auth.WriteError(h.logger, w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, task)
}

// updateTask handles PATCH /tasks/{id}. The raw body is checked against
// the field whitelist before anything is decoded or touched, so a request
// naming a disallowed field fails whole with no partial mutation.
func (h *Handlers) updateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(h.logger, w, r, apperror.NewAuthError("please authenticate", nil))
		return
	}

	id, err := taskID(r)
	if err != nil {
		auth.WriteError(h.logger, w, r, err)
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

	var req UpdateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		auth.WriteError(h.logger, w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}

	task, err := h.service.Update(r.Context(), user, id, req)
	if err != nil {
		auth.WriteError(h.logger, w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, task)
}

// deleteTask handles DELETE /tasks/{id}.
func (h *Handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(h.logger, w, r, apperror.NewAuthError("please authenticate", nil))
		return
	}

	id, err := taskID(r)
	if err != nil {
		auth.WriteError(h.logger, w, r, err)
		return
	}

	task, err := h.service.Delete(r.Context(), user, id)
	if err != nil {
		auth.WriteError(h.logger, w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, task)
}

func taskID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperror.NewBadRequestError("invalid task id", nil)
	}
	return id, nil
}

// parseListParams extracts filter, sort and pagination from the query
// string. Unset parameters stay at their zero values.
func parseListParams(r *http.Request) (ListParams, error) {
	var params ListParams
	q := r.URL.Query()

	if raw := q.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return params, apperror.NewValidationError("completed must be true or false", nil)
		}
		params.Completed = &completed
	}

	params.SortBy = q.Get("sortBy")

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, apperror.NewValidationError("limit must be an integer", nil)
		}
		params.Limit = limit
	}
	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil {
			return params, apperror.NewValidationError("skip must be an integer", nil)
		}
		params.Skip = skip
	}

	return params, nil
}
