package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avbelov/taskman-api/internal/api/shared"
	"github.com/avbelov/taskman-api/internal/domain"
	"github.com/avbelov/taskman-api/internal/platform/logger"
	"github.com/avbelov/taskman-api/internal/store"
)

// CreateTaskRequest represents the request body for creating a new task.
// The owning user comes from the user_id query parameter, not the body.
type CreateTaskRequest struct {
	Title    string `json:"title"    validate:"required,min=1"`
	Content  string `json:"content"  validate:"required"`
	Priority int    `json:"priority" validate:"gte=0"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Re-parenting is not supported, so user_id is deliberately absent.
type UpdateTaskRequest struct {
	Title    string `json:"title"    validate:"required,min=1"`
	Content  string `json:"content"  validate:"required"`
	Priority int    `json:"priority" validate:"gte=0"`
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /task/ requests.
// It returns all tasks as a raw collection.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// GetByID handles GET /task/{id} requests.
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r)
	if err != nil {
		log.Warn("invalid task ID format", slog.String("id", chi.URLParam(r, "id")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Create handles POST /task/create?user_id= requests.
// A missing or non-numeric user_id is a 400; a well-formed user_id that
// matches no user is a 404.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		log.Warn("invalid user_id query parameter",
			slog.String("user_id", r.URL.Query().Get("user_id")))
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"user_id query parameter is required and must be an integer")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	task := &domain.Task{
		Title:    req.Title,
		Content:  req.Content,
		Priority: req.Priority,
		UserID:   userID,
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", userID))
	shared.RespondWithJSON(w, r, http.StatusCreated, shared.TransactionResponse{
		StatusCode:  http.StatusCreated,
		Transaction: "Successful",
	})
}

// Update handles PUT /task/update/{id} requests.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r)
	if err != nil {
		log.Warn("invalid task ID format", slog.String("id", chi.URLParam(r, "id")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	if err := h.taskStore.Update(r.Context(), id, req.Title, req.Content, req.Priority); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.TransactionResponse{
		StatusCode:  http.StatusOK,
		Transaction: "Task update is successful!",
	})
}

// Delete handles DELETE /task/delete/{id} requests.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r)
	if err != nil {
		log.Warn("invalid task ID format", slog.String("id", chi.URLParam(r, "id")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	if err := h.taskStore.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.TransactionResponse{
		StatusCode:  http.StatusOK,
		Transaction: "Task deletion is successful!",
	})
}
