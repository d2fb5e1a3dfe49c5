package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avbelov/taskman-api/internal/api/shared"
	"github.com/avbelov/taskman-api/internal/domain"
	"github.com/avbelov/taskman-api/internal/platform/logger"
	"github.com/avbelov/taskman-api/internal/store"
)

// CreateUserRequest represents the request body for creating a new user.
type CreateUserRequest struct {
	Username  string `json:"username"  validate:"required,min=1"`
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname"  validate:"required"`
	Age       int    `json:"age"       validate:"gte=0"`
}

// UpdateUserRequest represents the request body for updating a user.
// Username and slug are immutable and deliberately absent.
type UpdateUserRequest struct {
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname"  validate:"required"`
	Age       int    `json:"age"       validate:"gte=0"`
}

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userStore store.UserStore, logger *slog.Logger) *UserHandler {
	if logger == nil {
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		userStore: userStore,
		logger:    logger.With(slog.String("component", "user_handler")),
	}
}

// parseIDParam extracts and parses the {id} URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// List handles GET /user/ requests.
// It returns all users as a raw collection.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, users)
}

// GetByID handles GET /user/{id} requests.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r)
	if err != nil {
		log.Warn("invalid user ID format", slog.String("id", chi.URLParam(r, "id")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Create handles POST /user/create requests.
// A duplicate username yields 400; any unexpected failure is logged
// server-side and converted to a generic 500, never leaked to the caller.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateUserRequest
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

	user := &domain.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			shared.RespondWithErrorAndLog(w, r,
				http.StatusBadRequest, GetSafeErrorMessage(err), err)
			return
		}
		// Catch-all boundary for the create-user path: log the cause,
		// return a generic message.
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "An unexpected error occurred", err)
		return
	}

	log.Info("user created",
		slog.Int64("user_id", user.ID),
		slog.String("slug", user.Slug))
	shared.RespondWithJSON(w, r, http.StatusCreated, shared.TransactionResponse{
		StatusCode:  http.StatusCreated,
		Transaction: "Successful",
	})
}

// Update handles PUT /user/update/{id} requests.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r)
	if err != nil {
		log.Warn("invalid user ID format", slog.String("id", chi.URLParam(r, "id")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req UpdateUserRequest
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

	if err := h.userStore.Update(r.Context(), id, req.FirstName, req.LastName, req.Age); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.TransactionResponse{
		StatusCode:  http.StatusOK,
		Transaction: "User update is successful!",
	})
}

// Delete handles DELETE /user/delete/{id} requests.
// The user's tasks are deleted together with the user as one atomic unit.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r)
	if err != nil {
		log.Warn("invalid user ID format", slog.String("id", chi.URLParam(r, "id")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.userStore.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.TransactionResponse{
		StatusCode:  http.StatusOK,
		Transaction: "User deletion is successful!",
	})
}

// ListTasks handles GET /user/{id}/tasks requests.
func (h *UserHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r)
	if err != nil {
		log.Warn("invalid user ID format", slog.String("id", chi.URLParam(r, "id")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	tasks, err := h.userStore.ListTasks(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}
