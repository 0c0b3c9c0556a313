package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fittogether/fittogether/internal/http/respond"
	"github.com/fittogether/fittogether/internal/middleware"
	"github.com/fittogether/fittogether/internal/models/dto"
	"github.com/fittogether/fittogether/internal/storage"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// WorkoutHandler owns the workout endpoints: creation is bearer-protected,
// listing is public.
type WorkoutHandler struct {
	store    storage.WorkoutStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewWorkoutHandler constructs the handler.
func NewWorkoutHandler(store storage.WorkoutStore, logger *slog.Logger) *WorkoutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkoutHandler{store: store, validate: validator.New(), logger: logger}
}

// Register mounts the workout routes, guarding creation with requireAuth.
func (h *WorkoutHandler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/workouts", h.handleCreate)
	})
	r.Get("/workouts", h.handleList)
}

func (h *WorkoutHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req dto.WorkoutCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, "a title of at most 255 characters is required")
		return
	}

	workout, err := h.store.CreateWorkout(r.Context(), user.ID, req.Title, req.Description)
	if err != nil {
		h.logger.Error("create workout failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "failed to create workout")
		return
	}

	respond.JSON(w, http.StatusCreated, workout)
}

func (h *WorkoutHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit < 1 || limit > maxListLimit {
		respond.Error(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		respond.Error(w, http.StatusBadRequest, "offset must not be negative")
		return
	}

	workouts, err := h.store.ListWorkouts(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list workouts failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "failed to list workouts")
		return
	}

	respond.JSON(w, http.StatusOK, workouts)
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
