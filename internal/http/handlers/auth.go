package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fittogether/fittogether/internal/auth"
	"github.com/fittogether/fittogether/internal/http/respond"
	"github.com/fittogether/fittogether/internal/models/dto"
	"github.com/fittogether/fittogether/internal/storage"
	"github.com/fittogether/fittogether/internal/throttle"
)

// AuthHandler owns the registration and token endpoints.
type AuthHandler struct {
	svc      *auth.Service
	limiter  *throttle.Limiter // nil when throttling is disabled
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *auth.Service, limiter *throttle.Limiter, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{svc: svc, limiter: limiter, validate: validator.New(), logger: logger}
}

// Register mounts the auth routes.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/users/register", h.handleRegister)
	r.Post("/users/token", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, "a valid email and a password of at least 8 characters are required")
		return
	}

	user, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusConflict, "email already registered")
		default:
			h.logger.Error("register failed", slog.Any("error", err))
			respond.Error(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	respond.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if h.blocked(r, req.Email) {
		respond.Error(w, http.StatusTooManyRequests, "too many failed attempts, try again later")
		return
	}

	token, _, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.recordFailure(r, req.Email)
			respond.Error(w, http.StatusUnauthorized, "incorrect email or password")
			return
		}
		h.logger.Error("login failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	if h.limiter != nil {
		if err := h.limiter.Reset(r.Context(), req.Email); err != nil {
			h.logger.Warn("reset login throttle", slog.Any("error", err))
		}
	}
	respond.JSON(w, http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// blocked fails open: a throttle-store error never locks users out.
func (h *AuthHandler) blocked(r *http.Request, email string) bool {
	if h.limiter == nil {
		return false
	}
	blocked, err := h.limiter.Blocked(r.Context(), email)
	if err != nil {
		h.logger.Warn("check login throttle", slog.Any("error", err))
		return false
	}
	return blocked
}

func (h *AuthHandler) recordFailure(r *http.Request, email string) {
	if h.limiter == nil {
		return
	}
	if err := h.limiter.RecordFailure(r.Context(), email); err != nil {
		h.logger.Warn("record login failure", slog.Any("error", err))
	}
}
