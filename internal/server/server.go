package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/fittogether/fittogether/internal/auth"
	"github.com/fittogether/fittogether/internal/config"
	"github.com/fittogether/fittogether/internal/http/handlers"
	"github.com/fittogether/fittogether/internal/middleware"
	"github.com/fittogether/fittogether/internal/storage"
	"github.com/fittogether/fittogether/internal/throttle"
)

// Credential endpoints get a tighter per-IP limit than the rest of the
// API.
const (
	credentialRateLimit  = 15
	credentialRateWindow = time.Minute
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires the auth core, middleware, and routes, and returns a ready
// server.
func New(cfg config.Config, logger *slog.Logger, users storage.UserStore, workouts storage.WorkoutStore, limiter *throttle.Limiter) (*Server, error) {
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTIssuer, cfg.JWTTTL, logger)
	if err != nil {
		return nil, err
	}
	hasher := auth.NewHasher(0)
	policy := auth.ExpiryPolicy{MaxAge: cfg.PasswordMaxAge}
	svc := auth.NewService(users, hasher, tokens, policy, logger)

	secureHeaders := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(secureHeaders.Handler)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.NewHealthHandler(time.Now()).Register(r)

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(credentialRateLimit, credentialRateWindow))
		handlers.NewAuthHandler(svc, limiter, logger).Register(r)
	})

	handlers.NewWorkoutHandler(workouts, logger).Register(r, middleware.RequireAuth(svc, logger))

	httpServer := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.AppReadTimeout,
		WriteTimeout:      cfg.AppWriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
