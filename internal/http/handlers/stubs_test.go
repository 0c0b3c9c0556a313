package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fittogether/fittogether/internal/auth"
	"github.com/fittogether/fittogether/internal/http/handlers"
	"github.com/fittogether/fittogether/internal/middleware"
	"github.com/fittogether/fittogether/internal/models"
	"github.com/fittogether/fittogether/internal/storage"
	"github.com/fittogether/fittogether/internal/throttle"
)

type stubUserStore struct {
	users  map[string]models.User
	nextID int64
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[string]models.User)}
}

func (s *stubUserStore) CreateUser(_ context.Context, email, passwordHash string, createdAt, lastPasswordChange time.Time) (models.User, error) {
	if _, ok := s.users[email]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	s.nextID++
	user := models.User{
		ID:                 s.nextID,
		Email:              email,
		PasswordHash:       passwordHash,
		CreatedAt:          createdAt,
		LastPasswordChange: lastPasswordChange,
	}
	s.users[email] = user
	return user, nil
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *stubUserStore) UpdatePassword(_ context.Context, email, passwordHash string, changedAt time.Time) error {
	user, ok := s.users[email]
	if !ok {
		return storage.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.LastPasswordChange = changedAt
	s.users[email] = user
	return nil
}

type stubWorkoutStore struct {
	workouts []models.Workout
	nextID   int64
}

func (s *stubWorkoutStore) CreateWorkout(_ context.Context, userID int64, title string, description *string) (models.Workout, error) {
	s.nextID++
	workout := models.Workout{
		ID:          s.nextID,
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	s.workouts = append(s.workouts, workout)
	return workout, nil
}

// ListWorkouts returns newest first, mirroring the Postgres ordering.
func (s *stubWorkoutStore) ListWorkouts(_ context.Context, limit, offset int) ([]models.Workout, error) {
	out := make([]models.Workout, 0, limit)
	for i := len(s.workouts) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.workouts[i])
	}
	return out, nil
}

type testEnv struct {
	router   chi.Router
	users    *stubUserStore
	workouts *stubWorkoutStore
	svc      *auth.Service
	tokens   *auth.TokenManager
}

func newTestEnv(t *testing.T, limiter *throttle.Limiter) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenManager("test-secret", "HS256", "fittogether-test", time.Hour, logger)
	require.NoError(t, err)

	users := newStubUserStore()
	workouts := &stubWorkoutStore{}
	policy := auth.ExpiryPolicy{MaxAge: 30 * 24 * time.Hour}
	svc := auth.NewService(users, auth.NewHasher(bcrypt.MinCost), tokens, policy, logger)

	r := chi.NewRouter()
	handlers.NewAuthHandler(svc, limiter, logger).Register(r)
	handlers.NewWorkoutHandler(workouts, logger).Register(r, middleware.RequireAuth(svc, logger))

	return &testEnv{router: r, users: users, workouts: workouts, svc: svc, tokens: tokens}
}

func (e *testEnv) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.router.ServeHTTP(w, r)
}
