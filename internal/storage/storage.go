package storage

import (
	"context"
	"errors"
	"time"

	"github.com/fittogether/fittogether/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures identity persistence. Email uniqueness is enforced
// by the store itself; a concurrent duplicate insert surfaces as
// ErrAlreadyExists, not a fatal failure.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string, createdAt, lastPasswordChange time.Time) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string, changedAt time.Time) error
}

// WorkoutStore captures workout persistence.
type WorkoutStore interface {
	CreateWorkout(ctx context.Context, userID int64, title string, description *string) (models.Workout, error)
	ListWorkouts(ctx context.Context, limit, offset int) ([]models.Workout, error)
}
