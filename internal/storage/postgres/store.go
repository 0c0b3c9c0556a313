package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fittogether/fittogether/internal/models"
	"github.com/fittogether/fittogether/internal/storage"
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.UserStore    = (*Store)(nil)
	_ storage.WorkoutStore = (*Store)(nil)
)

// Store provides Postgres-backed persistence for users and workouts.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects a pool, pings it, and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			is_private BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_password_change TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique_idx ON users (email);`,
		`CREATE TABLE IF NOT EXISTS workouts (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS workouts_user_id_idx ON workouts (user_id);`,
		`CREATE INDEX IF NOT EXISTS workouts_created_at_idx ON workouts (created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new identity row. A duplicate email maps to
// storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string, createdAt, lastPasswordChange time.Time) (models.User, error) {
	const query = `
	INSERT INTO users (email, password_hash, created_at, last_password_change)
	VALUES ($1, $2, $3, $4)
	RETURNING id, email, password_hash, is_admin, is_private, created_at, last_password_change;
	`
	row := s.pool.QueryRow(ctx, query, email, passwordHash, createdAt, lastPasswordChange)
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return user, nil
}

// FindByEmail fetches an identity by exact email match.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
	SELECT id, email, password_hash, is_admin, is_private, created_at, last_password_change
	FROM users
	WHERE email = $1;
	`
	row := s.pool.QueryRow(ctx, query, email)
	return scanUser(row)
}

// UpdatePassword rotates the stored credential and stamps the change time.
func (s *Store) UpdatePassword(ctx context.Context, email, passwordHash string, changedAt time.Time) error {
	const query = `
	UPDATE users SET password_hash = $2, last_password_change = $3 WHERE email = $1;
	`
	tag, err := s.pool.Exec(ctx, query, email, passwordHash, changedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateWorkout inserts a workout row owned by the given user.
func (s *Store) CreateWorkout(ctx context.Context, userID int64, title string, description *string) (models.Workout, error) {
	const query = `
	INSERT INTO workouts (user_id, title, description)
	VALUES ($1, $2, $3)
	RETURNING id, user_id, title, description, created_at;
	`
	row := s.pool.QueryRow(ctx, query, userID, title, description)
	return scanWorkout(row)
}

// ListWorkouts returns workouts ordered newest first.
func (s *Store) ListWorkouts(ctx context.Context, limit, offset int) ([]models.Workout, error) {
	const query = `
	SELECT id, user_id, title, description, created_at
	FROM workouts
	ORDER BY created_at DESC, id DESC
	LIMIT $1 OFFSET $2;
	`
	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]models.Workout, 0, limit)
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, workout)
	}
	return workouts, rows.Err()
}

// scanUser normalizes every timestamp to UTC at the read boundary so
// expiry arithmetic never mixes zones.
func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.IsPrivate, &user.CreatedAt, &user.LastPasswordChange); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.LastPasswordChange = user.LastPasswordChange.UTC()
	return user, nil
}

func scanWorkout(row pgx.Row) (models.Workout, error) {
	var workout models.Workout
	if err := row.Scan(&workout.ID, &workout.UserID, &workout.Title, &workout.Description, &workout.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Workout{}, storage.ErrNotFound
		}
		return models.Workout{}, err
	}
	workout.CreatedAt = workout.CreatedAt.UTC()
	return workout, nil
}
