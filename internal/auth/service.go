package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fittogether/fittogether/internal/models"
	"github.com/fittogether/fittogether/internal/storage"
)

// Service composes the hasher, token manager, and expiry policy over the
// user store. Every operation is a stateless decision plus at most one
// store round trip.
type Service struct {
	store  storage.UserStore
	hasher *Hasher
	tokens *TokenManager
	policy ExpiryPolicy
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(store storage.UserStore, hasher *Hasher, tokens *TokenManager, policy ExpiryPolicy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, hasher: hasher, tokens: tokens, policy: policy, logger: logger}
}

// Register creates a new identity with a freshly hashed credential. A
// duplicate email surfaces as storage.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, email, password string) (models.User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}
	now := time.Now().UTC()
	return s.store.CreateUser(ctx, email, digest, now, now)
}

// Authenticate verifies an email/password pair against the store. An
// unknown email and a wrong password produce the same failure so the
// caller cannot enumerate accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Login runs Authenticate, applies the password-expiry policy, and issues
// a bearer token for the identity. An expired password fails exactly like
// a wrong one.
func (s *Service) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", models.User{}, err
	}
	if s.policy.Expired(user.LastPasswordChange, time.Now()) {
		s.logger.Info("login rejected, password past max age", slog.String("email", email))
		return "", models.User{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", models.User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Authorize resolves a bearer token to the identity it names. Token
// failures and a since-deleted subject are indistinguishable to the
// caller.
func (s *Service) Authorize(ctx context.Context, token string) (models.User, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		return models.User{}, ErrUnauthenticated
	}
	user, err := s.store.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrUnauthenticated
		}
		return models.User{}, err
	}
	return user, nil
}
