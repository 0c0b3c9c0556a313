package auth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and validates signed bearer tokens. Tokens are
// stateless: nothing is persisted, and a presented token is judged purely
// by its signature and embedded expiry.
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	ttl    time.Duration
	logger *slog.Logger
}

// NewTokenManager creates a manager with the provided secret, algorithm
// identifier, issuer, and default lifetime. Only symmetric HS-family
// algorithms are accepted.
func NewTokenManager(secret, algorithm, issuer string, ttl time.Duration, logger *slog.Logger) (*TokenManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not symmetric", algorithm)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenManager{
		secret: []byte(secret),
		method: method,
		issuer: issuer,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Issue signs a token for the subject using the configured lifetime.
func (t *TokenManager) Issue(subject string) (string, error) {
	return t.IssueWithTTL(subject, t.ttl)
}

// IssueWithTTL signs a token whose embedded expiry is now + ttl.
func (t *TokenManager) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    t.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.secret)
}

// Validate checks the signature and expiry and returns the embedded
// subject. Forged, expired, malformed, and claim-less tokens all collapse
// to ErrInvalidToken so the presenter cannot tell which check failed; the
// concrete cause is only visible in debug logs.
func (t *TokenManager) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{t.method.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		t.logger.Debug("token rejected", slog.String("reason", err.Error()))
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		t.logger.Debug("token rejected", slog.String("reason", "missing subject claim"))
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
