package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown email, wrong password, and an
	// expired password; callers cannot tell the three apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated covers every bearer-token failure, including a
	// token whose subject no longer exists.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidToken is returned by TokenManager.Validate for forged,
	// expired, malformed, and claim-less tokens alike.
	ErrInvalidToken = errors.New("invalid token")
)
