package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher produces and verifies salted one-way password digests. The
// algorithm, cost, and salt are embedded in the digest itself, so no
// external parameters are needed to re-verify.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost, falling back to
// the default cost when out of range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash digests the plaintext. Each call salts independently, so repeated
// calls with the same input yield distinct digests.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether digest was produced from plaintext. The
// comparison is constant-time, and a malformed digest verifies as false
// rather than failing.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
