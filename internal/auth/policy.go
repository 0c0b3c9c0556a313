package auth

import "time"

// ExpiryPolicy decides whether a successfully verified credential is
// still usable based on its age.
type ExpiryPolicy struct {
	MaxAge time.Duration
}

// Expired reports whether a credential last changed at lastChange is past
// its maximum age at instant now. A credential exactly MaxAge old is
// still valid. Both instants are normalized to UTC before comparison, so
// zone-differing representations of the same instant agree.
func (p ExpiryPolicy) Expired(lastChange, now time.Time) bool {
	return lastChange.UTC().Add(p.MaxAge).Before(now.UTC())
}
