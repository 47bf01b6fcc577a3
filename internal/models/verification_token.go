package models

import "time"

// VerificationToken proves control of the registered email. Only the digest of the
// token sent by email is stored.
type VerificationToken struct {
	ID        string
	AccountID string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (t *VerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
