package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// IssuedToken pairs the raw token mailed to the user with the digest that is stored.
type IssuedToken struct {
	Raw    string
	Digest string
}

type TokenIssuer interface {
	Issue() (IssuedToken, error)
}

type randomTokenIssuer struct{}

func NewTokenIssuer() TokenIssuer {
	return randomTokenIssuer{}
}

// Issue returns 32 random bytes hex encoded (64 characters).
func (randomTokenIssuer) Issue() (IssuedToken, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return IssuedToken{}, fmt.Errorf("generate token: %w", err)
	}
	raw := hex.EncodeToString(b)
	return IssuedToken{Raw: raw, Digest: DigestToken(raw)}, nil
}

func DigestToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
