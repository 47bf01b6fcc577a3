package services

import (
	"context"
	"errors"
	"fmt"

	"fitness/internal/interfaces"
	"fitness/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and checks passwords. Compare returns nil on a match.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type bcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return bcryptHasher{cost: cost}
}

func (h bcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (h bcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// SessionIssuer signs the session token handed out on login.
type SessionIssuer interface {
	Issue(accountID, userName, role string) (string, error)
}

// Authenticator checks a username/password pair and returns the account with its roles.
type Authenticator interface {
	Authenticate(ctx context.Context, userName string, password string) (*models.Account, error)
}

type passwordAuthenticator struct {
	accounts interfaces.AccountRepository
	hasher   PasswordHasher
	// dummyHash is compared against when the user does not exist so both paths cost a bcrypt round.
	dummyHash string
}

func NewAuthenticator(accounts interfaces.AccountRepository, hasher PasswordHasher) (Authenticator, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, err
	}
	return &passwordAuthenticator{accounts: accounts, hasher: hasher, dummyHash: dummy}, nil
}

func (a *passwordAuthenticator) Authenticate(ctx context.Context, userName string, password string) (*models.Account, error) {
	if userName == "" || password == "" {
		return nil, ErrBadCredentials
	}
	acct, err := a.accounts.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			_ = a.hasher.Compare(a.dummyHash, password)
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if err := a.hasher.Compare(acct.PasswordHash, password); err != nil {
		return nil, ErrBadCredentials
	}
	return acct, nil
}

// selectRole picks the last non-empty role in stored order, defaulting to USER.
func selectRole(roles []string) string {
	role := ""
	for _, r := range roles {
		if r != "" {
			role = r
		}
	}
	if role == "" {
		return string(models.RoleUser)
	}
	return role
}
