package interfaces

import (
	"context"
	"time"

	"fitness/internal/models"
)

// AccountRepository defines the credential store operations.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByUserName(ctx context.Context, userName string) (*models.Account, error)
	// GetByUserNameForUpdate locks the row until the surrounding transaction ends.
	GetByUserNameForUpdate(ctx context.Context, userName string) (*models.Account, error)
	GetByResetTokenHashForUpdate(ctx context.Context, tokenHash string) (*models.Account, error)
	List(ctx context.Context, limit int, offset int) ([]models.Account, error)
	Count(ctx context.Context) (int, error)
	UpdateProfile(ctx context.Context, account *models.Account) error
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
	SetResetToken(ctx context.Context, id string, tokenHash *string, expiresAt *time.Time) error
	MarkVerified(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// VerificationTokenRepository persists email verification tokens.
type VerificationTokenRepository interface {
	Create(ctx context.Context, token *models.VerificationToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.VerificationToken, error)
	Delete(ctx context.Context, id string) error
	DeleteByAccount(ctx context.Context, accountID string) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Store groups the repositories that take part in a transaction.
type Store interface {
	Accounts() AccountRepository
	VerificationTokens() VerificationTokenRepository
	Products() ProductRepository
	Cart() CartRepository
	Orders() OrderRepository
	PaymentCards() PaymentCardRepository
	// WithinTx runs fn against a Store bound to one transaction. The transaction
	// commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
