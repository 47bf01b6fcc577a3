package repository

import (
	"context"
	"fmt"
	"time"

	"fitness/internal/db"
	"fitness/internal/interfaces"
	"fitness/internal/models"
)

type verificationTokenRepository struct {
	db db.DBTX
}

func NewVerificationTokenRepository(conn db.DBTX) interfaces.VerificationTokenRepository {
	return &verificationTokenRepository{db: conn}
}

func (r *verificationTokenRepository) Create(ctx context.Context, t *models.VerificationToken) error {
	query := `
		INSERT INTO verification_tokens (id, account_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, t.ID, t.AccountID, t.TokenHash, t.ExpiresAt).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create verification token: %w", mapError(err))
	}
	return nil
}

func (r *verificationTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.VerificationToken, error) {
	query := `
		SELECT id, account_id, token_hash, expires_at, created_at
		FROM verification_tokens
		WHERE token_hash = $1
	`
	var t models.VerificationToken
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&t.ID, &t.AccountID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *verificationTokenRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *verificationTokenRepository) DeleteByAccount(ctx context.Context, accountID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteExpired purges tokens whose expiry is not after before.
func (r *verificationTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
