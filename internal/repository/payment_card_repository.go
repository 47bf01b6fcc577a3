package repository

import (
	"context"
	"fmt"

	"fitness/internal/db"
	"fitness/internal/interfaces"
	"fitness/internal/models"
)

type paymentCardRepository struct {
	db db.DBTX
}

func NewPaymentCardRepository(conn db.DBTX) interfaces.PaymentCardRepository {
	return &paymentCardRepository{db: conn}
}

func (r *paymentCardRepository) Create(ctx context.Context, c *models.PaymentCard) error {
	query := `
		INSERT INTO payment_cards (id, account_id, account_name, last_four, fingerprint, expiring_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.AccountID, c.AccountName, c.LastFour, c.Fingerprint, c.ExpiringDate,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment card: %w", mapError(err))
	}
	return nil
}

func (r *paymentCardRepository) ListByAccount(ctx context.Context, accountID string) ([]models.PaymentCard, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, account_name, last_four, fingerprint, expiring_date, created_at
		FROM payment_cards
		WHERE account_id = $1
		ORDER BY created_at
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment cards: %w", err)
	}
	defer rows.Close()

	cards := []models.PaymentCard{}
	for rows.Next() {
		var c models.PaymentCard
		if err := rows.Scan(&c.ID, &c.AccountID, &c.AccountName, &c.LastFour, &c.Fingerprint, &c.ExpiringDate, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *paymentCardRepository) Delete(ctx context.Context, accountID string, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payment_cards WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}
