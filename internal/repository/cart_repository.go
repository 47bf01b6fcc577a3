package repository

import (
	"context"
	"fmt"

	"fitness/internal/db"
	"fitness/internal/interfaces"
	"fitness/internal/models"
)

type cartRepository struct {
	db db.DBTX
}

func NewCartRepository(conn db.DBTX) interfaces.CartRepository {
	return &cartRepository{db: conn}
}

// AddItem inserts the item or, when the product is already in the cart, adds the
// quantity to the existing line. The stored row is written back into item.
func (r *cartRepository) AddItem(ctx context.Context, item *models.ShoppingItem) error {
	query := `
		INSERT INTO shopping_items (id, account_id, product_id, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, product_id)
		DO UPDATE SET quantity = shopping_items.quantity + EXCLUDED.quantity,
			unit_price = EXCLUDED.unit_price
		RETURNING id, quantity, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		item.ID, item.AccountID, item.ProductID, item.UnitPrice, item.Quantity,
	).Scan(&item.ID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", mapError(err))
	}
	return nil
}

func (r *cartRepository) ListItems(ctx context.Context, accountID string) ([]models.ShoppingItem, error) {
	query := `
		SELECT s.id, s.account_id, s.product_id, p.product_name, s.unit_price, s.quantity, s.created_at
		FROM shopping_items s
		JOIN products p ON p.id = s.product_id
		WHERE s.account_id = $1
		ORDER BY s.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	defer rows.Close()

	items := []models.ShoppingItem{}
	for rows.Next() {
		var it models.ShoppingItem
		if err := rows.Scan(&it.ID, &it.AccountID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, accountID string, itemID string, quantity int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shopping_items SET quantity = $1 WHERE id = $2 AND account_id = $3`,
		quantity, itemID, accountID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *cartRepository) RemoveItem(ctx context.Context, accountID string, itemID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shopping_items WHERE id = $1 AND account_id = $2`, itemID, accountID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *cartRepository) Clear(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM shopping_items WHERE account_id = $1`, accountID)
	return err
}
