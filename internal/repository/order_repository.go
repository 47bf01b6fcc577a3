package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fitness/internal/db"
	"fitness/internal/interfaces"
	"fitness/internal/models"
)

const orderColumns = `id, account_id, total_price, shipping_address, order_status, shipping_method, created_at, updated_at`

type orderRepository struct {
	db db.DBTX
}

func NewOrderRepository(conn db.DBTX) interfaces.OrderRepository {
	return &orderRepository{db: conn}
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		o       models.Order
		address []byte
		status  string
		method  string
	)
	if err := row.Scan(&o.ID, &o.AccountID, &o.TotalPrice, &address, &status, &method, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	o.OrderStatus = models.OrderStatus(status)
	o.ShippingMethod = models.ShippingMethod(method)
	return &o, nil
}

// Create stores the order header and its lines. Callers run it inside a transaction
// so a failing line leaves no partial order behind.
func (r *orderRepository) Create(ctx context.Context, o *models.Order) error {
	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("encode shipping address: %w", err)
	}

	query := `
		INSERT INTO orders (id, account_id, total_price, shipping_address, order_status, shipping_method)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		o.ID, o.AccountID, o.TotalPrice, address, string(o.OrderStatus), string(o.ShippingMethod),
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", mapError(err))
	}

	for i, it := range o.Items {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id, product_name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, o.ID, i, it.ProductID, it.ProductName, it.UnitPrice, it.Quantity)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", mapError(err))
		}
	}
	return nil
}

func (r *orderRepository) loadItems(ctx context.Context, o *models.Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, product_name, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, o.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	o.Items = []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`

	conditions := []string{}
	args := []any{}
	argID := 1
	if filter.AccountID != "" {
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", argID))
		args = append(args, filter.AccountID)
		argID++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("order_status = $%d", argID))
		args = append(args, string(filter.Status))
		argID++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	rows.Close()

	// items are loaded after the cursor is closed; a transaction allows one open result set
	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET order_status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}
