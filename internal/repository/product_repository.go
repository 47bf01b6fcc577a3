package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"fitness/internal/db"
	"fitness/internal/interfaces"
	"fitness/internal/models"
)

const productColumns = `id, category, product_name, price, description, stock, product_type, image,
		duration_in_hours_per_day, duration_in_days, quantity, created_at, updated_at`

type productRepository struct {
	db db.DBTX
}

func NewProductRepository(conn db.DBTX) interfaces.ProductRepository {
	return &productRepository{db: conn}
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p           models.Product
		productType string
		hoursPerDay sql.NullInt64
		days        sql.NullInt64
		quantity    sql.NullInt64
	)
	err := row.Scan(
		&p.ID, &p.Category, &p.ProductName, &p.Price, &p.Description, &p.Stock, &productType, &p.Image,
		&hoursPerDay, &days, &quantity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	p.ProductType = models.ProductType(productType)
	p.DurationInHoursPerDay = nullIntPtr(hoursPerDay)
	p.DurationInDays = nullIntPtr(days)
	p.Quantity = nullIntPtr(quantity)
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (id, category, product_name, price, description, stock, product_type, image,
			duration_in_hours_per_day, duration_in_days, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.Category, p.ProductName, p.Price, p.Description, p.Stock, string(p.ProductType), p.Image,
		p.DurationInHoursPerDay, p.DurationInDays, p.Quantity,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		slog.Error("create product failed", "error", err)
		return fmt.Errorf("failed to create product: %w", mapError(err))
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *productRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
}

func (r *productRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`

	conditions := []string{}
	args := []any{}
	argID := 1

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argID))
		args = append(args, filter.Category)
		argID++
	}
	if filter.ProductType != "" {
		conditions = append(conditions, fmt.Sprintf("product_type = $%d", argID))
		args = append(args, filter.ProductType)
		argID++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY product_name"
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
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET category = $1,
			product_name = $2,
			price = $3,
			description = $4,
			stock = $5,
			product_type = $6,
			image = $7,
			duration_in_hours_per_day = $8,
			duration_in_days = $9,
			quantity = $10,
			updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.Category, p.ProductName, p.Price, p.Description, p.Stock, string(p.ProductType), p.Image,
		p.DurationInHoursPerDay, p.DurationInDays, p.Quantity, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// AdjustStock adds delta to the stock of a product. A result below zero fails with
// InsufficientStockError and leaves the row untouched.
func (r *productRepository) AdjustStock(ctx context.Context, id string, delta int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2 AND stock + $1 >= 0`,
		delta, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var stock int64
	if err := r.db.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock); err != nil {
		return mapError(err)
	}
	return &interfaces.InsufficientStockError{ProductID: id, Available: stock, Requested: int(-delta)}
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	var orderItems int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_items WHERE product_id = $1`, id).Scan(&orderItems); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if orderItems > 0 {
		return &interfaces.DeletionBlockedError{
			Resource:   "product",
			References: map[string]int64{"order_items": orderItems},
		}
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return checkAffected(res)
}
