package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitness/internal/interfaces"
	"fitness/internal/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{
	"id", "category", "product_name", "price", "description", "stock", "product_type", "image",
	"duration_in_hours_per_day", "duration_in_days", "quantity", "created_at", "updated_at",
}

func TestProductRepository_ListFilters(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewProductRepository(conn)
	now := time.Now()

	mock.ExpectQuery(`FROM products WHERE category = \$1 AND product_type = \$2 ORDER BY product_name LIMIT \$3`).
		WithArgs("yoga", "SERVICE", 5).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow("p-1", "yoga", "Morning flow", 25.0, "", int64(10), "SERVICE", "", int64(1), int64(30), nil, now, now))

	products, err := repo.List(context.Background(), models.ProductFilter{Category: "yoga", ProductType: "SERVICE", Limit: 5})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, models.ProductTypeService, products[0].ProductType)
	require.NotNil(t, products[0].DurationInDays)
	assert.Equal(t, 30, *products[0].DurationInDays)
	assert.Nil(t, products[0].Quantity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_AdjustStockInsufficient(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewProductRepository(conn)

	mock.ExpectExec(`UPDATE products SET stock = stock \+ \$1`).
		WithArgs(int64(-5), "p-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT stock FROM products WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(int64(2)))

	err := repo.AdjustStock(context.Background(), "p-1", -5)
	var stockErr *interfaces.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.EqualValues(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
}

func TestProductRepository_DeleteBlockedByOrders(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewProductRepository(conn)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM order_items WHERE product_id = \$1`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	err := repo.Delete(context.Background(), "p-1")
	var blocked *interfaces.DeletionBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.EqualValues(t, 3, blocked.References["order_items"])
}

func TestCartRepository_AddItemMergesQuantity(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewCartRepository(conn)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO shopping_items .* ON CONFLICT \(account_id, product_id\)`).
		WithArgs("new-id", "a-1", "p-1", 12.5, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "quantity", "created_at"}).AddRow("old-id", 5, now))

	item := &models.ShoppingItem{ID: "new-id", AccountID: "a-1", ProductID: "p-1", UnitPrice: 12.5, Quantity: 2}
	require.NoError(t, repo.AddItem(context.Background(), item))
	assert.Equal(t, "old-id", item.ID)
	assert.Equal(t, 5, item.Quantity)
}

func TestCartRepository_RemoveItemScopedToAccount(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewCartRepository(conn)

	mock.ExpectExec(`DELETE FROM shopping_items WHERE id = \$1 AND account_id = \$2`).
		WithArgs("i-1", "someone-else").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RemoveItem(context.Background(), "someone-else", "i-1")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestOrderRepository_CreateWritesItems(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewOrderRepository(conn)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs("o-1", 0, "p-1", "Mat", 20.0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs("o-1", 1, "p-2", "Band", 5.0, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	o := &models.Order{
		ID:        "o-1",
		AccountID: "a-1",
		Items: []models.OrderItem{
			{ProductID: "p-1", ProductName: "Mat", UnitPrice: 20, Quantity: 1},
			{ProductID: "p-2", ProductName: "Band", UnitPrice: 5, Quantity: 3},
		},
		TotalPrice:      35,
		ShippingAddress: models.Address{Street: "1 Main", City: "Springfield", Country: "US"},
		OrderStatus:     models.OrderStatusPending,
		ShippingMethod:  models.ShippingStandard,
	}
	require.NoError(t, repo.Create(context.Background(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByIDLoadsItems(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewOrderRepository(conn)
	now := time.Now()

	mock.ExpectQuery(`FROM orders WHERE id = \$1`).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "total_price", "shipping_address", "order_status", "shipping_method", "created_at", "updated_at"}).
			AddRow("o-1", "a-1", 20.0, []byte(`{"street":"1 Main","city":"Springfield","country":"US"}`), "PENDING", "PICKUP", now, now))
	mock.ExpectQuery(`FROM order_items WHERE order_id = \$1 ORDER BY position`).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name", "unit_price", "quantity"}).
			AddRow("p-1", "Mat", 20.0, 1))

	o, err := repo.GetByID(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, "Springfield", o.ShippingAddress.City)
	assert.Equal(t, models.ShippingPickup, o.ShippingMethod)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Mat", o.Items[0].ProductName)
}

func TestPaymentCardRepository_CreateDuplicateFingerprint(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPaymentCardRepository(conn)

	mock.ExpectQuery(`INSERT INTO payment_cards`).
		WillReturnError(errors.New("boom"))

	err := repo.Create(context.Background(), &models.PaymentCard{ID: "c-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestStore_WithinTxCommitsAndRollsBack(t *testing.T) {
	conn, mock := newMock(t)
	s := NewStore(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM shopping_items WHERE account_id = \$1`).
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithinTx(context.Background(), func(tx interfaces.Store) error {
		return tx.Cart().Clear(context.Background(), "a-1")
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	sentinel := errors.New("stop")
	err = s.WithinTx(context.Background(), func(tx interfaces.Store) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	require.NoError(t, mock.ExpectationsWereMet())
}
