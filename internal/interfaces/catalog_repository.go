package interfaces

import (
	"context"

	"fitness/internal/models"
)

// ProductRepository defines the interface for product catalog operations
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	AdjustStock(ctx context.Context, id string, delta int64) error
	Delete(ctx context.Context, id string) error
}

// CartRepository defines the shopping cart operations, always scoped to one account.
type CartRepository interface {
	AddItem(ctx context.Context, item *models.ShoppingItem) error
	ListItems(ctx context.Context, accountID string) ([]models.ShoppingItem, error)
	UpdateQuantity(ctx context.Context, accountID string, itemID string, quantity int) error
	RemoveItem(ctx context.Context, accountID string, itemID string) error
	Clear(ctx context.Context, accountID string) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
}

type PaymentCardRepository interface {
	Create(ctx context.Context, card *models.PaymentCard) error
	ListByAccount(ctx context.Context, accountID string) ([]models.PaymentCard, error)
	Delete(ctx context.Context, accountID string, id string) error
}
