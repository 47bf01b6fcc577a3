package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"fitness/internal/interfaces"
	"fitness/internal/metrics"
	"fitness/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// OrderService owns the shopping cart and the orders created from it.
type OrderService struct {
	store   interfaces.Store
	metrics metrics.Recorder
	logger  *slog.Logger
	v       *validator.Validate
}

func NewOrderService(store interfaces.Store, rec metrics.Recorder, logger *slog.Logger) *OrderService {
	if rec == nil {
		rec = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{store: store, metrics: rec, logger: logger, v: NewValidator()}
}

func (s *OrderService) Cart(ctx context.Context, accountID string) (models.CartResponse, error) {
	items, err := s.store.Cart().ListItems(ctx, accountID)
	if err != nil {
		return models.CartResponse{}, err
	}
	return models.NewCartResponse(items), nil
}

// AddToCart puts a product in the cart at its current price. Adding a product that is
// already there increases the quantity.
func (s *OrderService) AddToCart(ctx context.Context, accountID string, req models.AddCartItemRequest) (*models.ShoppingItem, error) {
	if err := s.v.Struct(req); err != nil {
		return nil, ValidationErrorFrom(err)
	}
	p, err := s.store.Products().GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, productNotFound()
		}
		return nil, err
	}
	item := &models.ShoppingItem{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		ProductID:   p.ID,
		ProductName: p.ProductName,
		UnitPrice:   p.Price,
		Quantity:    req.Quantity,
	}
	if err := s.store.Cart().AddItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func cartItemNotFound() error {
	return &NotFoundError{Resource: "cart item", Message: "cart item not found"}
}

func (s *OrderService) UpdateCartItem(ctx context.Context, accountID string, itemID string, req models.UpdateCartItemRequest) error {
	if err := s.v.Struct(req); err != nil {
		return ValidationErrorFrom(err)
	}
	if err := s.store.Cart().UpdateQuantity(ctx, accountID, itemID, req.Quantity); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return cartItemNotFound()
		}
		return err
	}
	return nil
}

func (s *OrderService) RemoveCartItem(ctx context.Context, accountID string, itemID string) error {
	if err := s.store.Cart().RemoveItem(ctx, accountID, itemID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return cartItemNotFound()
		}
		return err
	}
	return nil
}

func (s *OrderService) ClearCart(ctx context.Context, accountID string) error {
	return s.store.Cart().Clear(ctx, accountID)
}

// Checkout turns the cart into a PENDING order in one transaction: product rows are
// locked, stock of physical products is taken, and the cart is emptied. Prices are
// those of the products at checkout time.
func (s *OrderService) Checkout(ctx context.Context, accountID string, req models.CheckoutRequest) (*models.Order, error) {
	if err := s.v.Struct(req); err != nil {
		return nil, ValidationErrorFrom(err)
	}

	order := &models.Order{
		ID:              uuid.NewString(),
		AccountID:       accountID,
		ShippingAddress: req.ShippingAddress,
		ShippingMethod:  req.ShippingMethod,
		OrderStatus:     models.OrderStatusPending,
	}

	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		items, err := tx.Cart().ListItems(ctx, accountID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return &ValidationError{Field: "shopping_items", Message: "cart is empty"}
		}

		// fixed lock order across concurrent checkouts
		sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

		var total float64
		order.Items = make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			p, err := tx.Products().GetByIDForUpdate(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, interfaces.ErrNotFound) {
					return &ConflictError{Field: "product_id", Message: fmt.Sprintf("product %s is no longer available", it.ProductID)}
				}
				return err
			}
			if p.ProductType == models.ProductTypeProduct {
				if err := tx.Products().AdjustStock(ctx, p.ID, -int64(it.Quantity)); err != nil {
					var stockErr *interfaces.InsufficientStockError
					if errors.As(err, &stockErr) {
						return &ConflictError{
							Field:   "quantity",
							Message: fmt.Sprintf("only %d of %s left in stock", stockErr.Available, p.ProductName),
						}
					}
					return err
				}
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.ProductName,
				UnitPrice:   p.Price,
				Quantity:    it.Quantity,
			})
			total += p.Price * float64(it.Quantity)
		}
		order.TotalPrice = math.Round(total*100) / 100

		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		return tx.Cart().Clear(ctx, accountID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCheckout(order.TotalPrice)
	s.logger.Info("order placed", "order_id", order.ID, "account_id", accountID, "total", order.TotalPrice)
	return order, nil
}

func orderNotFound() error {
	return &NotFoundError{Resource: "order", Message: "order not found"}
}

func (s *OrderService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	filter.Limit, filter.Offset = Page(filter.Limit, filter.Offset)
	return s.store.Orders().List(ctx, filter)
}

// GetOrder returns the order when it belongs to accountID. An empty accountID skips
// the ownership check.
func (s *OrderService) GetOrder(ctx context.Context, accountID string, id string) (*models.Order, error) {
	o, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, orderNotFound()
		}
		return nil, err
	}
	if accountID != "" && o.AccountID != accountID {
		return nil, orderNotFound()
	}
	return o, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, req models.UpdateOrderStatusRequest) (*models.Order, error) {
	if err := s.v.Struct(req); err != nil {
		return nil, ValidationErrorFrom(err)
	}
	if err := s.store.Orders().UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, orderNotFound()
		}
		return nil, err
	}
	return s.GetOrder(ctx, "", id)
}
