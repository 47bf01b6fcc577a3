package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"fitness/internal/middleware"
	"fitness/internal/models"
	"github.com/go-chi/chi/v5"
)

// Shop covers the cart and order operations of OrderService.
type Shop interface {
	Cart(ctx context.Context, accountID string) (models.CartResponse, error)
	AddToCart(ctx context.Context, accountID string, req models.AddCartItemRequest) (*models.ShoppingItem, error)
	UpdateCartItem(ctx context.Context, accountID string, itemID string, req models.UpdateCartItemRequest) error
	RemoveCartItem(ctx context.Context, accountID string, itemID string) error
	ClearCart(ctx context.Context, accountID string) error
	Checkout(ctx context.Context, accountID string, req models.CheckoutRequest) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	GetOrder(ctx context.Context, accountID string, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, req models.UpdateOrderStatusRequest) (*models.Order, error)
}

type CartHandler struct {
	shop   Shop
	logger *slog.Logger
}

func NewCartHandler(shop Shop, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{shop: shop, logger: logger}
}

// @Tags Cart
// @Summary Show the cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.CartResponse
// @Router /api/v1/cart [get]
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.shop.Cart(r.Context(), middleware.AccountIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// @Tags Cart
// @Summary Add a product to the cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddCartItemRequest true "Item"
// @Success 201 {object} models.ShoppingItem
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cart [post]
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.shop.AddToCart(r.Context(), middleware.AccountIDFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// @Tags Cart
// @Summary Change the quantity of a cart item
// @Security BearerAuth
// @Accept json
// @Param itemID path string true "Cart item ID"
// @Param request body models.UpdateCartItemRequest true "Quantity"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cart/{itemID} [put]
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.shop.UpdateCartItem(r.Context(), middleware.AccountIDFromContext(r.Context()), chi.URLParam(r, "itemID"), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Tags Cart
// @Summary Remove a cart item
// @Security BearerAuth
// @Param itemID path string true "Cart item ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cart/{itemID} [delete]
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.shop.RemoveCartItem(r.Context(), middleware.AccountIDFromContext(r.Context()), chi.URLParam(r, "itemID")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Tags Cart
// @Summary Empty the cart
// @Security BearerAuth
// @Success 204
// @Router /api/v1/cart [delete]
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.shop.ClearCart(r.Context(), middleware.AccountIDFromContext(r.Context())); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
