package handlers

import (
	"log/slog"
	"net/http"

	"fitness/internal/middleware"
	"fitness/internal/models"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	shop   Shop
	logger *slog.Logger
}

func NewOrderHandler(shop Shop, logger *slog.Logger) *OrderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderHandler{shop: shop, logger: logger}
}

// @Tags Orders
// @Summary Check out the cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CheckoutRequest true "Shipping details"
// @Success 201 {object} models.Order
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/orders [post]
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.shop.Checkout(r.Context(), middleware.AccountIDFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// @Tags Orders
// @Summary List my orders
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Order
// @Router /api/v1/orders [get]
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	h.list(w, r, models.OrderFilter{
		AccountID: middleware.AccountIDFromContext(r.Context()),
		Limit:     limit,
		Offset:    offset,
	})
}

// @Tags Orders
// @Summary List all orders
// @Security BearerAuth
// @Produce json
// @Param status query string false "Order status"
// @Param account_id query string false "Account ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Order
// @Router /api/v1/admin/orders [get]
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	q := r.URL.Query()
	h.list(w, r, models.OrderFilter{
		AccountID: q.Get("account_id"),
		Status:    models.OrderStatus(q.Get("status")),
		Limit:     limit,
		Offset:    offset,
	})
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, filter models.OrderFilter) {
	orders, err := h.shop.ListOrders(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// @Tags Orders
// @Summary Get one of my orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.shop.GetOrder(r.Context(), middleware.AccountIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// @Tags Orders
// @Summary Change order status
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body models.UpdateOrderStatusRequest true "Status"
// @Success 200 {object} models.Order
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateOrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.shop.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
