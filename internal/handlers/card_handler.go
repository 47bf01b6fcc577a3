package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"fitness/internal/middleware"
	"fitness/internal/models"
	"github.com/go-chi/chi/v5"
)

type CardWallet interface {
	Add(ctx context.Context, accountID string, req models.AddPaymentCardRequest) (*models.PaymentCard, error)
	List(ctx context.Context, accountID string) ([]models.PaymentCard, error)
	Delete(ctx context.Context, accountID string, id string) error
}

type CardHandler struct {
	cards  CardWallet
	logger *slog.Logger
}

func NewCardHandler(cards CardWallet, logger *slog.Logger) *CardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{cards: cards, logger: logger}
}

// @Tags Cards
// @Summary Save a payment card
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddPaymentCardRequest true "Card"
// @Success 201 {object} models.PaymentCard
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/cards [post]
func (h *CardHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddPaymentCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	card, err := h.cards.Add(r.Context(), middleware.AccountIDFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// @Tags Cards
// @Summary List saved cards
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.PaymentCard
// @Router /api/v1/cards [get]
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.List(r.Context(), middleware.AccountIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if cards == nil {
		cards = []models.PaymentCard{}
	}
	writeJSON(w, http.StatusOK, cards)
}

// @Tags Cards
// @Summary Remove a saved card
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id} [delete]
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.cards.Delete(r.Context(), middleware.AccountIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
