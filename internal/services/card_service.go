package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"fitness/internal/interfaces"
	"fitness/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CardService keeps payment card metadata. Card numbers are reduced to the last four
// digits and a per-account fingerprint before anything is stored.
type CardService struct {
	cards interfaces.PaymentCardRepository
	v     *validator.Validate
	now   func() time.Time
}

func NewCardService(cards interfaces.PaymentCardRepository) *CardService {
	return &CardService{cards: cards, v: NewValidator(), now: time.Now}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cardFingerprint(accountID, number string) string {
	sum := sha256.Sum256([]byte(accountID + ":" + number))
	return hex.EncodeToString(sum[:])
}

// parseExpiry accepts MM/YY and returns the first instant after the card's last valid month.
func parseExpiry(v string) (time.Time, bool) {
	if len(v) != 5 || v[2] != '/' {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(v[:2])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(v[3:])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC), true
}

func (s *CardService) Add(ctx context.Context, accountID string, req models.AddPaymentCardRequest) (*models.PaymentCard, error) {
	req.CardNumber = digitsOnly(req.CardNumber)
	if err := s.v.Struct(req); err != nil {
		return nil, ValidationErrorFrom(err)
	}
	end, ok := parseExpiry(req.ExpiringDate)
	if !ok {
		return nil, &ValidationError{Field: "expiring_date", Message: "expected MM/YY"}
	}
	if !s.now().Before(end) {
		return nil, &ValidationError{Field: "expiring_date", Message: "card has expired"}
	}

	card := &models.PaymentCard{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		AccountName:  strings.TrimSpace(req.AccountName),
		LastFour:     req.CardNumber[len(req.CardNumber)-4:],
		Fingerprint:  cardFingerprint(accountID, req.CardNumber),
		ExpiringDate: req.ExpiringDate,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		var dup *interfaces.DuplicateError
		if errors.As(err, &dup) {
			return nil, &ConflictError{Field: "card_number", Message: "card already saved"}
		}
		return nil, err
	}
	return card, nil
}

func (s *CardService) List(ctx context.Context, accountID string) ([]models.PaymentCard, error) {
	return s.cards.ListByAccount(ctx, accountID)
}

func (s *CardService) Delete(ctx context.Context, accountID string, id string) error {
	if err := s.cards.Delete(ctx, accountID, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return &NotFoundError{Resource: "payment card", Message: "payment card not found"}
		}
		return err
	}
	return nil
}
