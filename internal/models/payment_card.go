package models

import "time"

// PaymentCard holds card metadata only. The full number and the CVV are never persisted.
type PaymentCard struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"-"`
	AccountName  string    `json:"account_name"`
	LastFour     string    `json:"last_four"`
	Fingerprint  string    `json:"-"`
	ExpiringDate string    `json:"expiring_date"`
	CreatedAt    time.Time `json:"created_at"`
}

type AddPaymentCardRequest struct {
	AccountName  string `json:"account_name" validate:"required,max=255"`
	CardNumber   string `json:"card_number" validate:"required,credit_card"`
	ExpiringDate string `json:"expiring_date" validate:"required,len=5"`
	CVVNumber    string `json:"cvv_number" validate:"required,numeric,min=3,max=4"`
}
