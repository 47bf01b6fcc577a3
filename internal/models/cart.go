package models

import "time"

type ShoppingItem struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"-"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   float64   `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
}

func (i ShoppingItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,lte=1000"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0,lte=1000"`
}

type CartResponse struct {
	Items      []ShoppingItem `json:"items"`
	TotalPrice float64        `json:"total_price"`
}

func NewCartResponse(items []ShoppingItem) CartResponse {
	if items == nil {
		items = []ShoppingItem{}
	}
	var total float64
	for _, it := range items {
		total += it.Subtotal()
	}
	return CartResponse{Items: items, TotalPrice: total}
}
