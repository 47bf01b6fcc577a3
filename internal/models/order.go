package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "STANDARD"
	ShippingExpress  ShippingMethod = "EXPRESS"
	ShippingPickup   ShippingMethod = "PICKUP"
)

type Address struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country" validate:"required"`
}

type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

type Order struct {
	ID              string         `json:"id"`
	AccountID       string         `json:"account_id"`
	Items           []OrderItem    `json:"shopping_items"`
	TotalPrice      float64        `json:"total_price"`
	ShippingAddress Address        `json:"shipping_address"`
	OrderStatus     OrderStatus    `json:"order_status"`
	ShippingMethod  ShippingMethod `json:"shipping_method"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type CheckoutRequest struct {
	ShippingAddress Address        `json:"shipping_address" validate:"required"`
	ShippingMethod  ShippingMethod `json:"shipping_method" validate:"required,oneof=STANDARD EXPRESS PICKUP"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
}

type OrderFilter struct {
	AccountID string
	Status    OrderStatus
	Limit     int
	Offset    int
}
