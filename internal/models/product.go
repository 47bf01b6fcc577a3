package models

import (
	"time"
)

type ProductType string

const (
	ProductTypeProduct ProductType = "PRODUCT"
	ProductTypeService ProductType = "SERVICE"
)

type Product struct {
	ID                    string      `json:"id"`
	Category              string      `json:"category"`
	ProductName           string      `json:"product_name"`
	Price                 float64     `json:"price"`
	Description           string      `json:"description"`
	Stock                 int64       `json:"stock"`
	ProductType           ProductType `json:"product_type"`
	Image                 string      `json:"image,omitempty"`
	DurationInHoursPerDay *int        `json:"duration_in_hours_per_day,omitempty"`
	DurationInDays        *int        `json:"duration_in_days,omitempty"`
	Quantity              *int        `json:"quantity,omitempty"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

type CreateProductRequest struct {
	Category              string      `json:"category" validate:"required,max=100"`
	ProductName           string      `json:"product_name" validate:"required,min=2,max=255"`
	Price                 float64     `json:"price" validate:"required,gt=0"`
	Description           string      `json:"description" validate:"max=10000"`
	Stock                 int64       `json:"stock" validate:"gte=0"`
	ProductType           ProductType `json:"product_type" validate:"required,oneof=PRODUCT SERVICE"`
	Image                 string      `json:"image,omitempty" validate:"omitempty,url"`
	DurationInHoursPerDay *int        `json:"duration_in_hours_per_day,omitempty" validate:"omitempty,gt=0,lte=24"`
	DurationInDays        *int        `json:"duration_in_days,omitempty" validate:"omitempty,gt=0"`
	Quantity              *int        `json:"quantity,omitempty" validate:"omitempty,gte=0"`
}

type UpdateProductRequest struct {
	Category              *string      `json:"category,omitempty" validate:"omitempty,max=100"`
	ProductName           *string      `json:"product_name,omitempty" validate:"omitempty,min=2,max=255"`
	Price                 *float64     `json:"price,omitempty" validate:"omitempty,gt=0"`
	Description           *string      `json:"description,omitempty" validate:"omitempty,max=10000"`
	Stock                 *int64       `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ProductType           *ProductType `json:"product_type,omitempty" validate:"omitempty,oneof=PRODUCT SERVICE"`
	Image                 *string      `json:"image,omitempty" validate:"omitempty,url"`
	DurationInHoursPerDay *int         `json:"duration_in_hours_per_day,omitempty" validate:"omitempty,gt=0,lte=24"`
	DurationInDays        *int         `json:"duration_in_days,omitempty" validate:"omitempty,gt=0"`
	Quantity              *int         `json:"quantity,omitempty" validate:"omitempty,gte=0"`
}

func (r *UpdateProductRequest) Empty() bool {
	return r.Category == nil && r.ProductName == nil && r.Price == nil && r.Description == nil &&
		r.Stock == nil && r.ProductType == nil && r.Image == nil && r.DurationInHoursPerDay == nil &&
		r.DurationInDays == nil && r.Quantity == nil
}

// Apply copies the non-nil fields of the request onto p.
func (r *UpdateProductRequest) Apply(p *Product) {
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.ProductName != nil {
		p.ProductName = *r.ProductName
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if r.ProductType != nil {
		p.ProductType = *r.ProductType
	}
	if r.Image != nil {
		p.Image = *r.Image
	}
	if r.DurationInHoursPerDay != nil {
		p.DurationInHoursPerDay = r.DurationInHoursPerDay
	}
	if r.DurationInDays != nil {
		p.DurationInDays = r.DurationInDays
	}
	if r.Quantity != nil {
		p.Quantity = r.Quantity
	}
}

type ProductFilter struct {
	Category    string
	ProductType string
	Limit       int
	Offset      int
}
