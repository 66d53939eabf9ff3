package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product представляет товар каталога
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Variants заполняется только при чтении товара по id
	Variants []ProductVariantOption `json:"variants,omitempty" db:"-"`
}

// ProductVariantOption - вариант товара вместе с ценой связки
type ProductVariantOption struct {
	ProductVariantID uuid.UUID       `json:"product_variant_id" db:"product_variant_id"`
	VariantID        uuid.UUID       `json:"variant_id" db:"variant_id"`
	Name             string          `json:"name" db:"name"`
	Price            decimal.Decimal `json:"price" db:"price"`
	IsActive         bool            `json:"is_active" db:"is_active"`
}

// ProductPatch описывает частичное обновление товара.
// Идентификатор и временные метки через патч не меняются
type ProductPatch struct {
	Name        *string
	Description *string
	ImageURL    *string
	IsActive    *bool
}

// Apply переносит заданные поля патча на товар
func (p ProductPatch) Apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Description != nil {
		dst.Description = p.Description
	}
	if p.ImageURL != nil {
		dst.ImageURL = p.ImageURL
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
}
