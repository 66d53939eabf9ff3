package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant представляет вариант исполнения (например, размер)
type Variant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Products []VariantProductOption `json:"products,omitempty" db:"-"`
}

// VariantProductOption - товар, в котором используется вариант
type VariantProductOption struct {
	ProductVariantID uuid.UUID       `json:"product_variant_id" db:"product_variant_id"`
	ProductID        uuid.UUID       `json:"product_id" db:"product_id"`
	Name             string          `json:"name" db:"name"`
	Price            decimal.Decimal `json:"price" db:"price"`
	IsActive         bool            `json:"is_active" db:"is_active"`
}

type VariantPatch struct {
	Name     *string
	IsActive *bool
}

func (p VariantPatch) Apply(dst *Variant) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
}
