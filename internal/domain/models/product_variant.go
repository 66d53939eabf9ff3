package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant - продаваемая единица: связка товар × вариант со своей ценой
type ProductVariant struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	VariantID uuid.UUID       `json:"variant_id" db:"variant_id"`
	Price     decimal.Decimal `json:"price" db:"price"`
	IsActive  bool            `json:"is_active" db:"is_active"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`

	// Product и Variant заполняются при чтении каталога для заказа
	Product CatalogParent `json:"product" db:"-"`
	Variant CatalogParent `json:"variant" db:"-"`
}

// CatalogParent - имя и активность родительского товара или варианта
type CatalogParent struct {
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Purchasable сообщает, можно ли заказать связку:
// активны она сама, её товар и её вариант
func (pv *ProductVariant) Purchasable() bool {
	return pv.IsActive && pv.Product.IsActive && pv.Variant.IsActive
}

type ProductVariantPatch struct {
	VariantID *uuid.UUID
	Price     *decimal.Decimal
	IsActive  *bool
}

func (p ProductVariantPatch) Apply(dst *ProductVariant) {
	if p.VariantID != nil {
		dst.VariantID = *p.VariantID
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
}
