package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus статус заказа. Ядро создаёт заказы только в статусе pending
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
)

// Order представляет заказ покупателя вместе с его позициями
type Order struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	Status             OrderStatus     `json:"status"`
	ConfirmationNumber int             `json:"confirmation_number"` // уникален, показывается покупателю
	Items              []OrderItem     `json:"items"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// OrderItem представляет одну позицию заказа
type OrderItem struct {
	ID               uuid.UUID `json:"id"`
	OrderID          uuid.UUID `json:"order_id"`
	ProductVariantID uuid.UUID `json:"product_variant_id"`
	Quantity         int       `json:"quantity"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
