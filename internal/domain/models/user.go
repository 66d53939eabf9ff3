package models

import (
	"time"

	"github.com/google/uuid"
)

// User представляет покупателя. Ядро заказов только читает его контакты
type User struct {
	ID          uuid.UUID
	Name        string
	Email       string
	PhoneNumber string // может быть пустым
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
