package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/linemk/lemonade-shop/internal/domain/models"
)

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder вставляет заголовок заказа в рамках транзакции и заполняет ID и временные метки.
	CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error
	// CreateOrderItems вставляет позиции заказа в рамках той же транзакции.
	CreateOrderItems(ctx context.Context, tx *sql.Tx, items []models.OrderItem) error
	// GetOrderByConfirmationNumber возвращает заказ вместе с позициями одним запросом.
	GetOrderByConfirmationNumber(ctx context.Context, confirmationNumber int) (*models.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	query := `INSERT INTO orders (user_id, total_price, status, confirmation_number)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	row := tx.QueryRowContext(ctx, query, order.UserID, order.TotalPrice, string(order.Status), order.ConfirmationNumber)
	if err := row.Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create order: %w", mapWriteError(err))
	}
	return nil
}

func (r *orderRepository) CreateOrderItems(ctx context.Context, tx *sql.Tx, items []models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, product_variant_id, quantity)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at, updated_at`
	for i := range items {
		item := &items[i]
		row := tx.QueryRowContext(ctx, query, item.OrderID, item.ProductVariantID, item.Quantity)
		if err := row.Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create order item %d: %w", i, mapWriteError(err))
		}
	}
	return nil
}

func (r *orderRepository) GetOrderByConfirmationNumber(ctx context.Context, confirmationNumber int) (*models.Order, error) {
	query := `
		SELECT o.id, o.user_id, o.total_price, o.status, o.confirmation_number, o.created_at, o.updated_at,
		       oi.id, oi.product_variant_id, oi.quantity, oi.created_at, oi.updated_at
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE o.confirmation_number = $1
		ORDER BY oi.created_at, oi.id`
	rows, err := r.db.QueryContext(ctx, query, confirmationNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	defer rows.Close()

	var order *models.Order
	for rows.Next() {
		var (
			o         models.Order
			status    string
			itemID    uuid.NullUUID
			variantID uuid.NullUUID
			quantity  sql.NullInt64
			createdAt sql.NullTime
			updatedAt sql.NullTime
		)
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.TotalPrice, &status, &o.ConfirmationNumber, &o.CreatedAt, &o.UpdatedAt,
			&itemID, &variantID, &quantity, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if order == nil {
			o.Status = models.OrderStatus(status)
			o.Items = []models.OrderItem{}
			order = &o
		}
		// заказ без позиций даёт одну строку с NULL в колонках order_items
		if !itemID.Valid {
			continue
		}
		order.Items = append(order.Items, models.OrderItem{
			ID:               itemID.UUID,
			OrderID:          order.ID,
			ProductVariantID: variantID.UUID,
			Quantity:         int(quantity.Int64),
			CreatedAt:        createdAt.Time,
			UpdatedAt:        updatedAt.Time,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
