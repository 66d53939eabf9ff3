// Package cache хранит оформленные заказы в Redis по номеру подтверждения.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linemk/lemonade-shop/internal/domain/models"
)

const keyPrefix = "shop:order:"

// Client - подмножество команд Redis, которое нужно кешу
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var _ Client = (*redis.Client)(nil)

type OrderCache struct {
	client Client
	ttl    time.Duration
}

// NewOrderCache создаёт кеш заказов. ttl == 0 означает хранение без срока.
func NewOrderCache(client Client, ttl time.Duration) *OrderCache {
	return &OrderCache{client: client, ttl: ttl}
}

func key(confirmationNumber int) string {
	return fmt.Sprintf("%s%d", keyPrefix, confirmationNumber)
}

// Get возвращает заказ и признак попадания. Промах кеша ошибкой не считается.
func (c *OrderCache) Get(ctx context.Context, confirmationNumber int) (*models.Order, bool, error) {
	data, err := c.client.Get(ctx, key(confirmationNumber)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &order, true, nil
}

func (c *OrderCache) Set(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key(order.ConfirmationNumber), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
