package service_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/linemk/lemonade-shop/internal/domain/models"
	"github.com/linemk/lemonade-shop/internal/service"
	"github.com/linemk/lemonade-shop/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCatalogRepo struct {
	rows      []*models.ProductVariant // порядок, в котором "база" отдаёт записи
	txRows    []*models.ProductVariant // если задано, используется для чтения в транзакции
	calls     int
	lastIDs   []uuid.UUID
	lookupErr error
}

var _ storage.CatalogStorage = (*fakeCatalogRepo)(nil)

func (f *fakeCatalogRepo) LookupVariants(ctx context.Context, ids []uuid.UUID) ([]*models.ProductVariant, error) {
	f.calls++
	f.lastIDs = ids
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return filterRows(f.rows, ids), nil
}

func (f *fakeCatalogRepo) LookupVariantsTx(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) ([]*models.ProductVariant, error) {
	if f.txRows != nil {
		return filterRows(f.txRows, ids), nil
	}
	return filterRows(f.rows, ids), nil
}

func filterRows(rows []*models.ProductVariant, ids []uuid.UUID) []*models.ProductVariant {
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := []*models.ProductVariant{}
	for _, pv := range rows {
		if wanted[pv.ID] {
			out = append(out, pv)
		}
	}
	return out
}

type fakeOrderRepo struct {
	orders      map[int]*models.Order // ключ - номер подтверждения
	createCalls int
	itemsErr    error
	getCalls    int
	items       []models.OrderItem // последние сохранённые позиции
}

var _ storage.OrderStorage = (*fakeOrderRepo)(nil)

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int]*models.Order)}
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	f.createCalls++
	if _, taken := f.orders[order.ConfirmationNumber]; taken {
		return storage.ErrConfirmationNumberTaken
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	f.orders[order.ConfirmationNumber] = order
	return nil
}

func (f *fakeOrderRepo) CreateOrderItems(ctx context.Context, tx *sql.Tx, items []models.OrderItem) error {
	if f.itemsErr != nil {
		return f.itemsErr
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].CreatedAt = time.Now()
		items[i].UpdatedAt = items[i].CreatedAt
	}
	f.items = append([]models.OrderItem(nil), items...)
	return nil
}

func (f *fakeOrderRepo) GetOrderByConfirmationNumber(ctx context.Context, confirmationNumber int) (*models.Order, error) {
	f.getCalls++
	order, ok := f.orders[confirmationNumber]
	if !ok {
		return nil, storage.ErrOrderNotFound
	}
	return order, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

// seqGenerator отдаёт номера по кругу из заранее заданного списка
type seqGenerator struct {
	nums []int
	i    int
}

var _ service.ConfirmationGenerator = (*seqGenerator)(nil)

func (g *seqGenerator) Next() int {
	n := g.nums[g.i%len(g.nums)]
	g.i++
	return n
}

type fakeCache struct {
	orders map[int]*models.Order
	sets   int
}

var _ service.OrderCache = (*fakeCache)(nil)

func (c *fakeCache) Get(ctx context.Context, confirmationNumber int) (*models.Order, bool, error) {
	order, ok := c.orders[confirmationNumber]
	return order, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, order *models.Order) error {
	c.sets++
	c.orders[order.ConfirmationNumber] = order
	return nil
}

func variant(product, name string, price string, active bool) *models.ProductVariant {
	return &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		VariantID: uuid.New(),
		Price:     decimal.RequireFromString(price),
		IsActive:  active,
		Product:   models.CatalogParent{Name: product, IsActive: true},
		Variant:   models.CatalogParent{Name: name, IsActive: true},
	}
}
