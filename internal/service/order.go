package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/linemk/lemonade-shop/internal/domain/models"
	"github.com/linemk/lemonade-shop/internal/storage"
)

const defaultConfirmationAttempts = 5

// ConfirmationGenerator выдаёт кандидатов в номера подтверждения
type ConfirmationGenerator interface {
	Next() int
}

// OrderCache хранит уже оформленные заказы по номеру подтверждения.
// Заказ после создания не меняется, поэтому его можно кешировать целиком.
type OrderCache interface {
	Get(ctx context.Context, confirmationNumber int) (*models.Order, bool, error)
	Set(ctx context.Context, order *models.Order) error
}

// OrderOptions - настройки оформления заказа
type OrderOptions struct {
	// ConfirmationAttempts - сколько раз пробовать новый номер при коллизии
	ConfirmationAttempts int
	// RevalidateInTx - перечитать каталог с блокировкой внутри транзакции
	RevalidateInTx bool
	// Cache - необязательный кеш заказов, nil отключает его
	Cache OrderCache
}

// CreateOrderRequest - корзина покупателя
type CreateOrderRequest struct {
	CustomerID uuid.UUID
	Items      []CartItem
}

type OrderItemResponse struct {
	ID               uuid.UUID `json:"id"`
	ProductVariantID uuid.UUID `json:"product_variant_id"`
	Quantity         int       `json:"quantity"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OrderResponse - заказ вместе с контактами покупателя
type OrderResponse struct {
	ID                 uuid.UUID           `json:"id"`
	UserID             uuid.UUID           `json:"user_id"`
	CustomerName       string              `json:"customer_name"`
	CustomerEmail      string              `json:"customer_email"`
	CustomerPhone      string              `json:"customer_phone"`
	Items              []OrderItemResponse `json:"items"`
	TotalPrice         string              `json:"total_price"`
	Status             models.OrderStatus  `json:"status"`
	ConfirmationNumber int                 `json:"confirmation_number"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error)
	GetOrderByConfirmationNumber(ctx context.Context, confirmationNumber int) (*OrderResponse, error)
}

type orderService struct {
	log         *slog.Logger
	db          *sql.DB
	catalogRepo storage.CatalogStorage
	orderRepo   storage.OrderStorage
	userRepo    storage.UserStorage
	gen         ConfirmationGenerator
	opts        OrderOptions
}

func NewOrderService(
	log *slog.Logger,
	db *sql.DB,
	catalogRepo storage.CatalogStorage,
	orderRepo storage.OrderStorage,
	userRepo storage.UserStorage,
	gen ConfirmationGenerator,
	opts OrderOptions,
) OrderService {
	if opts.ConfirmationAttempts < 1 {
		opts.ConfirmationAttempts = defaultConfirmationAttempts
	}
	return &orderService{
		log:         log,
		db:          db,
		catalogRepo: catalogRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		gen:         gen,
		opts:        opts,
	}
}

// CreateOrder проверяет корзину по каталогу и сохраняет заказ с позициями в одной транзакции.
// Покупатель читается до открытия транзакции, так что после коммита ошибок уже нет.
func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("customerID", req.CustomerID.String()),
		slog.Int("items", len(req.Items)),
	)
	logger.Info("creating order")

	if err := CheckCartInput(req.Items); err != nil {
		logger.Warn("invalid cart input", slog.Any("error", err))
		return nil, err
	}

	variants, err := s.catalogRepo.LookupVariants(ctx, DistinctVariantIDs(req.Items))
	if err != nil {
		logger.Error("failed to lookup product variants", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to lookup product variants: %w", op, err)
	}

	cart, err := ValidateCart(req.CustomerID, req.Items, variants)
	if err != nil {
		logger.Warn("cart validation failed", slog.Any("error", err))
		return nil, err
	}

	user, err := s.getCustomer(ctx, req.CustomerID)
	if err != nil {
		logger.Warn("failed to get customer", slog.Any("error", err))
		return nil, err
	}

	var order *models.Order
	for attempt := 1; attempt <= s.opts.ConfirmationAttempts; attempt++ {
		order, err = s.placeOrder(ctx, logger, req.Items, cart)
		if err == nil {
			break
		}
		if !errors.Is(err, storage.ErrConfirmationNumberTaken) {
			return nil, err
		}
		logger.Warn("confirmation number collision, retrying", slog.Int("attempt", attempt))
	}
	if err != nil {
		logger.Error("confirmation attempts exhausted", slog.Any("error", err))
		return nil, newError(ErrConflict, "Could not assign a confirmation number to the order. Please try again.", err)
	}

	if s.opts.Cache != nil {
		if err := s.opts.Cache.Set(ctx, order); err != nil {
			logger.Warn("failed to cache order", slog.Any("error", err))
		}
	}

	logger.Info("order created", slog.Int("confirmationNumber", order.ConfirmationNumber))
	return buildOrderResponse(order, user), nil
}

// placeOrder - одна попытка записать заказ. Любая ошибка откатывает транзакцию.
func (s *orderService) placeOrder(ctx context.Context, logger *slog.Logger, items []CartItem, cart *ValidatedCart) (*models.Order, error) {
	const op = "service.OrderService.placeOrder"

	// не открываем транзакцию, если запрос уже отменён
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	if s.opts.RevalidateInTx {
		variants, err := s.catalogRepo.LookupVariantsTx(ctx, tx, DistinctVariantIDs(items))
		if err != nil {
			rollback(tx, logger)
			logger.Error("failed to re-read product variants", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to re-read product variants: %w", op, err)
		}
		cart, err = ValidateCart(cart.CustomerID, items, variants)
		if err != nil {
			rollback(tx, logger)
			logger.Warn("cart changed before commit", slog.Any("error", err))
			return nil, err
		}
	}

	order := &models.Order{
		UserID:             cart.CustomerID,
		TotalPrice:         cart.TotalPrice,
		Status:             models.OrderStatusPending,
		ConfirmationNumber: s.gen.Next(),
	}
	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		rollback(tx, logger)
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		orderItems = append(orderItems, models.OrderItem{
			OrderID:          order.ID,
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
		})
	}
	if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		rollback(tx, logger)
		logger.Error("failed to create order items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order items: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	order.Items = orderItems
	return order, nil
}

// GetOrderByConfirmationNumber читает заказ с позициями и дополняет его контактами покупателя
func (s *orderService) GetOrderByConfirmationNumber(ctx context.Context, confirmationNumber int) (*OrderResponse, error) {
	const op = "service.OrderService.GetOrderByConfirmationNumber"
	logger := s.log.With(slog.String("op", op), slog.Int("confirmationNumber", confirmationNumber))

	order, err := s.getOrder(ctx, logger, confirmationNumber)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			logger.Info("order not found")
			return nil, newError(ErrNotFound,
				fmt.Sprintf("Order with confirmation number %d was not found", confirmationNumber), err)
		}
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}

	user, err := s.getCustomer(ctx, order.UserID)
	if err != nil {
		logger.Warn("failed to get customer", slog.Any("error", err))
		return nil, err
	}

	return buildOrderResponse(order, user), nil
}

func (s *orderService) getOrder(ctx context.Context, logger *slog.Logger, confirmationNumber int) (*models.Order, error) {
	if s.opts.Cache != nil {
		order, ok, err := s.opts.Cache.Get(ctx, confirmationNumber)
		if err != nil {
			logger.Warn("order cache read failed", slog.Any("error", err))
		} else if ok {
			logger.Debug("order cache hit")
			return order, nil
		}
	}

	order, err := s.orderRepo.GetOrderByConfirmationNumber(ctx, confirmationNumber)
	if err != nil {
		return nil, err
	}

	if s.opts.Cache != nil {
		if err := s.opts.Cache.Set(ctx, order); err != nil {
			logger.Warn("failed to cache order", slog.Any("error", err))
		}
	}
	return order, nil
}

func (s *orderService) getCustomer(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, newError(ErrNotFound, fmt.Sprintf("User with id %s was not found", id), err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// rollback откатывает транзакцию. Уже завершённую транзакцию (например, по отмене контекста) не считаем ошибкой
func rollback(tx *sql.Tx, logger *slog.Logger) {
	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		logger.Error("transaction rollback failed", slog.Any("error", rbErr))
	}
}

func buildOrderResponse(order *models.Order, user *models.User) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:               item.ID,
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
			CreatedAt:        item.CreatedAt,
			UpdatedAt:        item.UpdatedAt,
		})
	}
	return &OrderResponse{
		ID:                 order.ID,
		UserID:             order.UserID,
		CustomerName:       user.Name,
		CustomerEmail:      user.Email,
		CustomerPhone:      user.PhoneNumber,
		Items:              items,
		TotalPrice:         order.TotalPrice.StringFixed(2),
		Status:             order.Status,
		ConfirmationNumber: order.ConfirmationNumber,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}
