package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/linemk/lemonade-shop/internal/service"
)

// CreateOrderRequest - тело POST /customer/v1/orders.
// Пустой список позиций пропускается: его отклоняет сервис со своим сообщением.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" validate:"required,uuid"`
	Items      []OrderItemRequest `json:"items" validate:"dive"`
}

type OrderItemRequest struct {
	ProductVariantID string `json:"product_variant_id" validate:"required,uuid"`
	Quantity         int    `json:"quantity" validate:"gte=1,lte=2147483647"`
}

// CreateOrderHandler обрабатывает запрос POST /customer/v1/orders
func CreateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		var req CreateOrderRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		// теги validate уже проверили формат uuid
		items := make([]service.CartItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, service.CartItem{
				ProductVariantID: uuid.MustParse(item.ProductVariantID),
				Quantity:         item.Quantity,
			})
		}

		resp, err := orderService.CreateOrder(r.Context(), service.CreateOrderRequest{
			CustomerID: uuid.MustParse(req.CustomerID),
			Items:      items,
		})
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusCreated, resp)
	}
}

// GetOrderHandler обрабатывает запрос GET /customer/v1/orders/{confirmation_number}
func GetOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		confirmationNumber, err := strconv.Atoi(chi.URLParam(r, "confirmation_number"))
		if err != nil {
			logger.Warn("invalid confirmation number", slog.Any("error", err))
			writeError(w, r, logger, http.StatusBadRequest, "Validation failed (numeric string is expected)")
			return
		}

		resp, err := orderService.GetOrderByConfirmationNumber(r.Context(), confirmationNumber)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, resp)
	}
}
