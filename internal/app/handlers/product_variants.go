package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/linemk/lemonade-shop/internal/domain/models"
	"github.com/linemk/lemonade-shop/internal/service"
)

// ProductVariantRequest - один элемент массива в теле POST.
// is_active по умолчанию true.
type ProductVariantRequest struct {
	VariantID string           `json:"variant_id" validate:"required,uuid"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
	IsActive  *bool            `json:"is_active"`
}

type ProductVariantPatchRequest struct {
	VariantID *string          `json:"variant_id" validate:"omitempty,uuid"`
	Price     *decimal.Decimal `json:"price"`
	IsActive  *bool            `json:"is_active"`
}

// AddProductVariantsHandler обрабатывает POST /admin/v1/products/{id}/variants.
// Тело - массив связок, все сохраняются одной транзакцией.
func AddProductVariantsHandler(log *slog.Logger, pvService service.ProductVariantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddProductVariantsHandler"
		logger := log.With(slog.String("op", op))

		productID, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		var req []ProductVariantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			writeError(w, r, logger, http.StatusBadRequest, "invalid request body")
			return
		}

		items := make([]service.NewProductVariant, 0, len(req))
		for _, item := range req {
			if err := validate.Struct(item); err != nil {
				verr := validationError(err)
				logger.Warn("invalid request: validation error", slog.Any("error", verr))
				writeError(w, r, logger, http.StatusBadRequest, verr.Error())
				return
			}
			active := true
			if item.IsActive != nil {
				active = *item.IsActive
			}
			items = append(items, service.NewProductVariant{
				VariantID: uuid.MustParse(item.VariantID),
				Price:     *item.Price,
				IsActive:  active,
			})
		}

		created, err := pvService.AddVariants(r.Context(), productID, items)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, created)
	}
}

func UpdateProductVariantHandler(log *slog.Logger, pvService service.ProductVariantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.UpdateProductVariantHandler"))

		productID, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}
		id, err := uuidParam(r, "productVariantId")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		var req ProductVariantPatchRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		patch := models.ProductVariantPatch{Price: req.Price, IsActive: req.IsActive}
		if req.VariantID != nil {
			variantID := uuid.MustParse(*req.VariantID)
			patch.VariantID = &variantID
		}
		if err := pvService.UpdateProductVariant(r.Context(), productID, id, patch); err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteProductVariantHandler(log *slog.Logger, pvService service.ProductVariantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.DeleteProductVariantHandler"))

		productID, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}
		id, err := uuidParam(r, "productVariantId")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		if err := pvService.DeleteProductVariant(r.Context(), productID, id); err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
