package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/lemonade-shop/internal/domain/models"
	"github.com/linemk/lemonade-shop/internal/service"
)

// ProductRequest - тело POST и PUT для товара
type ProductRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"required,min=3,max=255"`
	ImageURL    string `json:"image_url" validate:"required,url,min=3,max=500"`
	IsActive    *bool  `json:"is_active" validate:"required"`
}

func (req ProductRequest) toModel() *models.Product {
	return &models.Product{
		Name:        req.Name,
		Description: &req.Description,
		ImageURL:    &req.ImageURL,
		IsActive:    *req.IsActive,
	}
}

// ProductPatchRequest - тело PATCH, все поля необязательны
type ProductPatchRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description" validate:"omitempty,min=3,max=255"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url,max=500"`
	IsActive    *bool   `json:"is_active"`
}

func ListProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListProductsHandler"))

		products, err := productService.ListProducts(r.Context())
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, products)
	}
}

// GetProductHandler отдаёт товар вместе с вариантами
func GetProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetProductHandler"))

		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		product, err := productService.GetProduct(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, product)
	}
}

func CreateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.CreateProductHandler"))

		var req ProductRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		product, err := productService.CreateProduct(r.Context(), req.toModel())
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, product)
	}
}

// UpdateProductHandler - частичное обновление, отвечает 204
func UpdateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.UpdateProductHandler"))

		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		var req ProductPatchRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		patch := models.ProductPatch{
			Name:        req.Name,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			IsActive:    req.IsActive,
		}
		if err := productService.UpdateProduct(r.Context(), id, patch); err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// UpsertProductHandler создаёт или полностью заменяет товар с id из пути
func UpsertProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.UpsertProductHandler"))

		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		var req ProductRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		product, err := productService.UpsertProduct(r.Context(), id, req.toModel())
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, product)
	}
}

func DeleteProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.DeleteProductHandler"))

		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		if err := productService.DeleteProduct(r.Context(), id); err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
