package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/lemonade-shop/internal/domain/models"
	"github.com/linemk/lemonade-shop/internal/service"
)

type VariantRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	IsActive *bool  `json:"is_active" validate:"required"`
}

type VariantPatchRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	IsActive *bool   `json:"is_active"`
}

func ListVariantsHandler(log *slog.Logger, variantService service.VariantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListVariantsHandler"))

		variants, err := variantService.ListVariants(r.Context())
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, variants)
	}
}

// GetVariantHandler отдаёт вариант вместе с товарами, где он используется
func GetVariantHandler(log *slog.Logger, variantService service.VariantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetVariantHandler"))

		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		variant, err := variantService.GetVariant(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, variant)
	}
}

func CreateVariantHandler(log *slog.Logger, variantService service.VariantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.CreateVariantHandler"))

		var req VariantRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		variant, err := variantService.CreateVariant(r.Context(), &models.Variant{Name: req.Name, IsActive: *req.IsActive})
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, variant)
	}
}

func UpdateVariantHandler(log *slog.Logger, variantService service.VariantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.UpdateVariantHandler"))

		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		var req VariantPatchRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		if err := variantService.UpdateVariant(r.Context(), id, models.VariantPatch{Name: req.Name, IsActive: req.IsActive}); err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func UpsertVariantHandler(log *slog.Logger, variantService service.VariantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.UpsertVariantHandler"))

		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		var req VariantRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		variant, err := variantService.UpsertVariant(r.Context(), id, &models.Variant{Name: req.Name, IsActive: *req.IsActive})
		if err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, variant)
	}
}

func DeleteVariantHandler(log *slog.Logger, variantService service.VariantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.DeleteVariantHandler"))

		id, err := uuidParam(r, "id")
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err.Error())
			return
		}

		if err := variantService.DeleteVariant(r.Context(), id); err != nil {
			writeServiceError(w, r, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
