package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/linemk/lemonade-shop/internal/domain/models"
	"github.com/linemk/lemonade-shop/internal/storage"
)

// ProductService - администрирование товаров
type ProductService interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// UpdateProduct применяет частичное обновление к существующему товару
	UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch) error
	// UpsertProduct создаёт товар с заданным id или заменяет его целиком
	UpsertProduct(ctx context.Context, id uuid.UUID, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewProductService(log *slog.Logger, productRepo storage.ProductStorage) ProductService {
	return &productService{log: log, productRepo: productRepo}
}

func (s *productService) ListProducts(ctx context.Context) ([]models.Product, error) {
	const op = "service.ProductService.ListProducts"
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	const op = "service.ProductService.GetProduct"
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return nil, s.fail(op, id, err)
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	const op = "service.ProductService.CreateProduct"
	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, s.fail(op, product.ID, err)
	}
	s.log.Info("product created", slog.String("op", op), slog.String("id", product.ID.String()))
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch) error {
	const op = "service.ProductService.UpdateProduct"
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return s.fail(op, id, err)
	}
	patch.Apply(product)
	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return s.fail(op, id, err)
	}
	return nil
}

func (s *productService) UpsertProduct(ctx context.Context, id uuid.UUID, product *models.Product) (*models.Product, error) {
	const op = "service.ProductService.UpsertProduct"
	product.ID = id
	if err := s.productRepo.UpsertProduct(ctx, product); err != nil {
		return nil, s.fail(op, id, err)
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	const op = "service.ProductService.DeleteProduct"
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return s.fail(op, id, err)
	}
	s.log.Info("product deleted", slog.String("op", op), slog.String("id", id.String()))
	return nil
}

func (s *productService) fail(op string, id uuid.UUID, err error) error {
	return mapCatalogError(s.log.With(slog.String("op", op), slog.String("id", id.String())), op, "Product", id, err)
}

// VariantService - администрирование вариантов
type VariantService interface {
	ListVariants(ctx context.Context) ([]models.Variant, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error)
	CreateVariant(ctx context.Context, variant *models.Variant) (*models.Variant, error)
	UpdateVariant(ctx context.Context, id uuid.UUID, patch models.VariantPatch) error
	UpsertVariant(ctx context.Context, id uuid.UUID, variant *models.Variant) (*models.Variant, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error
}

type variantService struct {
	log         *slog.Logger
	variantRepo storage.VariantStorage
}

func NewVariantService(log *slog.Logger, variantRepo storage.VariantStorage) VariantService {
	return &variantService{log: log, variantRepo: variantRepo}
}

func (s *variantService) ListVariants(ctx context.Context) ([]models.Variant, error) {
	const op = "service.VariantService.ListVariants"
	variants, err := s.variantRepo.ListVariants(ctx)
	if err != nil {
		s.log.Error("failed to list variants", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return variants, nil
}

func (s *variantService) GetVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	const op = "service.VariantService.GetVariant"
	variant, err := s.variantRepo.GetVariant(ctx, id)
	if err != nil {
		return nil, s.fail(op, id, err)
	}
	return variant, nil
}

func (s *variantService) CreateVariant(ctx context.Context, variant *models.Variant) (*models.Variant, error) {
	const op = "service.VariantService.CreateVariant"
	if err := s.variantRepo.CreateVariant(ctx, variant); err != nil {
		return nil, s.fail(op, variant.ID, err)
	}
	s.log.Info("variant created", slog.String("op", op), slog.String("id", variant.ID.String()))
	return variant, nil
}

func (s *variantService) UpdateVariant(ctx context.Context, id uuid.UUID, patch models.VariantPatch) error {
	const op = "service.VariantService.UpdateVariant"
	variant, err := s.variantRepo.GetVariant(ctx, id)
	if err != nil {
		return s.fail(op, id, err)
	}
	patch.Apply(variant)
	if err := s.variantRepo.UpdateVariant(ctx, variant); err != nil {
		return s.fail(op, id, err)
	}
	return nil
}

func (s *variantService) UpsertVariant(ctx context.Context, id uuid.UUID, variant *models.Variant) (*models.Variant, error) {
	const op = "service.VariantService.UpsertVariant"
	variant.ID = id
	if err := s.variantRepo.UpsertVariant(ctx, variant); err != nil {
		return nil, s.fail(op, id, err)
	}
	return variant, nil
}

func (s *variantService) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	const op = "service.VariantService.DeleteVariant"
	if err := s.variantRepo.DeleteVariant(ctx, id); err != nil {
		return s.fail(op, id, err)
	}
	s.log.Info("variant deleted", slog.String("op", op), slog.String("id", id.String()))
	return nil
}

func (s *variantService) fail(op string, id uuid.UUID, err error) error {
	return mapCatalogError(s.log.With(slog.String("op", op), slog.String("id", id.String())), op, "Variant", id, err)
}

// NewProductVariant - связка, которую добавляют к товару
type NewProductVariant struct {
	VariantID uuid.UUID
	Price     decimal.Decimal
	IsActive  bool
}

// ProductVariantService - управление связками товар × вариант
type ProductVariantService interface {
	// AddVariants добавляет товару несколько вариантов одной транзакцией: либо все, либо ни одного
	AddVariants(ctx context.Context, productID uuid.UUID, items []NewProductVariant) ([]*models.ProductVariant, error)
	UpdateProductVariant(ctx context.Context, productID, id uuid.UUID, patch models.ProductVariantPatch) error
	DeleteProductVariant(ctx context.Context, productID, id uuid.UUID) error
}

type productVariantService struct {
	log         *slog.Logger
	db          *sql.DB
	productRepo storage.ProductStorage
	pvRepo      storage.ProductVariantStorage
}

func NewProductVariantService(log *slog.Logger, db *sql.DB, productRepo storage.ProductStorage, pvRepo storage.ProductVariantStorage) ProductVariantService {
	return &productVariantService{log: log, db: db, productRepo: productRepo, pvRepo: pvRepo}
}

func (s *productVariantService) AddVariants(ctx context.Context, productID uuid.UUID, items []NewProductVariant) ([]*models.ProductVariant, error) {
	const op = "service.ProductVariantService.AddVariants"
	logger := s.log.With(slog.String("op", op), slog.String("productID", productID.String()), slog.Int("count", len(items)))

	if len(items) == 0 {
		return nil, newError(ErrInvalidInput, "At least one variant must be provided", nil)
	}
	for _, item := range items {
		if item.Price.IsNegative() {
			return nil, newError(ErrInvalidInput, fmt.Sprintf("Price for variant %s must not be negative", item.VariantID), nil)
		}
	}

	if _, err := s.productRepo.GetProduct(ctx, productID); err != nil {
		return nil, mapCatalogError(logger, op, "Product", productID, err)
	}

	pvs := make([]*models.ProductVariant, 0, len(items))
	for _, item := range items {
		pvs = append(pvs, &models.ProductVariant{
			ProductID: productID,
			VariantID: item.VariantID,
			Price:     item.Price.Round(2),
			IsActive:  item.IsActive,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	if err := s.pvRepo.CreateProductVariants(ctx, tx, pvs); err != nil {
		rollback(tx, logger)
		return nil, mapCatalogError(logger, op, "Product variant", productID, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("variants added to product")
	return pvs, nil
}

func (s *productVariantService) UpdateProductVariant(ctx context.Context, productID, id uuid.UUID, patch models.ProductVariantPatch) error {
	const op = "service.ProductVariantService.UpdateProductVariant"
	logger := s.log.With(slog.String("op", op), slog.String("productID", productID.String()), slog.String("id", id.String()))

	if patch.Price != nil && patch.Price.IsNegative() {
		return newError(ErrInvalidInput, "Price must not be negative", nil)
	}

	pv, err := s.pvRepo.GetProductVariant(ctx, productID, id)
	if err != nil {
		return mapCatalogError(logger, op, "Product variant", id, err)
	}
	patch.Apply(pv)
	if err := s.pvRepo.UpdateProductVariant(ctx, pv); err != nil {
		return mapCatalogError(logger, op, "Product variant", id, err)
	}
	return nil
}

func (s *productVariantService) DeleteProductVariant(ctx context.Context, productID, id uuid.UUID) error {
	const op = "service.ProductVariantService.DeleteProductVariant"
	logger := s.log.With(slog.String("op", op), slog.String("productID", productID.String()), slog.String("id", id.String()))

	if err := s.pvRepo.DeleteProductVariant(ctx, productID, id); err != nil {
		return mapCatalogError(logger, op, "Product variant", id, err)
	}
	logger.Info("product variant deleted")
	return nil
}

// mapCatalogError переводит ошибки хранилища каталога в ошибки сервиса
func mapCatalogError(logger *slog.Logger, op, entity string, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, storage.ErrProductNotFound),
		errors.Is(err, storage.ErrVariantNotFound),
		errors.Is(err, storage.ErrProductVariantNotFound):
		logger.Info("record not found", slog.Any("error", err))
		return newError(ErrNotFound, fmt.Sprintf("%s with id %s was not found", entity, id), err)
	case errors.Is(err, storage.ErrReferenced):
		logger.Warn("record is still referenced", slog.Any("error", err))
		return newError(ErrConflict, fmt.Sprintf("%s %s is still in use and cannot be deleted", entity, id), err)
	case errors.Is(err, storage.ErrReferenceMissing):
		logger.Warn("referenced record is missing", slog.Any("error", err))
		return newError(ErrInvalidInput, "Referenced product or variant does not exist", err)
	}
	logger.Error("catalog storage failed", slog.Any("error", err))
	return fmt.Errorf("%s: %w", op, err)
}
