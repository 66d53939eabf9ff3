package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/linemk/lemonade-shop/internal/domain/models"
)

// ProductStorage описывает администрирование товаров каталога.
type ProductStorage interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	// GetProduct возвращает товар вместе с его вариантами и ценами.
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	// UpsertProduct создаёт товар с заданным id или полностью заменяет существующий.
	UpsertProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db *sqlx.DB
}

// NewProductRepository создаёт репозиторий товаров поверх общего пула соединений.
func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: sqlx.NewDb(db, "postgres")}
}

const productColumns = "id, name, description, image_url, is_active, created_at, updated_at"

func (r *productRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, "SELECT "+productColumns+" FROM products ORDER BY created_at, id"); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	if err := r.db.GetContext(ctx, product, "SELECT "+productColumns+" FROM products WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	variants := []models.ProductVariantOption{}
	query := `
		SELECT pv.id AS product_variant_id, v.id AS variant_id, v.name, pv.price, pv.is_active
		FROM product_variants pv
		JOIN variants v ON v.id = pv.variant_id
		WHERE pv.product_id = $1
		ORDER BY pv.price, v.name`
	if err := r.db.SelectContext(ctx, &variants, query, id); err != nil {
		return nil, fmt.Errorf("failed to get product variants: %w", err)
	}
	product.Variants = variants
	return product, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `INSERT INTO products (name, description, image_url, is_active)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query, product.Name, product.Description, product.ImageURL, product.IsActive).
		StructScan(product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", mapWriteError(err))
	}
	return nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	query, args, err := sqlx.Named(`UPDATE products
		SET name = :name, description = :description, image_url = :image_url, is_active = :is_active, updated_at = NOW()
		WHERE id = :id
		RETURNING updated_at`, product)
	if err != nil {
		return err
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&product.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", mapWriteError(err))
	}
	return nil
}

func (r *productRepository) UpsertProduct(ctx context.Context, product *models.Product) error {
	query, args, err := sqlx.Named(`INSERT INTO products (id, name, description, image_url, is_active)
		VALUES (:id, :name, :description, :image_url, :is_active)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, image_url = EXCLUDED.image_url,
		    is_active = EXCLUDED.is_active, updated_at = NOW()
		RETURNING created_at, updated_at`, product)
	if err != nil {
		return err
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&product.CreatedAt, &product.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert product: %w", mapWriteError(err))
	}
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", mapDeleteError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
