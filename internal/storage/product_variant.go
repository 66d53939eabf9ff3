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

// ProductVariantStorage описывает связки товар × вариант с ценой.
type ProductVariantStorage interface {
	// CreateProductVariants добавляет пачку связок в рамках транзакции.
	CreateProductVariants(ctx context.Context, tx *sql.Tx, items []*models.ProductVariant) error
	// GetProductVariant ищет связку только среди связок указанного товара.
	GetProductVariant(ctx context.Context, productID, id uuid.UUID) (*models.ProductVariant, error)
	UpdateProductVariant(ctx context.Context, pv *models.ProductVariant) error
	DeleteProductVariant(ctx context.Context, productID, id uuid.UUID) error
}

type productVariantRepository struct {
	db *sqlx.DB
}

func NewProductVariantRepository(db *sql.DB) ProductVariantStorage {
	return &productVariantRepository{db: sqlx.NewDb(db, "postgres")}
}

func (r *productVariantRepository) CreateProductVariants(ctx context.Context, tx *sql.Tx, items []*models.ProductVariant) error {
	query := `INSERT INTO product_variants (product_id, variant_id, price, is_active)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	for i, pv := range items {
		row := tx.QueryRowContext(ctx, query, pv.ProductID, pv.VariantID, pv.Price, pv.IsActive)
		if err := row.Scan(&pv.ID, &pv.CreatedAt, &pv.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create product variant %d: %w", i, mapWriteError(err))
		}
	}
	return nil
}

func (r *productVariantRepository) GetProductVariant(ctx context.Context, productID, id uuid.UUID) (*models.ProductVariant, error) {
	pv := &models.ProductVariant{}
	query := `SELECT id, product_id, variant_id, price, is_active, created_at, updated_at
	          FROM product_variants WHERE id = $1 AND product_id = $2`
	if err := r.db.GetContext(ctx, pv, query, id, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductVariantNotFound
		}
		return nil, fmt.Errorf("failed to get product variant: %w", err)
	}
	return pv, nil
}

func (r *productVariantRepository) UpdateProductVariant(ctx context.Context, pv *models.ProductVariant) error {
	query, args, err := sqlx.Named(`UPDATE product_variants
		SET variant_id = :variant_id, price = :price, is_active = :is_active, updated_at = NOW()
		WHERE id = :id AND product_id = :product_id
		RETURNING updated_at`, pv)
	if err != nil {
		return err
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&pv.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductVariantNotFound
		}
		return fmt.Errorf("failed to update product variant: %w", mapWriteError(err))
	}
	return nil
}

func (r *productVariantRepository) DeleteProductVariant(ctx context.Context, productID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM product_variants WHERE id = $1 AND product_id = $2", id, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product variant: %w", mapDeleteError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductVariantNotFound
	}
	return nil
}
