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

// VariantStorage описывает администрирование вариантов (размеров, вкусов и т.п.).
type VariantStorage interface {
	ListVariants(ctx context.Context) ([]models.Variant, error)
	// GetVariant возвращает вариант вместе с товарами, где он используется.
	GetVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error)
	CreateVariant(ctx context.Context, variant *models.Variant) error
	UpdateVariant(ctx context.Context, variant *models.Variant) error
	UpsertVariant(ctx context.Context, variant *models.Variant) error
	DeleteVariant(ctx context.Context, id uuid.UUID) error
}

type variantRepository struct {
	db *sqlx.DB
}

func NewVariantRepository(db *sql.DB) VariantStorage {
	return &variantRepository{db: sqlx.NewDb(db, "postgres")}
}

const variantColumns = "id, name, is_active, created_at, updated_at"

func (r *variantRepository) ListVariants(ctx context.Context) ([]models.Variant, error) {
	variants := []models.Variant{}
	if err := r.db.SelectContext(ctx, &variants, "SELECT "+variantColumns+" FROM variants ORDER BY created_at, id"); err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	return variants, nil
}

func (r *variantRepository) GetVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	variant := &models.Variant{}
	if err := r.db.GetContext(ctx, variant, "SELECT "+variantColumns+" FROM variants WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to get variant: %w", err)
	}

	products := []models.VariantProductOption{}
	query := `
		SELECT pv.id AS product_variant_id, p.id AS product_id, p.name, pv.price, pv.is_active
		FROM product_variants pv
		JOIN products p ON p.id = pv.product_id
		WHERE pv.variant_id = $1
		ORDER BY p.name`
	if err := r.db.SelectContext(ctx, &products, query, id); err != nil {
		return nil, fmt.Errorf("failed to get variant products: %w", err)
	}
	variant.Products = products
	return variant, nil
}

func (r *variantRepository) CreateVariant(ctx context.Context, variant *models.Variant) error {
	query := `INSERT INTO variants (name, is_active) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query, variant.Name, variant.IsActive).StructScan(variant); err != nil {
		return fmt.Errorf("failed to create variant: %w", mapWriteError(err))
	}
	return nil
}

func (r *variantRepository) UpdateVariant(ctx context.Context, variant *models.Variant) error {
	query, args, err := sqlx.Named(`UPDATE variants
		SET name = :name, is_active = :is_active, updated_at = NOW()
		WHERE id = :id
		RETURNING updated_at`, variant)
	if err != nil {
		return err
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&variant.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVariantNotFound
		}
		return fmt.Errorf("failed to update variant: %w", mapWriteError(err))
	}
	return nil
}

func (r *variantRepository) UpsertVariant(ctx context.Context, variant *models.Variant) error {
	query, args, err := sqlx.Named(`INSERT INTO variants (id, name, is_active)
		VALUES (:id, :name, :is_active)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, is_active = EXCLUDED.is_active, updated_at = NOW()
		RETURNING created_at, updated_at`, variant)
	if err != nil {
		return err
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&variant.CreatedAt, &variant.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert variant: %w", mapWriteError(err))
	}
	return nil
}

func (r *variantRepository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM variants WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete variant: %w", mapDeleteError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVariantNotFound
	}
	return nil
}
