package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/linemk/lemonade-shop/internal/domain/models"
)

// CatalogStorage описывает чтение каталога, нужное для оформления заказа.
type CatalogStorage interface {
	// LookupVariants одним запросом получает связки товар×вариант по списку id.
	// Отсутствующие id просто не попадают в результат.
	LookupVariants(ctx context.Context, ids []uuid.UUID) ([]*models.ProductVariant, error)
	// LookupVariantsTx делает то же внутри транзакции, блокируя строки на чтение.
	LookupVariantsTx(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) ([]*models.ProductVariant, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository создаёт репозиторий чтения каталога.
func NewCatalogRepository(db *sql.DB) CatalogStorage {
	return &catalogRepository{db: db}
}

const lookupVariantsQuery = `
	SELECT pv.id, pv.product_id, pv.variant_id, pv.price, pv.is_active,
	       p.name, p.is_active, v.name, v.is_active
	FROM product_variants pv
	JOIN products p ON p.id = pv.product_id
	JOIN variants v ON v.id = pv.variant_id
	WHERE pv.id = ANY($1)`

func (r *catalogRepository) LookupVariants(ctx context.Context, ids []uuid.UUID) ([]*models.ProductVariant, error) {
	return lookupVariants(ctx, r.db, lookupVariantsQuery, ids)
}

func (r *catalogRepository) LookupVariantsTx(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) ([]*models.ProductVariant, error) {
	return lookupVariants(ctx, tx, lookupVariantsQuery+" FOR SHARE OF pv, p, v", ids)
}

func lookupVariants(ctx context.Context, q Querier, query string, ids []uuid.UUID) ([]*models.ProductVariant, error) {
	rows, err := q.QueryContext(ctx, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("failed to query product variants: %w", mapWriteError(err))
	}
	defer rows.Close()

	variants := make([]*models.ProductVariant, 0, len(ids))
	for rows.Next() {
		pv := &models.ProductVariant{}
		if err := rows.Scan(
			&pv.ID, &pv.ProductID, &pv.VariantID, &pv.Price, &pv.IsActive,
			&pv.Product.Name, &pv.Product.IsActive, &pv.Variant.Name, &pv.Variant.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product variant: %w", err)
		}
		variants = append(variants, pv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return variants, nil
}
