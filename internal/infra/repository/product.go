package repository

import (
	"context"

	"vialmedia/internal/domain/pricing"
	"vialmedia/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ usecase.ProductRepository = (*ProductRepository)(nil)

// ListRecipe returns the product's recipe components. A product without a
// recipe yields an empty slice, not an error; an unknown code surfaces as a
// not-found so callers can decide whether it matters.
func (r *ProductRepository) ListRecipe(ctx context.Context, productCode string) ([]pricing.RecipeItem, error) {
	const query = `
		SELECT ri.resource_name, ri.resource_code, ri.category, ri.quantity, ri.unit_cost
		FROM product_recipes ri
		JOIN products p ON p.id = ri.product_id
		WHERE p.code = $1
		ORDER BY ri.resource_name`

	rows, err := r.db.Query(ctx, query, productCode)
	if err != nil {
		return nil, wrapPgErr(err, "failed to list product recipe")
	}
	defer rows.Close()

	var items []pricing.RecipeItem
	for rows.Next() {
		var item pricing.RecipeItem
		if err := rows.Scan(&item.ResourceName, &item.ResourceCode, &item.Category,
			&item.Quantity, &item.UnitCost); err != nil {
			return nil, wrapPgErr(err, "failed to scan recipe item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(err, "failed to read product recipe")
	}
	return items, nil
}
