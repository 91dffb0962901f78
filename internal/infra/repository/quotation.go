package repository

import (
	"context"
	"encoding/json"

	"vialmedia/internal/domain/quotation"
	"vialmedia/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QuotationRepository struct {
	db *pgxpool.Pool
}

func NewQuotationRepository(db *pgxpool.Pool) *QuotationRepository {
	return &QuotationRepository{db: db}
}

var _ usecase.QuotationRepository = (*QuotationRepository)(nil)

func (r *QuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error) {
	const query = `
		SELECT id, code, status, client_name, vendor_name, currency, total
		FROM quotations
		WHERE id = $1`

	var q quotation.Quotation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.Code, &q.Status, &q.Client, &q.Vendor, &q.Currency, &q.Total,
	)
	if err != nil {
		return nil, wrapPgErr(err, "failed to find quotation")
	}
	return &q, nil
}

func (r *QuotationRepository) ListLines(ctx context.Context, quotationID uuid.UUID) ([]quotation.Line, error) {
	const query = `
		SELECT kind, product_code, name, description, quantity,
		       width_m, height_m, area_m2, unit_of_measure,
		       unit_price, commission_pct, vat_included, turnover_tax_included,
		       is_support_rental, position, variants, line_total
		FROM quotation_lines
		WHERE quotation_id = $1
		ORDER BY position`

	rows, err := r.db.Query(ctx, query, quotationID)
	if err != nil {
		return nil, wrapPgErr(err, "failed to list quotation lines")
	}
	defer rows.Close()

	var lines []quotation.Line
	for rows.Next() {
		var line quotation.Line
		var variants []byte
		err := rows.Scan(
			&line.Kind, &line.ProductCode, &line.Name, &line.Description, &line.Quantity,
			&line.Width, &line.Height, &line.AreaM2, &line.UnitOfMeasure,
			&line.UnitPrice, &line.CommissionPct, &line.VATIncluded, &line.TurnoverTaxIncluded,
			&line.IsSupportRental, &line.Position, &variants, &line.LineTotal,
		)
		if err != nil {
			return nil, wrapPgErr(err, "failed to scan quotation line")
		}
		if len(variants) > 0 {
			if err := json.Unmarshal(variants, &line.Variants); err != nil {
				return nil, wrapPgErr(err, "failed to decode line variants")
			}
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(err, "failed to read quotation lines")
	}
	return lines, nil
}
