package repository

import (
	"context"

	"vialmedia/internal/domain/support"
	"vialmedia/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const supportColumns = `id, code, title, type, city, address, width_m, height_m,
	monthly_price, status, restore_to_consult, owner_name`

type SupportRepository struct {
	db *pgxpool.Pool
}

func NewSupportRepository(db *pgxpool.Pool) *SupportRepository {
	return &SupportRepository{db: db}
}

var _ usecase.SupportRepository = (*SupportRepository)(nil)

func (r *SupportRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Support, error) {
	row := r.db.QueryRow(ctx, `SELECT `+supportColumns+` FROM supports WHERE id = $1`, id)
	return scanSupport(row)
}

func (r *SupportRepository) FindByCode(ctx context.Context, code string) (*support.Support, error) {
	row := r.db.QueryRow(ctx, `SELECT `+supportColumns+` FROM supports WHERE code = $1`, code)
	return scanSupport(row)
}

func (r *SupportRepository) ListAll(ctx context.Context) ([]support.Support, error) {
	rows, err := r.db.Query(ctx, `SELECT `+supportColumns+` FROM supports ORDER BY code`)
	if err != nil {
		return nil, wrapPgErr(err, "failed to list supports")
	}
	defer rows.Close()

	var supports []support.Support
	for rows.Next() {
		sup, err := scanSupport(rows)
		if err != nil {
			return nil, err
		}
		supports = append(supports, *sup)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(err, "failed to read supports")
	}
	return supports, nil
}

func (r *SupportRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status support.Status) error {
	tag, err := tx.Exec(ctx, `UPDATE supports SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return wrapPgErr(err, "failed to update support status")
	}
	if tag.RowsAffected() == 0 {
		return wrapPgErr(pgx.ErrNoRows, "support not found for status update")
	}
	return nil
}

func scanSupport(row pgx.Row) (*support.Support, error) {
	var sup support.Support
	err := row.Scan(
		&sup.ID, &sup.Code, &sup.Title, &sup.Type, &sup.City, &sup.Address,
		&sup.WidthM, &sup.HeightM, &sup.MonthlyPrice, &sup.Status,
		&sup.RestoreToConsult, &sup.OwnerName,
	)
	if err != nil {
		return nil, wrapPgErr(err, "failed to scan support")
	}
	return &sup, nil
}
