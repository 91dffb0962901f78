package repository

import (
	"context"
	"fmt"
	"time"

	"vialmedia/internal/domain/rental"
	"vialmedia/internal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const rentalColumns = `r.id, r.code, r.quotation_id, r.support_id, s.code,
	r.client_name, r.vendor_name, r.start_date, r.end_date, r.months, r.total,
	r.status, r.created_at, r.cancelled_at`

const rentalFrom = ` FROM rentals r JOIN supports s ON s.id = r.support_id `

type RentalRepository struct {
	db *pgxpool.Pool
}

func NewRentalRepository(db *pgxpool.Pool) *RentalRepository {
	return &RentalRepository{db: db}
}

var _ usecase.RentalRepository = (*RentalRepository)(nil)

func (r *RentalRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Rental, error) {
	row := r.db.QueryRow(ctx, `SELECT `+rentalColumns+rentalFrom+`WHERE r.id = $1`, id)
	return scanRental(row)
}

// NextCode issues the next sequential rental code. Callers run it inside the
// conversion transaction so concurrent conversions serialize on the max scan.
func (r *RentalRepository) NextCode(ctx context.Context, tx pgx.Tx) (string, error) {
	const query = `
		SELECT COALESCE(MAX(CAST(SUBSTRING(code FROM 5) AS INTEGER)), 0)
		FROM rentals`

	var max int
	if err := tx.QueryRow(ctx, query).Scan(&max); err != nil {
		return "", wrapPgErr(err, "failed to compute next rental code")
	}
	return fmt.Sprintf("ALQ-%04d", max+1), nil
}

func (r *RentalRepository) Create(ctx context.Context, tx pgx.Tx, rent *rental.Rental) error {
	const query = `
		INSERT INTO rentals (id, code, quotation_id, support_id, client_name,
			vendor_name, start_date, end_date, months, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := tx.Exec(ctx, query,
		rent.ID, rent.Code, rent.QuotationID, rent.SupportID, rent.Client,
		rent.Vendor, rent.StartDate, rent.EndDate, rent.Months, rent.Total,
		rent.Status, rent.CreatedAt,
	)
	if err != nil {
		return wrapPgErr(err, "failed to create rental")
	}
	return nil
}

func (r *RentalRepository) Cancel(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) error {
	const query = `
		UPDATE rentals SET status = 'cancelled', cancelled_at = $2
		WHERE id = $1 AND status = 'active'`

	tag, err := tx.Exec(ctx, query, id, at)
	if err != nil {
		return wrapPgErr(err, "failed to cancel rental")
	}
	if tag.RowsAffected() == 0 {
		return wrapPgErr(pgx.ErrNoRows, "active rental not found for cancellation")
	}
	return nil
}

func (r *RentalRepository) ListActiveBySupportForUpdate(ctx context.Context, tx pgx.Tx, supportID uuid.UUID) ([]rental.Rental, error) {
	const query = `
		SELECT ` + rentalColumns + rentalFrom + `
		WHERE r.support_id = $1 AND r.status = 'active'
		ORDER BY r.start_date
		FOR UPDATE OF r`

	rows, err := tx.Query(ctx, query, supportID)
	if err != nil {
		return nil, wrapPgErr(err, "failed to lock active rentals")
	}
	return collectRentals(rows)
}

func (r *RentalRepository) ListActiveBySupport(ctx context.Context, supportID uuid.UUID) ([]rental.Rental, error) {
	const query = `
		SELECT ` + rentalColumns + rentalFrom + `
		WHERE r.support_id = $1 AND r.status = 'active'
		ORDER BY r.start_date`

	rows, err := r.db.Query(ctx, query, supportID)
	if err != nil {
		return nil, wrapPgErr(err, "failed to list active rentals by support")
	}
	return collectRentals(rows)
}

func (r *RentalRepository) ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]rental.Rental, error) {
	const query = `
		SELECT ` + rentalColumns + rentalFrom + `
		WHERE r.quotation_id = $1
		ORDER BY r.created_at`

	rows, err := r.db.Query(ctx, query, quotationID)
	if err != nil {
		return nil, wrapPgErr(err, "failed to list rentals by quotation")
	}
	return collectRentals(rows)
}

func (r *RentalRepository) ListActive(ctx context.Context) ([]rental.Rental, error) {
	const query = `
		SELECT ` + rentalColumns + rentalFrom + `
		WHERE r.status = 'active'
		ORDER BY r.start_date`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, wrapPgErr(err, "failed to list active rentals")
	}
	return collectRentals(rows)
}

func (r *RentalRepository) List(ctx context.Context, status rental.Status, supportCode string) ([]rental.Rental, error) {
	query := `SELECT ` + rentalColumns + rentalFrom + `WHERE 1=1`
	args := []any{}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	if supportCode != "" {
		args = append(args, supportCode)
		query += fmt.Sprintf(" AND s.code = $%d", len(args))
	}
	query += " ORDER BY r.start_date"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapPgErr(err, "failed to list rentals")
	}
	return collectRentals(rows)
}

func (r *RentalRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]rental.Rental, error) {
	const query = `
		SELECT ` + rentalColumns + rentalFrom + `
		WHERE r.status = 'active' AND r.end_date BETWEEN $1 AND $2
		ORDER BY r.end_date`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, wrapPgErr(err, "failed to list expiring rentals")
	}
	return collectRentals(rows)
}

func (r *RentalRepository) ActiveDateRange(ctx context.Context) (time.Time, time.Time, error) {
	const query = `
		SELECT MIN(start_date), MAX(end_date)
		FROM rentals
		WHERE status = 'active'`

	var start, end *time.Time
	if err := r.db.QueryRow(ctx, query).Scan(&start, &end); err != nil {
		return time.Time{}, time.Time{}, wrapPgErr(err, "failed to compute active date range")
	}
	if start == nil || end == nil {
		return time.Time{}, time.Time{}, nil
	}
	return *start, *end, nil
}

func (r *RentalRepository) AppendHistory(ctx context.Context, tx pgx.Tx, event rental.HistoryEvent) error {
	const query = `
		INSERT INTO rental_history (id, rental_id, action, detail, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`

	_, err := tx.Exec(ctx, query, event.ID, event.RentalID, event.Action, event.Detail, event.Actor)
	if err != nil {
		return wrapPgErr(err, "failed to append rental history")
	}
	return nil
}

func (r *RentalRepository) ListHistory(ctx context.Context, rentalID uuid.UUID) ([]rental.HistoryEvent, error) {
	const query = `
		SELECT id, rental_id, action, detail, actor, created_at
		FROM rental_history
		WHERE rental_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, rentalID)
	if err != nil {
		return nil, wrapPgErr(err, "failed to list rental history")
	}
	defer rows.Close()

	var events []rental.HistoryEvent
	for rows.Next() {
		var e rental.HistoryEvent
		if err := rows.Scan(&e.ID, &e.RentalID, &e.Action, &e.Detail, &e.Actor, &e.CreatedAt); err != nil {
			return nil, wrapPgErr(err, "failed to scan rental history event")
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(err, "failed to read rental history")
	}
	return events, nil
}

func scanRental(row pgx.Row) (*rental.Rental, error) {
	var rent rental.Rental
	err := row.Scan(
		&rent.ID, &rent.Code, &rent.QuotationID, &rent.SupportID, &rent.SupportCode,
		&rent.Client, &rent.Vendor, &rent.StartDate, &rent.EndDate, &rent.Months,
		&rent.Total, &rent.Status, &rent.CreatedAt, &rent.CancelledAt,
	)
	if err != nil {
		return nil, wrapPgErr(err, "failed to scan rental")
	}
	return &rent, nil
}

func collectRentals(rows pgx.Rows) ([]rental.Rental, error) {
	defer rows.Close()

	var rentals []rental.Rental
	for rows.Next() {
		rent, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rent)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(err, "failed to read rentals")
	}
	return rentals, nil
}
