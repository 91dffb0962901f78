package usecase

import (
	"context"

	"vialmedia/internal/domain/rental"
	"vialmedia/internal/infra"
	"vialmedia/internal/pkg/errs"

	"github.com/google/uuid"
)

type RentalQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*rental.Rental, error)
	List(ctx context.Context, statusFilter, supportCode string) ([]rental.Rental, error)
	ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]rental.Rental, error)
	GetHistory(ctx context.Context, rentalID uuid.UUID) ([]rental.HistoryEvent, error)
}

type rentalQueriesImpl struct {
	rentalRepo RentalRepository
}

func NewRentalQueries(rentalRepo RentalRepository) RentalQueries {
	return &rentalQueriesImpl{rentalRepo: rentalRepo}
}

func (q *rentalQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*rental.Rental, error) {
	r, err := q.rentalRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return r, nil
}

func (q *rentalQueriesImpl) List(ctx context.Context, statusFilter, supportCode string) ([]rental.Rental, error) {
	var status rental.Status
	switch statusFilter {
	case "":
	case string(rental.StatusActive), string(rental.StatusCancelled):
		status = rental.Status(statusFilter)
	default:
		return nil, ErrInvalidStatusFilter
	}

	rentals, err := q.rentalRepo.List(ctx, status, supportCode)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return rentals, nil
}

func (q *rentalQueriesImpl) ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]rental.Rental, error) {
	rentals, err := q.rentalRepo.ListByQuotation(ctx, quotationID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return rentals, nil
}

func (q *rentalQueriesImpl) GetHistory(ctx context.Context, rentalID uuid.UUID) ([]rental.HistoryEvent, error) {
	if _, err := q.GetByID(ctx, rentalID); err != nil {
		return nil, err
	}
	events, err := q.rentalRepo.ListHistory(ctx, rentalID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return events, nil
}
