package usecase

import (
	"context"
	"log/slog"

	"vialmedia/internal/domain/support"
	"vialmedia/internal/infra"
	"vialmedia/internal/pkg/clock"
	"vialmedia/internal/pkg/errs"
	"vialmedia/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SweepResult summarizes one status sweep run.
type SweepResult struct {
	Checked int
	Updated int
	Errors  int
}

type StatusCommands interface {
	RecomputeSupport(ctx context.Context, supportID uuid.UUID) (support.Status, error)
	Sweep(ctx context.Context) (*SweepResult, error)
}

type statusUseCaseImpl struct {
	supportRepo SupportRepository
	rentalRepo  RentalRepository
	tx          shared.TxRunner
	clock       clock.Clock
}

func NewStatusUseCase(supportRepo SupportRepository, rentalRepo RentalRepository, tx shared.TxRunner, clk clock.Clock) StatusCommands {
	return &statusUseCaseImpl{
		supportRepo: supportRepo,
		rentalRepo:  rentalRepo,
		tx:          tx,
		clock:       clk,
	}
}

// RecomputeSupport derives and persists the status one support should have
// today. Manual states are left alone by the status policy itself.
func (u *statusUseCaseImpl) RecomputeSupport(ctx context.Context, supportID uuid.UUID) (support.Status, error) {
	sup, err := u.supportRepo.FindByID(ctx, supportID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", ErrSupportNotFound
		}
		return "", errs.Mark(err, ErrDatabaseOperationFailed)
	}

	next, err := u.recompute(ctx, sup)
	if err != nil {
		return "", err
	}
	return next, nil
}

// Sweep recomputes every support's status. Per-support failures are logged
// and counted; the sweep keeps going.
func (u *statusUseCaseImpl) Sweep(ctx context.Context) (*SweepResult, error) {
	supports, err := u.supportRepo.ListAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := &SweepResult{}
	for i := range supports {
		sup := supports[i]
		result.Checked++

		next, err := u.recompute(ctx, &sup)
		if err != nil {
			slog.Error("failed to recompute support status", "support", sup.Code, "error", err)
			result.Errors++
			continue
		}
		if next != sup.Status {
			result.Updated++
		}
	}
	return result, nil
}

func (u *statusUseCaseImpl) recompute(ctx context.Context, sup *support.Support) (support.Status, error) {
	active, err := u.rentalRepo.ListActiveBySupport(ctx, sup.ID)
	if err != nil {
		return "", errs.Mark(err, ErrDatabaseOperationFailed)
	}

	windows := make([]support.ActiveWindow, 0, len(active))
	for _, r := range active {
		windows = append(windows, support.ActiveWindow{Start: r.StartDate, End: r.EndDate})
	}

	next := support.NextStatus(sup.Status, sup.RestoreToConsult, windows, clock.Today(u.clock))
	if next == sup.Status {
		return next, nil
	}

	err = u.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		return u.supportRepo.UpdateStatus(ctx, tx, sup.ID, next)
	})
	if err != nil {
		return "", errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return next, nil
}
