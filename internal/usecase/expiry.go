package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"vialmedia/internal/domain/notification"
	"vialmedia/internal/pkg/clock"
	"vialmedia/internal/pkg/errs"

	"github.com/google/uuid"
)

// Days before the end date at which a rental enters the expiry window.
const expiryWindowDays = 7

// ScanResult summarizes one expiry scan run. Errors are per-rental failures
// that did not stop the scan.
type ScanResult struct {
	Processed  int
	Created    int
	Duplicates int
	Errors     int
}

type ExpiryCommands interface {
	Scan(ctx context.Context) (*ScanResult, error)
}

type expiryUseCaseImpl struct {
	rentalRepo       RentalRepository
	notificationRepo NotificationRepository
	clock            clock.Clock
}

func NewExpiryUseCase(rentalRepo RentalRepository, notificationRepo NotificationRepository, clk clock.Clock) ExpiryCommands {
	return &expiryUseCaseImpl{
		rentalRepo:       rentalRepo,
		notificationRepo: notificationRepo,
		clock:            clk,
	}
}

// Scan walks the enabled cron-origin notification types and emits whatever
// each one covers. A type with no subscribed roles is skipped; a rental that
// already has a notification of the type is a duplicate, not an error. One
// notification is created per rental, carrying the type's full role list.
func (u *expiryUseCaseImpl) Scan(ctx context.Context) (*ScanResult, error) {
	types, err := u.notificationRepo.ListEnabledCronTypes(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := &ScanResult{}
	for _, t := range types {
		if len(t.Roles) == 0 {
			slog.Info("skipping notification type without roles", "type", t.Code)
			continue
		}

		switch t.Code {
		case notification.TypeCodeRentalEndingSoon:
			u.scanEndingRentals(ctx, t, result)
		default:
			slog.Warn("unknown cron notification type", "type", t.Code)
		}
	}

	return result, nil
}

func (u *expiryUseCaseImpl) scanEndingRentals(ctx context.Context, t notification.Type, result *ScanResult) {
	today := clock.Today(u.clock)
	from := today.AddDate(0, 0, 1)
	to := today.AddDate(0, 0, expiryWindowDays)

	rentals, err := u.rentalRepo.ListEndingBetween(ctx, from, to)
	if err != nil {
		slog.Error("failed to list expiring rentals", "error", err)
		result.Errors++
		return
	}

	for _, r := range rentals {
		result.Processed++

		exists, err := u.notificationRepo.Exists(ctx, notification.EntityTypeRental, r.ID, t.Code)
		if err != nil {
			slog.Error("failed to check notification existence", "rental", r.Code, "error", err)
			result.Errors++
			continue
		}
		if exists {
			result.Duplicates++
			continue
		}

		daysLeft := int(r.EndDate.Sub(today).Hours() / 24)
		n := notification.Notification{
			ID:       uuid.New(),
			TypeCode: t.Code,
			Title:    fmt.Sprintf("Rental %s ends in %d days", r.Code, daysLeft),
			Body: fmt.Sprintf("Rental %s of support %s for %s ends on %s.",
				r.Code, r.SupportCode, r.Client, r.EndDate.Format("2006-01-02")),
			Priority:   notification.PriorityForDaysRemaining(daysLeft),
			Roles:      t.Roles,
			EntityType: notification.EntityTypeRental,
			EntityID:   r.ID,
		}
		if err := u.notificationRepo.Create(ctx, &n); err != nil {
			slog.Error("failed to create notification", "rental", r.Code, "error", err)
			result.Errors++
			continue
		}
		result.Created++
	}
}
