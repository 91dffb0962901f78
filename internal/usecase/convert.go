package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vialmedia/internal/domain/pricing"
	"vialmedia/internal/domain/quotation"
	"vialmedia/internal/domain/rental"
	"vialmedia/internal/domain/support"
	"vialmedia/internal/infra"
	"vialmedia/internal/pkg/clock"
	"vialmedia/internal/pkg/errs"
	"vialmedia/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const regenerationCancelReason = "superseded by regeneration"

// ConvertResult reports what a conversion did. On a dry run the rentals carry
// no IDs or codes and nothing was written.
type ConvertResult struct {
	Rentals   []rental.Rental
	Cancelled int
	DryRun    bool
}

// PlannedRental is one line of a conversion preview: the rental that would be
// created, plus the conflict that would block it, if any.
type PlannedRental struct {
	SupportCode string
	SupportID   uuid.UUID
	StartDate   string
	EndDate     string
	Months      float64
	Total       float64
	Conflict    string
}

type ConvertPreview struct {
	QuotationID uuid.UUID
	Planned     []PlannedRental
	Existing    int
}

type ConvertCommands interface {
	ConvertQuotation(ctx context.Context, quotationID uuid.UUID, actor string, dryRun bool) (*ConvertResult, error)

	// DryRunWithLines evaluates submitted raw lines instead of the stored
	// ones: they are normalized first, and the run fails only when every
	// submitted line is invalid.
	DryRunWithLines(ctx context.Context, quotationID uuid.UUID, raw []quotation.RawLine) (*ConvertResult, error)
	PreviewConversion(ctx context.Context, quotationID uuid.UUID) (*ConvertPreview, error)
	CancelRental(ctx context.Context, rentalID uuid.UUID, actor, reason string) error
}

type convertUseCaseImpl struct {
	quotationRepo QuotationRepository
	supportRepo   SupportRepository
	rentalRepo    RentalRepository
	productRepo   ProductRepository
	tx            shared.TxRunner
	matcher       pricing.Matcher
	clock         clock.Clock
}

func NewConvertUseCase(
	quotationRepo QuotationRepository,
	supportRepo SupportRepository,
	rentalRepo RentalRepository,
	productRepo ProductRepository,
	tx shared.TxRunner,
	clk clock.Clock,
) ConvertCommands {
	return &convertUseCaseImpl{
		quotationRepo: quotationRepo,
		supportRepo:   supportRepo,
		rentalRepo:    rentalRepo,
		productRepo:   productRepo,
		tx:            tx,
		matcher:       pricing.NewContainmentMatcher(),
		clock:         clk,
	}
}

// plannedLine pairs a verified support with the rental window derived from its
// quotation line.
type plannedLine struct {
	support *support.Support
	period  rental.Period
	total   float64
}

func (c *convertUseCaseImpl) ConvertQuotation(ctx context.Context, quotationID uuid.UUID, actor string, dryRun bool) (*ConvertResult, error) {
	q, planned, err := c.loadAndVerify(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if dryRun {
		return c.dryRun(ctx, quotationID, planned)
	}

	today := clock.Today(c.clock)
	now := c.clock.Now()

	var result *ConvertResult
	err = c.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		cancelled, err := c.cancelExisting(ctx, tx, quotationID, actor)
		if err != nil {
			return err
		}

		rentals := make([]rental.Rental, 0, len(planned))
		for _, p := range planned {
			active, err := c.rentalRepo.ListActiveBySupportForUpdate(ctx, tx, p.support.ID)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			for _, a := range active {
				if a.QuotationID == quotationID {
					continue
				}
				if rental.Overlaps(p.period.Start, p.period.End, a.StartDate, a.EndDate) {
					return &OverlapConflictError{
						SupportCode: p.support.Code,
						Start:       a.StartDate,
						End:         a.EndDate,
					}
				}
			}

			code, err := c.rentalRepo.NextCode(ctx, tx)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}

			r := rental.Rental{
				ID:          uuid.New(),
				Code:        code,
				QuotationID: quotationID,
				SupportID:   p.support.ID,
				SupportCode: p.support.Code,
				Client:      q.Client,
				Vendor:      q.Vendor,
				StartDate:   p.period.Start,
				EndDate:     p.period.End,
				Months:      p.period.Months,
				Total:       p.total,
				Status:      rental.StatusActive,
				CreatedAt:   now,
			}

			if err := c.rentalRepo.Create(ctx, tx, &r); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					return &OverlapConflictError{
						SupportCode: p.support.Code,
						Start:       p.period.Start,
						End:         p.period.End,
					}
				}
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}

			event := rental.HistoryEvent{
				ID:       uuid.New(),
				RentalID: r.ID,
				Action:   rental.HistoryCreated,
				Detail:   fmt.Sprintf("created from quotation %s", q.Code),
				Actor:    actor,
			}
			if err := c.rentalRepo.AppendHistory(ctx, tx, event); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}

			if next := nextSupportStatus(p.support, append(active, r), today); next != p.support.Status {
				if err := c.supportRepo.UpdateStatus(ctx, tx, p.support.ID, next); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}
			}

			rentals = append(rentals, r)
		}

		result = &ConvertResult{Rentals: rentals, Cancelled: cancelled}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *convertUseCaseImpl) PreviewConversion(ctx context.Context, quotationID uuid.UUID) (*ConvertPreview, error) {
	_, planned, err := c.loadAndVerify(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	existing, err := c.rentalRepo.ListByQuotation(ctx, quotationID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	existingActive := 0
	for _, r := range existing {
		if r.IsActive() {
			existingActive++
		}
	}

	out := make([]PlannedRental, 0, len(planned))
	for _, p := range planned {
		pr := PlannedRental{
			SupportCode: p.support.Code,
			SupportID:   p.support.ID,
			StartDate:   p.period.Start.Format("2006-01-02"),
			EndDate:     p.period.End.Format("2006-01-02"),
			Months:      p.period.Months,
			Total:       p.total,
		}
		if conflict, err := c.findConflict(ctx, quotationID, p); err != nil {
			return nil, err
		} else if conflict != nil {
			pr.Conflict = conflict.Error()
		}
		out = append(out, pr)
	}

	return &ConvertPreview{QuotationID: quotationID, Planned: out, Existing: existingActive}, nil
}

func (c *convertUseCaseImpl) CancelRental(ctx context.Context, rentalID uuid.UUID, actor, reason string) error {
	r, err := c.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrRentalNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !r.IsActive() {
		return ErrRentalAlreadyCancelled
	}

	today := clock.Today(c.clock)

	return c.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := c.rentalRepo.Cancel(ctx, tx, r.ID, c.clock.Now()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		event := rental.HistoryEvent{
			ID:       uuid.New(),
			RentalID: r.ID,
			Action:   rental.HistoryCancelled,
			Detail:   reason,
			Actor:    actor,
		}
		if err := c.rentalRepo.AppendHistory(ctx, tx, event); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		sup, err := c.supportRepo.FindByID(ctx, r.SupportID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		remaining, err := c.rentalRepo.ListActiveBySupportForUpdate(ctx, tx, r.SupportID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		active := remaining[:0]
		for _, a := range remaining {
			if a.ID != r.ID {
				active = append(active, a)
			}
		}
		if next := nextSupportStatus(sup, active, today); next != sup.Status {
			if err := c.supportRepo.UpdateStatus(ctx, tx, sup.ID, next); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		return nil
	})
}

// loadAndVerify resolves the quotation and plans rentals from its stored
// lines.
func (c *convertUseCaseImpl) loadAndVerify(ctx context.Context, quotationID uuid.UUID) (*quotationView, []plannedLine, error) {
	q, err := c.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrQuotationNotFound
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	lines, err := c.quotationRepo.ListLines(ctx, quotationID)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	planned, err := c.planFromLines(ctx, lines)
	if err != nil {
		return nil, nil, err
	}

	return &quotationView{Code: q.Code, Client: q.Client, Vendor: q.Vendor}, planned, nil
}

// planFromLines derives one planned rental per support line and verifies
// every referenced support exists. Verification is all-or-nothing: a single
// unknown support code fails the whole batch.
func (c *convertUseCaseImpl) planFromLines(ctx context.Context, lines []quotation.Line) ([]plannedLine, error) {
	today := clock.Today(c.clock)

	var planned []plannedLine
	for _, line := range lines {
		if !line.IsSupportRental {
			continue
		}

		sup, err := c.supportRepo.FindByCode(ctx, line.ProductCode)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, &SupportNotFoundError{SupportCode: line.ProductCode}
			}
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}

		planned = append(planned, plannedLine{
			support: sup,
			period:  rental.DerivePeriod(line.Description, line.Quantity, today),
			total:   line.LineTotal,
		})
	}

	if len(planned) == 0 {
		return nil, ErrNoRentalLines
	}
	return planned, nil
}

func (c *convertUseCaseImpl) DryRunWithLines(ctx context.Context, quotationID uuid.UUID, raw []quotation.RawLine) (*ConvertResult, error) {
	if _, err := c.quotationRepo.FindByID(ctx, quotationID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	valid, _ := quotation.NormalizeLines(raw)
	if len(raw) > 0 && len(valid) == 0 {
		return nil, ErrAllLinesInvalid
	}

	valid, err := c.repriceLines(ctx, valid)
	if err != nil {
		return nil, err
	}

	planned, err := c.planFromLines(ctx, valid)
	if err != nil {
		return nil, err
	}
	return c.dryRun(ctx, quotationID, planned)
}

// repriceLines recomputes each submitted line's unit price and total from the
// quoted base price; whatever totals the client sent are ignored. When a line
// carries variants the base price is first adjusted against the product's
// recipe; a product without a recipe is priced as-is.
func (c *convertUseCaseImpl) repriceLines(ctx context.Context, lines []quotation.Line) ([]quotation.Line, error) {
	for i := range lines {
		line := &lines[i]
		base := line.UnitPrice

		if len(line.Variants) > 0 && line.ProductCode != "" {
			recipe, err := c.productRepo.ListRecipe(ctx, line.ProductCode)
			if err != nil {
				if !infra.IsKind(err, infra.KindNotFound) {
					return nil, errs.Mark(err, ErrDatabaseOperationFailed)
				}
			} else {
				base = pricing.AdjustedBasePrice(base, recipe, line.Variants, c.matcher, func(msg string) {
					slog.Warn(msg, "product", line.ProductCode)
				})
			}
		}

		line.UnitPrice = pricing.UnitPrice(base, line.CommissionPct, line.Width, line.Height,
			line.IsSupportRental, line.UnitOfMeasure)
		line.LineTotal = pricing.LineTotal(line.Quantity, line.AreaM2, base, line.CommissionPct,
			line.VATIncluded, line.TurnoverTaxIncluded, line.IsSupportRental, line.UnitOfMeasure)
	}
	return lines, nil
}

type quotationView struct {
	Code   string
	Client string
	Vendor string
}

// dryRun evaluates the same overlap checks a real conversion would make but
// without locks and without writing. Rentals belonging to the quotation being
// converted are ignored: regeneration would cancel them first.
func (c *convertUseCaseImpl) dryRun(ctx context.Context, quotationID uuid.UUID, planned []plannedLine) (*ConvertResult, error) {
	rentals := make([]rental.Rental, 0, len(planned))
	for _, p := range planned {
		if conflict, err := c.findConflict(ctx, quotationID, p); err != nil {
			return nil, err
		} else if conflict != nil {
			return nil, conflict
		}

		rentals = append(rentals, rental.Rental{
			SupportID:   p.support.ID,
			SupportCode: p.support.Code,
			StartDate:   p.period.Start,
			EndDate:     p.period.End,
			Months:      p.period.Months,
			Total:       p.total,
			Status:      rental.StatusActive,
		})
	}
	return &ConvertResult{Rentals: rentals, DryRun: true}, nil
}

func (c *convertUseCaseImpl) findConflict(ctx context.Context, quotationID uuid.UUID, p plannedLine) (*OverlapConflictError, error) {
	active, err := c.rentalRepo.ListActiveBySupport(ctx, p.support.ID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	for _, a := range active {
		if a.QuotationID == quotationID {
			continue
		}
		if rental.Overlaps(p.period.Start, p.period.End, a.StartDate, a.EndDate) {
			return &OverlapConflictError{SupportCode: p.support.Code, Start: a.StartDate, End: a.EndDate}, nil
		}
	}
	return nil, nil
}

// cancelExisting cancels the quotation's previous active rentals so a
// conversion can be re-run safely. Each cancellation leaves a history event.
func (c *convertUseCaseImpl) cancelExisting(ctx context.Context, tx pgx.Tx, quotationID uuid.UUID, actor string) (int, error) {
	existing, err := c.rentalRepo.ListByQuotation(ctx, quotationID)
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	cancelled := 0
	for _, r := range existing {
		if !r.IsActive() {
			continue
		}
		if err := c.rentalRepo.Cancel(ctx, tx, r.ID, c.clock.Now()); err != nil {
			return 0, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		event := rental.HistoryEvent{
			ID:       uuid.New(),
			RentalID: r.ID,
			Action:   rental.HistoryCancelled,
			Detail:   regenerationCancelReason,
			Actor:    actor,
		}
		if err := c.rentalRepo.AppendHistory(ctx, tx, event); err != nil {
			return 0, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		cancelled++
	}
	return cancelled, nil
}

func nextSupportStatus(sup *support.Support, active []rental.Rental, today time.Time) support.Status {
	windows := make([]support.ActiveWindow, 0, len(active))
	for _, r := range active {
		windows = append(windows, support.ActiveWindow{Start: r.StartDate, End: r.EndDate})
	}
	return support.NextStatus(sup.Status, sup.RestoreToConsult, windows, today)
}
