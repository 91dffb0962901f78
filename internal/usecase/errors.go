package usecase

import (
	"fmt"
	"time"

	"vialmedia/internal/pkg/errs"
)

var (
	ErrQuotationNotFound       = errs.New("quotation not found")
	ErrNoRentalLines           = errs.New("quotation has no support rental lines")
	ErrRentalNotFound          = errs.New("rental not found")
	ErrRentalAlreadyCancelled  = errs.New("rental already cancelled")
	ErrSupportNotFound         = errs.New("support not found")
	ErrOverlapConflict         = errs.New("rental period overlaps an existing rental")
	ErrAllLinesInvalid         = errs.New("no valid lines in request")
	ErrInvalidStatusFilter     = errs.New("invalid rental status filter")
	ErrInvalidReportDimension  = errs.New("invalid report dimension")
	ErrInvalidDateRange        = errs.New("invalid date range")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// SupportNotFoundError names the missing support so batch verification can
// report which line failed. It matches ErrSupportNotFound under errors.Is.
type SupportNotFoundError struct {
	SupportCode string
}

func (e *SupportNotFoundError) Error() string {
	return fmt.Sprintf("support %q not found", e.SupportCode)
}

func (e *SupportNotFoundError) Unwrap() error {
	return ErrSupportNotFound
}

// OverlapConflictError carries the conflicting window. It matches
// ErrOverlapConflict under errors.Is.
type OverlapConflictError struct {
	SupportCode string
	Start       time.Time
	End         time.Time
}

func (e *OverlapConflictError) Error() string {
	return fmt.Sprintf("support %q already rented between %s and %s",
		e.SupportCode, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

func (e *OverlapConflictError) Unwrap() error {
	return ErrOverlapConflict
}
