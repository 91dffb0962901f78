package rental

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Rental is one occupancy of an advertising support, generated from an
// approved quotation line.
type Rental struct {
	ID          uuid.UUID
	Code        string
	QuotationID uuid.UUID
	SupportID   uuid.UUID
	SupportCode string
	Client      string
	Vendor      string
	StartDate   time.Time
	EndDate     time.Time
	Months      float64
	Total       float64
	Status      Status
	CreatedAt   time.Time
	CancelledAt *time.Time
}

func (r Rental) IsActive() bool {
	return r.Status == StatusActive
}

// Overlaps reports whether two date ranges intersect. Both endpoints are
// inclusive: a rental ending on the day another starts is a conflict.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return !start1.After(end2) && !start2.After(end1)
}

type HistoryAction string

const (
	HistoryCreated   HistoryAction = "created"
	HistoryCancelled HistoryAction = "cancelled"
)

// HistoryEvent is an append-only audit record of a rental lifecycle change.
type HistoryEvent struct {
	ID        uuid.UUID
	RentalID  uuid.UUID
	Action    HistoryAction
	Detail    string
	Actor     string
	CreatedAt time.Time
}
