package support

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusReserved    Status = "reserved"
	StatusUnavailable Status = "unavailable"
	StatusToConsult   Status = "to_consult"
)

// Support is a physical advertising structure (billboard, wall, screen).
type Support struct {
	ID               uuid.UUID
	Code             string
	Title            string
	Type             string
	City             string
	Address          string
	WidthM           float64
	HeightM          float64
	MonthlyPrice     float64
	Status           Status
	RestoreToConsult bool
	OwnerName        string
}

// ActiveWindow is the slice of a rental that status derivation needs.
type ActiveWindow struct {
	Start time.Time
	End   time.Time
}

// NextStatus derives the status a support should have given its active rental
// windows as of today. Manual states win: reserved and unavailable are never
// changed automatically. A support flagged to_consult keeps that status while
// it has no active rentals, and returns to it when the flag is set.
func NextStatus(current Status, restoreToConsult bool, windows []ActiveWindow, today time.Time) Status {
	if current == StatusReserved || current == StatusUnavailable {
		return current
	}

	if current == StatusToConsult && len(windows) == 0 {
		return StatusToConsult
	}

	for _, w := range windows {
		if !today.Before(w.Start) && !today.After(w.End) {
			return StatusOccupied
		}
	}

	if restoreToConsult {
		return StatusToConsult
	}
	return StatusAvailable
}
