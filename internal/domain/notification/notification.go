package notification

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	// TypeCodeRentalEndingSoon is the cron-origin type for rentals whose end
	// date falls inside the upcoming-expiry window.
	TypeCodeRentalEndingSoon = "alquiler_proximo_finalizar"

	// EntityTypeRental is the entity discriminator notifications about
	// rentals carry; deduplication keys on it.
	EntityTypeRental = "alquiler"
)

// Type is a configurable notification category. Cron jobs only emit types
// whose origin is "cron" and that are enabled.
type Type struct {
	ID      uuid.UUID
	Code    string
	Origin  string
	Enabled bool
	Roles   []string
}

// Notification is one message, visible to every role it carries. At most one
// notification exists per (entity type, entity, type code) tuple.
type Notification struct {
	ID         uuid.UUID
	TypeCode   string
	Title      string
	Body       string
	Priority   Priority
	Roles      []string
	EntityType string
	EntityID   uuid.UUID
	CreatedAt  time.Time
}

// PriorityForDaysRemaining maps how soon a rental ends to a priority: three
// days or fewer is high, the rest of the window is medium.
func PriorityForDaysRemaining(days int) Priority {
	if days <= 3 {
		return PriorityHigh
	}
	return PriorityMedium
}
