package quotation

import "github.com/google/uuid"

type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Quotation is a read-only input to the occupancy engine: it is created and
// edited by the sales flow, which lives outside this service.
type Quotation struct {
	ID       uuid.UUID
	Code     string
	Status   Status
	Client   string
	Vendor   string
	Currency string
	Total    float64
}

type LineKind string

const (
	KindProduct LineKind = "product"
	KindService LineKind = "service"
)

// Line is the canonical, validated shape of a quotation line. Everything past
// the API boundary works with this type; raw payloads go through
// NormalizeLines first.
type Line struct {
	Kind                LineKind
	ProductCode         string
	Name                string
	Description         string
	Quantity            float64
	Width               float64
	Height              float64
	AreaM2              float64
	UnitOfMeasure       string
	UnitPrice           float64
	CommissionPct       float64
	VATIncluded         bool
	TurnoverTaxIncluded bool
	IsSupportRental     bool
	Position            int
	Variants            map[string]string
	LineTotal           float64
}
