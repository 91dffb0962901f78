package request

import "vialmedia/internal/domain/quotation"

// DryRunConvertRequest carries the lines a dry-run conversion should evaluate
// instead of the stored quotation lines. An empty body falls back to the
// stored lines.
type DryRunConvertRequest struct {
	Lines []quotation.RawLine `json:"lines"`
}

type CancelRentalRequest struct {
	Reason string `json:"reason" binding:"required"`
}
