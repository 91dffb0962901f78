package response

import (
	"time"

	"vialmedia/internal/domain/rental"
	"vialmedia/internal/usecase"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type RentalResponse struct {
	ID          string  `json:"id,omitempty"`
	Code        string  `json:"code,omitempty"`
	QuotationID string  `json:"quotation_id,omitempty"`
	SupportID   string  `json:"support_id"`
	SupportCode string  `json:"support_code"`
	Client      string  `json:"client,omitempty"`
	Vendor      string  `json:"vendor,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Months      float64 `json:"months"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
	CancelledAt *string `json:"cancelled_at,omitempty"`
}

func FromRental(r rental.Rental) RentalResponse {
	resp := RentalResponse{
		Code:        r.Code,
		SupportCode: r.SupportCode,
		Client:      r.Client,
		Vendor:      r.Vendor,
		StartDate:   r.StartDate.Format(dateLayout),
		EndDate:     r.EndDate.Format(dateLayout),
		Months:      r.Months,
		Total:       r.Total,
		Status:      string(r.Status),
	}
	if r.ID != uuid.Nil {
		resp.ID = r.ID.String()
	}
	if r.QuotationID != uuid.Nil {
		resp.QuotationID = r.QuotationID.String()
	}
	if r.SupportID != uuid.Nil {
		resp.SupportID = r.SupportID.String()
	}
	if r.CancelledAt != nil {
		s := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &s
	}
	return resp
}

func FromRentals(rentals []rental.Rental) []RentalResponse {
	out := make([]RentalResponse, len(rentals))
	for i, r := range rentals {
		out[i] = FromRental(r)
	}
	return out
}

type ConvertResponse struct {
	Rentals   []RentalResponse `json:"rentals"`
	Cancelled int              `json:"cancelled"`
	DryRun    bool             `json:"dry_run"`
}

func FromConvertResult(res *usecase.ConvertResult) ConvertResponse {
	return ConvertResponse{
		Rentals:   FromRentals(res.Rentals),
		Cancelled: res.Cancelled,
		DryRun:    res.DryRun,
	}
}

type PlannedRentalResponse struct {
	SupportCode string  `json:"support_code"`
	SupportID   string  `json:"support_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Months      float64 `json:"months"`
	Total       float64 `json:"total"`
	Conflict    string  `json:"conflict,omitempty"`
}

type PreviewResponse struct {
	QuotationID string                  `json:"quotation_id"`
	Planned     []PlannedRentalResponse `json:"planned"`
	Existing    int                     `json:"existing_active_rentals"`
}

func FromPreview(p *usecase.ConvertPreview) PreviewResponse {
	planned := make([]PlannedRentalResponse, len(p.Planned))
	for i, pr := range p.Planned {
		planned[i] = PlannedRentalResponse{
			SupportCode: pr.SupportCode,
			SupportID:   pr.SupportID.String(),
			StartDate:   pr.StartDate,
			EndDate:     pr.EndDate,
			Months:      pr.Months,
			Total:       pr.Total,
			Conflict:    pr.Conflict,
		}
	}
	return PreviewResponse{
		QuotationID: p.QuotationID.String(),
		Planned:     planned,
		Existing:    p.Existing,
	}
}

type HistoryEventResponse struct {
	Action    string `json:"action"`
	Detail    string `json:"detail"`
	Actor     string `json:"actor"`
	CreatedAt string `json:"created_at"`
}

func FromHistory(events []rental.HistoryEvent) []HistoryEventResponse {
	out := make([]HistoryEventResponse, len(events))
	for i, e := range events {
		out[i] = HistoryEventResponse{
			Action:    string(e.Action),
			Detail:    e.Detail,
			Actor:     e.Actor,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
	}
	return out
}
