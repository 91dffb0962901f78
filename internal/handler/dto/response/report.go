package response

import "vialmedia/internal/usecase"

type BucketResponse struct {
	Key    string  `json:"key"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

type OccupancyReportResponse struct {
	From      string           `json:"from"`
	To        string           `json:"to"`
	Dimension string           `json:"dimension"`
	Buckets   []BucketResponse `json:"buckets"`
	Total     float64          `json:"total"`
}

func FromOccupancyReport(r *usecase.OccupancyReport) OccupancyReportResponse {
	buckets := make([]BucketResponse, len(r.Buckets))
	for i, b := range r.Buckets {
		buckets[i] = BucketResponse{Key: b.Key, Amount: b.Amount, Count: b.Count}
	}
	resp := OccupancyReportResponse{
		Dimension: string(r.Dimension),
		Buckets:   buckets,
		Total:     r.Total,
	}
	if !r.From.IsZero() {
		resp.From = r.From.Format(dateLayout)
	}
	if !r.To.IsZero() {
		resp.To = r.To.Format(dateLayout)
	}
	return resp
}

type DateRangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func FromDateRange(d *usecase.DateRange) DateRangeResponse {
	resp := DateRangeResponse{}
	if !d.Start.IsZero() {
		resp.Start = d.Start.Format(dateLayout)
	}
	if !d.End.IsZero() {
		resp.End = d.End.Format(dateLayout)
	}
	return resp
}
