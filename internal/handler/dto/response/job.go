package response

import "vialmedia/internal/usecase"

type ScanResponse struct {
	Processed  int `json:"processed"`
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

func FromScanResult(r *usecase.ScanResult) ScanResponse {
	return ScanResponse{
		Processed:  r.Processed,
		Created:    r.Created,
		Duplicates: r.Duplicates,
		Errors:     r.Errors,
	}
}

type SweepResponse struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

func FromSweepResult(r *usecase.SweepResult) SweepResponse {
	return SweepResponse{
		Checked: r.Checked,
		Updated: r.Updated,
		Errors:  r.Errors,
	}
}
