package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"vialmedia/internal/domain/rental"
	"vialmedia/internal/domain/support"
	"vialmedia/internal/pkg/errs"
	"vialmedia/internal/pkg/numeric"
)

type ReportDimension string

const (
	DimensionVendor  ReportDimension = "vendor"
	DimensionClient  ReportDimension = "client"
	DimensionSupport ReportDimension = "support"
	DimensionCity    ReportDimension = "city"
	DimensionStatus  ReportDimension = "status"
)

func ParseReportDimension(s string) (ReportDimension, error) {
	switch ReportDimension(s) {
	case DimensionVendor, DimensionClient, DimensionSupport, DimensionCity, DimensionStatus:
		return ReportDimension(s), nil
	default:
		return "", ErrInvalidReportDimension
	}
}

// Bucket is one row of an occupancy report. Amount carries allocated revenue
// for revenue dimensions; for the status dimension it is zero and Count is the
// number of supports.
type Bucket struct {
	Key    string
	Amount float64
	Count  int
}

type OccupancyReport struct {
	From      time.Time
	To        time.Time
	Dimension ReportDimension
	Buckets   []Bucket
	Total     float64
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

type ReportQueries interface {
	Occupancy(ctx context.Context, from, to time.Time, dimension ReportDimension) (*OccupancyReport, error)
	ActiveDateRange(ctx context.Context) (*DateRange, error)
}

type reportQueriesImpl struct {
	rentalRepo  RentalRepository
	supportRepo SupportRepository
}

func NewReportQueries(rentalRepo RentalRepository, supportRepo SupportRepository) ReportQueries {
	return &reportQueriesImpl{rentalRepo: rentalRepo, supportRepo: supportRepo}
}

// Occupancy allocates each active rental's revenue to the report window in
// proportion to the days of the rental that fall inside it, then aggregates by
// the requested dimension. A zero from or to leaves that end of the window
// open; with no window at all each rental contributes its full span. A rental
// month is billed as 30 days regardless of the calendar month it spans.
func (r *reportQueriesImpl) Occupancy(ctx context.Context, from, to time.Time, dimension ReportDimension) (*OccupancyReport, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, ErrInvalidDateRange
	}

	if dimension == DimensionStatus {
		return r.statusReport(ctx, from, to)
	}

	rentals, err := r.rentalRepo.ListActive(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	supportsByID := map[string]*support.Support{}
	if dimension == DimensionCity {
		supports, err := r.supportRepo.ListAll(ctx)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for i := range supports {
			supportsByID[supports[i].ID.String()] = &supports[i]
		}
	}

	amounts := map[string]float64{}
	counts := map[string]int{}
	total := 0.0

	for _, rent := range rentals {
		contribution := AllocatedRevenue(rent, from, to)
		if contribution == 0 {
			continue
		}

		key := ""
		switch dimension {
		case DimensionVendor:
			key = rent.Vendor
		case DimensionClient:
			key = rent.Client
		case DimensionSupport:
			key = rent.SupportCode
		case DimensionCity:
			if sup, ok := supportsByID[rent.SupportID.String()]; ok {
				key = sup.City
			}
		}
		if key == "" {
			key = "(unknown)"
		}

		amounts[key] += contribution
		counts[key]++
		total += contribution
	}

	buckets := make([]Bucket, 0, len(amounts))
	for key, amount := range amounts {
		buckets = append(buckets, Bucket{Key: key, Amount: numeric.Round2(amount), Count: counts[key]})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Amount != buckets[j].Amount {
			return buckets[i].Amount > buckets[j].Amount
		}
		return buckets[i].Key < buckets[j].Key
	})

	return &OccupancyReport{
		From:      from,
		To:        to,
		Dimension: dimension,
		Buckets:   buckets,
		Total:     numeric.Round2(total),
	}, nil
}

// statusReport counts supports per status. Supports marked unavailable are
// administrative noise and stay out of occupancy figures.
func (r *reportQueriesImpl) statusReport(ctx context.Context, from, to time.Time) (*OccupancyReport, error) {
	supports, err := r.supportRepo.ListAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	counts := map[string]int{}
	for _, sup := range supports {
		if sup.Status == support.StatusUnavailable {
			continue
		}
		counts[string(sup.Status)]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for key, count := range counts {
		buckets = append(buckets, Bucket{Key: key, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})

	return &OccupancyReport{From: from, To: to, Dimension: DimensionStatus, Buckets: buckets}, nil
}

func (r *reportQueriesImpl) ActiveDateRange(ctx context.Context) (*DateRange, error) {
	start, end, err := r.rentalRepo.ActiveDateRange(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &DateRange{Start: start, End: end}, nil
}

// AllocatedRevenue is the share of a rental's total that falls inside the
// window. A zero from or to falls back to the rental's own start or end, so an
// absent window allocates the full span. The daily price divides the monthly
// price by 30; the overlap day count is inclusive on both ends.
func AllocatedRevenue(r rental.Rental, from, to time.Time) float64 {
	if r.Months <= 0 {
		return 0
	}

	overlapStart := r.StartDate
	if !from.IsZero() && from.After(overlapStart) {
		overlapStart = from
	}
	overlapEnd := r.EndDate
	if !to.IsZero() && to.Before(overlapEnd) {
		overlapEnd = to
	}
	if overlapStart.After(overlapEnd) {
		return 0
	}

	days := int(math.Ceil(overlapEnd.Sub(overlapStart).Hours()/24)) + 1
	daily := (r.Total / r.Months) / 30
	return numeric.Round2(daily * float64(days))
}
