package rental

import (
	"regexp"
	"time"
)

// Period is the billing window of a rental. Months keeps fractional values:
// a half-month rental is 0.5, never rounded up.
type Period struct {
	Start  time.Time
	End    time.Time
	Months float64
}

const periodDateLayout = "2006-01-02"

var periodPattern = regexp.MustCompile(`Del (\d{4}-\d{2}-\d{2}) al (\d{4}-\d{2}-\d{2})`)

// DerivePeriod extracts the rental window from a line description of the form
// "Del 2025-03-01 al 2025-08-31". The line quantity is the number of months
// when positive; otherwise months are derived from the dates themselves. When
// the description carries no window the period starts today: half a month runs
// 15 days, anything else runs whole calendar months.
func DerivePeriod(description string, quantity float64, today time.Time) Period {
	if m := periodPattern.FindStringSubmatch(description); m != nil {
		start, errS := time.Parse(periodDateLayout, m[1])
		end, errE := time.Parse(periodDateLayout, m[2])
		if errS == nil && errE == nil && !end.Before(start) {
			months := quantity
			if months <= 0 {
				months = monthsBetween(start, end)
			}
			return Period{Start: start, End: end, Months: months}
		}
	}

	months := quantity
	if months <= 0 {
		months = 1
	}

	start := today
	var end time.Time
	if months == 0.5 {
		end = start.AddDate(0, 0, 15)
	} else {
		end = start.AddDate(0, int(months), 0)
	}
	return Period{Start: start, End: end, Months: months}
}

// monthsBetween approximates the month count of a date range. Both endpoints
// are billed, so an inclusive count of exactly 15 days is the half-month case;
// everything else counts calendar months with a floor of one.
func monthsBetween(start, end time.Time) float64 {
	days := int(end.Sub(start).Hours()/24) + 1
	if days == 15 {
		return 0.5
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 1 {
		return 1
	}
	return float64(months)
}
