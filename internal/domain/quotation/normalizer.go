package quotation

import (
	"strconv"
	"strings"
)

const defaultUnitOfMeasure = "m²"

// RawLine is a quotation line as submitted at the API boundary. Numeric fields
// arrive as numbers or numeric strings depending on the client, so they are
// typed loosely and coerced during normalization.
type RawLine struct {
	Kind                string            `json:"kind"`
	ProductCode         string            `json:"product_code"`
	Name                string            `json:"name"`
	Description         string            `json:"description"`
	Quantity            any               `json:"quantity"`
	Width               any               `json:"width"`
	Height              any               `json:"height"`
	AreaM2              any               `json:"area_m2"`
	UnitOfMeasure       string            `json:"unit_of_measure"`
	UnitPrice           any               `json:"unit_price"`
	CommissionPct       any               `json:"commission_pct"`
	VATIncluded         *bool             `json:"vat_included"`
	TurnoverTaxIncluded *bool             `json:"turnover_tax_included"`
	IsSupportRental     bool              `json:"is_support_rental"`
	Position            int               `json:"position"`
	Variants            map[string]string `json:"variants"`
	LineTotal           any               `json:"line_total"`
}

type DropReason string

const (
	DropInvalidKind        DropReason = "invalid line kind"
	DropNonPositiveQty     DropReason = "quantity must be positive"
	DropNegativePrice      DropReason = "unit price must not be negative"
	DropNegativeTotal      DropReason = "line total must not be negative"
	DropMissingProductCode DropReason = "support rental line without product code"
)

// LineResult is the per-item outcome of normalization: either a valid
// canonical line or a drop reason. Bad lines never abort the batch.
type LineResult struct {
	Index   int
	Line    Line
	Dropped bool
	Reason  DropReason
}

// NormalizeLines validates and coerces raw lines one by one. Invalid lines are
// dropped and counted, never fatal; deciding whether "everything was invalid"
// is an error belongs to the caller.
func NormalizeLines(raw []RawLine) (valid []Line, results []LineResult) {
	results = make([]LineResult, 0, len(raw))
	for i, r := range raw {
		res := normalizeLine(r, i)
		results = append(results, res)
		if !res.Dropped {
			valid = append(valid, res.Line)
		}
	}
	return valid, results
}

// DroppedCount counts the dropped entries of a normalization pass.
func DroppedCount(results []LineResult) int {
	n := 0
	for _, r := range results {
		if r.Dropped {
			n++
		}
	}
	return n
}

func normalizeLine(r RawLine, index int) LineResult {
	dropped := func(reason DropReason) LineResult {
		return LineResult{Index: index, Dropped: true, Reason: reason}
	}

	kind, ok := normalizeKind(r.Kind)
	if !ok {
		return dropped(DropInvalidKind)
	}

	qty := coerceFloat(r.Quantity)
	if qty <= 0 {
		return dropped(DropNonPositiveQty)
	}

	price := coerceFloat(r.UnitPrice)
	if price < 0 {
		return dropped(DropNegativePrice)
	}

	total := coerceFloat(r.LineTotal)
	if total < 0 {
		return dropped(DropNegativeTotal)
	}

	if r.IsSupportRental && strings.TrimSpace(r.ProductCode) == "" {
		return dropped(DropMissingProductCode)
	}

	uom := strings.TrimSpace(r.UnitOfMeasure)
	if uom == "" {
		uom = defaultUnitOfMeasure
	}

	width := coerceFloat(r.Width)
	height := coerceFloat(r.Height)
	area := coerceFloat(r.AreaM2)
	if area == 0 {
		area = width * height
	}

	position := r.Position
	if position == 0 {
		position = index + 1
	}

	return LineResult{
		Index: index,
		Line: Line{
			Kind:                kind,
			ProductCode:         strings.TrimSpace(r.ProductCode),
			Name:                r.Name,
			Description:         r.Description,
			Quantity:            qty,
			Width:               width,
			Height:              height,
			AreaM2:              area,
			UnitOfMeasure:       uom,
			UnitPrice:           price,
			CommissionPct:       coerceFloat(r.CommissionPct),
			VATIncluded:         boolOrDefault(r.VATIncluded, true),
			TurnoverTaxIncluded: boolOrDefault(r.TurnoverTaxIncluded, true),
			IsSupportRental:     r.IsSupportRental,
			Position:            position,
			Variants:            r.Variants,
			LineTotal:           total,
		},
	}
}

func normalizeKind(kind string) (LineKind, bool) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "product", "producto":
		return KindProduct, true
	case "service", "servicio":
		return KindService, true
	default:
		return "", false
	}
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// coerceFloat accepts JSON numbers and numeric strings; comma decimal
// separators are tolerated. Anything unparsable coerces to 0 and falls to the
// range validations above.
func coerceFloat(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", ".")
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
