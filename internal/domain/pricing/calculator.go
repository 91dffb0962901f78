package pricing

import (
	"strings"

	"vialmedia/internal/pkg/numeric"
)

// Tax exclusion multipliers. The quoted price is assumed to already include
// VAT (13%) and turnover tax (3%); when a line is flagged as not including one
// of them, the subtotal is reduced by that share. Fixed fiscal-regime
// constants, not configurable.
const (
	VATRate         = 0.13
	TurnoverTaxRate = 0.03
)

func pricedPerUnit(unitOfMeasure string) bool {
	switch strings.ToLower(strings.TrimSpace(unitOfMeasure)) {
	case "unidad", "unidades", "unidade", "unit", "units":
		return true
	default:
		return false
	}
}

// UnitPrice computes the final per-unit price with commission included.
// Support rentals and per-unit items use the base price as-is; per-m² items
// scale the base price by width*height first. Taxes are never applied here;
// they belong to the line total.
func UnitPrice(basePrice, commissionPct, width, height float64, isSupport bool, unitOfMeasure string) float64 {
	base := basePrice
	if !isSupport && !pricedPerUnit(unitOfMeasure) {
		base = basePrice * width * height
	}
	return numeric.Round2(base * (1 + commissionPct/100))
}

// LineTotal computes a line's total independently of UnitPrice. Commission is
// computed on the raw subtotal before the tax-exclusion reductions are applied
// to it; the order matters for lines that exclude a tax.
func LineTotal(quantity, areaM2, price, commissionPct float64, vatIncluded, turnoverTaxIncluded, isSupport bool, unitOfMeasure string) float64 {
	var subtotal float64
	if isSupport || pricedPerUnit(unitOfMeasure) {
		subtotal = quantity * price
	} else {
		subtotal = quantity * areaM2 * price
	}

	commission := subtotal * (commissionPct / 100)

	if !vatIncluded {
		subtotal *= 1 - VATRate
	}
	if !turnoverTaxIncluded {
		subtotal *= 1 - TurnoverTaxRate
	}

	return numeric.Round2(subtotal + commission)
}

// AreaM2 is the billed area of a rectangular piece.
func AreaM2(width, height float64) float64 {
	return width * height
}
