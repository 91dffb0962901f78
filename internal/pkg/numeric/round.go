package numeric

import "math"

// Round2 rounds to 2 decimal places, half away from zero. Every monetary
// amount in the pricing and allocation paths goes through this.
func Round2(n float64) float64 {
	return math.Round(n*100) / 100
}
