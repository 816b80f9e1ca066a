package carbon

import (
	"fmt"
	"math"
	"strconv"
)

// Round3 rounds v to RoundingPrecision decimals. It rounds the exact binary
// value of v, so 0.0384999... goes down even though v*1000 would be 38.5.
// Exact ties round half to even.
func Round3(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', RoundingPrecision, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// formatFloat formats a float for display.
// If the float is an integer, it is formatted as an integer.
// Otherwise, it is formatted with 2 decimal places.
func formatFloat(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}

// formatFactor formats a table factor with enough precision for small
// transport coefficients.
func formatFactor(f float64) string {
	return fmt.Sprintf("%g", f)
}
