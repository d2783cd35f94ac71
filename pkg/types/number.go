// Package types defines the calculator error type and result formatting.
package types

import (
	"math"
	"strconv"
)

// IsIntegral reports whether v is mathematically an integer.
func IsIntegral(v float64) bool {
	return v == math.Trunc(v) && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// FormatNumber renders an evaluation result for display. Integral values are
// rendered without a decimal point; everything else uses the shortest decimal
// representation that round-trips to the same float64.
func FormatNumber(v float64) string {
	if IsIntegral(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
