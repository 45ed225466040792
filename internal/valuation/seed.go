// Package valuation derives synthetic property valuations: seeded base values,
// historical and projected value series, NPV summaries and multi-source
// valuation records.
package valuation

import (
	"math"
	"strings"
)

// Seed is a deterministic integer derived from identifying text
type Seed int64

// DeriveSeed sums the character codes of the fields concatenated in order.
// Empty or whitespace-only input yields 0.
func DeriveSeed(fields ...string) Seed {
	joined := strings.Join(fields, "")
	if strings.TrimSpace(joined) == "" {
		return 0
	}

	var seed Seed
	for _, r := range joined {
		seed += Seed(r)
	}
	return seed
}

// round matches half-up rounding so negative halves round towards +Inf.
func round(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
