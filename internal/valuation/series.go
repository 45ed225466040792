package valuation

import (
	"math"

	"homeoracle/server/internal/models"
)

const (
	historicalBaseGrowth = 0.03
	historicalJitterMax  = 0.02
	projectedBaseGrowth  = 0.04
	projectedJitterMax   = 0.03
)

// Window sets how many years are generated either side of the anchor year
type Window struct {
	HistoricalYears int
	ProjectionYears int
}

// DefaultWindow spans five years back and five years forward
var DefaultWindow = Window{HistoricalYears: 5, ProjectionYears: 5}

// Len is the number of points a series built with this window holds
func (w Window) Len() int {
	return w.historical() + 1 + w.projection()
}

func (w Window) historical() int { return max(w.HistoricalYears, 0) }
func (w Window) projection() int { return max(w.ProjectionYears, 0) }

// BuildSeries expands a base value into a period-ascending series of historical
// values, the current-year anchor and projected values.
//
// Growth for year offset i is a seed-derived term plus a jitter drawn from j:
// historical years discount the base value by (1+g)^i, projected years compound it.
func BuildSeries(baseValue int64, seed Seed, currentYear int, window Window, j JitterSource) models.ValueSeries {
	j = jitterOrNone(j)
	h, p := window.historical(), window.projection()
	series := make(models.ValueSeries, 0, h+1+p)
	base := float64(baseValue)

	for i := h; i >= 1; i-- {
		growth := historicalBaseGrowth + seedGrowth(seed, i) + j.Jitter(historicalJitterMax)
		series = append(series, models.ValuePoint{
			Period:       currentYear - i,
			Value:        round(base / math.Pow(1+growth, float64(i))),
			IsHistorical: true,
		})
	}

	series = append(series, models.ValuePoint{
		Period:       currentYear,
		Value:        baseValue,
		IsHistorical: true,
	})

	for i := 1; i <= p; i++ {
		growth := projectedBaseGrowth + seedGrowth(seed, i+h) + j.Jitter(projectedJitterMax)
		series = append(series, models.ValuePoint{
			Period:       currentYear + i,
			Value:        round(base * math.Pow(1+growth, float64(i))),
			IsHistorical: false,
		})
	}

	return series
}

// seedGrowth is ((seed * k) mod 100) / 200, a growth term in [0, 0.5).
func seedGrowth(seed Seed, k int) float64 {
	v := (int64(seed) * int64(k)) % 100
	if v < 0 {
		v += 100
	}
	return float64(v) / 200
}
