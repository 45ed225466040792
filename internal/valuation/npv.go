package valuation

import (
	"fmt"
	"math"

	"homeoracle/server/internal/models"
)

// DefaultDiscountRate is applied when a caller does not supply one
const DefaultDiscountRate = 0.05

// CalculateNPV returns the average of the series' projected values discounted back
// to currentYear. A series without projected points returns the anchor value (0
// when there is no anchor).
func CalculateNPV(series models.ValueSeries, discountRate float64, currentYear int) (models.NPVResult, error) {
	result := models.NPVResult{Method: models.NPVAverageDiscounted, DiscountRate: discountRate}
	if err := checkRate(discountRate); err != nil {
		return result, err
	}

	future := series.Future()
	if len(future) == 0 {
		anchor, _ := series.Anchor(currentYear)
		result.Value = anchor.Value
		return result, nil
	}

	sum := discountedSum(future, discountRate, currentYear)
	avg := sum / float64(len(future))
	if !finite(avg) {
		return result, fmt.Errorf("%w: %v yields non-finite NPV", ErrInvalidDiscountRate, discountRate)
	}
	result.Value = round(avg)
	return result, nil
}

// NetPresentValue applies the net formula to a series: the discounted sum of
// projected values less the anchor value.
func NetPresentValue(series models.ValueSeries, discountRate float64, currentYear int) (models.NPVResult, error) {
	anchor, _ := series.Anchor(currentYear)
	return netPresentValue(series.Future(), float64(anchor.Value), discountRate, currentYear)
}

// CalculateListingNPV computes the net present value of a provider listing.
// Prices dated after currentYear are discounted and summed; the current value is
// the price dated currentYear, else the listing's estimate, and is subtracted.
func CalculateListingNPV(listing models.RawListingData, discountRate float64, currentYear int) (models.NPVResult, error) {
	var future models.ValueSeries
	current, haveCurrent := 0.0, false

	for _, price := range listing.HistoricalPrices {
		year, ok := price.Year()
		if !ok {
			continue
		}
		switch {
		case year > currentYear:
			future = append(future, models.ValuePoint{Period: year, Value: price.Value})
		case year == currentYear && !haveCurrent:
			current, haveCurrent = float64(price.Value), true
		}
	}
	if !haveCurrent && listing.PriceEstimate != nil {
		current = float64(*listing.PriceEstimate)
	}

	return netPresentValue(future, current, discountRate, currentYear)
}

// ListingSeries converts a provider listing into a period-ascending value series.
// Points up to and including currentYear are historical.
func ListingSeries(listing models.RawListingData, currentYear int) models.ValueSeries {
	series := make(models.ValueSeries, 0, len(listing.HistoricalPrices))
	for _, price := range listing.HistoricalPrices {
		year, ok := price.Year()
		if !ok {
			continue
		}
		series = append(series, models.ValuePoint{
			Period:       year,
			Value:        price.Value,
			IsHistorical: year <= currentYear,
		})
	}
	series.SortByPeriod()
	return series
}

func netPresentValue(future models.ValueSeries, current, discountRate float64, currentYear int) (models.NPVResult, error) {
	result := models.NPVResult{Method: models.NPVNetPresentValue, DiscountRate: discountRate}
	if err := checkRate(discountRate); err != nil {
		return result, err
	}

	npv := discountedSum(future, discountRate, currentYear) - current
	if !finite(npv) {
		return result, fmt.Errorf("%w: %v yields non-finite NPV", ErrInvalidDiscountRate, discountRate)
	}
	result.Value = round(npv)
	return result, nil
}

func discountedSum(points models.ValueSeries, discountRate float64, currentYear int) float64 {
	var sum float64
	for _, p := range points {
		years := float64(p.Period - currentYear)
		sum += float64(p.Value) / math.Pow(1+discountRate, years)
	}
	return sum
}

func checkRate(rate float64) error {
	if rate == -1 || !finite(rate) {
		return fmt.Errorf("%w: %v", ErrInvalidDiscountRate, rate)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
