package models

import (
	"sort"
	"time"
)

// IdentifyingInput holds the free-text fields a valuation is keyed on
type IdentifyingInput struct {
	Address  string `json:"address"`
	Suburb   string `json:"suburb,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// Fields returns the identifying fields in seed order
func (in IdentifyingInput) Fields() []string {
	return []string{in.Address, in.Suburb, in.Postcode}
}

// ValuePoint is a single year of a value series
type ValuePoint struct {
	Period       int   `json:"year"`
	Value        int64 `json:"value"`
	IsHistorical bool  `json:"is_historical"`
}

// ValueSeries is a period-ascending sequence of value points
type ValueSeries []ValuePoint

// Anchor returns the historical point for the current year, if present
func (s ValueSeries) Anchor(currentYear int) (ValuePoint, bool) {
	for _, p := range s {
		if p.IsHistorical && p.Period == currentYear {
			return p, true
		}
	}
	return ValuePoint{}, false
}

// Future returns the projected (non-historical) points
func (s ValueSeries) Future() ValueSeries {
	future := make(ValueSeries, 0, len(s))
	for _, p := range s {
		if !p.IsHistorical {
			future = append(future, p)
		}
	}
	return future
}

// SortByPeriod orders the series by period ascending in place
func (s ValueSeries) SortByPeriod() {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Period < s[j].Period })
}

// NPVMethod names the formula an NPV figure was produced with
type NPVMethod string

const (
	// NPVAverageDiscounted is the mean of discounted projected values
	NPVAverageDiscounted NPVMethod = "average_discounted_future"
	// NPVNetPresentValue is the sum of discounted projected values less the current value
	NPVNetPresentValue NPVMethod = "net_present_value"
)

type NPVResult struct {
	Value        int64     `json:"value"`
	Method       NPVMethod `json:"method"`
	DiscountRate float64   `json:"discount_rate"`
}

// SourceEstimate is one comparable source's contribution to a valuation
type SourceEstimate struct {
	Name     string `json:"name"`
	Estimate *int64 `json:"estimate"`
	URL      string `json:"url"`
}

type PropertyAttributes struct {
	Bedrooms      *int    `json:"bedrooms,omitempty"`
	Bathrooms     *int    `json:"bathrooms,omitempty"`
	ParkingSpaces *int    `json:"parking_spaces,omitempty"`
	LandSize      *int    `json:"land_size,omitempty"`
	PropertyType  string  `json:"property_type,omitempty"`
	LastSoldPrice *int64  `json:"last_sold_price,omitempty"`
	LastSoldDate  *string `json:"last_sold_date,omitempty"`
}

// ValuationRecord is the multi-source valuation of a single address
type ValuationRecord struct {
	ID             string             `json:"id"`
	Input          IdentifyingInput   `json:"input"`
	EstimatedValue int64              `json:"estimated_value"`
	Attributes     PropertyAttributes `json:"attributes"`
	Sources        []SourceEstimate   `json:"sources"`
	GeneratedAt    time.Time          `json:"generated_at"`
}
