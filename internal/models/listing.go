package models

import (
	"strconv"
	"strings"
)

// RawListingData is a structured listing as returned by an external valuation provider
type RawListingData struct {
	ID               string            `json:"id"`
	Address          string            `json:"address"`
	Suburb           string            `json:"suburb"`
	State            string            `json:"state"`
	Postcode         string            `json:"postcode"`
	PropertyType     string            `json:"property_type"`
	Bedrooms         *int              `json:"bedrooms"`
	Bathrooms        *int              `json:"bathrooms"`
	CarSpaces        *int              `json:"car_spaces"`
	LandSize         *int              `json:"land_size"`
	FloorSize        *int              `json:"floor_size"`
	PriceEstimate    *int64            `json:"price_estimate"`
	LastSalePrice    *int64            `json:"last_sale_price"`
	LastSaleDate     *string           `json:"last_sale_date"`
	HistoricalPrices []HistoricalPrice `json:"historical_prices"`
}

// HistoricalPrice is a provider-native dated price point
type HistoricalPrice struct {
	Date       string `json:"date"`
	Value      int64  `json:"value"`
	IsEstimate bool   `json:"is_estimate"`
}

// Year extracts the year from a YYYY-MM-DD date
func (p HistoricalPrice) Year() (int, bool) {
	head, _, _ := strings.Cut(p.Date, "-")
	year, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return year, true
}

// HasAttributes reports whether the listing carries any structured property attributes
func (l *RawListingData) HasAttributes() bool {
	return l.Bedrooms != nil || l.Bathrooms != nil || l.CarSpaces != nil ||
		l.LandSize != nil || l.PropertyType != ""
}
