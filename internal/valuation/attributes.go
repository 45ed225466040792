package valuation

import (
	"fmt"

	"homeoracle/server/internal/models"
)

var propertyTypes = [...]string{"House", "Apartment", "Townhouse"}

// SyntheticAttributes buckets the seed into plausible property attributes.
// The last sold price is 80% of the estimated value.
func SyntheticAttributes(seed Seed, estimatedValue int64) models.PropertyAttributes {
	s := int64(seed)
	if s < 0 {
		s = -s
	}

	bedrooms := int(3 + s%3)
	bathrooms := int(1 + s%3)
	parking := int(s % 3)
	landSize := int(300 + s%500)
	lastSoldPrice := round(float64(estimatedValue) * 0.8)
	lastSoldDate := fmt.Sprintf("%d-%02d-%02d", 2018+s%5, 1+s%12, 1+s%28)

	return models.PropertyAttributes{
		Bedrooms:      &bedrooms,
		Bathrooms:     &bathrooms,
		ParkingSpaces: &parking,
		LandSize:      &landSize,
		PropertyType:  propertyTypes[s%3],
		LastSoldPrice: &lastSoldPrice,
		LastSoldDate:  &lastSoldDate,
	}
}

// mergeListingAttributes overlays whatever attributes a provider listing carries
func mergeListingAttributes(attrs models.PropertyAttributes, l *models.RawListingData) models.PropertyAttributes {
	if l.Bedrooms != nil {
		attrs.Bedrooms = l.Bedrooms
	}
	if l.Bathrooms != nil {
		attrs.Bathrooms = l.Bathrooms
	}
	if l.CarSpaces != nil {
		attrs.ParkingSpaces = l.CarSpaces
	}
	if l.LandSize != nil {
		attrs.LandSize = l.LandSize
	}
	if l.PropertyType != "" {
		attrs.PropertyType = l.PropertyType
	}
	if l.LastSalePrice != nil {
		attrs.LastSoldPrice = l.LastSalePrice
	}
	if l.LastSaleDate != nil {
		attrs.LastSoldDate = l.LastSaleDate
	}
	return attrs
}
