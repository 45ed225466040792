package valuation

import "errors"

var (
	ErrInvalidDiscountRate  = errors.New("invalid discount rate")
	ErrProviderUnavailable  = errors.New("valuation provider unavailable")
	ErrValuationUnavailable = errors.New("valuation unavailable")
)
