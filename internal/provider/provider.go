// Package provider implements external valuation sources: the boundary the
// valuation core uses to fetch comparable listings.
package provider

import (
	"context"
	"errors"
	"os"

	"github.com/sirupsen/logrus"

	"homeoracle/server/internal/models"
)

var (
	ErrNotFound   = errors.New("listing not found")
	ErrNoEstimate = errors.New("listing has no price estimate")
)

// Provider fetches a comparable listing for an address. A nil listing with a
// nil error means the source has nothing for the address.
type Provider interface {
	FetchComparable(ctx context.Context, address string) (*models.RawListingData, error)
}

// Func adapts a plain function to Provider
type Func func(ctx context.Context, address string) (*models.RawListingData, error)

func (f Func) FetchComparable(ctx context.Context, address string) (*models.RawListingData, error) {
	return f(ctx, address)
}

// Purger is implemented by providers that cache listings
type Purger interface {
	Purge() int
}

// PurgeCaches purges every caching provider and returns the number of listings dropped
func PurgeCaches(providers ...Provider) int {
	total := 0
	for _, p := range providers {
		if purger, ok := p.(Purger); ok {
			total += purger.Purge()
		}
	}
	return total
}

// Jitter supplies bounded random perturbations in [0, max).
type Jitter interface {
	Jitter(max float64) float64
}

func defaultLogger(logger *logrus.Logger) *logrus.Logger {
	if logger != nil {
		return logger
	}
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	return logger
}
