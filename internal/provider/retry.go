package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"homeoracle/server/internal/models"
)

// Retrying wraps a provider and retries failed calls with a fixed delay.
// ErrNotFound is not retried.
type Retrying struct {
	next       Provider
	name       string
	maxRetries int
	delay      time.Duration
	logger     *logrus.Logger
}

// NewRetrying creates a retrying provider
func NewRetrying(next Provider, name string, maxRetries int, delay time.Duration, logger *logrus.Logger) *Retrying {
	return &Retrying{
		next:       next,
		name:       name,
		maxRetries: maxRetries,
		delay:      delay,
		logger:     defaultLogger(logger),
	}
}

func (r *Retrying) FetchComparable(ctx context.Context, address string) (*models.RawListingData, error) {
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			r.logger.WithFields(logrus.Fields{
				"source":  r.name,
				"attempt": attempt,
				"max":     r.maxRetries,
			}).Info("Retrying listing fetch")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.delay):
			}
		}

		var listing *models.RawListingData
		listing, err = r.next.FetchComparable(ctx, address)
		if err == nil {
			return listing, nil
		}
		if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}

		r.logger.WithError(err).WithField("source", r.name).Warn("Listing fetch failed")
	}

	return nil, fmt.Errorf("failed to fetch listing after %d attempts: %w", r.maxRetries+1, err)
}

// Purge forwards to the wrapped provider when it caches listings
func (r *Retrying) Purge() int {
	if p, ok := r.next.(Purger); ok {
		return p.Purge()
	}
	return 0
}
