package valuation

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"homeoracle/server/internal/models"
	"homeoracle/server/internal/provider"
)

// HistoryReport is a value series together with its NPV summary
type HistoryReport struct {
	Input     models.IdentifyingInput `json:"input"`
	Seed      Seed                    `json:"seed"`
	BaseValue int64                   `json:"base_value"`
	Series    models.ValueSeries      `json:"series"`
	NPV       models.NPVResult        `json:"npv"`
}

// ServiceOptions configures a Service. A nil Now uses time.Now and a nil Jitter uses NoJitter.
type ServiceOptions struct {
	Window   Window
	Jitter   JitterSource
	Listings provider.Provider
	Now      func() time.Time
}

// Service ties the valuation functions to a clock, jitter source and providers
type Service struct {
	composer *Composer
	window   Window
	jitter   JitterSource
	listings provider.Provider
	now      func() time.Time
	logger   *logrus.Logger
}

// NewService creates a new valuation service
func NewService(composer *Composer, opts ServiceOptions, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		composer: composer,
		window:   opts.Window,
		jitter:   jitterOrNone(opts.Jitter),
		listings: opts.Listings,
		now:      opts.Now,
		logger:   logger,
	}
}

// CurrentYear is the anchor year used for series and NPV
func (s *Service) CurrentYear() int {
	return s.now().Year()
}

// History builds the seeded value series for an input and its average discounted NPV
func (s *Service) History(ctx context.Context, input models.IdentifyingInput, discountRate float64) (*HistoryReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	year := s.CurrentYear()
	seed := DeriveSeed(input.Fields()...)
	base := AddressOnlyPreset.Apply(seed)
	series := BuildSeries(base, seed, year, s.window, s.jitter)

	npv, err := CalculateNPV(series, discountRate, year)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"address":    input.Address,
		"seed":       seed,
		"base_value": base,
		"points":     len(series),
		"npv":        npv.Value,
	}).Info("Built value history")

	return &HistoryReport{
		Input:     input,
		Seed:      seed,
		BaseValue: base,
		Series:    series,
		NPV:       npv,
	}, nil
}

// ListingHistory fetches a structured listing and reports its series with the net NPV
func (s *Service) ListingHistory(ctx context.Context, input models.IdentifyingInput, discountRate float64) (*HistoryReport, error) {
	if s.listings == nil {
		return nil, fmt.Errorf("%w: no listing provider configured", ErrProviderUnavailable)
	}

	listing, err := s.listings.FetchComparable(ctx, input.Address)
	if err != nil {
		s.logger.WithError(err).WithField("address", input.Address).Error("Listing fetch failed")
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if listing == nil {
		return nil, fmt.Errorf("%w: no listing for %s", ErrProviderUnavailable, input.Address)
	}

	year := s.CurrentYear()
	npv, err := CalculateListingNPV(*listing, discountRate, year)
	if err != nil {
		return nil, err
	}

	report := &HistoryReport{
		Input:  input,
		Seed:   DeriveSeed(input.Fields()...),
		Series: ListingSeries(*listing, year),
		NPV:    npv,
	}
	if listing.PriceEstimate != nil {
		report.BaseValue = *listing.PriceEstimate
	}
	return report, nil
}

// Valuation composes the multi-source valuation record for an address
func (s *Service) Valuation(ctx context.Context, address string) (*models.ValuationRecord, error) {
	return s.composer.Compose(ctx, address)
}
