package valuation

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"homeoracle/server/config"
	"homeoracle/server/internal/models"
)

// Composer assembles multi-source valuation records
type Composer struct {
	sources  []config.ComparableSource
	strategy EstimateStrategy
	preset   Preset
	logger   *logrus.Logger
}

// NewComposer creates a composer querying sources in the given order
func NewComposer(sources []config.ComparableSource, strategy EstimateStrategy, preset Preset, logger *logrus.Logger) *Composer {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Composer{
		sources:  sources,
		strategy: strategy,
		preset:   preset,
		logger:   logger,
	}
}

// Compose values an address across all comparable sources. Sources are queried
// concurrently; any source failure aborts the whole composition.
func (c *Composer) Compose(ctx context.Context, address string) (*models.ValuationRecord, error) {
	seed := DeriveSeed(address)
	base := c.preset.Apply(seed)

	results := make([]SourceResult, len(c.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range c.sources {
		g.Go(func() error {
			res, err := c.strategy.Estimate(gctx, EstimateRequest{
				Address:   address,
				BaseValue: base,
				Source:    src,
			})
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.WithError(err).WithField("address", address).Error("Valuation composition failed")
		return nil, fmt.Errorf("%w: %w", ErrValuationUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValuationUnavailable, err)
	}

	sources := make([]models.SourceEstimate, len(c.sources))
	var sum float64
	var available int
	for i, src := range c.sources {
		sources[i] = models.SourceEstimate{
			Name:     src.Name,
			Estimate: results[i].Estimate,
			URL:      src.URL,
		}
		if results[i].Estimate != nil {
			sum += float64(*results[i].Estimate)
			available++
		}
	}

	if available == 0 {
		c.logger.WithField("address", address).Error("No source produced an estimate")
		return nil, fmt.Errorf("%w: no source produced an estimate", ErrValuationUnavailable)
	}

	estimated := round(sum / float64(available))
	attrs := SyntheticAttributes(seed, estimated)
	for _, res := range results {
		if res.Listing != nil && res.Listing.HasAttributes() {
			attrs = mergeListingAttributes(attrs, res.Listing)
			break
		}
	}

	c.logger.WithFields(logrus.Fields{
		"address":         address,
		"seed":            seed,
		"base_value":      base,
		"estimated_value": estimated,
		"sources":         available,
	}).Info("Composed valuation")

	return &models.ValuationRecord{
		ID:             uuid.NewString(),
		Input:          models.IdentifyingInput{Address: address},
		EstimatedValue: estimated,
		Attributes:     attrs,
		Sources:        sources,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}
