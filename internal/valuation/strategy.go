package valuation

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"homeoracle/server/config"
	"homeoracle/server/internal/models"
	"homeoracle/server/internal/provider"
)

// EstimateRequest is what a strategy needs to produce one source's estimate
type EstimateRequest struct {
	Address   string
	BaseValue int64
	Source    config.ComparableSource
}

// SourceResult is one source's outcome. A nil Estimate means the source
// answered but no estimate could be extracted.
type SourceResult struct {
	Estimate *int64
	Listing  *models.RawListingData
}

// EstimateStrategy produces comparable-source estimates
type EstimateStrategy interface {
	Estimate(ctx context.Context, req EstimateRequest) (SourceResult, error)
}

// SyntheticStrategy fabricates an estimate as the base value scaled by a ratio
// drawn from the source's [MinRatio, MaxRatio) band.
type SyntheticStrategy struct {
	Jitter JitterSource
}

func (s SyntheticStrategy) Estimate(ctx context.Context, req EstimateRequest) (SourceResult, error) {
	if err := ctx.Err(); err != nil {
		return SourceResult{}, err
	}
	span := req.Source.MaxRatio - req.Source.MinRatio
	ratio := req.Source.MinRatio + jitterOrNone(s.Jitter).Jitter(span)
	estimate := round(float64(req.BaseValue) * ratio)
	return SourceResult{Estimate: &estimate}, nil
}

// LiveStrategy asks a provider per source. When Fallback is set a failing
// provider is replaced by a synthetic estimate; otherwise the failure is returned.
type LiveStrategy struct {
	Providers map[string]provider.Provider
	Fallback  *SyntheticStrategy
	Logger    *logrus.Logger
}

func (s LiveStrategy) Estimate(ctx context.Context, req EstimateRequest) (SourceResult, error) {
	listing, err := s.fetch(ctx, req)
	if err == nil {
		return SourceResult{Estimate: listing.PriceEstimate, Listing: listing}, nil
	}

	if s.Fallback == nil || ctx.Err() != nil {
		return SourceResult{}, err
	}

	if s.Logger != nil {
		s.Logger.WithError(err).WithField("source", req.Source.Name).Warn("Falling back to synthetic estimate")
	}
	return s.Fallback.Estimate(ctx, req)
}

func (s LiveStrategy) fetch(ctx context.Context, req EstimateRequest) (*models.RawListingData, error) {
	p, ok := s.Providers[req.Source.Name]
	if !ok {
		return nil, fmt.Errorf("%w: no provider configured for %s", ErrProviderUnavailable, req.Source.Name)
	}

	listing, err := p.FetchComparable(ctx, req.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, req.Source.Name, err)
	}
	if listing == nil {
		return nil, fmt.Errorf("%w: %s returned no listing", ErrProviderUnavailable, req.Source.Name)
	}
	return listing, nil
}

// NewStrategy selects the estimate strategy for a valuation mode: offline
// synthesises everything, demo falls back to synthesis on provider failure and
// live requires every provider to answer.
func NewStrategy(mode string, providers map[string]provider.Provider, jitter JitterSource, logger *logrus.Logger) (EstimateStrategy, error) {
	synthetic := SyntheticStrategy{Jitter: jitter}
	switch mode {
	case config.ModeOffline:
		return synthetic, nil
	case config.ModeDemo:
		return LiveStrategy{Providers: providers, Fallback: &synthetic, Logger: logger}, nil
	case config.ModeLive:
		return LiveStrategy{Providers: providers, Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown valuation mode: %s", mode)
	}
}
