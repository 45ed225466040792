package provider

import (
	"time"

	"github.com/sirupsen/logrus"

	"homeoracle/server/config"
)

// ForSources builds one retrying provider per comparable source, keyed by source name
func ForSources(cfg *config.Config, sources []config.ComparableSource, jitter Jitter, now func() time.Time, logger *logrus.Logger) map[string]Provider {
	logger = defaultLogger(logger)

	var shared Provider
	switch cfg.Provider.Kind {
	case config.ProviderJSON:
		shared = NewJSONClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Timeout, logger)
	case config.ProviderSynthetic:
		shared = NewSynthetic(jitter, now)
	}

	providers := make(map[string]Provider, len(sources))
	for _, src := range sources {
		p := shared
		if cfg.Provider.Kind == config.ProviderHTML {
			p = NewHTMLScraper(src.URL, cfg.Provider.PriceSelector, cfg.Provider.Timeout, logger)
		}
		providers[src.Name] = NewRetrying(p, src.Name, cfg.Provider.MaxRetries, cfg.Provider.RetryDelay, logger)
	}
	return providers
}

// ForListings builds the provider used for structured listing history. Only the
// JSON listing API returns price history; every other kind uses synthetic listings.
func ForListings(cfg *config.Config, jitter Jitter, now func() time.Time, logger *logrus.Logger) Provider {
	if cfg.Provider.Kind == config.ProviderJSON {
		logger = defaultLogger(logger)
		client := NewJSONClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Timeout, logger)
		return NewRetrying(client, "listings", cfg.Provider.MaxRetries, cfg.Provider.RetryDelay, logger)
	}
	return NewSynthetic(jitter, now)
}
