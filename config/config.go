package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Valuation modes
const (
	// ModeOffline synthesises every comparable estimate
	ModeOffline = "offline"
	// ModeDemo queries providers and synthesises estimates for sources that fail
	ModeDemo = "demo"
	// ModeLive requires every provider call to succeed
	ModeLive = "live"
)

// Provider kinds
const (
	ProviderSynthetic = "synthetic"
	ProviderJSON      = "json"
	ProviderHTML      = "html"
)

type Config struct {
	Server struct {
		Port           string   `env:"PORT" envDefault:"5250"`
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	}

	Valuation struct {
		// One of offline, demo or live
		Mode string `env:"VALUATION_MODE" envDefault:"offline"`

		DiscountRate    float64 `env:"DISCOUNT_RATE" envDefault:"0.05"`
		HistoricalYears int     `env:"HISTORICAL_YEARS" envDefault:"5"`
		ProjectionYears int     `env:"PROJECTION_YEARS" envDefault:"5"`

		// Optional YAML file overriding the default comparable sources
		SourcesFile string `env:"SOURCES_FILE"`
	}

	Provider struct {
		// synthetic, json (one listing API for every source) or html (scrape each source's URL)
		Kind          string `env:"PROVIDER_KIND" envDefault:"synthetic"`
		BaseURL       string `env:"PROVIDER_BASE_URL"`
		APIKey        string `env:"PROVIDER_API_KEY"`
		PriceSelector string `env:"PROVIDER_PRICE_SELECTOR" envDefault:"[data-testid=price-estimate]"`

		Timeout    time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
		MaxRetries int           `env:"PROVIDER_MAX_RETRIES" envDefault:"2"`
		RetryDelay time.Duration `env:"PROVIDER_RETRY_DELAY" envDefault:"500ms"`

		// How often cached listings are dropped; 0 keeps them for the process lifetime
		CacheTTL time.Duration `env:"PROVIDER_CACHE_TTL" envDefault:"1h"`
	}

	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all configuration values are usable
func (c *Config) Validate() error {
	switch c.Valuation.Mode {
	case ModeOffline, ModeDemo, ModeLive:
	default:
		return fmt.Errorf("VALUATION_MODE must be one of: offline, demo, live")
	}
	if c.Valuation.DiscountRate == -1 {
		return fmt.Errorf("DISCOUNT_RATE must not be -1")
	}
	if c.Valuation.HistoricalYears < 0 || c.Valuation.ProjectionYears < 0 {
		return fmt.Errorf("HISTORICAL_YEARS and PROJECTION_YEARS must not be negative")
	}

	switch c.Provider.Kind {
	case ProviderSynthetic, ProviderHTML:
	case ProviderJSON:
		if c.Provider.BaseURL == "" {
			return fmt.Errorf("PROVIDER_BASE_URL is required for provider kind json")
		}
	default:
		return fmt.Errorf("PROVIDER_KIND must be one of: synthetic, json, html")
	}
	if c.Provider.MaxRetries < 0 {
		return fmt.Errorf("PROVIDER_MAX_RETRIES must not be negative")
	}
	if c.Provider.CacheTTL < 0 {
		return fmt.Errorf("PROVIDER_CACHE_TTL must not be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("LOG_FORMAT must be one of: json, text")
	}
	return nil
}
