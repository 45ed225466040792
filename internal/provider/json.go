package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"homeoracle/server/internal/models"
)

// JSONClient fetches structured listings from an HTTP JSON listing API.
type JSONClient struct {
	logger    *logrus.Logger
	baseURL   string
	apiKey    string
	client    *http.Client
	cache     map[string]*models.RawListingData
	cacheLock sync.RWMutex
}

// NewJSONClient creates a listing API client. The API key, when set, is sent as a bearer token.
func NewJSONClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) *JSONClient {
	return &JSONClient{
		logger:  defaultLogger(logger),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		cache:   make(map[string]*models.RawListingData),
	}
}

func cacheKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// FetchComparable looks the address up in the cache, then queries GET /properties?address=...
func (c *JSONClient) FetchComparable(ctx context.Context, address string) (*models.RawListingData, error) {
	key := cacheKey(address)

	c.cacheLock.RLock()
	if listing, ok := c.cache[key]; ok {
		c.cacheLock.RUnlock()
		c.logger.WithFields(logrus.Fields{
			"address": address,
			"source":  "cache",
		}).Debug("Found listing in cache")
		return listing, nil
	}
	c.cacheLock.RUnlock()

	params := url.Values{"address": []string{address}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/properties?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "HomeOracle Valuation Engine/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("address", address).Error("Listing request failed")
		return nil, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.logger.WithField("address", address).Warn("No listing found")
		return nil, fmt.Errorf("%w: %s", ErrNotFound, address)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("listing API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var listing models.RawListingData
	if err := json.Unmarshal(body, &listing); err != nil {
		c.logger.WithError(err).WithField("address", address).Error("Failed to parse listing")
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"address":     address,
		"listing_id":  listing.ID,
		"price_count": len(listing.HistoricalPrices),
		"source":      "api",
	}).Info("Fetched listing")

	c.cacheLock.Lock()
	c.cache[key] = &listing
	c.cacheLock.Unlock()

	return &listing, nil
}

// Purge drops every cached listing and returns how many were removed
func (c *JSONClient) Purge() int {
	c.cacheLock.Lock()
	defer c.cacheLock.Unlock()
	n := len(c.cache)
	c.cache = make(map[string]*models.RawListingData)
	return n
}

// CacheSize returns the number of cached listings
func (c *JSONClient) CacheSize() int {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()
	return len(c.cache)
}
