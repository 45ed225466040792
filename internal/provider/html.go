package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"homeoracle/server/internal/models"
)

// HTMLScraper extracts a price estimate from a listing search page.
type HTMLScraper struct {
	logger        *logrus.Logger
	baseURL       string
	priceSelector string
	client        *http.Client
}

// NewHTMLScraper creates a scraper querying GET {baseURL}/search?q=address and
// reading the first element matching priceSelector.
func NewHTMLScraper(baseURL, priceSelector string, timeout time.Duration, logger *logrus.Logger) *HTMLScraper {
	return &HTMLScraper{
		logger:        defaultLogger(logger),
		baseURL:       strings.TrimRight(baseURL, "/"),
		priceSelector: priceSelector,
		client:        &http.Client{Timeout: timeout},
	}
}

// FetchComparable returns a listing carrying the scraped estimate. A page without
// a readable price yields a listing whose estimate is nil.
func (s *HTMLScraper) FetchComparable(ctx context.Context, address string) (*models.RawListingData, error) {
	params := url.Values{"q": []string{address}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "HomeOracle Valuation Engine/1.0")
	req.Header.Set("Accept-Language", "en-AU,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("address", address).Error("Listing page request failed")
		return nil, fmt.Errorf("listing page request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, address)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("listing page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	listing := &models.RawListingData{Address: address}
	if t := strings.TrimSpace(doc.Find("[data-testid=property-type]").First().Text()); t != "" {
		listing.PropertyType = t
	}

	text := doc.Find(s.priceSelector).First().Text()
	price, err := parsePrice(text)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"address":  address,
			"selector": s.priceSelector,
			"text":     text,
		}).Warn("Could not extract price estimate")
		return listing, nil
	}

	listing.PriceEstimate = &price
	s.logger.WithFields(logrus.Fields{
		"address":  address,
		"estimate": price,
	}).Info("Scraped price estimate")
	return listing, nil
}

// parsePrice reads a currency amount such as "$1,250,000" or "1.2m".
func parsePrice(text string) (int64, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.NewReplacer("$", "", ",", "", " ", "", "aud", "").Replace(t)
	if t == "" {
		return 0, ErrNoEstimate
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(t, "m"):
		multiplier, t = 1e6, strings.TrimSuffix(t, "m")
	case strings.HasSuffix(t, "k"):
		multiplier, t = 1e3, strings.TrimSuffix(t, "k")
	}

	v, err := strconv.ParseFloat(t, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoEstimate, text)
	}
	return roundHalfUp(v * multiplier), nil
}
