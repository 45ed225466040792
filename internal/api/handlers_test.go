package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeoracle/server/config"
	"homeoracle/server/internal/models"
	"homeoracle/server/internal/provider"
	"homeoracle/server/internal/valuation"
)

func fixedNow() time.Time { return time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC) }

func setupRouter(t *testing.T, strategy valuation.EstimateStrategy, listings provider.Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	composer := valuation.NewComposer(config.DefaultSources, strategy, valuation.MultiSourcePreset, logger)
	service := valuation.NewService(composer, valuation.ServiceOptions{
		Window:   valuation.DefaultWindow,
		Jitter:   valuation.NoJitter,
		Listings: listings,
		Now:      fixedNow,
	}, logger)

	router := gin.New()
	SetupRoutes(router, NewHandler(service, valuation.DefaultDiscountRate, time.Second, logger), []string{"*"})
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	router := setupRouter(t, valuation.SyntheticStrategy{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateValuation(t *testing.T) {
	router := setupRouter(t, valuation.SyntheticStrategy{}, nil)

	w := post(router, "/api/valuations", `{"address":"1 Test St"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var record models.ValuationRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "1 Test St", record.Input.Address)
	assert.Len(t, record.Sources, len(config.DefaultSources))
	assert.Positive(t, record.EstimatedValue)
}

func TestCreateValuation_BadRequest(t *testing.T) {
	router := setupRouter(t, valuation.SyntheticStrategy{}, nil)

	for _, body := range []string{`{}`, `{"address":"   "}`, `not json`} {
		w := post(router, "/api/valuations", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "A property address is required", errorMessage(t, w))
	}
}

func TestCreateValuation_ProviderFailure(t *testing.T) {
	failing := provider.Func(func(context.Context, string) (*models.RawListingData, error) {
		return nil, errors.New("connection refused")
	})
	providers := map[string]provider.Provider{}
	for _, src := range config.DefaultSources {
		providers[src.Name] = failing
	}
	strategy, err := valuation.NewStrategy(config.ModeLive, providers, valuation.NoJitter, nil)
	require.NoError(t, err)

	router := setupRouter(t, strategy, nil)
	w := post(router, "/api/valuations", `{"address":"1 Test St"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Failed to value property", errorMessage(t, w))
}

func TestGetHistory(t *testing.T) {
	router := setupRouter(t, valuation.SyntheticStrategy{}, nil)

	w := post(router, "/api/history", `{"address":"1 Test St","suburb":"Sydney","postcode":"2000"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var report valuation.HistoryReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, valuation.Seed(1558), report.Seed)
	assert.Equal(t, int64(501558), report.BaseValue)
	assert.Len(t, report.Series, valuation.DefaultWindow.Len())
	assert.Equal(t, models.NPVAverageDiscounted, report.NPV.Method)
	assert.Equal(t, valuation.DefaultDiscountRate, report.NPV.DiscountRate)
}

func TestGetHistory_Validation(t *testing.T) {
	router := setupRouter(t, valuation.SyntheticStrategy{}, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "missing address", body: `{"suburb":"Sydney"}`, want: http.StatusBadRequest},
		{name: "blank address", body: `{"address":" "}`, want: http.StatusBadRequest},
		{name: "short postcode", body: `{"address":"1 Test St","postcode":"200"}`, want: http.StatusBadRequest},
		{name: "letters in postcode", body: `{"address":"1 Test St","postcode":"20AB"}`, want: http.StatusBadRequest},
		{name: "rate of minus one", body: `{"address":"1 Test St","discount_rate":-1}`, want: http.StatusBadRequest},
		{name: "custom rate", body: `{"address":"1 Test St","discount_rate":0.08}`, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(router, "/api/history", tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGetListingHistory(t *testing.T) {
	router := setupRouter(t, valuation.SyntheticStrategy{}, provider.NewSynthetic(nil, fixedNow))

	w := post(router, "/api/listing-history", `{"address":"1 Test St"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var report valuation.HistoryReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, int64(880000), report.BaseValue)
	assert.Equal(t, models.NPVNetPresentValue, report.NPV.Method)
}

func TestGetListingHistory_Unavailable(t *testing.T) {
	missing := provider.Func(func(context.Context, string) (*models.RawListingData, error) {
		return nil, provider.ErrNotFound
	})
	router := setupRouter(t, valuation.SyntheticStrategy{}, missing)

	w := post(router, "/api/listing-history", `{"address":"1 Test St"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Failed to fetch listing history", errorMessage(t, w))
}

func TestWriteError_Timeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	h := NewHandler(nil, valuation.DefaultDiscountRate, 0, logger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	h.writeError(c, context.DeadlineExceeded, "Failed to value property")

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
