package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeoracle/server/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestJSONClient_FetchComparable(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/properties", r.URL.Path)
		assert.Equal(t, "1 Test St, Sydney", r.URL.Query().Get("address"))
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))

		estimate := int64(1234567)
		bedrooms := 4
		_ = json.NewEncoder(w).Encode(models.RawListingData{
			ID:            "listing-9",
			Address:       "1 Test St, Sydney",
			Bedrooms:      &bedrooms,
			PriceEstimate: &estimate,
			HistoricalPrices: []models.HistoricalPrice{
				{Date: "2025-01-01", Value: 1100000},
			},
		})
	}))
	defer server.Close()

	client := NewJSONClient(server.URL+"/", "secret-key", 5*time.Second, quietLogger())

	listing, err := client.FetchComparable(context.Background(), "1 Test St, Sydney")
	require.NoError(t, err)
	assert.Equal(t, "listing-9", listing.ID)
	require.NotNil(t, listing.PriceEstimate)
	assert.Equal(t, int64(1234567), *listing.PriceEstimate)
	assert.Equal(t, 4, *listing.Bedrooms)
	assert.Len(t, listing.HistoricalPrices, 1)

	// Second lookup with different spacing and case is served from cache.
	cached, err := client.FetchComparable(context.Background(), "1 test st,  sydney")
	require.NoError(t, err)
	assert.Equal(t, listing, cached)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, client.CacheSize())
}

func TestJSONClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewJSONClient(server.URL, "", time.Second, quietLogger())
	listing, err := client.FetchComparable(context.Background(), "Nowhere")

	assert.Nil(t, listing)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, client.CacheSize())
}

func TestJSONClient_ServerErrorAndBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("address") == "broken" {
			_, _ = w.Write([]byte("{not json"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewJSONClient(server.URL, "", time.Second, quietLogger())

	_, err := client.FetchComparable(context.Background(), "1 Test St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")

	_, err = client.FetchComparable(context.Background(), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse listing")
	assert.Equal(t, 0, client.CacheSize())
}

func TestJSONClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewJSONClient(server.URL, "", 5*time.Second, quietLogger())
	_, err := client.FetchComparable(ctx, "1 Test St")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPurgeCaches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}))
	defer server.Close()

	client := NewJSONClient(server.URL, "", time.Second, quietLogger())
	shared := NewRetrying(client, "a", 0, 0, quietLogger())
	other := NewRetrying(client, "b", 0, 0, quietLogger())

	for _, address := range []string{"1 Test St", "2 Test St"} {
		_, err := shared.FetchComparable(context.Background(), address)
		require.NoError(t, err)
	}
	require.Equal(t, 2, client.CacheSize())

	dropped := PurgeCaches(shared, other, NewSynthetic(nil, nil))
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 0, client.CacheSize())
}
