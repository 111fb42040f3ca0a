package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/venuepulse/internal/data/cache"
)

func testClient(baseURL string) *Client {
	cfg := DefaultClientConfig(baseURL)
	cfg.RPS = 1000
	cfg.Burst = 1000
	return NewClient(cfg, cache.New())
}

func TestClientFetchSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/history", r.URL.Path)
		assert.Equal(t, "^VIX", r.URL.Query().Get("ticker"))
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		w.Write([]byte(`{"history": [
			{"date": "2026-08-21", "value": 16.0},
			{"date": "2026-08-22", "value": 17.5},
			{"date": "2026-08-23", "value": 20.0}
		]}`))
	}))
	defer srv.Close()

	series, err := testClient(srv.URL).Fetch(context.Background(), "^VIX", 30)
	require.NoError(t, err)
	assert.Equal(t, "^VIX", series.Ticker)
	assert.Equal(t, []float64{16.0, 17.5, 20.0}, series.Closes())

	require.NotNil(t, series.Last)
	assert.InDelta(t, 20.0, *series.Last, 1e-9)
	require.NotNil(t, series.ChangePct)
	assert.InDelta(t, 25.0, *series.ChangePct, 1e-9)
}

func TestClientFetchEmptySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"history": []}`))
	}))
	defer srv.Close()

	series, err := testClient(srv.URL).Fetch(context.Background(), "GC=F", 30)
	require.NoError(t, err)
	assert.Empty(t, series.Closes())
	assert.Nil(t, series.Last)
	assert.Nil(t, series.ChangePct)
}

func TestClientFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background(), "GC=F", 30)
	assert.Error(t, err)
}
