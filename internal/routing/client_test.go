package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/logfrete/freight-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.RoutingConfig{
		Enabled: true,
		BaseURL: baseURL,
		Timeout: 5,
	}, zap.NewNop())
}

func TestLookupConvertsUnits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/driving/")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":780500,"duration":27000}]}`))
	}))
	defer srv.Close()

	dto, err := newTestClient(srv.URL).Lookup(context.Background(), "-48.27,-18.91", "-46.33,-23.96")
	require.NoError(t, err)
	assert.InDelta(t, 780.5, dto.DistanceKm, 0.001)
	assert.InDelta(t, 450.0, dto.DurationMinutes, 0.001)
}

func TestLookupNoRouteFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestLookupUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestLookupDisabled(t *testing.T) {
	c := NewClient(&config.RoutingConfig{Enabled: false}, zap.NewNop())

	assert.False(t, c.Enabled())
	_, err := c.Lookup(context.Background(), "a", "b")
	assert.Error(t, err)
}
