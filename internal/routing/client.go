package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/logfrete/freight-api/internal/config"
	"github.com/logfrete/freight-api/internal/domain"
	"go.uber.org/zap"
)

// Client looks up road distance and duration for a city pair from an
// external routing service. The collaborator is optional: when disabled or
// unreachable, callers fall back to manually entered distances.
type Client struct {
	cfg        *config.RoutingConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a routing client
func NewClient(cfg *config.RoutingConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		logger: logger,
	}
}

// Enabled reports whether route lookups are configured
func (c *Client) Enabled() bool {
	return c.cfg.Enabled && c.cfg.BaseURL != ""
}

type routeResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
	Code string `json:"code"`
}

// Lookup fetches the driving route between two places
func (c *Client) Lookup(ctx context.Context, origin, destination string) (*domain.RouteLookupDTO, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("route lookup is not enabled")
	}

	endpoint := fmt.Sprintf("%s/route/v1/driving/%s;%s",
		c.cfg.BaseURL,
		url.PathEscape(origin),
		url.PathEscape(destination),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build route request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("route lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("route service returned status %d", resp.StatusCode)
	}

	var body routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode route response: %w", err)
	}

	if body.Code != "Ok" || len(body.Routes) == 0 {
		return nil, fmt.Errorf("no route found between %q and %q", origin, destination)
	}

	route := body.Routes[0]
	return &domain.RouteLookupDTO{
		DistanceKm:      route.Distance / 1000,
		DurationMinutes: route.Duration / 60,
	}, nil
}
