package venues

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/venuepulse/internal/data/cache"
	"github.com/sawpanic/venuepulse/internal/infra/breakers"
	"github.com/sawpanic/venuepulse/internal/net/ratelimit"
)

// Client is the HTTP implementation of Provider against a popularity
// service exposing GET /v1/populartimes?query=<venue query>.
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *ratelimit.Limiter
	breaker  *breakers.Breaker
	cache    cache.Cache
	cacheTTL time.Duration
}

// ClientConfig holds the venue client settings.
type ClientConfig struct {
	BaseURL  string
	Timeout  time.Duration
	RPS      float64
	Burst    int
	CacheTTL time.Duration
}

// DefaultClientConfig matches the popularity service's published
// limits: 1 req/s sustained, short bursts allowed.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:  baseURL,
		Timeout:  15 * time.Second,
		RPS:      1,
		Burst:    2,
		CacheTTL: 2 * time.Minute,
	}
}

// NewClient creates a venue popularity client with rate limiting,
// circuit breaking, and response caching.
func NewClient(cfg ClientConfig, c cache.Cache) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  ratelimit.NewLimiter(cfg.RPS, cfg.Burst),
		breaker:  breakers.New("venues"),
		cache:    c,
		cacheTTL: cfg.CacheTTL,
	}
}

// Fetch returns the popularity reading for one venue query.
func (c *Client) Fetch(ctx context.Context, query string) (*Reading, error) {
	cacheKey := "venue:" + query
	if b, ok := c.cache.Get(cacheKey); ok {
		var r Reading
		if err := json.Unmarshal(b, &r); err == nil {
			return &r, nil
		}
	}

	if err := c.limiter.Wait(ctx, c.baseURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	res, err := c.breaker.Execute(func() (any, error) {
		return c.fetchRemote(ctx, query)
	})
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("venue fetch failed")
		return nil, err
	}

	reading := res.(*Reading)
	if b, err := json.Marshal(reading); err == nil {
		c.cache.Set(cacheKey, b, c.cacheTTL)
	}
	return reading, nil
}

func (c *Client) fetchRemote(ctx context.Context, query string) (*Reading, error) {
	u := fmt.Sprintf("%s/v1/populartimes?query=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("popularity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("popularity service returned %d", resp.StatusCode)
	}

	var reading Reading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		return nil, fmt.Errorf("decode popularity response: %w", err)
	}
	return &reading, nil
}
