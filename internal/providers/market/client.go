package market

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

// Client is the HTTP implementation of Provider against a quote
// service exposing GET /v1/history?ticker=<t>&days=<n>.
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *ratelimit.Limiter
	breaker  *breakers.Breaker
	cache    cache.Cache
	cacheTTL time.Duration
}

// ClientConfig holds the market client settings.
type ClientConfig struct {
	BaseURL  string
	Timeout  time.Duration
	RPS      float64
	Burst    int
	CacheTTL time.Duration
}

// DefaultClientConfig returns settings suitable for a free-tier quote
// feed.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:  baseURL,
		Timeout:  10 * time.Second,
		RPS:      5,
		Burst:    10,
		CacheTTL: 5 * time.Minute,
	}
}

// NewClient creates a market data client with rate limiting, circuit
// breaking, and response caching.
func NewClient(cfg ClientConfig, c cache.Cache) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  ratelimit.NewLimiter(cfg.RPS, cfg.Burst),
		breaker:  breakers.New("market"),
		cache:    c,
		cacheTTL: cfg.CacheTTL,
	}
}

// Fetch returns the close-price series for one ticker.
func (c *Client) Fetch(ctx context.Context, ticker string, days int) (*Series, error) {
	cacheKey := fmt.Sprintf("market:%s:%d", ticker, days)
	if b, ok := c.cache.Get(cacheKey); ok {
		var s Series
		if err := json.Unmarshal(b, &s); err == nil {
			return &s, nil
		}
	}

	if err := c.limiter.Wait(ctx, c.baseURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	res, err := c.breaker.Execute(func() (any, error) {
		return c.fetchRemote(ctx, ticker, days)
	})
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("market fetch failed")
		return nil, err
	}

	series := res.(*Series)
	if b, err := json.Marshal(series); err == nil {
		c.cache.Set(cacheKey, b, c.cacheTTL)
	}
	return series, nil
}

func (c *Client) fetchRemote(ctx context.Context, ticker string, days int) (*Series, error) {
	u := fmt.Sprintf("%s/v1/history?ticker=%s&days=%d", c.baseURL, url.QueryEscape(ticker), days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("quote service returned %d", resp.StatusCode)
	}

	var series Series
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}
	series.Ticker = ticker
	fillDerived(&series)
	return &series, nil
}

// fillDerived computes the last close and the percent change from the
// first to the last close of the window when the feed omits them.
func fillDerived(s *Series) {
	if len(s.Points) == 0 {
		return
	}
	last := s.Points[len(s.Points)-1].Close
	if s.Last == nil {
		s.Last = &last
	}
	if s.ChangePct == nil {
		first := s.Points[0].Close
		if first != 0 {
			chg := (last - first) / first * 100.0
			s.ChangePct = &chg
		}
	}
}
