// Package market fetches close-price time series for the volatility
// proxy tickers. Each ticker is fetched independently: a failed gold
// fetch must not invalidate a successful VIX fetch.
package market

import "context"

// Point is one dated close price.
type Point struct {
	Date  string  `json:"date"`
	Close float64 `json:"value"`
}

// Series is the close-price history for one ticker over the requested
// window. Last and ChangePct are nil when the history is empty.
type Series struct {
	Ticker    string   `json:"ticker"`
	Points    []Point  `json:"history"`
	Last      *float64 `json:"last"`
	ChangePct *float64 `json:"change_pct"`
}

// Closes returns the ordered close values of the series.
func (s *Series) Closes() []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// Provider supplies close-price history per ticker.
type Provider interface {
	Fetch(ctx context.Context, ticker string, days int) (*Series, error)
}
