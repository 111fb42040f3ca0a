// Package venues fetches live popularity readings for configured
// venues from a popularity service. The provider is strictly
// best-effort: an unreachable service or an unknown venue becomes "no
// reading for this sensor", never an error out of the scoring pipeline.
package venues

import "context"

// Reading is the raw per-venue time series returned by the popularity
// service. CurrentPopularity is nil when the venue reports no live
// value (typically because it is closed).
type Reading struct {
	Name              string           `json:"name"`
	Rating            float64          `json:"rating"`
	CurrentPopularity *int             `json:"current_popularity"`
	Populartimes      []DayPopularTime `json:"populartimes"`
}

// DayPopularTime is one weekday's hourly popularity baseline.
type DayPopularTime struct {
	Name string `json:"name"`
	Data []int  `json:"data"`
}

// HourlyFor returns the hourly series for the given weekday index
// (0=Monday, matching the service's ordering), or nil when absent.
func (r *Reading) HourlyFor(day int) []int {
	if r == nil || day < 0 || day >= len(r.Populartimes) {
		return nil
	}
	return r.Populartimes[day].Data
}

// FetchResult carries either a reading or the fetch failure for one
// venue query, so failure handling is visible in the type instead of
// swallowed at the call site.
type FetchResult struct {
	Query   string
	Reading *Reading
	Err     error
}

// Provider supplies popularity readings for venue queries.
type Provider interface {
	Fetch(ctx context.Context, query string) (*Reading, error)
}
