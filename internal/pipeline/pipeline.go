package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/venuepulse/internal/config"
	"github.com/sawpanic/venuepulse/internal/domain/anomaly"
	"github.com/sawpanic/venuepulse/internal/domain/correlation"
	"github.com/sawpanic/venuepulse/internal/domain/normalize"
	"github.com/sawpanic/venuepulse/internal/providers/market"
	"github.com/sawpanic/venuepulse/internal/providers/venues"
)

// HistorySource supplies the stored composite series for the
// correlation window. A nil source, or one with too little history,
// falls back to the deterministic demo series.
type HistorySource interface {
	RecentComposites(ctx context.Context, n int) ([]float64, error)
}

// Runner wires the providers into the scoring pipeline. It holds no
// mutable state: Run may be called repeatedly and concurrently with
// independent inputs.
type Runner struct {
	venues  venues.Provider
	market  market.Provider
	history HistorySource
}

// NewRunner creates a pipeline runner. history may be nil when no
// persistence is configured.
func NewRunner(v venues.Provider, m market.Provider, h HistorySource) *Runner {
	return &Runner{venues: v, market: m, history: h}
}

// Run executes one refresh cycle for the given roster at the given
// instant. Provider failures are absorbed into unavailable sensors and
// missing quotes; Run itself fails only on a cancelled context.
func (r *Runner) Run(ctx context.Context, cfg *config.Config, now time.Time) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hour := now.Hour()
	day := weekdayIndex(now)

	sensors := make([]SensorStatus, 0, len(cfg.Sensors))
	inputs := make([]anomaly.Input, 0, len(cfg.Sensors))
	for _, sensor := range cfg.Sensors {
		status := r.readSensor(ctx, sensor, day, hour)
		sensors = append(sensors, status)
		inputs = append(inputs, anomaly.Input{
			Current:  status.Current,
			Baseline: status.Baseline,
			Polarity: polarityFor(sensor.Role),
		})
	}

	composite := anomaly.Aggregate(inputs)

	quotes := r.fetchMarket(ctx, cfg)

	signal, proxy, demo := r.correlationWindow(ctx, cfg, quotes, now)
	summary := correlation.Analyze(signal, proxy, cfg.Correlation.Lag)

	return &Snapshot{
		Timestamp:      now,
		CurrentHour:    hour,
		Sensors:        sensors,
		CompositeScore: composite.Score,
		AlertTier:      composite.Tier,
		Correlation:    summary,
		Market:         quotes,
		Historical:     demo,
	}, nil
}

// readSensor fetches, normalizes, and scores one sensor. Fetch errors
// become unavailable sensors with label closed.
func (r *Runner) readSensor(ctx context.Context, sensor config.Sensor, day, hour int) SensorStatus {
	status := SensorStatus{Name: sensor.Name, Role: sensor.Role}

	res := venues.FetchResult{Query: sensor.Query}
	res.Reading, res.Err = r.venues.Fetch(ctx, sensor.Query)
	if res.Err != nil {
		status.Provenance = normalize.ProvenanceUnavailable
		status.Label = anomaly.LabelClosed
		status.Error = res.Err.Error()
		return status
	}

	reading := res.Reading
	status.Venue = reading.Name
	status.Rating = reading.Rating

	hourly := reading.HourlyFor(day)
	if hour < len(hourly) {
		baseline := hourly[hour]
		status.Baseline = &baseline
	}

	norm := normalize.Normalize(reading.CurrentPopularity, hourly, hour, reading.HourlyFor((day+6)%7))
	status.Current = norm.Value
	status.Provenance = norm.Provenance
	status.ImputedHour = norm.ImputedHour

	scored := anomaly.Score(sensor.Name, status.Current, status.Baseline, polarityFor(sensor.Role))
	status.AnomalyPct = scored.Pct
	status.Label = scored.Label
	return status
}

// fetchMarket fetches each configured ticker independently; one
// ticker's failure never invalidates another's quote.
func (r *Runner) fetchMarket(ctx context.Context, cfg *config.Config) map[string]Quote {
	quotes := make(map[string]Quote, len(cfg.Market.Tickers))
	for _, t := range cfg.Market.Tickers {
		series, err := r.market.Fetch(ctx, t.Symbol, cfg.Market.WindowDays)
		if err != nil {
			log.Warn().Err(err).Str("ticker", t.Symbol).Msg("skipping ticker for this cycle")
			continue
		}
		quotes[t.Name] = Quote{Last: series.Last, ChangePct: series.ChangePct, History: series.Points}
	}
	return quotes
}

// correlationWindow picks the signal and proxy series: stored
// composite history against the real proxy quote when both cover the
// window, the demo series pair otherwise.
func (r *Runner) correlationWindow(ctx context.Context, cfg *config.Config, quotes map[string]Quote, now time.Time) (signal, proxy []float64, demo *History) {
	window := cfg.Market.WindowDays

	if r.history != nil {
		stored, err := r.history.RecentComposites(ctx, window)
		if err != nil {
			log.Warn().Err(err).Msg("composite history unavailable")
		} else if len(stored) >= window {
			if q, ok := quotes[cfg.Correlation.Proxy]; ok && len(q.History) >= window {
				closes := make([]float64, window)
				for i, p := range q.History[len(q.History)-window:] {
					closes[i] = p.Close
				}
				return stored[len(stored)-window:], closes, nil
			}
		}
	}

	h := DemoHistory(now)
	return h.Index, h.Vix, h
}

func polarityFor(role config.Role) anomaly.Polarity {
	if role == config.RoleInverse {
		return anomaly.PolarityInverse
	}
	return anomaly.PolarityNormal
}

// weekdayIndex maps Go's Sunday-first weekday onto the provider's
// Monday-first day arrays.
func weekdayIndex(now time.Time) int {
	return (int(now.Weekday()) + 6) % 7
}
