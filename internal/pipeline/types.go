// Package pipeline orchestrates one refresh cycle: fetch raw venue and
// market readings, normalize, score, aggregate, and correlate into a
// single Snapshot. Everything is recomputed from scratch each cycle;
// nothing persists inside the pipeline and identical inputs produce
// identical snapshots.
package pipeline

import (
	"time"

	"github.com/sawpanic/venuepulse/internal/config"
	"github.com/sawpanic/venuepulse/internal/domain/anomaly"
	"github.com/sawpanic/venuepulse/internal/domain/correlation"
	"github.com/sawpanic/venuepulse/internal/domain/normalize"
	"github.com/sawpanic/venuepulse/internal/providers/market"
)

// SensorStatus is the per-sensor slice of a snapshot. Null markers are
// deliberate: a closed sensor has current null, a baseline-less sensor
// has anomaly_pct null, and neither may collapse to 0.
type SensorStatus struct {
	Name        string               `json:"name"`
	Role        config.Role          `json:"role"`
	Venue       string               `json:"venue,omitempty"`
	Rating      float64              `json:"rating,omitempty"`
	Current     *int                 `json:"current"`
	Baseline    *int                 `json:"baseline"`
	Provenance  normalize.Provenance `json:"provenance"`
	ImputedHour *int                 `json:"imputed_hour"`
	AnomalyPct  *float64             `json:"anomaly_pct"`
	Label       anomaly.Label        `json:"label"`
	Error       string               `json:"error,omitempty"`
}

// Quote is the presentation slice of one market ticker.
type Quote struct {
	Last      *float64       `json:"last"`
	ChangePct *float64       `json:"change_pct"`
	History   []market.Point `json:"history"`
}

// History is a dated 30-point series triple used for the correlation
// window and charting.
type History struct {
	Dates []string  `json:"dates"`
	Index []float64 `json:"index"`
	Vix   []float64 `json:"vix"`
	Gold  []float64 `json:"gold"`
}

// Snapshot is the pipeline's complete output for one refresh cycle.
type Snapshot struct {
	Timestamp      time.Time           `json:"timestamp"`
	CurrentHour    int                 `json:"current_hour"`
	Sensors        []SensorStatus      `json:"sensors"`
	CompositeScore *float64            `json:"composite_score"`
	AlertTier      anomaly.Tier        `json:"alert_tier"`
	Correlation    correlation.Summary `json:"correlation"`
	Market         map[string]Quote    `json:"market"`
	Historical     *History            `json:"historical,omitempty"`
}
