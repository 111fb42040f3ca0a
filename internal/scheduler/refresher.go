// Package scheduler drives the refresh loop: run the pipeline on a
// fixed interval, keep the latest snapshot for the HTTP layer, store
// history, and broadcast each cycle to websocket subscribers.
package scheduler

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/venuepulse/internal/config"
	"github.com/sawpanic/venuepulse/internal/domain/normalize"
	httpiface "github.com/sawpanic/venuepulse/internal/interfaces/http"
	"github.com/sawpanic/venuepulse/internal/persistence"
	"github.com/sawpanic/venuepulse/internal/pipeline"
)

// Refresher runs the pipeline on cfg.RefreshInterval and fans the
// result out. It implements the HTTP layer's SnapshotSource.
type Refresher struct {
	runner  *pipeline.Runner
	cfg     *config.Config
	repo    persistence.SnapshotRepo
	hub     *httpiface.Hub
	metrics *httpiface.Metrics
	latest  atomic.Pointer[pipeline.Snapshot]
}

// New creates a refresher. repo and hub may be nil.
func New(runner *pipeline.Runner, cfg *config.Config, repo persistence.SnapshotRepo, hub *httpiface.Hub, metrics *httpiface.Metrics) *Refresher {
	return &Refresher{runner: runner, cfg: cfg, repo: repo, hub: hub, metrics: metrics}
}

// Latest returns the most recent snapshot, or nil before the first
// cycle completes.
func (r *Refresher) Latest() *pipeline.Snapshot { return r.latest.Load() }

// Run executes one cycle immediately, then every refresh interval
// until the context is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	r.cycle(ctx)

	ticker := time.NewTicker(r.cfg.RefreshInterval.Std())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

// RunOnce executes a single cycle and returns its snapshot.
func (r *Refresher) RunOnce(ctx context.Context) (*pipeline.Snapshot, error) {
	snap, err := r.runner.Run(ctx, r.cfg, time.Now())
	if err != nil {
		return nil, err
	}
	r.publish(ctx, snap)
	return snap, nil
}

func (r *Refresher) cycle(ctx context.Context) {
	start := time.Now()
	snap, err := r.runner.Run(ctx, r.cfg, start)
	if err != nil {
		log.Error().Err(err).Msg("refresh cycle aborted")
		return
	}
	r.publish(ctx, snap)

	r.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	r.metrics.RefreshTotal.Inc()

	log.Info().
		Str("tier", string(snap.AlertTier)).
		Int("sensors", len(snap.Sensors)).
		Dur("took", time.Since(start)).
		Msg("refresh cycle complete")
}

func (r *Refresher) publish(ctx context.Context, snap *pipeline.Snapshot) {
	r.latest.Store(snap)
	r.observe(snap)

	payload, err := json.Marshal(snap)
	if err != nil {
		log.Error().Err(err).Msg("snapshot marshal failed")
		return
	}

	if r.hub != nil {
		r.hub.Broadcast(payload)
	}

	if r.repo != nil {
		rec := persistence.SnapshotRecord{
			Timestamp:      snap.Timestamp,
			CompositeScore: snap.CompositeScore,
			AlertTier:      string(snap.AlertTier),
			Payload:        payload,
		}
		if err := r.repo.Insert(ctx, rec); err != nil {
			log.Warn().Err(err).Msg("snapshot history insert failed")
		}
	}
}

func (r *Refresher) observe(snap *pipeline.Snapshot) {
	offline := 0
	for _, s := range snap.Sensors {
		if s.Provenance == normalize.ProvenanceUnavailable {
			offline++
			if s.Error != "" {
				r.metrics.ProviderErrors.WithLabelValues("venues").Inc()
			}
		}
	}
	r.metrics.SensorsOffline.Set(float64(offline))

	if snap.CompositeScore != nil {
		r.metrics.CompositeScore.Set(*snap.CompositeScore)
	} else {
		r.metrics.CompositeScore.Set(0)
	}
}
