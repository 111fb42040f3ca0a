// Package persistence defines the snapshot history store. History is
// optional: the system runs without a database, falling back to the
// demo correlation window until enough real cycles have been stored.
package persistence

import (
	"context"
	"time"
)

// SnapshotRecord is one stored refresh cycle. CompositeScore is nil
// for cycles where every sensor was offline.
type SnapshotRecord struct {
	Timestamp      time.Time `db:"ts"`
	CompositeScore *float64  `db:"composite_score"`
	AlertTier      string    `db:"alert_tier"`
	Payload        []byte    `db:"payload"`
	CreatedAt      time.Time `db:"created_at"`
}

// SnapshotRepo stores refresh cycles and serves the recent composite
// series for correlation.
type SnapshotRepo interface {
	Insert(ctx context.Context, rec SnapshotRecord) error
	RecentComposites(ctx context.Context, n int) ([]float64, error)
	Recent(ctx context.Context, n int) ([]SnapshotRecord, error)
}
