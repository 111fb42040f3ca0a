// Package postgres implements the snapshot history store on
// PostgreSQL via sqlx.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/sawpanic/venuepulse/internal/persistence"
)

type snapshotRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// Connect opens a PostgreSQL connection pool for the given DSN.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// NewSnapshotRepo creates a PostgreSQL snapshot repository.
func NewSnapshotRepo(db *sqlx.DB, timeout time.Duration) persistence.SnapshotRepo {
	return &snapshotRepo{db: db, timeout: timeout}
}

// Insert stores one refresh cycle, replacing any record at the same
// timestamp.
func (r *snapshotRepo) Insert(ctx context.Context, rec persistence.SnapshotRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO snapshots (ts, composite_score, alert_tier, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ts) DO UPDATE SET
			composite_score = EXCLUDED.composite_score,
			alert_tier = EXCLUDED.alert_tier,
			payload = EXCLUDED.payload`

	if _, err := r.db.ExecContext(ctx, query,
		rec.Timestamp, rec.CompositeScore, rec.AlertTier, rec.Payload); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// RecentComposites returns the last n defined composite scores in
// chronological order. Offline cycles carry no composite and are
// skipped.
func (r *snapshotRepo) RecentComposites(ctx context.Context, n int) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT composite_score FROM snapshots
		WHERE composite_score IS NOT NULL
		ORDER BY ts DESC
		LIMIT $1`

	var recent []float64
	if err := r.db.SelectContext(ctx, &recent, query, n); err != nil {
		return nil, fmt.Errorf("select composites: %w", err)
	}

	// Newest-first from the query; the correlation window wants
	// oldest-first.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

// Recent returns the last n stored cycles, newest first.
func (r *snapshotRepo) Recent(ctx context.Context, n int) ([]persistence.SnapshotRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT ts, composite_score, alert_tier, payload, created_at
		FROM snapshots
		ORDER BY ts DESC
		LIMIT $1`

	var recs []persistence.SnapshotRecord
	if err := r.db.SelectContext(ctx, &recs, query, n); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	return recs, nil
}
