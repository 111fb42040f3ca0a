package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/venuepulse/internal/persistence"
)

func newMockRepo(t *testing.T) (persistence.SnapshotRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSnapshotRepo(sqlx.NewDb(db, "postgres"), 5*time.Second), mock
}

func TestInsertSnapshot(t *testing.T) {
	repo, mock := newMockRepo(t)

	score := 42.5
	ts := time.Date(2026, 8, 24, 21, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO snapshots`).
		WithArgs(ts, &score, "elevated", []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), persistence.SnapshotRecord{
		Timestamp:      ts,
		CompositeScore: &score,
		AlertTier:      "elevated",
		Payload:        []byte(`{}`),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertOfflineSnapshotKeepsNull(t *testing.T) {
	repo, mock := newMockRepo(t)

	ts := time.Date(2026, 8, 24, 3, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO snapshots`).
		WithArgs(ts, (*float64)(nil), "offline", []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), persistence.SnapshotRecord{
		Timestamp: ts,
		AlertTier: "offline",
		Payload:   []byte(`{}`),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentCompositesChronological(t *testing.T) {
	repo, mock := newMockRepo(t)

	// The query returns newest first; the repo flips to oldest first.
	rows := sqlmock.NewRows([]string{"composite_score"}).
		AddRow(30.0).AddRow(20.0).AddRow(10.0)
	mock.ExpectQuery(`SELECT composite_score FROM snapshots`).
		WithArgs(3).
		WillReturnRows(rows)

	got, err := repo.RecentComposites(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{10.0, 20.0, 30.0}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentCompositesEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT composite_score FROM snapshots`).
		WithArgs(30).
		WillReturnRows(sqlmock.NewRows([]string{"composite_score"}))

	got, err := repo.RecentComposites(context.Background(), 30)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecentSnapshots(t *testing.T) {
	repo, mock := newMockRepo(t)

	ts := time.Date(2026, 8, 24, 21, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"ts", "composite_score", "alert_tier", "payload", "created_at"}).
		AddRow(ts, 55.0, "critical", []byte(`{"alert_tier":"critical"}`), ts)
	mock.ExpectQuery(`SELECT ts, composite_score, alert_tier, payload, created_at`).
		WithArgs(10).
		WillReturnRows(rows)

	recs, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "critical", recs[0].AlertTier)
	require.NotNil(t, recs[0].CompositeScore)
	assert.InDelta(t, 55.0, *recs[0].CompositeScore, 1e-9)
}
