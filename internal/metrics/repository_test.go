package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_SectionStats(t *testing.T) {
	t.Run("section with records", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewRepositoryWithDB(mock)

		lastRecord := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		rows := pgxmock.NewRows([]string{"count", "avg_faces", "avg_recognized", "rate", "avg_latency", "max_created"}).
			AddRow(12, 24.5, 22.0, 0.897959, 340.0, &lastRecord)

		mock.ExpectQuery("SELECT").
			WithArgs("A").
			WillReturnRows(rows)

		stats, err := repo.SectionStats(context.Background(), "A")
		require.NoError(t, err)

		assert.Equal(t, "A", stats.Section)
		assert.Equal(t, 12, stats.Records)
		assert.InDelta(t, 24.5, stats.AvgFacesDetected, 1e-9)
		assert.InDelta(t, 22.0, stats.AvgRecognized, 1e-9)
		assert.InDelta(t, 0.897959, stats.RecognitionRate, 1e-6)
		assert.InDelta(t, 340.0, stats.AvgLatencyMs, 1e-9)
		require.NotNil(t, stats.LastRecordAt)
		assert.Equal(t, lastRecord, *stats.LastRecordAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("section with no records", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewRepositoryWithDB(mock)

		rows := pgxmock.NewRows([]string{"count", "avg_faces", "avg_recognized", "rate", "avg_latency", "max_created"}).
			AddRow(0, 0.0, 0.0, 0.0, 0.0, (*time.Time)(nil))

		mock.ExpectQuery("SELECT").
			WithArgs("Z").
			WillReturnRows(rows)

		stats, err := repo.SectionStats(context.Background(), "Z")
		require.NoError(t, err)

		assert.Equal(t, 0, stats.Records)
		assert.Zero(t, stats.RecognitionRate)
		assert.Nil(t, stats.LastRecordAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewRepositoryWithDB(mock)

		mock.ExpectQuery("SELECT").
			WithArgs("A").
			WillReturnError(pgx.ErrTxClosed)

		stats, err := repo.SectionStats(context.Background(), "A")
		assert.Error(t, err)
		assert.Nil(t, stats)
		assert.Contains(t, err.Error(), "aggregate section stats")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_DeleteOldRecords(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepositoryWithDB(mock)

	mock.ExpectExec("DELETE FROM attendance_records").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 8))

	deleted, err := repo.DeleteOldRecords(context.Background(), 90*24*time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, int64(8), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
