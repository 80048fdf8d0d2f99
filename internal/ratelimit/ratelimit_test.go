package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_CheckRecognizeLimit(t *testing.T) {
	tests := []struct {
		name      string
		section   string
		limit     int
		mockCount int
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "within limit",
			section:   "A",
			limit:     30,
			mockCount: 10,
			wantErr:   false,
		},
		{
			name:      "at limit boundary",
			section:   "A",
			limit:     30,
			mockCount: 30,
			wantErr:   false,
		},
		{
			name:      "exceeds limit",
			section:   "B",
			limit:     30,
			mockCount: 31,
			wantErr:   true,
			errMsg:    "rate limit exceeded: 31/30 requests in window",
		},
		{
			name:      "no limit configured",
			section:   "A",
			limit:     0,
			mockCount: 1000,
			wantErr:   false,
		},
		{
			name:      "negative limit",
			section:   "A",
			limit:     -1,
			mockCount: 1000,
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			rl := NewRateLimiterWithDB(mock, time.Minute)

			ctx := context.Background()

			// If limit is configured, expect query
			if tt.limit > 0 {
				rows := pgxmock.NewRows([]string{"count"}).AddRow(tt.mockCount)
				mock.ExpectQuery("WITH current_count AS").
					WithArgs(
						pgxmock.AnyArg(), // key
						pgxmock.AnyArg(), // window_start
						pgxmock.AnyArg(), // window_end (now)
						tt.section,       // section
					).
					WillReturnRows(rows)
			}

			err = rl.CheckRecognizeLimit(ctx, tt.section, tt.limit)

			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrLimitExceeded)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRateLimiter_CheckRecognizeLimit_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rl := NewRateLimiterWithDB(mock, time.Minute)

	mock.ExpectQuery("WITH current_count AS").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "A").
		WillReturnError(pgx.ErrNoRows)

	err = rl.CheckRecognizeLimit(context.Background(), "A", 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "check rate limit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_CleanupExpired(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rl := NewRateLimiterWithDB(mock, time.Minute)

	mock.ExpectExec("DELETE FROM rate_limit_counters").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	deleted, err := rl.CleanupExpired(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_GetCurrentCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rl := NewRateLimiterWithDB(mock, time.Minute)

	rows := pgxmock.NewRows([]string{"count"}).AddRow(7)
	mock.ExpectQuery("SELECT count").
		WithArgs("recognize_rate:A", pgxmock.AnyArg()).
		WillReturnRows(rows)

	count, err := rl.GetCurrentCount(context.Background(), "A")
	assert.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_GetCurrentCount_NoRecords(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rl := NewRateLimiterWithDB(mock, time.Minute)

	mock.ExpectQuery("SELECT count").
		WithArgs("recognize_rate:Z", pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	count, err := rl.GetCurrentCount(context.Background(), "Z")
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_ResetLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rl := NewRateLimiterWithDB(mock, time.Minute)

	mock.ExpectExec("DELETE FROM rate_limit_counters").
		WithArgs("recognize_rate:A").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = rl.ResetLimit(context.Background(), "A")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
