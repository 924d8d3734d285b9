package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
)

func TestRateLimiter_CheckFrameLimit(t *testing.T) {
	tests := []struct {
		name      string
		cameraID  string
		limit     int
		mockCount int
		wantErr   error
	}{
		{
			name:      "within limit",
			cameraID:  "cam-1",
			limit:     600,
			mockCount: 10,
		},
		{
			name:      "at limit boundary",
			cameraID:  "cam-1",
			limit:     600,
			mockCount: 600,
		},
		{
			name:      "exceeds limit",
			cameraID:  "cam-1",
			limit:     600,
			mockCount: 601,
			wantErr:   domain.ErrRateLimitExceeded,
		},
		{
			name:      "no limit configured",
			cameraID:  "cam-1",
			limit:     0,
			mockCount: 1000,
		},
		{
			name:      "negative limit",
			cameraID:  "cam-1",
			limit:     -1,
			mockCount: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			rl := NewRateLimiterWithDB(mock, time.Minute)

			if tt.limit > 0 {
				rows := pgxmock.NewRows([]string{"count"}).AddRow(tt.mockCount)
				mock.ExpectQuery("WITH current_count AS").
					WithArgs(
						pgxmock.AnyArg(), // key
						pgxmock.AnyArg(), // window_start
						pgxmock.AnyArg(), // window_end (now)
						tt.cameraID,
					).
					WillReturnRows(rows)
			}

			err = rl.CheckFrameLimit(context.Background(), tt.cameraID, tt.limit)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRateLimiter_CleanupExpired(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM rate_limit_counters").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	rl := NewRateLimiterWithDB(mock, time.Minute)
	removed, err := rl.CleanupExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
}

func TestRateLimiter_ResetLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM rate_limit_counters").
		WithArgs("frame_rate:cam-9").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	rl := NewRateLimiterWithDB(mock, time.Minute)
	assert.NoError(t, rl.ResetLimit(context.Background(), "cam-9"))
}
