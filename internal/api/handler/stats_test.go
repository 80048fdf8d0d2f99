package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/chamada/internal/metrics"
)

func TestAttendanceHandler_Stats(t *testing.T) {
	t.Run("returns section stats", func(t *testing.T) {
		service := &MockAttendanceService{}

		lastRecord := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		service.On("SectionStats", mock.Anything, "CS-A").Return(&metrics.SectionStats{
			Section:          "CS-A",
			Records:          12,
			AvgFacesDetected: 24.5,
			AvgRecognized:    22.0,
			RecognitionRate:  0.897,
			AvgLatencyMs:     340.0,
			LastRecordAt:     &lastRecord,
		}, nil)

		handler := NewAttendanceHandler(service, testLogger())
		app := createTestApp()
		app.Get("/v1/attendance/stats", handler.Stats)

		req := httptest.NewRequest("GET", "/v1/attendance/stats?section=CS-A", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var stats metrics.SectionStats
		require.NoError(t, json.Unmarshal(body, &stats))

		assert.Equal(t, "CS-A", stats.Section)
		assert.Equal(t, 12, stats.Records)
		assert.InDelta(t, 0.897, stats.RecognitionRate, 1e-9)
		require.NotNil(t, stats.LastRecordAt)

		service.AssertExpectations(t)
	})

	t.Run("missing section", func(t *testing.T) {
		service := &MockAttendanceService{}

		handler := NewAttendanceHandler(service, testLogger())
		app := createTestApp()
		app.Get("/v1/attendance/stats", handler.Stats)

		req := httptest.NewRequest("GET", "/v1/attendance/stats", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 422, resp.StatusCode)

		service.AssertNotCalled(t, "SectionStats", mock.Anything, mock.Anything)
	})
}

type stubTokenIssuer struct {
	token string
	err   error
}

func (s *stubTokenIssuer) GenerateToken(section string) (string, error) {
	return s.token, s.err
}

func (s *stubTokenIssuer) ExpiresIn() time.Duration {
	return 5 * time.Minute
}

func TestLiveHandler_Token(t *testing.T) {
	t.Run("mints token for section", func(t *testing.T) {
		handler := NewLiveHandler(&stubTokenIssuer{token: "signed-token"})
		app := createTestApp()
		app.Get("/v1/live/token", handler.Token)

		req := httptest.NewRequest("GET", "/v1/live/token?section=CS-A", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var out LiveTokenResponse
		require.NoError(t, json.Unmarshal(body, &out))

		assert.Equal(t, "signed-token", out.Token)
		assert.Equal(t, int64(300), out.ExpiresIn)
	})

	t.Run("missing section", func(t *testing.T) {
		handler := NewLiveHandler(&stubTokenIssuer{token: "signed-token"})
		app := createTestApp()
		app.Get("/v1/live/token", handler.Token)

		req := httptest.NewRequest("GET", "/v1/live/token", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 422, resp.StatusCode)
	})
}
