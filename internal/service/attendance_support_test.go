package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/match"
	"github.com/saturnino-fabrica-de-software/chamada/internal/metrics"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
	"github.com/saturnino-fabrica-de-software/chamada/internal/ratelimit"
	"github.com/saturnino-fabrica-de-software/chamada/internal/ws"
)

type MockRecognitionLimiter struct {
	mock.Mock
}

func (m *MockRecognitionLimiter) CheckRecognizeLimit(ctx context.Context, section string, limit int) error {
	args := m.Called(ctx, section, limit)
	return args.Error(0)
}

type MockGalleryCache struct {
	mock.Mock
}

func (m *MockGalleryCache) GetGallery(ctx context.Context, section string) ([]match.GalleryEntry, bool) {
	args := m.Called(ctx, section)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]match.GalleryEntry), args.Bool(1)
}

func (m *MockGalleryCache) SetGallery(ctx context.Context, section string, gallery []match.GalleryEntry) error {
	args := m.Called(ctx, section, gallery)
	return args.Error(0)
}

func (m *MockGalleryCache) Invalidate(ctx context.Context, section string) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

type MockLiveFeed struct {
	mock.Mock
}

func (m *MockLiveFeed) BroadcastToSection(section string, eventType ws.EventType, data interface{}) {
	m.Called(section, eventType, data)
}

type MockWebhookNotifier struct {
	mock.Mock
}

func (m *MockWebhookNotifier) Enqueue(ctx context.Context, eventType string, data interface{}) error {
	args := m.Called(ctx, eventType, data)
	return args.Error(0)
}

type MockMetricsRepository struct {
	mock.Mock
}

func (m *MockMetricsRepository) SectionStats(ctx context.Context, section string) (*metrics.SectionStats, error) {
	args := m.Called(ctx, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metrics.SectionStats), args.Error(1)
}

func TestAttendanceService_Recognize_RateLimited(t *testing.T) {
	studentRepo := &MockStudentRepository{}
	attendanceRepo := &MockAttendanceRepository{}
	faceProvider := &MockFaceProvider{}
	limiter := &MockRecognitionLimiter{}

	limiter.On("CheckRecognizeLimit", mock.Anything, "CS-A", 30).
		Return(fmt.Errorf("%w: 31/30 requests in window", ratelimit.ErrLimitExceeded))

	svc := NewAttendanceService(studentRepo, attendanceRepo, faceProvider).
		WithRateLimit(limiter, 30)

	record, err := svc.Recognize(context.Background(), "CS-A", []byte("photo"))
	require.Error(t, err)
	assert.Nil(t, record)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RATE_LIMITED", appErr.Code)
	assert.Equal(t, 429, appErr.StatusCode)

	// Neither the provider nor the gallery should have been touched
	studentRepo.AssertNotCalled(t, "ListBySection", mock.Anything, mock.Anything)
	faceProvider.AssertNotCalled(t, "ExtractFaces", mock.Anything, mock.Anything)
	limiter.AssertExpectations(t)
}

func TestAttendanceService_Recognize_LimiterOutageDoesNotBlock(t *testing.T) {
	studentRepo := &MockStudentRepository{}
	attendanceRepo := &MockAttendanceRepository{}
	faceProvider := &MockFaceProvider{}
	limiter := &MockRecognitionLimiter{}

	limiter.On("CheckRecognizeLimit", mock.Anything, "CS-A", 30).
		Return(errors.New("connection refused"))

	studentRepo.On("ListBySection", mock.Anything, "CS-A").Return([]domain.Student{
		{USN: "1MS21CS001", Section: "CS-A", Embedding: []float64{1, 0}},
	}, nil)
	faceProvider.On("ExtractFaces", mock.Anything, mock.Anything).Return([]provider.FaceObservation{
		{Embedding: []float64{1, 0}},
	}, nil)
	attendanceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewAttendanceService(studentRepo, attendanceRepo, faceProvider).
		WithRateLimit(limiter, 30)

	record, err := svc.Recognize(context.Background(), "CS-A", []byte("photo"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1MS21CS001"}, record.RecognizedUSNs)

	limiter.AssertExpectations(t)
	studentRepo.AssertExpectations(t)
}

func TestAttendanceService_Recognize_GalleryCache(t *testing.T) {
	t.Run("cache hit skips repository", func(t *testing.T) {
		studentRepo := &MockStudentRepository{}
		attendanceRepo := &MockAttendanceRepository{}
		faceProvider := &MockFaceProvider{}
		galleryCache := &MockGalleryCache{}

		galleryCache.On("GetGallery", mock.Anything, "CS-A").Return([]match.GalleryEntry{
			{USN: "1MS21CS001", Embedding: []float64{1, 0}},
		}, true)
		faceProvider.On("ExtractFaces", mock.Anything, mock.Anything).Return([]provider.FaceObservation{
			{Embedding: []float64{1, 0}},
		}, nil)
		attendanceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := NewAttendanceService(studentRepo, attendanceRepo, faceProvider).
			WithGalleryCache(galleryCache)

		record, err := svc.Recognize(context.Background(), "CS-A", []byte("photo"))
		require.NoError(t, err)
		assert.Equal(t, []string{"1MS21CS001"}, record.RecognizedUSNs)

		studentRepo.AssertNotCalled(t, "ListBySection", mock.Anything, mock.Anything)
		galleryCache.AssertExpectations(t)
	})

	t.Run("cache miss populates cache from repository", func(t *testing.T) {
		studentRepo := &MockStudentRepository{}
		attendanceRepo := &MockAttendanceRepository{}
		faceProvider := &MockFaceProvider{}
		galleryCache := &MockGalleryCache{}

		galleryCache.On("GetGallery", mock.Anything, "CS-A").Return(nil, false)
		studentRepo.On("ListBySection", mock.Anything, "CS-A").Return([]domain.Student{
			{USN: "1MS21CS001", Section: "CS-A", Embedding: []float64{1, 0}},
		}, nil)
		galleryCache.On("SetGallery", mock.Anything, "CS-A", []match.GalleryEntry{
			{USN: "1MS21CS001", Embedding: []float64{1, 0}},
		}).Return(nil)
		faceProvider.On("ExtractFaces", mock.Anything, mock.Anything).Return([]provider.FaceObservation{
			{Embedding: []float64{1, 0}},
		}, nil)
		attendanceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := NewAttendanceService(studentRepo, attendanceRepo, faceProvider).
			WithGalleryCache(galleryCache)

		_, err := svc.Recognize(context.Background(), "CS-A", []byte("photo"))
		require.NoError(t, err)

		studentRepo.AssertExpectations(t)
		galleryCache.AssertExpectations(t)
	})
}

func TestAttendanceService_Enroll_InvalidatesGalleryAndNotifies(t *testing.T) {
	studentRepo := &MockStudentRepository{}
	attendanceRepo := &MockAttendanceRepository{}
	faceProvider := &MockFaceProvider{}
	galleryCache := &MockGalleryCache{}
	liveFeed := &MockLiveFeed{}
	webhooks := &MockWebhookNotifier{}

	faceProvider.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{{}}, nil)
	faceProvider.On("ExtractFaces", mock.Anything, mock.Anything).Return([]provider.FaceObservation{
		{Embedding: []float64{3, 4}},
	}, nil)
	studentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	galleryCache.On("Invalidate", mock.Anything, "CS-A").Return(nil)
	liveFeed.On("BroadcastToSection", "CS-A", ws.EventStudentEnrolled, mock.Anything).Return()
	webhooks.On("Enqueue", mock.Anything, "student.enrolled", mock.Anything).Return(nil)

	svc := NewAttendanceService(studentRepo, attendanceRepo, faceProvider).
		WithGalleryCache(galleryCache).
		WithLiveFeed(liveFeed).
		WithWebhooks(webhooks)

	_, err := svc.Enroll(context.Background(), "1MS21CS001", "CS-A", []byte("photo"))
	require.NoError(t, err)

	galleryCache.AssertExpectations(t)
	liveFeed.AssertExpectations(t)
	webhooks.AssertExpectations(t)
}

func TestAttendanceService_Delete_InvalidatesGalleryAndNotifies(t *testing.T) {
	studentRepo := &MockStudentRepository{}
	attendanceRepo := &MockAttendanceRepository{}
	faceProvider := &MockFaceProvider{}
	galleryCache := &MockGalleryCache{}
	liveFeed := &MockLiveFeed{}

	studentRepo.On("GetByUSN", mock.Anything, "1MS21CS001").Return(&domain.Student{
		USN:     "1MS21CS001",
		Section: "CS-A",
	}, nil)
	studentRepo.On("Delete", mock.Anything, "1MS21CS001").Return(nil)
	galleryCache.On("Invalidate", mock.Anything, "CS-A").Return(nil)
	liveFeed.On("BroadcastToSection", "CS-A", ws.EventStudentDeleted, mock.Anything).Return()

	svc := NewAttendanceService(studentRepo, attendanceRepo, faceProvider).
		WithGalleryCache(galleryCache).
		WithLiveFeed(liveFeed)

	err := svc.Delete(context.Background(), "1MS21CS001")
	require.NoError(t, err)

	studentRepo.AssertExpectations(t)
	galleryCache.AssertExpectations(t)
	liveFeed.AssertExpectations(t)
}

func TestAttendanceService_SectionStats(t *testing.T) {
	t.Run("delegates to metrics repository", func(t *testing.T) {
		studentRepo := &MockStudentRepository{}
		attendanceRepo := &MockAttendanceRepository{}
		faceProvider := &MockFaceProvider{}
		metricsRepo := &MockMetricsRepository{}

		lastRecord := time.Now()
		metricsRepo.On("SectionStats", mock.Anything, "CS-A").Return(&metrics.SectionStats{
			Section:         "CS-A",
			Records:         4,
			RecognitionRate: 0.9,
			LastRecordAt:    &lastRecord,
		}, nil)

		svc := NewAttendanceService(studentRepo, attendanceRepo, faceProvider).
			WithMetrics(metricsRepo)

		stats, err := svc.SectionStats(context.Background(), "CS-A")
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Records)
		assert.InDelta(t, 0.9, stats.RecognitionRate, 1e-9)

		metricsRepo.AssertExpectations(t)
	})

	t.Run("not configured", func(t *testing.T) {
		svc := NewAttendanceService(&MockStudentRepository{}, &MockAttendanceRepository{}, &MockFaceProvider{})

		stats, err := svc.SectionStats(context.Background(), "CS-A")
		require.Error(t, err)
		assert.Nil(t, stats)
	})
}
