package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/match"
	"github.com/saturnino-fabrica-de-software/chamada/internal/metrics"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
	"github.com/saturnino-fabrica-de-software/chamada/internal/ratelimit"
	"github.com/saturnino-fabrica-de-software/chamada/internal/webhook"
	"github.com/saturnino-fabrica-de-software/chamada/internal/ws"
)

type StudentRepositoryInterface interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByUSN(ctx context.Context, usn string) (*domain.Student, error)
	ListBySection(ctx context.Context, section string) ([]domain.Student, error)
	Delete(ctx context.Context, usn string) error
}

type AttendanceRepositoryInterface interface {
	Create(ctx context.Context, record *domain.AttendanceRecord) error
	ListBySection(ctx context.Context, section string, limit int) ([]domain.AttendanceRecord, error)
}

type MetricsRepositoryInterface interface {
	SectionStats(ctx context.Context, section string) (*metrics.SectionStats, error)
}

type RecognitionLimiter interface {
	CheckRecognizeLimit(ctx context.Context, section string, limit int) error
}

type GalleryCache interface {
	GetGallery(ctx context.Context, section string) ([]match.GalleryEntry, bool)
	SetGallery(ctx context.Context, section string, gallery []match.GalleryEntry) error
	Invalidate(ctx context.Context, section string) error
}

type LiveFeed interface {
	BroadcastToSection(section string, eventType ws.EventType, data interface{})
}

type WebhookNotifier interface {
	Enqueue(ctx context.Context, eventType string, data interface{}) error
}

type AttendanceService struct {
	studentRepo    StudentRepositoryInterface
	attendanceRepo AttendanceRepositoryInterface
	provider       provider.FaceProvider
	threshold      float64

	// Optional collaborators, nil when not configured
	metricsRepo  MetricsRepositoryInterface
	rateLimiter  RecognitionLimiter
	rateLimit    int
	galleryCache GalleryCache
	liveFeed     LiveFeed
	webhooks     WebhookNotifier
}

func NewAttendanceService(
	studentRepo StudentRepositoryInterface,
	attendanceRepo AttendanceRepositoryInterface,
	faceProvider provider.FaceProvider,
) *AttendanceService {
	return &AttendanceService{
		studentRepo:    studentRepo,
		attendanceRepo: attendanceRepo,
		provider:       faceProvider,
		threshold:      0.4,
	}
}

func (s *AttendanceService) WithThreshold(threshold float64) *AttendanceService {
	s.threshold = threshold
	return s
}

func (s *AttendanceService) WithMetrics(repo MetricsRepositoryInterface) *AttendanceService {
	s.metricsRepo = repo
	return s
}

// WithRateLimit caps the recognition runs per section inside the limiter's
// window. A limit of zero disables the check.
func (s *AttendanceService) WithRateLimit(limiter RecognitionLimiter, limit int) *AttendanceService {
	s.rateLimiter = limiter
	s.rateLimit = limit
	return s
}

func (s *AttendanceService) WithGalleryCache(cache GalleryCache) *AttendanceService {
	s.galleryCache = cache
	return s
}

func (s *AttendanceService) WithLiveFeed(feed LiveFeed) *AttendanceService {
	s.liveFeed = feed
	return s
}

func (s *AttendanceService) WithWebhooks(notifier WebhookNotifier) *AttendanceService {
	s.webhooks = notifier
	return s
}

// Enroll registers a student from a single-face reference photo. The
// embedding is normalized before it is stored, so the gallery only ever holds
// unit vectors.
func (s *AttendanceService) Enroll(ctx context.Context, usn, section string, imageBytes []byte) (*domain.Student, error) {
	detectedFaces, err := s.provider.DetectFaces(ctx, imageBytes)
	if err != nil {
		return nil, fmt.Errorf("usn %s: detect faces: %w", usn, err)
	}

	if len(detectedFaces) == 0 {
		return nil, domain.ErrNoFaceDetected
	}

	if len(detectedFaces) > 1 {
		return nil, domain.ErrMultipleFaces
	}

	observations, err := s.provider.ExtractFaces(ctx, imageBytes)
	if err != nil {
		return nil, fmt.Errorf("usn %s: extract face: %w", usn, err)
	}

	if len(observations) == 0 {
		return nil, domain.ErrNoFaceDetected
	}

	embedding, err := match.Normalize(observations[0].Embedding)
	if err != nil {
		return nil, err
	}

	student := &domain.Student{
		USN:       usn,
		Section:   section,
		Embedding: embedding,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	s.invalidateGallery(ctx, section)
	s.notify(ctx, ws.EventStudentEnrolled, webhook.EventStudentEnrolled, section, map[string]string{
		"usn":     usn,
		"section": section,
	})

	return student, nil
}

// Recognize takes a classroom photo for a section, matches every detected
// face against that section's gallery and returns the attendance record.
// A photo with no faces is a valid empty record, not an error.
func (s *AttendanceService) Recognize(ctx context.Context, section string, imageBytes []byte) (*domain.AttendanceRecord, error) {
	start := time.Now()

	if s.rateLimiter != nil {
		if err := s.rateLimiter.CheckRecognizeLimit(ctx, section, s.rateLimit); err != nil {
			if errors.Is(err, ratelimit.ErrLimitExceeded) {
				return nil, domain.ErrRateLimited.WithError(err)
			}
			// A limiter outage must not block attendance
		}
	}

	gallery, err := s.loadGallery(ctx, section)
	if err != nil {
		return nil, err
	}

	observations, err := s.provider.ExtractFaces(ctx, imageBytes)
	if err != nil {
		return nil, fmt.Errorf("section %s: extract faces: %w", section, err)
	}

	queries := make([][]float64, len(observations))
	for i, obs := range observations {
		queries[i] = obs.Embedding
	}

	report, err := match.RunBatch(queries, gallery, s.threshold)
	if err != nil {
		return nil, err
	}

	record := &domain.AttendanceRecord{
		Section:           section,
		FacesDetected:     report.FacesSeen,
		UnrecognizedFaces: report.UnmatchedCount,
		RecognizedUSNs:    report.MatchedUSNs,
		LatencyMs:         time.Since(start).Milliseconds(),
	}

	// Audit trail - error is intentionally not returned
	// The recognition result was already determined successfully
	_ = s.attendanceRepo.Create(ctx, record)

	s.notify(ctx, ws.EventAttendanceTaken, webhook.EventAttendanceRecorded, section, record)

	return record, nil
}

func (s *AttendanceService) Delete(ctx context.Context, usn string) error {
	// Verify the student exists before deleting
	student, err := s.studentRepo.GetByUSN(ctx, usn)
	if err != nil {
		return err
	}

	if err := s.studentRepo.Delete(ctx, usn); err != nil {
		return fmt.Errorf("usn %s: delete student: %w", usn, err)
	}

	s.invalidateGallery(ctx, student.Section)
	s.notify(ctx, ws.EventStudentDeleted, webhook.EventStudentDeleted, student.Section, map[string]string{
		"usn":     usn,
		"section": student.Section,
	})

	return nil
}

func (s *AttendanceService) GetStudent(ctx context.Context, usn string) (*domain.Student, error) {
	return s.studentRepo.GetByUSN(ctx, usn)
}

func (s *AttendanceService) History(ctx context.Context, section string, limit int) ([]domain.AttendanceRecord, error) {
	records, err := s.attendanceRepo.ListBySection(ctx, section, limit)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []domain.AttendanceRecord{}
	}

	return records, nil
}

func (s *AttendanceService) SectionStats(ctx context.Context, section string) (*metrics.SectionStats, error) {
	if s.metricsRepo == nil {
		return nil, domain.ErrInternal.WithError(errors.New("metrics repository not configured"))
	}

	stats, err := s.metricsRepo.SectionStats(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("section %s: stats: %w", section, err)
	}

	return stats, nil
}

// loadGallery reads the section gallery through the cache when one is
// configured. Cache failures fall back to the students table.
func (s *AttendanceService) loadGallery(ctx context.Context, section string) ([]match.GalleryEntry, error) {
	if s.galleryCache != nil {
		if gallery, ok := s.galleryCache.GetGallery(ctx, section); ok {
			return gallery, nil
		}
	}

	students, err := s.studentRepo.ListBySection(ctx, section)
	if err != nil {
		return nil, err
	}

	gallery := make([]match.GalleryEntry, len(students))
	for i, student := range students {
		gallery[i] = match.GalleryEntry{
			USN:       student.USN,
			Embedding: student.Embedding,
		}
	}

	if s.galleryCache != nil && len(gallery) > 0 {
		_ = s.galleryCache.SetGallery(ctx, section, gallery)
	}

	return gallery, nil
}

func (s *AttendanceService) invalidateGallery(ctx context.Context, section string) {
	if s.galleryCache != nil {
		_ = s.galleryCache.Invalidate(ctx, section)
	}
}

// notify pushes an event to the live feed and the webhook queue, both
// best-effort.
func (s *AttendanceService) notify(ctx context.Context, liveEvent ws.EventType, webhookEvent, section string, data interface{}) {
	if s.liveFeed != nil {
		s.liveFeed.BroadcastToSection(section, liveEvent, data)
	}
	if s.webhooks != nil {
		_ = s.webhooks.Enqueue(ctx, webhookEvent, data)
	}
}
