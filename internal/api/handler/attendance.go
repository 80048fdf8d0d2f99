package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/chamada/internal/audit"
	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/metrics"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AttendanceService interface for the service
type AttendanceService interface {
	Enroll(ctx context.Context, usn, section string, imageBytes []byte) (*domain.Student, error)
	Recognize(ctx context.Context, section string, imageBytes []byte) (*domain.AttendanceRecord, error)
	Delete(ctx context.Context, usn string) error
	GetStudent(ctx context.Context, usn string) (*domain.Student, error)
	History(ctx context.Context, section string, limit int) ([]domain.AttendanceRecord, error)
	SectionStats(ctx context.Context, section string) (*metrics.SectionStats, error)
}

// AttendanceHandler handles enrollment and attendance requests
type AttendanceHandler struct {
	service AttendanceService
	logger  *slog.Logger
	audit   audit.Logger
}

// NewAttendanceHandler creates a new AttendanceHandler instance
func NewAttendanceHandler(service AttendanceService, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger,
		audit:   audit.NewSlogLogger(logger),
	}
}

// EnrollResponse response for student enrollment
type EnrollResponse struct {
	StudentID string `json:"student_id"`
	USN       string `json:"usn"`
	Section   string `json:"section"`
	CreatedAt string `json:"created_at"`
}

// StudentResponse response for student lookup
type StudentResponse struct {
	StudentID string `json:"student_id"`
	USN       string `json:"usn"`
	Section   string `json:"section"`
	CreatedAt string `json:"created_at"`
}

// AttendanceResponse response for a recognition run
type AttendanceResponse struct {
	AttendanceID      string   `json:"attendance_id"`
	Section           string   `json:"section"`
	FacesDetected     int      `json:"faces_detected"`
	UnrecognizedFaces int      `json:"unrecognized_faces"`
	RecognizedUSNs    []string `json:"recognized_usns"`
	LatencyMs         int64    `json:"latency_ms"`
}

// HistoryResponse response for attendance history
type HistoryResponse struct {
	Section string               `json:"section"`
	Records []AttendanceResponse `json:"records"`
}

// Enroll POST /v1/students - enroll a student from a single-face photo
func (h *AttendanceHandler) Enroll(c *fiber.Ctx) error {
	usn := strings.TrimSpace(c.FormValue("usn"))
	if usn == "" {
		return domain.ErrValidationFailed.WithError(errors.New("usn is required"))
	}

	section := strings.TrimSpace(c.FormValue("section"))
	if section == "" {
		return domain.ErrValidationFailed.WithError(errors.New("section is required"))
	}

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("enroll student: %w", err)
	}

	student, err := h.service.Enroll(c.Context(), usn, section, imageBytes)
	if err != nil {
		return err
	}

	_ = h.audit.Log(c.Context(), audit.Event{
		EventType: audit.EventStudentEnrolled,
		USN:       student.USN,
		Section:   student.Section,
		Success:   true,
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})

	return c.Status(fiber.StatusCreated).JSON(EnrollResponse{
		StudentID: student.ID.String(),
		USN:       student.USN,
		Section:   student.Section,
		CreatedAt: student.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// Recognize POST /v1/attendance - take attendance from a classroom photo
func (h *AttendanceHandler) Recognize(c *fiber.Ctx) error {
	section := strings.TrimSpace(c.FormValue("section"))
	if section == "" {
		return domain.ErrValidationFailed.WithError(errors.New("section is required"))
	}

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("take attendance: %w", err)
	}

	record, err := h.service.Recognize(c.Context(), section, imageBytes)
	if err != nil {
		_ = h.audit.Log(c.Context(), audit.Event{
			EventType: audit.EventRecognitionError,
			Section:   section,
			Success:   false,
			Error:     err.Error(),
			IPAddress: c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		})
		return err
	}

	_ = h.audit.Log(c.Context(), audit.Event{
		EventType: audit.EventAttendanceTaken,
		Section:   section,
		Success:   true,
		Metadata: map[string]string{
			"faces_detected": strconv.Itoa(record.FacesDetected),
			"recognized":     strconv.Itoa(len(record.RecognizedUSNs)),
		},
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})

	return c.JSON(AttendanceResponse{
		AttendanceID:      record.ID.String(),
		Section:           record.Section,
		FacesDetected:     record.FacesDetected,
		UnrecognizedFaces: record.UnrecognizedFaces,
		RecognizedUSNs:    record.RecognizedUSNs,
		LatencyMs:         record.LatencyMs,
	})
}

// GetStudent GET /v1/students/:usn - fetch an enrolled student
func (h *AttendanceHandler) GetStudent(c *fiber.Ctx) error {
	usn := strings.TrimSpace(c.Params("usn"))
	if usn == "" {
		return domain.ErrValidationFailed.WithError(errors.New("usn is required"))
	}

	student, err := h.service.GetStudent(c.Context(), usn)
	if err != nil {
		return err
	}

	return c.JSON(StudentResponse{
		StudentID: student.ID.String(),
		USN:       student.USN,
		Section:   student.Section,
		CreatedAt: student.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// Delete DELETE /v1/students/:usn - remove a student and their embedding
func (h *AttendanceHandler) Delete(c *fiber.Ctx) error {
	usn := strings.TrimSpace(c.Params("usn"))
	if usn == "" {
		return domain.ErrValidationFailed.WithError(errors.New("usn is required"))
	}

	if err := h.service.Delete(c.Context(), usn); err != nil {
		return err
	}

	_ = h.audit.Log(c.Context(), audit.Event{
		EventType: audit.EventStudentDeleted,
		USN:       usn,
		Success:   true,
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

// History GET /v1/attendance - list recent attendance records for a section
func (h *AttendanceHandler) History(c *fiber.Ctx) error {
	section := strings.TrimSpace(c.Query("section"))
	if section == "" {
		return domain.ErrValidationFailed.WithError(errors.New("section is required"))
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return domain.ErrValidationFailed.WithError(errors.New("limit must be a positive integer"))
		}
		limit = parsed
	}

	records, err := h.service.History(c.Context(), section, limit)
	if err != nil {
		return err
	}

	out := make([]AttendanceResponse, len(records))
	for i, record := range records {
		out[i] = AttendanceResponse{
			AttendanceID:      record.ID.String(),
			Section:           record.Section,
			FacesDetected:     record.FacesDetected,
			UnrecognizedFaces: record.UnrecognizedFaces,
			RecognizedUSNs:    record.RecognizedUSNs,
			LatencyMs:         record.LatencyMs,
		}
	}

	return c.JSON(HistoryResponse{
		Section: section,
		Records: out,
	})
}

// Stats GET /v1/attendance/stats - aggregated attendance stats for a section
func (h *AttendanceHandler) Stats(c *fiber.Ctx) error {
	section := strings.TrimSpace(c.Query("section"))
	if section == "" {
		return domain.ErrValidationFailed.WithError(errors.New("section is required"))
	}

	stats, err := h.service.SectionStats(c.Context(), section)
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

// extractAndValidateImage extracts and validates the image from the form
func extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	if file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	if file.Size == 0 {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}
