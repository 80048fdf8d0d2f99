package webhook

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventAttendanceRecorded = "attendance.recorded"
	EventStudentEnrolled    = "student.enrolled"
	EventStudentDeleted     = "student.deleted"
)

// EventPayload is the body delivered to the configured endpoint.
type EventPayload struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Job is one pending delivery in the webhook queue.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	EventType   string     `json:"event_type"`
	Payload     []byte     `json:"payload"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
	Status      string     `json:"status"`
	LastError   string     `json:"last_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
