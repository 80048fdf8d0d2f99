package ws

import (
	"time"
)

type EventType string

const (
	EventStudentEnrolled EventType = "student.enrolled"
	EventStudentDeleted  EventType = "student.deleted"
	EventAttendanceTaken EventType = "attendance.recorded"
)

// Event is a live feed message scoped to one section. Section routes the
// event inside the hub and is not part of the wire payload.
type Event struct {
	Section   string      `json:"-"`
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
