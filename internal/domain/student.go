package domain

import (
	"time"

	"github.com/google/uuid"
)

// Student is an enrolled student with a reference face embedding.
// The embedding is stored normalized (unit length) so recognition can use a
// plain dot product as cosine similarity.
type Student struct {
	ID        uuid.UUID `json:"id"`
	USN       string    `json:"usn"`
	Section   string    `json:"section"`
	Embedding []float64 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttendanceRecord is the persisted outcome of one recognition run over a
// class photo (audit trail).
type AttendanceRecord struct {
	ID                uuid.UUID `json:"id"`
	Section           string    `json:"section"`
	FacesDetected     int       `json:"faces_detected"`
	UnrecognizedFaces int       `json:"unrecognized_faces"`
	RecognizedUSNs    []string  `json:"recognized_usns"`
	LatencyMs         int64     `json:"latency_ms"`
	CreatedAt         time.Time `json:"created_at"`
}
