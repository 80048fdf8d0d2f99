package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB interface for database operations
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// SectionStats summarizes the attendance records of one section.
type SectionStats struct {
	Section          string     `json:"section"`
	Records          int        `json:"records"`
	AvgFacesDetected float64    `json:"avg_faces_detected"`
	AvgRecognized    float64    `json:"avg_recognized"`
	RecognitionRate  float64    `json:"recognition_rate"`
	AvgLatencyMs     float64    `json:"avg_latency_ms"`
	LastRecordAt     *time.Time `json:"last_record_at,omitempty"`
}

// Repository computes attendance statistics from persisted records
type Repository struct {
	db DB
}

// NewRepository creates a new metrics repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// NewRepositoryWithDB creates a metrics repository with custom DB interface
func NewRepositoryWithDB(db DB) *Repository {
	return &Repository{db: db}
}

// SectionStats aggregates all attendance records of a section.
// RecognitionRate is recognized faces over detected faces across all runs;
// a section with no detected faces yet reports a rate of zero.
func (r *Repository) SectionStats(ctx context.Context, section string) (*SectionStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(AVG(faces_detected), 0),
			COALESCE(AVG(faces_detected - unrecognized_faces), 0),
			COALESCE(SUM(faces_detected - unrecognized_faces)::float / NULLIF(SUM(faces_detected), 0), 0),
			COALESCE(AVG(latency_ms), 0),
			MAX(created_at)
		FROM attendance_records
		WHERE section = $1
	`

	stats := SectionStats{Section: section}
	err := r.db.QueryRow(ctx, query, section).Scan(
		&stats.Records,
		&stats.AvgFacesDetected,
		&stats.AvgRecognized,
		&stats.RecognitionRate,
		&stats.AvgLatencyMs,
		&stats.LastRecordAt,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate section stats: %w", err)
	}

	return &stats, nil
}

// DeleteOldRecords removes attendance records older than the retention period
func (r *Repository) DeleteOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `DELETE FROM attendance_records WHERE created_at < $1`

	cutoff := time.Now().Add(-olderThan)
	result, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old records: %w", err)
	}

	return result.RowsAffected(), nil
}
