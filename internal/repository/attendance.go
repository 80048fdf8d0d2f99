package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Create inserts a new attendance record
func (r *AttendanceRepository) Create(ctx context.Context, record *domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (
			id, section, faces_detected, unrecognized_faces, recognized_usns, latency_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		record.ID,
		record.Section,
		record.FacesDetected,
		record.UnrecognizedFaces,
		record.RecognizedUSNs,
		record.LatencyMs,
	).Scan(&record.CreatedAt)

	if err != nil {
		return fmt.Errorf("create attendance record: %w", err)
	}

	return nil
}

// ListBySection returns the most recent attendance records for a section.
func (r *AttendanceRepository) ListBySection(ctx context.Context, section string, limit int) ([]domain.AttendanceRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, section, faces_detected, unrecognized_faces, recognized_usns, latency_ms, created_at
		FROM attendance_records
		WHERE section = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, section, limit)
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		var record domain.AttendanceRecord

		err := rows.Scan(
			&record.ID,
			&record.Section,
			&record.FacesDetected,
			&record.UnrecognizedFaces,
			&record.RecognizedUSNs,
			&record.LatencyMs,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attendance row: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance rows: %w", err)
	}

	return records, nil
}
