package repository

import (
	"context"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// StudentRepositoryInterface defines operations for student data access
type StudentRepositoryInterface interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByUSN(ctx context.Context, usn string) (*domain.Student, error)
	ListBySection(ctx context.Context, section string) ([]domain.Student, error)
	Delete(ctx context.Context, usn string) error
	CountBySection(ctx context.Context, section string) (int, error)
}

// AttendanceRepositoryInterface defines operations for attendance records
type AttendanceRepositoryInterface interface {
	Create(ctx context.Context, record *domain.AttendanceRecord) error
	ListBySection(ctx context.Context, section string, limit int) ([]domain.AttendanceRecord, error)
}

var (
	_ StudentRepositoryInterface    = (*StudentRepository)(nil)
	_ AttendanceRepositoryInterface = (*AttendanceRepository)(nil)
)
