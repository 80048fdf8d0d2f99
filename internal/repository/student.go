package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

type StudentRepository struct {
	pool PgxPool
}

func NewStudentRepository(pool PgxPool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	query := `
		INSERT INTO students (id, usn, section, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}

	var embedding *pgvector.Vector
	if len(student.Embedding) > 0 {
		floats := make([]float32, len(student.Embedding))
		for i, v := range student.Embedding {
			floats[i] = float32(v)
		}
		vec := pgvector.NewVector(floats)
		embedding = &vec
	}

	err := r.pool.QueryRow(ctx, query,
		student.ID,
		student.USN,
		student.Section,
		embedding,
	).Scan(&student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrStudentExists
		}
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

func (r *StudentRepository) GetByUSN(ctx context.Context, usn string) (*domain.Student, error) {
	query := `
		SELECT id, usn, section, embedding, created_at, updated_at
		FROM students
		WHERE usn = $1
	`

	var student domain.Student
	var embedding *pgvector.Vector

	err := r.pool.QueryRow(ctx, query, usn).Scan(
		&student.ID,
		&student.USN,
		&student.Section,
		&embedding,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student by usn: %w", err)
	}

	if embedding != nil && embedding.Slice() != nil {
		student.Embedding = make([]float64, len(embedding.Slice()))
		for i, v := range embedding.Slice() {
			student.Embedding[i] = float64(v)
		}
	}

	return &student, nil
}

// ListBySection loads every enrolled student of a section with their
// embeddings. Ordered by enrollment time so recognition resolves ties the
// same way run after run.
func (r *StudentRepository) ListBySection(ctx context.Context, section string) ([]domain.Student, error) {
	query := `
		SELECT id, usn, section, embedding, created_at, updated_at
		FROM students
		WHERE section = $1
		ORDER BY created_at, usn
	`

	rows, err := r.pool.Query(ctx, query, section)
	if err != nil {
		return nil, fmt.Errorf("list students by section: %w", err)
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var student domain.Student
		var embedding *pgvector.Vector

		err := rows.Scan(
			&student.ID,
			&student.USN,
			&student.Section,
			&embedding,
			&student.CreatedAt,
			&student.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student row: %w", err)
		}

		if embedding != nil && embedding.Slice() != nil {
			student.Embedding = make([]float64, len(embedding.Slice()))
			for i, v := range embedding.Slice() {
				student.Embedding[i] = float64(v)
			}
		}

		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate student rows: %w", err)
	}

	return students, nil
}

func (r *StudentRepository) Delete(ctx context.Context, usn string) error {
	query := `
		DELETE FROM students
		WHERE usn = $1
	`

	result, err := r.pool.Exec(ctx, query, usn)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrStudentNotFound
	}

	return nil
}

func (r *StudentRepository) CountBySection(ctx context.Context, section string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM students
		WHERE section = $1
	`

	var count int
	err := r.pool.QueryRow(ctx, query, section).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count students by section: %w", err)
	}

	return count, nil
}
