package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chenwl/attendance-api/internal/models"
)

// EnrollmentRepository handles persistence of class enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByStudent returns a student's enrollments with class context,
// newest first.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.class_id, e.school_year,
        c.name AS class_name, c.grade_id, g.name AS grade_name
        FROM enrollments e
        JOIN classes c ON c.id = e.class_id
        JOIN grades g ON g.id = c.grade_id
        WHERE e.student_id = $1
        ORDER BY e.school_year DESC, e.id DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, class_id, school_year FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ExistsForYear reports whether the student already holds an enrollment
// for the school year. The promotion workflow uses this as its
// idempotency pre-check.
func (r *EnrollmentRepository) ExistsForYear(ctx context.Context, studentID int64, schoolYear int) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_id = $1 AND school_year = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, schoolYear); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment for year: %w", err)
	}
	return true, nil
}

// ListActiveByYear collects the promotion working set: every enrollment
// of the given school year whose student is still active, joined to the
// class grade.
func (r *EnrollmentRepository) ListActiveByYear(ctx context.Context, schoolYear int) ([]models.ActiveEnrollment, error) {
	const query = `SELECT e.id AS enrollment_id, e.student_id, s.name AS student_name, e.class_id, c.grade_id
        FROM enrollments e
        JOIN students s ON s.id = e.student_id AND s.status = $2
        JOIN classes c ON c.id = e.class_id
        WHERE e.school_year = $1
        ORDER BY c.grade_id ASC, e.student_id ASC`
	var rows []models.ActiveEnrollment
	if err := r.db.SelectContext(ctx, &rows, query, schoolYear, models.StudentStatusActive); err != nil {
		return nil, fmt.Errorf("list active enrollments for year %d: %w", schoolYear, err)
	}
	return rows, nil
}

// Create inserts a single enrollment. Duplicate (student, year) pairs
// surface as a unique-violation error for the caller to map.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (student_id, class_id, school_year) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.GetContext(ctx, &enrollment.ID, query, enrollment.StudentID, enrollment.ClassID, enrollment.SchoolYear); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update re-points an enrollment at another class or year.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `UPDATE enrollments SET class_id = $2, school_year = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, enrollment.ID, enrollment.ClassID, enrollment.SchoolYear)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update enrollment result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an enrollment permanently.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete enrollment result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
