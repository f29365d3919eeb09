package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chenwl/attendance-api/internal/models"
)

// TeacherAssignmentRepository handles teacher-to-class assignments.
type TeacherAssignmentRepository struct {
	db *sqlx.DB
}

// NewTeacherAssignmentRepository constructs the repository.
func NewTeacherAssignmentRepository(db *sqlx.DB) *TeacherAssignmentRepository {
	return &TeacherAssignmentRepository{db: db}
}

// ListByClass returns every assignment for a class, active first.
func (r *TeacherAssignmentRepository) ListByClass(ctx context.Context, classID int64) ([]models.TeacherAssignmentDetail, error) {
	const query = `SELECT ta.id, ta.teacher_id, ta.class_id, ta.school_year, ta.start_date, ta.end_date, ta.is_active, ta.notes,
        u.name AS teacher_name
        FROM teacher_assignments ta
        JOIN users u ON u.id = ta.teacher_id
        WHERE ta.class_id = $1
        ORDER BY ta.is_active DESC, ta.start_date DESC NULLS LAST`
	var assignments []models.TeacherAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, classID); err != nil {
		return nil, fmt.Errorf("list class teachers: %w", err)
	}
	return assignments, nil
}

// Create inserts a new assignment.
func (r *TeacherAssignmentRepository) Create(ctx context.Context, assignment *models.TeacherAssignment) error {
	const query = `INSERT INTO teacher_assignments (teacher_id, class_id, school_year, start_date, end_date, is_active, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &assignment.ID, query,
		assignment.TeacherID, assignment.ClassID, assignment.SchoolYear,
		assignment.StartDate, assignment.EndDate, assignment.IsActive, assignment.Notes); err != nil {
		return fmt.Errorf("create teacher assignment: %w", err)
	}
	return nil
}
