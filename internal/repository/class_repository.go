package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chenwl/attendance-api/internal/models"
)

// ClassRepository handles persistence of classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListByYear returns all classes for a school year ordered by grade.
func (r *ClassRepository) ListByYear(ctx context.Context, schoolYear int) ([]models.Class, error) {
	const query = `SELECT id, name, grade_id, school_year FROM classes WHERE school_year = $1 ORDER BY grade_id ASC, id ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, schoolYear); err != nil {
		return nil, fmt.Errorf("list classes for year %d: %w", schoolYear, err)
	}
	return classes, nil
}

// ListDetailByYear joins grade names for display.
func (r *ClassRepository) ListDetailByYear(ctx context.Context, schoolYear int) ([]models.ClassDetail, error) {
	const query = `SELECT c.id, c.name, c.grade_id, c.school_year, g.name AS grade_name
        FROM classes c JOIN grades g ON g.id = c.grade_id
        WHERE c.school_year = $1 ORDER BY c.grade_id ASC, c.id ASC`
	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, query, schoolYear); err != nil {
		return nil, fmt.Errorf("list class details for year %d: %w", schoolYear, err)
	}
	return classes, nil
}

// ListByYearForTeacher returns the year's classes with an active
// assignment for the given teacher.
func (r *ClassRepository) ListByYearForTeacher(ctx context.Context, schoolYear int, teacherID int64) ([]models.Class, error) {
	const query = `SELECT c.id, c.name, c.grade_id, c.school_year
        FROM classes c
        JOIN teacher_assignments ta ON ta.class_id = c.id AND ta.is_active = TRUE
        WHERE c.school_year = $1 AND ta.teacher_id = $2
        ORDER BY c.grade_id ASC, c.id ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, schoolYear, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher classes for year %d: %w", schoolYear, err)
	}
	return classes, nil
}

// FindByID returns a class by its ID.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	const query = `SELECT id, name, grade_id, school_year FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	const query = `INSERT INTO classes (name, grade_id, school_year) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.GetContext(ctx, &class.ID, query, class.Name, class.GradeID, class.SchoolYear); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// CreateBatch inserts classes one statement at a time inside a
// transaction, filling in generated IDs.
func (r *ClassRepository) CreateBatch(ctx context.Context, classes []models.Class) ([]models.Class, error) {
	if len(classes) == 0 {
		return classes, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create classes tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insert = `INSERT INTO classes (name, grade_id, school_year) VALUES ($1, $2, $3) RETURNING id`
	for i := range classes {
		if err = tx.GetContext(ctx, &classes[i].ID, insert, classes[i].Name, classes[i].GradeID, classes[i].SchoolYear); err != nil {
			return nil, fmt.Errorf("create class %q: %w", classes[i].Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create classes tx: %w", err)
	}
	return classes, nil
}

// Update renames a class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	const query = `UPDATE classes SET name = $2, grade_id = $3, school_year = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, class.ID, class.Name, class.GradeID, class.SchoolYear)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update class result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a class permanently.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete class result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountEnrollments returns how many enrollments reference the class.
func (r *ClassRepository) CountEnrollments(ctx context.Context, id int64) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE class_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count class enrollments: %w", err)
	}
	return count, nil
}
