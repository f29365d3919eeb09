package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chenwl/attendance-api/internal/models"
)

// GradeRepository reads the static grade reference data.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns all grades in ascending order.
func (r *GradeRepository) List(ctx context.Context) ([]models.Grade, error) {
	const query = `SELECT id, name FROM grades ORDER BY id ASC`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// FindByID returns one grade.
func (r *GradeRepository) FindByID(ctx context.Context, id int) (*models.Grade, error) {
	const query = `SELECT id, name FROM grades WHERE id = $1`
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}
