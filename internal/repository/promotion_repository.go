package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/chenwl/attendance-api/internal/models"
)

// PromotionRepository commits the staged output of a grade-promotion
// run. Everything happens in a single transaction: either all staged
// enrollments and graduations land, or none do.
type PromotionRepository struct {
	db *sqlx.DB
}

// NewPromotionRepository constructs the repository.
func NewPromotionRepository(db *sqlx.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// Commit inserts staged enrollments and marks graduating students in one
// transaction. Enrollment inserts use ON CONFLICT DO NOTHING on the
// (student_id, school_year) unique constraint, so a concurrent run that
// already placed a student is skipped instead of failing the batch.
// Returns the number of enrollment rows actually inserted.
func (r *PromotionRepository) Commit(ctx context.Context, enrollments []models.Enrollment, graduateIDs []int64, departureDate time.Time, departureReason string) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin promotion tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	inserted := 0
	const insert = `INSERT INTO enrollments (student_id, class_id, school_year)
        VALUES ($1, $2, $3)
        ON CONFLICT (student_id, school_year) DO NOTHING`
	for _, enrollment := range enrollments {
		var res sql.Result
		res, err = tx.ExecContext(ctx, insert, enrollment.StudentID, enrollment.ClassID, enrollment.SchoolYear)
		if err != nil {
			return 0, fmt.Errorf("insert promotion enrollment for student %d: %w", enrollment.StudentID, err)
		}
		var affected int64
		if affected, err = res.RowsAffected(); err != nil {
			return 0, fmt.Errorf("promotion enrollment result: %w", err)
		}
		inserted += int(affected)
	}

	if len(graduateIDs) > 0 {
		const graduate = `UPDATE students
            SET status = $1, departure_date = $2, departure_reason = $3, updated_at = $2
            WHERE id = ANY($4) AND status = $5`
		if _, err = tx.ExecContext(ctx, graduate,
			models.StudentStatusGraduated, departureDate, departureReason,
			pq.Array(graduateIDs), models.StudentStatusActive); err != nil {
			return 0, fmt.Errorf("graduate students: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit promotion tx: %w", err)
	}
	return inserted, nil
}
