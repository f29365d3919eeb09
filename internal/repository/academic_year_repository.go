package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chenwl/attendance-api/internal/models"
)

// AcademicYearRepository handles persistence of academic years.
type AcademicYearRepository struct {
	db *sqlx.DB
}

// NewAcademicYearRepository constructs the repository.
func NewAcademicYearRepository(db *sqlx.DB) *AcademicYearRepository {
	return &AcademicYearRepository{db: db}
}

const academicYearColumns = `id, year, name, start_date, end_date, is_active, created_at, updated_at`

// List returns all academic years, newest first.
func (r *AcademicYearRepository) List(ctx context.Context) ([]models.AcademicYear, error) {
	query := fmt.Sprintf(`SELECT %s FROM academic_years ORDER BY year DESC`, academicYearColumns)
	var years []models.AcademicYear
	if err := r.db.SelectContext(ctx, &years, query); err != nil {
		return nil, fmt.Errorf("list academic years: %w", err)
	}
	return years, nil
}

// FindByID returns an academic year by its ID.
func (r *AcademicYearRepository) FindByID(ctx context.Context, id int64) (*models.AcademicYear, error) {
	query := fmt.Sprintf(`SELECT %s FROM academic_years WHERE id = $1`, academicYearColumns)
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// FindByYear resolves an academic year by its calendar year value.
func (r *AcademicYearRepository) FindByYear(ctx context.Context, year int) (*models.AcademicYear, error) {
	query := fmt.Sprintf(`SELECT %s FROM academic_years WHERE year = $1`, academicYearColumns)
	var row models.AcademicYear
	if err := r.db.GetContext(ctx, &row, query, year); err != nil {
		return nil, err
	}
	return &row, nil
}

// FindActive returns the currently active academic year.
func (r *AcademicYearRepository) FindActive(ctx context.Context) (*models.AcademicYear, error) {
	query := fmt.Sprintf(`SELECT %s FROM academic_years WHERE is_active = TRUE LIMIT 1`, academicYearColumns)
	var row models.AcademicYear
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new academic year. When the new year is active, every
// other year is deactivated inside the same transaction so readers never
// observe two active years.
func (r *AcademicYearRepository) Create(ctx context.Context, year *models.AcademicYear) error {
	now := time.Now().UTC()
	year.CreatedAt = now
	year.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create year tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if year.IsActive {
		if _, err = tx.ExecContext(ctx, `UPDATE academic_years SET is_active = FALSE, updated_at = $1 WHERE is_active = TRUE`, now); err != nil {
			return fmt.Errorf("deactivate other years: %w", err)
		}
	}

	const insert = `INSERT INTO academic_years (year, name, start_date, end_date, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err = tx.GetContext(ctx, &year.ID, insert, year.Year, year.Name, year.StartDate, year.EndDate, year.IsActive, year.CreatedAt, year.UpdatedAt); err != nil {
		return fmt.Errorf("create academic year: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create year tx: %w", err)
	}
	return nil
}

// Update modifies an existing academic year with the same single-active
// guarantee as Create. Returns sql.ErrNoRows when the ID is unknown.
func (r *AcademicYearRepository) Update(ctx context.Context, year *models.AcademicYear) error {
	now := time.Now().UTC()
	year.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update year tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if year.IsActive {
		if _, err = tx.ExecContext(ctx, `UPDATE academic_years SET is_active = FALSE, updated_at = $1 WHERE is_active = TRUE AND id <> $2`, now, year.ID); err != nil {
			return fmt.Errorf("deactivate other years: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `UPDATE academic_years SET year = $2, name = $3, start_date = $4, end_date = $5, is_active = $6, updated_at = $7 WHERE id = $1`,
		year.ID, year.Year, year.Name, year.StartDate, year.EndDate, year.IsActive, now)
	if err != nil {
		return fmt.Errorf("update academic year: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update academic year result: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update year tx: %w", err)
	}
	return nil
}

// Delete removes an academic year permanently.
func (r *AcademicYearRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM academic_years WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete academic year: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete academic year result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
