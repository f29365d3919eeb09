package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chenwl/attendance-api/internal/models"
)

// SeasonRepository handles persistence of seasons.
type SeasonRepository struct {
	db *sqlx.DB
}

// NewSeasonRepository constructs the repository.
func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

const seasonColumns = `id, name, type, start_date, end_date, academic_year_id, is_active, created_at, updated_at`

// List returns seasons, optionally scoped to one academic year.
func (r *SeasonRepository) List(ctx context.Context, academicYearID int64) ([]models.Season, error) {
	query := fmt.Sprintf(`SELECT %s FROM seasons`, seasonColumns)
	var args []interface{}
	if academicYearID > 0 {
		query += ` WHERE academic_year_id = $1`
		args = append(args, academicYearID)
	}
	query += ` ORDER BY academic_year_id DESC, start_date ASC`

	var seasons []models.Season
	if err := r.db.SelectContext(ctx, &seasons, query, args...); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return seasons, nil
}

// FindByID returns a season by its ID.
func (r *SeasonRepository) FindByID(ctx context.Context, id int64) (*models.Season, error) {
	query := fmt.Sprintf(`SELECT %s FROM seasons WHERE id = $1`, seasonColumns)
	var season models.Season
	if err := r.db.GetContext(ctx, &season, query, id); err != nil {
		return nil, err
	}
	return &season, nil
}

// Create inserts a new season.
func (r *SeasonRepository) Create(ctx context.Context, season *models.Season) error {
	now := time.Now().UTC()
	season.CreatedAt = now
	season.UpdatedAt = now
	const query = `INSERT INTO seasons (name, type, start_date, end_date, academic_year_id, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.GetContext(ctx, &season.ID, query,
		season.Name, season.Type, season.StartDate, season.EndDate, season.AcademicYearID, season.IsActive, season.CreatedAt, season.UpdatedAt); err != nil {
		return fmt.Errorf("create season: %w", err)
	}
	return nil
}

// Update modifies an existing season.
func (r *SeasonRepository) Update(ctx context.Context, season *models.Season) error {
	season.UpdatedAt = time.Now().UTC()
	const query = `UPDATE seasons SET name = $2, type = $3, start_date = $4, end_date = $5, academic_year_id = $6, is_active = $7, updated_at = $8 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		season.ID, season.Name, season.Type, season.StartDate, season.EndDate, season.AcademicYearID, season.IsActive, season.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update season: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update season result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCascade removes a season and its holidays in one transaction.
// Holidays go first to keep referential integrity.
func (r *SeasonRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete season tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM holidays WHERE season_id = $1`, id); err != nil {
		return fmt.Errorf("delete season holidays: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM seasons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete season result: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete season tx: %w", err)
	}
	return nil
}
