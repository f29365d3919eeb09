package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chenwl/attendance-api/internal/models"
)

// HolidayRepository handles persistence of holidays.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs the repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

const holidayColumns = `id, date, description, season_id, created_at, updated_at`

// List returns holidays, optionally scoped to one season.
func (r *HolidayRepository) List(ctx context.Context, seasonID int64) ([]models.Holiday, error) {
	query := fmt.Sprintf(`SELECT %s FROM holidays`, holidayColumns)
	var args []interface{}
	if seasonID > 0 {
		query += ` WHERE season_id = $1`
		args = append(args, seasonID)
	}
	query += ` ORDER BY date ASC`

	var holidays []models.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query, args...); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// FindByID returns a holiday by its ID.
func (r *HolidayRepository) FindByID(ctx context.Context, id int64) (*models.Holiday, error) {
	query := fmt.Sprintf(`SELECT %s FROM holidays WHERE id = $1`, holidayColumns)
	var holiday models.Holiday
	if err := r.db.GetContext(ctx, &holiday, query, id); err != nil {
		return nil, err
	}
	return &holiday, nil
}

// Create inserts a new holiday.
func (r *HolidayRepository) Create(ctx context.Context, holiday *models.Holiday) error {
	now := time.Now().UTC()
	holiday.CreatedAt = now
	holiday.UpdatedAt = now
	const query = `INSERT INTO holidays (date, description, season_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &holiday.ID, query, holiday.Date, holiday.Description, holiday.SeasonID, holiday.CreatedAt, holiday.UpdatedAt); err != nil {
		return fmt.Errorf("create holiday: %w", err)
	}
	return nil
}

// Delete removes a holiday permanently.
func (r *HolidayRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete holiday result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
