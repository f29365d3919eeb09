package models

import "time"

// AcademicYear models one school year in the institution calendar.
// At most one row is active at a time; "current year" behaviour always
// derives from the is_active flag, never from process state.
type AcademicYear struct {
	ID        int64     `db:"id" json:"id"`
	Year      int       `db:"year" json:"year"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SeasonType distinguishes term-like periods within a year.
type SeasonType string

const (
	SeasonTypeSemester SeasonType = "semester"
	SeasonTypeBreak    SeasonType = "break"
)

// Season is a named period inside an academic year.
type Season struct {
	ID             int64      `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Type           SeasonType `db:"type" json:"type"`
	StartDate      time.Time  `db:"start_date" json:"start_date"`
	EndDate        time.Time  `db:"end_date" json:"end_date"`
	AcademicYearID int64      `db:"academic_year_id" json:"academic_year_id"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Holiday is a non-school day belonging to a season.
type Holiday struct {
	ID          int64     `db:"id" json:"id"`
	Date        time.Time `db:"date" json:"date"`
	Description string    `db:"description" json:"description"`
	SeasonID    int64     `db:"season_id" json:"season_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
