package dto

// Request payloads for the academic calendar endpoints. Dates travel as
// YYYY-MM-DD strings and are parsed at the service boundary.

type CreateAcademicYearRequest struct {
	Year      int    `json:"year" validate:"required,gte=1900,lte=9999"`
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsActive  bool   `json:"is_active"`
	// AutoPromoteStudents runs the promotion workflow for the new year
	// right after it is created.
	AutoPromoteStudents bool `json:"auto_promote_students"`
}

type UpdateAcademicYearRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsActive  bool   `json:"is_active"`
}

type CreateSeasonRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Type           string `json:"type" validate:"required,oneof=semester break"`
	StartDate      string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"end_date" validate:"required,datetime=2006-01-02"`
	AcademicYearID int64  `json:"academic_year_id" validate:"required"`
	IsActive       bool   `json:"is_active"`
}

type UpdateSeasonRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Type      string `json:"type" validate:"required,oneof=semester break"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsActive  bool   `json:"is_active"`
}

type CreateHolidayRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"required,max=200"`
	SeasonID    int64  `json:"season_id" validate:"required"`
}
