package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chenwl/attendance-api/internal/dto"
	"github.com/chenwl/attendance-api/internal/models"
	appErrors "github.com/chenwl/attendance-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type academicYearStore interface {
	List(ctx context.Context) ([]models.AcademicYear, error)
	FindByID(ctx context.Context, id int64) (*models.AcademicYear, error)
	FindByYear(ctx context.Context, year int) (*models.AcademicYear, error)
	FindActive(ctx context.Context) (*models.AcademicYear, error)
	Create(ctx context.Context, year *models.AcademicYear) error
	Update(ctx context.Context, year *models.AcademicYear) error
	Delete(ctx context.Context, id int64) error
}

type seasonStore interface {
	List(ctx context.Context, academicYearID int64) ([]models.Season, error)
	FindByID(ctx context.Context, id int64) (*models.Season, error)
	Create(ctx context.Context, season *models.Season) error
	Update(ctx context.Context, season *models.Season) error
	DeleteCascade(ctx context.Context, id int64) error
}

type holidayStore interface {
	List(ctx context.Context, seasonID int64) ([]models.Holiday, error)
	FindByID(ctx context.Context, id int64) (*models.Holiday, error)
	Create(ctx context.Context, holiday *models.Holiday) error
	Delete(ctx context.Context, id int64) error
}

type yearPromoter interface {
	Promote(ctx context.Context, academicYearID int64) (*dto.PromotionResult, error)
}

// CalendarService manages academic years, their seasons, and holidays.
type CalendarService struct {
	years    academicYearStore
	seasons  seasonStore
	holidays holidayStore
	promoter yearPromoter
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCalendarService(years academicYearStore, seasons seasonStore, holidays holidayStore, promoter yearPromoter, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		years:    years,
		seasons:  seasons,
		holidays: holidays,
		promoter: promoter,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *CalendarService) ListYears(ctx context.Context) ([]models.AcademicYear, error) {
	years, err := s.years.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list academic years")
	}
	return years, nil
}

func (s *CalendarService) GetYear(ctx context.Context, id int64) (*models.AcademicYear, error) {
	year, err := s.years.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic year not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
	}
	return year, nil
}

// ActiveYear resolves the current academic year purely from storage.
func (s *CalendarService) ActiveYear(ctx context.Context) (*models.AcademicYear, error) {
	year, err := s.years.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active academic year")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active academic year")
	}
	return year, nil
}

// CreateYear creates an academic year. When req.AutoPromoteStudents is
// set the promotion workflow runs for the new year and its counts are
// returned alongside the created row.
func (s *CalendarService) CreateYear(ctx context.Context, req dto.CreateAcademicYearRequest) (*models.AcademicYear, *dto.PromotionResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.years.FindByYear(ctx, req.Year); err == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("academic year %d already exists", req.Year))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check academic year")
	}

	year := &models.AcademicYear{
		Year:      req.Year,
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		IsActive:  req.IsActive,
	}
	if err := s.years.Create(ctx, year); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create academic year")
	}
	s.logger.Info("academic year created",
		zap.Int64("academic_year_id", year.ID), zap.Int("year", year.Year), zap.Bool("is_active", year.IsActive))

	if !req.AutoPromoteStudents || s.promoter == nil {
		return year, nil, nil
	}
	result, err := s.promoter.Promote(ctx, year.ID)
	if err != nil {
		// The year itself is committed; surface the promotion failure
		// without rolling the creation back.
		s.logger.Error("auto promotion after year creation failed",
			zap.Int64("academic_year_id", year.ID), zap.Error(err))
		return year, nil, err
	}
	return year, result, nil
}

func (s *CalendarService) UpdateYear(ctx context.Context, id int64, req dto.UpdateAcademicYearRequest) (*models.AcademicYear, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	year, err := s.GetYear(ctx, id)
	if err != nil {
		return nil, err
	}
	year.Name = req.Name
	year.StartDate = start
	year.EndDate = end
	year.IsActive = req.IsActive

	if err := s.years.Update(ctx, year); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic year not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update academic year")
	}
	return year, nil
}

func (s *CalendarService) DeleteYear(ctx context.Context, id int64) error {
	if err := s.years.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "academic year not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete academic year")
	}
	return nil
}

func (s *CalendarService) ListSeasons(ctx context.Context, academicYearID int64) ([]models.Season, error) {
	seasons, err := s.seasons.List(ctx, academicYearID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list seasons")
	}
	return seasons, nil
}

func (s *CalendarService) GetSeason(ctx context.Context, id int64) (*models.Season, error) {
	season, err := s.seasons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "season not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load season")
	}
	return season, nil
}

func (s *CalendarService) CreateSeason(ctx context.Context, req dto.CreateSeasonRequest) (*models.Season, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetYear(ctx, req.AcademicYearID); err != nil {
		return nil, err
	}

	season := &models.Season{
		Name:           req.Name,
		Type:           models.SeasonType(req.Type),
		StartDate:      start,
		EndDate:        end,
		AcademicYearID: req.AcademicYearID,
		IsActive:       req.IsActive,
	}
	if err := s.seasons.Create(ctx, season); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create season")
	}
	return season, nil
}

func (s *CalendarService) UpdateSeason(ctx context.Context, id int64, req dto.UpdateSeasonRequest) (*models.Season, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	season, err := s.GetSeason(ctx, id)
	if err != nil {
		return nil, err
	}
	season.Name = req.Name
	season.Type = models.SeasonType(req.Type)
	season.StartDate = start
	season.EndDate = end
	season.IsActive = req.IsActive

	if err := s.seasons.Update(ctx, season); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "season not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update season")
	}
	return season, nil
}

// DeleteSeason removes a season together with its holidays.
func (s *CalendarService) DeleteSeason(ctx context.Context, id int64) error {
	if err := s.seasons.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "season not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete season")
	}
	return nil
}

func (s *CalendarService) ListHolidays(ctx context.Context, seasonID int64) ([]models.Holiday, error) {
	holidays, err := s.holidays.List(ctx, seasonID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list holidays")
	}
	return holidays, nil
}

func (s *CalendarService) GetHoliday(ctx context.Context, id int64) (*models.Holiday, error) {
	holiday, err := s.holidays.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "holiday not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holiday")
	}
	return holiday, nil
}

func (s *CalendarService) CreateHoliday(ctx context.Context, req dto.CreateHolidayRequest) (*models.Holiday, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if _, err := s.GetSeason(ctx, req.SeasonID); err != nil {
		return nil, err
	}

	holiday := &models.Holiday{
		Date:        date,
		Description: req.Description,
		SeasonID:    req.SeasonID,
	}
	if err := s.holidays.Create(ctx, holiday); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create holiday")
	}
	return holiday, nil
}

func (s *CalendarService) DeleteHoliday(ctx context.Context, id int64) error {
	if err := s.holidays.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "holiday not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete holiday")
	}
	return nil
}

func parseDateRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrUnprocessable, "end_date must not precede start_date")
	}
	return start, end, nil
}
