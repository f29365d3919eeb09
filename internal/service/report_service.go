package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/chenwl/attendance-api/internal/dto"
	"github.com/chenwl/attendance-api/pkg/config"
	appErrors "github.com/chenwl/attendance-api/pkg/errors"
	"github.com/chenwl/attendance-api/pkg/export"
)

// ExportFormat selects the attendance export encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type reportStore interface {
	AttendanceByRange(ctx context.Context, filter dto.AttendanceReportFilter) ([]dto.AttendanceReportRow, error)
	PendingLeave(ctx context.Context, filter dto.PendingLeaveFilter) ([]dto.PendingLeaveRow, error)
	UnresolvedAbsences(ctx context.Context, gradeID int) ([]dto.UnresolvedAbsenceRow, error)
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ReportService serves read-side attendance reporting with cache-aside
// over Redis. Cache failures degrade to direct queries.
type ReportService struct {
	store  reportStore
	cache  reportCache
	cfg    config.ReportsConfig
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

func NewReportService(store reportStore, cache reportCache, cfg config.ReportsConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &ReportService{
		store:  store,
		cache:  cache,
		cfg:    cfg,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// Attendance returns attendance rows for a date range, optionally
// narrowed by grade and status.
func (s *ReportService) Attendance(ctx context.Context, filter dto.AttendanceReportFilter) ([]dto.AttendanceReportRow, error) {
	if filter.EndDate.Before(filter.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrUnprocessable, "end date must not precede start date")
	}

	key := fmt.Sprintf("reports:attendance:%s:%s:%d:%s",
		filter.StartDate.Format(dateLayout), filter.EndDate.Format(dateLayout), filter.GradeID, filter.Status)
	var rows []dto.AttendanceReportRow
	if s.cacheGet(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.store.AttendanceByRange(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to query attendance report")
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

// PendingLeave returns leave requests still pending after the given
// number of days.
func (s *ReportService) PendingLeave(ctx context.Context, filter dto.PendingLeaveFilter) ([]dto.PendingLeaveRow, error) {
	if filter.OlderThanDays < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "older_than_days must not be negative")
	}

	key := fmt.Sprintf("reports:pending_leave:%d:%d", filter.OlderThanDays, filter.GradeID)
	var rows []dto.PendingLeaveRow
	if s.cacheGet(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.store.PendingLeave(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to query pending leave report")
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

// UnresolvedAbsences returns absent records with no approved leave
// request covering their date.
func (s *ReportService) UnresolvedAbsences(ctx context.Context, gradeID int) ([]dto.UnresolvedAbsenceRow, error) {
	key := fmt.Sprintf("reports:unresolved_absences:%d", gradeID)
	var rows []dto.UnresolvedAbsenceRow
	if s.cacheGet(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.store.UnresolvedAbsences(ctx, gradeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to query unresolved absence report")
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

// ExportAttendance renders the attendance report as CSV or PDF bytes.
func (s *ReportService) ExportAttendance(ctx context.Context, filter dto.AttendanceReportFilter, format ExportFormat) ([]byte, string, error) {
	rows, err := s.Attendance(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	table := export.Table{
		Headers: []string{"Date", "Student Code", "Student", "Class", "Grade", "Status"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Date.Format(dateLayout),
			strconv.FormatInt(row.StudentID, 10),
			row.StudentName,
			row.ClassName,
			row.GradeName,
			string(row.Status),
		})
	}

	switch format {
	case ExportFormatCSV:
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV export")
		}
		return data, "text/csv", nil
	case ExportFormatPDF:
		title := fmt.Sprintf("Attendance %s to %s", filter.StartDate.Format(dateLayout), filter.EndDate.Format(dateLayout))
		data, err := s.pdf.Render(table, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF export")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *ReportService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if !s.cfg.CacheEnabled || s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (s *ReportService) cacheSet(ctx context.Context, key string, value interface{}) {
	if !s.cfg.CacheEnabled || s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
