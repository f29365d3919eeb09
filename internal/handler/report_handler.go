package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chenwl/attendance-api/internal/dto"
	"github.com/chenwl/attendance-api/internal/models"
	"github.com/chenwl/attendance-api/internal/service"
	appErrors "github.com/chenwl/attendance-api/pkg/errors"
	"github.com/chenwl/attendance-api/pkg/response"
)

const reportDateLayout = "2006-01-02"

// ReportHandler exposes the read-side reporting endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Attendance godoc
// @Summary Attendance report for a date range
// @Tags Reports
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param grade_id query int false "Filter by grade"
// @Param status query string false "Filter by attendance status"
// @Success 200 {object} response.Envelope
// @Router /reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	filter, ok := h.attendanceFilter(c)
	if !ok {
		return
	}
	rows, err := h.reports.Attendance(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// ExportAttendance godoc
// @Summary Export the attendance report as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param grade_id query int false "Filter by grade"
// @Param status query string false "Filter by attendance status"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /reports/attendance/export [get]
func (h *ReportHandler) ExportAttendance(c *gin.Context) {
	filter, ok := h.attendanceFilter(c)
	if !ok {
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	data, contentType, err := h.reports.ExportAttendance(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := "attendance_" + filter.StartDate.Format(reportDateLayout) + "_" + filter.EndDate.Format(reportDateLayout) + "." + string(format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// PendingLeave godoc
// @Summary Leave requests still pending after N days
// @Tags Reports
// @Produce json
// @Param older_than_days query int false "Minimum request age in days" default(0)
// @Param grade_id query int false "Filter by grade"
// @Success 200 {object} response.Envelope
// @Router /reports/leave-requests/pending [get]
func (h *ReportHandler) PendingLeave(c *gin.Context) {
	var filter dto.PendingLeaveFilter
	var err error
	filter.OlderThanDays, err = strconv.Atoi(c.DefaultQuery("older_than_days", "0"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "older_than_days must be an integer"))
		return
	}
	if filter.GradeID, err = optionalIntQuery(c, "grade_id"); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "grade_id must be an integer"))
		return
	}

	rows, err := h.reports.PendingLeave(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// UnresolvedAbsences godoc
// @Summary Absences with no approved leave covering them
// @Tags Reports
// @Produce json
// @Param grade_id query int false "Filter by grade"
// @Success 200 {object} response.Envelope
// @Router /reports/absences/unresolved [get]
func (h *ReportHandler) UnresolvedAbsences(c *gin.Context) {
	gradeID, err := optionalIntQuery(c, "grade_id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "grade_id must be an integer"))
		return
	}
	rows, err := h.reports.UnresolvedAbsences(c.Request.Context(), gradeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

func (h *ReportHandler) attendanceFilter(c *gin.Context) (dto.AttendanceReportFilter, bool) {
	var filter dto.AttendanceReportFilter

	start, err := time.Parse(reportDateLayout, c.Query("start_date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD"))
		return filter, false
	}
	end, err := time.Parse(reportDateLayout, c.Query("end_date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD"))
		return filter, false
	}
	filter.StartDate = start
	filter.EndDate = end
	filter.Status = models.AttendanceStatus(c.Query("status"))

	if filter.GradeID, err = optionalIntQuery(c, "grade_id"); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "grade_id must be an integer"))
		return filter, false
	}
	return filter, true
}

func optionalIntQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
