package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chenwl/attendance-api/internal/dto"
	"github.com/chenwl/attendance-api/internal/service"
	appErrors "github.com/chenwl/attendance-api/pkg/errors"
	"github.com/chenwl/attendance-api/pkg/response"
)

// AcademicHandler exposes the academic calendar and the year promotion
// endpoints.
type AcademicHandler struct {
	calendar  *service.CalendarService
	promotion *service.PromotionService
}

// NewAcademicHandler constructs AcademicHandler.
func NewAcademicHandler(calendar *service.CalendarService, promotion *service.PromotionService) *AcademicHandler {
	return &AcademicHandler{calendar: calendar, promotion: promotion}
}

// ListYears godoc
// @Summary List academic years
// @Tags Academic
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /academic/years [get]
func (h *AcademicHandler) ListYears(c *gin.Context) {
	years, err := h.calendar.ListYears(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, years, nil)
}

// ActiveYear godoc
// @Summary Get the currently active academic year
// @Tags Academic
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /academic/years/active [get]
func (h *AcademicHandler) ActiveYear(c *gin.Context) {
	year, err := h.calendar.ActiveYear(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, year, nil)
}

// GetYear godoc
// @Summary Get academic year detail
// @Tags Academic
// @Produce json
// @Param id path int true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Router /academic/years/{id} [get]
func (h *AcademicHandler) GetYear(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	year, err := h.calendar.GetYear(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, year, nil)
}

// CreateYear godoc
// @Summary Create academic year
// @Tags Academic
// @Accept json
// @Produce json
// @Param payload body dto.CreateAcademicYearRequest true "Academic year"
// @Success 201 {object} response.Envelope
// @Router /academic/years [post]
func (h *AcademicHandler) CreateYear(c *gin.Context) {
	var req dto.CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	year, promoted, err := h.calendar.CreateYear(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if promoted != nil {
		response.JSON(c, http.StatusCreated, gin.H{"year": year, "promotion": promoted}, nil)
		return
	}
	response.Created(c, year)
}

// UpdateYear godoc
// @Summary Update academic year
// @Tags Academic
// @Accept json
// @Produce json
// @Param id path int true "Academic year ID"
// @Param payload body dto.UpdateAcademicYearRequest true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /academic/years/{id} [put]
func (h *AcademicHandler) UpdateYear(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	year, err := h.calendar.UpdateYear(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, year, nil)
}

// DeleteYear godoc
// @Summary Delete academic year
// @Tags Academic
// @Param id path int true "Academic year ID"
// @Success 204
// @Router /academic/years/{id} [delete]
func (h *AcademicHandler) DeleteYear(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.calendar.DeleteYear(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Promote godoc
// @Summary Promote students into the academic year
// @Tags Academic
// @Produce json
// @Param id path int true "Academic year ID"
// @Success 200 {object} dto.PromotionResponse
// @Router /academic/years/{id}/promote [post]
func (h *AcademicHandler) Promote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.promotion.Promote(c.Request.Context(), id)
	h.writePromotionResult(c, result, err)
}

// PromoteByYear godoc
// @Summary Promote students into the academic year by calendar year
// @Tags Academic
// @Produce json
// @Param year path int true "Calendar year"
// @Success 200 {object} dto.PromotionResponse
// @Router /academic/years/by-year/{year}/promote [post]
func (h *AcademicHandler) PromoteByYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.PromotionErrorResponse{Error: "year must be an integer"})
		return
	}
	result, promoteErr := h.promotion.PromoteByYear(c.Request.Context(), year)
	h.writePromotionResult(c, result, promoteErr)
}

// writePromotionResult emits the flat contract the admin front end
// consumes instead of the standard envelope.
func (h *AcademicHandler) writePromotionResult(c *gin.Context, result *dto.PromotionResult, err error) {
	if err != nil {
		appErr := appErrors.FromError(err)
		c.JSON(appErr.Status, dto.PromotionErrorResponse{Error: appErr.Message})
		return
	}
	c.JSON(http.StatusOK, dto.PromotionResponse{
		Success:   true,
		Promoted:  result.Promoted,
		Graduated: result.Graduated,
		Message:   fmt.Sprintf("promoted %d students, graduated %d", result.Promoted, result.Graduated),
	})
}

// ListSeasons godoc
// @Summary List seasons of an academic year
// @Tags Academic
// @Produce json
// @Param academic_year_id query int true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Router /academic/seasons [get]
func (h *AcademicHandler) ListSeasons(c *gin.Context) {
	yearID, err := strconv.ParseInt(c.Query("academic_year_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "academic_year_id must be an integer"))
		return
	}
	seasons, err := h.calendar.ListSeasons(c.Request.Context(), yearID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, seasons, nil)
}

// GetSeason godoc
// @Summary Get season detail
// @Tags Academic
// @Produce json
// @Param id path int true "Season ID"
// @Success 200 {object} response.Envelope
// @Router /academic/seasons/{id} [get]
func (h *AcademicHandler) GetSeason(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	season, err := h.calendar.GetSeason(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, season, nil)
}

// CreateSeason godoc
// @Summary Create season
// @Tags Academic
// @Accept json
// @Produce json
// @Param payload body dto.CreateSeasonRequest true "Season"
// @Success 201 {object} response.Envelope
// @Router /academic/seasons [post]
func (h *AcademicHandler) CreateSeason(c *gin.Context) {
	var req dto.CreateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	season, err := h.calendar.CreateSeason(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, season)
}

// UpdateSeason godoc
// @Summary Update season
// @Tags Academic
// @Accept json
// @Produce json
// @Param id path int true "Season ID"
// @Param payload body dto.UpdateSeasonRequest true "Season"
// @Success 200 {object} response.Envelope
// @Router /academic/seasons/{id} [put]
func (h *AcademicHandler) UpdateSeason(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	season, err := h.calendar.UpdateSeason(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, season, nil)
}

// DeleteSeason godoc
// @Summary Delete season and its holidays
// @Tags Academic
// @Param id path int true "Season ID"
// @Success 204
// @Router /academic/seasons/{id} [delete]
func (h *AcademicHandler) DeleteSeason(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.calendar.DeleteSeason(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListHolidays godoc
// @Summary List holidays of a season
// @Tags Academic
// @Produce json
// @Param season_id query int true "Season ID"
// @Success 200 {object} response.Envelope
// @Router /academic/holidays [get]
func (h *AcademicHandler) ListHolidays(c *gin.Context) {
	seasonID, err := strconv.ParseInt(c.Query("season_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "season_id must be an integer"))
		return
	}
	holidays, err := h.calendar.ListHolidays(c.Request.Context(), seasonID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holidays, nil)
}

// GetHoliday godoc
// @Summary Get holiday detail
// @Tags Academic
// @Produce json
// @Param id path int true "Holiday ID"
// @Success 200 {object} response.Envelope
// @Router /academic/holidays/{id} [get]
func (h *AcademicHandler) GetHoliday(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	holiday, err := h.calendar.GetHoliday(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holiday, nil)
}

// CreateHoliday godoc
// @Summary Create holiday
// @Tags Academic
// @Accept json
// @Produce json
// @Param payload body dto.CreateHolidayRequest true "Holiday"
// @Success 201 {object} response.Envelope
// @Router /academic/holidays [post]
func (h *AcademicHandler) CreateHoliday(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	holiday, err := h.calendar.CreateHoliday(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, holiday)
}

// DeleteHoliday godoc
// @Summary Delete holiday
// @Tags Academic
// @Param id path int true "Holiday ID"
// @Success 204
// @Router /academic/holidays/{id} [delete]
func (h *AcademicHandler) DeleteHoliday(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.calendar.DeleteHoliday(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
