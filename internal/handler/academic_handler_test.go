package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/chenwl/attendance-api/internal/dto"
	"github.com/chenwl/attendance-api/internal/models"
	"github.com/chenwl/attendance-api/internal/service"
	"github.com/chenwl/attendance-api/pkg/config"
)

type stubYears struct {
	year *models.AcademicYear
}

func (s *stubYears) FindByID(_ context.Context, id int64) (*models.AcademicYear, error) {
	if s.year == nil || s.year.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.year, nil
}

func (s *stubYears) FindByYear(_ context.Context, calendarYear int) (*models.AcademicYear, error) {
	if s.year == nil || s.year.Year != calendarYear {
		return nil, sql.ErrNoRows
	}
	return s.year, nil
}

type stubGrades struct{}

func (stubGrades) List(context.Context) ([]models.Grade, error) {
	return []models.Grade{{ID: 1, Name: "一年級"}, {ID: 2, Name: "二年級"}}, nil
}

func (stubGrades) FindByID(_ context.Context, id int) (*models.Grade, error) {
	return &models.Grade{ID: id, Name: "年級"}, nil
}

type stubClasses struct {
	byYear map[int][]models.Class
	nextID int64
}

func (s *stubClasses) ListByYear(_ context.Context, schoolYear int) ([]models.Class, error) {
	return s.byYear[schoolYear], nil
}

func (s *stubClasses) Create(_ context.Context, class *models.Class) error {
	s.nextID++
	class.ID = s.nextID
	s.byYear[class.SchoolYear] = append(s.byYear[class.SchoolYear], *class)
	return nil
}

func (s *stubClasses) CreateBatch(_ context.Context, classes []models.Class) ([]models.Class, error) {
	for i := range classes {
		s.nextID++
		classes[i].ID = s.nextID
		s.byYear[classes[i].SchoolYear] = append(s.byYear[classes[i].SchoolYear], classes[i])
	}
	return classes, nil
}

type stubEnrollments struct {
	active []models.ActiveEnrollment
}

func (s *stubEnrollments) ListActiveByYear(context.Context, int) ([]models.ActiveEnrollment, error) {
	return s.active, nil
}

func (s *stubEnrollments) ExistsForYear(context.Context, int64, int) (bool, error) {
	return false, nil
}

type stubCommitter struct{}

func (stubCommitter) Commit(_ context.Context, enrollments []models.Enrollment, graduateIDs []int64, _ time.Time, _ string) (int, error) {
	return len(enrollments), nil
}

func newPromoteRouter(years *stubYears, classes *stubClasses, enrollments *stubEnrollments) *gin.Engine {
	gin.SetMode(gin.TestMode)

	promotion := service.NewPromotionService(years, stubGrades{}, classes, enrollments,
		stubCommitter{}, nil, nil, config.PromotionConfig{MaxGrade: 2}, nil)
	h := NewAcademicHandler(nil, promotion)

	r := gin.New()
	r.POST("/academic/years/:id/promote", h.Promote)
	r.POST("/academic/years/by-year/:year/promote", h.PromoteByYear)
	return r
}

func TestPromoteEndpointContract(t *testing.T) {
	years := &stubYears{year: &models.AcademicYear{ID: 1, Year: 2025}}
	classes := &stubClasses{byYear: map[int][]models.Class{
		2024: {
			{ID: 10, Name: "一年級班", GradeID: 1, SchoolYear: 2024},
			{ID: 11, Name: "二年級班", GradeID: 2, SchoolYear: 2024},
		},
	}}
	classes.nextID = 11
	enrollments := &stubEnrollments{active: []models.ActiveEnrollment{
		{EnrollmentID: 1, StudentID: 100, ClassID: 10, GradeID: 1},
		{EnrollmentID: 2, StudentID: 101, ClassID: 11, GradeID: 2},
	}}
	r := newPromoteRouter(years, classes, enrollments)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/academic/years/1/promote", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body dto.PromotionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, 1, body.Promoted)
	require.Equal(t, 1, body.Graduated)
	require.NotEmpty(t, body.Message)
}

func TestPromoteEndpointUnknownYear(t *testing.T) {
	r := newPromoteRouter(&stubYears{}, &stubClasses{byYear: map[int][]models.Class{}}, &stubEnrollments{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/academic/years/42/promote", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body dto.PromotionErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.NotEmpty(t, body.Error)
}

func TestPromoteByYearEndpointValidatesParam(t *testing.T) {
	r := newPromoteRouter(&stubYears{}, &stubClasses{byYear: map[int][]models.Class{}}, &stubEnrollments{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/academic/years/by-year/abc/promote", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
