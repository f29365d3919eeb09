package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chenwl/attendance-api/internal/models"
	"github.com/chenwl/attendance-api/pkg/config"
	appErrors "github.com/chenwl/attendance-api/pkg/errors"
)

type fakePromotionYears struct {
	byID map[int64]*models.AcademicYear
}

func (f *fakePromotionYears) FindByID(_ context.Context, id int64) (*models.AcademicYear, error) {
	year, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return year, nil
}

func (f *fakePromotionYears) FindByYear(_ context.Context, calendarYear int) (*models.AcademicYear, error) {
	for _, year := range f.byID {
		if year.Year == calendarYear {
			return year, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakePromotionGrades struct {
	grades []models.Grade
}

func (f *fakePromotionGrades) List(context.Context) ([]models.Grade, error) {
	return f.grades, nil
}

func (f *fakePromotionGrades) FindByID(_ context.Context, id int) (*models.Grade, error) {
	for _, grade := range f.grades {
		if grade.ID == id {
			return &grade, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakePromotionClasses struct {
	byYear map[int][]models.Class
	nextID int64
}

func (f *fakePromotionClasses) ListByYear(_ context.Context, schoolYear int) ([]models.Class, error) {
	return f.byYear[schoolYear], nil
}

func (f *fakePromotionClasses) Create(_ context.Context, class *models.Class) error {
	f.nextID++
	class.ID = f.nextID
	f.byYear[class.SchoolYear] = append(f.byYear[class.SchoolYear], *class)
	return nil
}

func (f *fakePromotionClasses) CreateBatch(_ context.Context, classes []models.Class) ([]models.Class, error) {
	for i := range classes {
		f.nextID++
		classes[i].ID = f.nextID
		f.byYear[classes[i].SchoolYear] = append(f.byYear[classes[i].SchoolYear], classes[i])
	}
	return classes, nil
}

type fakePromotionEnrollments struct {
	active   []models.ActiveEnrollment
	existing map[string]bool
}

func (f *fakePromotionEnrollments) ListActiveByYear(context.Context, int) ([]models.ActiveEnrollment, error) {
	return f.active, nil
}

func (f *fakePromotionEnrollments) ExistsForYear(_ context.Context, studentID int64, schoolYear int) (bool, error) {
	return f.existing[fmt.Sprintf("%d:%d", studentID, schoolYear)], nil
}

type fakeCommitter struct {
	staged    []models.Enrollment
	graduates []int64
	reason    string
	calls     int
	err       error
}

func (f *fakeCommitter) Commit(_ context.Context, enrollments []models.Enrollment, graduateIDs []int64, _ time.Time, reason string) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.staged = enrollments
	f.graduates = graduateIDs
	f.reason = reason
	return len(enrollments), nil
}

type fakeAudit struct {
	logs []*models.AuditLog
}

func (f *fakeAudit) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func testGrades(n int) []models.Grade {
	names := []string{"一年級", "二年級", "三年級", "四年級", "五年級", "六年級"}
	grades := make([]models.Grade, 0, n)
	for i := 0; i < n; i++ {
		grades = append(grades, models.Grade{ID: i + 1, Name: names[i]})
	}
	return grades
}

func newPromotionFixture(maxGrade int) (*PromotionService, *fakePromotionYears, *fakePromotionClasses, *fakePromotionEnrollments, *fakeCommitter, *fakeAudit) {
	years := &fakePromotionYears{byID: map[int64]*models.AcademicYear{
		1: {ID: 1, Year: 2025, Name: "2025學年"},
	}}
	grades := &fakePromotionGrades{grades: testGrades(maxGrade)}
	classes := &fakePromotionClasses{byYear: map[int][]models.Class{}}
	enrollments := &fakePromotionEnrollments{existing: map[string]bool{}}
	committer := &fakeCommitter{}
	audit := &fakeAudit{}

	svc := NewPromotionService(years, grades, classes, enrollments, committer, audit, nil,
		config.PromotionConfig{MaxGrade: maxGrade, ClassNameSuffix: "班", FallbackSection: "A", GraduationReason: "畢業"}, nil)
	return svc, years, classes, enrollments, committer, audit
}

func TestPromoteBootstrapProvisionsSkeleton(t *testing.T) {
	svc, _, classes, _, committer, audit := newPromotionFixture(3)

	result, err := svc.Promote(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, result.Promoted)
	require.Zero(t, result.Graduated)

	created := classes.byYear[2025]
	require.Len(t, created, 3)
	require.Equal(t, "一年級班", created[0].Name)
	require.Equal(t, "三年級班", created[2].Name)

	require.Zero(t, committer.calls, "bootstrap must not touch enrollments")
	require.Len(t, audit.logs, 1)
	require.Equal(t, models.AuditActionPromotionRun, audit.logs[0].Action)
}

func TestPromoteClonesClassesAndAdvancesStudents(t *testing.T) {
	svc, _, classes, enrollments, committer, _ := newPromotionFixture(3)

	classes.byYear[2024] = []models.Class{
		{ID: 10, Name: "一年級甲班", GradeID: 1, SchoolYear: 2024},
		{ID: 11, Name: "二年級甲班", GradeID: 2, SchoolYear: 2024},
	}
	classes.nextID = 11
	enrollments.active = []models.ActiveEnrollment{
		{EnrollmentID: 1, StudentID: 100, StudentName: "王小明", ClassID: 10, GradeID: 1},
		{EnrollmentID: 2, StudentID: 101, StudentName: "李小華", ClassID: 11, GradeID: 2},
		{EnrollmentID: 3, StudentID: 102, StudentName: "陳小玉", ClassID: 11, GradeID: 3},
	}

	result, err := svc.Promote(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, result.Promoted)
	require.Equal(t, 1, result.Graduated)

	// Previous names carry over; the uncovered grade gets the fallback.
	cloned := classes.byYear[2025]
	require.Len(t, cloned, 3)
	names := map[int]string{}
	for _, class := range cloned {
		names[class.GradeID] = class.Name
	}
	require.Equal(t, "一年級甲班", names[1])
	require.Equal(t, "二年級甲班", names[2])
	require.Equal(t, "3A", names[3])

	// Students land one grade up.
	require.Len(t, committer.staged, 2)
	byStudent := map[int64]models.Enrollment{}
	for _, enrollment := range committer.staged {
		byStudent[enrollment.StudentID] = enrollment
	}
	gradeOf := map[int64]int{}
	for _, class := range cloned {
		for _, enrollment := range byStudent {
			if enrollment.ClassID == class.ID {
				gradeOf[enrollment.StudentID] = class.GradeID
			}
		}
	}
	require.Equal(t, 2, gradeOf[100])
	require.Equal(t, 3, gradeOf[101])

	require.Equal(t, []int64{102}, committer.graduates)
	require.Equal(t, "畢業", committer.reason)
}

func TestPromoteSkipsAlreadyEnrolledStudents(t *testing.T) {
	svc, _, classes, enrollments, committer, _ := newPromotionFixture(3)

	classes.byYear[2024] = []models.Class{{ID: 10, Name: "一年級班", GradeID: 1, SchoolYear: 2024}}
	classes.nextID = 10
	enrollments.active = []models.ActiveEnrollment{
		{EnrollmentID: 1, StudentID: 100, ClassID: 10, GradeID: 1},
		{EnrollmentID: 2, StudentID: 101, ClassID: 10, GradeID: 1},
	}
	enrollments.existing["100:2025"] = true

	result, err := svc.Promote(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, result.Promoted)
	require.Len(t, committer.staged, 1)
	require.Equal(t, int64(101), committer.staged[0].StudentID)
}

func TestPromoteIsIdempotent(t *testing.T) {
	svc, _, classes, enrollments, committer, _ := newPromotionFixture(3)

	classes.byYear[2024] = []models.Class{{ID: 10, Name: "一年級班", GradeID: 1, SchoolYear: 2024}}
	classes.nextID = 10
	enrollments.active = []models.ActiveEnrollment{
		{EnrollmentID: 1, StudentID: 100, ClassID: 10, GradeID: 1},
	}

	first, err := svc.Promote(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, first.Promoted)

	// Second run: the student now has a target-year enrollment and the
	// target-year classes already exist.
	enrollments.existing["100:2025"] = true
	second, err := svc.Promote(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, second.Promoted)
	require.Zero(t, second.Graduated)
	require.Empty(t, committer.staged)
}

func TestPromoteFillsMissingGradesOnly(t *testing.T) {
	svc, _, classes, enrollments, committer, _ := newPromotionFixture(2)

	classes.byYear[2024] = []models.Class{
		{ID: 10, Name: "一年級班", GradeID: 1, SchoolYear: 2024},
		{ID: 11, Name: "二年級班", GradeID: 2, SchoolYear: 2024},
	}
	// Target year already has a grade-2 class; only grade 1 is missing.
	classes.byYear[2025] = []models.Class{
		{ID: 20, Name: "二年級乙班", GradeID: 2, SchoolYear: 2025},
	}
	classes.nextID = 20
	enrollments.active = []models.ActiveEnrollment{
		{EnrollmentID: 1, StudentID: 100, ClassID: 10, GradeID: 1},
	}

	result, err := svc.Promote(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, result.Promoted)

	target := classes.byYear[2025]
	require.Len(t, target, 2)
	require.Equal(t, "一年級班", target[1].Name)
	// The student advances into the pre-existing grade-2 class.
	require.Equal(t, int64(20), committer.staged[0].ClassID)
}

func TestPromoteUnknownYear(t *testing.T) {
	svc, _, _, _, _, _ := newPromotionFixture(3)

	_, err := svc.Promote(context.Background(), 999)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestPromoteByYearResolvesCalendarYear(t *testing.T) {
	svc, _, classes, _, _, _ := newPromotionFixture(2)

	result, err := svc.PromoteByYear(context.Background(), 2025)
	require.NoError(t, err)
	require.Zero(t, result.Promoted)
	require.Len(t, classes.byYear[2025], 2)

	_, err = svc.PromoteByYear(context.Background(), 1999)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
