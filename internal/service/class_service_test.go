package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chenwl/attendance-api/internal/dto"
	"github.com/chenwl/attendance-api/internal/models"
	appErrors "github.com/chenwl/attendance-api/pkg/errors"
)

type fakeClassStore struct {
	classes     map[int64]*models.Class
	teacherOf   map[int64]int64 // class id -> teacher id with active assignment
	enrollments map[int64]int   // class id -> enrollment count
	nextID      int64
}

func (f *fakeClassStore) ListDetailByYear(_ context.Context, schoolYear int) ([]models.ClassDetail, error) {
	var out []models.ClassDetail
	for _, class := range f.classes {
		if class.SchoolYear == schoolYear {
			out = append(out, models.ClassDetail{Class: *class})
		}
	}
	return out, nil
}

func (f *fakeClassStore) ListByYearForTeacher(_ context.Context, schoolYear int, teacherID int64) ([]models.Class, error) {
	var out []models.Class
	for id, class := range f.classes {
		if class.SchoolYear == schoolYear && f.teacherOf[id] == teacherID {
			out = append(out, *class)
		}
	}
	return out, nil
}

func (f *fakeClassStore) FindByID(_ context.Context, id int64) (*models.Class, error) {
	class, ok := f.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *class
	return &copied, nil
}

func (f *fakeClassStore) Create(_ context.Context, class *models.Class) error {
	f.nextID++
	class.ID = f.nextID
	copied := *class
	f.classes[class.ID] = &copied
	return nil
}

func (f *fakeClassStore) Update(_ context.Context, class *models.Class) error {
	if _, ok := f.classes[class.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *class
	f.classes[class.ID] = &copied
	return nil
}

func (f *fakeClassStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.classes[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.classes, id)
	return nil
}

func (f *fakeClassStore) CountEnrollments(_ context.Context, id int64) (int, error) {
	return f.enrollments[id], nil
}

type fakeActiveYear struct {
	year *models.AcademicYear
}

func (f *fakeActiveYear) FindActive(context.Context) (*models.AcademicYear, error) {
	if f.year == nil {
		return nil, sql.ErrNoRows
	}
	return f.year, nil
}

type fakeTeacherReader struct {
	teachers map[int64]*models.User
}

func (f *fakeTeacherReader) FindTeacherByID(_ context.Context, id int64) (*models.User, error) {
	teacher, ok := f.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return teacher, nil
}

type fakeAssignmentStore struct {
	assignments []models.TeacherAssignment
}

func (f *fakeAssignmentStore) ListByClass(_ context.Context, classID int64) ([]models.TeacherAssignmentDetail, error) {
	var out []models.TeacherAssignmentDetail
	for _, assignment := range f.assignments {
		if assignment.ClassID == classID {
			out = append(out, models.TeacherAssignmentDetail{TeacherAssignment: assignment})
		}
	}
	return out, nil
}

func (f *fakeAssignmentStore) Create(_ context.Context, assignment *models.TeacherAssignment) error {
	assignment.ID = int64(len(f.assignments) + 1)
	f.assignments = append(f.assignments, *assignment)
	return nil
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: 1, Role: models.RoleGASpecialist, Name: "管理員"}
}

func teacherClaims(id int64) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleTeacher, Name: "老師"}
}

func newClassFixture() (*ClassService, *fakeClassStore, *fakeActiveYear, *fakeTeacherReader, *fakeAssignmentStore) {
	classes := &fakeClassStore{
		classes:     map[int64]*models.Class{},
		teacherOf:   map[int64]int64{},
		enrollments: map[int64]int{},
	}
	years := &fakeActiveYear{year: &models.AcademicYear{ID: 1, Year: 2025, IsActive: true}}
	grades := &fakePromotionGrades{grades: testGrades(6)}
	teachers := &fakeTeacherReader{teachers: map[int64]*models.User{}}
	assignments := &fakeAssignmentStore{}
	svc := NewClassService(classes, years, grades, teachers, assignments, &fakeAudit{}, nil)
	return svc, classes, years, teachers, assignments
}

func TestListForCallerScopesByRole(t *testing.T) {
	svc, classes, _, _, _ := newClassFixture()
	classes.classes[1] = &models.Class{ID: 1, Name: "一年級班", GradeID: 1, SchoolYear: 2025}
	classes.classes[2] = &models.Class{ID: 2, Name: "二年級班", GradeID: 2, SchoolYear: 2025}
	classes.teacherOf[2] = 7

	all, err := svc.ListForCaller(context.Background(), adminClaims(), 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := svc.ListForCaller(context.Background(), teacherClaims(7), 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, int64(2), mine[0].ID)
	require.Equal(t, "二年級", mine[0].GradeName)
}

func TestClassMutationsRequireAdmin(t *testing.T) {
	svc, _, _, _, _ := newClassFixture()

	_, err := svc.Create(context.Background(), teacherClaims(7), dto.CreateClassRequest{
		Name: "一年級班", GradeID: 1, SchoolYear: 2025,
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	err = svc.Delete(context.Background(), teacherClaims(7), 1)
	appErr = appErrors.FromError(err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestDeleteClassWithEnrollmentsConflicts(t *testing.T) {
	svc, classes, _, _, _ := newClassFixture()
	classes.classes[1] = &models.Class{ID: 1, Name: "一年級班", GradeID: 1, SchoolYear: 2025}
	classes.enrollments[1] = 12

	err := svc.Delete(context.Background(), adminClaims(), 1)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	// Empty class deletes cleanly.
	classes.enrollments[1] = 0
	require.NoError(t, svc.Delete(context.Background(), adminClaims(), 1))
}

func TestAssignTeacherValidatesBothEnds(t *testing.T) {
	svc, classes, _, teachers, assignments := newClassFixture()
	classes.classes[1] = &models.Class{ID: 1, Name: "一年級班", GradeID: 1, SchoolYear: 2025}

	_, err := svc.AssignTeacher(context.Background(), adminClaims(), 99, dto.AssignTeacherRequest{
		TeacherID: 7, SchoolYear: "2025",
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)

	_, err = svc.AssignTeacher(context.Background(), adminClaims(), 1, dto.AssignTeacherRequest{
		TeacherID: 7, SchoolYear: "2025",
	})
	appErr = appErrors.FromError(err)
	require.Equal(t, appErrors.ErrUnprocessable.Code, appErr.Code)

	teachers.teachers[7] = &models.User{ID: 7, Role: models.RoleTeacher, Active: true}
	assignment, err := svc.AssignTeacher(context.Background(), adminClaims(), 1, dto.AssignTeacherRequest{
		TeacherID: 7, SchoolYear: "2025",
	})
	require.NoError(t, err)
	require.True(t, assignment.IsActive)
	require.Len(t, assignments.assignments, 1)
}
