package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chenwl/attendance-api/internal/dto"
	"github.com/chenwl/attendance-api/internal/models"
	appErrors "github.com/chenwl/attendance-api/pkg/errors"
)

type classStore interface {
	ListDetailByYear(ctx context.Context, schoolYear int) ([]models.ClassDetail, error)
	ListByYearForTeacher(ctx context.Context, schoolYear int, teacherID int64) ([]models.Class, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
	CountEnrollments(ctx context.Context, id int64) (int, error)
}

type activeYearResolver interface {
	FindActive(ctx context.Context) (*models.AcademicYear, error)
}

type gradeReader interface {
	List(ctx context.Context) ([]models.Grade, error)
	FindByID(ctx context.Context, id int) (*models.Grade, error)
}

type teacherReader interface {
	FindTeacherByID(ctx context.Context, id int64) (*models.User, error)
}

type assignmentStore interface {
	ListByClass(ctx context.Context, classID int64) ([]models.TeacherAssignmentDetail, error)
	Create(ctx context.Context, assignment *models.TeacherAssignment) error
}

// ClassService manages homerooms and their teacher assignments. Mutations
// are restricted to the administrative role; teachers only see the
// classes assigned to them.
type ClassService struct {
	classes     classStore
	years       activeYearResolver
	grades      gradeReader
	teachers    teacherReader
	assignments assignmentStore
	audit       auditLogger
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewClassService(
	classes classStore,
	years activeYearResolver,
	grades gradeReader,
	teachers teacherReader,
	assignments assignmentStore,
	audit auditLogger,
	logger *zap.Logger,
) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{
		classes:     classes,
		years:       years,
		grades:      grades,
		teachers:    teachers,
		assignments: assignments,
		audit:       audit,
		validate:    validator.New(),
		logger:      logger,
	}
}

// ListForCaller returns the classes visible to the caller for the given
// school year, defaulting to the active academic year when year is zero.
// Administrators see the full year; teachers only their assigned classes.
func (s *ClassService) ListForCaller(ctx context.Context, claims *models.JWTClaims, schoolYear int) ([]models.ClassDetail, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}

	if schoolYear == 0 {
		year, err := s.years.FindActive(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "no active academic year")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active academic year")
		}
		schoolYear = year.Year
	}

	if claims.IsAdmin() {
		classes, err := s.classes.ListDetailByYear(ctx, schoolYear)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
		}
		return classes, nil
	}

	classes, err := s.classes.ListByYearForTeacher(ctx, schoolYear, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assigned classes")
	}
	return s.withGradeNames(ctx, classes)
}

func (s *ClassService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateClassRequest) (*models.Class, error) {
	if !claims.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only GA specialists may create classes")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if _, err := s.grades.FindByID(ctx, req.GradeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("grade %d does not exist", req.GradeID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check grade")
	}

	class := &models.Class{Name: req.Name, GradeID: req.GradeID, SchoolYear: req.SchoolYear}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

func (s *ClassService) Update(ctx context.Context, claims *models.JWTClaims, id int64, req dto.UpdateClassRequest) (*models.Class, error) {
	if !claims.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only GA specialists may update classes")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	class.Name = req.Name
	class.GradeID = req.GradeID

	if err := s.classes.Update(ctx, class); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Delete refuses to remove a class that still has enrollments.
func (s *ClassService) Delete(ctx context.Context, claims *models.JWTClaims, id int64) error {
	if !claims.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "only GA specialists may delete classes")
	}

	count, err := s.classes.CountEnrollments(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("class has %d enrollments and cannot be deleted", count))
	}

	if err := s.classes.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}

	if s.audit != nil {
		userID := claims.UserID
		resourceID := strconv.FormatInt(id, 10)
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			UserID:     &userID,
			Action:     models.AuditActionClassDelete,
			Resource:   "class",
			ResourceID: &resourceID,
		}); err != nil {
			s.logger.Warn("failed to persist class delete audit log", zap.Error(err))
		}
	}
	return nil
}

func (s *ClassService) ListTeachers(ctx context.Context, classID int64) ([]models.TeacherAssignmentDetail, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher assignments")
	}
	return assignments, nil
}

// AssignTeacher links a teacher to a class. Both ends must exist and the
// target user must actually hold the teacher role.
func (s *ClassService) AssignTeacher(ctx context.Context, claims *models.JWTClaims, classID int64, req dto.AssignTeacherRequest) (*models.TeacherAssignment, error) {
	if !claims.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only GA specialists may assign teachers")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if _, err := s.teachers.FindTeacherByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnprocessable, fmt.Sprintf("user %d is not an active teacher", req.TeacherID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	assignment := &models.TeacherAssignment{
		TeacherID:  req.TeacherID,
		ClassID:    classID,
		SchoolYear: req.SchoolYear,
		IsActive:   true,
		Notes:      req.Notes,
	}
	if req.StartDate != nil {
		start, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
		}
		assignment.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD")
		}
		assignment.EndDate = &end
	}

	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher assignment")
	}
	return assignment, nil
}

func (s *ClassService) withGradeNames(ctx context.Context, classes []models.Class) ([]models.ClassDetail, error) {
	grades, err := s.grades.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	names := make(map[int]string, len(grades))
	for _, grade := range grades {
		names[grade.ID] = grade.Name
	}

	detail := make([]models.ClassDetail, 0, len(classes))
	for _, class := range classes {
		detail = append(detail, models.ClassDetail{Class: class, GradeName: names[class.GradeID]})
	}
	return detail, nil
}
