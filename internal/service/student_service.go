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

type studentStore interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	DeleteCascade(ctx context.Context, id int64) error
}

type reportCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// StudentService manages the roster.
type StudentService struct {
	students studentStore
	cache    reportCacheInvalidator
	audit    auditLogger
	validate *validator.Validate
	logger   *zap.Logger
}

func NewStudentService(students studentStore, cache reportCacheInvalidator, audit auditLogger, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		students: students,
		cache:    cache,
		audit:    audit,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 200 {
		filter.PageSize = 50
	}
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	birthday, err := time.Parse(dateLayout, req.Birthday)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "birthday must be YYYY-MM-DD")
	}
	enrollmentDate, err := time.Parse(dateLayout, req.EnrollmentDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enrollment_date must be YYYY-MM-DD")
	}

	taken, err := s.students.ExistsByCode(ctx, req.StudentCode, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student code")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("student code %s already in use", req.StudentCode))
	}

	student := &models.Student{
		StudentCode:    req.StudentCode,
		Name:           req.Name,
		Birthday:       birthday,
		Gender:         req.Gender,
		Status:         models.StudentStatusActive,
		EnrollmentDate: enrollmentDate,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

func (s *StudentService) Update(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	birthday, err := time.Parse(dateLayout, req.Birthday)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "birthday must be YYYY-MM-DD")
	}
	enrollmentDate, err := time.Parse(dateLayout, req.EnrollmentDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enrollment_date must be YYYY-MM-DD")
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.students.ExistsByCode(ctx, req.StudentCode, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student code")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("student code %s already in use", req.StudentCode))
	}

	student.StudentCode = req.StudentCode
	student.Name = req.Name
	student.Birthday = birthday
	student.Gender = req.Gender
	student.Status = models.StudentStatus(req.Status)
	student.EnrollmentDate = enrollmentDate
	student.DepartureReason = req.DepartureReason
	student.DepartureDate = nil
	if req.DepartureDate != nil {
		departure, err := time.Parse(dateLayout, *req.DepartureDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "departure_date must be YYYY-MM-DD")
		}
		student.DepartureDate = &departure
	}

	if err := s.students.Update(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes the student together with every dependent attendance
// record, leave request, and enrollment in one transaction, then drops
// cached reports that may still reference them.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.students.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "reports:*"); err != nil {
			s.logger.Warn("failed to invalidate report cache after student delete", zap.Error(err))
		}
	}
	if s.audit != nil {
		resourceID := strconv.FormatInt(id, 10)
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			Action:     models.AuditActionStudentPurge,
			Resource:   "student",
			ResourceID: &resourceID,
		}); err != nil {
			s.logger.Warn("failed to persist student delete audit log", zap.Error(err))
		}
	}
	s.logger.Info("student deleted with dependents", zap.Int64("student_id", id))
	return nil
}
