package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/chenwl/attendance-api/internal/dto"
	"github.com/chenwl/attendance-api/internal/models"
	"github.com/chenwl/attendance-api/pkg/config"
	appErrors "github.com/chenwl/attendance-api/pkg/errors"
)

type promotionYearReader interface {
	FindByID(ctx context.Context, id int64) (*models.AcademicYear, error)
	FindByYear(ctx context.Context, year int) (*models.AcademicYear, error)
}

type promotionGradeReader interface {
	List(ctx context.Context) ([]models.Grade, error)
	FindByID(ctx context.Context, id int) (*models.Grade, error)
}

type promotionClassStore interface {
	ListByYear(ctx context.Context, schoolYear int) ([]models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	CreateBatch(ctx context.Context, classes []models.Class) ([]models.Class, error)
}

type promotionEnrollmentReader interface {
	ListActiveByYear(ctx context.Context, schoolYear int) ([]models.ActiveEnrollment, error)
	ExistsForYear(ctx context.Context, studentID int64, schoolYear int) (bool, error)
}

type promotionCommitter interface {
	Commit(ctx context.Context, enrollments []models.Enrollment, graduateIDs []int64, departureDate time.Time, departureReason string) (int, error)
}

type promotionMetrics interface {
	ObservePromotion(promoted, graduated int)
}

// promotionStage names the deterministic action the rollover takes once
// the surrounding class state has been inspected.
type promotionStage int

const (
	// stageBootstrap: no previous-year classes exist, so there is
	// nothing to promote from. Provision a class skeleton and stop.
	stageBootstrap promotionStage = iota
	// stageFullClone: the target year has no classes yet. Clone the
	// previous year's class set before advancing students.
	stageFullClone
	// stagePartialClasses: the target year already has classes for some
	// grades. Fill in the missing grades, then advance students.
	stagePartialClasses
)

func (s promotionStage) String() string {
	switch s {
	case stageBootstrap:
		return "bootstrap"
	case stageFullClone:
		return "full_clone"
	case stagePartialClasses:
		return "partial_classes"
	default:
		return "unknown"
	}
}

// PromotionService rolls active students into the next school year:
// provisioning target-year classes, advancing each enrollment one grade,
// and graduating students past the top grade. The whole write set
// commits in one transaction.
type PromotionService struct {
	years       promotionYearReader
	grades      promotionGradeReader
	classes     promotionClassStore
	enrollments promotionEnrollmentReader
	committer   promotionCommitter
	audit       auditLogger
	metrics     promotionMetrics
	cfg         config.PromotionConfig
	logger      *zap.Logger
}

// NewPromotionService constructs the service. Zero-value config fields
// fall back to the standard twelve-grade setup.
func NewPromotionService(
	years promotionYearReader,
	grades promotionGradeReader,
	classes promotionClassStore,
	enrollments promotionEnrollmentReader,
	committer promotionCommitter,
	audit auditLogger,
	metrics promotionMetrics,
	cfg config.PromotionConfig,
	logger *zap.Logger,
) *PromotionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxGrade <= 0 {
		cfg.MaxGrade = 12
	}
	if cfg.ClassNameSuffix == "" {
		cfg.ClassNameSuffix = "班"
	}
	if cfg.FallbackSection == "" {
		cfg.FallbackSection = "A"
	}
	if cfg.GraduationReason == "" {
		cfg.GraduationReason = "畢業"
	}
	return &PromotionService{
		years:       years,
		grades:      grades,
		classes:     classes,
		enrollments: enrollments,
		committer:   committer,
		audit:       audit,
		metrics:     metrics,
		cfg:         cfg,
		logger:      logger,
	}
}

// PromoteByYear resolves the academic year by calendar year and runs
// the promotion workflow for it.
func (s *PromotionService) PromoteByYear(ctx context.Context, calendarYear int) (*dto.PromotionResult, error) {
	year, err := s.years.FindByYear(ctx, calendarYear)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("academic year %d not found", calendarYear))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
	}
	return s.Promote(ctx, year.ID)
}

// Promote advances every active student enrolled in the year before the
// target academic year. Calling it twice for the same year is safe: the
// per-student pre-check plus the insert-or-ignore commit guarantee no
// student is promoted or graduated twice.
func (s *PromotionService) Promote(ctx context.Context, academicYearID int64) (*dto.PromotionResult, error) {
	year, err := s.years.FindByID(ctx, academicYearID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("academic year %d not found", academicYearID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
	}

	targetYear := year.Year
	previousYear := targetYear - 1
	log := s.logger.With(zap.Int64("academic_year_id", academicYearID), zap.Int("target_year", targetYear))

	previousClasses, err := s.classes.ListByYear(ctx, previousYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load previous-year classes")
	}

	if len(previousClasses) == 0 {
		log.Info("no previous-year classes, provisioning skeleton only",
			zap.Stringer("stage", stageBootstrap), zap.Int("previous_year", previousYear))
		if err := s.provisionSkeleton(ctx, targetYear); err != nil {
			return nil, err
		}
		result := &dto.PromotionResult{}
		s.emitAudit(ctx, academicYearID, stageBootstrap, result)
		return result, nil
	}

	working, err := s.enrollments.ListActiveByYear(ctx, previousYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load previous-year enrollments")
	}
	log.Info("collected promotion working set",
		zap.Int("previous_year", previousYear),
		zap.Int("previous_classes", len(previousClasses)),
		zap.Int("active_enrollments", len(working)))

	stage, classByGrade, err := s.ensureTargetClasses(ctx, targetYear, previousClasses)
	if err != nil {
		return nil, err
	}
	log.Info("target-year classes ready", zap.Stringer("stage", stage), zap.Int("grades_covered", len(classByGrade)))

	var staged []models.Enrollment
	var graduates []int64
	for _, row := range working {
		exists, err := s.enrollments.ExistsForYear(ctx, row.StudentID, targetYear)
		if err != nil {
			log.Warn("skipping student, enrollment pre-check failed",
				zap.Int64("student_id", row.StudentID), zap.Error(err))
			continue
		}
		if exists {
			log.Debug("student already enrolled in target year",
				zap.Int64("student_id", row.StudentID))
			continue
		}

		nextGradeID := row.GradeID + 1
		if nextGradeID > s.cfg.MaxGrade {
			graduates = append(graduates, row.StudentID)
			continue
		}

		classID, ok := classByGrade[nextGradeID]
		if !ok {
			classID, err = s.createMissingClass(ctx, nextGradeID, targetYear)
			if err != nil {
				log.Warn("no class for next grade, student left unpromoted",
					zap.Int64("student_id", row.StudentID), zap.Int("grade_id", nextGradeID), zap.Error(err))
				continue
			}
			classByGrade[nextGradeID] = classID
		}
		staged = append(staged, models.Enrollment{StudentID: row.StudentID, ClassID: classID, SchoolYear: targetYear})
	}

	inserted, err := s.committer.Commit(ctx, staged, graduates, time.Now().UTC(), s.cfg.GraduationReason)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit promotion batch")
	}

	result := &dto.PromotionResult{Promoted: len(staged), Graduated: len(graduates)}
	log.Info("promotion committed",
		zap.Int("staged", len(staged)),
		zap.Int("inserted", inserted),
		zap.Int("graduated", len(graduates)))
	if s.metrics != nil {
		s.metrics.ObservePromotion(result.Promoted, result.Graduated)
	}
	s.emitAudit(ctx, academicYearID, stage, result)
	return result, nil
}

// provisionSkeleton creates one default class per grade for the target
// year. Used when there is no previous year to promote from.
func (s *PromotionService) provisionSkeleton(ctx context.Context, targetYear int) error {
	grades, err := s.grades.List(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	if len(grades) == 0 {
		s.logger.Warn("no grades seeded, nothing to provision", zap.Int("target_year", targetYear))
		return nil
	}

	classes := make([]models.Class, 0, len(grades))
	for _, grade := range grades {
		classes = append(classes, models.Class{
			Name:       s.defaultClassName(grade),
			GradeID:    grade.ID,
			SchoolYear: targetYear,
		})
	}
	if _, err := s.classes.CreateBatch(ctx, classes); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to provision class skeleton")
	}
	s.logger.Info("provisioned class skeleton", zap.Int("target_year", targetYear), zap.Int("classes", len(classes)))
	return nil
}

// ensureTargetClasses guarantees the target year has at least one class
// per grade and returns the grade → class mapping promotion places
// students into. When a grade has several classes the first (lowest id)
// wins, matching the previous roster ordering.
func (s *PromotionService) ensureTargetClasses(ctx context.Context, targetYear int, previousClasses []models.Class) (promotionStage, map[int]int64, error) {
	existing, err := s.classes.ListByYear(ctx, targetYear)
	if err != nil {
		return stagePartialClasses, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target-year classes")
	}

	grades, err := s.grades.List(ctx)
	if err != nil {
		return stagePartialClasses, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}

	if len(existing) == 0 {
		created, err := s.cloneClassSet(ctx, targetYear, grades, previousClasses)
		if err != nil {
			return stageFullClone, nil, err
		}
		return stageFullClone, firstClassPerGrade(created), nil
	}

	classByGrade := firstClassPerGrade(existing)
	for _, grade := range grades {
		if _, ok := classByGrade[grade.ID]; ok {
			continue
		}
		class := models.Class{Name: s.defaultClassName(grade), GradeID: grade.ID, SchoolYear: targetYear}
		if err := s.classes.Create(ctx, &class); err != nil {
			return stagePartialClasses, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
				fmt.Sprintf("failed to create class for grade %d", grade.ID))
		}
		s.logger.Info("created class for missing grade",
			zap.Int("grade_id", grade.ID), zap.Int("target_year", targetYear), zap.String("class_name", class.Name))
		classByGrade[grade.ID] = class.ID
	}
	return stagePartialClasses, classByGrade, nil
}

// cloneClassSet copies the previous year's classes into the target year,
// keeping names, and falls back to a standard section name for grades
// the previous year did not cover.
func (s *PromotionService) cloneClassSet(ctx context.Context, targetYear int, grades []models.Grade, previousClasses []models.Class) ([]models.Class, error) {
	previousByGrade := make(map[int][]models.Class)
	for _, class := range previousClasses {
		previousByGrade[class.GradeID] = append(previousByGrade[class.GradeID], class)
	}

	var toCreate []models.Class
	for _, grade := range grades {
		if prev := previousByGrade[grade.ID]; len(prev) > 0 {
			for _, class := range prev {
				toCreate = append(toCreate, models.Class{Name: class.Name, GradeID: grade.ID, SchoolYear: targetYear})
			}
			continue
		}
		toCreate = append(toCreate, models.Class{Name: s.fallbackClassName(grade.ID), GradeID: grade.ID, SchoolYear: targetYear})
	}

	created, err := s.classes.CreateBatch(ctx, toCreate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clone class set")
	}
	s.logger.Info("cloned class set into target year", zap.Int("target_year", targetYear), zap.Int("classes", len(created)))
	return created, nil
}

// createMissingClass provisions a class just in time for a grade the
// mapping somehow still lacks.
func (s *PromotionService) createMissingClass(ctx context.Context, gradeID, targetYear int) (int64, error) {
	grade, err := s.grades.FindByID(ctx, gradeID)
	if err != nil {
		return 0, fmt.Errorf("load grade %d: %w", gradeID, err)
	}
	class := models.Class{Name: s.defaultClassName(*grade), GradeID: gradeID, SchoolYear: targetYear}
	if err := s.classes.Create(ctx, &class); err != nil {
		return 0, fmt.Errorf("create class for grade %d: %w", gradeID, err)
	}
	return class.ID, nil
}

func (s *PromotionService) defaultClassName(grade models.Grade) string {
	return grade.Name + s.cfg.ClassNameSuffix
}

func (s *PromotionService) fallbackClassName(gradeID int) string {
	return strconv.Itoa(gradeID) + s.cfg.FallbackSection
}

func (s *PromotionService) emitAudit(ctx context.Context, academicYearID int64, stage promotionStage, result *dto.PromotionResult) {
	if s.audit == nil {
		return
	}
	resourceID := strconv.FormatInt(academicYearID, 10)
	detail, err := json.Marshal(map[string]interface{}{
		"stage":     stage.String(),
		"promoted":  result.Promoted,
		"graduated": result.Graduated,
	})
	if err != nil {
		detail = []byte("{}")
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		Action:     models.AuditActionPromotionRun,
		Resource:   "academic_year",
		ResourceID: &resourceID,
		Detail:     detail,
	}); err != nil {
		s.logger.Warn("failed to persist promotion audit log", zap.Error(err))
	}
}

func firstClassPerGrade(classes []models.Class) map[int]int64 {
	byGrade := make(map[int]int64, len(classes))
	for _, class := range classes {
		if _, ok := byGrade[class.GradeID]; !ok {
			byGrade[class.GradeID] = class.ID
		}
	}
	return byGrade
}
