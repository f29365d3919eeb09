package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/chenwl/attendance-api/api/swagger"
	"github.com/chenwl/attendance-api/internal/handler"
	"github.com/chenwl/attendance-api/internal/middleware"
	"github.com/chenwl/attendance-api/internal/models"
	"github.com/chenwl/attendance-api/internal/repository"
	"github.com/chenwl/attendance-api/internal/service"
	"github.com/chenwl/attendance-api/pkg/cache"
	"github.com/chenwl/attendance-api/pkg/config"
	"github.com/chenwl/attendance-api/pkg/database"
	"github.com/chenwl/attendance-api/pkg/logger"
	corsmiddleware "github.com/chenwl/attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/chenwl/attendance-api/pkg/middleware/requestid"
)

// @title Attendance API
// @version 0.1.0
// @description School attendance tracking backend
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Reports fall back to direct queries without Redis.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	yearRepo := repository.NewAcademicYearRepository(db)
	seasonRepo := repository.NewSeasonRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	assignmentRepo := repository.NewTeacherAssignmentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metrics := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, userRepo, cfg.JWT, logr)
	promotionSvc := service.NewPromotionService(
		yearRepo, gradeRepo, classRepo, enrollmentRepo, promotionRepo,
		userRepo, metrics, cfg.Promotion, logr)
	calendarSvc := service.NewCalendarService(yearRepo, seasonRepo, holidayRepo, promotionSvc, logr)
	studentSvc := service.NewStudentService(studentRepo, cacheRepo, userRepo, logr)
	classSvc := service.NewClassService(classRepo, yearRepo, gradeRepo, userRepo, assignmentRepo, userRepo, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, classRepo, logr)
	reportSvc := service.NewReportService(reportRepo, cacheRepo, cfg.Reports, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	academicHandler := handler.NewAcademicHandler(calendarSvc, promotionSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, enrollmentSvc)
	classHandler := handler.NewClassHandler(classSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	reportHandler := handler.NewReportHandler(reportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWTAuth(authSvc))
	admin := middleware.RequireRole(models.RoleGASpecialist)

	academic := authed.Group("/academic")
	{
		academic.GET("/years", academicHandler.ListYears)
		academic.POST("/years", admin, academicHandler.CreateYear)
		academic.GET("/years/active", academicHandler.ActiveYear)
		academic.GET("/years/:id", academicHandler.GetYear)
		academic.PUT("/years/:id", admin, academicHandler.UpdateYear)
		academic.DELETE("/years/:id", admin, academicHandler.DeleteYear)
		academic.POST("/years/:id/promote", admin, academicHandler.Promote)
		academic.POST("/years/by-year/:year/promote", admin, academicHandler.PromoteByYear)

		academic.GET("/seasons", academicHandler.ListSeasons)
		academic.POST("/seasons", admin, academicHandler.CreateSeason)
		academic.GET("/seasons/:id", academicHandler.GetSeason)
		academic.PUT("/seasons/:id", admin, academicHandler.UpdateSeason)
		academic.DELETE("/seasons/:id", admin, academicHandler.DeleteSeason)

		academic.GET("/holidays", academicHandler.ListHolidays)
		academic.POST("/holidays", admin, academicHandler.CreateHoliday)
		academic.GET("/holidays/:id", academicHandler.GetHoliday)
		academic.DELETE("/holidays/:id", admin, academicHandler.DeleteHoliday)
	}

	students := authed.Group("/students")
	{
		students.GET("", studentHandler.List)
		students.POST("", admin, studentHandler.Create)
		students.GET("/:id", studentHandler.Get)
		students.PUT("/:id", admin, studentHandler.Update)
		students.DELETE("/:id", admin, studentHandler.Delete)
		students.GET("/:id/enrollments", studentHandler.ListEnrollments)
		students.POST("/:id/enrollments", admin, studentHandler.CreateEnrollment)
	}

	enrollments := authed.Group("/enrollments")
	{
		enrollments.PUT("/:id", admin, enrollmentHandler.Update)
		enrollments.DELETE("/:id", admin, enrollmentHandler.Delete)
	}

	classes := authed.Group("/classes")
	{
		classes.GET("", classHandler.List)
		classes.POST("", classHandler.Create)
		classes.PUT("/:id", classHandler.Update)
		classes.DELETE("/:id", classHandler.Delete)
		classes.GET("/:id/teachers", classHandler.ListTeachers)
		classes.POST("/:id/teachers", classHandler.AssignTeacher)
	}

	reports := authed.Group("/reports")
	{
		reports.GET("/attendance", reportHandler.Attendance)
		reports.GET("/attendance/export", reportHandler.ExportAttendance)
		reports.GET("/leave-requests/pending", reportHandler.PendingLeave)
		reports.GET("/absences/unresolved", reportHandler.UnresolvedAbsences)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
