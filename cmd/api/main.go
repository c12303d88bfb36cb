package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	_ "github.com/kwat0g/enrollment/api/swagger"
	"github.com/kwat0g/enrollment/internal/handler"
	"github.com/kwat0g/enrollment/internal/repository"
	"github.com/kwat0g/enrollment/internal/service"
	"github.com/kwat0g/enrollment/pkg/cache"
	"github.com/kwat0g/enrollment/pkg/config"
	"github.com/kwat0g/enrollment/pkg/database"
	"github.com/kwat0g/enrollment/pkg/logger"
)

// @title Enrollment API
// @version 1.0.0
// @description School enrollment management backend
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
		}
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	freshmanRepo := repository.NewFreshmanRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	accountabilityRepo := repository.NewAccountabilityRepository(db)
	gradeRepo := repository.NewGradeRepository(db)

	authSvc := service.NewAuthService(studentRepo, adminRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, scheduleRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, courseRepo, scheduleRepo, validate, logr)
	sectionSvc := service.NewSectionService(sectionRepo, scheduleRepo, enrollmentRepo, cacheSvc, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, sectionRepo, subjectRepo, roomRepo, cacheSvc, validate, logr, service.ScheduleConfig{
		ConflictBufferMinutes: cfg.Enrollment.ConflictBufferMinutes,
	})
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, sectionRepo, scheduleRepo, notificationRepo, validate, logr, service.EnrollmentConfig{
		ReferencePrefix: cfg.Enrollment.ReferencePrefix,
	})
	studentSvc := service.NewStudentService(studentRepo, validate, logr, service.StudentConfig{
		AdmissionYear: cfg.Enrollment.AdmissionYear,
	})
	freshmanSvc := service.NewFreshmanService(freshmanRepo, validate, logr, service.FreshmanConfig{
		AdmissionYear: cfg.Enrollment.AdmissionYear,
	})
	notificationSvc := service.NewNotificationService(notificationRepo, logr)
	accountabilitySvc := service.NewAccountabilityService(accountabilityRepo, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, validate, logr)

	handlers := &apiHandlers{
		auth:             handler.NewAuthHandler(authSvc),
		courses:          handler.NewCourseHandler(courseSvc),
		rooms:            handler.NewRoomHandler(roomSvc),
		subjects:         handler.NewSubjectHandler(subjectSvc, sectionSvc),
		sections:         handler.NewSectionHandler(sectionSvc),
		schedules:        handler.NewScheduleHandler(scheduleSvc),
		enrollments:      handler.NewEnrollmentHandler(enrollmentSvc),
		students:         handler.NewStudentHandler(studentSvc),
		freshmen:         handler.NewFreshmanHandler(freshmanSvc),
		notifications:    handler.NewNotificationHandler(notificationSvc),
		accountabilities: handler.NewAccountabilityHandler(accountabilitySvc),
		grades:           handler.NewGradeHandler(gradeSvc),
		metrics:          handler.NewMetricsHandler(metrics),
	}

	r := newRouter(cfg, logr, metrics, authSvc, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
