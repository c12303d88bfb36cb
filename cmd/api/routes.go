package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/kwat0g/enrollment/internal/handler"
	"github.com/kwat0g/enrollment/internal/middleware"
	"github.com/kwat0g/enrollment/internal/models"
	"github.com/kwat0g/enrollment/internal/service"
	"github.com/kwat0g/enrollment/pkg/config"
	"github.com/kwat0g/enrollment/pkg/logger"
	corsmiddleware "github.com/kwat0g/enrollment/pkg/middleware/cors"
	reqidmiddleware "github.com/kwat0g/enrollment/pkg/middleware/requestid"
)

type apiHandlers struct {
	auth             *handler.AuthHandler
	courses          *handler.CourseHandler
	rooms            *handler.RoomHandler
	subjects         *handler.SubjectHandler
	sections         *handler.SectionHandler
	schedules        *handler.ScheduleHandler
	enrollments      *handler.EnrollmentHandler
	students         *handler.StudentHandler
	freshmen         *handler.FreshmanHandler
	notifications    *handler.NotificationHandler
	accountabilities *handler.AccountabilityHandler
	grades           *handler.GradeHandler
	metrics          *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, authSvc *service.AuthService, h *apiHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/login", h.auth.StudentLogin)
	api.POST("/admin/login", h.auth.AdminLogin)
	api.POST("/refresh", h.auth.Refresh)
	api.POST("/freshman-enrollments", h.freshmen.Submit)

	student := api.Group("/student")
	student.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/sections", h.sections.ListOpen)
		student.GET("/sections/all", h.sections.ListAllForStudent)
		student.GET("/subjects/scheduled", h.subjects.Scheduled)
		student.POST("/enroll", h.enrollments.Submit)
		student.POST("/enroll/irregular", h.enrollments.SubmitIrregular)
		student.GET("/enrollment", h.enrollments.Current)
		student.GET("/enrollment/form.pdf", h.enrollments.RegistrationForm)
		student.GET("/notifications", h.notifications.List)
		student.POST("/notifications/read-all", h.notifications.MarkAllRead)
		student.POST("/notifications/:id/read", h.notifications.MarkRead)
		student.GET("/accountabilities", h.accountabilities.ListMine)
		student.GET("/grades", h.grades.ListMine)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/courses", h.courses.List)
		admin.POST("/courses", h.courses.Create)
		admin.PUT("/courses/:id", h.courses.Update)
		admin.DELETE("/courses/:id", h.courses.Delete)

		admin.GET("/rooms", h.rooms.List)
		admin.POST("/rooms", h.rooms.Create)
		admin.PUT("/rooms/:id", h.rooms.Update)
		admin.DELETE("/rooms/:id", h.rooms.Delete)
		admin.GET("/rooms/:id/schedules", h.schedules.RoomSchedules)

		admin.GET("/subjects", h.subjects.List)
		admin.POST("/subjects", h.subjects.Create)
		admin.GET("/subjects/:id", h.subjects.Get)
		admin.PUT("/subjects/:id", h.subjects.Update)
		admin.DELETE("/subjects/:id", h.subjects.Delete)
		admin.GET("/subjects/:id/schedule", h.schedules.SubjectTemplate)
		admin.PUT("/subjects/:id/schedule", h.schedules.UpsertSubjectTemplate)

		admin.GET("/sections", h.sections.List)
		admin.POST("/sections", h.sections.Create)
		admin.GET("/sections/:id", h.sections.Get)
		admin.PUT("/sections/:id", h.sections.Update)
		admin.DELETE("/sections/:id", h.sections.Delete)
		admin.GET("/sections/:id/status", h.sections.Activity)
		admin.POST("/sections/:id/status", h.sections.SetStatus)
		admin.GET("/sections/:id/enrollments", h.sections.Enrollments)

		admin.POST("/sections/:id/subjects", h.schedules.AssignSubjects)
		admin.POST("/sections/:id/subjects/validate", h.schedules.ValidateAssignment)
		admin.DELETE("/sections/:id/subjects/:subjectId", h.schedules.RemoveSubject)
		admin.GET("/sections/:id/schedules", h.schedules.SectionSchedules)
		admin.POST("/sections/:id/schedules", h.schedules.BulkAssign)
		admin.POST("/sections/:id/assign-with-schedules", h.schedules.AssignWithSchedules)

		admin.GET("/schedules", h.schedules.ListAll)
		admin.GET("/schedules/full", h.schedules.ListAll)
		admin.POST("/schedules/cleanup", h.schedules.Cleanup)

		admin.GET("/enrollments", h.enrollments.ListPending)
		admin.GET("/enrollments/export.csv", h.enrollments.ExportCSV)
		admin.POST("/enrollments/:id/approve", h.enrollments.Approve)
		admin.POST("/enrollments/:id/reject", h.enrollments.Reject)
		admin.GET("/enrollments/:id/irregular", h.enrollments.IrregularDetails)

		admin.GET("/students", h.students.List)
		admin.GET("/students/next-id", h.students.NextID)
		admin.POST("/students", h.students.Create)
		admin.GET("/students/:id", h.students.Get)
		admin.PUT("/students/:id", h.students.Update)
		admin.DELETE("/students/:id", h.students.Delete)
		admin.GET("/students/:id/grades", h.grades.ListByStudent)

		admin.GET("/freshman-enrollments", h.freshmen.List)
		admin.GET("/freshman-enrollments/:id", h.freshmen.Get)
		admin.PUT("/freshman-enrollments/:id/accept", h.freshmen.Accept)
		admin.PUT("/freshman-enrollments/:id/reject", h.freshmen.Reject)

		admin.GET("/accountabilities", h.accountabilities.List)
		admin.POST("/accountabilities", h.accountabilities.Create)
		admin.PUT("/accountabilities/:id", h.accountabilities.Update)
		admin.POST("/accountabilities/:id/clear", h.accountabilities.Clear)
		admin.DELETE("/accountabilities/:id", h.accountabilities.Delete)

		admin.GET("/grades/statistics", h.grades.Statistics)
		admin.POST("/grades", h.grades.Record)
		admin.PUT("/grades/:id", h.grades.UpdateMark)
		admin.DELETE("/grades/:id", h.grades.Delete)
	}

	return r
}
