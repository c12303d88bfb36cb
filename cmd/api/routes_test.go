package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kwat0g/enrollment/internal/handler"
	"github.com/kwat0g/enrollment/internal/service"
	"github.com/kwat0g/enrollment/pkg/config"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	authSvc := service.NewAuthService(nil, nil, nil, nil, service.AuthConfig{Secret: "test-secret"})
	h := &apiHandlers{
		auth:             handler.NewAuthHandler(authSvc),
		courses:          handler.NewCourseHandler(nil),
		rooms:            handler.NewRoomHandler(nil),
		subjects:         handler.NewSubjectHandler(nil, nil),
		sections:         handler.NewSectionHandler(nil),
		schedules:        handler.NewScheduleHandler(nil),
		enrollments:      handler.NewEnrollmentHandler(nil),
		students:         handler.NewStudentHandler(nil),
		freshmen:         handler.NewFreshmanHandler(nil),
		notifications:    handler.NewNotificationHandler(nil),
		accountabilities: handler.NewAccountabilityHandler(nil),
		grades:           handler.NewGradeHandler(nil),
		metrics:          handler.NewMetricsHandler(nil),
	}

	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api"}
	return newRouter(cfg, zap.NewNop(), nil, authSvc, h)
}

func routeSet(r *gin.Engine) map[string]bool {
	set := make(map[string]bool)
	for _, route := range r.Routes() {
		set[route.Method+" "+route.Path] = true
	}
	return set
}

func TestDecisionRoutesUsePost(t *testing.T) {
	r := newTestRouter()
	routes := routeSet(r)

	wantPost := []string{
		"/api/admin/enrollments/:id/approve",
		"/api/admin/enrollments/:id/reject",
		"/api/admin/accountabilities/:id/clear",
		"/api/student/notifications/:id/read",
		"/api/student/notifications/read-all",
	}
	for _, path := range wantPost {
		assert.True(t, routes[http.MethodPost+" "+path], "expected POST %s to be registered", path)
		assert.False(t, routes[http.MethodPut+" "+path], "expected no PUT registration for %s", path)
	}
}

func TestApproveRouteAnsweredOnPost(t *testing.T) {
	r := newTestRouter()

	// Without a token the route must still resolve: unauthorized, not
	// unknown.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/enrollments/1/approve", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/admin/enrollments/1/approve", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
