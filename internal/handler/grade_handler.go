package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kwat0g/enrollment/internal/models"
	"github.com/kwat0g/enrollment/internal/service"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
	"github.com/kwat0g/enrollment/pkg/response"
)

// GradeHandler exposes grade recording and viewing endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

type updateGradeRequest struct {
	Grade float64 `json:"grade"`
}

// ListMine godoc
// @Summary Grades of the authenticated student
// @Tags Grades
// @Produce json
// @Param school_year query string false "Filter by school year"
// @Param semester query string false "Filter by semester"
// @Success 200 {object} response.Envelope
// @Router /student/grades [get]
func (h *GradeHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	grades, err := h.grades.ListByStudent(c.Request.Context(), claims.UserID, c.Query("school_year"), c.Query("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// ListByStudent godoc
// @Summary Grades of one student
// @Tags Grades
// @Produce json
// @Param id path int true "Student ID"
// @Param school_year query string false "Filter by school year"
// @Param semester query string false "Filter by semester"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{id}/grades [get]
func (h *GradeHandler) ListByStudent(c *gin.Context) {
	studentID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	grades, err := h.grades.ListByStudent(c.Request.Context(), studentID, c.Query("school_year"), c.Query("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// Record godoc
// @Summary Record a grade
// @Description Upserts on the student, subject, school year and semester key
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body models.GradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/grades [post]
func (h *GradeHandler) Record(c *gin.Context) {
	var req models.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}
	grade, err := h.grades.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}

// UpdateMark godoc
// @Summary Replace the mark of an existing grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path int true "Grade ID"
// @Param payload body updateGradeRequest true "Mark payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/grades/{id} [put]
func (h *GradeHandler) UpdateMark(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req updateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}
	grade, err := h.grades.UpdateMark(c.Request.Context(), id, req.Grade)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Delete godoc
// @Summary Delete grade
// @Tags Grades
// @Produce json
// @Param id path int true "Grade ID"
// @Success 204 {object} response.Envelope
// @Router /admin/grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.grades.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Statistics godoc
// @Summary Per-subject grade averages
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/grades/statistics [get]
func (h *GradeHandler) Statistics(c *gin.Context) {
	statistics, err := h.grades.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, statistics, nil)
}
