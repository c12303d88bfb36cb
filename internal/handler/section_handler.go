package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kwat0g/enrollment/internal/models"
	"github.com/kwat0g/enrollment/internal/service"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
	"github.com/kwat0g/enrollment/pkg/response"
)

// SectionHandler exposes section management endpoints.
type SectionHandler struct {
	sections *service.SectionService
}

// NewSectionHandler constructs SectionHandler.
func NewSectionHandler(sections *service.SectionService) *SectionHandler {
	return &SectionHandler{sections: sections}
}

// ListOpen godoc
// @Summary Open sections for the authenticated student
// @Tags Sections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/sections [get]
func (h *SectionHandler) ListOpen(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sections, err := h.sections.ListOpenForStudent(c.Request.Context(), claims.CourseID, claims.YearLevel)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}

// ListAllForStudent godoc
// @Summary Every section, for cross-section irregular picking
// @Tags Sections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/sections/all [get]
func (h *SectionHandler) ListAllForStudent(c *gin.Context) {
	sections, err := h.sections.List(c.Request.Context(), 0, "")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}

// List godoc
// @Summary List sections
// @Tags Sections
// @Produce json
// @Param course_id query int false "Filter by course"
// @Param year_level query string false "Filter by year level"
// @Success 200 {object} response.Envelope
// @Router /admin/sections [get]
func (h *SectionHandler) List(c *gin.Context) {
	courseID, _ := strconv.ParseInt(c.Query("course_id"), 10, 64)
	yearLevel := c.Query("year_level")

	sections, err := h.sections.List(c.Request.Context(), courseID, yearLevel)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}

// Get godoc
// @Summary Get section
// @Tags Sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/sections/{id} [get]
func (h *SectionHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	section, err := h.sections.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}

// Create godoc
// @Summary Create section
// @Tags Sections
// @Accept json
// @Produce json
// @Param payload body models.SectionRequest true "Section payload"
// @Success 201 {object} response.Envelope
// @Router /admin/sections [post]
func (h *SectionHandler) Create(c *gin.Context) {
	var req models.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid section payload"))
		return
	}
	section, err := h.sections.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, section)
}

// Update godoc
// @Summary Update section
// @Tags Sections
// @Accept json
// @Produce json
// @Param id path int true "Section ID"
// @Param payload body models.SectionRequest true "Section payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sections/{id} [put]
func (h *SectionHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid section payload"))
		return
	}
	section, err := h.sections.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}

// Delete godoc
// @Summary Delete section
// @Tags Sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sections/{id} [delete]
func (h *SectionHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.sections.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Activity godoc
// @Summary Enrollment activity of a section
// @Tags Sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /admin/sections/{id}/status [get]
func (h *SectionHandler) Activity(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	activity, err := h.sections.EnrollmentActivity(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"activity": activity}, nil)
}

// SetStatus godoc
// @Summary Open or close a section
// @Tags Sections
// @Accept json
// @Produce json
// @Param id path int true "Section ID"
// @Param payload body models.SectionStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sections/{id}/status [post]
func (h *SectionHandler) SetStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.SectionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	section, err := h.sections.SetStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}

// Enrollments godoc
// @Summary Enrollments of a section
// @Tags Sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /admin/sections/{id}/enrollments [get]
func (h *SectionHandler) Enrollments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollments, err := h.sections.Enrollments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}
