package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kwat0g/enrollment/internal/models"
	"github.com/kwat0g/enrollment/internal/service"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
	"github.com/kwat0g/enrollment/pkg/response"
)

// ScheduleHandler exposes schedule, template and subject assignment
// endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// AssignSubjects godoc
// @Summary Assign subjects to a section
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path int true "Section ID"
// @Param payload body models.AssignSubjectsRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sections/{id}/subjects [post]
func (h *ScheduleHandler) AssignSubjects(c *gin.Context) {
	sectionID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.AssignSubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	result, err := h.schedules.AssignSubjects(c.Request.Context(), sectionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ValidateAssignment godoc
// @Summary Dry-run a subject assignment
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path int true "Section ID"
// @Param payload body models.AssignSubjectsRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /admin/sections/{id}/subjects/validate [post]
func (h *ScheduleHandler) ValidateAssignment(c *gin.Context) {
	sectionID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.AssignSubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	req.ValidateOnly = true
	result, err := h.schedules.AssignSubjects(c.Request.Context(), sectionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// RemoveSubject godoc
// @Summary Remove a subject from a section
// @Tags Schedules
// @Produce json
// @Param id path int true "Section ID"
// @Param subjectId path int true "Subject ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/sections/{id}/subjects/{subjectId} [delete]
func (h *ScheduleHandler) RemoveSubject(c *gin.Context) {
	sectionID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	subjectID, err := pathID(c, "subjectId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.schedules.RemoveSubject(c.Request.Context(), sectionID, subjectID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkAssign godoc
// @Summary Create schedule rows for a section in bulk
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path int true "Section ID"
// @Param payload body models.BulkAssignRequest true "Schedule rows"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sections/{id}/schedules [post]
func (h *ScheduleHandler) BulkAssign(c *gin.Context) {
	sectionID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk schedule payload"))
		return
	}
	if err := h.schedules.BulkAssign(c.Request.Context(), sectionID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"section_id": sectionID})
}

// AssignWithSchedules godoc
// @Summary Replace a section's subjects and schedules atomically
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path int true "Section ID"
// @Param payload body models.AssignWithSchedulesRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sections/{id}/assign-with-schedules [post]
func (h *ScheduleHandler) AssignWithSchedules(c *gin.Context) {
	sectionID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.AssignWithSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	if err := h.schedules.AssignWithSchedules(c.Request.Context(), sectionID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"section_id": sectionID}, nil)
}

// SectionSchedules godoc
// @Summary Schedule rows of a section
// @Tags Schedules
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /admin/sections/{id}/schedules [get]
func (h *ScheduleHandler) SectionSchedules(c *gin.Context) {
	sectionID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	schedules, err := h.schedules.SectionSchedules(c.Request.Context(), sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// SubjectTemplate godoc
// @Summary Template slot of a subject
// @Tags Schedules
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/subjects/{id}/schedule [get]
func (h *ScheduleHandler) SubjectTemplate(c *gin.Context) {
	subjectID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	template, err := h.schedules.SubjectTemplate(c.Request.Context(), subjectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// UpsertSubjectTemplate godoc
// @Summary Create or replace a subject's template slot
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path int true "Subject ID"
// @Param payload body models.TemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/subjects/{id}/schedule [put]
func (h *ScheduleHandler) UpsertSubjectTemplate(c *gin.Context) {
	subjectID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}
	template, err := h.schedules.UpsertSubjectTemplate(c.Request.Context(), subjectID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// ListAll godoc
// @Summary Every live schedule row
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/schedules [get]
func (h *ScheduleHandler) ListAll(c *gin.Context) {
	schedules, err := h.schedules.AllSchedules(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// Cleanup godoc
// @Summary Remove schedule rows that no longer match their section
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/schedules/cleanup [post]
func (h *ScheduleHandler) Cleanup(c *gin.Context) {
	removed, err := h.schedules.Cleanup(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed}, nil)
}

// RoomSchedules godoc
// @Summary Bookings of a room
// @Tags Schedules
// @Produce json
// @Param id path int true "Room ID"
// @Param day query string false "Filter by day"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/rooms/{id}/schedules [get]
func (h *ScheduleHandler) RoomSchedules(c *gin.Context) {
	roomID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	schedules, err := h.schedules.RoomSchedules(c.Request.Context(), roomID, c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}
