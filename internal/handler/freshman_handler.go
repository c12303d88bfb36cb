package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kwat0g/enrollment/internal/models"
	"github.com/kwat0g/enrollment/internal/service"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
	"github.com/kwat0g/enrollment/pkg/response"
)

// FreshmanHandler exposes the public admission form and the registrar's
// review queue.
type FreshmanHandler struct {
	freshmen *service.FreshmanService
}

// NewFreshmanHandler constructs FreshmanHandler.
func NewFreshmanHandler(freshmen *service.FreshmanService) *FreshmanHandler {
	return &FreshmanHandler{freshmen: freshmen}
}

// Submit godoc
// @Summary Submit a freshman admission application
// @Tags Freshmen
// @Accept json
// @Produce json
// @Param payload body models.FreshmanApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /freshman-enrollments [post]
func (h *FreshmanHandler) Submit(c *gin.Context) {
	var req models.FreshmanApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}
	application, err := h.freshmen.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, application)
}

// List godoc
// @Summary List admission applications
// @Tags Freshmen
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, accepted, rejected)
// @Success 200 {object} response.Envelope
// @Router /admin/freshman-enrollments [get]
func (h *FreshmanHandler) List(c *gin.Context) {
	applications, err := h.freshmen.List(c.Request.Context(), models.FreshmanStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, applications, nil)
}

// Get godoc
// @Summary Get admission application
// @Tags Freshmen
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/freshman-enrollments/{id} [get]
func (h *FreshmanHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	application, err := h.freshmen.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, application, nil)
}

// Accept godoc
// @Summary Accept an application and mint the student code
// @Tags Freshmen
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/freshman-enrollments/{id}/accept [put]
func (h *FreshmanHandler) Accept(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	studentID, err := h.freshmen.Accept(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"student_id": studentID}, nil)
}

// Reject godoc
// @Summary Reject an application
// @Tags Freshmen
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/freshman-enrollments/{id}/reject [put]
func (h *FreshmanHandler) Reject(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.freshmen.Reject(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": models.FreshmanStatusRejected}, nil)
}
