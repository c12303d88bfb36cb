package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kwat0g/enrollment/internal/models"
	"github.com/kwat0g/enrollment/internal/service"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
	"github.com/kwat0g/enrollment/pkg/response"
)

// EnrollmentHandler exposes the enrollment workflow endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Submit godoc
// @Summary Submit a block-section enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body models.SubmitEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/enroll [post]
func (h *EnrollmentHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SubmitEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}

	enrollment, err := h.enrollments.Submit(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// SubmitIrregular godoc
// @Summary Submit per-subject choices across sections
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body models.SubmitIrregularRequest true "Irregular enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/enroll/irregular [post]
func (h *EnrollmentHandler) SubmitIrregular(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SubmitIrregularRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid irregular enrollment payload"))
		return
	}

	enrollment, err := h.enrollments.SubmitIrregular(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Current godoc
// @Summary Current registration view
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/enrollment [get]
func (h *EnrollmentHandler) Current(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	current, err := h.enrollments.Current(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, current, nil)
}

// RegistrationForm godoc
// @Summary Download the certificate of registration
// @Tags Enrollments
// @Produce application/pdf
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /student/enrollment/form.pdf [get]
func (h *EnrollmentHandler) RegistrationForm(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload, err := h.enrollments.RegistrationFormPDF(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=registration-%s.pdf", claims.StudentID))
	c.Data(http.StatusOK, "application/pdf", payload)
}

// ListPending godoc
// @Summary List pending enrollments
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/enrollments [get]
func (h *EnrollmentHandler) ListPending(c *gin.Context) {
	pending, err := h.enrollments.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pending, nil)
}

// ExportCSV godoc
// @Summary Export enrollments as CSV
// @Tags Enrollments
// @Produce text/csv
// @Param status query string false "Enrollment status (default pending)"
// @Success 200 {file} binary
// @Router /admin/enrollments/export.csv [get]
func (h *EnrollmentHandler) ExportCSV(c *gin.Context) {
	status := models.EnrollmentStatus(c.Query("status"))
	payload, err := h.enrollments.ExportCSV(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=enrollments.csv")
	c.Data(http.StatusOK, "text/csv", payload)
}

// Approve godoc
// @Summary Approve an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/enrollments/{id}/approve [post]
func (h *EnrollmentHandler) Approve(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.enrollments.Approve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Reject godoc
// @Summary Reject an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/enrollments/{id}/reject [post]
func (h *EnrollmentHandler) Reject(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.enrollments.Reject(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// IrregularDetails godoc
// @Summary Subject choices of an irregular enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/enrollments/{id}/irregular [get]
func (h *EnrollmentHandler) IrregularDetails(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.enrollments.IrregularDetails(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
