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

// AccountabilityHandler exposes clearance accountability endpoints.
type AccountabilityHandler struct {
	accountabilities *service.AccountabilityService
}

// NewAccountabilityHandler constructs AccountabilityHandler.
func NewAccountabilityHandler(accountabilities *service.AccountabilityService) *AccountabilityHandler {
	return &AccountabilityHandler{accountabilities: accountabilities}
}

// ListMine godoc
// @Summary Accountabilities of the authenticated student
// @Tags Accountabilities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/accountabilities [get]
func (h *AccountabilityHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	accountabilities, err := h.accountabilities.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, accountabilities, nil)
}

// List godoc
// @Summary Accountabilities of one student
// @Tags Accountabilities
// @Produce json
// @Param student_id query int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /admin/accountabilities [get]
func (h *AccountabilityHandler) List(c *gin.Context) {
	studentID, err := strconv.ParseInt(c.Query("student_id"), 10, 64)
	if err != nil || studentID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student_id parameter"))
		return
	}
	accountabilities, err := h.accountabilities.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, accountabilities, nil)
}

// Create godoc
// @Summary Create accountability
// @Tags Accountabilities
// @Accept json
// @Produce json
// @Param payload body models.AccountabilityRequest true "Accountability payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/accountabilities [post]
func (h *AccountabilityHandler) Create(c *gin.Context) {
	var req models.AccountabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid accountability payload"))
		return
	}
	accountability, err := h.accountabilities.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, accountability)
}

// Update godoc
// @Summary Update accountability
// @Tags Accountabilities
// @Accept json
// @Produce json
// @Param id path int true "Accountability ID"
// @Param payload body models.AccountabilityRequest true "Accountability payload"
// @Success 200 {object} response.Envelope
// @Router /admin/accountabilities/{id} [put]
func (h *AccountabilityHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.AccountabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid accountability payload"))
		return
	}
	accountability, err := h.accountabilities.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, accountability, nil)
}

// Clear godoc
// @Summary Mark an accountability as cleared
// @Tags Accountabilities
// @Produce json
// @Param id path int true "Accountability ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/accountabilities/{id}/clear [post]
func (h *AccountabilityHandler) Clear(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.accountabilities.Clear(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": service.AccountabilityStatusCleared}, nil)
}

// Delete godoc
// @Summary Delete accountability
// @Tags Accountabilities
// @Produce json
// @Param id path int true "Accountability ID"
// @Success 204 {object} response.Envelope
// @Router /admin/accountabilities/{id} [delete]
func (h *AccountabilityHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.accountabilities.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
