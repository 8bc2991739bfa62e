package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nhan-trinh/phongdaotao/internal/dto"
	"github.com/nhan-trinh/phongdaotao/internal/models"
	"github.com/nhan-trinh/phongdaotao/internal/service"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
	"github.com/nhan-trinh/phongdaotao/pkg/response"
)

// RegistrationHandler exposes the approval-workflow endpoints for one
// registration kind.
type RegistrationHandler struct {
	registrations *service.RegistrationService
	kind          models.RegistrationKind
}

// NewRegistrationHandler constructs RegistrationHandler for a kind.
func NewRegistrationHandler(registrations *service.RegistrationService, kind models.RegistrationKind) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, kind: kind}
}

// List godoc
// @Summary List registrations of one kind
// @Tags Registrations
// @Produce json
// @Param status query string false "Filter by status (pending|approved|rejected, case-insensitive; unrecognised values apply no filter)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /{kind} [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	var filter models.RegistrationFilter
	if status, ok := models.ParseRegistrationStatus(c.Query("status")); ok {
		filter.Status = &status
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	registrations, pagination, err := h.registrations.List(c.Request.Context(), h.kind, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, registrations, pagination)
}

// Get godoc
// @Summary Get one registration
// @Tags Registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Router /{kind}/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	detail, err := h.registrations.Get(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Submit godoc
// @Summary Submit a new registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body service.SubmitRegistrationRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Router /{kind} [post]
func (h *RegistrationHandler) Submit(c *gin.Context) {
	var req service.SubmitRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	detail, err := h.registrations.Submit(c.Request.Context(), h.kind, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Decide godoc
// @Summary Approve or reject one pending registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body dto.DecideRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /{kind}/decide [post]
func (h *RegistrationHandler) Decide(c *gin.Context) {
	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.RegistrationID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "registration_id is required"))
		return
	}
	decision, ok := models.ParseDecision(req.Status)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "status must be approved or rejected"))
		return
	}

	detail, err := h.registrations.Decide(c.Request.Context(), h.kind, req.RegistrationID, decision)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// DecideBulk godoc
// @Summary Apply one decision to a set of registrations
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body dto.BulkDecideRequest true "Bulk decision payload"
// @Success 200 {object} response.Envelope
// @Router /{kind}/decide/bulk [post]
func (h *RegistrationHandler) DecideBulk(c *gin.Context) {
	var req dto.BulkDecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	decision, ok := models.ParseDecision(req.Status)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "status must be approved or rejected"))
		return
	}

	result, err := h.registrations.DecideBulk(c.Request.Context(), h.kind, req.RegistrationIDs, decision)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
