package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	"github.com/nhan-trinh/phongdaotao/internal/service"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
	"github.com/nhan-trinh/phongdaotao/pkg/response"
)

// RegulationHandler exposes the regulation document endpoints.
type RegulationHandler struct {
	regulations *service.RegulationService
}

// NewRegulationHandler constructs RegulationHandler.
func NewRegulationHandler(regulations *service.RegulationService) *RegulationHandler {
	return &RegulationHandler{regulations: regulations}
}

// List godoc
// @Summary List regulations
// @Tags Regulations
// @Produce json
// @Param category query string false "Filter by category"
// @Param include_inactive query bool false "Include inactive regulations"
// @Success 200 {object} response.Envelope
// @Router /regulations [get]
func (h *RegulationHandler) List(c *gin.Context) {
	var filter models.RegulationFilter
	filter.Category = c.Query("category")
	if raw := c.Query("include_inactive"); raw != "" {
		if include, err := strconv.ParseBool(raw); err == nil {
			filter.IncludeInactive = include
		}
	}

	regulations, err := h.regulations.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, regulations, nil)
}

// Get godoc
// @Summary Get one regulation
// @Tags Regulations
// @Produce json
// @Param id path string true "Regulation ID"
// @Success 200 {object} response.Envelope
// @Router /regulations/{id} [get]
func (h *RegulationHandler) Get(c *gin.Context) {
	regulation, err := h.regulations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, regulation, nil)
}

// Create godoc
// @Summary Publish a regulation
// @Tags Regulations
// @Accept json
// @Produce json
// @Param payload body service.RegulationRequest true "Regulation payload"
// @Success 201 {object} response.Envelope
// @Router /regulations [post]
func (h *RegulationHandler) Create(c *gin.Context) {
	var req service.RegulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	regulation, err := h.regulations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, regulation)
}

// Update godoc
// @Summary Update a regulation
// @Tags Regulations
// @Accept json
// @Produce json
// @Param id path string true "Regulation ID"
// @Param payload body service.RegulationRequest true "Regulation payload"
// @Success 200 {object} response.Envelope
// @Router /regulations/{id} [put]
func (h *RegulationHandler) Update(c *gin.Context) {
	var req service.RegulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	regulation, err := h.regulations.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, regulation, nil)
}

// Delete godoc
// @Summary Delete a regulation
// @Tags Regulations
// @Param id path string true "Regulation ID"
// @Success 204
// @Router /regulations/{id} [delete]
func (h *RegulationHandler) Delete(c *gin.Context) {
	if err := h.regulations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
