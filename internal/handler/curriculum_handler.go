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

// CurriculumHandler exposes the curriculum layout endpoints.
type CurriculumHandler struct {
	curriculum *service.CurriculumService
}

// NewCurriculumHandler constructs CurriculumHandler.
func NewCurriculumHandler(curriculum *service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculum: curriculum}
}

// List godoc
// @Summary List curriculum items
// @Tags Curriculum
// @Produce json
// @Param course_id query string false "Filter by course"
// @Param semester_no query int false "Filter by semester number"
// @Success 200 {object} response.Envelope
// @Router /curriculum [get]
func (h *CurriculumHandler) List(c *gin.Context) {
	var filter models.CurriculumFilter
	filter.CourseID = c.Query("course_id")
	if raw := c.Query("semester_no"); raw != "" {
		if no, err := strconv.Atoi(raw); err == nil {
			filter.SemesterNo = &no
		}
	}

	items, err := h.curriculum.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Place a course in a semester
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param payload body service.CurriculumItemRequest true "Curriculum payload"
// @Success 201 {object} response.Envelope
// @Router /curriculum [post]
func (h *CurriculumHandler) Create(c *gin.Context) {
	var req service.CurriculumItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.curriculum.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Move or annotate a curriculum item
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param id path string true "Curriculum item ID"
// @Param payload body service.CurriculumItemRequest true "Curriculum payload"
// @Success 200 {object} response.Envelope
// @Router /curriculum/{id} [put]
func (h *CurriculumHandler) Update(c *gin.Context) {
	var req service.CurriculumItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.curriculum.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Remove a curriculum item
// @Tags Curriculum
// @Param id path string true "Curriculum item ID"
// @Success 204
// @Router /curriculum/{id} [delete]
func (h *CurriculumHandler) Delete(c *gin.Context) {
	if err := h.curriculum.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
