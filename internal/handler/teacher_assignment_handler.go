package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhan-trinh/phongdaotao/internal/service"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
	"github.com/nhan-trinh/phongdaotao/pkg/response"
)

// TeacherAssignmentHandler exposes the teacher assignment endpoints.
type TeacherAssignmentHandler struct {
	assignments *service.TeacherAssignmentService
}

// NewTeacherAssignmentHandler constructs TeacherAssignmentHandler.
func NewTeacherAssignmentHandler(assignments *service.TeacherAssignmentService) *TeacherAssignmentHandler {
	return &TeacherAssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary List teacher assignments
// @Tags Assignments
// @Produce json
// @Param teacher_id query string false "Filter by teacher"
// @Param class_id query string false "Filter by class"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *TeacherAssignmentHandler) List(c *gin.Context) {
	assignments, err := h.assignments.List(c.Request.Context(), c.Query("teacher_id"), c.Query("class_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Create godoc
// @Summary Assign a teacher to a class
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.TeacherAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /assignments [post]
func (h *TeacherAssignmentHandler) Create(c *gin.Context) {
	var req service.TeacherAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Delete godoc
// @Summary Remove a teacher assignment
// @Tags Assignments
// @Param id path string true "Assignment ID"
// @Success 204
// @Router /assignments/{id} [delete]
func (h *TeacherAssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
