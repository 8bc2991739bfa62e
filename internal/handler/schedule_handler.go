package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nhan-trinh/phongdaotao/internal/service"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
	"github.com/nhan-trinh/phongdaotao/pkg/response"
)

// ScheduleHandler exposes the weekly timetable endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// ListByClass godoc
// @Summary List the timetable of a class
// @Tags Schedules
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/schedule [get]
func (h *ScheduleHandler) ListByClass(c *gin.Context) {
	slots, err := h.schedules.ListByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// ListByDay godoc
// @Summary List every slot falling on a weekday
// @Tags Schedules
// @Produce json
// @Param day query int true "Day of week (1=Monday .. 7=Sunday)"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) ListByDay(c *gin.Context) {
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "day must be an integer between 1 and 7"))
		return
	}
	slots, err := h.schedules.ListByDay(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Create godoc
// @Summary Add a timetable slot
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.ScheduleSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.ScheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.schedules.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Delete godoc
// @Summary Remove a timetable slot
// @Tags Schedules
// @Param id path string true "Slot ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportICS godoc
// @Summary Download a class timetable as an iCalendar feed
// @Tags Schedules
// @Produce text/calendar
// @Param id path string true "Class ID"
// @Success 200 {string} string
// @Router /classes/{id}/schedule.ics [get]
func (h *ScheduleHandler) ExportICS(c *gin.Context) {
	feed, err := h.schedules.ExportICS(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
