package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nhan-trinh/phongdaotao/internal/models"
	"github.com/nhan-trinh/phongdaotao/internal/service"
	appErrors "github.com/nhan-trinh/phongdaotao/pkg/errors"
	"github.com/nhan-trinh/phongdaotao/pkg/response"
)

// NotificationHandler exposes the broadcast notification endpoints.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List godoc
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param audience query string false "Filter by audience (ALL|STUDENTS|TEACHERS)"
// @Param published query bool false "Only published notifications"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var filter models.NotificationFilter
	if raw := strings.ToUpper(c.Query("audience")); raw != "" {
		audience := models.NotificationAudience(raw)
		switch audience {
		case models.NotificationAudienceAll, models.NotificationAudienceStudents, models.NotificationAudienceTeachers:
			filter.Audience = &audience
		}
	}
	if raw := c.Query("published"); raw != "" {
		if published, err := strconv.ParseBool(raw); err == nil {
			filter.PublishedOnly = published
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	notifications, pagination, err := h.notifications.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notifications, pagination)
}

// Get godoc
// @Summary Get one notification
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Router /notifications/{id} [get]
func (h *NotificationHandler) Get(c *gin.Context) {
	notification, err := h.notifications.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notification, nil)
}

// Create godoc
// @Summary Create a notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body service.NotificationRequest true "Notification payload"
// @Success 201 {object} response.Envelope
// @Router /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	var req service.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	notification, err := h.notifications.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notification)
}

// Update godoc
// @Summary Update a notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID"
// @Param payload body service.NotificationRequest true "Notification payload"
// @Success 200 {object} response.Envelope
// @Router /notifications/{id} [put]
func (h *NotificationHandler) Update(c *gin.Context) {
	var req service.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	notification, err := h.notifications.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notification, nil)
}

// Delete godoc
// @Summary Delete a notification
// @Tags Notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.notifications.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
