package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhan-trinh/phongdaotao/internal/service"
	"github.com/nhan-trinh/phongdaotao/pkg/response"
)

// DashboardHandler exposes the landing-page summary endpoint.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary godoc
// @Summary Dashboard counters: catalog sizes, roster sizes and registration backlogs
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
