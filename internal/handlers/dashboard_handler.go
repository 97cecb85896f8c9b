package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/httpresp"
	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	ucDashboard "github.com/BruksfildServices01/booking-platform/internal/usecase/dashboard"
	ucEarnings "github.com/BruksfildServices01/booking-platform/internal/usecase/earnings"
)

type DashboardHandler struct {
	dashboard *ucDashboard.GetDashboard
	earnings  *ucEarnings.GetEarnings
}

func NewDashboardHandler(
	dashboard *ucDashboard.GetDashboard,
	earnings *ucEarnings.GetEarnings,
) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, earnings: earnings}
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	d, err := h.dashboard.Execute(c.Request.Context(), businessID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, d)
}

func (h *DashboardHandler) Earnings(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	summary, byService, err := h.earnings.ByService(c.Request.Context(), businessID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"earnings":      summary,
		"services_data": byService,
	})
}
