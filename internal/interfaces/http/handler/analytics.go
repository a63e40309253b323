package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hospitality/backend/internal/application/analytics"
)

// DashboardQuery selects the reporting period; both bounds are optional
type DashboardQuery struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// AnalyticsHandler serves the operational dashboard and the showcase demo figures
type AnalyticsHandler struct {
	BaseHandler
	dashboard *analytics.DashboardService
	demo      *analytics.DemoService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(dashboard *analytics.DashboardService, demo *analytics.DemoService) *AnalyticsHandler {
	return &AnalyticsHandler{dashboard: dashboard, demo: demo}
}

// Dashboard godoc
// @Summary      Operational dashboard
// @Description  Occupancy, ADR, RevPAR, revenue and pipeline for [from, to). Defaults to the last 30 days.
// @Tags         analytics
// @Produce      json
// @Param        from query string false "YYYY-MM-DD"
// @Param        to query string false "YYYY-MM-DD, exclusive"
// @Success      200 {object} APIResponse[analytics.DashboardDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q DashboardQuery
	if !h.bindQuery(c, &q) {
		return
	}
	from, err := parseOptionalDate("from", q.From)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	to, err := parseOptionalDate("to", q.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result, err := h.dashboard.Dashboard(c.Request.Context(), tenantID, from, to)
	respond(&h.BaseHandler, c, http.StatusOK, result, err)
}

// DemoAnalytics godoc
// @Summary      Showcase overview
// @Description  Generated figures, stable for a tenant within a UTC day
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[analytics.DemoAnalyticsDTO]
// @Security     BearerAuth
// @Router       /demo/analytics [get]
func (h *AnalyticsHandler) DemoAnalytics(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	h.Success(c, h.demo.Analytics(tenantID))
}

// DemoOccupancy returns 30 days of generated occupancy
func (h *AnalyticsHandler) DemoOccupancy(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	h.Success(c, h.demo.Occupancy(tenantID))
}

// DemoRevenue returns 12 months of generated revenue
func (h *AnalyticsHandler) DemoRevenue(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	h.Success(c, h.demo.Revenue(tenantID))
}
