package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/analytics"
	"github.com/hospitality/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func getDemo[T any](t *testing.T, tenantID uuid.UUID, path string) T {
	t.Helper()
	h := NewAnalyticsHandler(nil, analytics.NewDemoService())
	router := gin.New()
	router.Use(withAuth(tenantID, uuid.New()))
	router.GET("/demo/analytics", h.DemoAnalytics)
	router.GET("/demo/occupancy", h.DemoOccupancy)
	router.GET("/demo/revenue", h.DemoRevenue)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Data
}

func TestAnalyticsHandler_DemoIsStablePerTenant(t *testing.T) {
	tenant := uuid.New()

	first := getDemo[analytics.DemoRevenueDTO](t, tenant, "/demo/revenue")
	second := getDemo[analytics.DemoRevenueDTO](t, tenant, "/demo/revenue")
	require.Len(t, first.Months, 12)
	assert.True(t, first.Total.Equal(second.Total))

	other := getDemo[analytics.DemoRevenueDTO](t, uuid.New(), "/demo/revenue")
	assert.False(t, first.Total.Equal(other.Total), "different tenants draw different figures")
}

func TestAnalyticsHandler_DemoOccupancy(t *testing.T) {
	got := getDemo[analytics.DemoOccupancyDTO](t, uuid.New(), "/demo/occupancy")

	require.Len(t, got.Days, 30)
	assert.NotEmpty(t, got.Date)
}

func TestAnalyticsHandler_DemoRequiresTenant(t *testing.T) {
	h := NewAnalyticsHandler(nil, analytics.NewDemoService())
	router := gin.New()
	router.GET("/demo/analytics", h.DemoAnalytics)
	router.GET("/analytics/dashboard", h.Dashboard)

	for _, path := range []string{"/demo/analytics", "/analytics/dashboard"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, dto.ErrCodeUnauthorized, decodeResponse(t, rec).Error.Code)
	}
}

func TestAnalyticsHandler_DashboardRejectsBadDates(t *testing.T) {
	h := NewAnalyticsHandler(nil, nil)
	router := gin.New()
	router.Use(withAuth(uuid.New(), uuid.New()))
	router.GET("/analytics/dashboard", h.Dashboard)

	runRejectCases(t, router, []rejectCase{
		{"from not a date", http.MethodGet, "/analytics/dashboard?from=yesterday", "", http.StatusBadRequest, dto.ErrCodeValidation},
		{"to wrong layout", http.MethodGet, "/analytics/dashboard?to=2031/01/01", "", http.StatusBadRequest, dto.ErrCodeValidation},
	})
}
