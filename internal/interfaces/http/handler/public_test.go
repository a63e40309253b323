package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/interfaces/http/dto"
)

func TestPublicHandler_RejectsBeforeService(t *testing.T) {
	h := NewPublicHandler(nil, nil, nil, nil)
	router := gin.New()
	router.Use(withAuth(uuid.New(), uuid.Nil))
	router.GET("/public/:tenant_slug/properties", h.ListProperties)
	router.POST("/public/:tenant_slug/leads", h.CaptureLead)
	router.POST("/public/:tenant_slug/concierge/chat", h.Chat)

	runRejectCases(t, router, []rejectCase{
		{"listing unknown type", http.MethodGet, "/public/seaside/properties?type=castle", "", http.StatusBadRequest, dto.ErrCodeValidation},
		{"listing page too large", http.MethodGet, "/public/seaside/properties?page_size=500", "", http.StatusBadRequest, dto.ErrCodeValidation},
		{"lead without contact", http.MethodPost, "/public/seaside/leads", `{"name":"Ana"}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"lead bad email", http.MethodPost, "/public/seaside/leads", `{"name":"Ana","email":"ana-at-example"}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"lead bad phone", http.MethodPost, "/public/seaside/leads", `{"name":"Ana","phone":"call me"}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"chat empty message", http.MethodPost, "/public/seaside/concierge/chat", `{"message":""}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"chat too long", http.MethodPost, "/public/seaside/concierge/chat", `{"message":"` + strings.Repeat("a", 2001) + `"}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"chat bad conversation", http.MethodPost, "/public/seaside/concierge/chat", `{"message":"hi","conversation_id":"7"}`, http.StatusBadRequest, dto.ErrCodeValidation},
	})
}

func TestPublicHandler_RequiresResolvedSite(t *testing.T) {
	h := NewPublicHandler(nil, nil, nil, nil)
	router := gin.New()
	router.GET("/public/:tenant_slug/properties", h.ListProperties)
	router.POST("/public/:tenant_slug/leads", h.CaptureLead)

	runRejectCases(t, router, []rejectCase{
		{"listing", http.MethodGet, "/public/seaside/properties", "", http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"lead", http.MethodPost, "/public/seaside/leads", `{"name":"Ana","email":"ana@example.com"}`, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
	})
}
