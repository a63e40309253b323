package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hospitality/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requests rejected before reaching the service never touch it, so a nil
// service is enough here. The success paths are covered by the service tests.
func TestAuthHandler_RejectsBeforeService(t *testing.T) {
	h := NewAuthHandler(nil)
	router := gin.New()
	router.POST("/auth/login", h.Login)
	router.POST("/auth/refresh", h.RefreshToken)
	router.POST("/auth/logout", h.Logout)
	router.GET("/auth/me", h.GetCurrentUser)
	router.PUT("/auth/password", h.ChangePassword)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"login missing password", http.MethodPost, "/auth/login", `{"username":"frontdesk"}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"login short password", http.MethodPost, "/auth/login", `{"username":"frontdesk","password":"short"}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"login malformed", http.MethodPost, "/auth/login", `{"username":`, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"refresh empty", http.MethodPost, "/auth/refresh", `{}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"logout without claims", http.MethodPost, "/auth/logout", ``, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"me without claims", http.MethodGet, "/auth/me", ``, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"password without claims", http.MethodPut, "/auth/password", `{}`, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
