package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/logger"
	"github.com/hospitality/backend/internal/interfaces/http/dto"
)

// TenantIDKey holds the tenant the request operates on
const TenantIDKey = "tenant_id"

// TenantSlugKey holds the slug of a tenant resolved on a public route
const TenantSlugKey = "tenant_slug"

// TenantContext sets the request tenant from the access token. A super admin
// may act on another tenant by sending its ID in X-Tenant-ID; for everyone
// else the header is ignored. Must run after JWT authentication.
func TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := GetJWTTenantID(c)
		if override := c.GetHeader(TenantIDHeader); override != "" && IsSuperAdmin(c) {
			if !shared.IsValidUUID(override) {
				abortWithError(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid X-Tenant-ID header")
				return
			}
			tenantID = override
		}
		if tenantID == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Tenant context required")
			return
		}

		setTenant(c, tenantID)
		c.Next()
	}
}

// TenantResolver finds an active tenant by its public slug
type TenantResolver interface {
	ResolveSlug(ctx context.Context, slug string) (uuid.UUID, error)
}

// PublicTenant resolves the :tenant_slug path parameter of marketing-site
// routes. Unknown or inactive tenants get 404 so slugs cannot be probed.
func PublicTenant(resolver TenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param(TenantSlugKey)
		if !shared.IsValidSlug(slug) {
			abortWithError(c, http.StatusNotFound, dto.ErrCodeNotFound, "Site not found")
			return
		}

		id, err := resolver.ResolveSlug(c.Request.Context(), slug)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				abortWithError(c, http.StatusNotFound, dto.ErrCodeNotFound, "Site not found")
				return
			}
			logger.L(c.Request.Context()).Error("Failed to resolve tenant slug")
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}

		c.Set(TenantSlugKey, slug)
		setTenant(c, id.String())
		c.Next()
	}
}

func setTenant(c *gin.Context, tenantID string) {
	c.Set(TenantIDKey, tenantID)
	c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID))
}

// GetTenantUUID returns the request tenant
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	id := c.GetString(TenantIDKey)
	if id == "" {
		return uuid.Nil, errors.New("tenant ID not found in context")
	}
	return uuid.Parse(id)
}
