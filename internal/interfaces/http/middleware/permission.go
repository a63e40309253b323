package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
	// OnDenied replaces the default 403 response
	OnDenied func(c *gin.Context, requiredPerms []string)
}

// RequirePermission creates middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission creates middleware that requires any of the specified permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig is RequireAnyPermission with custom config
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTClaims(c) == nil {
			handlePermissionDenied(c, cfg, permissions, "No authentication claims found")
			return
		}
		if !HasAnyPermission(c, permissions...) {
			handlePermissionDenied(c, cfg, permissions, "User lacks required permission")
			return
		}
		c.Next()
	}
}

// RequireAllPermissions creates middleware that requires every listed permission
func RequireAllPermissions(permissions ...string) gin.HandlerFunc {
	cfg := PermissionConfig{}
	return func(c *gin.Context) {
		if GetJWTClaims(c) == nil {
			handlePermissionDenied(c, cfg, permissions, "No authentication claims found")
			return
		}
		if !HasAllPermissions(c, permissions...) {
			handlePermissionDenied(c, cfg, permissions, "User lacks one or more required permissions")
			return
		}
		c.Next()
	}
}

// RequireResource checks "<resource>:<action>" where the action follows the HTTP method:
// GET read, POST create, PUT/PATCH update, DELETE delete.
func RequireResource(resource identity.Resource) gin.HandlerFunc {
	return RequireResourceWithConfig(resource, PermissionConfig{})
}

// RequireResourceWithConfig is RequireResource with custom config
func RequireResourceWithConfig(resource identity.Resource, cfg PermissionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		permission := string(resource) + ":" + string(methodToAction(c.Request.Method))
		if GetJWTClaims(c) == nil {
			handlePermissionDenied(c, cfg, []string{permission}, "No authentication claims found")
			return
		}
		if !HasPermission(c, permission) {
			handlePermissionDenied(c, cfg, []string{permission}, "User lacks required permission for resource")
			return
		}
		c.Next()
	}
}

func methodToAction(method string) identity.Action {
	switch strings.ToUpper(method) {
	case http.MethodPost:
		return identity.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return identity.ActionUpdate
	case http.MethodDelete:
		return identity.ActionDelete
	default:
		return identity.ActionRead
	}
}

func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, requiredPerms []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, requiredPerms)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("Permission denied",
			zap.String("reason", reason),
			zap.String("user_id", GetJWTUserID(c)),
			zap.Strings("required_permissions", requiredPerms),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	if GetJWTClaims(c) == nil {
		abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied: insufficient permissions")
}

// HasPermission reports whether the authenticated user holds permission,
// honoring "<resource>:manage" and "*:*"
func HasPermission(c *gin.Context, permission string) bool {
	return identity.HasPermission(GetJWTPermissions(c), permission)
}

// HasAnyPermission reports whether the user holds at least one permission
func HasAnyPermission(c *gin.Context, permissions ...string) bool {
	granted := GetJWTPermissions(c)
	for _, p := range permissions {
		if identity.HasPermission(granted, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the user holds every permission
func HasAllPermissions(c *gin.Context, permissions ...string) bool {
	granted := GetJWTPermissions(c)
	for _, p := range permissions {
		if !identity.HasPermission(granted, p) {
			return false
		}
	}
	return true
}

// IsSuperAdmin reports whether the user has the cross-tenant role
func IsSuperAdmin(c *gin.Context) bool {
	for _, r := range GetJWTRoles(c) {
		if r == string(identity.RoleSuperAdmin) {
			return true
		}
	}
	return false
}
