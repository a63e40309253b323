package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hospitality/backend/internal/application/identity"
)

// RoleHandler exposes the built-in role and permission tables
type RoleHandler struct {
	BaseHandler
	roleService *identity.RoleService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService *identity.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// ListRoles godoc
// @Summary      List roles
// @Tags         rbac
// @Produce      json
// @Success      200 {object} APIResponse[[]identity.RoleDTO]
// @Security     BearerAuth
// @Router       /rbac/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	h.Success(c, h.roleService.ListRoles())
}

// ListPermissions godoc
// @Summary      List permission codes
// @Tags         rbac
// @Produce      json
// @Success      200 {object} APIResponse[[]string]
// @Security     BearerAuth
// @Router       /rbac/permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	h.Success(c, h.roleService.ListPermissions())
}

// EffectivePermissions godoc
// @Summary      Merged permissions of a role set
// @Tags         rbac
// @Produce      json
// @Param        role query []string true "Role names" collectionFormat(multi)
// @Success      200 {object} APIResponse[[]string]
// @Security     BearerAuth
// @Router       /rbac/effective [get]
func (h *RoleHandler) EffectivePermissions(c *gin.Context) {
	var q EffectivePermissionsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	h.Success(c, h.roleService.Effective(q.Roles))
}
