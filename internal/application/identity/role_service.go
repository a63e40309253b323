package identity

import (
	"github.com/hospitality/backend/internal/domain/identity"
)

// RoleService exposes the static role and permission tables
type RoleService struct{}

// NewRoleService creates a new role service
func NewRoleService() *RoleService {
	return &RoleService{}
}

// ListRoles returns every built-in role with its permissions
func (s *RoleService) ListRoles() []RoleDTO {
	defs := identity.AllRoles()
	out := make([]RoleDTO, len(defs))
	for i, d := range defs {
		out[i] = RoleDTO{
			Name:        string(d.Name),
			DisplayName: d.DisplayName,
			Description: d.Description,
			Permissions: identity.PermissionsForRole(d.Name),
		}
	}
	return out
}

// ListPermissions returns every concrete permission code
func (s *RoleService) ListPermissions() []string {
	return identity.AllPermissionCodes()
}

// Effective returns the merged permissions of the given roles
func (s *RoleService) Effective(roles []string) []string {
	return identity.PermissionsForRoles(toRoleNames(roles))
}
