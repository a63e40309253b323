package identity

import (
	"slices"
	"strings"

	"github.com/hospitality/backend/internal/domain/shared"
)

// Resource is a protected resource type
type Resource string

const (
	ResourceTenant        Resource = "tenant"
	ResourceUser          Resource = "user"
	ResourceProperty      Resource = "property"
	ResourceRoom          Resource = "room"
	ResourceBooking       Resource = "booking"
	ResourceStaff         Resource = "staff"
	ResourceLead          Resource = "lead"
	ResourceCMS           Resource = "cms"
	ResourceMedia         Resource = "media"
	ResourceInvoice       Resource = "invoice"
	ResourceCommunication Resource = "communication"
	ResourceConcierge     Resource = "concierge"
	ResourceAnalytics     Resource = "analytics"
)

// Action is an operation on a resource
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionManage grants every other action on the resource
	ActionManage Action = "manage"
)

// Wildcard grants every permission
const Wildcard = "*:*"

var (
	allResources = []Resource{
		ResourceTenant, ResourceUser, ResourceProperty, ResourceRoom, ResourceBooking,
		ResourceStaff, ResourceLead, ResourceCMS, ResourceMedia, ResourceInvoice,
		ResourceCommunication, ResourceConcierge, ResourceAnalytics,
	}
	allActions = []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionManage}
)

// Permission is a "resource:action" pair
type Permission struct {
	Resource Resource
	Action   Action
}

// Code returns the "resource:action" string
func (p Permission) Code() string {
	return string(p.Resource) + ":" + string(p.Action)
}

// NewPermission validates and builds a permission
func NewPermission(resource Resource, action Action) (Permission, error) {
	if !slices.Contains(allResources, resource) {
		return Permission{}, shared.NewDomainError("INVALID_RESOURCE", "Unknown resource: "+string(resource))
	}
	if !slices.Contains(allActions, action) {
		return Permission{}, shared.NewDomainError("INVALID_ACTION", "Unknown action: "+string(action))
	}
	return Permission{Resource: resource, Action: action}, nil
}

// ParsePermission parses a "resource:action" code
func ParsePermission(code string) (Permission, error) {
	resource, action, ok := strings.Cut(code, ":")
	if !ok {
		return Permission{}, shared.NewDomainError("INVALID_PERMISSION", "Permission must be in resource:action form")
	}
	return NewPermission(Resource(resource), Action(action))
}

// AllPermissionCodes lists every concrete permission code
func AllPermissionCodes() []string {
	codes := make([]string, 0, len(allResources)*len(allActions))
	for _, r := range allResources {
		for _, a := range allActions {
			codes = append(codes, Permission{Resource: r, Action: a}.Code())
		}
	}
	return codes
}

// HasPermission reports whether the granted codes satisfy the required one.
// "*:*" satisfies everything and "<resource>:manage" satisfies any action on that resource.
func HasPermission(granted []string, required string) bool {
	resource, _, _ := strings.Cut(required, ":")
	manage := resource + ":" + string(ActionManage)
	for _, g := range granted {
		if g == required || g == Wildcard || g == manage {
			return true
		}
	}
	return false
}

// RoleName identifies one of the built-in roles
type RoleName string

const (
	RoleSuperAdmin      RoleName = "super_admin"
	RoleTenantAdmin     RoleName = "tenant_admin"
	RolePropertyManager RoleName = "property_manager"
	RoleFrontDesk       RoleName = "front_desk"
	RoleSales           RoleName = "sales"
	RoleContentEditor   RoleName = "content_editor"
	RoleAccountant      RoleName = "accountant"
	RoleViewer          RoleName = "viewer"
)

// RoleDefinition describes a built-in role
type RoleDefinition struct {
	Name        RoleName
	DisplayName string
	Description string
	Permissions []string
}

func manage(resources ...Resource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = Permission{Resource: r, Action: ActionManage}.Code()
	}
	return out
}

func grant(action Action, resources ...Resource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = Permission{Resource: r, Action: action}.Code()
	}
	return out
}

func join(sets ...[]string) []string {
	var out []string
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

var roleDefinitions = []RoleDefinition{
	{
		Name:        RoleSuperAdmin,
		DisplayName: "Super Administrator",
		Description: "Platform operator with access to every tenant",
		Permissions: []string{Wildcard},
	},
	{
		Name:        RoleTenantAdmin,
		DisplayName: "Tenant Administrator",
		Description: "Full control of the organization's data",
		Permissions: join(
			grant(ActionRead, ResourceTenant),
			grant(ActionUpdate, ResourceTenant),
			manage(ResourceUser, ResourceProperty, ResourceRoom, ResourceBooking, ResourceStaff,
				ResourceLead, ResourceCMS, ResourceMedia, ResourceInvoice, ResourceCommunication,
				ResourceConcierge, ResourceAnalytics),
		),
	},
	{
		Name:        RolePropertyManager,
		DisplayName: "Property Manager",
		Description: "Runs venues, rooms, reservations and staff",
		Permissions: join(
			manage(ResourceProperty, ResourceRoom, ResourceBooking, ResourceStaff, ResourceConcierge, ResourceMedia),
			grant(ActionRead, ResourceLead, ResourceInvoice, ResourceCommunication, ResourceAnalytics),
			grant(ActionCreate, ResourceInvoice, ResourceCommunication),
		),
	},
	{
		Name:        RoleFrontDesk,
		DisplayName: "Front Desk",
		Description: "Handles check-in, check-out and guest requests",
		Permissions: join(
			manage(ResourceBooking),
			grant(ActionRead, ResourceProperty, ResourceRoom, ResourceInvoice, ResourceCommunication, ResourceConcierge),
			grant(ActionUpdate, ResourceRoom),
			grant(ActionCreate, ResourceInvoice, ResourceCommunication, ResourceConcierge),
		),
	},
	{
		Name:        RoleSales,
		DisplayName: "Sales",
		Description: "Works the lead pipeline",
		Permissions: join(
			manage(ResourceLead),
			grant(ActionRead, ResourceProperty, ResourceRoom, ResourceBooking, ResourceCommunication, ResourceAnalytics),
			grant(ActionCreate, ResourceBooking, ResourceCommunication),
		),
	},
	{
		Name:        RoleContentEditor,
		DisplayName: "Content Editor",
		Description: "Maintains the marketing site",
		Permissions: join(
			manage(ResourceCMS, ResourceMedia),
			grant(ActionRead, ResourceProperty),
		),
	},
	{
		Name:        RoleAccountant,
		DisplayName: "Accountant",
		Description: "Issues invoices and records payments",
		Permissions: join(
			manage(ResourceInvoice),
			grant(ActionRead, ResourceBooking, ResourceProperty, ResourceAnalytics),
		),
	},
	{
		Name:        RoleViewer,
		DisplayName: "Viewer",
		Description: "Read-only access to operational data",
		Permissions: grant(ActionRead, ResourceProperty, ResourceRoom, ResourceBooking, ResourceStaff,
			ResourceLead, ResourceCMS, ResourceInvoice, ResourceAnalytics),
	},
}

// AllRoles returns the built-in role table
func AllRoles() []RoleDefinition {
	out := make([]RoleDefinition, len(roleDefinitions))
	copy(out, roleDefinitions)
	return out
}

// IsKnownRole reports whether name is a built-in role
func IsKnownRole(name RoleName) bool {
	_, ok := findRole(name)
	return ok
}

// PermissionsForRole returns the permission codes granted by one role
func PermissionsForRole(name RoleName) []string {
	def, ok := findRole(name)
	if !ok {
		return nil
	}
	return slices.Clone(def.Permissions)
}

// PermissionsForRoles merges the permissions of several roles, sorted and deduplicated
func PermissionsForRoles(names []RoleName) []string {
	var out []string
	for _, n := range names {
		out = append(out, PermissionsForRole(n)...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func findRole(name RoleName) (RoleDefinition, bool) {
	for _, def := range roleDefinitions {
		if def.Name == name {
			return def, true
		}
	}
	return RoleDefinition{}, false
}
