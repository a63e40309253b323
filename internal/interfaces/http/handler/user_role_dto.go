package handler

import (
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/identity"
)

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Username    string   `json:"username" binding:"required,min=3,max=100"`
	Password    string   `json:"password" binding:"required,min=8,max=128"`
	Email       string   `json:"email" binding:"omitempty,email,max=200"`
	Phone       string   `json:"phone" binding:"omitempty,phone"`
	DisplayName string   `json:"display_name" binding:"omitempty,max=200"`
	Roles       []string `json:"roles" binding:"omitempty,dive,required,max=50"`
	Pending     bool     `json:"pending"`
}

func (r CreateUserRequest) toInput(tenantID, actorID uuid.UUID) identity.CreateUserInput {
	return identity.CreateUserInput{
		TenantID:    tenantID,
		CreatedBy:   actorID,
		Username:    r.Username,
		Password:    r.Password,
		DisplayName: r.DisplayName,
		Email:       r.Email,
		Phone:       r.Phone,
		Roles:       r.Roles,
		Pending:     r.Pending,
	}
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	Phone       *string `json:"phone" binding:"omitempty,phone"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
	Password    *string `json:"password" binding:"omitempty,min=8,max=128"`
}

// AssignRolesRequest replaces the role set of a user
type AssignRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1,dive,required,max=50"`
}

// UserListQuery represents query parameters for listing users
type UserListQuery struct {
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending active locked deactivated"`
	Role     string `form:"role" binding:"omitempty,max=50"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=username email display_name created_at updated_at last_login_at"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// EffectivePermissionsQuery lists the roles to merge
type EffectivePermissionsQuery struct {
	Roles []string `form:"role" binding:"required,min=1"`
}
