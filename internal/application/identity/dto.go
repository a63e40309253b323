package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	// TenantCode narrows the lookup when usernames repeat across tenants
	TenantCode string
	Username   string
	Password   string
	IP         string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Roles       []string  `json:"roles"`
	Permissions []string  `json:"permissions"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	TokenJTI string
	// TokenTTL is the remaining lifetime of the access token being revoked
	TokenTTL time.Duration
}

// GetCurrentUserInput contains the input for getting current user info
type GetCurrentUserInput struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateTenantInput contains input for creating a tenant
type CreateTenantInput struct {
	Code         string
	Name         string
	Slug         string
	Plan         string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Domain       string
	Timezone     string
	Currency     string
	Locale       string
	TrialDays    int // If > 0, creates a trial tenant
}

// UpdateTenantInput contains input for updating a tenant; nil fields are left unchanged
type UpdateTenantInput struct {
	Name         *string
	Plan         *string
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
	Domain       *string
	Timezone     *string
	Currency     *string
	Locale       *string
}

// TenantListFilter narrows tenant listings
type TenantListFilter struct {
	Search   string
	Status   string
	Plan     string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// TenantDTO represents tenant data transfer object
type TenantDTO struct {
	ID           uuid.UUID  `json:"id"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Status       string     `json:"status"`
	Plan         string     `json:"plan"`
	ContactName  string     `json:"contact_name,omitempty"`
	ContactEmail string     `json:"contact_email,omitempty"`
	ContactPhone string     `json:"contact_phone,omitempty"`
	Domain       string     `json:"domain,omitempty"`
	Timezone     string     `json:"timezone"`
	Currency     string     `json:"currency"`
	Locale       string     `json:"locale"`
	TrialEndsAt  *time.Time `json:"trial_ends_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Version      int        `json:"version"`
}

// TenantStatsDTO counts tenants by status
type TenantStatsDTO struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Trial     int64 `json:"trial"`
	Inactive  int64 `json:"inactive"`
	Suspended int64 `json:"suspended"`
}

// ToTenantDTO converts a domain tenant into its DTO
func ToTenantDTO(t *identity.Tenant) TenantDTO {
	return TenantDTO{
		ID:           t.ID,
		Code:         t.Code,
		Name:         t.Name,
		Slug:         t.Slug,
		Status:       string(t.Status),
		Plan:         string(t.Plan),
		ContactName:  t.ContactName,
		ContactEmail: t.ContactEmail,
		ContactPhone: t.ContactPhone,
		Domain:       t.Domain,
		Timezone:     t.Timezone,
		Currency:     t.Currency,
		Locale:       t.Locale,
		TrialEndsAt:  t.TrialEndsAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Version:      t.Version,
	}
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	TenantID    uuid.UUID
	CreatedBy   uuid.UUID
	Username    string
	Password    string
	DisplayName string
	Email       string
	Phone       string
	Roles       []string
	// Pending users must be activated before they can log in
	Pending bool
}

// UpdateUserInput contains input for updating a user's profile
type UpdateUserInput struct {
	DisplayName *string
	Email       *string
	Phone       *string
	Password    *string
}

// UserListFilter narrows user listings
type UserListFilter struct {
	Search   string
	Status   string
	Role     string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// UserDTO represents a user without credentials
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Status      string     `json:"status"`
	Roles       []string   `json:"roles"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// ToUserDTO converts a domain user into its DTO
func ToUserDTO(u *identity.User) UserDTO {
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	return UserDTO{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: displayNameOf(u),
		Email:       u.Email,
		Phone:       u.Phone,
		Status:      string(u.Status),
		Roles:       roles,
		LockedUntil: u.LockedUntil,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		Version:     u.Version,
	}
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: displayNameOf(u),
		Email:       u.Email,
		Phone:       u.Phone,
		Roles:       []string(u.Roles),
		Permissions: u.Permissions(),
	}
}

func displayNameOf(u *identity.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// RoleDTO describes a built-in role and its permissions
type RoleDTO struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}
