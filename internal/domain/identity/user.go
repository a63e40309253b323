package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusPending     UserStatus = "pending"
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

const bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// User is a login account belonging to a tenant
type User struct {
	shared.TenantAggregateRoot
	Username       string         `gorm:"type:varchar(100);not null"`
	Email          string         `gorm:"type:varchar(200)"`
	Phone          string         `gorm:"type:varchar(50)"`
	DisplayName    string         `gorm:"type:varchar(200)"`
	PasswordHash   string         `gorm:"type:varchar(200);not null"`
	Status         UserStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	Roles          pq.StringArray `gorm:"type:text[]"`
	FailedAttempts int            `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a pending user with a hashed password
func NewUser(tenantID uuid.UUID, username, password string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:        hash,
		Status:              UserStatusPending,
		Roles:               pq.StringArray{},
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// NewActiveUser creates a user that can log in immediately
func NewActiveUser(tenantID uuid.UUID, username, password string) (*User, error) {
	user, err := NewUser(tenantID, username, password)
	if err != nil {
		return nil, err
	}
	user.Status = UserStatusActive
	return user, nil
}

// UpdateProfile sets display name, email and phone
func (u *User) UpdateProfile(displayName, email, phone string) error {
	if email != "" && !shared.IsValidEmail(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if phone != "" && !shared.IsValidPhone(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
	}
	displayName = shared.SanitizeString(displayName)
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}

	u.DisplayName = displayName
	u.Email = shared.NormalizeEmail(email)
	u.Phone = shared.NormalizePhone(phone)
	u.MarkChanged()

	return nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.MarkChanged()
	return nil
}

// VerifyPassword compares a plaintext password with the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetRoles replaces the user's roles; every role must be a built-in one
func (u *User) SetRoles(roles []RoleName) error {
	if len(roles) == 0 {
		return shared.NewDomainError("INVALID_ROLES", "At least one role is required")
	}
	seen := make(map[RoleName]bool, len(roles))
	out := make(pq.StringArray, 0, len(roles))
	for _, r := range roles {
		if !IsKnownRole(r) {
			return shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(r))
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, string(r))
	}

	u.Roles = out
	u.MarkChanged()
	u.AddDomainEvent(NewUserRolesChangedEvent(u))

	return nil
}

// RoleNames returns the user's roles as typed names
func (u *User) RoleNames() []RoleName {
	out := make([]RoleName, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = RoleName(r)
	}
	return out
}

// Permissions returns the merged permission codes of the user's roles
func (u *User) Permissions() []string {
	return PermissionsForRoles(u.RoleNames())
}

// IsSuperAdmin reports whether the user can act across tenants
func (u *User) IsSuperAdmin() bool {
	for _, r := range u.Roles {
		if RoleName(r) == RoleSuperAdmin {
			return true
		}
	}
	return false
}

// Activate activates the user
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.MarkChanged()
	return nil
}

// Deactivate deactivates the user
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	u.Status = UserStatusDeactivated
	u.MarkChanged()
	return nil
}

// RecordLoginSuccess resets the failure counter and stamps the login
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.MarkChanged()
}

// RecordLoginFailure counts a failed attempt and locks the account at maxAttempts.
// Returns true if the account became locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.MarkChanged()

	if u.FailedAttempts >= maxAttempts {
		u.Status = UserStatusLocked
		until := time.Now().Add(lockDuration)
		u.LockedUntil = &until
		return true
	}
	return false
}

// IsLocked reports whether the account is locked right now
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// CanLogin reports whether the user may authenticate
func (u *User) CanLogin() bool {
	switch u.Status {
	case UserStatusDeactivated, UserStatusPending:
		return false
	}
	return !u.IsLocked()
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letter = true
		}
	}
	if !letter || !digit {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
