package identity

import (
	"github.com/hospitality/backend/internal/domain/shared"
)

const (
	EventTypeUserCreated      = "UserCreated"
	EventTypeUserRolesChanged = "UserRolesChanged"
)

const AggregateTypeUser = "User"

// UserCreatedEvent is raised when a user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserCreatedEvent creates a UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, u.TenantID),
		Username:        u.Username,
	}
}

// UserRolesChangedEvent is raised when a user's roles are replaced
type UserRolesChangedEvent struct {
	shared.BaseDomainEvent
	Roles []string `json:"roles"`
}

// NewUserRolesChangedEvent creates a UserRolesChangedEvent
func NewUserRolesChangedEvent(u *User) *UserRolesChangedEvent {
	return &UserRolesChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRolesChanged, AggregateTypeUser, u.ID, u.TenantID),
		Roles:           append([]string(nil), u.Roles...),
	}
}
