package identity

import (
	"github.com/hospitality/backend/internal/domain/shared"
)

const (
	EventTypeTenantCreated       = "TenantCreated"
	EventTypeTenantUpdated       = "TenantUpdated"
	EventTypeTenantStatusChanged = "TenantStatusChanged"
)

const AggregateTypeTenant = "Tenant"

// TenantCreatedEvent is raised when a tenant is created
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewTenantCreatedEvent creates a TenantCreatedEvent
func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, t.ID, t.ID),
		Code:            t.Code,
		Name:            t.Name,
		Slug:            t.Slug,
	}
}

// TenantUpdatedEvent is raised when tenant details change
type TenantUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewTenantUpdatedEvent creates a TenantUpdatedEvent
func NewTenantUpdatedEvent(t *Tenant) *TenantUpdatedEvent {
	return &TenantUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantUpdated, AggregateTypeTenant, t.ID, t.ID),
		Name:            t.Name,
	}
}

// TenantStatusChangedEvent is raised on activate/deactivate/suspend
type TenantStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus TenantStatus `json:"old_status"`
	NewStatus TenantStatus `json:"new_status"`
}

// NewTenantStatusChangedEvent creates a TenantStatusChangedEvent
func NewTenantStatusChangedEvent(t *Tenant, from, to TenantStatus) *TenantStatusChangedEvent {
	return &TenantStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantStatusChanged, AggregateTypeTenant, t.ID, t.ID),
		OldStatus:       from,
		NewStatus:       to,
	}
}
