package property

import (
	"github.com/hospitality/backend/internal/domain/shared"
)

const (
	EventTypePropertyCreated       = "PropertyCreated"
	EventTypePropertyStatusChanged = "PropertyStatusChanged"
)

const AggregateTypeProperty = "Property"

// PropertyCreatedEvent is raised when a venue is registered
type PropertyCreatedEvent struct {
	shared.BaseDomainEvent
	Code string       `json:"code"`
	Name string       `json:"name"`
	Type PropertyType `json:"type"`
}

// NewPropertyCreatedEvent creates a PropertyCreatedEvent
func NewPropertyCreatedEvent(p *Property) *PropertyCreatedEvent {
	return &PropertyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyCreated, AggregateTypeProperty, p.ID, p.TenantID),
		Code:            p.Code,
		Name:            p.Name,
		Type:            p.Type,
	}
}

// PropertyStatusChangedEvent is raised on activate/deactivate/archive
type PropertyStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus PropertyStatus `json:"old_status"`
	NewStatus PropertyStatus `json:"new_status"`
}

// NewPropertyStatusChangedEvent creates a PropertyStatusChangedEvent
func NewPropertyStatusChangedEvent(p *Property, from, to PropertyStatus) *PropertyStatusChangedEvent {
	return &PropertyStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyStatusChanged, AggregateTypeProperty, p.ID, p.TenantID),
		OldStatus:       from,
		NewStatus:       to,
	}
}
