package crm

import (
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
)

const (
	EventTypeLeadCreated       = "LeadCreated"
	EventTypeLeadStatusChanged = "LeadStatusChanged"
)

const AggregateTypeLead = "Lead"

// LeadCreatedEvent is raised when a lead is captured
type LeadCreatedEvent struct {
	shared.BaseDomainEvent
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Source     LeadSource `json:"source"`
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
}

// NewLeadCreatedEvent creates a LeadCreatedEvent
func NewLeadCreatedEvent(l *Lead) *LeadCreatedEvent {
	return &LeadCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadCreated, AggregateTypeLead, l.ID, l.TenantID),
		Name:            l.Name,
		Email:           l.Email,
		Phone:           l.Phone,
		Source:          l.Source,
		PropertyID:      l.PropertyID,
	}
}

// LeadStatusChangedEvent is raised on every pipeline move
type LeadStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus LeadStatus `json:"old_status"`
	NewStatus LeadStatus `json:"new_status"`
}

// NewLeadStatusChangedEvent creates a LeadStatusChangedEvent
func NewLeadStatusChangedEvent(l *Lead, from, to LeadStatus) *LeadStatusChangedEvent {
	return &LeadStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadStatusChanged, AggregateTypeLead, l.ID, l.TenantID),
		OldStatus:       from,
		NewStatus:       to,
	}
}
