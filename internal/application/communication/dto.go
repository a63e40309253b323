package communication

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/communication"
)

// Action names accepted by the unified communication endpoint
const (
	ActionSendEmail    = "send_email"
	ActionSendWhatsApp = "send_whatsapp"
	ActionCreateEvent  = "create_event"
)

// SendEmailInput contains input for an outbound email
type SendEmailInput struct {
	TenantID       uuid.UUID
	To             string
	Subject        string
	Body           string
	RelatedType    string
	RelatedID      *uuid.UUID
	IdempotencyKey string
}

// SendWhatsAppInput contains input for an outbound WhatsApp message
type SendWhatsAppInput struct {
	TenantID       uuid.UUID
	To             string
	Body           string
	RelatedType    string
	RelatedID      *uuid.UUID
	IdempotencyKey string
}

// CreateEventInput contains input for a calendar entry
type CreateEventInput struct {
	TenantID    uuid.UUID
	PropertyID  *uuid.UUID
	BookingID   *uuid.UUID
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	Attendees   []string
}

// ActionInput is the body of the unified endpoint; fields apply per action
type ActionInput struct {
	TenantID       uuid.UUID
	Action         string
	To             string
	Subject        string
	Body           string
	IdempotencyKey string
	Event          CreateEventInput
}

// ActionResult holds whichever record the action produced
type ActionResult struct {
	Action  string            `json:"action"`
	Message *MessageDTO       `json:"message,omitempty"`
	Event   *CalendarEventDTO `json:"event,omitempty"`
}

// MessageListFilter narrows message listings
type MessageListFilter struct {
	Search      string
	Channel     string
	Status      string
	RelatedType string
	Page        int
	PageSize    int
	OrderBy     string
	OrderDir    string
}

// EventListFilter narrows calendar listings
type EventListFilter struct {
	Search     string
	Status     string
	PropertyID *uuid.UUID
	BookingID  *uuid.UUID
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// MessageDTO represents a message and its delivery record
type MessageDTO struct {
	ID                uuid.UUID  `json:"id"`
	Channel           string     `json:"channel"`
	Recipient         string     `json:"recipient"`
	Subject           string     `json:"subject,omitempty"`
	Body              string     `json:"body"`
	Status            string     `json:"status"`
	Provider          string     `json:"provider,omitempty"`
	ProviderMessageID string     `json:"provider_message_id,omitempty"`
	Error             string     `json:"error,omitempty"`
	Attempts          int        `json:"attempts"`
	RelatedType       string     `json:"related_type,omitempty"`
	RelatedID         *uuid.UUID `json:"related_id,omitempty"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToMessageDTO converts a domain message into its DTO
func ToMessageDTO(m *communication.Message) MessageDTO {
	return MessageDTO{
		ID:                m.ID,
		Channel:           string(m.Channel),
		Recipient:         m.Recipient,
		Subject:           m.Subject,
		Body:              m.Body,
		Status:            string(m.Status),
		Provider:          m.Provider,
		ProviderMessageID: m.ProviderMessageID,
		Error:             m.Error,
		Attempts:          m.Attempts,
		RelatedType:       m.RelatedType,
		RelatedID:         m.RelatedID,
		SentAt:            m.SentAt,
		CreatedAt:         m.CreatedAt,
	}
}

// CalendarEventDTO represents a calendar entry
type CalendarEventDTO struct {
	ID          uuid.UUID  `json:"id"`
	PropertyID  *uuid.UUID `json:"property_id,omitempty"`
	BookingID   *uuid.UUID `json:"booking_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      time.Time  `json:"ends_at"`
	Attendees   []string   `json:"attendees"`
	Status      string     `json:"status"`
}

// ToCalendarEventDTO converts a domain event into its DTO
func ToCalendarEventDTO(e *communication.CalendarEvent) CalendarEventDTO {
	attendees := make([]string, len(e.Attendees))
	copy(attendees, e.Attendees)
	return CalendarEventDTO{
		ID:          e.ID,
		PropertyID:  e.PropertyID,
		BookingID:   e.BookingID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Attendees:   attendees,
		Status:      string(e.Status),
	}
}
