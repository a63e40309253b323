package communication

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/lib/pq"
)

// EventStatus is the status of a calendar entry
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
)

const maxAttendees = 50

// CalendarEvent is a scheduled entry shared with attendees
type CalendarEvent struct {
	shared.TenantAggregateRoot
	PropertyID  *uuid.UUID     `gorm:"type:uuid;index"`
	BookingID   *uuid.UUID     `gorm:"type:uuid;index"`
	Title       string         `gorm:"type:varchar(200);not null"`
	Description string         `gorm:"type:text"`
	Location    string         `gorm:"type:varchar(300)"`
	StartsAt    time.Time      `gorm:"not null;index"`
	EndsAt      time.Time      `gorm:"not null"`
	Attendees   pq.StringArray `gorm:"type:text[]"`
	Status      EventStatus    `gorm:"type:varchar(20);not null;default:'scheduled'"`
}

// TableName returns the table name for GORM
func (CalendarEvent) TableName() string {
	return "calendar_events"
}

// NewCalendarEvent creates a scheduled event
func NewCalendarEvent(tenantID uuid.UUID, title string, startsAt, endsAt time.Time) (*CalendarEvent, error) {
	title = shared.SanitizeString(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Event title is required")
	}
	if startsAt.IsZero() || !endsAt.After(startsAt) {
		return nil, shared.NewDomainError("INVALID_TIME_RANGE", "Event must end after it starts")
	}
	return &CalendarEvent{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               shared.Truncate(title, 200),
		StartsAt:            startsAt.UTC(),
		EndsAt:              endsAt.UTC(),
		Attendees:           pq.StringArray{},
		Status:              EventStatusScheduled,
	}, nil
}

// SetDetails sets the description and location
func (e *CalendarEvent) SetDetails(description, location string) {
	e.Description = shared.Truncate(shared.SanitizeString(description), 5000)
	e.Location = shared.Truncate(shared.SanitizeString(location), 300)
	e.MarkChanged()
}

// SetAttendees replaces the attendee list with validated, deduplicated emails
func (e *CalendarEvent) SetAttendees(emails []string) error {
	if len(emails) > maxAttendees {
		return shared.NewDomainError("TOO_MANY_ATTENDEES", "An event cannot have more than 50 attendees")
	}
	seen := make(map[string]bool, len(emails))
	out := make(pq.StringArray, 0, len(emails))
	for _, raw := range emails {
		email := strings.TrimSpace(raw)
		if email == "" {
			continue
		}
		if !shared.IsValidEmail(email) {
			return shared.NewDomainError("INVALID_ATTENDEE", "Invalid attendee email: "+email)
		}
		email = shared.NormalizeEmail(email)
		if !seen[email] {
			seen[email] = true
			out = append(out, email)
		}
	}
	e.Attendees = out
	e.MarkChanged()
	return nil
}

// Link attaches the event to a property and booking
func (e *CalendarEvent) Link(propertyID, bookingID *uuid.UUID) {
	e.PropertyID = propertyID
	e.BookingID = bookingID
}

// Cancel cancels the event
func (e *CalendarEvent) Cancel() error {
	if e.Status == EventStatusCancelled {
		return shared.NewInvalidStateError("Event is already cancelled")
	}
	e.Status = EventStatusCancelled
	e.MarkChanged()
	return nil
}
