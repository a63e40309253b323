package communication

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
)

// MessageRepository defines the interface for message persistence
type MessageRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Message, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Message, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, message *Message) error
}

// CalendarRepository defines the interface for calendar event persistence
type CalendarRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CalendarEvent, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CalendarEvent, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindInRange returns scheduled events overlapping [from, to)
	FindInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]CalendarEvent, error)
	Save(ctx context.Context, event *CalendarEvent) error
}
