package persistence

import (
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/cms"
	"github.com/hospitality/backend/internal/domain/communication"
	"github.com/hospitality/backend/internal/domain/concierge"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/invoice"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/staff"
)

// AllModels lists every persisted model in dependency order
func AllModels() []any {
	return []any{
		&identity.Tenant{},
		&identity.User{},
		&property.Property{},
		&property.Room{},
		&booking.Booking{},
		&staff.StaffMember{},
		&crm.Lead{},
		&cms.Page{},
		&cms.MediaAsset{},
		&invoice.Invoice{},
		&invoice.InvoiceItem{},
		&communication.Message{},
		&communication.CalendarEvent{},
		&concierge.Conversation{},
		&concierge.ChatMessage{},
	}
}
