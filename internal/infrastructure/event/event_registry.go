package event

import (
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/cms"
	"github.com/hospitality/backend/internal/domain/communication"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/invoice"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/staff"
)

// RegisterAllEvents registers every domain event type with the serializer
func RegisterAllEvents(serializer *EventSerializer) {
	// Identity
	serializer.Register(identity.EventTypeTenantCreated, &identity.TenantCreatedEvent{})
	serializer.Register(identity.EventTypeTenantUpdated, &identity.TenantUpdatedEvent{})
	serializer.Register(identity.EventTypeTenantStatusChanged, &identity.TenantStatusChangedEvent{})
	serializer.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	serializer.Register(identity.EventTypeUserRolesChanged, &identity.UserRolesChangedEvent{})

	// Property
	serializer.Register(property.EventTypePropertyCreated, &property.PropertyCreatedEvent{})
	serializer.Register(property.EventTypePropertyStatusChanged, &property.PropertyStatusChangedEvent{})

	// Booking
	serializer.Register(booking.EventTypeBookingCreated, &booking.BookingCreatedEvent{})
	serializer.Register(booking.EventTypeBookingConfirmed, &booking.BookingConfirmedEvent{})
	serializer.Register(booking.EventTypeBookingCancelled, &booking.BookingCancelledEvent{})
	serializer.Register(booking.EventTypeBookingCheckedIn, &booking.BookingStatusEvent{})
	serializer.Register(booking.EventTypeBookingCheckedOut, &booking.BookingStatusEvent{})

	// Staff
	serializer.Register(staff.EventTypeStaffHired, &staff.StaffHiredEvent{})
	serializer.Register(staff.EventTypeStaffStatusChanged, &staff.StaffStatusChangedEvent{})

	// CRM
	serializer.Register(crm.EventTypeLeadCreated, &crm.LeadCreatedEvent{})
	serializer.Register(crm.EventTypeLeadStatusChanged, &crm.LeadStatusChangedEvent{})

	// CMS
	serializer.Register(cms.EventTypePageCreated, &cms.PageEvent{})
	serializer.Register(cms.EventTypePagePublished, &cms.PageEvent{})

	// Invoice
	serializer.Register(invoice.EventTypeInvoiceIssued, &invoice.InvoiceEvent{})
	serializer.Register(invoice.EventTypeInvoicePaid, &invoice.InvoiceEvent{})
	serializer.Register(invoice.EventTypeInvoiceVoided, &invoice.InvoiceEvent{})

	// Communication
	serializer.Register(communication.EventTypeMessageSent, &communication.MessageEvent{})
	serializer.Register(communication.EventTypeMessageFailed, &communication.MessageEvent{})
}
