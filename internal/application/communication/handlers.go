package communication

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PropertyLookup loads the venue named in notifications
type PropertyLookup interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.Property, error)
}

// BookingConfirmedHandler emails the guest and puts the stay on the shared calendar
type BookingConfirmedHandler struct {
	svc        *CommunicationService
	properties PropertyLookup
	logger     *zap.Logger
}

// NewBookingConfirmedHandler creates a handler for booking confirmed events
func NewBookingConfirmedHandler(svc *CommunicationService, properties PropertyLookup, logger *zap.Logger) *BookingConfirmedHandler {
	return &BookingConfirmedHandler{svc: svc, properties: properties, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *BookingConfirmedHandler) EventTypes() []string {
	return []string{booking.EventTypeBookingConfirmed}
}

// Handle sends the confirmation and creates the calendar entry
func (h *BookingConfirmedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	confirmed, ok := event.(*booking.BookingConfirmedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			booking.EventTypeBookingConfirmed, event.EventType())
	}
	tenantID := confirmed.TenantID()
	bookingID := confirmed.AggregateID()

	venue := "our property"
	var location string
	checkInAt, checkOutAt := "15:00", "11:00"
	if h.properties != nil {
		if p, err := h.properties.FindByIDForTenant(ctx, tenantID, confirmed.PropertyID); err == nil {
			venue = p.Name
			location = strings.Trim(strings.Join([]string{p.Address, p.City, p.Country}, ", "), ", ")
			if p.CheckInTime != "" {
				checkInAt = p.CheckInTime
			}
			if p.CheckOutTime != "" {
				checkOutAt = p.CheckOutTime
			}
		} else {
			h.logger.Warn("Property lookup failed for booking confirmation",
				zap.String("property_id", confirmed.PropertyID.String()),
				zap.Error(err))
		}
	}

	if confirmed.GuestEmail != "" {
		_, err := h.svc.SendEmail(ctx, SendEmailInput{
			TenantID:       tenantID,
			To:             confirmed.GuestEmail,
			Subject:        fmt.Sprintf("Your reservation %s is confirmed", confirmed.Reference),
			Body:           confirmationBody(confirmed, venue),
			RelatedType:    "booking",
			RelatedID:      &bookingID,
			IdempotencyKey: "booking-confirmed-" + confirmed.EventID().String(),
		})
		if err != nil {
			return fmt.Errorf("send booking confirmation: %w", err)
		}
	}

	var attendees []string
	if confirmed.GuestEmail != "" {
		attendees = []string{confirmed.GuestEmail}
	}
	propertyID := confirmed.PropertyID
	_, err := h.svc.CreateEvent(ctx, CreateEventInput{
		TenantID:    tenantID,
		PropertyID:  &propertyID,
		BookingID:   &bookingID,
		Title:       fmt.Sprintf("%s: %s (%s)", venue, confirmed.GuestName, confirmed.Reference),
		Description: fmt.Sprintf("Stay of %d nights", nightsBetween(confirmed.CheckIn, confirmed.CheckOut)),
		Location:    location,
		StartsAt:    atClock(confirmed.CheckIn, checkInAt),
		EndsAt:      atClock(confirmed.CheckOut, checkOutAt),
		Attendees:   attendees,
	})
	if err != nil {
		return fmt.Errorf("create stay calendar event: %w", err)
	}
	return nil
}

func confirmationBody(e *booking.BookingConfirmedEvent, venue string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", e.GuestName)
	fmt.Fprintf(&b, "Your reservation %s at %s is confirmed.\n\n", e.Reference, venue)
	fmt.Fprintf(&b, "Check-in:  %s\n", e.CheckIn.Format("Mon, 02 Jan 2006"))
	fmt.Fprintf(&b, "Check-out: %s\n", e.CheckOut.Format("Mon, 02 Jan 2006"))
	if e.TotalAmount.IsPositive() {
		fmt.Fprintf(&b, "Total:     %s %s\n", e.TotalAmount.StringFixed(2), e.Currency)
	}
	b.WriteString("\nWe look forward to welcoming you.\n")
	return b.String()
}

// atClock places an HH:MM wall time on the given date in UTC
func atClock(day time.Time, hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func nightsBetween(in, out time.Time) int {
	return int(out.Sub(in).Hours() / 24)
}

// LeadAcknowledgementHandler thanks new leads on the channel they left
type LeadAcknowledgementHandler struct {
	svc    *CommunicationService
	logger *zap.Logger
}

// NewLeadAcknowledgementHandler creates a handler for lead created events
func NewLeadAcknowledgementHandler(svc *CommunicationService, logger *zap.Logger) *LeadAcknowledgementHandler {
	return &LeadAcknowledgementHandler{svc: svc, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *LeadAcknowledgementHandler) EventTypes() []string {
	return []string{crm.EventTypeLeadCreated}
}

// Handle prefers WhatsApp for leads that came in over WhatsApp or left only a phone
func (h *LeadAcknowledgementHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*crm.LeadCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			crm.EventTypeLeadCreated, event.EventType())
	}
	leadID := created.AggregateID()
	key := "lead-ack-" + created.EventID().String()
	greeting := fmt.Sprintf("Hi %s, thank you for getting in touch. Our team will contact you shortly.", firstName(created.Name))

	useWhatsApp := created.Phone != "" && (created.Source == crm.LeadSourceWhatsApp || created.Email == "")
	switch {
	case useWhatsApp:
		_, err := h.svc.SendWhatsApp(ctx, SendWhatsAppInput{
			TenantID:       created.TenantID(),
			To:             created.Phone,
			Body:           greeting,
			RelatedType:    "lead",
			RelatedID:      &leadID,
			IdempotencyKey: key,
		})
		return err
	case created.Email != "":
		_, err := h.svc.SendEmail(ctx, SendEmailInput{
			TenantID:       created.TenantID(),
			To:             created.Email,
			Subject:        "Thank you for your enquiry",
			Body:           greeting,
			RelatedType:    "lead",
			RelatedID:      &leadID,
			IdempotencyKey: key,
		})
		return err
	}
	h.logger.Debug("Lead has no contact channel", zap.String("lead_id", leadID.String()))
	return nil
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return "there"
}
