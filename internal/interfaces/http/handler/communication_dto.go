package handler

import (
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/communication"
)

// IdempotencyKeyHeader deduplicates outbound sends
const IdempotencyKeyHeader = "Idempotency-Key"

// SendEmailRequest sends one email
type SendEmailRequest struct {
	To          string `json:"to" binding:"required,email,max=200"`
	Subject     string `json:"subject" binding:"required,min=1,max=300"`
	Body        string `json:"body" binding:"required,min=1,max=100000"`
	RelatedType string `json:"related_type" binding:"omitempty,oneof=booking lead invoice"`
	RelatedID   string `json:"related_id" binding:"omitempty,uuid"`
}

// SendWhatsAppRequest sends one WhatsApp text message
type SendWhatsAppRequest struct {
	To          string `json:"to" binding:"required,phone"`
	Body        string `json:"body" binding:"required,min=1,max=4096"`
	RelatedType string `json:"related_type" binding:"omitempty,oneof=booking lead invoice"`
	RelatedID   string `json:"related_id" binding:"omitempty,uuid"`
}

// CreateEventRequest schedules a calendar entry. Times are RFC 3339.
type CreateEventRequest struct {
	PropertyID  string   `json:"property_id" binding:"omitempty,uuid"`
	BookingID   string   `json:"booking_id" binding:"omitempty,uuid"`
	Title       string   `json:"title" binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"omitempty,max=5000"`
	Location    string   `json:"location" binding:"omitempty,max=300"`
	StartsAt    string   `json:"starts_at" binding:"required"`
	EndsAt      string   `json:"ends_at" binding:"required"`
	Attendees   []string `json:"attendees" binding:"omitempty,max=100,dive,email"`
}

func (r CreateEventRequest) toInput(tenantID uuid.UUID) (communication.CreateEventInput, error) {
	in := communication.CreateEventInput{
		TenantID:    tenantID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Attendees:   r.Attendees,
	}
	var err error
	if in.PropertyID, err = parseOptionalUUID("property_id", r.PropertyID); err != nil {
		return in, err
	}
	if in.BookingID, err = parseOptionalUUID("booking_id", r.BookingID); err != nil {
		return in, err
	}
	if in.StartsAt, err = parseTimestamp("starts_at", r.StartsAt); err != nil {
		return in, err
	}
	if in.EndsAt, err = parseTimestamp("ends_at", r.EndsAt); err != nil {
		return in, err
	}
	return in, nil
}

// CommunicationActionRequest is the unified endpoint body; event is used by create_event only
type CommunicationActionRequest struct {
	Action  string              `json:"action" binding:"required,oneof=send_email send_whatsapp create_event"`
	To      string              `json:"to" binding:"omitempty,max=200"`
	Subject string              `json:"subject" binding:"omitempty,max=300"`
	Body    string              `json:"body" binding:"omitempty,max=100000"`
	Event   *CreateEventRequest `json:"event" binding:"required_if=Action create_event"`
}

// MessageListQuery represents query parameters for listing messages
type MessageListQuery struct {
	Keyword     string `form:"keyword" binding:"omitempty,max=100"`
	Channel     string `form:"channel" binding:"omitempty,oneof=email whatsapp"`
	Status      string `form:"status" binding:"omitempty,oneof=queued sent failed"`
	RelatedType string `form:"related_type" binding:"omitempty,oneof=booking lead invoice"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy      string `form:"sort_by" binding:"omitempty,oneof=created_at sent_at status channel"`
	SortDir     string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// EventListQuery represents query parameters for listing calendar events
type EventListQuery struct {
	Keyword    string `form:"keyword" binding:"omitempty,max=100"`
	Status     string `form:"status" binding:"omitempty,oneof=scheduled cancelled"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	BookingID  string `form:"booking_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=starts_at created_at title"`
	SortDir    string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}
