package communication

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
)

// Channel is the delivery channel of a message
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// IsValid reports whether the channel is supported
func (c Channel) IsValid() bool {
	return c == ChannelEmail || c == ChannelWhatsApp
}

// MessageStatus is the delivery status
type MessageStatus string

const (
	MessageStatusQueued MessageStatus = "queued"
	MessageStatusSent   MessageStatus = "sent"
	MessageStatusFailed MessageStatus = "failed"
)

// MaxAttempts bounds manual and automatic retries
const MaxAttempts = 5

// Message is an outbound email or WhatsApp message and its delivery record
type Message struct {
	shared.TenantAggregateRoot
	Channel           Channel       `gorm:"type:varchar(20);not null;index"`
	Recipient         string        `gorm:"type:varchar(200);not null"`
	Subject           string        `gorm:"type:varchar(300)"`
	Body              string        `gorm:"type:text;not null"`
	Status            MessageStatus `gorm:"type:varchar(20);not null;default:'queued';index"`
	Provider          string        `gorm:"type:varchar(50)"`
	ProviderMessageID string        `gorm:"type:varchar(200)"`
	Error             string        `gorm:"type:varchar(1000)"`
	Attempts          int           `gorm:"not null;default:0"`
	RelatedType       string        `gorm:"type:varchar(50);index:idx_messages_related"`
	RelatedID         *uuid.UUID    `gorm:"type:uuid;index:idx_messages_related"`
	IdempotencyKey    string        `gorm:"type:varchar(200)"`
	SentAt            *time.Time
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// NewEmail creates a queued email message
func NewEmail(tenantID uuid.UUID, to, subject, body string) (*Message, error) {
	to = strings.TrimSpace(to)
	if !shared.IsValidEmail(to) {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Invalid recipient email")
	}
	subject = shared.SanitizeString(subject)
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Email subject is required")
	}
	return newMessage(tenantID, ChannelEmail, shared.NormalizeEmail(to), shared.Truncate(subject, 300), shared.SanitizeHTML(body))
}

// NewWhatsApp creates a queued WhatsApp message
func NewWhatsApp(tenantID uuid.UUID, to, body string) (*Message, error) {
	if !shared.IsValidPhone(to) {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Invalid recipient phone number")
	}
	return newMessage(tenantID, ChannelWhatsApp, shared.NormalizePhone(to), "", shared.Truncate(shared.SanitizeString(body), 4096))
}

func newMessage(tenantID uuid.UUID, channel Channel, to, subject, body string) (*Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Message body is required")
	}
	return &Message{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Channel:             channel,
		Recipient:           to,
		Subject:             subject,
		Body:                body,
		Status:              MessageStatusQueued,
	}, nil
}

// RelateTo links the message to the record that caused it
func (m *Message) RelateTo(kind string, id uuid.UUID) {
	m.RelatedType = kind
	m.RelatedID = &id
}

// SetIdempotencyKey records the client-supplied key
func (m *Message) SetIdempotencyKey(key string) {
	m.IdempotencyKey = key
}

// MarkSent records a successful delivery
func (m *Message) MarkSent(provider, providerMessageID string, at time.Time) {
	m.Attempts++
	m.Status = MessageStatusSent
	m.Provider = provider
	m.ProviderMessageID = providerMessageID
	m.Error = ""
	m.SentAt = &at
	m.MarkChanged()
	m.AddDomainEvent(NewMessageEvent(EventTypeMessageSent, m))
}

// MarkFailed records a failed delivery attempt
func (m *Message) MarkFailed(provider string, cause error) {
	m.Attempts++
	m.Status = MessageStatusFailed
	m.Provider = provider
	if cause != nil {
		m.Error = shared.Truncate(cause.Error(), 1000)
	}
	m.MarkChanged()
	m.AddDomainEvent(NewMessageEvent(EventTypeMessageFailed, m))
}

// PrepareRetry requeues a failed message
func (m *Message) PrepareRetry() error {
	if m.Status != MessageStatusFailed {
		return shared.NewInvalidStateError("Only failed messages can be retried")
	}
	if m.Attempts >= MaxAttempts {
		return shared.NewInvalidStateError("Message has reached the maximum number of attempts")
	}
	m.Status = MessageStatusQueued
	m.Error = ""
	m.MarkChanged()
	return nil
}
