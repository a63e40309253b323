package communication

import (
	"github.com/hospitality/backend/internal/domain/shared"
)

const (
	EventTypeMessageSent   = "MessageSent"
	EventTypeMessageFailed = "MessageFailed"
)

const AggregateTypeMessage = "Message"

// MessageEvent reports the outcome of a delivery attempt
type MessageEvent struct {
	shared.BaseDomainEvent
	Channel   Channel       `json:"channel"`
	Recipient string        `json:"recipient"`
	Status    MessageStatus `json:"status"`
	Provider  string        `json:"provider"`
	Error     string        `json:"error,omitempty"`
}

// NewMessageEvent creates a message event of the given type
func NewMessageEvent(eventType string, m *Message) *MessageEvent {
	return &MessageEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeMessage, m.ID, m.TenantID),
		Channel:         m.Channel,
		Recipient:       m.Recipient,
		Status:          m.Status,
		Provider:        m.Provider,
		Error:           m.Error,
	}
}
