package concierge

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
)

// ConversationChannel is where the guest is chatting from
type ConversationChannel string

const (
	ChannelWeb      ConversationChannel = "web"
	ChannelWhatsApp ConversationChannel = "whatsapp"
)

// ConversationStatus is open or closed
type ConversationStatus string

const (
	ConversationOpen   ConversationStatus = "open"
	ConversationClosed ConversationStatus = "closed"
)

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

const (
	// MaxContentLength caps a single stored message
	MaxContentLength = 2000
	// HistoryWindow is how many recent messages are sent as context
	HistoryWindow = 20
	maxMessages   = 500
)

// ChatMessage is one turn of a conversation
type ChatMessage struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           Role      `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time
}

// TableName returns the table name for GORM
func (ChatMessage) TableName() string {
	return "concierge_messages"
}

// Conversation is a guest chat session with the concierge
type Conversation struct {
	shared.TenantAggregateRoot
	PropertyID *uuid.UUID          `gorm:"type:uuid;index"`
	GuestName  string              `gorm:"type:varchar(200)"`
	GuestEmail string              `gorm:"type:varchar(200)"`
	Channel    ConversationChannel `gorm:"type:varchar(20);not null;default:'web'"`
	Status     ConversationStatus  `gorm:"type:varchar(20);not null;default:'open';index"`
	Messages   []ChatMessage       `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	ClosedAt   *time.Time
}

// TableName returns the table name for GORM
func (Conversation) TableName() string {
	return "concierge_conversations"
}

// NewConversation opens a conversation
func NewConversation(tenantID uuid.UUID, propertyID *uuid.UUID, guestName, guestEmail string, channel ConversationChannel) (*Conversation, error) {
	if channel == "" {
		channel = ChannelWeb
	}
	if channel != ChannelWeb && channel != ChannelWhatsApp {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown conversation channel")
	}
	guestEmail = strings.TrimSpace(guestEmail)
	if guestEmail != "" && !shared.IsValidEmail(guestEmail) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid guest email")
	}
	return &Conversation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PropertyID:          propertyID,
		GuestName:           shared.Truncate(shared.SanitizeString(guestName), 200),
		GuestEmail:          shared.NormalizeEmail(guestEmail),
		Channel:             channel,
		Status:              ConversationOpen,
	}, nil
}

// AddMessage appends a turn. Content is sanitized and truncated.
func (c *Conversation) AddMessage(role Role, content string) (*ChatMessage, error) {
	if c.Status != ConversationOpen {
		return nil, shared.NewInvalidStateError("Conversation is closed")
	}
	if role != RoleUser && role != RoleAssistant && role != RoleSystem {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown message role")
	}
	content = shared.Truncate(shared.SanitizeString(content), MaxContentLength)
	if content == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Message cannot be empty")
	}
	if len(c.Messages) >= maxMessages {
		return nil, shared.NewInvalidStateError("Conversation has reached its message limit")
	}
	msg := ChatMessage{
		ID:             uuid.New(),
		ConversationID: c.ID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	c.Messages = append(c.Messages, msg)
	c.MarkChanged()
	return &c.Messages[len(c.Messages)-1], nil
}

// History returns at most n of the most recent messages in order
func (c *Conversation) History(n int) []ChatMessage {
	if n <= 0 || len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}

// Close ends the conversation
func (c *Conversation) Close() error {
	if c.Status == ConversationClosed {
		return shared.NewInvalidStateError("Conversation is already closed")
	}
	now := time.Now()
	c.Status = ConversationClosed
	c.ClosedAt = &now
	c.MarkChanged()
	return nil
}
