package concierge

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/concierge"
)

// StartConversationInput opens a chat, optionally with the guest's first message
type StartConversationInput struct {
	TenantID   uuid.UUID
	PropertyID *uuid.UUID
	GuestName  string
	GuestEmail string
	Channel    string
	Message    string
}

// PublicChatInput is a marketing-site chat turn; a nil ConversationID starts a new chat
type PublicChatInput struct {
	TenantID       uuid.UUID
	ConversationID *uuid.UUID
	PropertyID     *uuid.UUID
	GuestName      string
	GuestEmail     string
	Message        string
}

// ConversationListFilter narrows conversation listings
type ConversationListFilter struct {
	Status     string
	Channel    string
	PropertyID *uuid.UUID
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// ChatMessageDTO represents one turn
type ChatMessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationDTO represents a conversation; Messages is empty in listings
type ConversationDTO struct {
	ID           uuid.UUID        `json:"id"`
	PropertyID   *uuid.UUID       `json:"property_id,omitempty"`
	GuestName    string           `json:"guest_name,omitempty"`
	GuestEmail   string           `json:"guest_email,omitempty"`
	Channel      string           `json:"channel"`
	Status       string           `json:"status"`
	MessageCount int              `json:"message_count"`
	Messages     []ChatMessageDTO `json:"messages,omitempty"`
	ClosedAt     *time.Time       `json:"closed_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ReplyDTO is the assistant's answer to a guest message
type ReplyDTO struct {
	ConversationID uuid.UUID      `json:"conversation_id"`
	Message        ChatMessageDTO `json:"message"`
	// Source is "model" or "fallback"
	Source string `json:"source"`
}

func toChatMessageDTO(m *concierge.ChatMessage) ChatMessageDTO {
	return ChatMessageDTO{ID: m.ID, Role: string(m.Role), Content: m.Content, CreatedAt: m.CreatedAt}
}

// ToConversationDTO converts a conversation; withMessages includes the transcript
func ToConversationDTO(c *concierge.Conversation, withMessages bool) ConversationDTO {
	dto := ConversationDTO{
		ID:           c.ID,
		PropertyID:   c.PropertyID,
		GuestName:    c.GuestName,
		GuestEmail:   c.GuestEmail,
		Channel:      string(c.Channel),
		Status:       string(c.Status),
		MessageCount: len(c.Messages),
		ClosedAt:     c.ClosedAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if withMessages {
		dto.Messages = make([]ChatMessageDTO, len(c.Messages))
		for i := range c.Messages {
			dto.Messages[i] = toChatMessageDTO(&c.Messages[i])
		}
	}
	return dto
}
