package concierge

import (
	"context"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
)

// ConversationRepository defines the interface for conversation persistence
type ConversationRepository interface {
	// FindByIDForTenant loads the conversation with its messages
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Conversation, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Conversation, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, conversation *Conversation) error
	// AppendMessages inserts new messages without rewriting the history
	AppendMessages(ctx context.Context, conversation *Conversation, messages ...ChatMessage) error
}
