package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/concierge"
	"github.com/hospitality/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var conversationList = listQuery{
	searchColumns: []string{"guest_name", "guest_email"},
	clauses: map[string]string{
		"status":      "status = ?",
		"channel":     "channel = ?",
		"property_id": "property_id = ?",
	},
	sortFields:  ConversationSortFields,
	defaultSort: "updated_at",
}

// GormConversationRepository implements ConversationRepository using GORM
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GormConversationRepository
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// FindByIDForTenant loads a conversation with its full history
func (r *GormConversationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*concierge.Conversation, error) {
	return firstForTenant[concierge.Conversation](ctx, r.db, tenantID, id, "Messages")
}

func (r *GormConversationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]concierge.Conversation, error) {
	return listForTenant[concierge.Conversation](ctx, r.db, conversationList, tenantID, filter)
}

func (r *GormConversationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return countForTenant[concierge.Conversation](ctx, r.db, conversationList, tenantID, filter)
}

// Save writes the conversation header only; messages go through AppendMessages
func (r *GormConversationRepository) Save(ctx context.Context, conversation *concierge.Conversation) error {
	return r.db.WithContext(ctx).Omit("Messages").Save(conversation).Error
}

// AppendMessages inserts messages and bumps the conversation's updated_at
func (r *GormConversationRepository) AppendMessages(ctx context.Context, conversation *concierge.Conversation, messages ...concierge.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range messages {
			messages[i].ConversationID = conversation.ID
		}
		if err := tx.Create(&messages).Error; err != nil {
			return err
		}
		return tx.Model(&concierge.Conversation{}).
			Where("tenant_id = ? AND id = ?", conversation.TenantID, conversation.ID).
			Update("updated_at", time.Now()).Error
	})
}

var _ concierge.ConversationRepository = (*GormConversationRepository)(nil)
