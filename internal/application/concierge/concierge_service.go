package concierge

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/concierge"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/ai"
	"github.com/hospitality/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// ChatModel generates the assistant's next message
type ChatModel interface {
	Reply(ctx context.Context, systemPrompt string, history []ai.Turn) (string, error)
}

// PropertyLookup loads the venue the guest is asking about
type PropertyLookup interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.Property, error)
}

// RoomLister lists a venue's rooms for rate questions
type RoomLister interface {
	FindByProperty(ctx context.Context, tenantID, propertyID uuid.UUID, filter shared.Filter) ([]property.Room, error)
}

// ConciergeService runs guest chats against the configured model
type ConciergeService struct {
	repo       concierge.ConversationRepository
	properties PropertyLookup
	rooms      RoomLister
	model      ChatModel
	logger     *zap.Logger
}

// NewConciergeService creates a new concierge service. A nil model answers every
// message with the property-facts fallback.
func NewConciergeService(repo concierge.ConversationRepository, properties PropertyLookup, rooms RoomLister, model ChatModel, logger *zap.Logger) *ConciergeService {
	return &ConciergeService{repo: repo, properties: properties, rooms: rooms, model: model, logger: logger}
}

// Start opens a conversation and answers the first message when one is given
func (s *ConciergeService) Start(ctx context.Context, input StartConversationInput) (*ConversationDTO, error) {
	if input.PropertyID != nil {
		if _, err := s.properties.FindByIDForTenant(ctx, input.TenantID, *input.PropertyID); err != nil {
			return nil, err
		}
	}
	conv, err := concierge.NewConversation(input.TenantID, input.PropertyID, input.GuestName, input.GuestEmail, concierge.ConversationChannel(input.Channel))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, err
	}
	s.logger.Info("Concierge conversation started",
		zap.String("tenant_id", conv.TenantID.String()),
		zap.String("conversation_id", conv.ID.String()))

	if strings.TrimSpace(input.Message) != "" {
		if _, err := s.reply(ctx, conv, input.Message); err != nil {
			return nil, err
		}
	}
	dto := ToConversationDTO(conv, true)
	return &dto, nil
}

// SendMessage stores the guest's message and the assistant's reply
func (s *ConciergeService) SendMessage(ctx context.Context, tenantID, id uuid.UUID, content string) (*ReplyDTO, error) {
	conv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.reply(ctx, conv, content)
}

// PublicChat serves the marketing site: it continues the given conversation or starts one.
// Only web conversations can be continued anonymously; others read as not found.
func (s *ConciergeService) PublicChat(ctx context.Context, input PublicChatInput) (*ReplyDTO, error) {
	if input.ConversationID != nil {
		conv, err := s.repo.FindByIDForTenant(ctx, input.TenantID, *input.ConversationID)
		if err != nil {
			return nil, err
		}
		if conv.Channel != concierge.ChannelWeb {
			return nil, shared.ErrNotFound
		}
		return s.reply(ctx, conv, input.Message)
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, shared.NewValidationError("Message is required")
	}
	if input.PropertyID != nil {
		if _, err := s.properties.FindByIDForTenant(ctx, input.TenantID, *input.PropertyID); err != nil {
			return nil, err
		}
	}
	conv, err := concierge.NewConversation(input.TenantID, input.PropertyID, input.GuestName, input.GuestEmail, concierge.ChannelWeb)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, err
	}
	return s.reply(ctx, conv, input.Message)
}

func (s *ConciergeService) reply(ctx context.Context, conv *concierge.Conversation, content string) (_ *ReplyDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "concierge", "reply",
		telemetry.String(telemetry.AttrTenantID, conv.TenantID.String()))
	defer func() { telemetry.End(span, err) }()

	guestMsg, err := conv.AddMessage(concierge.RoleUser, content)
	if err != nil {
		return nil, err
	}
	guestCopy := *guestMsg

	facts := s.loadFacts(ctx, conv)
	text, source := s.generate(ctx, conv, facts, guestCopy.Content)

	answer, err := conv.AddMessage(concierge.RoleAssistant, text)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AppendMessages(ctx, conv, guestCopy, *answer); err != nil {
		return nil, err
	}
	return &ReplyDTO{ConversationID: conv.ID, Message: toChatMessageDTO(answer), Source: source}, nil
}

func (s *ConciergeService) generate(ctx context.Context, conv *concierge.Conversation, facts *propertyFacts, question string) (string, string) {
	if s.model == nil {
		return fallbackReply(facts, question), SourceFallback
	}
	history := conv.History(concierge.HistoryWindow)
	turns := make([]ai.Turn, 0, len(history))
	for _, m := range history {
		if m.Role == concierge.RoleSystem {
			continue
		}
		turns = append(turns, ai.Turn{FromGuest: m.Role == concierge.RoleUser, Text: m.Content})
	}
	text, err := s.model.Reply(ctx, systemPrompt(facts, conv.GuestName), turns)
	if err != nil {
		s.logger.Warn("Concierge model unavailable, using fallback",
			zap.String("conversation_id", conv.ID.String()),
			zap.Error(err))
		return fallbackReply(facts, question), SourceFallback
	}
	return text, SourceModel
}

// GetByID returns a conversation with its transcript
func (s *ConciergeService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ConversationDTO, error) {
	conv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToConversationDTO(conv, true)
	return &dto, nil
}

// List returns conversations matching the filter
func (s *ConciergeService) List(ctx context.Context, tenantID uuid.UUID, f ConversationListFilter) (shared.Paginated[ConversationDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Filters: map[string]any{
			"status":  f.Status,
			"channel": f.Channel,
		},
	}.Normalize()
	if f.PropertyID != nil {
		filter.Filters["property_id"] = *f.PropertyID
	}

	items, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[ConversationDTO]{}, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[ConversationDTO]{}, err
	}
	out := make([]ConversationDTO, len(items))
	for i := range items {
		out[i] = ToConversationDTO(&items[i], false)
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Close ends a conversation
func (s *ConciergeService) Close(ctx context.Context, tenantID, id uuid.UUID) (*ConversationDTO, error) {
	conv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := conv.Close(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, err
	}
	dto := ToConversationDTO(conv, false)
	return &dto, nil
}

type propertyFacts struct {
	property *property.Property
	rooms    []property.Room
}

func (s *ConciergeService) loadFacts(ctx context.Context, conv *concierge.Conversation) *propertyFacts {
	if conv.PropertyID == nil {
		return nil
	}
	p, err := s.properties.FindByIDForTenant(ctx, conv.TenantID, *conv.PropertyID)
	if err != nil {
		s.logger.Warn("Concierge property lookup failed", zap.Error(err))
		return nil
	}
	facts := &propertyFacts{property: p}
	if s.rooms != nil && p.Type.HasRooms() {
		filter := shared.Filter{Page: 1, PageSize: 50, OrderBy: "base_rate", OrderDir: "asc"}.Normalize()
		rooms, err := s.rooms.FindByProperty(ctx, conv.TenantID, p.ID, filter)
		if err == nil {
			facts.rooms = rooms
		}
	}
	return facts
}

func systemPrompt(facts *propertyFacts, guestName string) string {
	var b strings.Builder
	b.WriteString("You are a friendly hospitality concierge. Answer briefly and only with facts listed below; ")
	b.WriteString("if something is not listed, offer to connect the guest with the front desk. Never invent prices or availability.\n")
	if guestName != "" {
		fmt.Fprintf(&b, "The guest's name is %s.\n", guestName)
	}
	if facts == nil {
		return b.String()
	}
	p := facts.property
	fmt.Fprintf(&b, "\nVenue: %s (%s)\n", p.Name, p.Type)
	if p.Description != "" {
		fmt.Fprintf(&b, "About: %s\n", p.Description)
	}
	if addr := address(p); addr != "" {
		fmt.Fprintf(&b, "Address: %s\n", addr)
	}
	if p.CheckInTime != "" || p.CheckOutTime != "" {
		fmt.Fprintf(&b, "Check-in from %s, check-out until %s\n", orDash(p.CheckInTime), orDash(p.CheckOutTime))
	}
	if len(p.Amenities) > 0 {
		fmt.Fprintf(&b, "Amenities: %s\n", strings.Join(p.Amenities, ", "))
	}
	if p.Phone != "" || p.Email != "" {
		fmt.Fprintf(&b, "Contact: %s %s\n", p.Phone, p.Email)
	}
	for _, r := range facts.rooms {
		fmt.Fprintf(&b, "Room type %s for up to %d guests from %s %s per night\n", r.Type, r.Capacity, r.BaseRate.StringFixed(2), r.Currency)
	}
	return b.String()
}

// fallbackReply answers from property facts by keyword, so the same question always gets the same answer
func fallbackReply(facts *propertyFacts, question string) string {
	if facts == nil {
		return "Thank you for your message. Our team will get back to you shortly."
	}
	p := facts.property
	q := strings.ToLower(question)

	switch {
	case containsAny(q, "check-in", "check in", "checkin", "check-out", "check out", "checkout", "arrive", "arrival"):
		if p.CheckInTime != "" || p.CheckOutTime != "" {
			return fmt.Sprintf("At %s, check-in is from %s and check-out is until %s.", p.Name, orDash(p.CheckInTime), orDash(p.CheckOutTime))
		}
	case containsAny(q, "price", "rate", "cost", "how much", "room"):
		if len(facts.rooms) > 0 {
			lowest := facts.rooms[0]
			for _, r := range facts.rooms[1:] {
				if r.BaseRate.LessThan(lowest.BaseRate) {
					lowest = r
				}
			}
			return fmt.Sprintf("Rooms at %s start from %s %s per night. Tell us your dates and we will check availability.",
				p.Name, lowest.BaseRate.StringFixed(2), lowest.Currency)
		}
	case containsAny(q, "where", "address", "location", "directions", "find you"):
		if addr := address(p); addr != "" {
			return fmt.Sprintf("%s is located at %s.", p.Name, addr)
		}
	case containsAny(q, "wifi", "wi-fi", "amenit", "pool", "parking", "breakfast", "gym", "spa"):
		if len(p.Amenities) > 0 {
			return fmt.Sprintf("%s offers: %s.", p.Name, strings.Join(p.Amenities, ", "))
		}
	case containsAny(q, "phone", "call", "email", "contact"):
		if p.Phone != "" || p.Email != "" {
			return strings.TrimSpace(fmt.Sprintf("You can reach %s at %s %s", p.Name, p.Phone, p.Email)) + "."
		}
	}

	msg := fmt.Sprintf("Thank you for contacting %s.", p.Name)
	if p.Phone != "" {
		msg += " For anything urgent, please call " + p.Phone + "."
	}
	return msg + " Our team will get back to you shortly."
}

func address(p *property.Property) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Address, p.City, p.PostalCode, p.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

