package concierge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/concierge"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/ai"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memConversations struct {
	items    map[uuid.UUID]*concierge.Conversation
	appended int
}

func (r *memConversations) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*concierge.Conversation, error) {
	c, ok := r.items[id]
	if !ok || c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *memConversations) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]concierge.Conversation, error) {
	var out []concierge.Conversation
	for _, c := range r.items {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memConversations) CountForTenant(ctx context.Context, tenantID uuid.UUID, f shared.Filter) (int64, error) {
	items, _ := r.FindAllForTenant(ctx, tenantID, f)
	return int64(len(items)), nil
}

func (r *memConversations) Save(_ context.Context, c *concierge.Conversation) error {
	r.items[c.ID] = c
	return nil
}

func (r *memConversations) AppendMessages(_ context.Context, c *concierge.Conversation, messages ...concierge.ChatMessage) error {
	r.appended += len(messages)
	r.items[c.ID] = c
	return nil
}

type stubProperties map[uuid.UUID]*property.Property

func (s stubProperties) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*property.Property, error) {
	p, ok := s[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

type stubRooms []property.Room

func (s stubRooms) FindByProperty(context.Context, uuid.UUID, uuid.UUID, shared.Filter) ([]property.Room, error) {
	return s, nil
}

type scriptedModel struct {
	prompts []string
	turns   [][]ai.Turn
	err     error
}

func (m *scriptedModel) Reply(_ context.Context, prompt string, history []ai.Turn) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.prompts = append(m.prompts, prompt)
	m.turns = append(m.turns, history)
	return "Happy to help!", nil
}

type fixture struct {
	repo     *memConversations
	tenantID uuid.UUID
	hotel    *property.Property
	props    stubProperties
	rooms    stubRooms
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tenantID := uuid.New()
	hotel, err := property.NewProperty(tenantID, "LIS", "Casa Azul", property.PropertyTypeHotel)
	require.NoError(t, err)
	hotel.CheckInTime = "15:00"
	hotel.CheckOutTime = "11:00"
	hotel.Address = "Rua Augusta 10"
	hotel.City = "Lisbon"
	hotel.Amenities = []string{"wifi", "breakfast"}

	suite, err := property.NewRoom(hotel, "301", property.RoomTypeSuite, 3, decimal.NewFromInt(210), "EUR")
	require.NoError(t, err)
	double, err := property.NewRoom(hotel, "101", property.RoomTypeDouble, 2, decimal.NewFromInt(95), "EUR")
	require.NoError(t, err)

	return &fixture{
		repo:     &memConversations{items: map[uuid.UUID]*concierge.Conversation{}},
		tenantID: tenantID,
		hotel:    hotel,
		props:    stubProperties{hotel.ID: hotel},
		rooms:    stubRooms{*suite, *double},
	}
}

func (f *fixture) service(model ChatModel) *ConciergeService {
	return NewConciergeService(f.repo, f.props, f.rooms, model, zap.NewNop())
}

func TestStart_FallbackAnswersFromPropertyFacts(t *testing.T) {
	f := newFixture(t)
	svc := f.service(nil)

	conv, err := svc.Start(context.Background(), StartConversationInput{
		TenantID:   f.tenantID,
		PropertyID: &f.hotel.ID,
		GuestName:  "Ana",
		Message:    "What time is check-in?",
	})
	require.NoError(t, err)

	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "user", conv.Messages[0].Role)
	assert.Equal(t, "assistant", conv.Messages[1].Role)
	assert.Equal(t, "At Casa Azul, check-in is from 15:00 and check-out is until 11:00.", conv.Messages[1].Content)
	assert.Equal(t, 2, f.repo.appended)
}

func TestFallbackReply(t *testing.T) {
	f := newFixture(t)
	facts := &propertyFacts{property: f.hotel, rooms: f.rooms}

	tests := []struct {
		question string
		want     string
	}{
		{"How much is a room?", "Rooms at Casa Azul start from 95.00 EUR per night. Tell us your dates and we will check availability."},
		{"Where are you?", "Casa Azul is located at Rua Augusta 10, Lisbon."},
		{"Do you have WiFi?", "Casa Azul offers: wifi, breakfast."},
		{"Can I bring my dog?", "Thank you for contacting Casa Azul. Our team will get back to you shortly."},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, fallbackReply(facts, tt.question))
			assert.Equal(t, fallbackReply(facts, tt.question), fallbackReply(facts, tt.question))
		})
	}
	assert.Contains(t, fallbackReply(nil, "hello"), "Our team will get back to you")
}

func TestSendMessage_ModelSeesRecentHistoryAndFacts(t *testing.T) {
	f := newFixture(t)
	model := &scriptedModel{}
	svc := f.service(model)
	ctx := context.Background()

	conv, err := svc.Start(ctx, StartConversationInput{TenantID: f.tenantID, PropertyID: &f.hotel.ID})
	require.NoError(t, err)

	var reply *ReplyDTO
	for i := 0; i < 12; i++ {
		reply, err = svc.SendMessage(ctx, f.tenantID, conv.ID, "question "+string(rune('a'+i)))
		require.NoError(t, err)
	}
	assert.Equal(t, SourceModel, reply.Source)
	assert.Equal(t, "Happy to help!", reply.Message.Content)

	last := model.turns[len(model.turns)-1]
	assert.Len(t, last, concierge.HistoryWindow)
	assert.True(t, last[len(last)-1].FromGuest)
	assert.Equal(t, "question l", last[len(last)-1].Text)

	prompt := model.prompts[0]
	assert.Contains(t, prompt, "Venue: Casa Azul (hotel)")
	assert.Contains(t, prompt, "from 95.00 EUR per night")
}

func TestSendMessage_ModelErrorFallsBack(t *testing.T) {
	f := newFixture(t)
	svc := f.service(&scriptedModel{err: errors.New("quota exceeded")})

	reply, err := svc.PublicChat(context.Background(), PublicChatInput{
		TenantID:   f.tenantID,
		PropertyID: &f.hotel.ID,
		Message:    "where is the hotel",
	})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, reply.Source)
	assert.Contains(t, reply.Message.Content, "Rua Augusta 10")
}

func TestSendMessage_TruncatesAndRejectsClosed(t *testing.T) {
	f := newFixture(t)
	svc := f.service(nil)
	ctx := context.Background()

	conv, err := svc.Start(ctx, StartConversationInput{TenantID: f.tenantID})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, f.tenantID, conv.ID, strings.Repeat("x", 2500))
	require.NoError(t, err)
	got, err := svc.GetByID(ctx, f.tenantID, conv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages[0].Content, concierge.MaxContentLength)

	_, err = svc.Close(ctx, f.tenantID, conv.ID)
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, f.tenantID, conv.ID, "hello?")
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_STATE", de.Code)
}

func TestPublicChat_UnknownProperty(t *testing.T) {
	f := newFixture(t)
	svc := f.service(nil)
	missing := uuid.New()

	_, err := svc.PublicChat(context.Background(), PublicChatInput{TenantID: f.tenantID, PropertyID: &missing, Message: "hi"})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.PublicChat(context.Background(), PublicChatInput{TenantID: f.tenantID, Message: "  "})
	assert.Error(t, err)
}

func TestPublicChat_ContinuesWebConversationsOnly(t *testing.T) {
	f := newFixture(t)
	svc := f.service(nil)
	ctx := context.Background()

	first, err := svc.PublicChat(ctx, PublicChatInput{TenantID: f.tenantID, PropertyID: &f.hotel.ID, Message: "hello"})
	require.NoError(t, err)
	next, err := svc.PublicChat(ctx, PublicChatInput{TenantID: f.tenantID, ConversationID: &first.ConversationID, Message: "what time is check-in?"})
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, next.ConversationID)

	whatsapp, err := svc.Start(ctx, StartConversationInput{TenantID: f.tenantID, Channel: "whatsapp", Message: "my booking"})
	require.NoError(t, err)
	_, err = svc.PublicChat(ctx, PublicChatInput{TenantID: f.tenantID, ConversationID: &whatsapp.ID, Message: "hijack"})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := svc.GetByID(ctx, f.tenantID, whatsapp.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)

	other := uuid.New()
	_, err = svc.PublicChat(ctx, PublicChatInput{TenantID: other, ConversationID: &first.ConversationID, Message: "hi"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
