package crm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockLeadRepo struct {
	mock.Mock
}

func (m *mockLeadRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*crm.Lead, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Lead), args.Error(1)
}

func (m *mockLeadRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Lead, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]crm.Lead), args.Error(1)
}

func (m *mockLeadRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLeadRepo) Pipeline(ctx context.Context, tenantID uuid.UUID) ([]crm.PipelineStage, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]crm.PipelineStage), args.Error(1)
}

func (m *mockLeadRepo) Save(ctx context.Context, lead *crm.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *mockLeadRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newLead(t *testing.T, tenantID uuid.UUID) *crm.Lead {
	t.Helper()
	l, err := crm.NewLead(tenantID, crm.Contact{Name: "Wedding party", Email: "events@example.com"}, crm.LeadSourceEmail)
	require.NoError(t, err)
	l.ClearDomainEvents()
	return l
}

func TestLeadService_CapturePublic(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(mockLeadRepo)
	repo.On("Save", ctx, mock.AnythingOfType("*crm.Lead")).Return(nil)
	events := &capturePublisher{}

	svc := NewLeadService(repo, nil, events, zap.NewNop())
	dto, err := svc.CapturePublic(ctx, tenantID, nil, "Jo Park", "JO@example.com", "", "Do you have <b>sea view</b> rooms?")
	require.NoError(t, err)

	assert.Equal(t, "website", dto.Source)
	assert.Equal(t, "new", dto.Status)
	assert.Equal(t, "jo@example.com", dto.Email)
	assert.NotContains(t, dto.Notes, "<b>")
	require.Len(t, events.events, 1)
	assert.Equal(t, crm.EventTypeLeadCreated, events.events[0].EventType())
}

func TestLeadService_Create_RequiresContact(t *testing.T) {
	svc := NewLeadService(new(mockLeadRepo), nil, nil, zap.NewNop())
	_, err := svc.Create(context.Background(), CreateLeadInput{TenantID: uuid.New(), Name: "No contact"})
	assert.Error(t, err)
}

func TestLeadService_Transition(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	lead := newLead(t, tenantID)

	repo := new(mockLeadRepo)
	repo.On("FindByIDForTenant", ctx, tenantID, lead.ID).Return(lead, nil)
	repo.On("Save", ctx, lead).Return(nil)
	svc := NewLeadService(repo, nil, nil, zap.NewNop())

	dto, err := svc.Transition(ctx, tenantID, lead.ID, "qualified")
	require.NoError(t, err)
	assert.Equal(t, "qualified", dto.Status)

	_, err = svc.Transition(ctx, tenantID, lead.ID, "contacted")
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_STATUS_TRANSITION", de.Code)

	_, err = svc.Transition(ctx, tenantID, lead.ID, "archived")
	assert.True(t, errors.Is(err, shared.NewValidationError("")))
}

func TestLeadService_MarkLostIsTerminal(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	lead := newLead(t, tenantID)

	repo := new(mockLeadRepo)
	repo.On("FindByIDForTenant", ctx, tenantID, lead.ID).Return(lead, nil)
	repo.On("Save", ctx, lead).Return(nil)
	svc := NewLeadService(repo, nil, nil, zap.NewNop())

	dto, err := svc.MarkLost(ctx, tenantID, lead.ID, "Chose another venue")
	require.NoError(t, err)
	assert.Equal(t, "lost", dto.Status)
	assert.NotNil(t, dto.ClosedAt)

	_, err = svc.MarkWon(ctx, tenantID, lead.ID, nil)
	assert.Error(t, err)
	_, err = svc.Assign(ctx, tenantID, lead.ID, nil)
	assert.Error(t, err)
}

func TestLeadService_Pipeline(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(mockLeadRepo)
	repo.On("Pipeline", ctx, tenantID).Return([]crm.PipelineStage{
		{Status: crm.LeadStatusNew, Count: 4, Value: decimal.NewFromInt(4000)},
		{Status: crm.LeadStatusProposal, Count: 1, Value: decimal.NewFromInt(2500)},
		{Status: crm.LeadStatusWon, Count: 3, Value: decimal.NewFromInt(9000)},
		{Status: crm.LeadStatusLost, Count: 1, Value: decimal.NewFromInt(100)},
	}, nil)

	svc := NewLeadService(repo, nil, nil, zap.NewNop())
	p, err := svc.Pipeline(ctx, tenantID)
	require.NoError(t, err)

	require.Len(t, p.Stages, 6)
	assert.Equal(t, "new", p.Stages[0].Status)
	assert.Equal(t, "contacted", p.Stages[1].Status)
	assert.Equal(t, int64(0), p.Stages[1].Count)
	assert.Equal(t, int64(9), p.TotalCount)
	assert.True(t, decimal.NewFromInt(6500).Equal(p.OpenValue))
	assert.Equal(t, "0.75", p.WinRate.String())
}
