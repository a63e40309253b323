package property

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPropertyRepo struct {
	mock.Mock
}

func (m *mockPropertyRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *mockPropertyRepo) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*property.Property, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *mockPropertyRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]property.Property, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]property.Property), args.Error(1)
}

func (m *mockPropertyRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPropertyRepo) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockPropertyRepo) Save(ctx context.Context, p *property.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type mockRoomRepo struct {
	mock.Mock
}

func (m *mockRoomRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.Room, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Room), args.Error(1)
}

func (m *mockRoomRepo) FindByProperty(ctx context.Context, tenantID, propertyID uuid.UUID, filter shared.Filter) ([]property.Room, error) {
	args := m.Called(ctx, tenantID, propertyID, filter)
	return args.Get(0).([]property.Room), args.Error(1)
}

func (m *mockRoomRepo) CountByProperty(ctx context.Context, tenantID, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRoomRepo) ExistsByNumber(ctx context.Context, tenantID, propertyID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, tenantID, propertyID, number)
	return args.Bool(0), args.Error(1)
}

func (m *mockRoomRepo) FindAvailable(ctx context.Context, tenantID, propertyID uuid.UUID, checkIn, checkOut time.Time, guests int) ([]property.Room, error) {
	args := m.Called(ctx, tenantID, propertyID, checkIn, checkOut, guests)
	return args.Get(0).([]property.Room), args.Error(1)
}

func (m *mockRoomRepo) Save(ctx context.Context, r *property.Room) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRoomRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type stubTenants struct {
	tenant *identity.Tenant
}

func (s stubTenants) FindByID(context.Context, uuid.UUID) (*identity.Tenant, error) {
	return s.tenant, nil
}

type stubBookings struct {
	active int64
}

func (s stubBookings) CountActiveByProperty(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return s.active, nil
}

func newTenant(t *testing.T, plan identity.TenantPlan) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant("SEASIDE", "Seaside Hotels", "")
	require.NoError(t, err)
	require.NoError(t, tenant.SetPlan(plan))
	return tenant
}

func newHotel(t *testing.T, tenantID uuid.UUID) *property.Property {
	t.Helper()
	p, err := property.NewProperty(tenantID, "HARBOUR", "Harbour View Hotel", property.PropertyTypeHotel)
	require.NoError(t, err)
	return p
}

func TestPropertyService_Create(t *testing.T) {
	tenant := newTenant(t, identity.TenantPlanPro)
	repo := new(mockPropertyRepo)
	svc := NewPropertyService(repo, stubTenants{tenant}, stubBookings{}, nil, nil, zap.NewNop())

	repo.On("CountForTenant", mock.Anything, tenant.ID, shared.Filter{}).Return(int64(2), nil)
	repo.On("ExistsByCode", mock.Anything, tenant.ID, "harbour").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*property.Property")).Return(nil)

	dto, err := svc.Create(context.Background(), CreatePropertyInput{
		TenantID:   tenant.ID,
		Code:       "harbour",
		Name:       "Harbour View Hotel",
		Type:       "hotel",
		City:       "Lisbon",
		StarRating: 4,
		Amenities:  []string{"Pool", "wifi", "pool"},
		Email:      "Stay@Harbour.example",
	})
	require.NoError(t, err)

	assert.Equal(t, "HARBOUR", dto.Code)
	assert.Equal(t, "harbour-view-hotel", dto.Slug)
	assert.Equal(t, "draft", dto.Status)
	assert.Equal(t, []string{"pool", "wifi"}, dto.Amenities)
	assert.Equal(t, "14:00", dto.CheckInTime)
	assert.Equal(t, "stay@harbour.example", dto.Email)
	repo.AssertExpectations(t)
}

func TestPropertyService_Create_PlanLimit(t *testing.T) {
	tenant := newTenant(t, identity.TenantPlanFree)
	repo := new(mockPropertyRepo)
	svc := NewPropertyService(repo, stubTenants{tenant}, stubBookings{}, nil, nil, zap.NewNop())
	repo.On("CountForTenant", mock.Anything, tenant.ID, shared.Filter{}).Return(int64(1), nil)

	_, err := svc.Create(context.Background(), CreatePropertyInput{TenantID: tenant.ID, Code: "B", Name: "Bistro", Type: "restaurant"})
	require.Error(t, err)
	assert.Equal(t, "PLAN_LIMIT_REACHED", err.(*shared.DomainError).Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPropertyService_Create_SeatingOnHotelRejected(t *testing.T) {
	tenant := newTenant(t, identity.TenantPlanPro)
	repo := new(mockPropertyRepo)
	svc := NewPropertyService(repo, stubTenants{tenant}, stubBookings{}, nil, nil, zap.NewNop())
	repo.On("CountForTenant", mock.Anything, tenant.ID, shared.Filter{}).Return(int64(0), nil)
	repo.On("ExistsByCode", mock.Anything, tenant.ID, "H1").Return(false, nil)

	_, err := svc.Create(context.Background(), CreatePropertyInput{
		TenantID: tenant.ID, Code: "H1", Name: "Hotel One", Type: "hotel", SeatingCapacity: 40,
	})
	assert.ErrorIs(t, err, shared.NewValidationError(""))
}

func TestPropertyService_DeleteWithActiveBookings(t *testing.T) {
	tenantID := uuid.New()
	p := newHotel(t, tenantID)
	repo := new(mockPropertyRepo)
	svc := NewPropertyService(repo, nil, stubBookings{active: 3}, nil, nil, zap.NewNop())
	repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)

	err := svc.Delete(context.Background(), tenantID, p.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestPropertyService_UploadCover(t *testing.T) {
	tenantID := uuid.New()
	p := newHotel(t, tenantID)
	p.CoverImageKey = "old/cover.jpg"
	objects := storage.NewMemoryObjectStorage("https://cdn.example")
	require.NoError(t, objects.Upload(context.Background(), "old/cover.jpg", strings.NewReader("x"), 1, "image/jpeg"))

	repo := new(mockPropertyRepo)
	svc := NewPropertyService(repo, nil, nil, objects, nil, zap.NewNop())
	repo.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
	repo.On("Save", mock.Anything, p).Return(nil)

	photo := []byte("\x89PNG fake")
	dto, err := svc.UploadCover(context.Background(), tenantID, p.ID,
		CoverUpload{FileName: "front.png", ContentType: "image/png", Size: int64(len(photo))}, bytes.NewReader(photo))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dto.CoverImageKey, "tenants/"+tenantID.String()+"/properties/"+p.ID.String()+"/cover-"))
	assert.True(t, strings.HasSuffix(dto.CoverImageKey, ".png"))
	assert.Equal(t, "https://cdn.example/"+dto.CoverImageKey, dto.CoverImageURL)

	stored, contentType, ok := objects.Get(dto.CoverImageKey)
	require.True(t, ok)
	assert.Equal(t, photo, stored)
	assert.Equal(t, "image/png", contentType)

	_, _, ok = objects.Get("old/cover.jpg")
	assert.False(t, ok, "previous cover should be removed")
}

func TestPropertyService_UploadCover_RejectsType(t *testing.T) {
	svc := NewPropertyService(new(mockPropertyRepo), nil, nil, storage.NewMemoryObjectStorage(""), nil, zap.NewNop())
	_, err := svc.UploadCover(context.Background(), uuid.New(), uuid.New(),
		CoverUpload{FileName: "x.gif", ContentType: "image/gif", Size: 10}, strings.NewReader("gif"))
	assert.ErrorIs(t, err, shared.NewValidationError(""))
}

func TestPropertyService_GetPublishedHidesDrafts(t *testing.T) {
	tenantID := uuid.New()
	p := newHotel(t, tenantID)
	repo := new(mockPropertyRepo)
	svc := NewPropertyService(repo, nil, nil, nil, nil, zap.NewNop())
	repo.On("FindBySlug", mock.Anything, tenantID, p.Slug).Return(p, nil)

	_, err := svc.GetPublished(context.Background(), tenantID, p.Slug)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, p.Activate())
	dto, err := svc.GetPublished(context.Background(), tenantID, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, "active", dto.Status)
}

func TestRoomService_Create(t *testing.T) {
	tenantID := uuid.New()
	p := newHotel(t, tenantID)
	props := new(mockPropertyRepo)
	rooms := new(mockRoomRepo)
	svc := NewRoomService(rooms, props, zap.NewNop())

	props.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
	props.On("Save", mock.Anything, p).Return(nil)
	rooms.On("ExistsByNumber", mock.Anything, tenantID, p.ID, "101").Return(false, nil)
	rooms.On("Save", mock.Anything, mock.AnythingOfType("*property.Room")).Return(nil)
	rooms.On("CountByProperty", mock.Anything, tenantID, p.ID).Return(int64(7), nil)

	dto, err := svc.Create(context.Background(), CreateRoomInput{
		TenantID: tenantID, PropertyID: p.ID, Number: "101", Type: "double",
		Capacity: 2, BaseRate: decimal.RequireFromString("129.999"), Currency: "eur", Floor: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "130", dto.BaseRate.String())
	assert.Equal(t, "EUR", dto.Currency)
	assert.Equal(t, 1, dto.Floor)
	assert.Equal(t, 7, p.TotalRooms)
}

func TestRoomService_Create_DuplicateNumber(t *testing.T) {
	tenantID := uuid.New()
	p := newHotel(t, tenantID)
	props := new(mockPropertyRepo)
	rooms := new(mockRoomRepo)
	svc := NewRoomService(rooms, props, zap.NewNop())
	props.On("FindByIDForTenant", mock.Anything, tenantID, p.ID).Return(p, nil)
	rooms.On("ExistsByNumber", mock.Anything, tenantID, p.ID, "101").Return(true, nil)

	_, err := svc.Create(context.Background(), CreateRoomInput{TenantID: tenantID, PropertyID: p.ID, Number: "101", Type: "double", Capacity: 2})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestRoomService_SetStatus(t *testing.T) {
	tenantID := uuid.New()
	p := newHotel(t, tenantID)
	room, err := property.NewRoom(p, "12", property.RoomTypeSingle, 1, decimal.NewFromInt(80), "USD")
	require.NoError(t, err)

	rooms := new(mockRoomRepo)
	svc := NewRoomService(rooms, new(mockPropertyRepo), zap.NewNop())
	rooms.On("FindByIDForTenant", mock.Anything, tenantID, room.ID).Return(room, nil)
	rooms.On("Save", mock.Anything, room).Return(nil)

	dto, err := svc.SetStatus(context.Background(), tenantID, room.ID, "maintenance")
	require.NoError(t, err)
	assert.Equal(t, "maintenance", dto.Status)

	_, err = svc.SetStatus(context.Background(), tenantID, room.ID, "flooded")
	require.Error(t, err)
}
