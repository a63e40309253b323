package staff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/domain/staff"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStaffRepo struct {
	mock.Mock
}

func (m *mockStaffRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*staff.StaffMember, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.StaffMember), args.Error(1)
}

func (m *mockStaffRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]staff.StaffMember, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]staff.StaffMember), args.Error(1)
}

func (m *mockStaffRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStaffRepo) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockStaffRepo) Save(ctx context.Context, member *staff.StaffMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *mockStaffRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type stubProperties map[uuid.UUID]*property.Property

func (s stubProperties) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*property.Property, error) {
	p, ok := s[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func newMember(t *testing.T, tenantID uuid.UUID) *staff.StaffMember {
	t.Helper()
	m, err := staff.NewStaffMember(tenantID, "fd-001", "Maria", "Lopez", staff.DepartmentFrontOffice, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	m.ClearDomainEvents()
	return m
}

func TestStaffService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	hotel, err := property.NewProperty(tenantID, "HARBOUR", "Harbour View", property.PropertyTypeHotel)
	require.NoError(t, err)

	repo := new(mockStaffRepo)
	repo.On("ExistsByCode", ctx, tenantID, "FD-002").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*staff.StaffMember")).Return(nil)

	svc := NewStaffService(repo, stubProperties{hotel.ID: hotel}, nil, zap.NewNop())
	dto, err := svc.Create(ctx, CreateStaffInput{
		TenantID:       tenantID,
		EmployeeCode:   "fd-002",
		FirstName:      "Tomás",
		LastName:       "Ferreira",
		Email:          "Tomas@Example.com",
		Phone:          "+351 912 345 678",
		Position:       "Night auditor",
		Department:     "front_office",
		EmploymentType: "part_time",
		HourlyRate:     decimal.RequireFromString("14.505"),
		PropertyID:     &hotel.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "FD-002", dto.EmployeeCode)
	assert.Equal(t, "Tomás Ferreira", dto.FullName)
	assert.Equal(t, "tomas@example.com", dto.Email)
	assert.Equal(t, "part_time", dto.EmploymentType)
	assert.Equal(t, "active", dto.Status)
	assert.Equal(t, &hotel.ID, dto.PropertyID)
	assert.True(t, decimal.RequireFromString("14.51").Equal(dto.HourlyRate))
	repo.AssertExpectations(t)
}

func TestStaffService_Create_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(mockStaffRepo)
	repo.On("ExistsByCode", ctx, tenantID, "FD-001").Return(true, nil)

	svc := NewStaffService(repo, stubProperties{}, nil, zap.NewNop())
	_, err := svc.Create(ctx, CreateStaffInput{
		TenantID:     tenantID,
		EmployeeCode: "FD-001",
		FirstName:    "Maria",
		LastName:     "Lopez",
		Department:   "front_office",
	})
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestStaffService_AssignToUnknownProperty(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	member := newMember(t, tenantID)

	repo := new(mockStaffRepo)
	repo.On("FindByIDForTenant", ctx, tenantID, member.ID).Return(member, nil)

	svc := NewStaffService(repo, stubProperties{}, nil, zap.NewNop())
	other := uuid.New()
	_, err := svc.AssignToProperty(ctx, tenantID, member.ID, &other)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.Nil(t, member.PropertyID)
}

func TestStaffService_TerminatedCannotReactivate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	member := newMember(t, tenantID)

	repo := new(mockStaffRepo)
	repo.On("FindByIDForTenant", ctx, tenantID, member.ID).Return(member, nil)
	repo.On("Save", ctx, member).Return(nil)

	svc := NewStaffService(repo, stubProperties{}, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC) }

	dto, err := svc.Terminate(ctx, tenantID, member.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "terminated", dto.Status)
	require.NotNil(t, dto.TerminatedAt)

	_, err = svc.Reactivate(ctx, tenantID, member.ID)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_STATE", de.Code)
}

func TestStaffService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	propertyID := uuid.New()
	member := newMember(t, tenantID)

	repo := new(mockStaffRepo)
	repo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["department"] == "front_office" && f.Filters["property_id"] == propertyID && f.PageSize == 20
	})).Return([]staff.StaffMember{*member}, nil)
	repo.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(1), nil)

	svc := NewStaffService(repo, stubProperties{}, nil, zap.NewNop())
	page, err := svc.List(ctx, tenantID, StaffListFilter{Department: "front_office", PropertyID: &propertyID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Maria Lopez", page.Items[0].FullName)
	assert.Equal(t, int64(1), page.Total)
}
