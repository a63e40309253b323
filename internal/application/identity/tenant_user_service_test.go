package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTenantService_Create(t *testing.T) {
	repo := new(MockTenantRepository)
	svc := NewTenantService(repo, nil, zap.NewNop())

	repo.On("ExistsByCode", mock.Anything, "seaside").Return(false, nil)
	repo.On("ExistsBySlug", mock.Anything, "seaside-hotels").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.Tenant")).Return(nil)

	dto, err := svc.Create(context.Background(), CreateTenantInput{
		Code:         "seaside",
		Name:         "Seaside Hotels",
		Plan:         "pro",
		Currency:     "eur",
		ContactEmail: "Owner@Seaside.example",
	})
	require.NoError(t, err)

	assert.Equal(t, "SEASIDE", dto.Code)
	assert.Equal(t, "seaside-hotels", dto.Slug)
	assert.Equal(t, "pro", dto.Plan)
	assert.Equal(t, "EUR", dto.Currency)
	assert.Equal(t, "owner@seaside.example", dto.ContactEmail)
	repo.AssertExpectations(t)
}

func TestTenantService_Create_DuplicateCode(t *testing.T) {
	repo := new(MockTenantRepository)
	svc := NewTenantService(repo, nil, zap.NewNop())
	repo.On("ExistsByCode", mock.Anything, "SEASIDE").Return(true, nil)

	_, err := svc.Create(context.Background(), CreateTenantInput{Code: "SEASIDE", Name: "Seaside"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTenantService_DeleteRequiresInactive(t *testing.T) {
	repo := new(MockTenantRepository)
	svc := NewTenantService(repo, nil, zap.NewNop())
	tenant, err := identity.NewTenant("SEASIDE", "Seaside", "")
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

	err = svc.Delete(context.Background(), tenant.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	repo.On("Save", mock.Anything, tenant).Return(nil)
	_, err = svc.Deactivate(context.Background(), tenant.ID)
	require.NoError(t, err)

	repo.On("Delete", mock.Anything, tenant.ID).Return(nil)
	require.NoError(t, svc.Delete(context.Background(), tenant.ID))
}

func TestTenantService_Stats(t *testing.T) {
	repo := new(MockTenantRepository)
	svc := NewTenantService(repo, nil, zap.NewNop())
	repo.On("CountByStatus", mock.Anything, identity.TenantStatusActive).Return(int64(4), nil)
	repo.On("CountByStatus", mock.Anything, identity.TenantStatusTrial).Return(int64(2), nil)
	repo.On("CountByStatus", mock.Anything, identity.TenantStatusInactive).Return(int64(1), nil)
	repo.On("CountByStatus", mock.Anything, identity.TenantStatusSuspended).Return(int64(0), nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &TenantStatsDTO{Total: 7, Active: 4, Trial: 2, Inactive: 1}, stats)
}

func TestTenantService_ListPassesFilters(t *testing.T) {
	repo := new(MockTenantRepository)
	svc := NewTenantService(repo, nil, zap.NewNop())

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 100 && f.Filters["plan"] == "pro" && f.Search == "sea"
	})
	repo.On("FindAll", mock.Anything, matchFilter).Return([]identity.Tenant{}, nil)
	repo.On("Count", mock.Anything, matchFilter).Return(int64(101), nil)

	page, err := svc.List(context.Background(), TenantListFilter{Search: "sea", Plan: "pro", Page: 2, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
}

func TestUserService_Create_DefaultsToViewer(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil, nil, zap.NewNop())
	tenantID := uuid.New()

	repo.On("ExistsByUsername", mock.Anything, tenantID, "maria").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	dto, err := svc.Create(context.Background(), CreateUserInput{
		TenantID: tenantID, Username: "maria", Password: testPassword, Email: "maria@seaside.example",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer"}, dto.Roles)
	assert.Equal(t, "active", dto.Status)
	assert.Equal(t, "maria", dto.DisplayName)
}

func TestUserService_Create_Rejections(t *testing.T) {
	tenantID := uuid.New()
	tests := []struct {
		name  string
		input CreateUserInput
		code  string
	}{
		{"super admin", CreateUserInput{TenantID: tenantID, Username: "root", Password: testPassword, Roles: []string{"super_admin"}}, "FORBIDDEN"},
		{"unknown role", CreateUserInput{TenantID: tenantID, Username: "root", Password: testPassword, Roles: []string{"janitor"}}, "INVALID_ROLE"},
		{"short password", CreateUserInput{TenantID: tenantID, Username: "root", Password: "abc1"}, "INVALID_PASSWORD"},
		{"bad email", CreateUserInput{TenantID: tenantID, Username: "root", Password: testPassword, Email: "nope"}, "INVALID_EMAIL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			svc := NewUserService(repo, nil, nil, zap.NewNop())
			repo.On("ExistsByUsername", mock.Anything, tenantID, "root").Return(false, nil)

			_, err := svc.Create(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.code, errorCode(err))
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestUserService_Create_DuplicateUsername(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil, nil, zap.NewNop())
	tenantID := uuid.New()
	repo.On("ExistsByUsername", mock.Anything, tenantID, "maria").Return(true, nil)

	_, err := svc.Create(context.Background(), CreateUserInput{TenantID: tenantID, Username: "maria", Password: testPassword})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestUserService_SetRolesRevokesTokens(t *testing.T) {
	repo := new(MockUserRepository)
	revoker := new(mockRevoker)
	svc := NewUserService(repo, revoker, nil, zap.NewNop())
	user := newTestUser(t)

	repo.On("FindByIDForTenant", mock.Anything, user.TenantID, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)
	revoker.On("RevokeUserTokens", mock.Anything, user.ID).Return(nil)

	dto, err := svc.SetRoles(context.Background(), user.TenantID, user.ID, []string{"sales", "content_editor"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sales", "content_editor"}, dto.Roles)
	revoker.AssertExpectations(t)
}

func TestUserService_CannotDeactivateSelf(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil, nil, zap.NewNop())
	id := uuid.New()

	_, err := svc.Deactivate(context.Background(), uuid.New(), id, id)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	err = svc.Delete(context.Background(), uuid.New(), id, id)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoleService(t *testing.T) {
	svc := NewRoleService()

	roles := svc.ListRoles()
	require.Len(t, roles, 8)
	assert.Equal(t, "super_admin", roles[0].Name)
	assert.Equal(t, []string{"*:*"}, roles[0].Permissions)

	assert.Contains(t, svc.ListPermissions(), "booking:manage")
	assert.Equal(t, []string{"cms:manage", "media:manage", "property:read"}, svc.Effective([]string{"content_editor"}))
}
