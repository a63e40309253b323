package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/auth"
	"github.com/hospitality/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "Harbour2024"

type authFixture struct {
	users     *MockUserRepository
	tenants   *MockTenantRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	svc       *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:     new(MockUserRepository),
		tenants:   new(MockTenantRepository),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "hms-test",
		}),
	}
	f.svc = NewAuthService(f.users, f.tenants, f.jwt, f.blacklist, DefaultAuthServiceConfig(), zap.NewNop())
	return f
}

func newTestUser(t *testing.T, roles ...identity.RoleName) *identity.User {
	t.Helper()
	user, err := identity.NewActiveUser(uuid.New(), "frontdesk", testPassword)
	require.NoError(t, err)
	if len(roles) == 0 {
		roles = []identity.RoleName{identity.RoleFrontDesk}
	}
	require.NoError(t, user.SetRoles(roles))
	return user
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t)
	f.users.On("FindByUsername", mock.Anything, uuid.Nil, "frontdesk").Return(user, nil)
	f.users.On("Save", mock.Anything, user).Return(nil)

	result, err := f.svc.Login(context.Background(), LoginInput{Username: "frontdesk", Password: testPassword, IP: "10.0.0.7"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Contains(t, result.User.Permissions, "booking:manage")
	assert.Equal(t, "10.0.0.7", user.LastLoginIP)

	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"front_desk"}, claims.Roles)
	assert.Equal(t, user.TenantID.String(), claims.TenantID)
	f.users.AssertExpectations(t)
}

func TestAuthService_Login_WithTenantCode(t *testing.T) {
	f := newAuthFixture()
	tenant, err := identity.NewTenant("SEASIDE", "Seaside Hotels", "")
	require.NoError(t, err)
	user := newTestUser(t)
	user.TenantID = tenant.ID

	f.tenants.On("FindByCode", mock.Anything, "seaside").Return(tenant, nil)
	f.users.On("FindByUsername", mock.Anything, tenant.ID, "frontdesk").Return(user, nil)
	f.users.On("Save", mock.Anything, user).Return(nil)

	_, err = f.svc.Login(context.Background(), LoginInput{TenantCode: "seaside", Username: "frontdesk", Password: testPassword})
	require.NoError(t, err)
	f.tenants.AssertExpectations(t)
}

func TestAuthService_Login_SuspendedTenant(t *testing.T) {
	f := newAuthFixture()
	tenant, err := identity.NewTenant("SEASIDE", "Seaside Hotels", "")
	require.NoError(t, err)
	require.NoError(t, tenant.Suspend())
	f.tenants.On("FindByCode", mock.Anything, "SEASIDE").Return(tenant, nil)

	_, err = f.svc.Login(context.Background(), LoginInput{TenantCode: "SEASIDE", Username: "frontdesk", Password: testPassword})
	require.Error(t, err)
	assert.Equal(t, "TENANT_INACTIVE", errorCode(err))
	f.users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	f := newAuthFixture()
	f.users.On("FindByUsername", mock.Anything, uuid.Nil, "ghost").Return(nil, shared.ErrNotFound)

	_, err := f.svc.Login(context.Background(), LoginInput{Username: "ghost", Password: testPassword})
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(err))
}

func TestAuthService_Login_LocksAfterMaxAttempts(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t)
	f.users.On("FindByUsername", mock.Anything, uuid.Nil, "frontdesk").Return(user, nil)
	f.users.On("Save", mock.Anything, user).Return(nil)

	for i := 1; i < 5; i++ {
		_, err := f.svc.Login(context.Background(), LoginInput{Username: "frontdesk", Password: "wrong-pass1"})
		require.Error(t, err)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(err), "attempt %d", i)
	}

	_, err := f.svc.Login(context.Background(), LoginInput{Username: "frontdesk", Password: "wrong-pass1"})
	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_LOCKED", errorCode(err))
	require.NotNil(t, user.LockedUntil)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *user.LockedUntil, 5*time.Second)

	// Even the right password is refused while locked.
	_, err = f.svc.Login(context.Background(), LoginInput{Username: "frontdesk", Password: testPassword})
	assert.Equal(t, "ACCOUNT_LOCKED", errorCode(err))
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t)
	require.NoError(t, user.Deactivate())
	f.users.On("FindByUsername", mock.Anything, uuid.Nil, "frontdesk").Return(user, nil)

	_, err := f.svc.Login(context.Background(), LoginInput{Username: "frontdesk", Password: testPassword})
	assert.Equal(t, "ACCOUNT_DEACTIVATED", errorCode(err))
}

func TestAuthService_RefreshToken_Rotates(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t)
	pair, err := f.jwt.GenerateTokenPair(auth.GenerateTokenInput{TenantID: user.TenantID, UserID: user.ID, Username: user.Username})
	require.NoError(t, err)

	require.NoError(t, user.SetRoles([]identity.RoleName{identity.RoleAccountant}))
	f.users.On("FindByIDForTenant", mock.Anything, user.TenantID, user.ID).Return(user, nil)

	result, err := f.svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)

	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"accountant"}, claims.Roles)

	_, err = f.svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: pair.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, "TOKEN_REVOKED", errorCode(err))
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture()
	pair, err := f.jwt.GenerateTokenPair(auth.GenerateTokenInput{TenantID: uuid.New(), UserID: uuid.New(), Username: "x"})
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: pair.AccessToken})
	assert.Equal(t, "TOKEN_INVALID", errorCode(err))
}

func TestAuthService_Logout_BlacklistsToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	err := f.svc.Logout(ctx, LogoutInput{UserID: uuid.New(), TenantID: uuid.New(), TokenJTI: "jti-123", TokenTTL: time.Minute})
	require.NoError(t, err)

	revoked, err := f.blacklist.IsBlacklisted(ctx, "jti-123")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t)
	f.users.On("FindByIDForTenant", mock.Anything, user.TenantID, user.ID).Return(user, nil)
	f.users.On("Save", mock.Anything, user).Return(nil)

	err := f.svc.ChangePassword(context.Background(), ChangePasswordInput{
		TenantID: user.TenantID, UserID: user.ID, OldPassword: "nope-nope1", NewPassword: "Lighthouse99",
	})
	assert.Equal(t, "INVALID_PASSWORD", errorCode(err))

	err = f.svc.ChangePassword(context.Background(), ChangePasswordInput{
		TenantID: user.TenantID, UserID: user.ID, OldPassword: testPassword, NewPassword: "Lighthouse99",
	})
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("Lighthouse99"))
}
