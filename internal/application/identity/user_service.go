package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TokenRevoker invalidates all outstanding tokens of a user
type TokenRevoker interface {
	RevokeUserTokens(ctx context.Context, userID uuid.UUID) error
}

// UserService manages the users of a tenant
type UserService struct {
	userRepo identity.UserRepository
	revoker  TokenRevoker
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewUserService creates a new user service. revoker may be nil.
func NewUserService(
	userRepo identity.UserRepository,
	revoker TokenRevoker,
	events shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		revoker:  revoker,
		events:   events,
		logger:   logger,
	}
}

// Create creates a user inside a tenant
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.TenantID, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already exists")
	}

	var user *identity.User
	if input.Pending {
		user, err = identity.NewUser(input.TenantID, input.Username, input.Password)
	} else {
		user, err = identity.NewActiveUser(input.TenantID, input.Username, input.Password)
	}
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(input.DisplayName, input.Email, input.Phone); err != nil {
		return nil, err
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = []string{string(identity.RoleViewer)}
	}
	if err := user.SetRoles(toRoleNames(roles)); err != nil {
		return nil, err
	}
	if err := guardSuperAdmin(user); err != nil {
		return nil, err
	}
	if input.CreatedBy != uuid.Nil {
		user.SetCreatedBy(input.CreatedBy)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("User created",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.Strings("roles", roles))

	dto := ToUserDTO(user)
	return &dto, nil
}

// GetByID returns a user of the tenant
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// List returns users of the tenant
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, f UserListFilter) (shared.Paginated[UserDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters: map[string]any{
			"status": f.Status,
			"role":   f.Role,
		},
	}.Normalize()

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[UserDTO]{}, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[UserDTO]{}, err
	}

	items := make([]UserDTO, len(users))
	for i := range users {
		items[i] = ToUserDTO(&users[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Update changes profile fields and optionally the password
func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	displayName, email, phone := user.DisplayName, user.Email, user.Phone
	if input.DisplayName != nil {
		displayName = *input.DisplayName
	}
	if input.Email != nil {
		email = *input.Email
	}
	if input.Phone != nil {
		phone = *input.Phone
	}
	if err := user.UpdateProfile(displayName, email, phone); err != nil {
		return nil, err
	}

	passwordChanged := false
	if input.Password != nil && *input.Password != "" {
		if err := user.SetPassword(*input.Password); err != nil {
			return nil, err
		}
		passwordChanged = true
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if passwordChanged {
		s.revoke(ctx, user.ID)
	}

	dto := ToUserDTO(user)
	return &dto, nil
}

// SetRoles replaces the roles of a user; outstanding tokens are revoked so
// the new permissions apply on the next login or refresh
func (s *UserService) SetRoles(ctx context.Context, tenantID, id uuid.UUID, roles []string) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.SetRoles(toRoleNames(roles)); err != nil {
		return nil, err
	}
	if err := guardSuperAdmin(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)
	s.revoke(ctx, user.ID)

	dto := ToUserDTO(user)
	return &dto, nil
}

// Activate activates a pending or deactivated user
func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Activate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// Deactivate deactivates a user and revokes their tokens
func (s *UserService) Deactivate(ctx context.Context, tenantID, id, actorID uuid.UUID) (*UserDTO, error) {
	if id == actorID {
		return nil, shared.NewInvalidStateError("You cannot deactivate your own account")
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.revoke(ctx, user.ID)

	dto := ToUserDTO(user)
	return &dto, nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	if id == actorID {
		return shared.NewInvalidStateError("You cannot delete your own account")
	}
	if err := s.userRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.revoke(ctx, id)
	s.logger.Info("User deleted", zap.String("tenant_id", tenantID.String()), zap.String("user_id", id.String()))
	return nil
}

// guardSuperAdmin rejects the cross-tenant role
func guardSuperAdmin(user *identity.User) error {
	if user.IsSuperAdmin() {
		return shared.NewDomainError("FORBIDDEN", "The super_admin role cannot be assigned through the API")
	}
	return nil
}

func (s *UserService) revoke(ctx context.Context, userID uuid.UUID) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.RevokeUserTokens(ctx, userID); err != nil {
		s.logger.Warn("Failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *UserService) publish(ctx context.Context, user *identity.User) {
	if err := shared.PublishPending(ctx, s.events, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
}

func toRoleNames(roles []string) []identity.RoleName {
	out := make([]identity.RoleName, len(roles))
	for i, r := range roles {
		out[i] = identity.RoleName(r)
	}
	return out
}
