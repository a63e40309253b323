package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TenantService handles tenant management operations
type TenantService struct {
	tenantRepo identity.TenantRepository
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		events:     events,
		logger:     logger,
	}
}

// Create creates a new tenant
func (s *TenantService) Create(ctx context.Context, input CreateTenantInput) (*TenantDTO, error) {
	exists, err := s.tenantRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Tenant code already exists")
	}

	var tenant *identity.Tenant
	if input.TrialDays > 0 {
		tenant, err = identity.NewTrialTenant(input.Code, input.Name, input.Slug, input.TrialDays)
	} else {
		tenant, err = identity.NewTenant(input.Code, input.Name, input.Slug)
	}
	if err != nil {
		return nil, err
	}

	exists, err = s.tenantRepo.ExistsBySlug(ctx, tenant.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Tenant slug already exists")
	}

	if input.Timezone != "" || input.Currency != "" || input.Locale != "" {
		if err := tenant.Update(tenant.Name, input.Timezone, input.Currency, input.Locale); err != nil {
			return nil, err
		}
	}
	if input.Plan != "" {
		if err := tenant.SetPlan(identity.TenantPlan(input.Plan)); err != nil {
			return nil, err
		}
	}
	if err := tenant.SetContact(input.ContactName, input.ContactEmail, input.ContactPhone); err != nil {
		return nil, err
	}
	if input.Domain != "" {
		if err := tenant.SetDomain(input.Domain); err != nil {
			return nil, err
		}
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to save tenant", zap.Error(err))
		return nil, err
	}
	s.publish(ctx, tenant)

	s.logger.Info("Tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code))

	dto := ToTenantDTO(tenant)
	return &dto, nil
}

// GetByID returns a tenant
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToTenantDTO(tenant)
	return &dto, nil
}

// GetBySlug returns a tenant by its public slug; inactive tenants are hidden
func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive() {
		return nil, shared.ErrNotFound
	}
	dto := ToTenantDTO(tenant)
	return &dto, nil
}

// ResolveSlug returns the ID of the active tenant published under slug
func (s *TenantService) ResolveSlug(ctx context.Context, slug string) (uuid.UUID, error) {
	tenant, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return uuid.Nil, err
	}
	return tenant.ID, nil
}

// List returns tenants matching the filter
func (s *TenantService) List(ctx context.Context, f TenantListFilter) (shared.Paginated[TenantDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters: map[string]any{
			"status": f.Status,
			"plan":   f.Plan,
		},
	}.Normalize()

	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[TenantDTO]{}, err
	}
	total, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[TenantDTO]{}, err
	}

	items := make([]TenantDTO, len(tenants))
	for i := range tenants {
		items[i] = ToTenantDTO(&tenants[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Update applies the non-nil fields of input
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, input UpdateTenantInput) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := tenant.Name
	if input.Name != nil {
		name = *input.Name
	}
	if err := tenant.Update(name, deref(input.Timezone), deref(input.Currency), deref(input.Locale)); err != nil {
		return nil, err
	}
	if input.Plan != nil {
		if err := tenant.SetPlan(identity.TenantPlan(*input.Plan)); err != nil {
			return nil, err
		}
	}
	if input.ContactName != nil || input.ContactEmail != nil || input.ContactPhone != nil {
		contactName, contactEmail, contactPhone := tenant.ContactName, tenant.ContactEmail, tenant.ContactPhone
		if input.ContactName != nil {
			contactName = *input.ContactName
		}
		if input.ContactEmail != nil {
			contactEmail = *input.ContactEmail
		}
		if input.ContactPhone != nil {
			contactPhone = *input.ContactPhone
		}
		if err := tenant.SetContact(contactName, contactEmail, contactPhone); err != nil {
			return nil, err
		}
	}
	if input.Domain != nil {
		if err := tenant.SetDomain(*input.Domain); err != nil {
			return nil, err
		}
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.publish(ctx, tenant)

	dto := ToTenantDTO(tenant)
	return &dto, nil
}

// Activate activates a tenant
func (s *TenantService) Activate(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, id, (*identity.Tenant).Activate)
}

// Deactivate deactivates a tenant
func (s *TenantService) Deactivate(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, id, (*identity.Tenant).Deactivate)
}

// Suspend suspends a tenant
func (s *TenantService) Suspend(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, id, (*identity.Tenant).Suspend)
}

func (s *TenantService) transition(ctx context.Context, id uuid.UUID, apply func(*identity.Tenant) error) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := tenant.Status
	if err := apply(tenant); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.publish(ctx, tenant)

	s.logger.Info("Tenant status changed",
		zap.String("tenant_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(tenant.Status)))

	dto := ToTenantDTO(tenant)
	return &dto, nil
}

// Delete removes a tenant; active tenants must be deactivated first
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if tenant.Status == identity.TenantStatusActive {
		return shared.NewInvalidStateError("Deactivate the tenant before deleting it")
	}
	if err := s.tenantRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Tenant deleted", zap.String("tenant_id", id.String()), zap.String("code", tenant.Code))
	return nil
}

// Stats counts tenants by status
func (s *TenantService) Stats(ctx context.Context) (*TenantStatsDTO, error) {
	stats := &TenantStatsDTO{}
	counts := []struct {
		status identity.TenantStatus
		dst    *int64
	}{
		{identity.TenantStatusActive, &stats.Active},
		{identity.TenantStatusTrial, &stats.Trial},
		{identity.TenantStatusInactive, &stats.Inactive},
		{identity.TenantStatusSuspended, &stats.Suspended},
	}
	for _, c := range counts {
		n, err := s.tenantRepo.CountByStatus(ctx, c.status)
		if err != nil {
			return nil, err
		}
		*c.dst = n
		stats.Total += n
	}
	return stats, nil
}

func (s *TenantService) publish(ctx context.Context, tenant *identity.Tenant) {
	if err := shared.PublishPending(ctx, s.events, tenant); err != nil {
		s.logger.Warn("Failed to publish tenant events", zap.Error(err))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
