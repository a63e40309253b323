package staff

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/domain/staff"
	"go.uber.org/zap"
)

// PropertyLookup checks that a property belongs to the tenant
type PropertyLookup interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.Property, error)
}

// StaffService manages the workforce of a tenant
type StaffService struct {
	repo       staff.StaffRepository
	properties PropertyLookup
	events     shared.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewStaffService creates a new staff service
func NewStaffService(repo staff.StaffRepository, properties PropertyLookup, events shared.EventPublisher, logger *zap.Logger) *StaffService {
	return &StaffService{
		repo:       repo,
		properties: properties,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// Create hires a staff member
func (s *StaffService) Create(ctx context.Context, input CreateStaffInput) (*StaffDTO, error) {
	member, err := staff.NewStaffMember(input.TenantID, input.EmployeeCode, input.FirstName, input.LastName,
		staff.Department(input.Department), input.HireDate)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, input.TenantID, member.EmployeeCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Employee code already exists")
	}

	if input.Position != "" || input.EmploymentType != "" {
		if err := member.Update(member.FirstName, member.LastName, input.Position, "", staff.EmploymentType(input.EmploymentType)); err != nil {
			return nil, err
		}
	}
	if err := member.SetContact(input.Email, input.Phone); err != nil {
		return nil, err
	}
	if err := member.SetHourlyRate(input.HourlyRate); err != nil {
		return nil, err
	}
	if input.PropertyID != nil {
		if err := s.assign(ctx, member, input.PropertyID); err != nil {
			return nil, err
		}
	}
	if input.UserID != nil {
		member.LinkUser(input.UserID)
	}
	if input.CreatedBy != uuid.Nil {
		member.SetCreatedBy(input.CreatedBy)
	}

	if err := s.repo.Save(ctx, member); err != nil {
		return nil, err
	}
	s.publish(ctx, member)

	s.logger.Info("Staff member hired",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("staff_id", member.ID.String()),
		zap.String("department", string(member.Department)))

	dto := ToStaffDTO(member)
	return &dto, nil
}

// GetByID returns a staff member of the tenant
func (s *StaffService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*StaffDTO, error) {
	member, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToStaffDTO(member)
	return &dto, nil
}

// List returns staff members matching the filter
func (s *StaffService) List(ctx context.Context, tenantID uuid.UUID, f StaffListFilter) (shared.Paginated[StaffDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters: map[string]any{
			"department":      f.Department,
			"status":          f.Status,
			"employment_type": f.EmploymentType,
		},
	}.Normalize()
	if f.PropertyID != nil {
		filter.Filters["property_id"] = *f.PropertyID
	}

	items, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[StaffDTO]{}, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[StaffDTO]{}, err
	}

	out := make([]StaffDTO, len(items))
	for i := range items {
		out[i] = ToStaffDTO(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Update applies the non-nil fields of input
func (s *StaffService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateStaffInput) (*StaffDTO, error) {
	member, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil || input.LastName != nil || input.Position != nil ||
		input.Department != nil || input.EmploymentType != nil {
		if err := member.Update(
			pick(input.FirstName, member.FirstName),
			pick(input.LastName, member.LastName),
			pick(input.Position, member.Position),
			staff.Department(pick(input.Department, "")),
			staff.EmploymentType(pick(input.EmploymentType, "")),
		); err != nil {
			return nil, err
		}
	}
	if input.Email != nil || input.Phone != nil {
		if err := member.SetContact(pick(input.Email, member.Email), pick(input.Phone, member.Phone)); err != nil {
			return nil, err
		}
	}
	if input.HourlyRate != nil {
		if err := member.SetHourlyRate(*input.HourlyRate); err != nil {
			return nil, err
		}
	}
	if input.UserID != nil {
		member.LinkUser(input.UserID)
	}

	if err := s.repo.Save(ctx, member); err != nil {
		return nil, err
	}
	dto := ToStaffDTO(member)
	return &dto, nil
}

// AssignToProperty moves a staff member to a property; nil makes them tenant-wide
func (s *StaffService) AssignToProperty(ctx context.Context, tenantID, id uuid.UUID, propertyID *uuid.UUID) (*StaffDTO, error) {
	member, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.assign(ctx, member, propertyID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, member); err != nil {
		return nil, err
	}
	dto := ToStaffDTO(member)
	return &dto, nil
}

func (s *StaffService) assign(ctx context.Context, member *staff.StaffMember, propertyID *uuid.UUID) error {
	if propertyID != nil && s.properties != nil {
		if _, err := s.properties.FindByIDForTenant(ctx, member.TenantID, *propertyID); err != nil {
			return err
		}
	}
	return member.AssignToProperty(propertyID)
}

// PutOnLeave marks a staff member as on leave
func (s *StaffService) PutOnLeave(ctx context.Context, tenantID, id uuid.UUID) (*StaffDTO, error) {
	return s.transition(ctx, tenantID, id, (*staff.StaffMember).PutOnLeave)
}

// Reactivate returns a staff member from leave
func (s *StaffService) Reactivate(ctx context.Context, tenantID, id uuid.UUID) (*StaffDTO, error) {
	return s.transition(ctx, tenantID, id, (*staff.StaffMember).Reactivate)
}

// Terminate ends a staff member's employment
func (s *StaffService) Terminate(ctx context.Context, tenantID, id uuid.UUID, at *time.Time) (*StaffDTO, error) {
	when := s.now()
	if at != nil {
		when = *at
	}
	return s.transition(ctx, tenantID, id, func(m *staff.StaffMember) error {
		return m.Terminate(when)
	})
}

func (s *StaffService) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*staff.StaffMember) error) (*StaffDTO, error) {
	member, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(member); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, member); err != nil {
		return nil, err
	}
	s.publish(ctx, member)

	s.logger.Info("Staff status changed",
		zap.String("staff_id", member.ID.String()),
		zap.String("status", string(member.Status)))

	dto := ToStaffDTO(member)
	return &dto, nil
}

// Delete removes a staff record
func (s *StaffService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}

func (s *StaffService) publish(ctx context.Context, member *staff.StaffMember) {
	if err := shared.PublishPending(ctx, s.events, member); err != nil {
		s.logger.Warn("Failed to publish staff events", zap.Error(err))
	}
}

func pick(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
