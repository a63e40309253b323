package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BookingLookup checks that a booking belongs to the tenant
type BookingLookup interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*booking.Booking, error)
}

// LeadService manages the sales pipeline
type LeadService struct {
	repo     crm.LeadRepository
	bookings BookingLookup
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewLeadService creates a new lead service
func NewLeadService(repo crm.LeadRepository, bookings BookingLookup, events shared.EventPublisher, logger *zap.Logger) *LeadService {
	return &LeadService{repo: repo, bookings: bookings, events: events, logger: logger}
}

// Create captures a lead in the new stage
func (s *LeadService) Create(ctx context.Context, input CreateLeadInput) (*LeadDTO, error) {
	lead, err := crm.NewLead(input.TenantID, crm.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
	}, crm.LeadSource(input.Source))
	if err != nil {
		return nil, err
	}
	if input.PropertyID != nil {
		lead.SetProperty(input.PropertyID)
	}
	if input.Notes != "" {
		lead.SetNotes(input.Notes)
	}
	if !input.EstimatedValue.IsZero() || input.Currency != "" {
		if err := lead.SetEstimatedValue(input.EstimatedValue, input.Currency); err != nil {
			return nil, err
		}
	}
	if input.AssignedTo != nil {
		if err := lead.Assign(input.AssignedTo); err != nil {
			return nil, err
		}
	}
	if input.CreatedBy != uuid.Nil {
		lead.SetCreatedBy(input.CreatedBy)
	}

	if err := s.repo.Save(ctx, lead); err != nil {
		return nil, err
	}
	s.publish(ctx, lead)

	s.logger.Info("Lead created",
		zap.String("tenant_id", lead.TenantID.String()),
		zap.String("lead_id", lead.ID.String()),
		zap.String("source", string(lead.Source)))

	dto := ToLeadDTO(lead)
	return &dto, nil
}

// CapturePublic records a lead submitted from the marketing site
func (s *LeadService) CapturePublic(ctx context.Context, tenantID uuid.UUID, propertyID *uuid.UUID, name, email, phone, message string) (*LeadDTO, error) {
	return s.Create(ctx, CreateLeadInput{
		TenantID:   tenantID,
		PropertyID: propertyID,
		Name:       name,
		Email:      email,
		Phone:      phone,
		Source:     string(crm.LeadSourceWebsite),
		Notes:      message,
	})
}

// GetByID returns a lead of the tenant
func (s *LeadService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LeadDTO, error) {
	lead, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToLeadDTO(lead)
	return &dto, nil
}

// List returns leads matching the filter
func (s *LeadService) List(ctx context.Context, tenantID uuid.UUID, f LeadListFilter) (shared.Paginated[LeadDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters: map[string]any{
			"status": f.Status,
			"source": f.Source,
		},
	}.Normalize()
	if f.PropertyID != nil {
		filter.Filters["property_id"] = *f.PropertyID
	}
	if f.AssignedTo != nil {
		filter.Filters["assigned_to"] = *f.AssignedTo
	}

	items, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[LeadDTO]{}, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[LeadDTO]{}, err
	}

	out := make([]LeadDTO, len(items))
	for i := range items {
		out[i] = ToLeadDTO(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Update applies the non-nil fields of input
func (s *LeadService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateLeadInput) (*LeadDTO, error) {
	lead, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil || input.Email != nil || input.Phone != nil || input.Company != nil {
		if err := lead.UpdateContact(crm.Contact{
			Name:    pick(input.Name, lead.Name),
			Email:   pick(input.Email, lead.Email),
			Phone:   pick(input.Phone, lead.Phone),
			Company: pick(input.Company, lead.Company),
		}); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		lead.SetNotes(*input.Notes)
	}
	if input.EstimatedValue != nil || input.Currency != nil {
		value := lead.EstimatedValue
		if input.EstimatedValue != nil {
			value = *input.EstimatedValue
		}
		if err := lead.SetEstimatedValue(value, pick(input.Currency, lead.Currency)); err != nil {
			return nil, err
		}
	}
	if input.PropertyID != nil {
		lead.SetProperty(input.PropertyID)
	}

	if err := s.repo.Save(ctx, lead); err != nil {
		return nil, err
	}
	dto := ToLeadDTO(lead)
	return &dto, nil
}

// Assign hands the lead to a user; nil unassigns it
func (s *LeadService) Assign(ctx context.Context, tenantID, id uuid.UUID, userID *uuid.UUID) (*LeadDTO, error) {
	return s.mutate(ctx, tenantID, id, func(l *crm.Lead) error {
		return l.Assign(userID)
	})
}

// Transition moves the lead to another pipeline stage
func (s *LeadService) Transition(ctx context.Context, tenantID, id uuid.UUID, status string) (*LeadDTO, error) {
	next := crm.LeadStatus(status)
	if !next.IsValid() {
		return nil, shared.NewValidationError("Unknown lead status")
	}
	return s.mutate(ctx, tenantID, id, func(l *crm.Lead) error {
		return l.TransitionTo(next)
	})
}

// MarkWon closes the lead as won, linking the booking it produced when given
func (s *LeadService) MarkWon(ctx context.Context, tenantID, id uuid.UUID, bookingID *uuid.UUID) (*LeadDTO, error) {
	if bookingID != nil && s.bookings != nil {
		if _, err := s.bookings.FindByIDForTenant(ctx, tenantID, *bookingID); err != nil {
			return nil, err
		}
	}
	return s.mutate(ctx, tenantID, id, func(l *crm.Lead) error {
		return l.MarkWon(bookingID)
	})
}

// MarkLost closes the lead as lost
func (s *LeadService) MarkLost(ctx context.Context, tenantID, id uuid.UUID, reason string) (*LeadDTO, error) {
	return s.mutate(ctx, tenantID, id, func(l *crm.Lead) error {
		return l.MarkLost(reason)
	})
}

func (s *LeadService) mutate(ctx context.Context, tenantID, id uuid.UUID, apply func(*crm.Lead) error) (*LeadDTO, error) {
	lead, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(lead); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, lead); err != nil {
		return nil, err
	}
	s.publish(ctx, lead)
	dto := ToLeadDTO(lead)
	return &dto, nil
}

// Delete removes a lead
func (s *LeadService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}

// Pipeline returns every stage in pipeline order, including empty ones
func (s *LeadService) Pipeline(ctx context.Context, tenantID uuid.UUID) (*PipelineDTO, error) {
	rows, err := s.repo.Pipeline(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byStatus := make(map[crm.LeadStatus]crm.PipelineStage, len(rows))
	for _, r := range rows {
		byStatus[r.Status] = r
	}

	out := &PipelineDTO{
		Stages:    make([]PipelineStageDTO, 0, len(crm.PipelineStatuses)),
		OpenValue: decimal.Zero,
		WinRate:   decimal.Zero,
	}
	for _, status := range crm.PipelineStatuses {
		row, ok := byStatus[status]
		if !ok {
			row = crm.PipelineStage{Status: status, Value: decimal.Zero}
		}
		out.Stages = append(out.Stages, PipelineStageDTO{Status: string(status), Count: row.Count, Value: row.Value})
		out.TotalCount += row.Count
		if !status.IsTerminal() {
			out.OpenValue = out.OpenValue.Add(row.Value)
		}
	}

	won, lost := byStatus[crm.LeadStatusWon].Count, byStatus[crm.LeadStatusLost].Count
	if closed := won + lost; closed > 0 {
		out.WinRate = decimal.NewFromInt(won).Div(decimal.NewFromInt(closed)).Round(4)
	}
	return out, nil
}

func (s *LeadService) publish(ctx context.Context, lead *crm.Lead) {
	if err := shared.PublishPending(ctx, s.events, lead); err != nil {
		s.logger.Warn("Failed to publish lead events", zap.Error(err))
	}
}

func pick(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
