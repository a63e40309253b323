package property

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MaxCoverSize is the largest accepted cover photo
const MaxCoverSize = 10 << 20

var coverContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// TenantLookup loads the tenant that owns a property
type TenantLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)
}

// BookingCounter reports live reservations at a property
type BookingCounter interface {
	CountActiveByProperty(ctx context.Context, tenantID, propertyID uuid.UUID) (int64, error)
}

// PropertyService manages venues
type PropertyService struct {
	repo     property.PropertyRepository
	tenants  TenantLookup
	bookings BookingCounter
	storage  shared.ObjectStorage
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewPropertyService creates a new property service
func NewPropertyService(
	repo property.PropertyRepository,
	tenants TenantLookup,
	bookings BookingCounter,
	storage shared.ObjectStorage,
	events shared.EventPublisher,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		repo:     repo,
		tenants:  tenants,
		bookings: bookings,
		storage:  storage,
		events:   events,
		logger:   logger,
	}
}

// Create registers a new venue in draft status
func (s *PropertyService) Create(ctx context.Context, input CreatePropertyInput) (_ *PropertyDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "property", "create",
		telemetry.String(telemetry.AttrTenantID, input.TenantID.String()))
	defer func() { telemetry.End(span, err) }()

	if err := s.checkPlanLimit(ctx, input.TenantID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, input.TenantID, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Property code already exists")
	}

	p, err := property.NewProperty(input.TenantID, input.Code, input.Name, property.PropertyType(input.Type))
	if err != nil {
		return nil, err
	}
	if err := applyCreate(p, input); err != nil {
		return nil, err
	}
	if input.CreatedBy != uuid.Nil {
		p.SetCreatedBy(input.CreatedBy)
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, p)

	s.logger.Info("Property created",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("property_id", p.ID.String()),
		zap.String("type", string(p.Type)))

	return s.toDTO(ctx, p), nil
}

func applyCreate(p *property.Property, input CreatePropertyInput) error {
	if input.Description != "" {
		if err := p.Update(p.Name, input.Description); err != nil {
			return err
		}
	}
	if err := p.SetLocation(input.Address, input.City, input.Country, input.PostalCode, input.Latitude, input.Longitude); err != nil {
		return err
	}
	if err := p.SetContact(input.Phone, input.Email, input.Website); err != nil {
		return err
	}
	if err := p.SetStarRating(input.StarRating); err != nil {
		return err
	}
	if input.CheckInTime != "" || input.CheckOutTime != "" {
		if err := p.SetCheckTimes(orDefault(input.CheckInTime, p.CheckInTime), orDefault(input.CheckOutTime, p.CheckOutTime)); err != nil {
			return err
		}
	}
	if len(input.Amenities) > 0 {
		p.SetAmenities(input.Amenities)
	}
	if input.SeatingCapacity > 0 {
		if p.Type.HasRooms() {
			return shared.NewValidationError("Seating capacity applies to restaurants and cafes only")
		}
		if err := p.SetSeatingCapacity(input.SeatingCapacity); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns a venue of the tenant
func (s *PropertyService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PropertyDTO, error) {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, p), nil
}

// GetPublished returns an active venue by slug for the marketing site
func (s *PropertyService) GetPublished(ctx context.Context, tenantID uuid.UUID, slug string) (*PropertyDTO, error) {
	p, err := s.repo.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsBookable() {
		return nil, shared.ErrNotFound
	}
	return s.toDTO(ctx, p), nil
}

// List returns venues matching the filter
func (s *PropertyService) List(ctx context.Context, tenantID uuid.UUID, f PropertyListFilter) (shared.Paginated[PropertyDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters: map[string]any{
			"type":   f.Type,
			"status": f.Status,
			"city":   f.City,
		},
	}.Normalize()

	items, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[PropertyDTO]{}, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[PropertyDTO]{}, err
	}

	out := make([]PropertyDTO, len(items))
	for i := range items {
		out[i] = *s.toDTO(ctx, &items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Update applies the non-nil fields of input
func (s *PropertyService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdatePropertyInput) (*PropertyDTO, error) {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil || input.Description != nil {
		if err := p.Update(pick(input.Name, p.Name), pick(input.Description, p.Description)); err != nil {
			return nil, err
		}
	}
	if input.Address != nil || input.City != nil || input.Country != nil || input.PostalCode != nil ||
		input.Latitude != nil || input.Longitude != nil {
		lat, lng := p.Latitude, p.Longitude
		if input.Latitude != nil {
			lat = input.Latitude
		}
		if input.Longitude != nil {
			lng = input.Longitude
		}
		if err := p.SetLocation(pick(input.Address, p.Address), pick(input.City, p.City),
			pick(input.Country, p.Country), pick(input.PostalCode, p.PostalCode), lat, lng); err != nil {
			return nil, err
		}
	}
	if input.Phone != nil || input.Email != nil || input.Website != nil {
		if err := p.SetContact(pick(input.Phone, p.Phone), pick(input.Email, p.Email), pick(input.Website, p.Website)); err != nil {
			return nil, err
		}
	}
	if input.StarRating != nil {
		if err := p.SetStarRating(*input.StarRating); err != nil {
			return nil, err
		}
	}
	if input.CheckInTime != nil || input.CheckOutTime != nil {
		if err := p.SetCheckTimes(pick(input.CheckInTime, p.CheckInTime), pick(input.CheckOutTime, p.CheckOutTime)); err != nil {
			return nil, err
		}
	}
	if input.Amenities != nil {
		p.SetAmenities(input.Amenities)
	}
	if input.SeatingCapacity != nil {
		if p.Type.HasRooms() {
			return nil, shared.NewValidationError("Seating capacity applies to restaurants and cafes only")
		}
		if err := p.SetSeatingCapacity(*input.SeatingCapacity); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return s.toDTO(ctx, p), nil
}

// Activate publishes a venue
func (s *PropertyService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*PropertyDTO, error) {
	return s.transition(ctx, tenantID, id, (*property.Property).Activate)
}

// Deactivate hides a venue
func (s *PropertyService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*PropertyDTO, error) {
	return s.transition(ctx, tenantID, id, (*property.Property).Deactivate)
}

// Archive retires a venue; it must have no live bookings
func (s *PropertyService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*PropertyDTO, error) {
	if err := s.ensureNoActiveBookings(ctx, tenantID, id); err != nil {
		return nil, err
	}
	return s.transition(ctx, tenantID, id, (*property.Property).Archive)
}

func (s *PropertyService) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*property.Property) error) (*PropertyDTO, error) {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(p); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, p)
	return s.toDTO(ctx, p), nil
}

// Delete removes a venue that has no live bookings
func (s *PropertyService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.ensureNoActiveBookings(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	if p.CoverImageKey != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, p.CoverImageKey); err != nil {
			s.logger.Warn("Failed to delete cover image", zap.String("key", p.CoverImageKey), zap.Error(err))
		}
	}
	s.logger.Info("Property deleted", zap.String("tenant_id", tenantID.String()), zap.String("property_id", id.String()))
	return nil
}

// UploadCover stores a new cover photo and replaces the previous one
func (s *PropertyService) UploadCover(ctx context.Context, tenantID, id uuid.UUID, upload CoverUpload, body io.Reader) (*PropertyDTO, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Object storage is not configured")
	}
	ext, ok := coverContentTypes[strings.ToLower(upload.ContentType)]
	if !ok {
		return nil, shared.NewValidationError("Cover image must be JPEG, PNG or WebP")
	}
	if upload.Size <= 0 || upload.Size > MaxCoverSize {
		return nil, shared.NewValidationError("Cover image must be between 1 byte and 10 MB")
	}

	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	key := path.Join("tenants", tenantID.String(), "properties", id.String(), "cover-"+uuid.NewString()+ext)
	if err := s.storage.Upload(ctx, key, body, upload.Size, upload.ContentType); err != nil {
		return nil, err
	}

	previous := p.CoverImageKey
	p.SetCoverImage(key)
	if err := s.repo.Save(ctx, p); err != nil {
		_ = s.storage.Delete(ctx, key)
		return nil, err
	}
	if previous != "" {
		if err := s.storage.Delete(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete previous cover image", zap.String("key", previous), zap.Error(err))
		}
	}

	return s.toDTO(ctx, p), nil
}

func (s *PropertyService) checkPlanLimit(ctx context.Context, tenantID uuid.UUID) error {
	if s.tenants == nil {
		return nil
	}
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	count, err := s.repo.CountForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return err
	}
	if !tenant.CanAddProperty(count) {
		return shared.NewDomainError("PLAN_LIMIT_REACHED", "The tenant's plan does not allow more properties")
	}
	return nil
}

func (s *PropertyService) ensureNoActiveBookings(ctx context.Context, tenantID, id uuid.UUID) error {
	if s.bookings == nil {
		return nil
	}
	n, err := s.bookings.CountActiveByProperty(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.NewInvalidStateError("Property has active bookings")
	}
	return nil
}

func (s *PropertyService) toDTO(ctx context.Context, p *property.Property) *PropertyDTO {
	dto := ToPropertyDTO(p)
	if p.CoverImageKey != "" && s.storage != nil {
		if url, err := s.storage.URL(ctx, p.CoverImageKey); err == nil {
			dto.CoverImageURL = url
		} else {
			s.logger.Warn("Failed to sign cover image URL", zap.Error(err))
		}
	}
	return &dto
}

func (s *PropertyService) publish(ctx context.Context, p *property.Property) {
	if err := shared.PublishPending(ctx, s.events, p); err != nil {
		s.logger.Warn("Failed to publish property events", zap.Error(err))
	}
}

func pick(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
