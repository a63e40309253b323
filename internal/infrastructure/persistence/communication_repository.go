package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/communication"
	"github.com/hospitality/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var messageList = listQuery{
	searchColumns: []string{"recipient", "subject"},
	clauses: map[string]string{
		"channel":         "channel = ?",
		"status":          "status = ?",
		"related_type":    "related_type = ?",
		"related_id":      "related_id = ?",
		"idempotency_key": "idempotency_key = ?",
	},
	sortFields:  MessageSortFields,
	defaultSort: "created_at",
}

var calendarList = listQuery{
	searchColumns: []string{"title", "location"},
	clauses: map[string]string{
		"status":      "status = ?",
		"property_id": "property_id = ?",
		"booking_id":  "booking_id = ?",
	},
	sortFields:  CalendarSortFields,
	defaultSort: "starts_at",
}

// GormMessageRepository implements MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*communication.Message, error) {
	return firstForTenant[communication.Message](ctx, r.db, tenantID, id)
}

func (r *GormMessageRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]communication.Message, error) {
	return listForTenant[communication.Message](ctx, r.db, messageList, tenantID, filter)
}

func (r *GormMessageRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return countForTenant[communication.Message](ctx, r.db, messageList, tenantID, filter)
}

func (r *GormMessageRepository) Save(ctx context.Context, message *communication.Message) error {
	return r.db.WithContext(ctx).Save(message).Error
}

// GormCalendarRepository implements CalendarRepository using GORM
type GormCalendarRepository struct {
	db *gorm.DB
}

// NewGormCalendarRepository creates a new GormCalendarRepository
func NewGormCalendarRepository(db *gorm.DB) *GormCalendarRepository {
	return &GormCalendarRepository{db: db}
}

func (r *GormCalendarRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*communication.CalendarEvent, error) {
	return firstForTenant[communication.CalendarEvent](ctx, r.db, tenantID, id)
}

func (r *GormCalendarRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]communication.CalendarEvent, error) {
	return listForTenant[communication.CalendarEvent](ctx, r.db, calendarList, tenantID, filter)
}

func (r *GormCalendarRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return countForTenant[communication.CalendarEvent](ctx, r.db, calendarList, tenantID, filter)
}

// FindInRange returns scheduled events overlapping [from, to)
func (r *GormCalendarRepository) FindInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]communication.CalendarEvent, error) {
	var events []communication.CalendarEvent
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, communication.EventStatusScheduled).
		Where("starts_at < ? AND ends_at > ?", to, from).
		Order("starts_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *GormCalendarRepository) Save(ctx context.Context, event *communication.CalendarEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

var (
	_ communication.MessageRepository  = (*GormMessageRepository)(nil)
	_ communication.CalendarRepository = (*GormCalendarRepository)(nil)
)
