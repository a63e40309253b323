package communication

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/communication"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/calendar"
	"github.com/hospitality/backend/internal/infrastructure/messaging"
	"github.com/hospitality/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// EmailSender delivers email
type EmailSender interface {
	Provider() string
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
}

// WhatsAppSender delivers WhatsApp text messages
type WhatsAppSender interface {
	Provider() string
	SendWhatsApp(ctx context.Context, to, body string) (string, error)
}

// Config holds communication settings used by the service
type Config struct {
	CalendarName   string
	CalendarDomain string
	IdempotencyTTL time.Duration
}

// CommunicationService sends messages and manages the shared calendar
type CommunicationService struct {
	messages communication.MessageRepository
	calendar communication.CalendarRepository
	email    EmailSender
	whatsapp WhatsAppSender
	idem     shared.IdempotencyStore
	events   shared.EventPublisher
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewCommunicationService creates a new communication service. Nil senders mean
// the channel is not configured; messages on it are recorded as failed.
func NewCommunicationService(
	messages communication.MessageRepository,
	cal communication.CalendarRepository,
	email EmailSender,
	whatsapp WhatsAppSender,
	idem shared.IdempotencyStore,
	events shared.EventPublisher,
	cfg Config,
	logger *zap.Logger,
) *CommunicationService {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = shared.DefaultIdempotencyTTL
	}
	return &CommunicationService{
		messages: messages,
		calendar: cal,
		email:    email,
		whatsapp: whatsapp,
		idem:     idem,
		events:   events,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// SendEmail records and delivers an email. A repeated Idempotency-Key returns the first message.
func (s *CommunicationService) SendEmail(ctx context.Context, input SendEmailInput) (*MessageDTO, error) {
	return s.send(ctx, input.TenantID, input.IdempotencyKey, func() (*communication.Message, error) {
		m, err := communication.NewEmail(input.TenantID, input.To, input.Subject, input.Body)
		if err != nil {
			return nil, err
		}
		if input.RelatedID != nil {
			m.RelateTo(input.RelatedType, *input.RelatedID)
		}
		return m, nil
	})
}

// SendWhatsApp records and delivers a WhatsApp message
func (s *CommunicationService) SendWhatsApp(ctx context.Context, input SendWhatsAppInput) (*MessageDTO, error) {
	return s.send(ctx, input.TenantID, input.IdempotencyKey, func() (*communication.Message, error) {
		m, err := communication.NewWhatsApp(input.TenantID, input.To, input.Body)
		if err != nil {
			return nil, err
		}
		if input.RelatedID != nil {
			m.RelateTo(input.RelatedType, *input.RelatedID)
		}
		return m, nil
	})
}

func (s *CommunicationService) send(ctx context.Context, tenantID uuid.UUID, idemKey string, build func() (*communication.Message, error)) (_ *MessageDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "communication", "send",
		telemetry.String(telemetry.AttrTenantID, tenantID.String()))
	defer func() { telemetry.End(span, err) }()

	m, err := build()
	if err != nil {
		return nil, err
	}

	idemKey = strings.TrimSpace(idemKey)
	if idemKey != "" && s.idem != nil {
		storeKey := "comm:" + tenantID.String() + ":" + idemKey
		fresh, err := s.idem.MarkProcessed(ctx, storeKey, s.cfg.IdempotencyTTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return s.replay(ctx, tenantID, idemKey)
		}
		m.SetIdempotencyKey(idemKey)
		// the key stays reserved only once a delivery record exists
		if err := s.messages.Save(ctx, m); err != nil {
			if rerr := s.idem.Release(ctx, storeKey); rerr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.String("key", storeKey), zap.Error(rerr))
			}
			return nil, err
		}
	}

	if err := s.deliver(ctx, m); err != nil {
		return nil, err
	}
	dto := ToMessageDTO(m)
	return &dto, nil
}

func (s *CommunicationService) replay(ctx context.Context, tenantID uuid.UUID, idemKey string) (*MessageDTO, error) {
	filter := shared.Filter{Page: 1, PageSize: 1, Filters: map[string]any{"idempotency_key": idemKey}}.Normalize()
	found, err := s.messages.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, shared.NewDomainError("CONFLICT", "A request with this Idempotency-Key is already in progress")
	}
	s.logger.Info("Duplicate send suppressed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("message_id", found[0].ID.String()))
	dto := ToMessageDTO(&found[0])
	return &dto, nil
}

// deliver hands the message to its provider and persists the outcome
func (s *CommunicationService) deliver(ctx context.Context, m *communication.Message) error {
	var (
		provider string
		id       string
		err      error
	)
	switch m.Channel {
	case communication.ChannelEmail:
		if s.email == nil {
			err = messaging.ErrProviderNotConfigured
			break
		}
		provider = s.email.Provider()
		id, err = s.email.SendEmail(ctx, m.Recipient, m.Subject, m.Body)
	case communication.ChannelWhatsApp:
		if s.whatsapp == nil {
			err = messaging.ErrProviderNotConfigured
			break
		}
		provider = s.whatsapp.Provider()
		id, err = s.whatsapp.SendWhatsApp(ctx, m.Recipient, m.Body)
	}

	if err != nil {
		m.MarkFailed(provider, err)
		s.logger.Warn("Message delivery failed",
			zap.String("message_id", m.ID.String()),
			zap.String("channel", string(m.Channel)),
			zap.Error(err))
	} else {
		m.MarkSent(provider, id, s.now())
		s.logger.Info("Message sent",
			zap.String("message_id", m.ID.String()),
			zap.String("channel", string(m.Channel)),
			zap.String("provider", provider))
	}

	if err := s.messages.Save(ctx, m); err != nil {
		return err
	}
	if err := shared.PublishPending(ctx, s.events, m); err != nil {
		s.logger.Warn("Failed to publish message events", zap.Error(err))
	}
	return nil
}

// GetMessage returns a message of the tenant
func (s *CommunicationService) GetMessage(ctx context.Context, tenantID, id uuid.UUID) (*MessageDTO, error) {
	m, err := s.messages.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToMessageDTO(m)
	return &dto, nil
}

// ListMessages returns messages matching the filter
func (s *CommunicationService) ListMessages(ctx context.Context, tenantID uuid.UUID, f MessageListFilter) (shared.Paginated[MessageDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters: map[string]any{
			"channel":      f.Channel,
			"status":       f.Status,
			"related_type": f.RelatedType,
		},
	}.Normalize()

	items, err := s.messages.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[MessageDTO]{}, err
	}
	total, err := s.messages.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[MessageDTO]{}, err
	}
	out := make([]MessageDTO, len(items))
	for i := range items {
		out[i] = ToMessageDTO(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Retry redelivers a failed message
func (s *CommunicationService) Retry(ctx context.Context, tenantID, id uuid.UUID) (*MessageDTO, error) {
	m, err := s.messages.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := m.PrepareRetry(); err != nil {
		return nil, err
	}
	if err := s.deliver(ctx, m); err != nil {
		return nil, err
	}
	dto := ToMessageDTO(m)
	return &dto, nil
}

// CreateEvent schedules a calendar entry
func (s *CommunicationService) CreateEvent(ctx context.Context, input CreateEventInput) (*CalendarEventDTO, error) {
	e, err := communication.NewCalendarEvent(input.TenantID, input.Title, input.StartsAt, input.EndsAt)
	if err != nil {
		return nil, err
	}
	e.SetDetails(input.Description, input.Location)
	if err := e.SetAttendees(input.Attendees); err != nil {
		return nil, err
	}
	e.Link(input.PropertyID, input.BookingID)

	if err := s.calendar.Save(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("Calendar event created",
		zap.String("tenant_id", e.TenantID.String()),
		zap.String("event_id", e.ID.String()))
	dto := ToCalendarEventDTO(e)
	return &dto, nil
}

// ListEvents returns calendar entries matching the filter
func (s *CommunicationService) ListEvents(ctx context.Context, tenantID uuid.UUID, f EventListFilter) (shared.Paginated[CalendarEventDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{"status": f.Status},
	}.Normalize()
	if f.PropertyID != nil {
		filter.Filters["property_id"] = *f.PropertyID
	}
	if f.BookingID != nil {
		filter.Filters["booking_id"] = *f.BookingID
	}

	items, err := s.calendar.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[CalendarEventDTO]{}, err
	}
	total, err := s.calendar.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[CalendarEventDTO]{}, err
	}
	out := make([]CalendarEventDTO, len(items))
	for i := range items {
		out[i] = ToCalendarEventDTO(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// CancelEvent cancels a calendar entry
func (s *CommunicationService) CancelEvent(ctx context.Context, tenantID, id uuid.UUID) (*CalendarEventDTO, error) {
	e, err := s.calendar.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := e.Cancel(); err != nil {
		return nil, err
	}
	if err := s.calendar.Save(ctx, e); err != nil {
		return nil, err
	}
	dto := ToCalendarEventDTO(e)
	return &dto, nil
}

// CalendarFeed renders scheduled events from 30 days ago to a year ahead as iCalendar
func (s *CommunicationService) CalendarFeed(ctx context.Context, tenantID uuid.UUID) ([]byte, error) {
	now := s.now()
	events, err := s.calendar.FindInRange(ctx, tenantID, now.AddDate(0, 0, -30), now.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	feed := calendar.Feed{Name: s.cfg.CalendarName, Domain: s.cfg.CalendarDomain}
	if err := feed.Write(&buf, events, now); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Execute runs one action of the unified communication endpoint
func (s *CommunicationService) Execute(ctx context.Context, input ActionInput) (*ActionResult, error) {
	result := &ActionResult{Action: input.Action}
	switch input.Action {
	case ActionSendEmail:
		m, err := s.SendEmail(ctx, SendEmailInput{
			TenantID:       input.TenantID,
			To:             input.To,
			Subject:        input.Subject,
			Body:           input.Body,
			IdempotencyKey: input.IdempotencyKey,
		})
		if err != nil {
			return nil, err
		}
		result.Message = m
	case ActionSendWhatsApp:
		m, err := s.SendWhatsApp(ctx, SendWhatsAppInput{
			TenantID:       input.TenantID,
			To:             input.To,
			Body:           input.Body,
			IdempotencyKey: input.IdempotencyKey,
		})
		if err != nil {
			return nil, err
		}
		result.Message = m
	case ActionCreateEvent:
		in := input.Event
		in.TenantID = input.TenantID
		e, err := s.CreateEvent(ctx, in)
		if err != nil {
			return nil, err
		}
		result.Event = e
	default:
		return nil, shared.NewValidationError("Unknown action: " + input.Action)
	}
	return result, nil
}
