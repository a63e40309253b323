package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	analyticsapp "github.com/hospitality/backend/internal/application/analytics"
	bookingapp "github.com/hospitality/backend/internal/application/booking"
	cmsapp "github.com/hospitality/backend/internal/application/cms"
	commapp "github.com/hospitality/backend/internal/application/communication"
	conciergeapp "github.com/hospitality/backend/internal/application/concierge"
	crmapp "github.com/hospitality/backend/internal/application/crm"
	identityapp "github.com/hospitality/backend/internal/application/identity"
	invoiceapp "github.com/hospitality/backend/internal/application/invoice"
	propertyapp "github.com/hospitality/backend/internal/application/property"
	staffapp "github.com/hospitality/backend/internal/application/staff"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/ai"
	"github.com/hospitality/backend/internal/infrastructure/auth"
	"github.com/hospitality/backend/internal/infrastructure/cache"
	"github.com/hospitality/backend/internal/infrastructure/config"
	"github.com/hospitality/backend/internal/infrastructure/event"
	"github.com/hospitality/backend/internal/infrastructure/logger"
	"github.com/hospitality/backend/internal/infrastructure/messaging"
	"github.com/hospitality/backend/internal/infrastructure/payment"
	"github.com/hospitality/backend/internal/infrastructure/pdf"
	"github.com/hospitality/backend/internal/infrastructure/persistence"
	"github.com/hospitality/backend/internal/infrastructure/seed"
	"github.com/hospitality/backend/internal/infrastructure/storage"
	"github.com/hospitality/backend/internal/infrastructure/telemetry"
	"github.com/hospitality/backend/internal/interfaces/http/handler"
	"github.com/hospitality/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const intentLockTTL = time.Minute

// infrastructure holds the process-wide adapters. Optional providers stay nil
// interfaces when they are not configured so services can detect them.
type infrastructure struct {
	db        *persistence.Database
	redis     redis.UniversalClient
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	idem      shared.IdempotencyStore
	bus       *event.InMemoryEventBus
	kafka     *event.KafkaPublisher
	storage   shared.ObjectStorage
	gateway   invoiceapp.PaymentGateway
	renderer  *pdf.ChromedpRenderer
	model     conciergeapp.ChatModel
	email     commapp.EmailSender
	whatsapp  commapp.WhatsAppSender
	logger    *zap.Logger
}

func openInfrastructure(ctx context.Context, cfg *config.Config, log *zap.Logger) (*infrastructure, error) {
	infra := &infrastructure{logger: log}

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	infra.db = db
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.redis = client
		infra.blacklist = auth.NewRedisTokenBlacklist(client)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		infra.blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis disabled, token revocation is local to this process")
	}
	infra.idem = cache.NewIdempotencyStore(infra.redis, log)
	infra.jwt = auth.NewJWTService(cfg.JWT)

	infra.bus = event.NewInMemoryEventBus(log)
	if cfg.Kafka.Enabled {
		serializer := event.NewEventSerializer()
		event.RegisterAllEvents(serializer)
		kp, err := event.NewKafkaPublisher(cfg.Kafka, serializer, log)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.kafka = kp
		infra.bus.Subscribe(kp)
		log.Info("Forwarding domain events to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiry),
		)
		if err != nil {
			infra.Close()
			return nil, err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Object storage bucket check failed", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
		infra.storage = s3
	} else {
		log.Warn("Object storage disabled, uploads are kept in memory")
		infra.storage = storage.NewMemoryObjectStorage("/media")
	}

	if gw, err := payment.NewStripeGateway(cfg.Payment, log); err == nil {
		infra.gateway = gw
	} else {
		log.Info("Card payments disabled", zap.Error(err))
	}

	infra.renderer = pdf.NewChromedpRenderer(cfg.PDF, log)

	if client, err := ai.NewGeminiClient(ctx, cfg.AI, log); err == nil {
		infra.model = client
		log.Info("Concierge model ready", zap.String("model", client.Model()))
	} else {
		log.Info("Concierge uses fallback replies", zap.Error(err))
	}

	if s, err := messaging.NewSMTPSender(cfg.Communication, log); err == nil {
		infra.email = s
	} else {
		log.Info("Email channel disabled", zap.Error(err))
	}
	if s, err := messaging.NewWhatsAppSender(cfg.Communication, log); err == nil {
		infra.whatsapp = s
	} else {
		log.Info("WhatsApp channel disabled", zap.Error(err))
	}

	return infra, nil
}

func openDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)

	if !cfg.App.IsDemo() {
		db, err := persistence.NewDatabase(&cfg.Database, gormLog)
		if err != nil {
			return nil, err
		}
		log.Info("Database connected", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.DBName))
		return db, nil
	}

	db, err := persistence.NewSQLiteDatabase(cfg.Database.SQLitePath, gormLog)
	if err != nil {
		return nil, err
	}
	ds, err := seed.Demo()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load demo dataset: %w", err)
	}
	res, err := seed.NewSeeder(db.DB, log).Seed(ctx, ds)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed demo dataset: %w", err)
	}
	log.Info("Demo database ready",
		zap.String("path", cfg.Database.SQLitePath),
		zap.String("tenant_id", res.TenantID.String()),
		zap.Bool("already_seeded", res.Skipped),
	)
	return db, nil
}

// Close releases every adapter that holds a connection or process
func (i *infrastructure) Close() {
	if i.renderer != nil {
		if err := i.renderer.Close(); err != nil {
			i.logger.Error("Error closing PDF renderer", zap.Error(err))
		}
	}
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			i.logger.Error("Error closing redis", zap.Error(err))
		}
	}
	if i.db != nil {
		if err := i.db.Close(); err != nil {
			i.logger.Error("Error closing database", zap.Error(err))
		}
	}
}

type application struct {
	handlers router.Handlers
	system   *handler.SystemHandler
	tenants  *identityapp.TenantService
}

func buildApplication(cfg *config.Config, infra *infrastructure, log *zap.Logger) *application {
	db := infra.db.DB

	tenantRepo := persistence.NewGormTenantRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	propertyRepo := persistence.NewGormPropertyRepository(db)
	roomRepo := persistence.NewGormRoomRepository(db)
	bookingRepo := persistence.NewGormBookingRepository(db)
	staffRepo := persistence.NewGormStaffRepository(db)
	leadRepo := persistence.NewGormLeadRepository(db)
	pageRepo := persistence.NewGormPageRepository(db)
	mediaRepo := persistence.NewGormMediaRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	messageRepo := persistence.NewGormMessageRepository(db)
	calendarRepo := persistence.NewGormCalendarRepository(db)
	conversationRepo := persistence.NewGormConversationRepository(db)
	analyticsRepo := persistence.NewGormAnalyticsRepository(db)

	bus := infra.bus

	authService := identityapp.NewAuthService(userRepo, tenantRepo, infra.jwt, infra.blacklist,
		identityapp.AuthServiceConfig{
			MaxLoginAttempts: cfg.Auth.MaxFailedAttempts,
			LockDuration:     cfg.Auth.LockDuration,
		}, log)
	userService := identityapp.NewUserService(userRepo, authService, bus, log)
	tenantService := identityapp.NewTenantService(tenantRepo, bus, log)
	roleService := identityapp.NewRoleService()

	propertyService := propertyapp.NewPropertyService(propertyRepo, tenantRepo, bookingRepo, infra.storage, bus, log)
	roomService := propertyapp.NewRoomService(roomRepo, propertyRepo, log)
	bookingService := bookingapp.NewBookingService(bookingRepo, propertyRepo, roomRepo, bus, log)
	staffService := staffapp.NewStaffService(staffRepo, propertyRepo, bus, log)
	leadService := crmapp.NewLeadService(leadRepo, bookingRepo, bus, log)
	pageService := cmsapp.NewPageService(pageRepo, infra.storage, bus, log)
	mediaService := cmsapp.NewMediaService(mediaRepo, infra.storage, log)

	invoiceService := invoiceapp.NewInvoiceService(invoiceRepo, invoiceapp.Deps{
		Tenants:     tenantRepo,
		Bookings:    bookingRepo,
		Rooms:       roomRepo,
		Gateway:     infra.gateway,
		Renderer:    infra.renderer,
		Idempotency: infra.idem,
		Events:      bus,
	}, invoiceapp.Config{
		PaymentTermsDays: cfg.Invoice.PaymentTermsDays,
		DefaultTaxRate:   decimal.NewFromFloat(cfg.Invoice.DefaultTaxRate),
		IntentLockTTL:    intentLockTTL,
	}, log)

	commService := commapp.NewCommunicationService(messageRepo, calendarRepo, infra.email, infra.whatsapp, infra.idem, bus,
		commapp.Config{
			CalendarName:   cfg.Communication.CalendarName,
			CalendarDomain: calendarDomain(cfg),
			IdempotencyTTL: cfg.Communication.IdempotencyTTL,
		}, log)

	conciergeService := conciergeapp.NewConciergeService(conversationRepo, propertyRepo, roomRepo, infra.model, log)
	dashboardService := analyticsapp.NewDashboardService(analyticsRepo, invoiceRepo, leadRepo, log)
	demoService := analyticsapp.NewDemoService()

	// Notification handlers run at most once per event
	if cfg.Communication.NotifyOnBooking {
		bus.Subscribe(event.NewIdempotentHandler("booking_confirmation",
			commapp.NewBookingConfirmedHandler(commService, propertyRepo, log),
			infra.idem, cfg.Communication.IdempotencyTTL, log))
	}
	if cfg.Communication.AcknowledgeLeads {
		bus.Subscribe(event.NewIdempotentHandler("lead_acknowledgement",
			commapp.NewLeadAcknowledgementHandler(commService, log),
			infra.idem, cfg.Communication.IdempotencyTTL, log))
	}

	checks := []handler.HealthCheck{{Name: "database", Check: infra.db.Ping}}
	if infra.redis != nil {
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return infra.redis.Ping(ctx).Err()
		}})
	}

	return &application{
		tenants: tenantService,
		system:  handler.NewSystemHandler(version, checks...),
		handlers: router.Handlers{
			Auth:          handler.NewAuthHandler(authService),
			Tenant:        handler.NewTenantHandler(tenantService),
			User:          handler.NewUserHandler(userService),
			Role:          handler.NewRoleHandler(roleService),
			Property:      handler.NewPropertyHandler(propertyService),
			Room:          handler.NewRoomHandler(roomService),
			Booking:       handler.NewBookingHandler(bookingService),
			Staff:         handler.NewStaffHandler(staffService),
			Lead:          handler.NewLeadHandler(leadService),
			CMS:           handler.NewCMSHandler(pageService, mediaService),
			Invoice:       handler.NewInvoiceHandler(invoiceService),
			Communication: handler.NewCommunicationHandler(commService),
			Concierge:     handler.NewConciergeHandler(conciergeService),
			Analytics:     handler.NewAnalyticsHandler(dashboardService, demoService),
			Public:        handler.NewPublicHandler(propertyService, pageService, leadService, conciergeService),
		},
	}
}

// calendarDomain is the right-hand side of iCalendar UIDs
func calendarDomain(cfg *config.Config) string {
	if _, domain, ok := strings.Cut(cfg.Communication.FromAddress, "@"); ok && domain != "" {
		return domain
	}
	return strings.ToLower(strings.ReplaceAll(cfg.App.Name, " ", "-")) + ".local"
}
