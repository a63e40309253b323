package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/analytics"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPeriodDays = 30
	maxPeriodDays     = 366
	arrivalsLimit     = 10
)

// RevenueReader totals collected payments
type RevenueReader interface {
	SumPaid(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

// PipelineReader summarizes the lead pipeline
type PipelineReader interface {
	Pipeline(ctx context.Context, tenantID uuid.UUID) ([]crm.PipelineStage, error)
}

// DashboardDTO is the tenant's operational overview for a period
type DashboardDTO struct {
	From             string                      `json:"from"`
	To               string                      `json:"to"`
	Properties       int64                       `json:"properties"`
	Rooms            int64                       `json:"rooms"`
	Bookings         []analytics.StatusCount     `json:"bookings_by_status"`
	TotalBookings    int64                       `json:"total_bookings"`
	Revenue          decimal.Decimal             `json:"revenue"`
	Occupancy        OccupancyDTO                `json:"occupancy"`
	Pipeline         []PipelineStageDTO          `json:"lead_pipeline"`
	UpcomingArrivals []analytics.UpcomingArrival `json:"upcoming_arrivals"`
}

// OccupancyDTO is booked over available room-nights
type OccupancyDTO struct {
	BookedNights    int64           `json:"booked_nights"`
	AvailableNights int64           `json:"available_nights"`
	Rate            decimal.Decimal `json:"rate"`
}

// PipelineStageDTO is one lead status with its count and value
type PipelineStageDTO struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Value  decimal.Decimal `json:"value"`
}

// DashboardService computes the analytics dashboard
type DashboardService struct {
	reader   analytics.Reader
	revenue  RevenueReader
	pipeline PipelineReader
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(reader analytics.Reader, revenue RevenueReader, pipeline PipelineReader, logger *zap.Logger) *DashboardService {
	return &DashboardService{reader: reader, revenue: revenue, pipeline: pipeline, logger: logger, now: time.Now}
}

// Period resolves optional bounds into a half-open day range; the default is the last 30 days including today
func (s *DashboardService) Period(from, to *time.Time) (analytics.Period, error) {
	today := truncateDay(s.now())
	p := analytics.Period{From: today.AddDate(0, 0, 1-defaultPeriodDays), To: today.AddDate(0, 0, 1)}
	if from != nil {
		p.From = truncateDay(*from)
	}
	if to != nil {
		p.To = truncateDay(*to)
	}
	if from != nil && to == nil {
		p.To = p.From.AddDate(0, 0, defaultPeriodDays)
	}
	if !p.To.After(p.From) {
		return p, shared.NewValidationError("'to' must be after 'from'")
	}
	if p.Days() > maxPeriodDays {
		return p, shared.NewValidationError("Period cannot exceed 366 days")
	}
	return p, nil
}

// Dashboard runs the dashboard queries concurrently; the first failure cancels the rest
func (s *DashboardService) Dashboard(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) (_ *DashboardDTO, err error) {
	p, err := s.Period(from, to)
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "analytics", "dashboard",
		telemetry.String(telemetry.AttrTenantID, tenantID.String()))
	defer func() { telemetry.End(span, err) }()

	var (
		properties, rooms int64
		byStatus          []analytics.StatusCount
		stays             []analytics.Stay
		revenue           = decimal.Zero
		stages            []crm.PipelineStage
		arrivals          []analytics.UpcomingArrival
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		properties, err = s.reader.CountProperties(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		rooms, err = s.reader.CountRooms(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		byStatus, err = s.reader.BookingsByStatus(gctx, tenantID, p)
		return err
	})
	g.Go(func() (err error) {
		stays, err = s.reader.Stays(gctx, tenantID, p)
		return err
	})
	g.Go(func() (err error) {
		arrivals, err = s.reader.UpcomingArrivals(gctx, tenantID, truncateDay(s.now()), arrivalsLimit)
		return err
	})
	if s.revenue != nil {
		g.Go(func() (err error) {
			revenue, err = s.revenue.SumPaid(gctx, tenantID, p.From, p.To)
			return err
		})
	}
	if s.pipeline != nil {
		g.Go(func() (err error) {
			stages, err = s.pipeline.Pipeline(gctx, tenantID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("Dashboard query failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return nil, err
	}

	var booked int64
	for _, st := range stays {
		booked += int64(st.NightsWithin(p))
	}
	var total int64
	for _, c := range byStatus {
		total += c.Count
	}
	pipeline := make([]PipelineStageDTO, len(stages))
	for i, st := range stages {
		pipeline[i] = PipelineStageDTO{Status: string(st.Status), Count: st.Count, Value: st.Value}
	}
	if byStatus == nil {
		byStatus = []analytics.StatusCount{}
	}
	if arrivals == nil {
		arrivals = []analytics.UpcomingArrival{}
	}

	return &DashboardDTO{
		From:          p.From.Format(time.DateOnly),
		To:            p.To.Format(time.DateOnly),
		Properties:    properties,
		Rooms:         rooms,
		Bookings:      byStatus,
		TotalBookings: total,
		Revenue:       revenue,
		Occupancy: OccupancyDTO{
			BookedNights:    booked,
			AvailableNights: rooms * int64(p.Days()),
			Rate:            analytics.OccupancyRate(booked, rooms, p),
		},
		Pipeline:         pipeline,
		UpcomingArrivals: arrivals,
	}, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
