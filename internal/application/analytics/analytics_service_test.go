package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/analytics"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubReader struct {
	properties int64
	rooms      int64
	byStatus   []analytics.StatusCount
	stays      []analytics.Stay
	arrivals   []analytics.UpcomingArrival
	staysErr   error
}

func (r *stubReader) CountProperties(context.Context, uuid.UUID) (int64, error) {
	return r.properties, nil
}

func (r *stubReader) CountRooms(context.Context, uuid.UUID) (int64, error) { return r.rooms, nil }

func (r *stubReader) BookingsByStatus(context.Context, uuid.UUID, analytics.Period) ([]analytics.StatusCount, error) {
	return r.byStatus, nil
}

func (r *stubReader) Stays(context.Context, uuid.UUID, analytics.Period) ([]analytics.Stay, error) {
	return r.stays, r.staysErr
}

func (r *stubReader) UpcomingArrivals(context.Context, uuid.UUID, time.Time, int) ([]analytics.UpcomingArrival, error) {
	return r.arrivals, nil
}

type stubRevenue decimal.Decimal

func (s stubRevenue) SumPaid(context.Context, uuid.UUID, time.Time, time.Time) (decimal.Decimal, error) {
	return decimal.Decimal(s), nil
}

type stubPipeline []crm.PipelineStage

func (s stubPipeline) Pipeline(context.Context, uuid.UUID) ([]crm.PipelineStage, error) {
	return s, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDashboard(t *testing.T) {
	roomID := uuid.New()
	arrival := analytics.UpcomingArrival{BookingID: uuid.New(), Reference: "BK-20260312-ABC123", GuestName: "Ana", CheckIn: day(2026, 3, 12), Nights: 2, Total: decimal.NewFromInt(240)}
	reader := &stubReader{
		properties: 2,
		rooms:      10,
		byStatus: []analytics.StatusCount{
			{Status: "confirmed", Count: 4},
			{Status: "cancelled", Count: 1},
		},
		stays: []analytics.Stay{
			{RoomID: roomID, CheckIn: day(2026, 3, 4), CheckOut: day(2026, 3, 7)},
			{RoomID: roomID, CheckIn: day(2026, 2, 27), CheckOut: day(2026, 3, 3)},
		},
		arrivals: []analytics.UpcomingArrival{arrival},
	}
	svc := NewDashboardService(reader,
		stubRevenue(decimal.RequireFromString("1250.50")),
		stubPipeline{{Status: crm.LeadStatusNew, Count: 3, Value: decimal.NewFromInt(900)}},
		zap.NewNop())
	svc.now = func() time.Time { return day(2026, 3, 10) }

	from, to := day(2026, 3, 1), day(2026, 3, 11)
	got, err := svc.Dashboard(context.Background(), uuid.New(), &from, &to)
	require.NoError(t, err)

	want := &DashboardDTO{
		From:          "2026-03-01",
		To:            "2026-03-11",
		Properties:    2,
		Rooms:         10,
		Bookings:      reader.byStatus,
		TotalBookings: 5,
		Revenue:       decimal.RequireFromString("1250.50"),
		Occupancy: OccupancyDTO{
			BookedNights:    5,
			AvailableNights: 100,
			Rate:            decimal.NewFromInt(5),
		},
		Pipeline:         []PipelineStageDTO{{Status: "new", Count: 3, Value: decimal.NewFromInt(900)}},
		UpcomingArrivals: []analytics.UpcomingArrival{arrival},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Dashboard() mismatch (-want +got):\n%s", diff)
	}
}

func TestDashboard_QueryFailure(t *testing.T) {
	reader := &stubReader{staysErr: errors.New("connection reset")}
	svc := NewDashboardService(reader, nil, nil, zap.NewNop())

	_, err := svc.Dashboard(context.Background(), uuid.New(), nil, nil)
	assert.EqualError(t, err, "connection reset")
}

func TestPeriod(t *testing.T) {
	svc := NewDashboardService(&stubReader{}, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC) }

	p, err := svc.Period(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 2, 14), p.From)
	assert.Equal(t, day(2026, 3, 16), p.To)
	assert.Equal(t, 30, p.Days())

	from := day(2026, 1, 1)
	p, err = svc.Period(&from, nil)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 1, 31), p.To)

	to := day(2025, 12, 1)
	_, err = svc.Period(&from, &to)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_ERROR", de.Code)

	far := day(2027, 6, 1)
	_, err = svc.Period(&from, &far)
	assert.Error(t, err)
}

func TestDemo_StablePerTenantAndDay(t *testing.T) {
	svc := NewDemoService()
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC) }
	tenant := uuid.MustParse("6f1c2b9e-7a3d-4e8f-9b0a-1c2d3e4f5a6b")

	first := svc.Analytics(tenant)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC) }
	second := svc.Analytics(tenant)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same day produced different data (-first +second):\n%s", diff)
	}
	assert.Empty(t, cmp.Diff(svc.Occupancy(tenant), svc.Occupancy(tenant)))
	assert.Empty(t, cmp.Diff(svc.Revenue(tenant), svc.Revenue(tenant)))

	other := svc.Analytics(uuid.MustParse("00000000-0000-4000-8000-000000000001"))
	assert.NotEmpty(t, cmp.Diff(first, other))

	svc.now = func() time.Time { return time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC) }
	assert.NotEmpty(t, cmp.Diff(first, svc.Analytics(tenant)))
}

func TestDemo_Ranges(t *testing.T) {
	svc := NewDemoService()
	svc.now = func() time.Time { return time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC) }
	tenant := uuid.New()

	a := svc.Analytics(tenant)
	assert.True(t, a.OccupancyRate.GreaterThanOrEqual(decimal.NewFromInt(55)))
	assert.True(t, a.OccupancyRate.LessThanOrEqual(decimal.NewFromInt(95)))
	assert.Len(t, a.Channels, 5)

	occ := svc.Occupancy(tenant)
	require.Len(t, occ.Days, 30)
	assert.Equal(t, "2026-07-04", occ.Days[29].Label)
	for _, d := range occ.Days {
		assert.True(t, d.Value.LessThanOrEqual(decimal.NewFromInt(100)), d.Label)
	}

	rev := svc.Revenue(tenant)
	require.Len(t, rev.Months, 12)
	assert.Equal(t, "2025-08", rev.Months[0].Label)
	assert.Equal(t, "2026-07", rev.Months[11].Label)
	sum := decimal.Zero
	for _, m := range rev.Months {
		sum = sum.Add(m.Value)
	}
	assert.True(t, sum.Equal(rev.Total))
}
