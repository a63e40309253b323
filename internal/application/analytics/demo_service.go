package analytics

import (
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DemoSeries is one labelled data point of a showcase chart
type DemoSeries struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// DemoAnalyticsDTO is the showcase overview
type DemoAnalyticsDTO struct {
	Date              string          `json:"date"`
	Properties        int             `json:"properties"`
	Rooms             int             `json:"rooms"`
	BookingsToday     int             `json:"bookings_today"`
	ArrivalsToday     int             `json:"arrivals_today"`
	DeparturesToday   int             `json:"departures_today"`
	OccupancyRate     decimal.Decimal `json:"occupancy_rate"`
	ADR               decimal.Decimal `json:"adr"`
	RevPAR            decimal.Decimal `json:"revpar"`
	OpenLeads         int             `json:"open_leads"`
	GuestSatisfaction decimal.Decimal `json:"guest_satisfaction"`
	Channels          []DemoSeries    `json:"booking_channels"`
}

// DemoOccupancyDTO is daily occupancy for the last 30 days
type DemoOccupancyDTO struct {
	Date    string          `json:"date"`
	Average decimal.Decimal `json:"average"`
	Days    []DemoSeries    `json:"days"`
}

// DemoRevenueDTO is monthly revenue for the last 12 months
type DemoRevenueDTO struct {
	Date     string          `json:"date"`
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
	Months   []DemoSeries    `json:"months"`
}

// DemoService generates showcase analytics without touching the database.
// Output depends only on the tenant and the UTC day.
type DemoService struct {
	now func() time.Time
}

// NewDemoService creates a new demo service
func NewDemoService() *DemoService {
	return &DemoService{now: time.Now}
}

func (s *DemoService) rng(tenantID uuid.UUID, salt string) (*rand.Rand, time.Time) {
	day := truncateDay(s.now())
	h := fnv.New64a()
	h.Write(tenantID[:])
	h.Write([]byte(day.Format(time.DateOnly)))
	h.Write([]byte(salt))
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), day
}

// between returns a value in [lo, hi] with two decimals
func between(r *rand.Rand, lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + r.Float64()*(hi-lo)).Round(2)
}

// Analytics returns the showcase overview
func (s *DemoService) Analytics(tenantID uuid.UUID) DemoAnalyticsDTO {
	r, day := s.rng(tenantID, "overview")
	rooms := 40 + r.IntN(81)
	occupancy := between(r, 55, 95)
	adr := between(r, 85, 240)

	channels := []string{"direct", "website", "ota", "phone", "whatsapp"}
	series := make([]DemoSeries, len(channels))
	for i, ch := range channels {
		series[i] = DemoSeries{Label: ch, Value: decimal.NewFromInt(int64(5 + r.IntN(60)))}
	}

	return DemoAnalyticsDTO{
		Date:              day.Format(time.DateOnly),
		Properties:        1 + r.IntN(5),
		Rooms:             rooms,
		BookingsToday:     3 + r.IntN(25),
		ArrivalsToday:     2 + r.IntN(rooms/4),
		DeparturesToday:   2 + r.IntN(rooms/4),
		OccupancyRate:     occupancy,
		ADR:               adr,
		RevPAR:            adr.Mul(occupancy).Div(decimal.NewFromInt(100)).Round(2),
		OpenLeads:         r.IntN(40),
		GuestSatisfaction: between(r, 4.1, 4.9),
		Channels:          series,
	}
}

// Occupancy returns the showcase daily occupancy
func (s *DemoService) Occupancy(tenantID uuid.UUID) DemoOccupancyDTO {
	r, day := s.rng(tenantID, "occupancy")
	days := make([]DemoSeries, 30)
	sum := decimal.Zero
	base := 60 + r.Float64()*20
	for i := range days {
		d := day.AddDate(0, 0, i-29)
		v := base + r.Float64()*20 - 10
		if wd := d.Weekday(); wd == time.Friday || wd == time.Saturday {
			v += 8
		}
		if v > 100 {
			v = 100
		}
		val := decimal.NewFromFloat(v).Round(2)
		days[i] = DemoSeries{Label: d.Format(time.DateOnly), Value: val}
		sum = sum.Add(val)
	}
	return DemoOccupancyDTO{
		Date:    day.Format(time.DateOnly),
		Average: sum.Div(decimal.NewFromInt(int64(len(days)))).Round(2),
		Days:    days,
	}
}

// Revenue returns the showcase monthly revenue
func (s *DemoService) Revenue(tenantID uuid.UUID) DemoRevenueDTO {
	r, day := s.rng(tenantID, "revenue")
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]DemoSeries, 12)
	total := decimal.Zero
	base := 40000 + r.Float64()*60000
	for i := range months {
		m := first.AddDate(0, i-11, 0)
		// high season in summer
		season := 1.0
		if mo := m.Month(); mo >= time.June && mo <= time.August {
			season = 1.35
		}
		val := decimal.NewFromFloat(base * season * (0.85 + r.Float64()*0.3)).Round(2)
		months[i] = DemoSeries{Label: m.Format("2006-01"), Value: val}
		total = total.Add(val)
	}
	return DemoRevenueDTO{
		Date:     day.Format(time.DateOnly),
		Currency: "USD",
		Total:    total,
		Months:   months,
	}
}
