package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriod_Days(t *testing.T) {
	assert.Equal(t, 7, Period{From: day(1), To: day(8)}.Days())
	assert.Equal(t, 0, Period{From: day(8), To: day(1)}.Days())
}

func TestStay_NightsWithin(t *testing.T) {
	p := Period{From: day(10), To: day(20)}

	tests := []struct {
		name string
		stay Stay
		want int
	}{
		{"inside", Stay{CheckIn: day(12), CheckOut: day(15)}, 3},
		{"starts before", Stay{CheckIn: day(8), CheckOut: day(12)}, 2},
		{"ends after", Stay{CheckIn: day(18), CheckOut: day(25)}, 2},
		{"covers period", Stay{CheckIn: day(1), CheckOut: day(30)}, 10},
		{"checks out on first day", Stay{CheckIn: day(5), CheckOut: day(10)}, 0},
		{"checks in on last day", Stay{CheckIn: day(20), CheckOut: day(22)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stay.NightsWithin(p))
		})
	}
}

func TestOccupancyRate(t *testing.T) {
	p := Period{From: day(1), To: day(11)}

	assert.True(t, decimal.NewFromInt(25).Equal(OccupancyRate(10, 4, p)))
	assert.True(t, decimal.RequireFromString("33.33").Equal(OccupancyRate(10, 3, p)))
	assert.True(t, OccupancyRate(5, 0, p).IsZero())
}
