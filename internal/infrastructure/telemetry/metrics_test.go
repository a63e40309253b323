package telemetry

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hospitality/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	for name, cfg := range map[string]config.TelemetryConfig{
		"telemetry off": {MetricsEnabled: true},
		"metrics off":   {Enabled: true},
	} {
		t.Run(name, func(t *testing.T) {
			mp, err := NewMeterProvider(context.Background(), cfg, "test", zap.NewNop())
			require.NoError(t, err)

			assert.False(t, mp.IsEnabled())
			assert.NotNil(t, mp.Meter("x"))
			assert.NoError(t, mp.Shutdown(context.Background()))
		})
	}
}

func TestRegisterDBPoolMetrics(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(7)

	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader, zap.NewNop())
	defer mp.Shutdown(context.Background())

	require.NoError(t, RegisterDBPoolMetrics(mp.Meter("db.pool"), db))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	got := map[string]metricdata.Gauge[int64]{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if g, ok := m.Data.(metricdata.Gauge[int64]); ok {
				got[m.Name] = g
			}
		}
	}

	require.Contains(t, got, "db_pool_connections")
	states := map[string]bool{}
	for _, dp := range got["db_pool_connections"].DataPoints {
		v, _ := dp.Attributes.Value(MetricDBPoolState)
		states[v.AsString()] = true
	}
	assert.Equal(t, map[string]bool{"in_use": true, "idle": true, "open": true}, states)

	require.Len(t, got["db_pool_connections_max"].DataPoints, 1)
	assert.Equal(t, int64(7), got["db_pool_connections_max"].DataPoints[0].Value)
}
