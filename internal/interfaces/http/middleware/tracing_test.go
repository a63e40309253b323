package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracing_EnrichesSpan(t *testing.T) {
	recorder := withRecorder(t)
	tenantID := uuid.NewString()

	router := gin.New()
	router.Use(RequestID(), Tracing(), SpanEnricher())
	router.GET("/bookings", func(c *gin.Context) {
		c.Set(TenantIDKey, tenantID)
		c.Set(JWTUserIDKey, "user-1")
		c.Status(http.StatusOK)
	})

	rec := serve(router, http.MethodGet, "/bookings", map[string]string{RequestIDHeader: "req-42"})
	require.Equal(t, http.StatusOK, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	a := attrs(spans[0])
	assert.Equal(t, "req-42", a["request_id"].AsString())
	assert.Equal(t, tenantID, a["tenant_id"].AsString())
	assert.Equal(t, "user-1", a["user_id"].AsString())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestTracing_MarksErrors(t *testing.T) {
	recorder := withRecorder(t)

	router := gin.New()
	router.Use(Tracing(), SpanEnricher())
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(router, http.MethodGet, "/fail", nil)
	serve(router, http.MethodGet, "/missing", nil)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestTracing_InvalidTenantHeaderNotRecorded(t *testing.T) {
	recorder := withRecorder(t)

	router := gin.New()
	router.Use(Tracing(), SpanEnricher())
	router.GET("/test", okHandler)

	serve(router, http.MethodGet, "/test", map[string]string{TenantIDHeader: "<script>"})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	_, ok := attrs(spans[0])["tenant_id"]
	assert.False(t, ok)
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	recorder := withRecorder(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false}), SpanEnricher())
	router.GET("/test", okHandler)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/test", nil).Code)
	assert.Empty(t, recorder.Ended())
}
