package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/booking"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	err, p := h.err, h.panicWith
	h.mu.Unlock()
	if p != nil {
		panic(p)
	}
	return err
}

func (h *recordingHandler) EventTypes() []string { return h.eventTypes }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func confirmedEvent() shared.DomainEvent {
	b := &booking.Booking{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(uuid.New()),
		Reference:           "BK-20261016-ABC123",
		PropertyID:          uuid.New(),
		GuestName:           "Ana Souza",
		GuestEmail:          "ana@example.com",
		CheckIn:             time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		CheckOut:            time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC),
		Currency:            "EUR",
	}
	return booking.NewBookingConfirmedEvent(b)
}

func TestInMemoryEventBus_SyncDispatch(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	confirmed := newRecordingHandler(booking.EventTypeBookingConfirmed)
	other := newRecordingHandler(booking.EventTypeBookingCancelled)
	all := newRecordingHandler()
	bus.Subscribe(confirmed)
	bus.Subscribe(other)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), confirmedEvent(), confirmedEvent()))

	assert.Equal(t, 2, confirmed.count())
	assert.Equal(t, 0, other.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newRecordingHandler(booking.EventTypeBookingConfirmed)
	failing.err = errors.New("smtp down")
	panicking := newRecordingHandler(booking.EventTypeBookingConfirmed)
	panicking.panicWith = "boom"
	healthy := newRecordingHandler(booking.EventTypeBookingConfirmed)

	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), confirmedEvent()))
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, panicking.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newRecordingHandler(booking.EventTypeBookingConfirmed)
	bus.Subscribe(h)

	_ = bus.Publish(context.Background(), confirmedEvent())
	bus.Unsubscribe(h)
	_ = bus.Publish(context.Background(), confirmedEvent())

	assert.Equal(t, 1, h.count())
	assert.Equal(t, 0, bus.registry.Len())
}

func TestInMemoryEventBus_AsyncDrainsOnStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithWorkers(2), WithQueueSize(8))
	h := newRecordingHandler()
	bus.Subscribe(h)

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 20; i++ {
		require.NoError(t, bus.Publish(ctx, confirmedEvent()))
	}
	// request contexts end before the handlers run
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, bus.Stop(stopCtx))
	require.NoError(t, bus.Stop(stopCtx))

	assert.Equal(t, 20, h.count())

	// stopped bus falls back to synchronous dispatch
	require.NoError(t, bus.Publish(context.Background(), confirmedEvent()))
	assert.Equal(t, 21, h.count())
}

func TestInMemoryEventBus_StopHonoursDeadline(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithWorkers(1))
	release := make(chan struct{})
	bus.Subscribe(blockingHandler{release: release})

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), confirmedEvent()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := bus.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	bus.wg.Wait()
}

type blockingHandler struct {
	release chan struct{}
}

func (h blockingHandler) Handle(context.Context, shared.DomainEvent) error {
	<-h.release
	return nil
}

func (blockingHandler) EventTypes() []string { return nil }
