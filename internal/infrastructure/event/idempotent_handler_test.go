package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapStore struct {
	mu      sync.Mutex
	keys    map[string]bool
	markErr error
}

func newMapStore() *mapStore { return &mapStore{keys: make(map[string]bool)} }

func (s *mapStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return false, s.markErr
	}
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *mapStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *mapStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *mapStore) Close() error { return nil }

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	inner := newRecordingHandler("BookingConfirmed")
	h := NewIdempotentHandler("confirmation-email", inner, newMapStore(), time.Hour, zap.NewNop())

	event := confirmedEvent()
	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), event))

	assert.Equal(t, 1, inner.count())
	assert.Equal(t, IdempotencyStats{EventsProcessed: 1, EventsDuplicate: 1}, h.Stats())
	assert.Equal(t, []string{"BookingConfirmed"}, h.EventTypes())
}

func TestIdempotentHandler_NamespacesKeys(t *testing.T) {
	store := newMapStore()
	email := newRecordingHandler()
	calendar := newRecordingHandler()
	h1 := NewIdempotentHandler("email", email, store, 0, zap.NewNop())
	h2 := NewIdempotentHandler("calendar", calendar, store, 0, zap.NewNop())

	event := confirmedEvent()
	require.NoError(t, h1.Handle(context.Background(), event))
	require.NoError(t, h2.Handle(context.Background(), event))

	assert.Equal(t, 1, email.count())
	assert.Equal(t, 1, calendar.count())
}

func TestIdempotentHandler_ReleasesOnFailure(t *testing.T) {
	inner := newRecordingHandler()
	inner.err = errors.New("provider timeout")
	store := newMapStore()
	h := NewIdempotentHandler("email", inner, store, time.Hour, zap.NewNop())

	event := confirmedEvent()
	assert.Error(t, h.Handle(context.Background(), event))

	inner.err = nil
	require.NoError(t, h.Handle(context.Background(), event))
	assert.Equal(t, 2, inner.count())
	assert.Equal(t, int64(1), h.Stats().EventsFailed)
	assert.Equal(t, int64(1), h.Stats().EventsProcessed)
}

func TestIdempotentHandler_StoreErrorStillProcesses(t *testing.T) {
	inner := newRecordingHandler()
	store := newMapStore()
	store.markErr = errors.New("redis unavailable")
	h := NewIdempotentHandler("email", inner, store, time.Hour, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), confirmedEvent()))
	assert.Equal(t, 1, inner.count())
}
