package event

import (
	"context"
	"errors"
	"testing"

	"github.com/hospitality/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
	closed  bool
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func (f *fakeProducer) Close() { f.closed = true }

func TestKafkaPublisher_Handle(t *testing.T) {
	producer := &fakeProducer{}
	s := NewEventSerializer()
	RegisterAllEvents(s)
	p := newKafkaPublisher(producer, s, "hospitality.domain-events", zap.NewNop())

	event := confirmedEvent()
	require.NoError(t, p.Handle(context.Background(), event))
	require.Len(t, producer.records, 1)

	rec := producer.records[0]
	assert.Equal(t, "hospitality.domain-events", rec.Topic)
	assert.Equal(t, event.AggregateID().String(), string(rec.Key))
	assert.Equal(t, "event_type", rec.Headers[0].Key)
	assert.Equal(t, "BookingConfirmed", string(rec.Headers[0].Value))
	assert.Equal(t, event.TenantID().String(), string(rec.Headers[1].Value))

	decoded, err := s.Unmarshal(rec.Value)
	require.NoError(t, err)
	assert.Equal(t, event.EventID(), decoded.EventID())

	assert.Nil(t, p.EventTypes())
	p.Close()
	assert.True(t, producer.closed)
}

func TestKafkaPublisher_ProduceError(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker unavailable")}
	p := newKafkaPublisher(producer, NewEventSerializer(), "t", zap.NewNop())

	err := p.Handle(context.Background(), confirmedEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(config.KafkaConfig{Topic: "t"}, NewEventSerializer(), zap.NewNop())
	assert.Error(t, err)
}
