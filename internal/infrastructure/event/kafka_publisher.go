package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/config"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// recordProducer is the part of *kgo.Client the publisher uses
type recordProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaPublisher forwards domain events to a Kafka topic.
// It subscribes to the in-memory bus as a wildcard handler; records are keyed
// by aggregate ID so events of one aggregate stay ordered within a partition.
type KafkaPublisher struct {
	producer   recordProducer
	serializer *EventSerializer
	topic      string
	logger     *zap.Logger
}

// NewKafkaPublisher connects a franz-go client to the configured brokers
func NewKafkaPublisher(cfg config.KafkaConfig, serializer *EventSerializer, logger *zap.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return newKafkaPublisher(client, serializer, cfg.Topic, logger), nil
}

func newKafkaPublisher(producer recordProducer, serializer *EventSerializer, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer:   producer,
		serializer: serializer,
		topic:      topic,
		logger:     logger,
	}
}

// EventTypes returns nil: every event is forwarded
func (p *KafkaPublisher) EventTypes() []string {
	return nil
}

// Handle produces the event and waits for the broker acknowledgement
func (p *KafkaPublisher) Handle(ctx context.Context, event shared.DomainEvent) error {
	value, err := p.serializer.Marshal(event)
	if err != nil {
		return err
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.AggregateID().String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.EventType())},
			{Key: "tenant_id", Value: []byte(event.TenantID().String())},
		},
	}
	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce %s: %w", event.EventType(), err)
	}

	p.logger.Debug("event forwarded to kafka",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("topic", p.topic),
	)
	return nil
}

// Close flushes and closes the client
func (p *KafkaPublisher) Close() {
	p.producer.Close()
}

var _ shared.EventHandler = (*KafkaPublisher)(nil)
