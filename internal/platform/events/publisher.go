// Package events publishes subscription lifecycle events to Kafka.
//
// Publishing is strictly best-effort and happens after the corresponding
// database state is committed: a lost event never invalidates a
// subscription, and nothing replays events to retry email delivery.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Event types emitted by the subscription workflows.
const (
	TypeSubscriptionCreated   = "subscription.created"
	TypeSubscriptionConfirmed = "subscription.confirmed"
)

// Event is one lifecycle record, keyed by subscriber id.
type Event struct {
	Type         string    `json:"type"`
	SubscriberID uuid.UUID `json:"subscriber_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher emits events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// KafkaPublisher produces JSON events to a single topic.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects to the given brokers. Returns (nil, nil) when
// brokers is empty; callers treat a nil publisher as "events disabled".
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

// Publish produces one event synchronously. Callers run this after commit
// and log failures rather than surfacing them.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.SubscriberID.String()),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

// Close flushes and shuts down the producer.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
