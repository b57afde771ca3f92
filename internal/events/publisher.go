// Package events publishes media-updated notifications to Kafka so
// downstream consumers (search indexers, cache invalidators) learn about
// media state changes. Publishing is best effort: delivery guarantees are
// the transport's concern, not this service's.
package events

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/openlodging/mediasync/internal/domain"
)

// MediaUpdated is the notification payload for a processed image event.
type MediaUpdated struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	PropertyID int64     `json:"property_id"`
	GUID       string    `json:"guid"`
	MediaID    int64     `json:"media_id,omitempty"`
	Hero       bool      `json:"hero"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits media-updated notifications.
type Publisher interface {
	PublishMediaUpdated(ctx context.Context, n MediaUpdated) error
}

// KafkaPublisher publishes notifications to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher for the given broker and topic.
// Messages are keyed by property id so one property's updates stay ordered
// within a partition.
func NewKafkaPublisher(broker, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger,
	}
}

// PublishMediaUpdated implements Publisher.
func (p *KafkaPublisher) PublishMediaUpdated(ctx context.Context, n MediaUpdated) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(domain.DomainLodging + ":" + strconv.FormatInt(n.PropertyID, 10)),
		Value: data,
		Time:  n.OccurredAt,
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops all notifications; used when Kafka is disabled and in
// tests.
type NoopPublisher struct{}

// PublishMediaUpdated implements Publisher as a no-op.
func (NoopPublisher) PublishMediaUpdated(context.Context, MediaUpdated) error { return nil }
