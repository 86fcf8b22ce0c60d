// Package kafka provides an eventstream publisher backed by Apache Kafka.
// Events are JSON-encoded and keyed by request ID so that all events for
// one stream land on the same partition.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/splice/pkg/eventstream"
)

// Config is the configuration options for the Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic is the topic completion events are written to.
	Topic string
}

// Publisher publishes completion events to a Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
}

// NewPublisher creates a Kafka-backed publisher. The underlying writer
// connects lazily on first publish.
func NewPublisher(c Config) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if c.Topic == "" {
		return nil, errors.New("topic is required")
	}

	return &Publisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(c.Brokers...),
			Topic:        c.Topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireOne,
		},
	}, nil
}

// Publish writes the event to the configured topic, keyed by request ID.
func (p *Publisher) Publish(ctx context.Context, event *eventstream.StreamCompletedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event %s: %w", event.EventID, err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.RequestID.String()),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing event %s: %w", event.EventID, err)
	}

	return nil
}

// Close flushes pending messages and releases the writer's resources.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
