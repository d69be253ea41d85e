// Package kafka implements the outbound event publisher on top of a Kafka
// broker using the sarama client. Events are serialized as JSON and keyed by
// order id so all status changes of one order land on the same partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/IBM/sarama"
)

// Producer publishes order status change events to a single Kafka topic.
// Implements ports.EventPublisher.
type Producer struct {
	syncProducer sarama.SyncProducer
	topic        string
	logger       *slog.Logger
}

// NewProducer creates a Kafka producer for order status change events.
// The producer waits for acknowledgement from all in-sync replicas before
// reporting success.
func NewProducer(brokers []string, topic string, logger *slog.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	syncProducer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &Producer{
		syncProducer: syncProducer,
		topic:        topic,
		logger:       logger,
	}, nil
}

// PublishOrderStatusChanged sends the event to the configured topic, keyed
// by order id.
func (p *Producer) PublishOrderStatusChanged(
	ctx context.Context,
	event ports.OrderStatusChangedEvent,
) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order status changed event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.syncProducer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("send order status changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order status change",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"orderId", event.OrderID,
		"currentStatus", event.CurrentStatus.String(),
	)
	return nil
}

// Close shuts down the underlying sarama producer.
func (p *Producer) Close() error {
	return p.syncProducer.Close()
}
