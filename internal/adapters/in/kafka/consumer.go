// Package kafka implements the inbound Kafka transport. A consumer group
// reads order-created events published by the upstream sales system and
// turns each one into a create-order command.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"github.com/IBM/sarama"
	"github.com/shopspring/decimal"
)

// OrderCreatedEvent is the wire format of an inbound order notification.
// The customer id doubles as the external order identifier under which the
// order is registered here.
type OrderCreatedEvent struct {
	CorrelationID string                  `json:"correlation_id"`
	CustomerID    string                  `json:"customer_id"`
	Items         []OrderCreatedEventItem `json:"items"`
	CreatedAt     time.Time               `json:"created_at"`
}

// OrderCreatedEventItem is a single purchased line in an inbound event.
type OrderCreatedEventItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Consumer consumes order-created events and feeds them into the create
// order use case.
type Consumer struct {
	brokers       []string
	groupID       string
	topic         string
	createHandler commands.CreateOrderCommandHandler
	logger        *slog.Logger
}

// NewConsumer creates a Kafka consumer group client for order-created events.
func NewConsumer(
	brokers []string,
	groupID string,
	topic string,
	createHandler commands.CreateOrderCommandHandler,
	logger *slog.Logger,
) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}
	if strings.TrimSpace(groupID) == "" {
		return nil, errs.NewValueIsRequiredError("groupID")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Consumer{
		brokers:       brokers,
		groupID:       groupID,
		topic:         topic,
		createHandler: createHandler,
		logger:        logger,
	}, nil
}

// Run joins the consumer group and processes messages until the context is
// cancelled. Rebalances restart the consume loop transparently.
func (c *Consumer) Run(ctx context.Context) error {
	config := sarama.NewConfig()
	config.Version = sarama.V3_0_0_0
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{
		sarama.BalanceStrategyRoundRobin,
	}

	group, err := sarama.NewConsumerGroup(c.brokers, c.groupID, config)
	if err != nil {
		return fmt.Errorf("create kafka consumer group: %w", err)
	}
	defer func() {
		if closeErr := group.Close(); closeErr != nil {
			c.logger.Error("failed to close consumer group", "error", closeErr)
		}
	}()

	handler := &consumerGroupHandler{consumer: c}

	for {
		if err := group.Consume(ctx, []string{c.topic}, handler); err != nil {
			c.logger.ErrorContext(ctx, "consumer group error", "error", err)
		}

		if ctx.Err() != nil {
			c.logger.InfoContext(ctx, "context cancelled, shutting down consumer")
			return nil
		}
	}
}

// processMessage decodes one inbound event and runs the create-order use
// case. A duplicate external order id means the event was already processed,
// so redeliveries are acknowledged instead of retried. A payload that cannot
// be decoded or fails validation will never succeed and is dropped with a
// log line; any other failure is returned so the message stays unmarked and
// gets redelivered.
func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	cmd, err := commandFromMessage(msg.Value)
	if err != nil {
		c.logger.ErrorContext(ctx, "dropping malformed order created event",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	created, err := c.createHandler.Handle(ctx, cmd)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDuplicateValue):
			c.logger.InfoContext(ctx, "order already registered, skipping",
				"externalOrderId", cmd.ExternalOrderID())
			return nil
		case errors.Is(err, errs.ErrValueIsRequired),
			errors.Is(err, errs.ErrValueIsInvalid),
			errors.Is(err, errs.ErrValueIsOutOfRange),
			errors.Is(err, kernel.ErrInvalidMoney):
			c.logger.ErrorContext(ctx, "dropping invalid order created event",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			return nil
		default:
			return err
		}
	}

	c.logger.InfoContext(ctx, "order created from event",
		"orderId", created.ID().String(),
		"externalOrderId", created.ExternalOrderID().Value(),
		"totalAmount", created.TotalAmount().String(),
	)
	return nil
}

// commandFromMessage maps a raw event payload to a create-order command.
// An item without a product name falls back to its product id.
func commandFromMessage(payload []byte) (commands.CreateOrderCommand, error) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return commands.CreateOrderCommand{}, fmt.Errorf("unmarshal order created event: %w", err)
	}

	items := make([]commands.CreateOrderItemData, 0, len(event.Items))
	for _, item := range event.Items {
		productName := strings.TrimSpace(item.ProductName)
		if productName == "" {
			productName = item.ProductID
		}
		items = append(items, commands.CreateOrderItemData{
			ProductID:   item.ProductID,
			ProductName: productName,
			UnitPrice:   item.Price,
			Quantity:    item.Quantity,
		})
	}

	return commands.NewCreateOrderCommand(event.CustomerID, "", event.CorrelationID, items)
}

// consumerGroupHandler adapts the consumer to sarama's group protocol.
type consumerGroupHandler struct {
	consumer *Consumer
}

func (h *consumerGroupHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(
	session sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	for msg := range claim.Messages() {
		if err := h.consumer.processMessage(session.Context(), msg); err != nil {
			// Leave the message unmarked and stop the claim here; marking
			// later messages would commit an offset past the failed one.
			// The group redelivers from the last committed offset.
			h.consumer.logger.Error("failed to process message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			return err
		}

		session.MarkMessage(msg, "")
	}

	return nil
}
