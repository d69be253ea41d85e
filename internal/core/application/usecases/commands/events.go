package commands

import (
	"context"
	"log/slog"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// publishStatusChange notifies downstream consumers that an order moved to a
// new lifecycle state. Publication is fire-and-forget: a failed publish is
// logged and never fails the business operation that produced it.
func publishStatusChange(
	ctx context.Context,
	publisher ports.EventPublisher,
	logger *slog.Logger,
	aggregate *order.Order,
	previousStatus order.Status,
	correlationID string,
) {
	if publisher == nil {
		return
	}
	if correlationID == "" {
		correlationID = kernel.NewUUID().String()
	}

	event := ports.OrderStatusChangedEvent{
		OrderID:        aggregate.ID().String(),
		PreviousStatus: previousStatus,
		CurrentStatus:  aggregate.Status(),
		CustomerID:     aggregate.ExternalOrderID().Value(),
		ChangedAt:      time.Now().UTC(),
		CorrelationID:  correlationID,
	}

	if err := publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		logger.WarnContext(ctx, "failed to publish order status change",
			"order_id", event.OrderID,
			"previous_status", event.PreviousStatus.String(),
			"current_status", event.CurrentStatus.String(),
			"error", err)
	}
}
