package ports

import (
	"context"
	"time"

	"orders/internal/core/domain/model/order"
)

// OrderStatusChangedEvent notifies downstream consumers that an order moved
// to a new lifecycle state.
type OrderStatusChangedEvent struct {
	OrderID        string       `json:"order_id"`
	PreviousStatus order.Status `json:"previous_status"`
	CurrentStatus  order.Status `json:"current_status"`
	CustomerID     string       `json:"customer_id"`
	ChangedAt      time.Time    `json:"changed_at"`
	CorrelationID  string       `json:"correlation_id"`
}

// EventPublisher defines the outbound contract for status-change
// notifications. Publication is fire-and-forget from the caller's
// perspective: a failed publish is logged by the implementation and never
// fails the business operation that produced the event.
type EventPublisher interface {
	// PublishOrderStatusChanged sends the event to the configured broker.
	PublishOrderStatusChanged(ctx context.Context, event OrderStatusChangedEvent) error
}
