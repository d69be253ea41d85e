package commands

import (
	"context"
	"log/slog"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// MarkOrderFailedCommandHandler moves an order into the Failed terminal
// state and persists the change under the optimistic version check. The
// failure reason, when given, is logged but never stored.
type MarkOrderFailedCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewMarkOrderFailedCommandHandler creates a handler for failing orders.
// Requires an OrderUoWFactory for transactional persistence; publisher may
// be nil when status-change notifications are disabled.
func NewMarkOrderFailedCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) MarkOrderFailedCommandHandler {
	return MarkOrderFailedCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the command. Fails with errs.ErrObjectNotFound if the
// order does not exist and with order.ErrInvalidStatusTransition if the
// order already completed successfully. Returns the updated aggregate.
func (h *MarkOrderFailedCommandHandler) Handle(
	ctx context.Context,
	cmd MarkOrderFailedCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	previousStatus := aggregate.Status()
	if err = aggregate.MarkAsFailed(); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if cmd.Reason() != "" {
		h.logger.WarnContext(ctx, "order marked as failed",
			"order_id", aggregate.ID().String(),
			"reason", cmd.Reason())
	}

	publishStatusChange(ctx, h.publisher, h.logger, aggregate, previousStatus, "")

	return aggregate, nil
}
