package commands

import (
	"context"
	"log/slog"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// MarkOrderAvailableCommandHandler moves a calculated order into the
// Available terminal state and persists the change under the optimistic
// version check.
type MarkOrderAvailableCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewMarkOrderAvailableCommandHandler creates a handler for publishing
// orders. Requires an OrderUoWFactory for transactional persistence;
// publisher may be nil when status-change notifications are disabled.
func NewMarkOrderAvailableCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) MarkOrderAvailableCommandHandler {
	return MarkOrderAvailableCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the command. Fails with errs.ErrObjectNotFound if the
// order does not exist and with order.ErrInvalidStatusTransition if the
// order is not in Calculated status. Returns the updated aggregate.
func (h *MarkOrderAvailableCommandHandler) Handle(
	ctx context.Context,
	cmd MarkOrderAvailableCommand,
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
	if err = aggregate.MarkAsAvailable(); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishStatusChange(ctx, h.publisher, h.logger, aggregate, previousStatus, "")

	return aggregate, nil
}
