package commands

import (
	"context"
	"log/slog"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// ProcessOrderCommandHandler handles the processing step of the order
// lifecycle. Loads the aggregate, moves it to Processing, recomputes the
// total (advancing it to Calculated) and persists the new state under the
// optimistic version check.
type ProcessOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewProcessOrderCommandHandler creates a handler for order processing
// operations. Requires an OrderUoWFactory for transactional persistence;
// publisher may be nil when status-change notifications are disabled.
func NewProcessOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ProcessOrderCommandHandler {
	return ProcessOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the command. Fails with errs.ErrObjectNotFound if the
// order does not exist and with order.ErrInvalidStatusTransition if the
// order is not in Received status. Returns the updated aggregate.
func (h *ProcessOrderCommandHandler) Handle(ctx context.Context, cmd ProcessOrderCommand) (*order.Order, error) {
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
	if err = aggregate.StartProcessing(); err != nil {
		return nil, err
	}
	if err = aggregate.CalculateTotal(); err != nil {
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
