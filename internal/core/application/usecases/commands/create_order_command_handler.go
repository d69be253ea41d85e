package commands

import (
	"context"
	"log/slog"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Builds the aggregate from the validated command, computes its total and
// persists it in a single transaction.
//
// The duplicate pre-check against the external order id is advisory only; a
// concurrent create that slips past it is stopped by the storage-level
// uniqueness constraint, which the repository surfaces as the same
// errs.ErrDuplicateValue.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence; publisher may be
// nil when status-change notifications are disabled.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the order creation command.
// Builds the order in Received status with all its line items, computes the
// total (advancing the order to Calculated) and persists it. Returns the
// created aggregate so transports can map the full response.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	externalOrderID, err := kernel.NewExternalOrderID(cmd.ExternalOrderID())
	if err != nil {
		return nil, err
	}

	currency := cmd.Currency()
	if currency == "" {
		currency = kernel.DefaultCurrency
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	exists, err := orderRepo.ExistsByExternalOrderID(ctx, externalOrderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewDuplicateValueError("externalOrderId", externalOrderID.Value())
	}

	items := make([]*order.OrderItem, 0, len(cmd.Items()))
	for _, itemData := range cmd.Items() {
		item, itemErr := buildOrderItem(itemData, currency)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	aggregate, err := order.NewOrder(kernel.NewUUID(), externalOrderID, items)
	if err != nil {
		return nil, err
	}

	if err = aggregate.CalculateTotal(); err != nil {
		return nil, err
	}

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishStatusChange(ctx, h.publisher, h.logger, aggregate, order.Received, cmd.CorrelationID())

	return aggregate, nil
}

// buildOrderItem converts raw inbound item data into a domain line item.
func buildOrderItem(itemData CreateOrderItemData, currency string) (*order.OrderItem, error) {
	productID, err := kernel.NewProductID(itemData.ProductID)
	if err != nil {
		return nil, err
	}

	unitPrice, err := kernel.NewMoney(itemData.UnitPrice, currency)
	if err != nil {
		return nil, err
	}

	return order.NewOrderItem(kernel.NewUUID(), productID, itemData.ProductName, unitPrice, itemData.Quantity)
}
