package commands

import (
	"errors"
	"fmt"
	"strings"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderItemData carries the raw attributes of a single inbound line
// item. The values are validated structurally by NewCreateOrderCommand and
// converted into domain objects by the handler.
type CreateOrderItemData struct {
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// CreateOrderCommand represents a request to register a new customer order.
// It carries the raw inbound values; structural validation happens here,
// before any domain object is touched, so a malformed request never reaches
// the aggregate.
//
// Example:
//
//	items := []CreateOrderItemData{{
//	    ProductID:   "PROD-1",
//	    ProductName: "Wireless Mouse",
//	    UnitPrice:   decimal.NewFromFloat(50.00),
//	    Quantity:    2,
//	}}
//	cmd, err := NewCreateOrderCommand("EXT-100", "BRL", correlationID, items)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, publisher, logger)
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	externalOrderID string
	currency        string
	correlationID   string
	items           []CreateOrderItemData

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates that the external order id is present, at least one item is
// given, and every item carries a product id, a name, a positive unit price
// and a positive quantity. An empty currency falls back to the system
// default; correlationID may be empty and is only carried into the
// status-change notification.
func NewCreateOrderCommand(
	externalOrderID string,
	currency string,
	correlationID string,
	items []CreateOrderItemData,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		correlationID: strings.TrimSpace(correlationID),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setExternalOrderID(externalOrderID),
		orderCommand.setCurrency(currency),
		orderCommand.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// ExternalOrderID returns the upstream identifier of the order.
func (c CreateOrderCommand) ExternalOrderID() string {
	return c.externalOrderID
}

// Currency returns the ISO 4217 currency code shared by all items.
func (c CreateOrderCommand) Currency() string {
	return c.currency
}

// CorrelationID returns the request correlation identifier, possibly empty.
func (c CreateOrderCommand) CorrelationID() string {
	return c.correlationID
}

// Items returns the raw inbound line items.
func (c CreateOrderCommand) Items() []CreateOrderItemData {
	return c.items
}

func (c *CreateOrderCommand) setExternalOrderID(externalOrderID string) error {
	trimmed := strings.TrimSpace(externalOrderID)
	if trimmed == "" {
		return errs.NewValueIsRequiredError("externalOrderId")
	}

	c.externalOrderID = trimmed
	return nil
}

func (c *CreateOrderCommand) setCurrency(currency string) error {
	c.currency = strings.ToUpper(strings.TrimSpace(currency))
	return nil
}

func (c *CreateOrderCommand) setItems(items []CreateOrderItemData) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	validationErrors := make([]error, 0, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			validationErrors = append(validationErrors,
				errs.NewValueIsRequiredError(fmt.Sprintf("items[%d].productId", i)))
		}
		if strings.TrimSpace(item.ProductName) == "" {
			validationErrors = append(validationErrors,
				errs.NewValueIsRequiredError(fmt.Sprintf("items[%d].productName", i)))
		}
		if !item.UnitPrice.IsPositive() {
			validationErrors = append(validationErrors,
				errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].unitPrice", i),
					fmt.Errorf("%s is not greater than zero", item.UnitPrice)))
		}
		if item.Quantity <= 0 {
			validationErrors = append(validationErrors,
				errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].quantity", i),
					fmt.Errorf("%d is not greater than 0", item.Quantity)))
		}
	}
	if err := errors.Join(validationErrors...); err != nil {
		return err
	}

	c.items = make([]CreateOrderItemData, len(items))
	copy(c.items, items)
	return nil
}
