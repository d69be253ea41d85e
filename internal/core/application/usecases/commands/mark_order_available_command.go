package commands

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/guard"
)

var ErrMarkOrderAvailableCommandIsNotConstructed = errors.New(
	"MarkOrderAvailableCommand must be created via NewMarkOrderAvailableCommand constructor",
)

// MarkOrderAvailableCommand represents a request to move a calculated order
// into its terminal success state.
type MarkOrderAvailableCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkOrderAvailableCommand creates a command to publish an order for
// downstream consumption. Validates that the order ID is a properly
// constructed UUID.
func NewMarkOrderAvailableCommand(orderID kernel.UUID) (MarkOrderAvailableCommand, error) {
	orderCommand := MarkOrderAvailableCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderCommand.setOrderID(orderID); err != nil {
		return MarkOrderAvailableCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMarkOrderAvailableCommandIsNotConstructed if validation fails.
func (c MarkOrderAvailableCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderAvailableCommandIsNotConstructed)
}

// OrderID returns the unique identifier of the order to publish.
func (c MarkOrderAvailableCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *MarkOrderAvailableCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
