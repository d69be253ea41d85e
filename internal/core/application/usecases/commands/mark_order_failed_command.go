package commands

import (
	"errors"
	"strings"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/guard"
)

var ErrMarkOrderFailedCommandIsNotConstructed = errors.New(
	"MarkOrderFailedCommand must be created via NewMarkOrderFailedCommand constructor",
)

// MarkOrderFailedCommand represents a request to move an order into its
// terminal failure state. The optional free-text reason is carried for
// logging only and is never stored on the aggregate.
type MarkOrderFailedCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewMarkOrderFailedCommand creates a command to fail an order.
// Validates that the order ID is a properly constructed UUID; the reason may
// be empty.
func NewMarkOrderFailedCommand(orderID kernel.UUID, reason string) (MarkOrderFailedCommand, error) {
	orderCommand := MarkOrderFailedCommand{
		reason: strings.TrimSpace(reason),
		guard:  guard.NewConstructorGuard(),
	}

	if err := orderCommand.setOrderID(orderID); err != nil {
		return MarkOrderFailedCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMarkOrderFailedCommandIsNotConstructed if validation fails.
func (c MarkOrderFailedCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderFailedCommandIsNotConstructed)
}

// OrderID returns the unique identifier of the order to fail.
func (c MarkOrderFailedCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the optional failure reason, possibly empty.
func (c MarkOrderFailedCommand) Reason() string {
	return c.reason
}

func (c *MarkOrderFailedCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
