package order

import (
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New(
		"Order must be created via NewOrder or RestoreOrder constructors")
)

// Order represents a customer order in the system. It is the aggregate root that
// manages the order lifecycle from reception through total calculation to
// availability or failure.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and external order id
//   - Contains at least one line item at all times after construction
//   - Items can only be added while the order is in Received status
//   - The total amount is always the sum of all item subtotals in one currency
//   - Status transitions follow the defined state machine
//   - Can only be created through NewOrder or RestoreOrder constructors
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods. The version field is an optimistic
// concurrency counter owned by the persistence layer; the aggregate carries it
// but never increments it.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// externalOrderID is the upstream identifier, unique across the system
	externalOrderID kernel.ExternalOrderID

	// items are the order lines, in insertion order
	items []*OrderItem

	// totalAmount is the sum of all item subtotals
	totalAmount kernel.Money

	// status represents the current state in the order lifecycle
	status Status

	// version is the optimistic concurrency counter
	version int64

	// createdAt records when the order was received
	createdAt time.Time

	// updatedAt records the last state change
	updatedAt time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order instance with validation. This is the only way
// to create a fresh order, ensuring all business invariants are maintained.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - externalOrderID: Validated upstream order identifier
//   - items: The initial line items; at least one is required
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
//
// Example:
//
//	orderID := kernel.NewUUID()
//	externalID, _ := kernel.NewExternalOrderID("EXT-100")
//	order, err := NewOrder(orderID, externalID, items)
//	if err != nil {
//	    // Handle validation error
//	}
//
// The constructor validates all inputs and ensures the order is created in
// Received status with at least one item, no total, and version zero. An
// order never exists without items; more can be appended via AddItem while
// the order remains in Received status.
func NewOrder(id kernel.UUID, externalOrderID kernel.ExternalOrderID, items []*OrderItem) (*Order, error) {
	now := time.Now().UTC()
	order := &Order{
		status:        Received,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setExternalOrderID(externalOrderID),
		order.setItems(items),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order from persistent storage. Unlike NewOrder
// it accepts the full persisted state, including the stored status, version and
// timestamps, and performs the same field validation.
//
// The total amount is taken as stored rather than recomputed, so a restored
// order round-trips byte for byte; CalculateTotal can always be re-run to
// verify it.
func RestoreOrder(
	id kernel.UUID,
	externalOrderID kernel.ExternalOrderID,
	items []*OrderItem,
	totalAmount kernel.Money,
	status Status,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	order := &Order{
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setExternalOrderID(externalOrderID),
		order.setItems(items),
		order.setTotalAmount(totalAmount),
		order.setStatus(status),
		order.setTimestamps(createdAt, updatedAt),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate ensures the Order instance was properly constructed.
//
// Returns:
//   - nil if the order is valid
//   - ErrOrderIsNotConstructed if the order was not created via a constructor
//
// This method should be called when reconstructing orders from persistence
// to ensure data integrity.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
// Orders are considered equal if they have the same ID.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// ExternalOrderID returns the upstream order identifier.
func (o *Order) ExternalOrderID() kernel.ExternalOrderID {
	return o.externalOrderID
}

// Items returns a copy of the order's line items in insertion order.
// Mutating the returned slice does not affect the aggregate.
func (o *Order) Items() []*OrderItem {
	items := make([]*OrderItem, len(o.items))
	copy(items, o.items)
	return items
}

// ItemCount returns the number of line items.
func (o *Order) ItemCount() int {
	return len(o.items)
}

// TotalAmount returns the sum of all item subtotals. The total is only
// meaningful after CalculateTotal has run; before that the zero Money
// value is returned.
func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Version returns the optimistic concurrency counter. The counter is
// incremented by the persistence layer on every successful update, never
// by the aggregate itself.
func (o *Order) Version() int64 {
	return o.version
}

// CreatedAt returns when the order was received.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the time of the last state change.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsAvailable reports whether the order reached its terminal success state.
func (o *Order) IsAvailable() bool {
	return o.status == Available
}

// IsFailed reports whether the order reached its terminal failure state.
func (o *Order) IsFailed() bool {
	return o.status == Failed
}

// AddItem appends a line item to the order.
//
// This method enforces the following business rules:
//   - The item must be a properly constructed OrderItem
//   - Items can only be added while the order is in Received status
//
// Parameters:
//   - item: The validated line item to append
//
// Returns:
//   - nil on success
//   - error if the item is invalid or the order already left Received status
//
// After a successful append the order's updatedAt timestamp is advanced.
// The total amount is not recomputed automatically; call CalculateTotal
// once all items are in place.
func (o *Order) AddItem(item *OrderItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	if o.status != Received {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("items can only be added in %s status, current status is %s", Received, o.status))
	}

	o.items = append(o.items, item)
	o.touch()
	return nil
}

// CalculateTotal computes the order total as the sum of all item subtotals.
//
// This method enforces the following business rules:
//   - The order must contain at least one item
//   - All items must share one currency (a mismatch surfaces from Money's add)
//   - If the order is in Received or Processing status it advances to
//     Calculated; in any other status the total is refreshed without a
//     status change
//
// Returns:
//   - nil on success
//   - error if the order has no items or currencies are mixed
//
// The method is idempotent: calling it twice with unchanged items yields the
// same total and no status advance beyond Calculated.
func (o *Order) CalculateTotal() error {
	if len(o.items) == 0 {
		return errs.NewValueIsInvalidErrorWithCause("items",
			errors.New("cannot calculate total for an order without items"))
	}

	total, err := kernel.ZeroMoney(o.items[0].UnitPrice().Currency())
	if err != nil {
		return err
	}
	for _, item := range o.items {
		total, err = total.Add(item.Subtotal())
		if err != nil {
			return err
		}
	}

	o.totalAmount = total
	if o.status == Received || o.status == Processing {
		o.status = Calculated
	}
	o.touch()
	return nil
}

// StartProcessing moves the order from Received to Processing.
//
// Returns:
//   - nil on success
//   - error if the order is not in Received status
func (o *Order) StartProcessing() error {
	newStatus, err := o.status.TransitionTo(Processing)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch()
	return nil
}

// MarkAsAvailable moves the order from Calculated to Available, the terminal
// success state.
//
// Returns:
//   - nil on success
//   - error if the order is not in Calculated status
func (o *Order) MarkAsAvailable() error {
	newStatus, err := o.status.TransitionTo(Available)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch()
	return nil
}

// MarkAsFailed moves the order to the Failed terminal state. Failure is
// reachable from any state except Available.
//
// Returns:
//   - nil on success
//   - error if the order already completed successfully
func (o *Order) MarkAsFailed() error {
	newStatus, err := o.status.MarkFailed()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch()
	return nil
}

// touch advances the updatedAt timestamp.
func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setExternalOrderID validates and sets the upstream order identifier.
// This is a private method used only during construction.
func (o *Order) setExternalOrderID(externalOrderID kernel.ExternalOrderID) error {
	if err := externalOrderID.Validate(); err != nil {
		return err
	}
	o.externalOrderID = externalOrderID
	return nil
}

// setItems validates and sets the order's line items. An empty collection is
// rejected so an order never materializes without items.
// This is a private method used only during construction.
func (o *Order) setItems(items []*OrderItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]*OrderItem, len(items))
	copy(o.items, items)
	return nil
}

// setTotalAmount validates and sets the restored total.
// This is a private method used only during restoration.
func (o *Order) setTotalAmount(totalAmount kernel.Money) error {
	if err := totalAmount.Validate(); err != nil {
		return err
	}
	o.totalAmount = totalAmount
	return nil
}

// setStatus validates and sets the restored status.
// This is a private method used only during restoration.
func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

// setTimestamps validates and sets the restored timestamps.
// This is a private method used only during restoration.
func (o *Order) setTimestamps(createdAt time.Time, updatedAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	if updatedAt.IsZero() {
		return errs.NewValueIsRequiredError("updatedAt")
	}
	o.createdAt = createdAt
	o.updatedAt = updatedAt
	return nil
}
