package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

// productNameMaxLength caps the display name carried by an order item.
const productNameMaxLength = 255

// ErrOrderItemIsNotConstructed is returned when an OrderItem instance was
// not created through NewOrderItem or RestoreOrderItem.
var ErrOrderItemIsNotConstructed = errors.New(
	"OrderItem must be created via NewOrderItem or RestoreOrderItem constructors")

// OrderItem represents a single line of an order: a product reference, the
// quantity ordered, the unit price, and the derived subtotal.
//
// The subtotal is a pure function of unit price and quantity; it is computed
// at construction time and can never be set independently. OrderItem is
// immutable once built and is owned exclusively by its Order aggregate.
type OrderItem struct {
	// id is the unique identifier of the line item
	id kernel.UUID

	// productID references the product in the upstream catalog
	productID kernel.ProductID

	// productName is the display name (1-255 characters)
	productName string

	// unitPrice is the positive price per unit
	unitPrice kernel.Money

	// quantity is the number of units (greater than 0)
	quantity int

	// subtotal is always unitPrice * quantity
	subtotal kernel.Money

	// createdAt records when the item was built
	createdAt time.Time

	// isConstructed ensures the item was created via a constructor
	isConstructed bool
}

// NewOrderItem creates a new OrderItem with validation and computes its
// subtotal. This is the only way to create a fresh item, ensuring all
// invariants hold before the item joins an aggregate.
func NewOrderItem(
	id kernel.UUID,
	productID kernel.ProductID,
	productName string,
	unitPrice kernel.Money,
	quantity int,
) (*OrderItem, error) {
	return newOrderItem(id, productID, productName, unitPrice, quantity, time.Now().UTC())
}

// RestoreOrderItem reconstructs an OrderItem from persistent storage,
// preserving its original creation time. The subtotal is recomputed rather
// than read back, keeping it a derived value even across persistence.
func RestoreOrderItem(
	id kernel.UUID,
	productID kernel.ProductID,
	productName string,
	unitPrice kernel.Money,
	quantity int,
	createdAt time.Time,
) (*OrderItem, error) {
	if createdAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("createdAt")
	}
	return newOrderItem(id, productID, productName, unitPrice, quantity, createdAt)
}

func newOrderItem(
	id kernel.UUID,
	productID kernel.ProductID,
	productName string,
	unitPrice kernel.Money,
	quantity int,
	createdAt time.Time,
) (*OrderItem, error) {
	item := &OrderItem{
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setProductID(productID),
		item.setProductName(productName),
		item.setUnitPrice(unitPrice),
		item.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	subtotal, err := item.unitPrice.MultiplyInt(item.quantity)
	if err != nil {
		return nil, err
	}
	item.subtotal = subtotal

	return item, nil
}

// Validate ensures the OrderItem was properly constructed.
func (i *OrderItem) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrOrderItemIsNotConstructed
	}

	return nil
}

// IsEqual compares two items by their unique identifiers.
func (i *OrderItem) IsEqual(other *OrderItem) bool {
	return other != nil && i.id.IsEqual(other.id)
}

// ID returns the item's unique identifier.
func (i *OrderItem) ID() kernel.UUID {
	return i.id
}

// ProductID returns the referenced product identifier.
func (i *OrderItem) ProductID() kernel.ProductID {
	return i.productID
}

// ProductName returns the product display name.
func (i *OrderItem) ProductName() string {
	return i.productName
}

// UnitPrice returns the price per unit.
func (i *OrderItem) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Quantity returns the number of units.
func (i *OrderItem) Quantity() int {
	return i.quantity
}

// Subtotal returns unitPrice multiplied by quantity, rounded to two
// fractional digits.
func (i *OrderItem) Subtotal() kernel.Money {
	return i.subtotal
}

// CreatedAt returns when the item was built.
func (i *OrderItem) CreatedAt() time.Time {
	return i.createdAt
}

func (i *OrderItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *OrderItem) setProductID(productID kernel.ProductID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *OrderItem) setProductName(productName string) error {
	trimmed := strings.TrimSpace(productName)
	if trimmed == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	if len(trimmed) > productNameMaxLength {
		return errs.NewValueIsOutOfRangeError("productName", len(trimmed), 1, productNameMaxLength)
	}
	i.productName = trimmed
	return nil
}

func (i *OrderItem) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.Validate(); err != nil {
		return err
	}
	if !unitPrice.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("unitPrice",
			fmt.Errorf("%s is not greater than zero", unitPrice))
	}
	i.unitPrice = unitPrice
	return nil
}

func (i *OrderItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}
