package kernel

import (
	"fmt"
	"regexp"
	"strings"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

const identifierMaxLength = 100

// identifierPattern accepts alphanumeric characters, hyphen and underscore.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ErrExternalOrderIDIsNotConstructed is returned when validating a zero-value
// ExternalOrderID. Use NewExternalOrderID to create instances.
var ErrExternalOrderIDIsNotConstructed = errs.NewValueIsRequiredError(
	"ExternalOrderID must be created via NewExternalOrderID constructor")

// ErrProductIDIsNotConstructed is returned when validating a zero-value
// ProductID. Use NewProductID to create instances.
var ErrProductIDIsNotConstructed = errs.NewValueIsRequiredError(
	"ProductID must be created via NewProductID constructor")

// ExternalOrderID identifies an order in the upstream system that submitted
// it. It is unique across the whole system; uniqueness is enforced at the
// storage boundary, not by this value object.
//
// Rules: non-blank after trimming, at most 100 characters, and limited to
// alphanumerics, hyphen and underscore.
type ExternalOrderID struct { //nolint:recvcheck //using for validation
	value string

	guard guard.ConstructorGuard
}

// NewExternalOrderID creates a validated ExternalOrderID from a raw string.
// The value is trimmed before validation.
func NewExternalOrderID(value string) (ExternalOrderID, error) {
	id := ExternalOrderID{
		guard: guard.NewConstructorGuard(),
	}

	if err := id.setValue(value); err != nil {
		return ExternalOrderID{}, err
	}

	return id, nil
}

// Validate checks if the ExternalOrderID was created via its constructor.
func (e ExternalOrderID) Validate() error {
	return e.guard.Validate(ErrExternalOrderIDIsNotConstructed)
}

// Value returns the identifier string.
func (e ExternalOrderID) Value() string {
	return e.value
}

// IsEqual compares two external order identifiers by value.
func (e ExternalOrderID) IsEqual(other ExternalOrderID) bool {
	return e.value == other.value
}

// String implements fmt.Stringer.
func (e ExternalOrderID) String() string {
	return e.value
}

func (e *ExternalOrderID) setValue(value string) error {
	validated, err := validateIdentifier("externalOrderId", value)
	if err != nil {
		return err
	}

	e.value = validated
	return nil
}

// ProductID identifies a product referenced by an order item.
// It follows the same format rules as ExternalOrderID.
type ProductID struct { //nolint:recvcheck //using for validation
	value string

	guard guard.ConstructorGuard
}

// NewProductID creates a validated ProductID from a raw string.
// The value is trimmed before validation.
func NewProductID(value string) (ProductID, error) {
	id := ProductID{
		guard: guard.NewConstructorGuard(),
	}

	if err := id.setValue(value); err != nil {
		return ProductID{}, err
	}

	return id, nil
}

// Validate checks if the ProductID was created via its constructor.
func (p ProductID) Validate() error {
	return p.guard.Validate(ErrProductIDIsNotConstructed)
}

// Value returns the identifier string.
func (p ProductID) Value() string {
	return p.value
}

// IsEqual compares two product identifiers by value.
func (p ProductID) IsEqual(other ProductID) bool {
	return p.value == other.value
}

// String implements fmt.Stringer.
func (p ProductID) String() string {
	return p.value
}

func (p *ProductID) setValue(value string) error {
	validated, err := validateIdentifier("productId", value)
	if err != nil {
		return err
	}

	p.value = validated
	return nil
}

// validateIdentifier applies the shared identifier rules and returns the
// trimmed value.
func validateIdentifier(paramName string, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", errs.NewValueIsRequiredError(paramName)
	}
	if len(trimmed) > identifierMaxLength {
		return "", errs.NewValueIsOutOfRangeError(paramName, len(trimmed), 1, identifierMaxLength)
	}
	if !identifierPattern.MatchString(trimmed) {
		return "", errs.NewValueIsInvalidErrorWithCause(paramName,
			fmt.Errorf("%q contains characters outside [a-zA-Z0-9_-]", trimmed))
	}

	return trimmed, nil
}
