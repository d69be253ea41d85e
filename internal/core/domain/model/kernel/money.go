package kernel

import (
	"errors"
	"fmt"
	"regexp"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	// moneyScale is the number of fractional digits every Money carries.
	moneyScale = 2

	// DefaultCurrency is applied when an inbound message carries no currency.
	DefaultCurrency = "BRL"
)

// currencyPattern accepts ISO 4217 alphabetic currency codes.
var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ErrMoneyIsNotConstructed is returned when validating a zero-value Money.
// Money must be created via NewMoney or MoneyFromString.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"Money must be created via NewMoney or MoneyFromString constructors")

// ErrInvalidMoney is the sentinel for every monetary rule violation:
// negative amounts, negative results, negative factors, and arithmetic or
// comparison across different currencies. Classify with errors.Is; extract
// details with errors.As against *InvalidMoneyError.
var ErrInvalidMoney = errors.New("invalid money")

// InvalidMoneyError reports a violated monetary rule.
type InvalidMoneyError struct {
	ParamName string
	Cause     error
}

// NewInvalidMoneyError creates an InvalidMoneyError without a cause.
func NewInvalidMoneyError(paramName string) *InvalidMoneyError {
	return &InvalidMoneyError{ParamName: paramName}
}

// NewInvalidMoneyErrorWithCause creates an InvalidMoneyError wrapping cause.
func NewInvalidMoneyErrorWithCause(paramName string, cause error) *InvalidMoneyError {
	return &InvalidMoneyError{ParamName: paramName, Cause: cause}
}

func (e *InvalidMoneyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrInvalidMoney, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidMoney, e.ParamName)
}

func (e *InvalidMoneyError) Unwrap() error {
	return ErrInvalidMoney
}

// Money represents a monetary amount in a single currency.
// Money is an immutable value object: the amount is always stored rounded to
// exactly two fractional digits (round half up), is never negative, and every
// operation returns a new instance. Binary operations require both operands
// to share the currency and fail with ErrInvalidMoney otherwise.
//
// The zero value of Money is invalid and will fail validation - use the
// constructors to create instances.
//
// Example:
//
//	price, err := kernel.NewMoney(decimal.NewFromFloat(50.00), "BRL")
//	if err != nil {
//	    // handle validation error
//	}
//	total, err := price.MultiplyInt(2)
//	fmt.Println(total) // Output: BRL 100.00
type Money struct { //nolint:recvcheck //using for validation
	amount   decimal.Decimal
	currency string

	guard guard.ConstructorGuard
}

// NewMoney creates a Money with the given amount and ISO 4217 currency code.
// The amount is rounded to two fractional digits using round half up.
// Returns ErrInvalidMoney if the amount is negative and a validation error if
// the currency code is malformed.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	money := Money{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(money.setAmount(amount), money.setCurrency(currency)); err != nil {
		return Money{}, err
	}

	return money, nil
}

// MoneyFromString creates a Money from a decimal string such as "190.00".
// Returns ErrInvalidMoney if the string does not parse as a decimal number
// or parses to a negative amount.
func MoneyFromString(amount string, currency string) (Money, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, NewInvalidMoneyErrorWithCause("amount", err)
	}
	return NewMoney(value, currency)
}

// ZeroMoney creates a Money of 0.00 in the given currency.
// It is the identity element for Add and the starting point for summation.
func ZeroMoney(currency string) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

// Validate checks if the Money was properly constructed using a constructor.
// The zero value of Money is invalid and will fail this validation.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the amount, always scaled to two fractional digits.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the ISO 4217 currency code.
func (m Money) Currency() string {
	return m.currency
}

// Add returns a new Money holding the sum of both amounts.
// Fails with ErrInvalidMoney if the currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if err := m.validateSameCurrency(other); err != nil {
		return Money{}, err
	}

	return NewMoney(m.amount.Add(other.amount), m.currency)
}

// Subtract returns a new Money holding the difference of both amounts.
// Fails with ErrInvalidMoney if the currencies differ or if the result
// would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.validateSameCurrency(other); err != nil {
		return Money{}, err
	}

	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, NewInvalidMoneyErrorWithCause("amount",
			fmt.Errorf("subtracting %s from %s yields a negative amount", other.amount, m.amount))
	}

	return NewMoney(result, m.currency)
}

// MultiplyInt returns a new Money holding the amount multiplied by factor.
// Fails with ErrInvalidMoney if the factor is negative.
func (m Money) MultiplyInt(factor int) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if factor < 0 {
		return Money{}, NewInvalidMoneyErrorWithCause("factor",
			fmt.Errorf("%d is negative", factor))
	}

	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(factor))), m.currency)
}

// Multiply returns a new Money holding the amount multiplied by a decimal
// factor, rounded back to two fractional digits.
// Fails with ErrInvalidMoney if the factor is negative.
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if factor.IsNegative() {
		return Money{}, NewInvalidMoneyErrorWithCause("factor",
			fmt.Errorf("%s is negative", factor))
	}

	return NewMoney(m.amount.Mul(factor), m.currency)
}

// IsGreaterThan reports whether this amount exceeds the other.
// Fails with ErrInvalidMoney if the currencies differ.
func (m Money) IsGreaterThan(other Money) (bool, error) {
	if err := m.validateSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// IsLessThan reports whether this amount is below the other.
// Fails with ErrInvalidMoney if the currencies differ.
func (m Money) IsLessThan(other Money) (bool, error) {
	if err := m.validateSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsEqual compares two Money values by amount and currency.
func (m Money) IsEqual(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns a human-readable representation such as "BRL 190.00".
// This method implements the fmt.Stringer interface.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.amount.StringFixed(moneyScale))
}

func (m Money) validateSameCurrency(other Money) error {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return err
	}
	if m.currency != other.currency {
		return NewInvalidMoneyErrorWithCause("currency",
			fmt.Errorf("currencies differ: %s and %s", m.currency, other.currency))
	}
	return nil
}

// setAmount stores the amount rounded half up to two fractional digits.
// Note: We intentionally use a pointer receiver here while other methods use
// value receivers, so that construction-time validation stays encapsulated
// next to the field it guards.
func (m *Money) setAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewInvalidMoneyErrorWithCause("amount",
			fmt.Errorf("%s is negative", amount))
	}

	m.amount = amount.Round(moneyScale)
	return nil
}

// setCurrency validates and stores the ISO 4217 currency code.
func (m *Money) setCurrency(currency string) error {
	if currency == "" {
		return errs.NewValueIsRequiredError("currency")
	}
	if !currencyPattern.MatchString(currency) {
		return errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not an ISO 4217 code", currency))
	}

	m.currency = currency
	return nil
}
