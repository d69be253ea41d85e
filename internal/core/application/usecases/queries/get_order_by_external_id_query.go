package queries

import (
	"errors"
	"strings"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrGetOrderByExternalIDQueryIsNotConstructed = errors.New(
	"GetOrderByExternalIDQuery must be created via NewGetOrderByExternalIDQuery constructor",
)

// GetOrderByExternalIDQuery retrieves a single order with its items by the
// identifier assigned by the upstream system.
type GetOrderByExternalIDQuery struct { //nolint:recvcheck //using for validation
	externalOrderID string

	guard guard.ConstructorGuard
}

// NewGetOrderByExternalIDQuery creates a query for a single order looked up
// by external order id. Validates that the identifier is present.
func NewGetOrderByExternalIDQuery(externalOrderID string) (GetOrderByExternalIDQuery, error) {
	query := GetOrderByExternalIDQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setExternalOrderID(externalOrderID); err != nil {
		return GetOrderByExternalIDQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderByExternalIDQueryIsNotConstructed if validation fails.
func (q GetOrderByExternalIDQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderByExternalIDQueryIsNotConstructed)
}

// ExternalOrderID returns the upstream identifier of the requested order.
func (q GetOrderByExternalIDQuery) ExternalOrderID() string {
	return q.externalOrderID
}

func (q *GetOrderByExternalIDQuery) setExternalOrderID(externalOrderID string) error {
	trimmed := strings.TrimSpace(externalOrderID)
	if trimmed == "" {
		return errs.NewValueIsRequiredError("externalOrderId")
	}

	q.externalOrderID = trimmed
	return nil
}
