// Package ports defines the outbound interfaces of the order domain.
// These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Two invariants can only be enforced at this boundary, never in memory:
//   - externalOrderId is unique across the whole store; Add must fail with
//     errs.ErrDuplicateValue when a concurrent create slips past the
//     advisory ExistsByExternalOrderID pre-check.
//   - Update performs an optimistic version check and must fail with
//     errs.ErrVersionConflict instead of overwriting a row whose version
//     moved since the aggregate was loaded.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// Fails with errs.ErrDuplicateValue if an order with the same external
	// order id already exists.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, incrementing
	// its version. Fails with errs.ErrVersionConflict if the stored version
	// differs from the aggregate's.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Fails with errs.ErrObjectNotFound if no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByExternalOrderID retrieves an order aggregate by the identifier
	// assigned by the upstream system.
	// Fails with errs.ErrObjectNotFound if no such order exists.
	GetByExternalOrderID(ctx context.Context, externalOrderID kernel.ExternalOrderID) (*order.Order, error)

	// ExistsByExternalOrderID reports whether an order with the given
	// external order id exists. This is an advisory pre-check only; the
	// storage-level uniqueness constraint remains the guarantee.
	ExistsByExternalOrderID(ctx context.Context, externalOrderID kernel.ExternalOrderID) (bool, error)

	// GetAllInStatus retrieves all orders currently in the given status,
	// oldest first.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// GetAll retrieves all orders, oldest first.
	GetAll(ctx context.Context) ([]*order.Order, error)

	// GetCreatedBetween retrieves all orders created in the half-open
	// interval [from, to), oldest first.
	GetCreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]*order.Order, error)

	// Delete removes an order by its unique identifier.
	// Fails with errs.ErrObjectNotFound if no such order exists.
	Delete(ctx context.Context, id kernel.UUID) error

	// CountInStatus returns the number of orders in the given status.
	CountInStatus(ctx context.Context, status order.Status) (int64, error)
}
