package queries

import (
	"context"

	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderByExternalIDQueryHandler reads a single order by its upstream
// identifier straight from the database.
type GetOrderByExternalIDQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderByExternalIDQueryHandler creates a handler for external-id
// lookups. Requires a GORM database connection for query execution.
func NewGetOrderByExternalIDQueryHandler(db *gorm.DB) GetOrderByExternalIDQueryHandler {
	return GetOrderByExternalIDQueryHandler{db: db}
}

// Handle executes the lookup. Fails with errs.ErrObjectNotFound if no order
// with the given external order id exists.
func (h GetOrderByExternalIDQueryHandler) Handle(
	ctx context.Context,
	query GetOrderByExternalIDQuery,
) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	orders, err := loadOrders(ctx, h.db, `WHERE external_order_id = ?`, query.ExternalOrderID())
	if err != nil {
		return OrderResponse{}, err
	}
	if len(orders) == 0 {
		return OrderResponse{}, errs.NewObjectNotFoundError("externalOrderId", query.ExternalOrderID())
	}

	return orders[0], nil
}
