// Package queries contains read-only operations over the order store.
// Implements the Query side of the CQRS architecture: handlers read
// denormalized rows straight from the database, bypassing the aggregate,
// and map them into flat response structures for transports.
package queries

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItemResponse represents a single order line in a query result.
type OrderItemResponse struct {
	ID          kernel.UUID
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Subtotal    decimal.Decimal
	Currency    string
}

// OrderResponse represents a full order in a query result, items included.
type OrderResponse struct {
	ID              kernel.UUID
	ExternalOrderID string
	TotalAmount     decimal.Decimal
	Currency        string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []OrderItemResponse
}

// loadOrders reads order rows matching the condition, oldest first, then
// attaches their items in one extra round trip. The condition is appended to
// the base statement verbatim and must only contain placeholders.
func loadOrders(ctx context.Context, db *gorm.DB, condition string, args ...any) ([]OrderResponse, error) {
	orders := make([]OrderResponse, 0)

	statement := `
		SELECT
			id,
			external_order_id,
			total_amount,
			currency,
			status,
			created_at,
			updated_at
		FROM orders
	` + condition + `
		ORDER BY created_at, id
	`

	rows, err := db.WithContext(ctx).Raw(statement, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orderIndex := make(map[uuid.UUID]int)
	orderIDs := make([]uuid.UUID, 0)

	for rows.Next() {
		var id uuid.UUID
		var orderResp OrderResponse

		err = rows.Scan(
			&id,
			&orderResp.ExternalOrderID,
			&orderResp.TotalAmount,
			&orderResp.Currency,
			&orderResp.Status,
			&orderResp.CreatedAt,
			&orderResp.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID
		orderResp.Items = make([]OrderItemResponse, 0)

		orderIndex[id] = len(orders)
		orderIDs = append(orderIDs, id)
		orders = append(orders, orderResp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return orders, nil
	}

	if err = attachItems(ctx, db, orders, orderIndex, orderIDs); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems loads the line items of the given orders and appends each to
// its parent, preserving insertion order via the item creation time.
func attachItems(
	ctx context.Context,
	db *gorm.DB,
	orders []OrderResponse,
	orderIndex map[uuid.UUID]int,
	orderIDs []uuid.UUID,
) error {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			product_id,
			product_name,
			unit_price,
			quantity,
			subtotal
		FROM order_items
		WHERE order_id IN ?
		ORDER BY created_at, id
	`, orderIDs).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, orderID uuid.UUID
		var itemResp OrderItemResponse

		err = rows.Scan(
			&id,
			&orderID,
			&itemResp.ProductID,
			&itemResp.ProductName,
			&itemResp.UnitPrice,
			&itemResp.Quantity,
			&itemResp.Subtotal,
		)
		if err != nil {
			return err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return idErr
		}
		itemResp.ID = itemID

		index, ok := orderIndex[orderID]
		if !ok {
			continue
		}
		itemResp.Currency = orders[index].Currency
		orders[index].Items = append(orders[index].Items, itemResp)
	}

	return rows.Err()
}
