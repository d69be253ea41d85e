package http

import (
	"errors"
	"net/http"

	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderItemRequest is a single line item in an order creation request.
type CreateOrderItemRequest struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// CreateOrderRequest is the JSON body of POST /api/v1/orders.
type CreateOrderRequest struct {
	ExternalOrderID string                   `json:"external_order_id"`
	Currency        string                   `json:"currency"`
	CorrelationID   string                   `json:"correlation_id"`
	Items           []CreateOrderItemRequest `json:"items"`
}

// MarkOrderFailedRequest is the JSON body of PATCH /api/v1/orders/{id}/failed.
// The reason is optional.
type MarkOrderFailedRequest struct {
	Reason string `json:"reason"`
}

// OrderItemResponse is a single line item in an order response.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the JSON shape of an order returned by the API.
type OrderResponse struct {
	ID              string              `json:"id"`
	ExternalOrderID string              `json:"external_order_id"`
	Status          string              `json:"status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Currency        string              `json:"currency"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
	Items           []OrderItemResponse `json:"items"`
}

// orderResponseFromAggregate maps a domain aggregate to the API shape.
// Used by command endpoints, which get the aggregate back from the handler.
func orderResponseFromAggregate(aggregate *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, aggregate.ItemCount())
	for _, item := range aggregate.Items() {
		items = append(items, OrderItemResponse{
			ID:          item.ID().String(),
			ProductID:   item.ProductID().Value(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice().Amount(),
			Quantity:    item.Quantity(),
			Subtotal:    item.Subtotal().Amount(),
		})
	}

	return OrderResponse{
		ID:              aggregate.ID().String(),
		ExternalOrderID: aggregate.ExternalOrderID().Value(),
		Status:          aggregate.Status().String(),
		TotalAmount:     aggregate.TotalAmount().Amount(),
		Currency:        aggregate.TotalAmount().Currency(),
		CreatedAt:       aggregate.CreatedAt().Format(timeFormat),
		UpdatedAt:       aggregate.UpdatedAt().Format(timeFormat),
		Items:           items,
	}
}

// orderResponseFromQuery maps a read-side row to the API shape.
func orderResponseFromQuery(row queries.OrderResponse) OrderResponse {
	items := make([]OrderItemResponse, 0, len(row.Items))
	for _, item := range row.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID.String(),
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}

	return OrderResponse{
		ID:              row.ID.String(),
		ExternalOrderID: row.ExternalOrderID,
		Status:          row.Status,
		TotalAmount:     row.TotalAmount,
		Currency:        row.Currency,
		CreatedAt:       row.CreatedAt.Format(timeFormat),
		UpdatedAt:       row.UpdatedAt.Format(timeFormat),
		Items:           items,
	}
}

// statusFromError maps domain and application errors to HTTP status codes.
// Unknown errors become 500 so internals never leak into responses.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrDuplicateValue),
		errors.Is(err, errs.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, order.ErrInvalidStatusTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, kernel.ErrInvalidMoney):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
