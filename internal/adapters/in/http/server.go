// Package http exposes the order lifecycle over a REST API built on echo.
// Command endpoints return the resulting order state directly; read endpoints
// go through the query handlers, bypassing the aggregate.
package http

import (
	"net/http"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

const timeFormat = time.RFC3339

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler   commands.CreateOrderCommandHandler
	processOrderHandler  commands.ProcessOrderCommandHandler
	markAvailableHandler commands.MarkOrderAvailableCommandHandler
	markFailedHandler    commands.MarkOrderFailedCommandHandler
	deleteOrderHandler   commands.DeleteOrderCommandHandler

	// Query handlers
	getOrderByIDHandler         queries.GetOrderByIDQueryHandler
	getOrderByExternalIDHandler queries.GetOrderByExternalIDQueryHandler
	getOrdersByStatusHandler    queries.GetOrdersByStatusQueryHandler
	getAllOrdersHandler         queries.GetAllOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	processOrderHandler commands.ProcessOrderCommandHandler,
	markAvailableHandler commands.MarkOrderAvailableCommandHandler,
	markFailedHandler commands.MarkOrderFailedCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	getOrderByIDHandler queries.GetOrderByIDQueryHandler,
	getOrderByExternalIDHandler queries.GetOrderByExternalIDQueryHandler,
	getOrdersByStatusHandler queries.GetOrdersByStatusQueryHandler,
	getAllOrdersHandler queries.GetAllOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		processOrderHandler:         processOrderHandler,
		markAvailableHandler:        markAvailableHandler,
		markFailedHandler:           markFailedHandler,
		deleteOrderHandler:          deleteOrderHandler,
		getOrderByIDHandler:         getOrderByIDHandler,
		getOrderByExternalIDHandler: getOrderByExternalIDHandler,
		getOrdersByStatusHandler:    getOrdersByStatusHandler,
		getAllOrdersHandler:         getAllOrdersHandler,
	}
}

// RegisterRoutes wires all order endpoints into the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	orders := e.Group("/api/v1/orders")
	orders.POST("", s.CreateOrder)
	orders.GET("", s.GetOrders)
	orders.GET("/:orderId", s.GetOrderByID)
	orders.GET("/external/:externalOrderId", s.GetOrderByExternalID)
	orders.POST("/:orderId/process", s.ProcessOrder)
	orders.PATCH("/:orderId/available", s.MarkOrderAvailable)
	orders.PATCH("/:orderId/failed", s.MarkOrderFailed)
	orders.DELETE("/:orderId", s.DeleteOrder)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /api/v1/orders - registers a new order and
// calculates its total.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	items := make([]commands.CreateOrderItemData, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, commands.CreateOrderItemData{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(
		request.ExternalOrderID, request.Currency, request.CorrelationID, items)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderResponseFromAggregate(created))
}

// GetOrders handles GET /api/v1/orders - lists all orders, optionally
// filtered by ?status=.
func (s *Server) GetOrders(ctx echo.Context) error {
	statusParam := ctx.QueryParam("status")
	if statusParam == "" {
		query := queries.NewGetAllOrdersQuery()
		rows, err := s.getAllOrdersHandler.Handle(ctx.Request().Context(), query)
		if err != nil {
			return s.errorResponse(ctx, err)
		}
		return ctx.JSON(http.StatusOK, s.toResponseList(rows))
	}

	status, err := order.StatusFromString(statusParam)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid status filter: " + statusParam,
		})
	}

	query, err := queries.NewGetOrdersByStatusQuery(status)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	rows, err := s.getOrdersByStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, s.toResponseList(rows))
}

// GetOrderByID handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrderByID(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetOrderByIDQuery(orderID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	row, err := s.getOrderByIDHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderResponseFromQuery(row))
}

// GetOrderByExternalID handles GET /api/v1/orders/external/{externalOrderId}.
func (s *Server) GetOrderByExternalID(ctx echo.Context) error {
	query, err := queries.NewGetOrderByExternalIDQuery(ctx.Param("externalOrderId"))
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	row, err := s.getOrderByExternalIDHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderResponseFromQuery(row))
}

// ProcessOrder handles POST /api/v1/orders/{orderId}/process - moves the
// order into processing and recalculates its total.
func (s *Server) ProcessOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewProcessOrderCommand(orderID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	processed, err := s.processOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderResponseFromAggregate(processed))
}

// MarkOrderAvailable handles PATCH /api/v1/orders/{orderId}/available.
func (s *Server) MarkOrderAvailable(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewMarkOrderAvailableCommand(orderID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	available, err := s.markAvailableHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderResponseFromAggregate(available))
}

// MarkOrderFailed handles PATCH /api/v1/orders/{orderId}/failed. The failure
// reason is taken from the body and falls back to the ?reason= query param.
func (s *Server) MarkOrderFailed(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	var request MarkOrderFailedRequest
	_ = ctx.Bind(&request)
	reason := request.Reason
	if reason == "" {
		reason = ctx.QueryParam("reason")
	}

	cmd, err := commands.NewMarkOrderFailedCommand(orderID, reason)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	failed, err := s.markFailedHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderResponseFromAggregate(failed))
}

// DeleteOrder handles DELETE /api/v1/orders/{orderId}.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err := s.deleteOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) toResponseList(rows []queries.OrderResponse) []OrderResponse {
	response := make([]OrderResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, orderResponseFromQuery(row))
	}
	return response
}

func (s *Server) errorResponse(ctx echo.Context, err error) error {
	code := statusFromError(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "Internal server error"
	}
	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}
