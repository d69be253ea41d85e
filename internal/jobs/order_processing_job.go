package jobs

import (
	"context"
	"errors"
	"log/slog"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// OrderProcessingJob periodically picks up orders still in Received status
// and runs them through the processing use case. Acts as a sweeper for
// orders whose processing was never triggered or failed transiently.
type OrderProcessingJob struct {
	uowFactory commands.OrderUoWFactory
	handler    commands.ProcessOrderCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewOrderProcessingJob creates a job that processes received orders every second.
func NewOrderProcessingJob(
	uowFactory commands.OrderUoWFactory,
	handler commands.ProcessOrderCommandHandler,
	logger *slog.Logger,
) *OrderProcessingJob {
	return &OrderProcessingJob{
		uowFactory: uowFactory,
		handler:    handler,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "order_processing_job"),
	}
}

// Start begins the order processing job to run every second.
func (j *OrderProcessingJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		if err := j.processReceivedOrders(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Order processing job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order processing job started (running every second)")
	return nil
}

// Stop stops the order processing job.
func (j *OrderProcessingJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order processing job stopped")
}

// processReceivedOrders lists all received orders and runs each through the
// processing handler. Per-order failures are logged without stopping the
// batch; a version conflict means another worker already took the order.
func (j *OrderProcessingJob) processReceivedOrders(ctx context.Context) error {
	uow := j.uowFactory.Create()
	received, err := uow.OrderRepository().GetAllInStatus(ctx, order.Received)
	if err != nil {
		return err
	}

	for _, pending := range received {
		cmd, err := commands.NewProcessOrderCommand(pending.ID())
		if err != nil {
			j.logger.ErrorContext(ctx, "Failed to build process command",
				"orderId", pending.ID().String(), "error", err)
			continue
		}

		if _, err := j.handler.Handle(ctx, cmd); err != nil {
			if errors.Is(err, errs.ErrVersionConflict) {
				continue
			}
			j.logger.ErrorContext(ctx, "Failed to process order",
				"orderId", pending.ID().String(), "error", err)
		}
	}

	return nil
}
