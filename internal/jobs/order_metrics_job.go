package jobs

import (
	"context"
	"log/slog"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
)

// OrderMetricsJob periodically logs the number of orders in each lifecycle
// status. A steadily growing Received or Processing count is the first sign
// of a stuck pipeline.
type OrderMetricsJob struct {
	uowFactory commands.OrderUoWFactory
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewOrderMetricsJob creates a job that reports order counts every minute.
func NewOrderMetricsJob(uowFactory commands.OrderUoWFactory, logger *slog.Logger) *OrderMetricsJob {
	return &OrderMetricsJob{
		uowFactory: uowFactory,
		cron:       cron.New(),
		logger:     logger.With("component", "order_metrics_job"),
	}
}

// Start begins the metrics job to run every minute.
func (j *OrderMetricsJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		j.reportCounts(ctx)
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order metrics job started (running every minute)")
	return nil
}

// Stop stops the metrics job.
func (j *OrderMetricsJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order metrics job stopped")
}

func (j *OrderMetricsJob) reportCounts(ctx context.Context) {
	statuses := []order.Status{
		order.Received, order.Processing, order.Calculated, order.Available, order.Failed,
	}

	repository := j.uowFactory.Create().OrderRepository()
	attrs := make([]any, 0, len(statuses)*2)
	for _, status := range statuses {
		count, err := repository.CountInStatus(ctx, status)
		if err != nil {
			j.logger.ErrorContext(ctx, "Failed to count orders",
				"status", status.String(), "error", err)
			return
		}
		attrs = append(attrs, status.String(), count)
	}

	j.logger.InfoContext(ctx, "Order counts by status", attrs...)
}
