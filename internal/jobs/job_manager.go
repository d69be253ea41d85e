package jobs

import (
	"fmt"
	"log/slog"

	"orders/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orderProcessingJob *OrderProcessingJob
	orderMetricsJob    *OrderMetricsJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the unit of work factory and command handler as dependencies to
// wire up the job execution.
func NewJobManager(
	uowFactory commands.OrderUoWFactory,
	processOrderHandler commands.ProcessOrderCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		orderProcessingJob: NewOrderProcessingJob(uowFactory, processOrderHandler, logger),
		orderMetricsJob:    NewOrderMetricsJob(uowFactory, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orderProcessingJob.Start(); err != nil {
		return fmt.Errorf("failed to start order processing job: %w", err)
	}

	if err := jm.orderMetricsJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.orderProcessingJob.Stop()
		return fmt.Errorf("failed to start order metrics job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.orderProcessingJob.Stop()
	jm.orderMetricsJob.Stop()
}
