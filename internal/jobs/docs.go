// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations over the order store.
//
// # Available Jobs
//
// 1. OrderProcessingJob - Runs every second to pick up received orders and run them through processing
// 2. OrderMetricsJob - Runs every minute to log the number of orders per lifecycle status
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(uowFactory, processOrderHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The processing job logs per-order failures and keeps going; one bad order never blocks the batch
// - A version conflict on an order means another worker got there first and is skipped silently
// - Failed job starts will stop any already running jobs
package jobs
