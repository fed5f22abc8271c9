// Package jobs provides scheduled background tasks for the marketplace.
//
// Jobs are built on github.com/robfig/cron/v3 with second-resolution schedules.
//
// # Available Jobs
//
// AbandonedOrderSweepJob cancels lab orders still waiting for payment and pharmacy
// orders still waiting for confirmation once they are older than the configured TTL.
// Each order is cancelled through the same transition and conflict retry as an
// interactive cancellation, so an order paid or confirmed during the sweep is left
// alone.
//
// # Usage
//
//	sweep := jobs.NewAbandonedOrderSweepJob(handler, 24*time.Hour, "0 */5 * * * *", logger)
//	jobManager := jobs.NewJobManager(sweep)
//
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed sweep is logged and retried on the next tick. Per-order failures are
// counted in the sweep result and do not stop the remaining orders.
package jobs
