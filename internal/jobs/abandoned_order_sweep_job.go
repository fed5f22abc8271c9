package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"medmarket/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the sweep at the start of every fifth minute.
const DefaultSweepSchedule = "0 */5 * * * *"

// AbandonedOrderSweeper cancels unpaid lab orders and unconfirmed pharmacy orders
// created before a cutoff.
type AbandonedOrderSweeper interface {
	Handle(ctx context.Context, cmd commands.CancelAbandonedOrdersCommand) (commands.CancelAbandonedOrdersResult, error)
}

// AbandonedOrderSweepJob cancels orders nobody acted on within ttl of their creation.
type AbandonedOrderSweepJob struct {
	sweeper  AbandonedOrderSweeper
	ttl      time.Duration
	schedule string
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewAbandonedOrderSweepJob creates the sweep job. schedule is a six-field cron
// expression (seconds first); an empty schedule means DefaultSweepSchedule.
func NewAbandonedOrderSweepJob(
	sweeper AbandonedOrderSweeper,
	ttl time.Duration,
	schedule string,
	logger *slog.Logger,
) *AbandonedOrderSweepJob {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &AbandonedOrderSweepJob{
		sweeper:  sweeper,
		ttl:      ttl,
		schedule: schedule,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "abandoned_order_sweep_job"),
	}
}

// RunOnce sweeps orders created more than ttl ago. It is what every scheduled tick
// runs and what the one-shot CLI command calls.
func (j *AbandonedOrderSweepJob) RunOnce(ctx context.Context) (commands.CancelAbandonedOrdersResult, error) {
	if j.ttl <= 0 {
		return commands.CancelAbandonedOrdersResult{}, fmt.Errorf("abandoned order ttl must be positive, got %s", j.ttl)
	}
	cmd, err := commands.NewCancelAbandonedOrdersCommand(j.now().UTC().Add(-j.ttl))
	if err != nil {
		return commands.CancelAbandonedOrdersResult{}, err
	}
	return j.sweeper.Handle(ctx, cmd)
}

// Start registers the sweep with the scheduler. Overlapping ticks are skipped while a
// sweep is still running.
func (j *AbandonedOrderSweepJob) Start() error {
	_, err := j.cron.AddJob(j.schedule, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(
		cron.FuncJob(func() {
			ctx := context.Background()
			if _, err := j.RunOnce(ctx); err != nil {
				j.logger.ErrorContext(ctx, "Abandoned order sweep failed", "error", err)
			}
		}),
	))
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Abandoned order sweep job started",
		"schedule", j.schedule,
		"ttl", j.ttl.String(),
	)
	return nil
}

// Stop stops scheduling and waits for a running sweep to finish.
func (j *AbandonedOrderSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Abandoned order sweep job stopped")
}
