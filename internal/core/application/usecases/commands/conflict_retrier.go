package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultConflictAttempts = 3
	defaultRetryInterval    = 25 * time.Millisecond
)

// ConflictRetrier re-runs a whole unit of work when it fails with errs.ErrConflict.
// Any other error is returned at once. After the last attempt the conflict itself
// is returned to the caller.
type ConflictRetrier struct {
	attempts int
	interval time.Duration
	logger   *slog.Logger
}

// NewConflictRetrier creates a retrier making at most attempts tries, waiting an
// exponentially growing delay starting at interval between them. Non-positive
// values fall back to the defaults.
func NewConflictRetrier(attempts int, interval time.Duration, logger *slog.Logger) ConflictRetrier {
	if attempts <= 0 {
		attempts = DefaultConflictAttempts
	}
	if interval <= 0 {
		interval = defaultRetryInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return ConflictRetrier{
		attempts: attempts,
		interval: interval,
		logger:   logger.With("component", "conflict_retrier"),
	}
}

// Attempts returns the maximum number of tries.
func (r ConflictRetrier) Attempts() int {
	return r.attempts
}

func (r ConflictRetrier) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.interval
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.attempts-1)), ctx)
}

// retryOnConflict runs op until it succeeds, fails with a non-conflict error, or
// the attempts are used up. entity and id only label the log lines.
func retryOnConflict[T any](
	ctx context.Context,
	r ConflictRetrier,
	entity string,
	id kernel.UUID,
	op func() (T, error),
) (T, error) {
	if r.attempts == 0 {
		r = NewConflictRetrier(0, 0, nil)
	}

	attempt := 0
	return backoff.RetryNotifyWithData(
		func() (T, error) {
			attempt++
			result, err := op()
			if err != nil && !errors.Is(err, errs.ErrConflict) {
				return result, backoff.Permanent(err)
			}
			return result, err
		},
		r.newBackOff(ctx),
		func(err error, wait time.Duration) {
			r.logger.WarnContext(ctx, "Concurrent modification, retrying",
				"entity", entity,
				"id", id.String(),
				"attempt", attempt,
				"max_attempts", r.attempts,
				"wait", wait,
				"error", err,
			)
		},
	)
}

// versionedStore is the part of a repository a status transition needs.
type versionedStore[T any] interface {
	Get(ctx context.Context, id kernel.UUID) (T, error)
	Update(ctx context.Context, aggregate T) error
}

// transition loads the aggregate identified by id, applies change and saves it in
// one unit of work. A failed change is never saved. The whole cycle is retried on
// conflict, so change must be safe to call again on a freshly loaded aggregate.
func transition[T any, U TxManager](
	ctx context.Context,
	r ConflictRetrier,
	entity string,
	id kernel.UUID,
	create func() U,
	store func(U) versionedStore[T],
	change func(T) error,
) (T, error) {
	return retryOnConflict(ctx, r, entity, id, func() (T, error) {
		var zero T

		uow := create()
		if err := uow.Begin(ctx); err != nil {
			return zero, err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		repo := store(uow)
		aggregate, err := repo.Get(ctx, id)
		if err != nil {
			return zero, err
		}

		if err = change(aggregate); err != nil {
			return zero, err
		}

		if err = repo.Update(ctx, aggregate); err != nil {
			return zero, err
		}

		if err = uow.Commit(ctx); err != nil {
			return zero, err
		}

		return aggregate, nil
	})
}
