package commands

import (
	"errors"
	"time"

	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
)

var ErrCancelAbandonedOrdersCommandIsNotConstructed = errors.New(
	"CancelAbandonedOrdersCommand must be created via NewCancelAbandonedOrdersCommand constructor",
)

// CancelAbandonedOrdersCommand cancels lab orders never paid and pharmacy orders
// never confirmed that were created before Cutoff.
type CancelAbandonedOrdersCommand struct { //nolint:recvcheck //using for validation
	cutoff time.Time

	guard guard.ConstructorGuard
}

func NewCancelAbandonedOrdersCommand(cutoff time.Time) (CancelAbandonedOrdersCommand, error) {
	if cutoff.IsZero() {
		return CancelAbandonedOrdersCommand{}, errs.NewValueIsRequiredError("cutoff")
	}

	return CancelAbandonedOrdersCommand{
		cutoff: cutoff.UTC(),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c CancelAbandonedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrCancelAbandonedOrdersCommandIsNotConstructed)
}

func (c CancelAbandonedOrdersCommand) Cutoff() time.Time {
	return c.cutoff
}
