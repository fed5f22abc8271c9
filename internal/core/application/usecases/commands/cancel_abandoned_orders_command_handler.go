package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/ports"
	"medmarket/internal/pkg/paging"
)

const sweepPageSize = 100

// errNoLongerAbandoned stops a cancellation when the order moved on after it was listed.
var errNoLongerAbandoned = errors.New("order is no longer abandoned")

// CancelAbandonedOrdersResult counts what one sweep did.
type CancelAbandonedOrdersResult struct {
	LabOrdersCancelled      int
	PharmacyOrdersCancelled int
	Skipped                 int
	Failed                  int
}

// CancelAbandonedOrdersCommandHandler cancels stale orders on the patient's behalf.
//
// Candidates are listed first and then cancelled one by one, each in its own unit
// of work with the usual conflict retry. An order that was paid or confirmed in the
// meantime is skipped. A failure on one order is logged and does not stop the sweep.
type CancelAbandonedOrdersCommandHandler struct {
	labFactory      LabOrderUoWFactory
	pharmacyFactory PharmacyOrderUoWFactory
	retrier         ConflictRetrier
	logger          *slog.Logger
}

func NewCancelAbandonedOrdersCommandHandler(
	labFactory LabOrderUoWFactory,
	pharmacyFactory PharmacyOrderUoWFactory,
	retrier ConflictRetrier,
	logger *slog.Logger,
) CancelAbandonedOrdersCommandHandler {
	return CancelAbandonedOrdersCommandHandler{
		labFactory:      labFactory,
		pharmacyFactory: pharmacyFactory,
		retrier:         retrier,
		logger:          logger.With("component", "abandoned_order_sweep"),
	}
}

func (h CancelAbandonedOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd CancelAbandonedOrdersCommand,
) (CancelAbandonedOrdersResult, error) {
	var result CancelAbandonedOrdersResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	labIDs, err := collectIDs(ctx, func(page paging.Page) ([]*laborder.LabOrder, int64, error) {
		return ports.FindAbandonedLabOrders(ctx, h.labFactory.Create().LabOrderRepository(), cmd.Cutoff(), page)
	}, (*laborder.LabOrder).ID)
	if err != nil {
		return result, err
	}

	pharmacyIDs, err := collectIDs(ctx, func(page paging.Page) ([]*pharmacyorder.PharmacyOrder, int64, error) {
		return ports.FindAbandonedPharmacyOrders(ctx, h.pharmacyFactory.Create().PharmacyOrderRepository(), cmd.Cutoff(), page)
	}, (*pharmacyorder.PharmacyOrder).ID)
	if err != nil {
		return result, err
	}

	labs := labOrderTransitions{uowFactory: h.labFactory, retrier: h.retrier}
	for _, id := range labIDs {
		_, err = labs.apply(ctx, id, func(o *laborder.LabOrder, now time.Time) error {
			if o.Status() != laborder.PendingPayment {
				return errNoLongerAbandoned
			}
			return o.CancelByPatient(now)
		})
		h.count(ctx, &result, &result.LabOrdersCancelled, laborder.AggregateKind, id, err)
	}

	pharmacies := pharmacyOrderTransitions{uowFactory: h.pharmacyFactory, retrier: h.retrier}
	for _, id := range pharmacyIDs {
		_, err = pharmacies.apply(ctx, id, func(o *pharmacyorder.PharmacyOrder, now time.Time) error {
			if o.Status() != pharmacyorder.Placed {
				return errNoLongerAbandoned
			}
			return o.CancelByPatient(now)
		})
		h.count(ctx, &result, &result.PharmacyOrdersCancelled, pharmacyorder.AggregateKind, id, err)
	}

	if err = ctx.Err(); err != nil {
		return result, err
	}

	h.logger.InfoContext(ctx, "Abandoned orders swept",
		"cutoff", cmd.Cutoff(),
		"lab_orders_cancelled", result.LabOrdersCancelled,
		"pharmacy_orders_cancelled", result.PharmacyOrdersCancelled,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (h CancelAbandonedOrdersCommandHandler) count(
	ctx context.Context,
	result *CancelAbandonedOrdersResult,
	cancelled *int,
	kind string,
	id kernel.UUID,
	err error,
) {
	switch {
	case err == nil:
		*cancelled++
	case errors.Is(err, errNoLongerAbandoned):
		result.Skipped++
	default:
		result.Failed++
		h.logger.WarnContext(ctx, "Failed to cancel abandoned order", "kind", kind, "id", id.String(), "error", err)
	}
}

// collectIDs reads every page of a listing before anything is changed, so
// cancellations cannot shift rows between pages.
func collectIDs[T any](
	ctx context.Context,
	list func(paging.Page) ([]T, int64, error),
	id func(T) kernel.UUID,
) ([]kernel.UUID, error) {
	var ids []kernel.UUID
	for number := 1; ; number++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := paging.NewPage(number, sweepPageSize)
		if err != nil {
			return nil, err
		}

		items, total, err := list(page)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			ids = append(ids, id(item))
		}

		if len(items) == 0 || !page.HasNext(total) {
			return ids, nil
		}
	}
}
