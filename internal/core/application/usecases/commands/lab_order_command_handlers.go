package commands

import (
	"context"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
)

// labOrderTransitions runs lab order changes through the retrying unit of work cycle.
type labOrderTransitions struct {
	uowFactory LabOrderUoWFactory
	retrier    ConflictRetrier
}

func (t labOrderTransitions) apply(
	ctx context.Context,
	id kernel.UUID,
	change func(*laborder.LabOrder, time.Time) error,
) (*laborder.LabOrder, error) {
	return transition(ctx, t.retrier, laborder.AggregateKind, id,
		t.uowFactory.Create,
		func(uow LabOrderUoW) versionedStore[*laborder.LabOrder] {
			return uow.LabOrderRepository()
		},
		func(o *laborder.LabOrder) error {
			return change(o, time.Now().UTC())
		},
	)
}

// RecordLabPaymentCommandHandler moves a lab order from PendingPayment to
// PaidPendingLabConfirmation.
//
// Example:
//
//	handler := NewRecordLabPaymentCommandHandler(uowFactory, retrier)
//	order, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrInvalidTransition) {
//	    // already paid or cancelled
//	}
type RecordLabPaymentCommandHandler struct {
	transitions labOrderTransitions
}

func NewRecordLabPaymentCommandHandler(
	uowFactory LabOrderUoWFactory,
	retrier ConflictRetrier,
) RecordLabPaymentCommandHandler {
	return RecordLabPaymentCommandHandler{
		transitions: labOrderTransitions{uowFactory: uowFactory, retrier: retrier},
	}
}

// Handle records the payment. Two concurrent payments for one order never both
// succeed: the loser sees either a conflict or an invalid transition.
func (h RecordLabPaymentCommandHandler) Handle(
	ctx context.Context,
	cmd RecordLabPaymentCommand,
) (*laborder.LabOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.transitions.apply(ctx, cmd.OrderID(), func(o *laborder.LabOrder, now time.Time) error {
		return o.RecordPayment(cmd.Amount(), now)
	})
}

// RejectLabOrderCommandHandler cancels a paid or confirmed lab order on behalf
// of the laboratory.
type RejectLabOrderCommandHandler struct {
	transitions labOrderTransitions
}

func NewRejectLabOrderCommandHandler(
	uowFactory LabOrderUoWFactory,
	retrier ConflictRetrier,
) RejectLabOrderCommandHandler {
	return RejectLabOrderCommandHandler{
		transitions: labOrderTransitions{uowFactory: uowFactory, retrier: retrier},
	}
}

func (h RejectLabOrderCommandHandler) Handle(
	ctx context.Context,
	cmd RejectLabOrderCommand,
) (*laborder.LabOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.transitions.apply(ctx, cmd.OrderID(), func(o *laborder.LabOrder, now time.Time) error {
		return o.RejectByLab(cmd.Reason(), now)
	})
}

// SubmitLabResultsCommandHandler attaches results to an order in progress.
// Every result must reference one of the order's tests.
type SubmitLabResultsCommandHandler struct {
	transitions labOrderTransitions
}

func NewSubmitLabResultsCommandHandler(
	uowFactory LabOrderUoWFactory,
	retrier ConflictRetrier,
) SubmitLabResultsCommandHandler {
	return SubmitLabResultsCommandHandler{
		transitions: labOrderTransitions{uowFactory: uowFactory, retrier: retrier},
	}
}

func (h SubmitLabResultsCommandHandler) Handle(
	ctx context.Context,
	cmd SubmitLabResultsCommand,
) (*laborder.LabOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.transitions.apply(ctx, cmd.OrderID(), func(o *laborder.LabOrder, now time.Time) error {
		inputs := cmd.Results()
		results := make([]laborder.LabResult, 0, len(inputs))
		for _, in := range inputs {
			r, err := laborder.NewLabResult(kernel.NewUUID(), in, now)
			if err != nil {
				return err
			}
			results = append(results, r)
		}
		return o.SubmitResults(results, now)
	})
}

// ChangeLabOrderStatusCommandHandler applies the transitions that carry no payload:
// lab confirmation, sample collection, patient acknowledgment and patient cancellation.
type ChangeLabOrderStatusCommandHandler struct {
	transitions labOrderTransitions
}

func NewChangeLabOrderStatusCommandHandler(
	uowFactory LabOrderUoWFactory,
	retrier ConflictRetrier,
) ChangeLabOrderStatusCommandHandler {
	return ChangeLabOrderStatusCommandHandler{
		transitions: labOrderTransitions{uowFactory: uowFactory, retrier: retrier},
	}
}

func (h ChangeLabOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeLabOrderStatusCommand,
) (*laborder.LabOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.transitions.apply(ctx, cmd.OrderID(), func(o *laborder.LabOrder, now time.Time) error {
		switch cmd.Action() {
		case ConfirmLabOrder:
			return o.ConfirmByLab(now)
		case CollectLabSamples:
			return o.MarkSamplesCollected(now)
		case CompleteLabOrder:
			return o.MarkCompleted(now)
		default:
			return o.CancelByPatient(now)
		}
	})
}
