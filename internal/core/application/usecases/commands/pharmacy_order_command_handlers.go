package commands

import (
	"context"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/pharmacyorder"
)

type pharmacyOrderTransitions struct {
	uowFactory PharmacyOrderUoWFactory
	retrier    ConflictRetrier
}

func (t pharmacyOrderTransitions) apply(
	ctx context.Context,
	id kernel.UUID,
	change func(*pharmacyorder.PharmacyOrder, time.Time) error,
) (*pharmacyorder.PharmacyOrder, error) {
	return transition(ctx, t.retrier, pharmacyorder.AggregateKind, id,
		t.uowFactory.Create,
		func(uow PharmacyOrderUoW) versionedStore[*pharmacyorder.PharmacyOrder] {
			return uow.PharmacyOrderRepository()
		},
		func(o *pharmacyorder.PharmacyOrder) error {
			return change(o, time.Now().UTC())
		},
	)
}

// ConfirmPharmacyOrderCommandHandler moves a placed order to Confirmed.
type ConfirmPharmacyOrderCommandHandler struct {
	transitions pharmacyOrderTransitions
}

func NewConfirmPharmacyOrderCommandHandler(
	uowFactory PharmacyOrderUoWFactory,
	retrier ConflictRetrier,
) ConfirmPharmacyOrderCommandHandler {
	return ConfirmPharmacyOrderCommandHandler{
		transitions: pharmacyOrderTransitions{uowFactory: uowFactory, retrier: retrier},
	}
}

func (h ConfirmPharmacyOrderCommandHandler) Handle(
	ctx context.Context,
	cmd ConfirmPharmacyOrderCommand,
) (*pharmacyorder.PharmacyOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.transitions.apply(ctx, cmd.OrderID(), func(o *pharmacyorder.PharmacyOrder, now time.Time) error {
		return o.ConfirmByPharmacy(cmd.DeliveryFee(), now)
	})
}

// RejectPharmacyOrderCommandHandler moves a placed or confirmed order to RejectedByPharmacy.
type RejectPharmacyOrderCommandHandler struct {
	transitions pharmacyOrderTransitions
}

func NewRejectPharmacyOrderCommandHandler(
	uowFactory PharmacyOrderUoWFactory,
	retrier ConflictRetrier,
) RejectPharmacyOrderCommandHandler {
	return RejectPharmacyOrderCommandHandler{
		transitions: pharmacyOrderTransitions{uowFactory: uowFactory, retrier: retrier},
	}
}

func (h RejectPharmacyOrderCommandHandler) Handle(
	ctx context.Context,
	cmd RejectPharmacyOrderCommand,
) (*pharmacyorder.PharmacyOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.transitions.apply(ctx, cmd.OrderID(), func(o *pharmacyorder.PharmacyOrder, now time.Time) error {
		return o.RejectByPharmacy(cmd.Reason(), now)
	})
}

// ChangePharmacyOrderStatusCommandHandler drives an order through preparation and
// delivery, or cancels it for the patient.
type ChangePharmacyOrderStatusCommandHandler struct {
	transitions pharmacyOrderTransitions
}

func NewChangePharmacyOrderStatusCommandHandler(
	uowFactory PharmacyOrderUoWFactory,
	retrier ConflictRetrier,
) ChangePharmacyOrderStatusCommandHandler {
	return ChangePharmacyOrderStatusCommandHandler{
		transitions: pharmacyOrderTransitions{uowFactory: uowFactory, retrier: retrier},
	}
}

func (h ChangePharmacyOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangePharmacyOrderStatusCommand,
) (*pharmacyorder.PharmacyOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.transitions.apply(ctx, cmd.OrderID(), func(o *pharmacyorder.PharmacyOrder, now time.Time) error {
		switch cmd.Action() {
		case StartPreparingPharmacyOrder:
			return o.StartPreparing(now)
		case DispatchPharmacyOrder:
			return o.Dispatch(now)
		case DeliverPharmacyOrder:
			return o.MarkDelivered(now)
		default:
			return o.CancelByPatient(now)
		}
	})
}
