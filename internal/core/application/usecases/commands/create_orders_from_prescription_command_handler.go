package commands

import (
	"context"
	"time"

	"medmarket/internal/core/domain/model/prescription"
	"medmarket/internal/core/domain/services"
	"medmarket/internal/pkg/errs"
)

// CreateOrdersFromPrescriptionCommandHandler fans a prescription out into one new
// order per selected provider.
//
// All orders of one call are written in a single transaction, so a failure leaves
// no order behind. Calls against the same prescription are independent: each
// creates new orders and none is treated as a duplicate of an earlier call.
// An order number collision surfaces as a conflict and the whole call is retried
// with freshly generated numbers.
type CreateOrdersFromPrescriptionCommandHandler struct {
	uowFactory FanOutUoWFactory
	fanOut     services.PrescriptionFanOut
	retrier    ConflictRetrier
}

func NewCreateOrdersFromPrescriptionCommandHandler(
	uowFactory FanOutUoWFactory,
	fanOut services.PrescriptionFanOut,
	retrier ConflictRetrier,
) CreateOrdersFromPrescriptionCommandHandler {
	return CreateOrdersFromPrescriptionCommandHandler{
		uowFactory: uowFactory,
		fanOut:     fanOut,
		retrier:    retrier,
	}
}

// Handle returns the orders created, lab orders in PendingPayment and pharmacy
// orders in Placed.
func (h CreateOrdersFromPrescriptionCommandHandler) Handle(
	ctx context.Context,
	cmd CreateOrdersFromPrescriptionCommand,
) (services.FanOutResult, error) {
	if err := cmd.Validate(); err != nil {
		return services.FanOutResult{}, err
	}

	return retryOnConflict(ctx, h.retrier, "prescription", cmd.PrescriptionID(), func() (services.FanOutResult, error) {
		return h.createOrders(ctx, cmd)
	})
}

func (h CreateOrdersFromPrescriptionCommandHandler) createOrders(
	ctx context.Context,
	cmd CreateOrdersFromPrescriptionCommand,
) (services.FanOutResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.FanOutResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := h.loadPrescription(ctx, uow, cmd)
	if err != nil {
		return services.FanOutResult{}, err
	}

	result, err := h.fanOut.Plan(p, cmd.Selections(), time.Now().UTC())
	if err != nil {
		return services.FanOutResult{}, err
	}

	labRepo := uow.LabOrderRepository()
	for _, o := range result.LabOrders {
		if err = labRepo.Add(ctx, o); err != nil {
			return services.FanOutResult{}, err
		}
	}

	pharmacyRepo := uow.PharmacyOrderRepository()
	for _, o := range result.PharmacyOrders {
		if err = pharmacyRepo.Add(ctx, o); err != nil {
			return services.FanOutResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return services.FanOutResult{}, err
	}

	return result, nil
}

// loadPrescription hides prescriptions of other patients behind NotFound.
func (h CreateOrdersFromPrescriptionCommandHandler) loadPrescription(
	ctx context.Context,
	uow FanOutUoW,
	cmd CreateOrdersFromPrescriptionCommand,
) (*prescription.Prescription, error) {
	p, err := uow.PrescriptionRepository().Get(ctx, cmd.PrescriptionID())
	if err != nil {
		return nil, err
	}
	if !p.PatientID().IsEqual(cmd.PatientID()) {
		return nil, errs.NewObjectNotFoundError("prescription", cmd.PrescriptionID().String())
	}
	return p, nil
}
