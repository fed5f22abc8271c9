package queries

import (
	"context"
	"errors"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/ports"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
)

var ErrGetLabOrderQueryIsNotConstructed = errors.New(
	"GetLabOrderQuery must be created via NewGetLabOrderQuery constructor",
)

// GetLabOrderQuery loads one lab order with its tests and submitted results.
type GetLabOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetLabOrderQuery(orderID kernel.UUID) (GetLabOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetLabOrderQuery{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	return GetLabOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLabOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetLabOrderQueryIsNotConstructed)
}

type GetLabOrderQueryHandler struct {
	orders ports.Getter[*laborder.LabOrder]
}

func NewGetLabOrderQueryHandler(orders ports.Getter[*laborder.LabOrder]) GetLabOrderQueryHandler {
	return GetLabOrderQueryHandler{orders: orders}
}

func (h GetLabOrderQueryHandler) Handle(ctx context.Context, query GetLabOrderQuery) (*laborder.LabOrder, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.orders.Get(ctx, query.orderID)
}
