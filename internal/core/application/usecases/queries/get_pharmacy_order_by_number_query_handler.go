package queries

import (
	"context"

	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/ports"
)

type GetPharmacyOrderByNumberQueryHandler struct {
	orders ports.Querier[*pharmacyorder.PharmacyOrder, ports.PharmacyOrderFilter]
}

func NewGetPharmacyOrderByNumberQueryHandler(
	orders ports.Querier[*pharmacyorder.PharmacyOrder, ports.PharmacyOrderFilter],
) GetPharmacyOrderByNumberQueryHandler {
	return GetPharmacyOrderByNumberQueryHandler{orders: orders}
}

// Handle fails with errs.ObjectNotFoundError for unknown and soft-deleted numbers.
func (h GetPharmacyOrderByNumberQueryHandler) Handle(
	ctx context.Context,
	query GetPharmacyOrderByNumberQuery,
) (*pharmacyorder.PharmacyOrder, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return ports.FindPharmacyOrderByNumber(ctx, h.orders, query.Number())
}
