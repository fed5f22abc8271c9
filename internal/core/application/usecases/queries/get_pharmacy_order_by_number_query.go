package queries

import (
	"errors"

	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/pkg/guard"
)

var ErrGetPharmacyOrderByNumberQueryIsNotConstructed = errors.New(
	"GetPharmacyOrderByNumberQuery must be created via NewGetPharmacyOrderByNumberQuery constructor",
)

// GetPharmacyOrderByNumberQuery resolves the human-facing RX number printed on a
// delivery back to its order.
type GetPharmacyOrderByNumberQuery struct {
	number pharmacyorder.OrderNumber
	guard  guard.ConstructorGuard
}

func NewGetPharmacyOrderByNumberQuery(number string) (GetPharmacyOrderByNumberQuery, error) {
	parsed, err := pharmacyorder.ParseOrderNumber(number)
	if err != nil {
		return GetPharmacyOrderByNumberQuery{}, err
	}
	return GetPharmacyOrderByNumberQuery{number: parsed, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPharmacyOrderByNumberQuery) Number() pharmacyorder.OrderNumber {
	return q.number
}

func (q GetPharmacyOrderByNumberQuery) Validate() error {
	return q.guard.Validate(ErrGetPharmacyOrderByNumberQueryIsNotConstructed)
}
