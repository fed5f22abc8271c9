package commands

import (
	"errors"
	"fmt"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
)

var (
	ErrConfirmPharmacyOrderCommandIsNotConstructed = errors.New(
		"ConfirmPharmacyOrderCommand must be created via NewConfirmPharmacyOrderCommand constructor",
	)
	ErrRejectPharmacyOrderCommandIsNotConstructed = errors.New(
		"RejectPharmacyOrderCommand must be created via NewRejectPharmacyOrderCommand constructor",
	)
	ErrChangePharmacyOrderStatusCommandIsNotConstructed = errors.New(
		"ChangePharmacyOrderStatusCommand must be created via NewChangePharmacyOrderStatusCommand constructor",
	)
)

// ConfirmPharmacyOrderCommand accepts a placed order and fixes its delivery fee.
type ConfirmPharmacyOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	deliveryFee kernel.Money

	guard guard.ConstructorGuard
}

// NewConfirmPharmacyOrderCommand creates the command. A zero fee is allowed.
func NewConfirmPharmacyOrderCommand(orderID kernel.UUID, deliveryFee kernel.Money) (ConfirmPharmacyOrderCommand, error) {
	cmd := ConfirmPharmacyOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		setCommandUUID(&cmd.orderID, orderID),
		deliveryFee.Validate(),
	); err != nil {
		return ConfirmPharmacyOrderCommand{}, err
	}

	cmd.deliveryFee = deliveryFee
	return cmd, nil
}

func (c ConfirmPharmacyOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPharmacyOrderCommandIsNotConstructed)
}

func (c ConfirmPharmacyOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmPharmacyOrderCommand) DeliveryFee() kernel.Money {
	return c.deliveryFee
}

// RejectPharmacyOrderCommand refuses an order on behalf of the pharmacy.
type RejectPharmacyOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

func NewRejectPharmacyOrderCommand(orderID kernel.UUID, reason string) (RejectPharmacyOrderCommand, error) {
	cmd := RejectPharmacyOrderCommand{guard: guard.NewConstructorGuard(), reason: reason}

	if err := setCommandUUID(&cmd.orderID, orderID); err != nil {
		return RejectPharmacyOrderCommand{}, err
	}

	return cmd, nil
}

func (c RejectPharmacyOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectPharmacyOrderCommandIsNotConstructed)
}

func (c RejectPharmacyOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RejectPharmacyOrderCommand) Reason() string {
	return c.reason
}

// PharmacyOrderAction names a pharmacy order transition that needs no payload.
type PharmacyOrderAction string

const (
	StartPreparingPharmacyOrder PharmacyOrderAction = "start-preparing"
	DispatchPharmacyOrder       PharmacyOrderAction = "dispatch"
	DeliverPharmacyOrder        PharmacyOrderAction = "deliver"
	CancelPharmacyOrder         PharmacyOrderAction = "cancel"
)

// ParsePharmacyOrderAction accepts start-preparing, dispatch, deliver and cancel.
func ParsePharmacyOrderAction(s string) (PharmacyOrderAction, error) {
	switch a := PharmacyOrderAction(s); a {
	case StartPreparingPharmacyOrder, DispatchPharmacyOrder, DeliverPharmacyOrder, CancelPharmacyOrder:
		return a, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause(
		"pharmacy order action", fmt.Errorf("%q is not a pharmacy order action", s),
	)
}

// ChangePharmacyOrderStatusCommand applies one payload-free transition to a pharmacy order.
type ChangePharmacyOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	action  PharmacyOrderAction

	guard guard.ConstructorGuard
}

func NewChangePharmacyOrderStatusCommand(
	orderID kernel.UUID,
	action PharmacyOrderAction,
) (ChangePharmacyOrderStatusCommand, error) {
	cmd := ChangePharmacyOrderStatusCommand{guard: guard.NewConstructorGuard()}

	var actionErr error
	if _, err := ParsePharmacyOrderAction(string(action)); err != nil {
		actionErr = err
	}

	if err := errors.Join(
		setCommandUUID(&cmd.orderID, orderID),
		actionErr,
	); err != nil {
		return ChangePharmacyOrderStatusCommand{}, err
	}

	cmd.action = action
	return cmd, nil
}

func (c ChangePharmacyOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangePharmacyOrderStatusCommandIsNotConstructed)
}

func (c ChangePharmacyOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangePharmacyOrderStatusCommand) Action() PharmacyOrderAction {
	return c.action
}
