package commands

import (
	"errors"
	"fmt"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
)

var (
	ErrRecordLabPaymentCommandIsNotConstructed = errors.New(
		"RecordLabPaymentCommand must be created via NewRecordLabPaymentCommand constructor",
	)
	ErrRejectLabOrderCommandIsNotConstructed = errors.New(
		"RejectLabOrderCommand must be created via NewRejectLabOrderCommand constructor",
	)
	ErrSubmitLabResultsCommandIsNotConstructed = errors.New(
		"SubmitLabResultsCommand must be created via NewSubmitLabResultsCommand constructor",
	)
	ErrChangeLabOrderStatusCommandIsNotConstructed = errors.New(
		"ChangeLabOrderStatusCommand must be created via NewChangeLabOrderStatusCommand constructor",
	)
)

// RecordLabPaymentCommand records the patient's payment for a lab order.
//
// Example:
//
//	amount, _ := kernel.NewMoney(4500)
//	cmd, err := NewRecordLabPaymentCommand(orderID, amount)
//	if err != nil {
//	    return err
//	}
//	order, err := handler.Handle(ctx, cmd)
type RecordLabPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	amount  kernel.Money

	guard guard.ConstructorGuard
}

func NewRecordLabPaymentCommand(orderID kernel.UUID, amount kernel.Money) (RecordLabPaymentCommand, error) {
	cmd := RecordLabPaymentCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		setCommandUUID(&cmd.orderID, orderID),
		cmd.setAmount(amount),
	); err != nil {
		return RecordLabPaymentCommand{}, err
	}

	return cmd, nil
}

func (c RecordLabPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordLabPaymentCommandIsNotConstructed)
}

func (c RecordLabPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordLabPaymentCommand) Amount() kernel.Money {
	return c.amount
}

func (c *RecordLabPaymentCommand) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not greater than 0", amount))
	}

	c.amount = amount
	return nil
}

// RejectLabOrderCommand cancels a lab order on behalf of the laboratory.
// The reason is checked by the order itself so that an empty reason is reported
// the same way whichever entry point is used.
type RejectLabOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

func NewRejectLabOrderCommand(orderID kernel.UUID, reason string) (RejectLabOrderCommand, error) {
	cmd := RejectLabOrderCommand{guard: guard.NewConstructorGuard(), reason: reason}

	if err := setCommandUUID(&cmd.orderID, orderID); err != nil {
		return RejectLabOrderCommand{}, err
	}

	return cmd, nil
}

func (c RejectLabOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectLabOrderCommandIsNotConstructed)
}

func (c RejectLabOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RejectLabOrderCommand) Reason() string {
	return c.reason
}

// SubmitLabResultsCommand carries the results a laboratory reports for an order.
type SubmitLabResultsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	results []laborder.ResultInput

	guard guard.ConstructorGuard
}

func NewSubmitLabResultsCommand(orderID kernel.UUID, results []laborder.ResultInput) (SubmitLabResultsCommand, error) {
	cmd := SubmitLabResultsCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		setCommandUUID(&cmd.orderID, orderID),
		cmd.setResults(results),
	); err != nil {
		return SubmitLabResultsCommand{}, err
	}

	return cmd, nil
}

func (c SubmitLabResultsCommand) Validate() error {
	return c.guard.Validate(ErrSubmitLabResultsCommandIsNotConstructed)
}

func (c SubmitLabResultsCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitLabResultsCommand) Results() []laborder.ResultInput {
	return append([]laborder.ResultInput(nil), c.results...)
}

func (c *SubmitLabResultsCommand) setResults(results []laborder.ResultInput) error {
	if len(results) == 0 {
		return errs.NewValueIsRequiredError("lab results")
	}

	c.results = append([]laborder.ResultInput(nil), results...)
	return nil
}

// LabOrderAction names a lab order transition that needs no payload.
type LabOrderAction string

const (
	ConfirmLabOrder   LabOrderAction = "confirm"
	CollectLabSamples LabOrderAction = "collect-samples"
	CompleteLabOrder  LabOrderAction = "complete"
	CancelLabOrder    LabOrderAction = "cancel"
)

// ParseLabOrderAction accepts confirm, collect-samples, complete and cancel.
func ParseLabOrderAction(s string) (LabOrderAction, error) {
	switch a := LabOrderAction(s); a {
	case ConfirmLabOrder, CollectLabSamples, CompleteLabOrder, CancelLabOrder:
		return a, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause(
		"lab order action", fmt.Errorf("%q is not a lab order action", s),
	)
}

// ChangeLabOrderStatusCommand applies one payload-free transition to a lab order.
type ChangeLabOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	action  LabOrderAction

	guard guard.ConstructorGuard
}

func NewChangeLabOrderStatusCommand(orderID kernel.UUID, action LabOrderAction) (ChangeLabOrderStatusCommand, error) {
	cmd := ChangeLabOrderStatusCommand{guard: guard.NewConstructorGuard()}

	var actionErr error
	if _, err := ParseLabOrderAction(string(action)); err != nil {
		actionErr = err
	}

	if err := errors.Join(
		setCommandUUID(&cmd.orderID, orderID),
		actionErr,
	); err != nil {
		return ChangeLabOrderStatusCommand{}, err
	}

	cmd.action = action
	return cmd, nil
}

func (c ChangeLabOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeLabOrderStatusCommandIsNotConstructed)
}

func (c ChangeLabOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeLabOrderStatusCommand) Action() LabOrderAction {
	return c.action
}

func setCommandUUID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	*dst = id
	return nil
}
