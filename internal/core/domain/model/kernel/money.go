package kernel

import (
	"errors"
	"fmt"

	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
)

var ErrMoneyIsNotConstructed = errors.New("Money must be created via NewMoney constructor")

// Money is a non-negative amount in minor currency units (cents).
// The marketplace settles in a single currency, so none is carried.
type Money struct {
	minor int64
	guard guard.ConstructorGuard
}

func NewMoney(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", minor))
	}
	return Money{minor: minor, guard: guard.NewConstructorGuard()}, nil
}

// ZeroMoney is a constructed amount of 0.
func ZeroMoney() Money {
	return Money{guard: guard.NewConstructorGuard()}
}

func (m Money) Minor() int64 {
	return m.minor
}

func (m Money) IsPositive() bool {
	return m.minor > 0
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.minor/100, m.minor%100)
}
