package pharmacyorder

import (
	"encoding/base32"
	"fmt"
	"regexp"
	"strings"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
)

const orderNumberPrefix = "RX"

// crockford is Crockford's base32 alphabet: no I, L, O or U, so numbers survive being read aloud.
var crockford = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

var orderNumberPattern = regexp.MustCompile(`^RX-\d{8}-[0-9A-HJKMNP-TV-Z]{8}$`)

// OrderNumber is the human-facing reference of a pharmacy order, e.g. RX-20240501-7K3QZ9FD.
// Uniqueness is enforced by storage; a collision surfaces as a conflict and is retried.
type OrderNumber struct {
	value string
}

// NewOrderNumber derives a number from the placement date and 40 bits of a random UUID.
func NewOrderNumber(placedAt time.Time, entropy kernel.UUID) (OrderNumber, error) {
	if err := entropy.Validate(); err != nil {
		return OrderNumber{}, err
	}
	raw := entropy.Bytes()
	suffix := crockford.EncodeToString(raw[:5])
	return OrderNumber{
		value: fmt.Sprintf("%s-%s-%s", orderNumberPrefix, placedAt.UTC().Format("20060102"), suffix),
	}, nil
}

// ParseOrderNumber accepts the canonical form, case-insensitively.
func ParseOrderNumber(s string) (OrderNumber, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return OrderNumber{}, errs.NewValueIsRequiredError("order number")
	}
	if !orderNumberPattern.MatchString(s) {
		return OrderNumber{}, errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q is not RX-YYYYMMDD-XXXXXXXX", s))
	}
	if _, err := time.Parse("20060102", s[3:11]); err != nil {
		return OrderNumber{}, errs.NewValueIsInvalidErrorWithCause("order number", err)
	}
	return OrderNumber{value: s}, nil
}

func (n OrderNumber) String() string {
	return n.value
}

func (n OrderNumber) IsZero() bool {
	return n.value == ""
}

func (n OrderNumber) Validate() error {
	if n.IsZero() {
		return errs.NewValueIsRequiredError("order number")
	}
	return nil
}
