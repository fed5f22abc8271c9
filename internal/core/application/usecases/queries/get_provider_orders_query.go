package queries

import (
	"errors"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/domain/services"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
	"medmarket/internal/pkg/paging"
)

var ErrGetProviderOrdersQueryIsNotConstructed = errors.New(
	"GetProviderOrdersQuery must be created via NewGetProviderOrdersQuery constructor",
)

// GetProviderOrdersQuery lists the orders routed to one laboratory or pharmacy,
// optionally narrowed to a single status.
type GetProviderOrdersQuery struct {
	providerKind services.ProviderKind
	providerID   kernel.UUID
	status       string
	page         paging.Page

	guard guard.ConstructorGuard
}

// NewGetProviderOrdersQuery validates status against the provider kind's lifecycle.
// An empty status lists orders in every status.
func NewGetProviderOrdersQuery(
	kind services.ProviderKind,
	providerID kernel.UUID,
	status string,
	page paging.Page,
) (GetProviderOrdersQuery, error) {
	if err := providerID.Validate(); err != nil {
		return GetProviderOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("providerID", err)
	}
	if page.IsZero() {
		return GetProviderOrdersQuery{}, errs.NewValueIsRequiredError("page")
	}

	var statusErr error
	switch kind {
	case services.LaboratoryProvider:
		if status != "" {
			_, statusErr = laborder.ParseStatus(status)
		}
	case services.PharmacyProvider:
		if status != "" {
			_, statusErr = pharmacyorder.ParseStatus(status)
		}
	default:
		return GetProviderOrdersQuery{}, errs.NewValueIsInvalidError("providerKind")
	}
	if statusErr != nil {
		return GetProviderOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("status", statusErr)
	}

	return GetProviderOrdersQuery{
		providerKind: kind,
		providerID:   providerID,
		status:       status,
		page:         page,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q GetProviderOrdersQuery) ProviderKind() services.ProviderKind { return q.providerKind }
func (q GetProviderOrdersQuery) ProviderID() kernel.UUID             { return q.providerID }
func (q GetProviderOrdersQuery) Page() paging.Page                   { return q.page }

// Status returns the status filter and whether one was given.
func (q GetProviderOrdersQuery) Status() (string, bool) {
	return q.status, q.status != ""
}

func (q GetProviderOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetProviderOrdersQueryIsNotConstructed)
}
