package queries

import (
	"context"

	"medmarket/internal/core/domain/services"
	"medmarket/internal/pkg/paging"

	"gorm.io/gorm"
)

// providerTable describes how one provider kind's orders are projected onto
// orderSummaryColumns.
type providerTable struct {
	name      string
	idColumn  string
	selection string
}

var providerTables = map[services.ProviderKind]providerTable{
	services.LaboratoryProvider: {
		name:     "lab_orders",
		idColumn: "laboratory_id",
		selection: "id, 'lab' AS kind, '' AS number, prescription_id, laboratory_id AS provider_id, " +
			"patient_id, status, amount_minor, created_at",
	},
	services.PharmacyProvider: {
		name:     "pharmacy_orders",
		idColumn: "pharmacy_id",
		selection: "id, 'pharmacy' AS kind, number, prescription_id, pharmacy_id AS provider_id, " +
			"patient_id, status, delivery_fee AS amount_minor, created_at",
	},
}

// GetProviderOrdersQueryHandler serves the order inbox of a laboratory or pharmacy.
type GetProviderOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetProviderOrdersQueryHandler(db *gorm.DB) GetProviderOrdersQueryHandler {
	return GetProviderOrdersQueryHandler{db: db}
}

// Handle returns one page of the provider's orders, newest first, and the number of
// orders matching the same provider and status filter.
func (h GetProviderOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetProviderOrdersQuery,
) (paging.Result[OrderSummary], error) {
	if err := query.Validate(); err != nil {
		return paging.Result[OrderSummary]{}, err
	}

	table := providerTables[query.ProviderKind()]
	page := query.Page()

	filtered := h.db.WithContext(ctx).
		Table(table.name).
		Where(table.idColumn+" = ?", query.ProviderID().Bytes()).
		Where("deleted_at IS NULL")
	if status, ok := query.Status(); ok {
		filtered = filtered.Where("status = ?", status)
	}
	filtered = filtered.Session(&gorm.Session{})

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return paging.Result[OrderSummary]{}, err
	}

	rows, err := filtered.
		Select(table.selection).
		Order("created_at DESC, id DESC").
		Limit(page.Size()).
		Offset(page.Offset()).
		Rows()
	if err != nil {
		return paging.Result[OrderSummary]{}, err
	}

	items, err := scanOrderSummaries(rows)
	if err != nil {
		return paging.Result[OrderSummary]{}, err
	}
	return paging.NewResult(items, total, page), nil
}
