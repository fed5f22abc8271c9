package pharmacyorderrepo

import (
	"context"
	"errors"

	"medmarket/internal/adapters/out/postgres/pgutil"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/ports"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/paging"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPharmacyOrderRepository implements ports.PharmacyOrderRepository using GORM.
type GormPharmacyOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPharmacyOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormPharmacyOrderRepository {
	return &GormPharmacyOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items. An order number collision is reported as a
// concurrency conflict so that the caller retries with a freshly generated number.
func (r *GormPharmacyOrderRepository) Add(ctx context.Context, aggregate *pharmacyorder.PharmacyOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgutil.IsUniqueViolation(err, numberConstraint) {
			return errs.NewConcurrencyConflictErrorWithCause(pharmacyorder.AggregateKind, dto.Number, err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order only if its stored version is unchanged since load.
func (r *GormPharmacyOrderRepository) Update(ctx context.Context, aggregate *pharmacyorder.PharmacyOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&PharmacyOrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit(clause.Associations, "id", "number", "created_at", "deleted_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&PharmacyOrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("pharmacy order", aggregate.ID().String())
		}
		return errs.NewConcurrencyConflictError(pharmacyorder.AggregateKind, aggregate.ID().String())
	}

	aggregate.IncrementVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPharmacyOrderRepository) Get(ctx context.Context, id kernel.UUID) (*pharmacyorder.PharmacyOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PharmacyOrderDTO
	if err := preloadItems(r.db.WithContext(ctx)).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pharmacy order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormPharmacyOrderRepository) Query(
	ctx context.Context,
	filter ports.PharmacyOrderFilter,
	page paging.Page,
) ([]*pharmacyorder.PharmacyOrder, int64, error) {
	base := r.db.WithContext(ctx).Model(&PharmacyOrderDTO{}).Scopes(scope(filter)).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []PharmacyOrderDTO
	if err := preloadItems(base.Scopes(pgutil.NewestFirst, pgutil.Paginate(page))).Find(&dtos).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*pharmacyorder.PharmacyOrder, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, nil
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func scope(filter ports.PharmacyOrderFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Number != nil {
			db = db.Where("number = ?", filter.Number.String())
		}
		if id := pgutil.OptionalUUID(filter.PrescriptionID); id != nil {
			db = db.Where("prescription_id = ?", *id)
		}
		if id := pgutil.OptionalUUID(filter.PharmacyID); id != nil {
			db = db.Where("pharmacy_id = ?", *id)
		}
		if id := pgutil.OptionalUUID(filter.PatientID); id != nil {
			db = db.Where("patient_id = ?", *id)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", filter.Status.String())
		}
		if filter.CreatedBefore != nil {
			db = db.Where("created_at < ?", *filter.CreatedBefore)
		}
		return db
	}
}
