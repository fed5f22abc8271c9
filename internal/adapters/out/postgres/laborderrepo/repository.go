package laborderrepo

import (
	"context"
	"errors"

	"medmarket/internal/adapters/out/postgres/pgutil"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/ports"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/paging"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLabOrderRepository implements ports.LabOrderRepository using GORM.
type GormLabOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormLabOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormLabOrderRepository {
	return &GormLabOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new lab order with its tests.
func (r *GormLabOrderRepository) Add(ctx context.Context, aggregate *laborder.LabOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order only if its stored version still equals the version it
// was loaded with, then bumps the version. Newly submitted results are inserted;
// tests never change after creation.
func (r *GormLabOrderRepository) Update(ctx context.Context, aggregate *laborder.LabOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	db := r.db.WithContext(ctx)
	result := db.Model(&LabOrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit(clause.Associations, "id", "created_at", "deleted_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrConflict(ctx, aggregate.ID())
	}

	if len(dto.Results) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.Results).Error; err != nil {
			return err
		}
	}

	aggregate.IncrementVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormLabOrderRepository) Get(ctx context.Context, id kernel.UUID) (*laborder.LabOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LabOrderDTO
	if err := r.preload(r.db.WithContext(ctx)).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("lab order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormLabOrderRepository) Query(
	ctx context.Context,
	filter ports.LabOrderFilter,
	page paging.Page,
) ([]*laborder.LabOrder, int64, error) {
	base := r.db.WithContext(ctx).Model(&LabOrderDTO{}).Scopes(scope(filter)).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []LabOrderDTO
	if err := r.preload(base.Scopes(pgutil.NewestFirst, pgutil.Paginate(page))).Find(&dtos).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*laborder.LabOrder, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, nil
}

func (r *GormLabOrderRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tests", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Results", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func (r *GormLabOrderRepository) missingOrConflict(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&LabOrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("lab order", id.String())
	}
	return errs.NewConcurrencyConflictError(laborder.AggregateKind, id.String())
}

func scope(filter ports.LabOrderFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id := pgutil.OptionalUUID(filter.PrescriptionID); id != nil {
			db = db.Where("prescription_id = ?", *id)
		}
		if id := pgutil.OptionalUUID(filter.LaboratoryID); id != nil {
			db = db.Where("laboratory_id = ?", *id)
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
