package prescriptionrepo

import (
	"context"
	"errors"

	"medmarket/internal/adapters/out/postgres/pgutil"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/prescription"
	"medmarket/internal/core/ports"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/paging"

	"gorm.io/gorm"
)

// GormPrescriptionRepository implements ports.PrescriptionRepository using GORM.
type GormPrescriptionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPrescriptionRepository(db *gorm.DB, tracker aggregateTracker) *GormPrescriptionRepository {
	return &GormPrescriptionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a prescription with its items. A second prescription for the same
// appointment racing this one surfaces as a concurrency conflict.
func (r *GormPrescriptionRepository) Add(ctx context.Context, aggregate *prescription.Prescription) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgutil.IsUniqueViolation(err, "idx_prescriptions_appointment_id") {
			return errs.NewConcurrencyConflictErrorWithCause("prescription", aggregate.ID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPrescriptionRepository) Get(ctx context.Context, id kernel.UUID) (*prescription.Prescription, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PrescriptionDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("prescription", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormPrescriptionRepository) Query(
	ctx context.Context,
	filter ports.PrescriptionFilter,
	page paging.Page,
) ([]*prescription.Prescription, int64, error) {
	base := r.db.WithContext(ctx).Model(&PrescriptionDTO{}).Scopes(scope(filter)).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []PrescriptionDTO
	err := base.
		Scopes(pgutil.NewestFirst, pgutil.Paginate(page)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Find(&dtos).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]*prescription.Prescription, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	return result, total, nil
}

func scope(filter ports.PrescriptionFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id := pgutil.OptionalUUID(filter.AppointmentID); id != nil {
			db = db.Where("appointment_id = ?", *id)
		}
		if id := pgutil.OptionalUUID(filter.DoctorID); id != nil {
			db = db.Where("doctor_id = ?", *id)
		}
		if id := pgutil.OptionalUUID(filter.PatientID); id != nil {
			db = db.Where("patient_id = ?", *id)
		}
		return db
	}
}
