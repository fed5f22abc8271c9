package appointmentrepo

import (
	"context"
	"errors"

	"medmarket/internal/adapters/out/postgres/pgutil"
	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/ports"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/paging"

	"gorm.io/gorm"
)

// GormAppointmentRepository implements ports.AppointmentRepository using GORM.
type GormAppointmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormAppointmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAppointmentRepository {
	return &GormAppointmentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormAppointmentRepository) Add(ctx context.Context, aggregate *appointment.Appointment) error {
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

func (r *GormAppointmentRepository) Update(ctx context.Context, aggregate *appointment.Appointment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&AppointmentDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("status", "completed_at", "cancelled_at", "version").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return errs.NewConcurrencyConflictError(appointment.AggregateKind, aggregate.ID().String())
	}

	aggregate.IncrementVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormAppointmentRepository) Get(ctx context.Context, id kernel.UUID) (*appointment.Appointment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AppointmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("appointment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormAppointmentRepository) Query(
	ctx context.Context,
	filter ports.AppointmentFilter,
	page paging.Page,
) ([]*appointment.Appointment, int64, error) {
	base := r.db.WithContext(ctx).Model(&AppointmentDTO{}).Scopes(scope(filter)).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []AppointmentDTO
	if err := base.Scopes(pgutil.NewestFirst, pgutil.Paginate(page)).Find(&dtos).Error; err != nil {
		return nil, 0, err
	}

	result := make([]*appointment.Appointment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, a)
	}
	return result, total, nil
}

func scope(filter ports.AppointmentFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id := pgutil.OptionalUUID(filter.DoctorID); id != nil {
			db = db.Where("doctor_id = ?", *id)
		}
		if id := pgutil.OptionalUUID(filter.PatientID); id != nil {
			db = db.Where("patient_id = ?", *id)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", filter.Status.String())
		}
		return db
	}
}
