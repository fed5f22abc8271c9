// Package postgres provides the GORM-based Unit of Work over the marketplace tables.
//
// A unit of work maps one workflow operation to one database transaction, which is
// how a prescription fan-out saves all of its orders or none of them. Repositories
// obtained from it run inside the transaction started by Begin and register every
// aggregate they write; after Commit the unit of work publishes the status changes
// those aggregates recorded.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx) //nolint:errcheck // no-op after commit
//
//	for _, o := range result.LabOrders {
//	    if err := uow.LabOrderRepository().Add(ctx, o); err != nil {
//	        return err
//	    }
//	}
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Lost updates are prevented by version checks in the repositories, not by locks
package postgres

import (
	"context"
	"log/slog"

	"medmarket/internal/adapters/out/postgres/appointmentrepo"
	"medmarket/internal/adapters/out/postgres/laborderrepo"
	"medmarket/internal/adapters/out/postgres/pharmacyorderrepo"
	"medmarket/internal/adapters/out/postgres/prescriptionrepo"
	"medmarket/internal/adapters/out/postgres/reviewrepo"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates embedding kernel.EventRecorder.
type eventSource interface {
	PullEvents() []kernel.StatusChanged
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool
// and one event publisher.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// A nil publisher disables event publishing.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    return err
//	}
//	factory := NewGormUnitOfWorkFactory(db, redisPublisher, logger)
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "unit_of_work"),
	}
}

// Create produces a new UnitOfWork instance with its own transaction state and
// aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the aggregates
// written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and then publishes the status changes of every
// tracked aggregate. A publish failure is logged and does not fail the commit.
//
// Returns error if no active transaction exists or if the commit operation fails;
// in the latter case no event is published.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.discardEvents()
		return err
	}

	uow.publishEvents(ctx)
	return nil
}

// Rollback discards all changes made within the current transaction together with
// the events recorded by tracked aggregates.
//
// Returns error if no active transaction exists or if the rollback operation fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.discardEvents()
	return err
}

func (uow *GormUnitOfWork) PrescriptionRepository() ports.PrescriptionRepository {
	return prescriptionrepo.NewGormPrescriptionRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) LabOrderRepository() ports.LabOrderRepository {
	return laborderrepo.NewGormLabOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) PharmacyOrderRepository() ports.PharmacyOrderRepository {
	return pharmacyorderrepo.NewGormPharmacyOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) AppointmentRepository() ports.AppointmentRepository {
	return appointmentrepo.NewGormAppointmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ReviewRepository() ports.ReviewRepository {
	return reviewrepo.NewGormReviewRepository(uow.conn(), uow)
}

// TrackAggregate registers a domain aggregate as modified within this unit of work.
// Repositories call it after every successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the active transaction, or the pool for reads outside Begin/Commit.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) collectEvents() []kernel.StatusChanged {
	var events []kernel.StatusChanged
	for _, tracked := range uow.trackedAggregates {
		if src, ok := tracked.Aggregate.(eventSource); ok {
			events = append(events, src.PullEvents()...)
		}
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return events
}

func (uow *GormUnitOfWork) discardEvents() {
	_ = uow.collectEvents()
}

func (uow *GormUnitOfWork) publishEvents(ctx context.Context) {
	events := uow.collectEvents()
	if len(events) == 0 || uow.publisher == nil {
		return
	}
	if err := uow.publisher.Publish(ctx, events...); err != nil {
		uow.logger.ErrorContext(ctx, "Failed to publish status changes",
			"error", err,
			"events", len(events),
		)
	}
}
