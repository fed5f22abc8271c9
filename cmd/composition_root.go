package cmd

import (
	"log/slog"

	httpin "medmarket/internal/adapters/in/http"
	"medmarket/internal/adapters/out/postgres"
	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/application/usecases/queries"
	"medmarket/internal/core/domain/services"
	"medmarket/internal/core/ports"
	"medmarket/internal/jobs"
	"medmarket/internal/pkg/paging"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	retrier    commands.ConflictRetrier
	logger     *slog.Logger
}

// NewCompositionRoot wires use cases over gormDB. publisher may be nil, in which
// case committed status changes are not announced.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		retrier:    commands.NewConflictRetrier(cfg.ConflictRetryAttempts, cfg.ConflictRetryInterval, logger),
		logger:     logger,
	}
}

func (c *CompositionRoot) labOrderUoWFactory() commands.LabOrderUoWFactory {
	return FuncLabOrderUoWFactory(func() commands.LabOrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) pharmacyOrderUoWFactory() commands.PharmacyOrderUoWFactory {
	return FuncPharmacyOrderUoWFactory(func() commands.PharmacyOrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) appointmentUoWFactory() commands.AppointmentUoWFactory {
	return FuncAppointmentUoWFactory(func() commands.AppointmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateScheduleAppointmentCommandHandler() commands.ScheduleAppointmentCommandHandler {
	return commands.NewScheduleAppointmentCommandHandler(c.appointmentUoWFactory())
}

func (c *CompositionRoot) CreateCompleteAppointmentCommandHandler() commands.CompleteAppointmentCommandHandler {
	return commands.NewCompleteAppointmentCommandHandler(c.appointmentUoWFactory(), c.retrier)
}

func (c *CompositionRoot) CreateCancelAppointmentCommandHandler() commands.CancelAppointmentCommandHandler {
	return commands.NewCancelAppointmentCommandHandler(c.appointmentUoWFactory(), c.retrier)
}

func (c *CompositionRoot) CreateCreatePrescriptionCommandHandler() commands.CreatePrescriptionCommandHandler {
	var f commands.PrescriptionUoWFactory = FuncPrescriptionUoWFactory(func() commands.PrescriptionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreatePrescriptionCommandHandler(f, c.retrier)
}

func (c *CompositionRoot) CreateCreateOrdersFromPrescriptionCommandHandler() commands.CreateOrdersFromPrescriptionCommandHandler {
	var f commands.FanOutUoWFactory = FuncFanOutUoWFactory(func() commands.FanOutUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrdersFromPrescriptionCommandHandler(f, services.NewPrescriptionFanOut(), c.retrier)
}

func (c *CompositionRoot) CreateRecordLabPaymentCommandHandler() commands.RecordLabPaymentCommandHandler {
	return commands.NewRecordLabPaymentCommandHandler(c.labOrderUoWFactory(), c.retrier)
}

func (c *CompositionRoot) CreateRejectLabOrderCommandHandler() commands.RejectLabOrderCommandHandler {
	return commands.NewRejectLabOrderCommandHandler(c.labOrderUoWFactory(), c.retrier)
}

func (c *CompositionRoot) CreateSubmitLabResultsCommandHandler() commands.SubmitLabResultsCommandHandler {
	return commands.NewSubmitLabResultsCommandHandler(c.labOrderUoWFactory(), c.retrier)
}

func (c *CompositionRoot) CreateChangeLabOrderStatusCommandHandler() commands.ChangeLabOrderStatusCommandHandler {
	return commands.NewChangeLabOrderStatusCommandHandler(c.labOrderUoWFactory(), c.retrier)
}

func (c *CompositionRoot) CreateConfirmPharmacyOrderCommandHandler() commands.ConfirmPharmacyOrderCommandHandler {
	return commands.NewConfirmPharmacyOrderCommandHandler(c.pharmacyOrderUoWFactory(), c.retrier)
}

func (c *CompositionRoot) CreateRejectPharmacyOrderCommandHandler() commands.RejectPharmacyOrderCommandHandler {
	return commands.NewRejectPharmacyOrderCommandHandler(c.pharmacyOrderUoWFactory(), c.retrier)
}

func (c *CompositionRoot) CreateChangePharmacyOrderStatusCommandHandler() commands.ChangePharmacyOrderStatusCommandHandler {
	return commands.NewChangePharmacyOrderStatusCommandHandler(c.pharmacyOrderUoWFactory(), c.retrier)
}

func (c *CompositionRoot) CreateCreateReviewCommandHandler() commands.CreateReviewCommandHandler {
	var f commands.ReviewUoWFactory = FuncReviewUoWFactory(func() commands.ReviewUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateReviewCommandHandler(f)
}

func (c *CompositionRoot) CreateCancelAbandonedOrdersCommandHandler() commands.CancelAbandonedOrdersCommandHandler {
	return commands.NewCancelAbandonedOrdersCommandHandler(
		c.labOrderUoWFactory(), c.pharmacyOrderUoWFactory(), c.retrier, c.logger,
	)
}

func (c *CompositionRoot) CreateGetLabOrderQueryHandler() queries.GetLabOrderQueryHandler {
	return queries.NewGetLabOrderQueryHandler(c.uowFactory.Create().LabOrderRepository())
}

func (c *CompositionRoot) CreateGetPharmacyOrderByNumberQueryHandler() queries.GetPharmacyOrderByNumberQueryHandler {
	return queries.NewGetPharmacyOrderByNumberQueryHandler(c.uowFactory.Create().PharmacyOrderRepository())
}

func (c *CompositionRoot) CreateGetPatientOrdersQueryHandler() queries.GetPatientOrdersQueryHandler {
	return queries.NewGetPatientOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetProviderOrdersQueryHandler() queries.GetProviderOrdersQueryHandler {
	return queries.NewGetProviderOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDoctorPatientsQueryHandler() queries.GetDoctorPatientsQueryHandler {
	return queries.NewGetDoctorPatientsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRatingSummaryQueryHandler() queries.GetRatingSummaryQueryHandler {
	return queries.NewGetRatingSummaryQueryHandler(c.uowFactory.Create().ReviewRepository())
}

func (c *CompositionRoot) CreateGetReviewBySourceQueryHandler() queries.GetReviewBySourceQueryHandler {
	return queries.NewGetReviewBySourceQueryHandler(c.uowFactory.Create().ReviewRepository())
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	handlers := httpin.Handlers{
		ScheduleAppointment:       c.CreateScheduleAppointmentCommandHandler(),
		CompleteAppointment:       c.CreateCompleteAppointmentCommandHandler(),
		CancelAppointment:         c.CreateCancelAppointmentCommandHandler(),
		CreatePrescription:        c.CreateCreatePrescriptionCommandHandler(),
		CreateOrders:              c.CreateCreateOrdersFromPrescriptionCommandHandler(),
		RecordLabPayment:          c.CreateRecordLabPaymentCommandHandler(),
		RejectLabOrder:            c.CreateRejectLabOrderCommandHandler(),
		SubmitLabResults:          c.CreateSubmitLabResultsCommandHandler(),
		ChangeLabOrderStatus:      c.CreateChangeLabOrderStatusCommandHandler(),
		ConfirmPharmacyOrder:      c.CreateConfirmPharmacyOrderCommandHandler(),
		RejectPharmacyOrder:       c.CreateRejectPharmacyOrderCommandHandler(),
		ChangePharmacyOrderStatus: c.CreateChangePharmacyOrderStatusCommandHandler(),
		CreateReview:              c.CreateCreateReviewCommandHandler(),

		GetLabOrder:              c.CreateGetLabOrderQueryHandler(),
		GetPharmacyOrderByNumber: c.CreateGetPharmacyOrderByNumberQueryHandler(),
		GetPatientOrders:         c.CreateGetPatientOrdersQueryHandler(),
		GetProviderOrders:        c.CreateGetProviderOrdersQueryHandler(),
		GetDoctorPatients:        c.CreateGetDoctorPatientsQueryHandler(),
		GetRatingSummary:         c.CreateGetRatingSummaryQueryHandler(),
		GetReviewBySource:        c.CreateGetReviewBySourceQueryHandler(),
	}
	limits := paging.Limits{Default: c.cfg.PageSizeDefault, Max: c.cfg.PageSizeMax}
	return httpin.NewServer(handlers, limits, c.logger)
}

func (c *CompositionRoot) CreateAbandonedOrderSweepJob() *jobs.AbandonedOrderSweepJob {
	return jobs.NewAbandonedOrderSweepJob(
		c.CreateCancelAbandonedOrdersCommandHandler(),
		c.cfg.AbandonedOrderTTL,
		c.cfg.AbandonedOrderSweep,
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateAbandonedOrderSweepJob())
}

type FuncLabOrderUoWFactory func() commands.LabOrderUoW

func (f FuncLabOrderUoWFactory) Create() commands.LabOrderUoW {
	return f()
}

type FuncPharmacyOrderUoWFactory func() commands.PharmacyOrderUoW

func (f FuncPharmacyOrderUoWFactory) Create() commands.PharmacyOrderUoW {
	return f()
}

type FuncAppointmentUoWFactory func() commands.AppointmentUoW

func (f FuncAppointmentUoWFactory) Create() commands.AppointmentUoW {
	return f()
}

type FuncPrescriptionUoWFactory func() commands.PrescriptionUoW

func (f FuncPrescriptionUoWFactory) Create() commands.PrescriptionUoW {
	return f()
}

type FuncFanOutUoWFactory func() commands.FanOutUoW

func (f FuncFanOutUoWFactory) Create() commands.FanOutUoW {
	return f()
}

type FuncReviewUoWFactory func() commands.ReviewUoW

func (f FuncReviewUoWFactory) Create() commands.ReviewUoW {
	return f()
}
