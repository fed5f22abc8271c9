package commands_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/domain/model/prescription"
	"medmarket/internal/core/domain/model/review"
	"medmarket/internal/core/ports"
	"medmarket/internal/pkg/paging"

	"github.com/stretchr/testify/mock"
)

// Get mocks accept either a value or a func returning a fresh value, so a retried
// unit of work can load an unmodified aggregate.

type MockLabOrderRepository struct{ mock.Mock }

func (m *MockLabOrderRepository) Add(ctx context.Context, o *laborder.LabOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockLabOrderRepository) Update(ctx context.Context, o *laborder.LabOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockLabOrderRepository) Get(ctx context.Context, id kernel.UUID) (*laborder.LabOrder, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func() *laborder.LabOrder); ok {
		return f(), args.Error(1)
	}
	o, _ := args.Get(0).(*laborder.LabOrder)
	return o, args.Error(1)
}

func (m *MockLabOrderRepository) Query(
	ctx context.Context,
	filter ports.LabOrderFilter,
	page paging.Page,
) ([]*laborder.LabOrder, int64, error) {
	args := m.Called(ctx, filter, page)
	orders, _ := args.Get(0).([]*laborder.LabOrder)
	return orders, args.Get(1).(int64), args.Error(2)
}

type MockPharmacyOrderRepository struct{ mock.Mock }

func (m *MockPharmacyOrderRepository) Add(ctx context.Context, o *pharmacyorder.PharmacyOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockPharmacyOrderRepository) Update(ctx context.Context, o *pharmacyorder.PharmacyOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockPharmacyOrderRepository) Get(ctx context.Context, id kernel.UUID) (*pharmacyorder.PharmacyOrder, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func() *pharmacyorder.PharmacyOrder); ok {
		return f(), args.Error(1)
	}
	o, _ := args.Get(0).(*pharmacyorder.PharmacyOrder)
	return o, args.Error(1)
}

func (m *MockPharmacyOrderRepository) Query(
	ctx context.Context,
	filter ports.PharmacyOrderFilter,
	page paging.Page,
) ([]*pharmacyorder.PharmacyOrder, int64, error) {
	args := m.Called(ctx, filter, page)
	orders, _ := args.Get(0).([]*pharmacyorder.PharmacyOrder)
	return orders, args.Get(1).(int64), args.Error(2)
}

type MockPrescriptionRepository struct{ mock.Mock }

func (m *MockPrescriptionRepository) Add(ctx context.Context, p *prescription.Prescription) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPrescriptionRepository) Get(ctx context.Context, id kernel.UUID) (*prescription.Prescription, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*prescription.Prescription)
	return p, args.Error(1)
}

func (m *MockPrescriptionRepository) Query(
	ctx context.Context,
	filter ports.PrescriptionFilter,
	page paging.Page,
) ([]*prescription.Prescription, int64, error) {
	args := m.Called(ctx, filter, page)
	found, _ := args.Get(0).([]*prescription.Prescription)
	return found, args.Get(1).(int64), args.Error(2)
}

type MockAppointmentRepository struct{ mock.Mock }

func (m *MockAppointmentRepository) Add(ctx context.Context, a *appointment.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAppointmentRepository) Get(ctx context.Context, id kernel.UUID) (*appointment.Appointment, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(func() *appointment.Appointment); ok {
		return f(), args.Error(1)
	}
	a, _ := args.Get(0).(*appointment.Appointment)
	return a, args.Error(1)
}

func (m *MockAppointmentRepository) Query(
	ctx context.Context,
	filter ports.AppointmentFilter,
	page paging.Page,
) ([]*appointment.Appointment, int64, error) {
	args := m.Called(ctx, filter, page)
	found, _ := args.Get(0).([]*appointment.Appointment)
	return found, args.Get(1).(int64), args.Error(2)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Add(ctx context.Context, r *review.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReviewRepository) Query(
	ctx context.Context,
	filter ports.ReviewFilter,
	page paging.Page,
) ([]*review.Review, int64, error) {
	args := m.Called(ctx, filter, page)
	found, _ := args.Get(0).([]*review.Review)
	return found, args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) Summary(ctx context.Context, subject review.Subject) (review.Summary, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).(review.Summary), args.Error(1)
}

// MockUoW satisfies every unit of work interface of the commands package.
type MockUoW struct {
	mock.Mock

	prescriptions *MockPrescriptionRepository
	labOrders     *MockLabOrderRepository
	pharmacies    *MockPharmacyOrderRepository
	appointments  *MockAppointmentRepository
	reviews       *MockReviewRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		prescriptions: new(MockPrescriptionRepository),
		labOrders:     new(MockLabOrderRepository),
		pharmacies:    new(MockPharmacyOrderRepository),
		appointments:  new(MockAppointmentRepository),
		reviews:       new(MockReviewRepository),
	}
}

// expectTx allows any number of transactions that begin and roll back cleanly.
func (m *MockUoW) expectTx() *MockUoW {
	m.On("Begin", mock.Anything).Return(nil).Maybe()
	m.On("Rollback", mock.Anything).Return(nil).Maybe()
	return m
}

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) PrescriptionRepository() ports.PrescriptionRepository   { return m.prescriptions }
func (m *MockUoW) LabOrderRepository() ports.LabOrderRepository           { return m.labOrders }
func (m *MockUoW) PharmacyOrderRepository() ports.PharmacyOrderRepository { return m.pharmacies }
func (m *MockUoW) AppointmentRepository() ports.AppointmentRepository     { return m.appointments }
func (m *MockUoW) ReviewRepository() ports.ReviewRepository               { return m.reviews }

// uowFactory hands out the same mock unit of work for every Create call.
type uowFactory struct {
	uow     *MockUoW
	created int
}

func (f *uowFactory) next() *MockUoW {
	f.created++
	return f.uow
}

type labFactory struct{ *uowFactory }

func (f labFactory) Create() commands.LabOrderUoW { return f.next() }

type pharmacyFactory struct{ *uowFactory }

func (f pharmacyFactory) Create() commands.PharmacyOrderUoW { return f.next() }

type appointmentFactory struct{ *uowFactory }

func (f appointmentFactory) Create() commands.AppointmentUoW { return f.next() }

type prescriptionFactory struct{ *uowFactory }

func (f prescriptionFactory) Create() commands.PrescriptionUoW { return f.next() }

type fanOutFactory struct{ *uowFactory }

func (f fanOutFactory) Create() commands.FanOutUoW { return f.next() }

type reviewFactory struct{ *uowFactory }

func (f reviewFactory) Create() commands.ReviewUoW { return f.next() }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastRetrier() commands.ConflictRetrier {
	return commands.NewConflictRetrier(3, time.Millisecond, discardLogger())
}
