// Package http exposes the marketplace workflow over a JSON REST API built on echo.
//
// Handlers only translate between wire DTOs and commands or queries; every rule is
// enforced by the use cases behind them. Domain error kinds map onto status codes in
// one place, see statusFor.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/application/usecases/queries"
	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/domain/model/prescription"
	"medmarket/internal/core/domain/model/review"
	"medmarket/internal/core/domain/services"
	"medmarket/internal/pkg/paging"

	"github.com/labstack/echo/v4"
)

// Handler is implemented by every command and query handler.
type Handler[Req any, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	// Command handlers
	ScheduleAppointment       Handler[commands.ScheduleAppointmentCommand, *appointment.Appointment]
	CompleteAppointment       Handler[commands.CompleteAppointmentCommand, *appointment.Appointment]
	CancelAppointment         Handler[commands.CancelAppointmentCommand, *appointment.Appointment]
	CreatePrescription        Handler[commands.CreatePrescriptionCommand, *prescription.Prescription]
	CreateOrders              Handler[commands.CreateOrdersFromPrescriptionCommand, services.FanOutResult]
	RecordLabPayment          Handler[commands.RecordLabPaymentCommand, *laborder.LabOrder]
	RejectLabOrder            Handler[commands.RejectLabOrderCommand, *laborder.LabOrder]
	SubmitLabResults          Handler[commands.SubmitLabResultsCommand, *laborder.LabOrder]
	ChangeLabOrderStatus      Handler[commands.ChangeLabOrderStatusCommand, *laborder.LabOrder]
	ConfirmPharmacyOrder      Handler[commands.ConfirmPharmacyOrderCommand, *pharmacyorder.PharmacyOrder]
	RejectPharmacyOrder       Handler[commands.RejectPharmacyOrderCommand, *pharmacyorder.PharmacyOrder]
	ChangePharmacyOrderStatus Handler[commands.ChangePharmacyOrderStatusCommand, *pharmacyorder.PharmacyOrder]
	CreateReview              Handler[commands.CreateReviewCommand, *review.Review]

	// Query handlers
	GetLabOrder              Handler[queries.GetLabOrderQuery, *laborder.LabOrder]
	GetPharmacyOrderByNumber Handler[queries.GetPharmacyOrderByNumberQuery, *pharmacyorder.PharmacyOrder]
	GetPatientOrders         Handler[queries.GetPatientOrdersQuery, paging.Result[queries.OrderSummary]]
	GetProviderOrders        Handler[queries.GetProviderOrdersQuery, paging.Result[queries.OrderSummary]]
	GetDoctorPatients        Handler[queries.GetDoctorPatientsQuery, paging.Result[queries.DoctorPatient]]
	GetRatingSummary         Handler[queries.GetRatingSummaryQuery, review.Summary]
	GetReviewBySource        Handler[queries.GetReviewBySourceQuery, *review.Review]
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	limits paging.Limits
	logger *slog.Logger
}

// NewServer creates the HTTP adapter. limits bounds the page size of every listing.
func NewServer(handlers Handlers, limits paging.Limits, logger *slog.Logger) *Server {
	return &Server{
		h:      handlers,
		limits: limits,
		logger: logger.With("component", "http_server"),
	}
}

// NewEcho builds an echo instance with the server's routes and middleware.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.recoverer)

	e.GET("/health", s.Health)
	s.RegisterRoutes(e.Group("/api/v1"))
	return e
}

// RegisterRoutes registers the marketplace API on g. Static segments such as
// /payment take precedence over the :action routes.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.POST("/appointments", s.ScheduleAppointment)
	g.POST("/appointments/:id/complete", s.CompleteAppointment)
	g.POST("/appointments/:id/cancel", s.CancelAppointment)
	g.GET("/appointments/:id/review", s.GetReview)

	g.POST("/prescriptions", s.CreatePrescription)
	g.POST("/prescriptions/:id/orders", s.CreateOrders)

	g.GET("/lab-orders/:id", s.GetLabOrder)
	g.GET("/lab-orders/:id/review", s.GetReview)
	g.POST("/lab-orders/:id/payment", s.RecordLabPayment)
	g.POST("/lab-orders/:id/reject", s.RejectLabOrder)
	g.POST("/lab-orders/:id/results", s.SubmitLabResults)
	g.POST("/lab-orders/:id/:action", s.ChangeLabOrderStatus)

	g.GET("/pharmacy-orders/by-number/:number", s.GetPharmacyOrderByNumber)
	g.GET("/pharmacy-orders/:id/review", s.GetReview)
	g.POST("/pharmacy-orders/:id/confirm", s.ConfirmPharmacyOrder)
	g.POST("/pharmacy-orders/:id/reject", s.RejectPharmacyOrder)
	g.POST("/pharmacy-orders/:id/:action", s.ChangePharmacyOrderStatus)

	g.POST("/reviews", s.CreateReview)

	g.GET("/patients/:id/orders", s.GetPatientOrders)
	g.GET("/laboratories/:id/orders", s.providerOrders(services.LaboratoryProvider))
	g.GET("/pharmacies/:id/orders", s.providerOrders(services.PharmacyProvider))
	g.GET("/doctors/:id/patients", s.GetDoctorPatients)

	g.GET("/doctors/:id/rating", s.ratingSummary(review.Doctor))
	g.GET("/laboratories/:id/rating", s.ratingSummary(review.Laboratory))
	g.GET("/pharmacies/:id/rating", s.ratingSummary(review.Pharmacy))
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// recoverer turns a panicking handler into a 500 instead of a dropped connection.
func (s *Server) recoverer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.ErrorContext(c.Request().Context(), "Handler panicked",
					"panic", r,
					"method", c.Request().Method,
					"path", c.Path(),
				)
				err = c.JSON(http.StatusInternalServerError, ErrorResponse{
					Code:    http.StatusInternalServerError,
					Message: "Internal server error",
				})
			}
		}()
		return next(c)
	}
}
