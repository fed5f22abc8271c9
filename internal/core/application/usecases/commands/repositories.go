// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
// Every handler that changes an existing aggregate re-runs the whole load, mutate and
// save cycle when the store reports a concurrency conflict.
package commands

import (
	"context"

	"medmarket/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends only on the repositories it touches; the postgres unit of
// work satisfies all of them.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	PrescriptionRepoFactory interface {
		PrescriptionRepository() ports.PrescriptionRepository
	}

	LabOrderRepoFactory interface {
		LabOrderRepository() ports.LabOrderRepository
	}

	PharmacyOrderRepoFactory interface {
		PharmacyOrderRepository() ports.PharmacyOrderRepository
	}

	AppointmentRepoFactory interface {
		AppointmentRepository() ports.AppointmentRepository
	}

	ReviewRepoFactory interface {
		ReviewRepository() ports.ReviewRepository
	}

	// LabOrderUoW manages transactions for lab-order-only operations.
	LabOrderUoW interface {
		TxManager
		LabOrderRepoFactory
	}

	LabOrderUoWFactory interface {
		Create() LabOrderUoW
	}

	// PharmacyOrderUoW manages transactions for pharmacy-order-only operations.
	PharmacyOrderUoW interface {
		TxManager
		PharmacyOrderRepoFactory
	}

	PharmacyOrderUoWFactory interface {
		Create() PharmacyOrderUoW
	}

	// AppointmentUoW manages transactions for appointment-only operations.
	AppointmentUoW interface {
		TxManager
		AppointmentRepoFactory
	}

	AppointmentUoWFactory interface {
		Create() AppointmentUoW
	}

	// PrescriptionUoW is used when a doctor issues a prescription for an appointment.
	PrescriptionUoW interface {
		TxManager
		PrescriptionRepoFactory
		AppointmentRepoFactory
	}

	PrescriptionUoWFactory interface {
		Create() PrescriptionUoW
	}

	// FanOutUoW writes every order of one fan-out call in a single transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   p, err := uow.PrescriptionRepository().Get(ctx, prescriptionID)
	//   // ... add lab and pharmacy orders
	//
	//   err = uow.Commit(ctx)
	FanOutUoW interface {
		TxManager
		PrescriptionRepoFactory
		LabOrderRepoFactory
		PharmacyOrderRepoFactory
	}

	FanOutUoWFactory interface {
		Create() FanOutUoW
	}

	// ReviewUoW reads the reviewed appointment or order and stores the review.
	ReviewUoW interface {
		TxManager
		ReviewRepoFactory
		AppointmentRepoFactory
		LabOrderRepoFactory
		PharmacyOrderRepoFactory
	}

	ReviewUoWFactory interface {
		Create() ReviewUoW
	}
)
