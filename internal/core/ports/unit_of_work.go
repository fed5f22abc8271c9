package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary: every write made through
// its repositories between Begin and Commit is saved atomically or not at all.
// After a successful commit the status changes recorded by the saved aggregates
// are handed to the EventPublisher.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	PrescriptionRepository() PrescriptionRepository
	LabOrderRepository() LabOrderRepository
	PharmacyOrderRepository() PharmacyOrderRepository
	AppointmentRepository() AppointmentRepository
	ReviewRepository() ReviewRepository
}
