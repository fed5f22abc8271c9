// Package ports defines the persistence and messaging contracts of the workflow engine.
//
// Each entity store is composed from narrow capabilities (Getter, Querier, Adder,
// Updater) rather than a shared base repository. Entity-specific lookups that can be
// expressed as a filtered query live in finders.go as free functions over Querier.
package ports

import (
	"context"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/paging"
)

// Getter loads one entity by identifier. Missing and soft-deleted entities yield
// an errs.ObjectNotFoundError.
type Getter[T any] interface {
	Get(ctx context.Context, id kernel.UUID) (T, error)
}

// Querier returns one page of entities matching filter, newest first, together with
// the number of all matching rows. The count uses the same predicate as the page.
type Querier[T any, F any] interface {
	Query(ctx context.Context, filter F, page paging.Page) ([]T, int64, error)
}

// Adder persists a new entity within the current unit of work.
type Adder[T any] interface {
	Add(ctx context.Context, aggregate T) error
}

// Updater persists a changed entity. When the stored version differs from the
// one the aggregate was loaded with, it returns an errs.ConcurrencyConflictError
// and writes nothing.
type Updater[T any] interface {
	Update(ctx context.Context, aggregate T) error
}
