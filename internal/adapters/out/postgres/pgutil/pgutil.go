// Package pgutil holds helpers shared by the GORM repositories: paging scopes,
// identifier conversion and PostgreSQL error classification.
package pgutil

import (
	"errors"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/paging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation. With a
// non-empty constraint, the violated constraint must also match.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// Paginate applies LIMIT/OFFSET for page. A zero page means the first default page.
func Paginate(page paging.Page) func(*gorm.DB) *gorm.DB {
	if page.IsZero() {
		page, _ = paging.NewPage(1, 0)
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Offset()).Limit(page.Size())
	}
}

// NewestFirst orders rows by creation time descending; id breaks ties so pages are stable.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// OptionalUUID converts a filter field to a driver value.
func OptionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

// ToUUID converts a stored identifier back into the domain type.
func ToUUID(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}
