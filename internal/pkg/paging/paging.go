// Package paging implements the 1-indexed page contract shared by every list view.
package paging

import (
	"medmarket/internal/pkg/errs"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Limits bounds page sizes. A zero size falls back to Default, sizes above Max are clamped.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits returns the limits used when configuration does not override them.
func DefaultLimits() Limits {
	return Limits{Default: DefaultPageSize, Max: MaxPageSize}
}

// Page is a validated (number, size) pair.
type Page struct {
	number int
	size   int
}

// NewPage builds a page using DefaultLimits.
func NewPage(number, size int) (Page, error) {
	return DefaultLimits().NewPage(number, size)
}

// NewPage validates number (>= 1) and size (>= 0), applying the default and ceiling.
func (l Limits) NewPage(number, size int) (Page, error) {
	if number < 1 {
		return Page{}, errs.NewValueIsOutOfRangeError("pageNumber", number, 1, "unbounded")
	}
	if size < 0 {
		return Page{}, errs.NewValueIsOutOfRangeError("pageSize", size, 0, l.Max)
	}
	if size == 0 {
		size = l.Default
	}
	if size > l.Max {
		size = l.Max
	}
	return Page{number: number, size: size}, nil
}

func (p Page) Number() int {
	return p.number
}

func (p Page) Size() int {
	return p.size
}

// Offset is (number-1)*size.
func (p Page) Offset() int {
	return (p.number - 1) * p.size
}

// IsZero reports whether p was never built through NewPage.
func (p Page) IsZero() bool {
	return p.size == 0
}

// HasNext reports whether rows remain after this page for the given total.
func (p Page) HasNext(total int64) bool {
	return int64(p.Offset()+p.size) < total
}

// Result is one page of items plus the count of all rows matching the same filter.
type Result[T any] struct {
	Items      []T
	TotalCount int64
	Page       Page
}

// NewResult wraps items, substituting an empty slice for nil.
func NewResult[T any](items []T, total int64, page Page) Result[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return Result[T]{Items: items, TotalCount: total, Page: page}
}
