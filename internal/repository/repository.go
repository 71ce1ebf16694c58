package repository

import (
	"context"

	"parts-desk/internal/domain"
)

// Repository defines the contract for record store access. The store is
// always read and written as a whole.
type Repository interface {
	// Load returns every record in store order.
	// Returns domain.ErrStoreNotFound if the store does not exist yet,
	// domain.ErrStoreRead if it cannot be read and domain.ErrStoreCorrupt
	// if its content is not a record array.
	Load(ctx context.Context) ([]domain.Record, error)

	// Save replaces the whole store with records.
	// Returns domain.ErrStoreWrite on failure, in which case the previous
	// content is left untouched.
	Save(ctx context.Context, records []domain.Record) error

	// Name identifies the store in user-facing messages.
	Name() string
}
