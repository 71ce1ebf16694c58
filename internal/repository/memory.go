package repository

import (
	"context"
	"sync"

	"parts-desk/internal/domain"
)

// MemoryRepository provides thread-safe in-memory storage. It backs dry
// runs and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []domain.Record
	exists  bool
}

// NewMemoryRepository creates an in-memory repository that behaves like a
// store file that has not been created yet.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// NewMemoryRepositoryWith creates an in-memory repository seeded with records.
func NewMemoryRepositoryWith(records []domain.Record) *MemoryRepository {
	return &MemoryRepository{
		records: domain.CloneRecords(records),
		exists:  true,
	}
}

// Name returns a fixed label for the in-memory store.
func (r *MemoryRepository) Name() string {
	return "memory"
}

// Load returns a copy of the stored records.
func (r *MemoryRepository) Load(ctx context.Context) ([]domain.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.exists {
		return nil, &domain.StoreError{Kind: domain.ErrStoreNotFound, Path: r.Name()}
	}
	return domain.CloneRecords(r.records), nil
}

// Save replaces the stored records with a copy of records.
func (r *MemoryRepository) Save(ctx context.Context, records []domain.Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = domain.CloneRecords(records)
	r.exists = true
	return nil
}
