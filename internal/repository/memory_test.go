package repository_test

import (
	"context"
	"testing"

	"parts-desk/internal/domain"
	"parts-desk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_LoadBeforeSave_NotFound(t *testing.T) {
	repo := repository.NewMemoryRepository()

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
}

func TestMemoryRepository_SaveThenLoad(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	records := []domain.Record{
		{SearchTerm: "brake pad", Percentage: 80, SoldCount: 12},
		{SearchTerm: "oil filter", Percentage: 45, SoldCount: 9},
	}
	require.NoError(t, repo.Save(ctx, records))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestMemoryRepository_StoresCopy(t *testing.T) {
	records := []domain.Record{{SearchTerm: "brake pad", Percentage: 80, SoldCount: 12}}
	repo := repository.NewMemoryRepositoryWith(records)

	// Modify original after seeding
	records[0].SoldCount = 999

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, loaded[0].SoldCount)

	// Modify loaded copy
	loaded[0].SoldCount = 1
	again, _ := repo.Load(context.Background())
	assert.Equal(t, 12, again[0].SoldCount)
}

func TestMemoryRepository_EmptySeedExists(t *testing.T) {
	repo := repository.NewMemoryRepositoryWith(nil)

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestMemoryRepository_RespectsCancelledContext(t *testing.T) {
	repo := repository.NewMemoryRepositoryWith(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Save(ctx, nil), context.Canceled)
}
