package domain_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"parts-desk/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	all := []error{
		domain.ErrMissingKey,
		domain.ErrKeyNotFound,
		domain.ErrStoreNotFound,
		domain.ErrStoreRead,
		domain.ErrStoreCorrupt,
		domain.ErrStoreWrite,
		domain.ErrNoSources,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestErrors_CanBeWrapped(t *testing.T) {
	wrapped := fmt.Errorf("operation failed: %w", domain.ErrKeyNotFound)
	assert.True(t, errors.Is(wrapped, domain.ErrKeyNotFound))
}

func TestStoreError_MatchesKindAndCause(t *testing.T) {
	err := error(&domain.StoreError{Kind: domain.ErrStoreRead, Path: "data.json", Err: fs.ErrPermission})

	assert.ErrorIs(t, err, domain.ErrStoreRead)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, domain.ErrStoreCorrupt)

	var se *domain.StoreError
	assert.True(t, errors.As(fmt.Errorf("loading: %w", err), &se))
	assert.Equal(t, fs.ErrPermission.Error(), se.Detail())
	assert.Contains(t, err.Error(), "data.json")
}

func TestStoreError_WithoutCause(t *testing.T) {
	err := &domain.StoreError{Kind: domain.ErrStoreNotFound, Path: "parts/data.json"}

	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
	assert.Equal(t, "", err.Detail())
	assert.Equal(t, "store not found: parts/data.json", err.Error())
}
