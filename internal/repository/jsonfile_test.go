package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"parts-desk/internal/domain"
	"parts-desk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFileRepository_LoadMissingFile(t *testing.T) {
	repo := repository.NewJSONFileRepository(filepath.Join(t.TempDir(), "data.json"))

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
	assert.Equal(t, "data.json", repo.Name())
}

func TestJSONFileRepository_LoadCorruptFile(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "this is not json"},
		{name: "object instead of array", content: `{"searchTerm":"x"}`},
		{name: "null", content: "null"},
		{name: "wrong field type", content: `[{"searchTerm":"x","percentage":"high","soldCount":1}]`},
		{name: "empty file", content: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := repository.NewJSONFileRepository(path).Load(context.Background())
			assert.ErrorIs(t, err, domain.ErrStoreCorrupt)
			assert.NotErrorIs(t, err, domain.ErrStoreNotFound)
		})
	}
}

func TestJSONFileRepository_LoadDirectoryIsUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err := repository.NewJSONFileRepository(path).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreRead)
}

func TestJSONFileRepository_SaveWritesIndentedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	repo := repository.NewJSONFileRepository(path)

	err := repo.Save(context.Background(), []domain.Record{
		{SearchTerm: "brake pad", Percentage: 80, SoldCount: 12},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"searchTerm\": \"brake pad\",\n    \"percentage\": 80,\n    \"soldCount\": 12\n  }\n]\n", string(data))
}

func TestJSONFileRepository_SaveEmptyIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	repo := repository.NewJSONFileRepository(path)

	require.NoError(t, repo.Save(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestJSONFileRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	repo := repository.NewJSONFileRepository(path)
	ctx := context.Background()

	records := []domain.Record{
		{SearchTerm: "spark plug", Percentage: 120, SoldCount: 40},
		{SearchTerm: "brake pad", Percentage: 80, SoldCount: 12},
		{SearchTerm: "oil filter", Percentage: 45, SoldCount: 9},
	}
	require.NoError(t, repo.Save(ctx, records))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	require.NoError(t, repo.Save(ctx, loaded))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestJSONFileRepository_LoadIgnoresUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	content := `[{"searchTerm":"alternator","percentage":30,"soldCount":3,"car":"2007 toyota camry"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := repository.NewJSONFileRepository(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Record{{SearchTerm: "alternator", Percentage: 30, SoldCount: 3}}, loaded)
}

func TestJSONFileRepository_SaveIntoUnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "parts")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not dir"), 0o644))

	repo := repository.NewJSONFileRepository(filepath.Join(blocker, "data.json"))
	err := repo.Save(context.Background(), []domain.Record{{SearchTerm: "x"}})
	assert.ErrorIs(t, err, domain.ErrStoreWrite)
}
