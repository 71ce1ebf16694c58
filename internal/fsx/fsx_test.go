package fsx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_CreatesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data.json")

	require.NoError(t, WriteFileAtomic(path, []byte("[]"), 0o644))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	require.NoError(t, WriteFileAtomic(path, []byte(`[{"a":1}]`), 0o644))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1}]`, string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomic_FailedRenameKeepsOldContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	renameFunc = func(string, string) error { return errors.New("disk full") }
	t.Cleanup(func() { renameFunc = os.Rename })

	err := WriteFileAtomic(path, []byte("new"), 0o644)
	require.Error(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLatest_PicksNewestModTime(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	for i, name := range []string{"a.csv", "b.csv", "c.csv"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
		mtime := now.Add(-time.Duration(3-i) * time.Hour)
		if name == "a.csv" {
			mtime = now.Add(time.Hour)
		}
		require.NoError(t, os.Chtimes(p, mtime, mtime))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "z.txt"), []byte("x"), 0o644))

	got, err := Latest(dir, "*.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.csv"), got.Path)
	assert.Equal(t, int64(5), got.Size)
}

func TestLatest_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.csv"), 0o755))

	_, err := Latest(dir, "*.csv")
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestLatest_NoMatches(t *testing.T) {
	_, err := Latest(t.TempDir(), "*.csv")
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.csv")
	dst := filepath.Join(dir, "site", "cars.csv")
	require.NoError(t, os.WriteFile(src, []byte("Year,Make\n2007,Toyota\n"), 0o644))

	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "Year,Make\n2007,Toyota\n", string(got))
}

func TestCopyFile_MissingSource(t *testing.T) {
	err := CopyFile(filepath.Join(t.TempDir(), "missing.csv"), filepath.Join(t.TempDir(), "out.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
